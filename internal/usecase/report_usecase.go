package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log"
	"time"

	"skill-upcycle/internal/domain/analysis"
	"skill-upcycle/internal/domain/skillgraph"
	"skill-upcycle/internal/infrastructure/report"
	"skill-upcycle/internal/session"
)

type ReportUsecase interface {
	// ReportHTML renders the printable page for one of the user's analyses.
	ReportHTML(ctx context.Context, sess session.Session, analysisID int64) ([]byte, error)
	ReportPDF(ctx context.Context, sess session.Session, analysisID int64) ([]byte, error)
}

type Report struct {
	dashboard DashboardUsecase
	printer   report.Printer
	logger    *log.Logger
	now       func() time.Time
}

func NewReportUsecase(dashboard DashboardUsecase, printer report.Printer, logger *log.Logger) *Report {
	if printer == nil {
		printer = report.DisabledPrinter{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Report{dashboard: dashboard, printer: printer, logger: logger, now: time.Now}
}

func (u *Report) ReportHTML(ctx context.Context, sess session.Session, analysisID int64) ([]byte, error) {
	d, err := u.dashboard.GetDashboard(ctx, sess, sess.UserID)
	if err != nil {
		return nil, err
	}
	r, err := u.dashboard.GetAnalysis(ctx, sess, analysisID)
	if err != nil {
		return nil, err
	}

	data := report.Data{
		Title:       fmt.Sprintf("Relatório de análise #%d", r.ID),
		Greeting:    d.Greeting,
		GeneratedAt: u.now().Format("02/01/2006 15:04"),
		Summary:     analysis.SummaryOf(&r),
		Message:     r.Message,
		Skills:      report.SkillRows(r.Skills),
		Routes:      r.Routes,
	}
	if !r.CreatedAt.IsZero() {
		data.AnalysedAt = r.CreatedAt.Format("02/01/2006")
	}
	if len(r.Skills) > 0 {
		var svg bytes.Buffer
		l := skillgraph.ComputeLayout(r.Skills, r.Routes)
		if err := skillgraph.RenderSVG(&svg, l, skillgraph.RenderOptions{}); err != nil {
			return nil, fmt.Errorf("render graph: %w", err)
		}
		data.Graph = template.HTML(svg.String())
	}

	var buf bytes.Buffer
	if err := report.RenderHTML(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (u *Report) ReportPDF(ctx context.Context, sess session.Session, analysisID int64) ([]byte, error) {
	html, err := u.ReportHTML(ctx, sess, analysisID)
	if err != nil {
		return nil, err
	}
	pdf, err := u.printer.PrintPDF(ctx, html)
	if err != nil {
		if errors.Is(err, report.ErrDisabled) {
			return nil, ErrReportDisabled
		}
		u.logger.Printf("[Report] print failed user=%d analysis=%d error=%v", sess.UserID, analysisID, err)
		return nil, ErrInternal
	}
	return pdf, nil
}

var _ ReportUsecase = (*Report)(nil)
