// Package report renders an analysis as a printable HTML page and turns it
// into a PDF through headless Chrome.
package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"skill-upcycle/internal/domain/analysis"
	"skill-upcycle/internal/domain/skillgraph"
)

//go:embed template.html
var pageTemplate string

var reportPage = template.Must(template.New("report").Parse(pageTemplate))

type SkillRow struct {
	Name           string
	Longevity      string
	YearsRemaining string
	RiskPercent    int
	Category       string
	Tier           analysis.CardTier
}

type Data struct {
	Title       string
	Greeting    string
	AnalysedAt  string
	GeneratedAt string
	Summary     analysis.Summary
	Message     string
	Skills      []SkillRow
	Routes      []analysis.TransitionRoute
	// Graph is the rendered SVG. It is trusted markup from skillgraph.
	Graph      template.HTML
	Legend     []skillgraph.LegendEntry
	EmptyState string
}

func SkillRows(skills []analysis.Skill) []SkillRow {
	out := make([]SkillRow, 0, len(skills))
	for _, s := range skills {
		years := "N/A"
		if s.YearsRemaining != nil && *s.YearsRemaining > 0 {
			years = fmt.Sprintf("%d", *s.YearsRemaining)
		}
		out = append(out, SkillRow{
			Name:           s.Name,
			Longevity:      s.Longevity,
			YearsRemaining: years,
			RiskPercent:    analysis.RiskPercent(s.Risk),
			Category:       s.Category,
			Tier:           analysis.CardTierOf(s.Risk),
		})
	}
	return out
}

func RenderHTML(w io.Writer, d Data) error {
	if d.EmptyState == "" {
		d.EmptyState = skillgraph.EmptyStateMessage
	}
	if d.Legend == nil {
		d.Legend = skillgraph.Legend
	}
	if err := reportPage.Execute(w, d); err != nil {
		return fmt.Errorf("render report html: %w", err)
	}
	return nil
}
