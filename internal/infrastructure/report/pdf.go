package report

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var ErrDisabled = errors.New("pdf export disabled")

type Printer interface {
	PrintPDF(ctx context.Context, html []byte) ([]byte, error)
}

// ChromePrinter starts a headless browser per document.
type ChromePrinter struct {
	timeout time.Duration
	logger  *log.Logger
}

func NewChromePrinter(timeout time.Duration, logger *log.Logger) *ChromePrinter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ChromePrinter{timeout: timeout, logger: logger}
}

func (p *ChromePrinter) PrintPDF(ctx context.Context, html []byte) ([]byte, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	runCtx, cancel := context.WithTimeout(browserCtx, p.timeout)
	defer cancel()

	start := time.Now()
	var pdf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			pdf = buf
			return err
		}),
	)
	if err != nil {
		p.logger.Printf("[Report] pdf print failed duration_ms=%d error=%v", time.Since(start).Milliseconds(), err)
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	p.logger.Printf("[Report] pdf printed bytes=%d duration_ms=%d", len(pdf), time.Since(start).Milliseconds())
	return pdf, nil
}

// DisabledPrinter is wired when REPORT_ENABLED=false.
type DisabledPrinter struct{}

func (DisabledPrinter) PrintPDF(context.Context, []byte) ([]byte, error) {
	return nil, ErrDisabled
}

var (
	_ Printer = (*ChromePrinter)(nil)
	_ Printer = DisabledPrinter{}
)
