package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/infrastructure/config"
)

// Paper dimensions in inches for PrintToPDF
var paperSizes = map[string][2]float64{
	"A4":     {8.27, 11.69},
	"letter": {8.5, 11},
}

// PDFRenderer converts an HTML document to PDF bytes
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// ChromedpRenderer renders HTML to PDF through a headless Chrome
// instance using the DevTools protocol
type ChromedpRenderer struct {
	timeout     time.Duration
	paperWidth  float64
	paperHeight float64
	logger      *zap.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates a renderer and its Chrome allocator.
// Close must be called to release the browser.
func NewChromedpRenderer(cfg *config.ReportConfig, logger *zap.Logger) (*ChromedpRenderer, error) {
	size, ok := paperSizes[cfg.PageSize]
	if !ok {
		return nil, fmt.Errorf("report: unsupported page size %q", cfg.PageSize)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		// Required when Chrome runs inside a container
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("font-render-hinting", "none"),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpRenderer{
		timeout:     cfg.RenderTimeout,
		paperWidth:  size[0],
		paperHeight: size[1],
		logger:      logger,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// RenderHTML prints the document to PDF
func (r *ChromedpRenderer) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, fmt.Errorf("report: empty document")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()

	start := time.Now()
	var pdf []byte

	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(r.paperWidth).
				WithPaperHeight(r.paperHeight).
				WithMarginTop(0.4).
				WithMarginRight(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("report: rendering timed out after %v", r.timeout)
		}
		return nil, fmt.Errorf("report: chromedp execution failed: %w", err)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("report: generated PDF is empty")
	}

	r.logger.Debug("report rendered",
		zap.Int("bytes", len(pdf)),
		zap.Duration("duration", time.Since(start)),
	)
	return pdf, nil
}

// Close releases the Chrome allocator
func (r *ChromedpRenderer) Close() {
	r.allocCancel()
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
