package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"resume-page/internal/gate"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

var ErrPageHidden = errors.New("page still hidden")

type RendererOptions struct {
	ChromePath string
	// Timeout covers browser start, page load, the gate wait and printing.
	Timeout time.Duration
	Gate    gate.Options
}

type ChromedpRenderer struct {
	opts RendererOptions
	log  *zap.Logger
}

func NewChromedpRenderer(opts RendererOptions, log *zap.Logger) *ChromedpRenderer {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	opts.Gate.Logger = log
	return &ChromedpRenderer{opts: opts, log: log}
}

// RenderHTMLToPDF loads html in headless Chrome, waits for the visibility
// gate to reveal the page, then prints it as A4.
func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.opts.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.opts.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	cctx, cancelCtx := chromedp.NewContext(allocCtx)
	defer cancelCtx()

	tctx, cancelTimeout := context.WithTimeout(cctx, r.opts.Timeout)
	defer cancelTimeout()

	tmpDir, err := os.MkdirTemp("", "resume-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, err
	}

	if err := chromedp.Run(tctx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}

	g := gate.New(NewElementRegistry(r.log), LiveDocument{}, r.opts.Gate)
	if err := g.Arm(tctx); err != nil {
		return nil, err
	}
	select {
	case <-g.Done():
		if err := g.Err(); err != nil {
			return nil, err
		}
	case <-tctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrPageHidden, tctx.Err())
	}

	var pdfBuf []byte
	err = chromedp.Run(tctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdfBuf, _, err = page.PrintToPDF().WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuf, nil
}
