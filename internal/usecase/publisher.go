package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-page/internal/config"
	"resume-page/internal/domain"
	"resume-page/internal/gate"
	"resume-page/internal/render"
	"resume-page/internal/view"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

var (
	ErrNoStore    = errors.New("no record store configured for db: references")
	ErrNoRenderer = errors.New("pdf renderer not configured")

	// ErrDuplicateSlug is returned by PublishAll when two references would
	// write to the same output directory.
	ErrDuplicateSlug = errors.New("duplicate slug")
)

type Options struct {
	OutputDir string
	// Registry is config.RegistryImmediate or config.RegistryNative.
	Registry     string
	Gate         gate.Options
	PDF          bool
	PDFAttempts  int
	RetryBackoff time.Duration
	Concurrency  int
}

type Publisher struct {
	source RecordLoader
	pages  *render.Renderer
	pdf    Renderer
	opts   Options
	log    *zap.Logger
}

// NewPublisher wires the pipeline. pdf may be nil when PDF output is off.
func NewPublisher(source RecordLoader, pages *render.Renderer, pdf Renderer, opts Options, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.PDFAttempts < 1 {
		opts.PDFAttempts = 3
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = time.Second
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Registry == "" {
		opts.Registry = config.RegistryNative
	}
	opts.Gate.Logger = log
	return &Publisher{source: source, pages: pages, pdf: pdf, opts: opts, log: log}
}

// Publish renders one record reference into <OutputDir>/<slug>/index.html,
// plus a PDF when enabled. A failed PDF does not fail the build; the error
// is recorded in the build metadata and the HTML is kept.
func (p *Publisher) Publish(ctx context.Context, ref string) (*domain.Build, error) {
	b := domain.NewBuild(ref, SlugOf(ref))
	log := p.log.With(zap.String("build", b.ID.String()), zap.String("slug", b.Slug))

	rec, err := p.source.Load(ctx, ref)
	if err != nil {
		b.Fail(err)
		return b, fmt.Errorf("load %s: %w", ref, err)
	}
	vm := view.Bind(rec)

	html, state, err := p.page(ctx, vm, b.ID.String())
	if err != nil {
		b.Fail(err)
		return b, fmt.Errorf("render %s: %w", ref, err)
	}
	b.Metadata["registry"] = p.opts.Registry
	b.Metadata["page_state"] = state.String()

	dir := filepath.Join(p.opts.OutputDir, b.Slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		b.Fail(err)
		return b, err
	}
	b.HTMLPath = filepath.Join(dir, "index.html")
	if err := os.WriteFile(b.HTMLPath, html, 0o644); err != nil {
		b.Fail(err)
		return b, err
	}
	log.Info("page written", zap.String("path", b.HTMLPath), zap.String("state", state.String()))

	if p.opts.PDF {
		pdfBytes, err := p.ExportPDF(ctx, vm, b.ID.String())
		if err != nil {
			if ctx.Err() != nil {
				b.Fail(err)
				return b, err
			}
			log.Warn("pdf export failed, keeping html", zap.Error(err))
			b.Metadata["pdf_render_error"] = err.Error()
		} else {
			ts := time.Now().Format("20060102T150405")
			b.PDFPath = filepath.Join(dir, fmt.Sprintf("%s_%s.pdf", b.Slug, ts))
			if err := os.WriteFile(b.PDFPath, pdfBytes, 0o644); err != nil {
				b.Fail(err)
				return b, err
			}
			log.Info("pdf written", zap.String("path", b.PDFPath), zap.Int("bytes", len(pdfBytes)))
		}
	}

	b.Complete()
	return b, nil
}

// page renders the HTML shipped to visitors. Every page is rendered with
// the client script. With the native registry it stays that way: the page
// is hidden and the visitor's browser performs the reveal. With the
// immediate registry the gate runs here, over the parsed page, and the
// script is removed once the page is visible.
func (p *Publisher) page(ctx context.Context, vm view.ViewModel, buildID string) ([]byte, gate.State, error) {
	po := render.PageOptions{ClientGate: true, BuildID: buildID}
	if p.opts.Registry == config.RegistryNative {
		html, err := p.pages.Render(vm, po)
		return html, gate.Hidden, err
	}

	doc, err := p.pages.RenderDocument(vm, po)
	if err != nil {
		return nil, gate.Hidden, err
	}
	g := gate.New(gate.Immediate(), doc, p.opts.Gate)
	if err := g.Arm(ctx); err != nil {
		return nil, g.State(), err
	}
	doc.RemoveScript(render.GateScriptID)
	html, err := doc.HTML()
	return html, g.State(), err
}

// ExportPDF renders vm without the client script and prints it. The PDF
// renderer runs the gate against the live page itself. Attempts are
// retried with exponential backoff; output must carry the %PDF signature.
func (p *Publisher) ExportPDF(ctx context.Context, vm view.ViewModel, buildID string) ([]byte, error) {
	if p.pdf == nil {
		return nil, ErrNoRenderer
	}
	html, err := p.pages.Render(vm, render.PageOptions{BuildID: buildID})
	if err != nil {
		return nil, err
	}

	var (
		pdfBytes  []byte
		renderErr error
	)
	for i := 0; i < p.opts.PDFAttempts; i++ {
		pdfBytes, renderErr = p.pdf.RenderHTMLToPDF(ctx, string(html))
		if renderErr == nil {
			if len(pdfBytes) > 0 && strings.HasPrefix(string(pdfBytes), "%PDF") {
				return pdfBytes, nil
			}
			renderErr = fmt.Errorf("invalid PDF output (len=%d)", len(pdfBytes))
		}
		p.log.Warn("render attempt failed", zap.Int("attempt", i+1), zap.Error(renderErr))
		if i < p.opts.PDFAttempts-1 {
			backoff := time.Duration(1<<i) * p.opts.RetryBackoff
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, fmt.Errorf("rendering failed after %d attempts: %w", p.opts.PDFAttempts, renderErr)
}

// Export loads ref and writes its PDF to outPath.
func (p *Publisher) Export(ctx context.Context, ref, outPath string) (*domain.Build, error) {
	b := domain.NewBuild(ref, SlugOf(ref))

	rec, err := p.source.Load(ctx, ref)
	if err != nil {
		b.Fail(err)
		return b, fmt.Errorf("load %s: %w", ref, err)
	}
	pdfBytes, err := p.ExportPDF(ctx, view.Bind(rec), b.ID.String())
	if err != nil {
		b.Fail(err)
		return b, err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		b.Fail(err)
		return b, err
	}
	if err := os.WriteFile(outPath, pdfBytes, 0o644); err != nil {
		b.Fail(err)
		return b, err
	}
	b.PDFPath = outPath
	b.Complete()
	return b, nil
}

// PublishAll publishes every reference, at most Concurrency at a time.
// All references are attempted; the returned error joins the failures.
// builds[i] belongs to refs[i]. References sharing a slug are rejected
// before anything is written.
func (p *Publisher) PublishAll(ctx context.Context, refs []string) ([]*domain.Build, error) {
	if err := checkSlugs(refs); err != nil {
		return nil, err
	}
	builds := make([]*domain.Build, len(refs))
	cp := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(p.opts.Concurrency)
	for i, ref := range refs {
		i, ref := i, ref // per-iteration copy; module targets go 1.21 loop semantics
		cp.Go(func(ctx context.Context) error {
			b, err := p.Publish(ctx, ref)
			builds[i] = b
			return err
		})
	}
	err := cp.Wait()
	return builds, err
}

func checkSlugs(refs []string) error {
	seen := make(map[string]string, len(refs))
	for _, ref := range refs {
		slug := SlugOf(ref)
		if first, ok := seen[slug]; ok {
			return fmt.Errorf("%w %q: %s and %s", ErrDuplicateSlug, slug, first, ref)
		}
		seen[slug] = ref
	}
	return nil
}
