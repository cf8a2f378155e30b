package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	repo "resume-page/internal/adapter/repository"
	"resume-page/internal/config"
	"resume-page/internal/gate"
	"resume-page/internal/logging"
	"resume-page/internal/model"
	"resume-page/internal/render"
	"resume-page/internal/usecase"
	infra "resume-page/pkg/infrastructure"

	"go.uber.org/zap"
)

const usageText = `usage:
  resumepage build  [-config file] [-pdf] <record>...
  resumepage export [-config file] -o out.pdf <record>
  resumepage lint   <record-file>...

A record is a .json/.yaml file or db:<slug>.
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return 2
	}
	switch args[0] {
	case "build":
		return runBuild(ctx, args[1:], stdout, stderr)
	case "export":
		return runExport(ctx, args[1:], stdout, stderr)
	case "lint":
		return runLint(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usageText)
		return 0
	}
	fmt.Fprintf(stderr, "unknown command %q\n%s", args[0], usageText)
	return 2
}

// app holds what build and export share.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	publisher *usecase.Publisher
	records   *repo.RecordsRepo
}

func (a *app) close() {
	a.records.Close()
	_ = a.log.Sync()
}

// newApp wires config, logging, the record store and the publisher. PDF
// output is on when forcePDF is set or pdf.enabled is true.
func newApp(ctx context.Context, configPath string, refs []string, forcePDF bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	withPDF := forcePDF || cfg.PDF.Enabled
	log, err := logging.NewLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	gateOpts := gate.Options{
		Element:       cfg.Gate.Element,
		HiddenClass:   cfg.Gate.HiddenClass,
		RevealTimeout: cfg.Gate.RevealTimeout,
	}

	pages, err := render.New(render.Options{Element: cfg.Gate.Element, HiddenClass: cfg.Gate.HiddenClass})
	if err != nil {
		return nil, err
	}

	// the database is only touched when a db: reference is requested
	var records *repo.RecordsRepo
	var store usecase.RecordStore
	for _, ref := range refs {
		if strings.HasPrefix(ref, usecase.DBRefPrefix) {
			pool, err := infra.NewRecordsPool(ctx, cfg.DB.URL)
			if err != nil {
				return nil, fmt.Errorf("records database: %w", err)
			}
			records = repo.NewRecordsRepo(pool)
			store = records
			break
		}
	}

	var pdf usecase.Renderer
	if withPDF {
		pdf = infra.NewChromedpRenderer(infra.RendererOptions{
			ChromePath: cfg.PDF.ChromePath,
			Timeout:    cfg.PDF.Timeout,
			Gate:       gateOpts,
		}, log.Named("chromedp"))
	}

	publisher := usecase.NewPublisher(usecase.NewSource(store), pages, pdf, usecase.Options{
		OutputDir:   cfg.Output.Dir,
		Registry:    cfg.Gate.Registry,
		Gate:        gateOpts,
		PDF:         withPDF,
		PDFAttempts: cfg.PDF.Attempts,
		Concurrency: cfg.Publish.Concurrency,
	}, log.Named("publisher"))

	return &app{cfg: cfg, log: log, publisher: publisher, records: records}, nil
}

func runBuild(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file")
	pdfFlag := fs.Bool("pdf", false, "also export a PDF per record")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprint(stderr, usageText)
		return 2
	}

	a, err := newApp(ctx, *configPath, fs.Args(), *pdfFlag)
	if err != nil {
		fmt.Fprintf(stderr, "build: %v\n", err)
		return 1
	}
	defer a.close()

	builds, err := a.publisher.PublishAll(ctx, fs.Args())
	for _, b := range builds {
		if b == nil {
			continue
		}
		fmt.Fprintf(stdout, "%s\t%s\t%s\n", b.Status, b.Slug, b.HTMLPath)
		if b.PDFPath != "" {
			fmt.Fprintf(stdout, "%s\t%s\t%s\n", b.Status, b.Slug, b.PDFPath)
		}
	}
	if err != nil {
		a.log.Error("build failed", zap.Error(err))
		fmt.Fprintf(stderr, "build: %v\n", err)
		return 1
	}
	return 0
}

func runExport(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file")
	out := fs.String("o", "resume.pdf", "output PDF path")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprint(stderr, usageText)
		return 2
	}

	a, err := newApp(ctx, *configPath, fs.Args(), true)
	if err != nil {
		fmt.Fprintf(stderr, "export: %v\n", err)
		return 1
	}
	defer a.close()

	b, err := a.publisher.Export(ctx, fs.Arg(0), *out)
	if err != nil {
		if errors.Is(err, infra.ErrPageHidden) {
			a.log.Warn("custom element never defined; set gate.reveal_timeout to print anyway",
				zap.String("element", a.cfg.Gate.Element))
		}
		fmt.Fprintf(stderr, "export: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "%s\t%s\t%s\n", b.Status, b.Slug, b.PDFPath)
	return 0
}

func runLint(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return 2
	}
	code := 0
	for _, path := range args {
		r, err := model.LoadFile(path)
		if err == nil {
			err = model.ValidateRecord(r)
		}
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			code = 1
			continue
		}
		fmt.Fprintf(stdout, "%s: ok\n", path)
	}
	return code
}
