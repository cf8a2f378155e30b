// Package render executes the résumé page template for a bound view model.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"resume-page/internal/dom"
	"resume-page/internal/gate"
	"resume-page/internal/view"
)

// MountSelector is the element the view model is rendered into.
const MountSelector = "#app"

// GateScriptID is the id of the inline guard script emitted for browsers.
const GateScriptID = "visibility-gate"

//go:embed templates/*
var templatesFS embed.FS

type Options struct {
	Element     string
	HiddenClass string
}

type PageOptions struct {
	// ClientGate emits the inline script that reveals the page in the
	// visitor's browser once the custom element is defined.
	ClientGate bool
	BuildID    string
}

type Renderer struct {
	tpl  *template.Template
	css  template.CSS
	opts Options
}

type pageData struct {
	View        view.ViewModel
	CSS         template.CSS
	Element     string
	HiddenClass string
	ClientGate  bool
	BuildID     string
}

func New(opts Options) (*Renderer, error) {
	if opts.Element == "" {
		opts.Element = gate.DefaultElement
	}
	if opts.HiddenClass == "" {
		opts.HiddenClass = gate.DefaultHiddenClass
	}
	tpl, err := template.New("index.html").
		Funcs(template.FuncMap{"linkLabel": view.LinkLabel}).
		ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	css, err := templatesFS.ReadFile("templates/style.css")
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	// stylesheet ships with the binary, not with user input
	return &Renderer{tpl: tpl, css: template.CSS(css), opts: opts}, nil
}

// Render executes the page and checks that the output exposes exactly one
// mount point.
func (r *Renderer) Render(vm view.ViewModel, po PageOptions) ([]byte, error) {
	html, _, err := r.render(vm, po)
	return html, err
}

// RenderDocument is Render for callers that mutate the page before writing
// it.
func (r *Renderer) RenderDocument(vm view.ViewModel, po PageOptions) (*dom.Document, error) {
	_, doc, err := r.render(vm, po)
	return doc, err
}

func (r *Renderer) render(vm view.ViewModel, po PageOptions) ([]byte, *dom.Document, error) {
	var buf bytes.Buffer
	data := pageData{
		View:        vm,
		CSS:         r.css,
		Element:     r.opts.Element,
		HiddenClass: r.opts.HiddenClass,
		ClientGate:  po.ClientGate,
		BuildID:     po.BuildID,
	}
	if err := r.tpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		return nil, nil, fmt.Errorf("execute page template: %w", err)
	}

	doc, err := dom.Parse(buf.Bytes())
	if err != nil {
		return nil, nil, err
	}
	if err := doc.CheckMount(MountSelector); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), doc, nil
}
