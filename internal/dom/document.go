// Package dom is the static document host: a parsed HTML page that the
// visibility gate can mutate before the page is written out.
package dom

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrMountPointMissing   = errors.New("mount point not found")
	ErrMountPointAmbiguous = errors.New("mount point matches more than one element")
	ErrNoBody              = errors.New("document has no body element")
)

type Document struct {
	doc *goquery.Document
}

func Parse(html []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

func (d *Document) body() (*goquery.Selection, error) {
	body := d.doc.Find("body")
	if body.Length() == 0 {
		return nil, ErrNoBody
	}
	return body.First(), nil
}

// RemoveBodyClass implements gate.Document.
func (d *Document) RemoveBodyClass(_ context.Context, class string) error {
	body, err := d.body()
	if err != nil {
		return err
	}
	body.RemoveClass(class)
	if v, ok := body.Attr("class"); ok && v == "" {
		body.RemoveAttr("class")
	}
	return nil
}

func (d *Document) HasBodyClass(class string) bool {
	body, err := d.body()
	if err != nil {
		return false
	}
	return body.HasClass(class)
}

// CheckMount requires exactly one element matching selector.
func (d *Document) CheckMount(selector string) error {
	switch n := d.doc.Find(selector).Length(); {
	case n == 0:
		return fmt.Errorf("%w: %s", ErrMountPointMissing, selector)
	case n > 1:
		return fmt.Errorf("%w: %s (%d)", ErrMountPointAmbiguous, selector, n)
	}
	return nil
}

// RemoveScript drops the <script> with the given id, if any.
func (d *Document) RemoveScript(id string) {
	d.doc.Find("script#" + id).Remove()
}

func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// HTML serializes the whole document, doctype included.
func (d *Document) HTML() ([]byte, error) {
	s, err := goquery.OuterHtml(d.doc.Selection)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
