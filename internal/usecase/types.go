package usecase

import (
	"context"
	"path/filepath"
	"strings"

	"resume-page/internal/model"
)

// Renderer turns a page into PDF bytes.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// RecordStore is a keyed record backend such as the Postgres repository.
type RecordStore interface {
	Get(ctx context.Context, slug string) (model.ResumeRecord, error)
}

// RecordLoader resolves a record reference.
type RecordLoader interface {
	Load(ctx context.Context, ref string) (model.ResumeRecord, error)
}

// DBRefPrefix marks references served by the record store, e.g. "db:minuth".
const DBRefPrefix = "db:"

// Source resolves file paths from disk and db:<slug> references from the
// store.
type Source struct {
	store RecordStore
}

// NewSource accepts a nil store; db: references then fail.
func NewSource(store RecordStore) *Source {
	return &Source{store: store}
}

func (s *Source) Load(ctx context.Context, ref string) (model.ResumeRecord, error) {
	if slug, ok := strings.CutPrefix(ref, DBRefPrefix); ok {
		if s.store == nil {
			return model.ResumeRecord{}, ErrNoStore
		}
		return s.store.Get(ctx, slug)
	}
	return model.LoadFile(ref)
}

// SlugOf names the output directory of a reference.
func SlugOf(ref string) string {
	if slug, ok := strings.CutPrefix(ref, DBRefPrefix); ok {
		return slug
	}
	base := filepath.Base(ref)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
