package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Build describes one rendering of a record into page artifacts.
type Build struct {
	ID        uuid.UUID              `json:"id"`
	Source    string                 `json:"source"`
	Slug      string                 `json:"slug"`
	Status    string                 `json:"status"`
	HTMLPath  string                 `json:"html_path"`
	PDFPath   string                 `json:"pdf_path,omitempty"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func NewBuild(source, slug string) *Build {
	now := time.Now()
	return &Build{
		ID:        uuid.New(),
		Source:    source,
		Slug:      slug,
		Status:    StatusPending,
		Metadata:  map[string]interface{}{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (b *Build) Complete() {
	b.Status = StatusCompleted
	b.UpdatedAt = time.Now()
}

func (b *Build) Fail(err error) {
	b.Status = StatusFailed
	b.Metadata["error"] = err.Error()
	b.UpdatedAt = time.Now()
}
