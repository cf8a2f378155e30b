package repository

import (
	"context"
	"errors"
	"fmt"

	"resume-page/internal/model"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var (
	ErrNoDatabase     = errors.New("records database not configured")
	ErrRecordNotFound = errors.New("record not found")
)

// rowQuerier is the part of *pgxpool.Pool the repository reads through.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// RecordsRepo reads résumé records stored as JSONB. It never writes.
type RecordsRepo struct {
	pool *pgxpool.Pool
	db   rowQuerier
}

func NewRecordsRepo(pool *pgxpool.Pool) *RecordsRepo {
	r := &RecordsRepo{pool: pool}
	if pool != nil {
		r.db = pool
	}
	return r
}

// The table is owned by whoever publishes records:
//
//	CREATE TABLE resume_records (
//	    slug       TEXT PRIMARY KEY,
//	    data       JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//
// data holds one record in the same camelCase shape as the record files.
const getRecordSQL = `SELECT data FROM resume_records WHERE slug = $1 LIMIT 1`

// Get loads the record published under slug.
func (r *RecordsRepo) Get(ctx context.Context, slug string) (model.ResumeRecord, error) {
	if r == nil || r.db == nil {
		return model.ResumeRecord{}, ErrNoDatabase
	}

	var raw []byte
	err := r.db.QueryRow(ctx, getRecordSQL, slug).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ResumeRecord{}, fmt.Errorf("%w: %s", ErrRecordNotFound, slug)
	}
	if err != nil {
		return model.ResumeRecord{}, fmt.Errorf("query record %s: %w", slug, err)
	}
	rec, err := model.Decode(raw, model.FormatJSON)
	if err != nil {
		return model.ResumeRecord{}, fmt.Errorf("decode record %s: %w", slug, err)
	}
	return rec, nil
}

func (r *RecordsRepo) Close() {
	if r != nil && r.pool != nil {
		r.pool.Close()
	}
}
