package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRow scans a canned JSONB payload or returns err.
type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.data
	return nil
}

// fakeDB answers QueryRow from a slug-keyed table.
type fakeDB struct {
	rows    map[string][]byte
	err     error
	lastSQL string
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	f.lastSQL = sql
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	data, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{data: data}
}

func TestRecordsRepo_NoPool(t *testing.T) {
	_, err := NewRecordsRepo(nil).Get(context.Background(), "minuth")
	require.ErrorIs(t, err, ErrNoDatabase)

	var nilRepo *RecordsRepo
	_, err = nilRepo.Get(context.Background(), "minuth")
	require.ErrorIs(t, err, ErrNoDatabase)

	require.NotPanics(t, func() { nilRepo.Close() })
}

func TestRecordsRepo_Get(t *testing.T) {
	db := &fakeDB{rows: map[string][]byte{
		"ada": []byte(`{"firstName":"Ada","lastName":"Lovelace","country":"UK",
			"employmentHistory":[{"jobTitle":"Analyst","employer":"Babbage",
			"achievements":[{"projectName":"Note G"}]}]}`),
		"broken": []byte(`{"firstName":`),
	}}
	repo := &RecordsRepo{db: db}

	rec, err := repo.Get(context.Background(), "ada")
	require.NoError(t, err)
	assert.Equal(t, getRecordSQL, db.lastSQL)
	assert.Equal(t, "Lovelace", rec.LastName)
	assert.Equal(t, "UK", rec.Country)
	require.Len(t, rec.EmploymentHistory, 1)
	require.Len(t, rec.EmploymentHistory[0].Achievements, 1)
	assert.Equal(t, "Note G", rec.EmploymentHistory[0].Achievements[0].ProjectName)

	_, err = repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrRecordNotFound)
	assert.Contains(t, err.Error(), "ghost")

	_, err = repo.Get(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRecordNotFound)
	assert.Contains(t, err.Error(), "decode record broken")
}

func TestRecordsRepo_QueryError(t *testing.T) {
	repo := &RecordsRepo{db: &fakeDB{err: errors.New("connection reset")}}

	_, err := repo.Get(context.Background(), "ada")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRecordNotFound)
	assert.Contains(t, err.Error(), "query record ada: connection reset")
}
