package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/IDGORRU/pars"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ pars.RunService = (*RunService)(nil)

// RunService implements pars.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun creates a new run with status running.
func (s *RunService) CreateRun(ctx context.Context, run *pars.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.Status = pars.RunRunning
	run.ResultCount = 0
	run.CreatedAt = time.Now().UTC()
	run.CompletedAt = nil

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, url, mode, status, proxy_url, result_count, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
	`, run.ID, run.URL, string(run.Mode), string(run.Status), run.ProxyURL, formatTime(run.CreatedAt))

	return err
}

// AppendResults stores records after those already stored for the run.
// Records whose identity was already stored are skipped.
func (s *RunService) AppendResults(ctx context.Context, runID string, records []pars.Record) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE((SELECT MAX(position) + 1 FROM results WHERE run_id = r.id), 0)
		FROM runs r
		WHERE r.id = ?
	`, runID).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return pars.Errorf(pars.ENOTFOUND, "run not found")
	}
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO results (id, run_id, position, mode, title, content, source, record_key, key_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := formatTime(time.Now())
	for _, r := range records {
		v := pars.View(r)
		res, err := stmt.ExecContext(ctx,
			uuid.New().String(), runID, next, string(v.Mode), v.Title, v.Content, string(v.Source), v.Key,
			keyHash(r, next), now)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			next++
		}
	}

	return tx.Commit()
}

// CloseRun sets the final status of a run and stamps its completion time.
func (s *RunService) CloseRun(ctx context.Context, runID string, status pars.RunStatus, resultCount int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET status = ?, result_count = ?, completed_at = ?
		WHERE id = ?
	`, string(status), resultCount, formatTime(time.Now()), runID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pars.Errorf(pars.ENOTFOUND, "run not found")
	}
	return nil
}

const runColumns = "id, url, mode, status, proxy_url, result_count, created_at, completed_at"

// FindRunByID retrieves a run by ID.
func (s *RunService) FindRunByID(ctx context.Context, id string) (*pars.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, pars.Errorf(pars.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter pars.RunFilter) ([]*pars.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + runColumns + " FROM runs WHERE 1=1")

	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}
	if filter.Mode != nil {
		query.WriteString(" AND mode = ?")
		args = append(args, string(*filter.Mode))
	}
	if filter.Status != nil {
		query.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*pars.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FindResults retrieves the stored results of a run in insertion order.
func (s *RunService) FindResults(ctx context.Context, runID string) ([]pars.RecordView, error) {
	if _, err := s.FindRunByID(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT mode, title, content, source, record_key
		FROM results
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := []pars.RecordView{}
	for rows.Next() {
		var v pars.RecordView
		var mode, source string
		if err := rows.Scan(&mode, &v.Title, &v.Content, &source, &v.Key); err != nil {
			return nil, err
		}
		v.Mode = pars.Mode(mode)
		v.Source = pars.Provenance(source)
		views = append(views, v)
	}
	return views, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*pars.Run, error) {
	var run pars.Run
	var mode, status, createdAt string
	var completedAt sql.NullString

	if err := row.Scan(&run.ID, &run.URL, &mode, &status, &run.ProxyURL, &run.ResultCount,
		&createdAt, &completedAt); err != nil {
		return nil, err
	}
	run.Mode = pars.Mode(mode)
	run.Status = pars.RunStatus(status)

	var err error
	if run.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t, err := parseRFC3339(completedAt.String, "completed_at")
		if err != nil {
			return nil, err
		}
		run.CompletedAt = &t
	}
	return &run, nil
}
