package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/bpmnav/internal/db"
	"github.com/ziadkadry99/bpmnav/internal/errs"
)

// Store provides catalog operations over recorded exports.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts an export and its diagrams. If entry.ID is empty a UUID is
// generated; a zero ExportedAt means now. The stored ID is returned.
func (s *Store) Record(ctx context.Context, entry Entry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.ExportedAt.IsZero() {
		entry.ExportedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO exports (
			id, exported_at, project, path, mode,
			total_processes, total_shapes, bytes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.ExportedAt.UTC().Format(time.DateTime),
		entry.Project,
		entry.Path,
		entry.Mode,
		entry.TotalProcesses,
		entry.TotalShapes,
		entry.Bytes,
	)
	if err != nil {
		return "", fmt.Errorf("inserting export: %w", err)
	}

	for _, d := range entry.Diagrams {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO export_diagrams (export_id, idx, title, filename, shapes)
			VALUES (?, ?, ?, ?, ?)`,
			entry.ID, d.Index, d.Title, d.Filename, d.Shapes,
		)
		if err != nil {
			return "", fmt.Errorf("inserting diagram %d: %w", d.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing export: %w", err)
	}
	return entry.ID, nil
}

// Get retrieves one export with its diagrams.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM exports WHERE id = ?", id)
	e, err := scanInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.ErrCodeNotFound, "export %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, title, filename, shapes FROM export_diagrams
		WHERE export_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("querying diagrams: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d Diagram
		if err := rows.Scan(&d.Index, &d.Title, &d.Filename, &d.Shapes); err != nil {
			return nil, err
		}
		e.Diagrams = append(e.Diagrams, d)
	}
	return e, rows.Err()
}

// QueryFilter controls which exports List returns.
type QueryFilter struct {
	Project string
	Since   *time.Time
	Limit   int
	Offset  int
}

// List returns exports matching the filter, newest first, without diagrams.
func (s *Store) List(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Project != "" {
		clauses = append(clauses, "project = ?")
		args = append(args, filter.Project)
	}
	if filter.Since != nil {
		clauses = append(clauses, "exported_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}

	query := "SELECT " + columns + " FROM exports"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY exported_at DESC, id"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying exports: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanInto(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// DeleteBefore removes all exports older than the given time.
// Returns the number of deleted rows.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM exports WHERE exported_at < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old exports: %w", err)
	}
	return res.RowsAffected()
}

const columns = "id, exported_at, project, path, mode, total_processes, total_shapes, bytes"

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanInto(sc scanner) (*Entry, error) {
	var (
		e  Entry
		ts string
	)
	err := sc.Scan(&e.ID, &ts, &e.Project, &e.Path, &e.Mode, &e.TotalProcesses, &e.TotalShapes, &e.Bytes)
	if err != nil {
		return nil, err
	}

	if t, parseErr := time.Parse(time.DateTime, ts); parseErr == nil {
		e.ExportedAt = t
	} else if t, parseErr := time.Parse(time.RFC3339, ts); parseErr == nil {
		e.ExportedAt = t
	}
	return &e, nil
}
