// Package store keeps named saved queries in a SQLite database.
//
// A saved query is stored in its key/value form (see query.Filter.Values),
// one row per key, so older databases keep loading when filter keys are
// added.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

var (
	ErrNotFound = errors.New("query not found")
	ErrInvalid  = errors.New("invalid query name")
	timeNow     = func() time.Time { return time.Now().UTC() }
)

// Query is a saved filter in key/value form.
type Query struct {
	ID        string
	Name      string
	Values    map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a handle on the saved query database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS queries (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS query_values (
	query_id TEXT NOT NULL REFERENCES queries(id) ON DELETE CASCADE,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (query_id, key)
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Save stores values under name, replacing any query with the same name.
func (s *Store) Save(ctx context.Context, name string, values map[string]string) (Query, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return Query{}, fmt.Errorf("%w: %q", ErrInvalid, name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Query{}, err
	}
	defer tx.Rollback()

	now := timeNow()
	q := Query{Name: name, Values: values, CreatedAt: now, UpdatedAt: now}

	var created string
	err = tx.QueryRowContext(ctx, `SELECT id, created_at FROM queries WHERE name = ?;`, name).Scan(&q.ID, &created)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		q.ID = newULID()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO queries (id, name, created_at, updated_at) VALUES (?, ?, ?, ?);`,
			q.ID, name, formatTime(now), formatTime(now)); err != nil {
			return Query{}, err
		}
	case err != nil:
		return Query{}, err
	default:
		q.CreatedAt = parseTime(created)
		if _, err := tx.ExecContext(ctx, `UPDATE queries SET updated_at = ? WHERE id = ?;`, formatTime(now), q.ID); err != nil {
			return Query{}, err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM query_values WHERE query_id = ?;`, q.ID); err != nil {
			return Query{}, err
		}
	}

	for k, v := range values {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO query_values (query_id, key, value) VALUES (?, ?, ?);`, q.ID, k, v); err != nil {
			return Query{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Get returns the query called name.
func (s *Store) Get(ctx context.Context, name string) (Query, error) {
	var q Query
	var created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM queries WHERE name = ?;`, name).
		Scan(&q.ID, &q.Name, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Query{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return Query{}, err
	}
	q.CreatedAt = parseTime(created)
	q.UpdatedAt = parseTime(updated)
	if q.Values, err = s.values(ctx, q.ID); err != nil {
		return Query{}, err
	}
	return q, nil
}

// List returns all saved queries ordered by name.
func (s *Store) List(ctx context.Context) ([]Query, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, created_at, updated_at FROM queries ORDER BY name;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Query
	for rows.Next() {
		var q Query
		var created, updated string
		if err := rows.Scan(&q.ID, &q.Name, &created, &updated); err != nil {
			return nil, err
		}
		q.CreatedAt = parseTime(created)
		q.UpdatedAt = parseTime(updated)
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range out {
		if out[i].Values, err = s.values(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Names returns the saved query names in order.
func (s *Store) Names(ctx context.Context) ([]string, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(list))
	for i, q := range list {
		names[i] = q.Name
	}
	return names, nil
}

// Delete removes the query called name.
func (s *Store) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx, `SELECT id FROM queries WHERE name = ?;`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM query_values WHERE query_id = ?;`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM queries WHERE id = ?;`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) values(ctx context.Context, id string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM query_values WHERE query_id = ?;`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		values[k] = v
	}
	return values, rows.Err()
}

func sqliteDSN(path string) string {
	u := url.URL{Scheme: "file", Path: path}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "foreign_keys(1)")
	u.RawQuery = q.Encode()
	return u.String()
}

func newULID() string {
	id, err := ulid.New(ulid.Timestamp(timeNow()), ulid.Monotonic(randReader{}, 0))
	if err != nil {
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return id.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
