// Package store is the SQLite-backed repository for cases and
// hearings.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"lexbot/internal/logging"
)

// ErrNotFound is returned when no record matches.
var ErrNotFound = errors.New("store: not found")

// Case is one matter of the office, keyed by its docket number.
type Case struct {
	ID         string
	Expediente string
	Cliente    string
	Materia    string
	Estado     string
	Notas      []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Hearing is a scheduled hearing, optionally tied to a case.
type Hearing struct {
	ID         string
	Expediente string // empty when scheduled without a case
	Fecha      string // ISO date
	Hora       string // display time, e.g. "11:00 AM"
	CreatedAt  time.Time
}

// Store wraps the SQLite database. One writer connection; SQLite does
// the rest.
type Store struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s := &Store{db: db, log: logging.Get(logging.CategoryStore)}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	s.log.Debug("store opened", zap.String("path", path))
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS cases (
	id         TEXT PRIMARY KEY,
	expediente TEXT NOT NULL UNIQUE,
	cliente    TEXT NOT NULL DEFAULT '',
	materia    TEXT NOT NULL DEFAULT '',
	estado     TEXT NOT NULL DEFAULT 'abierto',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS case_notes (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	case_id    TEXT NOT NULL REFERENCES cases(id) ON DELETE CASCADE,
	nota       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS hearings (
	id         TEXT PRIMARY KEY,
	expediente TEXT NOT NULL DEFAULT '',
	fecha      TEXT NOT NULL,
	hora       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_hearings_fecha ON hearings(fecha);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// CreateCase inserts a new case. The expediente may be empty; the
// office assigns it later. A generated id is returned on the case.
func (s *Store) CreateCase(ctx context.Context, c Case) (Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt, c.UpdatedAt = now, now
	if c.Estado == "" {
		c.Estado = "abierto"
	}
	if c.Expediente == "" {
		// Placeholder docket keeps the UNIQUE constraint satisfied until
		// the court assigns a real one.
		c.Expediente = "SN-" + c.ID[:8]
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cases (id, expediente, cliente, materia, estado, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Expediente, c.Cliente, c.Materia, c.Estado, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return Case{}, fmt.Errorf("failed to create case: %w", err)
	}
	s.log.Info("case created",
		zap.String("expediente", c.Expediente),
		zap.String("cliente", c.Cliente))
	return c, nil
}

// GetCase fetches a case with its notes by expediente.
func (s *Store) GetCase(ctx context.Context, expediente string) (Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var c Case
	err := s.db.QueryRowContext(ctx, `
		SELECT id, expediente, cliente, materia, estado, created_at, updated_at
		FROM cases WHERE expediente = ?`, expediente).
		Scan(&c.ID, &c.Expediente, &c.Cliente, &c.Materia, &c.Estado, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Case{}, ErrNotFound
	}
	if err != nil {
		return Case{}, fmt.Errorf("failed to get case %s: %w", expediente, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT nota FROM case_notes WHERE case_id = ? ORDER BY id`, c.ID)
	if err != nil {
		return Case{}, fmt.Errorf("failed to load notes for %s: %w", expediente, err)
	}
	defer rows.Close()
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return Case{}, err
		}
		c.Notas = append(c.Notas, n)
	}
	return c, rows.Err()
}

// UpdateCase sets the estado and/or appends a nota on an existing case.
// Empty arguments leave the corresponding field untouched.
func (s *Store) UpdateCase(ctx context.Context, expediente, estado, nota string) (Case, error) {
	s.mu.Lock()

	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM cases WHERE expediente = ?`, expediente).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		s.mu.Unlock()
		return Case{}, ErrNotFound
	}
	if err != nil {
		s.mu.Unlock()
		return Case{}, fmt.Errorf("failed to find case %s: %w", expediente, err)
	}

	now := time.Now().UTC()
	if estado != "" {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE cases SET estado = ?, updated_at = ? WHERE id = ?`,
			estado, now, id); err != nil {
			s.mu.Unlock()
			return Case{}, fmt.Errorf("failed to update estado for %s: %w", expediente, err)
		}
	}
	if nota != "" {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO case_notes (case_id, nota, created_at) VALUES (?, ?, ?)`,
			id, nota, now); err != nil {
			s.mu.Unlock()
			return Case{}, fmt.Errorf("failed to add note to %s: %w", expediente, err)
		}
		if _, err := s.db.ExecContext(ctx,
			`UPDATE cases SET updated_at = ? WHERE id = ?`, now, id); err != nil {
			s.mu.Unlock()
			return Case{}, fmt.Errorf("failed to touch case %s: %w", expediente, err)
		}
	}
	s.mu.Unlock()

	return s.GetCase(ctx, expediente)
}

// ScheduleHearing records a hearing.
func (s *Store) ScheduleHearing(ctx context.Context, h Hearing) (Hearing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h.ID = uuid.NewString()
	h.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hearings (id, expediente, fecha, hora, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		h.ID, h.Expediente, h.Fecha, h.Hora, h.CreatedAt)
	if err != nil {
		return Hearing{}, fmt.Errorf("failed to schedule hearing: %w", err)
	}
	s.log.Info("hearing scheduled",
		zap.String("fecha", h.Fecha),
		zap.String("hora", h.Hora),
		zap.String("expediente", h.Expediente))
	return h, nil
}

// ListHearings returns hearings for a date, or all upcoming ones when
// fecha is empty, ordered by date then time.
func (s *Store) ListHearings(ctx context.Context, fecha string) ([]Hearing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT id, expediente, fecha, hora, created_at FROM hearings`
	args := []any{}
	if fecha != "" {
		query += ` WHERE fecha = ?`
		args = append(args, fecha)
	}
	query += ` ORDER BY fecha, hora`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list hearings: %w", err)
	}
	defer rows.Close()

	var out []Hearing
	for rows.Next() {
		var h Hearing
		if err := rows.Scan(&h.ID, &h.Expediente, &h.Fecha, &h.Hora, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
