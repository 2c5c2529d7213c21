// Package store persists savings goals, their contribution history, and a
// cache of parsed ledger transactions in SQLite or PostgreSQL.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"   // register postgres driver
	_ "modernc.org/sqlite" // register sqlite driver

	"github.com/theirongolddev/billu/internal/model"
)

// ErrNotFound is returned when a goal does not exist.
var ErrNotFound = errors.New("not found")

// timeLayout is fixed width so that TEXT columns sort chronologically.
// Values are always written in UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// parseTime reads a stored timestamp. Rows cached before the fixed-width
// layout was introduced are still accepted.
func parseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err == nil {
		return t, nil
	}
	if t, legacyErr := time.Parse(time.RFC3339Nano, value); legacyErr == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("parsing %s %q: %w", column, value, err)
}

// Store is a database-backed goal store and ledger cache.
type Store struct {
	db     *sql.DB
	driver string
}

// Open opens or creates the database named by dsn. A postgres:// or
// postgresql:// URL selects PostgreSQL; anything else is a SQLite file path.
func Open(dsn string) (*Store, error) {
	driver, source := "sqlite", dsn
	if isPostgres(dsn) {
		driver = "postgres"
	} else {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		source = dsn + "?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)"
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, fmt.Errorf("opening %s db: %w", driver, err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

func isPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver reports the database/sql driver in use ("sqlite" or "postgres").
func (s *Store) Driver() string {
	return s.driver
}

// rebind rewrites ? placeholders into $1, $2, ... for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	QueryRow(query string, args ...any) *sql.Row
}

// SaveGoal inserts or updates a goal.
func (s *Store) SaveGoal(g model.Goal) error {
	return s.saveGoal(s.db, g)
}

func (s *Store) saveGoal(q querier, g model.Goal) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := q.Exec(s.rebind(`INSERT INTO goals
		(id, name, target_amount, current_amount, target_date, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			target_amount = excluded.target_amount,
			current_amount = excluded.current_amount,
			target_date = excluded.target_date,
			category = excluded.category,
			updated_at = excluded.updated_at`),
		g.ID, g.Name, g.TargetAmount, g.CurrentAmount,
		g.TargetDate.UTC().Format(timeLayout), string(g.Category),
		g.CreatedAt.UTC().Format(timeLayout), now,
	)
	if err != nil {
		return fmt.Errorf("saving goal %s: %w", g.ID, err)
	}
	return nil
}

const goalColumns = `id, name, target_amount, current_amount, target_date, category, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(r rowScanner) (model.Goal, error) {
	var g model.Goal
	var category, targetStr, createdStr string
	if err := r.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &targetStr, &category, &createdStr); err != nil {
		return model.Goal{}, err
	}
	g.Category = model.GoalCategory(category)
	var err error
	if g.TargetDate, err = parseTime("target_date", targetStr); err != nil {
		return model.Goal{}, fmt.Errorf("goal %s: %w", g.ID, err)
	}
	if g.CreatedAt, err = parseTime("created_at", createdStr); err != nil {
		return model.Goal{}, fmt.Errorf("goal %s: %w", g.ID, err)
	}
	return g, nil
}

// GetGoal returns the goal with the given id.
func (s *Store) GetGoal(id string) (model.Goal, error) {
	row := s.db.QueryRow(s.rebind(`SELECT `+goalColumns+` FROM goals WHERE id = ?`), id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Goal{}, fmt.Errorf("loading goal %s: %w", id, err)
	}
	return g, nil
}

// LoadGoals returns every goal, oldest first.
func (s *Store) LoadGoals() ([]model.Goal, error) {
	rows, err := s.db.Query(`SELECT ` + goalColumns + ` FROM goals ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("loading goals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeleteGoal removes a goal and its contribution history.
func (s *Store) DeleteGoal(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(s.rebind("DELETE FROM contributions WHERE goal_id = ?"), id); err != nil {
		return err
	}
	res, err := tx.Exec(s.rebind("DELETE FROM goals WHERE id = ?"), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	return tx.Commit()
}

// AddContribution stores the updated goal together with the contribution
// that produced it, atomically. The goal must already exist.
func (s *Store) AddContribution(g model.Goal, c model.Contribution) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRow(s.rebind("SELECT COUNT(*) FROM goals WHERE id = ?"), g.ID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("goal %s: %w", g.ID, ErrNotFound)
	}

	if err := s.saveGoal(tx, g); err != nil {
		return err
	}

	at := c.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err = tx.Exec(s.rebind(`INSERT INTO contributions (goal_id, amount, contributed_at) VALUES (?, ?, ?)`),
		g.ID, c.Amount, at.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("recording contribution: %w", err)
	}

	return tx.Commit()
}

// Contributions returns the contribution history of a goal, oldest first.
func (s *Store) Contributions(goalID string) ([]model.Contribution, error) {
	rows, err := s.db.Query(s.rebind(`SELECT goal_id, amount, contributed_at
		FROM contributions WHERE goal_id = ? ORDER BY contributed_at`), goalID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []model.Contribution
	for rows.Next() {
		var c model.Contribution
		var atStr string
		if err := rows.Scan(&c.GoalID, &c.Amount, &atStr); err != nil {
			return nil, err
		}
		at, err := parseTime("contributed_at", atStr)
		if err != nil {
			return nil, fmt.Errorf("contribution to %s: %w", goalID, err)
		}
		c.At = at
		out = append(out, c)
	}
	return out, rows.Err()
}

// GoalCount returns the number of stored goals.
func (s *Store) GoalCount() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM goals").Scan(&count)
	return count, err
}
