package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"dayplan/internal/planner"

	_ "modernc.org/sqlite"
)

const journalFileName = "journal.sqlite"

// Journal is a local sqlite log of dispatched mutations. It is history for the
// user ("what did I log today?"); it is never replayed against the backend.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens (creating if needed) the journal inside the store dir.
func (s Store) OpenJournal(ctx context.Context) (*Journal, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.path(journalFileName))
	if err != nil {
		return nil, err
	}
	// One connection keeps the pragmas below in effect for every statement.
	db.SetMaxOpenConns(1)
	// WAL + busy_timeout: the TUI and a CLI invocation may write at the same time.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateJournal(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db}, nil
}

func migrateJournal(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS actions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at_unixms INTEGER NOT NULL,
			kind TEXT NOT NULL,
			date TEXT NOT NULL,
			params_json TEXT NOT NULL,
			error TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_at ON actions(at_unixms);`,
		`CREATE INDEX IF NOT EXISTS idx_actions_date ON actions(date);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record implements planner.Journal.
func (j *Journal) Record(ctx context.Context, a planner.Action) error {
	if j == nil || j.db == nil {
		return errors.New("journal is closed")
	}
	if a.At.IsZero() {
		a.At = time.Now().UTC()
	}
	params := a.Params
	if params == nil {
		params = map[string]string{}
	}
	pb, err := json.Marshal(params)
	if err != nil {
		return err
	}
	var errText sql.NullString
	if a.Err != "" {
		errText = sql.NullString{String: a.Err, Valid: true}
	}
	_, err = j.db.ExecContext(ctx,
		`INSERT INTO actions(at_unixms, kind, date, params_json, error) VALUES(?, ?, ?, ?, ?)`,
		a.At.UnixMilli(), a.Kind, a.Date, string(pb), errText,
	)
	return err
}

// Query narrows Recent.
type Query struct {
	// Date, when set, keeps only actions for that day.
	Date  string
	Limit int
}

// Recent returns actions newest first.
func (j *Journal) Recent(ctx context.Context, q Query) ([]planner.Action, error) {
	if j == nil || j.db == nil {
		return nil, errors.New("journal is closed")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	var (
		rows *sql.Rows
		err  error
	)
	if q.Date != "" {
		rows, err = j.db.QueryContext(ctx,
			`SELECT at_unixms, kind, date, params_json, error FROM actions WHERE date = ? ORDER BY at_unixms DESC, id DESC LIMIT ?`,
			q.Date, limit)
	} else {
		rows, err = j.db.QueryContext(ctx,
			`SELECT at_unixms, kind, date, params_json, error FROM actions ORDER BY at_unixms DESC, id DESC LIMIT ?`,
			limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []planner.Action
	for rows.Next() {
		var (
			atMS    int64
			a       planner.Action
			params  string
			errText sql.NullString
		)
		if err := rows.Scan(&atMS, &a.Kind, &a.Date, &params, &errText); err != nil {
			return nil, err
		}
		a.At = time.UnixMilli(atMS).UTC()
		if err := json.Unmarshal([]byte(params), &a.Params); err != nil {
			return nil, err
		}
		a.Err = errText.String
		out = append(out, a)
	}
	return out, rows.Err()
}
