// Package snapshot exports fetched parliamentary data into a SQLite file for
// offline analysis.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/coolbeans/hemiciclo/pkg/api"
	"github.com/coolbeans/hemiciclo/pkg/legislature"
)

// Snapshot is the data captured for one legislature at one point in time.
type Snapshot struct {
	Legislature  string
	Legislatures []legislature.Record
	Parties      []api.Party
	Deputies     []api.Deputy
	Transparency []api.TransparencyRecord
}

// Store is a SQLite snapshot database.
type Store struct {
	db *sql.DB
}

var tables = []string{"snapshots", "legislatures", "parties", "deputies", "transparency"}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			legislature TEXT NOT NULL DEFAULT '',
			taken_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS legislatures (
			snapshot_id TEXT NOT NULL,
			ordinal TEXT NOT NULL,
			number INTEGER NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			start_date TEXT,
			end_date TEXT,
			is_current INTEGER,
			ended INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY(snapshot_id, ordinal)
		);`,
		`CREATE TABLE IF NOT EXISTS parties (
			snapshot_id TEXT NOT NULL,
			acronym TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			color TEXT NOT NULL DEFAULT '',
			seats INTEGER NOT NULL DEFAULT 0,
			coalition TEXT NOT NULL DEFAULT '',
			PRIMARY KEY(snapshot_id, acronym)
		);`,
		`CREATE TABLE IF NOT EXISTS deputies (
			snapshot_id TEXT NOT NULL,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			party TEXT NOT NULL DEFAULT '',
			district TEXT NOT NULL DEFAULT '',
			active INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY(snapshot_id, id)
		);`,
		`CREATE TABLE IF NOT EXISTS transparency (
			snapshot_id TEXT NOT NULL,
			deputy_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			party TEXT NOT NULL DEFAULT '',
			present INTEGER NOT NULL DEFAULT 0,
			absent INTEGER NOT NULL DEFAULT 0,
			justified_absent INTEGER NOT NULL DEFAULT 0,
			interventions INTEGER NOT NULL DEFAULT 0,
			questions INTEGER NOT NULL DEFAULT 0,
			interest_declaration INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY(snapshot_id, deputy_id)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialise snapshot schema: %w", err)
		}
	}
	return nil
}

// Write stores the snapshot in a single transaction and returns its ID.
func (s *Store) Write(ctx context.Context, snap Snapshot) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, legislature, taken_at) VALUES (?, ?, ?)`,
		id, snap.Legislature, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return "", fmt.Errorf("failed to record snapshot: %w", err)
	}

	for _, record := range snap.Legislatures {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO legislatures (snapshot_id, ordinal, number, label, start_date, end_date, is_current, ended)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, record.Ordinal, record.Number(), record.Label,
			formatDate(record.StartDate), formatDate(record.EndDate), record.IsCurrent, record.Ended); err != nil {
			return "", fmt.Errorf("failed to write legislature %s: %w", record.Ordinal, err)
		}
	}

	for _, party := range snap.Parties {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO parties (snapshot_id, acronym, name, color, seats, coalition) VALUES (?, ?, ?, ?, ?, ?)`,
			id, party.Acronym, party.Name, party.Color, party.Seats, party.Coalition); err != nil {
			return "", fmt.Errorf("failed to write party %s: %w", party.Acronym, err)
		}
	}

	for _, deputy := range snap.Deputies {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO deputies (snapshot_id, id, name, party, district, active) VALUES (?, ?, ?, ?, ?, ?)`,
			id, deputy.ID, deputy.Name, deputy.Party, deputy.District, deputy.Active); err != nil {
			return "", fmt.Errorf("failed to write deputy %s: %w", deputy.ID, err)
		}
	}

	for _, record := range snap.Transparency {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO transparency
			 (snapshot_id, deputy_id, name, party, present, absent, justified_absent, interventions, questions, interest_declaration)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, record.DeputyID, record.Name, record.Party, record.Present, record.Absent,
			record.JustifiedAbsent, record.Interventions, record.Questions, record.InterestDeclaration); err != nil {
			return "", fmt.Errorf("failed to write transparency for %s: %w", record.DeputyID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return id, nil
}

// Counts returns the number of rows per table.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

// Latest returns the ID of the most recent snapshot, or "" when there is none.
func (s *Store) Latest(ctx context.Context) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM snapshots ORDER BY taken_at DESC, rowid DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest snapshot: %w", err)
	}
	return id, nil
}

// Legislatures reads back the legislature records of a snapshot, most
// recent first.
func (s *Store) Legislatures(ctx context.Context, snapshotID string) ([]legislature.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT ordinal, label, start_date, end_date, is_current, ended FROM legislatures WHERE snapshot_id = ?`,
		snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query legislatures: %w", err)
	}
	defer rows.Close()

	var records []legislature.Record
	for rows.Next() {
		var (
			record     legislature.Record
			start, end sql.NullString
			current    sql.NullBool
		)
		if err := rows.Scan(&record.Ordinal, &record.Label, &start, &end, &current, &record.Ended); err != nil {
			return nil, fmt.Errorf("failed to scan legislature: %w", err)
		}
		record.StartDate = parseDate(start)
		record.EndDate = parseDate(end)
		if current.Valid {
			record.IsCurrent = &current.Bool
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read legislatures: %w", err)
	}
	return legislature.Order(records), nil
}

func formatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}

func parseDate(value sql.NullString) *time.Time {
	if !value.Valid {
		return nil
	}
	return legislature.ParseDate(&value.String)
}
