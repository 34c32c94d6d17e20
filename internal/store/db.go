// Package store provides SQLite-backed persistence for economies and their event logs.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/peterkuimelis/nucleon/internal/economy"
	"github.com/peterkuimelis/nucleon/internal/log"
)

// ErrNotFound is returned when no economy is stored under an id.
var ErrNotFound = errors.New("economy not found")

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DB wraps a SQLite connection.
type DB struct {
	conn *sqlx.DB
}

// EngineSummary is one row of the economy listing.
type EngineSummary struct {
	ID            string    `db:"id" json:"id"`
	Energy        float64   `db:"energy" json:"energy"`
	Heat          float64   `db:"heat" json:"heat"`
	ResearchLevel int       `db:"research_level" json:"researchLevel"`
	UpdatedAt     time.Time `db:"-" json:"updatedAt"`
	Updated       string    `db:"updated_at" json:"-"`
}

type eventRow struct {
	Seq      int    `db:"seq"`
	Op       int    `db:"op"`
	Type     int    `db:"type"`
	Material string `db:"material"`
	Details  string `db:"details"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS economies (
		id TEXT PRIMARY KEY,
		energy REAL NOT NULL,
		heat REAL NOT NULL,
		research_level INTEGER NOT NULL,
		state_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		economy_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		op INTEGER NOT NULL,
		type INTEGER NOT NULL,
		material TEXT NOT NULL,
		details TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_economy ON events(economy_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveEngine stores a save state under id, replacing any previous one.
func (db *DB) SaveEngine(id string, s economy.SaveState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode state %s: %w", id, err)
	}
	_, err = db.conn.Exec(`INSERT OR REPLACE INTO economies
		(id, energy, heat, research_level, state_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, s.Energy, s.Heat, s.ResearchLevel, string(data),
		time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save economy %s: %w", id, err)
	}
	slog.Debug("economy saved", "id", id, "materials", len(s.Materials))
	return nil
}

// LoadEngine returns the save state stored under id. The stored document is
// decoded leniently, the same way a save file would be.
func (db *DB) LoadEngine(id string) (economy.SaveState, error) {
	var data string
	err := db.conn.Get(&data, "SELECT state_json FROM economies WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return economy.SaveState{}, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return economy.SaveState{}, fmt.Errorf("load %s: %w", id, err)
	}
	return economy.DecodeSaveState([]byte(data))
}

// DeleteEngine removes an economy and its events.
func (db *DB) DeleteEngine(id string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM economies WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	if _, err := tx.Exec("DELETE FROM events WHERE economy_id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListEngines returns every stored economy, most recently saved first.
func (db *DB) ListEngines() ([]EngineSummary, error) {
	var out []EngineSummary
	err := db.conn.Select(&out,
		"SELECT id, energy, heat, research_level, updated_at FROM economies ORDER BY updated_at DESC, id",
	)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].UpdatedAt, _ = time.Parse(timeLayout, out[i].Updated)
	}
	return out, nil
}

// SaveEvents appends events for an economy.
func (db *DB) SaveEvents(id string, events []log.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO events
		(economy_id, seq, op, type, material, details)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if _, err := stmt.Exec(id, e.Seq, e.Op, int(e.Type), e.Material, e.Details); err != nil {
			return fmt.Errorf("insert event %d: %w", e.Seq, err)
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent limit events of an economy, oldest first.
func (db *DB) RecentEvents(id string, limit int) ([]log.Event, error) {
	var rows []eventRow
	err := db.conn.Select(&rows,
		"SELECT seq, op, type, material, details FROM events WHERE economy_id = ? ORDER BY id DESC LIMIT ?",
		id, limit,
	)
	if err != nil {
		return nil, err
	}

	events := make([]log.Event, len(rows))
	for i, r := range rows {
		events[len(rows)-1-i] = log.Event{
			Seq:      r.Seq,
			Op:       r.Op,
			Type:     log.EventType(r.Type),
			Material: r.Material,
			Details:  r.Details,
		}
	}
	return events, nil
}
