package notify

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/gatekeeper"
	"github.com/iov-one/gatekeeper/errors"
	"github.com/tendermint/tendermint/libs/log"

	_ "modernc.org/sqlite"
)

const busyTimeoutMs = 5000

const schema = `
CREATE TABLE IF NOT EXISTS events (
	seq     INTEGER PRIMARY KEY AUTOINCREMENT,
	id      TEXT NOT NULL,
	kind    TEXT NOT NULL,
	created INTEGER NOT NULL,
	body    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS events_kind ON events(kind);
`

// Journal keeps published events in a SQLite database so that clients can
// catch up on what they missed.
type Journal struct {
	db     *sql.DB
	logger log.Logger
}

var _ gatekeeper.EventSink = (*Journal)(nil)

// OpenJournal opens or creates the journal database file.
func OpenJournal(path string, logger log.Logger) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create journal directory: %s", err)
	}
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s", filepath.Clean(path)))
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open sqlite: %s", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeoutMs)); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "set busy timeout: %s", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "create schema: %s", err)
	}
	return &Journal{db: db, logger: logger.With("module", "journal")}, nil
}

// Publish stores the event. Failures are logged only.
func (j *Journal) Publish(e gatekeeper.Event) {
	body, err := json.Marshal(e)
	if err != nil {
		j.logger.Error("cannot serialize event", "id", e.ID, "err", err)
		return
	}
	_, err = j.db.Exec(`INSERT INTO events (id, kind, created, body) VALUES (?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Time.UnixNano(), string(body))
	if err != nil {
		j.logger.Error("cannot store event", "id", e.ID, "err", err)
	}
}

// Recent returns at most limit latest events, oldest first. Only events of
// given kind are returned unless kind is empty.
func (j *Journal) Recent(limit int, kind gatekeeper.EventKind) ([]gatekeeper.Event, error) {
	if limit <= 0 {
		return nil, errors.Wrap(errors.ErrInput, "limit must be positive")
	}
	var (
		rows *sql.Rows
		err  error
	)
	if kind == "" {
		rows, err = j.db.Query(`SELECT body FROM events ORDER BY seq DESC LIMIT ?`, limit)
	} else {
		rows, err = j.db.Query(`SELECT body FROM events WHERE kind = ? ORDER BY seq DESC LIMIT ?`, string(kind), limit)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "query events: %s", err)
	}
	defer rows.Close()

	var events []gatekeeper.Event
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "scan event: %s", err)
		}
		var e gatekeeper.Event
		if err := json.Unmarshal([]byte(body), &e); err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "decode event: %s", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "iterate events: %s", err)
	}
	for l, r := 0, len(events)-1; l < r; l, r = l+1, r-1 {
		events[l], events[r] = events[r], events[l]
	}
	return events, nil
}

// Close releases the database.
func (j *Journal) Close() error {
	return j.db.Close()
}
