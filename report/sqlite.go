package report

import (
	"database/sql"
	"log"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS metrics (
	run TEXT NOT NULL,
	iteration INTEGER NOT NULL,
	name TEXT NOT NULL,
	value REAL NOT NULL,
	at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS metrics_run_name ON metrics (run, name, iteration);`

// SQLiteReporter persists metrics into a sqlite file so plots and reports
// can be rendered after, or outside of, the training run.
type SQLiteReporter struct {
	db  *sql.DB
	run string
}

// OpenSQLite opens or creates the metrics database at path. Rows written by
// this reporter carry the given run id.
func OpenSQLite(path, run string) (*SQLiteReporter, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "report: open metrics db")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "report: create metrics table")
	}
	return &SQLiteReporter{db: db, run: run}, nil
}

// BestEffortSQLite opens the metrics database, or logs a warning and returns
// a discarding reporter when the backend is unavailable. Training continues
// either way.
func BestEffortSQLite(path, run string) Reporter {
	r, err := OpenSQLite(path, run)
	if err != nil {
		log.Printf("report: warning: metrics persistence unavailable: %v", err)
		return NopReporter{}
	}
	return r
}

func (r *SQLiteReporter) Report(name string, value float64, iteration int) {
	_, err := r.db.Exec(
		`INSERT INTO metrics (run, iteration, name, value, at) VALUES (?, ?, ?, ?, ?)`,
		r.run, iteration, name, value, time.Now().UTC(),
	)
	if err != nil {
		log.Printf("report: warning: dropped metric %s@%d: %v", name, iteration, err)
	}
}

// Flush closes the database.
func (r *SQLiteReporter) Flush() error {
	return r.db.Close()
}
