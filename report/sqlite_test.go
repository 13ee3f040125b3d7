package report

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestSQLiteReporterPersistsMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.db")
	r, err := OpenSQLite(path, "run-1")
	if err != nil {
		t.Fatal(err)
	}

	r.Report("main/loss", 3.5, 100)
	r.Report("main/loss", 2.5, 200)
	r.Report("validation/main/bleu", 0.25, 200)
	if err := r.Flush(); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM metrics WHERE run = 'run-1'`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("stored %d rows, want 3", n)
	}

	var value float64
	err = db.QueryRow(
		`SELECT value FROM metrics WHERE name = 'main/loss' AND iteration = 200`,
	).Scan(&value)
	if err != nil {
		t.Fatal(err)
	}
	if value != 2.5 {
		t.Errorf("stored value = %f, want 2.5", value)
	}
}

func TestBestEffortSQLiteDegrades(t *testing.T) {
	// a directory that does not exist cannot host the database
	r := BestEffortSQLite(filepath.Join(t.TempDir(), "missing", "metrics.db"), "run-1")
	if _, ok := r.(NopReporter); !ok {
		t.Errorf("unavailable backend returned %T, want NopReporter", r)
	}
	r.Report("main/loss", 1, 1) // must not panic
}

func TestMultiReporterFansOut(t *testing.T) {
	var a, b int
	m := MultiReporter{
		counterReporter{&a},
		counterReporter{&b},
	}
	m.Report("main/loss", 1, 1)
	m.Report("main/loss", 2, 2)
	if a != 2 || b != 2 {
		t.Errorf("fan-out counts = %d, %d, want 2, 2", a, b)
	}
}

type counterReporter struct{ n *int }

func (c counterReporter) Report(string, float64, int) { (*c.n)++ }
