package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"groupcmd/internal/command"
	"groupcmd/internal/journal"
)

func TestNewJournalWriterNone(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	w, cleanup, err := newJournalWriter(writerFlags{})
	if err != nil {
		t.Fatalf("newJournalWriter returned error: %v", err)
	}
	cleanup()
	if w != nil {
		t.Fatalf("expected no writer, got %T", w)
	}
}

func TestNewJournalWriterPrintOnly(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "db.example:4001")
	w, cleanup, err := newJournalWriter(writerFlags{printOnly: true})
	if err != nil {
		t.Fatalf("newJournalWriter returned error: %v", err)
	}
	cleanup()
	if _, ok := w.(*journal.StdoutWriter); !ok {
		t.Fatalf("expected *journal.StdoutWriter, got %T", w)
	}
}

func TestNewJournalWriterBadGreptimePort(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "localhost")
	t.Setenv("GREPTIMEDB_PORT", "not-a-port")
	if _, _, err := newJournalWriter(writerFlags{}); err == nil {
		t.Fatalf("expected error for invalid port")
	}
}

func TestNewJournalWriterLogFile(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	path := filepath.Join(t.TempDir(), "orders.log")
	w, cleanup, err := newJournalWriter(writerFlags{logFile: path})
	if err != nil {
		t.Fatalf("newJournalWriter returned error: %v", err)
	}
	if _, ok := w.(*journal.FileWriter); !ok {
		t.Fatalf("expected *journal.FileWriter, got %T", w)
	}
	row := journal.OrderRow{RunID: "r1", Seq: 1, UnitID: 3, Kind: command.Stop, Timestamp: time.Now()}
	if err := w.WriteOrder(row); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	iw, ok := w.(journal.IssueWriter)
	if !ok {
		t.Fatalf("file writer does not record issues")
	}
	if err := iw.WriteIssue(journal.IssueRow{RunID: "r1", Seq: 1, Kind: command.Stop}); err != nil {
		t.Fatalf("write issue failed: %v", err)
	}
	cleanup()

	for _, p := range []string{path, path + ".issues"} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s: %v", p, err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected %s to be non-empty", p)
		}
	}
}

func TestNewJournalWriterCombined(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	dir := t.TempDir()
	w, cleanup, err := newJournalWriter(writerFlags{
		logFile:    filepath.Join(dir, "orders.log"),
		sqlitePath: filepath.Join(dir, "journal.db"),
	})
	if err != nil {
		t.Fatalf("newJournalWriter returned error: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*journal.MultiWriter); !ok {
		t.Fatalf("expected *journal.MultiWriter, got %T", w)
	}
	if err := w.WriteOrder(journal.OrderRow{RunID: "r2", Seq: 1, UnitID: 1, Kind: command.Wait}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}
