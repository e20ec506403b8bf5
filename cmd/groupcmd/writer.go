package main

import (
	"fmt"
	"os"
	"strconv"

	"groupcmd/internal/journal"
)

const defaultGreptimePort = 4001

// writerFlags select the journal sinks.
type writerFlags struct {
	printOnly  bool
	logFile    string
	sqlitePath string
}

// newJournalWriter builds the journal sink from flags and env vars. It returns
// nil when no sink is configured, and a cleanup function closing what was opened.
func newJournalWriter(f writerFlags) (journal.OrderWriter, func(), error) {
	cleanup := func() {}

	base, err := baseWriter(f.printOnly)
	if err != nil {
		return nil, cleanup, err
	}
	var writers []journal.OrderWriter
	if base != nil {
		writers = append(writers, base)
	}
	if f.logFile != "" {
		fw, err := journal.NewFileWriter(f.logFile, f.logFile+".issues")
		if err != nil {
			return nil, cleanup, err
		}
		writers = append(writers, fw)
	}
	if f.sqlitePath != "" {
		sw, err := journal.NewSQLiteWriter(f.sqlitePath)
		if err != nil {
			closeAll(writers)
			return nil, cleanup, err
		}
		writers = append(writers, sw)
	}

	switch len(writers) {
	case 0:
		return nil, cleanup, nil
	case 1:
		if c, ok := writers[0].(interface{ Close() error }); ok {
			cleanup = func() { _ = c.Close() }
		}
		return writers[0], cleanup, nil
	}
	mw := journal.NewMultiWriter(writers...)
	return mw, func() { _ = mw.Close() }, nil
}

// baseWriter chooses stdout or GreptimeDB based on the printOnly flag and env vars.
func baseWriter(printOnly bool) (journal.OrderWriter, error) {
	if printOnly {
		return journal.NewStdoutWriter(), nil
	}
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if endpoint == "" {
		return nil, nil
	}
	port := defaultGreptimePort
	if p := os.Getenv("GREPTIMEDB_PORT"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid GREPTIMEDB_PORT: %w", err)
		}
		port = n
	}
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	w, err := journal.NewGreptimeDBWriter(endpoint, port, database)
	if err != nil {
		return nil, fmt.Errorf("greptime writer: %w", err)
	}
	return w, nil
}

func closeAll(ws []journal.OrderWriter) {
	for _, w := range ws {
		if c, ok := w.(interface{ Close() error }); ok {
			_ = c.Close()
		}
	}
}
