// Writer implementation printing orders to STDOUT
package journal

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// StdoutWriter prints rows as JSON lines.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{out: os.Stdout}
}

// WriteOrder outputs an order row in JSON format.
func (w *StdoutWriter) WriteOrder(row OrderRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// WriteIssue outputs an issue row in JSON format.
func (w *StdoutWriter) WriteIssue(row IssueRow) error {
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}
