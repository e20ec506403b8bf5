package journal

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"
)

// ReplayIssues decodes issue rows from r and hands each to fn. A speed >0
// reproduces the recorded gaps between issues scaled by 1/speed; otherwise no
// delay is inserted.
func ReplayIssues(r io.Reader, speed float64, fn func(IssueRow) error) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var row IssueRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if !prev.IsZero() && speed > 0 {
			diff := row.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := fn(row); err != nil {
			return err
		}
		prev = row.Timestamp
	}
}

// ReplayIssueFile opens a file and replays its issue rows.
func ReplayIssueFile(path string, speed float64, fn func(IssueRow) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayIssues(f, speed, fn)
}

// ReadOrders decodes every order row from r.
func ReadOrders(r io.Reader) ([]OrderRow, error) {
	dec := json.NewDecoder(r)
	var rows []OrderRow
	for {
		var row OrderRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return nil, err
		}
		rows = append(rows, row)
	}
}
