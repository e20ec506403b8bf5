package journal

import (
	"encoding/json"
	"os"
)

// FileWriter writes orders and issues to JSONL files.
type FileWriter struct {
	orderFile *os.File
	issueFile *os.File
	orderEnc  *json.Encoder
	issueEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. issuePath may be empty to skip the issue log.
func NewFileWriter(orderPath, issuePath string) (*FileWriter, error) {
	of, err := os.Create(orderPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{orderFile: of, orderEnc: json.NewEncoder(of)}
	if issuePath != "" {
		f, err := os.Create(issuePath)
		if err != nil {
			of.Close()
			return nil, err
		}
		fw.issueFile = f
		fw.issueEnc = json.NewEncoder(f)
	}
	return fw, nil
}

// WriteOrder logs a single order row.
func (f *FileWriter) WriteOrder(row OrderRow) error {
	return f.orderEnc.Encode(row)
}

// WriteOrders logs multiple order rows.
func (f *FileWriter) WriteOrders(rows []OrderRow) error {
	for _, r := range rows {
		if err := f.WriteOrder(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteIssue logs an issue row, if enabled.
func (f *FileWriter) WriteIssue(row IssueRow) error {
	if f.issueEnc == nil {
		return nil
	}
	return f.issueEnc.Encode(row)
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.orderFile != nil {
		if e := f.orderFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.issueFile != nil {
		if e := f.issueFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
