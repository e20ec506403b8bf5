package journal

// MultiWriter fans rows out to several writers.
type MultiWriter struct {
	writers []OrderWriter
}

// NewMultiWriter creates a MultiWriter. Nil writers are dropped.
func NewMultiWriter(ws ...OrderWriter) *MultiWriter {
	mw := &MultiWriter{}
	for _, w := range ws {
		if w != nil {
			mw.writers = append(mw.writers, w)
		}
	}
	return mw
}

// WriteOrder sends an order row to all writers.
func (mw *MultiWriter) WriteOrder(row OrderRow) error {
	for _, w := range mw.writers {
		if err := w.WriteOrder(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteOrders sends order rows to all writers, using batch if supported.
func (mw *MultiWriter) WriteOrders(rows []OrderRow) error {
	for _, w := range mw.writers {
		if err := writeOrders(w, rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteIssue sends an issue row to every writer that records issues.
func (mw *MultiWriter) WriteIssue(row IssueRow) error {
	for _, w := range mw.writers {
		iw, ok := w.(IssueWriter)
		if !ok {
			continue
		}
		if err := iw.WriteIssue(row); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every writer that can be closed.
func (mw *MultiWriter) Close() error {
	var err error
	for _, w := range mw.writers {
		c, ok := w.(interface{ Close() error })
		if !ok {
			continue
		}
		if e := c.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
