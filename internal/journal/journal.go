package journal

import (
	"context"
	"slices"
	"sync"
	"time"

	"groupcmd/internal/command"
	"groupcmd/internal/logging"
	"groupcmd/internal/unit"
)

// OrderWriter persists order rows.
type OrderWriter interface {
	WriteOrder(OrderRow) error
}

// IssueWriter persists issue rows.
type IssueWriter interface {
	WriteIssue(IssueRow) error
}

// Optional: writers may accept a whole issue's orders at once
type batchOrderWriter interface {
	WriteOrders([]OrderRow) error
}

// Journal numbers issues and the orders they produce, hashes the order
// stream and hands rows to a writer. It implements unit.Sink.
type Journal struct {
	mu     sync.Mutex
	ctx    context.Context
	runID  string
	writer OrderWriter
	now    func() time.Time

	issueSeq int64
	orderSeq int64
	player   int
	pending  []OrderRow
	digest   *Digest
}

// New creates a journal for one run. w may also implement IssueWriter.
func New(ctx context.Context, runID string, w OrderWriter) *Journal {
	if runID == "" {
		runID = NewRunID()
	}
	return &Journal{ctx: ctx, runID: runID, writer: w, now: time.Now, digest: NewDigest()}
}

// RunID returns the run identifier stamped on every row.
func (j *Journal) RunID() string { return j.runID }

// BeginIssue records a raw command and makes it the parent of subsequent orders.
func (j *Journal) BeginIssue(player int, selection []int, c command.Command) IssueRow {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.issueSeq++
	j.player = player
	row := IssueRow{
		RunID:     j.runID,
		Seq:       j.issueSeq,
		Player:    player,
		Selection: slices.Clone(selection),
		Kind:      c.Kind,
		Params:    slices.Clone(c.Params),
		Options:   c.Options,
		Timestamp: j.now().UTC(),
	}
	if iw, ok := j.writer.(IssueWriter); ok {
		if err := iw.WriteIssue(row); err != nil {
			logging.FromContext(j.ctx).Warn("issue write failed", "seq", row.Seq, "err", err)
		}
	}
	return row
}

// RecordOrder implements unit.Sink.
func (j *Journal) RecordOrder(o unit.Order) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.orderSeq++
	j.digest.Add(o)
	j.pending = append(j.pending, OrderRow{
		RunID:     j.runID,
		Seq:       j.orderSeq,
		IssueSeq:  j.issueSeq,
		Player:    j.player,
		UnitID:    o.UnitID,
		Kind:      o.Command.Kind,
		Params:    slices.Clone(o.Command.Params),
		Options:   o.Command.Options,
		Queued:    o.Queued,
		Timestamp: j.now().UTC(),
	})
}

// EndIssue writes the orders recorded since BeginIssue. Write failures are
// logged and returned; the orders stay counted in the digest.
func (j *Journal) EndIssue() error {
	j.mu.Lock()
	rows := j.pending
	j.pending = nil
	j.mu.Unlock()
	if len(rows) == 0 {
		return nil
	}
	err := writeOrders(j.writer, rows)
	if err != nil {
		logging.FromContext(j.ctx).Warn("order write failed", "orders", len(rows), "err", err)
	}
	return err
}

// Sum64 returns the digest over every order recorded so far.
func (j *Journal) Sum64() uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.digest.Sum64()
}

// Orders returns how many orders were recorded.
func (j *Journal) Orders() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.digest.Count()
}

func writeOrders(w OrderWriter, rows []OrderRow) error {
	if w == nil {
		return nil
	}
	if bw, ok := w.(batchOrderWriter); ok {
		return bw.WriteOrders(rows)
	}
	for _, r := range rows {
		if err := w.WriteOrder(r); err != nil {
			return err
		}
	}
	return nil
}
