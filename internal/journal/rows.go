// Journal rows describing issued group commands and the unit orders they produced
package journal

import (
	"time"

	"github.com/google/uuid"

	"groupcmd/internal/command"
	"groupcmd/internal/unit"
)

// Table names shared by the database sinks.
const (
	OrderTable = "unit_orders"
	IssueTable = "group_commands"
)

// IssueRow is one raw command as a player issued it.
type IssueRow struct {
	RunID     string          `json:"run_id"`
	Seq       int64           `json:"seq"`
	Player    int             `json:"player"`
	Selection []int           `json:"selection"`
	Kind      command.Kind    `json:"kind"`
	Params    []float64       `json:"params"`
	Options   command.Options `json:"options"`
	Timestamp time.Time       `json:"ts"`
}

// Command rebuilds the issued command.
func (r IssueRow) Command() command.Command {
	return command.New(r.Kind, r.Options, r.Params...).Clone()
}

// OrderRow is one per-unit order emitted while dispatching an issue.
type OrderRow struct {
	RunID     string          `json:"run_id"`
	Seq       int64           `json:"seq"`
	IssueSeq  int64           `json:"issue_seq"`
	Player    int             `json:"player"`
	UnitID    int             `json:"unit_id"`
	Kind      command.Kind    `json:"kind"`
	Params    []float64       `json:"params"`
	Options   command.Options `json:"options"`
	Queued    bool            `json:"queued"`
	Timestamp time.Time       `json:"ts"`
}

// Order returns the unit order the row records.
func (r OrderRow) Order() unit.Order {
	return unit.Order{
		UnitID:  r.UnitID,
		Command: command.New(r.Kind, r.Options, r.Params...).Clone(),
		Queued:  r.Queued,
	}
}

// NewRunID returns a fresh identifier for one dispatch run.
func NewRunID() string {
	return uuid.New().String()
}
