package journal

import (
	"context"
	"path/filepath"
	"testing"

	"groupcmd/internal/command"
	"groupcmd/internal/unit"
)

func TestSQLiteWriterStoresRun(t *testing.T) {
	w, err := NewSQLiteWriter(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewSQLiteWriter: %v", err)
	}
	defer w.Close()

	j := New(context.Background(), "run-a", w)
	attack := command.New(command.Attack, command.OptQueue, 21)
	j.BeginIssue(0, []int{1, 2}, command.New(command.Attack, 0, 0, 0, 0, 50))
	j.RecordOrder(unit.Order{UnitID: 1, Command: attack})
	j.RecordOrder(unit.Order{UnitID: 2, Command: attack, Queued: true})
	if err := j.EndIssue(); err != nil {
		t.Fatalf("EndIssue: %v", err)
	}

	other := New(context.Background(), "run-b", w)
	other.BeginIssue(0, []int{9}, command.New(command.Stop, 0))
	other.RecordOrder(unit.Order{UnitID: 9, Command: command.New(command.Stop, 0)})
	if err := other.EndIssue(); err != nil {
		t.Fatalf("EndIssue: %v", err)
	}

	orders, err := w.Orders("run-a")
	if err != nil {
		t.Fatalf("Orders: %v", err)
	}
	if len(orders) != 2 || orders[1].UnitID != 2 || !orders[1].Queued || orders[1].Params[0] != 21 {
		t.Fatalf("orders = %+v", orders)
	}
	restored := make([]unit.Order, len(orders))
	for i, r := range orders {
		restored[i] = r.Order()
	}
	if DigestOrders(restored) != j.Sum64() {
		t.Fatalf("stored orders hash differently from the live run")
	}

	issues, err := w.Issues("run-a")
	if err != nil {
		t.Fatalf("Issues: %v", err)
	}
	if len(issues) != 1 || len(issues[0].Selection) != 2 || issues[0].Params[3] != 50 {
		t.Fatalf("issues = %+v", issues)
	}
}
