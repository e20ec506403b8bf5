package journal

import (
	"context"
	"encoding/json"
	"log/slog"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// greptimeClient is the subset of the ingester client the writer needs.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes orders and issues to GreptimeDB via the ingester client.
type GreptimeDBWriter struct {
	client     greptimeClient
	orderTable string
	issueTable string
}

// NewGreptimeDBWriter connects to a GreptimeDB instance. Tables are created on first write.
func NewGreptimeDBWriter(host string, port int, database string) (*GreptimeDBWriter, error) {
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeDBWriter{
		client:     client,
		orderTable: OrderTable,
		issueTable: IssueTable,
	}, nil
}

// WriteOrder inserts a single order row.
func (w *GreptimeDBWriter) WriteOrder(row OrderRow) error {
	return w.WriteOrders([]OrderRow{row})
}

// WriteOrders inserts multiple order rows.
func (w *GreptimeDBWriter) WriteOrders(rows []OrderRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.orderTable)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tag("run_id", types.STRING),
		tag("unit_id", types.INT64),
		field("seq", types.INT64),
		field("issue_seq", types.INT64),
		field("player", types.INT64),
		field("kind", types.STRING),
		field("params", types.JSON),
		field("options", types.STRING),
		field("queued", types.BOOLEAN),
	); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	for _, r := range rows {
		params, err := json.Marshal(r.Params)
		if err != nil {
			return err
		}
		if err := tbl.AddRow(r.RunID, int64(r.UnitID), r.Seq, r.IssueSeq, int64(r.Player),
			r.Kind.String(), string(params), r.Options.String(), r.Queued, r.Timestamp); err != nil {
			return err
		}
	}
	return w.write(tbl, w.orderTable, len(rows))
}

// WriteIssue inserts an issue row.
func (w *GreptimeDBWriter) WriteIssue(row IssueRow) error {
	tbl, err := table.New(w.issueTable)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tag("run_id", types.STRING),
		field("seq", types.INT64),
		field("player", types.INT64),
		field("selection", types.JSON),
		field("kind", types.STRING),
		field("params", types.JSON),
		field("options", types.STRING),
	); err != nil {
		return err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return err
	}
	selection, err := json.Marshal(row.Selection)
	if err != nil {
		return err
	}
	params, err := json.Marshal(row.Params)
	if err != nil {
		return err
	}
	if err := tbl.AddRow(row.RunID, row.Seq, int64(row.Player), string(selection),
		row.Kind.String(), string(params), row.Options.String(), row.Timestamp); err != nil {
		return err
	}
	return w.write(tbl, w.issueTable, 1)
}

func (w *GreptimeDBWriter) write(tbl *table.Table, name string, n int) error {
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		slog.Warn("greptime write failed", "table", name, "err", err)
		return err
	}
	slog.Debug("greptime rows written", "table", name, "rows", n)
	return nil
}

type column struct {
	name  string
	typ   types.ColumnType
	isTag bool
}

func tag(name string, typ types.ColumnType) column   { return column{name: name, typ: typ, isTag: true} }
func field(name string, typ types.ColumnType) column { return column{name: name, typ: typ} }

func addColumns(tbl *table.Table, cols ...column) error {
	for _, c := range cols {
		var err error
		if c.isTag {
			err = tbl.AddTagColumn(c.name, c.typ)
		} else {
			err = tbl.AddFieldColumn(c.name, c.typ)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
