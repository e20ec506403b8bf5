package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"groupcmd/internal/command"
)

// orderRecord is the stored form of an OrderRow.
type orderRecord struct {
	ID        uint           `gorm:"primarykey"`
	RunID     string         `gorm:"index:idx_order_run_seq,priority:1;size:36"`
	Seq       int64          `gorm:"index:idx_order_run_seq,priority:2"`
	IssueSeq  int64          `gorm:"index"`
	Player    int
	UnitID    int            `gorm:"index"`
	Kind      int
	Params    datatypes.JSON `gorm:"default:'[]'"`
	Options   uint8
	Queued    bool
	Timestamp time.Time
}

func (orderRecord) TableName() string { return OrderTable }

// issueRecord is the stored form of an IssueRow.
type issueRecord struct {
	ID        uint           `gorm:"primarykey"`
	RunID     string         `gorm:"index:idx_issue_run_seq,priority:1;size:36"`
	Seq       int64          `gorm:"index:idx_issue_run_seq,priority:2"`
	Player    int
	Selection datatypes.JSON `gorm:"default:'[]'"`
	Kind      int
	Params    datatypes.JSON `gorm:"default:'[]'"`
	Options   uint8
	Timestamp time.Time
}

func (issueRecord) TableName() string { return IssueTable }

// SQLiteWriter keeps a queryable journal in a SQLite database.
type SQLiteWriter struct {
	db *gorm.DB
}

// NewSQLiteWriter opens (or creates) the database at path. An empty path
// uses a private in-memory database.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        500,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite journal: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// every pooled connection to :memory: would see its own empty database
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&orderRecord{}, &issueRecord{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite journal: %w", err)
	}
	return &SQLiteWriter{db: db}, nil
}

func jsonColumn(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func toOrderRecord(r OrderRow) (orderRecord, error) {
	params, err := jsonColumn(r.Params)
	if err != nil {
		return orderRecord{}, err
	}
	return orderRecord{
		RunID:     r.RunID,
		Seq:       r.Seq,
		IssueSeq:  r.IssueSeq,
		Player:    r.Player,
		UnitID:    r.UnitID,
		Kind:      int(r.Kind),
		Params:    params,
		Options:   uint8(r.Options),
		Queued:    r.Queued,
		Timestamp: r.Timestamp,
	}, nil
}

// WriteOrder inserts a single order row.
func (w *SQLiteWriter) WriteOrder(row OrderRow) error {
	return w.WriteOrders([]OrderRow{row})
}

// WriteOrders inserts order rows in one batch.
func (w *SQLiteWriter) WriteOrders(rows []OrderRow) error {
	if len(rows) == 0 {
		return nil
	}
	recs := make([]orderRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := toOrderRecord(r)
		if err != nil {
			return err
		}
		recs = append(recs, rec)
	}
	return w.db.Create(&recs).Error
}

// WriteIssue inserts an issue row.
func (w *SQLiteWriter) WriteIssue(row IssueRow) error {
	selection, err := jsonColumn(row.Selection)
	if err != nil {
		return err
	}
	params, err := jsonColumn(row.Params)
	if err != nil {
		return err
	}
	return w.db.Create(&issueRecord{
		RunID:     row.RunID,
		Seq:       row.Seq,
		Player:    row.Player,
		Selection: selection,
		Kind:      int(row.Kind),
		Params:    params,
		Options:   uint8(row.Options),
		Timestamp: row.Timestamp,
	}).Error
}

// Orders returns the stored orders of a run in sequence order.
func (w *SQLiteWriter) Orders(runID string) ([]OrderRow, error) {
	var recs []orderRecord
	if err := w.db.Where("run_id = ?", runID).Order("seq").Find(&recs).Error; err != nil {
		return nil, err
	}
	rows := make([]OrderRow, 0, len(recs))
	for _, rec := range recs {
		row := OrderRow{
			RunID:     rec.RunID,
			Seq:       rec.Seq,
			IssueSeq:  rec.IssueSeq,
			Player:    rec.Player,
			UnitID:    rec.UnitID,
			Kind:      command.Kind(rec.Kind),
			Options:   command.Options(rec.Options),
			Queued:    rec.Queued,
			Timestamp: rec.Timestamp,
		}
		if err := json.Unmarshal(rec.Params, &row.Params); err != nil {
			return nil, fmt.Errorf("order %d params: %w", rec.Seq, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Issues returns the stored issues of a run in sequence order.
func (w *SQLiteWriter) Issues(runID string) ([]IssueRow, error) {
	var recs []issueRecord
	if err := w.db.Where("run_id = ?", runID).Order("seq").Find(&recs).Error; err != nil {
		return nil, err
	}
	rows := make([]IssueRow, 0, len(recs))
	for _, rec := range recs {
		row := IssueRow{
			RunID:     rec.RunID,
			Seq:       rec.Seq,
			Player:    rec.Player,
			Kind:      command.Kind(rec.Kind),
			Options:   command.Options(rec.Options),
			Timestamp: rec.Timestamp,
		}
		if err := json.Unmarshal(rec.Selection, &row.Selection); err != nil {
			return nil, fmt.Errorf("issue %d selection: %w", rec.Seq, err)
		}
		if err := json.Unmarshal(rec.Params, &row.Params); err != nil {
			return nil, fmt.Errorf("issue %d params: %w", rec.Seq, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Close releases the database handle.
func (w *SQLiteWriter) Close() error {
	sqlDB, err := w.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
