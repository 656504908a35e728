package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"expense-approval/internal/expense"

	"github.com/xuri/excelize/v2"
)

// Record is the flattened projection of a request at the moment of a
// decision. One row per decision, append-only, never mutated.
type Record struct {
	Name          string
	EmployeeID    string
	ExpenseType   string
	BillDate      time.Time
	AmountCent    int64
	ApproverEmail string
	Status        expense.Status
	DecidedAt     time.Time
}

// Recorder appends decision records to a durable store. It does not
// retry internally; failures are reported immediately so the caller can
// decide policy.
type Recorder interface {
	Append(ctx context.Context, rec Record) error
}

var headers = []string{
	"Name", "Employee ID", "Expense Type", "Bill Date",
	"Amount", "Approver Email", "Status", "Decision Time",
}

// XLSXRecorder appends rows to a workbook on disk, creating it with a
// header row on first use. Appends are serialized by a mutex; the
// workbook save is atomic per row as far as callers are concerned.
type XLSXRecorder struct {
	mu    sync.Mutex
	path  string
	sheet string
}

func NewXLSX(path, sheet string) *XLSXRecorder {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &XLSXRecorder{path: path, sheet: sheet}
}

// Path returns the workbook location, for read-only downloads.
func (r *XLSXRecorder) Path() string {
	return r.path
}

func (r *XLSXRecorder) Append(ctx context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("ledger append: %w", err)
	}

	f, fresh, err := r.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if fresh {
		if err := r.writeHeader(f); err != nil {
			return err
		}
	}

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return fmt.Errorf("read sheet: %w", err)
	}
	row := len(rows) + 1

	values := []interface{}{
		rec.Name,
		rec.EmployeeID,
		rec.ExpenseType,
		rec.BillDate.Format("2006-01-02"),
		expense.FormatCents(rec.AmountCent),
		rec.ApproverEmail,
		string(rec.Status),
		rec.DecidedAt.UTC().Format(time.RFC3339),
	}
	for i, v := range values {
		cell := fmt.Sprintf("%c%d", 'A'+i, row)
		if err := f.SetCellValue(r.sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}

	if err := f.SaveAs(r.path); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func (r *XLSXRecorder) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(r.path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
			return nil, false, fmt.Errorf("create ledger dir: %w", err)
		}
		return excelize.NewFile(), true, nil
	}
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, false, fmt.Errorf("open ledger: %w", err)
	}
	return f, false, nil
}

func (r *XLSXRecorder) writeHeader(f *excelize.File) error {
	index, err := f.NewSheet(r.sheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if r.sheet != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	for i, h := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(r.sheet, cell, h); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
	}

	// column widths for readable audit exports
	_ = f.SetColWidth(r.sheet, "A", "A", 18)
	_ = f.SetColWidth(r.sheet, "B", "C", 14)
	_ = f.SetColWidth(r.sheet, "D", "E", 12)
	_ = f.SetColWidth(r.sheet, "F", "F", 24)
	_ = f.SetColWidth(r.sheet, "G", "G", 10)
	_ = f.SetColWidth(r.sheet, "H", "H", 22)
	return nil
}
