package sheet

import (
	"context"
	"fmt"
	"strings"

	appointmentx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/appointment"
)

// Adapter maps appointment records onto a TableStore. Columns are resolved by
// header name on every call since headers may be reordered between calls.
type Adapter struct {
	store TableStore
	cols  Columns
}

func NewAdapter(store TableStore, cols Columns) *Adapter {
	return &Adapter{store: store, cols: cols}
}

func (a *Adapter) Columns() Columns { return a.cols }

func (a *Adapter) Headers(ctx context.Context) ([]string, error) {
	rows, err := a.store.GetRange(ctx, AllColumns.Row(0))
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	if len(rows) == 0 {
		return []string{}, nil
	}
	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}
	return headers, nil
}

// RequireColumns reports ErrMissingColumns naming every absent header.
func RequireColumns(headers []string, names ...string) error {
	var missing []string
	for _, name := range names {
		if indexOf(headers, name) < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// codeIndex falls back to the first column when no header carries the code name.
func (a *Adapter) codeIndex(headers []string) int {
	if i := indexOf(headers, a.cols.Code); i >= 0 {
		return i
	}
	return 0
}

// FindRowIndexByCode returns the first data row whose code cell equals code.
func (a *Adapter) FindRowIndexByCode(ctx context.Context, code string) (int, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return -1, ErrRowNotFound
	}

	headers, err := a.Headers(ctx)
	if err != nil {
		return -1, err
	}
	col := a.codeIndex(headers)

	rows, err := a.store.GetRange(ctx, ColumnSpan(col, col))
	if err != nil {
		return -1, fmt.Errorf("read code column: %w", err)
	}
	for i := 1; i < len(rows); i++ {
		if len(rows[i]) > 0 && strings.TrimSpace(rows[i][0]) == code {
			return i, nil
		}
	}
	return -1, ErrRowNotFound
}

// ReadRow returns the row keyed by header name. Missing trailing cells read as "".
func (a *Adapter) ReadRow(ctx context.Context, rowIndex int) (map[string]string, error) {
	headers, err := a.Headers(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := a.store.GetRange(ctx, AllColumns.Row(rowIndex))
	if err != nil {
		return nil, fmt.Errorf("read row %d: %w", rowIndex, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrRowNotFound, rowIndex)
	}

	out := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(rows[0]) {
			out[h] = rows[0][i]
		} else {
			out[h] = ""
		}
	}
	return out, nil
}

// AppendRecord writes rec in the order of the current header row.
// Headers that match no record field are left blank.
func (a *Adapter) AppendRecord(ctx context.Context, rec appointmentx.Record) error {
	headers, err := a.Headers(ctx)
	if err != nil {
		return err
	}
	if err := RequireColumns(headers, a.cols.Date, a.cols.Time); err != nil {
		return err
	}

	values := a.cols.Values(rec)
	row := make([]string, len(headers))
	for i, h := range headers {
		row[i] = values[h]
	}
	if indexOf(headers, a.cols.Code) < 0 && len(row) > 0 && row[0] == "" {
		row[0] = rec.Code
	}

	if err := a.store.AppendRow(ctx, row); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// UpdateRow writes back a full row built from fields in current header order.
func (a *Adapter) UpdateRow(ctx context.Context, rowIndex int, fields map[string]string) error {
	if rowIndex <= 0 {
		return fmt.Errorf("%w: %d", ErrRowNotFound, rowIndex)
	}
	headers, err := a.Headers(ctx)
	if err != nil {
		return err
	}
	row := make([]string, len(headers))
	for i, h := range headers {
		row[i] = fields[h]
	}
	if err := a.store.UpdateRow(ctx, rowIndex, row); err != nil {
		return fmt.Errorf("update row %d: %w", rowIndex, err)
	}
	return nil
}

// DeleteRow removes the row; later rows shift up by one.
func (a *Adapter) DeleteRow(ctx context.Context, rowIndex int) error {
	if rowIndex <= 0 {
		return fmt.Errorf("%w: %d", ErrRowNotFound, rowIndex)
	}
	if err := a.store.DeleteRow(ctx, rowIndex); err != nil {
		return fmt.Errorf("delete row %d: %w", rowIndex, err)
	}
	return nil
}
