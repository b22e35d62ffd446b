package sheet

import (
	"context"
	"fmt"
	"strings"
)

// HasConflict scans every row for the given date. It returns whether clock is
// already taken and the occupied times on that date. Rows whose code equals
// excludingCode are ignored so a record never collides with itself.
func (a *Adapter) HasConflict(ctx context.Context, date, clock, excludingCode string) (bool, []string, error) {
	headers, err := a.Headers(ctx)
	if err != nil {
		return false, nil, err
	}
	if err := RequireColumns(headers, a.cols.Date, a.cols.Time); err != nil {
		return false, nil, err
	}

	dateIdx := indexOf(headers, a.cols.Date)
	timeIdx := indexOf(headers, a.cols.Time)
	codeIdx := a.codeIndex(headers)

	first := min(dateIdx, timeIdx, codeIdx)
	last := max(dateIdx, timeIdx, codeIdx)

	rows, err := a.store.GetRange(ctx, ColumnSpan(first, last))
	if err != nil {
		return false, nil, fmt.Errorf("read schedule: %w", err)
	}

	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	excludingCode = strings.TrimSpace(excludingCode)

	var (
		conflict bool
		occupied []string
	)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if cell(row, dateIdx-first) != date {
			continue
		}
		taken := cell(row, timeIdx-first)
		if taken == "" {
			continue
		}
		if excludingCode != "" && cell(row, codeIdx-first) == excludingCode {
			continue
		}
		occupied = append(occupied, taken)
		if taken == clock {
			conflict = true
		}
	}
	return conflict, occupied, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
