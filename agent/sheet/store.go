package sheet

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// MaxColumns bounds reads to columns A..Z.
const MaxColumns = 26

var (
	ErrRowNotFound    = errors.New("row not found")
	ErrMissingColumns = errors.New("required columns are missing")
)

// TableStore is a header-keyed table. Row 0 holds the headers. Deleting a row
// shifts every later row up by one, so indices must not be cached across deletes.
type TableStore interface {
	GetRange(ctx context.Context, rng Range) ([][]string, error)
	AppendRow(ctx context.Context, values []string) error
	UpdateRow(ctx context.Context, rowIndex int, values []string) error
	DeleteRow(ctx context.Context, rowIndex int) error
}

// Range selects a block of cells. Indices are zero-based and inclusive.
// A negative LastRow leaves the block open towards the bottom.
type Range struct {
	FirstCol int
	LastCol  int
	FirstRow int
	LastRow  int
}

var AllColumns = Range{FirstCol: 0, LastCol: MaxColumns - 1, LastRow: -1}

// ColumnSpan selects whole columns first..last.
func ColumnSpan(first, last int) Range {
	if first > last {
		first, last = last, first
	}
	return Range{FirstCol: first, LastCol: last, LastRow: -1}
}

// Row narrows r to a single row.
func (r Range) Row(i int) Range {
	r.FirstRow, r.LastRow = i, i
	return r
}

func (r Range) hasRow(i int) bool {
	if i < r.FirstRow {
		return false
	}
	return r.LastRow < 0 || i <= r.LastRow
}

// A1 renders the range in spreadsheet notation, e.g. "A:Z" or "A4:Z4".
func (r Range) A1() string {
	var b strings.Builder
	b.WriteString(ColumnLetter(r.FirstCol))
	if r.FirstRow > 0 || r.LastRow >= 0 {
		b.WriteString(strconv.Itoa(r.FirstRow + 1))
	}
	b.WriteByte(':')
	b.WriteString(ColumnLetter(r.LastCol))
	if r.LastRow >= 0 {
		b.WriteString(strconv.Itoa(r.LastRow + 1))
	}
	return b.String()
}

// ColumnLetter maps 0 to A, 25 to Z, 26 to AA.
func ColumnLetter(i int) string {
	if i < 0 {
		return ""
	}
	var out []byte
	for i >= 0 {
		out = append([]byte{byte('A' + i%26)}, out...)
		i = i/26 - 1
	}
	return string(out)
}

// sliceColumns copies row[first..last], tolerating short rows.
func sliceColumns(row []string, first, last int) []string {
	if first >= len(row) {
		return []string{}
	}
	end := last + 1
	if end > len(row) {
		end = len(row)
	}
	out := make([]string, end-first)
	copy(out, row[first:end])
	return out
}
