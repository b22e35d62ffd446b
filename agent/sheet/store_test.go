package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeA1(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "A:Z", AllColumns.A1())
	assert.Equal(t, "A4:Z4", AllColumns.Row(3).A1())
	assert.Equal(t, "D:E", ColumnSpan(4, 3).A1())
	assert.Equal(t, "A3:Z", Range{FirstCol: 0, LastCol: 25, FirstRow: 2, LastRow: -1}.A1())
}

func TestColumnLetter(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "A", ColumnLetter(0))
	assert.Equal(t, "Z", ColumnLetter(25))
	assert.Equal(t, "AA", ColumnLetter(26))
	assert.Equal(t, "AZ", ColumnLetter(51))
	assert.Equal(t, "BA", ColumnLetter(52))
}
