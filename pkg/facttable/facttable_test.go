package facttable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFactNumber(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{"67708176982", 67708176982, true},
		{"1,234,567", 1234567, true},
		{"-500", -500, true},
		{"3.14", 3.14, true},
		{"該当なし", 0, false},
		{"", 0, false},
		{" 42 ", 42, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := Fact{RawValue: tt.raw}.Number()
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNewTableColumns(t *testing.T) {
	table := NewTable([]Fact{{TagID: "x:A"}}, ColTagID, ColValue)
	assert.True(t, table.HasColumn(ColTagID))
	assert.False(t, table.HasColumn(ColScope))
	assert.Equal(t, 1, table.Len())
}

func TestTableNilSafety(t *testing.T) {
	var table *Table
	assert.Equal(t, 0, table.Len())
	assert.False(t, table.HasColumn(ColTagID))
	assert.Nil(t, table.TagIDs())
}
