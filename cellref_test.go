package docfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellRef_String(t *testing.T) {
	ref := NewCellRef(0, 0, 0)
	assert.Equal(t, "Table 0, Cell (1, 1)", ref.String())
	assert.Equal(t, "Cell (1, 1)", ref.CellName())
	assert.Equal(t, "Table 2, Cell (4, 3)", NewCellRef(2, 3, 2).String())
}

func TestParseCellRef(t *testing.T) {
	ref, err := ParseCellRef("Table 2, Cell (4, 3)")
	require.NoError(t, err)
	assert.Equal(t, NewCellRef(2, 3, 2), ref)

	ref, err = ParseCellRef(" Table 0 ,Cell(1,1) ")
	require.NoError(t, err)
	assert.Equal(t, NewCellRef(0, 0, 0), ref)

	for _, bad := range []string{"", "Cell (1, 1)", "Table 0, Cell (0, 1)", "Table x, Cell (1, 1)"} {
		_, err := ParseCellRef(bad)
		assert.Error(t, err, bad)
	}
}

func TestCellRef_RoundTrip(t *testing.T) {
	ref := NewCellRef(1, 9, 4)
	parsed, err := ParseCellRef(ref.String())
	require.NoError(t, err)
	assert.Equal(t, ref, parsed)
}

func TestCellRef_Less(t *testing.T) {
	assert.True(t, NewCellRef(0, 5, 5).Less(NewCellRef(1, 0, 0)))
	assert.True(t, NewCellRef(1, 0, 5).Less(NewCellRef(1, 1, 0)))
	assert.True(t, NewCellRef(1, 1, 0).Less(NewCellRef(1, 1, 1)))
	assert.False(t, NewCellRef(1, 1, 1).Less(NewCellRef(1, 1, 1)))
}
