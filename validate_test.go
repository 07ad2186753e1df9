package docfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	path := createRosterTemplate(t)

	issues, err := Validate(path, FieldMap{
		"EDIT_rank":      StringValue("SGT\x00"),
		"EDIT_lastName":  StringValue("LI"),
		"EDIT_firstName": Null,
		"EDIT":           StringValue("x"),
		"edit_date":      IntValue(1),
		"EDIT_lastname":  StringValue("typo"),
		"Rank":           StringValue("not a marker"),
	})
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, SeverityError, issues[0].Severity)
	require.NotNil(t, issues[0].Cell)
	assert.Equal(t, NewCellRef(0, 1, 0), *issues[0].Cell)
	assert.Contains(t, issues[0].String(), "[ERROR] Table 0, Cell (2, 1): ")

	assert.Equal(t, SeverityWarning, issues[1].Severity)
	assert.Nil(t, issues[1].Cell)
	assert.Equal(t, "EDIT_lastname", issues[1].Key)
	assert.Contains(t, issues[1].String(), "[WARN] EDIT_lastname: ")
}

func TestValidate_UnmatchedMarkers(t *testing.T) {
	issues, err := Validate(createBasicTemplate(t), FieldMap{})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, "EDIT_name", issues[0].Key)
}

func TestValidate_BadFont(t *testing.T) {
	issues, err := Validate(createBasicTemplate(t),
		FieldMap{"EDIT_name": StringValue("x")},
		WithFont(Font{Name: "Arial", Size: 0}))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "cannot be applied")
}
