package docfill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/require"

	"github.com/javajack/docfill/internal/docxgen"
)

// writeTemplate renders b into a .docx file under a per-test directory.
func writeTemplate(t *testing.T, b *docxgen.Builder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.docx")
	require.NoError(t, b.WriteFile(path))
	return path
}

// templateBytes renders b into memory.
func templateBytes(t *testing.T, b *docxgen.Builder) []byte {
	t.Helper()
	data, err := b.Bytes()
	require.NoError(t, err)
	return data
}

// createBasicTemplate creates the one-table template used by most tests.
// Layout:
//
//	Table 0:  EDIT_name | Static
func createBasicTemplate(t *testing.T) string {
	t.Helper()
	return writeTemplate(t, docxgen.New().Table([]string{"EDIT_name", "Static"}))
}

// createRosterTemplate creates a two-table template with headers, markers and
// a cell that mentions "edit" without being a marker.
//
//	Table 0:  Rank      | Last Name     | First Name
//	          EDIT_rank | EDIT_lastName | EDIT_firstName
//	Table 1:  Editor notes | EDIT
//	          edit_date    | Signed
func createRosterTemplate(t *testing.T) string {
	t.Helper()
	b := docxgen.New().
		Paragraph("Counseling").
		Table(
			[]string{"Rank", "Last Name", "First Name"},
			[]string{"EDIT_rank", "EDIT_lastName", "EDIT_firstName"},
		).
		Table(
			[]string{"Editor notes", "EDIT"},
			[]string{"edit_date", "Signed"},
		)
	return writeTemplate(t, b)
}

// openOutput parses a filled document for inspection.
func openOutput(t *testing.T, res *Result) *Template {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Document, "result has no document")
	tx, err := NewDocxTransformer(res.Document)
	require.NoError(t, err)
	return tx.Template()
}

// cellXML serializes a cell's element so tests can compare content exactly.
func cellXML(t *testing.T, c *Cell) string {
	t.Helper()
	doc := etree.NewDocument()
	doc.SetRoot(c.el.Copy())
	s, err := doc.WriteToString()
	require.NoError(t, err)
	return s
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
