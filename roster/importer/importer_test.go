package importer

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/javajack/docfill/roster"
	"github.com/javajack/docfill/roster/sqlite"
)

const rosterCSV = "\ufeffRank,First Name,Last_Name,MI,EDIPI,DOR,PMOS,BILMOS\n" +
	"sgt,Denny,Li,k,1234567890,20230115,0311,0369\n" +
	"\n" +
	"cpl,Ana,Ruiz,,1234567891,2024-03-01,311,369\n" +
	"pfc,Bad,Row,,12,20240101,0311,0311\n"

func TestReadCSV(t *testing.T) {
	rows, rowErrs, err := ReadCSV(strings.NewReader(rosterCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, roster.Member{
		Rank: "SGT", FirstName: "DENNY", LastName: "LI", MI: "K",
		EDIPI: "1234567890", DOR: 20230115, PMOS: "0311", BilMOS: "0369",
	}, rows[0].Member)

	assert.Equal(t, 4, rows[1].Line)
	assert.Equal(t, 20240301, rows[1].Member.DOR)
	assert.Equal(t, "0311", rows[1].Member.PMOS)
	assert.Equal(t, "0369", rows[1].Member.BilMOS)

	require.Len(t, rowErrs, 1)
	assert.Equal(t, 5, rowErrs[0].Line)
	assert.True(t, errors.Is(rowErrs[0], roster.ErrInvalid))
	assert.Contains(t, rowErrs[0].Error(), "line 5: ")
}

func TestReadCSV_MissingColumns(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("Rank,First Name\nSGT,DENNY\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoHeader))
	assert.Contains(t, err.Error(), "Last Name")
	assert.NotContains(t, err.Error(), "MI")

	_, _, err = ReadCSV(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrNoHeader))
}

func TestParseDOR(t *testing.T) {
	tests := map[string]int{
		"20230115":   20230115,
		"2023-01-15": 20230115,
		"01/15/2023": 20230115,
		"1/15/23":    20230115,
	}
	for in, want := range tests {
		got, err := parseDOR(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := parseDOR("yesterday")
	assert.Error(t, err)
}

func TestWriteReadXLSX(t *testing.T) {
	members := []roster.Member{
		{Rank: "SGT", FirstName: "DENNY", LastName: "LI", MI: "K", EDIPI: "1234567890", DOR: 20230115, PMOS: "0311", BilMOS: "0369"},
		{Rank: "CPL", FirstName: "ANA", LastName: "RUIZ", EDIPI: "1234567891", DOR: 20240301, PMOS: "0311", BilMOS: "0311"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, members))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	styleID, err := f.GetCellStyle(SheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	require.NoError(t, f.Close())

	rows, rowErrs, err := ReadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)
	assert.Equal(t, members[0], rows[0].Member)
	assert.Equal(t, members[1], rows[1].Member)
	assert.Equal(t, 3, rows[1].Line)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name, contentType string
		head              []byte
		want              Format
	}{
		{"roster.XLSX", "", nil, FormatXLSX},
		{"roster.csv", "", nil, FormatCSV},
		{"", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil, FormatXLSX},
		{"", "text/csv; charset=utf-8", nil, FormatCSV},
		{"", "application/octet-stream", []byte("PK\x03\x04rest"), FormatXLSX},
		{"", "", []byte("Rank,EDIPI"), FormatCSV},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.name, tt.contentType, tt.head)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := DetectFormat("roster.pdf", "application/pdf", []byte("%PDF"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "roster.db"))
	require.NoError(t, err)
	defer store.Close()

	rows, _, err := ReadCSV(strings.NewReader(rosterCSV))
	require.NoError(t, err)

	sum, err := Import(ctx, store, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Created)
	assert.Equal(t, 0, sum.Updated)
	assert.Empty(t, sum.Failed)

	rows[0].Member.Rank = "SSGT"
	rows = append(rows, Row{Line: 9, Member: roster.Member{Rank: "X"}})
	sum, err = Import(ctx, store, rows)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Created)
	assert.Equal(t, 2, sum.Updated)
	require.Len(t, sum.Failed, 1)
	assert.Equal(t, 9, sum.Failed[0].Line)
	assert.Equal(t, []string{sum.Failed[0].Error()}, sum.Errors())

	got, err := store.GetMember(ctx, "1234567890")
	require.NoError(t, err)
	assert.Equal(t, "SSGT", got.Rank)
}

func TestImport_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Import(ctx, nil, []Row{{Line: 2}})
	assert.True(t, errors.Is(err, context.Canceled))
}
