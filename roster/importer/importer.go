// Package importer reads roster members from CSV or XLSX sheets and writes the
// roster back out as a workbook.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/javajack/docfill/roster"
)

// Row is one decoded data row.
type Row struct {
	Line   int // 1-based line or sheet row number
	Member roster.Member
}

// RowError reports a row that could not be decoded or stored.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Summary counts the outcome of an Import.
type Summary struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Failed  []RowError `json:"-"`
}

// Errors returns the failed rows as strings, suitable for a JSON response.
func (s Summary) Errors() []string {
	out := make([]string, len(s.Failed))
	for i, e := range s.Failed {
		out[i] = e.Error()
	}
	return out
}

// ErrNoHeader is returned when the input has no recognizable header row.
var ErrNoHeader = errors.New("roster sheet has no header row")

type column int

const (
	colRank column = iota
	colFirstName
	colLastName
	colMI
	colEDIPI
	colDOR
	colPMOS
	colBilMOS
	numColumns
)

// headerAliases maps a normalized header to its column.
var headerAliases = map[string]column{
	"rank":          colRank,
	"grade":         colRank,
	"firstname":     colFirstName,
	"first":         colFirstName,
	"lastname":      colLastName,
	"last":          colLastName,
	"mi":            colMI,
	"middleinitial": colMI,
	"edipi":         colEDIPI,
	"dor":           colDOR,
	"dateofrank":    colDOR,
	"pmos":          colPMOS,
	"primarymos":    colPMOS,
	"bilmos":        colBilMOS,
	"billetmos":     colBilMOS,
}

// exportHeader is written by WriteXLSX and accepted by the readers.
var exportHeader = []string{"Rank", "First Name", "Last Name", "MI", "EDIPI", "DOR", "PMOS", "BILMOS"}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(s)
}

// headerIndex resolves header cells to column positions. Required columns
// must all be present; MI is optional.
func headerIndex(header []string) ([numColumns]int, error) {
	var idx [numColumns]int
	for i := range idx {
		idx[i] = -1
	}
	for pos, h := range header {
		if c, ok := headerAliases[normalizeHeader(h)]; ok && idx[c] < 0 {
			idx[c] = pos
		}
	}
	var missing []string
	for c, pos := range idx {
		if pos < 0 && column(c) != colMI {
			missing = append(missing, exportHeader[c])
		}
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("%w: missing columns %s", ErrNoHeader, strings.Join(missing, ", "))
	}
	return idx, nil
}

// decodeRow builds a member from one record using idx.
func decodeRow(idx [numColumns]int, record []string) (roster.Member, error) {
	get := func(c column) string {
		pos := idx[c]
		if pos < 0 || pos >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[pos])
	}

	dor, err := parseDOR(get(colDOR))
	if err != nil {
		return roster.Member{}, err
	}
	m := roster.Member{
		Rank:      get(colRank),
		FirstName: get(colFirstName),
		LastName:  get(colLastName),
		MI:        get(colMI),
		EDIPI:     get(colEDIPI),
		DOR:       dor,
		PMOS:      padCode(get(colPMOS)),
		BilMOS:    padCode(get(colBilMOS)),
	}.Normalize()
	if err := m.Validate(); err != nil {
		return roster.Member{}, err
	}
	return m, nil
}

var dorLayouts = []string{"20060102", "2006-01-02", "01/02/2006", "1/2/2006", "01-02-06", "1/2/06", "02 Jan 2006", "2 Jan 2006"}

// parseDOR accepts YYYYMMDD numbers and the date layouts spreadsheets commonly render.
func parseDOR(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: dor is required", roster.ErrInvalid)
	}
	for _, layout := range dorLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year()*10000 + int(t.Month())*100 + t.Day(), nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	return 0, fmt.Errorf("%w: unrecognized dor %q", roster.ErrInvalid, s)
}

// padCode restores leading zeros a spreadsheet dropped from a numeric MOS code.
func padCode(s string) string {
	if s == "" || len(s) >= 4 {
		return s
	}
	if _, err := strconv.Atoi(s); err != nil {
		return s
	}
	return strings.Repeat("0", 4-len(s)) + s
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// decodeRecords turns a header plus data records into rows. lines[i] is the
// source line of records[i].
func decodeRecords(records [][]string, lines []int) ([]Row, []RowError, error) {
	start := -1
	for i, rec := range records {
		if !blank(rec) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, nil, ErrNoHeader
	}
	idx, err := headerIndex(records[start])
	if err != nil {
		return nil, nil, err
	}

	var rows []Row
	var rowErrs []RowError
	for i := start + 1; i < len(records); i++ {
		if blank(records[i]) {
			continue
		}
		line := lines[i]
		m, err := decodeRow(idx, records[i])
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Err: err})
			continue
		}
		rows = append(rows, Row{Line: line, Member: m})
	}
	return rows, rowErrs, nil
}

// Import creates each member, falling back to an update when the EDIPI is
// already on the roster. Failures are collected per row; ctx cancellation
// stops the import.
func Import(ctx context.Context, store roster.Store, rows []Row) (Summary, error) {
	var sum Summary
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		err := store.CreateMember(ctx, r.Member)
		if errors.Is(err, roster.ErrAlreadyExists) {
			err = store.UpdateMember(ctx, r.Member)
			if err == nil {
				sum.Updated++
				continue
			}
		}
		if err != nil {
			sum.Failed = append(sum.Failed, RowError{Line: r.Line, Err: err})
			continue
		}
		sum.Created++
	}
	return sum, nil
}
