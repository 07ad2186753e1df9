package docfill

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the outcome of one fill invocation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Stage is a step of the fill pipeline. Result.Stage holds the last one reached.
type Stage int

const (
	StageStart Stage = iota
	StageTemplateLoaded
	StageScanned
	StageRewritten
	StageSerialized
	StageDone
	StageError
)

var stageNames = [...]string{
	StageStart:          "START",
	StageTemplateLoaded: "TEMPLATE_LOADED",
	StageScanned:        "SCANNED",
	StageRewritten:      "MATCHED_AND_REWRITTEN",
	StageSerialized:     "SERIALIZED",
	StageDone:           "DONE",
	StageError:          "ERROR",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// MarshalText encodes the stage name.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a stage name.
func (s *Stage) UnmarshalText(text []byte) error {
	for i, name := range stageNames {
		if name == string(text) {
			*s = Stage(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", text)
}

// Result is what one fill invocation returns. It is built fresh per call.
type Result struct {
	Status   Status   `json:"status"`
	Messages []string `json:"messages"`
	Stage    Stage    `json:"stage"`

	Tables  []TableInfo `json:"tables,omitempty"`
	Markers []CellInfo  `json:"markers,omitempty"`
	Updated []CellInfo  `json:"updated,omitempty"` // Text holds the written value
	Skipped []CellInfo  `json:"skipped,omitempty"`
	Failed  []CellInfo  `json:"failed,omitempty"`

	// Document holds the serialized output on success when the caller asked for
	// bytes. It is empty whenever Status is StatusError.
	Document []byte `json:"-"`
}

// OK reports whether the invocation succeeded.
func (r *Result) OK() bool {
	return r != nil && r.Status == StatusSuccess
}

// MarshalJSON renders a cell as {"table", "row", "column", "text"} using the
// same 1-based row/column numbering as the Operation Log.
func (c CellInfo) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Table  int    `json:"table"`
		Row    int    `json:"row"`
		Column int    `json:"column"`
		Text   string `json:"text"`
	}{c.Ref.Table, c.Ref.Row + 1, c.Ref.Col + 1, c.Text})
}

// Reporter accumulates the ordered Operation Log of one invocation.
type Reporter struct {
	res *Result
}

// NewReporter starts an empty, successful result at StageStart.
func NewReporter() *Reporter {
	return &Reporter{res: &Result{Status: StatusSuccess, Messages: []string{}, Stage: StageStart}}
}

// Logf appends one message.
func (r *Reporter) Logf(format string, args ...any) {
	r.res.Messages = append(r.res.Messages, fmt.Sprintf(format, args...))
}

// Advance records that the pipeline reached stage.
func (r *Reporter) Advance(stage Stage) {
	r.res.Stage = stage
}

// MarkerFound logs a discovered editable cell.
func (r *Reporter) MarkerFound(m CellInfo) {
	r.res.Markers = append(r.res.Markers, m)
	r.Logf("Found editable cell in %s: %s", m.Ref, m.Text)
}

// Updated logs a successful rewrite.
func (r *Reporter) Updated(d Decision, font Font) {
	value := d.Value.String()
	r.res.Updated = append(r.res.Updated, CellInfo{Ref: d.Marker.Ref, Text: value})
	r.Logf("Updated cell in %s with value: %s (font: %s)", d.Marker.Ref, value, font)
}

// Skipped logs a marker left untouched by a null or missing value.
func (r *Reporter) Skipped(d Decision) {
	r.res.Skipped = append(r.res.Skipped, d.Marker)
	r.Logf("Skipped cell in %s: %s", d.Marker.Ref, d.Reason())
}

// Vetoed logs a marker a FillListener chose not to rewrite.
func (r *Reporter) Vetoed(d Decision) {
	r.res.Skipped = append(r.res.Skipped, d.Marker)
	r.Logf("Skipped cell in %s: rewrite of %s declined by listener", d.Marker.Ref, d.Marker.Text)
}

// Failed logs a rewrite that could not be applied. The cell kept its content.
func (r *Reporter) Failed(d Decision, err error) {
	r.res.Failed = append(r.res.Failed, d.Marker)
	r.Logf("Failed to update cell in %s: %v", d.Marker.Ref, err)
}

// Fail terminates the invocation: status error, no document.
func (r *Reporter) Fail(message string) *Result {
	r.res.Status = StatusError
	r.res.Stage = StageError
	r.res.Document = nil
	r.Logf("%s", message)
	return r.res
}

// Summarize appends the counts, marker/update lists and the per-table detail dump.
func (r *Reporter) Summarize(scan *ScanReport) {
	r.res.Tables = scan.Tables

	r.Logf("Found %d tables in the document.", len(scan.Tables))
	r.Logf("Found %d editable cells; updated %d cells.", len(scan.Markers), len(r.res.Updated))

	if len(scan.Markers) > 0 {
		r.Logf("Editable cells: %s", joinCells(scan.Markers))
	} else {
		r.Logf("No cells with 'EDIT_' or 'EDIT' found.")
	}
	if len(r.res.Updated) > 0 {
		r.Logf("Updated cells: %s", joinCells(r.res.Updated))
	} else {
		r.Logf("No cells updated.")
	}
	if len(scan.EditLike) > 0 {
		r.Logf("Cells mentioning 'edit' that are not editable: %s", joinCells(scan.EditLike))
	}

	r.Logf("Table details:")
	for _, t := range scan.Tables {
		r.Logf("Table %d: %d rows, %d columns", t.Index, t.Rows, t.Columns)
		for _, c := range t.Cells {
			r.Logf("  %s: %s", c.Ref.CellName(), c.Text)
		}
	}
}

// Result returns the accumulated result.
func (r *Reporter) Result() *Result {
	return r.res
}

func joinCells(cells []CellInfo) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprintf("%s: %s", c.Ref, c.Text)
	}
	return strings.Join(parts, ", ")
}
