package docfill

import "fmt"

// Action is the matcher's verdict for one marker.
type Action int

const (
	ActionUpdate        Action = iota // key present with a non-null value
	ActionSkipNull                    // key present, value explicitly null
	ActionSkipUnmatched               // key absent from the field map
)

func (a Action) String() string {
	switch a {
	case ActionUpdate:
		return "update"
	case ActionSkipNull:
		return "skip-null"
	case ActionSkipUnmatched:
		return "skip-unmatched"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Decision pairs a marker with what happens to it.
type Decision struct {
	Marker CellInfo
	Action Action
	Value  Value // set only for ActionUpdate
}

// Reason explains the decision in Operation Log form.
func (d Decision) Reason() string {
	switch d.Action {
	case ActionUpdate:
		return fmt.Sprintf("value provided for %s", d.Marker.Text)
	case ActionSkipNull:
		return fmt.Sprintf("null value provided for %s", d.Marker.Text)
	}
	return fmt.Sprintf("no value provided for %s", d.Marker.Text)
}

// Match decides, per marker, whether it is updated. A marker matches a key only
// when its trimmed text equals the key exactly. Keys matching no marker are
// ignored. Decisions come back in marker order.
func Match(markers []CellInfo, fields FieldMap) []Decision {
	decisions := make([]Decision, 0, len(markers))
	for _, m := range markers {
		d := Decision{Marker: m, Action: ActionSkipUnmatched}
		if v, ok := fields.Lookup(m.Text); ok {
			if v.IsNull() {
				d.Action = ActionSkipNull
			} else {
				d.Action = ActionUpdate
				d.Value = v
			}
		}
		decisions = append(decisions, d)
	}
	return decisions
}
