package mapping

import (
	"fmt"
	"strconv"
	"time"

	"github.com/javajack/docfill/roster"
)

// DateLayout is how dates are rendered unless an expression asks otherwise.
const DateLayout = "20060102"

// NewEnv builds the expression environment for one member. mos may be nil;
// its fields then evaluate to nil and leave their markers in place.
//
// Variables: member, mos, today, now. Functions: date(value, layout).
// expr-lang builtins such as upper, trim and join are always available.
func NewEnv(m roster.Member, mos *roster.MOS, now time.Time) map[string]any {
	mosEnv := map[string]any{}
	if mos != nil {
		mosEnv["bilmos"] = mos.BilMOS
		mosEnv["desc"] = mos.Description
	}
	return map[string]any{
		"member": MemberEnv(m),
		"mos":    mosEnv,
		"today":  now.Format(DateLayout),
		"now":    now,
		"date":   formatDate,
	}
}

// MemberEnv exposes a member under the same keys as its JSON form.
func MemberEnv(m roster.Member) map[string]any {
	return map[string]any{
		"rank":      m.Rank,
		"firstName": m.FirstName,
		"lastName":  m.LastName,
		"mi":        m.MI,
		"edipi":     m.EDIPI,
		"dor":       m.DOR,
		"pmos":      m.PMOS,
		"bilmos":    m.BilMOS,
	}
}

// shapeEnv is used to type-check expressions without real data.
func shapeEnv() map[string]any {
	return NewEnv(roster.Member{}, nil, time.Time{})
}

// formatDate renders a YYYYMMDD number or string, or a time.Time, with layout.
func formatDate(v any, layout string) (string, error) {
	var t time.Time
	switch x := v.(type) {
	case nil:
		return "", nil
	case time.Time:
		t = x
	case int:
		return formatDate(strconv.Itoa(x), layout)
	case int64:
		return formatDate(strconv.FormatInt(x, 10), layout)
	case float64:
		return formatDate(strconv.FormatInt(int64(x), 10), layout)
	case string:
		if x == "" {
			return "", nil
		}
		parsed, err := time.Parse(DateLayout, x)
		if err != nil {
			return "", fmt.Errorf("date: %q is not a YYYYMMDD date", x)
		}
		t = parsed
	default:
		return "", fmt.Errorf("date: unsupported value %T", v)
	}
	return t.Format(layout), nil
}
