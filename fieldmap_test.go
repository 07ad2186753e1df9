package docfill

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldMap(t *testing.T) {
	fields, err := ParseFieldMap([]byte(`{"EDIT_rank": "SGT", "EDIT_DOR": 20240101, "EDIT_pay": 12.50, "EDIT_MI": null}`))
	require.NoError(t, err)
	require.Len(t, fields, 4)

	assert.Equal(t, StringValue("SGT"), fields["EDIT_rank"])
	assert.Equal(t, KindNumber, fields["EDIT_DOR"].Kind())
	assert.Equal(t, "20240101", fields["EDIT_DOR"].String())
	assert.Equal(t, "12.5", fields["EDIT_pay"].String())
	assert.True(t, fields["EDIT_MI"].IsNull())
}

func TestParseFieldMap_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"array", `[1]`, "must be an object, got array"},
		{"string", `"x"`, "must be an object, got string"},
		{"null document", `null`, "must be an object, got null"},
		{"nested object", `{"a": {"b": 1}}`, `value for "a"`},
		{"nested array", `{"a": [1]}`, "got array"},
		{"boolean", `{"a": true}`, "got boolean"},
		{"malformed", `{"a": `, "invalid JSON format"},
		{"empty", ``, "empty input"},
		{"trailing", `{} {}`, "unexpected data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFieldMap([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidFieldMap))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestDecodeFieldMap(t *testing.T) {
	fields, err := DecodeFieldMap(strings.NewReader(`{"EDIT": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, "x", fields["EDIT"].String())
}

func TestNumberValue_Canonical(t *testing.T) {
	tests := map[string]string{
		"20240101": "20240101",
		"1e3":      "1000",
		"-7":       "-7",
		"0.25":     "0.25",
		"2.50":     "2.5",

		"12345678901234567890":  "12345678901234567890",
		"-98765432109876543210": "-98765432109876543210",
	}
	for in, want := range tests {
		v, err := NumberValue(json.Number(in))
		require.NoError(t, err, in)
		assert.Equal(t, want, v.String(), in)
	}
}

func TestParseFieldMap_LargeInteger(t *testing.T) {
	fields, err := ParseFieldMap([]byte(`{"EDIT_x": 12345678901234567890}`))
	require.NoError(t, err)
	assert.Equal(t, KindNumber, fields["EDIT_x"].Kind())
	assert.Equal(t, "12345678901234567890", fields["EDIT_x"].String())
}

func TestFloatValue_NonFinite(t *testing.T) {
	_, err := FloatValue(math.NaN())
	assert.True(t, errors.Is(err, ErrInvalidFieldMap))
	_, err = FloatValue(math.Inf(1))
	assert.True(t, errors.Is(err, ErrInvalidFieldMap))
}

func TestFieldMapOf(t *testing.T) {
	fields, err := FieldMapOf(map[string]any{
		"EDIT_a": "x",
		"EDIT_b": 42,
		"EDIT_c": uint64(7),
		"EDIT_d": 1.5,
		"EDIT_e": nil,
	})
	require.NoError(t, err)
	assert.Equal(t, "x", fields["EDIT_a"].String())
	assert.Equal(t, "42", fields["EDIT_b"].String())
	assert.Equal(t, "7", fields["EDIT_c"].String())
	assert.Equal(t, "1.5", fields["EDIT_d"].String())
	assert.True(t, fields["EDIT_e"].IsNull())

	_, err = FieldMapOf(map[string]any{"EDIT_a": true})
	assert.True(t, errors.Is(err, ErrInvalidFieldMap))
}

func TestValue_JSON(t *testing.T) {
	fields := FieldMap{
		"s": StringValue(`say "hi"`),
		"n": IntValue(3),
		"z": Null,
	}
	data, err := json.Marshal(fields)
	require.NoError(t, err)
	assert.JSONEq(t, `{"s": "say \"hi\"", "n": 3, "z": null}`, string(data))

	var v Value
	assert.Error(t, json.Unmarshal([]byte(`false`), &v))
}

func TestFieldMap_Merge(t *testing.T) {
	base := FieldMap{"a": StringValue("1"), "b": StringValue("2")}
	merged := base.Merge(FieldMap{"b": Null, "c": IntValue(3)})

	assert.Equal(t, []string{"a", "b", "c"}, merged.Keys())
	assert.True(t, merged["b"].IsNull())
	assert.Equal(t, "2", base["b"].String(), "base must not change")
}
