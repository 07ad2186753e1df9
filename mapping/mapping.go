// Package mapping derives a document Field Map from roster data. A mapping
// assigns each editable cell marker an expression evaluated over the member,
// its MOS description and the current date.
package mapping

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/javajack/docfill"
	"github.com/javajack/docfill/roster"
)

//go:embed counseling.yaml
var counselingYAML []byte

// ErrInvalidMapping is returned for mapping files that cannot be used.
var ErrInvalidMapping = errors.New("invalid mapping")

// Mapping binds markers to expressions.
type Mapping struct {
	Name     string            `yaml:"name"`
	Template string            `yaml:"template,omitempty"` // optional template path
	Fields   map[string]string `yaml:"fields"`

	eval Evaluator
}

// Default returns the built-in counseling worksheet mapping.
func Default() (*Mapping, error) {
	return Parse(counselingYAML)
}

// Load reads and validates a mapping file.
func Load(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a YAML mapping and validates it. Unknown keys are rejected.
func Parse(data []byte) (*Mapping, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var m Mapping
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
	}
	m.eval = NewEvaluator()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Markers returns the mapped markers in sorted order.
func (m *Mapping) Markers() []string {
	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks that every key is a marker and every expression compiles.
func (m *Mapping) Validate() error {
	if len(m.Fields) == 0 {
		return fmt.Errorf("%w: no fields", ErrInvalidMapping)
	}
	env := shapeEnv()
	var errs []error
	for _, key := range m.Markers() {
		if !docfill.IsMarker(key) {
			errs = append(errs, fmt.Errorf("%w: key %q is not an editable cell marker", ErrInvalidMapping, key))
			continue
		}
		if err := m.evaluator().Compile(m.Fields[key], env); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrInvalidMapping, key, err))
		}
	}
	return errors.Join(errs...)
}

// Build evaluates every expression against env. A nil result maps to null,
// so the marker stays in the document.
func (m *Mapping) Build(env map[string]any) (docfill.FieldMap, error) {
	fields := make(docfill.FieldMap, len(m.Fields))
	for _, key := range m.Markers() {
		raw, err := m.evaluator().Evaluate(m.Fields[key], env)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		v, err := toValue(raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		fields[key] = v
	}
	return fields, nil
}

// ForMember looks up the member and its billet MOS description in store and
// builds the field map. A missing MOS description is not an error.
func (m *Mapping) ForMember(ctx context.Context, store roster.Store, edipi string, now time.Time) (docfill.FieldMap, error) {
	member, err := store.GetMember(ctx, edipi)
	if err != nil {
		return nil, err
	}
	var mos *roster.MOS
	desc, err := store.GetMOS(ctx, member.BilMOS)
	switch {
	case err == nil:
		mos = &desc
	case !errors.Is(err, roster.ErrNotFound):
		return nil, fmt.Errorf("look up mos %s: %w", member.BilMOS, err)
	}
	return m.Build(NewEnv(member, mos, now))
}

func (m *Mapping) evaluator() Evaluator {
	if m.eval == nil {
		m.eval = NewEvaluator()
	}
	return m.eval
}

func toValue(raw any) (docfill.Value, error) {
	switch x := raw.(type) {
	case bool:
		return docfill.StringValue(strconv.FormatBool(x)), nil
	case time.Time:
		return docfill.StringValue(x.Format(DateLayout)), nil
	case fmt.Stringer:
		if _, ok := raw.(docfill.Value); !ok {
			return docfill.StringValue(x.String()), nil
		}
	}
	return docfill.ValueOf(raw)
}
