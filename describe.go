package docfill

import (
	"fmt"
	"strings"
)

// Describe loads a template and returns a human-readable tree of its tables,
// rows and cells with editable cells flagged. Useful while authoring templates.
func Describe(templatePath string, opts ...Option) (string, error) {
	allOpts := append([]Option{WithTemplate(templatePath)}, opts...)
	filler := NewFiller(allOpts...)
	return filler.Describe()
}

// Describe opens the template, scans it, and renders the structure.
func (f *Filler) Describe() (string, error) {
	tx, err := f.openTemplate()
	if err != nil {
		return "", err
	}
	scan := Scan(tx.Template())

	var b strings.Builder
	b.WriteString("Template: ")
	if f.opts.templatePath != "" && f.opts.templateBytes == nil {
		b.WriteString(f.opts.templatePath)
	} else {
		b.WriteString("<memory>")
	}
	b.WriteByte('\n')

	markers := make(map[CellRef]bool, len(scan.Markers))
	for _, m := range scan.Markers {
		markers[m.Ref] = true
	}

	for _, t := range scan.Tables {
		fmt.Fprintf(&b, "Table %d: %d rows, %d columns\n", t.Index, t.Rows, t.Columns)
		row := -1
		for _, c := range t.Cells {
			if c.Ref.Row != row {
				row = c.Ref.Row
				fmt.Fprintf(&b, "  Row %d\n", row+1)
			}
			flag := ""
			if markers[c.Ref] {
				flag = " [edit]"
			}
			fmt.Fprintf(&b, "    %s%s: %s\n", c.Ref.CellName(), flag, describeText(c.Text))
		}
	}
	fmt.Fprintf(&b, "Editable cells: %d\n", len(scan.Markers))
	return b.String(), nil
}

// describeText keeps one cell on one line.
func describeText(s string) string {
	s = strings.ReplaceAll(s, "\n", `\n`)
	return strings.ReplaceAll(s, "\t", `\t`)
}
