package tabular

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/notekit/display/userconfig"
)

// tableContent is used to populate the preview table templates. We want to
// keep Frame as close as possible to what the caller handed us, and
// tableContent as close as possible to what a notebook reader would want to
// see, while decoupling the two.
type tableContent struct {
	Columns []string
	Rows    [][]string
	// Rows beyond the preview limit. Zero means the preview is complete.
	OmittedRows int
	// Columns beyond the preview limit
	OmittedCols int
}

// Template meant to be populated with a tableContent. Styling is left to the
// frontend: notebook frontends apply their own table CSS, and inline styles
// would fight it.
const previewTableHTML = `<table>
<thead>
<tr>{{ range .Columns }}<th>{{ . }}</th>{{ end }}</tr>
</thead>
<tbody>
{{ range .Rows }}<tr>{{ range . }}<td>{{ . }}</td>{{ end }}</tr>
{{ end }}</tbody>
</table>
{{ if or .OmittedRows .OmittedCols }}<p>{{ if .OmittedRows }}&hellip; and {{ .OmittedRows }} more rows{{ end }}{{ if and .OmittedRows .OmittedCols }}, {{ end }}{{ if .OmittedCols }}{{ .OmittedCols }} more columns{{ end }}</p>
{{ end }}`

// newTableContent readies a Frame for template rendering, applying the
// configured row and column limits.
func newTableContent(f Frame, limits userconfig.Limits) tableContent {
	s := f.Schema()

	fields := s.Fields
	omittedCols := 0
	if limits.PreviewCols > 0 && len(fields) > limits.PreviewCols {
		omittedCols = len(fields) - limits.PreviewCols
		fields = fields[:limits.PreviewCols]
	}

	total := len(f.Records())
	head := f
	if limits.PreviewRows > 0 {
		head = f.Head(limits.PreviewRows)
	}
	records := head.Records()

	tc := tableContent{
		Columns:     make([]string, len(fields)),
		Rows:        make([][]string, len(records)),
		OmittedRows: total - len(records),
		OmittedCols: omittedCols,
	}
	for i, fd := range fields {
		tc.Columns[i] = fd.Name
	}
	for i, r := range records {
		row := make([]string, len(fields))
		for j, fd := range fields {
			row[j] = cellString(r[fd.Name])
		}
		tc.Rows[i] = row
	}

	return tc
}

// cellString renders one cell value. Missing values render as empty cells
// rather than "<nil>".
func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// HTMLTable produces the text/html preview of a Frame: a header row from
// the schema, up to the configured number of body rows, and a note about
// anything omitted. Cell text is escaped by html/template, so untrusted
// cell values can't inject markup.
func HTMLTable(f Frame, limits userconfig.Limits) string {
	tc := newTableContent(f, limits)

	var str strings.Builder
	// The template text is constant, so suppressing the error
	tmpl, _ := template.New("table").Parse(previewTableHTML)
	tmpl.Execute(&str, tc)

	return str.String()
}

// TextTable produces the text/plain preview of a Frame with aligned
// columns, satisfying frontends that can't render HTML.
func TextTable(f Frame, limits userconfig.Limits) string {
	tc := newTableContent(f, limits)

	// Column widths come from the widest cell, header included
	widths := make([]int, len(tc.Columns))
	for i, c := range tc.Columns {
		widths[i] = len(c)
	}
	for _, r := range tc.Rows {
		for i, c := range r {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	var str strings.Builder
	writeRow := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				str.WriteString("  ")
			}
			str.WriteString(c)
			// Don't pad the final column, or every line gets
			// trailing whitespace
			if i < len(cells)-1 {
				str.WriteString(strings.Repeat(" ", widths[i]-len(c)))
			}
		}
		str.WriteString("\n")
	}

	writeRow(tc.Columns)

	rules := make([]string, len(tc.Columns))
	for i := range widths {
		rules[i] = strings.Repeat("-", widths[i])
	}
	writeRow(rules)

	for _, r := range tc.Rows {
		writeRow(r)
	}

	if tc.OmittedRows > 0 {
		fmt.Fprintf(&str, "... and %v more rows\n", tc.OmittedRows)
	}
	if tc.OmittedCols > 0 {
		fmt.Fprintf(&str, "... and %v more columns\n", tc.OmittedCols)
	}

	return str.String()
}
