package metrics

import (
	"strconv"
	"strings"
)

// Label is one name/value pair attached to a metric sample.
// Params: none.
// Returns: one ordered label entry.
type Label struct {
	Name  string
	Value string
}

// AppendBlock appends one HELP/TYPE/sample exposition block.
// Params: b output builder; name/help/kind family identity; labels ordered
// label set; value sample value.
// Returns: none.
func AppendBlock(b *strings.Builder, name, help string, kind MetricKind, labels []Label, value float64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(help)
	b.WriteByte('\n')

	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(kind.String())
	b.WriteByte('\n')

	b.WriteString(name)
	appendLabels(b, labels)
	b.WriteByte(' ')
	b.WriteString(FormatValue(value))
	b.WriteByte('\n')
}

// FormatValue renders a sample value in shortest fixed decimal notation.
// Params: value sample value.
// Returns: decimal string without exponent.
func FormatValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// appendLabels appends the {name="value",...} label block, or nothing when
// the label set is empty.
// Params: b output builder; labels ordered label set.
// Returns: none.
func appendLabels(b *strings.Builder, labels []Label) {
	if len(labels) == 0 {
		return
	}

	b.WriteByte('{')
	for idx, label := range labels {
		if idx > 0 {
			b.WriteByte(',')
		}
		b.WriteString(label.Name)
		b.WriteString(`="`)
		b.WriteString(escapeLabelValue(label.Value))
		b.WriteByte('"')
	}
	b.WriteByte('}')
}

// escapeLabelValue escapes backslash, double quote, and newline per the
// exposition format.
// Params: value raw label value.
// Returns: escaped label value.
func escapeLabelValue(value string) string {
	if !strings.ContainsAny(value, "\\\"\n") {
		return value
	}

	var b strings.Builder
	b.Grow(len(value) + 2)
	for _, r := range value {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
