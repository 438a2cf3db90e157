// Package csvx implements the comma-separated dialect used by the lead
// stores and snapshots: RFC-4180 style quoting on write, tolerant parsing
// on read, and exactly one record per physical line. Store files are
// advisory data that may have been hand-edited, so parsing never fails;
// malformed quoting degrades to literal text.
package csvx

import "strings"

// ParseRow splits one line into its field values.
//
// Quoted fields may contain commas and doubled quotes (one literal quote).
// Unquoted fields are trimmed of surrounding whitespace; quoted fields are
// returned verbatim. An unterminated quote consumes the rest of the line as
// the literal field content.
func ParseRow(line string) []string {
	var fields []string
	rest := line
	for {
		value, remainder, more := splitField(rest)
		fields = append(fields, value)
		if !more {
			return fields
		}
		rest = remainder
	}
}

// splitField consumes one field from s. more reports whether a separating
// comma was consumed, meaning another field follows.
func splitField(s string) (value string, rest string, more bool) {
	trimmed := strings.TrimLeft(s, " \t")
	if !strings.HasPrefix(trimmed, `"`) {
		j := strings.IndexByte(s, ',')
		if j < 0 {
			return strings.TrimSpace(s), "", false
		}
		return strings.TrimSpace(s[:j]), s[j+1:], true
	}

	var b strings.Builder
	i := 1
	for i < len(trimmed) {
		c := trimmed[i]
		if c != '"' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 < len(trimmed) && trimmed[i+1] == '"' {
			b.WriteByte('"')
			i += 2
			continue
		}
		// Closing quote: the field ends at the next comma.
		j := strings.IndexByte(trimmed[i+1:], ',')
		if j < 0 {
			return b.String(), "", false
		}
		return b.String(), trimmed[i+1+j+1:], true
	}
	// Unterminated quote: everything scanned is the literal field.
	return b.String(), "", false
}

// SerializeRow joins fields into one line. A field is quoted when its value
// requires it (comma, quote) or when quoted[i] declares the column
// always-quoted. Embedded quotes are escaped by doubling. The dialect is one
// record per physical line and readers split on newlines before parsing, so
// newlines inside a value are flattened to single spaces.
func SerializeRow(fields []string, quoted []bool) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		force := i < len(quoted) && quoted[i]
		parts[i] = encodeField(f, force)
	}
	return strings.Join(parts, ",")
}

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func encodeField(v string, force bool) string {
	v = newlineReplacer.Replace(v)
	if !force && !strings.ContainsAny(v, `,"`) {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// Lines splits file content into non-blank lines.
func Lines(content string) []string {
	raw := strings.Split(content, "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
