// Package dotenv parses KEY=VALUE environment files and expands template
// variable references within their values.
package dotenv

import (
	"bufio"
	"io"
	"strings"
)

// Entry is a single parsed dotenv line. Exported is set when the line used
// the `export ` prefix, which asks for the entry to be pushed into the live
// process environment unconditionally.
type Entry struct {
	Key      string
	Value    string
	Exported bool
}

// Parse reads dotenv content and returns its entries in file order.
// Blank lines and whole-line `#` comments are skipped, as are lines without
// an `=`. Duplicate keys are preserved in order; the caller applies its own
// last-wins or first-wins policy. Trailing inline comments are NOT
// stripped, only whole-line comments are recognised.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		exported := false
		if strings.HasPrefix(line, "export ") {
			exported = true
			line = strings.TrimSpace(line[len("export "):])
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			// Malformed line. Skipping is a policy choice, not an error.
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}

		entries = append(entries, Entry{
			Key:      key,
			Value:    unquote(strings.TrimSpace(value)),
			Exported: exported,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// unquote strips one layer of matching quotes. Double-quoted values get
// escape sequence processing; single-quoted values are taken verbatim.
func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	if value[0] == '"' && value[len(value)-1] == '"' {
		return unescape(value[1 : len(value)-1])
	}
	if value[0] == '\'' && value[len(value)-1] == '\'' {
		return value[1 : len(value)-1]
	}
	return value
}

// unescape processes escape sequences in a double-quoted value.
func unescape(s string) string {
	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'n':
				result.WriteByte('\n')
				i++
			case 't':
				result.WriteByte('\t')
				i++
			case 'r':
				result.WriteByte('\r')
				i++
			case '\\':
				result.WriteByte('\\')
				i++
			case '"':
				result.WriteByte('"')
				i++
			default:
				// Unknown escape sequence, keep the backslash.
				result.WriteByte(s[i])
			}
		} else {
			result.WriteByte(s[i])
		}
	}

	return result.String()
}
