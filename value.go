package envault

import (
	"errors"
	"strconv"
	"strings"
)

// Canonical string forms for booleans. Parsing is far more lenient, see
// ParseBool.
const (
	TrueString  = "True"
	FalseString = "False"
)

var errBadBool = errors.New("not a recognised boolean")

// FormatBool renders b in its canonical environment form.
func FormatBool(b bool) string {
	if b {
		return TrueString
	}
	return FalseString
}

// ParseBool converts an environment string to a bool. It accepts the usual
// affirmative spellings (true, 1, yes, on, y, t) and their negative
// counterparts, case-insensitively. Anything else is an error.
func ParseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on", "y", "t":
		return true, nil
	case "false", "0", "no", "off", "n", "f":
		return false, nil
	}
	return false, errBadBool
}

// FormatInt renders i as an environment string.
func FormatInt(i int) string {
	return strconv.Itoa(i)
}

// ParseInt converts an environment string to an int.
func ParseInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// FormatFloat renders f as an environment string using the shortest
// representation that round-trips.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ParseFloat converts an environment string to a float64.
func ParseFloat(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}

// FormatList renders elements as a comma-separated string. An element is
// double-quoted only when it contains a comma, so simple lists stay clean.
func FormatList(elements []string) string {
	var b strings.Builder
	for i, el := range elements {
		if i > 0 {
			b.WriteByte(',')
		}
		if strings.Contains(el, ",") {
			b.WriteByte('"')
			b.WriteString(el)
			b.WriteByte('"')
		} else {
			b.WriteString(el)
		}
	}
	return b.String()
}

// ParseList splits a comma-separated string into elements. Elements may be
// double-quoted to protect embedded commas; the quotes are stripped. An
// empty string yields an empty list.
func ParseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	var elements []string
	var b strings.Builder
	inQuotes := false
	flush := func() {
		el := strings.TrimSpace(b.String())
		if len(el) >= 2 && el[0] == '"' && el[len(el)-1] == '"' {
			el = el[1 : len(el)-1]
		}
		elements = append(elements, el)
		b.Reset()
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			b.WriteByte(c)
		case c == ',' && !inQuotes:
			flush()
		default:
			b.WriteByte(c)
		}
	}
	flush()
	return elements
}
