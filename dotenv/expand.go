package dotenv

import "strings"

// LookupFn resolves a variable name during template expansion.
type LookupFn func(string) (string, bool)

// maxExpandPasses bounds recursive expansion so cyclic references
// terminate instead of looping.
const maxExpandPasses = 10

// Expand replaces ${NAME} and $NAME references in value using lookup.
// Expansion is applied repeatedly until the value is stable or the pass cap
// is reached. References that never resolve are left verbatim: a value may
// legitimately mention a variable that is supplied later or by another
// system, so an unresolved name is leniency, not an error.
func Expand(value string, lookup LookupFn) string {
	for pass := 0; pass < maxExpandPasses; pass++ {
		next := expandOnce(value, lookup)
		if next == value {
			return value
		}
		value = next
	}
	return value
}

// expandOnce performs a single substitution pass.
func expandOnce(value string, lookup LookupFn) string {
	if !strings.ContainsRune(value, '$') {
		return value
	}

	var result strings.Builder
	result.Grow(len(value))

	for i := 0; i < len(value); i++ {
		if value[i] != '$' || i+1 >= len(value) {
			result.WriteByte(value[i])
			continue
		}

		if value[i+1] == '{' {
			// ${NAME} syntax.
			end := strings.IndexByte(value[i+2:], '}')
			if end == -1 {
				result.WriteByte(value[i])
				continue
			}
			name := value[i+2 : i+2+end]
			if resolved, ok := lookup(name); ok {
				result.WriteString(resolved)
			} else {
				// Unresolved, keep the reference verbatim.
				result.WriteString(value[i : i+3+end])
			}
			i += 2 + end
			continue
		}

		if isNameChar(value[i+1]) {
			// $NAME syntax.
			j := i + 1
			for j < len(value) && isNameChar(value[j]) {
				j++
			}
			name := value[i+1 : j]
			if resolved, ok := lookup(name); ok {
				result.WriteString(resolved)
			} else {
				result.WriteString(value[i:j])
			}
			i = j - 1
			continue
		}

		result.WriteByte(value[i])
	}

	return result.String()
}

// isNameChar reports whether c may appear in a variable name.
func isNameChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_'
}
