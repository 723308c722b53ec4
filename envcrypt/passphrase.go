package envcrypt

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrPassphrase indicates the passphrase source itself is misconfigured
// (missing environment variable, unreadable file). It is a configuration
// error, distinct from ErrDecrypt.
var ErrPassphrase = errors.New("cannot resolve passphrase")

// ResolvePassphrase turns a passphrase spec into the passphrase proper.
// Three forms are supported:
//
//	literal   used verbatim
//	$NAME     read from the named environment variable
//	@path     read from the file at path, trailing whitespace trimmed
//
// lookup is consulted for the $NAME form; pass nil to use the process
// environment.
func ResolvePassphrase(spec string, lookup func(string) (string, bool)) (string, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	switch {
	case spec == "":
		return "", nil
	case spec[0] == '$':
		name := spec[1:]
		value, ok := lookup(name)
		if !ok || value == "" {
			return "", fmt.Errorf("%w: environment variable %q is not set", ErrPassphrase, name)
		}
		return value, nil
	case spec[0] == '@':
		path := spec[1:]
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrPassphrase, err)
		}
		return strings.TrimRight(string(data), " \t\r\n"), nil
	}
	return spec, nil
}

var weakPatterns = []string{"12345", "abcde", "password", "qwerty", "asdf"}

// CheckWeak reports whether a passphrase is obviously too simple: short,
// lacking character variety, mostly repeated characters, or containing a
// well-known sequence. Callers use it to warn, never to reject.
func CheckWeak(passphrase string) bool {
	if len(passphrase) < 8 {
		return true
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	allDigit := true
	for _, c := range passphrase {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
			allDigit = false
		case c >= 'a' && c <= 'z':
			hasLower = true
			allDigit = false
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			hasSpecial = true
			allDigit = false
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial || allDigit {
		return true
	}

	distinct := make(map[rune]struct{})
	for _, c := range passphrase {
		distinct[c] = struct{}{}
	}
	if len(distinct) <= 3 {
		return true
	}

	lower := strings.ToLower(passphrase)
	for _, pattern := range weakPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
