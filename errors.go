package envault

import (
	"fmt"
	"strings"
)

// MissingFileError reports that a required dotenv file could not be found
// anywhere on the configured search path. It is returned from New only when
// the errors option is enabled; otherwise a missing file is skipped.
type MissingFileError struct {
	Name       string
	SearchPath []string
}

func (e *MissingFileError) Error() string {
	if len(e.SearchPath) == 0 {
		return fmt.Sprintf("env file %q not found", e.Name)
	}
	return fmt.Sprintf("env file %q not found in %s", e.Name, strings.Join(e.SearchPath, ", "))
}

// ConversionError reports that a variable's value could not be converted to
// the requested type. The failing accessor returns it alongside the caller's
// default; resolution itself is unaffected.
type ConversionError struct {
	Key   string
	Value string
	Kind  string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s=%q to %s: %v", e.Key, e.Value, e.Kind, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }
