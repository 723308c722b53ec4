package envault

import (
	"os"
	"sort"
)

// Sink abstracts the live process environment. The resolution engine is its
// sole writer; substituting a MapSink keeps tests away from real process
// state.
type Sink interface {
	Lookup(key string) (string, bool)
	Set(key, value string) error
	Unset(key string) error
	Environ() []string
}

// OSSink is the real process environment.
type OSSink struct{}

func (OSSink) Lookup(key string) (string, bool) { return os.LookupEnv(key) }
func (OSSink) Set(key, value string) error      { return os.Setenv(key, value) }
func (OSSink) Unset(key string) error           { return os.Unsetenv(key) }
func (OSSink) Environ() []string                { return os.Environ() }

// MapSink is an in-memory stand-in for the process environment.
type MapSink struct {
	Values map[string]string
}

// NewMapSink returns an empty in-memory sink.
func NewMapSink() *MapSink {
	return &MapSink{Values: make(map[string]string)}
}

func (s *MapSink) Lookup(key string) (string, bool) {
	value, ok := s.Values[key]
	return value, ok
}

func (s *MapSink) Set(key, value string) error {
	if s.Values == nil {
		s.Values = make(map[string]string)
	}
	s.Values[key] = value
	return nil
}

func (s *MapSink) Unset(key string) error {
	delete(s.Values, key)
	return nil
}

func (s *MapSink) Environ() []string {
	environ := make([]string, 0, len(s.Values))
	for key, value := range s.Values {
		environ = append(environ, key+"="+value)
	}
	sort.Strings(environ)
	return environ
}
