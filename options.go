package envault

import (
	"io"

	"github.com/envaultproject/envault/secrets"
)

// Logger receives resolution diagnostics. internal/logging.Logger
// satisfies it; so does any logger with printf-style levels.
type Logger interface {
	Debugf(msg string, args ...any)
	Warnf(msg string, args ...any)
}

// nopLogger is the default when no logger is configured.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Warnf(string, ...any)  {}

// Option configures a resolution pass. Options are applied in order, so a
// later option wins over an earlier one for scalar settings.
type Option func(*config)

type config struct {
	environ    map[string]string
	files      []string
	searchPath []string
	parents    bool

	overwrite       bool
	update          bool
	errorsOn        bool
	workingDirs     bool
	streams         []io.Reader
	streamOverwrite bool

	passphraseSpec string
	passphraseSet  bool

	values map[string]string

	secrets       *secrets.Manager
	strictSecrets bool
	preferSecrets *bool

	sink   Sink
	logger Logger
}

func defaultConfig() *config {
	return &config{
		searchPath:      []string{"."},
		update:          true,
		workingDirs:     true,
		streamOverwrite: true,
		sink:            OSSink{},
		logger:          nopLogger{},
	}
}

// WithEnviron supplies the baseline environment instead of reading it from
// the sink. Useful for hermetic resolution.
func WithEnviron(environ map[string]string) Option {
	return func(c *config) {
		c.environ = make(map[string]string, len(environ))
		for key, value := range environ {
			c.environ[key] = value
		}
	}
}

// WithReadEnv requests loading the default env file: $DOTENV when set,
// otherwise ".env".
func WithReadEnv() Option {
	return func(c *config) { c.files = append(c.files, "") }
}

// WithFile requests loading the named env file from the search path. May be
// given more than once; files merge in the order requested.
func WithFile(name string) Option {
	return func(c *config) { c.files = append(c.files, name) }
}

// WithSearchPath sets the directories searched for env files, in order of
// precedence. Default is the current directory.
func WithSearchPath(dirs ...string) Option {
	return func(c *config) { c.searchPath = dirs }
}

// WithParents makes the file search walk up parent directories until a
// match is found.
func WithParents(parents bool) Option {
	return func(c *config) { c.parents = parents }
}

// WithOverwrite lets file-origin entries replace values already present in
// the accumulating environment. Default is false: existing values win.
func WithOverwrite(overwrite bool) Option {
	return func(c *config) { c.overwrite = overwrite }
}

// WithUpdate controls whether every resolved key is written back to the
// sink once the merge completes. Default is true. Exported entries are
// pushed regardless.
func WithUpdate(update bool) Option {
	return func(c *config) { c.update = update }
}

// WithErrors makes a missing env file a resolution error instead of being
// silently skipped.
func WithErrors(errors bool) Option {
	return func(c *config) { c.errorsOn = errors }
}

// WithWorkingDirs controls insertion of the CWD and PWD convenience
// variables during file loading. Default is true.
func WithWorkingDirs(enabled bool) Option {
	return func(c *config) { c.workingDirs = enabled }
}

// WithStream adds an in-memory dotenv source. Stream entries override
// existing values by default, the opposite of the file default; see
// WithStreamOverwrite.
func WithStream(r io.Reader) Option {
	return func(c *config) { c.streams = append(c.streams, r) }
}

// WithStreamOverwrite inverts the stream default so stream-origin entries
// respect values that are already set.
func WithStreamOverwrite(overwrite bool) Option {
	return func(c *config) { c.streamOverwrite = overwrite }
}

// WithPassphrase sets the passphrase spec used to decrypt encrypted
// sources: a literal, $NAME for an environment variable, or @path for a
// file. Without this option the ENV_PASSWORD variable is used when
// present.
func WithPassphrase(spec string) Option {
	return func(c *config) {
		c.passphraseSpec = spec
		c.passphraseSet = true
	}
}

// WithValues supplies explicit overrides that win over every other source.
func WithValues(values map[string]string) Option {
	return func(c *config) {
		if c.values == nil {
			c.values = make(map[string]string, len(values))
		}
		for key, value := range values {
			c.values[key] = value
		}
	}
}

// WithSecrets substitutes the secrets manager consulted for keys not found
// in the resolved environment. By default one is built from the VAULT_*
// variables, degrading to a null backend when unconfigured.
func WithSecrets(manager *secrets.Manager) Option {
	return func(c *config) { c.secrets = manager }
}

// WithStrictSecrets makes an unreachable secrets backend a resolution
// error instead of an empty secret set.
func WithStrictSecrets(strict bool) Option {
	return func(c *config) { c.strictSecrets = strict }
}

// WithPreferSecrets flips lookup priority so a backend value wins over the
// locally resolved one. Without this option the ENVAULT_SOURCE variable
// decides: "backend" prefers the store, anything else prefers the local
// environment.
func WithPreferSecrets(prefer bool) Option {
	return func(c *config) { c.preferSecrets = &prefer }
}

// WithSink substitutes the live process environment, typically with a
// MapSink in tests.
func WithSink(sink Sink) Option {
	return func(c *config) { c.sink = sink }
}

// WithLogger routes resolution diagnostics (skipped files, parse fallback
// decisions) through the given logger.
func WithLogger(logger Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
