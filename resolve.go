package envault

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/envaultproject/envault/dotenv"
	"github.com/envaultproject/envault/envcrypt"
	"github.com/envaultproject/envault/secrets"
)

// Variables with engine-level meaning.
const (
	// EnvDotenvName names the default env file ("DOTENV").
	EnvDotenvName = "DOTENV"
	// EnvPassphrase is consulted for a decryption passphrase when none is
	// configured explicitly.
	EnvPassphrase = "ENV_PASSWORD"
	// EnvSource selects the preferred source on read: "backend" makes the
	// secrets store win over locally resolved values.
	EnvSource = "ENVAULT_SOURCE"
)

const defaultDotenvName = ".env"

// resolve performs the single merge pass described by cfg. The sink is not
// touched until the merge has fully succeeded, so a failing pass leaves the
// live environment unchanged.
func resolve(cfg *config) (*Env, error) {
	snapshot := baseline(cfg)
	exported := make(map[string]struct{})

	lookup := func(name string) (string, bool) {
		value, ok := snapshot[name]
		return value, ok
	}

	passphrase, explicitPassphrase, err := resolvePassphrase(cfg, lookup)
	if err != nil {
		return nil, err
	}

	if len(cfg.files) > 0 && cfg.workingDirs {
		if cwd, err := os.Getwd(); err == nil {
			snapshot["CWD"] = cwd
		}
	}

	for _, name := range cfg.files {
		if name == "" {
			name = snapshot[EnvDotenvName]
			if name == "" {
				name = defaultDotenvName
			}
		}
		paths := dotenv.Find(name, cfg.searchPath, cfg.parents)
		if len(paths) == 0 {
			if cfg.errorsOn {
				return nil, &MissingFileError{Name: name, SearchPath: cfg.searchPath}
			}
			cfg.logger.Debugf("env file %q not found, skipping", name)
			continue
		}
		for _, path := range paths {
			entries, err := loadFile(cfg, path, passphrase, explicitPassphrase)
			if err != nil {
				return nil, err
			}
			if cfg.workingDirs {
				snapshot["PWD"] = filepath.Dir(path)
			}
			merge(snapshot, exported, entries, cfg.overwrite, lookup)
		}
	}

	for _, stream := range cfg.streams {
		entries, err := loadStream(stream, passphrase)
		if err != nil {
			return nil, err
		}
		merge(snapshot, exported, entries, cfg.streamOverwrite, lookup)
	}

	for key, value := range cfg.values {
		snapshot[key] = value
	}

	manager, preferSecrets, err := setupSecrets(cfg, lookup)
	if err != nil {
		return nil, err
	}

	// All sources merged; only now may the live environment change.
	if cfg.update {
		if err := pushAll(cfg.sink, snapshot); err != nil {
			return nil, err
		}
	} else {
		for key := range exported {
			if err := cfg.sink.Set(key, snapshot[key]); err != nil {
				return nil, fmt.Errorf("failed to export %s: %w", key, err)
			}
		}
	}

	return &Env{
		snapshot:      snapshot,
		exported:      exported,
		sink:          cfg.sink,
		secrets:       manager,
		preferSecrets: preferSecrets,
		logger:        cfg.logger,
	}, nil
}

// baseline copies the starting environment, either the configured mapping
// or the sink's current state.
func baseline(cfg *config) map[string]string {
	if cfg.environ != nil {
		snapshot := make(map[string]string, len(cfg.environ))
		for key, value := range cfg.environ {
			snapshot[key] = value
		}
		return snapshot
	}
	environ := cfg.sink.Environ()
	snapshot := make(map[string]string, len(environ))
	for _, pair := range environ {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		snapshot[key] = value
	}
	return snapshot
}

// resolvePassphrase picks the decryption passphrase: the configured spec
// when one was given, otherwise the conventional ENV_PASSWORD variable.
// The second return reports whether the caller asked for it explicitly,
// which disables the plaintext-sibling fallback on decryption failure.
func resolvePassphrase(cfg *config, lookup dotenv.LookupFn) (string, bool, error) {
	spec := cfg.passphraseSpec
	if !cfg.passphraseSet {
		if _, ok := lookup(EnvPassphrase); ok {
			spec = "$" + EnvPassphrase
		}
	}
	passphrase, err := envcrypt.ResolvePassphrase(spec, lookup)
	if err != nil {
		return "", false, err
	}
	return passphrase, cfg.passphraseSet, nil
}

// loadFile reads one dotenv file. When decryption fails and the passphrase
// was only ambient (not explicitly configured), a plaintext sibling
// without the .enc suffix is accepted as a fallback; an explicit
// passphrase means the caller wanted that exact file, so the failure
// surfaces.
func loadFile(cfg *config, path, passphrase string, explicit bool) ([]dotenv.Entry, error) {
	entries, err := dotenv.Load(path, passphrase)
	if err == nil {
		return entries, nil
	}
	if errors.Is(err, envcrypt.ErrDecrypt) && !explicit {
		if sibling := strings.TrimSuffix(path, ".enc"); sibling != path {
			if fallback, ferr := dotenv.Load(sibling, ""); ferr == nil {
				cfg.logger.Warnf("cannot decrypt %s, falling back to %s", path, sibling)
				return fallback, nil
			}
		}
	}
	return nil, err
}

// loadStream parses an in-memory source, decrypting it first when it
// carries the envelope header.
func loadStream(r io.Reader, passphrase string) ([]dotenv.Entry, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream source: %w", err)
	}
	if envcrypt.IsEncrypted(content) {
		if passphrase == "" {
			return nil, fmt.Errorf("%w: stream source is encrypted and no passphrase is configured",
				envcrypt.ErrDecrypt)
		}
		content, err = envcrypt.Decrypt(content, passphrase)
		if err != nil {
			return nil, err
		}
	}
	return dotenv.Parse(strings.NewReader(string(content)))
}

// merge folds one source's entries into the accumulating snapshot.
// Template references expand against what has been merged so far, so entry
// order matters. Within a single source the last occurrence of a key wins;
// across sources the overwrite policy decides.
func merge(snapshot map[string]string, exported map[string]struct{}, entries []dotenv.Entry, overwrite bool, lookup dotenv.LookupFn) {
	setHere := make(map[string]struct{})
	for _, entry := range entries {
		if entry.Exported {
			exported[entry.Key] = struct{}{}
		}
		_, exists := snapshot[entry.Key]
		_, ownEntry := setHere[entry.Key]
		if exists && !overwrite && !ownEntry {
			continue
		}
		snapshot[entry.Key] = dotenv.Expand(entry.Value, lookup)
		setHere[entry.Key] = struct{}{}
	}
}

// setupSecrets builds (or adopts) the secrets manager and decides lookup
// priority for the resulting Env.
func setupSecrets(cfg *config, lookup dotenv.LookupFn) (*secrets.Manager, bool, error) {
	manager := cfg.secrets
	if manager == nil {
		var err error
		manager, err = secrets.NewManagerFromEnv(lookup)
		if err != nil {
			return nil, false, err
		}
	}
	if cfg.strictSecrets {
		manager.SetStrict(true)
		if err := manager.Load(); err != nil {
			return nil, false, err
		}
	}

	preferSecrets := false
	if cfg.preferSecrets != nil {
		preferSecrets = *cfg.preferSecrets
	} else if source, ok := lookup(EnvSource); ok {
		preferSecrets = source == "backend"
	}
	return manager, preferSecrets, nil
}

// pushAll writes every snapshot entry whose value differs from the sink's
// current one.
func pushAll(sink Sink, snapshot map[string]string) error {
	for key, value := range snapshot {
		if current, ok := sink.Lookup(key); ok && current == value {
			continue
		}
		if err := sink.Set(key, value); err != nil {
			return fmt.Errorf("failed to update environment variable %s: %w", key, err)
		}
	}
	return nil
}
