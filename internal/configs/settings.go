package configs

import (
	"fmt"
	"os"
	"path/filepath"
)

// SettingsFileName is the project configuration file looked up by
// FindProjectRoot.
const SettingsFileName = ".envault.toml"

// Settings is the parsed form of .envault.toml.
type Settings struct {
	Env   EnvSettings   `toml:"env"`
	Vault VaultSettings `toml:"vault"`
}

// EnvSettings configures dotenv resolution.
type EnvSettings struct {
	File       string   `toml:"file"`
	SearchPath []string `toml:"search_path"`
	Parents    bool     `toml:"parents"`
	Overwrite  bool     `toml:"overwrite"`
}

// VaultSettings carries secrets-backend defaults, applied only when the
// corresponding VAULT_* variables are unset.
type VaultSettings struct {
	Address string `toml:"address"`
	Path    string `toml:"path"`
	Mount   string `toml:"mount"`
	Timeout string `toml:"timeout"`
	CACert  string `toml:"ca_cert"`
}

// DefaultSettings returns the settings an absent or empty .envault.toml
// resolves to.
func DefaultSettings() *Settings {
	return &Settings{
		Env: EnvSettings{
			File:       ".env",
			SearchPath: []string{"."},
		},
	}
}

// FindProjectRoot walks up from start looking for a directory containing
// .envault.toml. It returns the empty string when no such directory exists.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, SettingsFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// LoadSettings reads .envault.toml from dir, filling unset fields with
// defaults. A missing file yields the defaults without error.
func LoadSettings(dir string) (*Settings, error) {
	settings := DefaultSettings()

	path := filepath.Join(dir, SettingsFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return settings, nil
	}

	if err := LoadTOML(path, settings); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", SettingsFileName, err)
	}
	applyDefaults(settings)
	return settings, nil
}

// LoadProjectSettings locates the project root above start and loads its
// settings. With no project root the defaults are returned and the root is
// the empty string.
func LoadProjectSettings(start string) (*Settings, string, error) {
	root, err := FindProjectRoot(start)
	if err != nil {
		return nil, "", err
	}
	if root == "" {
		return DefaultSettings(), "", nil
	}
	settings, err := LoadSettings(root)
	if err != nil {
		return nil, "", err
	}
	return settings, root, nil
}

// SaveSettings writes settings to .envault.toml in dir.
func SaveSettings(dir string, settings *Settings) error {
	path := filepath.Join(dir, SettingsFileName)
	if err := SaveTOML(path, settings); err != nil {
		return fmt.Errorf("failed to save %s: %w", SettingsFileName, err)
	}
	return nil
}

func applyDefaults(settings *Settings) {
	if settings.Env.File == "" {
		settings.Env.File = ".env"
	}
	if len(settings.Env.SearchPath) == 0 {
		settings.Env.SearchPath = []string{"."}
	}
}
