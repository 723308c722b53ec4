package configs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsDefaults(t *testing.T) {
	dir := t.TempDir()

	settings, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if settings.Env.File != ".env" {
		t.Errorf("Env.File = %q, want .env", settings.Env.File)
	}
	if len(settings.Env.SearchPath) != 1 || settings.Env.SearchPath[0] != "." {
		t.Errorf("Env.SearchPath = %v", settings.Env.SearchPath)
	}
	if settings.Vault.Address != "" {
		t.Errorf("Vault.Address = %q, want empty", settings.Vault.Address)
	}
}

func TestLoadSettingsFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `[env]
file = "service.env"
search_path = ["config", "."]
parents = true
overwrite = true

[vault]
address = "https://vault.example.com:8200"
path = "app/service"
mount = "kv"
timeout = "10s"
`
	if err := os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write settings file: %v", err)
	}

	settings, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if settings.Env.File != "service.env" {
		t.Errorf("Env.File = %q", settings.Env.File)
	}
	if len(settings.Env.SearchPath) != 2 || settings.Env.SearchPath[0] != "config" {
		t.Errorf("Env.SearchPath = %v", settings.Env.SearchPath)
	}
	if !settings.Env.Parents || !settings.Env.Overwrite {
		t.Error("Boolean settings not decoded")
	}
	if settings.Vault.Address != "https://vault.example.com:8200" {
		t.Errorf("Vault.Address = %q", settings.Vault.Address)
	}
	if settings.Vault.Mount != "kv" {
		t.Errorf("Vault.Mount = %q", settings.Vault.Mount)
	}
}

func TestLoadSettingsPartialFileGetsDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `[vault]
address = "http://127.0.0.1:8200"
`
	if err := os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write settings file: %v", err)
	}

	settings, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if settings.Env.File != ".env" {
		t.Errorf("Env.File = %q, want the default", settings.Env.File)
	}
	if settings.Vault.Address != "http://127.0.0.1:8200" {
		t.Errorf("Vault.Address = %q", settings.Vault.Address)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "services", "api")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("Failed to create nested dirs: %v", err)
	}
	if err := SaveSettings(root, DefaultSettings()); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot failed: %v", err)
	}
	// Resolve symlinks so macOS /tmp vs /private/tmp compare equal.
	wantRoot, _ := filepath.EvalSymlinks(root)
	gotRoot, _ := filepath.EvalSymlinks(found)
	if gotRoot != wantRoot {
		t.Errorf("FindProjectRoot = %q, want %q", found, root)
	}
}

func TestFindProjectRootAbsent(t *testing.T) {
	dir := t.TempDir()
	found, err := FindProjectRoot(dir)
	if err != nil {
		t.Fatalf("FindProjectRoot failed: %v", err)
	}
	if found != "" {
		t.Errorf("FindProjectRoot = %q, want empty for no project", found)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	settings := DefaultSettings()
	settings.Env.File = "prod.env"
	settings.Vault.Address = "https://vault.internal"
	settings.Vault.Path = "team/prod"

	if err := SaveSettings(dir, settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	loaded, err := LoadSettings(dir)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if loaded.Env.File != "prod.env" || loaded.Vault.Path != "team/prod" {
		t.Errorf("Round trip mismatch: %+v", loaded)
	}
}
