package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/envaultproject/envault"
	"github.com/envaultproject/envault/internal/configs"
	"github.com/envaultproject/envault/internal/ui"
	"github.com/envaultproject/envault/secrets"

	"github.com/briandowns/spinner"
)

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode. Returns the spinner and a function that should
// be deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines; the cleanup
// function calls ui.EnsureNewline() on the final message before printing.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		// If we can't set spinner color, just continue without it.
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if !verbose && !debug {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if !verbose && !debug {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		// Stop the spinner first to clear the spinner line.
		if !verbose && !debug {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// projectSettings loads .envault.toml for the current directory, returning
// the defaults and an empty root when no project file exists.
func projectSettings() (*configs.Settings, string, error) {
	settings, root, err := configs.LoadProjectSettings(".")
	if err != nil {
		return nil, "", fmt.Errorf("failed to load project settings: %w", err)
	}
	if root != "" {
		Logger.Debugf("Project root: %s", root)
	}
	return settings, root, nil
}

// resolveOptions translates the project settings and shared flags into
// resolution options for the library. The caller appends command-specific
// options on top.
func resolveOptions(settings *configs.Settings, root string, files []string) []envault.Option {
	searchPath := settings.Env.SearchPath
	if root != "" {
		resolved := make([]string, len(searchPath))
		for i, dir := range searchPath {
			if filepath.IsAbs(dir) {
				resolved[i] = dir
			} else {
				resolved[i] = filepath.Join(root, dir)
			}
		}
		searchPath = resolved
	}

	opts := []envault.Option{
		envault.WithUpdate(false),
		envault.WithSearchPath(searchPath...),
		envault.WithParents(settings.Env.Parents),
		envault.WithOverwrite(settings.Env.Overwrite),
		envault.WithLogger(Logger),
	}
	if len(files) > 0 {
		for _, file := range files {
			opts = append(opts, envault.WithFile(file))
		}
	} else {
		opts = append(opts, envault.WithFile(settings.Env.File))
	}
	if spec := passphraseSpec(); spec != "" {
		opts = append(opts, envault.WithPassphrase(spec))
	}
	if manager := secretsManager(settings); manager != nil {
		opts = append(opts, envault.WithSecrets(manager))
	}
	return opts
}

// secretsManager builds the secrets manager from the VAULT_* variables,
// falling back to the [vault] table of .envault.toml for unset fields.
// Returns nil when no backend is configured so the library default (also
// environment-driven) applies.
func secretsManager(settings *configs.Settings) *secrets.Manager {
	cfg := secrets.ConfigFromEnv(nil)
	if cfg.Address == "" {
		cfg.Address = settings.Vault.Address
	}
	if cfg.BasePath == "" {
		cfg.BasePath = settings.Vault.Path
	}
	if cfg.CACert == "" {
		cfg.CACert = settings.Vault.CACert
	}
	cfg.Mount = settings.Vault.Mount
	if settings.Vault.Timeout != "" {
		if d, err := time.ParseDuration(settings.Vault.Timeout); err == nil {
			cfg.Timeout = d
		} else {
			Logger.Warnf("Ignoring invalid vault timeout %q in %s", settings.Vault.Timeout, configs.SettingsFileName)
		}
	}

	if cfg.Address == "" {
		return nil
	}
	backend, err := secrets.NewVaultBackend(cfg)
	if err != nil {
		Logger.Warnf("Failed to configure secrets backend: %v", err)
		return nil
	}
	Logger.Debugf("Secrets backend: %s (path %s)", cfg.Address, cfg.BasePath)
	return secrets.NewManager(backend, cfg.BasePath)
}
