package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/envaultproject/envault"

	"github.com/spf13/cobra"
)

var (
	showFiles         []string
	showJSON          bool
	showUpdate        bool
	showPreferSecrets bool
	showStrict        bool
)

func init() {
	showCmd.Flags().StringArrayVarP(&showFiles, "file", "f", nil, "env file to resolve (repeatable; default from .envault.toml)")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "output in JSON format")
	showCmd.Flags().BoolVar(&showUpdate, "update", false, "also write the resolved values into the process environment")
	showCmd.Flags().BoolVar(&showPreferSecrets, "prefer-secrets", false, "let backend secrets win over local values")
	showCmd.Flags().BoolVar(&showStrict, "strict", false, "fail when the secrets backend is unreachable")
}

// resetShowState resets the show command's global state for testing.
func resetShowState() {
	showFiles = nil
	showJSON = false
	showUpdate = false
	showPreferSecrets = false
	showStrict = false
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the resolved environment",
	Long: `Resolves the environment from the process environment, the project's
env files and the secrets backend, then prints the result without touching
the live environment.

Examples:
  envault show
  envault show --file .env.production --json
  envault show --prefer-secrets --strict`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting show command")

		settings, root, err := projectSettings()
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}

		opts := resolveOptions(settings, root, showFiles)
		if showUpdate {
			opts = append(opts, envault.WithUpdate(true))
		}
		if showPreferSecrets {
			opts = append(opts, envault.WithPreferSecrets(true))
		}
		if showStrict {
			opts = append(opts, envault.WithStrictSecrets(true))
		}

		env, err := envault.New(opts...)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to resolve environment: %v", err)
		}

		if showJSON {
			resolved := make(map[string]string, len(env.Keys()))
			for _, key := range env.Keys() {
				resolved[key] = env.Get(key, "")
			}
			encoded, err := json.MarshalIndent(resolved, "", "  ")
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to encode environment: %v", err)
			}
			fmt.Println(string(encoded))
			return nil
		}

		fmt.Println(strings.Join(env.Environ(), "\n"))
		return nil
	},
}
