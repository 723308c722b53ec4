package cmd

import (
	"fmt"
	"strings"

	"github.com/envaultproject/envault"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	getFiles         []string
	getType          string
	getDefault       string
	getDefaultSet    bool
	getPreferSecrets bool
	getStrict        bool
)

func init() {
	getCmd.Flags().StringArrayVarP(&getFiles, "file", "f", nil, "env file to resolve (repeatable; default from .envault.toml)")
	getCmd.Flags().StringVarP(&getType, "type", "t", "string", "value type: string, int, float, bool, or list")
	getCmd.Flags().StringVar(&getDefault, "default", "", "value to print when the key is unset")
	getCmd.Flags().BoolVar(&getPreferSecrets, "prefer-secrets", false, "let backend secrets win over local values")
	getCmd.Flags().BoolVar(&getStrict, "strict", false, "fail when the secrets backend is unreachable")
}

// resetGetState resets the get command's global state for testing.
func resetGetState() {
	getFiles = nil
	getType = "string"
	getDefault = ""
	getDefaultSet = false
	getPreferSecrets = false
	getStrict = false
}

var getCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print one resolved variable",
	Long: `Resolves the environment and prints the value of a single key.
A key found nowhere is an error unless --default is given. With --type the
value is validated and printed in canonical form.

Examples:
  envault get DATABASE_URL
  envault get WORKERS --type int --default 4
  envault get FEATURE_FLAGS --type list`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		Logger.Infof("Starting get command for key %s", key)
		getDefaultSet = cmd.Flags().Changed("default")

		settings, root, err := projectSettings()
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}

		opts := resolveOptions(settings, root, getFiles)
		if getPreferSecrets {
			opts = append(opts, envault.WithPreferSecrets(true))
		}
		if getStrict {
			opts = append(opts, envault.WithStrictSecrets(true))
		}

		env, err := envault.New(opts...)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to resolve environment: %v", err)
		}

		value, ok := env.Lookup(key)
		if !ok {
			if getDefaultSet {
				fmt.Println(getDefault)
				return nil
			}
			return fmt.Errorf("%s %s is not set", color.RedString("✗"), key)
		}

		printed, err := formatTyped(value, getType)
		if err != nil {
			return fmt.Errorf("%s %s: %v", color.RedString("✗"), key, err)
		}
		fmt.Println(printed)
		return nil
	},
}

// formatTyped validates value against the requested type and returns its
// canonical spelling.
func formatTyped(value, kind string) (string, error) {
	switch kind {
	case "string":
		return value, nil
	case "int":
		n, err := envault.ParseInt(value)
		if err != nil {
			return "", err
		}
		return envault.FormatInt(n), nil
	case "float":
		f, err := envault.ParseFloat(value)
		if err != nil {
			return "", err
		}
		return envault.FormatFloat(f), nil
	case "bool":
		b, err := envault.ParseBool(value)
		if err != nil {
			return "", err
		}
		return envault.FormatBool(b), nil
	case "list":
		return strings.Join(envault.ParseList(value), "\n"), nil
	}
	return "", fmt.Errorf("unknown type %q", kind)
}
