package cmd

import (
	logger "github.com/envaultproject/envault/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	passwordFlag     string
	passwordEnvFlag  string
	passwordFileFlag string

	RootCmd = &cobra.Command{
		Use:   "envault",
		Short: "Envault - typed environment variables with encrypted files and a secrets backend",
		Long: `Envault resolves environment variables from the process environment,
dotenv files (optionally encrypted), and a HashiCorp Vault secrets store,
under a single well-defined precedence.

Run 'envault help <command>' for more details on a specific command.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing envault command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	RootCmd.PersistentFlags().StringVarP(&passwordFlag, "password", "P", "", "passphrase for encrypted env files")
	RootCmd.PersistentFlags().StringVarP(&passwordEnvFlag, "password-env", "E", "", "environment variable holding the passphrase")
	RootCmd.PersistentFlags().StringVarP(&passwordFileFlag, "password-file", "F", "", "file holding the passphrase")

	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(showCmd)
	RootCmd.AddCommand(getCmd)
}

// passphraseSpec folds the passphrase flags into a single spec understood
// by the crypto layer: a literal, $NAME, or @path. An empty spec means the
// conventional ENV_PASSWORD variable decides.
func passphraseSpec() string {
	switch {
	case passwordFlag != "":
		return passwordFlag
	case passwordEnvFlag != "":
		return "$" + passwordEnvFlag
	case passwordFileFlag != "":
		return "@" + passwordFileFlag
	}
	return ""
}

// Helper functions for testing

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	passwordFlag = ""
	passwordEnvFlag = ""
	passwordFileFlag = ""
	resetEncryptState()
	resetDecryptState()
	resetShowState()
	resetGetState()
}
