package cmd

import (
	"os"
	"strings"

	"github.com/envaultproject/envault"
	"github.com/envaultproject/envault/envcrypt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var encryptRemove bool

func init() {
	encryptCmd.Flags().BoolVar(&encryptRemove, "rm", false, "remove the plaintext file after encrypting")
}

// resetEncryptState resets the encrypt command's global state for testing.
func resetEncryptState() {
	encryptRemove = false
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [files or globs...]",
	Short: "Encrypts env files in place, writing a .enc envelope next to each",
	Long: `Encrypts environment files with a passphrase-derived key. Each input
file FILE produces FILE.enc; the plaintext is kept unless --rm is given.

The passphrase comes from --password, --password-env, --password-file, or
the ENV_PASSWORD environment variable, in that order.

Examples:
  envault encrypt                      # every env file under the project
  envault encrypt .env.production      # one file
  envault encrypt "config/**/*.env" --rm`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting encrypt command")
		spinner, cleanup := startSpinner("Encrypting environment files...")
		defer cleanup()

		passphrase, err := commandPassphrase()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to resolve passphrase: %v", err)
		}
		if passphrase == "" {
			spinner.FinalMSG = color.RedString("✗") + " No passphrase configured\n" +
				color.CyanString("→") + " Pass " + color.YellowString("--password") + ", " +
				color.YellowString("--password-env") + " or " + color.YellowString("--password-file") +
				", or set " + color.YellowString(envault.EnvPassphrase)
			return nil
		}
		if envcrypt.CheckWeak(passphrase) {
			spinner.Stop()
			Logger.Warnf("Passphrase is weak; consider a longer one with mixed character classes")
			spinner.Start()
		}

		_, root, err := projectSettings()
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}
		if root == "" {
			root = "."
		}

		Logger.Debugf("Resolving env files under %s", root)
		files, err := resolveEnvFiles(args, root, false)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to find environment files: %v", err)
		}
		if len(files) == 0 {
			spinner.FinalMSG = color.RedString("✗") + " No environment files found in " + color.YellowString(root)
			return nil
		}
		Logger.Debugf("Found %d env files", len(files))

		var written []string
		for _, path := range files {
			plaintext, err := os.ReadFile(path)
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to read %s: %v", path, err)
			}
			envelope, err := envcrypt.Encrypt(plaintext, passphrase)
			if err != nil {
				spinner.FinalMSG = color.RedString("✗") + " Failed to encrypt " + color.YellowString(path) + "\n" +
					color.RedString("Error: ") + err.Error()
				return nil
			}
			target := path + encSuffix
			if err := os.WriteFile(target, envelope, 0600); err != nil {
				return Logger.ErrorfAndReturn("Failed to write %s: %v", target, err)
			}
			written = append(written, target)
			Logger.Infof("Encrypted %s -> %s", path, target)

			if encryptRemove {
				if err := os.Remove(path); err != nil {
					Logger.Warnf("Failed to remove plaintext %s: %v", path, err)
				} else {
					Logger.Debugf("Removed plaintext %s", path)
				}
			}
		}

		spinner.FinalMSG = color.GreenString("✓") + " Environment files encrypted successfully!\n" +
			"The following files were created:\n    " + strings.Join(written, "\n    ") + "\n" +
			color.CyanString("→") + " You can now safely commit all " + color.YellowString(encSuffix) + " files to version control"
		return nil
	},
}

// commandPassphrase resolves the passphrase for the encrypt and decrypt
// commands: the explicit flags win, then the conventional variable.
func commandPassphrase() (string, error) {
	spec := passphraseSpec()
	if spec == "" {
		if _, ok := os.LookupEnv(envault.EnvPassphrase); ok {
			spec = "$" + envault.EnvPassphrase
		}
	}
	return envcrypt.ResolvePassphrase(spec, nil)
}
