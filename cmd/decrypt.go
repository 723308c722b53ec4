package cmd

import (
	"os"
	"strings"

	"github.com/envaultproject/envault"
	"github.com/envaultproject/envault/envcrypt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var decryptRemove bool

func init() {
	decryptCmd.Flags().BoolVar(&decryptRemove, "rm", false, "remove the encrypted file after decrypting")
}

// resetDecryptState resets the decrypt command's global state for testing.
func resetDecryptState() {
	decryptRemove = false
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt [files or globs...]",
	Short: "Decrypts .enc env files back to plaintext",
	Long: `Decrypts encrypted environment files. Each input FILE.enc produces
FILE; the encrypted envelope is kept unless --rm is given.

Decryption fails closed: a wrong passphrase or a tampered file yields an
error, never partial plaintext.

Examples:
  envault decrypt                      # every .enc file under the project
  envault decrypt .env.production.enc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting decrypt command")
		spinner, cleanup := startSpinner("Decrypting environment files...")
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

		_, root, err := projectSettings()
		if err != nil {
			return Logger.ErrorfAndReturn("%v", err)
		}
		if root == "" {
			root = "."
		}

		Logger.Debugf("Resolving encrypted files under %s", root)
		files, err := resolveEnvFiles(args, root, true)
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to find encrypted files: %v", err)
		}
		if len(files) == 0 {
			spinner.FinalMSG = color.RedString("✗") + " No encrypted environment files found in " + color.YellowString(root)
			return nil
		}
		Logger.Debugf("Found %d encrypted files", len(files))

		var written []string
		for _, path := range files {
			envelope, err := os.ReadFile(path)
			if err != nil {
				return Logger.ErrorfAndReturn("Failed to read %s: %v", path, err)
			}
			plaintext, err := envcrypt.Decrypt(envelope, passphrase)
			if err != nil {
				spinner.FinalMSG = color.RedString("✗") + " Failed to decrypt " + color.YellowString(path) + ". Is the passphrase correct?\n" +
					color.RedString("Error: ") + err.Error()
				return nil
			}
			target := strings.TrimSuffix(path, encSuffix)
			if err := os.WriteFile(target, plaintext, 0600); err != nil {
				return Logger.ErrorfAndReturn("Failed to write %s: %v", target, err)
			}
			written = append(written, target)
			Logger.Infof("Decrypted %s -> %s", path, target)

			if decryptRemove {
				if err := os.Remove(path); err != nil {
					Logger.Warnf("Failed to remove encrypted %s: %v", path, err)
				} else {
					Logger.Debugf("Removed encrypted %s", path)
				}
			}
		}

		spinner.FinalMSG = color.GreenString("✓") + " Environment files decrypted successfully!\n" +
			"The following files were created:\n    " + strings.Join(written, "\n    ") + "\n" +
			color.CyanString("→") + " Remember not to commit plaintext env files"
		return nil
	},
}
