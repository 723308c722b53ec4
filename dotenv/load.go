package dotenv

import (
	"bytes"
	"fmt"
	"os"

	"github.com/envaultproject/envault/envcrypt"
)

// Load reads and parses the dotenv file at path. Encrypted files are
// detected by their envelope header and decrypted transparently with
// passphrase. An encrypted file with no passphrase available, or one whose
// integrity check fails, is an error: decryption failures never degrade
// silently.
func Load(path string, passphrase string) ([]Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if envcrypt.IsEncrypted(content) {
		if passphrase == "" {
			return nil, fmt.Errorf("%w: %s is encrypted and no passphrase is configured",
				envcrypt.ErrDecrypt, path)
		}
		content, err = envcrypt.Decrypt(content, passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt %s: %w", path, err)
		}
	}

	return Parse(bytes.NewReader(content))
}
