package envcrypt

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestMain(m *testing.M) {
	// The real iteration count makes every key derivation take on the order
	// of a second, which is pointless in tests.
	Iterations = 1000
	os.Exit(m.Run())
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintexts := [][]byte{
		[]byte("KEY=value\nexport OTHER=thing\n"),
		[]byte(""),
		[]byte("x"),
		bytes.Repeat([]byte{0x00, 0xff}, 1000),
	}

	for _, plaintext := range plaintexts {
		envelope, err := Encrypt(plaintext, "hunter2 is not my password")
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		if !IsEncrypted(envelope) {
			t.Error("Expected envelope to be detected as encrypted")
		}

		decrypted, err := Decrypt(envelope, "hunter2 is not my password")
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if !bytes.Equal(decrypted, plaintext) {
			t.Errorf("Round trip mismatch: got %q, want %q", decrypted, plaintext)
		}
	}
}

func TestEncryptUsesFreshSaltAndIV(t *testing.T) {
	plaintext := []byte("SAME=input")

	first, err := Encrypt(plaintext, "passphrase")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	second, err := Encrypt(plaintext, "passphrase")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// Same passphrase and plaintext must still produce distinct envelopes.
	if bytes.Equal(first, second) {
		t.Error("Expected distinct envelopes for repeated encryption")
	}
	if bytes.Equal(first[4:4+saltSize], second[4:4+saltSize]) {
		t.Error("Expected distinct salts")
	}
	if bytes.Equal(first[4+saltSize:4+saltSize+ivSize], second[4+saltSize:4+saltSize+ivSize]) {
		t.Error("Expected distinct IVs")
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	envelope, err := Encrypt([]byte("SECRET=1"), "correct")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	_, err = Decrypt(envelope, "incorrect")
	if !errors.Is(err, ErrDecrypt) {
		t.Errorf("Expected ErrDecrypt, got: %v", err)
	}
}

func TestDecryptFailsClosedOnTamper(t *testing.T) {
	envelope, err := Encrypt([]byte("SECRET=1"), "passphrase")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	// Flip one bit in every region of the envelope. Decryption must reject
	// each of them rather than return altered plaintext.
	for _, pos := range []int{4, 4 + saltSize, 4 + saltSize + ivSize, len(envelope) - 1} {
		tampered := append([]byte{}, envelope...)
		tampered[pos] ^= 0x01

		if _, err := Decrypt(tampered, "passphrase"); !errors.Is(err, ErrDecrypt) {
			t.Errorf("Tamper at offset %d: expected ErrDecrypt, got: %v", pos, err)
		}
	}
}

func TestDecryptMalformedEnvelope(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("KEY=plaintext"),
		[]byte("SECF"),
		append([]byte("SECF"), bytes.Repeat([]byte{0}, 10)...),
	}
	for _, input := range inputs {
		if _, err := Decrypt(input, "passphrase"); !errors.Is(err, ErrDecrypt) {
			t.Errorf("Expected ErrDecrypt for %d byte input, got: %v", len(input), err)
		}
	}
}

func TestEncryptRejectsBlankPassphrase(t *testing.T) {
	if _, err := Encrypt([]byte("A=1"), ""); !errors.Is(err, ErrEncrypt) {
		t.Errorf("Expected ErrEncrypt, got: %v", err)
	}
}

func TestEncryptRejectsDoubleEncryption(t *testing.T) {
	envelope, err := Encrypt([]byte("A=1"), "passphrase")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if _, err := Encrypt(envelope, "passphrase"); !errors.Is(err, ErrEncrypt) {
		t.Errorf("Expected ErrEncrypt, got: %v", err)
	}
}

func TestIsEncryptedNeverMisdetectsPlaintext(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte(""),
		[]byte("# plain dotenv file\nKEY=value\n"),
		[]byte("SECF but actually a sentence about secure files"),
		bytes.Repeat([]byte{0xff}, 3),
	}
	for _, input := range inputs {
		// Short inputs prefixed with the magic are below the minimum
		// envelope size and must be treated as plaintext.
		if len(input) < minEnvelopeSize && IsEncrypted(input) {
			t.Errorf("IsEncrypted(%q) = true, want false", input)
		}
	}
	if IsEncrypted([]byte("ordinary text that is comfortably longer than the minimum envelope size of the format")) {
		t.Error("IsEncrypted misdetected ordinary text")
	}
}

func TestResolvePassphraseLiteral(t *testing.T) {
	got, err := ResolvePassphrase("plain-secret", nil)
	if err != nil {
		t.Fatalf("ResolvePassphrase failed: %v", err)
	}
	if got != "plain-secret" {
		t.Errorf("Expected literal passphrase, got %q", got)
	}
}

func TestResolvePassphraseFromEnv(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "ENV_PASSWORD" {
			return "from-env", true
		}
		return "", false
	}

	got, err := ResolvePassphrase("$ENV_PASSWORD", lookup)
	if err != nil {
		t.Fatalf("ResolvePassphrase failed: %v", err)
	}
	if got != "from-env" {
		t.Errorf("Expected %q, got %q", "from-env", got)
	}

	if _, err := ResolvePassphrase("$MISSING", lookup); !errors.Is(err, ErrPassphrase) {
		t.Errorf("Expected ErrPassphrase for missing variable, got: %v", err)
	}
}

func TestResolvePassphraseFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passfile")
	if err := os.WriteFile(path, []byte("from-file\n"), 0600); err != nil {
		t.Fatalf("Failed to write passphrase file: %v", err)
	}

	got, err := ResolvePassphrase("@"+path, nil)
	if err != nil {
		t.Fatalf("ResolvePassphrase failed: %v", err)
	}
	if got != "from-file" {
		t.Errorf("Expected trimmed file content, got %q", got)
	}

	if _, err := ResolvePassphrase("@"+path+".missing", nil); !errors.Is(err, ErrPassphrase) {
		t.Errorf("Expected ErrPassphrase for unreadable file, got: %v", err)
	}
}

func TestCheckWeak(t *testing.T) {
	weak := []string{"short", "alllowercase1!", "NOLOWER123!", "Qwerty-99!", "Password123!", "11111111"}
	for _, p := range weak {
		if !CheckWeak(p) {
			t.Errorf("Expected %q to be flagged weak", p)
		}
	}
	if CheckWeak("Tr0ub4dor&Horse") {
		t.Error("Expected a varied passphrase to pass the lint")
	}
}
