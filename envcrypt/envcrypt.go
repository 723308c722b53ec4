// Package envcrypt implements the passphrase envelope used to store
// encrypted dotenv files. The on-disk layout is
//
//	magic(4) || salt(16) || iv(16) || ciphertext || tag(32)
//
// with AES-256-CBC for the ciphertext and an HMAC-SHA256 tag over
// iv||ciphertext (encrypt-then-MAC). Both keys are derived from the
// passphrase with PBKDF2-SHA256 and the per-encryption random salt.
package envcrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Errors returned by Encrypt and Decrypt.
var (
	// ErrEncrypt indicates the input cannot be encrypted (blank passphrase,
	// already-encrypted data).
	ErrEncrypt = errors.New("cannot encrypt data")

	// ErrDecrypt indicates an integrity or format failure. It is deliberately
	// uninformative: a wrong passphrase, a truncated envelope and a tampered
	// tag all look the same to the caller.
	ErrDecrypt = errors.New("cannot decrypt data")
)

var magic = []byte("SECF")

const (
	saltSize = 16
	ivSize   = aes.BlockSize
	tagSize  = sha256.Size
	keySize  = 32 // AES-256

	// Header plus one cipher block plus the tag is the smallest envelope
	// that can exist.
	minEnvelopeSize = len("SECF") + saltSize + ivSize + aes.BlockSize + tagSize
)

// Iterations is the PBKDF2 work factor. The envelope does not record it,
// so encrypting and decrypting sides must agree on the value. It is a
// variable so callers with unusual latency budgets (and tests) can tune it.
var Iterations = 1_800_000

// deriveKeys stretches the passphrase into an AES key and an HMAC key.
func deriveKeys(passphrase string, salt []byte) (encKey, macKey []byte) {
	km := pbkdf2.Key([]byte(passphrase), salt, Iterations, keySize*2, sha256.New)
	return km[:keySize], km[keySize:]
}

// IsEncrypted reports whether buf looks like an envelope produced by
// Encrypt. It only sniffs the magic header and minimum length, so arbitrary
// plaintext is never mis-detected and no input can make it panic.
func IsEncrypted(buf []byte) bool {
	return len(buf) >= minEnvelopeSize && bytes.HasPrefix(buf, magic)
}

// Encrypt seals plaintext under the given passphrase and returns the full
// envelope. Each call uses a fresh salt and IV.
func Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: no or blank passphrase provided", ErrEncrypt)
	}
	if IsEncrypted(plaintext) {
		return nil, fmt.Errorf("%w: data is already encrypted", ErrEncrypt)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	encKey, macKey := deriveKeys(passphrase, salt)
	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise cipher: %w", err)
	}

	padded := pad(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)
	mac.Write(ciphertext)

	envelope := make([]byte, 0, len(magic)+saltSize+ivSize+len(ciphertext)+tagSize)
	envelope = append(envelope, magic...)
	envelope = append(envelope, salt...)
	envelope = append(envelope, iv...)
	envelope = append(envelope, ciphertext...)
	envelope = append(envelope, mac.Sum(nil)...)
	return envelope, nil
}

// Decrypt opens an envelope produced by Encrypt. The HMAC tag is verified
// before any decryption is attempted, so a tampered or mismatched envelope
// fails closed instead of yielding corrupted plaintext.
func Decrypt(envelope []byte, passphrase string) ([]byte, error) {
	if !IsEncrypted(envelope) {
		return nil, fmt.Errorf("%w: data does not look to be encrypted", ErrDecrypt)
	}

	offset := len(magic)
	salt := envelope[offset : offset+saltSize]
	offset += saltSize
	iv := envelope[offset : offset+ivSize]
	offset += ivSize
	ciphertext := envelope[offset : len(envelope)-tagSize]
	tag := envelope[len(envelope)-tagSize:]

	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: malformed envelope", ErrDecrypt)
	}

	encKey, macKey := deriveKeys(passphrase, salt)

	mac := hmac.New(sha256.New, macKey)
	mac.Write(iv)
	mac.Write(ciphertext)
	if !hmac.Equal(mac.Sum(nil), tag) {
		return nil, fmt.Errorf("%w: incorrect passphrase or tampered data", ErrDecrypt)
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise cipher: %w", err)
	}
	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := unpad(padded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return plaintext, nil
}

// pad applies PKCS7 padding up to the AES block size.
func pad(data []byte) []byte {
	n := aes.BlockSize - len(data)%aes.BlockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad checks and removes PKCS7 padding.
func unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n < 1 || n > aes.BlockSize {
		return nil, errors.New("invalid padding length")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding bytes")
		}
	}
	return data[:len(data)-n], nil
}
