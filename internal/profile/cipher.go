// Package profile persists named API tokens and keeps them encrypted at rest.
//
// The encryption key is derived from a passphrase compiled into the binary.
// This only hides tokens from casual inspection of the config file: anyone
// who can run or read the program can recover the key. It is not a defence
// against an attacker with access to the binary.
package profile

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"

	"github.com/chrisedwards/slack-cli/internal/clierr"
)

const (
	passphrase  = "slack-cli-key"
	salt        = "slack-cli-salt-v1"
	iterations  = 100000
	keySize     = 32
	ivSize      = aes.BlockSize
	separator   = ":"
	ivHexLength = ivSize * 2
)

// Cipher encrypts tokens with AES-256-CBC into "hex(iv):hex(ciphertext)"
// envelopes. The key is derived once per Cipher.
type Cipher struct {
	once sync.Once
	key  []byte
}

// NewCipher returns a Cipher using the built-in passphrase and salt.
func NewCipher() *Cipher {
	return &Cipher{}
}

func (c *Cipher) derivedKey() []byte {
	c.once.Do(func() {
		c.key = deriveKey(passphrase, salt)
	})
	return c.key
}

// deriveKey runs PBKDF2-SHA256 over the passphrase.
func deriveKey(pass, salt string) []byte {
	return pbkdf2.Key([]byte(pass), []byte(salt), iterations, keySize, sha256.New)
}

// Encrypt returns a new envelope for plaintext. A fresh IV is drawn on
// every call, so two encryptions of the same value differ.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(c.derivedKey())
	if err != nil {
		return "", &clierr.CryptoError{Op: "encrypt", Err: err}
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return "", &clierr.CryptoError{Op: "encrypt", Err: err}
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + separator + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Any structural problem with the envelope or
// failure to decrypt is reported as a *clierr.CryptoError.
func (c *Cipher) Decrypt(envelope string) (string, error) {
	if strings.Count(envelope, separator) != 1 {
		return "", &clierr.CryptoError{Op: "decrypt", Err: errors.New("invalid encrypted data format")}
	}
	ivHex, dataHex, _ := strings.Cut(envelope, separator)

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", &clierr.CryptoError{Op: "decrypt", Err: errors.New("invalid IV encoding")}
	}
	if len(iv) != ivSize {
		return "", &clierr.CryptoError{Op: "decrypt", Err: errors.New("invalid IV length")}
	}

	ciphertext, err := hex.DecodeString(dataHex)
	if err != nil {
		return "", &clierr.CryptoError{Op: "decrypt", Err: errors.New("invalid ciphertext encoding")}
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", &clierr.CryptoError{Op: "decrypt", Err: errors.New("ciphertext is not a whole number of blocks")}
	}

	block, err := aes.NewCipher(c.derivedKey())
	if err != nil {
		return "", &clierr.CryptoError{Op: "decrypt", Err: err}
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	unpadded, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", &clierr.CryptoError{Op: "decrypt", Err: err}
	}
	return string(unpadded), nil
}

// IsEnvelope reports whether value is shaped like an envelope: exactly one
// separator and a hex IV of the right length. It never attempts decryption.
func IsEnvelope(value string) bool {
	if value == "" || strings.Count(value, separator) != 1 {
		return false
	}
	ivHex, _, _ := strings.Cut(value, separator)
	if len(ivHex) != ivHexLength {
		return false
	}
	_, err := hex.DecodeString(ivHex)
	return err == nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded data length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, errors.New("bad decrypt")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("bad decrypt")
		}
	}
	return data[:len(data)-n], nil
}
