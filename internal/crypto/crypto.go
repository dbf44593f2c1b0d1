// Package crypto implements the symmetric cipher used for credential
// blobs at rest: AES-256-CBC with PKCS#7 padding and base64 encoding,
// keyed by a single deployment-wide key and IV.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/hex"

	"github.com/avetisov/toolhub/internal/apperr"
	"github.com/pkg/errors"
)

const (
	// KeyHexLen is the expected length of the hex-encoded AES key (32 bytes).
	KeyHexLen = 64
	// IVHexLen is the expected length of the hex-encoded IV (16 bytes).
	IVHexLen = 32
)

// Cipher encrypts and decrypts strings with a fixed key/IV pair. A
// Cipher built from missing or malformed key material is usable but
// every Encrypt/Decrypt call fails with a ConfigurationError, so the
// problem is detected at first use rather than silently ignored.
type Cipher struct {
	key []byte
	iv  []byte
}

// New builds a Cipher from hex-encoded key and IV strings. Invalid
// input yields an unconfigured Cipher; callers that need to know up
// front can check Configured.
func New(keyHex, ivHex string) *Cipher {
	c := &Cipher{}
	if len(keyHex) != KeyHexLen || len(ivHex) != IVHexLen {
		return c
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return c
	}
	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return c
	}
	c.key = key
	c.iv = iv
	return c
}

// Configured reports whether the cipher holds valid key material.
func (c *Cipher) Configured() bool {
	return len(c.key) > 0 && len(c.iv) > 0
}

// Encrypt encrypts plaintext and returns the base64-encoded result.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if !c.Configured() {
		return "", &apperr.ConfigurationError{Reason: "encryption keys not configured"}
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", errors.Wrap(err, "create cipher")
	}
	padded := pad([]byte(plaintext), block.BlockSize())
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, c.iv).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. It fails on malformed base64, ciphertext
// that is not block-aligned, and invalid padding; a failure usually
// means corrupted data or a key/IV mismatch.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	if !c.Configured() {
		return "", &apperr.ConfigurationError{Reason: "encryption keys not configured"}
	}
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", errors.Wrap(err, "decode ciphertext")
	}
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", errors.Wrap(err, "create cipher")
	}
	if len(raw) == 0 || len(raw)%block.BlockSize() != 0 {
		return "", errors.New("ciphertext is not a whole number of blocks")
	}
	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(block, c.iv).CryptBlocks(out, raw)
	plain, err := unpad(out, block.BlockSize())
	if err != nil {
		return "", errors.Wrap(err, "invalid padding; data may be corrupted or key/IV mismatched")
	}
	return string(plain), nil
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty input")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("bad padding length")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("inconsistent padding bytes")
		}
	}
	return data[:len(data)-n], nil
}
