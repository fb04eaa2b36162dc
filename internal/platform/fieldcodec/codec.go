// Package fieldcodec encrypts designated text fields before they reach the
// persistent store and decrypts them on the way back out.
//
// Format on disk: base64(nonce || ciphertext) with AES-256-GCM and a fresh
// random 12-byte nonce per value. The cipher key is derived from a
// process-wide master secret with HKDF-SHA256, so rotating the master secret
// only requires re-encrypting stored rows, not changing the derivation.
//
// The codec is an explicitly constructed value injected into stores at
// startup. There is no package-level cipher state: tests run with fixed keys
// and key rotation swaps the codec instance.
package fieldcodec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	keySize   = 32
	nonceSize = 12
)

// hkdfInfo binds derived keys to this codec's purpose so the same master
// secret can safely feed other derivations later.
var hkdfInfo = []byte("crossclass/fieldcodec/v1")

var (
	ErrCiphertextTooShort = errors.New("fieldcodec: ciphertext too short")
	ErrKeySize            = fmt.Errorf("fieldcodec: master key must be %d bytes", keySize)
)

// Codec performs authenticated encryption of individual string fields.
// Safe for concurrent use.
type Codec struct {
	aead cipher.AEAD
}

// New derives the cipher key from masterKey and builds the AEAD.
func New(masterKey []byte) (*Codec, error) {
	if len(masterKey) != keySize {
		return nil, ErrKeySize
	}

	derived := make([]byte, keySize)
	kdf := hkdf.New(sha256.New, masterKey, nil, hkdfInfo)
	if _, err := io.ReadFull(kdf, derived); err != nil {
		return nil, fmt.Errorf("fieldcodec: derive key: %w", err)
	}

	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("fieldcodec: new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("fieldcodec: new GCM: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// NewFromBase64 builds a codec from a base64-encoded master key, the format
// used in configuration ("openssl rand -base64 32").
func NewFromBase64(encoded string) (*Codec, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("fieldcodec: decode master key: %w", err)
	}
	return New(key)
}

// Encrypt seals plaintext under a fresh random nonce and returns
// base64(nonce || ciphertext).
func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("fieldcodec: generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	combined := make([]byte, 0, nonceSize+len(sealed))
	combined = append(combined, nonce...)
	combined = append(combined, sealed...)
	return base64.StdEncoding.EncodeToString(combined), nil
}

// Decrypt reverses Encrypt. Fails if the value was tampered with or sealed
// under a different key.
func (c *Codec) Decrypt(encoded string) (string, error) {
	combined, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("fieldcodec: decode ciphertext: %w", err)
	}
	if len(combined) < nonceSize {
		return "", ErrCiphertextTooShort
	}

	nonce, sealed := combined[:nonceSize], combined[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("fieldcodec: decrypt: %w", err)
	}
	return string(plaintext), nil
}

// EncryptPtr encrypts an optional field, passing nil through.
func (c *Codec) EncryptPtr(plaintext *string) (*string, error) {
	if plaintext == nil {
		return nil, nil
	}
	sealed, err := c.Encrypt(*plaintext)
	if err != nil {
		return nil, err
	}
	return &sealed, nil
}

// DecryptPtr decrypts an optional field, passing nil through.
func (c *Codec) DecryptPtr(encoded *string) (*string, error) {
	if encoded == nil {
		return nil, nil
	}
	plain, err := c.Decrypt(*encoded)
	if err != nil {
		return nil, err
	}
	return &plain, nil
}
