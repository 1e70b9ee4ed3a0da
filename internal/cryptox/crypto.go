// Package cryptox seals secrets that the client keeps on local disk, such as
// the persisted access and refresh tokens.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/namecard/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16
	keySize  = 32
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Sealer turns plaintext into an opaque blob and back.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
	Open(sealed []byte) ([]byte, error)
}

// DeriveKey stretches a passphrase into a 256-bit AES key with argon2id.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, keySize)
}

// PassphraseSealer encrypts with AES-GCM under a key derived from a passphrase.
// Every Seal call draws a fresh salt and nonce; the output layout is
// salt || nonce || ciphertext.
type PassphraseSealer struct {
	passphrase []byte
}

func NewPassphraseSealer(passphrase string) *PassphraseSealer {
	return &PassphraseSealer{passphrase: []byte(passphrase)}
}

func (s *PassphraseSealer) Seal(plaintext []byte) ([]byte, error) {
	salt := common.GenerateRandByteArray(saltSize)

	aead, err := newGCM(DeriveKey(s.passphrase, salt))
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aead.NonceSize())

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

func (s *PassphraseSealer) Open(sealed []byte) ([]byte, error) {
	if len(sealed) < saltSize {
		return nil, ErrCiphertextTooShort
	}
	salt, rest := sealed[:saltSize], sealed[saltSize:]

	aead, err := newGCM(DeriveKey(s.passphrase, salt))
	if err != nil {
		return nil, err
	}
	if len(rest) < aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, ciphertext := rest[:aead.NonceSize()], rest[aead.NonceSize():]

	return aead.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// PlainSealer stores values as-is. Used when no passphrase is configured.
type PlainSealer struct{}

func (PlainSealer) Seal(plaintext []byte) ([]byte, error) {
	return append([]byte(nil), plaintext...), nil
}

func (PlainSealer) Open(sealed []byte) ([]byte, error) {
	return append([]byte(nil), sealed...), nil
}

// ForPassphrase picks a PassphraseSealer when passphrase is set and a
// PlainSealer otherwise.
func ForPassphrase(passphrase string) Sealer {
	if passphrase == "" {
		return PlainSealer{}
	}
	return NewPassphraseSealer(passphrase)
}
