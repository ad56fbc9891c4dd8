package security

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Sealed credential file layout: magic, argon2 salt, XChaCha20 nonce,
// ciphertext. The key is derived per file from the device secret so copying
// the blob to another install does not open it.

var sealMagic = []byte("DLCS1")

var ErrSealCorrupt = errors.New("sealed blob corrupt")

const sealSaltLen = 16

type KDFParams struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

var defaultKDF = KDFParams{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 2,
}

func deriveKey(secret string, salt []byte, params KDFParams) []byte {
	return argon2.IDKey([]byte(secret), salt, params.Time, params.Memory, params.Threads, chacha20poly1305.KeySize)
}

func Seal(plaintext []byte, secret string) ([]byte, error) {
	salt := make([]byte, sealSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	aead, err := chacha20poly1305.NewX(deriveKey(secret, salt, defaultKDF))
	if err != nil {
		return nil, fmt.Errorf("init aead: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, len(sealMagic)+len(salt)+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, sealMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, sealMagic)
	return out, nil
}

func Open(blob []byte, secret string) ([]byte, error) {
	header := len(sealMagic) + sealSaltLen + chacha20poly1305.NonceSizeX
	if len(blob) < header {
		return nil, ErrSealCorrupt
	}
	if string(blob[:len(sealMagic)]) != string(sealMagic) {
		return nil, ErrSealCorrupt
	}

	salt := blob[len(sealMagic) : len(sealMagic)+sealSaltLen]
	nonce := blob[len(sealMagic)+sealSaltLen : header]

	aead, err := chacha20poly1305.NewX(deriveKey(secret, salt, defaultKDF))
	if err != nil {
		return nil, fmt.Errorf("init aead: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, blob[header:], sealMagic)
	if err != nil {
		return nil, ErrSealCorrupt
	}
	return plaintext, nil
}
