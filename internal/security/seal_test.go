package security

import (
	"bytes"
	"errors"
	"testing"
)

func TestSealRoundtrip(t *testing.T) {
	plaintext := []byte(`{"token":"abc","user":{"id":"u1"}}`)

	blob, err := Seal(plaintext, "device-secret")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(blob, []byte("abc")) {
		t.Fatal("ciphertext must not contain the plaintext token")
	}

	got, err := Open(blob, "device-secret")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("roundtrip mismatch: %q", got)
	}
}

func TestOpenWrongSecret(t *testing.T) {
	blob, err := Seal([]byte("payload"), "right")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := Open(blob, "wrong"); !errors.Is(err, ErrSealCorrupt) {
		t.Fatalf("expected ErrSealCorrupt, got %v", err)
	}
}

func TestOpenCorruptBlob(t *testing.T) {
	blob, err := Seal([]byte("payload"), "secret")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	cases := map[string][]byte{
		"truncated":    blob[:10],
		"empty":        nil,
		"bad_magic":    append([]byte("XXXXX"), blob[5:]...),
		"flipped_byte": flipLast(blob),
	}
	for name, b := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Open(b, "secret"); !errors.Is(err, ErrSealCorrupt) {
				t.Fatalf("expected ErrSealCorrupt, got %v", err)
			}
		})
	}
}

func TestSealIsSalted(t *testing.T) {
	a, err := Seal([]byte("same"), "secret")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	b, err := Seal([]byte("same"), "secret")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two seals of the same plaintext must differ")
	}
}

func flipLast(blob []byte) []byte {
	out := append([]byte{}, blob...)
	out[len(out)-1] ^= 0xff
	return out
}
