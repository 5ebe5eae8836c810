package wordkey

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteToLoadRoundTrip(t *testing.T) {
	k := Key{0x11223344, 0x55667788, 0x9abcdef0, 0x13579bdf}

	var buf bytes.Buffer
	if err := WriteTo(&buf, k); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	if buf.Len() != Size {
		t.Fatalf("wrote %d bytes, want %d", buf.Len(), Size)
	}

	got, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != k {
		t.Fatalf("got %v, want %v", got, k)
	}
}

func TestLoadRejectsShortFile(t *testing.T) {
	if _, err := Load(strings.NewReader("short")); err == nil {
		t.Fatal("expected an error for a key file shorter than 16 bytes")
	}
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	data := make([]byte, Size+1)
	if _, err := Load(bytes.NewReader(data)); err == nil {
		t.Fatal("expected an error for a key file longer than 16 bytes")
	}
}

func TestDefaultIsNotZero(t *testing.T) {
	k := Default()
	if k == (Key{}) {
		t.Fatal("Default returned the zero key")
	}
}

func TestDeriveFromPasswordIsDeterministic(t *testing.T) {
	params := Argon2Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1}
	salt := []byte("fixed-test-salt")

	a := DeriveFromPassword([]byte("hunter2"), salt, params)
	b := DeriveFromPassword([]byte("hunter2"), salt, params)
	if a != b {
		t.Fatal("DeriveFromPassword is not deterministic for identical inputs")
	}

	c := DeriveFromPassword([]byte("different"), salt, params)
	if a == c {
		t.Fatal("different passwords derived the same key")
	}
}
