package wordmac

import (
	"testing"

	"github.com/dforgeas/encodetotext/werrors"
	"github.com/dforgeas/encodetotext/wordkey"
)

func testKey() wordkey.Key {
	return wordkey.Key{0x5bd1e995, 0x27d4eb2f, 0x165667b1, 0x85ebca6b}
}

func TestDigestIsIdempotentAndDoesNotDisturbState(t *testing.T) {
	m := New(testKey())
	m.Update([StateSize]uint32{1, 2, 3, 4, 5})

	d1 := m.Digest()
	d2 := m.Digest()
	if d1 != d2 {
		t.Fatalf("Digest is not idempotent: %v != %v", d1, d2)
	}

	m.Update([StateSize]uint32{6, 7, 8, 9, 10})
	d3 := m.Digest()
	if d3 == d1 {
		t.Fatal("Digest did not change after a further Update")
	}
}

func TestUpdateOrderMatters(t *testing.T) {
	a := New(testKey())
	a.Update([StateSize]uint32{1, 0, 0, 0, 0})
	a.Update([StateSize]uint32{0, 1, 0, 0, 0})

	b := New(testKey())
	b.Update([StateSize]uint32{0, 1, 0, 0, 0})
	b.Update([StateSize]uint32{1, 0, 0, 0, 0})

	if a.Digest() == b.Digest() {
		t.Fatal("digests match despite different update order")
	}
}

func TestFrame(t *testing.T) {
	cases := []struct {
		name       string
		words      []uint32
		wantBlocks int
	}{
		{"empty", nil, 0},
		{"exact one block", []uint32{1, 2, 3, 4, 5}, 1},
		{"exact two blocks", make([]uint32, 10), 2},
		{"remainder", []uint32{1, 2, 3}, 1},
		{"one block plus remainder", make([]uint32, 7), 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			blocks := Frame(tc.words)
			if len(blocks) != tc.wantBlocks {
				t.Fatalf("got %d blocks, want %d", len(blocks), tc.wantBlocks)
			}
		})
	}
}

func TestFrameZeroPadsTrailingRemainder(t *testing.T) {
	blocks := Frame([]uint32{1, 2, 3})
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	want := [StateSize]uint32{1, 2, 3, 0, 0}
	if blocks[0] != want {
		t.Fatalf("got %v, want %v", blocks[0], want)
	}
}

func TestUpdateAllMatchesManualFraming(t *testing.T) {
	words := make([]uint32, 0, 13)
	for i := 0; i < 13; i++ {
		words = append(words, uint32(i*97+1))
	}

	a := New(testKey())
	a.UpdateAll(words)

	b := New(testKey())
	for _, block := range Frame(words) {
		b.Update(block)
	}

	if a.Digest() != b.Digest() {
		t.Fatal("UpdateAll diverges from manual Frame+Update")
	}
}

func TestEqualAndVerifyDigest(t *testing.T) {
	a := [StateSize]uint32{1, 2, 3, 4, 5}
	b := a
	if !Equal(a, b) {
		t.Fatal("Equal(a, a) = false")
	}

	b[2]++
	if Equal(a, b) {
		t.Fatal("Equal reports distinct digests as equal")
	}

	if err := VerifyDigest(werrors.MACInitial, a, a); err != nil {
		t.Fatalf("VerifyDigest matched case returned error: %v", err)
	}

	err := VerifyDigest(werrors.MACFinal, a, b)
	if err == nil {
		t.Fatal("VerifyDigest mismatched case returned nil")
	}
	if !werrors.IsFinalMACError(err) {
		t.Fatalf("expected a final MACError, got %v", err)
	}
}
