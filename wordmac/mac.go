// Package wordmac implements the CBC-MAC authenticator shared by the
// encoder and decoder pipelines: a 160-bit (5x32-bit) keyed digest built
// from the XXTEA cipher, using an HMAC-style inner/outer key-mask pair.
package wordmac

import (
	"crypto/subtle"
	"encoding/binary"

	"github.com/dforgeas/encodetotext/werrors"
	"github.com/dforgeas/encodetotext/wordkey"
	"github.com/dforgeas/encodetotext/xxtea"
)

// StateSize is the number of 32-bit words in the MAC state (5 words = 160
// bits, chosen to match SHA-1's output width).
const StateSize = 5

const (
	ipadWord uint32 = 0x36363636
	opadWord uint32 = 0x5c5c5c5c
)

// MAC is a keyed CBC-MAC accumulator. The zero value is not usable; create
// one with New.
type MAC struct {
	k1    wordkey.Key
	k2    wordkey.Key
	state [StateSize]uint32
}

// New constructs a MAC keyed by k. The two internal key schedules (K1 =
// K^ipad, K2 = K^opad) mirror HMAC's two-key trick, using XXTEA as the
// compression primitive in place of a hash function's compression function.
func New(k wordkey.Key) *MAC {
	m := &MAC{}
	for i := range k {
		m.k1[i] = k[i] ^ ipadWord
		m.k2[i] = k[i] ^ opadWord
	}
	return m
}

// Update XORs msg into the MAC state and enciphers the state in place under
// K1. msg must be exactly StateSize words long; callers with irregularly
// sized ciphertext should use Frame to split it into StateSize-word blocks
// first.
func (m *MAC) Update(msg [StateSize]uint32) {
	for i := range m.state {
		m.state[i] ^= msg[i]
	}
	xxtea.Encipher(m.state[:], m.k1)
}

// Digest returns a snapshot of the current MAC value, enciphering a copy of
// the state under K2. Digest is idempotent and does not disturb internal
// state: further Update calls remain valid and see the pre-Digest state.
func (m *MAC) Digest() [StateSize]uint32 {
	snapshot := m.state
	xxtea.Encipher(snapshot[:], m.k2)
	return snapshot
}

// Frame splits words into zero or more StateSize-word blocks suitable for
// feeding to Update in order. Full blocks are taken as-is; a strictly
// shorter trailing remainder is copied into one final zero-padded block. A
// words slice whose length is an exact multiple of StateSize produces no
// trailing block.
func Frame(words []uint32) [][StateSize]uint32 {
	var blocks [][StateSize]uint32
	i := 0
	for ; i+StateSize <= len(words); i += StateSize {
		var block [StateSize]uint32
		copy(block[:], words[i:i+StateSize])
		blocks = append(blocks, block)
	}
	if i < len(words) {
		var block [StateSize]uint32
		copy(block[:], words[i:])
		blocks = append(blocks, block)
	}
	return blocks
}

// UpdateAll frames words per Frame and feeds every resulting block to
// Update, in order.
func (m *MAC) UpdateAll(words []uint32) {
	for _, block := range Frame(words) {
		m.Update(block)
	}
}

// Equal reports whether a and b are the same digest, comparing their
// big-endian byte serializations in constant time so that a mismatching
// decoder never leaks which word diverged first through timing.
func Equal(a, b [StateSize]uint32) bool {
	var ab, bb [StateSize * 4]byte
	for i := 0; i < StateSize; i++ {
		binary.BigEndian.PutUint32(ab[i*4:i*4+4], a[i])
		binary.BigEndian.PutUint32(bb[i*4:i*4+4], b[i])
	}
	return subtle.ConstantTimeCompare(ab[:], bb[:]) == 1
}

// VerifyDigest compares got against want; on mismatch it returns a
// *werrors.MACError tagged with side.
func VerifyDigest(side werrors.MACSide, want, got [StateSize]uint32) error {
	if !Equal(want, got) {
		return &werrors.MACError{Side: side}
	}
	return nil
}
