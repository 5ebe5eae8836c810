// Package codec implements the encoder and decoder pipelines that glue the
// cipher, MAC, dictionary, and padding components into the wire format
// described in SPEC_FULL.md §6: an initial MAC, a comma, ciphertext words,
// a dot, and a final MAC.
package codec

import (
	"encoding/binary"

	"github.com/dforgeas/encodetotext/wordmac"
)

// WordBytes is the size of one 32-bit word, in bytes.
const WordBytes = 4

// SuperBlockSize is BS from the spec: S (MAC state words) * W (bytes per
// word) * 1024 = 5*4*1024 = 20,480 bytes. It is a common multiple of the
// word size, the MAC state width, and the 16-bit index width, which is
// exactly the alignment every other component in this package depends on.
const SuperBlockSize = wordmac.StateSize * WordBytes * 1024

// SuperBlockWords is SuperBlockSize expressed in 32-bit words.
const SuperBlockWords = SuperBlockSize / WordBytes

// MacTokenCount is the number of dictionary words used to render one MAC
// digest (5 words * 2 sixteen-bit indices per word).
const MacTokenCount = wordmac.StateSize * 2

// tokensPerLine controls payload line wrapping; purely cosmetic.
const tokensPerLine = 16

// bytesToWordsBE reinterprets a byte slice, whose length must be a multiple
// of 4, as big-endian 32-bit words.
func bytesToWordsBE(b []byte) []uint32 {
	words := make([]uint32, len(b)/WordBytes)
	for i := range words {
		words[i] = binary.BigEndian.Uint32(b[i*WordBytes : i*WordBytes+WordBytes])
	}
	return words
}

// wordsToBytesBE serializes 32-bit words as big-endian bytes.
func wordsToBytesBE(words []uint32) []byte {
	b := make([]byte, len(words)*WordBytes)
	for i, w := range words {
		binary.BigEndian.PutUint32(b[i*WordBytes:i*WordBytes+WordBytes], w)
	}
	return b
}

// wordsToIndices exposes each 32-bit word as two big-endian 16-bit halves.
func wordsToIndices(words []uint32) []uint16 {
	indices := make([]uint16, 0, len(words)*2)
	for _, w := range words {
		indices = append(indices, uint16(w>>16), uint16(w))
	}
	return indices
}

// indicesToWords is the inverse of wordsToIndices; len(indices) must be
// even.
func indicesToWords(indices []uint16) []uint32 {
	words := make([]uint32, len(indices)/2)
	for i := range words {
		words[i] = uint32(indices[i*2])<<16 | uint32(indices[i*2+1])
	}
	return words
}
