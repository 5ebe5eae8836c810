// Package xxtea implements the Corrected Block TEA (XXTEA) variable-width
// block cipher over arrays of 32-bit words, hardened with a stronger round
// count than the published construction.
//
// This package intentionally does not conform to crypto/cipher.Block: XXTEA
// operates on a whole variable-length array at once, not a fixed block size,
// and that shape does not fit the standard interfaces.
package xxtea

// Key is the 128-bit XXTEA key, as four 32-bit words.
type Key [4]uint32

const delta uint32 = 0x9e3779b9

// rounds returns the hardened round count for an n-word message. The
// published construction uses 6+52/n; this is strengthened to 8+69/n (about
// 33% more rounds) and an implementer must match it exactly, since the
// ciphertext depends on it.
func rounds(n uint32) uint32 {
	return 8 + 69/n
}

// Encipher enciphers v[0:n] in place under key, where n = len(v). It returns
// false without modifying v if n is 0 or 1 (XXTEA's minimum block size is 2
// words); otherwise it enciphers and returns true. Encipher never panics.
func Encipher(v []uint32, key Key) bool {
	n := uint32(len(v))
	if n < 2 {
		return false
	}

	r := rounds(n)
	var sum uint32
	z := v[n-1]
	for r > 0 {
		r--
		sum += delta
		e := (sum >> 2) & 3
		var p uint32
		for p = 0; p < n-1; p++ {
			y := v[p+1]
			v[p] += mx(y, z, sum, e, p, key)
			z = v[p]
		}
		y := v[0]
		v[n-1] += mx(y, z, sum, e, p, key)
		z = v[n-1]
	}
	return true
}

// Decipher deciphers v[0:n] in place under key, where n = len(v). It returns
// false without modifying v if n is 0 or 1; otherwise it deciphers and
// returns true. Decipher never panics.
func Decipher(v []uint32, key Key) bool {
	n := uint32(len(v))
	if n < 2 {
		return false
	}

	r := rounds(n)
	sum := r * delta
	y := v[0]
	for r > 0 {
		r--
		e := (sum >> 2) & 3
		var p uint32
		for p = n - 1; p > 0; p-- {
			z := v[p-1]
			v[p] -= mx(y, z, sum, e, p, key)
			y = v[p]
		}
		z := v[n-1]
		v[0] -= mx(y, z, sum, e, p, key)
		y = v[0]
		sum -= delta
	}
	return true
}

// mx is the XXTEA round function. All arithmetic is implicitly modulo 2^32
// via uint32 wraparound.
func mx(y, z, sum, e, p uint32, key Key) uint32 {
	return ((z>>5 ^ y<<2) + (y>>3 ^ z<<4)) ^ ((sum ^ y) + (key[(p&3)^e] ^ z))
}
