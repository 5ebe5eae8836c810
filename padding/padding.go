// Package padding applies and strips the PKCS#7-like trailer used by the
// last super-block of a stream: p bytes of value p, appended so the
// super-block's length is a positive multiple of 4 and at least 2 words (8
// bytes) long — XXTEA's minimum block size.
package padding

import (
	"fmt"

	"github.com/dforgeas/encodetotext/werrors"
)

// Pad appends padding to data[:bytesRead], the tail of a super-block read
// from the input. It assumes bytesRead < len(data) (a full super-block is
// emitted as-is, un-padded — the following super-block, possibly a pure
// padding block, carries the trailer). The returned slice aliases data and
// has length bytesRead+p, a multiple of 4 in [8, len(data)].
func Pad(data []byte, bytesRead int) []byte {
	p := 4 - (bytesRead % 4)
	if bytesRead < 4 {
		p += 4
	}
	for i := 0; i < p; i++ {
		data[bytesRead+i] = byte(p)
	}
	return data[:bytesRead+p]
}

// Strip validates and removes the padding trailer from a fully decrypted
// super-block, returning the plaintext with padding removed. It implements
// the reference's intended precedence ("short block: p in [1,8]; long block
// (>8 bytes): p in [1,4]") as an explicit check rather than the
// precedence-ambiguous boolean expression in the original source.
func Strip(buf []byte) ([]byte, error) {
	n := len(buf)
	if n == 0 {
		return nil, &werrors.PaddingError{Length: n, Reason: "empty super-block has no padding byte"}
	}

	p := int(buf[n-1])
	if p < 1 || p > 8 {
		return nil, &werrors.PaddingError{
			Length: n, Offset: n - 1, Value: buf[n-1],
			Reason: fmt.Sprintf("padding length %d out of range [1,8]", p),
		}
	}
	if n > 8 && p > 4 {
		return nil, &werrors.PaddingError{
			Length: n, Offset: n - 1, Value: buf[n-1],
			Reason: fmt.Sprintf("padding length %d out of range [1,4] for a super-block longer than 8 bytes", p),
		}
	}
	if p > n {
		return nil, &werrors.PaddingError{
			Length: n, Offset: n - 1, Value: buf[n-1],
			Reason: fmt.Sprintf("padding length %d exceeds super-block length %d", p, n),
		}
	}

	for i := n - p; i < n; i++ {
		if buf[i] != byte(p) {
			return nil, &werrors.PaddingError{
				Length: n, Offset: i, Value: buf[i],
				Reason: fmt.Sprintf("padding byte at offset %d does not equal padding length %d", i, p),
			}
		}
	}

	return buf[:n-p], nil
}
