package codec

import "github.com/dforgeas/encodetotext/padding"

// stripDelay implements the decoder's one-super-block delay: the decoder
// cannot tell whether a decrypted super-block is the stream's last one
// until it has seen what follows it (another super-block, or the final MAC
// marker), so padding can only be stripped from a block once a later event
// proves it was in fact the last. A live object holding the one pending
// block, rather than a pair of fixed buffers and a flip bit, is the natural
// shape for this in Go: its lifetime is exactly one decode call.
type stripDelay struct {
	held []byte
	has  bool
}

// push hands in a newly decrypted super-block. If a block was already held,
// it is now proven not to have been last (another one just arrived), so it
// is returned unmodified — padding is never stripped from it, because it
// never carried any. The new block becomes the held one.
func (s *stripDelay) push(block []byte) (emit []byte, ok bool) {
	if s.has {
		emit, ok = s.held, true
	}
	s.held = append([]byte(nil), block...)
	s.has = true
	return emit, ok
}

// finish strips the padding trailer from the held block, now confirmed to
// be the stream's actual last super-block, and returns the plaintext.
func (s *stripDelay) finish() ([]byte, error) {
	if !s.has {
		return nil, nil
	}
	s.has = false
	return padding.Strip(s.held)
}
