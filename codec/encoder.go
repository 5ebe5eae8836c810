package codec

import (
	"errors"
	"io"

	"github.com/dforgeas/encodetotext/dictionary"
	"github.com/dforgeas/encodetotext/padding"
	"github.com/dforgeas/encodetotext/werrors"
	"github.com/dforgeas/encodetotext/wordkey"
	"github.com/dforgeas/encodetotext/wordmac"
	"github.com/dforgeas/encodetotext/xxtea"
)

// errClosed is returned by Write once Close has run.
var errClosed = errors.New("wordcipher: write after close")

// Option configures an Encoder.
type Option func(*Encoder)

// WithConcurrentMAC controls whether the MAC update for every super-block
// after the first runs on its own goroutine (the default) or inline on the
// caller's goroutine. Both produce byte-identical output; the option exists
// for tests and for callers on a single spare core.
func WithConcurrentMAC(enabled bool) Option {
	return func(e *Encoder) { e.concurrentMAC = enabled }
}

// Encoder implements io.WriteCloser, turning a byte stream into the
// dictionary-word wire format. Callers must call Close to flush the final,
// possibly padding-only, super-block and the trailing MAC.
type Encoder struct {
	tw            *tokenWriter
	key           wordkey.Key
	dict          *dictionary.Dictionary
	mac           *wordmac.MAC
	worker        *macWorker
	concurrentMAC bool

	buf    []byte
	bufLen int

	blockCount int
	closed     bool
	err        error
}

// NewEncoder constructs an Encoder writing to w, enciphering under key, and
// rendering ciphertext through dict.
func NewEncoder(w io.Writer, key wordkey.Key, dict *dictionary.Dictionary, opts ...Option) *Encoder {
	e := &Encoder{
		tw:            newTokenWriter(w),
		key:           key,
		dict:          dict,
		mac:           wordmac.New(key),
		buf:           make([]byte, SuperBlockSize),
		concurrentMAC: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Write buffers p into the current super-block, flushing full super-blocks
// (emitted un-padded) as they fill. It satisfies io.Writer.
func (e *Encoder) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if e.closed {
		return 0, errClosed
	}
	written := 0
	for len(p) > 0 {
		n := copy(e.buf[e.bufLen:], p)
		e.bufLen += n
		p = p[n:]
		written += n
		if e.bufLen == SuperBlockSize {
			if err := e.processBlock(e.buf[:e.bufLen]); err != nil {
				return written, e.fail(err)
			}
			e.bufLen = 0
		}
	}
	return written, nil
}

// Close pads and processes whatever remains of the current super-block
// (possibly nothing but the padding trailer itself), then writes the final
// MAC marker and digest. It must be called exactly once.
func (e *Encoder) Close() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	if e.err != nil {
		return e.err
	}

	final := padding.Pad(e.buf, e.bufLen)
	if err := e.processBlock(final); err != nil {
		return e.fail(err)
	}

	var digest [wordmac.StateSize]uint32
	if e.worker != nil {
		d, err := e.worker.finish()
		if err != nil {
			return e.fail(err)
		}
		digest = d
	} else {
		digest = e.mac.Digest()
	}

	if err := e.tw.writeMarker("."); err != nil {
		return e.fail(err)
	}
	if err := e.emitDigest(digest); err != nil {
		return e.fail(err)
	}
	if err := e.tw.endLine(); err != nil {
		return e.fail(err)
	}
	if err := e.tw.flush(); err != nil {
		return e.fail(err)
	}
	return nil
}

// processBlock enciphers one super-block (already padded if it is the
// last), feeds its ciphertext to the MAC, emits the initial MAC the first
// time through, and writes the ciphertext out as dictionary words.
func (e *Encoder) processBlock(block []byte) error {
	words := bytesToWordsBE(block)
	if !xxtea.Encipher(words, e.key) {
		return &werrors.CipherError{WordCount: len(words), Message: "super-block shorter than two words"}
	}

	e.blockCount++
	isFirst := e.blockCount == 1

	switch {
	case isFirst:
		// The first super-block's MAC update always runs synchronously: its
		// digest must be on the wire before any later super-block's
		// ciphertext is emitted.
		e.mac.UpdateAll(words)
		if err := e.emitInitialMAC(e.mac.Digest()); err != nil {
			return err
		}
		if e.concurrentMAC {
			e.worker = newMACWorker(e.mac)
		}
	case e.concurrentMAC:
		e.worker.push(words)
	default:
		e.mac.UpdateAll(words)
	}

	return e.emitCiphertext(words)
}

func (e *Encoder) emitInitialMAC(digest [wordmac.StateSize]uint32) error {
	if err := e.emitDigest(digest); err != nil {
		return err
	}
	return e.tw.writeMarker(",")
}

func (e *Encoder) emitDigest(digest [wordmac.StateSize]uint32) error {
	for _, idx := range wordsToIndices(digest[:]) {
		if err := e.tw.writeWord(e.dict.Word(idx)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) emitCiphertext(words []uint32) error {
	for _, idx := range wordsToIndices(words) {
		if err := e.tw.writeWord(e.dict.Word(idx)); err != nil {
			return err
		}
	}
	return nil
}

// fail records err as the encoder's sticky error and, if a MAC worker is
// running, drains it before returning so its goroutine is never left
// detached.
func (e *Encoder) fail(err error) error {
	e.err = err
	if e.worker != nil {
		e.worker.shutdown()
	}
	return err
}
