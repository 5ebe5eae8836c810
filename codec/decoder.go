package codec

import (
	"bufio"
	"bytes"
	"io"

	"github.com/dforgeas/encodetotext/dictionary"
	"github.com/dforgeas/encodetotext/werrors"
	"github.com/dforgeas/encodetotext/wordkey"
	"github.com/dforgeas/encodetotext/wordmac"
	"github.com/dforgeas/encodetotext/xxtea"
)

// decoder stage constants.
const (
	stageInitialMAC = iota
	stageComma
	stagePayload
	stageFinalMAC
	stageDone
)

// Decoder implements io.Reader, turning the dictionary-word wire format
// back into the original byte stream. It holds at most one super-block of
// ciphertext and one super-block of pending plaintext at a time; memory use
// does not grow with the size of the stream being decoded.
type Decoder struct {
	scanner *bufio.Scanner
	key     wordkey.Key
	dict    *dictionary.Dictionary
	mac     *wordmac.MAC
	strip   stripDelay

	stage      int
	initialMAC [wordmac.StateSize]uint32
	chunk      []byte
	blockCount int
	pending    bytes.Buffer
	err        error
}

// NewDecoder constructs a Decoder reading from r, deciphering under key,
// and resolving dictionary words through dict.
func NewDecoder(r io.Reader, key wordkey.Key, dict *dictionary.Dictionary) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024)
	sc.Split(bufio.ScanWords)
	return &Decoder{
		scanner: sc,
		key:     key,
		dict:    dict,
		mac:     wordmac.New(key),
		chunk:   make([]byte, 0, SuperBlockSize),
	}
}

// Read implements io.Reader. It runs the tokenizer state machine forward
// only as far as needed to produce output, or to hit an error or the true
// end of stream.
func (d *Decoder) Read(p []byte) (int, error) {
	for d.pending.Len() == 0 && d.err == nil && d.stage != stageDone {
		d.step()
	}
	if d.pending.Len() > 0 {
		return d.pending.Read(p)
	}
	if d.err != nil {
		return 0, d.err
	}
	return 0, io.EOF
}

func (d *Decoder) step() {
	switch d.stage {
	case stageInitialMAC:
		digest, err := d.readDigestTokens()
		if err != nil {
			d.fail(err)
			return
		}
		d.initialMAC = digest
		d.stage = stageComma

	case stageComma:
		tok, ok := d.nextToken()
		if !ok {
			d.fail(d.truncated("`,` marker"))
			return
		}
		if tok != "," {
			d.fail(&werrors.TokenError{Kind: werrors.TokenMarker, Token: tok, Want: ","})
			return
		}
		d.stage = stagePayload

	case stagePayload:
		d.stepPayload()

	case stageFinalMAC:
		digest, err := d.readDigestTokens()
		if err != nil {
			d.fail(err)
			return
		}
		if err := wordmac.VerifyDigest(werrors.MACFinal, digest, d.mac.Digest()); err != nil {
			d.fail(err)
			return
		}
		if tok, ok := d.nextToken(); ok {
			d.fail(&werrors.TokenError{Kind: werrors.TokenUnknown, Token: tok, Want: "end of stream"})
			return
		}
		out, err := d.strip.finish()
		if err != nil {
			d.fail(err)
			return
		}
		d.pending.Write(out)
		d.stage = stageDone
	}
}

// stepPayload consumes one payload token: either the `.` marker, ending the
// payload, or one ciphertext word appended to the current super-block.
func (d *Decoder) stepPayload() {
	tok, ok := d.nextToken()
	if !ok {
		d.fail(d.truncated("`.` marker or payload word"))
		return
	}
	if tok == "." {
		if err := d.finishPayload(); err != nil {
			d.fail(err)
			return
		}
		d.stage = stageFinalMAC
		return
	}

	idx, ok := d.dict.Index(tok)
	if !ok {
		d.fail(&werrors.TokenError{Kind: werrors.TokenUnknown, Token: tok})
		return
	}
	d.chunk = append(d.chunk, byte(idx>>8), byte(idx))
	if len(d.chunk) == SuperBlockSize {
		if err := d.consumeBlock(d.chunk); err != nil {
			d.fail(err)
			return
		}
		d.chunk = d.chunk[:0]
	}
}

// finishPayload handles whatever is left in chunk when the `.` marker is
// seen. An empty chunk means the stream's last super-block was exactly a
// multiple of SuperBlockSize and was already processed as though it were an
// intermediate one; stripDelay still has it held, and will strip its
// padding once finish is called from stageFinalMAC.
func (d *Decoder) finishPayload() error {
	if len(d.chunk) == 0 {
		return nil
	}
	if len(d.chunk)%WordBytes != 0 {
		return &werrors.TruncatedError{Expected: "a whole number of 32-bit words in the final super-block"}
	}
	err := d.consumeBlock(d.chunk)
	d.chunk = d.chunk[:0]
	return err
}

// consumeBlock MACs, verifies the initial digest if this is the first
// super-block seen, deciphers, and hands the plaintext to the delay buffer.
// Whether this block turns out to be the stream's actual last one is not
// decided here; see finishPayload and stripDelay.
func (d *Decoder) consumeBlock(block []byte) error {
	words := bytesToWordsBE(block)
	d.mac.UpdateAll(words)
	d.blockCount++
	if d.blockCount == 1 {
		if err := wordmac.VerifyDigest(werrors.MACInitial, d.initialMAC, d.mac.Digest()); err != nil {
			return err
		}
	}
	if !xxtea.Decipher(words, d.key) {
		return &werrors.CipherError{WordCount: len(words), Message: "super-block shorter than two words"}
	}
	plain := wordsToBytesBE(words)
	if emit, ok := d.strip.push(plain); ok {
		d.pending.Write(emit)
	}
	return nil
}

func (d *Decoder) readDigestTokens() ([wordmac.StateSize]uint32, error) {
	indices := make([]uint16, 0, MacTokenCount)
	for i := 0; i < MacTokenCount; i++ {
		tok, ok := d.nextToken()
		if !ok {
			return [wordmac.StateSize]uint32{}, d.truncated("MAC word")
		}
		if tok == "," || tok == "." {
			return [wordmac.StateSize]uint32{}, &werrors.TokenError{Kind: werrors.TokenMarker, Token: tok, Want: "dictionary word"}
		}
		idx, ok := d.dict.Index(tok)
		if !ok {
			return [wordmac.StateSize]uint32{}, &werrors.TokenError{Kind: werrors.TokenUnknown, Token: tok}
		}
		indices = append(indices, idx)
	}
	var digest [wordmac.StateSize]uint32
	copy(digest[:], indicesToWords(indices))
	return digest, nil
}

func (d *Decoder) nextToken() (string, bool) {
	if d.scanner.Scan() {
		return d.scanner.Text(), true
	}
	return "", false
}

func (d *Decoder) truncated(expected string) error {
	return &werrors.TruncatedError{Expected: expected, Err: d.scanner.Err()}
}

func (d *Decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
	d.stage = stageDone
}
