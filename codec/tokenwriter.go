package codec

import (
	"bufio"
	"io"
)

// tokenWriter renders the space-separated, line-wrapped dictionary-word
// stream the wire format uses for both MAC digests and ciphertext payload.
type tokenWriter struct {
	w   *bufio.Writer
	col int
}

func newTokenWriter(w io.Writer) *tokenWriter {
	return &tokenWriter{w: bufio.NewWriterSize(w, 64*1024)}
}

// writeWord emits one dictionary word, separated from its predecessor by a
// space, wrapping to a new line every tokensPerLine words.
func (t *tokenWriter) writeWord(word string) error {
	if t.col > 0 {
		if err := t.w.WriteByte(' '); err != nil {
			return err
		}
	}
	if _, err := t.w.WriteString(word); err != nil {
		return err
	}
	t.col++
	if t.col >= tokensPerLine {
		if err := t.w.WriteByte('\n'); err != nil {
			return err
		}
		t.col = 0
	}
	return nil
}

// writeMarker emits a `,` or `.` marker on its own line.
func (t *tokenWriter) writeMarker(marker string) error {
	if err := t.endLine(); err != nil {
		return err
	}
	if _, err := t.w.WriteString(marker); err != nil {
		return err
	}
	return t.w.WriteByte('\n')
}

// endLine terminates the current line if any words have been written to
// it, so a marker or the stream's end never lands mid-line.
func (t *tokenWriter) endLine() error {
	if t.col == 0 {
		return nil
	}
	t.col = 0
	return t.w.WriteByte('\n')
}

func (t *tokenWriter) flush() error {
	return t.w.Flush()
}
