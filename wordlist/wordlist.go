// Package wordlist supplies a deterministic, dependency-free candidate word
// source for package dictionary when no curated words.txt is available.
//
// This is not meant to be linguistically meaningful. A shipped deployment
// should supply a real words.txt (see SPEC_FULL.md §4.C); this generator
// exists so dictionary construction, the codec pipeline, and this module's
// tests never need one checked into the repository.
package wordlist

import "io"

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Generate returns an io.Reader that streams lowercase letter strings, one
// per line, in increasing length starting at 1, stopping once enough
// distinct candidates have been produced to satisfy dictionary.Build's
// minimum (26 + 26^2 + 26^3 + 26^4 = 475,254 already exceeds 65,536, so
// length 5 is never needed). Every string is ASCII, non-empty, and at most
// 8 bytes, so all of them survive dictionary selection.
func Generate() io.Reader {
	return &generator{lens: []int{1, 2, 3, 4}}
}

// generator enumerates every string of each length in lens, shortest first,
// in ascending lexicographic order within a length, without precomputing
// the whole list in memory.
type generator struct {
	lens    []int
	lenIdx  int
	counter []int // current combination, one digit per letter position, base len(alphabet)
	done    bool
	buf     []byte
}

func (g *generator) Read(p []byte) (int, error) {
	for len(g.buf) == 0 {
		if g.done {
			return 0, io.EOF
		}
		line, ok := g.next()
		if !ok {
			g.done = true
			continue
		}
		g.buf = append(append([]byte(line), '\n'), g.buf...)
	}
	n := copy(p, g.buf)
	g.buf = g.buf[n:]
	return n, nil
}

// next produces the next candidate line, advancing internal state. It
// returns ok=false once every length in lens has been exhausted.
func (g *generator) next() (string, bool) {
	for g.lenIdx < len(g.lens) {
		n := g.lens[g.lenIdx]
		if g.counter == nil {
			g.counter = make([]int, n)
		}
		if len(g.counter) != n {
			// moved to a new length: reset the odometer
			g.counter = make([]int, n)
		}

		word := make([]byte, n)
		for i, d := range g.counter {
			word[i] = alphabet[d]
		}

		g.advance()
		return string(word), true
	}
	return "", false
}

// advance increments the odometer counter for the current length, rolling
// over to the next length in lens when it overflows.
func (g *generator) advance() {
	for i := len(g.counter) - 1; i >= 0; i-- {
		g.counter[i]++
		if g.counter[i] < len(alphabet) {
			return
		}
		g.counter[i] = 0
	}
	// overflowed every position: move to the next length
	g.lenIdx++
	g.counter = nil
}
