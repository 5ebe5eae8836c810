// Package dictionary builds and serves the 65,536-entry bijection between
// 16-bit indices and "small words" (1-8 byte ASCII strings) that the codec
// pipeline uses to render ciphertext as pronounceable text.
package dictionary

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dforgeas/encodetotext/werrors"
)

// Size is the required number of entries in a complete dictionary.
const Size = 65536

// MaxWordLen is the maximum byte length of a dictionary word.
const MaxWordLen = 8

// smallWord is a word stored as a fixed 8-byte, zero-padded array: no heap
// allocation, O(1) hashing and comparison.
type smallWord [MaxWordLen]byte

func newSmallWord(s string) (smallWord, bool) {
	var w smallWord
	if len(s) == 0 || len(s) > MaxWordLen {
		return w, false
	}
	copy(w[:], s)
	return w, true
}

func (w smallWord) String() string {
	n := bytes.IndexByte(w[:], 0)
	if n < 0 {
		n = len(w)
	}
	return string(w[:n])
}

// Dictionary is the immutable 65,536-word vocabulary, indexed both by
// position (encoder lookup) and by word (decoder lookup).
type Dictionary struct {
	words []smallWord          // index -> word, descending lexicographic order
	index map[smallWord]uint16 // word -> index
}

// Build selects 65,536 words from source and assembles the dictionary.
//
// Selection runs in two stages:
//  1. Among all distinct, non-empty lines, the 65,536 words that sort first
//     under "shorter length wins, ties broken by ascending lexicographic
//     order" are kept. This is a partial selection: the remainder of the
//     source need not be fully ordered.
//  2. The 65,536 selected words are sorted in descending lexicographic
//     order; that is the dictionary's final order and therefore its index
//     assignment.
func Build(source io.Reader) (*Dictionary, error) {
	seen := make(map[string]struct{}, Size*2)
	candidates := make([]string, 0, Size*2)

	scanner := bufio.NewScanner(source)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !isASCII(line) {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		candidates = append(candidates, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, &werrors.DictionaryError{Message: "failed to read word source", Err: err}
	}

	if len(candidates) < Size {
		return nil, &werrors.DictionaryError{
			Message: fmt.Sprintf("need at least %d distinct non-empty words, got %d", Size, len(candidates)),
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if len(candidates[i]) != len(candidates[j]) {
			return len(candidates[i]) < len(candidates[j])
		}
		return candidates[i] < candidates[j]
	})
	selected := candidates[:Size]
	sort.Sort(sort.Reverse(sort.StringSlice(selected)))

	return fromSorted(selected)
}

// Load reads a dictionary cache (one word per line, already in the final
// descending order) and verifies it has exactly Size entries. A cache of the
// wrong size is rejected so the caller can regenerate it from the source via
// Build.
func Load(cache io.Reader) (*Dictionary, error) {
	words := make([]string, 0, Size)
	scanner := bufio.NewScanner(cache)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &werrors.DictionaryError{Message: "failed to read dictionary cache", Err: err}
	}
	if len(words) != Size {
		return nil, &werrors.DictionaryError{
			Message: fmt.Sprintf("cache has %d entries, want %d", len(words), Size),
		}
	}
	return fromSorted(words)
}

// fromSorted builds a Dictionary from words already in final (descending)
// order, validating the small-word size constraint and uniqueness.
func fromSorted(words []string) (*Dictionary, error) {
	d := &Dictionary{
		words: make([]smallWord, len(words)),
		index: make(map[smallWord]uint16, len(words)),
	}
	for i, w := range words {
		sw, ok := newSmallWord(w)
		if !ok {
			return nil, &werrors.DictionaryError{
				Message: fmt.Sprintf("word %q does not fit the 1-%d byte small-word representation", w, MaxWordLen),
			}
		}
		if _, dup := d.index[sw]; dup {
			return nil, &werrors.DictionaryError{Message: fmt.Sprintf("duplicate word %q", w)}
		}
		d.words[i] = sw
		d.index[sw] = uint16(i)
	}
	return d, nil
}

// WriteCache writes the dictionary, one word per line, in its final
// descending order — the words.quickstart format Load expects.
func (d *Dictionary) WriteCache(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, sw := range d.words {
		if _, err := bw.WriteString(sw.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Word returns the word at index i. i must be < Size; Build/Load guarantee
// exactly Size entries, so any uint16 index is valid.
func (d *Dictionary) Word(i uint16) string {
	return d.words[i].String()
}

// Index returns the index of word w, and whether it was found.
func (d *Dictionary) Index(w string) (uint16, bool) {
	sw, ok := newSmallWord(w)
	if !ok {
		return 0, false
	}
	i, ok := d.index[sw]
	return i, ok
}

// IndexBinarySearch is an alternate implementation of Index using a binary
// search with the "greater-than" comparator the descending order requires,
// rather than the hash map. Both strategies are valid per the dictionary's
// lookup contract; this one is offered for callers that cannot afford the
// map's memory and is exercised by tests to confirm it agrees with Index.
func (d *Dictionary) IndexBinarySearch(w string) (uint16, bool) {
	sw, ok := newSmallWord(w)
	if !ok {
		return 0, false
	}
	target := sw.String()
	n := len(d.words)
	// d.words is descending, so the first index whose word is <= target is
	// found by searching for "not greater than".
	i := sort.Search(n, func(i int) bool {
		return d.words[i].String() <= target
	})
	if i < n && d.words[i] == sw {
		return uint16(i), true
	}
	return 0, false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}
