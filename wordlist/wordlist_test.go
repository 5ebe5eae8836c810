package wordlist

import (
	"bufio"
	"io"
	"testing"
)

func TestGenerateProducesEnoughDistinctCandidates(t *testing.T) {
	sc := bufio.NewScanner(Generate())
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	seen := make(map[string]struct{})
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			t.Fatal("generator produced an empty line")
		}
		if len(line) > 8 {
			t.Fatalf("generator produced an over-length word: %q", line)
		}
		if _, dup := seen[line]; dup {
			t.Fatalf("generator produced a duplicate word: %q", line)
		}
		seen[line] = struct{}{}
		if len(seen) >= 70000 {
			break
		}
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scanner error: %v", err)
	}
	if len(seen) < 70000 {
		t.Fatalf("got %d distinct candidates before EOF, want at least 70000", len(seen))
	}
}

func TestGenerateOrdersShortestFirst(t *testing.T) {
	sc := bufio.NewScanner(Generate())
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lastLen := 0
	for i := 0; i < 1000 && sc.Scan(); i++ {
		line := sc.Text()
		if len(line) < lastLen {
			t.Fatalf("line %d: length decreased from %d to %d (%q)", i, lastLen, len(line), line)
		}
		lastLen = len(line)
	}
}

func TestReadHonorsSmallBuffers(t *testing.T) {
	g := Generate()
	buf := make([]byte, 3)
	total := 0
	for i := 0; i < 200; i++ {
		n, err := g.Read(buf)
		total += n
		if err != nil && err != io.EOF {
			t.Fatalf("unexpected error: %v", err)
		}
		if err == io.EOF {
			break
		}
	}
	if total == 0 {
		t.Fatal("Read never returned any bytes")
	}
}
