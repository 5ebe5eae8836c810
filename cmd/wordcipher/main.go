// Command wordcipher encodes and decodes the dictionary-word wire format
// defined by this module: enc/dec run the codec pipeline end to end, and
// key derives a reusable key file from a password.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/dforgeas/encodetotext/codec"
	"github.com/dforgeas/encodetotext/dictionary"
	"github.com/dforgeas/encodetotext/werrors"
	"github.com/dforgeas/encodetotext/wordkey"
	"github.com/dforgeas/encodetotext/wordlist"
)

const (
	exitOK = iota
	exitUsage
	exitBadMode
	exitInputError
	exitOutputError
)

// exitPanic is returned when main recovers from an otherwise-uncaught
// runtime error, mirroring the reference tool's catch-all abort code.
const exitPanic = 0xF

// keyDerivationSalt is fixed rather than randomly generated per invocation:
// `key <password>` must be reproducible from the password alone across
// runs, with no separate salt file to keep track of. This trades resistance
// to a precomputed dictionary attack against this one salt for that
// reproducibility, an acceptable trade for a local CLI tool.
var keyDerivationSalt = []byte("wordcipher-key-derivation-salt-v1")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) (code int) {
	runID := uuid.New()
	logger := log.New(os.Stderr, fmt.Sprintf("wordcipher[%s] ", runID.String()[:8]), log.LstdFlags)

	defer func() {
		if r := recover(); r != nil {
			logger.Printf("unrecoverable error: %v", r)
			code = exitPanic
		}
	}()

	fs := flag.NewFlagSet("wordcipher", flag.ContinueOnError)
	wordsPath := fs.String("words", "words.txt", "path to a candidate word list; falls back to the built-in generator if absent")
	quickstartPath := fs.String("quickstart", "words.quickstart", "path to the dictionary cache; empty disables caching")
	keyFilePath := fs.String("keyfile", "encode.key", "path to a 16-byte key file; falls back to the built-in key if absent")
	verbose := fs.Bool("v", false, "log progress to stderr")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: wordcipher [flags] enc|dec <in> <out>")
		fmt.Fprintln(os.Stderr, "       wordcipher [flags] key <password>")
		fmt.Fprintln(os.Stderr, "`-` means stdin for <in> and stdout for <out>.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if !*verbose {
		logger.SetOutput(io.Discard)
	}

	rest := fs.Args()
	if len(rest) < 1 {
		fs.Usage()
		return exitUsage
	}

	switch mode := rest[0]; mode {
	case "key":
		if len(rest) != 2 {
			fmt.Fprintln(os.Stderr, "usage: wordcipher key <password>")
			return exitUsage
		}
		return runKey(rest[1], *keyFilePath, logger)
	case "enc", "dec":
		if len(rest) != 3 {
			fmt.Fprintf(os.Stderr, "usage: wordcipher %s <in> <out>\n", mode)
			return exitUsage
		}
		return runCodec(mode, rest[1], rest[2], *wordsPath, *quickstartPath, *keyFilePath, logger)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q: want enc, dec, or key\n", mode)
		return exitBadMode
	}
}

func runKey(password, keyFilePath string, logger *log.Logger) int {
	key := wordkey.DeriveFromPassword([]byte(password), keyDerivationSalt, wordkey.DefaultArgon2Params())
	f, err := os.Create(keyFilePath)
	if err != nil {
		logger.Printf("failed to create key file %q: %v", keyFilePath, err)
		return exitOutputError
	}
	defer f.Close()
	if err := wordkey.WriteTo(f, key); err != nil {
		logger.Printf("failed to write derived key to %q: %v", keyFilePath, err)
		return exitOutputError
	}
	logger.Printf("wrote derived key to %s", keyFilePath)
	return exitOK
}

func runCodec(mode, inPath, outPath, wordsPath, quickstartPath, keyFilePath string, logger *log.Logger) int {
	if outPath != "-" && filepath.Base(outPath) == "words.txt" {
		fmt.Fprintln(os.Stderr, "refusing to write output to a file named words.txt")
		return exitOutputError
	}

	in, err := openInput(inPath)
	if err != nil {
		logger.Printf("failed to open input %q: %v", inPath, err)
		return exitInputError
	}
	defer in.Close()

	out, err := openOutput(outPath)
	if err != nil {
		logger.Printf("failed to open output %q: %v", outPath, err)
		return exitOutputError
	}
	defer out.Close()

	key, err := loadKey(keyFilePath)
	if err != nil {
		logger.Printf("failed to load key: %v", err)
		return exitInputError
	}

	dict, err := loadOrBuildDictionary(wordsPath, quickstartPath, logger)
	if err != nil {
		logger.Printf("failed to load dictionary: %v", err)
		return exitInputError
	}

	logger.Printf("%s: %s -> %s", mode, inPath, outPath)

	switch mode {
	case "enc":
		enc := codec.NewEncoder(out, key, dict)
		if _, err := io.Copy(enc, in); err != nil {
			logger.Printf("encode failed: %v", err)
			return exitOutputError
		}
		if err := enc.Close(); err != nil {
			logger.Printf("encode failed: %v", err)
			return exitOutputError
		}
	case "dec":
		dec := codec.NewDecoder(in, key, dict)
		if _, err := io.Copy(out, dec); err != nil {
			logger.Printf("decode failed: %v", err)
			if isFormatError(err) {
				return exitInputError
			}
			return exitOutputError
		}
	}
	return exitOK
}

// isFormatError reports whether err came from a malformed or tampered
// input stream, as opposed to an I/O failure writing the output.
func isFormatError(err error) bool {
	return werrors.IsTokenError(err) ||
		werrors.IsTruncatedError(err) ||
		werrors.IsMACError(err) ||
		werrors.IsPaddingError(err) ||
		werrors.IsCipherError(err)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// loadKey opens path (if non-empty) and reads a 16-byte key file from it,
// falling back to the built-in default key when the file does not exist.
func loadKey(path string) (wordkey.Key, error) {
	if path == "" {
		return wordkey.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return wordkey.Default(), nil
		}
		return wordkey.Key{}, err
	}
	defer f.Close()
	return wordkey.Load(f)
}

// loadOrBuildDictionary tries the on-disk cache first (when quickstartPath
// is non-empty), then falls back to building from wordsPath (or the
// built-in generator if that file does not exist). A successful build is
// written back to the cache on a best-effort basis.
func loadOrBuildDictionary(wordsPath, quickstartPath string, logger *log.Logger) (*dictionary.Dictionary, error) {
	if quickstartPath != "" {
		if f, err := os.Open(quickstartPath); err == nil {
			dict, loadErr := dictionary.Load(f)
			f.Close()
			if loadErr == nil {
				logger.Printf("loaded dictionary cache %s", quickstartPath)
				return dict, nil
			}
			logger.Printf("dictionary cache %s unusable, rebuilding: %v", quickstartPath, loadErr)
		}
	}

	source := io.Reader(wordlist.Generate())
	if f, err := os.Open(wordsPath); err == nil {
		defer f.Close()
		source = f
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	dict, err := dictionary.Build(source)
	if err != nil {
		return nil, err
	}

	if quickstartPath != "" {
		if err := writeCache(quickstartPath, dict); err != nil {
			logger.Printf("failed to write dictionary cache %s: %v", quickstartPath, err)
		}
	}
	return dict, nil
}

func writeCache(path string, dict *dictionary.Dictionary) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return dict.WriteCache(f)
}
