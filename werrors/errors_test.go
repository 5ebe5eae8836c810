package werrors

import (
	"errors"
	"testing"
)

func TestKeyErrorUnwrap(t *testing.T) {
	base := errors.New("disk read failed")
	e := &KeyError{Path: "key.bin", Message: "failed to read key file", Err: base}

	if !errors.Is(e, base) {
		t.Fatal("errors.Is does not see through KeyError.Unwrap")
	}
	want := `key error: key.bin: failed to read key file`
	if e.Error() != want {
		t.Fatalf("Error() = %q, want %q", e.Error(), want)
	}
}

func TestDictionaryErrorWithoutPath(t *testing.T) {
	e := &DictionaryError{Message: "too few candidates"}
	want := "dictionary error: too few candidates"
	if e.Error() != want {
		t.Fatalf("Error() = %q, want %q", e.Error(), want)
	}
}

func TestTokenErrorMessages(t *testing.T) {
	unknown := &TokenError{Kind: TokenUnknown, Token: "zzz"}
	if unknown.Error() == "" {
		t.Fatal("TokenError.Error() is empty")
	}

	marker := &TokenError{Kind: TokenMarker, Token: "oops", Want: ","}
	want := `token error: expected marker ",", got "oops"`
	if marker.Error() != want {
		t.Fatalf("Error() = %q, want %q", marker.Error(), want)
	}
}

func TestMACSideString(t *testing.T) {
	if MACInitial.String() != "initial" {
		t.Errorf("MACInitial.String() = %q", MACInitial.String())
	}
	if MACFinal.String() != "final" {
		t.Errorf("MACFinal.String() = %q", MACFinal.String())
	}
}

func TestIsInitialAndFinalMACError(t *testing.T) {
	initial := &MACError{Side: MACInitial}
	final := &MACError{Side: MACFinal}

	if !IsInitialMACError(initial) {
		t.Error("IsInitialMACError(initial) = false")
	}
	if IsInitialMACError(final) {
		t.Error("IsInitialMACError(final) = true")
	}
	if !IsFinalMACError(final) {
		t.Error("IsFinalMACError(final) = false")
	}
	if IsFinalMACError(initial) {
		t.Error("IsFinalMACError(initial) = true")
	}
	if !IsMACError(initial) || !IsMACError(final) {
		t.Error("IsMACError should match both sides")
	}
}

func TestPredicatesRejectUnrelatedErrors(t *testing.T) {
	other := errors.New("unrelated")
	if IsKeyError(other) || IsDictionaryError(other) || IsCipherError(other) ||
		IsTokenError(other) || IsTruncatedError(other) || IsPaddingError(other) ||
		IsMACError(other) {
		t.Fatal("a predicate matched an unrelated error")
	}
}

func TestPaddingErrorMessage(t *testing.T) {
	e := &PaddingError{Length: 8, Offset: 7, Value: 9, Reason: "padding byte mismatch"}
	want := "invalid padding: padding byte mismatch (byte 0x9 at offset 7 of 8)"
	if e.Error() != want {
		t.Fatalf("Error() = %q, want %q", e.Error(), want)
	}
}
