package hashutil

import "testing"

func TestBytesIsHex64(t *testing.T) {
	got := Bytes([]byte("hello"))
	if len(got) != 64 {
		t.Fatalf("expected 64 hex chars, got %d: %s", len(got), got)
	}
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	if got != want {
		t.Fatalf("Bytes(%q) = %s, want %s", "hello", got, want)
	}
}

func TestStringMatchesBytes(t *testing.T) {
	if String("hello") != Bytes([]byte("hello")) {
		t.Fatal("String and Bytes diverge on UTF-8 input")
	}
}

func TestDeterministic(t *testing.T) {
	a := Bytes([]byte("some content"))
	b := Bytes([]byte("some content"))
	if a != b {
		t.Fatalf("hash not deterministic: %s != %s", a, b)
	}
}

func TestZeroHashLength(t *testing.T) {
	if len(ZeroHash) != 64 {
		t.Fatalf("ZeroHash must be 64 chars, got %d", len(ZeroHash))
	}
	for _, c := range ZeroHash {
		if c != '0' {
			t.Fatalf("ZeroHash must be all zeros, got %q", ZeroHash)
		}
	}
}
