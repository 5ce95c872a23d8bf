package merkle

import (
	"testing"

	"backupvault/internal/hashutil"
)

func TestRootEmptyIsZero(t *testing.T) {
	if got := Root(nil); got != hashutil.ZeroHash {
		t.Fatalf("Root(nil) = %s, want zero hash", got)
	}
	if got := Root([]string{}); got != hashutil.ZeroHash {
		t.Fatalf("Root([]) = %s, want zero hash", got)
	}
}

func TestRootSingleLeaf(t *testing.T) {
	leaf := hashutil.String("chunk-a")
	// A single leaf is its own level-0 "root": no pairing occurs.
	if got := Root([]string{leaf}); got != leaf {
		t.Fatalf("Root([a]) = %s, want %s", got, leaf)
	}
}

func TestRootOddLeafDuplicated(t *testing.T) {
	a := hashutil.String("a")
	b := hashutil.String("b")
	c := hashutil.String("c")

	want := hashutil.String(hashutil.String(a+b) + hashutil.String(c+c))
	if got := Root([]string{a, b, c}); got != want {
		t.Fatalf("Root([a,b,c]) = %s, want %s", got, want)
	}
}

func TestRootDeterministic(t *testing.T) {
	leaves := []string{hashutil.String("1"), hashutil.String("2"), hashutil.String("3"), hashutil.String("4")}
	r1 := Root(leaves)
	r2 := Root(append([]string(nil), leaves...))
	if r1 != r2 {
		t.Fatalf("Root not deterministic: %s != %s", r1, r2)
	}
}

func TestRootOrderSensitive(t *testing.T) {
	a := hashutil.String("a")
	b := hashutil.String("b")
	if Root([]string{a, b}) == Root([]string{b, a}) {
		t.Fatal("Root should be sensitive to leaf order")
	}
}
