package ident

import (
	"errors"
	"testing"

	"tycore/internal/diag"
)

func TestCheckChainAcceptsValidNames(t *testing.T) {
	valid := []string{
		"x",
		"_private",
		"Node",
		"pkg.mod.Node",
		"a1.b2.c3",
		"π", // unicode letter
	}
	for _, name := range valid {
		if err := CheckChain(name, "test"); err != nil {
			t.Fatalf("CheckChain(%q) = %v, want nil", name, err)
		}
	}
}

func TestCheckChainRejectsInvalidNames(t *testing.T) {
	cases := []struct {
		name string
		code diag.Code
	}{
		{"", diag.IdentEmpty},
		{"1abc", diag.IdentBadStart},
		{"a..b", diag.IdentEmptySegment},
		{".a", diag.IdentEmptySegment},
		{"a.", diag.IdentEmptySegment},
		{"a-b", diag.IdentBadRune},
		{"a b", diag.IdentBadRune},
	}
	for _, tc := range cases {
		err := CheckChain(tc.name, "test")
		if err == nil {
			t.Fatalf("CheckChain(%q) = nil, want error", tc.name)
		}
		var ie *Error
		if !errors.As(err, &ie) {
			t.Fatalf("CheckChain(%q) error type = %T", tc.name, err)
		}
		if ie.Code != tc.code {
			t.Fatalf("CheckChain(%q) code = %v, want %v", tc.name, ie.Code, tc.code)
		}
	}
}

func TestCheckRejectsDots(t *testing.T) {
	if err := Check("a.b", "test"); err == nil {
		t.Fatalf("Check should reject dotted names")
	}
	if err := Check("plain", "test"); err != nil {
		t.Fatalf("Check(plain) = %v", err)
	}
}

func TestNormalizeNFKC(t *testing.T) {
	// U+FB01 LATIN SMALL LIGATURE FI normalizes to "fi" under NFKC.
	if got := Normalize("ﬁle"); got != "file" {
		t.Fatalf("Normalize = %q, want %q", got, "file")
	}
	if !IsIdentifier("ﬁle") {
		t.Fatalf("ligature identifier should be valid after normalization")
	}
}

func TestSplitLast(t *testing.T) {
	prefix, bare := SplitLast("a.b.C")
	if prefix != "a.b" || bare != "C" {
		t.Fatalf("SplitLast = (%q, %q)", prefix, bare)
	}
	prefix, bare = SplitLast("C")
	if prefix != "" || bare != "C" {
		t.Fatalf("SplitLast undotted = (%q, %q)", prefix, bare)
	}
}
