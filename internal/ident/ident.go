// Package ident validates the identifier chains used in forward references
// and scope names.
//
// A chain is one or more identifiers joined by dots ("Node", "pkg.mod.Node").
// Identifiers follow dynamic-language rules: NFKC-normalized, a letter or
// underscore first, letters, digits, or underscores after.
package ident

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"tycore/internal/diag"
)

// Error describes a rejected identifier or chain.
type Error struct {
	Name    string
	Subject string
	Code    diag.Code
	Reason  string
}

func (e *Error) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: invalid identifier %q for %s: %s", e.Code, e.Name, e.Subject, e.Reason)
	}
	return fmt.Sprintf("%s: invalid identifier %q: %s", e.Code, e.Name, e.Reason)
}

// Normalize returns the NFKC normalization of s. Identifier equality is
// defined over normalized text, so callers cache and compare normalized
// names only.
func Normalize(s string) string {
	if norm.NFKC.IsNormalString(s) {
		return s
	}
	return norm.NFKC.String(s)
}

// IsIdentifier reports whether s is a single valid identifier (no dots).
func IsIdentifier(s string) bool {
	return classify(Normalize(s)) == nil
}

// IsChain reports whether s is a valid dotted identifier chain.
// A single identifier without dots is a valid chain.
func IsChain(s string) bool {
	return CheckChain(s, "") == nil
}

// Check validates a single undotted identifier. The subject names what the
// identifier is for and appears in the error message.
func Check(name, subject string) error {
	n := Normalize(name)
	if strings.Contains(n, ".") {
		return &Error{Name: name, Subject: subject, Code: diag.IdentBadRune, Reason: "dots are not allowed in an unqualified identifier"}
	}
	if reason := classify(n); reason != nil {
		reason.Name = name
		reason.Subject = subject
		return reason
	}
	return nil
}

// CheckChain validates a possibly dotted identifier chain. Every segment must
// itself be a valid identifier; empty segments (leading, trailing, or doubled
// dots) are rejected.
func CheckChain(name, subject string) error {
	n := Normalize(name)
	if n == "" {
		return &Error{Name: name, Subject: subject, Code: diag.IdentEmpty, Reason: "empty identifier"}
	}
	for _, seg := range strings.Split(n, ".") {
		if seg == "" {
			return &Error{Name: name, Subject: subject, Code: diag.IdentEmptySegment, Reason: "empty segment in dotted name"}
		}
		if reason := classify(seg); reason != nil {
			reason.Name = name
			reason.Subject = subject
			return reason
		}
	}
	return nil
}

// classify returns a template Error for an invalid identifier, nil otherwise.
// The caller fills in Name and Subject.
func classify(s string) *Error {
	if s == "" {
		return &Error{Code: diag.IdentEmpty, Reason: "empty identifier"}
	}
	for i, r := range s {
		if i == 0 {
			if r != '_' && !unicode.IsLetter(r) {
				if unicode.IsDigit(r) {
					return &Error{Code: diag.IdentBadStart, Reason: "identifier starts with a digit"}
				}
				return &Error{Code: diag.IdentBadStart, Reason: fmt.Sprintf("identifier starts with %q", r)}
			}
			continue
		}
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return &Error{Code: diag.IdentBadRune, Reason: fmt.Sprintf("invalid rune %q at byte %d", r, i)}
		}
	}
	return nil
}

// SplitLast splits a chain at its rightmost dot into (prefix, bare).
// For an undotted chain the prefix is empty and bare is the input.
func SplitLast(chain string) (prefix, bare string) {
	if idx := strings.LastIndexByte(chain, '.'); idx >= 0 {
		return chain[:idx], chain[idx+1:]
	}
	return "", chain
}
