package ident

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// AccountWidth is the canonical length of an account identifier.
	AccountWidth = 42
	// DomainWidth is the canonical length of a domain identifier.
	DomainWidth = 66

	// prefixLen is the number of leading characters kept before the padding.
	prefixLen = 2
)

// ErrIdentifierWidth is matched by every WidthError.
var ErrIdentifierWidth = errors.New("ident: identifier width")

// WidthError reports an identifier that cannot be normalised to the requested width.
type WidthError struct {
	Raw   string
	Width int
}

func (e *WidthError) Error() string {
	if len(e.Raw) < prefixLen {
		return fmt.Sprintf("ident: identifier %q shorter than prefix length %d", e.Raw, prefixLen)
	}
	return fmt.Sprintf("ident: identifier %q (len %d) exceeds width %d", e.Raw, len(e.Raw), e.Width)
}

func (e *WidthError) Is(target error) bool {
	return target == ErrIdentifierWidth
}

// Normalize left-pads the part of raw after its two-character prefix with zeros
// until the result is exactly width characters long.
func Normalize(raw string, width int) (string, error) {
	if len(raw) == width {
		return raw, nil
	}
	if len(raw) < prefixLen || len(raw) > width {
		return "", &WidthError{Raw: raw, Width: width}
	}

	var b strings.Builder
	b.Grow(width)
	b.WriteString(raw[:prefixLen])
	b.WriteString(strings.Repeat("0", width-len(raw)))
	b.WriteString(raw[prefixLen:])
	return b.String(), nil
}

// Account normalises an account identifier.
func Account(raw string) (string, error) {
	return Normalize(raw, AccountWidth)
}

// Domain normalises a domain identifier.
func Domain(raw string) (string, error) {
	return Normalize(raw, DomainWidth)
}
