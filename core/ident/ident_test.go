package ident

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		width int
		want  string
	}{
		{"AlreadyCanonical", "0x" + strings.Repeat("a", 40), AccountWidth, "0x" + strings.Repeat("a", 40)},
		{"ShortAccount", "0x1ab", AccountWidth, "0x" + strings.Repeat("0", 37) + "1ab"},
		{"PrefixOnly", "0x", 6, "0x0000"},
		{"ShortDomain", "0xff", DomainWidth, "0x" + strings.Repeat("0", 62) + "ff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, tt.width)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Len(t, got, tt.width)
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, raw := range []string{"0x", "0x1", "0xabc", "0x" + strings.Repeat("f", 40)} {
		once, err := Normalize(raw, AccountWidth)
		require.NoError(t, err)
		twice, err := Normalize(once, AccountWidth)
		require.NoError(t, err)
		assert.Equal(t, once, twice, raw)
	}
}

func TestNormalize_SameEntityDifferentRepresentations(t *testing.T) {
	a, err := Domain("0x01ab")
	require.NoError(t, err)
	b, err := Domain("0x1ab")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNormalize_WidthErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"Empty", ""},
		{"OneChar", "0"},
		{"TooLong", "0x" + strings.Repeat("1", 41)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Account(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrIdentifierWidth))

			var widthErr *WidthError
			require.True(t, errors.As(err, &widthErr))
			assert.Equal(t, AccountWidth, widthErr.Width)
		})
	}
}
