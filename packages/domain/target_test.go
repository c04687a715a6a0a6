package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTarget_Normalization(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		raw      string
		wantBase string
		wantHost string
	}{
		{"bare domain gets https", "shop.example.com", "https://shop.example.com", "shop.example.com"},
		{"trailing slash stripped", "https://shop.example.com/", "https://shop.example.com", "shop.example.com"},
		{"host lowercased", "https://SHOP.Example.COM", "https://shop.example.com", "shop.example.com"},
		{"http scheme preserved", "http://example.com", "http://example.com", "example.com"},
		{"surrounding whitespace trimmed", "  https://example.com  ", "https://example.com", "example.com"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			target, err := NewTarget(tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.wantBase, target.BaseURL)
			require.Equal(t, tc.wantHost, target.Host)
		})
	}
}

func TestNewTarget_Registrable(t *testing.T) {
	t.Parallel()

	target, err := NewTarget("https://www.shop.example.co.uk")
	require.NoError(t, err)
	require.Equal(t, "example.co.uk", target.Registrable)
}

func TestNewTarget_Invalid(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "   ", "https://"} {
		_, err := NewTarget(raw)
		require.ErrorIs(t, err, ErrInvalidTarget, "raw=%q", raw)
	}
}

func TestTarget_SameSite(t *testing.T) {
	t.Parallel()

	target, err := NewTarget("https://shop.example.com")
	require.NoError(t, err)

	require.True(t, target.SameSite("shop.example.com"))
	require.True(t, target.SameSite("cdn.shop.example.com"))
	require.True(t, target.SameSite("example.com"), "registrable domain counts as same site")
	require.True(t, target.SameSite("www.example.com"))

	// Substring containment must not be enough.
	require.False(t, target.SameSite("shop.example.com.evil.net"))
	require.False(t, target.SameSite("notshop.example.org"))
	require.False(t, target.SameSite("evil.net"))
}
