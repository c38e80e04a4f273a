package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFragment(t *testing.T) {
	t.Run("full token pair", func(t *testing.T) {
		artifacts, ok := ParseFragment("#access_token=abc123&refresh_token=def456&token_type=bearer")

		require.True(t, ok)
		assert.Equal(t, "abc123", artifacts.AccessToken)
		assert.Equal(t, "def456", artifacts.RefreshToken)
	})

	t.Run("refresh token is optional", func(t *testing.T) {
		artifacts, ok := ParseFragment("#access_token=abc123")

		require.True(t, ok)
		assert.Equal(t, "abc123", artifacts.AccessToken)
		assert.Empty(t, artifacts.RefreshToken)
	})

	t.Run("leading hash is not required", func(t *testing.T) {
		artifacts, ok := ParseFragment("access_token=abc123&refresh_token=def456")

		require.True(t, ok)
		assert.Equal(t, "abc123", artifacts.AccessToken)
	})

	t.Run("missing access token yields absence", func(t *testing.T) {
		tests := []string{
			"",
			"#",
			"#refresh_token=def456",
			"#error=access_denied&error_description=denied",
		}

		for _, fragment := range tests {
			artifacts, ok := ParseFragment(fragment)

			assert.False(t, ok, "fragment %q", fragment)
			assert.Nil(t, artifacts, "fragment %q", fragment)
		}
	})

	t.Run("malformed fragment yields absence not error", func(t *testing.T) {
		artifacts, ok := ParseFragment("#access_token=%zz&refresh_token=def456")

		assert.False(t, ok)
		assert.Nil(t, artifacts)
	})
}
