package id

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nanoidPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{21}$`)

func TestGenerate_PrefixesPerEntity(t *testing.T) {
	prefixes := map[string]string{
		"owner":      PrefixOwner,
		"category":   PrefixCategory,
		"item":       PrefixItem,
		"assignment": PrefixAssignment,
		"review":     PrefixReview,
		"token":      PrefixToken,
	}

	for entity, prefix := range prefixes {
		t.Run(entity, func(t *testing.T) {
			got, err := Generate(prefix)
			require.NoError(t, err)

			head, tail, ok := cutPrefix(got, prefix)
			require.True(t, ok, "id %q lacks prefix %q", got, prefix)
			assert.Equal(t, prefix, head)
			assert.Regexp(t, nanoidPattern, tail)
		})
	}
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 500)
	for range 500 {
		got, err := Generate(PrefixAssignment)
		require.NoError(t, err)
		_, dup := seen[got]
		require.False(t, dup, "duplicate id %s", got)
		seen[got] = struct{}{}
	}
}

func TestMustGenerate(t *testing.T) {
	got := MustGenerate(PrefixReview)

	_, tail, ok := cutPrefix(got, PrefixReview)
	require.True(t, ok)
	assert.Regexp(t, nanoidPattern, tail)
	assert.NotEqual(t, got, MustGenerate(PrefixReview))
}

// cutPrefix splits "prefix-rest" into its parts.
func cutPrefix(s, prefix string) (head, tail string, ok bool) {
	if len(s) <= len(prefix)+1 || s[:len(prefix)] != prefix || s[len(prefix)] != '-' {
		return "", "", false
	}
	return prefix, s[len(prefix)+1:], true
}
