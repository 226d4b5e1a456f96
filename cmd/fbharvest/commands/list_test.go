package commands

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "exact", truncate("exact", 5))
	require.Equal(t, "abc...", truncate("abcdef", 3))

	// multi-byte text must not be cut mid-rune
	cut := truncate(strings.Repeat("é", 10), 4)
	require.Equal(t, "éééé...", cut)
	require.True(t, utf8.ValidString(cut))
}
