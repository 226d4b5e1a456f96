package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

func TestNormalizeRelative(t *testing.T) {
	testCases := []struct {
		raw   string
		delta time.Duration
	}{
		{raw: "30s", delta: 30 * time.Second},
		{raw: "45 secs", delta: 45 * time.Second},
		{raw: "1 second", delta: time.Second},
		{raw: "2m", delta: 2 * time.Minute},
		{raw: "15 mins", delta: 15 * time.Minute},
		{raw: "3 minutes", delta: 3 * time.Minute},
		{raw: "2 h", delta: 2 * time.Hour},
		{raw: "3 hrs", delta: 3 * time.Hour},
		{raw: "12 hours", delta: 12 * time.Hour},
		{raw: "5 d", delta: 5 * 24 * time.Hour},
		{raw: "2 days", delta: 2 * 24 * time.Hour},
		{raw: "1 w", delta: 7 * 24 * time.Hour},
		{raw: "3 weeks", delta: 3 * 7 * 24 * time.Hour},
		{raw: "posted 4 hrs ago", delta: 4 * time.Hour},
	}

	for _, test := range testCases {
		ts, ok := NormalizeAt(test.raw, testNow)
		require.True(t, ok, test.raw)
		require.Equal(t, testNow.Add(-test.delta).Unix(), ts, test.raw)
	}
}

func TestNormalizeEpoch(t *testing.T) {
	testCases := []struct {
		raw      string
		expected int64
	}{
		{raw: "1715352299", expected: 1715352299},
		{raw: "999999999", expected: 999999999},
		// values above 10_000_000_000 are milliseconds
		{raw: "171535229900", expected: 171535229},
		{raw: " 1715352299 ", expected: 1715352299},
	}

	for _, test := range testCases {
		ts, ok := NormalizeAt(test.raw, testNow)
		require.True(t, ok, test.raw)
		require.Equal(t, test.expected, ts, test.raw)
	}
}

func TestNormalizeNow(t *testing.T) {
	before := time.Now().Unix()
	ts, ok := Normalize("now")
	after := time.Now().Unix()

	require.True(t, ok)
	require.GreaterOrEqual(t, ts, before)
	require.LessOrEqual(t, ts, after)

	ts, ok = NormalizeAt("  NOW  ", testNow)
	require.True(t, ok)
	require.Equal(t, testNow.Unix(), ts)
}

func TestNormalizeAbsolute(t *testing.T) {
	testCases := []struct {
		raw      string
		expected int64
	}{
		// no offset means utc
		{raw: "2024-05-10T15:24:59Z", expected: 1715354699},
		{raw: "2024-05-10 15:24:59", expected: 1715354699},
		{raw: "August 15, 2024", expected: 1723680000},
	}

	for _, test := range testCases {
		ts, ok := NormalizeAt(test.raw, testNow)
		require.True(t, ok, test.raw)
		require.Equal(t, test.expected, ts, test.raw)
	}
}

func TestNormalizeUnresolved(t *testing.T) {
	for _, raw := range []string{"", "   ", "no dates here", "???"} {
		ts, ok := NormalizeAt(raw, testNow)
		require.False(t, ok, raw)
		require.Equal(t, int64(0), ts, raw)
	}
}
