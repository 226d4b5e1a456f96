// Package chrono normalizes the heterogeneous timestamp strings found in
// scraped feed markup (epoch values, relative times like "3 hrs", full
// dates, the literal "now") into epoch seconds.
package chrono

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// epoch values above this are interpreted as milliseconds
const millisThreshold = 10_000_000_000

var epochRegex = regexp.MustCompile(`^\d{9,12}$`)

var relativeRegex = regexp.MustCompile(
	`(\d+)\s*(s|sec|secs|second|seconds|m|min|mins|minute|minutes|h|hr|hrs|hour|hours|d|day|days|w|week|weeks)`,
)

// Normalize resolves raw into epoch seconds, ok is false when no strategy
// matched. It never panics or errors regardless of input.
func Normalize(raw string) (int64, bool) {
	return NormalizeAt(raw, time.Now().UTC())
}

// NormalizeAt is Normalize with an explicit clock, used by relative-time
// resolution and the "now" keyword.
//
// The strategies are tried in order, first success wins:
//  1. the keyword "now"
//  2. a 9-12 digit string taken as a unix epoch (ms above 10_000_000_000)
//  3. a relative-time token like "3 hrs" or "2w" anywhere in the string
//  4. general date parsing, UTC assumed when no offset is present
func NormalizeAt(raw string, now time.Time) (int64, bool) {
	if raw == "" {
		return 0, false
	}

	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return 0, false
	}

	if text == "now" {
		return now.Unix(), true
	}

	if epochRegex.MatchString(text) {
		ts, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			if ts > millisThreshold {
				ts = ts / 1000
			}
			return ts, true
		}
	}

	if ts, ok := resolveRelative(text, now); ok {
		return ts, true
	}

	return resolveAbsolute(raw)
}

func resolveRelative(text string, now time.Time) (int64, bool) {
	match := relativeRegex.FindStringSubmatch(text)
	if len(match) < 3 {
		return 0, false
	}

	amount, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}

	var delta time.Duration
	switch match[2][0] {
	case 's':
		delta = time.Duration(amount) * time.Second
	case 'm':
		delta = time.Duration(amount) * time.Minute
	case 'h':
		delta = time.Duration(amount) * time.Hour
	case 'd':
		delta = time.Duration(amount) * 24 * time.Hour
	case 'w':
		delta = time.Duration(amount) * 7 * 24 * time.Hour
	default:
		return 0, false
	}

	return now.UTC().Add(-delta).Unix(), true
}

func resolveAbsolute(raw string) (ts int64, ok bool) {
	// dateparse can panic on some malformed inputs, this function
	// must not
	defer func() {
		if r := recover(); r != nil {
			ts = 0
			ok = false
		}
	}()

	parsed, err := dateparse.ParseIn(strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return 0, false
	}
	unix := parsed.Unix()
	if unix == math.MinInt64 {
		return 0, false
	}
	return unix, true
}
