// Package utils holds small helpers shared by commands and events.
package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	durationPart = regexp.MustCompile(`(\d+)([dhms])`)
	urlPattern   = regexp.MustCompile(`(?i)^https?://(www\.)?[-a-z0-9@:%._+~#=]{1,256}\.[a-z0-9()]{1,6}\b([-a-z0-9()@:%_+.~#?&/=]*)$`)
	hexPattern   = regexp.MustCompile(`(?i)^#?([0-9a-f]{6}|[0-9a-f]{3})$`)
	mentionChars = strings.NewReplacer("<", "", ">", "", "@", "", "!", "", "&", "", "#", "")
)

// ConvertTime renders a duration as "N days N hours N minutes", omitting
// zero units. Durations under a minute render as an empty string.
func ConvertTime(d time.Duration) string {
	days := int64(d / (24 * time.Hour))
	hours := int64(d % (24 * time.Hour) / time.Hour)
	minutes := int64(d % time.Hour / time.Minute)

	parts := make([]string, 0, 3)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%d days", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%d hours", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%d minutes", minutes))
	}
	return strings.Join(parts, " ")
}

// ParseDuration sums every "<n><unit>" token in s, e.g. "1d 3h 5m".
// Units are d, h, m and s; ok is false when no token is found.
func ParseDuration(s string) (d time.Duration, ok bool) {
	matches := durationPart.FindAllStringSubmatch(strings.ToLower(s), -1)
	if len(matches) == 0 {
		return 0, false
	}

	for _, m := range matches {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, false
		}
		switch m[2] {
		case "d":
			d += time.Duration(n) * 24 * time.Hour
		case "h":
			d += time.Duration(n) * time.Hour
		case "m":
			d += time.Duration(n) * time.Minute
		case "s":
			d += time.Duration(n) * time.Second
		}
	}
	return d, true
}

// IsValidURL reports whether s is an http(s) URL
func IsValidURL(s string) bool {
	return urlPattern.MatchString(strings.TrimSpace(s))
}

// IsValidColorHex accepts #RGB, #RRGGBB and the same without '#'
func IsValidColorHex(s string) bool {
	return hexPattern.MatchString(s)
}

// ParseMention extracts the id from a user, role or channel mention. Plain
// ids are returned unchanged; anything non-numeric yields "".
func ParseMention(s string) string {
	id := mentionChars.Replace(strings.TrimSpace(s))
	if id == "" {
		return ""
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return id
}

// DiscordTimestamp formats t as a Discord timestamp tag; style may be "" or
// one of t, T, d, D, f, F, R
func DiscordTimestamp(t time.Time, style string) string {
	if style == "" {
		return fmt.Sprintf("<t:%d>", t.Unix())
	}
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), style)
}

// Truncate shortens s to at most n runes, marking the cut with "..."
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
