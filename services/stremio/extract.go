package stremio

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	sizeRegex     = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?) ?(KB|MB|GB|TB)`)
	durationRegex = regexp.MustCompile(`\b(?:(\d+)h[: ]?(\d+)m[: ]?(\d+)s|(\d+)h[: ]?(\d+)m|(\d+)h|(\d+)m|(\d+)s)\b`)
	infoHashRegex = regexp.MustCompile(`(?i)[-/\[(;:&]([a-f0-9]{40})`)
	countryRegex  = regexp.MustCompile(`\b[A-Z]{2}\b`)
)

// Two-letter tokens that collide with release jargon (AC3, Dolby Vision,
// telesync, DTS-HD MA...) and must never be read as country codes.
var ambiguousCountryCodes = map[string]struct{}{
	"AC": {},
	"DV": {},
	"HD": {},
	"MA": {},
	"TC": {},
	"TS": {},
}

const (
	decimalBase = 1000
	binaryBase  = 1024
)

var sizeUnitExponent = map[string]float64{
	"KB": 1,
	"MB": 2,
	"GB": 3,
	"TB": 4,
}

// extractSizeBytes finds the first "<number> <unit>" token in text and
// converts it to bytes using the given base (1000 for sources that label
// decimal units, 1024 for binary). Returns 0 when no size is present, so
// callers must treat 0 as unknown rather than a zero-byte file.
func extractSizeBytes(text string, base float64) int64 {
	match := sizeRegex.FindStringSubmatch(text)
	if len(match) != 3 {
		return 0
	}
	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	exp, ok := sizeUnitExponent[strings.ToUpper(match[2])]
	if !ok {
		return 0
	}
	return int64(value * math.Pow(base, exp))
}

// extractDurationMS matches hour/minute/second tokens ("1h30m", "2h:05m:30s",
// "45s") and returns the duration in milliseconds, 0 when absent.
func extractDurationMS(text string) int64 {
	match := durationRegex.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	var hours, minutes, seconds int64
	switch {
	case match[1] != "":
		hours = parseInt64(match[1])
		minutes = parseInt64(match[2])
		seconds = parseInt64(match[3])
	case match[4] != "":
		hours = parseInt64(match[4])
		minutes = parseInt64(match[5])
	case match[6] != "":
		hours = parseInt64(match[6])
	case match[7] != "":
		minutes = parseInt64(match[7])
	case match[8] != "":
		seconds = parseInt64(match[8])
	}
	return (hours*3600 + minutes*60 + seconds) * 1000
}

func parseInt64(value string) int64 {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// extractAfterMarker returns the trimmed substring following the first
// occurrence of any opening marker, cut at the next emoji rune, newline,
// explicit closing marker, or end of string.
func extractAfterMarker(text string, openers []string, closers ...string) string {
	firstIdx, start := -1, -1
	for _, marker := range openers {
		idx := strings.Index(text, marker)
		if idx < 0 {
			continue
		}
		if firstIdx < 0 || idx < firstIdx {
			firstIdx = idx
			start = idx + len(marker)
		}
	}
	if start < 0 {
		return ""
	}

	rest := text[start:]
	end := len(rest)
	for i, r := range rest {
		if r == '\n' || isEmojiRune(r) {
			end = i
			break
		}
	}
	for _, closer := range closers {
		if idx := strings.Index(rest, closer); idx >= 0 && idx < end {
			end = idx
		}
	}
	// Markers like ⚙️ end in a variation selector that survives the cut.
	return strings.TrimSpace(strings.Trim(rest[:end], "️"))
}

// isEmojiRune reports whether r renders as an emoji-like symbol. Symbol/other
// covers the emoji blocks plus the regional-indicator pairs used for flags.
func isEmojiRune(r rune) bool {
	return unicode.Is(unicode.So, r)
}

func isRegionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}

// extractFlags returns the distinct regional-indicator flag sequences in
// text, in order of first appearance.
func extractFlags(text string) []string {
	var flags []string
	seen := make(map[string]struct{})
	runes := []rune(text)
	for i := 0; i+1 < len(runes); i++ {
		if !isRegionalIndicator(runes[i]) || !isRegionalIndicator(runes[i+1]) {
			continue
		}
		flag := string(runes[i : i+2])
		if _, dup := seen[flag]; !dup {
			seen[flag] = struct{}{}
			flags = append(flags, flag)
		}
		i++
	}
	return flags
}

// extractCountryCodes returns the distinct two-letter uppercase tokens in
// text, excluding codes that collide with release jargon.
func extractCountryCodes(text string) []string {
	var codes []string
	seen := make(map[string]struct{})
	for _, code := range countryRegex.FindAllString(text, -1) {
		if _, ambiguous := ambiguousCountryCodes[code]; ambiguous {
			continue
		}
		if _, dup := seen[code]; !dup {
			seen[code] = struct{}{}
			codes = append(codes, code)
		}
	}
	return codes
}

// extractInfoHash recovers a 40-hex-character token bounded by a URL
// delimiter. The match is case-insensitive and returned case-preserved.
func extractInfoHash(rawURL string) string {
	match := infoHashRegex.FindStringSubmatch(rawURL)
	if len(match) != 2 {
		return ""
	}
	return match[1]
}

// coerceInt64 converts the loosely typed numeric values addons emit (JSON
// numbers, integers, numeric strings) to an int64, 0 when unusable.
func coerceInt64(src interface{}) int64 {
	switch v := src.(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case json.Number:
		if parsed, err := v.Int64(); err == nil {
			return parsed
		}
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			if parsed, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
				return parsed
			}
			if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
				return int64(parsed)
			}
		}
	}
	return 0
}

// coerceInt is coerceInt64 with an explicit presence flag, for fields where
// zero is a legal value.
func coerceInt(src interface{}) (int, bool) {
	switch v := src.(type) {
	case float64:
		return int(v), true
	case int64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		if parsed, err := v.Int64(); err == nil {
			return int(parsed), true
		}
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			if parsed, err := strconv.Atoi(trimmed); err == nil {
				return parsed, true
			}
		}
	}
	return 0, false
}
