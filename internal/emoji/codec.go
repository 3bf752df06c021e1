// Package emoji repairs the byte-per-escape text encoding used by chat
// exports and pulls emoji out of message text.
//
// Exports write every UTF-8 byte of a multi-byte character as its own
// \u00XX escape, so "❤" is stored as "\u00e2\u009d\u00a4". After JSON
// parsing that is three Latin-1 runes; reading them back as bytes gives
// the original UTF-8. The repair is best effort: any input that does not
// form a valid byte stream is returned untouched.
package emoji

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	escapePattern       = regexp.MustCompile(`(?i)\\u[0-9a-f]{4}`)
	tripleEscapePattern = regexp.MustCompile(`(?i)\\u[0-9a-f]{4}\\u[0-9a-f]{4}\\u[0-9a-f]{4}`)
)

type runeRange struct {
	lo, hi rune
}

var emojiRanges = []runeRange{
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F300, 0x1F5FF}, // symbols & pictographs
	{0x1F680, 0x1F6FF}, // transport & map
	{0x1F1E0, 0x1F1FF}, // regional indicators
	{0x2600, 0x26FF},   // misc symbols
	{0x2700, 0x27BF},   // dingbats
}

// Decode turns literal \uXXXX escapes into single code units, then reads
// the result as a UTF-8 byte stream. It never fails; undecodable input is
// returned as given.
func Decode(text string) string {
	if text == "" {
		return text
	}

	unescaped := escapePattern.ReplaceAllStringFunc(text, func(match string) string {
		code, err := strconv.ParseUint(match[2:], 16, 32)
		if err != nil {
			return match
		}
		return string(rune(code))
	})

	buf := make([]byte, 0, len(unescaped))
	for _, r := range unescaped {
		if r > 0xFF {
			// already real text, not a byte stream
			return text
		}
		buf = append(buf, byte(r))
	}

	if !utf8.Valid(buf) {
		return text
	}
	return string(buf)
}

// IsEmoji reports whether r falls in one of the counted emoji blocks.
func IsEmoji(r rune) bool {
	for _, rr := range emojiRanges {
		if r >= rr.lo && r <= rr.hi {
			return true
		}
	}
	return false
}

// Extract returns every emoji code point in already decoded text, in order.
func Extract(text string) []string {
	var found []string
	for _, r := range text {
		if IsEmoji(r) {
			found = append(found, string(r))
		}
	}
	return found
}

// ExtractEscaped finds three-escape runs in undecoded text, decodes each
// on its own and keeps the ones that decode to something containing an emoji.
func ExtractEscaped(raw string) []string {
	if !strings.Contains(raw, `\u`) && !strings.Contains(raw, `\U`) {
		return nil
	}

	var found []string
	for _, match := range tripleEscapePattern.FindAllString(raw, -1) {
		decoded := Decode(match)
		if strings.IndexFunc(decoded, IsEmoji) >= 0 {
			found = append(found, decoded)
		}
	}
	return found
}
