package seed

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	minUsernameLen = 5
	maxUsernameLen = 15
)

// stripDiacritics removes combining marks: "Muñoz" -> "Munoz".
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// fold lowercases s after stripping diacritics.
func fold(s string) string {
	return cases.Lower(language.Und).String(stripDiacritics(s))
}

// buildUsername derives "first.last<suffix>" and clamps it to 5..15 runes.
// The base is shortened before the suffix is appended so that two users with
// the same long name parts still differ.
func buildUsername(first, last string, suffix int) string {
	base := fold(first) + "." + fold(last)
	sfx := strconv.Itoa(suffix)

	if room := max(0, maxUsernameLen-utf8.RuneCountInString(sfx)); utf8.RuneCountInString(base) > room {
		base = string([]rune(base)[:room])
	}
	name := base + sfx
	if utf8.RuneCountInString(name) < minUsernameLen {
		name += "user"
	}
	if utf8.RuneCountInString(name) > maxUsernameLen {
		name = string([]rune(name)[:maxUsernameLen])
	}
	return name
}
