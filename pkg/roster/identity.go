package roster

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und, cases.NoLower)

// Identity derives the stable unique key for a member from the display
// name: lowercased, whitespace runs collapsed to a single underscore,
// everything else non-alphanumeric stripped. The result is independent of
// transient row position, so it survives row reordering in the sheet.
func Identity(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastUnderscore := true // suppress a leading separator
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case unicode.IsSpace(r):
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "_")
}

// NormalizeName cleans up a human-entered display name: whitespace is
// collapsed, and names typed entirely in one case are title-cased.
// Mixed-case names are kept as typed so spellings like "McDonald" or
// "van der Berg" survive.
func NormalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}

	if name == strings.ToLower(name) || name == strings.ToUpper(name) {
		return titleCaser.String(strings.ToLower(name))
	}
	return name
}
