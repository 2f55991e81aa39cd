package extract

import (
	"strings"
	"unicode"
)

const maxTitleRunes = 80

// looksLikeTitle classifies a single line as a section heading. Headings
// are short, start with an uppercase letter or a numbering prefix, and do
// not end in sentence punctuation.
func looksLikeTitle(line string) bool {
	runes := []rune(line)
	if len(runes) == 0 || len(runes) > maxTitleRunes {
		return false
	}

	last := runes[len(runes)-1]
	if strings.ContainsRune(".,;!?", last) {
		return false
	}

	if hasNumberingPrefix(line) {
		return true
	}

	if !unicode.IsUpper(runes[0]) {
		return false
	}

	// Body fragments wrap at arbitrary points; a heading of more than a
	// few words is rare, and all-lowercase tails indicate flowing prose.
	words := strings.Fields(line)
	if len(words) > 8 {
		return false
	}
	upperish := 0
	for _, word := range words {
		r := []rune(word)[0]
		if unicode.IsUpper(r) || unicode.IsDigit(r) {
			upperish++
		}
	}
	return upperish*2 >= len(words)
}

// hasNumberingPrefix reports whether the line starts with a section
// number such as "3.", "2.1" or "4.1.2".
func hasNumberingPrefix(line string) bool {
	i := 0
	sawDigit := false
	for i < len(line) {
		c := line[i]
		if c >= '0' && c <= '9' {
			sawDigit = true
			i++
			continue
		}
		if c == '.' && sawDigit {
			i++
			continue
		}
		break
	}
	return sawDigit && i < len(line) && line[i] == ' ' && containsLetter(line[i:])
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
