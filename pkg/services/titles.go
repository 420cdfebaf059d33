package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleFromFilename derives an image title from its file name.
// For example: "my_cool_sketch_02.png" becomes "My Cool Sketch 02"
func TitleFromFilename(filename string) string {
	name := filename
	if i := strings.LastIndex(name, "."); i != -1 {
		name = name[:i]
	}
	name = strings.ReplaceAll(name, "_", " ")
	return TitleCase(strings.TrimSpace(name))
}

// TitleFromFolder derives a category title from its directory name
func TitleFromFolder(folder string) string {
	return TitleCase(strings.ReplaceAll(folder, "_", " "))
}

// TitleCase upper-cases the first letter of every whitespace separated word
// and lower-cases the rest. Whitespace is kept as is.
func TitleCase(s string) string {
	upper := cases.Upper(language.Und)
	lower := cases.Lower(language.Und)

	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if unicode.IsSpace(r) {
			b.WriteString(s[:size])
			s = s[size:]
			continue
		}

		end := strings.IndexFunc(s, unicode.IsSpace)
		if end == -1 {
			end = len(s)
		}
		word := s[:end]
		first := strings.IndexFunc(word, unicode.IsLetter)
		if first == -1 {
			b.WriteString(lower.String(word))
		} else {
			_, n := utf8.DecodeRuneInString(word[first:])
			b.WriteString(lower.String(word[:first]))
			b.WriteString(upper.String(word[first : first+n]))
			b.WriteString(lower.String(word[first+n:]))
		}
		s = s[end:]
	}
	return b.String()
}
