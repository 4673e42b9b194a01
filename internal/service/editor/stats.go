package editor

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockBoundaries end a word even when no whitespace separates the text
// on either side ("<p>one</p><p>two</p>" is two words).
var blockBoundaries = map[atom.Atom]bool{
	atom.Br: true, atom.P: true, atom.Div: true, atom.Li: true,
	atom.Ul: true, atom.Ol: true, atom.Tr: true, atom.Td: true, atom.Th: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Hr: true,
}

// countWords counts words in canonical content. Markup is ignored and
// inline tags do not split words. Runs made only of punctuation (markdown
// markers such as "#" or "-") are not words.
func countWords(content string) int {
	z := html.NewTokenizer(strings.NewReader(content))

	count := 0
	var word strings.Builder
	flush := func() {
		if strings.IndexFunc(word.String(), isWordRune) >= 0 {
			count++
		}
		word.Reset()
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			flush()
			return count
		case html.TextToken:
			for _, r := range string(z.Text()) {
				if unicode.IsSpace(r) {
					flush()
					continue
				}
				word.WriteRune(r)
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockBoundaries[atom.Lookup(name)] {
				flush()
			}
		}
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// hasMarkup reports whether content contains at least one known HTML tag.
// Markdown and plain text sources do not.
func hasMarkup(content string) bool {
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return false
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) != 0 {
				return true
			}
		}
	}
}
