package language

import (
	"strings"

	"linelex/token"
)

// Language configures the lexer for one language. The zero value lexes
// identifiers, numbers and operators with no comments or strings.
type Language struct {
	Name       string
	Aliases    []string
	Extensions []string

	// Keywords maps keyword text to its category.
	Keywords map[string]token.Category

	LineComment string
	// BlockCommentStart and BlockCommentEnd are both set or both empty.
	BlockCommentStart string
	BlockCommentEnd   string
	// DocComment is a line doc prefix ("///") or, when it begins with
	// BlockCommentStart, a block doc opener ("/**").
	DocComment string

	// StringDelimiters holds the single-line string delimiters, a subset of
	// the characters " ' and `.
	StringDelimiters string
	// MultilineString opens and closes a string that may span lines.
	MultilineString string
	// Interpolation marks the start of an embedded expression inside a
	// string. It is recorded for consumers; the lexer does not descend into
	// interpolated expressions.
	Interpolation string
}

// HasBlockComments reports whether both block comment markers are set.
func (l *Language) HasBlockComments() bool {
	return l.BlockCommentStart != "" && l.BlockCommentEnd != ""
}

// BlockDocComment reports whether the doc comment prefix opens a block
// comment rather than a line comment.
func (l *Language) BlockDocComment() bool {
	return l.DocComment != "" && l.HasBlockComments() &&
		strings.HasPrefix(l.DocComment, l.BlockCommentStart)
}

// IsStringDelimiter reports whether c opens a single-line string.
func (l *Language) IsStringDelimiter(c byte) bool {
	if _, ok := token.StringState(c); !ok {
		return false
	}
	return strings.IndexByte(l.StringDelimiters, c) >= 0
}

// Keyword looks up the category of a keyword.
func (l *Language) Keyword(text string) (token.Category, bool) {
	c, ok := l.Keywords[text]
	return c, ok
}

// Interpolates reports whether a string token contains the interpolation
// marker.
func (l *Language) Interpolates(tok token.Token) bool {
	return l.Interpolation != "" &&
		tok.Category == token.String &&
		strings.Contains(tok.Text, l.Interpolation)
}

// Clone returns a deep copy of l.
func (l *Language) Clone() *Language {
	c := *l
	c.Aliases = append([]string(nil), l.Aliases...)
	c.Extensions = append([]string(nil), l.Extensions...)
	c.Keywords = make(map[string]token.Category, len(l.Keywords))
	for k, v := range l.Keywords {
		c.Keywords[k] = v
	}
	return &c
}

// keywords builds a keyword table from groups of words sharing a category.
func keywords(groups map[token.Category]string) map[string]token.Category {
	out := make(map[string]token.Category)
	for cat, words := range groups {
		for _, w := range strings.Fields(words) {
			out[w] = cat
		}
	}
	return out
}
