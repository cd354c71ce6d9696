// Package token SPDX-License-Identifier: Apache-2.0
package token

import "strings"

// Category classifies a span of source text.
type Category int

const (
	Unknown Category = iota

	// Keywords
	Keyword
	KeywordDeclaration
	KeywordControl
	KeywordModifier

	// Names
	Identifier
	Function
	Type

	// Literals
	String
	Number
	Boolean
	Null

	// Comments
	Comment
	DocComment

	// Symbols
	Operator
	Punctuation
	Delimiter

	// Markers
	Preprocessor
	Annotation
)

var categoryNames = []string{
	Unknown:            "unknown",
	Keyword:            "keyword",
	KeywordDeclaration: "keyword.declaration",
	KeywordControl:     "keyword.control",
	KeywordModifier:    "keyword.modifier",
	Identifier:         "identifier",
	Function:           "function",
	Type:               "type",
	String:             "string",
	Number:             "number",
	Boolean:            "boolean",
	Null:               "null",
	Comment:            "comment",
	DocComment:         "comment.doc",
	Operator:           "operator",
	Punctuation:        "punctuation",
	Delimiter:          "delimiter",
	Preprocessor:       "preprocessor",
	Annotation:         "annotation",
}

func (c Category) String() string {
	if c >= 0 && int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// IsKeyword reports whether c is the plain keyword category or one of its
// subdivisions.
func (c Category) IsKeyword() bool {
	return c >= Keyword && c <= KeywordModifier
}

// IsComment reports whether c is a comment of any kind.
func (c Category) IsComment() bool {
	return c == Comment || c == DocComment
}

// ParseCategory maps a category name back to its value. Both the full name
// ("keyword.control") and the last segment ("control") are accepted.
func ParseCategory(name string) (Category, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range categoryNames {
		if n == name {
			return Category(i), true
		}
	}
	for i, n := range categoryNames {
		if idx := strings.LastIndexByte(n, '.'); idx >= 0 && n[idx+1:] == name {
			return Category(i), true
		}
	}
	return Unknown, false
}

// MarshalText lets categories appear by name in JSON and YAML dumps.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Token is a classified span of a single line. Tokens are values: an edit
// produces new tokens, it never mutates existing ones.
type Token struct {
	Category Category  `json:"category" yaml:"category"`
	Text     string    `json:"text" yaml:"text"`
	Range    TextRange `json:"range" yaml:"range"`
	// State is the lexer state in effect immediately after the token.
	State State `json:"state" yaml:"state"`
}

// Len returns the byte length of the token.
func (t Token) Len() int {
	return t.Range.End.Offset - t.Range.Start.Offset
}

// Line returns the line the token starts on.
func (t Token) Line() int {
	return t.Range.Start.Line
}

// Shifted returns a copy of t moved by lineDelta lines and offsetDelta
// bytes. Columns are unaffected.
func (t Token) Shifted(lineDelta, offsetDelta int) Token {
	t.Range = t.Range.Shift(lineDelta, offsetDelta)
	return t
}

// Categories lists every category except Unknown in declaration order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryNames)-1)
	for i := range categoryNames[1:] {
		out = append(out, Category(i+1))
	}
	return out
}

// ShortName returns the last segment of the category name ("control" for
// keyword.control).
func (c Category) ShortName() string {
	n := c.String()
	if idx := strings.LastIndexByte(n, '.'); idx >= 0 {
		return n[idx+1:]
	}
	return n
}
