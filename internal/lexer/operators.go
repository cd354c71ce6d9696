package lexer

import (
	"strings"

	"linelex/token"
)

// Multi-character operators, tried longest first.
var (
	operators3 = []string{
		"===", "!==", "...", "<<=", ">>=", "**=", "??=", "&&=", "||=", ">>>", "<=>",
	}
	operators2 = []string{
		"==", "!=", "<=", ">=", "&&", "||", "++", "--", "+=", "-=", "*=", "/=",
		"%=", "&=", "|=", "^=", "<<", ">>", "->", "=>", "::", "**", "??", "?.",
		":=", "..",
	}
)

const (
	operatorChars    = "+-*/%=<>!&|^~?"
	punctuationChars = ".,;:"
	delimiterChars   = "()[]{}"
)

// matchOperator returns the length of the longest multi-character operator
// at the start of s, or 0.
func matchOperator(s string) int {
	if len(s) >= 3 {
		for _, op := range operators3 {
			if strings.HasPrefix(s, op) {
				return 3
			}
		}
	}
	if len(s) >= 2 {
		for _, op := range operators2 {
			if strings.HasPrefix(s, op) {
				return 2
			}
		}
	}
	return 0
}

// symbolCategory classifies a single ASCII character.
func symbolCategory(c byte) token.Category {
	switch {
	case strings.IndexByte(operatorChars, c) >= 0:
		return token.Operator
	case strings.IndexByte(punctuationChars, c) >= 0:
		return token.Punctuation
	case strings.IndexByte(delimiterChars, c) >= 0:
		return token.Delimiter
	}
	return token.Unknown
}

var (
	booleans = map[string]bool{"true": true, "false": true, "True": true, "False": true}
	nulls    = map[string]bool{"null": true, "nil": true, "None": true, "NULL": true, "undefined": true}
)
