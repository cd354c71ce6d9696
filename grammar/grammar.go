// Package grammar parses language definition files: a small DSL that
// describes the comment, string and keyword rules of a language so the
// lexer can be taught new languages without recompiling.
//
//	language "toy" {
//	  extensions ".toy"
//	  line_comment "//"
//	  block_comment "/*" "*/"
//	  strings "\"" "'"
//	  keywords control "if" "else"
//	}
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type File struct {
	Pos         lexer.Position
	Definitions []*Definition `parser:"@@*"`
}

type Definition struct {
	Pos        lexer.Position
	EndPos     lexer.Position
	Name       *Value      `parser:"\"language\" @@ \"{\""`
	Properties []*Property `parser:"@@* \"}\""`
}

// Property is one setting inside a definition. Qualifier is only meaningful
// for keywords, where it names the category.
type Property struct {
	Pos       lexer.Position
	EndPos    lexer.Position
	Name      string   `parser:"@Ident"`
	Qualifier *Word    `parser:"@@?"`
	Values    []*Value `parser:"@@*"`
}

type Word struct {
	Pos  lexer.Position
	Text string `parser:"@Ident"`
}

type Value struct {
	Pos  lexer.Position
	Text string `parser:"@String"`
}

// Property names understood by Languages.
const (
	PropAliases         = "aliases"
	PropExtensions      = "extensions"
	PropLineComment     = "line_comment"
	PropBlockComment    = "block_comment"
	PropDocComment      = "doc_comment"
	PropStrings         = "strings"
	PropMultilineString = "multiline_string"
	PropInterpolation   = "interpolation"
	PropKeywords        = "keywords"
)

var properties = []string{
	PropAliases,
	PropExtensions,
	PropLineComment,
	PropBlockComment,
	PropDocComment,
	PropStrings,
	PropMultilineString,
	PropInterpolation,
	PropKeywords,
}

// repeatable properties accumulate values instead of replacing them
func repeatable(name string) bool {
	switch name {
	case PropAliases, PropExtensions, PropStrings, PropKeywords:
		return true
	}
	return false
}
