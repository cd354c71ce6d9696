package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var DefinitionLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Comment", Pattern: `//[^\n]*`},

		// Quoted values; escapes follow Go string syntax
		{Name: "String", Pattern: `"(\\.|[^"\\\n])*"`},

		// Property names and keyword categories (keyword.control)
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},

		{Name: "Punctuation", Pattern: `[{}]`},

		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	},
})
