package grammar

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"

	"linelex/internal/errors"
	"linelex/internal/language"
)

var parser = participle.MustBuild[File](
	participle.Lexer(DefinitionLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.Unquote("String"),
	participle.UseLookahead(2),
)

// ParseString parses a definition file held in memory. name is used in
// positions.
func ParseString(name, source string) (*File, error) {
	return parser.ParseString(name, source)
}

func ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseString(path, string(source))
}

// Check parses and validates source in one step. Parse failures come back
// as a single syntax diagnostic.
func Check(name, source string) ([]*language.Language, errors.Diagnostics) {
	file, err := ParseString(name, source)
	if err != nil {
		return nil, errors.Diagnostics{syntaxDiagnostic(err)}
	}
	return file.Languages()
}

func syntaxDiagnostic(err error) errors.Diagnostic {
	pe, ok := err.(participle.Error)
	if !ok {
		return errors.SyntaxError(err.Error(), errors.Position{Line: 1, Column: 1})
	}
	return errors.SyntaxError(pe.Message(), position(pe.Position()))
}
