package errors

import (
	"fmt"
	"strings"
)

// Builder provides a fluent interface for creating diagnostics with suggestions
type Builder struct {
	d Diagnostic
}

// NewError creates a new error builder
func NewError(code, message string, pos Position) *Builder {
	return &Builder{d: Diagnostic{Level: Error, Code: code, Message: message, Position: pos, Length: 1}}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos Position) *Builder {
	return &Builder{d: Diagnostic{Level: Warning, Code: code, Message: message, Position: pos, Length: 1}}
}

// WithLength sets the length of the marked span
func (b *Builder) WithLength(length int) *Builder {
	b.d.Length = length
	return b
}

// WithSuggestion adds a suggestion
func (b *Builder) WithSuggestion(message string) *Builder {
	b.d.Suggestions = append(b.d.Suggestions, message)
	return b
}

// WithNote adds a note
func (b *Builder) WithNote(note string) *Builder {
	b.d.Notes = append(b.d.Notes, note)
	return b
}

// WithHelp sets the help text
func (b *Builder) WithHelp(help string) *Builder {
	b.d.HelpText = help
	return b
}

// Build returns the completed diagnostic
func (b *Builder) Build() Diagnostic {
	return b.d
}

// SyntaxError reports a parse failure
func SyntaxError(message string, pos Position) Diagnostic {
	return NewError(ErrorSyntax, message, pos).
		WithHelp(`a definition looks like: language "name" { line_comment "//" }`).
		Build()
}

// DuplicateLanguage reports a second definition of the same language
func DuplicateLanguage(name string, pos, first Position) Diagnostic {
	return NewError(ErrorDuplicateLanguage, fmt.Sprintf("language '%s' is defined more than once", name), pos).
		WithLength(len(name) + 2).
		WithNote(fmt.Sprintf("first defined at %s", first)).
		WithSuggestion("rename one of the definitions or merge them").
		Build()
}

// InvalidBlockComment reports a block_comment without exactly two markers
func InvalidBlockComment(count int, pos Position) Diagnostic {
	return NewError(ErrorInvalidBlockComment, fmt.Sprintf("block_comment takes 2 markers, got %d", count), pos).
		WithLength(len("block_comment")).
		WithSuggestion(`block_comment "/*" "*/"`).
		Build()
}

// InvalidDelimiter reports a string delimiter the lexer cannot use
func InvalidDelimiter(delim string, pos Position) Diagnostic {
	return NewError(ErrorInvalidDelimiter, fmt.Sprintf("invalid string delimiter %q", delim), pos).
		WithLength(len(delim) + 2).
		WithHelp("single-line strings are delimited by one of \", ' or `; use multiline_string for longer markers").
		Build()
}

// UnknownCategory reports a keyword group naming a category that does not
// exist, suggesting close matches
func UnknownCategory(name string, pos Position, known []string) Diagnostic {
	b := NewError(ErrorUnknownCategory, fmt.Sprintf("unknown keyword category '%s'", name), pos).
		WithLength(len(name))
	if similar := similarNames(name, known); len(similar) > 0 {
		b = b.WithSuggestion(didYouMean(similar))
	}
	return b.WithNote("available categories: " + strings.Join(known, ", ")).Build()
}

// EmptyValue reports a property with no usable value
func EmptyValue(property string, pos Position) Diagnostic {
	return NewError(ErrorEmptyValue, fmt.Sprintf("'%s' needs a non-empty value", property), pos).
		WithLength(len(property)).
		Build()
}

// DuplicateKeyword reports a keyword listed twice in one language
func DuplicateKeyword(word string, pos Position) Diagnostic {
	return NewError(ErrorDuplicateKeyword, fmt.Sprintf("keyword '%s' is listed more than once", word), pos).
		WithLength(len(word) + 2).
		WithSuggestion(fmt.Sprintf("remove the duplicate '%s'", word)).
		WithNote("each keyword belongs to exactly one category").
		Build()
}

// UnknownProperty reports a property the DSL does not define
func UnknownProperty(name string, pos Position, known []string) Diagnostic {
	b := NewError(ErrorUnknownProperty, fmt.Sprintf("unknown property '%s'", name), pos).
		WithLength(len(name))
	if similar := similarNames(name, known); len(similar) > 0 {
		b = b.WithSuggestion(didYouMean(similar))
	}
	return b.WithHelp("properties are: " + strings.Join(known, ", ")).Build()
}

// DuplicateExtension warns that an extension maps to two languages
func DuplicateExtension(ext, owner string, pos Position) Diagnostic {
	return NewWarning(WarningDuplicateExtension, fmt.Sprintf("extension '%s' is already used by '%s'", ext, owner), pos).
		WithLength(len(ext) + 2).
		WithNote("the language registered last wins").
		Build()
}

// RepeatedProperty warns that a single-valued property is set twice
func RepeatedProperty(name string, pos Position) Diagnostic {
	return NewWarning(WarningRepeatedProperty, fmt.Sprintf("'%s' is set more than once", name), pos).
		WithLength(len(name)).
		WithSuggestion("remove the earlier setting").
		Build()
}

func didYouMean(names []string) string {
	if len(names) == 1 {
		return fmt.Sprintf("did you mean '%s'?", names[0])
	}
	return fmt.Sprintf("did you mean one of: '%s'?", strings.Join(names, "', '"))
}

// similarNames returns the candidates within edit distance 2 of name
func similarNames(name string, candidates []string) []string {
	var out []string
	for _, c := range candidates {
		if levenshteinDistance(strings.ToLower(name), strings.ToLower(c)) <= 2 {
			out = append(out, c)
		}
	}
	return out
}

// Simple Levenshtein distance implementation for finding similar names
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}
	return matrix[len(a)][len(b)]
}
