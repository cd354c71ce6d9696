package token

// State is the lexer's carry-over context at a position in the document.
// Exactly one state is current at any lexing position.
type State uint8

const (
	Normal State = iota
	// InLineComment is transient; it always resolves to Normal by the end of
	// the line.
	InLineComment
	InBlockComment
	InDocComment
	InStringDouble
	InStringSingle
	InStringTemplate
	InMultilineString
)

var stateNames = [...]string{
	Normal:            "normal",
	InLineComment:     "line-comment",
	InBlockComment:    "block-comment",
	InDocComment:      "doc-comment",
	InStringDouble:    "string-double",
	InStringSingle:    "string-single",
	InStringTemplate:  "string-template",
	InMultilineString: "multiline-string",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "invalid"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Multiline reports whether s belongs to a construct designed to span line
// boundaries: block comments, doc comments and multi-line strings.
func (s State) Multiline() bool {
	switch s {
	case InBlockComment, InDocComment, InMultilineString:
		return true
	}
	return false
}

// Carries reports whether s survives the end of a line. Besides the
// multi-line constructs this includes unterminated single-line strings,
// which resume on the next line.
func (s State) Carries() bool {
	return s != Normal && s != InLineComment
}

// IsString reports whether s is inside any kind of string literal.
func (s State) IsString() bool {
	switch s {
	case InStringDouble, InStringSingle, InStringTemplate, InMultilineString:
		return true
	}
	return false
}

// StringState returns the continuation state for a single-line string that
// opened with delim. ok is false for characters that are not string
// delimiters.
func StringState(delim byte) (s State, ok bool) {
	switch delim {
	case '"':
		return InStringDouble, true
	case '\'':
		return InStringSingle, true
	case '`':
		return InStringTemplate, true
	}
	return Normal, false
}

// Delimiter is the inverse of StringState.
func (s State) Delimiter() byte {
	switch s {
	case InStringDouble:
		return '"'
	case InStringSingle:
		return '\''
	case InStringTemplate:
		return '`'
	}
	return 0
}
