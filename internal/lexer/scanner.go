// Package lexer turns single lines of source into classified tokens.
//
// The scanner is a state machine over token.State. A line is lexed from the
// state left by the previous line and reports the state it ends in, so any
// line can be re-lexed in isolation and produce exactly what a full pass
// over the document would.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"linelex/internal/language"
	"linelex/token"
)

// Scanner lexes lines for one language. It holds no per-call state and is
// safe for concurrent use.
type Scanner struct {
	lang *language.Language
}

// New returns a scanner for lang. A nil lang selects the generic profile.
func New(lang *language.Language) *Scanner {
	if lang == nil {
		lang = language.Generic()
	}
	return &Scanner{lang: lang}
}

// Language returns the profile the scanner lexes.
func (s *Scanner) Language() *language.Language {
	return s.lang
}

// ScanLine lexes one line of text without its terminating newline. line and
// offset locate the line in the document; start is the state the previous
// line ended in. It never fails: unterminated constructs become the
// returned end state.
func (s *Scanner) ScanLine(text string, line, offset int, start token.State) ([]token.Token, token.State) {
	ls := &lineScanner{
		lang:   s.lang,
		src:    text,
		line:   line,
		offset: offset,
		state:  start,
	}
	ls.scan()
	return ls.tokens, ls.state
}

// ScanDocument lexes a whole document from the Normal state.
func (s *Scanner) ScanDocument(src string) []token.Token {
	var (
		tokens []token.Token
		state  = token.Normal
		offset int
	)
	for i, text := range Lines(src) {
		var toks []token.Token
		toks, state = s.ScanLine(text, i, offset, state)
		tokens = append(tokens, toks...)
		offset += len(text) + 1
	}
	return tokens
}

// Lines splits a document on '\n'. A document always has at least one line.
func Lines(src string) []string {
	return strings.Split(src, "\n")
}

type lineScanner struct {
	lang    *language.Language
	src     string
	line    int
	offset  int
	start   int
	current int
	state   token.State
	tokens  []token.Token
}

func (s *lineScanner) scan() {
	switch s.state {
	case token.InBlockComment:
		s.continueBlockComment(token.Comment)
	case token.InDocComment:
		s.continueBlockComment(token.DocComment)
	case token.InStringDouble, token.InStringSingle, token.InStringTemplate:
		s.scanString(s.state.Delimiter())
	case token.InMultilineString:
		s.continueMultilineString()
	default:
		s.state = token.Normal
	}
	for s.state == token.Normal && !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}
}

func (s *lineScanner) scanToken() {
	c := s.peek()
	lang := s.lang
	rest := s.src[s.current:]

	switch {
	case isSpace(c):
		s.current++
	case lang.DocComment != "" && strings.HasPrefix(rest, lang.DocComment):
		if lang.BlockDocComment() {
			s.scanBlockComment(token.DocComment)
		} else {
			s.scanLineComment(token.DocComment)
		}
	case lang.LineComment != "" && strings.HasPrefix(rest, lang.LineComment):
		s.scanLineComment(token.Comment)
	case lang.HasBlockComments() && strings.HasPrefix(rest, lang.BlockCommentStart):
		s.scanBlockComment(token.Comment)
	case lang.MultilineString != "" && strings.HasPrefix(rest, lang.MultilineString):
		s.scanMultilineString()
	case lang.IsStringDelimiter(c):
		s.current++
		s.scanString(c)
	case isDigit(c) || (c == '.' && isDigit(s.peekAt(1))):
		s.scanNumber()
	case s.identifierStart():
		s.scanIdentifier()
	default:
		s.scanSymbol()
	}
}

func (s *lineScanner) scanLineComment(cat token.Category) {
	s.current = len(s.src)
	s.addToken(cat, token.Normal)
}

func (s *lineScanner) scanBlockComment(cat token.Category) {
	lang := s.lang
	s.current += len(lang.BlockCommentStart)
	idx := strings.Index(s.src[s.current:], lang.BlockCommentEnd)
	if idx < 0 {
		s.current = len(s.src)
		s.state = commentState(cat)
		s.addToken(cat, s.state)
		return
	}
	// "/**/" closes before the doc prefix is complete.
	if cat == token.DocComment && s.current+idx < s.start+len(lang.DocComment) {
		cat = token.Comment
	}
	s.current += idx + len(lang.BlockCommentEnd)
	s.addToken(cat, token.Normal)
}

func (s *lineScanner) continueBlockComment(cat token.Category) {
	if !s.lang.HasBlockComments() {
		s.state = token.Normal
		return
	}
	s.start = s.current
	idx := strings.Index(s.src[s.current:], s.lang.BlockCommentEnd)
	if idx < 0 {
		s.current = len(s.src)
		s.addToken(cat, s.state)
		return
	}
	s.current += idx + len(s.lang.BlockCommentEnd)
	s.state = token.Normal
	s.addToken(cat, token.Normal)
}

func commentState(cat token.Category) token.State {
	if cat == token.DocComment {
		return token.InDocComment
	}
	return token.InBlockComment
}

// scanString consumes a single-line string body up to and including the
// closing delim. The opening delimiter, if any, is already consumed.
func (s *lineScanner) scanString(delim byte) {
	for !s.isAtEnd() {
		c := s.src[s.current]
		switch {
		case c == '\\':
			s.current++
			if !s.isAtEnd() {
				s.current++
			}
		case c == delim:
			s.current++
			s.state = token.Normal
			s.addToken(token.String, token.Normal)
			return
		default:
			s.current++
		}
	}
	s.state, _ = token.StringState(delim)
	s.addToken(token.String, s.state)
}

func (s *lineScanner) scanMultilineString() {
	s.current += len(s.lang.MultilineString)
	s.finishMultilineString()
}

func (s *lineScanner) continueMultilineString() {
	if s.lang.MultilineString == "" {
		s.state = token.Normal
		return
	}
	s.finishMultilineString()
}

func (s *lineScanner) finishMultilineString() {
	delim := s.lang.MultilineString
	idx := strings.Index(s.src[s.current:], delim)
	if idx < 0 {
		s.current = len(s.src)
		s.state = token.InMultilineString
		s.addToken(token.String, s.state)
		return
	}
	s.current += idx + len(delim)
	s.state = token.Normal
	s.addToken(token.String, token.Normal)
}

func (s *lineScanner) scanNumber() {
	if s.peek() == '0' && (s.peekAt(1) == 'x' || s.peekAt(1) == 'X') {
		s.current += 2
		for isHexDigit(s.peek()) {
			s.current++
		}
		s.addToken(token.Number, token.Normal)
		return
	}

	seenDot := false
	if s.peek() == '.' {
		seenDot = true
		s.current++
	}
	s.digits()
	if !seenDot && s.peek() == '.' && isDigit(s.peekAt(1)) {
		s.current++
		s.digits()
	}
	if c := s.peek(); c == 'e' || c == 'E' {
		j := 1
		if sign := s.peekAt(1); sign == '+' || sign == '-' {
			j++
		}
		if isDigit(s.peekAt(j)) {
			s.current += j
			s.digits()
		}
	}
	s.addToken(token.Number, token.Normal)
}

func (s *lineScanner) digits() {
	for c := s.peek(); isDigit(c) || c == '_'; c = s.peek() {
		s.current++
	}
}

func (s *lineScanner) identifierStart() bool {
	c := s.peek()
	if c == '@' || c == '#' {
		r, _ := utf8.DecodeRuneInString(s.src[s.current+1:])
		return isIdentStart(r)
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.current:])
	return isIdentStart(r)
}

func (s *lineScanner) scanIdentifier() {
	marker := s.peek()
	if marker == '@' || marker == '#' {
		s.current++
	} else {
		marker = 0
	}
	for !s.isAtEnd() {
		r, size := utf8.DecodeRuneInString(s.src[s.current:])
		if !isIdentStart(r) && !unicode.IsDigit(r) {
			break
		}
		s.current += size
	}
	s.addToken(s.classify(marker, s.src[s.start:s.current]), token.Normal)
}

func (s *lineScanner) classify(marker byte, text string) token.Category {
	switch marker {
	case '@':
		return token.Annotation
	case '#':
		return token.Preprocessor
	}
	if cat, ok := s.lang.Keyword(text); ok {
		return cat
	}
	if booleans[text] {
		return token.Boolean
	}
	if nulls[text] {
		return token.Null
	}
	if r, _ := utf8.DecodeRuneInString(text); unicode.IsUpper(r) {
		return token.Type
	}
	if s.peek() == '(' {
		return token.Function
	}
	return token.Identifier
}

func (s *lineScanner) scanSymbol() {
	if n := matchOperator(s.src[s.current:]); n > 0 {
		s.current += n
		s.addToken(token.Operator, token.Normal)
		return
	}
	c := s.peek()
	if c < utf8.RuneSelf {
		s.current++
		s.addToken(symbolCategory(c), token.Normal)
		return
	}
	_, size := utf8.DecodeRuneInString(s.src[s.current:])
	s.current += size
	s.addToken(token.Unknown, token.Normal)
}

func (s *lineScanner) addToken(cat token.Category, after token.State) {
	if s.current <= s.start {
		return
	}
	s.tokens = append(s.tokens, token.Token{
		Category: cat,
		Text:     s.src[s.start:s.current],
		Range: token.TextRange{
			Start: token.Position{Line: s.line, Column: s.start, Offset: s.offset + s.start},
			End:   token.Position{Line: s.line, Column: s.current, Offset: s.offset + s.current},
		},
		State: after,
	})
}

func (s *lineScanner) peek() byte {
	return s.peekAt(0)
}

func (s *lineScanner) peekAt(n int) byte {
	if s.current+n >= len(s.src) {
		return 0
	}
	return s.src[s.current+n]
}

func (s *lineScanner) isAtEnd() bool {
	return s.current >= len(s.src)
}

// Helper functions.

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') ||
		('a' <= c && c <= 'f') ||
		('A' <= c && c <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
