package token

import "sort"

// Stream is an ordered token list with line-indexed lookup. Tokens must be
// in document order.
type Stream struct {
	tokens []Token
}

// NewStream wraps tokens. The slice is not copied.
func NewStream(tokens []Token) *Stream {
	return &Stream{tokens: tokens}
}

// Tokens returns the underlying tokens in document order.
func (s *Stream) Tokens() []Token {
	return s.tokens
}

// Len returns the number of tokens.
func (s *Stream) Len() int {
	return len(s.tokens)
}

// Line returns the tokens that start on line n.
func (s *Stream) Line(n int) []Token {
	lo := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Range.Start.Line >= n
	})
	hi := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Range.Start.Line > n
	})
	return s.tokens[lo:hi]
}

// At returns the token covering p, if any.
func (s *Stream) At(p Position) (Token, bool) {
	for _, tok := range s.Line(p.Line) {
		if tok.Range.Contains(p) {
			return tok, true
		}
		if p.Before(tok.Range.Start) {
			break
		}
	}
	return Token{}, false
}

// Within returns the tokens overlapping r.
func (s *Stream) Within(r TextRange) []Token {
	lo := sort.Search(len(s.tokens), func(i int) bool {
		return s.tokens[i].Range.Start.Line >= r.Start.Line
	})
	var out []Token
	for _, tok := range s.tokens[lo:] {
		if !tok.Range.Start.Before(r.End) {
			break
		}
		if tok.Range.Overlaps(r) {
			out = append(out, tok)
		}
	}
	return out
}

// Lines groups the tokens by starting line. Lines without tokens are absent.
func (s *Stream) Lines() map[int][]Token {
	out := make(map[int][]Token)
	for i := 0; i < len(s.tokens); {
		line := s.tokens[i].Range.Start.Line
		j := i
		for j < len(s.tokens) && s.tokens[j].Range.Start.Line == line {
			j++
		}
		out[line] = s.tokens[i:j]
		i = j
	}
	return out
}
