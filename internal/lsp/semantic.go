package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"linelex/token"
)

// SemanticTokenTypes is the legend of token types reported to clients.
var SemanticTokenTypes = []string{
	"keyword",
	"modifier",
	"variable",
	"function",
	"type",
	"string",
	"number",
	"comment",
	"operator",
	"macro",
	"decorator",
	"enumMember",
}

// SemanticTokenModifiers is the legend of token modifiers.
var SemanticTokenModifiers = []string{
	"declaration",
	"documentation",
	"defaultLibrary",
}

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions; StartChar and Length count
// UTF-16 code units
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into SemanticTokenTypes
	TokenModifiers int // bitmask
}

type classification struct {
	tokenType string
	modifiers []string
}

// classifications maps lexer categories to the legend. Punctuation,
// delimiters and unknown text are left to the client's own highlighting.
var classifications = map[token.Category]classification{
	token.Keyword:            {tokenType: "keyword"},
	token.KeywordDeclaration: {tokenType: "keyword", modifiers: []string{"declaration"}},
	token.KeywordControl:     {tokenType: "keyword"},
	token.KeywordModifier:    {tokenType: "modifier"},
	token.Identifier:         {tokenType: "variable"},
	token.Function:           {tokenType: "function"},
	token.Type:               {tokenType: "type", modifiers: []string{"defaultLibrary"}},
	token.String:             {tokenType: "string"},
	token.Number:             {tokenType: "number"},
	token.Boolean:            {tokenType: "enumMember", modifiers: []string{"defaultLibrary"}},
	token.Null:               {tokenType: "enumMember", modifiers: []string{"defaultLibrary"}},
	token.Comment:            {tokenType: "comment"},
	token.DocComment:         {tokenType: "comment", modifiers: []string{"documentation"}},
	token.Operator:           {tokenType: "operator"},
	token.Preprocessor:       {tokenType: "macro"},
	token.Annotation:         {tokenType: "decorator"},
}

// collectSemanticTokens converts lexer tokens to LSP positions. lines is the
// document the tokens were produced from.
func collectSemanticTokens(tokens []token.Token, lines []string) []SemanticToken {
	var out []SemanticToken
	for _, tok := range tokens {
		c, ok := classifications[tok.Category]
		if !ok || tok.Range.Start.Line >= len(lines) {
			continue
		}
		line := lines[tok.Range.Start.Line]
		start := utf16Len(prefix(line, tok.Range.Start.Column))
		length := utf16Len(tok.Text)
		if length == 0 {
			continue
		}

		modifiers := 0
		for _, m := range c.modifiers {
			modifiers |= 1 << indexOf(m, SemanticTokenModifiers)
		}
		out = append(out, SemanticToken{
			Line:           uint32(tok.Range.Start.Line),
			StartChar:      start,
			Length:         length,
			TokenType:      indexOf(c.tokenType, SemanticTokenTypes),
			TokenModifiers: modifiers,
		})
	}
	return out
}

// encode collects tokens and packs them into the LSP wire format (using
// delta-line, delta-start compression).
func encode(tokens []token.Token, lines []string) []uint32 {
	data := []uint32{}
	var prevLine, prevStart uint32
	for _, t := range collectSemanticTokens(tokens, lines) {
		deltaLine := t.Line - prevLine
		deltaStart := t.StartChar
		if deltaLine == 0 {
			deltaStart = t.StartChar - prevStart
		}
		data = append(data, deltaLine, deltaStart, t.Length, uint32(t.TokenType), uint32(t.TokenModifiers))
		prevLine = t.Line
		prevStart = t.StartChar
	}
	return data
}

// positionToOffset converts an LSP position (UTF-16 columns) to a byte
// position in document. Positions past the end of a line or the document
// are clamped.
func positionToOffset(document string, pos protocol.Position) token.Position {
	ls := lines(document)
	line := int(pos.Line)
	if line >= len(ls) {
		line = len(ls) - 1
		pos.Character = utf16Len(ls[line])
	}

	offset := 0
	for i := 0; i < line; i++ {
		offset += len(ls[i]) + 1
	}

	text := ls[line]
	column := len(text)
	var units uint32
	for i, r := range text {
		n := uint32(1)
		if r > 0xFFFF {
			n = 2
		}
		if units+n > pos.Character {
			column = i
			break
		}
		units += n
	}
	return token.Position{Line: line, Column: column, Offset: offset + column}
}

func lines(document string) []string {
	return strings.Split(document, "\n")
}

// prefix returns the first n bytes of s, clamped to its length
func prefix(s string, n int) string {
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// utf16Len counts the UTF-16 code units of s. Invalid bytes count as one
// unit each, matching how clients decode them.
func utf16Len(s string) uint32 {
	var n uint32
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0
}
