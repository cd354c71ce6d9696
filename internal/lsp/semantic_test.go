package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"linelex/internal/errors"
	"linelex/token"
)

func TestPositionToOffset(t *testing.T) {
	doc := "a😀b\nxé"

	tests := []struct {
		line, char uint32
		want       token.Position
	}{
		{0, 0, token.Position{Line: 0, Column: 0, Offset: 0}},
		{0, 1, token.Position{Line: 0, Column: 1, Offset: 1}},
		{0, 3, token.Position{Line: 0, Column: 5, Offset: 5}},
		// Inside a surrogate pair snaps to the start of the rune.
		{0, 2, token.Position{Line: 0, Column: 1, Offset: 1}},
		{0, 10, token.Position{Line: 0, Column: 6, Offset: 6}},
		{1, 2, token.Position{Line: 1, Column: 3, Offset: 10}},
		{5, 0, token.Position{Line: 1, Column: 3, Offset: 10}},
	}
	for _, tt := range tests {
		got := positionToOffset(doc, protocol.Position{Line: tt.line, Character: tt.char})
		assert.Equal(t, tt.want, got, "%d:%d", tt.line, tt.char)
	}
}

func TestEncodeSkipsUnclassified(t *testing.T) {
	lines := []string{"(a)", "  b"}
	tokens := []token.Token{
		{Category: token.Delimiter, Text: "(", Range: rng(0, 0, 1)},
		{Category: token.Identifier, Text: "a", Range: rng(0, 1, 2)},
		{Category: token.Delimiter, Text: ")", Range: rng(0, 2, 3)},
		{Category: token.DocComment, Text: "b", Range: rng(1, 2, 3)},
	}

	data := encode(tokens, lines)
	assert.Equal(t, []uint32{
		0, 1, 1, uint32(indexOf("variable", SemanticTokenTypes)), 0,
		1, 2, 1, uint32(indexOf("comment", SemanticTokenTypes)), 1 << indexOf("documentation", SemanticTokenModifiers),
	}, data)

	assert.Equal(t, []uint32{}, encode(nil, lines))
}

func TestUTF16Len(t *testing.T) {
	assert.Equal(t, uint32(0), utf16Len(""))
	assert.Equal(t, uint32(3), utf16Len("abc"))
	assert.Equal(t, uint32(1), utf16Len("é"))
	assert.Equal(t, uint32(2), utf16Len("😀"))
	assert.Equal(t, uint32(1), utf16Len("\xff"))
}

func TestConvertDiagnostics(t *testing.T) {
	converted := ConvertDiagnostics(errors.Diagnostics{
		errors.DuplicateExtension(".x", "x", errors.Position{Line: 3, Column: 5}),
	})
	assert.Len(t, converted, 1)

	d := converted[0]
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 2, Character: 4},
		End:   protocol.Position{Line: 2, Character: 8},
	}, d.Range)
	assert.Equal(t, protocol.DiagnosticSeverityWarning, *d.Severity)
	assert.Equal(t, errors.WarningDuplicateExtension, d.Code.Value)
	assert.Equal(t, "linelex", *d.Source)
	assert.Contains(t, d.Message, "note: the language registered last wins")

	assert.Empty(t, ConvertDiagnostics(nil))
}

func rng(line, start, end int) token.TextRange {
	return token.TextRange{
		Start: token.Position{Line: line, Column: start},
		End:   token.Position{Line: line, Column: end},
	}
}
