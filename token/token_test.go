package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linelex/token"
)

func tok(cat token.Category, text string, line, col, off int) token.Token {
	return token.Token{
		Category: cat,
		Text:     text,
		Range: token.TextRange{
			Start: token.Position{Line: line, Column: col, Offset: off},
			End:   token.Position{Line: line, Column: col + len(text), Offset: off + len(text)},
		},
	}
}

func TestCategoryNames(t *testing.T) {
	assert.Equal(t, "keyword.control", token.KeywordControl.String())
	assert.Equal(t, "unknown", token.Category(999).String())

	c, ok := token.ParseCategory("keyword.declaration")
	require.True(t, ok)
	assert.Equal(t, token.KeywordDeclaration, c)

	c, ok = token.ParseCategory("Control")
	require.True(t, ok)
	assert.Equal(t, token.KeywordControl, c)

	_, ok = token.ParseCategory("nonsense")
	assert.False(t, ok)

	assert.True(t, token.KeywordModifier.IsKeyword())
	assert.False(t, token.Identifier.IsKeyword())
	assert.True(t, token.DocComment.IsComment())
}

func TestStateFlags(t *testing.T) {
	assert.True(t, token.InBlockComment.Multiline())
	assert.True(t, token.InMultilineString.Multiline())
	assert.False(t, token.InStringDouble.Multiline())

	assert.True(t, token.InStringDouble.Carries())
	assert.False(t, token.InLineComment.Carries())
	assert.False(t, token.Normal.Carries())

	for _, d := range []byte{'"', '\'', '`'} {
		s, ok := token.StringState(d)
		require.True(t, ok)
		assert.Equal(t, d, s.Delimiter())
	}
	_, ok := token.StringState('x')
	assert.False(t, ok)
}

func TestTextRange(t *testing.T) {
	r := token.TextRange{
		Start: token.Position{Line: 1, Column: 2, Offset: 10},
		End:   token.Position{Line: 1, Column: 6, Offset: 14},
	}
	require.True(t, r.Valid())
	assert.True(t, r.Contains(token.Position{Line: 1, Column: 2}))
	assert.True(t, r.Contains(token.Position{Line: 1, Column: 5}))
	assert.False(t, r.Contains(token.Position{Line: 1, Column: 6}))
	assert.False(t, r.Contains(token.Position{Line: 0, Column: 3}))

	other := token.TextRange{
		Start: token.Position{Line: 1, Column: 5},
		End:   token.Position{Line: 1, Column: 9},
	}
	assert.True(t, r.Overlaps(other))
	other.Start.Column = 6
	assert.False(t, r.Overlaps(other))

	shifted := r.Shift(3, -4)
	assert.Equal(t, 4, shifted.Start.Line)
	assert.Equal(t, 6, shifted.Start.Offset)
	assert.Equal(t, 2, shifted.Start.Column)

	bad := token.TextRange{Start: r.End, End: r.Start}
	assert.False(t, bad.Valid())
}

func TestTokenShiftedDoesNotMutate(t *testing.T) {
	orig := tok(token.Identifier, "abc", 2, 4, 20)
	moved := orig.Shifted(1, 7)

	assert.Equal(t, 2, orig.Line())
	assert.Equal(t, 3, moved.Line())
	assert.Equal(t, 27, moved.Range.Start.Offset)
	assert.Equal(t, 3, moved.Len())
}

func TestStreamLookup(t *testing.T) {
	s := token.NewStream([]token.Token{
		tok(token.KeywordDeclaration, "var", 0, 0, 0),
		tok(token.Identifier, "x", 0, 4, 4),
		tok(token.Number, "1", 2, 0, 8),
		tok(token.Punctuation, ";", 2, 1, 9),
	})

	require.Equal(t, 4, s.Len())
	assert.Len(t, s.Line(0), 2)
	assert.Empty(t, s.Line(1))
	assert.Len(t, s.Line(2), 2)

	got, ok := s.At(token.Position{Line: 0, Column: 1})
	require.True(t, ok)
	assert.Equal(t, "var", got.Text)

	_, ok = s.At(token.Position{Line: 0, Column: 3})
	assert.False(t, ok)

	within := s.Within(token.TextRange{
		Start: token.Position{Line: 0, Column: 4},
		End:   token.Position{Line: 2, Column: 1},
	})
	require.Len(t, within, 2)
	assert.Equal(t, "x", within[0].Text)
	assert.Equal(t, "1", within[1].Text)

	lines := s.Lines()
	assert.Len(t, lines, 2)
	assert.Len(t, lines[2], 2)
}
