package lsp_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"linelex/internal/language"
	"linelex/internal/lsp"
)

const (
	uri    = "file:///work/main.ka"
	source = "fn main() {\n    let s = \"héllo\"; // 😀 ok\n}"
)

func newHandler(t *testing.T, queueSize int) *lsp.Handler {
	t.Helper()
	h := lsp.NewHandler("linelex", "test", language.NewRegistry(), queueSize)
	t.Cleanup(func() { _ = h.Shutdown(nil) })
	return h
}

func open(t *testing.T, h *lsp.Handler, uri, languageID, text string) {
	t.Helper()
	require.NoError(t, h.TextDocumentDidOpen(&glsp.Context{}, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: languageID, Version: 1, Text: text},
	}))
}

func change(t *testing.T, h *lsp.Handler, uri string, version protocol.Integer, changes ...any) {
	t.Helper()
	require.NoError(t, h.TextDocumentDidChange(&glsp.Context{}, &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri}, Version: version},
		ContentChanges: changes,
	}))
}

func edit(startLine, startChar, endLine, endChar uint32, text string) protocol.TextDocumentContentChangeEvent {
	return protocol.TextDocumentContentChangeEvent{
		Range: &protocol.Range{
			Start: protocol.Position{Line: startLine, Character: startChar},
			End:   protocol.Position{Line: endLine, Character: endChar},
		},
		Text: text,
	}
}

func full(t *testing.T, h *lsp.Handler, uri string) []DecodedToken {
	t.Helper()
	tokens, err := h.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	require.NoError(t, err)
	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	return decoded
}

func TestInitialize(t *testing.T) {
	h := newHandler(t, 0)
	result, err := h.Initialize(&glsp.Context{}, &protocol.InitializeParams{})
	require.NoError(t, err)

	init, ok := result.(*protocol.InitializeResult)
	require.True(t, ok)
	sync, ok := init.Capabilities.TextDocumentSync.(*protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	assert.Equal(t, protocol.TextDocumentSyncKindIncremental, *sync.Change)

	tokens, ok := init.Capabilities.SemanticTokensProvider.(*protocol.SemanticTokensOptions)
	require.True(t, ok)
	assert.Equal(t, lsp.SemanticTokenTypes, tokens.Legend.TokenTypes)
	assert.Equal(t, "linelex", init.ServerInfo.Name)
}

func TestTextDocumentSemanticTokensFull(t *testing.T) {
	h := newHandler(t, 0)
	open(t, h, uri, "kanso", source)

	decoded := full(t, h, uri)
	require.Len(t, decoded, 7)

	assertToken(t, &decoded[0], 1, 1, 2, "keyword", []string{"declaration"})
	assertToken(t, &decoded[1], 1, 4, 4, "function", nil)
	assertToken(t, &decoded[2], 2, 5, 3, "keyword", []string{"declaration"})
	assertToken(t, &decoded[3], 2, 9, 1, "variable", nil)
	assertToken(t, &decoded[4], 2, 11, 1, "operator", nil)
	// Columns and lengths count UTF-16 code units.
	assertToken(t, &decoded[5], 2, 13, 7, "string", nil)
	assertToken(t, &decoded[6], 2, 22, 8, "comment", nil)
}

func TestLanguageFromExtension(t *testing.T) {
	h := newHandler(t, 0)
	open(t, h, uri, "unknown-id", source)
	assert.Len(t, full(t, h, uri), 7)

	// Plain text has no keywords or comments.
	open(t, h, "file:///work/notes.txt", "", source)
	for _, tok := range full(t, h, "file:///work/notes.txt") {
		assert.NotEqual(t, "keyword", tok.Type)
		assert.NotEqual(t, "comment", tok.Type)
	}
}

func TestIncrementalChanges(t *testing.T) {
	h := newHandler(t, 0)
	open(t, h, uri, "kanso", source)
	full(t, h, uri)

	// Replace héllo with hi.
	change(t, h, uri, 2, edit(1, 13, 1, 18, "hi"))
	decoded := full(t, h, uri)
	require.Len(t, decoded, 7)
	assertToken(t, &decoded[5], 2, 13, 4, "string", nil)
	assertToken(t, &decoded[6], 2, 19, 8, "comment", nil)

	// Open a block comment on a new line; everything after it is comment.
	change(t, h, uri, 3, edit(0, 11, 0, 11, "\n  /* open"))
	decoded = full(t, h, uri)
	assertToken(t, &decoded[len(decoded)-1], 4, 1, 1, "comment", nil)
	assertToken(t, &decoded[len(decoded)-2], 3, 1, 26, "comment", nil)

	// Close it again and delete across lines.
	change(t, h, uri, 4,
		edit(1, 9, 1, 9, " */"),
		edit(0, 2, 1, 2, ""),
	)
	want := "fn/* open */\n    let s = \"hi\"; // 😀 ok\n}"

	other := "file:///work/fresh.ka"
	open(t, h, other, "kanso", want)
	assert.Equal(t, full(t, h, other), full(t, h, uri))
}

func TestWholeDocumentChange(t *testing.T) {
	h := newHandler(t, 0)
	open(t, h, uri, "kanso", source)
	full(t, h, uri)

	change(t, h, uri, 2, protocol.TextDocumentContentChangeEventWhole{Text: "let x = 1"})
	decoded := full(t, h, uri)
	require.Len(t, decoded, 4)
	assertToken(t, &decoded[3], 1, 9, 1, "number", nil)
}

func TestSemanticTokensRange(t *testing.T) {
	h := newHandler(t, 0)
	open(t, h, uri, "kanso", source)

	result, err := h.TextDocumentSemanticTokensRange(&glsp.Context{}, &protocol.SemanticTokensRangeParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
		Range: protocol.Range{
			Start: protocol.Position{Line: 1, Character: 0},
			End:   protocol.Position{Line: 1, Character: 12},
		},
	})
	require.NoError(t, err)
	tokens, ok := result.(*protocol.SemanticTokens)
	require.True(t, ok)

	decoded, err := decodeSemanticTokens(tokens.Data)
	require.NoError(t, err)
	require.Len(t, decoded, 3)
	assertToken(t, &decoded[0], 2, 5, 3, "keyword", []string{"declaration"})
	assertToken(t, &decoded[2], 2, 11, 1, "operator", nil)
}

func TestWorkerBackedDocument(t *testing.T) {
	h := newHandler(t, 2)
	open(t, h, uri, "kanso", source)

	for v := protocol.Integer(2); v < 12; v++ {
		change(t, h, uri, v, edit(0, 3, 0, 3, "x"))
	}
	decoded := full(t, h, uri)
	assertToken(t, &decoded[1], 1, 4, 14, "function", nil)

	require.NoError(t, h.TextDocumentDidClose(&glsp.Context{}, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	}))
	_, err := h.TextDocumentSemanticTokensFull(&glsp.Context{}, &protocol.SemanticTokensParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	assert.Error(t, err)
}

func TestChangeUnknownDocument(t *testing.T) {
	h := newHandler(t, 0)
	err := h.TextDocumentDidChange(&glsp.Context{}, &protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri}},
	})
	assert.ErrorContains(t, err, "not open")
}

func TestDefinitionDiagnostics(t *testing.T) {
	h := newHandler(t, 0)

	var published []*protocol.PublishDiagnosticsParams
	ctx := &glsp.Context{Notify: func(method string, params any) {
		require.Equal(t, protocol.ServerTextDocumentPublishDiagnostics, method)
		published = append(published, params.(*protocol.PublishDiagnosticsParams))
	}}

	def := "file:///work/toy.lang"
	require.NoError(t, h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: def, Version: 1, Text: "language \"toy\" {\n  keywords contrl \"if\"\n}"},
	}))
	require.Len(t, published, 1)
	require.Len(t, published[0].Diagnostics, 1)

	d := published[0].Diagnostics[0]
	assert.Equal(t, uint32(1), d.Range.Start.Line)
	assert.Equal(t, uint32(11), d.Range.Start.Character)
	assert.Equal(t, uint32(17), d.Range.End.Character)
	assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	assert.True(t, strings.HasPrefix(d.Message, "unknown keyword category 'contrl'"))
	assert.Contains(t, d.Message, "did you mean 'control'?")

	// Fixing the file clears the diagnostics.
	require.NoError(t, h.TextDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: def}, Version: 2},
		ContentChanges: []any{edit(1, 11, 1, 17, "control")},
	}))
	require.Len(t, published, 2)
	assert.Empty(t, published[1].Diagnostics)

	// Ordinary documents publish nothing.
	require.NoError(t, h.TextDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "kanso", Version: 1, Text: source},
	}))
	assert.Len(t, published, 2)
}

type DecodedToken struct {
	Index     int
	Line      uint32
	Char      uint32
	Length    uint32
	Type      string
	Modifiers []string
}

func decodeSemanticTokens(raw []uint32) ([]DecodedToken, error) {
	if len(raw)%5 != 0 {
		return nil, fmt.Errorf("raw token data length %d is not a multiple of 5", len(raw))
	}

	var (
		decoded []DecodedToken
		line    uint32
		char    uint32
	)

	for i := 0; i < len(raw); i += 5 {
		deltaLine := raw[i]
		deltaStart := raw[i+1]
		length := raw[i+2]
		tokenTypeIdx := raw[i+3]
		tokenModMask := raw[i+4]

		if deltaLine == 0 {
			char += deltaStart
		} else {
			line += deltaLine
			char = deltaStart
		}

		var modifiers []string
		for j, name := range lsp.SemanticTokenModifiers {
			if tokenModMask&(1<<j) != 0 {
				modifiers = append(modifiers, name)
			}
		}

		decoded = append(decoded, DecodedToken{
			Index:     i / 5,
			Line:      line + 1, // LSP uses 0-based indexing
			Char:      char + 1, // LSP uses 0-based indexing
			Length:    length,
			Type:      lsp.SemanticTokenTypes[tokenTypeIdx],
			Modifiers: modifiers,
		})
	}

	return decoded, nil
}

func assertToken(t *testing.T, token *DecodedToken, expectedLine, expectedChar, expectedLength uint32, expectedType string, expectedModifiers []string) {
	t.Helper()
	require.Equal(t, expectedLine, token.Line, "line mismatch (expected line %d)", expectedLine)
	require.Equal(t, expectedChar, token.Char, "char mismatch (expected char %d)", expectedChar)
	require.Equal(t, expectedLength, token.Length, "length mismatch")
	require.Equal(t, expectedType, token.Type, "type mismatch")
	require.ElementsMatch(t, expectedModifiers, token.Modifiers, "modifiers mismatch")
}
