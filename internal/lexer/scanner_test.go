package lexer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"linelex/internal/language"
	"linelex/token"
)

var registry = language.NewRegistry()

func scanner(lang string) *Scanner {
	return New(registry.ForLanguage(lang))
}

func categories(toks []token.Token) []token.Category {
	out := make([]token.Category, len(toks))
	for i, tok := range toks {
		out[i] = tok.Category
	}
	return out
}

func texts(toks []token.Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Text
	}
	return out
}

func TestKeywordsAndIdentifiers(t *testing.T) {
	input := "fn let if else return contract require use struct writes reads ext mut customIdent"
	expected := []token.Category{
		token.KeywordDeclaration, token.KeywordDeclaration, token.KeywordControl,
		token.KeywordControl, token.KeywordControl, token.KeywordDeclaration,
		token.KeywordControl, token.KeywordDeclaration, token.KeywordDeclaration,
		token.KeywordModifier, token.KeywordModifier, token.KeywordModifier,
		token.KeywordModifier, token.Identifier,
	}

	toks, state := scanner("kanso").ScanLine(input, 0, 0, token.Normal)
	assert.Equal(t, token.Normal, state)
	assert.Equal(t, expected, categories(toks))
}

func TestIdentifierClassification(t *testing.T) {
	toks, _ := scanner("generic").ScanLine("@Override #include true None nil Foo bar( baz", 0, 0, token.Normal)
	assert.Equal(t, []string{"@Override", "#include", "true", "None", "nil", "Foo", "bar", "(", "baz"}, texts(toks))
	assert.Equal(t, []token.Category{
		token.Annotation, token.Preprocessor, token.Boolean, token.Null, token.Null,
		token.Type, token.Function, token.Delimiter, token.Identifier,
	}, categories(toks))

	// Markers not followed by an identifier are symbols.
	toks, _ = scanner("generic").ScanLine("@ # @1", 0, 0, token.Normal)
	assert.Equal(t, []string{"@", "#", "@", "1"}, texts(toks))
	assert.Equal(t, token.Unknown, toks[0].Category)
}

func TestNumbers(t *testing.T) {
	toks, _ := scanner("generic").ScanLine("42 0 1_000 3.14 .5 1e10 2.5E-3 0x1F 0XAB 1e 1..5", 0, 0, token.Normal)
	assert.Equal(t, []string{
		"42", "0", "1_000", "3.14", ".5", "1e10", "2.5E-3", "0x1F", "0XAB", "1", "e", "1", "..", "5",
	}, texts(toks))
	for _, tok := range toks {
		switch tok.Text {
		case "e":
			assert.Equal(t, token.Identifier, tok.Category)
		case "..":
			assert.Equal(t, token.Operator, tok.Category)
		default:
			assert.Equal(t, token.Number, tok.Category, tok.Text)
		}
	}
}

func TestStrings(t *testing.T) {
	toks, state := scanner("generic").ScanLine(`"hello" 'w' "a\"b" "x\\"`, 0, 0, token.Normal)
	assert.Equal(t, token.Normal, state)
	assert.Equal(t, []string{`"hello"`, `'w'`, `"a\"b"`, `"x\\"`}, texts(toks))
	for _, tok := range toks {
		assert.Equal(t, token.String, tok.Category)
	}

	// Go uses backticks, C does not.
	toks, _ = scanner("go").ScanLine("`raw`", 0, 0, token.Normal)
	require.Len(t, toks, 1)
	assert.Equal(t, token.String, toks[0].Category)

	toks, _ = scanner("c").ScanLine("`raw`", 0, 0, token.Normal)
	assert.Equal(t, []string{"`", "raw", "`"}, texts(toks))
}

func TestUnterminatedStringCarriesOver(t *testing.T) {
	s := scanner("javascript")

	first, state := s.ScanLine(`var x = "a`, 0, 0, token.Normal)
	require.Equal(t, token.InStringDouble, state)
	last := first[len(first)-1]
	assert.Equal(t, token.String, last.Category)
	assert.Equal(t, `"a`, last.Text)
	assert.Equal(t, token.InStringDouble, last.State)

	second, state := s.ScanLine(`b";`, 1, 11, state)
	assert.Equal(t, token.Normal, state)
	require.Len(t, second, 2)
	assert.Equal(t, `b"`, second[0].Text)
	assert.Equal(t, token.String, second[0].Category)
	assert.Equal(t, token.Punctuation, second[1].Category)
	assert.Equal(t, 11, second[0].Range.Start.Offset)

	// A trailing backslash escapes nothing and the string carries.
	_, state = s.ScanLine(`'abc\`, 0, 0, token.Normal)
	assert.Equal(t, token.InStringSingle, state)
}

func TestBlockComments(t *testing.T) {
	s := scanner("c")

	toks, state := s.ScanLine("a /* c */ b", 0, 0, token.Normal)
	assert.Equal(t, token.Normal, state)
	assert.Equal(t, []token.Category{token.Identifier, token.Comment, token.Identifier}, categories(toks))

	toks, state = s.ScanLine("x /* open", 0, 0, token.Normal)
	require.Equal(t, token.InBlockComment, state)
	assert.Equal(t, "/* open", toks[1].Text)

	toks, state = s.ScanLine("", 1, 10, state)
	assert.Empty(t, toks)
	assert.Equal(t, token.InBlockComment, state)

	toks, state = s.ScanLine("still */ y", 2, 11, state)
	assert.Equal(t, token.Normal, state)
	assert.Equal(t, []string{"still */", "y"}, texts(toks))
	assert.Equal(t, token.Comment, toks[0].Category)

	// A comment end on its own line is still a comment.
	toks, _ = s.ScanLine("*/", 0, 0, token.InBlockComment)
	require.Len(t, toks, 1)
	assert.Equal(t, token.Comment, toks[0].Category)
}

func TestDocComments(t *testing.T) {
	java := scanner("java")

	toks, _ := java.ScanLine("/** doc */ int", 0, 0, token.Normal)
	assert.Equal(t, []token.Category{token.DocComment, token.Type}, categories(toks))

	toks, _ = java.ScanLine("/**/", 0, 0, token.Normal)
	require.Len(t, toks, 1)
	assert.Equal(t, token.Comment, toks[0].Category)

	_, state := java.ScanLine("/** open", 0, 0, token.Normal)
	require.Equal(t, token.InDocComment, state)
	toks, state = java.ScanLine(" * more */", 1, 9, state)
	assert.Equal(t, token.Normal, state)
	assert.Equal(t, token.DocComment, toks[0].Category)

	rust := scanner("rust")
	toks, state = rust.ScanLine("/// hi", 0, 0, token.Normal)
	assert.Equal(t, token.Normal, state)
	assert.Equal(t, token.DocComment, toks[0].Category)

	toks, _ = rust.ScanLine("x // hi", 0, 0, token.Normal)
	assert.Equal(t, token.Comment, toks[1].Category)
	assert.Equal(t, "// hi", toks[1].Text)
}

func TestMultilineStrings(t *testing.T) {
	py := scanner("python")

	toks, _ := py.ScanLine(`"""a""" x`, 0, 0, token.Normal)
	assert.Equal(t, []string{`"""a"""`, "x"}, texts(toks))

	toks, state := py.ScanLine(`x = """abc`, 0, 0, token.Normal)
	require.Equal(t, token.InMultilineString, state)
	assert.Equal(t, `"""abc`, toks[len(toks)-1].Text)

	toks, state = py.ScanLine(`def""" + 1`, 1, 11, state)
	assert.Equal(t, token.Normal, state)
	assert.Equal(t, []token.Category{token.String, token.Operator, token.Number}, categories(toks))

	// Python comments use '#', so no preprocessor markers.
	toks, _ = py.ScanLine("#include", 0, 0, token.Normal)
	assert.Equal(t, token.Comment, toks[0].Category)
}

func TestOperatorsLongestMatch(t *testing.T) {
	toks, _ := scanner("generic").ScanLine("=== !== ... <=> ?? ?. := -> => :: ** ++ + ~ >>>= , ; ( ]", 0, 0, token.Normal)
	assert.Equal(t, []string{
		"===", "!==", "...", "<=>", "??", "?.", ":=", "->", "=>", "::", "**", "++", "+", "~",
		">>>", "=", ",", ";", "(", "]",
	}, texts(toks))
	cats := categories(toks)
	for i := 0; i < 16; i++ {
		assert.Equal(t, token.Operator, cats[i], toks[i].Text)
	}
	assert.Equal(t, token.Punctuation, cats[16])
	assert.Equal(t, token.Punctuation, cats[17])
	assert.Equal(t, token.Delimiter, cats[18])
	assert.Equal(t, token.Delimiter, cats[19])
}

func TestUnicode(t *testing.T) {
	toks, _ := scanner("generic").ScanLine(`é = "ü" → ∑x`, 0, 0, token.Normal)
	assert.Equal(t, []string{"é", "=", `"ü"`, "→", "∑", "x"}, texts(toks))
	assert.Equal(t, []token.Category{
		token.Identifier, token.Operator, token.String, token.Unknown, token.Unknown, token.Identifier,
	}, categories(toks))

	// Columns count bytes.
	assert.Equal(t, 3, toks[1].Range.Start.Column)
	assert.Equal(t, len(`é = "ü" `), toks[3].Range.Start.Column)
	assert.Equal(t, 3, toks[3].Len())
}

func TestPositions(t *testing.T) {
	toks, _ := scanner("generic").ScanLine("ab  cd", 3, 100, token.Normal)
	require.Len(t, toks, 2)
	assert.Equal(t, token.Position{Line: 3, Column: 4, Offset: 104}, toks[1].Range.Start)
	assert.Equal(t, token.Position{Line: 3, Column: 6, Offset: 106}, toks[1].Range.End)
}

func TestPlainText(t *testing.T) {
	toks, _ := scanner("plaintext").ScanLine(`say "x" // y`, 0, 0, token.Normal)
	assert.Equal(t, []string{"say", `"`, "x", `"`, "/", "/", "y"}, texts(toks))
	assert.Equal(t, token.Unknown, toks[1].Category)

	// A comment state from another language resets.
	toks, state := scanner("plaintext").ScanLine("a */", 0, 0, token.InBlockComment)
	assert.Equal(t, token.Normal, state)
	assert.Equal(t, token.Identifier, toks[0].Category)
}

func TestLineCommentStateIsTransient(t *testing.T) {
	toks, state := scanner("generic").ScanLine("x", 0, 0, token.InLineComment)
	assert.Equal(t, token.Normal, state)
	assert.Equal(t, token.Identifier, toks[0].Category)
}

func TestScanDocumentMatchesLineByLine(t *testing.T) {
	src := strings.Join([]string{
		"/**",
		" * Adds.",
		" */",
		"function add(a, b) {",
		"  return `sum ${a",
		"  + b}`; // done",
		"}",
	}, "\n")
	s := scanner("javascript")

	full := s.ScanDocument(src)

	var (
		again  []token.Token
		state  = token.Normal
		offset int
	)
	for i, line := range Lines(src) {
		var toks []token.Token
		toks, state = s.ScanLine(line, i, offset, state)
		again = append(again, toks...)
		offset += len(line) + 1
	}
	assert.Equal(t, full, again)
	assert.Equal(t, token.DocComment, full[0].Category)
	assert.Equal(t, token.Function, full[4].Category)
}

var pieces = []string{
	"a", "x1", "if", " ", "\t", `"`, "'", "`", `\`, "/*", "*/", "/**", "//", `"""`,
	"1", ".", "0x", "e", "é", "→", "(", "=", "@", "#", "+", "===",
}

func TestScanLineProperties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lang := rapid.SampledFrom([]string{"generic", "java", "python", "rust", "go", "plaintext"}).Draw(rt, "lang")
		line := strings.Join(rapid.SliceOf(rapid.SampledFrom(pieces)).Draw(rt, "pieces"), "")
		start := token.State(rapid.IntRange(0, int(token.InMultilineString)).Draw(rt, "start"))
		s := scanner(lang)

		toks, end := s.ScanLine(line, 5, 40, start)
		again, endAgain := s.ScanLine(line, 5, 40, start)
		if end != endAgain || len(toks) != len(again) {
			rt.Fatalf("scan is not deterministic")
		}

		prev := 0
		for _, tok := range toks {
			r := tok.Range
			if r.Start.Column < prev || r.End.Column <= r.Start.Column || r.End.Column > len(line) {
				rt.Fatalf("bad range %v after %d in %q", r, prev, line)
			}
			if tok.Text != line[r.Start.Column:r.End.Column] || r.Start.Offset != 40+r.Start.Column {
				rt.Fatalf("token %q does not match its range", tok.Text)
			}
			if !utf8.ValidString(tok.Text) {
				rt.Fatalf("token %q splits a rune", tok.Text)
			}
			prev = r.End.Column
		}
		if end == token.InLineComment {
			rt.Fatalf("line comment state leaked")
		}
	})
}
