package repl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linelex/internal/language"
)

func session(t *testing.T, input string) string {
	t.Helper()
	color.NoColor = true
	lang, ok := language.NewRegistry().Lookup("c")
	require.True(t, ok)

	var out bytes.Buffer
	require.NoError(t, Start(strings.NewReader(input), &out, lang))
	return out.String()
}

func TestStartPrintsTokens(t *testing.T) {
	out := session(t, "a /* c */ b\n")

	assert.True(t, strings.HasPrefix(out, PROMPT))
	assert.Contains(t, out, `identifier`)
	assert.Contains(t, out, `"/* c */"`)
	assert.True(t, strings.HasSuffix(out, PROMPT+"\n"), "returns at end of input")
}

func TestStartCarriesState(t *testing.T) {
	out := session(t, "x /* open\n\nstill */ y\n")

	assert.Contains(t, out, `"/* open"`)
	assert.Contains(t, out, "(block-comment continues)")
	assert.Equal(t, 2, strings.Count(out, CONTINUE))
	assert.Contains(t, out, `"still */"`)
}

func TestStartReset(t *testing.T) {
	out := session(t, "x /* open\n:reset\ny\n")

	assert.Equal(t, 1, strings.Count(out, CONTINUE))
	assert.NotContains(t, out, `":reset"`)
	assert.Contains(t, out, `"y"`)
}
