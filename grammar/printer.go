package grammar

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"linelex/internal/language"
	"linelex/token"
)

func indent(level int) string {
	return strings.Repeat("  ", level)
}

// Format renders languages as a definition file that parses back to the
// same profiles.
func Format(langs ...*language.Language) string {
	var b strings.Builder
	for i, l := range langs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(formatLanguage(l))
	}
	return b.String()
}

func formatLanguage(l *language.Language) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("language %s {\n", strconv.Quote(l.Name)))

	property(&b, PropAliases, l.Aliases...)
	property(&b, PropExtensions, l.Extensions...)
	property(&b, PropLineComment, l.LineComment)
	if l.HasBlockComments() {
		property(&b, PropBlockComment, l.BlockCommentStart, l.BlockCommentEnd)
	}
	property(&b, PropDocComment, l.DocComment)
	property(&b, PropStrings, strings.Split(l.StringDelimiters, "")...)
	property(&b, PropMultilineString, l.MultilineString)
	property(&b, PropInterpolation, l.Interpolation)

	for _, group := range keywordGroups(l.Keywords) {
		name := PropKeywords
		if group.category != token.Keyword {
			name += " " + group.category.ShortName()
		}
		property(&b, name, group.words...)
	}

	b.WriteString("}\n")
	return b.String()
}

// property writes one line, skipping properties without a value
func property(b *strings.Builder, name string, values ...string) {
	if len(values) == 0 || (len(values) == 1 && values[0] == "") {
		return
	}
	b.WriteString(indent(1) + name)
	for _, v := range values {
		b.WriteString(" " + strconv.Quote(v))
	}
	b.WriteString("\n")
}

type keywordGroup struct {
	category token.Category
	words    []string
}

func keywordGroups(keywords map[string]token.Category) []keywordGroup {
	byCategory := map[token.Category][]string{}
	for word, c := range keywords {
		byCategory[c] = append(byCategory[c], word)
	}
	var groups []keywordGroup
	for _, c := range token.Categories() {
		words := byCategory[c]
		if len(words) == 0 {
			continue
		}
		sort.Strings(words)
		groups = append(groups, keywordGroup{category: c, words: words})
	}
	return groups
}
