package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"

	"linelex/internal/errors"
	"linelex/internal/language"
	"linelex/token"
)

// Languages validates every definition in f and converts it to a lexer
// profile. Warnings are returned alongside the languages; when any error is
// reported the languages are nil.
func (f *File) Languages() ([]*language.Language, errors.Diagnostics) {
	var (
		diags = errors.Diagnostics{}
		langs []*language.Language
		seen  = map[string]lexer.Position{}
		exts  = map[string]string{}
	)

	for _, def := range f.Definitions {
		name := def.Name.Text
		if name == "" {
			diags = append(diags, errors.EmptyValue("language", position(def.Pos)))
			continue
		}
		if first, dup := seen[name]; dup {
			diags = append(diags, errors.DuplicateLanguage(name, position(def.Name.Pos), position(first)))
			continue
		}
		seen[name] = def.Name.Pos

		lang, ds := def.language()
		diags = append(diags, ds...)

		for _, p := range def.Properties {
			if p.Name != PropExtensions {
				continue
			}
			for _, v := range p.Values {
				if owner, ok := exts[v.Text]; ok && owner != name {
					diags = append(diags, errors.DuplicateExtension(v.Text, owner, position(v.Pos)))
				}
				exts[v.Text] = name
			}
		}
		langs = append(langs, lang)
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return langs, diags
}

func (d *Definition) language() (*language.Language, errors.Diagnostics) {
	var (
		diags errors.Diagnostics
		lang  = &language.Language{Name: d.Name.Text}
		set   = map[string]bool{}
	)

	for _, p := range d.Properties {
		if !known(p.Name) {
			diags = append(diags, errors.UnknownProperty(p.Name, position(p.Pos), properties))
			continue
		}
		if set[p.Name] && !repeatable(p.Name) {
			diags = append(diags, errors.RepeatedProperty(p.Name, position(p.Pos)))
		}
		set[p.Name] = true

		if (p.Qualifier != nil && p.Name != PropKeywords) || len(p.Values) == 0 {
			diags = append(diags, errors.EmptyValue(p.Name, position(p.Pos)))
			continue
		}
		if v, ok := firstEmpty(p.Values); ok {
			diags = append(diags, errors.EmptyValue(p.Name, position(v.Pos)))
			continue
		}

		switch p.Name {
		case PropAliases:
			lang.Aliases = append(lang.Aliases, texts(p.Values)...)
		case PropExtensions:
			lang.Extensions = append(lang.Extensions, texts(p.Values)...)
		case PropLineComment:
			lang.LineComment = p.Values[0].Text
		case PropDocComment:
			lang.DocComment = p.Values[0].Text
		case PropMultilineString:
			lang.MultilineString = p.Values[0].Text
		case PropInterpolation:
			lang.Interpolation = p.Values[0].Text
		case PropBlockComment:
			if len(p.Values) != 2 {
				diags = append(diags, errors.InvalidBlockComment(len(p.Values), position(p.Pos)))
				continue
			}
			lang.BlockCommentStart = p.Values[0].Text
			lang.BlockCommentEnd = p.Values[1].Text
		case PropStrings:
			for _, v := range p.Values {
				if _, ok := token.StringState(v.Text[0]); !ok || len(v.Text) != 1 {
					diags = append(diags, errors.InvalidDelimiter(v.Text, position(v.Pos)))
					continue
				}
				lang.StringDelimiters += v.Text
			}
		case PropKeywords:
			diags = append(diags, addKeywords(lang, p)...)
		}
	}
	return lang, diags
}

func addKeywords(lang *language.Language, p *Property) errors.Diagnostics {
	category := token.Keyword
	if p.Qualifier != nil {
		c, ok := token.ParseCategory(p.Qualifier.Text)
		if !ok || c == token.Unknown {
			return errors.Diagnostics{errors.UnknownCategory(p.Qualifier.Text, position(p.Qualifier.Pos), categoryNames())}
		}
		category = c
	}

	var diags errors.Diagnostics
	if lang.Keywords == nil {
		lang.Keywords = make(map[string]token.Category)
	}
	for _, v := range p.Values {
		if _, dup := lang.Keywords[v.Text]; dup {
			diags = append(diags, errors.DuplicateKeyword(v.Text, position(v.Pos)))
			continue
		}
		lang.Keywords[v.Text] = category
	}
	return diags
}

func categoryNames() []string {
	var names []string
	for _, c := range token.Categories() {
		names = append(names, c.ShortName())
	}
	return names
}

func known(name string) bool {
	for _, p := range properties {
		if p == name {
			return true
		}
	}
	return false
}

func firstEmpty(values []*Value) (*Value, bool) {
	for _, v := range values {
		if v.Text == "" {
			return v, true
		}
	}
	return nil, false
}

func texts(values []*Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v.Text
	}
	return out
}

func position(pos lexer.Position) errors.Position {
	return errors.Position{Line: pos.Line, Column: pos.Column}
}
