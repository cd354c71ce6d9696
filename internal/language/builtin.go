package language

import "linelex/token"

// DefaultName is the id of the generic C-like profile used when a language
// is unknown.
const DefaultName = "generic"

// Generic is a C-like profile that highlights reasonably for most curly
// brace languages.
func Generic() *Language {
	return &Language{
		Name:              DefaultName,
		Aliases:           []string{"c-like", "default"},
		LineComment:       "//",
		BlockCommentStart: "/*",
		BlockCommentEnd:   "*/",
		DocComment:        "/**",
		StringDelimiters:  `"'`,
		Keywords: keywords(map[token.Category]string{
			token.KeywordDeclaration: "var let const func function fn class struct enum interface type",
			token.KeywordControl:     "if else for while do switch case default break continue return goto",
			token.KeywordModifier:    "public private protected static final",
			token.Keyword:            "import package new this",
		}),
	}
}

// PlainText lexes words and symbols only.
func PlainText() *Language {
	return &Language{
		Name:       "plaintext",
		Aliases:    []string{"text", "plain"},
		Extensions: []string{".txt"},
	}
}

func builtins() []*Language {
	return []*Language{
		Generic(),
		PlainText(),
		{
			Name:              "go",
			Aliases:           []string{"golang"},
			Extensions:        []string{".go"},
			LineComment:       "//",
			BlockCommentStart: "/*",
			BlockCommentEnd:   "*/",
			StringDelimiters:  "\"'`",
			Keywords: keywords(map[token.Category]string{
				token.KeywordDeclaration: "func var const type struct interface map chan package import",
				token.KeywordControl:     "if else for range switch case default break continue return goto fallthrough select defer go",
				token.Type:               "int int8 int16 int32 int64 uint uint8 uint16 uint32 uint64 uintptr float32 float64 complex64 complex128 string bool byte rune error any",
			}),
		},
		{
			Name:              "c",
			Extensions:        []string{".c", ".h"},
			LineComment:       "//",
			BlockCommentStart: "/*",
			BlockCommentEnd:   "*/",
			DocComment:        "/**",
			StringDelimiters:  `"'`,
			Keywords: keywords(map[token.Category]string{
				token.KeywordDeclaration: "struct union enum typedef",
				token.KeywordControl:     "if else for while do switch case default break continue return goto sizeof",
				token.KeywordModifier:    "static extern const volatile register inline restrict auto",
				token.Type:               "int char short long float double void signed unsigned size_t",
			}),
		},
		{
			Name:              "cpp",
			Aliases:           []string{"c++"},
			Extensions:        []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
			LineComment:       "//",
			BlockCommentStart: "/*",
			BlockCommentEnd:   "*/",
			DocComment:        "///",
			StringDelimiters:  `"'`,
			Keywords: keywords(map[token.Category]string{
				token.KeywordDeclaration: "class struct union enum typedef namespace template typename using auto",
				token.KeywordControl:     "if else for while do switch case default break continue return goto try catch throw co_await co_return",
				token.KeywordModifier:    "public private protected static extern const constexpr virtual override final inline mutable",
				token.Keyword:            "new delete this operator",
				token.Type:               "int char short long float double void bool signed unsigned",
			}),
		},
		{
			Name:              "java",
			Extensions:        []string{".java"},
			LineComment:       "//",
			BlockCommentStart: "/*",
			BlockCommentEnd:   "*/",
			DocComment:        "/**",
			StringDelimiters:  `"'`,
			MultilineString:   `"""`,
			Keywords: keywords(map[token.Category]string{
				token.KeywordDeclaration: "class interface enum record var package import extends implements",
				token.KeywordControl:     "if else for while do switch case default break continue return try catch finally throw throws",
				token.KeywordModifier:    "public private protected static final abstract synchronized native transient volatile",
				token.Keyword:            "new this super instanceof",
				token.Type:               "int long short byte char float double boolean void",
			}),
		},
		{
			Name:              "javascript",
			Aliases:           []string{"js"},
			Extensions:        []string{".js", ".mjs", ".cjs", ".jsx"},
			LineComment:       "//",
			BlockCommentStart: "/*",
			BlockCommentEnd:   "*/",
			DocComment:        "/**",
			StringDelimiters:  "\"'`",
			Interpolation:     "${",
			Keywords: keywords(map[token.Category]string{
				token.KeywordDeclaration: "var let const function class import export from extends",
				token.KeywordControl:     "if else for while do switch case default break continue return try catch finally throw await yield",
				token.KeywordModifier:    "async static get set",
				token.Keyword:            "new delete typeof instanceof in of this super void",
				token.Null:               "undefined",
			}),
		},
		{
			Name:              "typescript",
			Aliases:           []string{"ts"},
			Extensions:        []string{".ts", ".tsx", ".mts"},
			LineComment:       "//",
			BlockCommentStart: "/*",
			BlockCommentEnd:   "*/",
			DocComment:        "/**",
			StringDelimiters:  "\"'`",
			Interpolation:     "${",
			Keywords: keywords(map[token.Category]string{
				token.KeywordDeclaration: "var let const function class interface type enum namespace module declare import export from extends implements",
				token.KeywordControl:     "if else for while do switch case default break continue return try catch finally throw await yield",
				token.KeywordModifier:    "async static public private protected readonly abstract get set",
				token.Keyword:            "new delete typeof instanceof keyof in of as is this super void",
				token.Type:               "string number boolean any unknown never object symbol bigint",
				token.Null:               "undefined",
			}),
		},
		{
			Name:             "python",
			Aliases:          []string{"py"},
			Extensions:       []string{".py", ".pyi"},
			LineComment:      "#",
			StringDelimiters: `"'`,
			MultilineString:  `"""`,
			Interpolation:    "{",
			Keywords: keywords(map[token.Category]string{
				token.KeywordDeclaration: "def class lambda import from as global nonlocal",
				token.KeywordControl:     "if elif else for while break continue return try except finally raise with yield pass match case await",
				token.Keyword:            "and or not in is del assert async",
			}),
		},
		{
			Name:              "rust",
			Aliases:           []string{"rs"},
			Extensions:        []string{".rs"},
			LineComment:       "//",
			BlockCommentStart: "/*",
			BlockCommentEnd:   "*/",
			DocComment:        "///",
			StringDelimiters:  `"`,
			Keywords: keywords(map[token.Category]string{
				token.KeywordDeclaration: "fn let struct enum trait impl type mod use const static crate",
				token.KeywordControl:     "if else for while loop match break continue return await",
				token.KeywordModifier:    "pub mut ref move unsafe async dyn extern",
				token.Keyword:            "as in where self super",
				token.Type:               "i8 i16 i32 i64 i128 isize u8 u16 u32 u64 u128 usize f32 f64 bool char str",
			}),
		},
		{
			Name:              "swift",
			Extensions:        []string{".swift"},
			LineComment:       "//",
			BlockCommentStart: "/*",
			BlockCommentEnd:   "*/",
			DocComment:        "///",
			StringDelimiters:  `"`,
			MultilineString:   `"""`,
			Interpolation:     `\(`,
			Keywords: keywords(map[token.Category]string{
				token.KeywordDeclaration: "func var let class struct enum protocol extension import typealias init deinit",
				token.KeywordControl:     "if else guard for while repeat switch case default break continue return throw do try catch defer",
				token.KeywordModifier:    "public private fileprivate internal open static final override mutating lazy weak",
				token.Keyword:            "in is as self super",
			}),
		},
		{
			Name:              "kanso",
			Aliases:           []string{"ka"},
			Extensions:        []string{".ka"},
			LineComment:       "//",
			BlockCommentStart: "/*",
			BlockCommentEnd:   "*/",
			DocComment:        "///",
			StringDelimiters:  `"`,
			Keywords: keywords(map[token.Category]string{
				token.KeywordDeclaration: "fn let contract struct use",
				token.KeywordControl:     "if else return require",
				token.KeywordModifier:    "ext mut writes reads",
				token.Type:               "u8 u16 u32 u64 u128 u256 bool address",
			}),
		},
		{
			Name:             "shell",
			Aliases:          []string{"sh", "bash", "zsh"},
			Extensions:       []string{".sh", ".bash", ".zsh"},
			LineComment:      "#",
			StringDelimiters: "\"'`",
			Interpolation:    "$",
			Keywords: keywords(map[token.Category]string{
				token.KeywordDeclaration: "function local export readonly declare",
				token.KeywordControl:     "if then else elif fi for while until do done case esac in return break continue",
			}),
		},
		{
			Name:             "json",
			Extensions:       []string{".json"},
			StringDelimiters: `"`,
		},
	}
}
