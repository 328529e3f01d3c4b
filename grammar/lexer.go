package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var LevelLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Level names must win over identifiers (order matters)
		{"Level", `O[0-3sz]\b`, nil},

		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},

		{"Punctuation", `[<>-]`, nil},

		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
