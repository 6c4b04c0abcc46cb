package scanner

import "strings"

// Kind identifies the type of a token.
type Kind uint8

const (
	EOF Kind = iota
	LParen
	RParen
	Ident
	String
	Number
	True
	False

	// Comparison operators.
	Eq
	Neq
	Lt
	Lte
	Gt
	Gte

	// Logical connectives.
	And
	Or

	// Keyword forms.
	Say
	Set
	Give
	Pick
	Cond
	Else
	Option
	Offer
	Spend
	End

	// Named effects.
	ShopMenu
	ShopSelect
	BlessMight
	BlessGrace
	BlessWard
)

// Token is one lexical unit of a dialogue script.
type Token struct {
	Kind   Kind
	Lexeme string
}

// keywords maps lowercased identifiers to their token kinds.
// Matching is case-insensitive; anything not listed scans as Ident.
var keywords = map[string]Kind{
	"true":  True,
	"false": False,

	"and": And,
	"or":  Or,

	"say":    Say,
	"set":    Set,
	"give":   Give,
	"pick":   Pick,
	"cond":   Cond,
	"else":   Else,
	"option": Option,
	"offer":  Offer,
	"spend":  Spend,
	"end":    End,

	"shop-menu":      ShopMenu,
	"shop-select":    ShopSelect,
	"blessing-might": BlessMight,
	"blessing-grace": BlessGrace,
	"blessing-ward":  BlessWard,
}

var kindNames = map[Kind]string{
	EOF:        "end of input",
	LParen:     "'('",
	RParen:     "')'",
	Ident:      "identifier",
	String:     "string",
	Number:     "number",
	True:       "'true'",
	False:      "'false'",
	Eq:         "'='",
	Neq:        "'!='",
	Lt:         "'<'",
	Lte:        "'<='",
	Gt:         "'>'",
	Gte:        "'>='",
	And:        "'and'",
	Or:         "'or'",
	Say:        "'say'",
	Set:        "'set'",
	Give:       "'give'",
	Pick:       "'pick'",
	Cond:       "'cond'",
	Else:       "'else'",
	Option:     "'option'",
	Offer:      "'offer'",
	Spend:      "'spend'",
	End:        "'end'",
	ShopMenu:   "'shop-menu'",
	ShopSelect: "'shop-select'",
	BlessMight: "'blessing-might'",
	BlessGrace: "'blessing-grace'",
	BlessWard:  "'blessing-ward'",
}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown token"
}

// lookupKeyword resolves an identifier lexeme to its keyword kind,
// or Ident if it is not a keyword.
func lookupKeyword(lexeme string) Kind {
	if k, ok := keywords[strings.ToLower(lexeme)]; ok {
		return k
	}
	return Ident
}
