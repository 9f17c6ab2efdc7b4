package tzrule

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Numbers are captured as strings: participle converts integer captures
// with base prefix detection, which would read "08" as a bad octal number.

type tzGrammar struct {
	Std    *nameGrammar   `@@`
	StdOff *offsetGrammar `@@`
	DST    *dstGrammar    `@@?`
}

type nameGrammar struct {
	Quoted string `  @Quoted`
	Alpha  string `| @Alpha`
}

type offsetGrammar struct {
	Sign    string `@("+" | "-")?`
	Hours   string `@Number`
	Minutes string `(":" @Number`
	Seconds string ` (":" @Number)? )?`
}

type dstGrammar struct {
	Name  *nameGrammar   `@@`
	Off   *offsetGrammar `@@?`
	Start *dateGrammar   `("," @@`
	End   *dateGrammar   ` ("," @@)? )?`
}

type dateGrammar struct {
	Date *dateSpec      `@@`
	Time *offsetGrammar `("/" @@)?`
}

type dateSpec struct {
	Julian string      `  "J" @Number`
	MWD    *mwdGrammar `| @@`
	Zero   string      `| @Number`
}

type mwdGrammar struct {
	Month   string `"M" @Number`
	Week    string `"." @Number`
	Weekday string `"." @Number`
}

var tzLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Quoted", Pattern: `<[^<>]*>`},
	{Name: "Alpha", Pattern: `[A-Za-z]+`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[-+:,./]`},
})

var tzParser = participle.MustBuild[tzGrammar](
	participle.Lexer(tzLexer),
	participle.UseLookahead(2),
)
