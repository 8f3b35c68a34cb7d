package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// 配置文件（profile）语法：
//
//	profile Invoice v1 {
//	  meta { title: "Invoice" }
//	  settings { padding: 4pt  fit-line-height: 1.3x }
//	  fonts { font Times ratio 0.5 { regular: "builtin:lmroman10regular" } }
//	  edits { edit "0_1" { "Hello" } }
//	}

var (
	profileLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.=:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	tokenNames       = invertSymbols(profileLexer.Symbols())
	newlineTokenType = mustTokenType("Newline")
	lbraceTokenType  = mustTokenType("LBrace")
	rbraceTokenType  = mustTokenType("RBrace")
	symbolTokenType  = mustTokenType("Symbol")
	stringTokenType  = mustTokenType("String")

	profileParser = participle.MustBuild[Profile](
		participle.Lexer(profileLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Profile is the root AST node of a profile file.
type Profile struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'profile' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section is one of meta/settings/fonts/edits.
type Section struct {
	Meta     *NamedBlock `parser:"  'meta' @@"`
	Settings *NamedBlock `parser:"| 'settings' @@"`
	Fonts    *NamedBlock `parser:"| 'fonts' @@"`
	Edits    *NamedBlock `parser:"| 'edits' @@"`
}

// Kind returns the section keyword.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Settings != nil:
		return "settings"
	case s.Fonts != nil:
		return "fonts"
	case s.Edits != nil:
		return "edits"
	default:
		return "unknown"
	}
}

// NamedBlock wraps the body of a section.
type NamedBlock struct {
	Block *Block `parser:"@@"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement is an assignment, a command or a bare string.
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Key   string `parser:"@Ident ':' Newline*"`
	Value *Value `parser:"@@"`
}

// Command is `name arg* block?`, e.g. `edit "0_1" { "text" }`.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Arg         `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// TextLiteral is a bare string statement.
type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

// Value is a single-token scalar or an array.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Ident  *string        `parser:"| @Ident"`
	Array  *ArrayValue    `parser:"| @@"`
}

// Text returns the scalar value as a string; arrays are joined with commas.
func (v *Value) Text() string {
	if v == nil {
		return ""
	}
	switch {
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	case v.Array != nil:
		return strings.Join(v.Array.Strings(), ",")
	default:
		return ""
	}
}

// ArrayValue captures `[ ... ]`.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// Strings returns the non-empty scalar items.
func (a *ArrayValue) Strings() []string {
	if a == nil {
		return nil
	}
	out := make([]string, 0, len(a.Values))
	for _, item := range a.Values {
		if s := item.Text(); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Arg is one command argument token.
type Arg struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Raw   string         `json:"raw"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable: consume tokens until the end of the command header.
func (a *Arg) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if endOfArgs(tok) {
		return participle.NextMatch
	}
	tok = lex.Next()
	name, ok := tokenNames[tok.Type]
	if !ok {
		name = fmt.Sprintf("#%d", tok.Type)
	}
	val := tok.Value
	if tok.Type == stringTokenType {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return err
		}
		val = unquoted
	}
	*a = Arg{Type: name, Value: val, Raw: tok.Value, Pos: tok.Pos}
	return nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a profile from an io.Reader.
func Parse(r io.Reader) (*Profile, error) {
	return profileParser.Parse("", r)
}

// ParseString parses a profile from a string.
func ParseString(input string) (*Profile, error) {
	return profileParser.ParseString("", input)
}

// Text concatenates the bare string statements of a block.
func (b *Block) Text() string {
	if b == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range b.Statements {
		if stmt.Text != nil {
			builder.WriteString(string(stmt.Text.Value))
		}
	}
	return builder.String()
}

// Assignments returns the key/value pairs of a block; later keys win.
func (b *Block) Assignments() map[string]*Value {
	out := map[string]*Value{}
	if b == nil {
		return out
	}
	for _, stmt := range b.Statements {
		if stmt.Assignment != nil {
			out[strings.ToLower(stmt.Assignment.Key)] = stmt.Assignment.Value
		}
	}
	return out
}

// Commands returns the commands of a block with the given name.
func (b *Block) Commands(name string) []*Command {
	if b == nil {
		return nil
	}
	var out []*Command
	for _, stmt := range b.Statements {
		if stmt.Command != nil && stmt.Command.Name == name {
			out = append(out, stmt.Command)
		}
	}
	return out
}

func endOfArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case newlineTokenType, rbraceTokenType, lbraceTokenType:
		return true
	case symbolTokenType:
		return tok.Value == ";"
	default:
		return false
	}
}

func invertSymbols(symbols map[string]lexer.TokenType) map[lexer.TokenType]string {
	out := make(map[lexer.TokenType]string, len(symbols))
	for name, tt := range symbols {
		out[tt] = name
	}
	return out
}

func mustTokenType(name string) lexer.TokenType {
	tt, ok := profileLexer.Symbols()[name]
	if !ok {
		panic(fmt.Sprintf("token %s not defined", name))
	}
	return tt
}
