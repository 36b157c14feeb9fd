// Package parser implements the subset of the CSS syntax needed to read
// the declarations of style attributes: a tokenizer producing component
// values, and a declaration list splitter.
package parser

import (
	"fmt"
	"strconv"

	"github.com/benoitkugler/gridlayout/utils"
)

// Pos is the position of a token in the source, starting at line 1, column 1.
type Pos struct {
	Line, Column int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Token is a component value.
type Token interface {
	Position() Pos
	isToken()
}

type (
	Whitespace struct {
		Pos Pos
	}

	// Ident is an identifier, like `auto` or a custom name.
	Ident struct {
		Pos   Pos
		Value string
	}

	// Number is a number without unit.
	Number struct {
		Pos            Pos
		ValueF         utils.Fl
		Representation string
		IsInteger      bool
	}

	Percentage struct {
		Pos            Pos
		ValueF         utils.Fl
		Representation string
	}

	Dimension struct {
		Pos            Pos
		ValueF         utils.Fl
		Representation string
		Unit           string // as written
	}

	// String is a quoted string, without its quotes.
	String struct {
		Pos   Pos
		Value string
	}

	// Function is a function call like `minmax(...)`, Arguments
	// holding its content.
	Function struct {
		Pos       Pos
		Name      string
		Arguments []Token
	}

	// Block is a [], () or {} block.
	Block struct {
		Pos     Pos
		Opening byte
		Content []Token
	}

	// Literal is any other single character token, like `,`, `/` or `;`.
	Literal struct {
		Pos   Pos
		Value string
	}

	// ParseError is emitted for unmatched brackets and unterminated strings.
	ParseError struct {
		Pos     Pos
		Message string
	}
)

func (Whitespace) isToken() {}
func (Ident) isToken()      {}
func (Number) isToken()     {}
func (Percentage) isToken() {}
func (Dimension) isToken()  {}
func (String) isToken()     {}
func (Function) isToken()   {}
func (Block) isToken()      {}
func (Literal) isToken()    {}
func (ParseError) isToken() {}

func (t Whitespace) Position() Pos { return t.Pos }
func (t Ident) Position() Pos      { return t.Pos }
func (t Number) Position() Pos     { return t.Pos }
func (t Percentage) Position() Pos { return t.Pos }
func (t Dimension) Position() Pos  { return t.Pos }
func (t String) Position() Pos     { return t.Pos }
func (t Function) Position() Pos   { return t.Pos }
func (t Block) Position() Pos      { return t.Pos }
func (t Literal) Position() Pos    { return t.Pos }
func (t ParseError) Position() Pos { return t.Pos }

func (t ParseError) Error() string { return fmt.Sprintf("%s: %s", t.Pos, t.Message) }

// IsInt returns true if the number is written without fractional part
// or exponent.
func (t Number) IsInt() bool { return t.IsInteger }

// Int returns the integer value of the number.
func (t Number) Int() int {
	v, _ := strconv.Atoi(t.Representation)
	return v
}

// IsSquareBrackets returns true for [] blocks, used for line names.
func (t Block) IsSquareBrackets() bool { return t.Opening == '[' }
