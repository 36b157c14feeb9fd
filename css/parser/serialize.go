package parser

import (
	"strconv"
	"strings"
)

// Serialize writes back the tokens as CSS text. Whitespace
// is normalized to a single space.
func Serialize(tokens []Token) string {
	var w strings.Builder
	serializeTo(tokens, &w)
	return w.String()
}

func serializeTo(tokens []Token, w *strings.Builder) {
	for _, token := range tokens {
		switch token := token.(type) {
		case Whitespace:
			w.WriteByte(' ')
		case Ident:
			w.WriteString(token.Value)
		case Number:
			w.WriteString(token.Representation)
		case Percentage:
			w.WriteString(token.Representation)
			w.WriteByte('%')
		case Dimension:
			w.WriteString(token.Representation)
			w.WriteString(token.Unit)
		case String:
			w.WriteString(strconv.Quote(token.Value))
		case Function:
			w.WriteString(token.Name)
			w.WriteByte('(')
			serializeTo(token.Arguments, w)
			w.WriteByte(')')
		case Block:
			w.WriteByte(token.Opening)
			serializeTo(token.Content, w)
			w.WriteByte(closing(token.Opening))
		case Literal:
			w.WriteString(token.Value)
		case ParseError:
			w.WriteString("<error>")
		}
	}
}
