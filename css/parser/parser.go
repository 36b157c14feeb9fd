package parser

import (
	"fmt"
	"strings"
)

// Declaration is a `name: value` pair of a declaration list.
type Declaration struct {
	Pos       Pos
	Name      string // lower case
	Value     []Token
	Important bool
}

// ParseDeclarationList splits a declaration list, like the content of
// a style attribute, on semicolons. Invalid declarations are returned
// as [ParseError] and skipped.
func ParseDeclarationList(css string) ([]Declaration, []ParseError) {
	var (
		out    []Declaration
		errs   []ParseError
		tokens = TokenizeString(css)
	)
	for len(tokens) != 0 {
		end := len(tokens)
		for i, t := range tokens {
			if lit, ok := t.(Literal); ok && lit.Value == ";" {
				end = i
				break
			}
		}
		chunk := tokens[:end]
		if end < len(tokens) {
			tokens = tokens[end+1:]
		} else {
			tokens = nil
		}
		if len(RemoveWhitespace(chunk)) == 0 {
			continue
		}
		decl, err := parseDeclaration(chunk)
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		out = append(out, decl)
	}
	return out, errs
}

func parseDeclaration(tokens []Token) (Declaration, *ParseError) {
	tokens = trimWhitespace(tokens)
	for _, t := range tokens {
		if err, ok := t.(ParseError); ok {
			return Declaration{}, &err
		}
	}
	name, ok := tokens[0].(Ident)
	if !ok {
		return Declaration{}, &ParseError{Pos: tokens[0].Position(), Message: fmt.Sprintf("expected <ident> for declaration name, got %s", Kind(tokens[0]))}
	}
	rest := trimWhitespace(tokens[1:])
	if len(rest) == 0 {
		return Declaration{}, &ParseError{Pos: name.Pos, Message: "expected ':' after declaration name, got EOF"}
	}
	if lit, ok := rest[0].(Literal); !ok || lit.Value != ":" {
		return Declaration{}, &ParseError{Pos: rest[0].Position(), Message: fmt.Sprintf("expected ':' after declaration name, got %s", Kind(rest[0]))}
	}
	value := trimWhitespace(rest[1:])

	important := false
	if n := len(value); n >= 2 {
		bang, isLit := value[n-2].(Literal)
		ident, isIdent := value[n-1].(Ident)
		if isLit && isIdent && bang.Value == "!" && strings.EqualFold(ident.Value, "important") {
			important = true
			value = trimWhitespace(value[:n-2])
		}
	}
	return Declaration{
		Pos:       name.Pos,
		Name:      strings.ToLower(name.Value),
		Value:     value,
		Important: important,
	}, nil
}

func trimWhitespace(tokens []Token) []Token {
	for len(tokens) != 0 {
		if _, ok := tokens[0].(Whitespace); !ok {
			break
		}
		tokens = tokens[1:]
	}
	for len(tokens) != 0 {
		if _, ok := tokens[len(tokens)-1].(Whitespace); !ok {
			break
		}
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// RemoveWhitespace removes the [Whitespace] tokens.
func RemoveWhitespace(tokens []Token) []Token {
	var out []Token
	for _, token := range tokens {
		if _, ok := token.(Whitespace); !ok {
			out = append(out, token)
		}
	}
	return out
}

// SplitOn splits tokens on the given delimiter (like "/" or ","),
// whitespace being removed.
func SplitOn(tokens []Token, delim string) [][]Token {
	parts := [][]Token{nil}
	for _, token := range tokens {
		if lit, ok := token.(Literal); ok && lit.Value == delim {
			parts = append(parts, nil)
			continue
		}
		if _, ok := token.(Whitespace); ok {
			continue
		}
		parts[len(parts)-1] = append(parts[len(parts)-1], token)
	}
	return parts
}

// ParseFunction returns the name of the function token and its
// arguments, whitespace removed and commas dropped. It returns an empty
// name if token is not a function or if two commas follow each other.
func ParseFunction(token Token) (string, []Token) {
	fn, ok := token.(Function)
	if !ok {
		return "", nil
	}
	var (
		args      []Token
		lastComma = true
	)
	for _, arg := range fn.Arguments {
		switch arg := arg.(type) {
		case Whitespace:
		case Literal:
			if arg.Value == "," {
				if lastComma {
					return "", nil
				}
				lastComma = true
				continue
			}
			lastComma = false
			args = append(args, arg)
		default:
			lastComma = false
			args = append(args, arg)
		}
	}
	if lastComma && len(args) != 0 { // trailing comma
		return "", nil
	}
	return strings.ToLower(fn.Name), args
}

// Kind returns a short description of the token type, used in error messages.
func Kind(token Token) string {
	switch token := token.(type) {
	case Whitespace:
		return "whitespace"
	case Ident:
		return "ident"
	case Number:
		return "number"
	case Percentage:
		return "percentage"
	case Dimension:
		return "dimension"
	case String:
		return "string"
	case Function:
		return "function"
	case Block:
		return string(token.Opening) + string(closing(token.Opening)) + " block"
	case Literal:
		return token.Value
	case ParseError:
		return "error"
	}
	return fmt.Sprintf("%T", token)
}
