package parser

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	numberRe    = regexp.MustCompile(`^[-+]?([0-9]*\.)?[0-9]+([eE][+-]?[0-9]+)?`)
	hexEscapeRe = regexp.MustCompile(`^([0-9A-Fa-f]{1,6})[ \n\t]?`)
)

type nestedBlock struct {
	tokens  *[]Token
	endChar byte
}

// TokenizeString is a convenience wrapper around [Tokenize].
func TokenizeString(css string) []Token { return Tokenize([]byte(css)) }

// Tokenize parses a list of component values. Comments are dropped.
// Syntax errors are reported as [ParseError] tokens, the tokenizer
// always consuming the whole input.
func Tokenize(css []byte) []Token {
	css = bytes.ReplaceAll(css, []byte("\u0000"), []byte("�"))
	css = bytes.ReplaceAll(css, []byte("\r\n"), []byte("\n"))
	css = bytes.ReplaceAll(css, []byte("\r"), []byte("\n"))
	css = bytes.ReplaceAll(css, []byte("\f"), []byte("\n"))

	length := len(css)
	tokenStartPos, pos := 0, 0
	line, lastNewline := 1, -1
	var out []Token  // possibly nested tokens
	ts := &out       // current list of tokens
	var endChar byte // pop the stack when encountering this character
	var stack []nestedBlock

	push := func(content *[]Token, end byte) {
		stack = append(stack, nestedBlock{tokens: ts, endChar: endChar})
		ts, endChar = content, end
	}

	for pos < length {
		newline := bytes.LastIndexByte(css[tokenStartPos:pos], '\n')
		if newline != -1 {
			newline += tokenStartPos
			line += 1 + bytes.Count(css[tokenStartPos:newline], []byte{'\n'})
			lastNewline = newline
		}
		tokenPos := Pos{Line: line, Column: pos - lastNewline}

		tokenStartPos = pos
		c := css[pos]

		if c == ' ' || c == '\n' || c == '\t' {
			for pos++; pos < length; pos++ {
				if u := css[pos]; !(u == ' ' || u == '\n' || u == '\t') {
					break
				}
			}
			*ts = append(*ts, Whitespace{Pos: tokenPos})
			continue
		}

		if isIdentStart(css, pos) {
			var value string
			value, pos = consumeIdent(css, pos)
			if !(pos < length && css[pos] == '(') {
				*ts = append(*ts, Ident{Pos: tokenPos, Value: value})
				continue
			}
			pos++ // skip the "("
			fn := &Function{Pos: tokenPos, Name: value}
			*ts = append(*ts, fn)
			push(&fn.Arguments, ')')
			continue
		}

		if match := numberRe.FindIndex(css[pos:]); match != nil {
			repr := string(css[pos : pos+match[1]])
			pos += match[1]
			value, _ := strconv.ParseFloat(repr, 64)
			if value == 0 {
				value = 0 // avoid -0
			}
			_, err := strconv.Atoi(repr)
			if pos < length && isIdentStart(css, pos) {
				var unit string
				unit, pos = consumeIdent(css, pos)
				*ts = append(*ts, Dimension{Pos: tokenPos, ValueF: value, Representation: repr, Unit: unit})
			} else if pos < length && css[pos] == '%' {
				pos++
				*ts = append(*ts, Percentage{Pos: tokenPos, ValueF: value, Representation: repr})
			} else {
				*ts = append(*ts, Number{Pos: tokenPos, ValueF: value, Representation: repr, IsInteger: err == nil})
			}
			continue
		}

		switch c {
		case '[', '(', '{':
			block := &Block{Pos: tokenPos, Opening: c}
			*ts = append(*ts, block)
			push(&block.Content, closing(c))
			pos++
		case endChar: // matching ], ) or }; the top-level endChar is 0 and never matches
			var block nestedBlock
			block, stack = stack[len(stack)-1], stack[:len(stack)-1]
			ts, endChar = block.tokens, block.endChar
			pos++
		case ']', ')', '}':
			*ts = append(*ts, ParseError{Pos: tokenPos, Message: "unmatched " + string(c)})
			pos++
		case '\'', '"':
			var (
				value string
				ok    bool
			)
			value, pos, ok = consumeQuotedString(css, pos)
			if ok {
				*ts = append(*ts, String{Pos: tokenPos, Value: value})
			} else {
				*ts = append(*ts, ParseError{Pos: tokenPos, Message: "bad string token"})
			}
		default:
			if bytes.HasPrefix(css[pos:], []byte("/*")) {
				index := bytes.Index(css[pos+2:], []byte("*/"))
				if index == -1 {
					pos = length
				} else {
					pos += 2 + index + 2
				}
				continue
			}
			r, w := utf8.DecodeRune(css[pos:])
			pos += w
			*ts = append(*ts, Literal{Pos: tokenPos, Value: string(r)})
		}
	}
	if len(stack) != 0 {
		out = append(out, ParseError{Pos: Pos{Line: line, Column: pos - lastNewline}, Message: "unclosed block"})
	}
	return derefBlocks(out)
}

func closing(c byte) byte {
	switch c {
	case '[':
		return ']'
	case '(':
		return ')'
	default:
		return '}'
	}
}

// derefBlocks replaces the *Function and *Block placeholders, used
// while filling nested content, by values.
func derefBlocks(tokens []Token) []Token {
	for i, t := range tokens {
		switch t := t.(type) {
		case *Function:
			t.Arguments = derefBlocks(t.Arguments)
			tokens[i] = *t
		case *Block:
			t.Content = derefBlocks(t.Content)
			tokens[i] = *t
		}
	}
	return tokens
}

// Return true if the given character is a name-start code point.
func isNameStart(css []byte, pos int) bool {
	// https://www.w3.org/TR/css-syntax-3/#name-start-code-point
	c, _ := utf8.DecodeRune(css[pos:])
	return c > 0x7F || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

// Return true if the given position is the start of a CSS identifier.
func isIdentStart(css []byte, pos int) bool {
	// https://www.w3.org/TR/css-syntax-3/#would-start-an-identifier
	if isNameStart(css, pos) {
		return true
	} else if css[pos] == '-' {
		pos++
		if pos >= len(css) {
			return false
		}
		nameStart := isNameStart(css, pos) || css[pos] == '-'
		validEscape := css[pos] == '\\' && !bytes.HasPrefix(css[pos:], []byte("\\\n"))
		return nameStart || validEscape
	} else if css[pos] == '\\' {
		return !bytes.HasPrefix(css[pos:], []byte("\\\n"))
	}
	return false
}

func consumeIdent(value []byte, pos int) (string, int) {
	// http://dev.w3.org/csswg/css-syntax/#consume-a-name
	var chunks strings.Builder
	L := len(value)
	startPos := pos
	for pos < L {
		c, w := utf8.DecodeRune(value[pos:])
		if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '-' || c == '_' || c > 0x7F {
			pos += w
		} else if c == '\\' && !bytes.HasPrefix(value[pos:], []byte("\\\n")) {
			chunks.Write(value[startPos:pos])
			var car string
			car, pos = consumeEscape(value, pos+w)
			chunks.WriteString(car)
			startPos = pos
		} else {
			break
		}
	}
	chunks.Write(value[startPos:pos])
	return chunks.String(), pos
}

// consumeQuotedString returns the unescaped value, the new position and
// false for unescaped newlines and unterminated strings.
// css[pos] is assumed to be a quote.
func consumeQuotedString(css []byte, pos int) (string, int, bool) {
	// http://dev.w3.org/csswg/css-syntax/#consume-a-string-token
	quote := rune(css[pos])
	pos++
	var chunks strings.Builder
	length := len(css)
	startPos := pos
	for pos < length {
		c, w := utf8.DecodeRune(css[pos:])
		switch c {
		case quote:
			chunks.Write(css[startPos:pos])
			return chunks.String(), pos + w, true
		case '\\':
			chunks.Write(css[startPos:pos])
			pos += w
			if pos < length {
				if css[pos] == '\n' { // escaped newlines are ignored
					pos++
				} else {
					var cs string
					cs, pos = consumeEscape(css, pos)
					chunks.WriteString(cs)
				}
			}
			startPos = pos
		case '\n':
			return "", pos, false
		default:
			pos += w
		}
	}
	return "", pos, false
}

// consumeEscape returns (unescapedChar, newPos).
// It assumes a valid escape: pos is just after '\' and not followed by '\n'.
func consumeEscape(css []byte, pos int) (string, int) {
	// http://dev.w3.org/csswg/css-syntax/#consume-an-escaped-character
	if hexMatch := hexEscapeRe.FindSubmatch(css[pos:]); len(hexMatch) >= 2 {
		codepoint, _ := strconv.ParseInt(string(hexMatch[1]), 16, 0) // validated by the regexp
		char := "�"
		if 0 < codepoint && codepoint <= unicode.MaxRune {
			char = string(rune(codepoint))
		}
		return char, pos + len(hexMatch[0])
	} else if pos < len(css) {
		r, w := utf8.DecodeRune(css[pos:])
		return string(r), pos + w
	}
	return "�", pos
}
