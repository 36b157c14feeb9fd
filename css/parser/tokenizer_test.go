package parser

import (
	"testing"

	tu "github.com/benoitkugler/gridlayout/utils/testutils"
)

func TestTokenize(t *testing.T) {
	tokens := TokenizeString("minmax(10px, 1fr) 25% [a b] 3 -1.5e1 'str' /")
	tu.AssertEqual(t, Kind(tokens[0]), "function")
	fn := tokens[0].(Function)
	tu.AssertEqual(t, fn.Name, "minmax")
	tu.AssertEqual(t, len(fn.Arguments), 4) // 10px , ws 1fr
	tu.AssertEqual(t, fn.Arguments[0], Token(Dimension{Pos: Pos{1, 8}, ValueF: 10, Representation: "10", Unit: "px"}))

	significant := RemoveWhitespace(tokens)
	var kinds []string
	for _, tok := range significant {
		kinds = append(kinds, Kind(tok))
	}
	tu.AssertEqual(t, kinds, []string{"function", "percentage", "[] block", "number", "number", "string", "/"})

	number := significant[3].(Number)
	tu.AssertEqual(t, number.IsInt(), true)
	tu.AssertEqual(t, number.Int(), 3)
	tu.AssertEqual(t, significant[4].(Number).ValueF, -15.)
	tu.AssertEqual(t, significant[4].(Number).IsInt(), false)
	tu.AssertEqual(t, significant[5].(String).Value, "str")

	names := RemoveWhitespace(significant[2].(Block).Content)
	tu.AssertEqual(t, names, []Token{Ident{Pos: Pos{1, 24}, Value: "a"}, Ident{Pos: Pos{1, 26}, Value: "b"}})
}

func TestTokenizePositions(t *testing.T) {
	tokens := RemoveWhitespace(TokenizeString("a\n  b /* comment */ c"))
	tu.AssertEqual(t, tokens, []Token{
		Ident{Pos: Pos{1, 1}, Value: "a"},
		Ident{Pos: Pos{2, 3}, Value: "b"},
		Ident{Pos: Pos{2, 19}, Value: "c"},
	})
}

func TestTokenizeEscapes(t *testing.T) {
	tokens := TokenizeString(`\61 b "x\"y"`)
	tu.AssertEqual(t, tokens[0].(Ident).Value, "ab")
	tu.AssertEqual(t, tokens[2].(String).Value, `x"y`)
}

func TestTokenizeErrors(t *testing.T) {
	for _, input := range []string{
		"a ]",
		"'unterminated",
		"'bad\nstring'",
		"[a b",
	} {
		var found bool
		for _, tok := range TokenizeString(input) {
			if _, ok := tok.(ParseError); ok {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected a parse error for %q", input)
		}
	}
}

func TestSerialize(t *testing.T) {
	for _, input := range []string{
		"repeat(2, [a] 10px)",
		"1fr / auto 50%",
		`"a b" 40px`,
	} {
		tu.AssertEqual(t, Serialize(TokenizeString(input)), input)
	}
}
