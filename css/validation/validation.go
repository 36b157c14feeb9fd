// Package validation checks the declarations of style attributes
// and converts them to computed [pr.Style] values.
//
// Only the properties used by the grid layout are supported: the grid
// properties, the box model (sizes, margins, borders, paddings), the
// alignment properties and a few others like order or aspect-ratio.
package validation

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/cases"

	pa "github.com/benoitkugler/gridlayout/css/parser"
	pr "github.com/benoitkugler/gridlayout/css/properties"
)

var (
	ErrInvalidValue    = errors.New("invalid or unsupported values for a known CSS property")
	ErrUnknownProperty = errors.New("unknown property")
)

type Token = pa.Token

// validator parses a longhand property into the style.
// It returns false for invalid values, leaving style untouched.
type validator func(tokens []Token, style *pr.Style) bool

// lengthUnits converts the absolute units to px. Relative font units
// use a fixed 16px font size.
var lengthUnits = map[string]pr.Float{
	"px":  1,
	"pt":  4. / 3,
	"pc":  16,
	"in":  96,
	"cm":  96 / 2.54,
	"mm":  96 / 25.4,
	"q":   96 / 101.6,
	"em":  16,
	"rem": 16,
}

// ParseDeclarations returns the initial style modified by the
// declarations of css.
func ParseDeclarations(css string) (pr.Style, error) {
	style := pr.InitialStyle()
	err := ApplyDeclarations(&style, css)
	return style, err
}

// ApplyDeclarations parses the declaration list css (like a style attribute)
// and applies the valid declarations on style, in order.
// Invalid declarations are skipped, and reported in the returned error,
// which is a [*multierror.Error] when not nil.
func ApplyDeclarations(style *pr.Style, css string) error {
	var errs *multierror.Error
	declarations, parseErrors := pa.ParseDeclarationList(css)
	for _, err := range parseErrors {
		errs = multierror.Append(errs, err)
	}
	for _, decl := range declarations {
		if err := ApplyDeclaration(style, decl.Name, decl.Value); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", decl.Pos, err))
		}
	}
	return errs.ErrorOrNil()
}

// ApplyDeclaration validates one property, longhand or shorthand,
// and sets its value(s) in style.
func ApplyDeclaration(style *pr.Style, name string, tokens []Token) error {
	tokens = pa.RemoveWhitespace(tokens)
	for _, token := range tokens {
		if err, ok := token.(pa.ParseError); ok {
			return err
		}
	}
	if len(tokens) == 0 {
		return fmt.Errorf("ignored %s: %w", name, ErrInvalidValue)
	}
	// the css-wide keywords act as the initial value
	if kw := getSingleKeyword(tokens); kw == "initial" || kw == "unset" {
		resetProperty(style, name)
		return nil
	}

	if expander, ok := expanders[name]; ok {
		// shorthands are applied atomically
		tmp := *style
		if !expander(tokens, &tmp) {
			return fmt.Errorf("ignored %s: %s: %w", name, pa.Serialize(tokens), ErrInvalidValue)
		}
		*style = tmp
		return nil
	}
	validator, ok := validators[name]
	if !ok {
		return fmt.Errorf("ignored %s: %w", name, ErrUnknownProperty)
	}
	if !validator(tokens, style) {
		return fmt.Errorf("ignored %s: %s: %w", name, pa.Serialize(tokens), ErrInvalidValue)
	}
	return nil
}

// resetProperty sets the initial value of the longhands of name.
func resetProperty(style *pr.Style, name string) {
	for _, longhand := range longhands(name) {
		resetLonghand(style, longhand)
	}
}

// fold returns the case folded keyword. A new caser is used for
// each call, since they are not safe for concurrent use.
func fold(s string) string { return cases.Fold().String(s) }

// If `token` is [pa.Ident], return its folded name.
// Otherwise return empty string.
func getKeyword(token Token) string {
	if ident, ok := token.(pa.Ident); ok {
		return fold(ident.Value)
	}
	return ""
}

// If `tokens` is a 1-element list of [pa.Ident], return its name.
// Otherwise return empty string.
func getSingleKeyword(tokens []Token) string {
	if len(tokens) == 1 {
		return getKeyword(tokens[0])
	}
	return ""
}

// getLength parses a <length> or, if percentage is true, a <percentage>.
func getLength(token Token, negative, percentage bool) (pr.Length, bool) {
	switch token := token.(type) {
	case pa.Percentage:
		if percentage && (negative || token.ValueF >= 0) {
			return pr.Pct(token.ValueF), true
		}
	case pa.Dimension:
		factor, isKnown := lengthUnits[fold(token.Unit)]
		if isKnown && (negative || token.ValueF >= 0) {
			return pr.Px(token.ValueF * factor), true
		}
	case pa.Number:
		if token.ValueF == 0 {
			return pr.Px(0), true
		}
	}
	return pr.Length{}, false
}

func getInteger(token Token) (int, bool) {
	if number, ok := token.(pa.Number); ok && number.IsInt() {
		return number.Int(), true
	}
	return 0, false
}
