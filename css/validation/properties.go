package validation

import (
	pa "github.com/benoitkugler/gridlayout/css/parser"
	pr "github.com/benoitkugler/gridlayout/css/properties"
)

var validators = map[string]validator{
	"display":   display,
	"direction": direction,

	"width":      lengthProperty(func(s *pr.Style) *pr.Length { return &s.Width }, sizeLength(false)),
	"height":     lengthProperty(func(s *pr.Style) *pr.Length { return &s.Height }, sizeLength(false)),
	"min-width":  lengthProperty(func(s *pr.Style) *pr.Length { return &s.MinWidth }, sizeLength(false)),
	"min-height": lengthProperty(func(s *pr.Style) *pr.Length { return &s.MinHeight }, sizeLength(false)),
	"max-width":  lengthProperty(func(s *pr.Style) *pr.Length { return &s.MaxWidth }, sizeLength(true)),
	"max-height": lengthProperty(func(s *pr.Style) *pr.Length { return &s.MaxHeight }, sizeLength(true)),

	"aspect-ratio": aspectRatio,
	"contain":      contain,
	"order":        order,

	"margin-top":    lengthProperty(func(s *pr.Style) *pr.Length { return &s.Margin[pr.Top] }, marginLength),
	"margin-right":  lengthProperty(func(s *pr.Style) *pr.Length { return &s.Margin[pr.Right] }, marginLength),
	"margin-bottom": lengthProperty(func(s *pr.Style) *pr.Length { return &s.Margin[pr.Bottom] }, marginLength),
	"margin-left":   lengthProperty(func(s *pr.Style) *pr.Length { return &s.Margin[pr.Left] }, marginLength),

	"padding-top":    lengthProperty(func(s *pr.Style) *pr.Length { return &s.Padding[pr.Top] }, paddingLength),
	"padding-right":  lengthProperty(func(s *pr.Style) *pr.Length { return &s.Padding[pr.Right] }, paddingLength),
	"padding-bottom": lengthProperty(func(s *pr.Style) *pr.Length { return &s.Padding[pr.Bottom] }, paddingLength),
	"padding-left":   lengthProperty(func(s *pr.Style) *pr.Length { return &s.Padding[pr.Left] }, paddingLength),

	"border-top-width":    borderWidth(pr.Top),
	"border-right-width":  borderWidth(pr.Right),
	"border-bottom-width": borderWidth(pr.Bottom),
	"border-left-width":   borderWidth(pr.Left),

	"column-gap": lengthProperty(func(s *pr.Style) *pr.Length { return &s.ColumnGap }, gapLength),
	"row-gap":    lengthProperty(func(s *pr.Style) *pr.Length { return &s.RowGap }, gapLength),

	"justify-content": alignProperty(func(s *pr.Style) *pr.AlignValue { return &s.JustifyContent }, contentAlignment(true)),
	"align-content":   alignProperty(func(s *pr.Style) *pr.AlignValue { return &s.AlignContent }, contentAlignment(false)),
	"justify-items":   alignProperty(func(s *pr.Style) *pr.AlignValue { return &s.JustifyItems }, selfAlignment(true, false)),
	"align-items":     alignProperty(func(s *pr.Style) *pr.AlignValue { return &s.AlignItems }, selfAlignment(false, false)),
	"justify-self":    alignProperty(func(s *pr.Style) *pr.AlignValue { return &s.JustifySelf }, selfAlignment(true, true)),
	"align-self":      alignProperty(func(s *pr.Style) *pr.AlignValue { return &s.AlignSelf }, selfAlignment(false, true)),

	"grid-template-columns": trackListProperty(pr.ForColumns),
	"grid-template-rows":    trackListProperty(pr.ForRows),
	"grid-template-areas":   gridTemplateAreas,
	"grid-auto-columns":     gridAuto(pr.ForColumns),
	"grid-auto-rows":        gridAuto(pr.ForRows),
	"grid-auto-flow":        gridAutoFlow,
	"masonry-auto-flow":     masonryAutoFlow,

	"grid-row-start":    gridLineProperty(func(s *pr.Style) *pr.GridLine { return &s.GridRowStart }),
	"grid-row-end":      gridLineProperty(func(s *pr.Style) *pr.GridLine { return &s.GridRowEnd }),
	"grid-column-start": gridLineProperty(func(s *pr.Style) *pr.GridLine { return &s.GridColumnStart }),
	"grid-column-end":   gridLineProperty(func(s *pr.Style) *pr.GridLine { return &s.GridColumnEnd }),
}

// initialValues is used to reset a property to its initial value,
// for the `initial` and `unset` keywords and for the omitted values
// of the shorthands.
var initialValues = map[string]string{
	"display":   "block",
	"direction": "ltr",

	"width":        "auto",
	"height":       "auto",
	"min-width":    "auto",
	"min-height":   "auto",
	"max-width":    "none",
	"max-height":   "none",
	"aspect-ratio": "auto",
	"contain":      "none",
	"order":        "0",

	"margin-top":    "0",
	"margin-right":  "0",
	"margin-bottom": "0",
	"margin-left":   "0",

	"padding-top":    "0",
	"padding-right":  "0",
	"padding-bottom": "0",
	"padding-left":   "0",

	"border-top-width":    "0",
	"border-right-width":  "0",
	"border-bottom-width": "0",
	"border-left-width":   "0",

	"column-gap": "normal",
	"row-gap":    "normal",

	"justify-content": "normal",
	"align-content":   "normal",
	"justify-items":   "normal",
	"align-items":     "normal",
	"justify-self":    "auto",
	"align-self":      "auto",

	"grid-template-columns": "none",
	"grid-template-rows":    "none",
	"grid-template-areas":   "none",
	"grid-auto-columns":     "auto",
	"grid-auto-rows":        "auto",
	"grid-auto-flow":        "row",
	"masonry-auto-flow":     "pack",

	"grid-row-start":    "auto",
	"grid-row-end":      "auto",
	"grid-column-start": "auto",
	"grid-column-end":   "auto",
}

// resetLonghand applies the initial value of the longhand name.
func resetLonghand(style *pr.Style, name string) {
	if v, ok := validators[name]; ok {
		v(pa.RemoveWhitespace(pa.TokenizeString(initialValues[name])), style)
	}
}

func lengthProperty(field func(*pr.Style) *pr.Length, parse func(Token) (pr.Length, bool)) validator {
	return func(tokens []Token, style *pr.Style) bool {
		if len(tokens) != 1 {
			return false
		}
		l, ok := parse(tokens[0])
		if ok {
			*field(style) = l
		}
		return ok
	}
}

// sizeLength parses width, height and their min and max variants.
// auto is only valid for the min sizes and sizes, none only for max sizes.
func sizeLength(isMax bool) func(Token) (pr.Length, bool) {
	return func(token Token) (pr.Length, bool) {
		switch getKeyword(token) {
		case "auto":
			return pr.AutoLength, !isMax
		case "none":
			return pr.NoneLength, isMax
		case "min-content":
			return pr.MinContentLength, true
		case "max-content":
			return pr.MaxContentLength, true
		}
		return getLength(token, false, true)
	}
}

func marginLength(token Token) (pr.Length, bool) {
	if getKeyword(token) == "auto" {
		return pr.AutoLength, true
	}
	return getLength(token, true, true)
}

func paddingLength(token Token) (pr.Length, bool) { return getLength(token, false, true) }

// gapLength stores normal as auto.
func gapLength(token Token) (pr.Length, bool) {
	if getKeyword(token) == "normal" {
		return pr.AutoLength, true
	}
	return getLength(token, false, true)
}

var borderWidthKeywords = map[string]pr.Float{"thin": 1, "medium": 3, "thick": 5}

func borderWidth(side int) validator {
	return func(tokens []Token, style *pr.Style) bool {
		if len(tokens) != 1 {
			return false
		}
		if w, ok := borderWidthKeywords[getKeyword(tokens[0])]; ok {
			style.BorderWidth[side] = w
			return true
		}
		if l, ok := getLength(tokens[0], false, false); ok {
			style.BorderWidth[side] = l.Value
			return true
		}
		return false
	}
}

func display(tokens []Token, style *pr.Style) bool {
	var keywords []string
	for _, token := range tokens {
		keywords = append(keywords, getKeyword(token))
	}
	var d pr.Display
	switch len(keywords) {
	case 1:
		switch keywords[0] {
		case "block", "flow-root":
			d = pr.DisplayBlock
		case "grid":
			d = pr.DisplayGrid
		case "inline-grid":
			d = pr.DisplayInlineGrid
		case "none":
			d = pr.DisplayNone
		default:
			return false
		}
	case 2:
		switch [2]string{keywords[0], keywords[1]} {
		case [2]string{"block", "grid"}, [2]string{"grid", "block"}:
			d = pr.DisplayGrid
		case [2]string{"inline", "grid"}, [2]string{"grid", "inline"}:
			d = pr.DisplayInlineGrid
		case [2]string{"block", "flow"}, [2]string{"flow", "block"}:
			d = pr.DisplayBlock
		default:
			return false
		}
	default:
		return false
	}
	style.Display = d
	return true
}

func direction(tokens []Token, style *pr.Style) bool {
	switch getSingleKeyword(tokens) {
	case "ltr":
		style.Direction = pr.LTR
	case "rtl":
		style.Direction = pr.RTL
	default:
		return false
	}
	return true
}

// aspectRatio accepts auto, <number> and <number> / <number>.
// `auto && <ratio>` is treated as the ratio alone.
func aspectRatio(tokens []Token, style *pr.Style) bool {
	if len(tokens) >= 2 && getKeyword(tokens[0]) == "auto" {
		tokens = tokens[1:]
	} else if len(tokens) >= 2 && getKeyword(tokens[len(tokens)-1]) == "auto" {
		tokens = tokens[:len(tokens)-1]
	}
	if getSingleKeyword(tokens) == "auto" {
		style.AspectRatio = 0
		return true
	}
	parts := pa.SplitOn(tokens, "/")
	var values []pr.Float
	for _, part := range parts {
		if len(part) != 1 {
			return false
		}
		nb, ok := part[0].(pa.Number)
		if !ok || nb.ValueF < 0 {
			return false
		}
		values = append(values, nb.ValueF)
	}
	switch len(values) {
	case 1:
		style.AspectRatio = values[0]
	case 2:
		if values[1] == 0 { // degenerate ratio
			style.AspectRatio = 0
		} else {
			style.AspectRatio = values[0] / values[1]
		}
	default:
		return false
	}
	return true
}

func contain(tokens []Token, style *pr.Style) bool {
	if kw := getSingleKeyword(tokens); kw == "none" || kw == "content" {
		style.Contain = 0
		return true
	} else if kw == "strict" {
		style.Contain = pr.ContainSize
		return true
	}
	var (
		out  pr.Contain
		seen = map[string]bool{}
	)
	for _, token := range tokens {
		kw := getKeyword(token)
		if seen[kw] {
			return false
		}
		seen[kw] = true
		switch kw {
		case "size":
			out |= pr.ContainSize
		case "inline-size":
			out |= pr.ContainInlineSize
		case "layout", "style", "paint":
		default:
			return false
		}
	}
	if seen["size"] && seen["inline-size"] {
		return false
	}
	style.Contain = out
	return true
}

func order(tokens []Token, style *pr.Style) bool {
	if len(tokens) != 1 {
		return false
	}
	v, ok := getInteger(tokens[0])
	if ok {
		style.Order = v
	}
	return ok
}

func alignProperty(field func(*pr.Style) *pr.AlignValue, parse func([]Token) (pr.AlignValue, bool)) validator {
	return func(tokens []Token, style *pr.Style) bool {
		v, ok := parse(tokens)
		if ok {
			*field(style) = v
		}
		return ok
	}
}

var positionKeywords = map[string]pr.Align{
	"start":      pr.AlignStart,
	"end":        pr.AlignEnd,
	"center":     pr.AlignCenter,
	"flex-start": pr.AlignFlexStart,
	"flex-end":   pr.AlignFlexEnd,
	"self-start": pr.AlignSelfStart,
	"self-end":   pr.AlignSelfEnd,
	"left":       pr.AlignLeft,
	"right":      pr.AlignRight,
}

// parsePosition parses [ safe | unsafe ]? <position>.
// left and right are only valid in the inline axis, self-start and
// self-end only for items.
func parsePosition(tokens []Token, inline, forItems bool) (pr.AlignValue, bool) {
	var safe bool
	if len(tokens) == 2 {
		switch getKeyword(tokens[0]) {
		case "safe":
			safe = true
		case "unsafe":
		default:
			return pr.AlignValue{}, false
		}
		tokens = tokens[1:]
	}
	align, ok := positionKeywords[getSingleKeyword(tokens)]
	if !ok {
		return pr.AlignValue{}, false
	}
	if (align == pr.AlignLeft || align == pr.AlignRight) && !inline {
		return pr.AlignValue{}, false
	}
	if (align == pr.AlignSelfStart || align == pr.AlignSelfEnd) && !forItems {
		return pr.AlignValue{}, false
	}
	return pr.AlignValue{Align: align, Safe: safe}, true
}

func parseBaseline(tokens []Token) (pr.AlignValue, bool) {
	switch len(tokens) {
	case 1:
		if getKeyword(tokens[0]) == "baseline" {
			return pr.AlignValue{Align: pr.AlignBaseline}, true
		}
	case 2:
		if getKeyword(tokens[1]) != "baseline" {
			break
		}
		switch getKeyword(tokens[0]) {
		case "first":
			return pr.AlignValue{Align: pr.AlignBaseline}, true
		case "last":
			return pr.AlignValue{Align: pr.AlignLastBaseline}, true
		}
	}
	return pr.AlignValue{}, false
}

// contentAlignment parses justify-content and align-content.
func contentAlignment(inline bool) func([]Token) (pr.AlignValue, bool) {
	return func(tokens []Token) (pr.AlignValue, bool) {
		switch getSingleKeyword(tokens) {
		case "normal":
			return pr.AlignValue{Align: pr.AlignNormal}, true
		case "stretch":
			return pr.AlignValue{Align: pr.AlignStretch}, true
		case "space-between":
			return pr.AlignValue{Align: pr.AlignSpaceBetween}, true
		case "space-around":
			return pr.AlignValue{Align: pr.AlignSpaceAround}, true
		case "space-evenly":
			return pr.AlignValue{Align: pr.AlignSpaceEvenly}, true
		}
		if !inline {
			if v, ok := parseBaseline(tokens); ok {
				return v, true
			}
		}
		return parsePosition(tokens, inline, false)
	}
}

// selfAlignment parses the *-items and *-self properties.
func selfAlignment(inline, isSelf bool) func([]Token) (pr.AlignValue, bool) {
	return func(tokens []Token) (pr.AlignValue, bool) {
		switch getSingleKeyword(tokens) {
		case "auto":
			if isSelf {
				return pr.AlignValue{Align: pr.AlignAuto}, true
			}
			return pr.AlignValue{}, false
		case "normal", "legacy":
			return pr.AlignValue{Align: pr.AlignNormal}, true
		case "stretch":
			return pr.AlignValue{Align: pr.AlignStretch}, true
		}
		if v, ok := parseBaseline(tokens); ok {
			return v, true
		}
		return parsePosition(tokens, inline, true)
	}
}
