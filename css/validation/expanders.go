package validation

import (
	pa "github.com/benoitkugler/gridlayout/css/parser"
	pr "github.com/benoitkugler/gridlayout/css/properties"
)

// expander applies a shorthand property on style, returning false
// for invalid values. style is a copy, discarded on failure.
type expander func(tokens []Token, style *pr.Style) bool

var expanders = map[string]expander{
	"margin":        expandFourSides("margin"),
	"padding":       expandFourSides("padding"),
	"border-width":  expandFourSides("border-width"),
	"gap":           expandGap,
	"grid-row":      expandGridRowColumn(pr.ForRows),
	"grid-column":   expandGridRowColumn(pr.ForColumns),
	"grid-area":     expandGridArea,
	"grid-template": expandGridTemplate,
	"grid":          expandGrid,
	"place-content": expandPlace("align-content", "justify-content"),
	"place-items":   expandPlace("align-items", "justify-items"),
	"place-self":    expandPlace("align-self", "justify-self"),
}

var shorthands = map[string][]string{
	"margin":        {"margin-top", "margin-right", "margin-bottom", "margin-left"},
	"padding":       {"padding-top", "padding-right", "padding-bottom", "padding-left"},
	"border-width":  {"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"},
	"gap":           {"row-gap", "column-gap"},
	"grid-row":      {"grid-row-start", "grid-row-end"},
	"grid-column":   {"grid-column-start", "grid-column-end"},
	"grid-area":     {"grid-row-start", "grid-column-start", "grid-row-end", "grid-column-end"},
	"grid-template": {"grid-template-rows", "grid-template-columns", "grid-template-areas"},
	"grid": {
		"grid-template-rows", "grid-template-columns", "grid-template-areas",
		"grid-auto-rows", "grid-auto-columns", "grid-auto-flow",
	},
	"place-content": {"align-content", "justify-content"},
	"place-items":   {"align-items", "justify-items"},
	"place-self":    {"align-self", "justify-self"},
}

// longhands returns the longhands set by name, which is
// name itself for a longhand.
func longhands(name string) []string {
	if l, ok := shorthands[name]; ok {
		return l
	}
	return []string{name}
}

// applyLonghand validates tokens as the longhand name.
func applyLonghand(style *pr.Style, name string, tokens []Token) bool {
	return validators[name](tokens, style)
}

// expandFourSides expands properties with four sides,
// like margin or padding.
func expandFourSides(name string) expander {
	sides := shorthands[name]
	return func(tokens []Token, style *pr.Style) bool {
		// top, right, bottom, left
		var values [4]Token
		switch len(tokens) {
		case 1:
			values = [4]Token{tokens[0], tokens[0], tokens[0], tokens[0]}
		case 2:
			values = [4]Token{tokens[0], tokens[1], tokens[0], tokens[1]}
		case 3:
			values = [4]Token{tokens[0], tokens[1], tokens[2], tokens[1]}
		case 4:
			values = [4]Token{tokens[0], tokens[1], tokens[2], tokens[3]}
		default:
			return false
		}
		for i, side := range sides {
			if !applyLonghand(style, side, values[i:i+1]) {
				return false
			}
		}
		return true
	}
}

// Expand the “gap“ property: row-gap, then column-gap.
func expandGap(tokens []Token, style *pr.Style) bool {
	switch len(tokens) {
	case 1:
		return applyLonghand(style, "row-gap", tokens) && applyLonghand(style, "column-gap", tokens)
	case 2:
		return applyLonghand(style, "row-gap", tokens[:1]) && applyLonghand(style, "column-gap", tokens[1:])
	}
	return false
}

// defaultEndLine returns the value used for an omitted end line:
// the start value if it is a custom identifier, auto otherwise.
func defaultEndLine(start pr.GridLine) pr.GridLine {
	if start.IsCustomIdent() {
		return start
	}
	return pr.GridLine{Tag: pr.LineAuto}
}

// parseGridLines parses the `/` separated lines of the grid-row,
// grid-column and grid-area shorthands.
func parseGridLines(tokens []Token, maxLines int) ([]pr.GridLine, bool) {
	parts := pa.SplitOn(tokens, "/")
	if len(parts) > maxLines {
		return nil, false
	}
	var out []pr.GridLine
	for _, part := range parts {
		line, ok := parseGridLine(part)
		if !ok {
			return nil, false
		}
		out = append(out, line)
	}
	return out, true
}

// Expand the “grid-row“ and “grid-column“ properties.
func expandGridRowColumn(d pr.GridDirection) expander {
	return func(tokens []Token, style *pr.Style) bool {
		lines, ok := parseGridLines(tokens, 2)
		if !ok {
			return false
		}
		start, end := lines[0], defaultEndLine(lines[0])
		if len(lines) == 2 {
			end = lines[1]
		}
		if d == pr.ForRows {
			style.GridRowStart, style.GridRowEnd = start, end
		} else {
			style.GridColumnStart, style.GridColumnEnd = start, end
		}
		return true
	}
}

// Expand the “grid-area“ property:
// row-start / column-start / row-end / column-end.
func expandGridArea(tokens []Token, style *pr.Style) bool {
	lines, ok := parseGridLines(tokens, 4)
	if !ok {
		return false
	}
	// an omitted line defaults from this one
	sources := [4]int{0, 0, 0, 1}
	var all [4]pr.GridLine
	copy(all[:], lines)
	for i := len(lines); i < 4; i++ {
		all[i] = defaultEndLine(all[sources[i]])
	}
	style.GridRowStart, style.GridColumnStart = all[0], all[1]
	style.GridRowEnd, style.GridColumnEnd = all[2], all[3]
	return true
}

// Expand the “grid-template“ property.
func expandGridTemplate(tokens []Token, style *pr.Style) bool {
	if getSingleKeyword(tokens) == "none" {
		style.GridTemplateRows = pr.TrackList{}
		style.GridTemplateColumns = pr.TrackList{}
		style.GridTemplateAreas = pr.GridTemplateAreas{}
		return true
	}
	parts := pa.SplitOn(tokens, "/")
	if len(parts) > 2 {
		return false
	}
	// <grid-template-rows> / <grid-template-columns>
	if len(parts) == 2 {
		rows, okR := parseTrackList(parts[0])
		columns, okC := parseTrackList(parts[1])
		if okR && okC {
			style.GridTemplateRows, style.GridTemplateColumns = rows, columns
			style.GridTemplateAreas = pr.GridTemplateAreas{}
			return true
		}
	}
	// [ <line-names>? <string> <track-size>? <line-names>? ]+ [ / <explicit-track-list> ]?
	columns := pr.TrackList{}
	if len(parts) == 2 {
		var ok bool
		columns, ok = parseTrackList(parts[1])
		if !ok || len(columns.AutoRepeat) != 0 || columns.Subgrid || columns.Masonry {
			return false
		}
	}
	rows, areas, ok := parseAreasTemplate(parts[0])
	if !ok {
		return false
	}
	style.GridTemplateRows, style.GridTemplateColumns = rows, columns
	style.GridTemplateAreas = areas
	return true
}

// parseAreasTemplate parses the rows of the ASCII art syntax of grid-template,
// returning the row track list and the areas.
func parseAreasTemplate(tokens []Token) (pr.TrackList, pr.GridTemplateAreas, bool) {
	const (
		beforeRow = iota
		afterStartNames
		afterString
		afterSize
		afterEndNames
	)
	var (
		b     trackListBuilder
		rows  []string
		state = beforeRow
	)
	for _, token := range tokens {
		if names, ok := parseLineNames(token); ok {
			switch state {
			case beforeRow, afterEndNames:
				state = afterStartNames
			case afterString:
				b.addTrack(pr.AutoTrack)
				state = afterEndNames
			case afterSize:
				state = afterEndNames
			default:
				return pr.TrackList{}, pr.GridTemplateAreas{}, false
			}
			b.addNames(names)
			continue
		}
		if s, ok := token.(pa.String); ok {
			if state == afterString {
				b.addTrack(pr.AutoTrack)
			}
			rows = append(rows, s.Value)
			state = afterString
			continue
		}
		size, ok := parseTrackSize(token)
		if !ok || state != afterString {
			return pr.TrackList{}, pr.GridTemplateAreas{}, false
		}
		b.addTrack(size)
		state = afterSize
	}
	switch state {
	case afterString:
		b.addTrack(pr.AutoTrack)
	case afterStartNames: // names without row
		return pr.TrackList{}, pr.GridTemplateAreas{}, false
	}
	areas, ok := parseAreas(rows)
	if !ok {
		return pr.TrackList{}, pr.GridTemplateAreas{}, false
	}
	return b.finish(), areas, true
}

// Expand the “grid“ property.
func expandGrid(tokens []Token, style *pr.Style) bool {
	if expandGridTemplate(tokens, style) {
		style.GridAutoRows, style.GridAutoColumns = nil, nil
		style.GridAutoFlow = pr.AutoFlow{}
		return true
	}

	parts := pa.SplitOn(tokens, "/")
	if len(parts) != 2 {
		return false
	}
	// 0 for rows, 1 for columns
	autoSide, denseSide := -1, -1
	var templates [2][]Token
	for side, part := range parts {
		for _, token := range part {
			switch getKeyword(token) {
			case "dense":
				if denseSide != -1 {
					return false
				}
				denseSide = side
			case "auto-flow":
				if autoSide != -1 {
					return false
				}
				autoSide = side
			default:
				templates[side] = append(templates[side], token)
			}
		}
	}
	dense := denseSide != -1
	if autoSide == -1 || (dense && denseSide != autoSide) {
		return false
	}
	auto := pr.GridAuto(nil)
	if len(templates[autoSide]) != 0 {
		var ok bool
		auto, ok = parseGridAuto(templates[autoSide])
		if !ok {
			return false
		}
	}
	explicit, ok := parseTrackList(templates[1-autoSide])
	if !ok {
		return false
	}
	style.GridTemplateAreas = pr.GridTemplateAreas{}
	style.GridAutoFlow = pr.AutoFlow{Column: autoSide == 1, Dense: dense}
	if autoSide == 0 {
		style.GridAutoRows, style.GridAutoColumns = auto, nil
		style.GridTemplateRows, style.GridTemplateColumns = pr.TrackList{}, explicit
	} else {
		style.GridAutoRows, style.GridAutoColumns = nil, auto
		style.GridTemplateRows, style.GridTemplateColumns = explicit, pr.TrackList{}
	}
	return true
}

// expandPlace expands place-content, place-items and place-self:
// the align value, then an optional justify value.
func expandPlace(align, justify string) expander {
	return func(tokens []Token, style *pr.Style) bool {
		// the values may use two tokens (like `safe center`), try every split
		for i := 1; i <= len(tokens); i++ {
			tmp := *style
			first, second := tokens[:i], tokens[i:]
			if len(second) == 0 {
				second = first
			}
			if applyLonghand(&tmp, align, first) && applyLonghand(&tmp, justify, second) {
				*style = tmp
				return true
			}
		}
		return false
	}
}
