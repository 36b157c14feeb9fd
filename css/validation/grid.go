package validation

import (
	pa "github.com/benoitkugler/gridlayout/css/parser"
	pr "github.com/benoitkugler/gridlayout/css/properties"
)

// maxRepetitions bounds the integer repeat() expansion.
const maxRepetitions = 10000

// Parse “inflexible-breadth“.
func parseInflexibleBreadth(token Token) (pr.Length, bool) {
	switch getKeyword(token) {
	case "auto":
		return pr.AutoLength, true
	case "min-content":
		return pr.MinContentLength, true
	case "max-content":
		return pr.MaxContentLength, true
	case "":
		return getLength(token, false, true)
	}
	return pr.Length{}, false
}

// Parse “track-breadth“.
func parseTrackBreadth(token Token) (pr.Length, bool) {
	if dim, ok := token.(pa.Dimension); ok && dim.ValueF >= 0 && fold(dim.Unit) == "fr" {
		return pr.Fr(dim.ValueF), true
	}
	return parseInflexibleBreadth(token)
}

// Parse “track-size“.
func parseTrackSize(token Token) (pr.TrackSize, bool) {
	if breadth, ok := parseTrackBreadth(token); ok {
		return pr.Breadth(breadth), true
	}
	switch name, args := pa.ParseFunction(token); name {
	case "minmax":
		if len(args) == 2 {
			min, okMin := parseInflexibleBreadth(args[0])
			max, okMax := parseTrackBreadth(args[1])
			if okMin && okMax {
				return pr.MinMax(min, max), true
			}
		}
	case "fit-content":
		if len(args) == 1 {
			if limit, ok := getLength(args[0], false, true); ok {
				return pr.FitContent(limit), true
			}
		}
	}
	return pr.TrackSize{}, false
}

// Parse “fixed-size“, the only sizes allowed with an automatic repetition.
func parseFixedSize(token Token) (pr.TrackSize, bool) {
	if length, ok := getLength(token, false, true); ok {
		return pr.Breadth(length), true
	}
	name, args := pa.ParseFunction(token)
	if name != "minmax" || len(args) != 2 {
		return pr.TrackSize{}, false
	}
	if min, ok := getLength(args[0], false, true); ok {
		if max, ok := parseTrackBreadth(args[1]); ok {
			return pr.MinMax(min, max), true
		}
	}
	if min, ok := parseInflexibleBreadth(args[0]); ok {
		if max, ok := getLength(args[1], false, true); ok {
			return pr.MinMax(min, max), true
		}
	}
	return pr.TrackSize{}, false
}

// parseLineNames parses “line-names“, returning false if invalid.
func parseLineNames(token Token) (pr.GridNames, bool) {
	block, ok := token.(pa.Block)
	if !ok || !block.IsSquareBrackets() {
		return nil, false
	}
	names := pr.GridNames{}
	for _, token := range pa.RemoveWhitespace(block.Content) {
		ident, ok := token.(pa.Ident)
		if !ok {
			return nil, false
		}
		if kw := fold(ident.Value); kw == "span" || kw == "auto" {
			return nil, false
		}
		names = append(names, ident.Value)
	}
	return names, true
}

func parseRepeat(token Token) (repetitions int, auto pr.RepeatType, ok bool) {
	if nb, isInt := getInteger(token); isInt && nb >= 1 {
		return min(nb, maxRepetitions), pr.NoRepeat, true
	}
	switch getKeyword(token) {
	case "auto-fill":
		return 0, pr.AutoFill, true
	case "auto-fit":
		return 0, pr.AutoFit, true
	}
	return 0, 0, false
}

// trackListBuilder accumulates the line names and the sizes of
// a track list, the line names being merged when adjacent.
type trackListBuilder struct {
	out          pr.TrackList
	pending      pr.GridNames // names of the next line
	beforeRepeat pr.GridNames
	afterRepeat  bool // the line after the auto repeat is pending
	hasNames     bool
}

func (b *trackListBuilder) addNames(names pr.GridNames) {
	b.pending = append(b.pending, names...)
	if len(names) != 0 {
		b.hasNames = true
	}
}

func (b *trackListBuilder) flushLine() {
	if b.afterRepeat {
		b.out.LineNamesAfterAutoRepeat = b.pending
		b.out.LineNames = append(b.out.LineNames, b.beforeRepeat)
		b.afterRepeat = false
	} else {
		b.out.LineNames = append(b.out.LineNames, b.pending)
	}
	b.pending = nil
}

func (b *trackListBuilder) addTrack(ts pr.TrackSize) {
	b.flushLine()
	b.out.Sizes = append(b.out.Sizes, ts)
}

func (b *trackListBuilder) addAutoRepeat(kind pr.RepeatType, inner pr.TrackList) {
	b.out.AutoRepeatInsertionPoint = len(b.out.Sizes)
	b.out.AutoRepeatType = kind
	b.out.AutoRepeat = inner.Sizes
	b.out.AutoRepeatLineNames = inner.LineNames
	if len(inner.LineNames) != 0 {
		b.hasNames = true
	}
	b.beforeRepeat, b.pending = b.pending, nil
	b.afterRepeat = true
}

func (b *trackListBuilder) finish() pr.TrackList {
	b.flushLine()
	if !b.hasNames {
		b.out.LineNames = nil
		b.out.AutoRepeatLineNames = nil
		b.out.LineNamesAfterAutoRepeat = nil
	}
	return b.out
}

// trackListItem is a line names block or a track size, as found in
// the arguments of repeat().
type trackListItem struct {
	names   pr.GridNames
	size    pr.TrackSize
	isNames bool
	isFixed bool
}

// parseRepeatArguments parses the content of repeat(), after the
// repetition count. fixedOnly restricts the sizes to “fixed-size“.
func parseRepeatArguments(args []Token, fixedOnly bool) ([]trackListItem, bool) {
	var (
		out         []trackListItem
		hasTrack    bool
		lastIsNames bool
	)
	for _, arg := range args {
		if names, ok := parseLineNames(arg); ok {
			if lastIsNames {
				return nil, false
			}
			lastIsNames = true
			out = append(out, trackListItem{names: names, isNames: true})
			continue
		}
		lastIsNames = false
		if size, ok := parseFixedSize(arg); ok {
			out = append(out, trackListItem{size: size, isFixed: true})
		} else if size, ok := parseTrackSize(arg); ok && !fixedOnly {
			out = append(out, trackListItem{size: size})
		} else {
			return nil, false
		}
		hasTrack = true
	}
	return out, hasTrack
}

// parseTrackList parses grid-template-rows and grid-template-columns.
func parseTrackList(tokens []Token) (pr.TrackList, bool) {
	if len(tokens) == 0 {
		return pr.TrackList{}, false
	}
	switch getSingleKeyword(tokens) {
	case "none":
		return pr.TrackList{}, true
	case "masonry":
		return pr.TrackList{Masonry: true}, true
	}
	if getKeyword(tokens[0]) == "subgrid" {
		return parseSubgrid(tokens[1:])
	}

	var (
		b                  trackListBuilder
		includesAutoRepeat bool
		includesNonFixed   bool
		lastIsNames        bool
	)
	for _, token := range tokens {
		if names, ok := parseLineNames(token); ok {
			if lastIsNames {
				return pr.TrackList{}, false
			}
			lastIsNames = true
			b.addNames(names)
			continue
		}
		lastIsNames = false
		if size, ok := parseFixedSize(token); ok {
			b.addTrack(size)
			continue
		}
		if size, ok := parseTrackSize(token); ok {
			includesNonFixed = true
			b.addTrack(size)
			continue
		}
		name, args := pa.ParseFunction(token)
		if name != "repeat" || len(args) < 2 {
			return pr.TrackList{}, false
		}
		repetitions, autoKind, ok := parseRepeat(args[0])
		if !ok {
			return pr.TrackList{}, false
		}
		items, ok := parseRepeatArguments(args[1:], autoKind != pr.NoRepeat)
		if !ok {
			return pr.TrackList{}, false
		}
		if autoKind != pr.NoRepeat {
			if includesAutoRepeat {
				return pr.TrackList{}, false
			}
			includesAutoRepeat = true
			var inner trackListBuilder
			for _, item := range items {
				if item.isNames {
					inner.addNames(item.names)
				} else {
					inner.addTrack(item.size)
				}
			}
			b.addAutoRepeat(autoKind, inner.finish())
			continue
		}
		for range repetitions {
			for _, item := range items {
				if item.isNames {
					b.addNames(item.names)
				} else {
					if !item.isFixed {
						includesNonFixed = true
					}
					b.addTrack(item.size)
				}
			}
		}
	}
	if includesAutoRepeat && includesNonFixed {
		return pr.TrackList{}, false
	}
	return b.finish(), true
}

// parseSubgrid parses the optional line names list following 'subgrid'.
func parseSubgrid(tokens []Token) (pr.TrackList, bool) {
	out := pr.TrackList{Subgrid: true}
	for _, token := range tokens {
		if names, ok := parseLineNames(token); ok {
			out.LineNames = append(out.LineNames, names)
			continue
		}
		name, args := pa.ParseFunction(token)
		if name != "repeat" || len(args) < 2 {
			return pr.TrackList{}, false
		}
		repetitions, autoKind, ok := parseRepeat(args[0])
		if !ok || autoKind != pr.NoRepeat {
			return pr.TrackList{}, false
		}
		var names []pr.GridNames
		for _, arg := range args[1:] {
			lineNames, ok := parseLineNames(arg)
			if !ok {
				return pr.TrackList{}, false
			}
			names = append(names, lineNames)
		}
		for range repetitions {
			out.LineNames = append(out.LineNames, names...)
		}
	}
	return out, true
}

func trackListProperty(d pr.GridDirection) validator {
	return func(tokens []Token, style *pr.Style) bool {
		tl, ok := parseTrackList(tokens)
		if ok {
			*style.TemplateTracks(d) = tl
		}
		return ok
	}
}

// parseAreaRow splits a grid-template-areas string into cells,
// a sequence of dots being a null cell, stored as "".
func parseAreaRow(s string) ([]string, bool) {
	var (
		row       []string
		lastIsDot bool
	)
	for _, token := range pa.TokenizeString(s) {
		switch token := token.(type) {
		case pa.Ident:
			row = append(row, token.Value)
			lastIsDot = false
		case pa.Literal:
			if token.Value != "." {
				return nil, false
			}
			if !lastIsDot {
				row = append(row, "")
			}
			lastIsDot = true
		case pa.Whitespace:
			lastIsDot = false
		default:
			return nil, false
		}
	}
	return row, len(row) != 0
}

// parseAreas checks that each named area is a rectangle.
func parseAreas(rows []string) (pr.GridTemplateAreas, bool) {
	var cells [][]string
	for _, s := range rows {
		row, ok := parseAreaRow(s)
		if !ok {
			return pr.GridTemplateAreas{}, false
		}
		if len(cells) != 0 && len(row) != len(cells[0]) {
			return pr.GridTemplateAreas{}, false
		}
		cells = append(cells, row)
	}
	if len(cells) == 0 {
		return pr.GridTemplateAreas{}, false
	}

	out := pr.GridTemplateAreas{Rows: len(cells), Columns: len(cells[0]), Areas: map[string]pr.NamedArea{}}
	counts := map[string]int{}
	for y, row := range cells {
		for x, name := range row {
			if name == "" {
				continue
			}
			counts[name]++
			area, ok := out.Areas[name]
			if !ok {
				out.Areas[name] = pr.NamedArea{RowStart: y, RowEnd: y + 1, ColumnStart: x, ColumnEnd: x + 1}
				continue
			}
			area.RowStart, area.RowEnd = min(area.RowStart, y), max(area.RowEnd, y+1)
			area.ColumnStart, area.ColumnEnd = min(area.ColumnStart, x), max(area.ColumnEnd, x+1)
			out.Areas[name] = area
		}
	}
	for name, area := range out.Areas {
		if (area.RowEnd-area.RowStart)*(area.ColumnEnd-area.ColumnStart) != counts[name] {
			return pr.GridTemplateAreas{}, false
		}
	}
	return out, true
}

// “grid-template-areas“ property validation.
func gridTemplateAreas(tokens []Token, style *pr.Style) bool {
	if getSingleKeyword(tokens) == "none" {
		style.GridTemplateAreas = pr.GridTemplateAreas{}
		return true
	}
	var rows []string
	for _, token := range tokens {
		s, ok := token.(pa.String)
		if !ok {
			return false
		}
		rows = append(rows, s.Value)
	}
	areas, ok := parseAreas(rows)
	if ok {
		style.GridTemplateAreas = areas
	}
	return ok
}

func parseGridAuto(tokens []Token) (pr.GridAuto, bool) {
	if getSingleKeyword(tokens) == "auto" {
		return nil, true // stored as the initial value
	}
	var out pr.GridAuto
	for _, token := range tokens {
		size, ok := parseTrackSize(token)
		if !ok {
			return nil, false
		}
		out = append(out, size)
	}
	return out, len(out) != 0
}

// “grid-auto-columns“ and “grid-auto-rows“ properties validation.
func gridAuto(d pr.GridDirection) validator {
	return func(tokens []Token, style *pr.Style) bool {
		ga, ok := parseGridAuto(tokens)
		if !ok {
			return false
		}
		if d == pr.ForColumns {
			style.GridAutoColumns = ga
		} else {
			style.GridAutoRows = ga
		}
		return true
	}
}

func parseAutoFlow(tokens []Token) (pr.AutoFlow, bool) {
	var (
		out                 pr.AutoFlow
		hasDirection, dense bool
	)
	if len(tokens) == 0 || len(tokens) > 2 {
		return out, false
	}
	for _, token := range tokens {
		switch getKeyword(token) {
		case "row", "column":
			if hasDirection {
				return out, false
			}
			hasDirection = true
			out.Column = getKeyword(token) == "column"
		case "dense":
			if dense {
				return out, false
			}
			dense = true
			out.Dense = true
		default:
			return out, false
		}
	}
	return out, true
}

// “grid-auto-flow“ property validation.
func gridAutoFlow(tokens []Token, style *pr.Style) bool {
	flow, ok := parseAutoFlow(tokens)
	if ok {
		style.GridAutoFlow = flow
	}
	return ok
}

// “masonry-auto-flow“ property validation: [ pack | next ] || [ definite-first | ordered ].
func masonryAutoFlow(tokens []Token, style *pr.Style) bool {
	var (
		out               pr.MasonryAutoFlow
		hasPlacement      bool
		hasOrderingChoice bool
	)
	if len(tokens) == 0 || len(tokens) > 2 {
		return false
	}
	for _, token := range tokens {
		switch kw := getKeyword(token); kw {
		case "pack", "next":
			if hasPlacement {
				return false
			}
			hasPlacement = true
			out.Next = kw == "next"
		case "definite-first", "ordered":
			if hasOrderingChoice {
				return false
			}
			hasOrderingChoice = true
			out.DefiniteFirst = kw == "definite-first"
		default:
			return false
		}
	}
	style.MasonryAutoFlow = out
	return true
}

func isCustomIdent(token Token) (string, bool) {
	ident, ok := token.(pa.Ident)
	if !ok {
		return "", false
	}
	switch fold(ident.Value) {
	case "auto", "span", "initial", "inherit", "unset", "default":
		return "", false
	}
	return ident.Value, true
}

// parseGridLine parses the grid-[row|column]-[start|end] properties.
func parseGridLine(tokens []Token) (pr.GridLine, bool) {
	if len(tokens) == 1 {
		if getKeyword(tokens[0]) == "auto" {
			return pr.GridLine{Tag: pr.LineAuto}, true
		}
		if name, ok := isCustomIdent(tokens[0]); ok {
			return pr.GridLine{Tag: pr.LineNamedArea, Name: name}, true
		}
		if number, ok := getInteger(tokens[0]); ok && number != 0 {
			return pr.GridLine{Tag: pr.LineExplicit, Integer: number}, true
		}
		return pr.GridLine{}, false
	}
	if len(tokens) > 3 {
		return pr.GridLine{}, false
	}

	var (
		number    int
		name      string
		isSpan    bool
		hasNumber bool
	)
	for _, token := range tokens {
		if getKeyword(token) == "span" && !isSpan {
			isSpan = true
			continue
		}
		if ident, ok := isCustomIdent(token); ok && name == "" {
			name = ident
			continue
		}
		if nb, ok := getInteger(token); ok && nb != 0 && !hasNumber {
			number, hasNumber = nb, true
			continue
		}
		return pr.GridLine{}, false
	}
	if isSpan {
		// span must come first or last
		if getKeyword(tokens[0]) != "span" && getKeyword(tokens[len(tokens)-1]) != "span" {
			return pr.GridLine{}, false
		}
		if !hasNumber {
			number = 1
		}
		if number < 0 {
			return pr.GridLine{}, false
		}
		return pr.GridLine{Tag: pr.LineSpan, Integer: number, Name: name}, true
	}
	if hasNumber {
		return pr.GridLine{Tag: pr.LineExplicit, Integer: number, Name: name}, true
	}
	return pr.GridLine{}, false
}

func gridLineProperty(field func(*pr.Style) *pr.GridLine) validator {
	return func(tokens []Token, style *pr.Style) bool {
		line, ok := parseGridLine(tokens)
		if ok {
			*field(style) = line
		}
		return ok
	}
}
