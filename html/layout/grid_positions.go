package layout

import (
	"sort"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	"github.com/benoitkugler/gridlayout/logger"
	"github.com/benoitkugler/gridlayout/utils"
)

// namedLines maps a line name to the sorted explicit lines using it.
type namedLines map[string][]int

func (nl namedLines) add(name string, line int) { nl[name] = append(nl[name], line) }

func (nl namedLines) contains(name string, line int) bool {
	lines := nl[name]
	i := sort.SearchInts(lines, line)
	return i < len(lines) && lines[i] == line
}

func (nl namedLines) first(name string) (int, bool) {
	if lines := nl[name]; len(lines) != 0 {
		return lines[0], true
	}
	return 0, false
}

// computeNamedLines collects the line names of the explicit grid in direction d,
// given the number of tracks generated by the auto repeat. The implicit
// names of the template areas are included.
func computeNamedLines(style *pr.Style, d pr.GridDirection, autoRepeatTracks int) namedLines {
	out := namedLines{}
	tl := style.TemplateTracks(d)
	addAll := func(names pr.GridNames, line int) {
		for _, name := range names {
			out.add(name, line)
		}
	}
	if tl.Subgrid || autoRepeatTracks == 0 || len(tl.AutoRepeat) == 0 {
		for i, names := range tl.LineNames {
			addAll(names, i)
		}
	} else {
		ip, n := tl.AutoRepeatInsertionPoint, len(tl.AutoRepeat)
		for i := 0; i <= ip && i < len(tl.LineNames); i++ {
			addAll(tl.NamesAt(i), i)
		}
		for r := 0; r < autoRepeatTracks/n; r++ {
			for j := 0; j <= n; j++ {
				if j < len(tl.AutoRepeatLineNames) {
					addAll(tl.AutoRepeatLineNames[j], ip+r*n+j)
				}
			}
		}
		end := ip + autoRepeatTracks
		addAll(tl.LineNamesAfterAutoRepeat, end)
		for i := ip + 1; i < len(tl.LineNames); i++ {
			addAll(tl.LineNames[i], end+i-ip)
		}
	}
	if !style.GridTemplateAreas.IsNone() {
		for name, area := range style.GridTemplateAreas.Areas {
			start, end := area.RowStart, area.RowEnd
			if d == pr.ForColumns {
				start, end = area.ColumnStart, area.ColumnEnd
			}
			out.add(name+"-start", start)
			out.add(name+"-end", end)
		}
	}
	for name, lines := range out {
		sort.Ints(lines)
		// remove duplicates
		uniq := lines[:0]
		for i, l := range lines {
			if i == 0 || l != lines[i-1] {
				uniq = append(uniq, l)
			}
		}
		out[name] = uniq
	}
	return out
}

// explicitGridCount returns the number of tracks of the explicit grid.
func explicitGridCount(style *pr.Style, d pr.GridDirection, autoRepeatTracks int) int {
	tl := style.TemplateTracks(d)
	count := len(tl.Sizes) + autoRepeatTracks
	if areas := style.GridTemplateAreas; !areas.IsNone() {
		if d == pr.ForColumns {
			count = utils.MaxInt(count, areas.Columns)
		} else {
			count = utils.MaxInt(count, areas.Rows)
		}
	}
	return utils.MinInt(count, MaxLines)
}

// subgridTrackCount returns the number of tracks implied by the line
// names of a subgrid, at least one.
func subgridTrackCount(style *pr.Style, d pr.GridDirection) int {
	return utils.MaxInt(1, len(style.TemplateTracks(d).LineNames)-1)
}

// positionResolver resolves the placement properties of the items
// of one grid container, in one direction.
type positionResolver struct {
	direction     pr.GridDirection
	explicitCount int
	lines         namedLines
}

func newPositionResolver(style *pr.Style, d pr.GridDirection, explicitCount, autoRepeatTracks int) positionResolver {
	return positionResolver{direction: d, explicitCount: explicitCount, lines: computeNamedLines(style, d, autoRepeatTracks)}
}

// clampLine keeps untranslated lines in a range where the whole grid
// fits in MaxLines tracks.
func clampLine(line int) int {
	limit := MaxLines / 2
	if line > limit || line < -limit {
		logger.WarningLogger.Printf("grid line %d clamped to ±%d", line, limit)
		if line > 0 {
			return limit
		}
		return -limit
	}
	return line
}

func (r positionResolver) adjustedPositions(item *pr.Style) (start, end pr.GridLine) {
	start, end = item.GridItemStart(r.direction), item.GridItemEnd(r.direction)
	if start.IsSpan() && end.IsSpan() {
		end = pr.GridLine{}
	}
	// an automatic position with a named span is treated as span 1
	if start.IsAuto() && end.IsSpan() && end.Name != "" {
		end = pr.GridLine{Tag: pr.LineSpan, Integer: 1}
	}
	if end.IsAuto() && start.IsSpan() && start.Name != "" {
		start = pr.GridLine{Tag: pr.LineSpan, Integer: 1}
	}
	return start, end
}

func shouldBeResolvedAgainstOppositePosition(l pr.GridLine) bool { return l.IsAuto() || l.IsSpan() }

// resolveSpan returns the untranslated span of an item,
// or an indefinite span if auto-placement is required.
func (r positionResolver) resolveSpan(item *pr.Style) GridSpan {
	start, end := r.adjustedPositions(item)
	switch {
	case shouldBeResolvedAgainstOppositePosition(start) && shouldBeResolvedAgainstOppositePosition(end):
		return IndefiniteSpan()
	case shouldBeResolvedAgainstOppositePosition(start):
		endLine := r.resolvePosition(end, false)
		return r.resolveAgainstOpposite(endLine, start, true)
	case shouldBeResolvedAgainstOppositePosition(end):
		startLine := r.resolvePosition(start, true)
		return r.resolveAgainstOpposite(startLine, end, false)
	}
	startLine, endLine := r.resolvePosition(start, true), r.resolvePosition(end, false)
	if startLine > endLine {
		startLine, endLine = endLine, startLine
	} else if startLine == endLine {
		endLine = startLine + 1
	}
	return UntranslatedDefiniteSpan(startLine, endLine)
}

// spanSizeForAutoPlacedItem returns the number of tracks of an item
// which is auto-placed in this direction.
func (r positionResolver) spanSizeForAutoPlacedItem(item *pr.Style) int {
	start, end := r.adjustedPositions(item)
	if start.IsAuto() && end.IsAuto() {
		if item.IsGridContainer() && item.IsSubgrid(r.direction) {
			return subgridTrackCount(item, r.direction)
		}
		return 1
	}
	if start.IsSpan() {
		return utils.MinInt(start.Integer, MaxLines)
	}
	if end.IsSpan() {
		return utils.MinInt(end.Integer, MaxLines)
	}
	return 1
}

func (r positionResolver) resolvePosition(position pr.GridLine, isStart bool) int {
	switch position.Tag {
	case pr.LineExplicit:
		if position.Name != "" {
			return clampLine(r.resolveNamedLine(position))
		}
		if position.Integer > 0 {
			return clampLine(position.Integer - 1)
		}
		return clampLine(r.explicitCount - (-position.Integer - 1))
	case pr.LineNamedArea:
		suffix := "-end"
		if isStart {
			suffix = "-start"
		}
		if line, ok := r.lines.first(position.Name + suffix); ok {
			return line
		}
		if line, ok := r.lines.first(position.Name); ok {
			return line
		}
		// all the implicit lines are assumed to have this name
		return r.explicitCount + 1
	}
	return 0
}

func (r positionResolver) lastLine() int { return r.explicitCount }

func (r positionResolver) resolveNamedLine(position pr.GridLine) int {
	if position.Integer > 0 {
		return r.lookAhead(0, position.Integer, position.Name)
	}
	return r.lookBack(r.lastLine(), -position.Integer, position.Name)
}

// lookAhead returns the n-th line named name at or after start, the
// implicit lines after the explicit grid having every name.
func (r positionResolver) lookAhead(start, n int, name string) int {
	end := utils.MaxInt(start, 0)
	if len(r.lines[name]) == 0 {
		end = utils.MaxInt(end, r.lastLine()+1)
		return end + n - 1
	}
	for ; n > 0; end++ {
		if end > r.lastLine() || r.lines.contains(name, end) {
			n--
		}
	}
	return end - 1
}

// lookBack returns the n-th line named name at or before end, the
// implicit lines before the explicit grid having every name.
func (r positionResolver) lookBack(end, n int, name string) int {
	start := utils.MinInt(end, r.lastLine())
	if len(r.lines[name]) == 0 {
		start = utils.MinInt(start, -1)
		return start - n + 1
	}
	for ; n > 0; start-- {
		if start < 0 || r.lines.contains(name, start) {
			n--
		}
	}
	return start + 1
}

func (r positionResolver) resolveAgainstOpposite(oppositeLine int, position pr.GridLine, isStart bool) GridSpan {
	if position.IsAuto() {
		if isStart {
			return UntranslatedDefiniteSpan(oppositeLine-1, oppositeLine)
		}
		return UntranslatedDefiniteSpan(oppositeLine, oppositeLine+1)
	}
	if position.Name != "" {
		if isStart {
			return UntranslatedDefiniteSpan(r.lookBack(oppositeLine-1, position.Integer, position.Name), oppositeLine)
		}
		return UntranslatedDefiniteSpan(oppositeLine, r.lookAhead(oppositeLine+1, position.Integer, position.Name))
	}
	span := utils.MinInt(position.Integer, MaxLines/2)
	if isStart {
		return UntranslatedDefiniteSpan(clampLine(oppositeLine-span), oppositeLine)
	}
	return UntranslatedDefiniteSpan(oppositeLine, clampLine(oppositeLine+span))
}
