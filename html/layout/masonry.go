package layout

import (
	"maps"
	"sort"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	"github.com/benoitkugler/gridlayout/logger"
	"github.com/benoitkugler/gridlayout/utils"
)

// MasonryLayout places the items of a grid with a masonry axis: each item
// goes in the grid axis tracks with the smallest running position (or at the
// auto placement cursor), and is stacked after the previous items of these
// tracks.
type MasonryLayout struct {
	rg *RenderGrid

	// running position of each grid axis track
	runningPositions []Fl
	itemOffsets      map[bo.ItemID]Fl
	// auto placement cursor, used by masonry-auto-flow: next
	cursor int

	gridContentSize Fl
}

func newMasonryLayout(rg *RenderGrid) *MasonryLayout {
	return &MasonryLayout{rg: rg, itemOffsets: map[bo.ItemID]Fl{}}
}

// GridContentSize returns the extent of the masonry axis used by the items,
// the trailing gap excluded.
func (m *MasonryLayout) GridContentSize() Fl { return m.gridContentSize }

// Offset returns the position of the margin box of the item in the masonry
// axis, relative to the start of the content box.
func (m *MasonryLayout) Offset(id bo.ItemID) Fl { return m.itemOffsets[id] }

// RunningPositions returns the running position of each grid axis track.
func (m *MasonryLayout) RunningPositions() []Fl { return m.runningPositions }

// recordMasonryAreas keeps the areas resolved by the placement of a
// masonry grid and counts the tracks of its grid axis.
func (rg *RenderGrid) recordMasonryAreas(grid *Grid) {
	gridAxis := pr.ForColumns
	if rg.isMasonryIn(pr.ForColumns) {
		gridAxis = pr.ForRows
	}
	grid.masonryAreas = maps.Clone(grid.itemArea)
	n := grid.ExplicitGridStart(gridAxis) + rg.explicitCount(grid, gridAxis)
	for _, area := range grid.masonryAreas {
		if span := area.Span(gridAxis); !span.IsIndefinite() {
			n = utils.MaxInt(n, span.EndLine())
		}
	}
	grid.masonryGridAxisTracks = n
}

// placementOrder returns the items in placement order: those
// with a definite position in the grid axis first, when required by
// masonry-auto-flow.
func (m *MasonryLayout) placementOrder(grid *Grid, gridAxis pr.GridDirection) []bo.ItemID {
	items := append([]bo.ItemID(nil), grid.Items()...)
	if !m.rg.style().MasonryAutoFlow.DefiniteFirst {
		return items
	}
	sort.SliceStable(items, func(i, j int) bool {
		di := !grid.masonryAreas[items[i]].Span(gridAxis).IsIndefinite()
		dj := !grid.masonryAreas[items[j]].Span(gridAxis).IsIndefinite()
		return di && !dj
	})
	return items
}

// performMasonryPlacement places the items of grid along the masonry axis d.
// The tracks of the grid axis must be sized before, when d is the rows.
// The items are then stored in the single track of the masonry axis.
func (m *MasonryLayout) performMasonryPlacement(grid *Grid, d pr.GridDirection) error {
	rg := m.rg
	gridAxis := d.Orthogonal()
	n := rg.numTracks(grid, gridAxis)
	logger.ProgressLogger.Printf("masonry placement of %s in %d tracks", rg.box(), n)

	m.runningPositions = make([]Fl, n)
	m.itemOffsets = map[bo.ItemID]Fl{}
	m.cursor = 0
	m.gridContentSize = 0
	grid.cells = nil
	if n == 0 {
		return nil
	}
	rows, columns := 1, n
	if d == pr.ForColumns {
		rows, columns = n, 1
	}
	if err := grid.EnsureGridSize(rows, columns); err != nil {
		return err
	}

	gap := rg.gridGap(d, rg.availableSpaceFor(d))
	pack := !rg.style().MasonryAutoFlow.Next
	for _, id := range m.placementOrder(grid, gridAxis) {
		span := grid.masonryAreas[id].Span(gridAxis)
		if span.IsIndefinite() {
			spanSize := utils.MinInt(rg.spanSizeForAutoPlacedItem(grid, id, gridAxis), n)
			if pack {
				span = m.shortestSpan(spanSize)
			} else {
				span = m.spanAtCursor(spanSize)
			}
		} else if span.EndLine() > n {
			span = span.Clamp(n)
		}

		position := utils.Maxs(m.runningPositions[span.StartLine():span.EndLine()]...)
		extent := m.masonryAxisExtent(grid, id, d, span)
		for t := span.StartLine(); t < span.EndLine(); t++ {
			m.runningPositions[t] = position + extent + gap
		}
		m.itemOffsets[id] = position

		var area GridArea
		area.SetSpan(gridAxis, span)
		area.SetSpan(d, TranslatedDefiniteSpan(0, 1))
		if _, err := grid.Insert(id, area); err != nil {
			return err
		}
	}
	if grid.HasGridItems() {
		m.gridContentSize = utils.MaxF(0, utils.Maxs(m.runningPositions...)-gap)
	}
	return nil
}

// shortestSpan returns the first span of spanSize tracks whose
// maximum running position is the smallest.
func (m *MasonryLayout) shortestSpan(spanSize int) GridSpan {
	best, bestPosition := 0, utils.Inf
	for start := 0; start+spanSize <= len(m.runningPositions); start++ {
		position := utils.Maxs(m.runningPositions[start : start+spanSize]...)
		if position < bestPosition {
			best, bestPosition = start, position
		}
	}
	return TranslatedDefiniteSpan(best, best+spanSize)
}

// spanAtCursor returns the span starting at the auto placement cursor,
// wrapping to the first track when the span does not fit, and advances the cursor.
func (m *MasonryLayout) spanAtCursor(spanSize int) GridSpan {
	if m.cursor+spanSize > len(m.runningPositions) {
		m.cursor = 0
	}
	span := TranslatedDefiniteSpan(m.cursor, m.cursor+spanSize)
	m.cursor += spanSize
	return span
}

// masonryAxisExtent returns the margin box size of the item in the
// masonry axis d, laying it out when d is the rows.
func (m *MasonryLayout) masonryAxisExtent(grid *Grid, id bo.ItemID, d pr.GridDirection, span GridSpan) Fl {
	rg := m.rg
	box := rg.ctx.tree.Box(id)
	if d == pr.ForColumns {
		cbWidth := rg.contentWidth.V()
		box.OverridingContainingBlockWidth = pr.AutoF
		return rg.itemBorderBoxSize(id, pr.ForColumns, pr.AutoF) + box.Margins(pr.ForColumns, cbWidth)
	}

	breadth := m.gridAxisBreadth(grid, span)
	box.OverridingContainingBlockWidth = pr.F(breadth)
	box.OverridingContainingBlockHeight = pr.AutoF
	width := rg.itemBorderBoxSize(id, pr.ForColumns, pr.F(breadth))
	rg.ctx.layoutBox(id, width, rg.itemDefiniteHeight(id, pr.AutoF))
	return box.Height + box.Margins(pr.ForRows, breadth)
}

// gridAxisBreadth returns the size of span in the sized columns.
func (m *MasonryLayout) gridAxisBreadth(grid *Grid, span GridSpan) Fl {
	rg := m.rg
	tracks := rg.algo.Tracks(pr.ForColumns)
	var breadth Fl
	for t := span.StartLine(); t < span.EndLine() && t < len(tracks); t++ {
		breadth += tracks[t].BaseSize()
	}
	breadth += Fl(span.IntegerSpan()-1) * rg.gridItemOffset(pr.ForColumns)
	return breadth + rg.guttersSize(grid, pr.ForColumns, span.StartLine(), span.IntegerSpan(), rg.contentWidth)
}

// computeIntrinsicWidths returns the min-content and max-content widths
// of a grid whose masonry axis is the columns: the items are stacked using
// their preferred widths.
func (m *MasonryLayout) computeIntrinsicWidths(grid *Grid) (minWidth, maxWidth Fl) {
	rg := m.rg
	n := rg.numTracks(grid, pr.ForRows)
	if n == 0 {
		return 0, 0
	}
	gap := rg.gridGap(pr.ForColumns, pr.AutoF)
	stack := func(extent func(id bo.ItemID) Fl) Fl {
		saved := m.runningPositions
		defer func() { m.runningPositions = saved }()
		m.runningPositions = make([]Fl, n)
		m.cursor = 0
		for _, id := range m.placementOrder(grid, pr.ForRows) {
			span := grid.masonryAreas[id].Span(pr.ForRows)
			if span.IsIndefinite() {
				span = m.shortestSpan(utils.MinInt(rg.spanSizeForAutoPlacedItem(grid, id, pr.ForRows), n))
			} else if span.EndLine() > n {
				span = span.Clamp(n)
			}
			position := utils.Maxs(m.runningPositions[span.StartLine():span.EndLine()]...)
			for t := span.StartLine(); t < span.EndLine(); t++ {
				m.runningPositions[t] = position + extent(id) + gap
			}
		}
		if !grid.HasGridItems() {
			return 0
		}
		return utils.MaxF(0, utils.Maxs(m.runningPositions...)-gap)
	}
	margins := func(id bo.ItemID) Fl { return rg.ctx.tree.Box(id).Margins(pr.ForColumns, 0) }
	minWidth = stack(func(id bo.ItemID) Fl {
		w, _ := rg.ctx.preferredWidths(id)
		return w + margins(id)
	})
	maxWidth = stack(func(id bo.ItemID) Fl {
		_, w := rg.ctx.preferredWidths(id)
		return w + margins(id)
	})
	return minWidth, maxWidth
}

// resolveIntrinsicTrackSizesMasonry sizes the content sized tracks of the
// grid axis of a masonry grid. An item without definite position in the
// grid axis contributes to every span of its size.
func (a *TrackSizingAlgorithm) resolveIntrinsicTrackSizesMasonry() {
	d := a.direction
	tracks := a.Tracks(d)
	n := len(tracks)
	var spanning, crossingFlex []gridItemWithSpan
	for _, id := range a.grid.Items() {
		span := a.grid.masonryAreas[id].Span(d)
		var candidates []GridSpan
		if span.IsIndefinite() {
			size := a.rg.spanSizeForAutoPlacedItem(a.grid, id, d)
			for start := 0; start+size <= n; start++ {
				candidates = append(candidates, TranslatedDefiniteSpan(start, start+size))
			}
		} else if span.EndLine() <= n {
			candidates = append(candidates, span)
		}
		for _, candidate := range candidates {
			item := gridItemWithSpan{id: id, span: candidate}
			switch {
			case a.spanningItemCrossesFlexibleTracks(candidate):
				crossingFlex = append(crossingFlex, item)
			case candidate.IntegerSpan() == 1:
				a.sizeTrackToFitNonSpanningItem(item)
			default:
				spanning = append(spanning, item)
			}
		}
	}

	sort.SliceStable(spanning, func(i, j int) bool {
		return spanning[i].span.IntegerSpan() < spanning[j].span.IntegerSpan()
	})
	for start := 0; start < len(spanning); {
		end := start + 1
		for end < len(spanning) && spanning[end].span.IntegerSpan() == spanning[start].span.IntegerSpan() {
			end++
		}
		a.increaseSizesToAccommodateSpanningItems(spanning[start:end], false)
		start = end
	}
	a.increaseSizesToAccommodateSpanningItems(crossingFlex, true)

	for _, index := range a.contentSizedTracksIndex {
		track := &tracks[index]
		if track.GrowthLimitIsInfinite() {
			track.SetGrowthLimit(track.BaseSize())
		}
	}
}
