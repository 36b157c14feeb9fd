package layout

import (
	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	"github.com/benoitkugler/gridlayout/utils"
)

// baselineGroup identifies the items sharing a baseline: the ones
// starting (first baseline) or ending (last baseline) at the same line.
type baselineGroup struct {
	line int
	last bool
}

type baselineItem struct {
	group baselineGroup
	// distance between the margin edge and the baseline, measured from the
	// start side for a first baseline and from the end side for a last one
	ascent Fl
}

// baselineContext stores the baseline alignment of the items of a grid
// in one axis.
type baselineContext struct {
	items     map[bo.ItemID]baselineItem
	maxAscent map[baselineGroup]Fl
}

func (c *baselineContext) reset() {
	c.items = map[bo.ItemID]baselineItem{}
	c.maxAscent = map[baselineGroup]Fl{}
}

func (c *baselineContext) isEmpty() bool { return len(c.items) == 0 }

func (c *baselineContext) participates(id bo.ItemID) bool {
	_, ok := c.items[id]
	return ok
}

func (c *baselineContext) add(id bo.ItemID, group baselineGroup, ascent Fl) {
	c.items[id] = baselineItem{group: group, ascent: ascent}
	if ascent > c.maxAscent[group] {
		c.maxAscent[group] = ascent
	}
}

// offset returns the shim of the item: the space to add on its
// aligned side so that its baseline matches the ones of its group.
func (c *baselineContext) offset(id bo.ItemID) Fl {
	item, ok := c.items[id]
	if !ok {
		return 0
	}
	return c.maxAscent[item.group] - item.ascent
}

// baselineOffsetForItem returns the baseline shim of the item in d.
// The items of a subgrid in d use the groups of the parent grid.
func (rg *RenderGrid) baselineOffsetForItem(id bo.ItemID, d pr.GridDirection) Fl {
	if rg.isSubgridIn(d) {
		return rg.parent.baselineOffsetForItem(id, d)
	}
	return rg.baselines[d].offset(id)
}

func (rg *RenderGrid) participatesInBaseline(id bo.ItemID, d pr.GridDirection) bool {
	if rg.isSubgridIn(d) {
		return rg.parent.participatesInBaseline(id, d)
	}
	return rg.baselines[d].participates(id)
}

func (rg *RenderGrid) computeBaselineAlignmentContext(d pr.GridDirection) {
	rg.computeBaselineAlignmentContextFor(rg.grid, d)
}

// lineMapping maps the lines of a subgrid to the lines of the grid
// owning the baseline groups, in one axis.
type lineMapping struct {
	toOuter func(GridSpan) GridSpan
	// span of the subgrid in the outer grid
	outerSpan GridSpan
	// margin, border and padding of the enclosing subgrids
	// on the first and last lines of outerSpan
	edgeStart, edgeEnd Fl
}

func topLineMapping(numTracks int) lineMapping {
	return lineMapping{toOuter: identitySpan, outerSpan: TranslatedDefiniteSpan(0, numTracks)}
}

// edges returns the offsets of the enclosing subgrids on the sides of
// span, which is in the outer grid.
func (m lineMapping) edges(span GridSpan) (start, end Fl) {
	if span.StartLine() == m.outerSpan.StartLine() {
		start = m.edgeStart
	}
	if span.EndLine() == m.outerSpan.EndLine() {
		end = m.edgeEnd
	}
	return start, end
}

// child returns the mapping of a subgrid placed on local. When shared
// is false the subgrid has its own tracks, and its items see its whole area.
func (m lineMapping) child(local GridSpan, shared, reversed bool, mbpStart, mbpEnd Fl) lineMapping {
	outer := m.toOuter(local)
	start, end := m.edges(outer)
	child := lineMapping{outerSpan: outer, edgeStart: start + mbpStart, edgeEnd: end + mbpEnd}
	if !shared {
		child.toOuter = func(GridSpan) GridSpan { return outer }
		return child
	}
	n := local.IntegerSpan()
	child.toOuter = func(s GridSpan) GridSpan {
		if reversed {
			s = s.Reverse(n)
		}
		return m.toOuter(s.Translate(local.StartLine()))
	}
	return child
}

// baselineLevel is a grid whose items join the baseline groups
// of the grid being laid out: that grid itself, or a nested subgrid.
type baselineLevel struct {
	owner *RenderGrid
	grid  *Grid
	// in the aligned axis and in the orthogonal one
	lines, orthoLines lineMapping
}

// computeBaselineAlignmentContextFor groups the items of grid aligned on
// their baseline in d, including the items of the subgrids sharing the
// tracks in d. For the rows, the items are laid out in their column
// area, which must be sized.
func (rg *RenderGrid) computeBaselineAlignmentContextFor(grid *Grid, d pr.GridDirection) {
	c := &rg.baselines[d]
	c.reset()
	if rg.isMasonryIn(d) || rg.isSubgridIn(d) {
		return
	}
	top := baselineLevel{
		owner:      rg,
		grid:       grid,
		lines:      topLineMapping(grid.NumTracks(d)),
		orthoLines: topLineMapping(grid.NumTracks(d.Orthogonal())),
	}
	rg.collectBaselineItems(c, top, d)
}

func (rg *RenderGrid) collectBaselineItems(c *baselineContext, level baselineLevel, d pr.GridDirection) {
	for _, id := range level.grid.Items() {
		area, ok := level.grid.GridItemArea(id)
		if !ok || area.Span(d).IsIndefinite() {
			continue
		}
		if sg := rg.ctx.subgridIn(id, d); sg != nil {
			// the first and last lines of a reversed subgrid are swapped:
			// its items keep their own alignment
			if !sg.isReversedIn(d) {
				rg.collectBaselineItems(c, rg.subgridBaselineLevel(level, sg, area, d), d)
			}
			continue
		}

		box := rg.ctx.tree.Box(id)
		align := box.Style.SelfAlignment(d, level.owner.style()).Align
		if (align != pr.AlignBaseline && align != pr.AlignLastBaseline) || box.HasAutoMargin(d) {
			continue
		}
		last := align == pr.AlignLastBaseline
		span := level.lines.toOuter(area.Span(d))
		group := baselineGroup{line: span.StartLine(), last: last}
		if last {
			group.line = span.EndLine()
		}

		var ascent Fl
		if d == pr.ForRows {
			ascent = rg.rowAxisAscent(level.owner, id, last, rg.columnAreaBreadth(level, id, area))
		} else {
			// no vertical writing modes: the baseline is synthesized
			// from the border box start edge
			cbWidth := rg.contentWidth.V()
			start, end, _, _ := level.owner.itemMargins(id, d, cbWidth)
			ascent = start
			if last {
				ascent = end
			}
		}
		// measured from the margin edge of the outermost subgrid
		edgeStart, edgeEnd := level.lines.edges(span)
		if last {
			ascent += edgeEnd
		} else {
			ascent += edgeStart
		}
		c.add(id, group, ascent)
	}
}

func (rg *RenderGrid) subgridBaselineLevel(level baselineLevel, sg *RenderGrid, local GridArea, d pr.GridDirection) baselineLevel {
	ortho := d.Orthogonal()
	mbpStart, mbpEnd := rg.subgridEdges(sg, d)
	orthoStart, orthoEnd := rg.subgridEdges(sg, ortho)
	return baselineLevel{
		owner:      sg,
		grid:       sg.grid,
		lines:      level.lines.child(local.Span(d), true, false, mbpStart, mbpEnd),
		orthoLines: level.orthoLines.child(local.Span(ortho), sg.isSubgridIn(ortho), sg.isReversedIn(ortho), orthoStart, orthoEnd),
	}
}

// columnAreaBreadth returns the width of the column area of an item,
// without the edges of the enclosing subgrids.
func (rg *RenderGrid) columnAreaBreadth(level baselineLevel, id bo.ItemID, area GridArea) pr.MaybeFloat {
	if level.owner == rg {
		return rg.algo.gridAreaBreadthForItem(id, pr.ForColumns)
	}
	span := level.orthoLines.toOuter(area.Columns)
	tracks := rg.algo.Tracks(pr.ForColumns)
	if span.EndLine() > len(tracks) {
		return pr.AutoF
	}
	var breadth Fl
	for t := span.StartLine(); t < span.EndLine(); t++ {
		breadth += tracks[t].BaseSize()
	}
	breadth += rg.guttersSize(rg.grid, pr.ForColumns, span.StartLine(), span.IntegerSpan(), rg.algo.AvailableSpace(pr.ForColumns))
	edgeStart, edgeEnd := level.orthoLines.edges(span)
	return pr.F(utils.MaxF(0, breadth-edgeStart-edgeEnd))
}

// rowAxisAscent lays out the item in its column area and returns the
// distance between its top margin edge and its first baseline, or between
// its bottom margin edge and its last baseline.
// A box without baseline uses its bottom border edge.
func (rg *RenderGrid) rowAxisAscent(owner *RenderGrid, id bo.ItemID, last bool, width pr.MaybeFloat) Fl {
	ctx := rg.ctx
	box := ctx.tree.Box(id)
	box.OverridingContainingBlockWidth = width
	box.OverridingContainingBlockHeight = pr.AutoF
	ctx.layoutBox(id, owner.itemBorderBoxSize(id, pr.ForColumns, width), owner.itemDefiniteHeight(id, pr.AutoF))

	cbWidth := width.Or(rg.contentWidth.V())
	baseline := ctx.baseline(id, last).Or(box.Height)
	if last {
		return box.MarginEnd(pr.ForRows, cbWidth) + box.Height - baseline
	}
	return box.MarginStart(pr.ForRows, cbWidth) + baseline
}
