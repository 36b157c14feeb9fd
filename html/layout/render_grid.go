package layout

import (
	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	"github.com/benoitkugler/gridlayout/utils"
)

// contentAlignmentData is the offset of the first track (positionOffset)
// and the extra space between two tracks (distributionOffset)
// resulting from justify-content or align-content.
type contentAlignmentData struct {
	positionOffset     Fl
	distributionOffset Fl
}

// gridLayoutState records, during one layout, the conditions requiring
// a second pass of the track sizing algorithm.
type gridLayoutState struct {
	// an item contribution to the columns used an estimation of its rows
	needsSecondTrackSizingPass bool
	// an item has an aspect ratio and a height depending on its rows
	hasAspectRatioBlockSizeDependentItem bool
	// the rows have flexible tracks sized against an indefinite height,
	// without baseline aligned items
	hasFlexibleRowsWithoutBaselineItems bool
}

func (s gridLayoutState) needsSecondPass(algo *TrackSizingAlgorithm) bool {
	return s.needsSecondTrackSizingPass || s.hasAspectRatioBlockSizeDependentItem ||
		s.hasFlexibleRowsWithoutBaselineItems || algo.HasAnyPercentSizedRowsIndefiniteHeight()
}

// RenderGrid is the layout state of a grid container.
// It owns the placement of the items and the sizes of the tracks.
type RenderGrid struct {
	ctx *layoutContext
	id  bo.ItemID

	// parent is the grid state of the parent box, if it is a grid container
	parent *RenderGrid
	// areaInParent is the area of a subgrid in its parent grid,
	// set when the parent places its items
	areaInParent *GridArea

	grid    *Grid
	algo    *TrackSizingAlgorithm
	masonry *MasonryLayout

	// content box size of the current layout
	contentWidth  pr.MaybeFloat
	contentHeight pr.MaybeFloat

	offsetBetweenColumns, offsetBetweenRows contentAlignmentData
	columnPositions, rowPositions           []Fl

	layoutState gridLayoutState
	baselines   [2]baselineContext
}

func newRenderGrid(ctx *layoutContext, id bo.ItemID) *RenderGrid {
	rg := &RenderGrid{ctx: ctx, id: id, grid: NewGrid()}
	rg.algo = newTrackSizingAlgorithm(rg, rg.grid)
	rg.masonry = newMasonryLayout(rg)
	return rg
}

func (rg *RenderGrid) box() *bo.Box { return rg.ctx.tree.Box(rg.id) }

func (rg *RenderGrid) style() *pr.Style { return &rg.box().Style }

// Grid returns the placement of the items.
func (rg *RenderGrid) Grid() *Grid { return rg.grid }

// TrackSizingAlgorithm returns the sizing state of the tracks.
func (rg *RenderGrid) TrackSizingAlgorithm() *TrackSizingAlgorithm { return rg.algo }

// Masonry returns the masonry state, meaningful when one axis is a masonry axis.
func (rg *RenderGrid) Masonry() *MasonryLayout { return rg.masonry }

// Positions returns the positions of the lines in direction d, relative to
// the border box of the container, as computed by the last layout.
func (rg *RenderGrid) Positions(d pr.GridDirection) []Fl {
	if d == pr.ForColumns {
		return rg.columnPositions
	}
	return rg.rowPositions
}

// isSubgridIn returns true if the tracks in d are inherited from the parent grid.
func (rg *RenderGrid) isSubgridIn(d pr.GridDirection) bool {
	if rg.parent == nil || rg.areaInParent == nil || !rg.style().IsSubgrid(d) {
		return false
	}
	// a masonry axis has no tracks to share
	return !rg.parent.isMasonryIn(d)
}

// isMasonryIn returns true if d is the masonry axis. A grid using masonry
// in both axes behaves as a regular grid.
func (rg *RenderGrid) isMasonryIn(d pr.GridDirection) bool {
	style := rg.style()
	return style.IsMasonry(d) && !style.IsMasonry(d.Orthogonal())
}

func (rg *RenderGrid) isMasonry() bool {
	return rg.isMasonryIn(pr.ForRows) || rg.isMasonryIn(pr.ForColumns)
}

// isReversedIn returns true for a subgrid whose direction in d is
// opposite to its parent's one.
func (rg *RenderGrid) isReversedIn(d pr.GridDirection) bool {
	if d == pr.ForRows || rg.parent == nil {
		return false
	}
	return rg.style().Direction != rg.parent.style().Direction
}

// ownerOf returns the grid containing the item directly.
func (rg *RenderGrid) ownerOf(id bo.ItemID) *RenderGrid {
	parent := rg.ctx.tree.Box(id).Parent
	if parent == rg.id {
		return rg
	}
	if owner := rg.ctx.renderGrid(parent); owner != nil {
		return owner
	}
	return rg
}

func (rg *RenderGrid) cbWidth() Fl { return rg.box().OverridingContainingBlockWidth.V() }

// containingBlockSize returns the size of the containing block of the container.
func (rg *RenderGrid) containingBlockSize(d pr.GridDirection) pr.MaybeFloat {
	return rg.box().OverridingContainingBlockSize(d)
}

// availableSpaceFor returns the content box size of the container in d,
// if definite.
func (rg *RenderGrid) availableSpaceFor(d pr.GridDirection) pr.MaybeFloat {
	if d == pr.ForColumns {
		return rg.contentWidth
	}
	return rg.contentHeight
}

func (rg *RenderGrid) hasDefiniteLogicalHeight() bool { return rg.contentHeight.Defined }

// computeContentLogicalMinHeight returns the content box min-height, or 0.
func (rg *RenderGrid) computeContentLogicalMinHeight() Fl {
	return rg.style().MinHeight.ResolveMaybe(rg.containingBlockSize(pr.ForRows)).V()
}

// computeContentLogicalMaxHeight returns the content box max-height, if any.
func (rg *RenderGrid) computeContentLogicalMaxHeight() pr.MaybeFloat {
	return rg.style().MaxHeight.ResolveMaybe(rg.containingBlockSize(pr.ForRows))
}

// gridGap returns the used gap in d. Percentages against an indefinite size
// resolve to 0, and a subgrid with a normal gap uses the gap of its parent.
func (rg *RenderGrid) gridGap(d pr.GridDirection, availableSize pr.MaybeFloat) Fl {
	gap := rg.style().Gap(d)
	if gap.IsAuto() {
		if rg.isSubgridIn(d) {
			return rg.parent.gridGap(d, rg.parent.availableSpaceFor(d))
		}
		return 0
	}
	return gap.ResolveMaybe(availableSize).V()
}

// guttersSize returns the size of the gaps between the tracks
// [startLine, startLine + span) of grid, collapsed auto-fit tracks
// having no gutters.
func (rg *RenderGrid) guttersSize(grid *Grid, d pr.GridDirection, startLine, span int, availableSize pr.MaybeFloat) Fl {
	if span <= 1 {
		return 0
	}
	gap := rg.gridGap(d, availableSize)
	if !grid.HasAutoRepeatEmptyTracks(d) {
		return gap * Fl(span-1)
	}

	var gapAccumulator Fl
	endLine := startLine + span
	for line := startLine; line < endLine-1; line++ {
		if !grid.IsEmptyAutoRepeatTrack(d, line) {
			gapAccumulator += gap
		}
	}
	// the loop above adds one extra gap for trailing collapsed tracks
	if gapAccumulator != 0 && grid.IsEmptyAutoRepeatTrack(d, endLine-1) {
		gapAccumulator -= gap
	}

	emptyTracks := grid.sortedEmptyTracks(d)
	// a collapsed start track has a gap if a non empty track comes before
	if startLine != 0 && grid.IsEmptyAutoRepeatTrack(d, startLine) {
		nonEmptyTracksBeforeStartLine := startLine
		for _, t := range emptyTracks {
			if t < startLine {
				nonEmptyTracksBeforeStartLine--
			}
		}
		if nonEmptyTracksBeforeStartLine != 0 {
			gapAccumulator += gap
		}
	}
	// and a collapsed end track has a gap if a non empty track comes after
	if grid.IsEmptyAutoRepeatTrack(d, endLine-1) {
		nonEmptyTracksAfterEndLine := grid.NumTracks(d) - endLine
		for _, t := range emptyTracks {
			if t >= endLine {
				nonEmptyTracksAfterEndLine--
			}
		}
		if nonEmptyTracksAfterEndLine != 0 {
			gapAccumulator += gap
		}
	}
	return gapAccumulator
}

// offsetBetweenTracks returns the content alignment data of d.
func (rg *RenderGrid) offsetBetweenTracks(d pr.GridDirection) contentAlignmentData {
	if d == pr.ForColumns {
		return rg.offsetBetweenColumns
	}
	return rg.offsetBetweenRows
}

// gridItemOffset returns the extra space added between two tracks by
// the content distribution.
func (rg *RenderGrid) gridItemOffset(d pr.GridDirection) Fl {
	return rg.offsetBetweenTracks(d).distributionOffset
}

// numTracks returns the number of tracks of the grid in d. Without rows,
// the number of columns is read from the style.
func (rg *RenderGrid) numTracks(grid *Grid, d pr.GridDirection) int {
	if grid.isMasonry {
		// the masonry axis has a single track holding every item
		if rg.isMasonryIn(d) {
			return 1
		}
		return grid.masonryGridAxisTracks
	}
	if d == pr.ForRows || grid.NumTracks(pr.ForRows) != 0 {
		return grid.NumTracks(d)
	}
	return rg.explicitCount(grid, pr.ForColumns)
}

// subgridEdges returns the margin, border and padding of the subgrid sg
// on the start and end sides of rg in d.
func (rg *RenderGrid) subgridEdges(sg *RenderGrid, d pr.GridDirection) (start, end Fl) {
	box := sg.box()
	cbWidth := rg.contentWidth.V()
	start = box.MarginStart(d, cbWidth) + box.BorderAndPaddingStart(d, cbWidth)
	end = box.MarginEnd(d, cbWidth) + box.BorderAndPadding(d, cbWidth) - box.BorderAndPaddingStart(d, cbWidth)
	if d == pr.ForColumns && rg.style().Direction == pr.RTL {
		start, end = end, start
	}
	return start, end
}

// isStretched returns true if the item is stretched in d: its
// self alignment is stretch (or normal, for an item without aspect ratio),
// its size is auto and it has no auto margin.
func (rg *RenderGrid) isStretched(id bo.ItemID, d pr.GridDirection) bool {
	box := rg.ctx.tree.Box(id)
	style := &box.Style
	if !style.LogicalSize(d).IsAuto() || box.HasAutoMargin(d) {
		return false
	}
	switch style.SelfAlignment(d, rg.style()).Align {
	case pr.AlignStretch:
		// the aspect ratio prefers the other axis
		return !(d == pr.ForColumns && rg.isAspectRatioBlockSizeDependentItem(id))
	case pr.AlignNormal:
		return style.AspectRatio == 0
	}
	return false
}

// isAspectRatioBlockSizeDependentItem returns true for an item whose
// width follows its aspect ratio from a height given by its rows.
func (rg *RenderGrid) isAspectRatioBlockSizeDependentItem(id bo.ItemID) bool {
	style := &rg.ctx.tree.Box(id).Style
	if style.AspectRatio <= 0 || !style.Width.IsAuto() {
		return false
	}
	if style.Height.IsPercent() {
		return true
	}
	return style.Height.IsAuto() && rg.isStretched(id, pr.ForRows)
}

// itemBorderBoxSize returns the border box width (or height) used for the
// item in a grid area of the given size, margins included.
func (rg *RenderGrid) itemBorderBoxSize(id bo.ItemID, d pr.GridDirection, areaSize pr.MaybeFloat) Fl {
	box := rg.ctx.tree.Box(id)
	cbWidth := rg.contentWidth.V()
	if d == pr.ForColumns && areaSize.Defined {
		cbWidth = areaSize.Value
	}
	bp := box.BorderAndPadding(d, cbWidth)
	margins := box.Margins(d, cbWidth)
	if size := box.Style.LogicalSize(d).ResolveMaybe(areaSize); size.Defined {
		return rg.ctx.clampSize(id, d, size.Value+bp, areaSize, cbWidth)
	}
	if d == pr.ForRows {
		if h := rg.itemDefiniteHeight(id, areaSize); h.Defined {
			return h.Value
		}
		return box.Height
	}
	if areaSize.Defined && rg.isStretched(id, d) {
		return rg.ctx.clampSize(id, d, areaSize.Value-margins, areaSize, cbWidth)
	}
	minWidth, maxWidth := rg.ctx.preferredWidths(id)
	if !areaSize.Defined {
		return maxWidth
	}
	// shrink to fit
	return utils.MinF(utils.MaxF(minWidth, areaSize.Value-margins), maxWidth)
}

// itemDefiniteHeight returns the border box height of the item when it does
// not depend on its content: fixed by its style, or stretched in its row area.
func (rg *RenderGrid) itemDefiniteHeight(id bo.ItemID, areaHeight pr.MaybeFloat) pr.MaybeFloat {
	box := rg.ctx.tree.Box(id)
	cbWidth := box.OverridingContainingBlockWidth.Or(rg.contentWidth.V())
	bp := box.BorderAndPadding(pr.ForRows, cbWidth)
	if h := box.Style.Height.ResolveMaybe(areaHeight); h.Defined {
		return pr.F(rg.ctx.clampSize(id, pr.ForRows, h.Value+bp, areaHeight, cbWidth))
	}
	if areaHeight.Defined && rg.isStretched(id, pr.ForRows) {
		margins := box.Margins(pr.ForRows, cbWidth)
		return pr.F(rg.ctx.clampSize(id, pr.ForRows, areaHeight.Value-margins, areaHeight, cbWidth))
	}
	return pr.AutoF
}
