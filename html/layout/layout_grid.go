package layout

import (
	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	"github.com/benoitkugler/gridlayout/logger"
	"github.com/benoitkugler/gridlayout/utils"
)

// layout places and sizes the items of the grid container, for the given
// content box width and optional height. It returns the used content height.
func (rg *RenderGrid) layout(contentWidth Fl, contentHeight pr.MaybeFloat) (Fl, error) {
	logger.ProgressLogger.Printf("grid layout of %s, width %g, height %s", rg.box(), contentWidth, contentHeight)

	rg.contentWidth, rg.contentHeight = pr.F(contentWidth), contentHeight
	rg.layoutState = gridLayoutState{}
	rg.algo.Reset()

	if err := rg.placeItemsOnGrid(rg.grid, rg.contentWidth, contentHeight); err != nil {
		return 0, err
	}
	for _, id := range rg.grid.Items() {
		if rg.isAspectRatioBlockSizeDependentItem(id) {
			rg.layoutState.hasAspectRatioBlockSizeDependentItem = true
		}
	}

	// 1- the columns
	if err := rg.computeColumnTrackSizes(contentWidth); err != nil {
		return 0, err
	}

	// 2- the rows, using the column sizes
	height, err := rg.computeRowTrackSizes(contentHeight, rg.newItemSizeCache())
	if err != nil {
		return 0, err
	}

	// 3- once again if the contributions of some items depend on the rows
	if rg.layoutState.needsSecondPass(rg.algo) {
		logger.ProgressLogger.Printf("second track sizing pass for %s", rg.box())
		if err := rg.computeColumnTrackSizes(contentWidth); err != nil {
			return 0, err
		}
		if height, err = rg.computeRowTrackSizes(pr.F(height), nil); err != nil {
			return 0, err
		}
	}

	rg.populateGridPositionsForDirection(pr.ForColumns)
	rg.populateGridPositionsForDirection(pr.ForRows)
	rg.layoutGridItems()

	rg.box().Grid = &bo.GridGeometry{
		ColumnPositions:    rg.columnPositions,
		RowPositions:       rg.rowPositions,
		ColumnGap:          rg.gridGap(pr.ForColumns, rg.contentWidth) + rg.offsetBetweenColumns.distributionOffset,
		RowGap:             rg.gridGap(pr.ForRows, pr.F(height)) + rg.offsetBetweenRows.distributionOffset,
		MasonryContentSize: rg.masonry.GridContentSize(),
	}
	return height, nil
}

func (rg *RenderGrid) computeColumnTrackSizes(contentWidth Fl) error {
	rg.computeBaselineAlignmentContext(pr.ForColumns)
	n := rg.numTracks(rg.grid, pr.ForColumns)
	if err := rg.algo.Run(pr.ForColumns, n, TrackSizing, pr.F(contentWidth), nil); err != nil {
		return err
	}
	if rg.isMasonryIn(pr.ForColumns) {
		// the grid axis (rows) is not sized yet: the masonry
		// placement happens after the rows
		return nil
	}
	rg.offsetBetweenColumns = rg.computeContentPositionAndDistributionOffset(pr.ForColumns,
		rg.algo.FreeSpace(pr.ForColumns).V(), rg.nonCollapsedTracks(pr.ForColumns))
	return nil
}

// computeRowTrackSizes sizes the rows, against contentHeight if definite,
// or else against the content. It returns the used content height.
func (rg *RenderGrid) computeRowTrackSizes(contentHeight pr.MaybeFloat, cache ItemSizeCache) (Fl, error) {
	if rg.isMasonryIn(pr.ForRows) {
		return rg.layoutMasonryAxis(pr.ForRows, contentHeight)
	}

	rg.computeBaselineAlignmentContext(pr.ForRows)
	n := rg.numTracks(rg.grid, pr.ForRows)
	var height Fl
	if contentHeight.Defined {
		if err := rg.algo.Run(pr.ForRows, n, TrackSizing, contentHeight, cache); err != nil {
			return 0, err
		}
		height = contentHeight.Value
	} else {
		if err := rg.algo.Run(pr.ForRows, n, IntrinsicSizeComputation, pr.AutoF, cache); err != nil {
			return 0, err
		}
		height = rg.clampContentHeight(rg.algo.computeTrackBasedSize())
		if rg.style().HasSizeContainment(pr.ForRows) {
			// the artificial height found above is now definite
			if err := rg.algo.Run(pr.ForRows, n, TrackSizing, pr.F(height), nil); err != nil {
				return 0, err
			}
		}
		rg.algo.setFreeSpace(pr.ForRows, pr.F(height-rg.algo.computeTrackBasedSize()))
		rg.layoutState.hasFlexibleRowsWithoutBaselineItems = len(rg.algo.flexibleSizedTracksIndex) != 0 &&
			rg.baselines[pr.ForRows].isEmpty()
	}
	rg.offsetBetweenRows = rg.computeContentPositionAndDistributionOffset(pr.ForRows,
		rg.algo.FreeSpace(pr.ForRows).V(), rg.nonCollapsedTracks(pr.ForRows))

	if rg.isMasonryIn(pr.ForColumns) {
		if _, err := rg.layoutMasonryAxis(pr.ForColumns, rg.contentWidth); err != nil {
			return 0, err
		}
	}
	return height, nil
}

// layoutMasonryAxis places the items along the masonry axis d, the grid
// axis being already sized, and returns the used content size in d.
func (rg *RenderGrid) layoutMasonryAxis(d pr.GridDirection, contentSize pr.MaybeFloat) (Fl, error) {
	if d == pr.ForRows {
		// keeps the state machine in sync; the masonry axis has no tracks to size
		if err := rg.algo.Run(pr.ForRows, rg.numTracks(rg.grid, pr.ForRows), TrackSizing, contentSize, nil); err != nil {
			return 0, err
		}
	}
	if err := rg.masonry.performMasonryPlacement(rg.grid, d); err != nil {
		return 0, err
	}
	size := rg.masonry.GridContentSize()
	if contentSize.Defined {
		size = contentSize.Value
	} else if d == pr.ForRows {
		size = rg.clampContentHeight(size)
	}
	offset := rg.computeContentPositionAndDistributionOffset(d, size-rg.masonry.GridContentSize(), 1)
	if d == pr.ForColumns {
		rg.offsetBetweenColumns = offset
	} else {
		rg.offsetBetweenRows = offset
	}
	return size, nil
}

func (rg *RenderGrid) clampContentHeight(height Fl) Fl {
	if max := rg.computeContentLogicalMaxHeight(); max.Defined {
		height = utils.MinF(height, max.Value)
	}
	return utils.MaxF(height, rg.computeContentLogicalMinHeight())
}

// nonCollapsedTracks returns the number of tracks, collapsed auto-fit tracks excluded.
func (rg *RenderGrid) nonCollapsedTracks(d pr.GridDirection) int {
	n := len(rg.algo.Tracks(d))
	if s := rg.grid.AutoRepeatEmptyTracks(d); s != nil {
		n -= s.Size()
	}
	return n
}

// newItemSizeCache returns a cache for the heights of the items which do
// not depend on the rows being sized.
func (rg *RenderGrid) newItemSizeCache() ItemSizeCache {
	var eligible []bo.ItemID
	for _, id := range rg.grid.Items() {
		style := &rg.ctx.tree.Box(id).Style
		if style.Height.IsPercent() || style.MinHeight.IsPercent() || style.MaxHeight.IsPercent() {
			continue
		}
		if rg.isAspectRatioBlockSizeDependentItem(id) || rg.ctx.subgrid(id) != nil {
			continue
		}
		eligible = append(eligible, id)
	}
	return NewItemSizeCache(eligible)
}

// computeIntrinsicLogicalWidths returns the min-content and max-content
// border box widths of the container, computed on a transient grid.
func (rg *RenderGrid) computeIntrinsicLogicalWidths() (minWidth, maxWidth Fl, err error) {
	savedWidth, savedHeight := rg.contentWidth, rg.contentHeight
	defer func() { rg.contentWidth, rg.contentHeight = savedWidth, savedHeight }()
	rg.contentWidth, rg.contentHeight = pr.AutoF, pr.AutoF

	grid := NewGrid()
	if err := rg.placeItemsOnGrid(grid, pr.AutoF, pr.AutoF); err != nil {
		return 0, 0, err
	}
	if rg.isMasonryIn(pr.ForColumns) {
		minWidth, maxWidth = rg.masonry.computeIntrinsicWidths(grid)
	} else {
		algo := newTrackSizingAlgorithm(rg, grid)
		rg.computeBaselineAlignmentContextFor(grid, pr.ForColumns)
		n := rg.numTracks(grid, pr.ForColumns)
		if err := algo.Run(pr.ForColumns, n, IntrinsicSizeComputation, pr.AutoF, nil); err != nil {
			return 0, 0, err
		}
		gutters := rg.guttersSize(grid, pr.ForColumns, 0, n, pr.AutoF)
		minWidth, maxWidth = algo.MinContentSize()+gutters, algo.MaxContentSize()+gutters
	}
	return minWidth, maxWidth, nil
}

// populateGridPositionsForDirection computes the positions of the lines,
// relative to the border box, including gaps and content alignment.
// Collapsed auto-fit tracks have no gaps around them.
func (rg *RenderGrid) populateGridPositionsForDirection(d pr.GridDirection) {
	var tracks []GridTrack
	if !rg.isMasonryIn(d) {
		tracks = rg.algo.Tracks(d)
	}
	cbWidth := rg.cbWidth()
	offset := rg.offsetBetweenTracks(d)

	numberOfLines := len(tracks) + 1
	lastLine := numberOfLines - 1
	positions := make([]Fl, numberOfLines)
	positions[0] = rg.borderAndPaddingStart(d, cbWidth) + offset.positionOffset
	if numberOfLines > 1 {
		hasCollapsedTracks := rg.grid.HasAutoRepeatEmptyTracks(d)
		gap := rg.gridGap(d, rg.availableSpaceFor(d))
		nextToLastLine := numberOfLines - 2
		for i := 0; i < nextToLastLine; i++ {
			positions[i+1] = positions[i] + tracks[i].BaseSize()
			if !hasCollapsedTracks {
				positions[i+1] += offset.distributionOffset + gap
			}
		}
		positions[lastLine] = positions[nextToLastLine] + tracks[nextToLastLine].BaseSize()

		if hasCollapsedTracks {
			// a gap follows a track if neither it nor every following track is collapsed
			remainingEmptyTracks := rg.grid.AutoRepeatEmptyTracks(d).Size()
			var accumulator Fl
			for i := 1; i < lastLine; i++ {
				if rg.grid.IsEmptyAutoRepeatTrack(d, i-1) {
					remainingEmptyTracks--
				} else if allRemainingTracksAreEmpty := remainingEmptyTracks == lastLine-i; !allRemainingTracksAreEmpty {
					accumulator += gap + offset.distributionOffset
				}
				positions[i] += accumulator
			}
			positions[lastLine] += accumulator
		}
	}
	if d == pr.ForColumns {
		rg.columnPositions = positions
	} else {
		rg.rowPositions = positions
	}
}

// borderAndPaddingStart returns the border and padding on the side where
// the tracks start: the right side for right to left containers.
func (rg *RenderGrid) borderAndPaddingStart(d pr.GridDirection, cbWidth Fl) Fl {
	box := rg.box()
	if d == pr.ForColumns && rg.style().Direction == pr.RTL {
		return box.Style.BorderWidth[pr.Right] + box.Padding(pr.Right, cbWidth)
	}
	return box.BorderAndPaddingStart(d, cbWidth)
}

// gridAreaBreadthFromPositions returns the size of a span once the
// positions are computed, gaps and distribution offsets included.
func (rg *RenderGrid) gridAreaBreadthFromPositions(d pr.GridDirection, span GridSpan) Fl {
	positions := rg.Positions(d)
	tracks := rg.algo.Tracks(d)
	if span.EndLine() > len(tracks) || span.EndLine() >= len(positions) {
		return 0
	}
	return positions[span.EndLine()-1] - positions[span.StartLine()] + tracks[span.EndLine()-1].BaseSize()
}

// layoutGridItems lays out each item in its grid area and positions it.
func (rg *RenderGrid) layoutGridItems() {
	tree := rg.ctx.tree
	rtl := rg.style().Direction == pr.RTL
	containerWidth := rg.contentWidth.V() + rg.box().BorderAndPadding(pr.ForColumns, rg.cbWidth())
	for _, id := range rg.grid.Items() {
		area, ok := rg.grid.GridItemArea(id)
		if !ok || area.Rows.IsIndefinite() || area.Columns.IsIndefinite() {
			logger.WarningLogger.Printf("grid item %s was not placed", tree.Box(id))
			continue
		}
		box := tree.Box(id)

		var columnsBreadth, rowsBreadth pr.MaybeFloat
		if !rg.isMasonryIn(pr.ForColumns) {
			columnsBreadth = pr.F(rg.gridAreaBreadthFromPositions(pr.ForColumns, area.Columns))
		}
		if !rg.isMasonryIn(pr.ForRows) {
			rowsBreadth = pr.F(rg.gridAreaBreadthFromPositions(pr.ForRows, area.Rows))
		}
		box.OverridingContainingBlockWidth = columnsBreadth
		box.OverridingContainingBlockHeight = rowsBreadth

		width := rg.itemBorderBoxSize(id, pr.ForColumns, columnsBreadth)
		height := rg.itemDefiniteHeight(id, rowsBreadth)
		if rg.isAspectRatioBlockSizeDependentItem(id) && height.Defined {
			cbWidth := columnsBreadth.V()
			contentHeight := height.Value - box.BorderAndPadding(pr.ForRows, cbWidth)
			width = rg.ctx.clampSize(id, pr.ForColumns, utils.MaxF(0, contentHeight)*box.Style.AspectRatio+box.BorderAndPadding(pr.ForColumns, cbWidth), columnsBreadth, cbWidth)
		}
		if width != box.Width || box.NeedsLayout || !height.Defined || height.Value != box.Height || rg.ctx.renderGrid(id) != nil {
			rg.ctx.layoutBox(id, width, height)
		}

		var x, y Fl
		if rg.isMasonryIn(pr.ForColumns) {
			x = rg.columnPositions[0] + rg.masonry.Offset(id) + rg.masonryMarginStart(id, pr.ForColumns)
		} else {
			x = rg.columnPositions[area.Columns.StartLine()] + rg.selfAlignmentOffset(id, pr.ForColumns, columnsBreadth.V())
		}
		if rg.isMasonryIn(pr.ForRows) {
			y = rg.rowPositions[0] + rg.masonry.Offset(id) + rg.masonryMarginStart(id, pr.ForRows)
		} else {
			y = rg.rowPositions[area.Rows.StartLine()] + rg.selfAlignmentOffset(id, pr.ForRows, rowsBreadth.V())
		}
		if rtl {
			x = containerWidth - x - box.Width
		}
		box.PositionX, box.PositionY = x, y
	}
}

func (rg *RenderGrid) masonryMarginStart(id bo.ItemID, d pr.GridDirection) Fl {
	start, _, _, _ := rg.itemMargins(id, d, rg.contentWidth.V())
	return start
}

// baseline returns the first (or last) baseline of the container, from
// the top of its border box: the one of the first item of the first row
// taking part in baseline alignment, or else of the first item of that row.
func (rg *RenderGrid) baseline(last bool) pr.MaybeFloat {
	if !rg.grid.HasGridItems() || rg.isMasonryIn(pr.ForRows) {
		return pr.AutoF
	}
	row, numRows := 0, rg.grid.NumTracks(pr.ForRows)
	if last {
		row = numRows - 1
	}
	var candidate bo.ItemID = bo.NoItem
	for _, id := range rg.grid.Items() {
		area, _ := rg.grid.GridItemArea(id)
		inRow := area.Rows.StartLine() == row
		if last {
			inRow = area.Rows.EndLine()-1 == row
		}
		if !inRow {
			continue
		}
		if rg.participatesInBaseline(id, pr.ForRows) {
			candidate = id
			break
		}
		if candidate == bo.NoItem {
			candidate = id
		}
	}
	if candidate == bo.NoItem {
		return pr.AutoF
	}
	box := rg.ctx.tree.Box(candidate)
	b := rg.ctx.baseline(candidate, last)
	if !b.Defined {
		// synthesized from the bottom border edge
		return pr.F(box.PositionY + box.Height)
	}
	return pr.F(box.PositionY + b.Value)
}
