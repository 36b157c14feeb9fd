package layout

import (
	"math"
	"sort"

	"github.com/hashicorp/go-set/v3"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	"github.com/benoitkugler/gridlayout/logger"
	"github.com/benoitkugler/gridlayout/utils"
)

// autoPlacementMajorAxisDirection is the direction filled first
// by the auto-placement: rows for grid-auto-flow: row.
func (rg *RenderGrid) autoPlacementMajorAxisDirection() pr.GridDirection {
	if rg.style().IsColumnFlow() {
		return pr.ForColumns
	}
	return pr.ForRows
}

func (rg *RenderGrid) autoPlacementMinorAxisDirection() pr.GridDirection {
	return rg.autoPlacementMajorAxisDirection().Orthogonal()
}

// hasAutoRepeat is false for subgrids and masonry axis, where repeat(auto-fill)
// only repeats line names.
func (rg *RenderGrid) hasAutoRepeat(d pr.GridDirection) bool {
	tl := rg.style().TemplateTracks(d)
	return len(tl.AutoRepeat) != 0 && !tl.Subgrid && !tl.Masonry
}

// trackSizeForRepeat returns the size of a track used to compute the
// number of repetitions: the max breadth when fixed, else the min breadth.
func trackSizeForRepeat(ts pr.TrackSize, available Fl) Fl {
	if maxBreadth := ts.MaxTrackBreadth(); maxBreadth.IsSpecified() {
		return maxBreadth.Resolve(available)
	}
	return ts.MinTrackBreadth().Resolve(available)
}

// computeAutoRepeatTracksCount returns the number of tracks generated by
// repeat(auto-fill|auto-fit, ...) in d, for the given content box size.
func (rg *RenderGrid) computeAutoRepeatTracksCount(d pr.GridDirection, availableSize pr.MaybeFloat) int {
	if !rg.hasAutoRepeat(d) {
		return 0
	}
	style := rg.style()
	tl := style.TemplateTracks(d)
	autoRepeatTrackListLength := len(tl.AutoRepeat)

	needsToFulfillMinimumSize := false
	if !availableSize.Defined {
		cbSize := rg.containingBlockSize(d)
		var availableMaxSize, availableMinSize pr.MaybeFloat
		maxSize, minSize := style.LogicalMaxSize(d), style.LogicalMinSize(d)
		if maxSize.IsSpecified() {
			availableMaxSize = pr.F(maxSize.Resolve(cbSize.V()))
		}
		if !availableMaxSize.Defined && !minSize.IsSpecified() {
			return autoRepeatTrackListLength
		}
		if minSize.IsSpecified() {
			availableMinSize = pr.F(minSize.Resolve(cbSize.V()))
			if !maxSize.IsSpecified() {
				needsToFulfillMinimumSize = true
			}
		}
		availableSize = pr.F(utils.MaxF(availableMinSize.V(), availableMaxSize.V()))
	}

	available := availableSize.Value
	var autoRepeatTracksSize Fl
	for _, ts := range tl.AutoRepeat {
		autoRepeatTracksSize += trackSizeForRepeat(ts, available)
	}
	// avoid a division by zero
	autoRepeatTracksSize = utils.MaxF(1, autoRepeatTracksSize)

	// there is always at least one repetition
	tracksSize := autoRepeatTracksSize
	for _, ts := range tl.Sizes {
		tracksSize += trackSizeForRepeat(ts, available)
	}
	gapSize := rg.gridGap(d, availableSize)
	tracksSize += gapSize * Fl(len(tl.Sizes)+autoRepeatTrackListLength-1)

	freeSpace := available - tracksSize
	if freeSpace <= 0 {
		return autoRepeatTrackListLength
	}
	autoRepeatSizeWithGap := autoRepeatTracksSize + gapSize*Fl(autoRepeatTrackListLength)
	repetitions := 1 + int(math.Floor(freeSpace/autoRepeatSizeWithGap))
	freeSpace -= autoRepeatSizeWithGap * Fl(repetitions-1)
	if needsToFulfillMinimumSize && freeSpace != 0 {
		repetitions++
	}
	return repetitions * autoRepeatTrackListLength
}

// clampAutoRepeatTracks keeps the explicit grid below [MaxLines].
func (rg *RenderGrid) clampAutoRepeatTracks(d pr.GridDirection, autoRepeatTracks int) int {
	if autoRepeatTracks == 0 {
		return 0
	}
	insertionPoint := rg.style().TemplateTracks(d).AutoRepeatInsertionPoint
	if insertionPoint == 0 {
		return utils.MinInt(autoRepeatTracks, MaxLines)
	}
	if insertionPoint >= MaxLines {
		return 0
	}
	return utils.MinInt(autoRepeatTracks, MaxLines-insertionPoint)
}

// explicitCount returns the number of tracks of the explicit grid in d.
func (rg *RenderGrid) explicitCount(grid *Grid, d pr.GridDirection) int {
	if rg.isSubgridIn(d) {
		return rg.areaInParent.Span(d).IntegerSpan()
	}
	if rg.style().IsMasonry(d) {
		return 0
	}
	return explicitGridCount(rg.style(), d, grid.AutoRepeatTracks(d))
}

func (rg *RenderGrid) positionResolver(grid *Grid, d pr.GridDirection) positionResolver {
	return newPositionResolver(rg.style(), d, rg.explicitCount(grid, d), grid.AutoRepeatTracks(d))
}

// placeItemsOnGrid runs the placement of the items in grid, if needed.
// Subgrid items are placed afterwards, in a second pass over the placed items.
func (rg *RenderGrid) placeItemsOnGrid(grid *Grid, availableWidth, availableHeight pr.MaybeFloat) error {
	autoRepeatColumns := rg.clampAutoRepeatTracks(pr.ForColumns, rg.computeAutoRepeatTracksCount(pr.ForColumns, availableWidth))
	autoRepeatRows := rg.clampAutoRepeatTracks(pr.ForRows, rg.computeAutoRepeatTracksCount(pr.ForRows, availableHeight))
	isMasonry := rg.isMasonryIn(pr.ForRows) || rg.isMasonryIn(pr.ForColumns)

	if autoRepeatColumns != grid.AutoRepeatTracks(pr.ForColumns) || autoRepeatRows != grid.AutoRepeatTracks(pr.ForRows) ||
		isMasonry != grid.isMasonry {
		grid.SetNeedsItemsPlacement(true)
	}
	if grid.NeedsItemsPlacement() {
		if err := rg.performItemsPlacement(grid, autoRepeatRows, autoRepeatColumns, isMasonry); err != nil {
			return err
		}
	}
	// the subgrids were possibly placed in another grid since
	return rg.placeSubgrids(grid)
}

func (rg *RenderGrid) performItemsPlacement(grid *Grid, autoRepeatRows, autoRepeatColumns int, isMasonry bool) error {
	logger.ProgressLogger.Printf("placing the items of %s", rg.box())

	grid.SetAutoRepeatTracks(autoRepeatRows, autoRepeatColumns)
	grid.isMasonry = isMasonry
	if rg.areaInParent != nil {
		var maxRows, maxColumns int
		if rg.isSubgridIn(pr.ForRows) {
			maxRows = rg.areaInParent.Rows.IntegerSpan()
		}
		if rg.isSubgridIn(pr.ForColumns) {
			maxColumns = rg.areaInParent.Columns.IntegerSpan()
		}
		grid.SetClampingForSubgrid(maxRows, maxColumns)
	}

	if err := rg.populateExplicitGridAndOrderIterator(grid); err != nil {
		return err
	}

	var autoMajorAxisItems, specifiedMajorAxisItems []bo.ItemID
	major := rg.autoPlacementMajorAxisDirection()
	for _, id := range grid.Items() {
		area, _ := grid.GridItemArea(id)
		if !area.Rows.IsIndefinite() {
			area.Rows = area.Rows.Translate(grid.ExplicitGridStart(pr.ForRows))
		}
		if !area.Columns.IsIndefinite() {
			area.Columns = area.Columns.Translate(grid.ExplicitGridStart(pr.ForColumns))
		}
		if area.Rows.IsIndefinite() || area.Columns.IsIndefinite() {
			grid.SetGridItemArea(id, area)
			if area.Span(major).IsIndefinite() {
				autoMajorAxisItems = append(autoMajorAxisItems, id)
			} else {
				specifiedMajorAxisItems = append(specifiedMajorAxisItems, id)
			}
			continue
		}
		if isMasonry {
			// the cells are filled by the masonry placement
			grid.SetGridItemArea(id, area)
			continue
		}
		if _, err := grid.Insert(id, area); err != nil {
			return err
		}
	}

	if isMasonry {
		rg.recordMasonryAreas(grid)
	} else {
		if err := rg.placeSpecifiedMajorAxisItemsOnGrid(grid, specifiedMajorAxisItems); err != nil {
			return err
		}
		if err := rg.placeAutoMajorAxisItemsOnGrid(grid, autoMajorAxisItems); err != nil {
			return err
		}
	}

	grid.SetAutoRepeatEmptyColumns(rg.computeEmptyTracksForAutoRepeat(grid, pr.ForColumns))
	grid.SetAutoRepeatEmptyRows(rg.computeEmptyTracksForAutoRepeat(grid, pr.ForRows))
	grid.SetNeedsItemsPlacement(false)
	return nil
}

// placeSubgrids places the items of the subgrids of grid, once the
// outer placement is complete.
func (rg *RenderGrid) placeSubgrids(grid *Grid) error {
	for _, id := range grid.Items() {
		sg := rg.ctx.subgrid(id)
		if sg == nil {
			continue
		}
		area, _ := grid.GridItemArea(id)
		sg.areaInParent = &area
		sg.grid.SetNeedsItemsPlacement(true)
		if err := sg.placeItemsOnGrid(sg.grid, pr.AutoF, pr.AutoF); err != nil {
			return err
		}
	}
	return nil
}

// populateExplicitGridAndOrderIterator collects the items in order-modified
// document order, resolves their positions and sizes the grid to contain
// the explicit grid and every definite position.
func (rg *RenderGrid) populateExplicitGridAndOrderIterator(grid *Grid) error {
	items := rg.ctx.tree.InFlowChildren(rg.id)
	sort.SliceStable(items, func(i, j int) bool {
		return rg.ctx.tree.Box(items[i]).Style.Order < rg.ctx.tree.Box(items[j]).Style.Order
	})
	grid.orderedItems = items

	rowResolver, columnResolver := rg.positionResolver(grid, pr.ForRows), rg.positionResolver(grid, pr.ForColumns)
	smallestRowStart, smallestColumnStart := 0, 0
	maximumRowIndex, maximumColumnIndex := rowResolver.explicitCount, columnResolver.explicitCount

	for _, id := range items {
		style := &rg.ctx.tree.Box(id).Style
		area := GridArea{}
		for _, resolver := range [...]*positionResolver{&rowResolver, &columnResolver} {
			d := resolver.direction
			if rg.isMasonryIn(d) {
				area.SetSpan(d, UntranslatedDefiniteSpan(0, 1))
				continue
			}
			span := resolver.resolveSpan(style)
			area.SetSpan(d, span)
			if rg.isSubgridIn(d) {
				continue
			}
			smallest, maximum := &smallestRowStart, &maximumRowIndex
			if d == pr.ForColumns {
				smallest, maximum = &smallestColumnStart, &maximumColumnIndex
			}
			if !span.IsIndefinite() {
				*smallest = utils.MinInt(*smallest, span.StartLine())
				*maximum = utils.MaxInt(*maximum, span.EndLine())
			} else {
				// grow the grid for the largest auto-placed span
				*maximum = utils.MaxInt(*maximum, resolver.spanSizeForAutoPlacedItem(style))
			}
		}
		grid.SetGridItemArea(id, area)
	}
	if rg.isMasonryIn(pr.ForRows) {
		maximumRowIndex = 1
	} else if rg.isMasonryIn(pr.ForColumns) {
		maximumColumnIndex = 1
	}

	rowOffset, maximumRowIndex, boundedRows := boundGridExtent(-smallestRowStart, maximumRowIndex, rowResolver.explicitCount)
	columnOffset, maximumColumnIndex, boundedColumns := boundGridExtent(-smallestColumnStart, maximumColumnIndex, columnResolver.explicitCount)
	if boundedRows || boundedColumns {
		for _, id := range items {
			area, _ := grid.GridItemArea(id)
			area.Rows = clampUntranslated(area.Rows, rowOffset, maximumRowIndex)
			area.Columns = clampUntranslated(area.Columns, columnOffset, maximumColumnIndex)
			grid.SetGridItemArea(id, area)
		}
	}

	grid.SetExplicitGridStart(rowOffset, columnOffset)
	return grid.EnsureGridSize(maximumRowIndex+rowOffset, maximumColumnIndex+columnOffset)
}

// boundGridExtent limits the implicit tracks before the explicit grid
// (offset) and the lines after its start (maximum) so that the whole
// grid has at most [MaxLines] tracks. The explicit grid is kept.
func boundGridExtent(offset, maximum, explicitCount int) (int, int, bool) {
	if offset+maximum <= MaxLines {
		return offset, maximum, false
	}
	logger.WarningLogger.Printf("grid of %d tracks reduced to %d", offset+maximum, MaxLines)
	offset = utils.MinInt(offset, MaxLines-explicitCount)
	maximum = utils.MinInt(maximum, MaxLines-offset)
	return offset, maximum, true
}

// clampUntranslated restricts an untranslated span to the lines
// [-offset, maximum], keeping at least one track.
func clampUntranslated(s GridSpan, offset, maximum int) GridSpan {
	if !s.IsUntranslatedDefinite() {
		return s
	}
	c := s.Translate(offset).Clamp(offset + maximum)
	return UntranslatedDefiniteSpan(c.StartLine()-offset, c.EndLine()-offset)
}

// truncateToMaxLines cuts the spans of an auto-placed area which
// would grow the grid past [MaxLines].
func truncateToMaxLines(area GridArea) GridArea {
	truncated := GridArea{Rows: area.Rows.Clamp(MaxLines), Columns: area.Columns.Clamp(MaxLines)}
	if truncated != area {
		logger.WarningLogger.Printf("auto-placed area %s truncated to %d lines", area, MaxLines)
	}
	return truncated
}

func (rg *RenderGrid) spanSizeForAutoPlacedItem(grid *Grid, id bo.ItemID, d pr.GridDirection) int {
	return rg.positionResolver(grid, d).spanSizeForAutoPlacedItem(&rg.ctx.tree.Box(id).Style)
}

// createEmptyGridAreaAtSpecifiedPositionsOutsideGrid returns an area at the
// end of the grid in the direction orthogonal to specifiedDirection.
func (rg *RenderGrid) createEmptyGridAreaAtSpecifiedPositionsOutsideGrid(grid *Grid, id bo.ItemID,
	specifiedDirection pr.GridDirection, specifiedPositions GridSpan,
) GridArea {
	crossDirection := specifiedDirection.Orthogonal()
	endOfCrossDirection := grid.NumTracks(crossDirection)
	crossDirectionSpanSize := rg.spanSizeForAutoPlacedItem(grid, id, crossDirection)
	crossDirectionPositions := TranslatedDefiniteSpan(endOfCrossDirection, endOfCrossDirection+crossDirectionSpanSize)
	var area GridArea
	area.SetSpan(specifiedDirection, specifiedPositions)
	area.SetSpan(crossDirection, crossDirectionPositions)
	return area
}

func (rg *RenderGrid) placeSpecifiedMajorAxisItemsOnGrid(grid *Grid, items []bo.ItemID) error {
	major, minor := rg.autoPlacementMajorAxisDirection(), rg.autoPlacementMinorAxisDirection()
	isDense := rg.style().IsDenseFlow()
	// for sparse packing, the last auto-placed position in each major track
	minorAxisCursors := map[int]int{}
	for _, id := range items {
		majorAxisPositions := grid.GridItemSpan(id, major)
		minorAxisSpanSize := rg.spanSizeForAutoPlacedItem(grid, id, minor)
		majorAxisInitialPosition := majorAxisPositions.StartLine()

		cursor := 0
		if !isDense {
			cursor = minorAxisCursors[majorAxisInitialPosition]
		}
		it := NewGridIterator(grid, major, majorAxisInitialPosition, cursor)
		emptyGridArea := it.NextEmptyGridArea(majorAxisPositions.IntegerSpan(), minorAxisSpanSize)
		if emptyGridArea == nil {
			area := rg.createEmptyGridAreaAtSpecifiedPositionsOutsideGrid(grid, id, major, majorAxisPositions)
			emptyGridArea = &area
		}
		inserted, err := grid.Insert(id, truncateToMaxLines(*emptyGridArea))
		if err != nil {
			return err
		}
		if !isDense {
			minorAxisCursors[majorAxisInitialPosition] = inserted.Span(minor).StartLine()
		}
	}
	return nil
}

type autoPlacementCursor struct {
	row, column int
}

func (rg *RenderGrid) placeAutoMajorAxisItemsOnGrid(grid *Grid, items []bo.ItemID) error {
	var cursor autoPlacementCursor
	isDense := rg.style().IsDenseFlow()
	for _, id := range items {
		if err := rg.placeAutoMajorAxisItemOnGrid(grid, id, &cursor); err != nil {
			return err
		}
		if isDense {
			cursor = autoPlacementCursor{}
		}
	}
	return nil
}

func (rg *RenderGrid) placeAutoMajorAxisItemOnGrid(grid *Grid, id bo.ItemID, cursor *autoPlacementCursor) error {
	major, minor := rg.autoPlacementMajorAxisDirection(), rg.autoPlacementMinorAxisDirection()
	majorAxisSpanSize := rg.spanSizeForAutoPlacedItem(grid, id, major)
	endOfMajorAxis := grid.NumTracks(major)
	majorAxisCursor, minorAxisCursor := cursor.row, cursor.column
	if major == pr.ForColumns {
		majorAxisCursor, minorAxisCursor = cursor.column, cursor.row
	}

	var emptyGridArea *GridArea
	minorAxisPositions := grid.GridItemSpan(id, minor)
	if minorAxisPositions.IsTranslatedDefinite() {
		// move to the next major track if the item is before the cursor
		if minorAxisPositions.StartLine() < minorAxisCursor {
			majorAxisCursor++
		}
		if majorAxisCursor < endOfMajorAxis {
			it := NewGridIterator(grid, minor, minorAxisPositions.StartLine(), majorAxisCursor)
			emptyGridArea = it.NextEmptyGridArea(minorAxisPositions.IntegerSpan(), majorAxisSpanSize)
		}
		if emptyGridArea == nil {
			area := rg.createEmptyGridAreaAtSpecifiedPositionsOutsideGrid(grid, id, minor, minorAxisPositions)
			emptyGridArea = &area
		}
	} else {
		minorAxisSpanSize := rg.spanSizeForAutoPlacedItem(grid, id, minor)
		for majorAxisIndex := majorAxisCursor; majorAxisIndex < endOfMajorAxis; majorAxisIndex++ {
			it := NewGridIterator(grid, major, majorAxisIndex, minorAxisCursor)
			emptyGridArea = it.NextEmptyGridArea(majorAxisSpanSize, minorAxisSpanSize)
			if emptyGridArea != nil {
				// the minor axis extent is fixed by the explicit grid and the definite items
				if emptyGridArea.Span(minor).EndLine() <= grid.NumTracks(minor) {
					break
				}
				emptyGridArea = nil
			}
			minorAxisCursor = 0
		}
		if emptyGridArea == nil {
			area := rg.createEmptyGridAreaAtSpecifiedPositionsOutsideGrid(grid, id, minor, TranslatedDefiniteSpan(0, minorAxisSpanSize))
			emptyGridArea = &area
		}
	}

	inserted, err := grid.Insert(id, truncateToMaxLines(*emptyGridArea))
	if err != nil {
		return err
	}
	cursor.row, cursor.column = inserted.Rows.StartLine(), inserted.Columns.StartLine()
	return nil
}

// computeEmptyTracksForAutoRepeat returns the auto-fit tracks without
// items, which collapse, or nil.
func (rg *RenderGrid) computeEmptyTracksForAutoRepeat(grid *Grid, d pr.GridDirection) *set.Set[int] {
	tl := rg.style().TemplateTracks(d)
	if !rg.hasAutoRepeat(d) || tl.AutoRepeatType != pr.AutoFit {
		return nil
	}
	firstAutoRepeatTrack := tl.AutoRepeatInsertionPoint + grid.ExplicitGridStart(d)
	lastAutoRepeatTrack := firstAutoRepeatTrack + grid.AutoRepeatTracks(d)
	var emptyTrackIndexes *set.Set[int]
	for trackIndex := firstAutoRepeatTrack; trackIndex < lastAutoRepeatTrack; trackIndex++ {
		if grid.HasGridItems() {
			it := NewGridIterator(grid, d, trackIndex, 0)
			if _, ok := it.NextGridItem(); ok {
				continue
			}
		}
		if emptyTrackIndexes == nil {
			emptyTrackIndexes = set.New[int](lastAutoRepeatTrack - firstAutoRepeatTrack)
		}
		emptyTrackIndexes.Insert(trackIndex)
	}
	return emptyTrackIndexes
}
