package layout

import (
	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	"github.com/benoitkugler/gridlayout/utils"
)

// ItemSizeCache stores the heights of grid items measured during the
// first row pass, keyed by the width they were laid out at.
// Only the items registered when the cache is built are stored: the
// others have a height depending on the rows being sized.
type ItemSizeCache map[bo.ItemID]cachedItemSize

type cachedItemSize struct {
	width, height Fl
	valid         bool
}

// NewItemSizeCache returns a cache accepting the given items.
func NewItemSizeCache(eligible []bo.ItemID) ItemSizeCache {
	out := make(ItemSizeCache, len(eligible))
	for _, id := range eligible {
		out[id] = cachedItemSize{}
	}
	return out
}

func (c ItemSizeCache) lookup(id bo.ItemID, width Fl) (Fl, bool) {
	entry, ok := c[id]
	if !ok || !entry.valid || entry.width != width {
		return 0, false
	}
	return entry.height, true
}

func (c ItemSizeCache) store(id bo.ItemID, width, height Fl) {
	if _, ok := c[id]; ok {
		c[id] = cachedItemSize{width: width, height: height, valid: true}
	}
}

// nestedItems records the items of subgrids taking part in the sizing
// of an ancestor grid, in the coordinates of that grid.
type nestedItems struct {
	areas map[bo.ItemID]GridArea
	// margin, border and padding of the enclosing subgrids, added
	// to the contribution of items touching their edges
	extraMargin map[bo.ItemID]Fl
}

func (n *nestedItems) record(id bo.ItemID, area GridArea, extra Fl) {
	if n.areas == nil {
		n.areas = map[bo.ItemID]GridArea{}
		n.extraMargin = map[bo.ItemID]Fl{}
	}
	n.areas[id] = area
	n.extraMargin[id] = extra
}

// itemArea returns the area of a direct item or of an item nested in subgrids.
func (a *TrackSizingAlgorithm) itemArea(id bo.ItemID) GridArea {
	if area, ok := a.nested.areas[id]; ok {
		return area
	}
	area, _ := a.grid.GridItemArea(id)
	return area
}

// estimatedGridAreaBreadthForItem is used before the tracks of
// direction d are sized: only fixed tracks give a definite estimation.
func (a *TrackSizingAlgorithm) estimatedGridAreaBreadthForItem(id bo.ItemID, d pr.GridDirection) pr.MaybeFloat {
	span := a.itemArea(id).Span(d)
	available := a.rg.availableSpaceFor(d)
	var size Fl
	for t := span.StartLine(); t < span.EndLine(); t++ {
		ts := a.rawGridTrackSize(d, t)
		maxBreadth := ts.MaxTrackBreadth()
		if !maxBreadth.IsSpecified() || (maxBreadth.IsPercent() && !available.Defined) {
			return pr.AutoF
		}
		if ts.MinTrackBreadth() != maxBreadth && !ts.MinTrackBreadth().IsSpecified() {
			return pr.AutoF
		}
		size += maxBreadth.Resolve(available.V())
	}
	return pr.F(size + a.rg.guttersSize(a.grid, d, span.StartLine(), span.IntegerSpan(), available))
}

// gridAreaBreadthForItem returns the size of the area of an item in d,
// gutters included.
func (a *TrackSizingAlgorithm) gridAreaBreadthForItem(id bo.ItemID, d pr.GridDirection) pr.MaybeFloat {
	if a.rg.isMasonryIn(d) {
		return pr.AutoF
	}
	addContentAlignmentOffset := d == pr.ForColumns &&
		(a.state == rowSizingFirstIteration || a.state == rowSizingExtraIterationForSizeContainment)
	if d == pr.ForRows && (a.state == columnSizingFirstIteration || a.state == columnSizingSecondIteration) &&
		!a.rg.isMasonryIn(pr.ForColumns) {
		if a.state == columnSizingFirstIteration {
			return a.estimatedGridAreaBreadthForItem(id, pr.ForRows)
		}
		addContentAlignmentOffset = true
	}
	tracks := a.Tracks(d)
	span := a.itemArea(id).Span(d)
	if span.EndLine() > len(tracks) {
		return pr.AutoF
	}
	var breadth Fl
	for t := span.StartLine(); t < span.EndLine(); t++ {
		breadth += tracks[t].BaseSize()
	}
	if addContentAlignmentOffset {
		breadth += Fl(span.IntegerSpan()-1) * a.rg.gridItemOffset(d)
	}
	breadth += a.rg.guttersSize(a.grid, d, span.StartLine(), span.IntegerSpan(), a.AvailableSpace(d))
	return pr.F(breadth)
}

// logicalHeightForItem lays out the item in its grid area width and
// returns its margin box height.
func (a *TrackSizingAlgorithm) logicalHeightForItem(id bo.ItemID) Fl {
	width := a.gridAreaBreadthForItem(id, pr.ForColumns)
	ctx := a.rg.ctx
	box := ctx.tree.Box(id)
	parent := a.rg.ownerOf(id)

	cbWidth := width.V()
	borderWidth := parent.itemBorderBoxSize(id, pr.ForColumns, width)
	if h, ok := a.itemSizeCache.lookup(id, borderWidth); ok {
		return h + box.Margins(pr.ForRows, cbWidth)
	}

	box.SetOverridingContainingBlockSize(pr.ForColumns, width)
	// the rows are not known yet
	box.SetOverridingContainingBlockSize(pr.ForRows, pr.AutoF)
	ctx.layoutBox(id, borderWidth, parent.itemDefiniteHeight(id, pr.AutoF))
	height := box.Height
	a.itemSizeCache.store(id, borderWidth, height)
	return height + box.Margins(pr.ForRows, cbWidth)
}

// aspectRatioWidthForItem returns the border box width given by the
// aspect ratio of an item whose height is fixed by its row area.
func (a *TrackSizingAlgorithm) aspectRatioWidthForItem(id bo.ItemID) (Fl, bool) {
	if a.direction != pr.ForColumns || !a.rg.isAspectRatioBlockSizeDependentItem(id) {
		return 0, false
	}
	// estimated from the fixed rows during the first pass
	rowsBreadth := a.gridAreaBreadthForItem(id, pr.ForRows)
	if !rowsBreadth.Defined {
		a.rg.layoutState.needsSecondTrackSizingPass = true
		return 0, false
	}
	box := a.rg.ctx.tree.Box(id)
	cbWidth := a.AvailableSpace(pr.ForColumns).V()
	contentHeight := rowsBreadth.Value - box.Margins(pr.ForRows, cbWidth) - box.BorderAndPadding(pr.ForRows, cbWidth)
	return utils.MaxF(0, contentHeight)*box.Style.AspectRatio + box.BorderAndPadding(pr.ForColumns, cbWidth), true
}

// contributionMargins returns the margins of the item in the sized
// direction, plus the ones inherited from enclosing subgrids.
func (a *TrackSizingAlgorithm) contributionMargins(id bo.ItemID) Fl {
	box := a.rg.ctx.tree.Box(id)
	cbWidth := a.AvailableSpace(pr.ForColumns).V()
	if a.direction == pr.ForRows {
		if w := a.gridAreaBreadthForItem(id, pr.ForColumns); w.Defined {
			cbWidth = w.Value
		}
	}
	return box.Margins(a.direction, cbWidth) + a.nested.extraMargin[id]
}

// baselineShim returns the baseline offset of the item. The one of an
// item nested in subgrids already includes their edges.
func (a *TrackSizingAlgorithm) baselineShim(id bo.ItemID) Fl {
	return a.rg.baselineOffsetForItem(id, a.direction)
}

// minContentForItem returns the min-content contribution of the
// item: its margin box size when laid out at its min-content size.
func (a *TrackSizingAlgorithm) minContentForItem(id bo.ItemID) Fl {
	if a.direction == pr.ForColumns {
		if w, ok := a.aspectRatioWidthForItem(id); ok {
			return w + a.contributionMargins(id)
		}
		minW, _ := a.rg.ctx.preferredWidths(id)
		return minW + a.contributionMargins(id)
	}
	return a.logicalHeightForItem(id) + a.nested.extraMargin[id] + a.baselineShim(id)
}

// maxContentForItem returns the max-content contribution of the item.
func (a *TrackSizingAlgorithm) maxContentForItem(id bo.ItemID) Fl {
	if a.direction == pr.ForColumns {
		if w, ok := a.aspectRatioWidthForItem(id); ok {
			return w + a.contributionMargins(id)
		}
		_, maxW := a.rg.ctx.preferredWidths(id)
		return maxW + a.contributionMargins(id)
	}
	return a.logicalHeightForItem(id) + a.nested.extraMargin[id] + a.baselineShim(id)
}

// minSizeForItem returns the minimum contribution of the item, using
// its automatic minimum size when min-width or min-height is auto.
// The span is the one of the item, or a candidate span for the
// items of a masonry grid without a definite position.
func (a *TrackSizingAlgorithm) minSizeForItem(item gridItemWithSpan) Fl {
	id := item.id
	box := a.rg.ctx.tree.Box(id)
	d := a.direction
	size := box.Style.LogicalSize(d)
	if !size.IsAuto() && !size.IsPercent() {
		return a.minContentForItem(id)
	}
	minSize := box.Style.LogicalMinSize(d)
	if minSize.IsAuto() {
		minContent := a.minContentForItem(id)
		span := item.span
		tracks := a.Tracks(d)
		available := a.AvailableSpace(d).V()
		var maxBreadth Fl
		allFixed := true
		for t := span.StartLine(); t < span.EndLine(); t++ {
			ts := tracks[t].CachedTrackSize()
			if ts.HasFlexMaxTrackBreadth() && span.IntegerSpan() > 1 {
				return 0
			}
			if !ts.MaxTrackBreadth().IsSpecified() {
				allFixed = false
			} else if allFixed {
				maxBreadth += ts.MaxTrackBreadth().Resolve(available)
			}
		}
		if !allFixed || minContent <= maxBreadth {
			return minContent
		}
		cbWidth := a.AvailableSpace(pr.ForColumns).V()
		mbp := a.contributionMargins(id) + box.BorderAndPadding(d, cbWidth)
		return utils.MaxF(maxBreadth, mbp)
	}

	areaSize := a.gridAreaBreadthForItem(id, d)
	cbWidth := a.AvailableSpace(pr.ForColumns).V()
	resolved := minSize.Resolve(areaSize.V())
	return resolved + box.BorderAndPadding(d, cbWidth) + a.contributionMargins(id) + a.baselineShim(id)
}
