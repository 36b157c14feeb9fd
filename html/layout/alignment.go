package layout

import (
	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
)

// itemMargins returns the margins of the item on the start and end sides of
// the container in d. In a right to left container, the start of the
// columns is the right side.
func (rg *RenderGrid) itemMargins(id bo.ItemID, d pr.GridDirection, cbWidth Fl) (start, end Fl, startAuto, endAuto bool) {
	style := &rg.ctx.tree.Box(id).Style
	startMargin, endMargin := style.StartMargin(d), style.EndMargin(d)
	if d == pr.ForColumns && rg.style().Direction == pr.RTL {
		startMargin, endMargin = endMargin, startMargin
	}
	return startMargin.Resolve(cbWidth), endMargin.Resolve(cbWidth), startMargin.IsAuto(), endMargin.IsAuto()
}

// selfAlignmentOffset returns the offset of the border box of the item from
// the start of its grid area of size areaBreadth, in d.
// Auto margins take precedence over the self alignment.
func (rg *RenderGrid) selfAlignmentOffset(id bo.ItemID, d pr.GridDirection, areaBreadth Fl) Fl {
	box := rg.ctx.tree.Box(id)
	cbWidth := box.OverridingContainingBlockWidth.Or(rg.contentWidth.V())
	marginStart, marginEnd, startAuto, endAuto := rg.itemMargins(id, d, cbWidth)
	free := areaBreadth - box.Size(d) - marginStart - marginEnd

	switch {
	case startAuto && endAuto:
		if free > 0 {
			return free / 2
		}
		return 0
	case startAuto:
		return marginStart + max(free, 0)
	case endAuto:
		return marginStart
	}

	align := box.Style.SelfAlignment(d, rg.style())
	if free < 0 && align.Safe {
		return marginStart
	}
	rtl := d == pr.ForColumns && rg.style().Direction == pr.RTL
	var offset Fl
	switch align.Align {
	case pr.AlignCenter:
		offset = free / 2
	case pr.AlignEnd, pr.AlignFlexEnd, pr.AlignSelfEnd:
		offset = free
	case pr.AlignLeft:
		if rtl {
			offset = free
		}
	case pr.AlignRight:
		if d == pr.ForColumns && !rtl {
			offset = free
		}
	case pr.AlignBaseline:
		offset = rg.baselineOffsetForItem(id, d)
	case pr.AlignLastBaseline:
		offset = free - rg.baselineOffsetForItem(id, d)
	}
	return marginStart + offset
}

// computeContentPositionAndDistributionOffset applies justify-content (for
// the columns) or align-content (for the rows) to the free space left by
// numberOfGridTracks tracks.
func (rg *RenderGrid) computeContentPositionAndDistributionOffset(d pr.GridDirection, availableFreeSpace Fl, numberOfGridTracks int) contentAlignmentData {
	align := rg.style().ContentAlignment(d)
	if numberOfGridTracks < 1 {
		return contentAlignmentData{}
	}

	if availableFreeSpace > 0 {
		n := Fl(numberOfGridTracks)
		switch align.Align {
		case pr.AlignSpaceBetween:
			if numberOfGridTracks > 1 {
				return contentAlignmentData{distributionOffset: availableFreeSpace / (n - 1)}
			}
		case pr.AlignSpaceAround:
			if numberOfGridTracks > 1 {
				distribution := availableFreeSpace / n
				return contentAlignmentData{positionOffset: distribution / 2, distributionOffset: distribution}
			}
			return contentAlignmentData{positionOffset: availableFreeSpace / 2}
		case pr.AlignSpaceEvenly:
			if numberOfGridTracks > 1 {
				distribution := availableFreeSpace / (n + 1)
				return contentAlignmentData{positionOffset: distribution, distributionOffset: distribution}
			}
			return contentAlignmentData{positionOffset: availableFreeSpace / 2}
		}
	}

	if availableFreeSpace < 0 && align.Safe {
		return contentAlignmentData{}
	}
	rtl := d == pr.ForColumns && rg.style().Direction == pr.RTL
	switch align.Align {
	case pr.AlignCenter:
		return contentAlignmentData{positionOffset: availableFreeSpace / 2}
	case pr.AlignEnd, pr.AlignFlexEnd:
		return contentAlignmentData{positionOffset: availableFreeSpace}
	case pr.AlignLeft:
		if rtl {
			return contentAlignmentData{positionOffset: availableFreeSpace}
		}
	case pr.AlignRight:
		if d == pr.ForColumns && !rtl {
			return contentAlignmentData{positionOffset: availableFreeSpace}
		}
	}
	return contentAlignmentData{}
}
