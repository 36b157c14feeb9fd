package layout

import (
	"github.com/hashicorp/go-set/v3"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	"github.com/benoitkugler/gridlayout/utils"
)

func flexFactor(track *GridTrack) Fl {
	return track.CachedTrackSize().MaxTrackBreadth().Value
}

// computeFlexFactorUnitSize returns the size of 1fr, treating as
// inflexible the tracks whose base size is larger than their share.
func computeFlexFactorUnitSize(tracks []GridTrack, flexFactorSum, leftOverSpace Fl, flexibleTracksIndexes []int,
	tracksToTreatAsInflexible *set.Set[int],
) Fl {
	// a sum below 1 would inflate the tracks
	hypotheticalFactorUnitSize := leftOverSpace / utils.MaxF(1, flexFactorSum)
	validFlexFactorUnit := true
	for _, index := range flexibleTracksIndexes {
		if tracksToTreatAsInflexible != nil && tracksToTreatAsInflexible.Contains(index) {
			continue
		}
		baseSize := tracks[index].BaseSize()
		flex := flexFactor(&tracks[index])
		if baseSize > hypotheticalFactorUnitSize*flex {
			leftOverSpace -= baseSize
			flexFactorSum -= flex
			if tracksToTreatAsInflexible == nil {
				tracksToTreatAsInflexible = set.New[int](len(flexibleTracksIndexes))
			}
			tracksToTreatAsInflexible.Insert(index)
			validFlexFactorUnit = false
		}
	}
	if !validFlexFactorUnit {
		return computeFlexFactorUnitSize(tracks, flexFactorSum, leftOverSpace, flexibleTracksIndexes, tracksToTreatAsInflexible)
	}
	return hypotheticalFactorUnitSize
}

// findFrUnitSize returns the size of 1fr so that the tracks of span fill
// leftOverSpace.
func (a *TrackSizingAlgorithm) findFrUnitSize(span GridSpan, leftOverSpace Fl) Fl {
	if leftOverSpace <= 0 {
		return 0
	}
	tracks := a.Tracks(a.direction)
	var flexFactorSum Fl
	var flexibleTracksIndexes []int
	for t := span.StartLine(); t < span.EndLine(); t++ {
		trackSize := tracks[t].CachedTrackSize()
		if !trackSize.HasFlexMaxTrackBreadth() {
			leftOverSpace -= tracks[t].BaseSize()
		} else {
			flexibleTracksIndexes = append(flexibleTracksIndexes, t)
			flexFactorSum += trackSize.MaxTrackBreadth().Value
		}
	}
	// leftOverSpace may be negative at this point
	return computeFlexFactorUnitSize(tracks, flexFactorSum, leftOverSpace, flexibleTracksIndexes, nil)
}

func normalizedFlexFraction(track *GridTrack) Fl {
	flex := flexFactor(track)
	if flex > 1 {
		return track.BaseSize() / flex
	}
	return track.BaseSize()
}

// findUsedFlexFraction returns the size of 1fr for an indefinite available
// space: the largest fraction required by a flexible track or by an item
// crossing flexible tracks.
func (a *TrackSizingAlgorithm) findUsedFlexFraction() Fl {
	tracks := a.Tracks(a.direction)
	var flexFraction Fl
	for _, index := range a.flexibleSizedTracksIndex {
		flexFraction = utils.MaxF(flexFraction, normalizedFlexFraction(&tracks[index]))
	}
	if !a.grid.HasGridItems() {
		return flexFraction
	}
	for i, index := range a.flexibleSizedTracksIndex {
		it := NewGridIterator(a.grid, a.direction, index, 0)
		for {
			id, ok := it.NextGridItem()
			if !ok {
				break
			}
			span := a.grid.GridItemSpan(id, a.direction)
			// the item was already processed with a previous track
			if i > 0 && span.StartLine() <= a.flexibleSizedTracksIndex[i-1] {
				continue
			}
			gutters := a.rg.guttersSize(a.grid, a.direction, span.StartLine(), span.IntegerSpan(), a.AvailableSpace(a.direction))
			flexFraction = utils.MaxF(flexFraction, a.findFrUnitSize(span, a.maxContentForItem(id)-gutters))
		}
	}
	return flexFraction
}

// computeFlexSizedTracksGrowth returns the increments of the flexible
// tracks for the given fraction. The fractional parts smaller than
// [utils.LayoutUnit] are carried to the next track.
func (a *TrackSizingAlgorithm) computeFlexSizedTracksGrowth(flexFraction Fl) (increments []Fl, totalGrowth Fl) {
	tracks := a.Tracks(a.direction)
	increments = make([]Fl, len(a.flexibleSizedTracksIndex))
	var leftOverSize Fl
	for i, index := range a.flexibleSizedTracksIndex {
		track := &tracks[index]
		oldBaseSize := track.BaseSize()
		frShare := flexFraction*flexFactor(track) + leftOverSize
		stretchedSize := utils.FloorToLayoutUnit(frShare)
		newBaseSize := utils.MaxF(oldBaseSize, stretchedSize)
		increments[i] = newBaseSize - oldBaseSize
		totalGrowth += increments[i]
		leftOverSize = utils.MaxF(0, frShare-stretchedSize)
	}
	return increments, totalGrowth
}

func (a *TrackSizingAlgorithm) stretchFlexibleTracks(freeSpace pr.MaybeFloat) {
	if len(a.flexibleSizedTracksIndex) == 0 {
		return
	}
	tracks := a.Tracks(a.direction)
	var flexFraction Fl
	if a.strategy == definiteSpace && freeSpace.Defined {
		flexFraction = a.findFrUnitSize(TranslatedDefiniteSpan(0, len(tracks)), freeSpace.Value)
	} else {
		flexFraction = a.findUsedFlexFraction()
	}

	increments, totalGrowth := a.computeFlexSizedTracksGrowth(flexFraction)

	if a.strategy == indefiniteSpace && a.direction == pr.ForRows {
		// the min-height and max-height of the grid may ask for
		// another fraction
		if fraction, ok := a.recomputeFlexFractionForMinMaxHeight(totalGrowth); ok {
			increments, totalGrowth = a.computeFlexSizedTracksGrowth(fraction)
		}
	}

	for i, index := range a.flexibleSizedTracksIndex {
		if increments[i] == 0 {
			continue
		}
		track := &tracks[index]
		track.SetBaseSize(track.BaseSize() + increments[i])
	}
	if free := a.FreeSpace(a.direction); free.Defined {
		a.setFreeSpace(a.direction, pr.F(free.Value-totalGrowth))
	}
	a.maxContentSize += totalGrowth
}

func (a *TrackSizingAlgorithm) recomputeFlexFractionForMinMaxHeight(totalGrowth Fl) (Fl, bool) {
	minHeight, maxHeight := a.rg.computeContentLogicalMinHeight(), a.rg.computeContentLogicalMaxHeight()
	tracks := a.Tracks(pr.ForRows)
	gutters := a.rg.guttersSize(a.grid, pr.ForRows, 0, len(tracks), a.AvailableSpace(pr.ForRows))
	rowsSize := totalGrowth + a.computeTrackBasedSize()
	all := TranslatedDefiniteSpan(0, len(tracks))
	if rowsSize < minHeight {
		return a.findFrUnitSize(all, minHeight-gutters), true
	}
	if maxHeight.Defined && rowsSize > maxHeight.Value {
		return a.findFrUnitSize(all, maxHeight.Value-gutters), true
	}
	return 0, false
}
