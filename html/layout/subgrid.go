package layout

import (
	pr "github.com/benoitkugler/gridlayout/css/properties"
	"github.com/benoitkugler/gridlayout/logger"
)

// copyUsedTrackSizesForSubgrid uses the tracks of the parent spanned by the
// subgrid, in the sized direction. The margin, border and padding of the
// subgrid are removed from its edge tracks, and a gap different from the
// parent's one is shared by the tracks around it.
// It returns false if the parent tracks are not sized.
func (a *TrackSizingAlgorithm) copyUsedTrackSizesForSubgrid() bool {
	rg, d := a.rg, a.direction
	parent := rg.parent
	parentTracks := parent.algo.Tracks(d)
	span := rg.areaInParent.Span(d)
	if span.IsIndefinite() || span.EndLine() > len(parentTracks) {
		logger.ProgressLogger.Printf("tracks of %s not available for subgrid %s", parent.box(), rg.box())
		return false
	}

	n := span.IntegerSpan()
	tracks := make([]GridTrack, n)
	copy(tracks, parentTracks[span.StartLine():span.EndLine()])

	edgeStart, edgeEnd := parent.subgridEdges(rg, d)
	tracks[0].SetBaseSize(tracks[0].BaseSize() - edgeStart)
	tracks[n-1].SetBaseSize(tracks[n-1].BaseSize() - edgeEnd)

	if diff := rg.gridGap(d, a.AvailableSpace(d)) - parent.gridGap(d, parent.availableSpaceFor(d)); diff != 0 && n > 1 {
		for i := range tracks {
			var reduce Fl
			if i > 0 {
				reduce += diff / 2
			}
			if i < n-1 {
				reduce += diff / 2
			}
			tracks[i].SetBaseSize(tracks[i].BaseSize() - reduce)
		}
	}

	if rg.isReversedIn(d) {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			tracks[i], tracks[j] = tracks[j], tracks[i]
		}
	}

	a.minContentSize, a.maxContentSize = 0, 0
	for i := range tracks {
		track := &tracks[i]
		track.SetGrowthLimitCap(pr.AutoF)
		track.SetGrowthLimit(track.BaseSize())
		a.minContentSize += track.BaseSize()
		a.maxContentSize += track.BaseSize()
	}
	*a.tracksPtr(d) = tracks
	// the tracks fill the subgrid: nothing to distribute
	a.setFreeSpace(d, pr.F(0))
	return true
}
