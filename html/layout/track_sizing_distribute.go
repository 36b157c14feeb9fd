package layout

import (
	"sort"

	"github.com/benoitkugler/gridlayout/utils"
)

// distributionWorkingSet holds the scratch sizes of one distribution.
type distributionWorkingSet struct {
	tracks []int
	temp   map[int]Fl
}

func (a *TrackSizingAlgorithm) newWorkingSet(phase trackSizeComputationPhase, tracks []int, planned []Fl) distributionWorkingSet {
	all := a.Tracks(a.direction)
	ws := distributionWorkingSet{tracks: tracks, temp: make(map[int]Fl, len(tracks))}
	for _, t := range tracks {
		ws.temp[t] = trackSizeForPhase(phase, &all[t], planned[t], forbidInfinity)
	}
	return ws
}

func (ws distributionWorkingSet) grow(track int, share Fl) {
	ws.temp[track] += share
}

// sortByGrowthPotential orders tracks by increasing room left before
// their growth limit (or cap), tracks growing without limit last.
func (a *TrackSizingAlgorithm) sortByGrowthPotential(tracks []int) {
	all := a.Tracks(a.direction)
	sort.SliceStable(tracks, func(i, j int) bool {
		t1, t2 := &all[tracks[i]], &all[tracks[j]]
		inf1 := t1.InfiniteGrowthPotential() && !t1.GrowthLimitCap().Defined
		inf2 := t2.InfiniteGrowthPotential() && !t2.GrowthLimitCap().Defined
		if inf1 && inf2 {
			return false
		}
		if inf1 || inf2 {
			return inf2
		}
		limit1 := t1.GrowthLimitCap().Or(t1.GrowthLimit())
		limit2 := t2.GrowthLimitCap().Or(t2.GrowthLimit())
		return limit1-t1.BaseSize() < limit2-t2.BaseSize()
	})
}

// clampGrowthShare keeps fit-content() tracks below their cap when
// growing the maximums.
func clampGrowthShare(phase trackSizeComputationPhase, track *GridTrack, temp Fl, share Fl) Fl {
	if phase != resolveMaxContentMaximums || !track.GrowthLimitCap().Defined {
		return share
	}
	distanceToCap := track.GrowthLimitCap().Value - temp
	if distanceToCap <= 0 {
		return share
	}
	return utils.MinF(share, distanceToCap)
}

// distributeSpaceToTracks shares freeSpace between tracks, then
// between growBeyond if space remains, and raises the planned sizes.
// With weighted, the space is shared in proportion to the flex
// factors of the tracks. It returns the space which could not be
// distributed.
func (a *TrackSizingAlgorithm) distributeSpaceToTracks(phase trackSizeComputationPhase, weighted bool,
	tracks, growBeyond []int, planned []Fl, freeSpace Fl,
) Fl {
	all := a.Tracks(a.direction)
	ws := a.newWorkingSet(phase, tracks, planned)

	if freeSpace > 0 {
		var flexSum Fl
		if weighted {
			for _, t := range tracks {
				flexSum += all[t].CachedTrackSize().MaxTrackBreadth().Value
			}
		}
		if flexSum > 0 {
			for _, t := range tracks {
				share := freeSpace * all[t].CachedTrackSize().MaxTrackBreadth().Value / flexSum
				ws.grow(t, share)
			}
			freeSpace = 0
		} else {
			a.sortByGrowthPotential(tracks)
			n := len(tracks)
			for i, t := range tracks {
				track := &all[t]
				share := freeSpace / Fl(n-i)
				trackBreadth := trackSizeForPhase(phase, track, planned[t], forbidInfinity)
				growthShare := share
				if !track.InfiniteGrowthPotential() {
					growthShare = utils.MinF(share, track.GrowthLimit()-trackBreadth)
				}
				growthShare = utils.MaxF(0, clampGrowthShare(phase, track, ws.temp[t], growthShare))
				ws.grow(t, growthShare)
				freeSpace -= growthShare
			}
		}
	}

	if freeSpace > 0 && len(growBeyond) != 0 {
		if phase == resolveMaxContentMaximums {
			a.sortByGrowthPotential(growBeyond)
		}
		n := len(growBeyond)
		for i, t := range growBeyond {
			share := freeSpace / Fl(n-i)
			share = clampGrowthShare(phase, &all[t], ws.temp[t], share)
			ws.grow(t, share)
			freeSpace -= share
		}
	}

	for _, t := range ws.tracks {
		if utils.IsInf(planned[t]) {
			planned[t] = ws.temp[t]
		} else {
			planned[t] = utils.MaxF(planned[t], ws.temp[t])
		}
	}
	return freeSpace
}
