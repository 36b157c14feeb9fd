package layout

import (
	"sort"

	"github.com/hashicorp/go-set/v3"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	"github.com/benoitkugler/gridlayout/utils"
)

type trackSizeComputationPhase uint8

const (
	resolveIntrinsicMinimums trackSizeComputationPhase = iota
	resolveContentBasedMinimums
	resolveMaxContentMinimums
	resolveIntrinsicMaximums
	resolveMaxContentMaximums
	maximizeTracks
)

type infinityRestriction bool

const (
	allowInfinity  infinityRestriction = true
	forbidInfinity infinityRestriction = false
)

type gridItemWithSpan struct {
	id   bo.ItemID
	span GridSpan
}

// subgridLevel maps the items of a (sub)grid to the tracks of the grid
// being sized.
type subgridLevel struct {
	toOuter      func(GridSpan) GridSpan
	orthoToOuter func(GridSpan) GridSpan
	// span of the level in the sized grid
	outerSpan GridSpan
	// added to the items touching the first or last track of the level
	edgeStart, edgeEnd Fl
	nested             bool
}

func identitySpan(s GridSpan) GridSpan { return s }

func (a *TrackSizingAlgorithm) resolveIntrinsicTrackSizes() {
	tracks := a.Tracks(a.direction)
	var spanning, crossingFlex []gridItemWithSpan
	if a.grid.HasGridItems() {
		seen := set.New[bo.ItemID](len(a.grid.Items()))
		top := subgridLevel{
			toOuter:      identitySpan,
			orthoToOuter: identitySpan,
			outerSpan:    TranslatedDefiniteSpan(0, len(tracks)),
		}
		for _, index := range a.contentSizedTracksIndex {
			it := NewGridIterator(a.grid, a.direction, index, 0)
			a.accumulateIntrinsicSizesForTrack(&it, &spanning, &crossingFlex, seen, top)
		}
		sort.SliceStable(spanning, func(i, j int) bool {
			return spanning[i].span.IntegerSpan() < spanning[j].span.IntegerSpan()
		})
	}

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

// accumulateIntrinsicSizesForTrack walks the items of the track of it.
// Items with a span of one directly size the track; the other ones are
// collected. Subgrids sharing the sized direction are not items: their
// own items are visited instead.
func (a *TrackSizingAlgorithm) accumulateIntrinsicSizesForTrack(it *GridIterator, spanning, crossingFlex *[]gridItemWithSpan,
	seen *set.Set[bo.ItemID], level subgridLevel,
) {
	d := a.direction
	for {
		id, ok := it.NextGridItem()
		if !ok {
			return
		}
		isNew := seen.Insert(id)
		localArea, _ := it.grid.GridItemArea(id)

		if sg := a.rg.ctx.subgridIn(id, d); sg != nil {
			child := a.subgridChildLevel(sg, localArea, level)
			n := localArea.Span(d).IntegerSpan()
			childIt := CreateForSubgrid(sg.grid, it, localArea.Span(d), n, sg.isReversedIn(d))
			a.accumulateIntrinsicSizesForTrack(&childIt, spanning, crossingFlex, seen, child)
			continue
		}
		if !isNew {
			continue
		}

		span := localArea.Span(d)
		if level.nested {
			outer := GridArea{}
			outer.SetSpan(d, level.toOuter(span))
			outer.SetSpan(d.Orthogonal(), level.orthoToOuter(localArea.Span(d.Orthogonal())))
			span = outer.Span(d)
			var extra Fl
			if span.StartLine() == level.outerSpan.StartLine() {
				extra += level.edgeStart
			}
			if span.EndLine() == level.outerSpan.EndLine() {
				extra += level.edgeEnd
			}
			a.nested.record(id, outer, extra)
		}

		item := gridItemWithSpan{id: id, span: span}
		switch {
		case a.spanningItemCrossesFlexibleTracks(span):
			*crossingFlex = append(*crossingFlex, item)
		case span.IntegerSpan() == 1:
			a.sizeTrackToFitNonSpanningItem(item)
		default:
			*spanning = append(*spanning, item)
		}
	}
}

// subgridChildLevel returns the mapping of the items of the subgrid sg,
// placed at localArea in the current level.
func (a *TrackSizingAlgorithm) subgridChildLevel(sg *RenderGrid, localArea GridArea, level subgridLevel) subgridLevel {
	d := a.direction
	localSpan := localArea.Span(d)
	n := localSpan.IntegerSpan()
	reversed := sg.isReversedIn(d)
	outerSpan := level.toOuter(localSpan)
	mbpStart, mbpEnd := a.rg.subgridEdges(sg, d)

	child := subgridLevel{
		toOuter: func(s GridSpan) GridSpan {
			if reversed {
				s = s.Reverse(n)
			}
			return level.toOuter(s.Translate(localSpan.StartLine()))
		},
		outerSpan: outerSpan,
		edgeStart: mbpStart,
		edgeEnd:   mbpEnd,
		nested:    true,
	}
	if outerSpan.StartLine() == level.outerSpan.StartLine() {
		child.edgeStart += level.edgeStart
	}
	if outerSpan.EndLine() == level.outerSpan.EndLine() {
		child.edgeEnd += level.edgeEnd
	}

	ortho := d.Orthogonal()
	localOrtho := localArea.Span(ortho)
	if sg.style().IsSubgrid(ortho) {
		n2, reversed2 := localOrtho.IntegerSpan(), sg.isReversedIn(ortho)
		child.orthoToOuter = func(s GridSpan) GridSpan {
			if reversed2 {
				s = s.Reverse(n2)
			}
			return level.orthoToOuter(s.Translate(localOrtho.StartLine()))
		}
	} else {
		// the items see the subgrid area as a single track
		outerOrtho := level.orthoToOuter(localOrtho)
		child.orthoToOuter = func(GridSpan) GridSpan { return outerOrtho }
	}
	return child
}

func (a *TrackSizingAlgorithm) spanningItemCrossesFlexibleTracks(span GridSpan) bool {
	tracks := a.Tracks(a.direction)
	for t := span.StartLine(); t < span.EndLine(); t++ {
		if tracks[t].CachedTrackSize().HasFlexMaxTrackBreadth() {
			return true
		}
	}
	return false
}

func (a *TrackSizingAlgorithm) sizeTrackToFitNonSpanningItem(item gridItemWithSpan) {
	track := &a.Tracks(a.direction)[item.span.StartLine()]
	trackSize := track.CachedTrackSize()

	switch {
	case trackSize.HasMinContentMinTrackBreadth():
		track.SetBaseSize(utils.MaxF(track.BaseSize(), a.minContentForItem(item.id)))
	case trackSize.HasMaxContentMinTrackBreadth():
		track.SetBaseSize(utils.MaxF(track.BaseSize(), a.maxContentForItem(item.id)))
	case trackSize.HasAutoMinTrackBreadth():
		track.SetBaseSize(utils.MaxF(track.BaseSize(), a.minSizeForItem(item)))
	}

	maxBreadth := trackSize.MaxTrackBreadth()
	switch {
	case maxBreadth.IsMinContent():
		track.SetGrowthLimit(maxGrowthLimit(track.GrowthLimit(), a.minContentForItem(item.id)))
	case trackSize.HasMaxContentOrAutoMaxTrackBreadth():
		growthLimit := a.maxContentForItem(item.id)
		if trackSize.IsFitContent() {
			limit := trackSize.FitContentTrackBreadth().Resolve(a.AvailableSpace(a.direction).V())
			growthLimit = utils.MinF(growthLimit, limit)
		}
		track.SetGrowthLimit(maxGrowthLimit(track.GrowthLimit(), growthLimit))
	}
}

// trackSizeForPhase returns the size grown by the phase: the base size
// for the minimums, the growth limit for the maximums.
func trackSizeForPhase(phase trackSizeComputationPhase, track *GridTrack, planned Fl, restriction infinityRestriction) Fl {
	switch phase {
	case resolveIntrinsicMinimums, resolveContentBasedMinimums, resolveMaxContentMinimums:
		return track.BaseSize()
	case resolveIntrinsicMaximums, resolveMaxContentMaximums:
		if restriction == allowInfinity {
			return track.GrowthLimit()
		}
		return track.GrowthLimitIfNotInfinite()
	default: // maximizeTracks
		return planned
	}
}

func shouldProcessTrackForPhase(phase trackSizeComputationPhase, trackSize pr.TrackSize) bool {
	switch phase {
	case resolveIntrinsicMinimums:
		return trackSize.HasIntrinsicMinTrackBreadth()
	case resolveContentBasedMinimums:
		return trackSize.HasMinOrMaxContentMinTrackBreadth()
	case resolveMaxContentMinimums:
		return trackSize.HasMaxContentMinTrackBreadth()
	case resolveIntrinsicMaximums:
		return trackSize.HasIntrinsicMaxTrackBreadth()
	case resolveMaxContentMaximums:
		return trackSize.HasMaxContentOrAutoMaxTrackBreadth()
	}
	return false
}

func trackShouldGrowBeyondGrowthLimitsForPhase(phase trackSizeComputationPhase, trackSize pr.TrackSize) bool {
	switch phase {
	case resolveIntrinsicMinimums, resolveContentBasedMinimums:
		minBreadth := trackSize.MinTrackBreadth()
		return (minBreadth.IsAuto() || minBreadth.IsMinContent()) && trackSize.HasIntrinsicMaxTrackBreadth()
	case resolveMaxContentMinimums:
		return trackSize.HasMaxContentMinTrackBreadth() && trackSize.HasMaxContentMaxTrackBreadth()
	case resolveIntrinsicMaximums, resolveMaxContentMaximums:
		return true
	}
	return false
}

func (a *TrackSizingAlgorithm) itemSizeForPhase(phase trackSizeComputationPhase, item gridItemWithSpan) Fl {
	id := item.id
	switch phase {
	case resolveIntrinsicMinimums:
		return a.minSizeForItem(item)
	case resolveContentBasedMinimums, resolveIntrinsicMaximums:
		return a.minContentForItem(id)
	case resolveMaxContentMinimums, resolveMaxContentMaximums:
		return a.maxContentForItem(id)
	}
	return 0
}

func markAsInfinitelyGrowableForPhase(phase trackSizeComputationPhase, track *GridTrack, planned Fl) {
	switch phase {
	case resolveIntrinsicMaximums:
		if utils.IsInf(trackSizeForPhase(phase, track, planned, allowInfinity)) && !utils.IsInf(planned) {
			track.SetInfinitelyGrowable(true)
		}
	case resolveMaxContentMaximums:
		track.SetInfinitelyGrowable(false)
	}
}

func updateTrackSizeForPhase(phase trackSizeComputationPhase, track *GridTrack, planned Fl) {
	switch phase {
	case resolveIntrinsicMinimums, resolveContentBasedMinimums, resolveMaxContentMinimums:
		track.SetBaseSize(planned)
	case resolveIntrinsicMaximums, resolveMaxContentMaximums:
		track.SetGrowthLimit(planned)
	}
}

// increaseSizesToAccommodateSpanningItems runs the intrinsic phases for a
// group of items with the same span, or for the items crossing flexible
// tracks, which only grow the minimums of these tracks.
func (a *TrackSizingAlgorithm) increaseSizesToAccommodateSpanningItems(items []gridItemWithSpan, crossingFlex bool) {
	if len(items) == 0 {
		return
	}
	phases := []trackSizeComputationPhase{resolveIntrinsicMinimums, resolveContentBasedMinimums, resolveMaxContentMinimums}
	if !crossingFlex {
		phases = append(phases, resolveIntrinsicMaximums, resolveMaxContentMaximums)
	}
	for _, phase := range phases {
		a.increaseSizesForPhase(phase, items, crossingFlex)
	}
}

func (a *TrackSizingAlgorithm) increaseSizesForPhase(phase trackSizeComputationPhase, items []gridItemWithSpan, crossingFlex bool) {
	tracks := a.Tracks(a.direction)
	planned := make([]Fl, len(tracks))
	for _, index := range a.contentSizedTracksIndex {
		planned[index] = trackSizeForPhase(phase, &tracks[index], 0, allowInfinity)
	}

	var filtered, beyond []int
	for _, item := range items {
		filtered, beyond = filtered[:0], beyond[:0]
		var spanningTracksSize Fl
		for t := item.span.StartLine(); t < item.span.EndLine(); t++ {
			track := &tracks[t]
			trackSize := track.CachedTrackSize()
			spanningTracksSize += trackSizeForPhase(phase, track, planned[t], forbidInfinity)
			if crossingFlex && !trackSize.HasFlexMaxTrackBreadth() {
				continue
			}
			if !shouldProcessTrackForPhase(phase, trackSize) {
				continue
			}
			filtered = append(filtered, t)
			if trackShouldGrowBeyondGrowthLimitsForPhase(phase, trackSize) {
				beyond = append(beyond, t)
			}
		}
		if len(filtered) == 0 {
			continue
		}
		spanningTracksSize += a.rg.guttersSize(a.grid, a.direction, item.span.StartLine(), item.span.IntegerSpan(), a.AvailableSpace(a.direction))
		extraSpace := utils.MaxF(0, a.itemSizeForPhase(phase, item)-spanningTracksSize)
		growBeyond := beyond
		if len(growBeyond) == 0 {
			growBeyond = filtered
		}
		a.distributeSpaceToTracks(phase, crossingFlex, filtered, growBeyond, planned, extraSpace)
	}

	for _, index := range a.contentSizedTracksIndex {
		track := &tracks[index]
		markAsInfinitelyGrowableForPhase(phase, track, planned[index])
		updateTrackSizeForPhase(phase, track, planned[index])
	}
}
