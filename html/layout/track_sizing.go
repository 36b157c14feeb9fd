package layout

import (
	"fmt"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	"github.com/benoitkugler/gridlayout/utils"
)

// SizingOperation selects between the layout of the grid (with a
// possibly definite available space) and the computation of its
// intrinsic sizes, where the available space is always indefinite.
type SizingOperation uint8

const (
	TrackSizing SizingOperation = iota
	IntrinsicSizeComputation
)

// availableSpaceKind is the strategy used by the sizing steps which differ
// between a definite and an indefinite available space.
type availableSpaceKind uint8

const (
	definiteSpace availableSpaceKind = iota
	indefiniteSpace
)

type sizingState uint8

const (
	columnSizingFirstIteration sizingState = iota
	rowSizingFirstIteration
	rowSizingExtraIterationForSizeContainment
	columnSizingSecondIteration
	rowSizingSecondIteration
)

func (s sizingState) String() string {
	switch s {
	case columnSizingFirstIteration:
		return "column sizing (first iteration)"
	case rowSizingFirstIteration:
		return "row sizing (first iteration)"
	case rowSizingExtraIterationForSizeContainment:
		return "row sizing (size containment)"
	case columnSizingSecondIteration:
		return "column sizing (second iteration)"
	default:
		return "row sizing (second iteration)"
	}
}

// TrackSizingAlgorithm implements the sizing of the rows and
// columns of one grid container.
//
// The algorithm must be run for the columns, then the rows, and optionally
// once again for the columns and the rows; any other order is rejected
// with [ErrInvalidTransition].
type TrackSizingAlgorithm struct {
	rg   *RenderGrid
	grid *Grid

	columns, rows []GridTrack

	contentSizedTracksIndex        []int
	flexibleSizedTracksIndex       []int
	autoSizedTracksForStretchIndex []int

	direction pr.GridDirection
	operation SizingOperation
	strategy  availableSpaceKind

	availableSpaceColumns, availableSpaceRows pr.MaybeFloat
	freeSpaceColumns, freeSpaceRows           pr.MaybeFloat

	minContentSize, maxContentSize Fl

	state sizingState
	// rowsRunWasIntrinsic records the operation of the first row pass,
	// which enables the extra row pass of size contained grids.
	rowsRunWasIntrinsic bool

	hasPercentSizedRowsIndefiniteHeight bool
	hasFlexibleMaxTrackBreadth          bool

	// outer coordinates of the items reached through subgrids,
	// and the margins they inherit from them
	nested nestedItems

	itemSizeCache ItemSizeCache
}

func newTrackSizingAlgorithm(rg *RenderGrid, grid *Grid) *TrackSizingAlgorithm {
	return &TrackSizingAlgorithm{rg: rg, grid: grid}
}

// Tracks returns the tracks of the given direction, as sized by the last run.
func (a *TrackSizingAlgorithm) Tracks(d pr.GridDirection) []GridTrack {
	if d == pr.ForColumns {
		return a.columns
	}
	return a.rows
}

func (a *TrackSizingAlgorithm) tracksPtr(d pr.GridDirection) *[]GridTrack {
	if d == pr.ForColumns {
		return &a.columns
	}
	return &a.rows
}

// AvailableSpace returns the space available for the tracks of direction d.
func (a *TrackSizingAlgorithm) AvailableSpace(d pr.GridDirection) pr.MaybeFloat {
	if d == pr.ForColumns {
		return a.availableSpaceColumns
	}
	return a.availableSpaceRows
}

func (a *TrackSizingAlgorithm) setAvailableSpace(d pr.GridDirection, v pr.MaybeFloat) {
	if d == pr.ForColumns {
		a.availableSpaceColumns = v
	} else {
		a.availableSpaceRows = v
	}
}

// FreeSpace returns the space left after the last run in direction d.
func (a *TrackSizingAlgorithm) FreeSpace(d pr.GridDirection) pr.MaybeFloat {
	if d == pr.ForColumns {
		return a.freeSpaceColumns
	}
	return a.freeSpaceRows
}

func (a *TrackSizingAlgorithm) setFreeSpace(d pr.GridDirection, v pr.MaybeFloat) {
	if d == pr.ForColumns {
		a.freeSpaceColumns = v
	} else {
		a.freeSpaceRows = v
	}
}

// MinContentSize and MaxContentSize return the intrinsic sizes computed
// by the last run, gutters excluded.
func (a *TrackSizingAlgorithm) MinContentSize() Fl { return a.minContentSize }
func (a *TrackSizingAlgorithm) MaxContentSize() Fl { return a.maxContentSize }

func (a *TrackSizingAlgorithm) HasAnyPercentSizedRowsIndefiniteHeight() bool {
	return a.hasPercentSizedRowsIndefiniteHeight
}

func (a *TrackSizingAlgorithm) HasAnyFlexibleMaxTrackBreadth() bool {
	return a.hasFlexibleMaxTrackBreadth
}

// Reset restores the initial state, so that the next run must be
// for the columns.
func (a *TrackSizingAlgorithm) Reset() {
	a.state = columnSizingFirstIteration
	a.columns, a.rows = nil, nil
	a.contentSizedTracksIndex = nil
	a.flexibleSizedTracksIndex = nil
	a.autoSizedTracksForStretchIndex = nil
	a.availableSpaceColumns, a.availableSpaceRows = pr.AutoF, pr.AutoF
	a.freeSpaceColumns, a.freeSpaceRows = pr.AutoF, pr.AutoF
	a.hasPercentSizedRowsIndefiniteHeight = false
	a.hasFlexibleMaxTrackBreadth = false
	a.rowsRunWasIntrinsic = false
	a.itemSizeCache = nil
}

func (a *TrackSizingAlgorithm) isValidTransition(d pr.GridDirection) bool {
	switch a.state {
	case columnSizingFirstIteration, columnSizingSecondIteration:
		return d == pr.ForColumns
	default:
		return d == pr.ForRows
	}
}

func (a *TrackSizingAlgorithm) advanceNextState() {
	switch a.state {
	case columnSizingFirstIteration:
		a.state = rowSizingFirstIteration
	case rowSizingFirstIteration:
		if a.rg.style().HasSizeContainment(pr.ForRows) && a.rowsRunWasIntrinsic {
			a.state = rowSizingExtraIterationForSizeContainment
		} else {
			a.state = columnSizingSecondIteration
		}
	case rowSizingExtraIterationForSizeContainment:
		a.state = columnSizingSecondIteration
	case columnSizingSecondIteration:
		a.state = rowSizingSecondIteration
	case rowSizingSecondIteration:
		a.state = columnSizingFirstIteration
	}
}

// Run sizes numTracks tracks in direction d. availableSpace is the
// content box size of the grid container in d, if definite. cache is
// an optional store of the item heights, only used by the first row pass.
func (a *TrackSizingAlgorithm) Run(d pr.GridDirection, numTracks int, op SizingOperation, availableSpace pr.MaybeFloat, cache ItemSizeCache) error {
	if !a.isValidTransition(d) {
		return fmt.Errorf("sizing %s during %s: %w", d, a.state, ErrInvalidTransition)
	}
	defer a.advanceNextState()

	if d == pr.ForRows && a.state == rowSizingFirstIteration {
		a.rowsRunWasIntrinsic = op == IntrinsicSizeComputation
		a.itemSizeCache = cache
	} else {
		a.itemSizeCache = nil
	}
	a.setup(d, numTracks, op, availableSpace)
	a.run()
	return nil
}

func (a *TrackSizingAlgorithm) setup(d pr.GridDirection, numTracks int, op SizingOperation, availableSpace pr.MaybeFloat) {
	a.direction = d
	a.operation = op
	a.strategy = definiteSpace
	if op == IntrinsicSizeComputation {
		a.strategy = indefiniteSpace
	}
	a.setAvailableSpace(d, availableSpace)
	if availableSpace.Defined {
		a.setFreeSpace(d, pr.F(availableSpace.Value-a.rg.guttersSize(a.grid, d, 0, numTracks, availableSpace)))
	} else {
		a.setFreeSpace(d, pr.AutoF)
	}

	tracks := a.tracksPtr(d)
	if cap(*tracks) >= numTracks {
		*tracks = (*tracks)[:numTracks]
		for i := range *tracks {
			(*tracks)[i] = GridTrack{}
		}
	} else {
		*tracks = make([]GridTrack, numTracks)
	}
	a.contentSizedTracksIndex = a.contentSizedTracksIndex[:0]
	a.flexibleSizedTracksIndex = a.flexibleSizedTracksIndex[:0]
	a.autoSizedTracksForStretchIndex = a.autoSizedTracksForStretchIndex[:0]
	a.nested = nestedItems{}
	a.minContentSize, a.maxContentSize = 0, 0
	if d == pr.ForRows {
		a.hasPercentSizedRowsIndefiniteHeight = false
	}
}

func (a *TrackSizingAlgorithm) run() {
	if a.rg.isMasonryIn(a.direction) {
		return
	}
	if a.rg.isSubgridIn(a.direction) && a.copyUsedTrackSizesForSubgrid() {
		return
	}

	initialFreeSpace := a.FreeSpace(a.direction)
	a.initializeTrackSizes()

	if !(a.operation == IntrinsicSizeComputation && a.rg.style().HasSizeContainment(a.direction)) {
		if a.rg.isMasonryIn(a.direction.Orthogonal()) {
			a.resolveIntrinsicTrackSizesMasonry()
		} else {
			a.resolveIntrinsicTrackSizes()
		}
	} else {
		// the size does not depend on the content: intrinsic
		// tracks just keep their base size
		tracks := a.Tracks(a.direction)
		for _, index := range a.contentSizedTracksIndex {
			track := &tracks[index]
			if track.GrowthLimitIsInfinite() {
				track.SetGrowthLimit(track.BaseSize())
			}
		}
	}

	a.computeGridContainerIntrinsicSizes()

	if free := a.FreeSpace(a.direction); free.Defined {
		remaining := free.Value - a.minContentSize
		a.setFreeSpace(a.direction, pr.F(remaining))
		if remaining <= 0 {
			return
		}
	}

	a.maximizeTracks()
	a.stretchFlexibleTracks(initialFreeSpace)
	a.stretchAutoTracks()
}

// rawGridTrackSize returns the sizing function of the track at
// translatedIndex, as written in the style.
func (a *TrackSizingAlgorithm) rawGridTrackSize(d pr.GridDirection, translatedIndex int) pr.TrackSize {
	style := a.rg.style()
	tl := style.TemplateTracks(d)
	autoTracks := style.AutoTracks(d)
	trackStyles := tl.Sizes
	if tl.Subgrid || tl.Masonry {
		// only reached when the subgrid tracks could not be copied
		trackStyles = nil
	}
	autoRepeatTracksCount := a.grid.AutoRepeatTracks(d)
	insertionPoint := tl.AutoRepeatInsertionPoint
	explicitTracksCount := len(trackStyles) + autoRepeatTracksCount

	untranslatedIndex := translatedIndex - a.grid.ExplicitGridStart(d)
	if untranslatedIndex < 0 {
		return autoTracks.At(untranslatedIndex)
	}
	if untranslatedIndex >= explicitTracksCount {
		return autoTracks.At(untranslatedIndex - explicitTracksCount)
	}
	if autoRepeatTracksCount == 0 || untranslatedIndex < insertionPoint {
		return trackStyles[untranslatedIndex]
	}
	if untranslatedIndex < insertionPoint+autoRepeatTracksCount {
		local := untranslatedIndex - insertionPoint
		return tl.AutoRepeat[local%len(tl.AutoRepeat)]
	}
	return trackStyles[untranslatedIndex-autoRepeatTracksCount]
}

var collapsedTrack = pr.Breadth(pr.Px(0))

// calculateGridTrackSize returns the sizing function used for the track:
// collapsed auto-fit tracks are fixed to 0, percentages against an
// indefinite size behave as auto, and a flexible minimum as auto.
func (a *TrackSizingAlgorithm) calculateGridTrackSize(d pr.GridDirection, translatedIndex int) pr.TrackSize {
	if a.grid.IsEmptyAutoRepeatTrack(d, translatedIndex) {
		return collapsedTrack
	}
	trackSize := a.rawGridTrackSize(d, translatedIndex)
	if trackSize.IsFitContent() {
		return trackSize
	}
	minBreadth, maxBreadth := trackSize.MinTrackBreadth(), trackSize.MaxTrackBreadth()
	if minBreadth.IsPercent() || maxBreadth.IsPercent() {
		if !a.AvailableSpace(d).Defined {
			if minBreadth.IsPercent() {
				minBreadth = pr.AutoLength
			}
			if maxBreadth.IsPercent() {
				maxBreadth = pr.AutoLength
			}
		}
	}
	return trackSize.WithBreadths(minBreadth, maxBreadth)
}

func (a *TrackSizingAlgorithm) initialBaseSize(trackSize pr.TrackSize) Fl {
	minBreadth := trackSize.MinTrackBreadth()
	if minBreadth.IsSpecified() {
		return minBreadth.Resolve(utils.MaxF(0, a.AvailableSpace(a.direction).V()))
	}
	// content sized minimums start at zero
	return 0
}

func (a *TrackSizingAlgorithm) initialGrowthLimit(trackSize pr.TrackSize, baseSize Fl) Fl {
	maxBreadth := trackSize.MaxTrackBreadth()
	if maxBreadth.IsFlex() {
		if trackSize.MinTrackBreadth().IsContentSized() {
			return utils.Inf
		}
		return baseSize
	}
	if maxBreadth.IsSpecified() {
		return maxBreadth.Resolve(utils.MaxF(0, a.AvailableSpace(a.direction).V()))
	}
	return utils.Inf
}

func (a *TrackSizingAlgorithm) initializeTrackSizes() {
	tracks := a.Tracks(a.direction)
	indefiniteHeight := a.direction == pr.ForRows && !a.rg.hasDefiniteLogicalHeight()
	maxSize := utils.MaxF(0, a.AvailableSpace(a.direction).V())
	for i := range tracks {
		track := &tracks[i]
		trackSize := a.calculateGridTrackSize(a.direction, i)
		track.SetCachedTrackSize(trackSize)
		if trackSize.IsFitContent() {
			track.SetGrowthLimitCap(pr.F(trackSize.FitContentTrackBreadth().Resolve(maxSize)))
		}
		track.SetBaseSize(a.initialBaseSize(trackSize))
		track.SetGrowthLimit(a.initialGrowthLimit(trackSize, track.BaseSize()))
		track.SetInfinitelyGrowable(false)

		if trackSize.IsContentSized() {
			a.contentSizedTracksIndex = append(a.contentSizedTracksIndex, i)
		}
		if trackSize.HasFlexMaxTrackBreadth() {
			a.flexibleSizedTracksIndex = append(a.flexibleSizedTracksIndex, i)
			a.hasFlexibleMaxTrackBreadth = true
		}
		if trackSize.HasAutoMaxTrackBreadth() && !trackSize.IsFitContent() {
			a.autoSizedTracksForStretchIndex = append(a.autoSizedTracksForStretchIndex, i)
		}
		if indefiniteHeight && !a.hasPercentSizedRowsIndefiniteHeight {
			raw := a.rawGridTrackSize(a.direction, i)
			if raw.MinTrackBreadth().IsPercent() || raw.MaxTrackBreadth().IsPercent() {
				a.hasPercentSizedRowsIndefiniteHeight = true
			}
		}
	}
}

// computeGridContainerIntrinsicSizes sums the base sizes (min-content)
// and the growth limits (max-content) of the tracks.
func (a *TrackSizingAlgorithm) computeGridContainerIntrinsicSizes() {
	a.minContentSize, a.maxContentSize = 0, 0
	tracks := a.Tracks(a.direction)
	containment := a.rg.style().HasSizeContainment(a.direction)
	for i := range tracks {
		track := &tracks[i]
		if containment && a.grid.IsEmptyAutoRepeatTrack(a.direction, i) {
			continue
		}
		a.minContentSize += track.BaseSize()
		a.maxContentSize += track.GrowthLimitIfNotInfinite()
		// the caps are only used during the intrinsic resolution
		track.SetGrowthLimitCap(pr.AutoF)
	}
}

// maximizeTracks gives the free space to the tracks, up to their growth limit.
func (a *TrackSizingAlgorithm) maximizeTracks() {
	tracks := a.Tracks(a.direction)
	free := a.FreeSpace(a.direction)
	if a.strategy == indefiniteSpace || !free.Defined {
		for i := range tracks {
			tracks[i].SetBaseSize(tracks[i].GrowthLimitIfNotInfinite())
		}
		return
	}
	all := make([]int, len(tracks))
	planned := make([]Fl, len(tracks))
	for i := range tracks {
		all[i] = i
		planned[i] = tracks[i].BaseSize()
	}
	remaining := a.distributeSpaceToTracks(maximizeTracks, false, all, nil, planned, free.Value)
	for i := range tracks {
		tracks[i].SetBaseSize(planned[i])
	}
	a.setFreeSpace(a.direction, pr.F(remaining))
}

// stretchAutoTracks distributes the remaining free space to the tracks
// with an auto maximum, when the content alignment is normal or stretch.
func (a *TrackSizingAlgorithm) stretchAutoTracks() {
	if len(a.autoSizedTracksForStretchIndex) == 0 {
		return
	}
	switch a.rg.style().ContentAlignment(a.direction).Align {
	case pr.AlignNormal, pr.AlignStretch:
	default:
		return
	}
	tracks := a.Tracks(a.direction)
	free := a.FreeSpace(a.direction)
	var freeSpace Fl
	if free.Defined {
		freeSpace = free.Value
	} else if a.direction == pr.ForRows {
		// indefinite height: only the min-height can be filled
		minHeight := a.rg.computeContentLogicalMinHeight()
		freeSpace = minHeight - a.computeTrackBasedSize()
	}
	if freeSpace <= 0 {
		return
	}
	n := len(a.autoSizedTracksForStretchIndex)
	sizeToIncrease := freeSpace / Fl(n)
	for _, index := range a.autoSizedTracksForStretchIndex {
		track := &tracks[index]
		track.SetBaseSize(track.BaseSize() + sizeToIncrease)
	}
	a.setFreeSpace(a.direction, pr.F(0))
}

// computeTrackBasedSize returns the sum of the base sizes plus gutters.
func (a *TrackSizingAlgorithm) computeTrackBasedSize() Fl {
	tracks := a.Tracks(a.direction)
	var size Fl
	for i := range tracks {
		size += tracks[i].BaseSize()
	}
	return size + a.rg.guttersSize(a.grid, a.direction, 0, len(tracks), a.AvailableSpace(a.direction))
}

// TracksAreWiderThanMinTrackBreadth is used to validate the layout:
// no track is smaller than its minimum sizing function.
func (a *TrackSizingAlgorithm) TracksAreWiderThanMinTrackBreadth() bool {
	for _, d := range [...]pr.GridDirection{pr.ForColumns, pr.ForRows} {
		tracks := a.Tracks(d)
		for i := range tracks {
			minBreadth := tracks[i].CachedTrackSize().MinTrackBreadth()
			if minBreadth.IsFixed() && tracks[i].BaseSize() < minBreadth.Value {
				return false
			}
		}
	}
	return true
}
