package layout

import (
	pr "github.com/benoitkugler/gridlayout/css/properties"
	"github.com/benoitkugler/gridlayout/utils"
)

// GridTrack is the sizing state of one row or column.
type GridTrack struct {
	baseSize    Fl
	growthLimit Fl
	// growthLimitCap is set for fit-content() tracks
	growthLimitCap     pr.MaybeFloat
	infinitelyGrowable bool
	cachedTrackSize    pr.TrackSize
}

// BaseSize returns the base size, which is never negative.
func (t *GridTrack) BaseSize() Fl { return t.baseSize }

// SetBaseSize updates the base size, raising the growth limit if needed.
func (t *GridTrack) SetBaseSize(b Fl) {
	t.baseSize = utils.MaxF(b, 0)
	t.ensureGrowthLimitIsBiggerThanBaseSize()
}

// GrowthLimit returns the growth limit, possibly [utils.Inf].
func (t *GridTrack) GrowthLimit() Fl { return t.growthLimit }

// SetGrowthLimit updates the growth limit, capped by fit-content.
func (t *GridTrack) SetGrowthLimit(g Fl) {
	if !utils.IsInf(g) && t.growthLimitCap.Defined {
		g = utils.MinF(g, t.growthLimitCap.Value)
	}
	t.growthLimit = g
	t.ensureGrowthLimitIsBiggerThanBaseSize()
}

func (t *GridTrack) GrowthLimitIsInfinite() bool { return utils.IsInf(t.growthLimit) }

// GrowthLimitIfNotInfinite returns the growth limit, or the base size
// if the limit is infinite.
func (t *GridTrack) GrowthLimitIfNotInfinite() Fl {
	if t.GrowthLimitIsInfinite() {
		return t.baseSize
	}
	return t.growthLimit
}

func (t *GridTrack) InfiniteGrowthPotential() bool {
	return t.GrowthLimitIsInfinite() || t.infinitelyGrowable
}

func (t *GridTrack) InfinitelyGrowable() bool          { return t.infinitelyGrowable }
func (t *GridTrack) SetInfinitelyGrowable(v bool)      { t.infinitelyGrowable = v }
func (t *GridTrack) GrowthLimitCap() pr.MaybeFloat     { return t.growthLimitCap }
func (t *GridTrack) SetGrowthLimitCap(c pr.MaybeFloat) { t.growthLimitCap = c }
func (t *GridTrack) CachedTrackSize() pr.TrackSize     { return t.cachedTrackSize }
func (t *GridTrack) SetCachedTrackSize(s pr.TrackSize) { t.cachedTrackSize = s }

func (t *GridTrack) ensureGrowthLimitIsBiggerThanBaseSize() {
	if !utils.IsInf(t.growthLimit) && t.growthLimit < t.baseSize {
		t.growthLimit = t.baseSize
	}
}

// maxGrowthLimit returns the max of a growth limit and v, an
// infinite limit counting as not set yet.
func maxGrowthLimit(limit, v Fl) Fl {
	if utils.IsInf(limit) {
		return v
	}
	return utils.MaxF(limit, v)
}
