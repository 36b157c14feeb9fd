package utils

import (
	"math"
)

// Fl is the float type used for every length computed by the layout.
type Fl = float64

// Inf is the "infinite" growth limit sentinel. It is only compared,
// never used in arithmetic.
var Inf = Fl(math.Inf(1))

// IsInf returns true for the infinite sentinel.
func IsInf(v Fl) bool { return math.IsInf(v, 1) }

// LayoutUnit is the granularity lengths are floored to when
// sharing flexible space.
const LayoutUnit Fl = 1. / 64

func MinInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func MaxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}

func MinF(x, y Fl) Fl {
	if x < y {
		return x
	}
	return y
}

func MaxF(x, y Fl) Fl {
	if x > y {
		return x
	}
	return y
}

// ClampF returns v restricted to [lo, hi], lo taking precedence.
func ClampF(v, lo, hi Fl) Fl {
	return MaxF(lo, MinF(v, hi))
}

func Maxs(values ...Fl) Fl {
	max := values[0]
	for _, w := range values {
		if w > max {
			max = w
		}
	}
	return max
}

func Mins(values ...Fl) Fl {
	min := values[0]
	for _, w := range values {
		if w < min {
			min = w
		}
	}
	return min
}

func Floor(x Fl) Fl {
	return Fl(math.Floor(float64(x)))
}

// FloorToLayoutUnit rounds x down to a multiple of [LayoutUnit].
func FloorToLayoutUnit(x Fl) Fl {
	return Floor(x/LayoutUnit) * LayoutUnit
}

// RoundPrec rounds f with n digits precision
func RoundPrec(f Fl, n int) Fl {
	n10 := math.Pow10(n)
	return Fl(math.Round(float64(f)*n10) / n10)
}

// Round rounds f with 6 digits precision
func Round(f Fl) Fl {
	return RoundPrec(f, 6)
}
