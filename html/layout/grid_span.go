package layout

import (
	"fmt"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	"github.com/benoitkugler/gridlayout/utils"
)

type spanKind uint8

const (
	untranslatedDefinite spanKind = iota
	translatedDefinite
	indefinite
)

// GridSpan is a half-open range of grid lines [start, end).
// Untranslated spans use lines relative to the explicit grid start
// and may be negative; translated spans index the grid storage.
type GridSpan struct {
	start, end int
	kind       spanKind
}

// UntranslatedDefiniteSpan returns a span whose lines are still relative
// to the explicit grid.
func UntranslatedDefiniteSpan(start, end int) GridSpan {
	return GridSpan{start: start, end: end, kind: untranslatedDefinite}
}

// TranslatedDefiniteSpan returns a span of non negative lines, end > start.
func TranslatedDefiniteSpan(start, end int) GridSpan {
	return GridSpan{start: start, end: end, kind: translatedDefinite}
}

// IndefiniteSpan returns the span of an item not yet auto-placed.
func IndefiniteSpan() GridSpan { return GridSpan{kind: indefinite} }

func (s GridSpan) IsIndefinite() bool           { return s.kind == indefinite }
func (s GridSpan) IsTranslatedDefinite() bool   { return s.kind == translatedDefinite }
func (s GridSpan) IsUntranslatedDefinite() bool { return s.kind == untranslatedDefinite }

// IntegerSpan returns the number of tracks covered.
func (s GridSpan) IntegerSpan() int { return s.end - s.start }

func (s GridSpan) StartLine() int { return s.start }
func (s GridSpan) EndLine() int   { return s.end }

// Translate moves an untranslated span by offset, making it translated.
func (s GridSpan) Translate(offset int) GridSpan {
	return GridSpan{start: s.start + offset, end: s.end + offset, kind: translatedDefinite}
}

// Clamp restricts the span to [0, max), keeping at least one track.
func (s GridSpan) Clamp(max int) GridSpan {
	s.start = utils.MaxInt(s.start, 0)
	s.end = utils.MaxInt(utils.MinInt(s.end, max), 1)
	if s.start >= s.end {
		s.start = s.end - 1
	}
	return s
}

// Reverse mirrors the span inside a grid of count tracks.
func (s GridSpan) Reverse(count int) GridSpan {
	return GridSpan{start: count - s.end, end: count - s.start, kind: s.kind}
}

// Contains returns true if track is covered by the span.
func (s GridSpan) Contains(track int) bool { return s.start <= track && track < s.end }

func (s GridSpan) String() string {
	switch s.kind {
	case indefinite:
		return "[auto]"
	case untranslatedDefinite:
		return fmt.Sprintf("[%d, %d)u", s.start, s.end)
	}
	return fmt.Sprintf("[%d, %d)", s.start, s.end)
}

// GridArea is the rectangle occupied by an item.
type GridArea struct {
	Rows, Columns GridSpan
}

// Span returns the span in the given direction.
func (a GridArea) Span(d pr.GridDirection) GridSpan {
	if d == pr.ForColumns {
		return a.Columns
	}
	return a.Rows
}

// SetSpan updates the span in the given direction.
func (a *GridArea) SetSpan(d pr.GridDirection, s GridSpan) {
	if d == pr.ForColumns {
		a.Columns = s
	} else {
		a.Rows = s
	}
}

func (a GridArea) String() string { return fmt.Sprintf("rows %s columns %s", a.Rows, a.Columns) }
