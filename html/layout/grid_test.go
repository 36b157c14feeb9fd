package layout

import (
	"errors"
	"testing"

	bo "github.com/benoitkugler/gridlayout/html/boxes"
	tu "github.com/benoitkugler/gridlayout/utils/testutils"
)

func TestGridSpan(t *testing.T) {
	span := UntranslatedDefiniteSpan(-2, 1)
	tu.AssertEqual(t, span.IsUntranslatedDefinite(), true)
	tu.AssertEqual(t, span.IntegerSpan(), 3)

	translated := span.Translate(2)
	tu.AssertEqual(t, translated.IsTranslatedDefinite(), true)
	tu.AssertEqual(t, [2]int{translated.StartLine(), translated.EndLine()}, [2]int{0, 3})

	clamped := TranslatedDefiniteSpan(3, 6).Clamp(4)
	tu.AssertEqual(t, [2]int{clamped.StartLine(), clamped.EndLine()}, [2]int{3, 4})
	clamped = TranslatedDefiniteSpan(5, 6).Clamp(4)
	tu.AssertEqual(t, [2]int{clamped.StartLine(), clamped.EndLine()}, [2]int{3, 4})

	reversed := TranslatedDefiniteSpan(0, 2).Reverse(5)
	tu.AssertEqual(t, [2]int{reversed.StartLine(), reversed.EndLine()}, [2]int{3, 5})

	tu.AssertEqual(t, IndefiniteSpan().IsIndefinite(), true)
	tu.AssertEqual(t, TranslatedDefiniteSpan(1, 3).Contains(2), true)
	tu.AssertEqual(t, TranslatedDefiniteSpan(1, 3).Contains(3), false)
	tu.AssertEqual(t, TranslatedDefiniteSpan(1, 3).String(), "[1, 3)")
}

func area(rowStart, rowEnd, columnStart, columnEnd int) GridArea {
	return GridArea{
		Rows:    TranslatedDefiniteSpan(rowStart, rowEnd),
		Columns: TranslatedDefiniteSpan(columnStart, columnEnd),
	}
}

func TestGridInsert(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	g := NewGrid()
	tu.AssertEqual(t, g.NumTracks(ForColumns), 0)
	tu.AssertEqual(t, g.EnsureGridSize(2, 3), nil)
	tu.AssertEqual(t, g.NumTracks(ForRows), 2)
	tu.AssertEqual(t, g.NumTracks(ForColumns), 3)

	_, err := g.Insert(1, area(0, 1, 0, 2))
	tu.AssertEqual(t, err, nil)
	// overlapping items share the cells
	_, err = g.Insert(2, area(0, 2, 1, 2))
	tu.AssertEqual(t, err, nil)

	tu.AssertEqual(t, g.Cell(0, 0), []bo.ItemID{1})
	tu.AssertEqual(t, g.Cell(0, 1), []bo.ItemID{1, 2})
	tu.AssertEqual(t, g.Cell(1, 1), []bo.ItemID{2})
	tu.AssertEqual(t, g.Cell(1, 2), []bo.ItemID(nil))
	tu.AssertEqual(t, g.Cell(5, 5), []bo.ItemID(nil))

	// the grid grows to contain the item
	_, err = g.Insert(3, area(3, 4, 4, 5))
	tu.AssertEqual(t, err, nil)
	tu.AssertEqual(t, g.NumTracks(ForRows), 4)
	tu.AssertEqual(t, g.NumTracks(ForColumns), 5)
	tu.AssertEqual(t, g.HasGridItems(), true)
	tu.AssertEqual(t, g.GridItemSpan(3, ForColumns), TranslatedDefiniteSpan(4, 5))
	tu.AssertEqual(t, g.GridItemSpan(8, ForColumns).IsIndefinite(), true)

	g.SetNeedsItemsPlacement(true)
	tu.AssertEqual(t, g.HasGridItems(), false)
	tu.AssertEqual(t, g.NumTracks(ForRows), 0)
}

func TestGridTooManyLines(t *testing.T) {
	g := NewGrid()
	err := g.EnsureGridSize(MaxLines+1, 1)
	tu.AssertEqual(t, errors.Is(err, ErrTooManyLines), true)

	_, err = g.Insert(1, area(0, 1, MaxLines, MaxLines+1))
	tu.AssertEqual(t, errors.Is(err, ErrTooManyLines), true)
}

func TestGridClampingForSubgrid(t *testing.T) {
	g := NewGrid()
	g.SetClampingForSubgrid(2, 3)
	got, err := g.Insert(1, area(1, 4, 2, 6))
	tu.AssertEqual(t, err, nil)
	tu.AssertEqual(t, got, area(1, 2, 2, 3))
}

func TestGridIterator(t *testing.T) {
	g := NewGrid()
	_ = g.EnsureGridSize(3, 3)
	_, _ = g.Insert(1, area(0, 1, 0, 1))
	_, _ = g.Insert(2, area(0, 2, 1, 2))
	_, _ = g.Insert(3, area(2, 3, 1, 2))

	var got []bo.ItemID
	it := NewGridIterator(g, ForColumns, 1, 0)
	for id, ok := it.NextGridItem(); ok; id, ok = it.NextGridItem() {
		got = append(got, id)
	}
	// item 2 spans two cells of the column
	tu.AssertEqual(t, got, []bo.ItemID{2, 2, 3})

	got = nil
	it = NewGridIterator(g, ForRows, 0, 0)
	for id, ok := it.NextGridItem(); ok; id, ok = it.NextGridItem() {
		got = append(got, id)
	}
	tu.AssertEqual(t, got, []bo.ItemID{1, 2})

	it = NewGridIterator(g, ForRows, 1, 0)
	empty := it.NextEmptyGridArea(1, 1)
	tu.AssertEqual(t, *empty, area(1, 2, 0, 1))
	empty = it.NextEmptyGridArea(1, 1)
	tu.AssertEqual(t, *empty, area(1, 2, 2, 3))
	tu.AssertEqual(t, it.NextEmptyGridArea(1, 1) == nil, true)

	// cells out of the grid count as empty
	it = NewGridIterator(g, ForRows, 2, 2)
	empty = it.NextEmptyGridArea(2, 2)
	tu.AssertEqual(t, *empty, area(2, 4, 2, 4))
}

func TestCreateForSubgrid(t *testing.T) {
	outer := NewGrid()
	_ = outer.EnsureGridSize(1, 6)
	sub := NewGrid()
	_ = sub.EnsureGridSize(2, 3)
	_, _ = sub.Insert(7, area(1, 2, 0, 1))
	_, _ = sub.Insert(8, area(0, 1, 2, 3))

	outerIt := NewGridIterator(outer, ForColumns, 2, 0)
	// the subgrid spans the outer columns [2, 5)
	it := CreateForSubgrid(sub, &outerIt, TranslatedDefiniteSpan(2, 5), 3, false)
	id, ok := it.NextGridItem()
	tu.AssertEqual(t, ok, true)
	tu.AssertEqual(t, id, bo.ItemID(7))

	it = CreateForSubgrid(sub, &outerIt, TranslatedDefiniteSpan(2, 5), 3, true)
	id, ok = it.NextGridItem()
	tu.AssertEqual(t, ok, true)
	tu.AssertEqual(t, id, bo.ItemID(8))
}
