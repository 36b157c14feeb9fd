package layout

import (
	"testing"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	tu "github.com/benoitkugler/gridlayout/utils/testutils"
)

func trackList(sizes ...pr.TrackSize) pr.TrackList { return pr.TrackList{Sizes: sizes} }

func px(v Fl) pr.TrackSize { return pr.Breadth(pr.Px(v)) }

func fr(v Fl) pr.TrackSize { return pr.Breadth(pr.Fr(v)) }

var auto = pr.AutoTrack

func line(n int) pr.GridLine { return pr.GridLine{Tag: pr.LineExplicit, Integer: n} }

func span(n int) pr.GridLine { return pr.GridLine{Tag: pr.LineSpan, Integer: n} }

func gridStyle(columns, rows pr.TrackList) pr.Style {
	style := pr.InitialStyle()
	style.Display = pr.DisplayGrid
	style.GridTemplateColumns = columns
	style.GridTemplateRows = rows
	return style
}

// newItem returns a box with the initial style, modified by the given options.
func newItem(options ...func(*bo.Box)) bo.Box {
	box := bo.Box{Style: pr.InitialStyle(), ElementTag: "div"}
	for _, opt := range options {
		opt(&box)
	}
	return box
}

func withHeight(h Fl) func(*bo.Box) { return func(b *bo.Box) { b.Style.Height = pr.Px(h) } }

func withWidth(w Fl) func(*bo.Box) { return func(b *bo.Box) { b.Style.Width = pr.Px(w) } }

func withColumn(start, end pr.GridLine) func(*bo.Box) {
	return func(b *bo.Box) { b.Style.GridColumnStart, b.Style.GridColumnEnd = start, end }
}

func withRow(start, end pr.GridLine) func(*bo.Box) {
	return func(b *bo.Box) { b.Style.GridRowStart, b.Style.GridRowEnd = start, end }
}

func withContentHeight(h Fl) func(*bo.Box) {
	return func(b *bo.Box) { b.Content.IntrinsicHeight = h }
}

func withContentWidth(w Fl) func(*bo.Box) {
	return func(b *bo.Box) { b.Content.IntrinsicWidth = w }
}

func withText(lineHeight Fl, words ...Fl) func(*bo.Box) {
	return func(b *bo.Box) { b.Content = bo.Content{Words: words, Space: 5, LineHeight: lineHeight} }
}

func layoutTree(t *testing.T, tree *bo.Tree, width Fl) *Engine {
	t.Helper()
	engine := NewEngine(tree)
	if err := engine.Layout(width, pr.AutoF); err != nil {
		t.Fatal(err)
	}
	return engine
}

func baseSizes(tracks []GridTrack) []Fl {
	out := make([]Fl, len(tracks))
	for i := range tracks {
		out[i] = tracks[i].BaseSize()
	}
	return out
}

func itemArea(t *testing.T, rg *RenderGrid, id bo.ItemID) [2]int {
	t.Helper()
	area, ok := rg.Grid().GridItemArea(id)
	if !ok {
		t.Fatalf("item %d not placed", id)
	}
	return [2]int{area.Rows.StartLine(), area.Columns.StartLine()}
}

func TestFlexColumns(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(px(100), fr(1), fr(1)), pr.TrackList{}))
	engine := layoutTree(t, tree, 500)

	rg := engine.RenderGrid(tree.Root())
	tu.AssertEqual(t, baseSizes(rg.TrackSizingAlgorithm().Tracks(ForColumns)), []Fl{100, 200, 200})
	tu.AssertEqual(t, rg.Positions(ForColumns), []Fl{0, 100, 300, 500})
}

func TestAutoRowsFromContent(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(pr.TrackList{}, trackList(auto, auto)))
	item1 := tree.Add(0, newItem(withContentHeight(20), withRow(line(1), pr.GridLine{})))
	item2 := tree.Add(0, newItem(withContentHeight(40), withRow(line(2), pr.GridLine{})))
	engine := layoutTree(t, tree, 300)

	rg := engine.RenderGrid(tree.Root())
	tu.AssertEqual(t, baseSizes(rg.TrackSizingAlgorithm().Tracks(ForRows)), []Fl{20, 40})
	tu.AssertEqual(t, tree.Box(0).Height, Fl(60))
	tu.AssertEqual(t, tree.Box(item1).PositionY, Fl(0))
	tu.AssertEqual(t, tree.Box(item2).PositionY, Fl(20))
	// the single auto column is stretched
	tu.AssertEqual(t, tree.Box(item2).Width, Fl(300))
}

func TestAutoPlacementRowFlow(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(fr(1), fr(1)), pr.TrackList{}))
	items := []bo.ItemID{tree.Add(0, newItem()), tree.Add(0, newItem()), tree.Add(0, newItem())}
	engine := layoutTree(t, tree, 200)

	rg := engine.RenderGrid(tree.Root())
	var got [][2]int
	for _, id := range items {
		got = append(got, itemArea(t, rg, id))
	}
	tu.AssertEqual(t, got, [][2]int{{0, 0}, {0, 1}, {1, 0}})
	tu.AssertEqual(t, tree.Box(items[2]).PositionX, Fl(0))
	tu.AssertEqual(t, tree.Box(items[1]).PositionX, Fl(100))
}

func TestAutoPlacementColumnFlow(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := gridStyle(pr.TrackList{}, trackList(px(10), px(10)))
	style.GridAutoFlow.Column = true
	tree := bo.NewTree(style)
	items := []bo.ItemID{tree.Add(0, newItem()), tree.Add(0, newItem()), tree.Add(0, newItem())}
	engine := layoutTree(t, tree, 200)

	rg := engine.RenderGrid(tree.Root())
	var got [][2]int
	for _, id := range items {
		got = append(got, itemArea(t, rg, id))
	}
	tu.AssertEqual(t, got, [][2]int{{0, 0}, {1, 0}, {0, 1}})
}

func TestPlacementTotality(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	for _, dense := range []bool{false, true} {
		style := gridStyle(trackList(px(50), px(50), px(50)), trackList(px(20)))
		style.GridAutoFlow.Dense = dense
		tree := bo.NewTree(style)
		items := []bo.ItemID{
			tree.Add(0, newItem(withColumn(span(2), pr.GridLine{}))),
			tree.Add(0, newItem(withRow(line(3), pr.GridLine{}))),
			tree.Add(0, newItem(withColumn(line(-1), pr.GridLine{}), withRow(line(1), span(2)))),
			tree.Add(0, newItem(withColumn(line(5), pr.GridLine{}))),
			tree.Add(0, newItem(withColumn(span(3), pr.GridLine{}), withRow(span(2), pr.GridLine{}))),
			tree.Add(0, newItem()),
		}
		engine := layoutTree(t, tree, 400)
		rg := engine.RenderGrid(tree.Root())
		grid := rg.Grid()
		for _, id := range items {
			area, ok := grid.GridItemArea(id)
			tu.AssertEqual(t, ok, true)
			for _, d := range [...]pr.GridDirection{ForColumns, ForRows} {
				s := area.Span(d)
				tu.AssertEqual(t, s.IsTranslatedDefinite(), true)
				tu.AssertEqual(t, s.StartLine() >= 0 && s.EndLine() <= grid.NumTracks(d) && s.IntegerSpan() >= 1, true)
			}
		}
	}
}

func TestOverlappingItems(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(px(50), px(50)), trackList(px(20))))
	item1 := tree.Add(0, newItem(withColumn(line(2), pr.GridLine{}), withRow(line(1), pr.GridLine{})))
	item2 := tree.Add(0, newItem(withColumn(line(2), pr.GridLine{}), withRow(line(1), pr.GridLine{})))
	engine := layoutTree(t, tree, 100)

	grid := engine.RenderGrid(tree.Root()).Grid()
	tu.AssertEqual(t, grid.Cell(0, 1), []bo.ItemID{item1, item2})
	tu.AssertEqual(t, tree.Box(item1).PositionX, tree.Box(item2).PositionX)
}

func TestSparseAndDensePacking(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	placements := func(dense bool) [][2]int {
		style := gridStyle(trackList(px(100), px(100), px(100)), pr.TrackList{})
		style.GridAutoFlow.Dense = dense
		tree := bo.NewTree(style)
		items := []bo.ItemID{
			tree.Add(0, newItem(withColumn(span(2), pr.GridLine{}))),
			tree.Add(0, newItem(withColumn(span(2), pr.GridLine{}))),
			tree.Add(0, newItem()),
		}
		rg := layoutTree(t, tree, 300).RenderGrid(tree.Root())
		var out [][2]int
		for _, id := range items {
			out = append(out, itemArea(t, rg, id))
		}
		return out
	}
	// the sparse cursor never goes back
	tu.AssertEqual(t, placements(false), [][2]int{{0, 0}, {1, 0}, {1, 2}})
	// dense packing fills the hole of the first row
	tu.AssertEqual(t, placements(true), [][2]int{{0, 0}, {1, 0}, {0, 2}})
}

func TestNamedAreasAndLines(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := gridStyle(trackList(px(50), px(100), px(50)), trackList(px(10), px(20)))
	style.GridTemplateColumns.LineNames = []pr.GridNames{{"left"}, {"content-start"}, {"content-end"}, {"right"}}
	style.GridTemplateAreas = pr.GridTemplateAreas{
		Rows: 2, Columns: 3,
		Areas: map[string]pr.NamedArea{
			"header": {RowStart: 0, RowEnd: 1, ColumnStart: 0, ColumnEnd: 3},
			"main":   {RowStart: 1, RowEnd: 2, ColumnStart: 1, ColumnEnd: 2},
		},
	}
	tree := bo.NewTree(style)
	header := tree.Add(0, newItem(func(b *bo.Box) {
		b.Style.GridRowStart = pr.GridLine{Tag: pr.LineNamedArea, Name: "header"}
		b.Style.GridColumnStart = pr.GridLine{Tag: pr.LineNamedArea, Name: "header"}
		b.Style.GridRowEnd = pr.GridLine{Tag: pr.LineNamedArea, Name: "header"}
		b.Style.GridColumnEnd = pr.GridLine{Tag: pr.LineNamedArea, Name: "header"}
	}))
	main := tree.Add(0, newItem(func(b *bo.Box) {
		b.Style.GridColumnStart = pr.GridLine{Tag: pr.LineNamedArea, Name: "content"}
		b.Style.GridColumnEnd = pr.GridLine{Tag: pr.LineNamedArea, Name: "content"}
		b.Style.GridRowStart = line(2)
	}))
	engine := layoutTree(t, tree, 200)

	rg := engine.RenderGrid(tree.Root())
	headerArea, _ := rg.Grid().GridItemArea(header)
	tu.AssertEqual(t, headerArea, area(0, 1, 0, 3))
	mainArea, _ := rg.Grid().GridItemArea(main)
	tu.AssertEqual(t, mainArea, area(1, 2, 1, 2))
	tu.AssertEqual(t, tree.Box(header).Width, Fl(200))
	tu.AssertEqual(t, tree.Box(main).PositionX, Fl(50))
	tu.AssertEqual(t, tree.Box(main).PositionY, Fl(10))
}

func TestLineNumbersClamped(t *testing.T) {
	logs := tu.CaptureLogs()

	tree := bo.NewTree(gridStyle(trackList(px(10)), trackList(px(10))))
	item := tree.Add(0, newItem(withColumn(line(MaxLines+100), pr.GridLine{})))
	engine := layoutTree(t, tree, 100)

	if len(logs.Logs()) == 0 {
		t.Fatal("expected a warning for the clamped line")
	}
	grid := engine.RenderGrid(tree.Root()).Grid()
	a, _ := grid.GridItemArea(item)
	tu.AssertEqual(t, a.Columns.EndLine() <= MaxLines, true)
}

func withMaxLines(t *testing.T, n int) {
	old := MaxLines
	MaxLines = n
	t.Cleanup(func() { MaxLines = old })
}

func TestOpposedLinesFitInMaxLines(t *testing.T) {
	withMaxLines(t, 100)
	logs := tu.CaptureLogs()

	tree := bo.NewTree(gridStyle(pr.TrackList{}, pr.TrackList{}))
	before := tree.Add(0, newItem(withColumn(line(-60), pr.GridLine{})))
	after := tree.Add(0, newItem(withColumn(line(60), pr.GridLine{})))
	engine := layoutTree(t, tree, 100)

	// the two lines and the grid extent are clamped
	logs.CheckLogs(t, 3)
	grid := engine.RenderGrid(tree.Root()).Grid()
	tu.AssertEqual(t, grid.NumTracks(ForColumns), 100)
	tu.AssertEqual(t, grid.ExplicitGridStart(ForColumns), 50)
	a, _ := grid.GridItemArea(before)
	tu.AssertEqual(t, a, area(0, 1, 0, 1))
	a, _ = grid.GridItemArea(after)
	tu.AssertEqual(t, a, area(0, 1, 99, 100))
}

func TestAutoPlacedSpanFitsInMaxLines(t *testing.T) {
	withMaxLines(t, 100)
	logs := tu.CaptureLogs()

	tree := bo.NewTree(gridStyle(pr.TrackList{}, pr.TrackList{}))
	before := tree.Add(0, newItem(withRow(line(-30), pr.GridLine{})))
	spanning := tree.Add(0, newItem(withRow(span(100), pr.GridLine{})))
	engine := layoutTree(t, tree, 100)

	// the grid extent and the auto-placed span are reduced
	logs.CheckLogs(t, 2)
	grid := engine.RenderGrid(tree.Root()).Grid()
	tu.AssertEqual(t, grid.NumTracks(ForRows), 100)
	a, _ := grid.GridItemArea(before)
	tu.AssertEqual(t, a, area(0, 1, 0, 1))
	a, _ = grid.GridItemArea(spanning)
	tu.AssertEqual(t, a, area(1, 100, 0, 1))
}

func TestEngineKeepsPlacement(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(fr(1), fr(1)), pr.TrackList{}))
	item1 := tree.Add(0, newItem())
	item2 := tree.Add(0, newItem())
	engine := layoutTree(t, tree, 200)
	rg := engine.RenderGrid(tree.Root())
	tu.AssertEqual(t, itemArea(t, rg, item2), [2]int{0, 1})

	// a new child is only placed after invalidation
	tree.Box(item1).Style.Order = 1
	engine.Invalidate(tree.Root())
	if err := engine.Layout(200, pr.AutoF); err != nil {
		t.Fatal(err)
	}
	tu.AssertEqual(t, itemArea(t, rg, item2), [2]int{0, 0})
	tu.AssertEqual(t, itemArea(t, rg, item1), [2]int{0, 1})
}

func TestNestedBlocks(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	root := pr.InitialStyle()
	tree := bo.NewTree(root)
	block := tree.Add(0, newItem(withContentHeight(15)))
	grid := tree.Add(0, bo.Box{Style: gridStyle(trackList(px(30), fr(1)), pr.TrackList{}), ElementTag: "section"})
	cell := tree.Add(grid, newItem(withContentHeight(25), withColumn(line(2), pr.GridLine{})))
	layoutTree(t, tree, 130)

	tu.AssertEqual(t, tree.Box(block).Height, Fl(15))
	tu.AssertEqual(t, tree.Box(grid).PositionY, Fl(15))
	tu.AssertEqual(t, tree.Box(grid).Height, Fl(25))
	tu.AssertEqual(t, tree.Box(cell).Width, Fl(100))
	x, y := tree.AbsolutePosition(cell)
	tu.AssertEqual(t, [2]Fl{x, y}, [2]Fl{30, 15})
	tu.AssertEqual(t, tree.Box(0).Height, Fl(40))
}

func TestGridGeometryOutput(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := gridStyle(trackList(px(40), px(40)), trackList(px(10), px(10)))
	style.ColumnGap = pr.Px(5)
	style.RowGap = pr.Px(2)
	style.Padding = pr.Edges{pr.Px(1), pr.Px(0), pr.Px(0), pr.Px(3)}
	tree := bo.NewTree(style)
	layoutTree(t, tree, 200)

	tu.AssertEqual(t, *tree.Box(0).Grid, bo.GridGeometry{
		ColumnPositions: []Fl{3, 48, 88},
		RowPositions:    []Fl{1, 13, 23},
		ColumnGap:       5,
		RowGap:          2,
	})
	tu.AssertEqual(t, tree.Box(0).Height, Fl(23))
}
