package layout

import (
	"testing"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	"github.com/benoitkugler/gridlayout/utils"
	tu "github.com/benoitkugler/gridlayout/utils/testutils"
)

func masonryRowsStyle(columns ...pr.TrackSize) pr.Style {
	return gridStyle(trackList(columns...), pr.TrackList{Masonry: true})
}

func TestMasonryShortestColumn(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := masonryRowsStyle(fr(1), fr(1))
	style.RowGap = pr.Px(10)
	tree := bo.NewTree(style)
	item1 := tree.Add(0, newItem(withColumn(line(1), pr.GridLine{}), withHeight(30)))
	item2 := tree.Add(0, newItem(withColumn(line(2), pr.GridLine{}), withHeight(50)))
	item3 := tree.Add(0, newItem(withHeight(20)))
	engine := layoutTree(t, tree, 200)

	rg := engine.RenderGrid(tree.Root())
	m := rg.Masonry()
	tu.AssertEqual(t, m.Offset(item1), Fl(0))
	tu.AssertEqual(t, m.Offset(item2), Fl(0))
	// the first column is the shortest one
	tu.AssertEqual(t, m.Offset(item3), Fl(40))
	tu.AssertEqual(t, itemArea(t, rg, item3), [2]int{0, 0})
	tu.AssertEqual(t, m.RunningPositions(), []Fl{70, 60})
	tu.AssertEqual(t, m.GridContentSize(), Fl(60))

	tu.AssertEqual(t, tree.Box(item3).PositionX, Fl(0))
	tu.AssertEqual(t, tree.Box(item3).PositionY, Fl(40))
	tu.AssertEqual(t, tree.Box(item2).PositionX, Fl(100))
	tu.AssertEqual(t, tree.Box(0).Height, Fl(60))
	tu.AssertEqual(t, tree.Box(0).Grid.MasonryContentSize, Fl(60))
}

func TestMasonryRunningPositionsIncrease(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := masonryRowsStyle(px(50), px(50), px(50))
	style.RowGap = pr.Px(4)
	tree := bo.NewTree(style)
	heights := []Fl{12, 40, 7, 33, 25, 18, 60, 5, 9, 21}
	var items []bo.ItemID
	for i, h := range heights {
		opts := []func(*bo.Box){withHeight(h)}
		if i%4 == 3 {
			opts = append(opts, withColumn(pr.GridLine{}, span(2)))
		}
		items = append(items, tree.Add(0, newItem(opts...)))
	}
	engine := layoutTree(t, tree, 150)

	rg := engine.RenderGrid(tree.Root())
	m := rg.Masonry()
	for _, id := range items {
		area, _ := rg.Grid().GridItemArea(id)
		end := m.Offset(id) + tree.Box(id).Height + 4
		for c := area.Columns.StartLine(); c < area.Columns.EndLine(); c++ {
			if m.RunningPositions()[c] < end {
				t.Fatalf("running position of column %d below the end of item %d", c, id)
			}
		}
	}
	var max Fl
	for _, p := range m.RunningPositions() {
		max = utils.MaxF(max, p)
	}
	tu.AssertEqual(t, m.GridContentSize(), max-4)
}

func TestMasonryNextFlow(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	for _, next := range []bool{false, true} {
		style := masonryRowsStyle(px(50), px(50), px(50))
		style.MasonryAutoFlow.Next = next
		tree := bo.NewTree(style)
		tree.Add(0, newItem(withHeight(50)))
		tree.Add(0, newItem(withHeight(10)))
		tree.Add(0, newItem(withHeight(10)))
		last := tree.Add(0, newItem(withHeight(10)))
		engine := layoutTree(t, tree, 150)

		rg := engine.RenderGrid(tree.Root())
		if next {
			// the cursor wraps to the first column
			tu.AssertEqual(t, itemArea(t, rg, last), [2]int{0, 0})
			tu.AssertEqual(t, rg.Masonry().Offset(last), Fl(50))
		} else {
			tu.AssertEqual(t, itemArea(t, rg, last), [2]int{0, 1})
			tu.AssertEqual(t, rg.Masonry().Offset(last), Fl(10))
		}
	}
}

func TestMasonryDefiniteFirst(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	for _, definiteFirst := range []bool{false, true} {
		style := masonryRowsStyle(px(100), px(100))
		style.MasonryAutoFlow.DefiniteFirst = definiteFirst
		tree := bo.NewTree(style)
		autoItem := tree.Add(0, newItem(withHeight(10)))
		definite := tree.Add(0, newItem(withColumn(line(1), pr.GridLine{}), withHeight(50)))
		engine := layoutTree(t, tree, 200)

		m := engine.RenderGrid(tree.Root()).Masonry()
		if definiteFirst {
			tu.AssertEqual(t, m.Offset(definite), Fl(0))
			tu.AssertEqual(t, tree.Box(autoItem).PositionX, Fl(100))
		} else {
			tu.AssertEqual(t, m.Offset(definite), Fl(10))
			tu.AssertEqual(t, tree.Box(autoItem).PositionX, Fl(0))
		}
		tu.AssertEqual(t, m.Offset(autoItem), Fl(0))
	}
}

func TestMasonryColumns(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := gridStyle(pr.TrackList{Masonry: true}, trackList(px(20), px(20)))
	style.ColumnGap = pr.Px(5)
	tree := bo.NewTree(style)
	item1 := tree.Add(0, newItem(withWidth(60)))
	item2 := tree.Add(0, newItem(withWidth(30)))
	item3 := tree.Add(0, newItem(withWidth(10)))
	engine := layoutTree(t, tree, 300)

	m := engine.RenderGrid(tree.Root()).Masonry()
	tu.AssertEqual(t, m.Offset(item1), Fl(0))
	tu.AssertEqual(t, m.Offset(item2), Fl(0))
	tu.AssertEqual(t, m.Offset(item3), Fl(35))
	tu.AssertEqual(t, tree.Box(item3).PositionX, Fl(35))
	tu.AssertEqual(t, tree.Box(item3).PositionY, Fl(20))
	tu.AssertEqual(t, m.GridContentSize(), Fl(60))
	tu.AssertEqual(t, tree.Box(0).Height, Fl(40))
}

func TestMasonryIntrinsicWidth(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	// a masonry grid with masonry columns, inside a max-content column
	outer := bo.NewTree(gridStyle(trackList(pr.Breadth(pr.MaxContentLength), fr(1)), pr.TrackList{}))
	style := gridStyle(pr.TrackList{Masonry: true}, trackList(px(20), px(20)))
	inner := outer.Add(0, bo.Box{Style: style, ElementTag: "section"})
	outer.Add(inner, newItem(withWidth(60)))
	outer.Add(inner, newItem(withWidth(30)))
	outer.Add(inner, newItem(withWidth(10)))
	engine := layoutTree(t, outer, 300)

	// 60 in the first row, 30 + 10 in the second one
	rg := engine.RenderGrid(outer.Root())
	tu.AssertEqual(t, baseSizes(rg.TrackSizingAlgorithm().Tracks(ForColumns)), []Fl{60, 240})
	tu.AssertEqual(t, outer.Box(inner).Width, Fl(60))
}

func TestMasonryFlexColumnsSizedLikeGrid(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	columnSizes := func(style pr.Style) []Fl {
		tree := bo.NewTree(style)
		tree.Add(0, newItem(withText(10, 40), withColumn(line(1), pr.GridLine{})))
		tree.Add(0, newItem(withText(10, 60), withColumn(line(2), pr.GridLine{})))
		engine := layoutTree(t, tree, 50)
		return baseSizes(engine.RenderGrid(tree.Root()).TrackSizingAlgorithm().Tracks(ForColumns))
	}

	// the items in flexible columns only set their minimum
	grid := columnSizes(gridStyle(trackList(fr(1), fr(2)), pr.TrackList{}))
	masonry := columnSizes(masonryRowsStyle(fr(1), fr(2)))
	tu.AssertEqual(t, grid, []Fl{40, 60})
	tu.AssertEqual(t, masonry, grid)
}
