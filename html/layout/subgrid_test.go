package layout

import (
	"testing"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	tu "github.com/benoitkugler/gridlayout/utils/testutils"
)

// subgridItem returns a grid item which is a subgrid in the columns.
func subgridItem(options ...func(*bo.Box)) bo.Box {
	box := newItem(options...)
	box.Style.Display = pr.DisplayGrid
	box.Style.GridTemplateColumns = pr.TrackList{Subgrid: true}
	return box
}

func TestSubgridCopiesParentTracks(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(px(50), px(100), px(150)), pr.TrackList{}))
	sub := tree.Add(0, subgridItem(withColumn(line(1), line(4)), func(b *bo.Box) {
		b.Style.Padding[pr.Left] = pr.Px(10)
		b.Style.BorderWidth[pr.Right] = 5
	}))
	items := []bo.ItemID{
		tree.Add(sub, newItem(withContentHeight(10))),
		tree.Add(sub, newItem(withContentHeight(10))),
		tree.Add(sub, newItem(withContentHeight(10))),
	}
	engine := layoutTree(t, tree, 300)

	sg := engine.RenderGrid(sub)
	tu.AssertEqual(t, baseSizes(sg.TrackSizingAlgorithm().Tracks(ForColumns)), []Fl{40, 100, 145})
	tu.AssertEqual(t, sg.TrackSizingAlgorithm().FreeSpace(ForColumns), pr.F(0))
	tu.AssertEqual(t, sg.Positions(ForColumns), []Fl{10, 50, 150, 295})

	// the items are aligned with the tracks of the parent
	var xs []Fl
	for _, id := range items {
		x, _ := tree.AbsolutePosition(id)
		xs = append(xs, x)
	}
	tu.AssertEqual(t, xs, []Fl{10, 50, 150})
	tu.AssertEqual(t, tree.Box(items[2]).Width, Fl(145))
}

func TestSubgridItemsSizeParentTracks(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(auto, auto), pr.TrackList{}))
	sub := tree.Add(0, subgridItem(withColumn(line(1), line(3))))
	tree.Add(sub, newItem(withWidth(70)))
	tree.Add(sub, newItem(withWidth(30)))
	// a sibling of the subgrid in the second row
	tree.Add(0, newItem(withColumn(line(1), pr.GridLine{}), withWidth(50)))
	engine := layoutTree(t, tree, 100)

	rg := engine.RenderGrid(tree.Root())
	tu.AssertEqual(t, baseSizes(rg.TrackSizingAlgorithm().Tracks(ForColumns)), []Fl{70, 30})
	sg := engine.RenderGrid(sub)
	tu.AssertEqual(t, baseSizes(sg.TrackSizingAlgorithm().Tracks(ForColumns)), []Fl{70, 30})
}

func TestSubgridGapDifference(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := gridStyle(trackList(px(100), px(100)), pr.TrackList{})
	style.ColumnGap = pr.Px(10)
	tree := bo.NewTree(style)
	sub := tree.Add(0, subgridItem(withColumn(line(1), line(3)), func(b *bo.Box) {
		b.Style.ColumnGap = pr.Px(30)
	}))
	engine := layoutTree(t, tree, 210)

	// each track gives half of the 20px difference
	sg := engine.RenderGrid(sub)
	tu.AssertEqual(t, baseSizes(sg.TrackSizingAlgorithm().Tracks(ForColumns)), []Fl{90, 90})
	tu.AssertEqual(t, sg.Positions(ForColumns), []Fl{0, 120, 210})
}

func TestSubgridInheritsNormalGap(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := gridStyle(trackList(px(100), px(100)), pr.TrackList{})
	style.ColumnGap = pr.Px(10)
	tree := bo.NewTree(style)
	sub := tree.Add(0, subgridItem(withColumn(line(1), line(3))))
	engine := layoutTree(t, tree, 210)

	sg := engine.RenderGrid(sub)
	tu.AssertEqual(t, baseSizes(sg.TrackSizingAlgorithm().Tracks(ForColumns)), []Fl{100, 100})
	tu.AssertEqual(t, sg.Positions(ForColumns), []Fl{0, 110, 210})
}

func TestSubgridPlacementIsClamped(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(px(50), px(50), px(50)), pr.TrackList{}))
	sub := tree.Add(0, subgridItem(withColumn(line(2), line(4))))
	item := tree.Add(sub, newItem(withColumn(line(1), line(6))))
	engine := layoutTree(t, tree, 150)

	area, ok := engine.RenderGrid(sub).Grid().GridItemArea(item)
	tu.AssertEqual(t, ok, true)
	tu.AssertEqual(t, area.Columns, TranslatedDefiniteSpan(0, 2))
	tu.AssertEqual(t, tree.Box(item).Width, Fl(100))
}

func TestSubgridItemsShareParentBaseline(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(px(100), px(100)), pr.TrackList{}))
	outer := tree.Add(0, newItem(withText(10, 20), withColumn(line(1), pr.GridLine{}), func(b *bo.Box) {
		b.Style.AlignSelf = pr.AlignValue{Align: pr.AlignBaseline}
	}))
	sub := tree.Add(0, subgridItem(withColumn(line(2), pr.GridLine{}), func(b *bo.Box) {
		b.Style.GridTemplateRows = pr.TrackList{Subgrid: true}
		b.Style.AlignSelf = pr.AlignValue{Align: pr.AlignStart}
		b.Style.Padding[pr.Top] = pr.Px(4)
	}))
	inner := tree.Add(sub, newItem(withText(20, 20), func(b *bo.Box) {
		b.Style.AlignSelf = pr.AlignValue{Align: pr.AlignBaseline}
	}))
	engine := layoutTree(t, tree, 200)

	// the baselines are at 8 and 16, the inner one moved down by the padding
	tu.AssertEqual(t, baseSizes(engine.RenderGrid(tree.Root()).TrackSizingAlgorithm().Tracks(ForRows)), []Fl{24})
	tu.AssertEqual(t, tree.Box(outer).PositionY, Fl(12))
	x, y := tree.AbsolutePosition(inner)
	tu.AssertEqual(t, [2]Fl{x, y}, [2]Fl{100, 4})
	tu.AssertEqual(t, tree.Box(sub).Height, Fl(24))
}
