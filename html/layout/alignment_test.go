package layout

import (
	"testing"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	tu "github.com/benoitkugler/gridlayout/utils/testutils"
)

func TestContentDistribution(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	for _, test := range []struct {
		align     pr.Align
		positions []Fl
		gap       Fl
	}{
		{pr.AlignStart, []Fl{0, 100, 200}, 0},
		{pr.AlignCenter, []Fl{150, 250, 350}, 0},
		{pr.AlignEnd, []Fl{300, 400, 500}, 0},
		{pr.AlignSpaceBetween, []Fl{0, 400, 500}, 300},
		{pr.AlignSpaceAround, []Fl{75, 325, 425}, 150},
		{pr.AlignSpaceEvenly, []Fl{100, 300, 400}, 100},
	} {
		style := gridStyle(trackList(px(100), px(100)), pr.TrackList{})
		style.JustifyContent = pr.AlignValue{Align: test.align}
		tree := bo.NewTree(style)
		engine := layoutTree(t, tree, 500)

		tu.AssertEqual(t, engine.RenderGrid(tree.Root()).Positions(ForColumns), test.positions)
		tu.AssertEqual(t, tree.Box(0).Grid.ColumnGap, test.gap)
	}
}

func TestContentDistributionSingleTrack(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	for _, align := range []pr.Align{pr.AlignSpaceAround, pr.AlignSpaceEvenly} {
		style := gridStyle(trackList(px(100)), pr.TrackList{})
		style.JustifyContent = pr.AlignValue{Align: align}
		tree := bo.NewTree(style)
		engine := layoutTree(t, tree, 300)

		// centered
		tu.AssertEqual(t, engine.RenderGrid(tree.Root()).Positions(ForColumns), []Fl{100, 200})
	}
}

func TestAlignContentRows(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := gridStyle(pr.TrackList{}, trackList(px(20), px(20)))
	style.Height = pr.Px(100)
	style.AlignContent = pr.AlignValue{Align: pr.AlignSpaceBetween}
	tree := bo.NewTree(style)
	item := tree.Add(0, newItem(withRow(line(2), pr.GridLine{})))
	engine := layoutTree(t, tree, 100)

	tu.AssertEqual(t, engine.RenderGrid(tree.Root()).Positions(ForRows), []Fl{0, 80, 100})
	tu.AssertEqual(t, tree.Box(item).PositionY, Fl(80))
	tu.AssertEqual(t, tree.Box(0).Grid.RowGap, Fl(60))
}

func TestSafeContentAlignment(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	for _, safe := range []bool{false, true} {
		style := gridStyle(trackList(px(300)), pr.TrackList{})
		style.JustifyContent = pr.AlignValue{Align: pr.AlignCenter, Safe: safe}
		tree := bo.NewTree(style)
		engine := layoutTree(t, tree, 100)

		positions := engine.RenderGrid(tree.Root()).Positions(ForColumns)
		if safe {
			tu.AssertEqual(t, positions, []Fl{0, 300})
		} else {
			tu.AssertEqual(t, positions, []Fl{-100, 200})
		}
	}
}

func TestSelfAlignment(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	for _, test := range []struct {
		align pr.AlignValue
		x     Fl
	}{
		{pr.AlignValue{Align: pr.AlignStart}, 0},
		{pr.AlignValue{Align: pr.AlignCenter}, 75},
		{pr.AlignValue{Align: pr.AlignEnd}, 150},
		{pr.AlignValue{Align: pr.AlignLeft}, 0},
		{pr.AlignValue{Align: pr.AlignRight}, 150},
	} {
		tree := bo.NewTree(gridStyle(trackList(px(200)), pr.TrackList{}))
		item := tree.Add(0, newItem(withWidth(50), func(b *bo.Box) { b.Style.JustifySelf = test.align }))
		layoutTree(t, tree, 200)

		tu.AssertEqual(t, tree.Box(item).PositionX, test.x)
	}
}

func TestSafeSelfAlignment(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	for _, safe := range []bool{false, true} {
		tree := bo.NewTree(gridStyle(trackList(px(100)), pr.TrackList{}))
		item := tree.Add(0, newItem(withWidth(300), func(b *bo.Box) {
			b.Style.JustifySelf = pr.AlignValue{Align: pr.AlignCenter, Safe: safe}
		}))
		layoutTree(t, tree, 100)

		if safe {
			tu.AssertEqual(t, tree.Box(item).PositionX, Fl(0))
		} else {
			tu.AssertEqual(t, tree.Box(item).PositionX, Fl(-100))
		}
	}
}

func TestAutoMargins(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(px(200)), trackList(px(100))))
	right := tree.Add(0, newItem(withWidth(50), withHeight(20), withRow(line(1), pr.GridLine{}), withColumn(line(1), pr.GridLine{}), func(b *bo.Box) {
		b.Style.Margin[pr.Left] = pr.AutoLength
		// ignored: the auto margin takes precedence
		b.Style.JustifySelf = pr.AlignValue{Align: pr.AlignCenter}
	}))
	centered := tree.Add(0, newItem(withWidth(50), withHeight(20), withRow(line(1), pr.GridLine{}), withColumn(line(1), pr.GridLine{}), func(b *bo.Box) {
		b.Style.Margin = pr.Edges{pr.AutoLength, pr.AutoLength, pr.AutoLength, pr.AutoLength}
	}))
	layoutTree(t, tree, 200)

	tu.AssertEqual(t, tree.Box(right).PositionX, Fl(150))
	tu.AssertEqual(t, tree.Box(right).PositionY, Fl(0))
	tu.AssertEqual(t, tree.Box(centered).PositionX, Fl(75))
	tu.AssertEqual(t, tree.Box(centered).PositionY, Fl(40))
}

func TestBaselineAlignment(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := gridStyle(trackList(px(100), px(100)), pr.TrackList{})
	style.AlignItems = pr.AlignValue{Align: pr.AlignBaseline}
	tree := bo.NewTree(style)
	small := tree.Add(0, newItem(withText(10, 20)))
	large := tree.Add(0, newItem(withText(20, 20)))
	engine := layoutTree(t, tree, 200)

	// the baselines are at 0.8 of the line height: 8 and 16
	tu.AssertEqual(t, tree.Box(small).PositionY, Fl(8))
	tu.AssertEqual(t, tree.Box(large).PositionY, Fl(0))
	tu.AssertEqual(t, baseSizes(engine.RenderGrid(tree.Root()).TrackSizingAlgorithm().Tracks(ForRows)), []Fl{20})
}

func TestRightToLeft(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := gridStyle(trackList(px(100), px(100)), pr.TrackList{})
	style.Direction = pr.RTL
	tree := bo.NewTree(style)
	first := tree.Add(0, newItem())
	second := tree.Add(0, newItem())
	layoutTree(t, tree, 300)

	tu.AssertEqual(t, tree.Box(first).PositionX, Fl(200))
	tu.AssertEqual(t, tree.Box(second).PositionX, Fl(100))
}
