package layout

import (
	"errors"
	"testing"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	tu "github.com/benoitkugler/gridlayout/utils/testutils"
)

func TestInvalidTransition(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(px(10)), pr.TrackList{}))
	tree.Add(0, newItem())
	engine := layoutTree(t, tree, 100)

	algo := engine.RenderGrid(tree.Root()).TrackSizingAlgorithm()
	algo.Reset()
	err := algo.Run(ForRows, 1, TrackSizing, pr.F(100), nil)
	tu.AssertEqual(t, errors.Is(err, ErrInvalidTransition), true)

	tu.AssertEqual(t, algo.Run(ForColumns, 1, TrackSizing, pr.F(100), nil), nil)
	err = algo.Run(ForColumns, 1, TrackSizing, pr.F(100), nil)
	tu.AssertEqual(t, errors.Is(err, ErrInvalidTransition), true)
	tu.AssertEqual(t, algo.Run(ForRows, 1, TrackSizing, pr.F(100), nil), nil)
}

func TestFlexConservation(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := gridStyle(trackList(fr(1), fr(1), fr(1), fr(1)), pr.TrackList{})
	style.ColumnGap = pr.Px(10)
	tree := bo.NewTree(style)
	engine := layoutTree(t, tree, 400)

	tracks := engine.RenderGrid(tree.Root()).TrackSizingAlgorithm().Tracks(ForColumns)
	sizes := baseSizes(tracks)
	tu.AssertEqual(t, sizes, []Fl{92.5, 92.5, 92.5, 92.5})
	var sum Fl
	for _, s := range sizes {
		sum += s
	}
	tu.AssertEqual(t, sum, Fl(370))
}

func TestFlexLeftOverIsCarried(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(fr(1), fr(1), fr(1)), pr.TrackList{}))
	engine := layoutTree(t, tree, 100)

	sizes := baseSizes(engine.RenderGrid(tree.Root()).TrackSizingAlgorithm().Tracks(ForColumns))
	var sum Fl
	for _, s := range sizes {
		// multiples of the layout unit
		tu.AssertEqual(t, s*64, Fl(int(s*64)))
		sum += s
	}
	tu.AssertNear(t, sum, 100, 3./64)
}

func TestLayoutIsIdempotent(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(auto, fr(1), fr(2)), trackList(auto)))
	tree.Add(0, newItem(withText(10, 40, 40, 40)))
	tree.Add(0, newItem(withContentHeight(25)))
	tree.Add(0, newItem(withContentWidth(60)))
	engine := layoutTree(t, tree, 320)

	rg := engine.RenderGrid(tree.Root())
	columns := baseSizes(rg.TrackSizingAlgorithm().Tracks(ForColumns))
	rows := baseSizes(rg.TrackSizingAlgorithm().Tracks(ForRows))

	if err := engine.Layout(320, pr.AutoF); err != nil {
		t.Fatal(err)
	}
	tu.AssertEqual(t, baseSizes(rg.TrackSizingAlgorithm().Tracks(ForColumns)), columns)
	tu.AssertEqual(t, baseSizes(rg.TrackSizingAlgorithm().Tracks(ForRows)), rows)
}

func TestTracksAreMonotonic(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	columns := trackList(
		pr.MinMax(pr.Px(50), pr.Px(100)),
		auto,
		pr.FitContent(pr.Px(60)),
		pr.MinMax(pr.MinContentLength, pr.MaxContentLength),
		fr(2),
	)
	tree := bo.NewTree(gridStyle(columns, pr.TrackList{}))
	for range 10 {
		tree.Add(0, newItem(withText(12, 30, 45, 20, 70)))
	}
	tree.Add(0, newItem(withColumn(line(2), span(3)), withText(12, 120, 120)))
	engine := layoutTree(t, tree, 600)

	algo := engine.RenderGrid(tree.Root()).TrackSizingAlgorithm()
	for _, d := range [...]pr.GridDirection{ForColumns, ForRows} {
		tracks := algo.Tracks(d)
		for i := range tracks {
			if tracks[i].BaseSize() < 0 {
				t.Fatalf("negative base size for %s track %d", d, i)
			}
			if !tracks[i].GrowthLimitIsInfinite() && tracks[i].GrowthLimit() < tracks[i].BaseSize() {
				t.Fatalf("growth limit below base size for %s track %d", d, i)
			}
		}
	}
	tu.AssertEqual(t, algo.TracksAreWiderThanMinTrackBreadth(), true)
	tu.AssertEqual(t, algo.Tracks(ForColumns)[0].BaseSize() >= 50, true)
}

func TestFitContent(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(pr.FitContent(pr.Px(80)), auto), pr.TrackList{}))
	// min-content 50, max-content 160
	item := tree.Add(0, newItem(withColumn(line(1), pr.GridLine{}), withText(10, 50, 50, 50)))
	engine := layoutTree(t, tree, 300)

	rg := engine.RenderGrid(tree.Root())
	tu.AssertEqual(t, baseSizes(rg.TrackSizingAlgorithm().Tracks(ForColumns)), []Fl{80, 220})
	tu.AssertEqual(t, tree.Box(item).Width, Fl(80))
	// one word per line
	tu.AssertEqual(t, tree.Box(item).Height, Fl(30))
}

func TestSizeContainment(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := gridStyle(trackList(px(50)), trackList(auto, auto))
	style.Contain = pr.ContainSize
	tree := bo.NewTree(style)
	tree.Add(0, newItem(withContentHeight(30)))
	tree.Add(0, newItem(withContentHeight(40)))
	engine := layoutTree(t, tree, 100)

	// the height ignores the items, which then overflow the rows
	rg := engine.RenderGrid(tree.Root())
	tu.AssertEqual(t, tree.Box(0).Height, Fl(0))
	tu.AssertEqual(t, baseSizes(rg.TrackSizingAlgorithm().Tracks(ForRows)), []Fl{30, 40})
	tu.AssertEqual(t, rg.Positions(ForRows), []Fl{0, 30, 70})
}

func TestSizeContainmentWithMinHeight(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	style := gridStyle(trackList(px(50)), trackList(auto, auto))
	style.Contain = pr.ContainSize
	style.MinHeight = pr.Px(60)
	tree := bo.NewTree(style)
	tree.Add(0, newItem(withContentHeight(30)))
	tree.Add(0, newItem(withContentHeight(40)))
	engine := layoutTree(t, tree, 100)

	rg := engine.RenderGrid(tree.Root())
	tu.AssertEqual(t, tree.Box(0).Height, Fl(60))
	tu.AssertEqual(t, baseSizes(rg.TrackSizingAlgorithm().Tracks(ForRows)), []Fl{30, 40})
}

func TestAutoFitCollapsesGutters(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	columns := pr.TrackList{AutoRepeat: []pr.TrackSize{px(100)}, AutoRepeatType: pr.AutoFit}
	style := gridStyle(columns, pr.TrackList{})
	style.ColumnGap = pr.Px(10)
	tree := bo.NewTree(style)
	tree.Add(0, newItem())
	tree.Add(0, newItem())
	engine := layoutTree(t, tree, 500)

	rg := engine.RenderGrid(tree.Root())
	tu.AssertEqual(t, baseSizes(rg.TrackSizingAlgorithm().Tracks(ForColumns)), []Fl{100, 100, 0, 0})
	tu.AssertEqual(t, rg.Positions(ForColumns), []Fl{0, 110, 210, 210, 210})
}

func TestAutoFillKeepsTracks(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	columns := pr.TrackList{AutoRepeat: []pr.TrackSize{px(100)}, AutoRepeatType: pr.AutoFill}
	style := gridStyle(columns, pr.TrackList{})
	style.ColumnGap = pr.Px(10)
	tree := bo.NewTree(style)
	tree.Add(0, newItem())
	engine := layoutTree(t, tree, 500)

	rg := engine.RenderGrid(tree.Root())
	tu.AssertEqual(t, baseSizes(rg.TrackSizingAlgorithm().Tracks(ForColumns)), []Fl{100, 100, 100, 100})
	tu.AssertEqual(t, rg.Positions(ForColumns), []Fl{0, 110, 220, 330, 430})
}

func TestAspectRatioSecondPass(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	tree := bo.NewTree(gridStyle(trackList(auto, fr(1)), trackList(px(40))))
	item := tree.Add(0, newItem(func(b *bo.Box) {
		b.Style.AspectRatio = 2
		b.Style.AlignSelf = pr.AlignValue{Align: pr.AlignStretch}
	}))
	engine := layoutTree(t, tree, 300)

	rg := engine.RenderGrid(tree.Root())
	// the width follows the 40px row
	tu.AssertEqual(t, baseSizes(rg.TrackSizingAlgorithm().Tracks(ForColumns)), []Fl{80, 220})
	tu.AssertEqual(t, tree.Box(item).Width, Fl(80))
	tu.AssertEqual(t, tree.Box(item).Height, Fl(40))
}
