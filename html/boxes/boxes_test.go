package boxes

import (
	"testing"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	tu "github.com/benoitkugler/gridlayout/utils/testutils"
)

func TestContentWrap(t *testing.T) {
	c := Content{Words: []Fl{20, 30, 10}, Space: 5, LineHeight: 10}
	tu.AssertEqual(t, c.MinContentWidth(), Fl(30))
	tu.AssertEqual(t, c.MaxContentWidth(), Fl(70))
	tu.AssertEqual(t, c.Lines(70), 1)
	tu.AssertEqual(t, c.Lines(55), 2)
	tu.AssertEqual(t, c.Lines(10), 3)
	tu.AssertEqual(t, c.HeightForWidth(30), Fl(30))
	tu.AssertEqual(t, c.FirstBaseline(), pr.F(8))
	tu.AssertEqual(t, c.LastBaseline(55), pr.F(18))
}

func TestReplacedContent(t *testing.T) {
	c := Content{IntrinsicWidth: 40, IntrinsicHeight: 25}
	tu.AssertEqual(t, c.MinContentWidth(), Fl(40))
	tu.AssertEqual(t, c.MaxContentWidth(), Fl(40))
	tu.AssertEqual(t, c.HeightForWidth(10), Fl(25))
	tu.AssertEqual(t, c.FirstBaseline().Defined, false)
}

func TestTree(t *testing.T) {
	style := pr.InitialStyle()
	tree := NewTree(style)
	a := tree.Add(tree.Root(), Box{Style: style})
	b := tree.Add(a, Box{Style: style})
	hidden := style
	hidden.Display = pr.DisplayNone
	tree.Add(a, Box{Style: hidden})

	tree.Box(a).PositionX, tree.Box(a).PositionY = 10, 5
	tree.Box(b).PositionX, tree.Box(b).PositionY = 3, 4
	x, y := tree.AbsolutePosition(b)
	tu.AssertEqual(t, [2]Fl{x, y}, [2]Fl{13, 9})
	tu.AssertEqual(t, tree.InFlowChildren(a), []ItemID{b})

	var visited []ItemID
	tree.Walk(tree.Root(), func(id ItemID, _ int) { visited = append(visited, id) })
	tu.AssertEqual(t, len(visited), 4)
}

func TestBoxEdges(t *testing.T) {
	style := pr.InitialStyle()
	style.Padding = pr.Edges{pr.Px(1), pr.Pct(10), pr.Px(3), pr.Px(4)}
	style.BorderWidth = [4]Fl{1, 1, 2, 2}
	style.Margin[pr.Left] = pr.AutoLength
	b := Box{Style: style}
	tu.AssertEqual(t, b.BorderAndPadding(pr.ForColumns, 100), Fl(1+2+10+4))
	tu.AssertEqual(t, b.BorderAndPadding(pr.ForRows, 100), Fl(1+2+1+3))
	tu.AssertEqual(t, b.HasAutoMargin(pr.ForColumns), true)
	tu.AssertEqual(t, b.HasAutoMargin(pr.ForRows), false)
}
