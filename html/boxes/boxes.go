// Package boxes stores the box tree laid out by the grid layout.
//
// Boxes live in a flat arena ([Tree]) and refer to each other
// through [ItemID] indices.
package boxes

import (
	"fmt"

	pr "github.com/benoitkugler/gridlayout/css/properties"
)

type Fl = pr.Float

// ItemID is the index of a box in its [Tree].
type ItemID int32

// NoItem is the parent of the root box.
const NoItem ItemID = -1

// GridGeometry is the output of the layout of a grid container:
// the positions of its lines, relative to its border box.
type GridGeometry struct {
	ColumnPositions []Fl
	RowPositions    []Fl
	// ColumnGap and RowGap are the used gaps, after content distribution.
	ColumnGap, RowGap Fl
	// MasonryContentSize is the extent of the masonry axis, if any.
	MasonryContentSize Fl
}

// Box is a node of the box tree.
type Box struct {
	Style pr.Style

	// ElementTag and ElementID identify the source element.
	ElementTag string
	ElementID  string

	Parent   ItemID
	Children []ItemID
	Content  Content

	// Position of the border box relative to the border box
	// of the parent, and border box size.
	PositionX, PositionY Fl
	Width, Height        Fl
	// Used margins
	Margin [4]Fl

	// Overriding containing block sizes, set by the grid
	// container before measuring or laying out an item.
	OverridingContainingBlockWidth  pr.MaybeFloat
	OverridingContainingBlockHeight pr.MaybeFloat

	// Grid is only set for grid containers.
	Grid *GridGeometry

	NeedsLayout bool
}

// BorderWidth returns the sum of the border widths on the given sides.
func (b *Box) BorderWidth(a, c int) Fl { return b.Style.BorderWidth[a] + b.Style.BorderWidth[c] }

// Padding returns the used padding on one side, percentages
// referring to the containing block width.
func (b *Box) Padding(side int, cbWidth Fl) Fl { return b.Style.Padding[side].Resolve(cbWidth) }

// BorderAndPadding returns the border and padding along the columns (horizontal)
// or the rows (vertical) direction.
func (b *Box) BorderAndPadding(d pr.GridDirection, cbWidth Fl) Fl {
	if d == pr.ForColumns {
		return b.BorderWidth(pr.Left, pr.Right) + b.Padding(pr.Left, cbWidth) + b.Padding(pr.Right, cbWidth)
	}
	return b.BorderWidth(pr.Top, pr.Bottom) + b.Padding(pr.Top, cbWidth) + b.Padding(pr.Bottom, cbWidth)
}

// BorderAndPaddingStart returns the border and padding before the content,
// on the left or top side.
func (b *Box) BorderAndPaddingStart(d pr.GridDirection, cbWidth Fl) Fl {
	if d == pr.ForColumns {
		return b.Style.BorderWidth[pr.Left] + b.Padding(pr.Left, cbWidth)
	}
	return b.Style.BorderWidth[pr.Top] + b.Padding(pr.Top, cbWidth)
}

// MarginStart and MarginEnd return the used margins. Auto margins count as 0.
func (b *Box) MarginStart(d pr.GridDirection, cbWidth Fl) Fl {
	return b.Style.StartMargin(d).Resolve(cbWidth)
}

func (b *Box) MarginEnd(d pr.GridDirection, cbWidth Fl) Fl {
	return b.Style.EndMargin(d).Resolve(cbWidth)
}

// Margins returns the sum of the start and end margins in direction d.
func (b *Box) Margins(d pr.GridDirection, cbWidth Fl) Fl {
	return b.MarginStart(d, cbWidth) + b.MarginEnd(d, cbWidth)
}

// HasAutoMargin returns true if one of the margins in direction d is auto.
func (b *Box) HasAutoMargin(d pr.GridDirection) bool {
	return b.Style.StartMargin(d).IsAuto() || b.Style.EndMargin(d).IsAuto()
}

// Size returns the border box width or height.
func (b *Box) Size(d pr.GridDirection) Fl {
	if d == pr.ForColumns {
		return b.Width
	}
	return b.Height
}

// SetSize sets the border box width or height.
func (b *Box) SetSize(d pr.GridDirection, v Fl) {
	if d == pr.ForColumns {
		b.Width = v
	} else {
		b.Height = v
	}
}

// SetPosition sets the border box offset in direction d.
func (b *Box) SetPosition(d pr.GridDirection, v Fl) {
	if d == pr.ForColumns {
		b.PositionX = v
	} else {
		b.PositionY = v
	}
}

// Position returns the border box offset in direction d.
func (b *Box) Position(d pr.GridDirection) Fl {
	if d == pr.ForColumns {
		return b.PositionX
	}
	return b.PositionY
}

// OverridingContainingBlockSize returns the overriding width or height.
func (b *Box) OverridingContainingBlockSize(d pr.GridDirection) pr.MaybeFloat {
	if d == pr.ForColumns {
		return b.OverridingContainingBlockWidth
	}
	return b.OverridingContainingBlockHeight
}

// SetOverridingContainingBlockSize sets the overriding width or height.
func (b *Box) SetOverridingContainingBlockSize(d pr.GridDirection, v pr.MaybeFloat) {
	if d == pr.ForColumns {
		b.OverridingContainingBlockWidth = v
	} else {
		b.OverridingContainingBlockHeight = v
	}
}

func (b *Box) String() string {
	name := b.ElementTag
	if b.ElementID != "" {
		name += "#" + b.ElementID
	}
	return fmt.Sprintf("%s (%g, %g) %gx%g", name, b.PositionX, b.PositionY, b.Width, b.Height)
}

// Tree is an arena of boxes. The first box is the root.
type Tree struct {
	Boxes []Box
}

// NewTree returns a tree with a root box using the given style.
func NewTree(root pr.Style) *Tree {
	return &Tree{Boxes: []Box{{Style: root, Parent: NoItem, ElementTag: "root"}}}
}

// Root returns the root box ID.
func (t *Tree) Root() ItemID { return 0 }

// Box returns the box with the given ID.
func (t *Tree) Box(id ItemID) *Box { return &t.Boxes[id] }

// Add appends a new child to parent and returns its ID.
func (t *Tree) Add(parent ItemID, box Box) ItemID {
	id := ItemID(len(t.Boxes))
	box.Parent = parent
	t.Boxes = append(t.Boxes, box)
	if parent != NoItem {
		p := &t.Boxes[parent]
		p.Children = append(p.Children, id)
	}
	return id
}

// InFlowChildren returns the children taking part in the layout,
// that is the ones not using display: none.
func (t *Tree) InFlowChildren(id ItemID) []ItemID {
	var out []ItemID
	for _, c := range t.Boxes[id].Children {
		if t.Boxes[c].Style.Display != pr.DisplayNone {
			out = append(out, c)
		}
	}
	return out
}

// AbsolutePosition returns the position of the border box of id,
// relative to the root border box.
func (t *Tree) AbsolutePosition(id ItemID) (x, y Fl) {
	for ; id != NoItem; id = t.Boxes[id].Parent {
		if t.Boxes[id].Parent == NoItem {
			break
		}
		x += t.Boxes[id].PositionX
		y += t.Boxes[id].PositionY
	}
	return x, y
}

// Walk calls fn on id and its descendants, in tree order.
func (t *Tree) Walk(id ItemID, fn func(id ItemID, depth int)) {
	var walk func(id ItemID, depth int)
	walk = func(id ItemID, depth int) {
		fn(id, depth)
		for _, c := range t.Boxes[id].Children {
			walk(c, depth+1)
		}
	}
	walk(id, 0)
}
