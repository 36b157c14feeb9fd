// Package layout implements the CSS grid layout of a box tree:
// the placement of the items, the track sizing algorithm (with its
// masonry and subgrid extensions), the alignment of the items and
// their final positioning.
//
// Boxes which are not grid containers are laid out with a minimal
// block flow: their children are stacked vertically, and leaf boxes
// wrap their words in the available width.
package layout

import (
	"fmt"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	"github.com/benoitkugler/gridlayout/utils"
)

// layoutContext is shared by every grid container of a tree.
type layoutContext struct {
	tree  *bo.Tree
	grids map[bo.ItemID]*RenderGrid

	// border box min-content and max-content widths, valid for one layout
	preferredWidthsCache map[bo.ItemID][2]Fl

	// first error met while laying out nested boxes
	err error
}

// Engine lays out a box tree. The placement of the grid items is kept
// between two layouts, until [Engine.Invalidate] is called.
type Engine struct {
	ctx layoutContext
}

// NewEngine returns an engine for the given tree.
func NewEngine(tree *bo.Tree) *Engine {
	return &Engine{ctx: layoutContext{tree: tree, grids: map[bo.ItemID]*RenderGrid{}}}
}

// Layout lays out the whole tree in a viewport of the given size.
// The root box fills the viewport width; its height is its content
// height, unless the root has a definite height.
func (e *Engine) Layout(viewportWidth Fl, viewportHeight pr.MaybeFloat) error {
	ctx := &e.ctx
	ctx.err = nil
	ctx.preferredWidthsCache = map[bo.ItemID][2]Fl{}
	root := ctx.tree.Root()
	box := ctx.tree.Box(root)
	box.OverridingContainingBlockWidth = pr.F(viewportWidth)
	box.OverridingContainingBlockHeight = viewportHeight

	width := box.Style.Width
	var borderWidth Fl
	if width.IsSpecified() {
		borderWidth = ctx.clampWidth(root, width.Resolve(viewportWidth)+box.BorderAndPadding(pr.ForColumns, viewportWidth), viewportWidth)
	} else {
		borderWidth = utils.MaxF(0, viewportWidth-box.Margins(pr.ForColumns, viewportWidth))
	}
	ctx.layoutBox(root, borderWidth, pr.AutoF)
	box.PositionX = box.MarginStart(pr.ForColumns, viewportWidth)
	box.PositionY = box.MarginStart(pr.ForRows, viewportWidth)
	return ctx.err
}

// Invalidate marks the grid container id, if any, as needing a new
// placement of its items, for instance after a change of its children.
func (e *Engine) Invalidate(id bo.ItemID) {
	if rg := e.ctx.grids[id]; rg != nil {
		rg.grid.SetNeedsItemsPlacement(true)
	}
	e.ctx.tree.Box(id).NeedsLayout = true
}

// RenderGrid returns the grid container state of id, or nil
// if id is not a grid container.
func (e *Engine) RenderGrid(id bo.ItemID) *RenderGrid { return e.ctx.renderGrid(id) }

// Layout is a shortcut for a one-off layout of tree.
func Layout(tree *bo.Tree, viewportWidth Fl, viewportHeight pr.MaybeFloat) error {
	return NewEngine(tree).Layout(viewportWidth, viewportHeight)
}

func (ctx *layoutContext) setError(err error) {
	if err != nil && ctx.err == nil {
		ctx.err = err
	}
}

// renderGrid returns the (cached) grid state of a grid container, or nil.
func (ctx *layoutContext) renderGrid(id bo.ItemID) *RenderGrid {
	if rg, ok := ctx.grids[id]; ok {
		return rg
	}
	box := ctx.tree.Box(id)
	if !box.Style.IsGridContainer() {
		return nil
	}
	rg := newRenderGrid(ctx, id)
	if box.Parent != bo.NoItem {
		rg.parent = ctx.renderGrid(box.Parent)
	}
	ctx.grids[id] = rg
	return rg
}

// subgrid returns the grid state of id if it is a subgrid in at least one direction.
func (ctx *layoutContext) subgrid(id bo.ItemID) *RenderGrid {
	rg := ctx.renderGrid(id)
	if rg == nil || rg.parent == nil {
		return nil
	}
	if rg.style().IsSubgrid(pr.ForColumns) || rg.style().IsSubgrid(pr.ForRows) {
		return rg
	}
	return nil
}

// subgridIn returns the grid state of id if it is a subgrid in direction d.
func (ctx *layoutContext) subgridIn(id bo.ItemID, d pr.GridDirection) *RenderGrid {
	rg := ctx.subgrid(id)
	if rg == nil || !rg.isSubgridIn(d) {
		return nil
	}
	return rg
}

func (ctx *layoutContext) clampWidth(id bo.ItemID, borderWidth, cbWidth Fl) Fl {
	return ctx.clampSize(id, pr.ForColumns, borderWidth, pr.F(cbWidth), cbWidth)
}

// clampSize applies min-width/max-width (or min-height/max-height) to a
// border box size. Percentages against an indefinite reference are ignored.
func (ctx *layoutContext) clampSize(id bo.ItemID, d pr.GridDirection, borderSize Fl, reference pr.MaybeFloat, cbWidth Fl) Fl {
	box := ctx.tree.Box(id)
	bp := box.BorderAndPadding(d, cbWidth)
	if max := box.Style.LogicalMaxSize(d).ResolveMaybe(reference); max.Defined {
		borderSize = utils.MinF(borderSize, max.Value+bp)
	}
	if min := box.Style.LogicalMinSize(d).ResolveMaybe(reference); min.Defined {
		borderSize = utils.MaxF(borderSize, min.Value+bp)
	}
	return utils.MaxF(borderSize, bp)
}

// definiteBorderHeight returns the border box height fixed by the style,
// if any, percentages being resolved against the containing block height.
func (ctx *layoutContext) definiteBorderHeight(id bo.ItemID) pr.MaybeFloat {
	box := ctx.tree.Box(id)
	cbWidth := box.OverridingContainingBlockWidth.V()
	h := box.Style.Height.ResolveMaybe(box.OverridingContainingBlockHeight)
	if !h.Defined {
		return pr.AutoF
	}
	return pr.F(ctx.clampSize(id, pr.ForRows, h.Value+box.BorderAndPadding(pr.ForRows, cbWidth), box.OverridingContainingBlockHeight, cbWidth))
}

// layoutBox lays out id with the given border box width. If height is
// defined, it is the border box height of the box; otherwise the height
// is given by the style, or by the content.
// The position of the box is set by its parent.
func (ctx *layoutContext) layoutBox(id bo.ItemID, borderWidth Fl, height pr.MaybeFloat) {
	box := ctx.tree.Box(id)
	cbWidth := box.OverridingContainingBlockWidth.V()
	box.Width = borderWidth
	box.Margin = [4]Fl{
		box.Style.Margin[pr.Top].Resolve(cbWidth), box.Style.Margin[pr.Right].Resolve(cbWidth),
		box.Style.Margin[pr.Bottom].Resolve(cbWidth), box.Style.Margin[pr.Left].Resolve(cbWidth),
	}
	if !height.Defined {
		height = ctx.definiteBorderHeight(id)
	}
	bpWidth, bpHeight := box.BorderAndPadding(pr.ForColumns, cbWidth), box.BorderAndPadding(pr.ForRows, cbWidth)
	contentWidth := utils.MaxF(0, borderWidth-bpWidth)
	var contentHeight pr.MaybeFloat
	if height.Defined {
		contentHeight = pr.F(utils.MaxF(0, height.Value-bpHeight))
	}

	var usedContentHeight Fl
	if rg := ctx.renderGrid(id); rg != nil {
		h, err := rg.layout(contentWidth, contentHeight)
		if err != nil {
			ctx.setError(fmt.Errorf("layout of %s: %w", box, err))
		}
		usedContentHeight = h
	} else if len(box.Children) != 0 {
		usedContentHeight = ctx.layoutBlockChildren(id, contentWidth)
	} else if ratio := box.Style.AspectRatio; ratio > 0 && !contentHeight.Defined {
		usedContentHeight = contentWidth / ratio
	} else {
		usedContentHeight = box.Content.HeightForWidth(contentWidth)
	}

	if contentHeight.Defined {
		usedContentHeight = contentHeight.Value
	} else {
		usedContentHeight = ctx.clampSize(id, pr.ForRows, usedContentHeight+bpHeight, box.OverridingContainingBlockHeight, cbWidth) - bpHeight
	}
	box.Height = usedContentHeight + bpHeight
	box.NeedsLayout = false
}

// layoutBlockChildren stacks the children of a block box and returns
// the content height.
func (ctx *layoutContext) layoutBlockChildren(id bo.ItemID, contentWidth Fl) Fl {
	box := ctx.tree.Box(id)
	cbWidth := box.OverridingContainingBlockWidth.V()
	startX := box.BorderAndPaddingStart(pr.ForColumns, cbWidth)
	startY := box.BorderAndPaddingStart(pr.ForRows, cbWidth)
	var cursor Fl
	for _, child := range ctx.tree.InFlowChildren(id) {
		cb := ctx.tree.Box(child)
		cb.OverridingContainingBlockWidth = pr.F(contentWidth)
		cb.OverridingContainingBlockHeight = pr.AutoF
		var width Fl
		if w := cb.Style.Width; w.IsSpecified() {
			width = ctx.clampWidth(child, w.Resolve(contentWidth)+cb.BorderAndPadding(pr.ForColumns, contentWidth), contentWidth)
		} else {
			width = ctx.clampWidth(child, contentWidth-cb.Margins(pr.ForColumns, contentWidth), contentWidth)
		}
		ctx.layoutBox(child, width, pr.AutoF)
		cb.PositionX = startX + cb.MarginStart(pr.ForColumns, contentWidth)
		cb.PositionY = startY + cursor + cb.MarginStart(pr.ForRows, contentWidth)
		cursor += cb.Height + cb.Margins(pr.ForRows, contentWidth)
	}
	return cursor
}

// preferredWidths returns the min-content and max-content border box widths of id.
func (ctx *layoutContext) preferredWidths(id bo.ItemID) (minWidth, maxWidth Fl) {
	if cached, ok := ctx.preferredWidthsCache[id]; ok {
		return cached[0], cached[1]
	}
	box := ctx.tree.Box(id)
	cbWidth := box.OverridingContainingBlockWidth.V()
	bp := box.BorderAndPadding(pr.ForColumns, cbWidth)
	width := box.Style.Width
	switch {
	case width.IsFixed():
		minWidth = width.Value + bp
		maxWidth = minWidth
	case box.Style.AspectRatio > 0 && box.Style.Height.IsFixed():
		minWidth = box.Style.Height.Value*box.Style.AspectRatio + bp
		maxWidth = minWidth
	default:
		if rg := ctx.renderGrid(id); rg != nil {
			var err error
			minWidth, maxWidth, err = rg.computeIntrinsicLogicalWidths()
			ctx.setError(err)
		} else if len(box.Children) != 0 {
			for _, child := range ctx.tree.InFlowChildren(id) {
				childMin, childMax := ctx.preferredWidths(child)
				margins := ctx.tree.Box(child).Margins(pr.ForColumns, 0)
				minWidth = utils.MaxF(minWidth, childMin+margins)
				maxWidth = utils.MaxF(maxWidth, childMax+margins)
			}
		} else {
			minWidth, maxWidth = box.Content.MinContentWidth(), box.Content.MaxContentWidth()
		}
		minWidth += bp
		maxWidth += bp
	}
	// percentages are resolved against an indefinite size here
	minWidth = ctx.clampSize(id, pr.ForColumns, minWidth, pr.AutoF, cbWidth)
	maxWidth = ctx.clampSize(id, pr.ForColumns, maxWidth, pr.AutoF, cbWidth)
	if ctx.preferredWidthsCache != nil {
		ctx.preferredWidthsCache[id] = [2]Fl{minWidth, maxWidth}
	}
	return minWidth, maxWidth
}

// firstBaseline returns the offset of the first baseline of id from
// the top of its border box, once id is laid out.
func (ctx *layoutContext) firstBaseline(id bo.ItemID) pr.MaybeFloat {
	return ctx.baseline(id, false)
}

func (ctx *layoutContext) lastBaseline(id bo.ItemID) pr.MaybeFloat {
	return ctx.baseline(id, true)
}

func (ctx *layoutContext) baseline(id bo.ItemID, last bool) pr.MaybeFloat {
	box := ctx.tree.Box(id)
	cbWidth := box.OverridingContainingBlockWidth.V()
	if rg := ctx.renderGrid(id); rg != nil {
		return rg.baseline(last)
	}
	children := ctx.tree.InFlowChildren(id)
	if len(children) != 0 {
		if last {
			for i := len(children) - 1; i >= 0; i-- {
				if b := ctx.baseline(children[i], true); b.Defined {
					return pr.F(ctx.tree.Box(children[i]).PositionY + b.Value)
				}
			}
			return pr.AutoF
		}
		for _, child := range children {
			if b := ctx.baseline(child, false); b.Defined {
				return pr.F(ctx.tree.Box(child).PositionY + b.Value)
			}
		}
		return pr.AutoF
	}
	top := box.BorderAndPaddingStart(pr.ForRows, cbWidth)
	var b pr.MaybeFloat
	if last {
		b = box.Content.LastBaseline(box.Width - box.BorderAndPadding(pr.ForColumns, cbWidth))
	} else {
		b = box.Content.FirstBaseline()
	}
	if !b.Defined {
		return b
	}
	return pr.F(top + b.Value)
}
