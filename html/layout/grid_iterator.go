package layout

import (
	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
)

// GridIterator walks the cells of one track of a grid: the fixed
// index selects the track (a column for ForColumns), the varying
// index moves along it.
type GridIterator struct {
	grid       *Grid
	direction  pr.GridDirection
	row        int
	column     int
	childIndex int
}

// NewGridIterator starts at (fixed, varying).
func NewGridIterator(grid *Grid, d pr.GridDirection, fixedTrackIndex, varyingTrackIndex int) GridIterator {
	it := GridIterator{grid: grid, direction: d}
	if d == pr.ForColumns {
		it.row, it.column = varyingTrackIndex, fixedTrackIndex
	} else {
		it.row, it.column = fixedTrackIndex, varyingTrackIndex
	}
	return it
}

func (it *GridIterator) varying() *int {
	if it.direction == pr.ForColumns {
		return &it.row
	}
	return &it.column
}

func (it *GridIterator) endOfVarying() int {
	return it.grid.NumTracks(it.direction.Orthogonal())
}

// FixedTrack returns the index of the walked track.
func (it *GridIterator) FixedTrack() int {
	if it.direction == pr.ForColumns {
		return it.column
	}
	return it.row
}

// Direction returns the direction of the walked track.
func (it *GridIterator) Direction() pr.GridDirection { return it.direction }

// NextGridItem returns the next item found along the track, cell by cell.
// An item spanning several cells is returned once per cell.
func (it *GridIterator) NextGridItem() (bo.ItemID, bool) {
	if it.grid.NumTracks(pr.ForRows) == 0 {
		return 0, false
	}
	varying, end := it.varying(), it.endOfVarying()
	for ; *varying < end; *varying++ {
		children := it.grid.Cell(it.row, it.column)
		if it.childIndex < len(children) {
			item := children[it.childIndex]
			it.childIndex++
			return item, true
		}
		it.childIndex = 0
	}
	return 0, false
}

// IsEmptyAreaEnough returns true if the cells of the rowSpan x columnSpan
// area starting at the current position are empty. Cells outside the
// grid are ignored, since the grid will grow to contain them.
func (it *GridIterator) IsEmptyAreaEnough(rowSpan, columnSpan int) bool {
	maxRows := min(it.row+rowSpan, it.grid.NumTracks(pr.ForRows))
	maxColumns := min(it.column+columnSpan, it.grid.NumTracks(pr.ForColumns))
	for row := it.row; row < maxRows; row++ {
		for column := it.column; column < maxColumns; column++ {
			if len(it.grid.Cell(row, column)) != 0 {
				return false
			}
		}
	}
	return true
}

// NextEmptyGridArea returns the next empty area of the given spans,
// and moves past it. It returns nil for an empty grid, or when the
// end of the track is reached.
func (it *GridIterator) NextEmptyGridArea(fixedTrackSpan, varyingTrackSpan int) *GridArea {
	if it.grid.NumTracks(pr.ForRows) == 0 || it.grid.NumTracks(pr.ForColumns) == 0 {
		return nil
	}
	rowSpan, columnSpan := fixedTrackSpan, varyingTrackSpan
	if it.direction == pr.ForColumns {
		rowSpan, columnSpan = varyingTrackSpan, fixedTrackSpan
	}
	varying, end := it.varying(), it.endOfVarying()
	for ; *varying < end; *varying++ {
		if it.IsEmptyAreaEnough(rowSpan, columnSpan) {
			area := &GridArea{
				Rows:    TranslatedDefiniteSpan(it.row, it.row+rowSpan),
				Columns: TranslatedDefiniteSpan(it.column, it.column+columnSpan),
			}
			*varying++
			return area
		}
	}
	return nil
}

// CreateForSubgrid returns an iterator over the track of the subgrid
// grid matching the current track of outer. spanInOuter is the area of
// the subgrid in the outer grid, numTracks its track count and
// reversed is true when the subgrid direction is opposed to its parent's.
func CreateForSubgrid(subgrid *Grid, outer *GridIterator, spanInOuter GridSpan, numTracks int, reversed bool) GridIterator {
	fixed := outer.FixedTrack() - spanInOuter.StartLine()
	if reversed {
		fixed = numTracks - fixed - 1
	}
	return NewGridIterator(subgrid, outer.direction, fixed, 0)
}
