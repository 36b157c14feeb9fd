package layout

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-set/v3"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
)

// MaxLines is the maximum number of tracks of a grid in each direction.
// Author supplied line numbers are clamped so that the explicit and
// implicit grid fit in it.
var MaxLines = 10000

var (
	// ErrTooManyLines is returned when a grid would grow past [MaxLines].
	ErrTooManyLines = errors.New("grid exceeds the maximum number of lines")
	// ErrInvalidTransition is returned when the track sizing algorithm is
	// run for a direction not expected by its state machine.
	ErrInvalidTransition = errors.New("invalid track sizing transition")
	// ErrNotPlaced is returned when an item is queried before placement.
	ErrNotPlaced = errors.New("grid item not placed")
)

type cell = []bo.ItemID

// Grid stores the items of a grid container in its cells.
// Only the first row is allocated to the full column count; the
// other rows are allocated when an item is inserted in them.
type Grid struct {
	cells [][]cell

	itemArea map[bo.ItemID]GridArea
	// items in the order they were collected (CSS order, then tree order)
	orderedItems []bo.ItemID

	explicitColumnStart, explicitRowStart int

	autoRepeatColumns, autoRepeatRows           int
	autoRepeatEmptyColumns, autoRepeatEmptyRows *set.Set[int]

	// zero means no clamping
	maxRows, maxColumns int

	// isMasonry is the masonry state used for the last placement
	isMasonry bool
	// areas resolved by the placement of a masonry grid, which the
	// masonry layout overwrites, and the number of grid axis tracks
	masonryAreas          map[bo.ItemID]GridArea
	masonryGridAxisTracks int

	needsItemsPlacement bool
}

// NewGrid returns an empty grid, needing placement.
func NewGrid() *Grid {
	return &Grid{itemArea: map[bo.ItemID]GridArea{}, needsItemsPlacement: true}
}

// NumTracks returns the number of rows or columns. A grid without
// rows has no columns either.
func (g *Grid) NumTracks(d pr.GridDirection) int {
	if d == pr.ForRows {
		return len(g.cells)
	}
	if len(g.cells) == 0 {
		return 0
	}
	return len(g.cells[0])
}

// EnsureGridSize grows the storage to at least rows x columns.
func (g *Grid) EnsureGridSize(rows, columns int) error {
	if rows > MaxLines || columns > MaxLines {
		return fmt.Errorf("grid of %d rows and %d columns: %w", rows, columns, ErrTooManyLines)
	}
	if rows > len(g.cells) {
		g.cells = append(g.cells, make([][]cell, rows-len(g.cells))...)
	}
	if len(g.cells) == 0 {
		// columns are stored in the first row: without rows, the
		// column count is only known from the style
		return nil
	}
	if columns > len(g.cells[0]) {
		g.cells[0] = append(g.cells[0], make([]cell, columns-len(g.cells[0]))...)
	}
	return nil
}

func (g *Grid) ensureStorageForRow(row int) {
	if n := len(g.cells[0]); len(g.cells[row]) < n {
		g.cells[row] = append(g.cells[row], make([]cell, n-len(g.cells[row]))...)
	}
}

// Insert adds item in every cell of area and records its area,
// which is first clamped for subgrids.
func (g *Grid) Insert(item bo.ItemID, area GridArea) (GridArea, error) {
	if g.maxRows != 0 {
		area.Rows = area.Rows.Clamp(g.maxRows)
	}
	if g.maxColumns != 0 {
		area.Columns = area.Columns.Clamp(g.maxColumns)
	}
	if err := g.EnsureGridSize(area.Rows.EndLine(), area.Columns.EndLine()); err != nil {
		return area, err
	}
	for row := area.Rows.StartLine(); row < area.Rows.EndLine(); row++ {
		g.ensureStorageForRow(row)
		for column := area.Columns.StartLine(); column < area.Columns.EndLine(); column++ {
			g.cells[row][column] = append(g.cells[row][column], item)
		}
	}
	g.itemArea[item] = area
	return area, nil
}

// Cell returns the items in the given cell. The returned slice must not be mutated.
func (g *Grid) Cell(row, column int) []bo.ItemID {
	if row < 0 || row >= len(g.cells) || column < 0 || column >= len(g.cells[row]) {
		return nil
	}
	return g.cells[row][column]
}

// HasGridItems returns true if at least one item has been inserted.
func (g *Grid) HasGridItems() bool { return len(g.itemArea) != 0 }

// GridItemArea returns the area of an item.
func (g *Grid) GridItemArea(item bo.ItemID) (GridArea, bool) {
	area, ok := g.itemArea[item]
	return area, ok
}

// GridItemSpan returns the span of an item in direction d.
func (g *Grid) GridItemSpan(item bo.ItemID, d pr.GridDirection) GridSpan {
	area, ok := g.itemArea[item]
	if !ok {
		return IndefiniteSpan()
	}
	return area.Span(d)
}

// SetGridItemArea records an area without filling the cells.
func (g *Grid) SetGridItemArea(item bo.ItemID, area GridArea) { g.itemArea[item] = area }

// Items returns the placed items, in order-modified document order.
func (g *Grid) Items() []bo.ItemID { return g.orderedItems }

func (g *Grid) ExplicitGridStart(d pr.GridDirection) int {
	if d == pr.ForColumns {
		return g.explicitColumnStart
	}
	return g.explicitRowStart
}

func (g *Grid) SetExplicitGridStart(rowStart, columnStart int) {
	g.explicitRowStart, g.explicitColumnStart = rowStart, columnStart
}

// AutoRepeatTracks returns the number of tracks generated by the auto repeat.
func (g *Grid) AutoRepeatTracks(d pr.GridDirection) int {
	if d == pr.ForColumns {
		return g.autoRepeatColumns
	}
	return g.autoRepeatRows
}

func (g *Grid) SetAutoRepeatTracks(rows, columns int) {
	g.autoRepeatRows, g.autoRepeatColumns = rows, columns
}

func (g *Grid) SetAutoRepeatEmptyColumns(s *set.Set[int]) { g.autoRepeatEmptyColumns = s }
func (g *Grid) SetAutoRepeatEmptyRows(s *set.Set[int])    { g.autoRepeatEmptyRows = s }

// AutoRepeatEmptyTracks returns the collapsed auto-fit tracks, or nil.
func (g *Grid) AutoRepeatEmptyTracks(d pr.GridDirection) *set.Set[int] {
	if d == pr.ForColumns {
		return g.autoRepeatEmptyColumns
	}
	return g.autoRepeatEmptyRows
}

func (g *Grid) HasAutoRepeatEmptyTracks(d pr.GridDirection) bool {
	s := g.AutoRepeatEmptyTracks(d)
	return s != nil && !s.Empty()
}

func (g *Grid) IsEmptyAutoRepeatTrack(d pr.GridDirection, line int) bool {
	s := g.AutoRepeatEmptyTracks(d)
	return s != nil && s.Contains(line)
}

// sortedEmptyTracks returns the collapsed tracks in increasing order.
func (g *Grid) sortedEmptyTracks(d pr.GridDirection) []int {
	s := g.AutoRepeatEmptyTracks(d)
	if s == nil {
		return nil
	}
	out := s.Slice()
	sort.Ints(out)
	return out
}

// SetClampingForSubgrid limits the lines of the items of a subgrid.
// Zero means no limit.
func (g *Grid) SetClampingForSubgrid(maxRows, maxColumns int) {
	g.maxRows, g.maxColumns = maxRows, maxColumns
}

func (g *Grid) NeedsItemsPlacement() bool { return g.needsItemsPlacement }

// SetNeedsItemsPlacement marks the grid dirty, clearing its content, or clean.
func (g *Grid) SetNeedsItemsPlacement(needs bool) {
	g.needsItemsPlacement = needs
	if !needs {
		return
	}
	g.cells = nil
	g.itemArea = map[bo.ItemID]GridArea{}
	g.orderedItems = nil
	g.explicitRowStart, g.explicitColumnStart = 0, 0
	g.autoRepeatEmptyColumns, g.autoRepeatEmptyRows = nil, nil
	g.maxRows, g.maxColumns = 0, 0
	g.masonryAreas, g.masonryGridAxisTracks = nil, 0
}
