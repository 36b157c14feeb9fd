package properties

type Display uint8

const (
	DisplayBlock Display = iota
	DisplayGrid
	DisplayInlineGrid
	DisplayNone
)

type Direction uint8

const (
	LTR Direction = iota
	RTL
)

// Contain holds the size containment flags of the contain property.
type Contain uint8

const (
	ContainSize Contain = 1 << iota
	ContainInlineSize
)

// AutoFlow is the value of grid-auto-flow.
type AutoFlow struct {
	Column bool // else row
	Dense  bool
}

// MasonryAutoFlow is the value of masonry-auto-flow.
type MasonryAutoFlow struct {
	Next          bool // else pack
	DefiniteFirst bool // else ordered
}

// Edges stores top, right, bottom, left values.
type Edges [4]Length

const (
	Top = iota
	Right
	Bottom
	Left
)

// Style is the computed style of a box, restricted to the
// properties used by the grid layout.
type Style struct {
	Display   Display
	Direction Direction

	Width, Height       Length
	MinWidth, MinHeight Length
	MaxWidth, MaxHeight Length
	AspectRatio         Float // 0 means none
	Contain             Contain

	Margin      Edges // may be auto
	Padding     Edges
	BorderWidth [4]Float

	Order int

	GridTemplateColumns TrackList
	GridTemplateRows    TrackList
	GridTemplateAreas   GridTemplateAreas
	GridAutoColumns     GridAuto
	GridAutoRows        GridAuto
	GridAutoFlow        AutoFlow
	MasonryAutoFlow     MasonryAutoFlow

	ColumnGap, RowGap Length // auto stands for normal

	JustifyContent, AlignContent AlignValue
	JustifyItems, AlignItems     AlignValue
	JustifySelf, AlignSelf       AlignValue

	GridColumnStart, GridColumnEnd GridLine
	GridRowStart, GridRowEnd       GridLine
}

// InitialStyle returns the initial values.
func InitialStyle() Style {
	return Style{
		Width:          AutoLength,
		Height:         AutoLength,
		MinWidth:       AutoLength,
		MinHeight:      AutoLength,
		MaxWidth:       NoneLength,
		MaxHeight:      NoneLength,
		ColumnGap:      AutoLength,
		RowGap:         AutoLength,
		JustifyContent: AlignValue{Align: AlignNormal},
		AlignContent:   AlignValue{Align: AlignNormal},
		JustifyItems:   AlignValue{Align: AlignNormal},
		AlignItems:     AlignValue{Align: AlignNormal},
		JustifySelf:    AlignValue{Align: AlignAuto},
		AlignSelf:      AlignValue{Align: AlignAuto},
		Margin:         Edges{Px(0), Px(0), Px(0), Px(0)},
		Padding:        Edges{Px(0), Px(0), Px(0), Px(0)},
	}
}

// IsGridContainer returns true for grid and inline-grid.
func (s *Style) IsGridContainer() bool {
	return s.Display == DisplayGrid || s.Display == DisplayInlineGrid
}

// TemplateTracks returns grid-template-columns or grid-template-rows.
func (s *Style) TemplateTracks(d GridDirection) *TrackList {
	if d == ForColumns {
		return &s.GridTemplateColumns
	}
	return &s.GridTemplateRows
}

// AutoTracks returns grid-auto-columns or grid-auto-rows.
func (s *Style) AutoTracks(d GridDirection) GridAuto {
	if d == ForColumns {
		return s.GridAutoColumns
	}
	return s.GridAutoRows
}

// Gap returns column-gap or row-gap.
func (s *Style) Gap(d GridDirection) Length {
	if d == ForColumns {
		return s.ColumnGap
	}
	return s.RowGap
}

// IsSubgrid is true when the tracks in direction d are inherited from the parent grid.
func (s *Style) IsSubgrid(d GridDirection) bool { return s.TemplateTracks(d).Subgrid }

// IsMasonry is true when d is the masonry axis.
func (s *Style) IsMasonry(d GridDirection) bool { return s.TemplateTracks(d).Masonry }

// IsColumnFlow is true for grid-auto-flow: column.
func (s *Style) IsColumnFlow() bool { return s.GridAutoFlow.Column }

// IsDenseFlow is true for grid-auto-flow: dense.
func (s *Style) IsDenseFlow() bool { return s.GridAutoFlow.Dense }

// GridItemStart returns grid-column-start or grid-row-start.
func (s *Style) GridItemStart(d GridDirection) GridLine {
	if d == ForColumns {
		return s.GridColumnStart
	}
	return s.GridRowStart
}

// GridItemEnd returns grid-column-end or grid-row-end.
func (s *Style) GridItemEnd(d GridDirection) GridLine {
	if d == ForColumns {
		return s.GridColumnEnd
	}
	return s.GridRowEnd
}

// LogicalSize returns width for columns, height for rows.
func (s *Style) LogicalSize(d GridDirection) Length {
	if d == ForColumns {
		return s.Width
	}
	return s.Height
}

// LogicalMinSize returns min-width for columns, min-height for rows.
func (s *Style) LogicalMinSize(d GridDirection) Length {
	if d == ForColumns {
		return s.MinWidth
	}
	return s.MinHeight
}

// LogicalMaxSize returns max-width for columns, max-height for rows.
func (s *Style) LogicalMaxSize(d GridDirection) Length {
	if d == ForColumns {
		return s.MaxWidth
	}
	return s.MaxHeight
}

// SelfAlignment returns justify-self for columns and align-self for rows,
// auto being resolved against the parent *-items value.
func (s *Style) SelfAlignment(d GridDirection, parent *Style) AlignValue {
	v, items := s.AlignSelf, AlignValue{Align: AlignNormal}
	if d == ForColumns {
		v = s.JustifySelf
		if parent != nil {
			items = parent.JustifyItems
		}
	} else if parent != nil {
		items = parent.AlignItems
	}
	if v.Align == AlignAuto {
		return items
	}
	return v
}

// ContentAlignment returns justify-content for columns and align-content for rows.
func (s *Style) ContentAlignment(d GridDirection) AlignValue {
	if d == ForColumns {
		return s.JustifyContent
	}
	return s.AlignContent
}

// HasSizeContainment is true if the size in direction d does not depend on the content.
func (s *Style) HasSizeContainment(d GridDirection) bool {
	if s.Contain&ContainSize != 0 {
		return true
	}
	return d == ForColumns && s.Contain&ContainInlineSize != 0
}

// StartMargin returns margin-left for columns, margin-top for rows.
func (s *Style) StartMargin(d GridDirection) Length {
	if d == ForColumns {
		return s.Margin[Left]
	}
	return s.Margin[Top]
}

// EndMargin returns margin-right for columns, margin-bottom for rows.
func (s *Style) EndMargin(d GridDirection) Length {
	if d == ForColumns {
		return s.Margin[Right]
	}
	return s.Margin[Bottom]
}
