package properties

import (
	"fmt"

	"github.com/benoitkugler/gridlayout/utils"
)

type Float = utils.Fl

// MaybeFloat is a length which may be indefinite, like the
// height of a block before layout.
type MaybeFloat struct {
	Value   Float
	Defined bool
}

// AutoF is the indefinite value.
var AutoF = MaybeFloat{}

// F returns a definite value.
func F(v Float) MaybeFloat { return MaybeFloat{Value: v, Defined: true} }

// V returns the value, or 0 if m is indefinite.
func (m MaybeFloat) V() Float { return m.Value }

// Or returns the value, or def if m is indefinite.
func (m MaybeFloat) Or(def Float) Float {
	if m.Defined {
		return m.Value
	}
	return def
}

func (m MaybeFloat) String() string {
	if !m.Defined {
		return "auto"
	}
	return fmt.Sprintf("%g", m.Value)
}

type LengthKind uint8

const (
	LengthAuto LengthKind = iota
	LengthFixed
	LengthPercent
	LengthFlex // fr unit, only valid in track sizing functions
	LengthMinContent
	LengthMaxContent
	LengthNone // only valid for max-width and max-height
)

// Length is a computed CSS length: a keyword, a px value,
// a percentage or a flex factor.
type Length struct {
	Kind  LengthKind
	Value Float
}

var (
	AutoLength       = Length{Kind: LengthAuto}
	MinContentLength = Length{Kind: LengthMinContent}
	MaxContentLength = Length{Kind: LengthMaxContent}
	NoneLength       = Length{Kind: LengthNone}
)

func Px(v Float) Length  { return Length{Kind: LengthFixed, Value: v} }
func Pct(v Float) Length { return Length{Kind: LengthPercent, Value: v} }
func Fr(v Float) Length  { return Length{Kind: LengthFlex, Value: v} }

func (l Length) IsAuto() bool       { return l.Kind == LengthAuto }
func (l Length) IsFixed() bool      { return l.Kind == LengthFixed }
func (l Length) IsPercent() bool    { return l.Kind == LengthPercent }
func (l Length) IsFlex() bool       { return l.Kind == LengthFlex }
func (l Length) IsMinContent() bool { return l.Kind == LengthMinContent }
func (l Length) IsMaxContent() bool { return l.Kind == LengthMaxContent }
func (l Length) IsNone() bool       { return l.Kind == LengthNone }

// IsSpecified is true for px and percentages.
func (l Length) IsSpecified() bool { return l.Kind == LengthFixed || l.Kind == LengthPercent }

// IsIntrinsic is true for min-content and max-content.
func (l Length) IsIntrinsic() bool { return l.Kind == LengthMinContent || l.Kind == LengthMaxContent }

func (l Length) IsIntrinsicOrAuto() bool { return l.IsIntrinsic() || l.IsAuto() }

// IsContentSized is true for the breadths depending on the grid items.
func (l Length) IsContentSized() bool { return l.IsIntrinsicOrAuto() }

// Resolve returns the used value of a specified length, percentages
// being resolved against reference. Keywords resolve to 0.
func (l Length) Resolve(reference Float) Float {
	switch l.Kind {
	case LengthFixed:
		return l.Value
	case LengthPercent:
		return l.Value * reference / 100
	default:
		return 0
	}
}

// ResolveMaybe resolves a specified length, returning AutoF
// for keywords and for percentages against an indefinite reference.
func (l Length) ResolveMaybe(reference MaybeFloat) MaybeFloat {
	switch l.Kind {
	case LengthFixed:
		return F(l.Value)
	case LengthPercent:
		if !reference.Defined {
			return AutoF
		}
		return F(l.Value * reference.Value / 100)
	default:
		return AutoF
	}
}

func (l Length) String() string {
	switch l.Kind {
	case LengthAuto:
		return "auto"
	case LengthFixed:
		return fmt.Sprintf("%gpx", l.Value)
	case LengthPercent:
		return fmt.Sprintf("%g%%", l.Value)
	case LengthFlex:
		return fmt.Sprintf("%gfr", l.Value)
	case LengthMinContent:
		return "min-content"
	case LengthMaxContent:
		return "max-content"
	case LengthNone:
		return "none"
	}
	return fmt.Sprintf("<length kind %d>", l.Kind)
}

type TrackSizeKind uint8

const (
	TrackBreadth TrackSizeKind = iota
	TrackMinMax
	TrackFitContent
)

// TrackSize is a track sizing function: a single breadth,
// minmax(min, max) or fit-content(limit).
type TrackSize struct {
	Kind TrackSizeKind
	min  Length
	max  Length
	fit  Length
}

// Breadth returns the track sizing function made of l alone.
func Breadth(l Length) TrackSize { return TrackSize{Kind: TrackBreadth, min: l, max: l} }

// MinMax returns minmax(min, max).
func MinMax(min, max Length) TrackSize { return TrackSize{Kind: TrackMinMax, min: min, max: max} }

// FitContent returns fit-content(limit).
func FitContent(limit Length) TrackSize {
	return TrackSize{Kind: TrackFitContent, min: AutoLength, max: AutoLength, fit: limit}
}

// AutoTrack is the initial value of grid-auto-rows and grid-auto-columns.
var AutoTrack = Breadth(AutoLength)

// MinTrackBreadth returns the min sizing function. A flexible minimum
// behaves as auto.
func (t TrackSize) MinTrackBreadth() Length {
	if t.min.IsFlex() {
		return AutoLength
	}
	return t.min
}

// MaxTrackBreadth returns the max sizing function.
func (t TrackSize) MaxTrackBreadth() Length { return t.max }

// FitContentTrackBreadth returns the argument of fit-content().
func (t TrackSize) FitContentTrackBreadth() Length { return t.fit }

func (t TrackSize) IsFitContent() bool { return t.Kind == TrackFitContent }

// IsContentSized is true if one of the breadths depends on the items.
func (t TrackSize) IsContentSized() bool {
	return t.MinTrackBreadth().IsContentSized() || t.max.IsContentSized() || t.IsFitContent()
}

func (t TrackSize) HasIntrinsicMinTrackBreadth() bool {
	return t.MinTrackBreadth().IsIntrinsicOrAuto()
}

func (t TrackSize) HasAutoMinTrackBreadth() bool       { return t.MinTrackBreadth().IsAuto() }
func (t TrackSize) HasMinContentMinTrackBreadth() bool { return t.MinTrackBreadth().IsMinContent() }
func (t TrackSize) HasMaxContentMinTrackBreadth() bool { return t.MinTrackBreadth().IsMaxContent() }

func (t TrackSize) HasFlexMaxTrackBreadth() bool { return t.max.IsFlex() }
func (t TrackSize) HasAutoMaxTrackBreadth() bool { return t.max.IsAuto() }

func (t TrackSize) HasIntrinsicMaxTrackBreadth() bool { return t.max.IsIntrinsicOrAuto() }

func (t TrackSize) HasMaxContentMaxTrackBreadth() bool { return t.max.IsMaxContent() }

// HasMaxContentOrAutoMaxTrackBreadth is true for the tracks accepting
// space in the "resolve max-content maximums" phase.
func (t TrackSize) HasMaxContentOrAutoMaxTrackBreadth() bool {
	return t.max.IsMaxContent() || t.max.IsAuto()
}

func (t TrackSize) HasMinOrMaxContentMinTrackBreadth() bool {
	return t.MinTrackBreadth().IsIntrinsic()
}

func (t TrackSize) HasMaxContentOrAutoMinTrackBreadth() bool {
	m := t.MinTrackBreadth()
	return m.IsMaxContent() || m.IsAuto()
}

// WithBreadths returns a copy of t with replaced min and max breadths,
// keeping the fit-content argument.
func (t TrackSize) WithBreadths(min, max Length) TrackSize {
	t.min, t.max = min, max
	return t
}

func (t TrackSize) String() string {
	switch t.Kind {
	case TrackMinMax:
		return fmt.Sprintf("minmax(%s, %s)", t.min, t.max)
	case TrackFitContent:
		return fmt.Sprintf("fit-content(%s)", t.fit)
	default:
		return t.min.String()
	}
}

// GridAuto is the value of grid-auto-rows and grid-auto-columns.
type GridAuto []TrackSize

// At returns the track used for the i-th implicit track after the
// explicit grid. Negative indices count backwards from the explicit
// grid start, wrapping through the list from its end.
func (ga GridAuto) At(i int) TrackSize {
	if len(ga) == 0 {
		return AutoTrack
	}
	n := len(ga)
	if i < 0 {
		i = (i%n + n) % n
	} else {
		i %= n
	}
	return ga[i]
}

type RepeatType uint8

const (
	NoRepeat RepeatType = iota
	AutoFill
	AutoFit
)

// GridNames is a list of line names, like [a b].
type GridNames []string

// TrackList is the computed value of grid-template-rows or grid-template-columns.
// Integer repeat() are expanded; the optional auto repeat block is kept apart
// and logically inserted before Sizes[AutoRepeatInsertionPoint].
type TrackList struct {
	Sizes     []TrackSize
	LineNames []GridNames // len(Sizes)+1 entries, or empty

	AutoRepeat               []TrackSize
	AutoRepeatType           RepeatType
	AutoRepeatInsertionPoint int
	AutoRepeatLineNames      []GridNames // len(AutoRepeat)+1 entries, or empty
	// LineNamesAfterAutoRepeat are the names written just after the
	// auto repeat, LineNames[AutoRepeatInsertionPoint] being the ones before.
	LineNamesAfterAutoRepeat GridNames

	Subgrid bool
	Masonry bool
}

// IsNone is true for the initial value.
func (tl TrackList) IsNone() bool {
	return len(tl.Sizes) == 0 && len(tl.AutoRepeat) == 0 && !tl.Subgrid && !tl.Masonry
}

// NamesAt returns the names of the i-th line of the explicit list,
// auto repeat excluded.
func (tl TrackList) NamesAt(i int) GridNames {
	if i < 0 || i >= len(tl.LineNames) {
		return nil
	}
	return tl.LineNames[i]
}

// GridLineKind is the type of a grid placement property value.
type GridLineKind uint8

const (
	LineAuto GridLineKind = iota
	LineExplicit
	LineSpan
	LineNamedArea // a custom identifier alone
)

// GridLine is the value of grid-row-start and similar properties.
type GridLine struct {
	Tag     GridLineKind
	Integer int
	Name    string
}

// IsSpan returns true for `span ...` values.
func (gl GridLine) IsSpan() bool { return gl.Tag == LineSpan }

// IsAuto returns true for the `auto` value.
func (gl GridLine) IsAuto() bool { return gl.Tag == LineAuto }

// IsCustomIdent returns true for a single custom identifier.
func (gl GridLine) IsCustomIdent() bool { return gl.Tag == LineNamedArea }

func (gl GridLine) String() string {
	switch gl.Tag {
	case LineExplicit:
		if gl.Name != "" {
			return fmt.Sprintf("%d %s", gl.Integer, gl.Name)
		}
		return fmt.Sprint(gl.Integer)
	case LineSpan:
		if gl.Name != "" {
			return fmt.Sprintf("span %d %s", gl.Integer, gl.Name)
		}
		return fmt.Sprintf("span %d", gl.Integer)
	case LineNamedArea:
		return gl.Name
	}
	return "auto"
}

// NamedArea is a rectangle of grid-template-areas, with 0-based lines,
// end excluded.
type NamedArea struct {
	RowStart, RowEnd       int
	ColumnStart, ColumnEnd int
}

// GridTemplateAreas is the computed value of grid-template-areas.
type GridTemplateAreas struct {
	Rows, Columns int
	Areas         map[string]NamedArea
}

// IsNone returns true for the initial value.
func (gt GridTemplateAreas) IsNone() bool { return gt.Rows == 0 }

// Align is a value of justify-*, align-* properties.
type Align uint8

const (
	AlignAuto Align = iota // only for *-self
	AlignNormal
	AlignStretch
	AlignStart
	AlignEnd
	AlignCenter
	AlignFlexStart
	AlignFlexEnd
	AlignSelfStart
	AlignSelfEnd
	AlignLeft
	AlignRight
	AlignBaseline
	AlignLastBaseline
	AlignSpaceBetween // content distribution, only for *-content
	AlignSpaceAround
	AlignSpaceEvenly
)

// IsBaseline returns true for first and last baseline.
func (a Align) IsBaseline() bool { return a == AlignBaseline || a == AlignLastBaseline }

// IsDistribution returns true for the <content-distribution> values.
func (a Align) IsDistribution() bool {
	return a == AlignSpaceBetween || a == AlignSpaceAround || a == AlignSpaceEvenly || a == AlignStretch
}

// AlignValue is an Align with its overflow modifier.
type AlignValue struct {
	Align Align
	Safe  bool
}

// GridDirection selects the columns or the rows of a grid.
type GridDirection uint8

const (
	ForColumns GridDirection = iota
	ForRows
)

// Orthogonal returns the other direction.
func (d GridDirection) Orthogonal() GridDirection {
	if d == ForColumns {
		return ForRows
	}
	return ForColumns
}

func (d GridDirection) String() string {
	if d == ForColumns {
		return "columns"
	}
	return "rows"
}
