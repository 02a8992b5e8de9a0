// Package style implements the cascade: matching a compiled rule set
// against the DOM and resolving each element's typed ComputedStyle.
//
// Each element starts from the initial values with only the inherited
// properties copied from the parent's resolved style; each property then
// takes its winning declaration (by origin and importance, then
// specificity, then source order, with inline style above any selector),
// resolved through cssval's per-property parsers into a typed
// ComputedStyle rather than a loose string bag.
package style

import (
	"math"

	"github.com/renderkit/renderkit/cssval"
	"github.com/renderkit/renderkit/geom"
)

// DisplayOutside is the CSS2 "outer" display type.
type DisplayOutside int

const (
	OutsideBlock DisplayOutside = iota
	OutsideInline
	OutsideNone
)

// DisplayInside is the CSS2/CSS3 "inner" display type.
type DisplayInside int

const (
	InsideFlow DisplayInside = iota
	InsideFlowRoot
	InsideFlex
	InsideTable
	InsideTableRow
	InsideTableRowGroup
	InsideTableCell
	InsideTableCaption
	InsideListItem
)

// Display is the resolved `display` property.
type Display struct {
	Outside DisplayOutside
	Inside  DisplayInside
}

// PositionKeyword is the resolved `position` property.
type PositionKeyword int

const (
	PositionStatic PositionKeyword = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

// TextAlign is the resolved `text-align` property.
type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignRight
	TextAlignCenter
	TextAlignJustify
)

// WhiteSpace is the resolved `white-space` property.
type WhiteSpace int

const (
	WhiteSpaceNormal WhiteSpace = iota
	WhiteSpacePre
	WhiteSpaceNowrap
	WhiteSpacePreWrap
	WhiteSpacePreLine
)

// JustifyContentKeyword is the resolved `justify-content` property,
// CSS Flexible Box Layout Module Level 1 §8.
type JustifyContentKeyword int

const (
	JustifyFlexStart JustifyContentKeyword = iota
	JustifyFlexEnd
	JustifyCenter
	JustifySpaceBetween
	JustifySpaceAround
)

// WritingMode is the resolved `writing-mode` property.
type WritingMode int

const (
	HorizontalTB WritingMode = iota
	VerticalRL
	VerticalLR
)

// BorderStyle is the resolved per-side border-style.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderHidden
	BorderDotted
	BorderDashed
	BorderSolid
	BorderDouble
	BorderGroove
	BorderRidge
	BorderInset
	BorderOutset
)

var borderStyleNames = map[string]BorderStyle{
	"none": BorderNone, "hidden": BorderHidden, "dotted": BorderDotted,
	"dashed": BorderDashed, "solid": BorderSolid, "double": BorderDouble,
	"groove": BorderGroove, "ridge": BorderRidge, "inset": BorderInset, "outset": BorderOutset,
}

// BorderSide is one edge's resolved border.
type BorderSide struct {
	Color    geom.Color4f
	Style    BorderStyle
	WidthPx  float64
}

// Borders holds all four edges.
type Borders struct {
	Top, Right, Bottom, Left BorderSide
}

// Edge is a resolved margin/padding value: either a pixel length or
// `auto` (padding never actually resolves auto=true, but the field is
// kept for symmetry with margin).
type Edge struct {
	Px   float64
	Auto bool
}

// Edges holds all four edges of a margin or padding box.
type Edges struct {
	Top, Right, Bottom, Left Edge
}

// SizeKind distinguishes auto/explicit-length/intrinsic-keyword sizing.
type SizeKind int

const (
	SizeAuto SizeKind = iota
	SizeLength
	SizeIntrinsic
)

// Infinity is the sentinel used for an absent max-width/max-height.
var Infinity = math.Inf(1)

// Size is a resolved width/height/max-width/max-height value.
type Size struct {
	Kind             SizeKind
	Px               float64
	IntrinsicKeyword string // "min-content" | "max-content" | "fit-content", when Kind == SizeIntrinsic
}

// ComputedStyle is the immutable, fully resolved style of one element.
type ComputedStyle struct {
	BackgroundColor geom.Color4f
	Borders         Borders
	Color           geom.Color4f
	Display         Display
	FontFamily      []string
	FontSizePx      float64
	FontWeight      int
	LineHeightPx    float64
	Margin          Edges
	Padding         Edges
	Width           Size
	Height          Size
	MaxWidth        Size
	MaxHeight       Size
	Position        PositionKeyword
	TextAlign       TextAlign
	WhiteSpace      WhiteSpace
	WritingMode     WritingMode
	JustifyContent  JustifyContentKeyword

	// BackgroundLayers carries the full `background` shorthand's image/
	// gradient/position/repeat layers, beyond the single background-color
	// §3.5 names, so the layout/paint stages can exercise cssval's
	// gradient and position parsers.
	BackgroundLayers []cssval.BackgroundLayer

	CustomProperties cssval.CustomProperties
}

// initial returns the CSS initial values for a root element's implicit
// parent, per CSS2.1 Appendix F (the properties this engine resolves).
func initial(ac cssval.AbsoluteContext) *ComputedStyle {
	return &ComputedStyle{
		BackgroundColor: geom.Color4f{R: 0, G: 0, B: 0, A: 0},
		Color:           geom.Color4f{R: 0, G: 0, B: 0, A: 1},
		Display:         Display{Outside: OutsideInline, Inside: InsideFlow},
		FontFamily:      []string{"sans-serif"},
		FontSizePx:      ac.RootFontSizePx,
		FontWeight:      400,
		LineHeightPx:    ac.RootFontSizePx * 1.2,
		Width:           Size{Kind: SizeAuto},
		Height:          Size{Kind: SizeAuto},
		MaxWidth:        Size{Kind: SizeLength, Px: Infinity},
		MaxHeight:       Size{Kind: SizeLength, Px: Infinity},
		Position:        PositionStatic,
		TextAlign:       TextAlignLeft,
		WhiteSpace:      WhiteSpaceNormal,
		WritingMode:     HorizontalTB,
		JustifyContent:  JustifyFlexStart,
		CustomProperties: cssval.CustomProperties{},
	}
}
