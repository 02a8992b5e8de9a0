// Package cssval implements the typed CSS value parsers and their
// resolution to pixels: calc()/min()/max()/clamp(), colors (including
// CSS Color 4 functional forms), gradients, position/background, and the
// border/margin/padding shorthands. Each parser consumes a
// []cssom.ComponentValue (never a raw string) and, where a value can
// depend on layout state, exposes a Resolve method taking the relative
// and absolute contexts a cascade pass has in scope at that point.
package cssval

// LengthUnit enumerates the CSS length units this package resolves.
type LengthUnit int

const (
	UnitPx LengthUnit = iota
	UnitEm
	UnitRem
	UnitEx
	UnitCh
	UnitVw
	UnitVh
	UnitVmin
	UnitVmax
	UnitPt
	UnitPc
	UnitIn
	UnitCm
	UnitMm
	UnitQ
)

// unitTable maps a CSS dimension unit (lowercased) to its LengthUnit and,
// for absolute (non-font-relative, non-viewport-relative) units, its
// fixed conversion factor to pixels at 96dpi.
var unitTable = map[string]struct {
	unit   LengthUnit
	pxPer  float64 // 0 if not a fixed absolute conversion
}{
	"px":   {UnitPx, 1},
	"em":   {UnitEm, 0},
	"rem":  {UnitRem, 0},
	"ex":   {UnitEx, 0},
	"ch":   {UnitCh, 0},
	"vw":   {UnitVw, 0},
	"vh":   {UnitVh, 0},
	"vmin": {UnitVmin, 0},
	"vmax": {UnitVmax, 0},
	"pt":   {UnitPt, 96.0 / 72.0},
	"pc":   {UnitPc, 16.0},
	"in":   {UnitIn, 96.0},
	"cm":   {UnitCm, 96.0 / 2.54},
	"mm":   {UnitMm, 96.0 / 25.4},
	"q":    {UnitQ, 96.0 / 25.4 / 4},
}

// Length is a single CSS <length>: a numeric value paired with a unit.
type Length struct {
	Value float64
	Unit  LengthUnit
}

// RelativeContext carries the font-relative quantities needed to resolve
// em/ex/ch units: the element's own computed font size (for ex/ch, which
// approximate against the current font) and its parent's font size (the
// basis for 'em').
type RelativeContext struct {
	ParentFontSizePx float64
	FontSizePx       float64 // the element's own resolved font-size, for ex/ch
}

// AbsoluteContext carries quantities that do not depend on the cascade
// position: the document root's font size (for 'rem') and the viewport
// dimensions (for vw/vh/vmin/vmax).
type AbsoluteContext struct {
	RootFontSizePx  float64
	ViewportWidthPx float64
	ViewportHeightPx float64
}

// PercentBasis is the pixel value a <percentage> resolves against; the
// caller selects it per-property (parent content width, parent content
// height, parent font-size, etc.) before calling Resolve.
type PercentBasis float64

// Resolve converts l to pixels against rc/ac. Font- and viewport-relative
// units multiply their respective basis; absolute units use their fixed
// 96dpi conversion factor.
func (l Length) Resolve(rc RelativeContext, ac AbsoluteContext) float64 {
	switch l.Unit {
	case UnitPx:
		return l.Value
	case UnitEm:
		return l.Value * rc.ParentFontSizePx
	case UnitRem:
		return l.Value * ac.RootFontSizePx
	case UnitEx:
		return l.Value * rc.FontSizePx * 0.5
	case UnitCh:
		return l.Value * rc.FontSizePx * 0.5
	case UnitVw:
		return l.Value / 100 * ac.ViewportWidthPx
	case UnitVh:
		return l.Value / 100 * ac.ViewportHeightPx
	case UnitVmin:
		return l.Value / 100 * min64(ac.ViewportWidthPx, ac.ViewportHeightPx)
	case UnitVmax:
		return l.Value / 100 * max64(ac.ViewportWidthPx, ac.ViewportHeightPx)
	case UnitPt, UnitPc, UnitIn, UnitCm, UnitMm, UnitQ:
		return l.Value * fixedUnitFactor(l.Unit)
	default:
		return l.Value
	}
}

func fixedUnitFactor(u LengthUnit) float64 {
	for _, e := range unitTable {
		if e.unit == u {
			return e.pxPer
		}
	}
	return 1
}

// Percentage is a CSS <percentage>, stored as its literal number (50%
// is stored as 50, not 0.5).
type Percentage struct {
	Value float64
}

// Resolve multiplies the percentage by basis.
func (p Percentage) Resolve(basis PercentBasis) float64 {
	return p.Value / 100 * float64(basis)
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
