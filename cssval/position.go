package cssval

import (
	"fmt"

	"github.com/renderkit/renderkit/cssom"
	"github.com/renderkit/renderkit/csstok"
	"github.com/renderkit/renderkit/internal/asciifold"
)

// LengthPercentage is a resolved <length-percentage>: either a plain
// length, a percentage, or a calc() expression mixing the two.
type LengthPercentage struct {
	IsCalc       bool
	Calc         *CalcNode
	IsPercentage bool
	Percentage   Percentage
	Length       Length
}

// Resolve converts the value to pixels against the given contexts.
func (lp LengthPercentage) Resolve(rc RelativeContext, ac AbsoluteContext, basis PercentBasis) float64 {
	switch {
	case lp.IsCalc:
		return lp.Calc.Resolve(rc, ac, basis)
	case lp.IsPercentage:
		return lp.Percentage.Resolve(basis)
	default:
		return lp.Length.Resolve(rc, ac)
	}
}

func (lp LengthPercentage) toCalcNode() *CalcNode {
	if lp.IsCalc {
		return lp.Calc
	}
	if lp.IsPercentage {
		return &CalcNode{kind: calcPercentage, pct: lp.Percentage}
	}
	return &CalcNode{kind: calcLength, length: lp.Length}
}

func zeroLP() LengthPercentage    { return LengthPercentage{IsPercentage: true, Percentage: Percentage{Value: 0}} }
func fiftyLP() LengthPercentage   { return LengthPercentage{IsPercentage: true, Percentage: Percentage{Value: 50}} }
func hundredLP() LengthPercentage { return LengthPercentage{IsPercentage: true, Percentage: Percentage{Value: 100}} }

// parseLengthPercentageCV parses a single component value as a
// <length-percentage>, including a bare `0` (unitless zero) and
// calc()/min()/max()/clamp() expressions.
func parseLengthPercentageCV(cv cssom.ComponentValue) (LengthPercentage, error) {
	if cv.Kind == cssom.CVFunction {
		switch asciifold.Fold(cv.Name) {
		case "calc", "min", "max", "clamp":
			node, err := ParseCalc([]cssom.ComponentValue{cv})
			if err != nil {
				return LengthPercentage{}, err
			}
			return LengthPercentage{IsCalc: true, Calc: node}, nil
		}
		return LengthPercentage{}, fmt.Errorf("cssval: unexpected function in length-percentage")
	}
	if cv.Kind != cssom.CVToken {
		return LengthPercentage{}, fmt.Errorf("cssval: unexpected value")
	}
	switch cv.Token.Kind {
	case csstok.Dimension:
		e, ok := unitTable[asciifold.Fold(cv.Token.Unit)]
		if !ok {
			return LengthPercentage{}, fmt.Errorf("cssval: unknown unit %q", cv.Token.Unit)
		}
		return LengthPercentage{Length: Length{Value: cv.Token.Numeric.Value, Unit: e.unit}}, nil
	case csstok.Percentage:
		return LengthPercentage{IsPercentage: true, Percentage: Percentage{Value: cv.Token.Numeric.Value}}, nil
	case csstok.Number:
		if cv.Token.Numeric.Value == 0 {
			return LengthPercentage{Length: Length{Value: 0, Unit: UnitPx}}, nil
		}
		return LengthPercentage{}, fmt.Errorf("cssval: expected a length, got a bare number")
	default:
		return LengthPercentage{}, fmt.Errorf("cssval: expected a length or percentage")
	}
}

// Position is a resolved CSS <position>: horizontal and vertical offsets
// measured from the top-left corner of the positioning box.
type Position struct {
	X, Y LengthPercentage
}

func isIdent(cv cssom.ComponentValue, name string) bool {
	return cv.Kind == cssom.CVToken && cv.Token.Kind == csstok.Ident && asciifold.Equal(cv.Token.Value, name)
}

func nonWSValues(cvs []cssom.ComponentValue) []cssom.ComponentValue {
	var out []cssom.ComponentValue
	for _, cv := range cvs {
		if !cv.IsToken(csstok.Whitespace) {
			out = append(out, cv)
		}
	}
	return out
}

// ParsePosition parses the 1- or 2-token <position> grammar used by
// `transform-origin`, `object-position`, and similar properties.
func ParsePosition(cvs []cssom.ComponentValue) (Position, error) {
	return parsePositionImpl(cvs, false)
}

// ParseBackgroundPosition additionally accepts the 3- and 4-token
// edge-offset forms (`<side> <length> <side>` etc.) used by
// `background-position`.
func ParseBackgroundPosition(cvs []cssom.ComponentValue) (Position, error) {
	return parsePositionImpl(cvs, true)
}

func parsePositionImpl(cvs []cssom.ComponentValue, allowEdgeOffset bool) (Position, error) {
	values := nonWSValues(trimCV(cvs))
	switch len(values) {
	case 1:
		return parsePosition1(values[0])
	case 2:
		return parsePosition2(values[0], values[1])
	case 3, 4:
		if !allowEdgeOffset {
			return Position{}, fmt.Errorf("cssval: position accepts 1 or 2 values here")
		}
		return parsePositionEdgeOffset(values)
	default:
		return Position{}, fmt.Errorf("cssval: invalid position value")
	}
}

func parsePosition1(v cssom.ComponentValue) (Position, error) {
	switch {
	case isIdent(v, "left"):
		return Position{X: zeroLP(), Y: fiftyLP()}, nil
	case isIdent(v, "right"):
		return Position{X: hundredLP(), Y: fiftyLP()}, nil
	case isIdent(v, "top"):
		return Position{X: fiftyLP(), Y: zeroLP()}, nil
	case isIdent(v, "bottom"):
		return Position{X: fiftyLP(), Y: hundredLP()}, nil
	case isIdent(v, "center"):
		return Position{X: fiftyLP(), Y: fiftyLP()}, nil
	default:
		lp, err := parseLengthPercentageCV(v)
		if err != nil {
			return Position{}, err
		}
		return Position{X: lp, Y: fiftyLP()}, nil
	}
}

func parsePosition2(a, b cssom.ComponentValue) (Position, error) {
	aIsVerticalKw := isIdent(a, "top") || isIdent(a, "bottom")
	bIsHorizontalKw := isIdent(b, "left") || isIdent(b, "right")
	// "top left" / "bottom right" style: first is vertical keyword, second horizontal.
	if aIsVerticalKw || bIsHorizontalKw {
		y, err := keywordOrValueAxis(a, true)
		if err != nil {
			return Position{}, err
		}
		x, err := keywordOrValueAxis(b, false)
		if err != nil {
			return Position{}, err
		}
		return Position{X: x, Y: y}, nil
	}
	x, err := keywordOrValueAxis(a, false)
	if err != nil {
		return Position{}, err
	}
	y, err := keywordOrValueAxis(b, true)
	if err != nil {
		return Position{}, err
	}
	return Position{X: x, Y: y}, nil
}

// keywordOrValueAxis resolves a single <position> component to a
// LengthPercentage along the given axis (vertical if wantY, else
// horizontal).
func keywordOrValueAxis(v cssom.ComponentValue, wantY bool) (LengthPercentage, error) {
	switch {
	case isIdent(v, "center"):
		return fiftyLP(), nil
	case isIdent(v, "left"):
		return zeroLP(), nil
	case isIdent(v, "right"):
		return hundredLP(), nil
	case isIdent(v, "top"):
		return zeroLP(), nil
	case isIdent(v, "bottom"):
		return hundredLP(), nil
	default:
		return parseLengthPercentageCV(v)
	}
}

// parsePositionEdgeOffset implements the 3/4-token `background-position`
// grammar: each of the (at most two) axes is given as an edge keyword
// optionally followed by a length/percentage offset from that edge.
func parsePositionEdgeOffset(values []cssom.ComponentValue) (Position, error) {
	x, y := fiftyLP(), fiftyLP()
	haveX, haveY := false, false
	i := 0
	for i < len(values) {
		v := values[i]
		switch {
		case isIdent(v, "center"):
			i++
		case isIdent(v, "left") || isIdent(v, "right"):
			var offset *LengthPercentage
			if i+1 < len(values) && !isEdgeKeyword(values[i+1]) {
				lp, err := parseLengthPercentageCV(values[i+1])
				if err != nil {
					return Position{}, err
				}
				offset = &lp
				i++
			}
			edge := "left"
			if isIdent(v, "right") {
				edge = "right"
			}
			x = edgeToLengthPercentage(edge, offset)
			haveX = true
			i++
		case isIdent(v, "top") || isIdent(v, "bottom"):
			var offset *LengthPercentage
			if i+1 < len(values) && !isEdgeKeyword(values[i+1]) {
				lp, err := parseLengthPercentageCV(values[i+1])
				if err != nil {
					return Position{}, err
				}
				offset = &lp
				i++
			}
			edge := "top"
			if isIdent(v, "bottom") {
				edge = "bottom"
			}
			y = edgeToLengthPercentage(edge, offset)
			haveY = true
			i++
		default:
			return Position{}, fmt.Errorf("cssval: unexpected token in background-position")
		}
	}
	_ = haveX
	_ = haveY
	return Position{X: x, Y: y}, nil
}

func isEdgeKeyword(v cssom.ComponentValue) bool {
	return isIdent(v, "left") || isIdent(v, "right") || isIdent(v, "top") ||
		isIdent(v, "bottom") || isIdent(v, "center")
}

func edgeToLengthPercentage(edge string, offset *LengthPercentage) LengthPercentage {
	switch edge {
	case "left", "top":
		if offset == nil {
			return zeroLP()
		}
		return *offset
	default: // right, bottom
		var off LengthPercentage
		if offset == nil {
			off = zeroLP()
		} else {
			off = *offset
		}
		node := &CalcNode{
			kind: calcBinary, op: '-',
			left:  &CalcNode{kind: calcPercentage, pct: Percentage{Value: 100}},
			right: off.toCalcNode(),
		}
		return LengthPercentage{IsCalc: true, Calc: node}
	}
}
