package style

import (
	"fmt"
	"strings"

	"github.com/renderkit/renderkit/cssom"
	"github.com/renderkit/renderkit/cssval"
	"github.com/renderkit/renderkit/csstok"
	"github.com/renderkit/renderkit/internal/asciifold"
)

// parseSingleLength parses a bare <length-percentage> value used by
// properties with no shorthand helper in cssval (width, height, font-size,
// line-height, ...). Grounded on cssval's own (unexported)
// parseLengthPercentageCV, whose token dispatch this mirrors, since cssval
// exposes that grammar only through the multi-value shorthand parsers.
func parseSingleLength(cvs []cssom.ComponentValue) (cssval.LengthPercentage, error) {
	values := nonWS(cvs)
	if len(values) != 1 {
		return cssval.LengthPercentage{}, fmt.Errorf("style: expected a single length value")
	}
	v := values[0]
	if v.Kind == cssom.CVFunction {
		switch asciifold.Fold(v.Name) {
		case "calc", "min", "max", "clamp":
			node, err := cssval.ParseCalc([]cssom.ComponentValue{v})
			if err != nil {
				return cssval.LengthPercentage{}, err
			}
			return cssval.LengthPercentage{IsCalc: true, Calc: node}, nil
		}
		return cssval.LengthPercentage{}, fmt.Errorf("style: unexpected function in length")
	}
	if v.Kind != cssom.CVToken {
		return cssval.LengthPercentage{}, fmt.Errorf("style: unexpected value")
	}
	switch v.Token.Kind {
	case csstok.Dimension:
		unit, ok := lengthUnitByName(asciifold.Fold(v.Token.Unit))
		if !ok {
			return cssval.LengthPercentage{}, fmt.Errorf("style: unknown unit %q", v.Token.Unit)
		}
		return cssval.LengthPercentage{Length: cssval.Length{Value: v.Token.Numeric.Value, Unit: unit}}, nil
	case csstok.Percentage:
		return cssval.LengthPercentage{IsPercentage: true, Percentage: cssval.Percentage{Value: v.Token.Numeric.Value}}, nil
	case csstok.Number:
		if v.Token.Numeric.Value == 0 {
			return cssval.LengthPercentage{Length: cssval.Length{Value: 0, Unit: cssval.UnitPx}}, nil
		}
		return cssval.LengthPercentage{}, fmt.Errorf("style: expected a length, got a bare number")
	default:
		return cssval.LengthPercentage{}, fmt.Errorf("style: expected a length or percentage")
	}
}

func lengthUnitByName(name string) (cssval.LengthUnit, bool) {
	switch name {
	case "px":
		return cssval.UnitPx, true
	case "em":
		return cssval.UnitEm, true
	case "rem":
		return cssval.UnitRem, true
	case "ex":
		return cssval.UnitEx, true
	case "ch":
		return cssval.UnitCh, true
	case "vw":
		return cssval.UnitVw, true
	case "vh":
		return cssval.UnitVh, true
	case "vmin":
		return cssval.UnitVmin, true
	case "vmax":
		return cssval.UnitVmax, true
	case "pt":
		return cssval.UnitPt, true
	case "pc":
		return cssval.UnitPc, true
	case "in":
		return cssval.UnitIn, true
	case "cm":
		return cssval.UnitCm, true
	case "mm":
		return cssval.UnitMm, true
	case "q":
		return cssval.UnitQ, true
	}
	return 0, false
}

// splitTopLevel splits cvs on whitespace into groups of one component
// value each (margin/padding longhands are always single tokens or a
// single calc()/min()/max()/clamp() function).
func splitTopLevel(cvs []cssom.ComponentValue) [][]cssom.ComponentValue {
	var groups [][]cssom.ComponentValue
	for _, v := range nonWS(cvs) {
		groups = append(groups, []cssom.ComponentValue{v})
	}
	return groups
}

func nonWS(cvs []cssom.ComponentValue) []cssom.ComponentValue {
	var out []cssom.ComponentValue
	for _, v := range cvs {
		if !v.IsToken(csstok.Whitespace) {
			out = append(out, v)
		}
	}
	return out
}

func singleIdent(cvs []cssom.ComponentValue) (string, bool) {
	values := nonWS(cvs)
	if len(values) != 1 || values[0].Kind != cssom.CVToken || values[0].Token.Kind != csstok.Ident {
		return "", false
	}
	return asciifold.Fold(values[0].Token.Value), true
}

func singleNumber(cvs []cssom.ComponentValue) (float64, bool) {
	values := nonWS(cvs)
	if len(values) != 1 || values[0].Kind != cssom.CVToken || values[0].Token.Kind != csstok.Number {
		return 0, false
	}
	return values[0].Token.Numeric.Value, true
}

func parseFontFamily(cvs []cssom.ComponentValue) []string {
	var families []string
	var cur strings.Builder
	flush := func() {
		name := strings.TrimSpace(cur.String())
		if name != "" {
			families = append(families, name)
		}
		cur.Reset()
	}
	for _, v := range cvs {
		if v.IsToken(csstok.Comma) {
			flush()
			continue
		}
		if v.Kind != cssom.CVToken {
			continue
		}
		switch v.Token.Kind {
		case csstok.Ident:
			if cur.Len() > 0 {
				cur.WriteByte(' ')
			}
			cur.WriteString(v.Token.Value)
		case csstok.String:
			flush()
			families = append(families, v.Token.Value)
		}
	}
	flush()
	return families
}
