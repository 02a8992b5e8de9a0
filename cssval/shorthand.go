package cssval

import (
	"fmt"
	"strings"

	"github.com/renderkit/renderkit/cssom"
	"github.com/renderkit/renderkit/csstok"
	"github.com/renderkit/renderkit/internal/asciifold"
)

// BoxSides holds a value resolved per physical side, the shape produced
// by the margin/padding/border-width shorthands.
type BoxSides struct {
	Top, Right, Bottom, Left LengthPercentage
}

// ParseMargin parses the 1/2/3/4-token TRBL shorthand for `margin`,
// accepting auto in every longhand (ParsePadding does not).
func ParseMargin(cvs []cssom.ComponentValue) (BoxSides, error) {
	return parseTRBL(cvs, true)
}

// ParsePadding parses the 1/2/3/4-token TRBL shorthand for `padding`.
// padding longhands do not accept `auto`; auto is treated as an error.
func ParsePadding(cvs []cssom.ComponentValue) (BoxSides, error) {
	return parseTRBL(cvs, false)
}

func parseTRBL(cvs []cssom.ComponentValue, allowAuto bool) (BoxSides, error) {
	values := nonWSValues(trimCV(cvs))
	parse := func(cv cssom.ComponentValue) (LengthPercentage, error) {
		if allowAuto && isIdent(cv, "auto") {
			return LengthPercentage{}, errAuto
		}
		return parseLengthPercentageCV(cv)
	}
	switch len(values) {
	case 1:
		v, err := parse(values[0])
		if err != nil && err != errAuto {
			return BoxSides{}, err
		}
		return BoxSides{Top: v, Right: v, Bottom: v, Left: v}, nil
	case 2:
		v, h := mustParse(values[0], parse), mustParse(values[1], parse)
		return BoxSides{Top: v, Bottom: v, Right: h, Left: h}, firstErr(values, parse)
	case 3:
		t, h, b := mustParse(values[0], parse), mustParse(values[1], parse), mustParse(values[2], parse)
		return BoxSides{Top: t, Right: h, Left: h, Bottom: b}, firstErr(values, parse)
	case 4:
		t, r, b, l := mustParse(values[0], parse), mustParse(values[1], parse), mustParse(values[2], parse), mustParse(values[3], parse)
		return BoxSides{Top: t, Right: r, Bottom: b, Left: l}, firstErr(values, parse)
	default:
		return BoxSides{}, fmt.Errorf("cssval: expected 1-4 values, got %d", len(values))
	}
}

// errAuto is a sentinel marking an `auto` value in the TRBL shorthand
// parse; the caller substitutes its own zero LengthPercentage plus a
// separate "is auto" flag at a higher layer (the cascade tracks auto
// margins explicitly).
var errAuto = fmt.Errorf("cssval: auto")

func mustParse(cv cssom.ComponentValue, parse func(cssom.ComponentValue) (LengthPercentage, error)) LengthPercentage {
	v, err := parse(cv)
	if err != nil {
		return zeroLP()
	}
	return v
}

func firstErr(values []cssom.ComponentValue, parse func(cssom.ComponentValue) (LengthPercentage, error)) error {
	for _, v := range values {
		if _, err := parse(v); err != nil && err != errAuto {
			return err
		}
	}
	return nil
}

// LogicalAxis resolves a logical property name (e.g. margin-block-start)
// to the physical side it maps to for the given writing-mode.
func LogicalAxis(property, writingMode, direction string) string {
	horizontal := writingMode == "" || writingMode == "horizontal-tb"
	rtl := direction == "rtl"
	switch property {
	case "margin-block-start", "padding-block-start", "border-block-start":
		if horizontal {
			return "top"
		}
		return "left"
	case "margin-block-end", "padding-block-end", "border-block-end":
		if horizontal {
			return "bottom"
		}
		return "right"
	case "margin-inline-start", "padding-inline-start", "border-inline-start":
		if horizontal {
			if rtl {
				return "right"
			}
			return "left"
		}
		return "top"
	case "margin-inline-end", "padding-inline-end", "border-inline-end":
		if horizontal {
			if rtl {
				return "left"
			}
			return "right"
		}
		return "bottom"
	default:
		return property
	}
}

// BorderShorthand is the parsed result of the `border` shorthand: width,
// style, and color, each optional (CSS allows any subset in any order).
type BorderShorthand struct {
	HasWidth bool
	Width    LengthPercentage
	HasStyle bool
	Style    string
	HasColor bool
	Color    Color
}

var borderWidthKeywords = map[string]float64{"thin": 1, "medium": 3, "thick": 5}
var borderStyleKeywords = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// ParseBorder parses `border: <width>? || <style>? || <color>?`, the
// order-independent shorthand shared by `border`, `border-top`, etc.
func ParseBorder(cvs []cssom.ComponentValue) (BorderShorthand, error) {
	values := nonWSValues(trimCV(cvs))
	var out BorderShorthand
	for _, v := range values {
		switch {
		case v.Kind == cssom.CVToken && v.Token.Kind == csstok.Ident && borderStyleKeywords[asciifold.Fold(v.Token.Value)]:
			if out.HasStyle {
				return BorderShorthand{}, fmt.Errorf("cssval: duplicate border-style in shorthand")
			}
			out.HasStyle = true
			out.Style = asciifold.Fold(v.Token.Value)
		case v.Kind == cssom.CVToken && v.Token.Kind == csstok.Ident && borderWidthKeywordPresent(v.Token.Value):
			if out.HasWidth {
				return BorderShorthand{}, fmt.Errorf("cssval: duplicate border-width in shorthand")
			}
			out.HasWidth = true
			out.Width = LengthPercentage{Length: Length{Value: borderWidthKeywords[asciifold.Fold(v.Token.Value)], Unit: UnitPx}}
		default:
			if lp, err := parseLengthPercentageCV(v); err == nil {
				if out.HasWidth {
					return BorderShorthand{}, fmt.Errorf("cssval: duplicate border-width in shorthand")
				}
				out.HasWidth = true
				out.Width = lp
				continue
			}
			c, err := ParseColor([]cssom.ComponentValue{v})
			if err != nil {
				return BorderShorthand{}, fmt.Errorf("cssval: unrecognized token in border shorthand")
			}
			if out.HasColor {
				return BorderShorthand{}, fmt.Errorf("cssval: duplicate border-color in shorthand")
			}
			out.HasColor = true
			out.Color = c
		}
	}
	return out, nil
}

func borderWidthKeywordPresent(v string) bool {
	_, ok := borderWidthKeywords[asciifold.Fold(v)]
	return ok
}

// BackgroundLayer is one comma-separated layer of the `background`
// shorthand.
type BackgroundLayer struct {
	HasColor   bool
	Color      Color
	HasImage   bool
	Image      *Gradient
	ImageURL   string
	Position   Position
	Repeat     string
	Attachment string
}

// ParseBackground parses the `background` shorthand's comma-separated
// layer list. Only the final layer may set `background-color`.
func ParseBackground(cvs []cssom.ComponentValue) ([]BackgroundLayer, error) {
	parts := splitTopLevelCommas(trimCV(cvs))
	layers := make([]BackgroundLayer, 0, len(parts))
	for idx, part := range parts {
		layer, err := parseBackgroundLayer(part, idx == len(parts)-1)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

func parseBackgroundLayer(part []cssom.ComponentValue, isLast bool) (BackgroundLayer, error) {
	values := nonWSValues(trimCV(part))
	var layer BackgroundLayer
	var positionTokens []cssom.ComponentValue
	for _, v := range values {
		switch {
		case v.Kind == cssom.CVFunction && strings.HasSuffix(asciifold.Fold(v.Name), "-gradient"):
			g, err := ParseGradient(asciifold.Fold(v.Name), v.Value)
			if err != nil {
				return BackgroundLayer{}, err
			}
			layer.HasImage = true
			layer.Image = g
		case v.Kind == cssom.CVFunction && asciifold.Equal(v.Name, "url"):
			if len(v.Value) > 0 && v.Value[0].Kind == cssom.CVToken {
				layer.ImageURL = v.Value[0].Token.Value
			}
			layer.HasImage = true
		case v.Kind == cssom.CVToken && v.Token.Kind == csstok.URL:
			layer.ImageURL = v.Token.Value
			layer.HasImage = true
		case isIdent(v, "repeat") || isIdent(v, "repeat-x") || isIdent(v, "repeat-y") || isIdent(v, "no-repeat") || isIdent(v, "space") || isIdent(v, "round"):
			layer.Repeat = asciifold.Fold(v.Token.Value)
		case isIdent(v, "fixed") || isIdent(v, "scroll") || isIdent(v, "local"):
			layer.Attachment = asciifold.Fold(v.Token.Value)
		case isIdent(v, "none"):
			// explicit no image/no repeat keyword shared name; ignore as background-image:none
		default:
			if c, err := ParseColor([]cssom.ComponentValue{v}); err == nil && isLast {
				layer.HasColor = true
				layer.Color = c
				continue
			}
			positionTokens = append(positionTokens, v)
		}
	}
	if len(positionTokens) > 0 {
		pos, err := ParseBackgroundPosition(positionTokens)
		if err != nil {
			return BackgroundLayer{}, err
		}
		layer.Position = pos
	} else {
		layer.Position = Position{X: zeroLP(), Y: zeroLP()}
	}
	return layer, nil
}
