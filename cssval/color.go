package cssval

import (
	"fmt"
	"math"
	"strconv"

	"github.com/renderkit/renderkit/cssom"
	"github.com/renderkit/renderkit/csstok"
	"github.com/renderkit/renderkit/geom"
	"github.com/renderkit/renderkit/internal/asciifold"
)

// ColorKind distinguishes a resolved sRGB color from the two forms that
// need the element's own computed color (currentColor) or the host
// platform's palette (a CSS system color) to resolve to pixels.
type ColorKind int

const (
	ColorSRGB ColorKind = iota
	ColorCurrentColor
	ColorSystem
)

// Color is the parsed, not-yet-resolved result of any CSS color grammar:
// named colors, hex notation, and the rgb/hsl/hwb/lab/lch/oklab/oklch
// functional forms all normalize to ColorSRGB with gamma-encoded sRGB
// channels in [0,1]; currentColor and system colors are resolved later
// against per-element context.
type Color struct {
	Kind         ColorKind
	R, G, B, A   float64 // gamma-encoded sRGB in [0,1]; valid when Kind == ColorSRGB
	SystemName   string  // valid when Kind == ColorSystem
}

// Resolve converts a parsed Color to four linear-sRGB components, given
// the element's own resolved `color` (for currentColor).
func (c Color) Resolve(current geom.Color4f) geom.Color4f {
	switch c.Kind {
	case ColorCurrentColor:
		return current
	case ColorSystem:
		return resolveSystemColor(c.SystemName)
	default:
		return geom.Color4f{
			R: srgbToLinear(c.R),
			G: srgbToLinear(c.G),
			B: srgbToLinear(c.B),
			A: float32(c.A),
		}
	}
}

func srgbToLinear(v float64) float32 {
	if v <= 0.04045 {
		return float32(v / 12.92)
	}
	return float32(math.Pow((v+0.055)/1.055, 2.4))
}

// resolveSystemColor maps the small subset of CSS system color keywords
// this engine supports to a fixed light-theme palette; a real user agent
// would source these from the platform.
func resolveSystemColor(name string) geom.Color4f {
	switch asciifold.Fold(name) {
	case "canvas":
		return geom.Color4f{R: 1, G: 1, B: 1, A: 1}
	case "canvastext":
		return geom.Color4f{R: 0, G: 0, B: 0, A: 1}
	case "linktext":
		return geom.Color4f{R: float32(srgbToLinear(0)), G: float32(srgbToLinear(0.33)), B: float32(srgbToLinear(0.8)), A: 1}
	case "graytext":
		return geom.Color4f{R: 0.5, G: 0.5, B: 0.5, A: 1}
	case "highlight":
		return geom.Color4f{R: float32(srgbToLinear(0.2)), G: float32(srgbToLinear(0.4)), B: float32(srgbToLinear(0.8)), A: 1}
	default:
		return geom.Color4f{R: 0, G: 0, B: 0, A: 1}
	}
}

// ParseColor parses any of the supported <color> grammars from a single
// component value: an ident (named color, transparent, currentColor, or
// a system color), a hash (hex notation), or a functional form.
func ParseColor(cvs []cssom.ComponentValue) (Color, error) {
	trimmed := trimCV(cvs)
	if len(trimmed) != 1 {
		return Color{}, fmt.Errorf("cssval: expected a single color value")
	}
	cv := trimmed[0]
	switch cv.Kind {
	case cssom.CVToken:
		switch cv.Token.Kind {
		case csstok.Ident:
			return parseColorIdent(cv.Token.Value)
		case csstok.Hash:
			return parseColorHex(cv.Token.Value)
		}
	case cssom.CVFunction:
		return parseColorFunction(asciifold.Fold(cv.Name), cv.Value)
	}
	return Color{}, fmt.Errorf("cssval: unrecognized color value")
}

func parseColorIdent(ident string) (Color, error) {
	name := asciifold.Fold(ident)
	switch name {
	case "transparent":
		return Color{Kind: ColorSRGB, R: 0, G: 0, B: 0, A: 0}, nil
	case "currentcolor":
		return Color{Kind: ColorCurrentColor}, nil
	}
	if rgb, ok := namedColors[name]; ok {
		return Color{Kind: ColorSRGB, R: float64(rgb[0]) / 255, G: float64(rgb[1]) / 255, B: float64(rgb[2]) / 255, A: 1}, nil
	}
	if systemColorNames[name] {
		return Color{Kind: ColorSystem, SystemName: name}, nil
	}
	return Color{}, fmt.Errorf("cssval: unknown color keyword %q", ident)
}

func parseColorHex(hex string) (Color, error) {
	h := hex
	parseByte := func(s string) (float64, error) {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return 0, err
		}
		return float64(v) / 255, nil
	}
	expand := func(c byte) string { return string([]byte{c, c}) }
	switch len(h) {
	case 3, 4:
		r, err := parseByte(expand(h[0]))
		if err != nil {
			return Color{}, err
		}
		g, err := parseByte(expand(h[1]))
		if err != nil {
			return Color{}, err
		}
		b, err := parseByte(expand(h[2]))
		if err != nil {
			return Color{}, err
		}
		a := 1.0
		if len(h) == 4 {
			a, err = parseByte(expand(h[3]))
			if err != nil {
				return Color{}, err
			}
		}
		return Color{Kind: ColorSRGB, R: r, G: g, B: b, A: a}, nil
	case 6, 8:
		r, err := parseByte(h[0:2])
		if err != nil {
			return Color{}, err
		}
		g, err := parseByte(h[2:4])
		if err != nil {
			return Color{}, err
		}
		b, err := parseByte(h[4:6])
		if err != nil {
			return Color{}, err
		}
		a := 1.0
		if len(h) == 8 {
			a, err = parseByte(h[6:8])
			if err != nil {
				return Color{}, err
			}
		}
		return Color{Kind: ColorSRGB, R: r, G: g, B: b, A: a}, nil
	default:
		return Color{}, fmt.Errorf("cssval: invalid hex color %q", hex)
	}
}

// colorChannels splits a color function's argument list into its 3 value
// tokens and an optional alpha token, accepting both the legacy
// comma-separated syntax and the modern space-separated syntax with an
// optional `/ alpha` clause.
func colorChannels(args []cssom.ComponentValue) (vals [3]cssom.ComponentValue, alpha *cssom.ComponentValue, err error) {
	trimmed := trimCV(args)
	commaParts := splitTopLevelCommas(trimmed)
	if len(commaParts) > 1 {
		if len(commaParts) != 3 && len(commaParts) != 4 {
			return vals, nil, fmt.Errorf("cssval: expected 3 or 4 comma-separated color arguments")
		}
		for i := 0; i < 3; i++ {
			v := trimCV(commaParts[i])
			if len(v) != 1 {
				return vals, nil, fmt.Errorf("cssval: malformed color channel")
			}
			vals[i] = v[0]
		}
		if len(commaParts) == 4 {
			v := trimCV(commaParts[3])
			if len(v) != 1 {
				return vals, nil, fmt.Errorf("cssval: malformed alpha channel")
			}
			alpha = &v[0]
		}
		return vals, alpha, nil
	}

	slashIdx := -1
	for i, cv := range trimmed {
		if cv.IsToken(csstok.Delim) && cv.Token.Value == "/" {
			slashIdx = i
			break
		}
	}
	valuePart := trimmed
	var alphaPart []cssom.ComponentValue
	if slashIdx >= 0 {
		valuePart = trimmed[:slashIdx]
		alphaPart = trimmed[slashIdx+1:]
	}
	var nonWS []cssom.ComponentValue
	for _, cv := range valuePart {
		if !cv.IsToken(csstok.Whitespace) {
			nonWS = append(nonWS, cv)
		}
	}
	if len(nonWS) != 3 {
		return vals, nil, fmt.Errorf("cssval: expected 3 space-separated color channels")
	}
	copy(vals[:], nonWS)

	if alphaPart != nil {
		var aVals []cssom.ComponentValue
		for _, cv := range alphaPart {
			if !cv.IsToken(csstok.Whitespace) {
				aVals = append(aVals, cv)
			}
		}
		if len(aVals) != 1 {
			return vals, nil, fmt.Errorf("cssval: malformed alpha channel")
		}
		alpha = &aVals[0]
	}
	return vals, alpha, nil
}

func numberOrNone(cv cssom.ComponentValue) (float64, bool) {
	if cv.Kind != cssom.CVToken {
		return 0, false
	}
	if cv.Token.Kind == csstok.Ident && asciifold.Equal(cv.Token.Value, "none") {
		return 0, true
	}
	if cv.Token.Kind == csstok.Number {
		return cv.Token.Numeric.Value, true
	}
	return 0, false
}

// rgbFraction interprets a <number>|<percentage>|none value as a [0,1]
// channel fraction (numbers are out of 255, percentages out of 100).
func rgbFraction(cv cssom.ComponentValue) (float64, error) {
	if cv.Kind == cssom.CVToken && cv.Token.Kind == csstok.Ident && asciifold.Equal(cv.Token.Value, "none") {
		return 0, nil
	}
	if cv.Kind != cssom.CVToken {
		return 0, fmt.Errorf("cssval: malformed rgb channel")
	}
	switch cv.Token.Kind {
	case csstok.Number:
		return cv.Token.Numeric.Value / 255, nil
	case csstok.Percentage:
		return cv.Token.Numeric.Value / 100, nil
	default:
		return 0, fmt.Errorf("cssval: malformed rgb channel")
	}
}

func alphaFraction(cv *cssom.ComponentValue) float64 {
	if cv == nil {
		return 1
	}
	if cv.Kind == cssom.CVToken && cv.Token.Kind == csstok.Ident && asciifold.Equal(cv.Token.Value, "none") {
		return 0
	}
	if cv.Kind != cssom.CVToken {
		return 1
	}
	switch cv.Token.Kind {
	case csstok.Number:
		return cv.Token.Numeric.Value
	case csstok.Percentage:
		return cv.Token.Numeric.Value / 100
	default:
		return 1
	}
}

// angleDegrees interprets a <number>|<angle>|none value as degrees.
func angleDegrees(cv cssom.ComponentValue) float64 {
	if cv.Kind != cssom.CVToken {
		return 0
	}
	if cv.Token.Kind == csstok.Ident && asciifold.Equal(cv.Token.Value, "none") {
		return 0
	}
	switch cv.Token.Kind {
	case csstok.Number:
		return cv.Token.Numeric.Value
	case csstok.Dimension:
		switch asciifold.Fold(cv.Token.Unit) {
		case "deg":
			return cv.Token.Numeric.Value
		case "grad":
			return cv.Token.Numeric.Value * 0.9
		case "rad":
			return cv.Token.Numeric.Value * 180 / math.Pi
		case "turn":
			return cv.Token.Numeric.Value * 360
		}
	}
	return 0
}

func percentOrNone(cv cssom.ComponentValue) float64 {
	if cv.Kind != cssom.CVToken {
		return 0
	}
	if cv.Token.Kind == csstok.Ident && asciifold.Equal(cv.Token.Value, "none") {
		return 0
	}
	if cv.Token.Kind == csstok.Percentage {
		return cv.Token.Numeric.Value
	}
	if cv.Token.Kind == csstok.Number {
		return cv.Token.Numeric.Value
	}
	return 0
}

func parseColorFunction(name string, args []cssom.ComponentValue) (Color, error) {
	switch name {
	case "rgb", "rgba":
		vals, alphaCV, err := colorChannels(args)
		if err != nil {
			return Color{}, err
		}
		r, err := rgbFraction(vals[0])
		if err != nil {
			return Color{}, err
		}
		g, err := rgbFraction(vals[1])
		if err != nil {
			return Color{}, err
		}
		b, err := rgbFraction(vals[2])
		if err != nil {
			return Color{}, err
		}
		return Color{Kind: ColorSRGB, R: clamp01(r), G: clamp01(g), B: clamp01(b), A: clamp01(alphaFraction(alphaCV))}, nil

	case "hsl", "hsla":
		vals, alphaCV, err := colorChannels(args)
		if err != nil {
			return Color{}, err
		}
		h := angleDegrees(vals[0])
		s := percentOrNone(vals[1]) / 100
		l := percentOrNone(vals[2]) / 100
		r, g, b := hslToRGB(h, s, l)
		return Color{Kind: ColorSRGB, R: r, G: g, B: b, A: clamp01(alphaFraction(alphaCV))}, nil

	case "hwb":
		vals, alphaCV, err := colorChannels(args)
		if err != nil {
			return Color{}, err
		}
		h := angleDegrees(vals[0])
		w := percentOrNone(vals[1]) / 100
		blk := percentOrNone(vals[2]) / 100
		r, g, b := hwbToRGB(h, w, blk)
		return Color{Kind: ColorSRGB, R: r, G: g, B: b, A: clamp01(alphaFraction(alphaCV))}, nil

	case "lab":
		vals, alphaCV, err := colorChannels(args)
		if err != nil {
			return Color{}, err
		}
		l := percentOrNone(vals[0])
		a, _ := numberOrNone(vals[1])
		bb, _ := numberOrNone(vals[2])
		r, g, b := labToRGB(l, a, bb)
		return Color{Kind: ColorSRGB, R: clamp01(r), G: clamp01(g), B: clamp01(b), A: clamp01(alphaFraction(alphaCV))}, nil

	case "lch":
		vals, alphaCV, err := colorChannels(args)
		if err != nil {
			return Color{}, err
		}
		l := percentOrNone(vals[0])
		c, _ := numberOrNone(vals[1])
		h := angleDegrees(vals[2])
		a := c * math.Cos(h*math.Pi/180)
		b := c * math.Sin(h*math.Pi/180)
		r, g, bl := labToRGB(l, a, b)
		return Color{Kind: ColorSRGB, R: clamp01(r), G: clamp01(g), B: clamp01(bl), A: clamp01(alphaFraction(alphaCV))}, nil

	case "oklab":
		vals, alphaCV, err := colorChannels(args)
		if err != nil {
			return Color{}, err
		}
		l := percentOrNone(vals[0])
		if vals[0].Kind == cssom.CVToken && vals[0].Token.Kind == csstok.Percentage {
			l = l / 100
		}
		a, _ := numberOrNone(vals[1])
		bb, _ := numberOrNone(vals[2])
		r, g, b := oklabToRGB(l, a, bb)
		return Color{Kind: ColorSRGB, R: clamp01(r), G: clamp01(g), B: clamp01(b), A: clamp01(alphaFraction(alphaCV))}, nil

	case "oklch":
		vals, alphaCV, err := colorChannels(args)
		if err != nil {
			return Color{}, err
		}
		l := percentOrNone(vals[0])
		if vals[0].Kind == cssom.CVToken && vals[0].Token.Kind == csstok.Percentage {
			l = l / 100
		}
		c, _ := numberOrNone(vals[1])
		h := angleDegrees(vals[2])
		a := c * math.Cos(h*math.Pi/180)
		b := c * math.Sin(h*math.Pi/180)
		r, g, bl := oklabToRGB(l, a, b)
		return Color{Kind: ColorSRGB, R: clamp01(r), G: clamp01(g), B: clamp01(bl), A: clamp01(alphaFraction(alphaCV))}, nil

	default:
		return Color{}, fmt.Errorf("cssval: unsupported color function %q", name)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func hslToRGB(h, s, l float64) (float64, float64, float64) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := l - c/2
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return clamp01(r + m), clamp01(g + m), clamp01(b + m)
}

func hwbToRGB(h, w, blk float64) (float64, float64, float64) {
	if w+blk >= 1 {
		gray := w / (w + blk)
		return gray, gray, gray
	}
	r, g, b := hslToRGB(h, 1, 0.5)
	scale := func(v float64) float64 { return v*(1-w-blk) + w }
	return clamp01(scale(r)), clamp01(scale(g)), clamp01(scale(b))
}

// labToRGB converts CIELAB (D50) to gamma-encoded sRGB, via XYZ.
func labToRGB(l, a, b float64) (float64, float64, float64) {
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200
	finv := func(t float64) float64 {
		if t3 := t * t * t; t3 > 0.008856 {
			return t3
		}
		return (t - 16.0/116) / 7.787
	}
	const xn, yn, zn = 0.9642, 1.0, 0.8249 // D50 white point
	x := xn * finv(fx)
	y := yn * finv(fy)
	z := zn * finv(fz)
	return xyzToSRGB(x, y, z)
}

// oklabToRGB converts Oklab to gamma-encoded sRGB.
func oklabToRGB(l, a, b float64) (float64, float64, float64) {
	lp := l + 0.3963377774*a + 0.2158037573*b
	mp := l - 0.1055613458*a - 0.0638541728*b
	sp := l - 0.0894841775*a - 1.2914855480*b
	l3, m3, s3 := lp*lp*lp, mp*mp*mp, sp*sp*sp

	r := 4.0767416621*l3 - 3.3077115913*m3 + 0.2309699292*s3
	g := -1.2684380046*l3 + 2.6097574011*m3 - 0.3413193965*s3
	bl := -0.0041960863*l3 - 0.7034186147*m3 + 1.7076147010*s3
	return linearToSRGB(r), linearToSRGB(g), linearToSRGB(bl)
}

func linearToSRGB(v float64) float64 {
	v = clamp01(v)
	if v <= 0.0031308 {
		return v * 12.92
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}

func xyzToSRGB(x, y, z float64) (float64, float64, float64) {
	r := 3.1338561*x - 1.6168667*y - 0.4906146*z
	g := -0.9787684*x + 1.9161415*y + 0.0334540*z
	b := 0.0719453*x - 0.2289914*y + 1.4052427*z
	return linearToSRGB(r), linearToSRGB(g), linearToSRGB(b)
}
