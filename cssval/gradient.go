package cssval

import (
	"fmt"
	"strings"

	"github.com/renderkit/renderkit/cssom"
	"github.com/renderkit/renderkit/csstok"
	"github.com/renderkit/renderkit/internal/asciifold"
)

// GradientKind distinguishes the three CSS gradient image functions.
type GradientKind int

const (
	LinearGradient GradientKind = iota
	RadialGradient
	ConicGradient
)

// ColorStop is one entry of a gradient's color-stop list: a color plus
// zero, one, or two stop positions (length/percentage for linear/radial,
// degrees for conic — see AngleDeg on the stop when Gradient.Kind is
// ConicGradient).
type ColorStop struct {
	Color    Color
	Pos1     *LengthPercentage
	Pos2     *LengthPercentage
	IsHint   bool // a bare length/percentage with no color: an interpolation hint
	AngleDeg *float64
	AngleDeg2 *float64
}

// Gradient is the parsed result of linear-gradient()/radial-gradient()/
// conic-gradient() and their repeating- variants.
type Gradient struct {
	Kind      GradientKind
	Repeating bool

	// linear-gradient
	HasAngle     bool
	AngleDeg     float64
	SideOrCorner string // e.g. "right", "bottom left"; used when !HasAngle

	// radial-gradient
	Shape    string // "circle" | "ellipse" (default "ellipse")
	Extent   string // "closest-side" | "closest-corner" | "farthest-side" | "farthest-corner"
	SizeX    *LengthPercentage
	SizeY    *LengthPercentage
	Center   *Position

	// conic-gradient
	FromAngleDeg float64
	ConicCenter  *Position

	Stops []ColorStop
}

// ParseGradient parses the arguments of a `*-gradient()` function; name
// must be the (lowercased) function name, e.g. "repeating-linear-gradient".
func ParseGradient(name string, args []cssom.ComponentValue) (*Gradient, error) {
	repeating := strings.HasPrefix(name, "repeating-")
	base := strings.TrimPrefix(name, "repeating-")
	parts := splitTopLevelCommas(trimCV(args))
	if len(parts) == 0 {
		return nil, fmt.Errorf("cssval: empty gradient argument list")
	}

	g := &Gradient{Repeating: repeating}
	stopsStart := 0

	switch base {
	case "linear-gradient":
		g.Kind = LinearGradient
		head := nonWSValues(parts[0])
		if len(head) > 0 && isIdent(head[0], "to") {
			g.SideOrCorner = parseSideOrCorner(head[1:])
			stopsStart = 1
		} else if len(head) == 1 && head[0].Kind == cssom.CVToken && head[0].Token.Kind == csstok.Dimension {
			g.HasAngle = true
			g.AngleDeg = angleDegrees(head[0])
			stopsStart = 1
		}
	case "radial-gradient":
		g.Kind = RadialGradient
		g.Shape = "ellipse"
		g.Extent = "farthest-corner"
		head := nonWSValues(parts[0])
		if consumed := parseRadialHead(g, head); consumed {
			stopsStart = 1
		}
	case "conic-gradient":
		g.Kind = ConicGradient
		head := nonWSValues(parts[0])
		if consumed := parseConicHead(g, head); consumed {
			stopsStart = 1
		}
	default:
		return nil, fmt.Errorf("cssval: unsupported gradient function %q", name)
	}

	for _, part := range parts[stopsStart:] {
		stop, err := parseColorStop(g.Kind, part)
		if err != nil {
			return nil, err
		}
		g.Stops = append(g.Stops, stop)
	}
	if len(g.Stops) < 2 {
		return nil, fmt.Errorf("cssval: gradient requires at least 2 color stops")
	}
	return g, nil
}

func parseSideOrCorner(tokens []cssom.ComponentValue) string {
	var sides []string
	for _, t := range tokens {
		if t.Kind == cssom.CVToken && t.Token.Kind == csstok.Ident {
			sides = append(sides, asciifold.Fold(t.Token.Value))
		}
	}
	return strings.Join(sides, " ")
}

func parseRadialHead(g *Gradient, head []cssom.ComponentValue) bool {
	if len(head) == 0 {
		return false
	}
	i := 0
	for i < len(head) {
		switch {
		case isIdent(head[i], "circle"):
			g.Shape = "circle"
			i++
		case isIdent(head[i], "ellipse"):
			g.Shape = "ellipse"
			i++
		case isIdent(head[i], "closest-side"), isIdent(head[i], "closest-corner"),
			isIdent(head[i], "farthest-side"), isIdent(head[i], "farthest-corner"):
			g.Extent = asciifold.Fold(head[i].Token.Value)
			i++
		case isIdent(head[i], "at"):
			pos, err := ParsePosition(head[i+1:])
			if err == nil {
				g.Center = &pos
			}
			return true
		default:
			lp, err := parseLengthPercentageCV(head[i])
			if err != nil {
				return i > 0
			}
			if g.SizeX == nil {
				g.SizeX = &lp
			} else {
				g.SizeY = &lp
			}
			i++
		}
	}
	return i > 0
}

func parseConicHead(g *Gradient, head []cssom.ComponentValue) bool {
	if len(head) == 0 {
		return false
	}
	i := 0
	for i < len(head) {
		switch {
		case isIdent(head[i], "from"):
			if i+1 < len(head) {
				g.FromAngleDeg = angleDegrees(head[i+1])
				i += 2
			} else {
				i++
			}
		case isIdent(head[i], "at"):
			pos, err := ParsePosition(head[i+1:])
			if err == nil {
				g.ConicCenter = &pos
			}
			return true
		default:
			return i > 0
		}
	}
	return i > 0
}

func parseColorStop(kind GradientKind, part []cssom.ComponentValue) (ColorStop, error) {
	values := nonWSValues(trimCV(part))
	if len(values) == 0 {
		return ColorStop{}, fmt.Errorf("cssval: empty gradient color-stop")
	}
	// A bare single length/percentage with no color is an interpolation hint.
	if len(values) == 1 {
		if lp, err := parseLengthPercentageCV(values[0]); err == nil {
			return ColorStop{IsHint: true, Pos1: &lp}, nil
		}
	}

	color, err := ParseColor(values[:1])
	if err != nil {
		return ColorStop{}, err
	}
	stop := ColorStop{Color: color}
	rest := values[1:]
	if len(rest) >= 1 {
		if kind == ConicGradient {
			d := angleDegrees(rest[0])
			stop.AngleDeg = &d
		} else {
			lp, err := parseLengthPercentageCV(rest[0])
			if err != nil {
				return ColorStop{}, err
			}
			stop.Pos1 = &lp
		}
	}
	if len(rest) >= 2 {
		if kind == ConicGradient {
			d := angleDegrees(rest[1])
			stop.AngleDeg2 = &d
		} else {
			lp, err := parseLengthPercentageCV(rest[1])
			if err != nil {
				return ColorStop{}, err
			}
			stop.Pos2 = &lp
		}
	}
	return stop, nil
}
