package cssval

import (
	"testing"

	"github.com/renderkit/renderkit/geom"
)

func TestParseColorNamed(t *testing.T) {
	c, err := ParseColor(parseValue(t, "color: red"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Kind != ColorSRGB || c.R != 1 || c.G != 0 || c.B != 0 {
		t.Errorf("expected pure red, got %+v", c)
	}
}

func TestParseColorHex6(t *testing.T) {
	c, err := ParseColor(parseValue(t, "color: #336699"))
	if err != nil {
		t.Fatal(err)
	}
	if c.R < 0.19 || c.R > 0.21 {
		t.Errorf("expected R ~ 0x33/255, got %v", c.R)
	}
}

func TestParseColorHex3(t *testing.T) {
	c, err := ParseColor(parseValue(t, "color: #0f0"))
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 0 || c.G != 1 || c.B != 0 {
		t.Errorf("expected pure green, got %+v", c)
	}
}

func TestParseColorRGBLegacy(t *testing.T) {
	c, err := ParseColor(parseValue(t, "color: rgb(255, 0, 0)"))
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 1 || c.G != 0 || c.B != 0 {
		t.Errorf("expected pure red, got %+v", c)
	}
}

func TestParseColorRGBAModernWithAlpha(t *testing.T) {
	c, err := ParseColor(parseValue(t, "color: rgb(255 0 0 / 50%)"))
	if err != nil {
		t.Fatal(err)
	}
	if c.A < 0.49 || c.A > 0.51 {
		t.Errorf("expected alpha ~0.5, got %v", c.A)
	}
}

func TestParseColorHSL(t *testing.T) {
	c, err := ParseColor(parseValue(t, "color: hsl(0, 100%, 50%)"))
	if err != nil {
		t.Fatal(err)
	}
	if c.R < 0.99 || c.G > 0.01 || c.B > 0.01 {
		t.Errorf("expected pure red from hsl, got %+v", c)
	}
}

func TestParseColorTransparentAndCurrentColor(t *testing.T) {
	c, err := ParseColor(parseValue(t, "color: transparent"))
	if err != nil {
		t.Fatal(err)
	}
	if c.A != 0 {
		t.Errorf("expected alpha 0 for transparent")
	}

	c, err = ParseColor(parseValue(t, "color: currentColor"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Kind != ColorCurrentColor {
		t.Errorf("expected ColorCurrentColor kind")
	}
	current := geom.Color4f{R: 0.2, G: 0.3, B: 0.4, A: 1}
	if resolved := c.Resolve(current); resolved != current {
		t.Errorf("expected currentColor to resolve to %+v, got %+v", current, resolved)
	}
}

func TestParseColorOklch(t *testing.T) {
	c, err := ParseColor(parseValue(t, "color: oklch(0.7 0.15 30)"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Kind != ColorSRGB {
		t.Errorf("expected resolved sRGB color")
	}
}

func TestParseColorInvalid(t *testing.T) {
	if _, err := ParseColor(parseValue(t, "color: not-a-color")); err == nil {
		t.Error("expected error for unknown color keyword")
	}
}
