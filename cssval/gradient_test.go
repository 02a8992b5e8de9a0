package cssval

import "testing"

func TestParseGradientLinearToRight(t *testing.T) {
	g, err := ParseGradient("linear-gradient", parseValue(t, "background-image: linear-gradient(to right, red, blue)")[0].Value)
	if err != nil {
		t.Fatal(err)
	}
	if g.SideOrCorner != "right" {
		t.Errorf("expected side-or-corner 'right', got %q", g.SideOrCorner)
	}
	if len(g.Stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(g.Stops))
	}
}

func TestParseGradientLinearAngle(t *testing.T) {
	g, err := ParseGradient("linear-gradient", parseValue(t, "background-image: linear-gradient(45deg, red, blue)")[0].Value)
	if err != nil {
		t.Fatal(err)
	}
	if !g.HasAngle || g.AngleDeg != 45 {
		t.Errorf("expected 45deg angle, got %+v", g)
	}
}

func TestParseGradientRepeating(t *testing.T) {
	g, err := ParseGradient("repeating-linear-gradient", parseValue(t, "background-image: repeating-linear-gradient(red, blue 10px)")[0].Value)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Repeating {
		t.Error("expected Repeating to be true")
	}
}

func TestParseGradientRadialWithShape(t *testing.T) {
	g, err := ParseGradient("radial-gradient", parseValue(t, "background-image: radial-gradient(circle, red, blue)")[0].Value)
	if err != nil {
		t.Fatal(err)
	}
	if g.Shape != "circle" {
		t.Errorf("expected circle shape, got %q", g.Shape)
	}
}

func TestParseGradientTooFewStops(t *testing.T) {
	if _, err := ParseGradient("linear-gradient", parseValue(t, "background-image: linear-gradient(red)")[0].Value); err == nil {
		t.Error("expected error for gradient with fewer than 2 stops")
	}
}
