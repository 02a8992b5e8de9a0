package cssval

import "testing"

func TestParseMarginFourValues(t *testing.T) {
	sides, err := ParseMargin(parseValue(t, "margin: 1px 2px 3px 4px"))
	if err != nil {
		t.Fatal(err)
	}
	if sides.Top.Resolve(RelativeContext{}, AbsoluteContext{}, 0) != 1 ||
		sides.Right.Resolve(RelativeContext{}, AbsoluteContext{}, 0) != 2 ||
		sides.Bottom.Resolve(RelativeContext{}, AbsoluteContext{}, 0) != 3 ||
		sides.Left.Resolve(RelativeContext{}, AbsoluteContext{}, 0) != 4 {
		t.Errorf("expected TRBL 1/2/3/4, got %+v", sides)
	}
}

func TestParseMarginTwoValues(t *testing.T) {
	sides, err := ParseMargin(parseValue(t, "margin: 5px 10px"))
	if err != nil {
		t.Fatal(err)
	}
	if sides.Top.Resolve(RelativeContext{}, AbsoluteContext{}, 0) != 5 ||
		sides.Bottom.Resolve(RelativeContext{}, AbsoluteContext{}, 0) != 5 ||
		sides.Left.Resolve(RelativeContext{}, AbsoluteContext{}, 0) != 10 ||
		sides.Right.Resolve(RelativeContext{}, AbsoluteContext{}, 0) != 10 {
		t.Errorf("expected vertical=5 horizontal=10, got %+v", sides)
	}
}

func TestParseMarginAuto(t *testing.T) {
	if _, err := ParseMargin(parseValue(t, "margin: auto")); err != nil {
		t.Fatalf("auto should be accepted by margin, got error: %v", err)
	}
}

func TestParseBorderAnyOrder(t *testing.T) {
	b, err := ParseBorder(parseValue(t, "border: solid 2px red"))
	if err != nil {
		t.Fatal(err)
	}
	if !b.HasStyle || b.Style != "solid" {
		t.Errorf("expected solid style, got %+v", b)
	}
	if !b.HasWidth || b.Width.Resolve(RelativeContext{}, AbsoluteContext{}, 0) != 2 {
		t.Errorf("expected width 2px, got %+v", b)
	}
	if !b.HasColor || b.Color.R != 1 {
		t.Errorf("expected red color, got %+v", b)
	}
}

func TestParseBorderKeywordWidth(t *testing.T) {
	b, err := ParseBorder(parseValue(t, "border: thin solid black"))
	if err != nil {
		t.Fatal(err)
	}
	if b.Width.Resolve(RelativeContext{}, AbsoluteContext{}, 0) != 1 {
		t.Errorf("expected thin=1px, got %+v", b.Width)
	}
}

func TestParseBackgroundGradientAndColor(t *testing.T) {
	layers, err := ParseBackground(parseValue(t, "background: linear-gradient(to right, red, blue)"))
	if err != nil {
		t.Fatal(err)
	}
	if len(layers) != 1 || !layers[0].HasImage || layers[0].Image.Kind != LinearGradient {
		t.Fatalf("expected single linear-gradient layer, got %+v", layers)
	}
	if len(layers[0].Image.Stops) != 2 {
		t.Errorf("expected 2 color stops, got %d", len(layers[0].Image.Stops))
	}
}

func TestLogicalAxisMapping(t *testing.T) {
	if got := LogicalAxis("margin-inline-start", "", "ltr"); got != "left" {
		t.Errorf("expected left, got %q", got)
	}
	if got := LogicalAxis("margin-inline-start", "", "rtl"); got != "right" {
		t.Errorf("expected right for rtl, got %q", got)
	}
}
