package cssval

import "testing"

func TestLengthResolvePixelUnits(t *testing.T) {
	rc := RelativeContext{ParentFontSizePx: 16, FontSizePx: 16}
	ac := AbsoluteContext{RootFontSizePx: 20, ViewportWidthPx: 1000, ViewportHeightPx: 500}

	cases := []struct {
		l    Length
		want float64
	}{
		{Length{Value: 10, Unit: UnitPx}, 10},
		{Length{Value: 2, Unit: UnitEm}, 32},
		{Length{Value: 2, Unit: UnitRem}, 40},
		{Length{Value: 50, Unit: UnitVw}, 500},
		{Length{Value: 50, Unit: UnitVh}, 250},
		{Length{Value: 1, Unit: UnitIn}, 96},
		{Length{Value: 72, Unit: UnitPt}, 96},
	}
	for _, c := range cases {
		if got := c.l.Resolve(rc, ac); got != c.want {
			t.Errorf("unit %v: expected %v, got %v", c.l.Unit, c.want, got)
		}
	}
}

func TestPercentageResolve(t *testing.T) {
	p := Percentage{Value: 50}
	if got := p.Resolve(200); got != 100 {
		t.Errorf("expected 100, got %v", got)
	}
}
