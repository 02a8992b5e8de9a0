package cssval

import (
	"math"
	"testing"

	"github.com/renderkit/renderkit/cssom"
)

func parseValue(t *testing.T, decl string) []cssom.ComponentValue {
	t.Helper()
	decls, errs := cssom.ParseStyleAttribute(decl)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if len(decls) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(decls))
	}
	return decls[0].Value
}

func TestParseCalcPlainLength(t *testing.T) {
	node, err := ParseCalc(parseValue(t, "width: 10px"))
	if err != nil {
		t.Fatal(err)
	}
	got := node.Resolve(RelativeContext{}, AbsoluteContext{}, 0)
	if got != 10 {
		t.Errorf("expected 10, got %v", got)
	}
}

func TestParseCalcAddition(t *testing.T) {
	node, err := ParseCalc(parseValue(t, "width: calc(10px + 5px)"))
	if err != nil {
		t.Fatal(err)
	}
	got := node.Resolve(RelativeContext{}, AbsoluteContext{}, 0)
	if got != 15 {
		t.Errorf("expected 15, got %v", got)
	}
}

func TestParseCalcPercentage(t *testing.T) {
	node, err := ParseCalc(parseValue(t, "width: calc(100% - 10px)"))
	if err != nil {
		t.Fatal(err)
	}
	got := node.Resolve(RelativeContext{}, AbsoluteContext{}, 200)
	if got != 190 {
		t.Errorf("expected 190, got %v", got)
	}
}

func TestParseCalcRequiresWhitespaceAroundPlusMinus(t *testing.T) {
	if _, err := ParseCalc(parseValue(t, "width: calc(10px +5px)")); err == nil {
		t.Error("expected an error for missing whitespace around '+'")
	}
}

func TestParseCalcMinMaxClamp(t *testing.T) {
	node, err := ParseCalc(parseValue(t, "width: min(10px, 20px)"))
	if err != nil {
		t.Fatal(err)
	}
	if got := node.Resolve(RelativeContext{}, AbsoluteContext{}, 0); got != 10 {
		t.Errorf("min: expected 10, got %v", got)
	}

	node, err = ParseCalc(parseValue(t, "width: max(10px, 20px)"))
	if err != nil {
		t.Fatal(err)
	}
	if got := node.Resolve(RelativeContext{}, AbsoluteContext{}, 0); got != 20 {
		t.Errorf("max: expected 20, got %v", got)
	}

	node, err = ParseCalc(parseValue(t, "width: clamp(10px, 5px, 20px)"))
	if err != nil {
		t.Fatal(err)
	}
	if got := node.Resolve(RelativeContext{}, AbsoluteContext{}, 0); got != 10 {
		t.Errorf("clamp: expected clamped to 10, got %v", got)
	}
}

func TestParseCalcClampNone(t *testing.T) {
	node, err := ParseCalc(parseValue(t, "width: clamp(none, 500px, 20px)"))
	if err != nil {
		t.Fatal(err)
	}
	if got := node.Resolve(RelativeContext{}, AbsoluteContext{}, 0); got != 20 {
		t.Errorf("expected clamped to 20 via max bound, got %v", got)
	}
}

func TestParseCalcDivisionByZero(t *testing.T) {
	node, err := ParseCalc(parseValue(t, "width: calc(10px / 0)"))
	if err != nil {
		t.Fatal(err)
	}
	got := node.Resolve(RelativeContext{}, AbsoluteContext{}, 0)
	if !math.IsNaN(got) {
		t.Errorf("expected NaN, got %v", got)
	}
}

func TestParseCalcEmUnit(t *testing.T) {
	node, err := ParseCalc(parseValue(t, "width: 2em"))
	if err != nil {
		t.Fatal(err)
	}
	got := node.Resolve(RelativeContext{ParentFontSizePx: 16}, AbsoluteContext{}, 0)
	if got != 32 {
		t.Errorf("expected 32, got %v", got)
	}
}
