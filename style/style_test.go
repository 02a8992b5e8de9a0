package style

import (
	"testing"

	"github.com/renderkit/renderkit/cssom"
	"github.com/renderkit/renderkit/cssval"
	"github.com/renderkit/renderkit/dom"
)

func testAC() cssval.AbsoluteContext {
	return cssval.AbsoluteContext{RootFontSizePx: 16, ViewportWidthPx: 800, ViewportHeightPx: 600}
}

func compile(t *testing.T, css string) []CompiledRule {
	t.Helper()
	sheet := cssom.ParseStylesheet(css, cssom.OriginAuthor)
	return Compile([]*cssom.Stylesheet{sheet})
}

func TestCascadeAppliesColorAndInherits(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	div := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(html, div)
	span := doc.CreateElement(dom.TagSpan, "")
	doc.AppendChild(div, span)

	rules := compile(t, "div { color: red; }")
	ac := testAC()
	divStyle, _ := Cascade(doc, div, rules, nil, ac)
	if divStyle.Color.R != 1 || divStyle.Color.G != 0 {
		t.Errorf("expected div color red, got %+v", divStyle.Color)
	}
	spanStyle, _ := Cascade(doc, span, rules, divStyle, ac)
	if spanStyle.Color != divStyle.Color {
		t.Errorf("expected span to inherit color from div: got %+v want %+v", spanStyle.Color, divStyle.Color)
	}
}

func TestCascadeMarginDoesNotInherit(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	div := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(html, div)
	span := doc.CreateElement(dom.TagSpan, "")
	doc.AppendChild(div, span)

	rules := compile(t, "div { margin: 10px; }")
	ac := testAC()
	divStyle, _ := Cascade(doc, div, rules, nil, ac)
	if divStyle.Margin.Top.Px != 10 {
		t.Fatalf("expected div margin-top 10px, got %+v", divStyle.Margin.Top)
	}
	spanStyle, _ := Cascade(doc, span, rules, divStyle, ac)
	if spanStyle.Margin.Top.Px != 0 {
		t.Errorf("expected span margin to reset to 0, not inherit div's 10px: got %v", spanStyle.Margin.Top.Px)
	}
}

func TestCascadeSpecificityWins(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	div := doc.CreateElement(dom.TagDiv, "")
	doc.Node(div).SetAttribute("id", "main")
	doc.AppendChild(html, div)

	rules := compile(t, "div { color: blue; } #main { color: lime; }")
	ac := testAC()
	got, _ := Cascade(doc, div, rules, nil, ac)
	if got.Color.G != 1 || got.Color.R != 0 {
		t.Errorf("expected #main's higher specificity to win with green, got %+v", got.Color)
	}
}

func TestCascadeSourceOrderTiebreak(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	div := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(html, div)

	rules := compile(t, "div { color: blue; } div { color: lime; }")
	ac := testAC()
	got, _ := Cascade(doc, div, rules, nil, ac)
	if got.Color.G != 1 {
		t.Errorf("expected later same-specificity rule to win, got %+v", got.Color)
	}
}

func TestCascadeImportantBeatsAuthorSpecificity(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	div := doc.CreateElement(dom.TagDiv, "")
	doc.Node(div).SetAttribute("id", "main")
	doc.AppendChild(html, div)

	rules := compile(t, "div { color: blue !important; } #main { color: lime; }")
	ac := testAC()
	got, _ := Cascade(doc, div, rules, nil, ac)
	if got.Color.B != 1 {
		t.Errorf("expected !important to win over higher specificity, got %+v", got.Color)
	}
}

func TestCascadeInlineStyleBeatsAuthorRule(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	div := doc.CreateElement(dom.TagDiv, "")
	doc.Node(div).SetAttribute("id", "main")
	doc.Node(div).SetAttribute("style", "color: purple;")
	doc.AppendChild(html, div)

	rules := compile(t, "#main { color: lime; }")
	ac := testAC()
	got, _ := Cascade(doc, div, rules, nil, ac)
	if got.Color.G == 1 && got.Color.R == 0 {
		t.Errorf("expected inline style to beat the #main rule, but green won: got %+v", got.Color)
	}
}

func TestCascadeVarFallbackAndUnresolved(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	div := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(html, div)

	rules := compile(t, "div { color: var(--missing, red); font-size: var(--also-missing); }")
	ac := testAC()
	got, diags := Cascade(doc, div, rules, nil, ac)
	if got.Color.R != 1 {
		t.Errorf("expected var() fallback to red, got %+v", got.Color)
	}
	if got.FontSizePx != ac.RootFontSizePx {
		t.Errorf("expected unresolved var() to compute font-size to its initial value, got %v", got.FontSizePx)
	}
	found := false
	for _, d := range diags {
		if d.Property == "font-size" {
			found = true
		}
	}
	if !found {
		t.Error("expected a diagnostic for the unresolved font-size var()")
	}
}

func TestCascadeCustomPropertyInheritance(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	div := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(html, div)
	span := doc.CreateElement(dom.TagSpan, "")
	doc.AppendChild(div, span)

	rules := compile(t, "div { --accent: red; } span { color: var(--accent); }")
	ac := testAC()
	divStyle, _ := Cascade(doc, div, rules, nil, ac)
	spanStyle, _ := Cascade(doc, span, rules, divStyle, ac)
	if spanStyle.Color.R != 1 {
		t.Errorf("expected span to resolve color from div's custom property, got %+v", spanStyle.Color)
	}
}

func TestCascadeDisplayAndPosition(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	div := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(html, div)

	rules := compile(t, "div { display: flex; position: absolute; }")
	ac := testAC()
	got, _ := Cascade(doc, div, rules, nil, ac)
	if got.Display.Inside != InsideFlex || got.Display.Outside != OutsideBlock {
		t.Errorf("expected display:flex to resolve to block/flex, got %+v", got.Display)
	}
	if got.Position != PositionAbsolute {
		t.Errorf("expected position:absolute, got %v", got.Position)
	}
}

func TestCascadeMaxWidthNoneIsInfinity(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	div := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(html, div)

	ac := testAC()
	got, _ := Cascade(doc, div, nil, nil, ac)
	if got.MaxWidth.Px != Infinity {
		t.Errorf("expected default max-width to be +Inf, got %v", got.MaxWidth.Px)
	}
}

func TestCascadeMarginAutoForCentering(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	div := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(html, div)

	rules := compile(t, "div { margin: 0 auto; }")
	ac := testAC()
	got, _ := Cascade(doc, div, rules, nil, ac)
	if !got.Margin.Left.Auto || !got.Margin.Right.Auto {
		t.Errorf("expected left/right margin auto, got %+v", got.Margin)
	}
	if got.Margin.Top.Auto || got.Margin.Top.Px != 0 {
		t.Errorf("expected top margin 0, got %+v", got.Margin.Top)
	}
}

func TestDefaultUserAgentStylesheetParses(t *testing.T) {
	sheet := DefaultUserAgentStylesheet()
	if len(sheet.Rules) == 0 {
		t.Fatal("expected the default user-agent stylesheet to contain rules")
	}
	rules := Compile([]*cssom.Stylesheet{sheet})
	if len(rules) == 0 {
		t.Fatal("expected compiled UA rules")
	}
}
