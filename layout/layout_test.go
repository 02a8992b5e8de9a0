package layout

import (
	"testing"

	"github.com/renderkit/renderkit/cssom"
	"github.com/renderkit/renderkit/cssval"
	"github.com/renderkit/renderkit/dom"
	"github.com/renderkit/renderkit/geom"
	"github.com/renderkit/renderkit/style"
)

// fakeMeasurer reports a deterministic width of 6px per character and a
// fixed line height, so tests never depend on a real font rasterizer.
type fakeMeasurer struct{}

func (fakeMeasurer) Measure(text string, fontSizePx, lineHeightPx float64, fontFamily []string, availableWidthPx float64) MeasuredText {
	return MeasuredText{WidthPx: float64(len(text)) * 6, HeightPx: lineHeightPx}
}

type fakeImages struct{ sizes map[string][2]float64 }

func (f fakeImages) Size(src, varyKey string) (float64, float64, bool) {
	wh, ok := f.sizes[src]
	return wh[0], wh[1], ok
}

func testAC() cssval.AbsoluteContext {
	return cssval.AbsoluteContext{RootFontSizePx: 16, ViewportWidthPx: 800, ViewportHeightPx: 600}
}

// cascadeAll parses css as an author stylesheet and resolves every
// element under root into a ComputedStyle, the map shape Build expects.
func cascadeAll(t *testing.T, doc *dom.Document, root dom.NodeID, css string) map[dom.NodeID]*style.ComputedStyle {
	t.Helper()
	sheets := []*cssom.Stylesheet{style.DefaultUserAgentStylesheet()}
	if css != "" {
		sheets = append(sheets, cssom.ParseStylesheet(css, cssom.OriginAuthor))
	}
	rules := style.Compile(sheets)
	ac := testAC()
	out := map[dom.NodeID]*style.ComputedStyle{}
	var walk func(id dom.NodeID, parent *style.ComputedStyle)
	walk = func(id dom.NodeID, parent *style.ComputedStyle) {
		n := doc.Node(id)
		if n.Kind != dom.KindElement {
			for _, c := range doc.Children(id) {
				walk(c, parent)
			}
			return
		}
		st, _ := style.Cascade(doc, id, rules, parent, ac)
		out[id] = st
		for _, c := range doc.Children(id) {
			walk(c, st)
		}
	}
	walk(root, nil)
	return out
}

func TestLayoutSimpleBlockWidthAndHeight(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	div := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(html, div)

	styles := cascadeAll(t, doc, doc.Root, "div { width: 200px; height: 100px; }")

	tree := Build(doc, doc.Root, styles, geom.Rect{Width: 800, Height: 600}, fakeMeasurer{}, nil)
	if len(tree.Roots) != 1 {
		t.Fatalf("expected 1 root box, got %d", len(tree.Roots))
	}
	box := tree.Roots[0].Children[0]
	if box.Dimensions.Content.Width != 200 {
		t.Errorf("expected width 200, got %v", box.Dimensions.Content.Width)
	}
	if box.Dimensions.Content.Height != 100 {
		t.Errorf("expected height 100, got %v", box.Dimensions.Content.Height)
	}
}

func TestLayoutMarginCollapsingBetweenSiblings(t *testing.T) {
	// Two stacked divs, each margin 20px, inside a body with margin 8px:
	// the second div's y should equal the first div's bottom + 20
	// (collapsed), not + 40.
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	body := doc.CreateElement(dom.TagBody, "")
	doc.AppendChild(html, body)
	div1 := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(body, div1)
	div2 := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(body, div2)

	styles := cascadeAll(t, doc, doc.Root, "body { margin: 8px; } div { margin: 20px; height: 50px; }")

	tree := Build(doc, doc.Root, styles, geom.Rect{Width: 800, Height: 600}, fakeMeasurer{}, nil)
	bodyBox := tree.Roots[0].Children[0]
	d1 := bodyBox.Children[0]
	d2 := bodyBox.Children[1]

	if d1.Dimensions.Content.Height != 50 {
		t.Fatalf("expected div1 height 50, got %v", d1.Dimensions.Content.Height)
	}
	wantY := d1.Dimensions.BorderBox().Bottom() + 20
	if d2.Dimensions.Content.Y != wantY {
		t.Errorf("expected collapsed gap of 20 between siblings: div2.Y=%v want %v", d2.Dimensions.Content.Y, wantY)
	}
}

func TestLayoutMarginCollapsesThroughParentWithNoBorderOrPadding(t *testing.T) {
	// An outer div with no border/padding whose first child has
	// margin-top 30px: outer's own effective top margin collapses with
	// the child's, so outer (not just the child) sits 30px down.
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	outer := doc.CreateElement(dom.TagDiv, "")
	doc.Node(outer).SetAttribute("id", "outer")
	doc.AppendChild(html, outer)
	inner := doc.CreateElement(dom.TagDiv, "")
	doc.Node(inner).SetAttribute("id", "inner")
	doc.AppendChild(outer, inner)

	styles := cascadeAll(t, doc, doc.Root, "#inner { margin-top: 30px; height: 10px; }")

	tree := Build(doc, doc.Root, styles, geom.Rect{Width: 800, Height: 600}, fakeMeasurer{}, nil)
	outerBox := tree.Roots[0].Children[0]
	innerBox := outerBox.Children[0]

	if outerBox.Dimensions.Content.Y != 30 {
		t.Errorf("expected outer box pushed down by collapsed margin to y=30, got %v", outerBox.Dimensions.Content.Y)
	}
	if innerBox.Dimensions.Content.Y != outerBox.Dimensions.Content.Y {
		t.Errorf("expected inner's margin fully absorbed by collapse-through, innerY=%v outerY=%v", innerBox.Dimensions.Content.Y, outerBox.Dimensions.Content.Y)
	}
}

func TestLayoutInlineTextMeasured(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	p := doc.CreateElement(dom.TagP, "")
	doc.AppendChild(html, p)
	doc.AppendChild(p, doc.CreateText("hello"))

	styles := cascadeAll(t, doc, doc.Root, "")

	tree := Build(doc, doc.Root, styles, geom.Rect{Width: 800, Height: 600}, fakeMeasurer{}, nil)
	pBox := tree.Roots[0].Children[0]
	if len(pBox.Children) != 1 || pBox.Children[0].Box != AnonymousBox {
		t.Fatalf("expected the paragraph's text wrapped in one anonymous box, got %+v", pBox.Children)
	}
	run := pBox.Children[0]
	if len(run.Children) != 1 || run.Children[0].Box != TextBox {
		t.Fatalf("expected one text box in the anonymous run, got %+v", run.Children)
	}
	if want := float64(len("hello")) * 6; run.Children[0].Dimensions.Content.Width != want {
		t.Errorf("expected measured text width %v, got %v", want, run.Children[0].Dimensions.Content.Width)
	}
}

func TestLayoutTableWithTbodyFlattensRowGroup(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	table := doc.CreateElement(dom.TagTable, "")
	doc.AppendChild(html, table)
	tbody := doc.CreateElement(dom.TagTbody, "")
	doc.AppendChild(table, tbody)
	tr := doc.CreateElement(dom.TagTr, "")
	doc.AppendChild(tbody, tr)
	td1 := doc.CreateElement(dom.TagTd, "")
	doc.AppendChild(tr, td1)
	doc.AppendChild(td1, doc.CreateText("a"))
	td2 := doc.CreateElement(dom.TagTd, "")
	doc.AppendChild(tr, td2)
	doc.AppendChild(td2, doc.CreateText("bb"))

	styles := cascadeAll(t, doc, doc.Root, "table { width: 400px; }")

	tree := Build(doc, doc.Root, styles, geom.Rect{Width: 800, Height: 600}, fakeMeasurer{}, nil)
	tableBox := tree.Roots[0].Children[0]
	if tableBox.Box != TableBox {
		t.Fatalf("expected a TableBox root, got %v", tableBox.Box)
	}
	if len(tableBox.Children) != 1 || tableBox.Children[0].Box != TableRowGroupBox {
		t.Fatalf("expected the tbody to produce a TableRowGroupBox, got %+v", tableBox.Children)
	}
	group := tableBox.Children[0]
	if len(group.Children) != 1 || group.Children[0].Box != TableRowBox {
		t.Fatalf("expected one row inside the row group, got %+v", group.Children)
	}
	row := group.Children[0]
	if len(row.Children) != 2 {
		t.Fatalf("expected 2 cells in the row, got %d", len(row.Children))
	}
	if row.Children[1].Dimensions.Content.X <= row.Children[0].Dimensions.Content.X {
		t.Errorf("expected second cell to sit to the right of the first")
	}
}

func TestLayoutTableColspanSpansMultipleColumns(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	table := doc.CreateElement(dom.TagTable, "")
	doc.AppendChild(html, table)
	row1 := doc.CreateElement(dom.TagTr, "")
	doc.AppendChild(table, row1)
	spanning := doc.CreateElement(dom.TagTd, "")
	doc.Node(spanning).SetAttribute("colspan", "2")
	doc.AppendChild(row1, spanning)
	doc.AppendChild(spanning, doc.CreateText("wide cell content"))
	row2 := doc.CreateElement(dom.TagTr, "")
	doc.AppendChild(table, row2)
	a := doc.CreateElement(dom.TagTd, "")
	doc.AppendChild(row2, a)
	doc.AppendChild(a, doc.CreateText("a"))
	bCell := doc.CreateElement(dom.TagTd, "")
	doc.AppendChild(row2, bCell)
	doc.AppendChild(bCell, doc.CreateText("b"))

	styles := cascadeAll(t, doc, doc.Root, "table { width: 400px; }")

	tree := Build(doc, doc.Root, styles, geom.Rect{Width: 800, Height: 600}, fakeMeasurer{}, nil)
	tableBox := tree.Roots[0].Children[0]
	topRow := tableBox.Children[0]
	if len(topRow.Children) != 1 {
		t.Fatalf("expected 1 cell in the spanning row, got %d", len(topRow.Children))
	}
	bottomRow := tableBox.Children[1]
	wantWidth := (bottomRow.Children[1].Dimensions.Content.X + bottomRow.Children[1].Dimensions.Content.Width) - bottomRow.Children[0].Dimensions.Content.X
	if got := topRow.Children[0].Dimensions.Content.Width; got < wantWidth-1 {
		t.Errorf("expected the colspan=2 cell to span both columns below it: got width %v, want at least %v", got, wantWidth)
	}
}

func TestLayoutFlexJustifyContentSpaceBetween(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	container := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(html, container)
	item1 := doc.CreateElement(dom.TagDiv, "")
	doc.Node(item1).SetAttribute("class", "item")
	doc.AppendChild(container, item1)
	item2 := doc.CreateElement(dom.TagDiv, "")
	doc.Node(item2).SetAttribute("class", "item")
	doc.AppendChild(container, item2)

	styles := cascadeAll(t, doc, doc.Root, "div { display: flex; justify-content: space-between; width: 400px; } .item { width: 50px; height: 20px; }")

	tree := Build(doc, doc.Root, styles, geom.Rect{Width: 800, Height: 600}, fakeMeasurer{}, nil)
	flexBox := tree.Roots[0].Children[0]
	if flexBox.Box != FlexBox {
		t.Fatalf("expected a FlexBox root, got %v", flexBox.Box)
	}
	i1, i2 := flexBox.Children[0], flexBox.Children[1]
	if i1.Dimensions.Content.X != flexBox.Dimensions.Content.X {
		t.Errorf("expected first item flush to the container's left edge, got x=%v", i1.Dimensions.Content.X)
	}
	wantRight := flexBox.Dimensions.Content.X + flexBox.Dimensions.Content.Width
	if gotRight := i2.Dimensions.Content.X + i2.Dimensions.Content.Width; gotRight != wantRight {
		t.Errorf("expected last item flush to the container's right edge: got right=%v want %v", gotRight, wantRight)
	}
}

func TestLayoutImageUsesDefaultIntrinsicSize(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	img := doc.CreateElement(dom.TagImg, "")
	doc.Node(img).SetAttribute("src", "missing.png")
	doc.AppendChild(html, img)

	styles := cascadeAll(t, doc, doc.Root, "")

	tree := Build(doc, doc.Root, styles, geom.Rect{Width: 800, Height: 600}, fakeMeasurer{}, fakeImages{sizes: map[string][2]float64{}})
	box := tree.Roots[0].Children[0].Children[0]
	if box.Dimensions.Content.Width != defaultImageWidth || box.Dimensions.Content.Height != defaultImageHeight {
		t.Errorf("expected default 300x150 placeholder, got %vx%v", box.Dimensions.Content.Width, box.Dimensions.Content.Height)
	}
}

func TestLayoutImageUsesInjectedIntrinsicSize(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	img := doc.CreateElement(dom.TagImg, "")
	doc.Node(img).SetAttribute("src", "logo.png")
	doc.AppendChild(html, img)

	styles := cascadeAll(t, doc, doc.Root, "")

	tree := Build(doc, doc.Root, styles, geom.Rect{Width: 800, Height: 600}, fakeMeasurer{}, fakeImages{sizes: map[string][2]float64{"logo.png": {64, 32}}})
	box := tree.Roots[0].Children[0].Children[0]
	if box.Dimensions.Content.Width != 64 || box.Dimensions.Content.Height != 32 {
		t.Errorf("expected injected intrinsic size 64x32, got %vx%v", box.Dimensions.Content.Width, box.Dimensions.Content.Height)
	}
}

func TestHitTestFindsDeepestBoxFirst(t *testing.T) {
	doc := dom.NewDocument()
	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	outer := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(html, outer)
	inner := doc.CreateElement(dom.TagDiv, "")
	doc.AppendChild(outer, inner)

	styles := cascadeAll(t, doc, doc.Root, "div { width: 200px; height: 200px; } div div { width: 50px; height: 50px; }")

	tree := Build(doc, doc.Root, styles, geom.Rect{Width: 800, Height: 600}, fakeMeasurer{}, nil)
	path := tree.HitTest(10, 10)
	if len(path) != 3 {
		t.Fatalf("expected a 3-deep hit path (inner, outer, html), got %d entries", len(path))
	}
	if path[0].Style.Width.Px != 50 {
		t.Errorf("expected the deepest hit to be the 50x50 inner box, got width %v", path[0].Style.Width.Px)
	}
	if outsideBoth := tree.HitTest(300, 300); outsideBoth != nil {
		t.Errorf("expected no hit far outside both boxes, got %+v", outsideBoth)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := collapseWhitespace("  hello   world\n\t")
	if got != "hello world" {
		t.Errorf("collapseWhitespace() = %q, want %q", got, "hello world")
	}
}
