package layout

import (
	"math"
	"strings"

	"github.com/renderkit/renderkit/geom"
	"github.com/renderkit/renderkit/style"
)

// baselinePositionEm approximates where a font's alphabetic baseline sits
// below a line box's top edge, as a fraction of the font size. Used to
// align inline boxes of differing heights on a shared baseline (CSS 2.1
// §10.8), since the injected TextMeasurer reports only a bounding box.
const baselinePositionEm = 0.8

// wordSpacingEm is the gap placed between adjacent inline-level boxes on a
// line, approximating the width of the inter-element whitespace that was
// collapsed away when building the box tree.
const wordSpacingEm = 0.25

// layoutInlineRun lays out an AnonymousBox's sequence of inline-level
// children as a single line box spanning the full width of the
// containing block, positioned at top (relative to the containing
// block's content origin). No line breaking happens here: each TextBox
// takes its width and height from one TextMeasurer call that receives
// availableWidthPx, and textmetrics.Measurer measures the whole run as a
// single line whatever that width is.
func (b *builder) layoutInlineRun(run *Node, containingBlock Dimensions, top float64) {
	run.Dimensions.Content.X = containingBlock.Content.X
	run.Dimensions.Content.Y = containingBlock.Content.Y + top
	run.Dimensions.Content.Width = containingBlock.Content.Width
	b.layoutInlineChildren(run, run.Children, containingBlock.Content.Width)
}

// layoutInlineChildren lays out children left to right starting at
// container's content origin, then aligns them all on a shared baseline.
// It sets container.Dimensions.Content.Height to the line's height; if
// container is itself an InlineBox (nested, e.g. a <span> inside the
// run) it also shrink-to-fits container's own width around its children.
func (b *builder) layoutInlineChildren(container *Node, children []*Node, availableWidth float64) {
	if len(children) == 0 {
		container.Dimensions.Content.Height = 0
		return
	}
	startX := container.Dimensions.Content.X
	currentX := startX
	currentY := container.Dimensions.Content.Y

	type placed struct {
		node     *Node
		baseline float64
	}
	var line []placed
	maxBaseline := 0.0
	maxBelowBaseline := 0.0

	for i, child := range children {
		remaining := math.Max(0, availableWidth-(currentX-startX))
		cb := Dimensions{Content: geom.Rect{X: currentX, Y: currentY, Width: remaining}}
		b.layoutInlineBox(child, cb)

		baseline := baselineOf(child)
		below := child.Dimensions.MarginBox().Height - baseline
		if baseline > maxBaseline {
			maxBaseline = baseline
		}
		if below > maxBelowBaseline {
			maxBelowBaseline = below
		}
		line = append(line, placed{child, baseline})

		currentX += child.Dimensions.MarginBox().Width
		if i < len(children)-1 {
			currentX += wordSpacingPx(child)
		}
	}

	for _, p := range line {
		shiftY(p.node, maxBaseline-p.baseline)
	}

	container.Dimensions.Content.Height = maxBaseline + maxBelowBaseline
	if container.Box == InlineBox {
		container.Dimensions.Content.Width = currentX - startX
	}
}

// layoutInlineBox lays out one inline-level child: a text run, a replaced
// element (<img>), or a non-replaced inline box (<span>, <a>, ...) whose
// own children are themselves inline-level content.
func (b *builder) layoutInlineBox(n *Node, containingBlock Dimensions) {
	if n.Box == TextBox {
		b.layoutText(n, containingBlock)
		return
	}

	st := n.Style
	ml, _ := resolveEdge(st.Margin.Left)
	mr, _ := resolveEdge(st.Margin.Right)
	mt, _ := resolveEdge(st.Margin.Top)
	mb, _ := resolveEdge(st.Margin.Bottom)
	n.Dimensions.Margin = geom.SideOffset{Top: mt, Right: mr, Bottom: mb, Left: ml}
	n.Dimensions.Padding = geom.SideOffset{Top: st.Padding.Top.Px, Right: st.Padding.Right.Px, Bottom: st.Padding.Bottom.Px, Left: st.Padding.Left.Px}
	n.Dimensions.Border = geom.SideOffset{Top: st.Borders.Top.WidthPx, Right: st.Borders.Right.WidthPx, Bottom: st.Borders.Bottom.WidthPx, Left: st.Borders.Left.WidthPx}

	n.Dimensions.Content.X = containingBlock.Content.X + ml + n.Dimensions.Border.Left + n.Dimensions.Padding.Left
	n.Dimensions.Content.Y = containingBlock.Content.Y + mt + n.Dimensions.Border.Top + n.Dimensions.Padding.Top

	if w, h, ok := b.replacedIntrinsicSize(n); ok {
		n.Dimensions.Content.Width = w
		n.Dimensions.Content.Height = h
		return
	}

	innerCB := geom.Rect{
		X:     n.Dimensions.Content.X,
		Width: math.Max(0, containingBlock.Content.Width-(n.Dimensions.Content.X-containingBlock.Content.X)),
	}
	b.layoutInlineChildren(n, n.Children, innerCB.Width)
}

// baselineOf is how far below n's margin-box top edge its alphabetic
// baseline falls, used to align boxes of mixed font sizes on one line.
func baselineOf(n *Node) float64 {
	if n.Box == TextBox {
		return n.Style.FontSizePx * baselinePositionEm
	}
	above := n.Dimensions.Margin.Top + n.Dimensions.Border.Top + n.Dimensions.Padding.Top
	return above + n.Style.FontSizePx*baselinePositionEm
}

// shiftY moves n and its whole subtree down by dy, used to drop a
// shorter inline box down to the line's shared baseline.
func shiftY(n *Node, dy float64) {
	if dy == 0 {
		return
	}
	n.Dimensions.Content.Y += dy
	for _, c := range n.Children {
		shiftY(c, dy)
	}
}

func wordSpacingPx(n *Node) float64 {
	return n.Style.FontSizePx * wordSpacingEm
}

// layoutText measures n's text against the containing block's available
// width and positions it, collapsing whitespace per CSS 2.1 §16.6.1
// unless n's inherited white-space value preserves it.
func (b *builder) layoutText(n *Node, containingBlock Dimensions) {
	text := n.Text
	if n.Style.WhiteSpace != style.WhiteSpacePre && n.Style.WhiteSpace != style.WhiteSpacePreWrap {
		text = collapseWhitespace(text)
	}
	n.Text = text
	n.Dimensions.Content.X = containingBlock.Content.X
	n.Dimensions.Content.Y = containingBlock.Content.Y
	if text == "" {
		n.Dimensions.Content.Width = 0
		n.Dimensions.Content.Height = 0
		return
	}
	st := n.Style
	measured := b.measurer.Measure(text, st.FontSizePx, st.LineHeightPx, st.FontFamily, containingBlock.Content.Width)
	n.Dimensions.Content.Width = measured.WidthPx
	n.Dimensions.Content.Height = measured.HeightPx
	n.Glyphs = measured.Glyphs
}

// collapseWhitespace folds runs of whitespace into a single space and
// trims the ends, the default CSS white-space:normal behavior.
func collapseWhitespace(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
	})
	return strings.Join(fields, " ")
}
