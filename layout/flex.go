package layout

import (
	"math"

	"github.com/renderkit/renderkit/geom"
	"github.com/renderkit/renderkit/style"
)

// layoutFlex lays out a flex container's direct children as a single row
// (CSS Flexible Box Layout Module Level 1, the `flex-direction: row`
// case only; other directions fall back to this same row algorithm,
// recorded as an Open Question decision in DESIGN.md). Each child's
// main-axis size comes from its own box-model width (no flex-grow/
// flex-shrink arithmetic), and justify-content distributes the
// remaining free space along the row.
func (b *builder) layoutFlex(box *Node, containingBlock Dimensions) {
	b.resolveBoxModel(box, containingBlock, 0)

	items := box.Children
	contentCB := Dimensions{Content: geom.Rect{
		X: box.Dimensions.Content.X, Y: box.Dimensions.Content.Y, Width: box.Dimensions.Content.Width,
	}}
	box.Dimensions.Padding.Top = box.Style.Padding.Top.Px
	box.Dimensions.Padding.Bottom = box.Style.Padding.Bottom.Px
	box.Dimensions.Border.Top = box.Style.Borders.Top.WidthPx
	box.Dimensions.Border.Bottom = box.Style.Borders.Bottom.WidthPx

	if len(items) == 0 {
		box.Dimensions.Content.Height = 0
		return
	}

	// First pass: lay out each item at the container's left edge to
	// measure its natural width and height; justify-content repositions
	// them afterward.
	widths := make([]float64, len(items))
	maxHeight := 0.0
	totalWidth := 0.0
	for i, item := range items {
		b.layoutBlockAt(item, contentCB, 0)
		// Flex items keep their declared horizontal margins; the block-flow
		// over-constrained solution does not apply to them.
		item.Dimensions.Margin.Left, _ = resolveEdge(item.Style.Margin.Left)
		item.Dimensions.Margin.Right, _ = resolveEdge(item.Style.Margin.Right)
		w := item.Dimensions.MarginBox().Width
		widths[i] = w
		totalWidth += w
		if h := item.Dimensions.MarginBox().Height; h > maxHeight {
			maxHeight = h
		}
	}

	free := math.Max(0, contentCB.Content.Width-totalWidth)
	starts := justifyContent(box.Style.JustifyContent, widths, free)

	for i, item := range items {
		dx := (contentCB.Content.X + starts[i]) - item.Dimensions.Content.X
		shiftX(item, dx)
		item.Dimensions.Content.Y = contentCB.Content.Y
	}

	box.Dimensions.Content.Height = maxHeight
}

// justifyContent computes each item's main-axis start offset (relative
// to the container's content origin) for the given justify-content
// keyword and the row's free space.
func justifyContent(jc style.JustifyContentKeyword, widths []float64, free float64) []float64 {
	n := len(widths)
	starts := make([]float64, n)
	switch jc {
	case style.JustifyCenter:
		x := free / 2
		for i, w := range widths {
			starts[i] = x
			x += w
		}
	case style.JustifyFlexEnd:
		x := free
		for i, w := range widths {
			starts[i] = x
			x += w
		}
	case style.JustifySpaceBetween:
		gap := 0.0
		if n > 1 {
			gap = free / float64(n-1)
		}
		x := 0.0
		for i, w := range widths {
			starts[i] = x
			x += w + gap
		}
	case style.JustifySpaceAround:
		gap := free / float64(n)
		x := gap / 2
		for i, w := range widths {
			starts[i] = x
			x += w + gap
		}
	default: // JustifyFlexStart
		x := 0.0
		for i, w := range widths {
			starts[i] = x
			x += w
		}
	}
	return starts
}

func shiftX(n *Node, dx float64) {
	if dx == 0 {
		return
	}
	n.Dimensions.Content.X += dx
	for _, c := range n.Children {
		shiftX(c, dx)
	}
}
