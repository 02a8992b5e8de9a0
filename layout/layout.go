// Package layout implements the CSS 2.1 visual formatting model: it turns a
// DOM plus a per-element ComputedStyle table into a tree of positioned
// boxes (content/padding/border/margin) ready for painting or hit-testing.
//
// Spec references:
// - CSS 2.1 §8 Box model
// - CSS 2.1 §9 Visual formatting model
// - CSS 2.1 §10 Visual formatting model details
// - CSS 2.1 §17 Tables
// - CSS Flexible Box Layout Module Level 1
//
package layout

import (
	"math"

	"github.com/renderkit/renderkit/dom"
	"github.com/renderkit/renderkit/geom"
	"github.com/renderkit/renderkit/style"
)

// BoxType is the kind of box a Node represents.
type BoxType int

const (
	// BlockBox is a block-level box in normal flow.
	BlockBox BoxType = iota
	// InlineBox is an inline-level element box.
	InlineBox
	// AnonymousBox wraps a contiguous run of inline-level content inside a
	// block container, per CSS 2.1 §9.2.1.1.
	AnonymousBox
	// TextBox is a leaf text run.
	TextBox
	// TableBox is a table's principal box (CSS 2.1 §17.2).
	TableBox
	// TableRowGroupBox is a thead/tbody/tfoot box.
	TableRowGroupBox
	// TableRowBox is a table row.
	TableRowBox
	// TableCellBox is a table cell.
	TableCellBox
	// TableCaptionBox is a table caption.
	TableCaptionBox
	// FlexBox is a flex container (CSS3).
	FlexBox
	// ListItemBox is a list-item box; laid out as a block box (no marker
	// box generation yet).
	ListItemBox
)

// Dimensions is the CSS 2.1 §8.1 box model: a content rect plus the three
// surrounding edges.
type Dimensions struct {
	Content geom.Rect
	Padding geom.SideOffset
	Border  geom.SideOffset
	Margin  geom.SideOffset
}

// PaddingBox returns the box extended by padding.
func (d Dimensions) PaddingBox() geom.Rect { return d.Content.Expand(d.Padding) }

// BorderBox returns the box extended by padding and border.
func (d Dimensions) BorderBox() geom.Rect { return d.PaddingBox().Expand(d.Border) }

// MarginBox returns the box extended by padding, border, and margin.
func (d Dimensions) MarginBox() geom.Rect { return d.BorderBox().Expand(d.Margin) }

// MeasuredText is what a TextMeasurer reports for one run of text.
type MeasuredText struct {
	WidthPx  float64
	HeightPx float64
	// Glyphs is the measurer's shaped glyph buffer, opaque to layout;
	// painting attaches it to the box for rendering without re-shaping.
	Glyphs any
}

// TextMeasurer measures a run of text against the font it would use and
// the width available to it. Injected so the engine can be tested with a
// deterministic fake instead of a real font rasterizer.
type TextMeasurer interface {
	Measure(text string, fontSizePx, lineHeightPx float64, fontFamily []string, availableWidthPx float64) MeasuredText
}

// ImageSizer resolves a replaced element's intrinsic pixel size. Absence
// (ok == false) falls back to the 300x150 default.
type ImageSizer interface {
	Size(src, varyKey string) (widthPx, heightPx float64, ok bool)
}

// defaultImageWidth and defaultImageHeight are the CSS2.1 placeholder
// dimensions used for a replaced element with no known intrinsic size.
const (
	defaultImageWidth  = 300.0
	defaultImageHeight = 150.0
)

// Node is one box in the layout tree.
type Node struct {
	Box     BoxType
	Element dom.NodeID // 0 for anonymous boxes and text runs
	Style   *style.ComputedStyle
	Text    string // non-empty for TextBox
	Glyphs  any    // set by the TextMeasurer for TextBox nodes

	Dimensions Dimensions
	Children   []*Node
}

// Tree is the output of a layout pass.
type Tree struct {
	Roots         []*Node
	ContentHeight float64
}

// styleTable looks up an element's ComputedStyle, falling back to the
// nearest styled ancestor for nodes (text, comment) that never go through
// the cascade directly.
type styleTable struct {
	doc    *dom.Document
	styles map[dom.NodeID]*style.ComputedStyle
}

func (t *styleTable) of(id dom.NodeID) *style.ComputedStyle {
	for cur := id; cur != 0; cur = t.doc.Parent(cur) {
		if s, ok := t.styles[cur]; ok {
			return s
		}
	}
	return nil
}

// builder carries the injected capabilities through one layout pass.
type builder struct {
	doc      *dom.Document
	st       *styleTable
	measurer TextMeasurer
	images   ImageSizer
}

// Build lays out the DOM subtree rooted at each of root's in-flow children
// (root is typically the document node) against viewport, producing a Tree
// whose ContentHeight is the total height for scrollbar purposes.
func Build(doc *dom.Document, root dom.NodeID, styles map[dom.NodeID]*style.ComputedStyle, viewport geom.Rect, measurer TextMeasurer, images ImageSizer) *Tree {
	b := &builder{doc: doc, st: &styleTable{doc: doc, styles: styles}, measurer: measurer, images: images}

	containingBlock := Dimensions{Content: viewport}
	var roots []*Node
	contentHeight := 0.0
	for _, child := range doc.Children(root) {
		n := b.buildNode(child)
		if n == nil {
			continue
		}
		n.Dimensions.Content.Y = containingBlock.Content.Y
		b.layoutBlockAt(n, containingBlock, 0)
		roots = append(roots, n)
		if h := n.Dimensions.MarginBox().Bottom(); h > contentHeight {
			contentHeight = h
		}
	}
	return &Tree{Roots: roots, ContentHeight: contentHeight}
}

// buildNode constructs the (unlaid-out) box tree for id, or nil if id
// generates no box (display:none, or a whitespace-only text node per CSS
// 2.1 §16.6.1).
func (b *builder) buildNode(id dom.NodeID) *Node {
	n := b.doc.Node(id)
	switch n.Kind {
	case dom.KindText:
		if isWhitespaceOnly(n.Text) {
			return nil
		}
		return &Node{Box: TextBox, Element: id, Style: b.st.of(id), Text: n.Text}
	case dom.KindComment, dom.KindDoctype, dom.KindDocument:
		return nil
	}

	st := b.st.of(id)
	if st == nil || st.Display.Outside == style.OutsideNone {
		return nil
	}

	box := &Node{Box: boxTypeFor(st), Element: id, Style: st}
	for _, c := range b.doc.Children(id) {
		if child := b.buildNode(c); child != nil {
			box.Children = append(box.Children, child)
		}
	}
	return box
}

func boxTypeFor(st *style.ComputedStyle) BoxType {
	switch st.Display.Inside {
	case style.InsideTable:
		return TableBox
	case style.InsideTableRowGroup:
		return TableRowGroupBox
	case style.InsideTableRow:
		return TableRowBox
	case style.InsideTableCell:
		return TableCellBox
	case style.InsideTableCaption:
		return TableCaptionBox
	case style.InsideFlex:
		return FlexBox
	case style.InsideListItem:
		return ListItemBox
	}
	if st.Display.Outside == style.OutsideInline {
		return InlineBox
	}
	return BlockBox
}

func isWhitespaceOnly(s string) bool {
	for _, ch := range s {
		if ch != ' ' && ch != '\t' && ch != '\n' && ch != '\r' && ch != '\f' {
			return false
		}
	}
	return true
}

// layoutBlockAt positions child's content origin at borderTopY (relative to
// containingBlock's content origin, i.e. where child's border-box top
// edge falls) and lays it out recursively. Used both for normal-flow block
// children and for the roots passed to Build.
func (b *builder) layoutBlockAt(child *Node, containingBlock Dimensions, borderTopY float64) {
	child.Dimensions.Content.Y = containingBlock.Content.Y + borderTopY + marginTopPx(child) + child.Style.Borders.Top.WidthPx + child.Style.Padding.Top.Px
	switch child.Box {
	case TableBox:
		b.layoutTable(child, containingBlock)
	case FlexBox:
		b.layoutFlex(child, containingBlock)
	default:
		b.layoutBlock(child, containingBlock)
	}
}

func (b *builder) layoutBlock(box *Node, containingBlock Dimensions) {
	if w, h, ok := b.replacedIntrinsicSize(box); ok {
		b.resolveBoxModel(box, containingBlock, w)
		box.Dimensions.Content.Height = h
		return
	}
	b.resolveBoxModel(box, containingBlock, 0)
	b.layoutChildren(box)
	b.calculateBlockHeight(box)
}

// resolveBoxModel resolves width and horizontal margins per CSS 2.1
// §10.3.3, and positions the box's content-area X coordinate, but does not
// lay out children; callers decide how children are laid out (normal block
// flow, table rows, flex items, or none for a replaced element). When
// overrideWidth is non-zero it is used instead of the style's width (for
// replaced elements sized by their intrinsic dimensions).
func (b *builder) resolveBoxModel(box *Node, containingBlock Dimensions, overrideWidth float64) {
	st := box.Style
	cbWidth := containingBlock.Content.Width

	marginLeft, marginLeftAuto := resolveEdge(st.Margin.Left)
	marginRight, marginRightAuto := resolveEdge(st.Margin.Right)
	paddingLeft := st.Padding.Left.Px
	paddingRight := st.Padding.Right.Px
	borderLeft := st.Borders.Left.WidthPx
	borderRight := st.Borders.Right.WidthPx

	box.Dimensions.Padding.Left = paddingLeft
	box.Dimensions.Padding.Right = paddingRight
	box.Dimensions.Border.Left = borderLeft
	box.Dimensions.Border.Right = borderRight

	var width float64
	if overrideWidth > 0 {
		width = overrideWidth
		used := marginLeft + marginRight + borderLeft + borderRight + paddingLeft + paddingRight + width
		switch {
		case marginLeftAuto && marginRightAuto:
			extra := (cbWidth - used) / 2
			if extra > 0 {
				marginLeft += extra
				marginRight += extra
			}
		case marginLeftAuto:
			marginLeft += cbWidth - used
		case marginRightAuto:
			marginRight += cbWidth - used
		}
	} else {
		widthAuto := st.Width.Kind == style.SizeAuto || st.Width.Kind == style.SizeIntrinsic
		width = st.Width.Px
		if widthAuto {
			width = cbWidth - marginLeft - marginRight - borderLeft - borderRight - paddingLeft - paddingRight
			if width < 0 {
				width = 0
			}
		} else {
			used := marginLeft + marginRight + borderLeft + borderRight + paddingLeft + paddingRight + width
			switch {
			case marginLeftAuto && marginRightAuto:
				extra := (cbWidth - used) / 2
				if extra > 0 {
					marginLeft += extra
					marginRight += extra
				}
			case marginLeftAuto:
				marginLeft += cbWidth - used
			case marginRightAuto:
				marginRight += cbWidth - used
			default:
				// Over-constrained: CSS 2.1 §10.3.3 solves for margin-right.
				if used != cbWidth {
					marginRight += cbWidth - used
				}
			}
		}
		if st.MaxWidth.Kind == style.SizeLength && width > st.MaxWidth.Px {
			width = st.MaxWidth.Px
		}
	}

	box.Dimensions.Content.Width = width
	box.Dimensions.Margin.Left = marginLeft
	box.Dimensions.Margin.Right = marginRight

	box.Dimensions.Content.X = containingBlock.Content.X + marginLeft + borderLeft + paddingLeft
}

func resolveEdge(e style.Edge) (px float64, isAuto bool) {
	if e.Auto {
		return 0, true
	}
	return e.Px, false
}

// calculateBlockHeight applies an explicit height per CSS 2.1 §10.6.3;
// auto height was already set by layoutChildren to the flow cursor.
func (b *builder) calculateBlockHeight(box *Node) {
	st := box.Style
	if st.Height.Kind == style.SizeLength {
		box.Dimensions.Content.Height = st.Height.Px
	}
	if st.MaxHeight.Kind == style.SizeLength && box.Dimensions.Content.Height > st.MaxHeight.Px {
		box.Dimensions.Content.Height = st.MaxHeight.Px
	}
}

// layoutChildren lays out box's children in normal flow, applying margin
// collapsing between adjacent in-flow block siblings and through box's
// own top/bottom edge when it carries no border or padding there
// (CSS 2.1 §8.3.1).
func (b *builder) layoutChildren(box *Node) {
	st := box.Style
	paddingTop, paddingBottom := st.Padding.Top.Px, st.Padding.Bottom.Px
	borderTop, borderBottom := st.Borders.Top.WidthPx, st.Borders.Bottom.WidthPx
	box.Dimensions.Padding.Top = paddingTop
	box.Dimensions.Padding.Bottom = paddingBottom
	box.Dimensions.Border.Top = borderTop
	box.Dimensions.Border.Bottom = borderBottom

	suppressTop := borderTop == 0 && paddingTop == 0
	suppressBottom := borderBottom == 0 && paddingBottom == 0

	contentCB := Dimensions{Content: geom.Rect{
		X: box.Dimensions.Content.X, Y: box.Dimensions.Content.Y, Width: box.Dimensions.Content.Width,
	}}

	// Normalize box.Children up front: fold each contiguous inline-level
	// run into one AnonymousBox, per CSS 2.1 §9.2.1.1.
	normalized := normalizeChildren(box.Children)
	box.Children = normalized

	cursor := 0.0
	var pendingBottom float64
	for i, child := range normalized {
		if child.Box == AnonymousBox {
			gap := 0.0
			if i > 0 {
				gap = pendingBottom
			}
			top := cursor + gap
			b.layoutInlineRun(child, contentCB, top)
			cursor = top + child.Dimensions.Content.Height
			pendingBottom = 0
			continue
		}

		top := topMarginOf(child)
		var gap float64
		if i == 0 {
			if suppressTop {
				gap = 0
			} else {
				gap = top
			}
		} else {
			gap = collapseMargins(pendingBottom, top)
		}
		borderTopY := cursor + gap
		b.layoutBlockAt(child, contentCB, borderTopY)
		cursor = borderTopY + child.Dimensions.BorderBox().Height
		pendingBottom = bottomMarginOf(child)

		if i == len(normalized)-1 && !suppressBottom {
			cursor += pendingBottom
			pendingBottom = 0
		}
	}

	box.Dimensions.Content.Height = cursor
}

// normalizeChildren collapses each contiguous run of inline-level children
// into a single AnonymousBox, leaving block-level children untouched. The
// anonymous box gets a synthetic zero-value style rather than its
// container's: CSS 2.1 §9.2.1.1 gives anonymous boxes zero-valued margin,
// border, and padding, so it contributes nothing of its own to margin
// collapsing or the box model, regardless of the container's own style.
func normalizeChildren(children []*Node) []*Node {
	var out []*Node
	i := 0
	for i < len(children) {
		if !isInlineLevel(children[i]) {
			out = append(out, children[i])
			i++
			continue
		}
		j := i
		for j < len(children) && isInlineLevel(children[j]) {
			j++
		}
		out = append(out, &Node{Box: AnonymousBox, Style: &style.ComputedStyle{}, Children: children[i:j]})
		i = j
	}
	return out
}

func marginTopPx(n *Node) float64 {
	px, _ := resolveEdge(n.Style.Margin.Top)
	return px
}

func marginBottomPx(n *Node) float64 {
	px, _ := resolveEdge(n.Style.Margin.Bottom)
	return px
}

// collapseMargins implements CSS 2.1 §8.3.1's adjoining-margin rule:
// max(|m1|,|m2|) when both non-negative, the sum of the most positive
// and most negative margin for mixed sign, min(m1,m2) when both negative.
func collapseMargins(m1, m2 float64) float64 {
	switch {
	case m1 >= 0 && m2 >= 0:
		return math.Max(m1, m2)
	case m1 < 0 && m2 < 0:
		return math.Min(m1, m2)
	default:
		return m1 + m2
	}
}

// participatesInCollapsing reports whether n is an ordinary in-flow block
// box whose margins participate in collapsing (CSS 2.1 §8.3.1 excludes
// floats, absolutely positioned boxes, and boxes establishing a new block
// formatting context; table/flex/table-cell are the BFC-establishing cases
// this engine models, along with flow-root).
func participatesInCollapsing(n *Node) bool {
	if n.Box != BlockBox && n.Box != AnonymousBox && n.Box != ListItemBox {
		return false
	}
	if n.Style.Position == style.PositionAbsolute || n.Style.Position == style.PositionFixed {
		return false
	}
	return n.Style.Display.Inside == style.InsideFlow || n.Style.Display.Inside == style.InsideListItem
}

// firstInFlowBlockChild returns n's first child if it is in-flow block-level
// content; an inline run (already folded into an AnonymousBox with zero
// margin) naturally participates too, since an anonymous box never blocks
// collapse-through any differently than a zero-margin block would.
func firstInFlowBlockChild(n *Node) *Node {
	if len(n.Children) == 0 {
		return nil
	}
	c := n.Children[0]
	if !participatesInCollapsing(c) {
		return nil
	}
	return c
}

func lastInFlowBlockChild(n *Node) *Node {
	if len(n.Children) == 0 {
		return nil
	}
	c := n.Children[len(n.Children)-1]
	if !participatesInCollapsing(c) {
		return nil
	}
	return c
}

// topMarginOf is n's margin-top as it is experienced from outside n: its
// own declared margin, collapsed through with its first in-flow block
// child's top margin when n has no top border or padding to block it.
func topMarginOf(n *Node) float64 {
	m := marginTopPx(n)
	if !participatesInCollapsing(n) {
		return m
	}
	if n.Style.Borders.Top.WidthPx != 0 || n.Style.Padding.Top.Px != 0 {
		return m
	}
	if fc := firstInFlowBlockChild(n); fc != nil {
		return collapseMargins(m, topMarginOf(fc))
	}
	return m
}

// bottomMarginOf is the symmetric case for n's trailing edge.
func bottomMarginOf(n *Node) float64 {
	m := marginBottomPx(n)
	if !participatesInCollapsing(n) {
		return m
	}
	if n.Style.Borders.Bottom.WidthPx != 0 || n.Style.Padding.Bottom.Px != 0 {
		return m
	}
	if lc := lastInFlowBlockChild(n); lc != nil {
		return collapseMargins(m, bottomMarginOf(lc))
	}
	return m
}

func isInlineLevel(n *Node) bool {
	return n.Box == InlineBox || n.Box == TextBox
}
