package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/renderkit/renderkit/geom"
	"github.com/renderkit/renderkit/internal/asciifold"
)

// tableBorderSpacingPx is the gap CSS2.1 §17.6.1 inserts between adjacent
// cell borders under the default (separated) border model. The UA
// stylesheet declares `border-spacing: 2px` but the cascade has no
// border-spacing property yet (see DESIGN.md), so this mirrors that
// default as a fixed constant rather than a cascaded value.
const tableBorderSpacingPx = 2.0

type tableCell struct {
	node     *Node
	colStart int
	colSpan  int
}

// layoutTable lays out a table's principal box per CSS 2.1 §17: an
// automatic column-width algorithm (§17.5.2.2) with colspan support, a
// caption placed above the row content, and border-spacing between
// cells (§17.6.1). Rows may sit directly under the table or inside a
// thead/tbody/tfoot row group, per the table-row-group display the user
// agent stylesheet assigns those elements.
func (b *builder) layoutTable(box *Node, containingBlock Dimensions) {
	b.resolveBoxModel(box, containingBlock, 0)

	var captions []*Node
	var rows []*Node
	for _, child := range box.Children {
		switch child.Box {
		case TableCaptionBox:
			captions = append(captions, child)
		case TableRowBox:
			rows = append(rows, child)
		case TableRowGroupBox:
			for _, r := range child.Children {
				if r.Box == TableRowBox {
					rows = append(rows, r)
				}
			}
		}
	}

	cursorY := box.Dimensions.Content.Y
	for _, cap := range captions {
		b.layoutBlock(cap, Dimensions{Content: geom.Rect{
			X: box.Dimensions.Content.X, Y: cursorY, Width: box.Dimensions.Content.Width,
		}})
		cursorY += cap.Dimensions.MarginBox().Height
	}

	grid := b.rowCells(rows)
	numCols := 0
	for _, row := range grid {
		cols := 0
		for _, c := range row {
			cols += c.colSpan
		}
		if cols > numCols {
			numCols = cols
		}
	}
	colWidths := b.calculateColumnWidths(grid, numCols, box.Dimensions.Content.Width)

	cursorY += tableBorderSpacingPx
	for _, row := range rows {
		rowTop := cursorY
		rowX := box.Dimensions.Content.X + tableBorderSpacingPx
		rowHeight := 0.0

		cells := rowCellsOf(row)
		col := 0
		for _, cell := range cells {
			span := b.colSpanOf(cell)
			width := spanWidth(colWidths, col, span)
			b.layoutBlock(cell, Dimensions{Content: geom.Rect{
				X: rowX, Y: rowTop, Width: width,
			}})
			if h := cell.Dimensions.MarginBox().Height; h > rowHeight {
				rowHeight = h
			}
			rowX += width + tableBorderSpacingPx
			col += span
		}

		for _, cell := range cells {
			b.applyVerticalAlignment(cell, rowHeight)
		}

		row.Dimensions.Content.X = box.Dimensions.Content.X
		row.Dimensions.Content.Y = rowTop
		row.Dimensions.Content.Width = box.Dimensions.Content.Width
		row.Dimensions.Content.Height = rowHeight
		cursorY = rowTop + rowHeight + tableBorderSpacingPx
	}

	box.Dimensions.Content.Height = cursorY - box.Dimensions.Content.Y
	b.calculateBlockHeight(box)

	for _, child := range box.Children {
		if child.Box != TableRowGroupBox {
			continue
		}
		bounds := groupBounds(child)
		child.Dimensions.Content = bounds
	}
}

// groupBounds computes a thead/tbody/tfoot wrapper's bounding rect from
// its laid-out row children, since the row group itself never
// participates in column-width measurement or flow positioning.
func groupBounds(group *Node) geom.Rect {
	var r geom.Rect
	first := true
	for _, row := range group.Children {
		rb := row.Dimensions.Content
		if first {
			r = rb
			first = false
			continue
		}
		if rb.Y < r.Y {
			r.Y = rb.Y
		}
		if rb.Right() > r.Right() {
			r.Width = rb.Right() - r.X
		}
		if rb.Bottom() > r.Bottom() {
			r.Height = rb.Bottom() - r.Y
		}
	}
	return r
}

// rowCellsOf returns row's TableCellBox children in source order.
func rowCellsOf(row *Node) []*Node {
	var cells []*Node
	for _, c := range row.Children {
		if c.Box == TableCellBox {
			cells = append(cells, c)
		}
	}
	return cells
}

// rowCells builds the full grid's per-row cell list with resolved column
// starts, so colspan can be accounted for when estimating column widths.
func (b *builder) rowCells(rows []*Node) [][]tableCell {
	grid := make([][]tableCell, len(rows))
	for i, row := range rows {
		col := 0
		var out []tableCell
		for _, cell := range rowCellsOf(row) {
			span := b.colSpanOf(cell)
			out = append(out, tableCell{node: cell, colStart: col, colSpan: span})
			col += span
		}
		grid[i] = out
	}
	return grid
}

// colSpanOf reads a cell's `colspan` attribute, defaulting to 1 when
// absent or not a positive integer (HTML5 §4.9.11).
func (b *builder) colSpanOf(cell *Node) int {
	if cell.Element == 0 {
		return 1
	}
	raw := strings.TrimSpace(b.doc.Node(cell.Element).GetAttribute("colspan"))
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// calculateColumnWidths runs a simplified CSS2.1 §17.5.2.2 auto-layout
// pass: each cell's natural (single-line) content width is estimated via
// the TextMeasurer, colspan cells distribute their requirement evenly
// over the columns they cross, and any leftover table width beyond what
// columns need is distributed evenly so the grid always fills the table.
func (b *builder) calculateColumnWidths(grid [][]tableCell, numCols int, tableWidth float64) []float64 {
	if numCols == 0 {
		return nil
	}
	widths := make([]float64, numCols)
	for _, row := range grid {
		for _, cell := range row {
			w := b.estimateCellWidth(cell.node)
			if cell.colSpan == 1 {
				if cell.colStart < numCols && w > widths[cell.colStart] {
					widths[cell.colStart] = w
				}
				continue
			}
			end := cell.colStart + cell.colSpan
			if end > numCols {
				end = numCols
			}
			existing := 0.0
			for c := cell.colStart; c < end; c++ {
				existing += widths[c]
			}
			if deficit := w - existing - float64(cell.colSpan-1)*tableBorderSpacingPx; deficit > 0 {
				share := deficit / float64(end-cell.colStart)
				for c := cell.colStart; c < end; c++ {
					widths[c] += share
				}
			}
		}
	}

	spacing := tableBorderSpacingPx * float64(numCols+1)
	total := spacing
	for _, w := range widths {
		total += w
	}
	if extra := tableWidth - total; extra > 0 {
		per := extra / float64(numCols)
		for i := range widths {
			widths[i] += per
		}
	}
	return widths
}

// estimateCellWidth measures a cell's text content as if laid out on one
// unbroken line, approximating its CSS2.1 §17.5.2.2 preferred width.
func (b *builder) estimateCellWidth(cell *Node) float64 {
	var text strings.Builder
	collectText(cell, &text)
	s := collapseWhitespace(text.String())
	if s == "" {
		return 0
	}
	st := cell.Style
	measured := b.measurer.Measure(s, st.FontSizePx, st.LineHeightPx, st.FontFamily, math.Inf(1))
	return measured.WidthPx + st.Padding.Left.Px + st.Padding.Right.Px + st.Borders.Left.WidthPx + st.Borders.Right.WidthPx
}

func collectText(n *Node, out *strings.Builder) {
	if n.Box == TextBox {
		out.WriteString(n.Text)
		out.WriteByte(' ')
		return
	}
	for _, c := range n.Children {
		collectText(c, out)
	}
}

func spanWidth(colWidths []float64, start, span int) float64 {
	end := start + span
	if end > len(colWidths) {
		end = len(colWidths)
	}
	w := 0.0
	for c := start; c < end; c++ {
		w += colWidths[c]
	}
	if span > 1 {
		w += float64(span-1) * tableBorderSpacingPx
	}
	return w
}

// applyVerticalAlignment shifts cell and its content down within the
// row's shared height per its `valign` attribute (CSS2.1 §17.5.3
// leaves this to the HTML presentational hint; "middle" is the
// conventional table-cell default).
func (b *builder) applyVerticalAlignment(cell *Node, rowHeight float64) {
	contentHeight := cell.Dimensions.BorderBox().Height
	extra := rowHeight - contentHeight
	if extra <= 0 {
		return
	}
	valign := "middle"
	if cell.Element != 0 {
		if v := strings.TrimSpace(b.doc.Node(cell.Element).GetAttribute("valign")); v != "" {
			valign = asciifold.Fold(v)
		}
	}
	var dy float64
	switch valign {
	case "top":
		dy = 0
	case "bottom":
		dy = extra
	default:
		dy = extra / 2
	}
	shiftY(cell, dy)
}
