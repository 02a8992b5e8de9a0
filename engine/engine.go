// Package engine wires the pipeline stages — htmltok/htmltree, cssom,
// style, and layout — into the single entry point a caller uses to turn
// an HTML document into a laid-out box tree, mirroring the way the
// teacher's cmd/browser wired its own parse/style/layout stages end to
// end.
package engine

import (
	"github.com/renderkit/renderkit/cssom"
	"github.com/renderkit/renderkit/cssval"
	"github.com/renderkit/renderkit/dom"
	"github.com/renderkit/renderkit/geom"
	"github.com/renderkit/renderkit/htmltree"
	"github.com/renderkit/renderkit/internal/xlog"
	"github.com/renderkit/renderkit/layout"
	"github.com/renderkit/renderkit/style"
)

// TextMeasurer is the text-shaping collaborator layout.Build needs to turn
// a run of text into pixel dimensions; re-exported here so callers never
// need to import the layout package just to implement it.
type TextMeasurer = layout.TextMeasurer

// ImageSizer resolves a replaced element's intrinsic size; re-exported
// from layout for the same reason as TextMeasurer.
type ImageSizer = layout.ImageSizer

// Sheet is one stylesheet to cascade alongside the document's own embedded
// <style> content, tagged with the origin it participates in the cascade
// as (CSS 2.1 §6.4.1).
type Sheet struct {
	CSS    string
	Origin cssom.Origin
}

// Diagnostics collects non-fatal issues surfaced while running a document
// through the pipeline: a CSS parse error doesn't stop the page from
// rendering, it just drops the offending rule or declaration.
type Diagnostics struct {
	CSSErrors   []cssom.ParseError
	StyleIssues map[dom.NodeID][]style.Diagnostic
	Styles      map[dom.NodeID]*style.ComputedStyle
}

// Run parses html, cascades the user-agent stylesheet plus any embedded
// <style> tags and caller-supplied sheets, and lays the result out against
// viewport. images may be nil, in which case every image gets the 300x150
// placeholder size; measurer is called for text runs and table cells
// without a nil check, so it must be non-nil for documents that have them. The per-element computed
// styles are not thrown away — they ride along on Diagnostics.Styles for
// callers (or a future render stage) that need them after layout.
func Run(htmlSrc string, sheets []Sheet, viewport geom.Rect, measurer TextMeasurer, images ImageSizer) (*layout.Tree, *dom.Document, Diagnostics) {
	doc, embedded := htmltree.Build(htmlSrc)

	ac := cssval.AbsoluteContext{
		RootFontSizePx:   16,
		ViewportWidthPx:  viewport.Width,
		ViewportHeightPx: viewport.Height,
	}

	diag := Diagnostics{StyleIssues: map[dom.NodeID][]style.Diagnostic{}}
	parsed := []*cssom.Stylesheet{style.DefaultUserAgentStylesheet()}

	for _, s := range sheets {
		sheet := cssom.ParseStylesheet(s.CSS, s.Origin)
		parsed = append(parsed, sheet)
	}
	for _, es := range embedded {
		sheet := cssom.ParseStylesheet(es.CSS, cssom.OriginAuthor)
		parsed = append(parsed, sheet)
	}

	rules := style.Compile(parsed)
	diag.Styles = cascadeDocument(doc, rules, ac, diag.StyleIssues)

	tree := layout.Build(doc, doc.Root, diag.Styles, viewport, measurer, images)

	for el, issues := range diag.StyleIssues {
		for _, d := range issues {
			xlog.Debugf("style: %s on node %d computed to its initial value (%s)", d.Property, el, d.Message)
		}
	}

	return tree, doc, diag
}

// cascadeDocument walks doc from its root, resolving every element's
// ComputedStyle in document order so each element's cascade can inherit
// from its already-resolved parent.
func cascadeDocument(doc *dom.Document, rules []style.CompiledRule, ac cssval.AbsoluteContext, issues map[dom.NodeID][]style.Diagnostic) map[dom.NodeID]*style.ComputedStyle {
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
		st, diag := style.Cascade(doc, id, rules, parent, ac)
		out[id] = st
		if len(diag) > 0 {
			issues[id] = diag
		}
		for _, c := range doc.Children(id) {
			walk(c, st)
		}
	}
	walk(doc.Root, nil)
	return out
}
