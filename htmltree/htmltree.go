// Package htmltree consumes an htmltok event stream and builds a
// dom.Document, applying the small implicit-close table real HTML
// parsing needs (HTML5 §12.2.6 tree construction, coarse subset).
//
// Beyond a plain stack-of-open-elements match/ignore recovery, it also
// closes elements implicitly when a new start tag arrives that HTML5
// says should close them (<p>, <li>, <dt>/<dd>, <option>/<optgroup>,
// <tr>, <td>/<th>).
package htmltree

import (
	"github.com/renderkit/renderkit/dom"
	"github.com/renderkit/renderkit/htmltok"
	"github.com/renderkit/renderkit/internal/asciifold"
)

// Stylesheet is a <style> element's content, captured as the tree
// builder walks past it, for the caller to parse with cssom/cssval.
type Stylesheet struct {
	CSS   string
	Attrs []htmltok.Attribute
}

// Build tokenizes and parses input into a Document, returning any
// embedded <style> stylesheets found along the way in document order.
// External <link rel=stylesheet>/<img src>/etc. URLs are left
// unresolved; call dom.ResolveURLs and dom.FetchExternalStylesheets on
// the result if the caller has a base URL.
func Build(input string) (*dom.Document, []Stylesheet) {
	b := &builder{
		doc: dom.NewDocument(),
		tok: htmltok.New(input),
	}
	b.stack = []dom.NodeID{b.doc.Root}
	b.run()
	return b.doc, b.sheets
}

type builder struct {
	doc    *dom.Document
	tok    *htmltok.Tokenizer
	stack  []dom.NodeID
	sheets []Stylesheet
}

func (b *builder) top() dom.NodeID { return b.stack[len(b.stack)-1] }

func (b *builder) run() {
	for {
		ev, status := b.tok.Step()
		switch ev.Kind {
		case htmltok.EventEOF:
			return

		case htmltok.EventText:
			if ev.Text == "" {
				continue
			}
			id := b.doc.CreateText(ev.Text)
			b.doc.AppendChild(b.top(), id)

		case htmltok.EventComment:
			id := b.doc.CreateComment(ev.Text)
			b.doc.AppendChild(b.top(), id)

		case htmltok.EventDoctype:
			id := b.doc.CreateDoctype(ev.Text)
			b.doc.AppendChild(b.doc.Root, id)

		case htmltok.EventStartTag:
			b.handleStartTag(ev, status)

		case htmltok.EventEndTag:
			b.popToMatching(ev.TagName)
		}
	}
}

func (b *builder) handleStartTag(ev htmltok.Event, status htmltok.Status) {
	tag, known := dom.LookupTag(ev.TagName)
	unknownName := ""
	if !known {
		unknownName = ev.TagName
	}

	b.closeImplicit(tag)

	id := b.doc.CreateElement(tag, unknownName)
	n := b.doc.Node(id)
	n.SelfClosing = ev.SelfClosing
	for _, a := range ev.Attrs {
		n.SetAttribute(a.Name, a.Value)
	}
	b.doc.AppendChild(b.top(), id)

	if status == htmltok.Blocked {
		// <style>: drain its raw CSS and resume; <script>: the
		// tokenizer auto-skips its body on the next Step since this
		// engine never executes script. Neither is pushed as an open
		// element — their content isn't markup.
		if tag == dom.TagStyle {
			css := b.tok.ExtractStyleContent()
			b.tok.Resume()
			b.sheets = append(b.sheets, Stylesheet{CSS: css, Attrs: ev.Attrs})
		}
		return
	}

	if !ev.SelfClosing && !n.Tag.IsVoid() && !n.Tag.IsSVGVoid() {
		b.stack = append(b.stack, id)
	}
}

// popToMatching closes elements up to and including the open element
// matching tagName; an end tag with no matching open element is ignored.
func (b *builder) popToMatching(tagName string) {
	tag, _ := dom.LookupTag(tagName)
	for i := len(b.stack) - 1; i >= 1; i-- {
		n := b.doc.Node(b.stack[i])
		if n.Kind != dom.KindElement {
			continue
		}
		if n.Tag == tag && (tag != dom.TagUnknown || asciifold.Equal(n.UnknownName, tagName)) {
			b.stack = b.stack[:i]
			return
		}
	}
}

// closeImplicit pops open elements that HTML5 closes implicitly when a
// start tag for newTag arrives, for the selected subset this tree
// builder implements.
func (b *builder) closeImplicit(newTag dom.Tag) {
	for len(b.stack) > 1 {
		n := b.doc.Node(b.top())
		if n.Kind != dom.KindElement || !implicitlyClosedBy(n.Tag, newTag) {
			return
		}
		b.stack = b.stack[:len(b.stack)-1]
	}
}

var pClosers = map[dom.Tag]bool{
	dom.TagDiv: true, dom.TagP: true, dom.TagH1: true, dom.TagH2: true,
	dom.TagH3: true, dom.TagH4: true, dom.TagH5: true, dom.TagH6: true,
	dom.TagUl: true, dom.TagOl: true, dom.TagLi: true, dom.TagDl: true,
	dom.TagDt: true, dom.TagDd: true, dom.TagBlockquote: true, dom.TagPre: true,
	dom.TagForm: true, dom.TagTable: true, dom.TagSection: true,
	dom.TagArticle: true, dom.TagAside: true, dom.TagHeader: true,
	dom.TagFooter: true, dom.TagNav: true, dom.TagMain: true,
	dom.TagFigure: true, dom.TagHr: true,
}

// implicitlyClosedBy reports whether an open element of tag `open` is
// implicitly closed by a new start tag `newTag`.
func implicitlyClosedBy(open, newTag dom.Tag) bool {
	switch open {
	case dom.TagP:
		return pClosers[newTag]
	case dom.TagLi:
		return newTag == dom.TagLi
	case dom.TagDt, dom.TagDd:
		return newTag == dom.TagDt || newTag == dom.TagDd
	case dom.TagOption:
		return newTag == dom.TagOption || newTag == dom.TagOptgroup
	case dom.TagTr:
		return newTag == dom.TagTr
	case dom.TagTd, dom.TagTh:
		return newTag == dom.TagTd || newTag == dom.TagTh || newTag == dom.TagTr
	default:
		return false
	}
}
