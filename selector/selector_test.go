package selector

import (
	"testing"

	"github.com/renderkit/renderkit/cssom"
	"github.com/renderkit/renderkit/dom"
)

func parseSelectors(t *testing.T, src string) List {
	t.Helper()
	sheet := cssom.ParseStylesheet(src+" { color: red; }", cssom.OriginAuthor)
	if len(sheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
	}
	list, err := Parse(sheet.Rules[0].Prelude)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return list
}

func buildTree(t *testing.T) (*dom.Document, map[string]dom.NodeID) {
	t.Helper()
	doc := dom.NewDocument()
	ids := make(map[string]dom.NodeID)

	html := doc.CreateElement(dom.TagHTML, "")
	doc.AppendChild(doc.Root, html)
	body := doc.CreateElement(dom.TagBody, "")
	doc.AppendChild(html, body)
	ids["body"] = body

	div := doc.CreateElement(dom.TagDiv, "")
	doc.Node(div).SetAttribute("id", "main")
	doc.Node(div).SetAttribute("class", "container active")
	doc.AppendChild(body, div)
	ids["div"] = div

	p := doc.CreateElement(dom.TagP, "")
	doc.AppendChild(div, p)
	ids["p"] = p

	a := doc.CreateElement(dom.TagA, "")
	doc.Node(a).SetAttribute("href", "/x")
	doc.AppendChild(p, a)
	ids["a"] = a

	span := doc.CreateElement(dom.TagSpan, "")
	doc.Node(span).SetAttribute("data-lang", "en-US")
	doc.AppendChild(div, span)
	ids["span"] = span

	return doc, ids
}

func TestMatchesType(t *testing.T) {
	doc, ids := buildTree(t)
	list := parseSelectors(t, "div")
	ok, _ := MatchList(list, doc, ids["div"])
	if !ok {
		t.Error("expected div to match")
	}
	ok, _ = MatchList(list, doc, ids["p"])
	if ok {
		t.Error("expected p not to match 'div'")
	}
}

func TestMatchesIDAndClass(t *testing.T) {
	doc, ids := buildTree(t)
	list := parseSelectors(t, "#main.container")
	ok, spec := MatchList(list, doc, ids["div"])
	if !ok {
		t.Fatal("expected #main.container to match div")
	}
	if spec.IDs != 1 || spec.Classes != 1 {
		t.Errorf("unexpected specificity: %+v", spec)
	}
}

func TestMatchesDescendantCombinator(t *testing.T) {
	doc, ids := buildTree(t)
	list := parseSelectors(t, "div a")
	ok, _ := MatchList(list, doc, ids["a"])
	if !ok {
		t.Error("expected 'div a' to match nested anchor")
	}
}

func TestMatchesChildCombinator(t *testing.T) {
	doc, ids := buildTree(t)
	list := parseSelectors(t, "div > p")
	ok, _ := MatchList(list, doc, ids["p"])
	if !ok {
		t.Error("expected 'div > p' to match direct child")
	}
	list2 := parseSelectors(t, "body > p")
	ok, _ = MatchList(list2, doc, ids["p"])
	if ok {
		t.Error("expected 'body > p' not to match grandchild")
	}
}

func TestMatchesAdjacentSibling(t *testing.T) {
	doc, ids := buildTree(t)
	list := parseSelectors(t, "p + span")
	ok, _ := MatchList(list, doc, ids["span"])
	if !ok {
		t.Error("expected 'p + span' to match adjacent sibling")
	}
}

func TestMatchesAttributeSelectors(t *testing.T) {
	doc, ids := buildTree(t)

	ok, _ := MatchList(parseSelectors(t, `[data-lang]`), doc, ids["span"])
	if !ok {
		t.Error("expected [data-lang] to match")
	}
	ok, _ = MatchList(parseSelectors(t, `[data-lang|="en"]`), doc, ids["span"])
	if !ok {
		t.Error("expected [data-lang|=en] dash-match to match 'en-US'")
	}
	ok, _ = MatchList(parseSelectors(t, `[data-lang^="en"]`), doc, ids["span"])
	if !ok {
		t.Error("expected [data-lang^=en] prefix match")
	}
	ok, _ = MatchList(parseSelectors(t, `[data-lang$="US"]`), doc, ids["span"])
	if !ok {
		t.Error("expected [data-lang$=US] suffix match")
	}
}

func TestRootPseudoClass(t *testing.T) {
	doc, ids := buildTree(t)
	html := doc.Children(doc.Root)[0]
	ok, _ := MatchList(parseSelectors(t, ":root"), doc, html)
	if !ok {
		t.Error("expected :root to match the html element")
	}
	ok, _ = MatchList(parseSelectors(t, ":root"), doc, ids["div"])
	if ok {
		t.Error("expected :root not to match a non-root element")
	}
}

func TestUnsupportedPseudoClassFailsMatchWithoutError(t *testing.T) {
	doc, ids := buildTree(t)
	list := parseSelectors(t, "div:hover")
	ok, _ := MatchList(list, doc, ids["div"])
	if ok {
		t.Error("expected unsupported pseudo-class to fail-match")
	}
}

func TestSpecificityOrdering(t *testing.T) {
	low := parseSelectors(t, "div")[0].Specificity()
	mid := parseSelectors(t, ".container")[0].Specificity()
	high := parseSelectors(t, "#main")[0].Specificity()

	if low.Compare(mid) >= 0 {
		t.Error("expected type selector to be less specific than class")
	}
	if mid.Compare(high) >= 0 {
		t.Error("expected class selector to be less specific than id")
	}
}
