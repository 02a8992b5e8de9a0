package selector

import (
	"strings"

	"github.com/renderkit/renderkit/dom"
	"github.com/renderkit/renderkit/internal/asciifold"
)

// MatchList reports whether any complex selector in list matches el,
// returning the specificity of the first selector that matched (each
// selector in a comma-separated list is tried independently; a rule
// counts once per the branch that actually matched, mirroring the
// teacher's matchRules "break" behavior).
func MatchList(list List, doc *dom.Document, el dom.NodeID) (bool, Specificity) {
	for _, complex := range list {
		if Matches(complex, doc, el) {
			return true, complex.Specificity()
		}
	}
	return false, Specificity{}
}

// Matches reports whether a single complex selector matches el, walking
// the compound chain right-to-left (subject first, ancestors/siblings
// checked only once the rightmost compound matches).
func Matches(c Complex, doc *dom.Document, el dom.NodeID) bool {
	if len(c.Compounds) == 0 {
		return false
	}
	last := len(c.Compounds) - 1
	if !matchesCompound(doc, el, c.Compounds[last]) {
		return false
	}
	return matchChain(doc, el, c, last)
}

// matchChain checks the combinator chain to the left of Compounds[idx],
// which has already been confirmed to match el.
func matchChain(doc *dom.Document, el dom.NodeID, c Complex, idx int) bool {
	if idx == 0 {
		return true
	}
	comb := c.Combinators[idx-1]
	compound := c.Compounds[idx-1]

	switch comb {
	case Descendant:
		for p := doc.Parent(el); p != 0; p = doc.Parent(p) {
			if matchesCompound(doc, p, compound) && matchChain(doc, p, c, idx-1) {
				return true
			}
		}
		return false

	case Child:
		p := doc.Parent(el)
		if p == 0 {
			return false
		}
		return matchesCompound(doc, p, compound) && matchChain(doc, p, c, idx-1)

	case AdjacentSibling:
		s := prevElementSibling(doc, el)
		if s == 0 {
			return false
		}
		return matchesCompound(doc, s, compound) && matchChain(doc, s, c, idx-1)

	case GeneralSibling:
		for s := prevElementSibling(doc, el); s != 0; s = prevElementSibling(doc, s) {
			if matchesCompound(doc, s, compound) && matchChain(doc, s, c, idx-1) {
				return true
			}
		}
		return false
	}
	return false
}

// prevElementSibling returns the nearest preceding sibling that is an
// element, skipping text/comment nodes, or 0 if none.
func prevElementSibling(doc *dom.Document, id dom.NodeID) dom.NodeID {
	n := doc.Node(id)
	for s := n.PrevSibling; s != 0; s = doc.Node(s).PrevSibling {
		if doc.Node(s).Kind == dom.KindElement {
			return s
		}
	}
	return 0
}

func matchesCompound(doc *dom.Document, el dom.NodeID, c Compound) bool {
	n := doc.Node(el)
	if n.Kind != dom.KindElement {
		return false
	}
	if c.Type != "" && !asciifold.Equal(n.TagName(), c.Type) {
		return false
	}
	if c.ID != "" && n.ID() != c.ID {
		return false
	}
	if len(c.Classes) > 0 {
		classes := n.Classes()
		for _, want := range c.Classes {
			if !containsClass(classes, want) {
				return false
			}
		}
	}
	for _, a := range c.Attrs {
		if !matchAttr(n, a) {
			return false
		}
	}
	for _, pc := range c.PseudoClasses {
		if !matchPseudoClass(doc, el, pc) {
			return false
		}
	}
	return true
}

func containsClass(classes []string, want string) bool {
	for _, c := range classes {
		if c == want {
			return true
		}
	}
	return false
}

// matchPseudoClass implements a small supported subset of pseudo-classes:
// :root and :link. Anything else (including functional pseudo-classes,
// which are recorded with a trailing "()") fails to match without error.
func matchPseudoClass(doc *dom.Document, el dom.NodeID, name string) bool {
	switch name {
	case "root":
		return doc.Parent(el) == doc.Root
	case "link":
		n := doc.Node(el)
		return n.Tag == dom.TagA && n.GetAttribute("href") != ""
	default:
		return false
	}
}

// matchAttr evaluates one `[...]` attribute selector against an element.
// Values compare case-sensitively unless the selector carries the `i`
// flag; no attribute is compared case-insensitively by default, and an
// `s` flag changes nothing.
func matchAttr(n *dom.Node, a AttrSelector) bool {
	if !n.HasAttribute(a.Name) {
		return false
	}
	val := n.GetAttribute(a.Name)
	if a.Op == AttrExists {
		return true
	}

	cmp := a.Value
	actual := val
	if a.CaseInsensitive {
		cmp = asciifold.Fold(cmp)
		actual = asciifold.Fold(actual)
	}

	switch a.Op {
	case AttrEquals:
		return actual == cmp
	case AttrIncludes:
		for _, word := range strings.Fields(actual) {
			if word == cmp {
				return true
			}
		}
		return false
	case AttrDashMatch:
		return actual == cmp || strings.HasPrefix(actual, cmp+"-")
	case AttrPrefix:
		return cmp != "" && strings.HasPrefix(actual, cmp)
	case AttrSuffix:
		return cmp != "" && strings.HasSuffix(actual, cmp)
	case AttrSubstring:
		return cmp != "" && strings.Contains(actual, cmp)
	}
	return false
}
