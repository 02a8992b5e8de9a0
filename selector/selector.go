// Package selector parses CSS selector lists from component values and
// matches them against a dom.Document: the full combinator set (child,
// adjacent sibling, general sibling), attribute selectors, and a small
// set of pseudo-classes, matched right-to-left with an (ids, classes,
// types) specificity tuple.
package selector

import "github.com/renderkit/renderkit/cssom"

// Combinator joins two compound selectors in a complex selector.
type Combinator byte

const (
	Descendant      Combinator = ' '
	Child           Combinator = '>'
	AdjacentSibling Combinator = '+'
	GeneralSibling  Combinator = '~'
)

// AttrOp is a CSS attribute selector comparison operator.
type AttrOp int

const (
	AttrExists    AttrOp = iota // [name]
	AttrEquals                  // [name=val]
	AttrIncludes                // [name~=val] (space-separated word match)
	AttrDashMatch               // [name|=val] (exact or hyphen-prefixed)
	AttrPrefix                  // [name^=val]
	AttrSuffix                  // [name$=val]
	AttrSubstring               // [name*=val]
)

// AttrSelector is one `[...]` attribute selector.
type AttrSelector struct {
	Name            string
	Op              AttrOp
	Value           string
	CaseInsensitive bool // explicit trailing `i` flag; `s` (default for most) is the absence of this
}

// Compound is an unordered set of simple selectors all matching the same
// element: an optional type, zero or more classes/attrs/pseudo-classes,
// and an optional id.
type Compound struct {
	Type          string // "" means no type constraint; "*" is stored as ""
	ID            string
	Classes       []string
	Attrs         []AttrSelector
	PseudoClasses []string
}

// Complex is a chain of Compounds joined left-to-right by Combinators;
// len(Combinators) == len(Compounds)-1.
type Complex struct {
	Compounds   []Compound
	Combinators []Combinator
}

// List is a comma-separated selector list.
type List []Complex

// Specificity is (ids, classes-and-attrs-and-pseudo-classes, types), per
// CSS 2.1 §6.4.3, ordered lexicographically.
type Specificity struct {
	IDs     int
	Classes int
	Types   int
}

// Compare returns <0, 0, >0 as s is less than, equal to, or greater than
// other.
func (s Specificity) Compare(other Specificity) int {
	if s.IDs != other.IDs {
		return s.IDs - other.IDs
	}
	if s.Classes != other.Classes {
		return s.Classes - other.Classes
	}
	return s.Types - other.Types
}

func compoundSpecificity(c Compound) Specificity {
	var s Specificity
	if c.ID != "" {
		s.IDs++
	}
	s.Classes += len(c.Classes) + len(c.Attrs) + len(c.PseudoClasses)
	if c.Type != "" {
		s.Types++
	}
	return s
}

// Specificity returns the specificity of a complex selector: the sum of
// its compounds' specificities.
func (c Complex) Specificity() Specificity {
	var total Specificity
	for _, comp := range c.Compounds {
		cs := compoundSpecificity(comp)
		total.IDs += cs.IDs
		total.Classes += cs.Classes
		total.Types += cs.Types
	}
	return total
}

// Parse parses a selector list from the prelude component values of a
// qualified rule (e.g. cssom.Rule.Prelude).
func Parse(cvs []cssom.ComponentValue) (List, error) {
	p := &selParser{cvs: cvs}
	return p.parseList()
}
