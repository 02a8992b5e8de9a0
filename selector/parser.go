package selector

import (
	"fmt"

	"github.com/renderkit/renderkit/cssom"
	"github.com/renderkit/renderkit/csstok"
	"github.com/renderkit/renderkit/internal/asciifold"
)

type selParser struct {
	cvs []cssom.ComponentValue
	i   int
}

func (p *selParser) peek() (cssom.ComponentValue, bool) {
	if p.i >= len(p.cvs) {
		return cssom.ComponentValue{}, false
	}
	return p.cvs[p.i], true
}

func (p *selParser) next() (cssom.ComponentValue, bool) {
	v, ok := p.peek()
	if ok {
		p.i++
	}
	return v, ok
}

func (p *selParser) skipWS() {
	for {
		v, ok := p.peek()
		if !ok || !v.IsToken(csstok.Whitespace) {
			return
		}
		p.i++
	}
}

func (p *selParser) parseList() (List, error) {
	var list List
	for {
		p.skipWS()
		complex, err := p.parseComplex()
		if err != nil {
			return nil, err
		}
		list = append(list, complex)
		p.skipWS()
		v, ok := p.peek()
		if !ok {
			break
		}
		if v.IsToken(csstok.Comma) {
			p.i++
			continue
		}
		return nil, fmt.Errorf("selector: unexpected token %v after selector", v)
	}
	return list, nil
}

func (p *selParser) parseComplex() (Complex, error) {
	var c Complex
	compound, err := p.parseCompound()
	if err != nil {
		return c, err
	}
	c.Compounds = append(c.Compounds, compound)

	for {
		comb, hasComb := p.peekCombinator()
		if !hasComb {
			return c, nil
		}
		p.skipWS()
		if v, ok := p.peek(); ok && v.IsToken(csstok.Comma) {
			return c, nil
		}
		if v, ok := p.peek(); !ok || (!isCompoundStart(v)) {
			return c, nil
		}
		_ = comb
		next, err := p.parseCompound()
		if err != nil {
			return c, err
		}
		c.Compounds = append(c.Compounds, next)
		c.Combinators = append(c.Combinators, comb)
	}
}

// peekCombinator consumes whitespace/combinator tokens looking ahead for
// an explicit '>' / '+' / '~' combinator, defaulting to a descendant
// combinator if only whitespace separates two compounds. Returns
// hasComb=false at a selector-list boundary (comma or end of input).
func (p *selParser) peekCombinator() (Combinator, bool) {
	sawWS := false
	for {
		v, ok := p.peek()
		if !ok {
			return 0, false
		}
		if v.IsToken(csstok.Whitespace) {
			sawWS = true
			p.i++
			continue
		}
		if v.IsToken(csstok.Comma) {
			return 0, false
		}
		if v.Kind == cssom.CVToken && v.Token.Kind == csstok.Delim {
			switch v.Token.Value {
			case ">":
				p.i++
				return Child, true
			case "+":
				p.i++
				return AdjacentSibling, true
			case "~":
				p.i++
				return GeneralSibling, true
			}
		}
		if sawWS {
			return Descendant, true
		}
		return 0, false
	}
}

func isCompoundStart(v cssom.ComponentValue) bool {
	if v.Kind == cssom.CVBlock && v.Open == csstok.OpenSquare {
		return true
	}
	if v.Kind != cssom.CVToken {
		return false
	}
	switch v.Token.Kind {
	case csstok.Ident, csstok.Hash, csstok.Colon:
		return true
	case csstok.Delim:
		return v.Token.Value == "*" || v.Token.Value == "."
	}
	return false
}

// parseCompound parses an unordered run of type/id/class/attribute/
// pseudo-class selectors with no combinator between them.
func (p *selParser) parseCompound() (Compound, error) {
	var c Compound
	sawAny := false
	for {
		v, ok := p.peek()
		if !ok || !isCompoundStart(v) {
			break
		}
		sawAny = true
		switch {
		case v.Kind == cssom.CVBlock && v.Open == csstok.OpenSquare:
			attr, err := parseAttrSelector(v.Value)
			if err != nil {
				return c, err
			}
			c.Attrs = append(c.Attrs, attr)
			p.i++

		case v.Token.Kind == csstok.Ident:
			c.Type = asciifold.Fold(v.Token.Value)
			p.i++

		case v.Token.Kind == csstok.Delim && v.Token.Value == "*":
			c.Type = ""
			p.i++

		case v.Token.Kind == csstok.Hash:
			c.ID = v.Token.Value
			p.i++

		case v.Token.Kind == csstok.Delim && v.Token.Value == ".":
			p.i++
			name, ok := p.next()
			if !ok || name.Kind != cssom.CVToken || name.Token.Kind != csstok.Ident {
				return c, fmt.Errorf("selector: expected class name after '.'")
			}
			c.Classes = append(c.Classes, name.Token.Value)

		case v.Token.Kind == csstok.Colon:
			p.i++
			// Tolerate a second colon for pseudo-elements (::before);
			// they fall into the same unsupported-pseudo bucket.
			if v2, ok := p.peek(); ok && v2.IsToken(csstok.Colon) {
				p.i++
			}
			name, ok := p.next()
			if !ok {
				return c, fmt.Errorf("selector: expected pseudo-class name after ':'")
			}
			switch name.Kind {
			case cssom.CVToken:
				if name.Token.Kind != csstok.Ident {
					return c, fmt.Errorf("selector: invalid pseudo-class")
				}
				c.PseudoClasses = append(c.PseudoClasses, asciifold.Fold(name.Token.Value))
			case cssom.CVFunction:
				// Functional pseudo-classes (:nth-child(2), :not(...)) are
				// parsed but never match: only :root/:link are supported.
				c.PseudoClasses = append(c.PseudoClasses, asciifold.Fold(name.Name)+"()")
			default:
				return c, fmt.Errorf("selector: invalid pseudo-class")
			}
		}
	}
	if !sawAny {
		return c, fmt.Errorf("selector: expected a compound selector")
	}
	return c, nil
}

// parseAttrSelector parses the contents of a `[...]` block: name,
// optional operator + value, optional case-sensitivity flag.
func parseAttrSelector(cvs []cssom.ComponentValue) (AttrSelector, error) {
	var toks []cssom.ComponentValue
	for _, v := range cvs {
		if v.IsToken(csstok.Whitespace) {
			continue
		}
		toks = append(toks, v)
	}
	if len(toks) == 0 || toks[0].Kind != cssom.CVToken || toks[0].Token.Kind != csstok.Ident {
		return AttrSelector{}, fmt.Errorf("selector: attribute selector requires a name")
	}
	a := AttrSelector{Name: toks[0].Token.Value}
	if len(toks) == 1 {
		a.Op = AttrExists
		return a, nil
	}

	idx := 1
	op, consumed, ok := parseAttrOp(toks[idx:])
	if !ok {
		return AttrSelector{}, fmt.Errorf("selector: invalid attribute operator")
	}
	a.Op = op
	idx += consumed

	if idx >= len(toks) {
		return AttrSelector{}, fmt.Errorf("selector: attribute selector missing value")
	}
	valTok := toks[idx]
	switch {
	case valTok.Kind == cssom.CVToken && valTok.Token.Kind == csstok.String:
		a.Value = valTok.Token.Value
	case valTok.Kind == cssom.CVToken && valTok.Token.Kind == csstok.Ident:
		a.Value = valTok.Token.Value
	default:
		return AttrSelector{}, fmt.Errorf("selector: invalid attribute selector value")
	}
	idx++

	if idx < len(toks) && toks[idx].Kind == cssom.CVToken && toks[idx].Token.Kind == csstok.Ident {
		flag := asciifold.Fold(toks[idx].Token.Value)
		if flag == "i" {
			a.CaseInsensitive = true
		}
	}
	return a, nil
}

// parseAttrOp recognizes `=`, `~=`, `|=`, `^=`, `$=`, `*=`, each written
// as one or two adjacent Delim tokens (CSS Syntax has no dedicated
// match-operator token).
func parseAttrOp(toks []cssom.ComponentValue) (AttrOp, int, bool) {
	if len(toks) == 0 {
		return 0, 0, false
	}
	isDelim := func(cv cssom.ComponentValue, ch string) bool {
		return cv.Kind == cssom.CVToken && cv.Token.Kind == csstok.Delim && cv.Token.Value == ch
	}
	if isDelim(toks[0], "=") {
		return AttrEquals, 1, true
	}
	if len(toks) >= 2 && isDelim(toks[1], "=") {
		switch {
		case isDelim(toks[0], "~"):
			return AttrIncludes, 2, true
		case isDelim(toks[0], "|"):
			return AttrDashMatch, 2, true
		case isDelim(toks[0], "^"):
			return AttrPrefix, 2, true
		case isDelim(toks[0], "$"):
			return AttrSuffix, 2, true
		case isDelim(toks[0], "*"):
			return AttrSubstring, 2, true
		}
	}
	return 0, 0, false
}
