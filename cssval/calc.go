package cssval

import (
	"fmt"
	"math"

	"github.com/renderkit/renderkit/cssom"
	"github.com/renderkit/renderkit/csstok"
	"github.com/renderkit/renderkit/internal/asciifold"
)

type calcKind int

const (
	calcNumber calcKind = iota
	calcLength
	calcPercentage
	calcKeyword
	calcBinary
	calcFunc
)

// CalcNode is a parsed math-function expression tree: a plain number, a
// length, a percentage, a math constant keyword, a binary +/-/*// node,
// or a min()/max()/clamp() call over sub-nodes. nil sub-nodes inside a
// clamp() argument list represent the 'none' keyword (an unbounded end).
type CalcNode struct {
	kind   calcKind
	num    float64
	length Length
	pct    Percentage
	keyword string
	op     byte
	left   *CalcNode
	right  *CalcNode
	fn     string
	args   []*CalcNode
}

// Resolve evaluates the expression to a pixel value. Division by zero and
// unresolvable math constants yield NaN, matching calc()'s defined
// behavior rather than panicking.
func (n *CalcNode) Resolve(rc RelativeContext, ac AbsoluteContext, basis PercentBasis) float64 {
	if n == nil {
		return math.NaN()
	}
	switch n.kind {
	case calcNumber:
		return n.num
	case calcLength:
		return n.length.Resolve(rc, ac)
	case calcPercentage:
		return n.pct.Resolve(basis)
	case calcKeyword:
		switch n.keyword {
		case "e":
			return math.E
		case "pi":
			return math.Pi
		case "infinity":
			return math.Inf(1)
		case "-infinity":
			return math.Inf(-1)
		default:
			return math.NaN()
		}
	case calcBinary:
		l := n.left.Resolve(rc, ac, basis)
		r := n.right.Resolve(rc, ac, basis)
		switch n.op {
		case '+':
			return l + r
		case '-':
			return l - r
		case '*':
			return l * r
		case '/':
			if r == 0 {
				return math.NaN()
			}
			return l / r
		default:
			return math.NaN()
		}
	case calcFunc:
		switch n.fn {
		case "min":
			m := math.Inf(1)
			for _, a := range n.args {
				if v := a.Resolve(rc, ac, basis); v < m {
					m = v
				}
			}
			return m
		case "max":
			m := math.Inf(-1)
			for _, a := range n.args {
				if v := a.Resolve(rc, ac, basis); v > m {
					m = v
				}
			}
			return m
		case "clamp":
			lo, val, hi := math.Inf(-1), math.NaN(), math.Inf(1)
			if n.args[0] != nil {
				lo = n.args[0].Resolve(rc, ac, basis)
			}
			val = n.args[1].Resolve(rc, ac, basis)
			if n.args[2] != nil {
				hi = n.args[2].Resolve(rc, ac, basis)
			}
			return math.Max(lo, math.Min(val, hi))
		default:
			return math.NaN()
		}
	default:
		return math.NaN()
	}
}

// ParseCalc parses a property value that may be a bare length/percentage/
// number or a calc()/min()/max()/clamp() expression. CSS Values and Units
// Module Level 4 §10 (math functions).
func ParseCalc(cvs []cssom.ComponentValue) (*CalcNode, error) {
	trimmed := trimCV(cvs)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("cssval: empty calc value")
	}
	p := &calcParser{cvs: trimmed}
	node, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	if p.i != len(p.cvs) {
		return nil, fmt.Errorf("cssval: unexpected trailing tokens in calc value")
	}
	return node, nil
}

type calcParser struct {
	cvs []cssom.ComponentValue
	i   int
}

func (p *calcParser) peek() (cssom.ComponentValue, bool) {
	if p.i >= len(p.cvs) {
		return cssom.ComponentValue{}, false
	}
	return p.cvs[p.i], true
}

func (p *calcParser) next() (cssom.ComponentValue, bool) {
	cv, ok := p.peek()
	if ok {
		p.i++
	}
	return cv, ok
}

func (p *calcParser) skipWS() bool {
	had := false
	for {
		cv, ok := p.peek()
		if !ok || !cv.IsToken(csstok.Whitespace) {
			return had
		}
		p.i++
		had = true
	}
}

func (p *calcParser) parseSum() (*CalcNode, error) {
	left, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	for {
		save := p.i
		hadWS := p.skipWS()
		opCV, ok := p.peek()
		if !hadWS || !ok || opCV.Kind != cssom.CVToken || opCV.Token.Kind != csstok.Delim ||
			(opCV.Token.Value != "+" && opCV.Token.Value != "-") {
			p.i = save
			return left, nil
		}
		p.next()
		if !p.skipWS() {
			return nil, fmt.Errorf("cssval: calc() requires whitespace around +/-")
		}
		right, err := p.parseProduct()
		if err != nil {
			return nil, err
		}
		left = &CalcNode{kind: calcBinary, op: opCV.Token.Value[0], left: left, right: right}
	}
}

func (p *calcParser) parseProduct() (*CalcNode, error) {
	left, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	for {
		save := p.i
		p.skipWS()
		opCV, ok := p.peek()
		if !ok || opCV.Kind != cssom.CVToken || opCV.Token.Kind != csstok.Delim ||
			(opCV.Token.Value != "*" && opCV.Token.Value != "/") {
			p.i = save
			return left, nil
		}
		p.next()
		p.skipWS()
		right, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		left = &CalcNode{kind: calcBinary, op: opCV.Token.Value[0], left: left, right: right}
	}
}

func (p *calcParser) parseValue() (*CalcNode, error) {
	p.skipWS()
	cv, ok := p.next()
	if !ok {
		return nil, fmt.Errorf("cssval: unexpected end of calc value")
	}
	switch cv.Kind {
	case cssom.CVToken:
		switch cv.Token.Kind {
		case csstok.Number:
			return &CalcNode{kind: calcNumber, num: cv.Token.Numeric.Value}, nil
		case csstok.Dimension:
			e, ok := unitTable[asciifold.Fold(cv.Token.Unit)]
			if !ok {
				return nil, fmt.Errorf("cssval: unknown unit %q", cv.Token.Unit)
			}
			return &CalcNode{kind: calcLength, length: Length{Value: cv.Token.Numeric.Value, Unit: e.unit}}, nil
		case csstok.Percentage:
			return &CalcNode{kind: calcPercentage, pct: Percentage{Value: cv.Token.Numeric.Value}}, nil
		case csstok.Ident:
			kw := asciifold.Fold(cv.Token.Value)
			switch kw {
			case "e", "pi", "infinity", "-infinity", "nan":
				return &CalcNode{kind: calcKeyword, keyword: kw}, nil
			}
			return nil, fmt.Errorf("cssval: unexpected identifier %q in calc()", cv.Token.Value)
		default:
			return nil, fmt.Errorf("cssval: unexpected token in calc()")
		}
	case cssom.CVBlock:
		if cv.Open != csstok.OpenParen {
			return nil, fmt.Errorf("cssval: unexpected block in calc()")
		}
		inner := &calcParser{cvs: trimCV(cv.Value)}
		node, err := inner.parseSum()
		if err != nil {
			return nil, err
		}
		return node, nil
	case cssom.CVFunction:
		name := asciifold.Fold(cv.Name)
		switch name {
		case "calc":
			inner := &calcParser{cvs: trimCV(cv.Value)}
			return inner.parseSum()
		case "min", "max":
			parts := splitTopLevelCommas(cv.Value)
			args := make([]*CalcNode, 0, len(parts))
			for _, part := range parts {
				inner := &calcParser{cvs: trimCV(part)}
				node, err := inner.parseSum()
				if err != nil {
					return nil, err
				}
				args = append(args, node)
			}
			return &CalcNode{kind: calcFunc, fn: name, args: args}, nil
		case "clamp":
			parts := splitTopLevelCommas(cv.Value)
			if len(parts) != 3 {
				return nil, fmt.Errorf("cssval: clamp() requires exactly 3 arguments")
			}
			args := make([]*CalcNode, 3)
			for i, part := range parts {
				trimmed := trimCV(part)
				if len(trimmed) == 1 && trimmed[0].IsToken(csstok.Ident) && asciifold.Equal(trimmed[0].Token.Value, "none") {
					args[i] = nil
					continue
				}
				inner := &calcParser{cvs: trimmed}
				node, err := inner.parseSum()
				if err != nil {
					return nil, err
				}
				args[i] = node
			}
			return &CalcNode{kind: calcFunc, fn: "clamp", args: args}, nil
		default:
			return nil, fmt.Errorf("cssval: unsupported function %q in calc()", cv.Name)
		}
	default:
		return nil, fmt.Errorf("cssval: unexpected component value in calc()")
	}
}

// trimCV trims leading/trailing whitespace component values.
func trimCV(cvs []cssom.ComponentValue) []cssom.ComponentValue {
	start := 0
	for start < len(cvs) && cvs[start].IsToken(csstok.Whitespace) {
		start++
	}
	end := len(cvs)
	for end > start && cvs[end-1].IsToken(csstok.Whitespace) {
		end--
	}
	return cvs[start:end]
}

// splitTopLevelCommas splits cvs on Comma component values. Nested
// function/block component values are opaque (their interior commas do
// not split) since the cssom parser already groups them.
func splitTopLevelCommas(cvs []cssom.ComponentValue) [][]cssom.ComponentValue {
	var out [][]cssom.ComponentValue
	start := 0
	for i, cv := range cvs {
		if cv.IsToken(csstok.Comma) {
			out = append(out, cvs[start:i])
			start = i + 1
		}
	}
	out = append(out, cvs[start:])
	return out
}
