package cssom

import (
	"sort"
	"strings"

	"github.com/renderkit/renderkit/csstok"
	"github.com/renderkit/renderkit/internal/asciifold"
)

// Parser consumes a csstok.Tokenizer into a tree of ComponentValues and
// Rules, following the CSS Syntax Level 3 "consume a list of rules" family
// of procedures. A one-token pushback stack stands in for CSS Syntax
// Level 3's "reconsume the current input token" operation.
type Parser struct {
	tz       *csstok.Tokenizer
	pushback []csstok.Token
	errors   []ParseError
}

// NewParser creates a Parser over src.
func NewParser(src string) *Parser {
	return &Parser{tz: csstok.New(src)}
}

func (p *Parser) next() csstok.Token {
	if n := len(p.pushback); n > 0 {
		t := p.pushback[n-1]
		p.pushback = p.pushback[:n-1]
		return t
	}
	return p.tz.Next()
}

func (p *Parser) pushBack(t csstok.Token) {
	p.pushback = append(p.pushback, t)
}

func (p *Parser) emitError(kind ErrorKind, pos csstok.Position) {
	p.errors = append(p.errors, ParseError{Kind: kind, Pos: pos})
}

// ParseStylesheet parses src as a top-level stylesheet: CDO/CDC tokens are
// discarded rather than treated as qualified-rule starts.
func ParseStylesheet(src string, origin Origin) *Stylesheet {
	p := NewParser(src)
	rules := p.consumeListOfRules(true)
	sort.Slice(p.errors, func(i, j int) bool { return lessPos(p.errors[i].Pos, p.errors[j].Pos) })
	return &Stylesheet{Rules: rules, Origin: origin, Errors: p.errors, TokenErrors: p.tz.Errors}
}

// ParseStyleAttribute parses src as a standalone list of declarations, the
// grammar used for an element's inline `style` attribute.
func ParseStyleAttribute(src string) ([]Declaration, []ParseError) {
	p := NewParser(src)
	cvs := p.consumeListOfComponentValues()
	decls, _, errs := ParseDeclarationList(cvs)
	errs = append(errs, p.errors...)
	sort.Slice(errs, func(i, j int) bool { return lessPos(errs[i].Pos, errs[j].Pos) })
	return decls, errs
}

func lessPos(a, b csstok.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column < b.Column
}

func (p *Parser) consumeListOfRules(topLevel bool) []Rule {
	var rules []Rule
	for {
		tok := p.next()
		switch tok.Kind {
		case csstok.Whitespace:
			continue
		case csstok.EOF:
			return rules
		case csstok.CDO, csstok.CDC:
			if topLevel {
				continue
			}
			p.pushBack(tok)
			if r, ok := p.consumeQualifiedRule(); ok {
				rules = append(rules, r)
			}
		case csstok.AtKeyword:
			p.pushBack(tok)
			ar := p.consumeAtRule()
			rules = append(rules, Rule{
				Kind: RuleAt, Name: ar.Name, Prelude: ar.Prelude,
				Block: ar.Block, HasBlock: ar.HasBlock, Pos: ar.Pos,
			})
		default:
			p.pushBack(tok)
			if r, ok := p.consumeQualifiedRule(); ok {
				rules = append(rules, r)
			}
		}
	}
}

func (p *Parser) consumeQualifiedRule() (Rule, bool) {
	startPos := p.peekPos()
	var prelude []ComponentValue
	for {
		tok := p.next()
		switch tok.Kind {
		case csstok.EOF:
			p.emitError(ErrIncompleteQualifiedRule, tok.Pos)
			return Rule{}, false
		case csstok.OpenCurly:
			block := p.consumeSimpleBlockContents(csstok.OpenCurly)
			return Rule{Kind: RuleQualified, Prelude: trimWS(prelude), Block: block, Pos: startPos}, true
		default:
			p.pushBack(tok)
			prelude = append(prelude, p.consumeComponentValue())
		}
	}
}

func (p *Parser) consumeAtRule() AtRule {
	tok := p.next() // AtKeyword
	name := tok.Value
	pos := tok.Pos
	var prelude []ComponentValue
	for {
		t := p.next()
		switch t.Kind {
		case csstok.Semicolon:
			return AtRule{Name: name, Prelude: trimWS(prelude), Pos: pos}
		case csstok.EOF:
			p.emitError(ErrEOFInAtRule, t.Pos)
			return AtRule{Name: name, Prelude: trimWS(prelude), Pos: pos}
		case csstok.OpenCurly:
			block := p.consumeSimpleBlockContents(csstok.OpenCurly)
			return AtRule{Name: name, Prelude: trimWS(prelude), Block: block, HasBlock: true, Pos: pos}
		default:
			p.pushBack(t)
			prelude = append(prelude, p.consumeComponentValue())
		}
	}
}

// consumeComponentValue consumes one component value: a simple block, a
// function, or a single token.
func (p *Parser) consumeComponentValue() ComponentValue {
	tok := p.next()
	switch tok.Kind {
	case csstok.OpenCurly, csstok.OpenSquare, csstok.OpenParen:
		contents := p.consumeSimpleBlockContents(tok.Kind)
		return ComponentValue{Kind: CVBlock, Open: tok.Kind, Value: contents}
	case csstok.Function:
		args := p.consumeSimpleBlockContents(csstok.OpenParen)
		return ComponentValue{Kind: CVFunction, Name: tok.Value, Value: args}
	default:
		return ComponentValue{Kind: CVToken, Token: tok}
	}
}

func closeFor(open csstok.Kind) csstok.Kind {
	switch open {
	case csstok.OpenCurly:
		return csstok.CloseCurly
	case csstok.OpenSquare:
		return csstok.CloseSquare
	default:
		return csstok.CloseParen
	}
}

// consumeSimpleBlockContents consumes component values up to (and
// including, but not returning) the token that matches open's closing
// delimiter. EOF ends the block early per CSS Syntax error recovery.
func (p *Parser) consumeSimpleBlockContents(open csstok.Kind) []ComponentValue {
	closeKind := closeFor(open)
	var out []ComponentValue
	for {
		tok := p.next()
		switch tok.Kind {
		case closeKind, csstok.EOF:
			return out
		default:
			p.pushBack(tok)
			out = append(out, p.consumeComponentValue())
		}
	}
}

func (p *Parser) consumeListOfComponentValues() []ComponentValue {
	var out []ComponentValue
	for {
		tok := p.next()
		if tok.Kind == csstok.EOF {
			return out
		}
		p.pushBack(tok)
		out = append(out, p.consumeComponentValue())
	}
}

func (p *Parser) peekPos() csstok.Position {
	tok := p.next()
	p.pushBack(tok)
	return tok.Pos
}

func trimWS(cvs []ComponentValue) []ComponentValue {
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

// ParseStylesheetFromComponents re-parses an already-built component-value
// sequence (an at-rule's block, such as @media's) as a nested list of
// rules. Used for conditional-group at-rules whose contents are rules
// rather than declarations.
func ParseStylesheetFromComponents(cvs []ComponentValue) *Stylesheet {
	var rules []Rule
	i, n := 0, len(cvs)
	for i < n {
		if cvs[i].IsToken(csstok.Whitespace) {
			i++
			continue
		}
		if cvs[i].Kind == CVToken && cvs[i].Token.Kind == csstok.AtKeyword {
			name := cvs[i].Token.Value
			pos := cvs[i].Token.Pos
			i++
			var prelude []ComponentValue
			var block []ComponentValue
			hasBlock := false
			for i < n {
				c := cvs[i]
				if c.IsToken(csstok.Semicolon) {
					i++
					break
				}
				if c.Kind == CVBlock && c.Open == csstok.OpenCurly {
					block = c.Value
					hasBlock = true
					i++
					break
				}
				prelude = append(prelude, c)
				i++
			}
			rules = append(rules, Rule{
				Kind: RuleAt, Name: name, Prelude: trimWS(prelude),
				Block: block, HasBlock: hasBlock, Pos: pos,
			})
			continue
		}

		start := i
		for i < n && !(cvs[i].Kind == CVBlock && cvs[i].Open == csstok.OpenCurly) {
			i++
		}
		if i >= n {
			break // incomplete trailing rule, drop per error recovery
		}
		prelude := trimWS(cvs[start:i])
		block := cvs[i].Value
		i++
		rules = append(rules, Rule{Kind: RuleQualified, Prelude: prelude, Block: block})
	}
	return &Stylesheet{Rules: rules, Origin: OriginAuthor}
}

// ParseDeclarationList parses an already-built component-value sequence
// (a qualified rule's block, or a standalone style-attribute token stream
// already reduced to component values) as a mix of declarations and
// nested at-rules, splitting on top-level semicolons.
func ParseDeclarationList(cvs []ComponentValue) ([]Declaration, []AtRule, []ParseError) {
	var decls []Declaration
	var atRules []AtRule
	var errs []ParseError

	i := 0
	n := len(cvs)
	for i < n {
		if cvs[i].IsToken(csstok.Whitespace) || cvs[i].IsToken(csstok.Semicolon) {
			i++
			continue
		}
		if cvs[i].Kind == CVToken && cvs[i].Token.Kind == csstok.AtKeyword {
			name := cvs[i].Token.Value
			pos := cvs[i].Token.Pos
			i++
			var prelude []ComponentValue
			var block []ComponentValue
			hasBlock := false
			for i < n {
				c := cvs[i]
				if c.IsToken(csstok.Semicolon) {
					i++
					break
				}
				if c.Kind == CVBlock && c.Open == csstok.OpenCurly {
					block = c.Value
					hasBlock = true
					i++
					break
				}
				prelude = append(prelude, c)
				i++
			}
			atRules = append(atRules, AtRule{
				Name: name, Prelude: trimWS(prelude), Block: block, HasBlock: hasBlock, Pos: pos,
			})
			continue
		}

		start := i
		for i < n && !cvs[i].IsToken(csstok.Semicolon) {
			i++
		}
		segment := trimWS(cvs[start:i])
		if i < n {
			i++ // skip the semicolon
		}
		if len(segment) == 0 {
			continue
		}
		decl, err := parseOneDeclaration(segment)
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		decls = append(decls, decl)
	}
	return decls, atRules, errs
}

func parseOneDeclaration(segment []ComponentValue) (Declaration, *ParseError) {
	first := segment[0]
	if first.Kind != CVToken || first.Token.Kind != csstok.Ident {
		pos := csstok.Position{}
		if first.Kind == CVToken {
			pos = first.Token.Pos
		}
		return Declaration{}, &ParseError{Kind: ErrInvalidDeclarationName, Pos: pos}
	}
	name := first.Token.Value

	rest := trimWS(segment[1:])
	if len(rest) == 0 || !rest[0].IsToken(csstok.Colon) {
		return Declaration{}, &ParseError{Kind: ErrMissingColonInDeclaration, Pos: first.Token.Pos}
	}
	value := trimWS(rest[1:])
	value, important := stripImportant(value)

	if !strings.HasPrefix(name, "--") {
		name = asciifold.Fold(name)
	}
	return Declaration{Name: name, Value: value, Important: important, Pos: first.Token.Pos}, nil
}

// stripImportant detects and removes a trailing `! important` (any case,
// any whitespace between the tokens) from a declaration's value.
func stripImportant(value []ComponentValue) ([]ComponentValue, bool) {
	v := trimWS(value)
	n := len(v)
	if n < 2 {
		return v, false
	}
	last := v[n-1]
	j := n - 2
	for j > 0 && v[j].IsToken(csstok.Whitespace) {
		j--
	}
	prev := v[j]
	if last.Kind == CVToken && last.Token.Kind == csstok.Ident && asciifold.Equal(last.Token.Value, "important") &&
		prev.Kind == CVToken && prev.Token.Kind == csstok.Delim && prev.Token.Value == "!" {
		return trimWS(v[:j]), true
	}
	return v, false
}
