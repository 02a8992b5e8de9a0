// Package cssom builds the CSS object model: a Stylesheet of Rules made of
// ComponentValues, parsed from a csstok.Token stream using the CSS Syntax
// Level 3 "consume a list of rules" family of procedures.
package cssom

import "github.com/renderkit/renderkit/csstok"

// CVKind is the shape of a ComponentValue.
type CVKind int

const (
	CVToken CVKind = iota
	CVFunction
	CVBlock
)

// ComponentValue is the recursive building block of the CSS parser and of
// every property-value grammar in cssval: a single token, a function call
// (name plus component-value argument list), or a bracketed simple block.
type ComponentValue struct {
	Kind CVKind

	Token csstok.Token // valid when Kind == CVToken

	Name string // valid when Kind == CVFunction: the function name

	// Open is the opening delimiter kind for a simple block: OpenParen,
	// OpenCurly, or OpenSquare. Valid when Kind == CVBlock.
	Open csstok.Kind

	// Value holds the function arguments or block contents. Valid when
	// Kind is CVFunction or CVBlock.
	Value []ComponentValue
}

// IsToken reports whether the component value is a plain token of kind k.
func (c ComponentValue) IsToken(k csstok.Kind) bool {
	return c.Kind == CVToken && c.Token.Kind == k
}

// Origin is the cascade origin of a stylesheet (CSS 2.1 §6.4.1).
type Origin int

const (
	OriginUserAgent Origin = iota
	OriginUser
	OriginAuthor
)

// Declaration is a single `property: value` pair, optionally `!important`.
type Declaration struct {
	Name      string
	Value     []ComponentValue
	Important bool
	Pos       csstok.Position
}

// RuleKind distinguishes a QualifiedRule from an AtRule.
type RuleKind int

const (
	RuleQualified RuleKind = iota
	RuleAt
)

// Rule is either a QualifiedRule (selector list + declaration block) or an
// AtRule (name + prelude + optional block).
type Rule struct {
	Kind RuleKind

	// QualifiedRule fields.
	Prelude []ComponentValue
	Block   []ComponentValue // raw block contents; qualified rules parse this as declarations lazily

	// AtRule fields (Name/Prelude/HasBlock/Block shared with qualified via Prelude/Block above).
	Name     string
	HasBlock bool

	Pos csstok.Position
}

// Declarations parses this rule's block as a list of declarations and
// nested at-rules (e.g. for a qualified rule's `{ ... }` body).
func (r Rule) Declarations() ([]Declaration, []AtRule, []ParseError) {
	return ParseDeclarationList(r.Block)
}

// AtRule is a nested at-rule found inside a declaration list (e.g. inside
// a qualified rule's body, or returned standalone at the stylesheet level
// via Rule with Kind == RuleAt).
type AtRule struct {
	Name    string
	Prelude []ComponentValue
	Block   []ComponentValue
	HasBlock bool
	Pos     csstok.Position
}

// Stylesheet is an ordered sequence of top-level rules.
type Stylesheet struct {
	Rules  []Rule
	Origin Origin
	Errors []ParseError

	// TokenErrors carries recoverable errors from the underlying tokenizer
	// (bad strings, bad escapes, bad urls) so callers can report them
	// alongside parser-level errors.
	TokenErrors []csstok.Error
}

// ErrorKind identifies a recoverable parser error.
type ErrorKind int

const (
	ErrEOFInAtRule ErrorKind = iota
	ErrIncompleteQualifiedRule
	ErrInvalidDeclarationName
	ErrMissingColonInDeclaration
	ErrUnexpectedCloseBracket
)

func (e ErrorKind) String() string {
	switch e {
	case ErrEOFInAtRule:
		return "EOF in at-rule"
	case ErrIncompleteQualifiedRule:
		return "incomplete qualified rule"
	case ErrInvalidDeclarationName:
		return "invalid declaration name"
	case ErrMissingColonInDeclaration:
		return "missing colon in declaration"
	case ErrUnexpectedCloseBracket:
		return "unexpected closing bracket"
	default:
		return "unknown parse error"
	}
}

// ParseError is a single recorded, non-fatal parser error.
type ParseError struct {
	Kind ErrorKind
	Pos  csstok.Position
}

func (e ParseError) Error() string { return e.Kind.String() }
