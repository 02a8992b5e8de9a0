package style

import (
	"strings"

	"github.com/renderkit/renderkit/cssom"
	"github.com/renderkit/renderkit/cssval"
	"github.com/renderkit/renderkit/dom"
	"github.com/renderkit/renderkit/selector"
)

// inlineOrder is the sentinel Order assigned to an element's inline
// style="" declarations so that, among declarations of otherwise equal
// specificity, the inline rule always wins the source-order tie-break
// (CSS2.1 §6.4.2: inline style behaves as if it were the last rule with
// specificity (1,0,0,0) in the author's stylesheet).
const inlineOrder = 1 << 30

// CompiledRule is one qualified rule from a stylesheet, with its selector
// list parsed once up front rather than once per candidate element.
type CompiledRule struct {
	Selectors    selector.List
	Declarations []cssom.Declaration
	Origin       cssom.Origin
	Order        int
}

// Compile parses every qualified rule's selector list and declaration
// block across sheets, in sheet then rule order, assigning each a
// monotonically increasing Order used for the cascade's source-order
// tie-break. Rules with an unparseable selector list are skipped; the
// invalid selector error is not surfaced.
func Compile(sheets []*cssom.Stylesheet) []CompiledRule {
	var out []CompiledRule
	order := 0
	for _, sheet := range sheets {
		for _, rule := range sheet.Rules {
			if rule.Kind != cssom.RuleQualified {
				continue
			}
			sels, err := selector.Parse(rule.Prelude)
			if err != nil {
				order++
				continue
			}
			decls, _, _ := rule.Declarations()
			out = append(out, CompiledRule{
				Selectors:    sels,
				Declarations: decls,
				Origin:       sheet.Origin,
				Order:        order,
			})
			order++
		}
	}
	return out
}

// Diagnostic records a property whose value failed to parse (or whose
// var() references could not be fully resolved); the property computes to
// its initial value instead.
type Diagnostic struct {
	Property string
	Message  string
}

// matchedDecl is one declaration that won its element match, carrying the
// cascade-ordering keys needed to pick a winner per property.
type matchedDecl struct {
	decl   cssom.Declaration
	origin cssom.Origin
	spec   selector.Specificity
	order  int
}

// rank orders (origin, importance) per CSS2.1 §6.4.1, from weakest to
// strongest: user-agent < user < author < author-!important <
// user-!important < user-agent-!important.
func rank(origin cssom.Origin, important bool) int {
	if !important {
		switch origin {
		case cssom.OriginUserAgent:
			return 0
		case cssom.OriginUser:
			return 1
		default:
			return 2
		}
	}
	switch origin {
	case cssom.OriginAuthor:
		return 3
	case cssom.OriginUser:
		return 4
	default:
		return 5
	}
}

// beats reports whether candidate should replace current as a property's
// winning declaration: origin/importance rank first, then specificity,
// then source order.
func beats(candidate, current matchedDecl) bool {
	cr, ur := rank(candidate.origin, candidate.decl.Important), rank(current.origin, current.decl.Important)
	if cr != ur {
		return cr > ur
	}
	if c := candidate.spec.Compare(current.spec); c != 0 {
		return c > 0
	}
	return candidate.order > current.order
}

// expandShorthand expands the margin/padding/border shorthands into their
// longhand declarations before the cascade picks a per-property winner, so
// that e.g. `margin: 0` from one rule and `margin-left: 2px` from a more
// specific rule combine correctly instead of one fully overriding the
// other in a fixed, specificity-blind order. Implements the CSS2.1 §8.3
// TRBL expansion for margin/padding, and the analogous expansion for
// `border`.
func expandShorthand(d cssom.Declaration) []cssom.Declaration {
	switch d.Name {
	case "margin", "padding":
		groups := splitTopLevel(d.Value)
		var top, right, bottom, left []cssom.ComponentValue
		switch len(groups) {
		case 1:
			top, right, bottom, left = groups[0], groups[0], groups[0], groups[0]
		case 2:
			top, right, bottom, left = groups[0], groups[1], groups[0], groups[1]
		case 3:
			top, right, bottom, left = groups[0], groups[1], groups[2], groups[1]
		case 4:
			top, right, bottom, left = groups[0], groups[1], groups[2], groups[3]
		default:
			return []cssom.Declaration{d}
		}
		mk := func(side string, val []cssom.ComponentValue) cssom.Declaration {
			return cssom.Declaration{Name: d.Name + "-" + side, Value: val, Important: d.Important, Pos: d.Pos}
		}
		return []cssom.Declaration{mk("top", top), mk("right", right), mk("bottom", bottom), mk("left", left)}
	case "border":
		mk := func(side string) cssom.Declaration {
			return cssom.Declaration{Name: "border-" + side, Value: d.Value, Important: d.Important, Pos: d.Pos}
		}
		return []cssom.Declaration{mk("top"), mk("right"), mk("bottom"), mk("left")}
	default:
		return []cssom.Declaration{d}
	}
}

// Cascade resolves el's ComputedStyle by matching rules, picking a winner
// per property, expanding var() references, parsing each winning value
// with its typed cssval parser, resolving units, and applying inheritance
// from parent. parent is nil only for the document's implicit root parent.
func Cascade(doc *dom.Document, el dom.NodeID, rules []CompiledRule, parent *ComputedStyle, ac cssval.AbsoluteContext) (*ComputedStyle, []Diagnostic) {
	if parent == nil {
		parent = initial(ac)
	}

	winners := map[string]matchedDecl{}
	consider := func(decls []cssom.Declaration, origin cssom.Origin, spec selector.Specificity, order int) {
		for _, d := range decls {
			for _, ld := range expandShorthand(d) {
				cand := matchedDecl{decl: ld, origin: origin, spec: spec, order: order}
				cur, ok := winners[ld.Name]
				if !ok || beats(cand, cur) {
					winners[ld.Name] = cand
				}
			}
		}
	}

	for _, r := range rules {
		ok, spec := selector.MatchList(r.Selectors, doc, el)
		if !ok {
			continue
		}
		consider(r.Declarations, r.Origin, spec, r.Order)
	}

	if style := doc.Node(el).GetAttribute("style"); style != "" {
		decls, _ := cssom.ParseStyleAttribute(style)
		// An id count no selector reaches ranks inline style above every
		// author selector, as its (1,0,0,0) specificity does.
		consider(decls, cssom.OriginAuthor, selector.Specificity{IDs: inlineOrder}, inlineOrder)
	}

	custom := cssval.CustomProperties{}
	for k, v := range parent.CustomProperties {
		custom[k] = v
	}
	for name, m := range winners {
		if strings.HasPrefix(name, "--") {
			custom[name] = m.decl.Value
		}
	}

	// Start from the CSS initial values, not a copy of parent: most
	// properties (margin, padding, width, display, borders, background,
	// position, ...) do not inherit and must reset per element. Only the
	// inheritable subset is copied from parent below.
	c := initial(ac)
	c.Color = parent.Color
	c.FontFamily = parent.FontFamily
	c.FontSizePx = parent.FontSizePx
	c.FontWeight = parent.FontWeight
	c.LineHeightPx = parent.LineHeightPx
	c.TextAlign = parent.TextAlign
	c.WhiteSpace = parent.WhiteSpace
	c.WritingMode = parent.WritingMode
	c.CustomProperties = custom

	var diags []Diagnostic
	rc := cssval.RelativeContext{ParentFontSizePx: parent.FontSizePx}

	resolved := func(name string) ([]cssom.ComponentValue, bool) {
		m, ok := winners[name]
		if !ok {
			return nil, false
		}
		val, ok := cssval.ExpandVar(m.decl.Value, custom)
		if !ok {
			diags = append(diags, Diagnostic{Property: name, Message: "unresolved var() reference"})
			return nil, false
		}
		return val, true
	}

	if val, ok := resolved("color"); ok {
		if col, err := cssval.ParseColor(val); err == nil {
			c.Color = col.Resolve(parent.Color)
		} else {
			diags = append(diags, Diagnostic{Property: "color", Message: err.Error()})
		}
	}

	if val, ok := resolved("font-size"); ok {
		if lp, err := parseSingleLength(val); err == nil {
			c.FontSizePx = lp.Resolve(rc, ac, cssval.PercentBasis(parent.FontSizePx))
		} else if kw, isKw := singleIdent(val); isKw {
			if px, ok2 := absoluteFontKeyword(kw); ok2 {
				c.FontSizePx = px
			}
		} else {
			diags = append(diags, Diagnostic{Property: "font-size", Message: err.Error()})
		}
	}
	rc.FontSizePx = c.FontSizePx

	if val, ok := resolved("font-family"); ok {
		if fams := parseFontFamily(val); len(fams) > 0 {
			c.FontFamily = fams
		}
	}

	if val, ok := resolved("font-weight"); ok {
		if n, isNum := singleNumber(val); isNum {
			c.FontWeight = int(n)
		} else if kw, isKw := singleIdent(val); isKw {
			switch kw {
			case "normal":
				c.FontWeight = 400
			case "bold":
				c.FontWeight = 700
			case "bolder":
				c.FontWeight = min1000(parent.FontWeight + 300)
			case "lighter":
				c.FontWeight = max1(parent.FontWeight - 300)
			}
		}
	}

	if val, ok := resolved("line-height"); ok {
		if n, isNum := singleNumber(val); isNum {
			c.LineHeightPx = n * c.FontSizePx
		} else if lp, err := parseSingleLength(val); err == nil {
			c.LineHeightPx = lp.Resolve(rc, ac, cssval.PercentBasis(c.FontSizePx))
		} else if kw, isKw := singleIdent(val); isKw && kw == "normal" {
			c.LineHeightPx = c.FontSizePx * 1.2
		}
	}

	if val, ok := resolved("background-color"); ok {
		if col, err := cssval.ParseColor(val); err == nil {
			c.BackgroundColor = col.Resolve(parent.Color)
		} else {
			diags = append(diags, Diagnostic{Property: "background-color", Message: err.Error()})
		}
	}

	if val, ok := resolved("background"); ok {
		if layers, err := cssval.ParseBackground(val); err == nil {
			c.BackgroundLayers = layers
			for _, l := range layers {
				if l.HasColor {
					c.BackgroundColor = l.Color.Resolve(parent.Color)
				}
			}
		} else {
			diags = append(diags, Diagnostic{Property: "background", Message: err.Error()})
		}
	}

	basisW := cssval.PercentBasis(0)

	applyMarginLonghand := func(prop string, dst *Edge) {
		val, ok := resolved(prop)
		if !ok {
			return
		}
		if kw, isKw := singleIdent(val); isKw && kw == "auto" {
			*dst = Edge{Auto: true}
			return
		}
		if lp, err := parseSingleLength(val); err == nil {
			*dst = Edge{Px: lp.Resolve(rc, ac, basisW)}
		} else {
			diags = append(diags, Diagnostic{Property: prop, Message: err.Error()})
		}
	}
	applyMarginLonghand("margin-top", &c.Margin.Top)
	applyMarginLonghand("margin-right", &c.Margin.Right)
	applyMarginLonghand("margin-bottom", &c.Margin.Bottom)
	applyMarginLonghand("margin-left", &c.Margin.Left)

	applyPaddingLonghand := func(prop string, dst *Edge) {
		val, ok := resolved(prop)
		if !ok {
			return
		}
		if lp, err := parseSingleLength(val); err == nil {
			*dst = Edge{Px: lp.Resolve(rc, ac, basisW)}
		} else {
			diags = append(diags, Diagnostic{Property: prop, Message: err.Error()})
		}
	}
	applyPaddingLonghand("padding-top", &c.Padding.Top)
	applyPaddingLonghand("padding-right", &c.Padding.Right)
	applyPaddingLonghand("padding-bottom", &c.Padding.Bottom)
	applyPaddingLonghand("padding-left", &c.Padding.Left)

	applySize := func(prop string, dst *Size, isMax bool) {
		val, ok := resolved(prop)
		if !ok {
			return
		}
		if kw, isKw := singleIdent(val); isKw {
			switch kw {
			case "auto":
				*dst = Size{Kind: SizeAuto}
				return
			case "min-content", "max-content", "fit-content":
				*dst = Size{Kind: SizeIntrinsic, IntrinsicKeyword: kw}
				return
			case "none":
				if isMax {
					*dst = Size{Kind: SizeLength, Px: Infinity}
				}
				return
			}
		}
		if lp, err := parseSingleLength(val); err == nil {
			*dst = Size{Kind: SizeLength, Px: lp.Resolve(rc, ac, basisW)}
		} else {
			diags = append(diags, Diagnostic{Property: prop, Message: err.Error()})
		}
	}
	applySize("width", &c.Width, false)
	applySize("height", &c.Height, false)
	applySize("max-width", &c.MaxWidth, true)
	applySize("max-height", &c.MaxHeight, true)

	applyBorderSide := func(prop string, dst *BorderSide) {
		val, ok := resolved(prop)
		if !ok {
			return
		}
		b, err := cssval.ParseBorder(val)
		if err != nil {
			diags = append(diags, Diagnostic{Property: prop, Message: err.Error()})
			return
		}
		if b.HasWidth {
			dst.WidthPx = b.Width.Resolve(rc, ac, 0)
		}
		if b.HasStyle {
			if bs, ok2 := borderStyleNames[b.Style]; ok2 {
				dst.Style = bs
			}
		}
		if b.HasColor {
			dst.Color = b.Color.Resolve(parent.Color)
		}
	}
	// expandShorthand already turns a `border` declaration into
	// border-top/right/bottom/left longhands before it reaches winners, so
	// each side is resolved independently here and combines correctly with
	// any individually-set border-<side> declaration of higher specificity.
	applyBorderSide("border-top", &c.Borders.Top)
	applyBorderSide("border-right", &c.Borders.Right)
	applyBorderSide("border-bottom", &c.Borders.Bottom)
	applyBorderSide("border-left", &c.Borders.Left)

	if val, ok := resolved("display"); ok {
		if kw, isKw := singleIdent(val); isKw {
			c.Display = parseDisplay(kw)
		}
	}

	if val, ok := resolved("position"); ok {
		if kw, isKw := singleIdent(val); isKw {
			switch kw {
			case "static":
				c.Position = PositionStatic
			case "relative":
				c.Position = PositionRelative
			case "absolute":
				c.Position = PositionAbsolute
			case "fixed":
				c.Position = PositionFixed
			case "sticky":
				c.Position = PositionSticky
			}
		}
	}

	if val, ok := resolved("text-align"); ok {
		if kw, isKw := singleIdent(val); isKw {
			switch kw {
			case "left":
				c.TextAlign = TextAlignLeft
			case "right":
				c.TextAlign = TextAlignRight
			case "center":
				c.TextAlign = TextAlignCenter
			case "justify":
				c.TextAlign = TextAlignJustify
			}
		}
	}

	if val, ok := resolved("white-space"); ok {
		if kw, isKw := singleIdent(val); isKw {
			switch kw {
			case "normal":
				c.WhiteSpace = WhiteSpaceNormal
			case "pre":
				c.WhiteSpace = WhiteSpacePre
			case "nowrap":
				c.WhiteSpace = WhiteSpaceNowrap
			case "pre-wrap":
				c.WhiteSpace = WhiteSpacePreWrap
			case "pre-line":
				c.WhiteSpace = WhiteSpacePreLine
			}
		}
	}

	if val, ok := resolved("justify-content"); ok {
		if kw, isKw := singleIdent(val); isKw {
			switch kw {
			case "flex-start":
				c.JustifyContent = JustifyFlexStart
			case "flex-end":
				c.JustifyContent = JustifyFlexEnd
			case "center":
				c.JustifyContent = JustifyCenter
			case "space-between":
				c.JustifyContent = JustifySpaceBetween
			case "space-around":
				c.JustifyContent = JustifySpaceAround
			}
		}
	}

	if val, ok := resolved("writing-mode"); ok {
		if kw, isKw := singleIdent(val); isKw {
			switch kw {
			case "horizontal-tb":
				c.WritingMode = HorizontalTB
			case "vertical-rl":
				c.WritingMode = VerticalRL
			case "vertical-lr":
				c.WritingMode = VerticalLR
			}
		}
	}

	return c, diags
}

func min1000(v int) int {
	if v > 1000 {
		return 1000
	}
	return v
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

func absoluteFontKeyword(kw string) (float64, bool) {
	switch kw {
	case "xx-small":
		return 9, true
	case "x-small":
		return 10, true
	case "small":
		return 13, true
	case "medium":
		return 16, true
	case "large":
		return 18, true
	case "x-large":
		return 24, true
	case "xx-large":
		return 32, true
	}
	return 0, false
}

func parseDisplay(kw string) Display {
	switch kw {
	case "none":
		return Display{Outside: OutsideNone}
	case "block":
		return Display{Outside: OutsideBlock, Inside: InsideFlow}
	case "inline":
		return Display{Outside: OutsideInline, Inside: InsideFlow}
	case "inline-block":
		return Display{Outside: OutsideInline, Inside: InsideFlowRoot}
	case "flow-root":
		return Display{Outside: OutsideBlock, Inside: InsideFlowRoot}
	case "flex":
		return Display{Outside: OutsideBlock, Inside: InsideFlex}
	case "inline-flex":
		return Display{Outside: OutsideInline, Inside: InsideFlex}
	case "table":
		return Display{Outside: OutsideBlock, Inside: InsideTable}
	case "table-row":
		return Display{Outside: OutsideBlock, Inside: InsideTableRow}
	case "table-row-group", "table-header-group", "table-footer-group":
		return Display{Outside: OutsideBlock, Inside: InsideTableRowGroup}
	case "table-cell":
		return Display{Outside: OutsideBlock, Inside: InsideTableCell}
	case "table-caption":
		return Display{Outside: OutsideBlock, Inside: InsideTableCaption}
	case "list-item":
		return Display{Outside: OutsideBlock, Inside: InsideListItem}
	default:
		return Display{Outside: OutsideInline, Inside: InsideFlow}
	}
}

