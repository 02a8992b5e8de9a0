package dom

import "github.com/renderkit/renderkit/internal/asciifold"

// Tag is the closed enum of element names this engine understands
// natively. Anything outside this set is preserved as TagUnknown with
// its original name kept on the Node.
type Tag int

const (
	TagUnknown Tag = iota
	TagHTML
	TagHead
	TagBody
	TagTitle
	TagMeta
	TagLink
	TagStyle
	TagScript
	TagNoscript
	TagBase
	TagTemplate

	TagDiv
	TagSpan
	TagP
	TagA
	TagBr
	TagHr
	TagPre
	TagH1
	TagH2
	TagH3
	TagH4
	TagH5
	TagH6
	TagUl
	TagOl
	TagLi
	TagDl
	TagDt
	TagDd
	TagBlockquote
	TagSection
	TagArticle
	TagAside
	TagHeader
	TagFooter
	TagNav
	TagMain
	TagFigure
	TagFigcaption
	TagSmall
	TagStrong
	TagEm
	TagI
	TagB
	TagU
	TagS
	TagSub
	TagSup
	TagCode
	TagKbd
	TagSamp
	TagVar
	TagMark
	TagAbbr
	TagCite
	TagQ
	TagTime
	TagData
	TagProgress
	TagMeter
	TagDetails
	TagSummary
	TagDialog
	TagSlot
	TagWbr

	TagTable
	TagCaption
	TagColgroup
	TagCol
	TagThead
	TagTbody
	TagTfoot
	TagTr
	TagTd
	TagTh

	TagForm
	TagInput
	TagButton
	TagSelect
	TagOption
	TagOptgroup
	TagTextarea
	TagLabel
	TagFieldset
	TagLegend

	TagImg
	TagVideo
	TagAudio
	TagSource
	TagTrack
	TagCanvas
	TagIframe
	TagEmbed
	TagObject
	TagParam
	TagMap
	TagArea

	// A small SVG subset: containers and basic shapes, grounded on the
	// teacher's svg package element set.
	TagSVG
	TagSVGPath
	TagSVGRect
	TagSVGCircle
	TagSVGLine
	TagSVGGroup
)

var tagNames = map[string]Tag{
	"html": TagHTML, "head": TagHead, "body": TagBody, "title": TagTitle,
	"meta": TagMeta, "link": TagLink, "style": TagStyle, "script": TagScript,
	"noscript": TagNoscript, "base": TagBase, "template": TagTemplate,

	"div": TagDiv, "span": TagSpan, "p": TagP, "a": TagA, "br": TagBr, "hr": TagHr,
	"pre": TagPre, "h1": TagH1, "h2": TagH2, "h3": TagH3, "h4": TagH4, "h5": TagH5, "h6": TagH6,
	"ul": TagUl, "ol": TagOl, "li": TagLi, "dl": TagDl, "dt": TagDt, "dd": TagDd,
	"blockquote": TagBlockquote, "section": TagSection, "article": TagArticle, "aside": TagAside,
	"header": TagHeader, "footer": TagFooter, "nav": TagNav, "main": TagMain,
	"figure": TagFigure, "figcaption": TagFigcaption, "small": TagSmall, "strong": TagStrong,
	"em": TagEm, "i": TagI, "b": TagB, "u": TagU, "s": TagS, "sub": TagSub, "sup": TagSup,
	"code": TagCode, "kbd": TagKbd, "samp": TagSamp, "var": TagVar, "mark": TagMark,
	"abbr": TagAbbr, "cite": TagCite, "q": TagQ, "time": TagTime, "data": TagData,
	"progress": TagProgress, "meter": TagMeter, "details": TagDetails, "summary": TagSummary,
	"dialog": TagDialog, "slot": TagSlot, "wbr": TagWbr,

	"table": TagTable, "caption": TagCaption, "colgroup": TagColgroup, "col": TagCol,
	"thead": TagThead, "tbody": TagTbody, "tfoot": TagTfoot, "tr": TagTr, "td": TagTd, "th": TagTh,

	"form": TagForm, "input": TagInput, "button": TagButton, "select": TagSelect,
	"option": TagOption, "optgroup": TagOptgroup, "textarea": TagTextarea, "label": TagLabel,
	"fieldset": TagFieldset, "legend": TagLegend,

	"img": TagImg, "video": TagVideo, "audio": TagAudio, "source": TagSource, "track": TagTrack,
	"canvas": TagCanvas, "iframe": TagIframe, "embed": TagEmbed, "object": TagObject,
	"param": TagParam, "map": TagMap, "area": TagArea,

	"svg": TagSVG, "path": TagSVGPath, "rect": TagSVGRect, "circle": TagSVGCircle,
	"line": TagSVGLine, "g": TagSVGGroup,
}

var tagStrings = func() map[Tag]string {
	m := make(map[Tag]string, len(tagNames))
	for name, tag := range tagNames {
		m[tag] = name
	}
	return m
}()

// LookupTag maps an HTML tag name (ASCII case-insensitive) to its Tag,
// returning (TagUnknown, false) for anything outside the known set.
func LookupTag(name string) (Tag, bool) {
	t, ok := tagNames[asciifold.Fold(name)]
	return t, ok
}

// String returns the canonical lowercase tag name.
func (t Tag) String() string {
	if s, ok := tagStrings[t]; ok {
		return s
	}
	return "unknown"
}

// voidElements never have children; a start tag for one of these is
// immediately closed regardless of self-closing syntax.
var voidElements = map[Tag]bool{
	TagArea: true, TagBase: true, TagBr: true, TagCol: true, TagEmbed: true,
	TagHr: true, TagImg: true, TagInput: true, TagLink: true, TagMeta: true,
	TagSource: true, TagTrack: true, TagWbr: true,
}

// IsVoid reports whether elements of this tag can never have children.
func (t Tag) IsVoid() bool { return voidElements[t] }

// svgVoidElements is SVG's own (much smaller) void-element set.
var svgVoidElements = map[Tag]bool{
	TagSVGPath: true, TagSVGRect: true, TagSVGCircle: true, TagSVGLine: true,
}

// IsSVGVoid reports whether this SVG element never has children.
func (t Tag) IsSVGVoid() bool { return svgVoidElements[t] }
