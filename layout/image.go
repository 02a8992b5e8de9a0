package layout

import (
	"github.com/renderkit/renderkit/dom"
	"github.com/renderkit/renderkit/style"
)

// replacedIntrinsicSize reports the content-box width/height an <img>
// element should use, or ok==false if box is not a replaced element. The
// width/height attributes take precedence per HTML5, then the injected
// ImageSizer, then the CSS 2.1 300x150 placeholder for a replaced element
// with no intrinsic dimensions and no specified size.
func (b *builder) replacedIntrinsicSize(box *Node) (width, height float64, ok bool) {
	if box.Element == 0 {
		return 0, 0, false
	}
	el := b.doc.Node(box.Element)
	if el.Kind != dom.KindElement || el.Tag != dom.TagImg {
		return 0, 0, false
	}

	width, height = defaultImageWidth, defaultImageHeight
	if b.images != nil {
		if w, h, found := b.images.Size(el.GetAttribute("src"), el.GetAttribute("srcset")); found {
			width, height = w, h
		}
	}
	if wAttr := parsePixelAttr(el.GetAttribute("width")); wAttr > 0 {
		width = wAttr
	}
	if hAttr := parsePixelAttr(el.GetAttribute("height")); hAttr > 0 {
		height = hAttr
	}
	// An explicit CSS width/height (e.g. `img { width: 100px }`) overrides
	// both the attribute and the intrinsic size, per CSS2.1 §10.3.
	if st := box.Style; st.Width.Kind == style.SizeLength {
		width = st.Width.Px
	}
	if st := box.Style; st.Height.Kind == style.SizeLength {
		height = st.Height.Px
	}
	return width, height, true
}

func parsePixelAttr(s string) float64 {
	if s == "" {
		return 0
	}
	v := 0.0
	seenDigit := false
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			v = v*10 + float64(ch-'0')
			seenDigit = true
			continue
		}
		break
	}
	if !seenDigit {
		return 0
	}
	return v
}
