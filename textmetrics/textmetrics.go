// Package textmetrics measures rendered text using the Go TrueType fonts,
// giving the layout engine's inline algorithm real glyph widths instead of
// a fixed-advance approximation.
//
// Spec references:
// - CSS 2.1 §15 Fonts
// - CSS 2.1 §15.3 Font family
package textmetrics

import (
	"strconv"
	"strings"
	"sync"

	"github.com/renderkit/renderkit/internal/asciifold"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/renderkit/renderkit/layout"
)

// boldWeightThreshold is the numeric font-weight (CSS 2.1 §15.6) at or
// above which a bold face is selected.
const boldWeightThreshold = 600

var (
	goRegularFont *opentype.Font
	goBoldFont    *opentype.Font
	goMonoFont    *opentype.Font
	loadOnce      sync.Once
	loadErr       error
)

func loadGoFonts() error {
	loadOnce.Do(func() {
		var err error
		if goRegularFont, err = opentype.Parse(goregular.TTF); err != nil {
			loadErr = err
			return
		}
		if goBoldFont, err = opentype.Parse(gobold.TTF); err != nil {
			loadErr = err
			return
		}
		if goMonoFont, err = opentype.Parse(gomono.TTF); err != nil {
			loadErr = err
			return
		}
		// gobolditalic is never parsed or selected; this reference only
		// keeps the package imported.
		_ = gobolditalic.TTF
	})
	return loadErr
}

// Measurer implements layout.TextMeasurer using cached golang.org/x/image
// font faces, keyed by family and size so repeated runs of the same
// style during one layout pass reuse the same rasterized face.
type Measurer struct {
	mu    sync.Mutex
	faces map[string]font.Face
}

// NewMeasurer returns a Measurer ready to use; it loads no fonts until the
// first call to Measure.
func NewMeasurer() *Measurer {
	return &Measurer{faces: make(map[string]font.Face)}
}

// Measure implements layout.TextMeasurer. It ignores availableWidthPx: this
// engine does not wrap inline text across multiple lines, so every call
// measures the full string on one line.
func (m *Measurer) Measure(text string, fontSizePx, lineHeightPx float64, fontFamily []string, availableWidthPx float64) layout.MeasuredText {
	if text == "" {
		return layout.MeasuredText{HeightPx: lineHeightPx}
	}

	face := m.faceFor(fontFamily, fontSizePx, 400)
	if face == nil {
		return basicFallback(text, fontSizePx, lineHeightPx)
	}

	glyphs := make([]float64, 0, len(text))
	var widthPx float64
	for _, r := range text {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			adv = face.Metrics().Height / 2
		}
		px := float64(adv) / 64
		glyphs = append(glyphs, px)
		widthPx += px
	}

	return layout.MeasuredText{WidthPx: widthPx, HeightPx: lineHeightPx, Glyphs: glyphs}
}

func (m *Measurer) faceFor(fontFamily []string, sizePx float64, weight int) font.Face {
	key := familyKey(fontFamily) + ":" + strconv.FormatFloat(sizePx, 'f', 1, 64)

	m.mu.Lock()
	if f, ok := m.faces[key]; ok {
		m.mu.Unlock()
		return f
	}
	m.mu.Unlock()

	if err := loadGoFonts(); err != nil {
		return nil
	}
	src := selectFont(fontFamily, weight)
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     96,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}

	m.mu.Lock()
	m.faces[key] = face
	m.mu.Unlock()
	return face
}

// selectFont maps a CSS font-family list (in declaration order, as the
// style package parses it) to one of the embedded Go fonts.
// CSS 2.1 §15.3 Font family.
func selectFont(fontFamily []string, weight int) *opentype.Font {
	for _, name := range fontFamily {
		switch asciifold.Fold(strings.TrimSpace(name)) {
		case "monospace", "courier", "courier new":
			return goMonoFont
		case "sans-serif", "serif", "arial", "helvetica", "times", "times new roman":
			if weight >= boldWeightThreshold {
				return goBoldFont
			}
			return goRegularFont
		}
	}
	if weight >= boldWeightThreshold {
		return goBoldFont
	}
	return goRegularFont
}

func familyKey(fontFamily []string) string {
	return strings.Join(fontFamily, ",")
}

// basicFallback approximates measurement with the fixed-advance bitmap
// font when TrueType rasterization is unavailable (e.g. corrupt font
// data), matching the degraded-mode behavior a renderer still needs.
func basicFallback(text string, fontSizePx, lineHeightPx float64) layout.MeasuredText {
	face := basicfont.Face7x13
	scale := fontSizePx / 13.0
	width := float64(len(text)*face.Advance) * scale
	return layout.MeasuredText{WidthPx: width, HeightPx: lineHeightPx}
}
