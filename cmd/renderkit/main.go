// Command renderkit parses an HTML file, resolves its relative resource
// URLs, and prints the resulting DOM tree, computed styles, and layout
// tree, all driven through the engine package's single entry point.
package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/renderkit/renderkit/dom"
	"github.com/renderkit/renderkit/engine"
	"github.com/renderkit/renderkit/geom"
	"github.com/renderkit/renderkit/layout"
	"github.com/renderkit/renderkit/textmetrics"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: renderkit <html-file>")
		os.Exit(1)
	}

	filename := os.Args[1]
	content, err := os.ReadFile(filename)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		os.Exit(1)
	}

	baseDir := filepath.Dir(filename)
	viewport := geom.Rect{X: 0, Y: 0, Width: 800, Height: 600}
	sizer := &fileImageSizer{baseDir: baseDir, loader: dom.NewResourceLoader(baseDir)}

	tree, doc, diag := engine.Run(string(content), nil, viewport, textmetrics.NewMeasurer(), sizer)

	fmt.Println("=== DOM Tree ===")
	printDOMTree(doc, doc.Root, 0)

	fmt.Println("\n=== Computed Styles ===")
	fmt.Printf("%d elements styled\n", len(diag.Styles))

	fmt.Println("\n=== Layout Tree ===")
	for _, root := range tree.Roots {
		printLayoutTree(root, 0)
	}
}

// printDOMTree prints a DOM tree with indentation.
func printDOMTree(doc *dom.Document, id dom.NodeID, indent int) {
	prefix := strings.Repeat("  ", indent)
	n := doc.Node(id)

	switch n.Kind {
	case dom.KindDocument:
		fmt.Printf("%s[Document]\n", prefix)
	case dom.KindElement:
		attrs := ""
		if id := n.ID(); id != "" {
			attrs += fmt.Sprintf(" id=%q", id)
		}
		fmt.Printf("%s<%s%s>\n", prefix, n.TagName(), attrs)
	case dom.KindText:
		text := strings.TrimSpace(n.Text)
		if text != "" {
			if len(text) > 50 {
				text = text[:47] + "..."
			}
			fmt.Printf("%s%q\n", prefix, text)
		}
	}

	for _, c := range doc.Children(id) {
		printDOMTree(doc, c, indent+1)
	}
}

// printLayoutTree prints a layout tree with box dimensions.
func printLayoutTree(box *layout.Node, indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Printf("%s[%s] x=%.0f y=%.0f w=%.0f h=%.0f\n",
		prefix, boxTypeName(box.Box),
		box.Dimensions.Content.X, box.Dimensions.Content.Y,
		box.Dimensions.Content.Width, box.Dimensions.Content.Height)

	for _, c := range box.Children {
		printLayoutTree(c, indent+1)
	}
}

func boxTypeName(t layout.BoxType) string {
	switch t {
	case layout.InlineBox:
		return "inline"
	case layout.AnonymousBox:
		return "anonymous"
	case layout.TextBox:
		return "text"
	case layout.TableBox:
		return "table"
	case layout.TableRowGroupBox:
		return "table-row-group"
	case layout.TableRowBox:
		return "table-row"
	case layout.TableCellBox:
		return "table-cell"
	case layout.TableCaptionBox:
		return "table-caption"
	case layout.FlexBox:
		return "flex"
	case layout.ListItemBox:
		return "list-item"
	default:
		return "block"
	}
}

// fileImageSizer demonstrates wiring dom.ResourceLoader/ResolveURLString
// as an engine.ImageSizer: it resolves an <img src> against the HTML
// file's directory, loads the bytes (file, http(s), or data: URL), and
// decodes just enough of the image to read its pixel dimensions.
type fileImageSizer struct {
	baseDir string
	loader  *dom.ResourceLoader
}

func (f *fileImageSizer) Size(src, varyKey string) (width, height float64, ok bool) {
	resolved := dom.ResolveURLString(f.baseDir, src)
	data, err := f.loader.LoadResource(resolved)
	if err != nil {
		return 0, 0, false
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, false
	}
	return float64(cfg.Width), float64(cfg.Height), true
}
