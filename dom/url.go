// Package dom also resolves relative URLs found in a parsed document
// against a base URL/directory, and fetches external stylesheets
// referenced by <link rel="stylesheet">.
//
// HTML5 §2.5: A URL is a string used to identify a resource; the
// document's base URL resolves relative references.
//
package dom

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/renderkit/renderkit/internal/xlog"
)

// ResolveURLs resolves every relative `src`/`href` URL-bearing attribute
// in the document against baseDir, rewriting the attribute in place.
func ResolveURLs(doc *Document, baseDir string) {
	doc.Walk(doc.Root, func(id NodeID) bool {
		n := doc.Node(id)
		if n.Kind != KindElement {
			return true
		}
		switch n.Tag {
		case TagImg, TagSource, TagScript, TagAudio, TagVideo, TagTrack, TagEmbed, TagIframe:
			if src := n.GetAttribute("src"); src != "" {
				n.SetAttribute("src", ResolveURLString(baseDir, src))
			}
		case TagLink:
			if href := n.GetAttribute("href"); href != "" {
				n.SetAttribute("href", ResolveURLString(baseDir, href))
			}
		case TagA:
			if href := n.GetAttribute("href"); href != "" {
				n.SetAttribute("href", ResolveURLString(baseDir, href))
			}
		}
		return true
	})
}

// ResolveURLString resolves a potentially relative URL against a base
// URL or filesystem directory.
func ResolveURLString(baseURL, relativeURL string) string {
	if strings.HasPrefix(relativeURL, "http://") || strings.HasPrefix(relativeURL, "https://") ||
		strings.HasPrefix(relativeURL, "data:") {
		return relativeURL
	}

	if strings.HasPrefix(baseURL, "http://") || strings.HasPrefix(baseURL, "https://") {
		base, err := url.Parse(baseURL)
		if err != nil {
			xlog.Warnf("dom: failed to parse base URL %q: %v", baseURL, err)
			return relativeURL
		}
		rel, err := url.Parse(relativeURL)
		if err != nil {
			xlog.Warnf("dom: failed to parse relative URL %q: %v", relativeURL, err)
			return relativeURL
		}
		return base.ResolveReference(rel).String()
	}

	return filepath.Join(baseURL, relativeURL)
}

// FetchExternalStylesheets finds every <link rel="stylesheet"> in the
// document and concatenates their fetched CSS content, in document
// order. Failed fetches are skipped (non-blocking, per HTML5 §4.2.4).
func FetchExternalStylesheets(doc *Document) string {
	loader := NewResourceLoader("")
	var css strings.Builder
	doc.Walk(doc.Root, func(id NodeID) bool {
		n := doc.Node(id)
		if n.Kind == KindElement && n.Tag == TagLink {
			rel := n.GetAttribute("rel")
			href := n.GetAttribute("href")
			if rel == "stylesheet" && href != "" {
				content, err := loader.LoadResourceAsString(href)
				if err != nil {
					xlog.Warnf("dom: failed to load external stylesheet %q: %v", href, err)
					return true
				}
				css.WriteString(content)
				css.WriteString("\n")
			}
		}
		return true
	})
	return css.String()
}
