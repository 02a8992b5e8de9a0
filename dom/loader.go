package dom

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// ResourceLoader fetches a resource identified by a URL or file path, for
// the engine's injected ImageSizer/stylesheet-loading collaborators to sit
// in front of. It is never invoked by the core pipeline itself — htmltok,
// htmltree, cssom, style, and layout never touch the network or the
// filesystem — only a caller wiring those interfaces together needs one.
//
// HTML5 §2.5 URLs, RFC 2397 (the "data" URL scheme).
type ResourceLoader struct {
	BaseURL string
}

// NewResourceLoader returns a ResourceLoader with BaseURL set to baseURL.
// LoadResource does not consult BaseURL: a relative path is read as given.
func NewResourceLoader(baseURL string) *ResourceLoader {
	return &ResourceLoader{BaseURL: baseURL}
}

// LoadResource fetches path's content, dispatching on scheme: a data: URL
// is decoded in place, an http(s):// URL is fetched over the network, and
// anything else is read from the local filesystem.
func (rl *ResourceLoader) LoadResource(path string) ([]byte, error) {
	switch {
	case isDataURL(path):
		return loadFromDataURL(path)
	case isURL(path):
		return loadFromURL(path)
	default:
		return os.ReadFile(path)
	}
}

// LoadResourceAsString is LoadResource with the result decoded as UTF-8.
func (rl *ResourceLoader) LoadResourceAsString(path string) (string, error) {
	data, err := rl.LoadResource(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://")
}

func isDataURL(input string) bool {
	return strings.HasPrefix(input, "data:")
}

func loadFromURL(urlStr string) ([]byte, error) {
	resp, err := http.Get(urlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// loadFromDataURL decodes a data:[<mediatype>][;base64],<data> URL.
func loadFromDataURL(dataURL string) ([]byte, error) {
	parsed, err := url.Parse(dataURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse data URL: %w", err)
	}
	if parsed.Scheme != "data" {
		return nil, fmt.Errorf("not a data URL")
	}

	commaIdx := strings.Index(parsed.Opaque, ",")
	if commaIdx == -1 {
		return nil, fmt.Errorf("invalid data URL: missing comma")
	}
	metadata, data := parsed.Opaque[:commaIdx], parsed.Opaque[commaIdx+1:]

	if strings.HasSuffix(metadata, ";base64") {
		return base64.StdEncoding.DecodeString(data)
	}
	decoded, err := url.QueryUnescape(data)
	if err != nil {
		return nil, fmt.Errorf("failed to URL decode data: %w", err)
	}
	return []byte(decoded), nil
}
