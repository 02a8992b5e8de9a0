// Package reftest runs WPT-style reference tests against the engine
// package. A reftest is an HTML document carrying a <link rel="match"
// or rel="mismatch" href="..."> pointing at a second document; the two
// are laid out independently and their body boxes are compared for
// (mis)match.
//
// See: https://web-platform-tests.org/writing-tests/reftests.html
package reftest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/renderkit/renderkit/dom"
	"github.com/renderkit/renderkit/engine"
	"github.com/renderkit/renderkit/geom"
	"github.com/renderkit/renderkit/layout"
)

// Result represents the outcome of a single reftest.
type Result struct {
	TestFile      string
	ReferenceFile string
	RelationType  string // "match" or "mismatch"
	Status        Status
	Message       string
}

// Status represents the status of a test.
type Status int

const (
	// Pass indicates the test passed.
	Pass Status = iota
	// Fail indicates the test failed.
	Fail
	// Error indicates an error occurred running the test.
	Error
	// Skip indicates the test was skipped (e.g. no reference link present).
	Skip
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Error:
		return "ERROR"
	case Skip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// Summary provides aggregate statistics for a test run.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Errors  int
	Skipped int
	Results []Result
}

// PassRate returns the percentage of tests that passed.
func (s *Summary) PassRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total) * 100
}

// Runner executes reference tests against the engine package.
type Runner struct {
	baseDir  string
	verbose  bool
	viewport geom.Rect
	measurer engine.TextMeasurer
}

// NewRunner creates a new reftest runner. measurer supplies text metrics
// for the engine's layout pass; the same measurer is reused across every
// test and reference document, so widths and heights come out consistent
// between the two renders being compared.
func NewRunner(baseDir string, verbose bool, measurer engine.TextMeasurer) *Runner {
	return &Runner{
		baseDir:  baseDir,
		verbose:  verbose,
		viewport: geom.Rect{Width: 800, Height: 600},
		measurer: measurer,
	}
}

// RunTest runs a single reftest.
func (r *Runner) RunTest(testPath string) Result {
	result := Result{TestFile: testPath}

	testContent, err := os.ReadFile(testPath)
	if err != nil {
		result.Status = Error
		result.Message = fmt.Sprintf("failed to read test file: %v", err)
		return result
	}

	refPath, relType, err := findReferenceLink(string(testContent), testPath)
	if err != nil {
		result.Status = Skip
		result.Message = fmt.Sprintf("no reference link found: %v", err)
		return result
	}
	result.ReferenceFile = refPath
	result.RelationType = relType

	refContent, err := os.ReadFile(refPath)
	if err != nil {
		result.Status = Error
		result.Message = fmt.Sprintf("failed to read reference file: %v", err)
		return result
	}

	match, err := r.compareLayouts(string(testContent), string(refContent))
	if err != nil {
		result.Status = Error
		result.Message = fmt.Sprintf("layout comparison failed: %v", err)
		return result
	}

	if relType == "match" {
		if match {
			result.Status = Pass
			result.Message = "layouts match as expected"
		} else {
			result.Status = Fail
			result.Message = "layouts do not match"
		}
	} else { // mismatch
		if !match {
			result.Status = Pass
			result.Message = "layouts differ as expected"
		} else {
			result.Status = Fail
			result.Message = "layouts unexpectedly match"
		}
	}

	return result
}

// RunDirectory runs all reftests found under dir.
func (r *Runner) RunDirectory(dir string) Summary {
	summary := Summary{Results: make([]Result, 0)}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if strings.Contains(filepath.Base(path), "-ref") {
			return nil
		}
		if !strings.HasSuffix(path, ".html") && !strings.HasSuffix(path, ".htm") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if !hasReferenceLink(string(content)) {
			return nil
		}

		result := r.RunTest(path)
		summary.Results = append(summary.Results, result)
		summary.Total++

		switch result.Status {
		case Pass:
			summary.Passed++
		case Fail:
			summary.Failed++
		case Error:
			summary.Errors++
		case Skip:
			summary.Skipped++
		}

		if r.verbose {
			fmt.Printf("[%s] %s\n", result.Status, path)
			if result.Message != "" {
				fmt.Printf("        %s\n", result.Message)
			}
		}
		return nil
	})

	if err != nil && r.verbose {
		fmt.Printf("Error walking directory: %v\n", err)
	}

	return summary
}

// compareLayouts runs both documents through the engine and compares
// their body boxes.
func (r *Runner) compareLayouts(testHTML, refHTML string) (bool, error) {
	testTree, testDoc := r.render(testHTML)
	refTree, refDoc := r.render(refHTML)

	return compareLayoutTrees(testTree, testDoc, refTree, refDoc), nil
}

// render lays out htmlContent through engine.Run. Any CSS must arrive
// via an embedded <style> element — htmltree.Build extracts those and
// engine.Run compiles them in alongside the user-agent stylesheet.
func (r *Runner) render(htmlContent string) (*layout.Tree, *dom.Document) {
	tree, doc, _ := engine.Run(htmlContent, nil, r.viewport, r.measurer, nil)
	return tree, doc
}

// findReferenceLink finds the <link rel="match|mismatch" href="..."> in
// the HTML and resolves it relative to testPath's directory.
func findReferenceLink(htmlContent, testPath string) (string, string, error) {
	re := regexp.MustCompile(`(?i)<link[^>]+rel\s*=\s*["'](match|mismatch)["'][^>]+href\s*=\s*["']([^"']+)["']`)
	matches := re.FindStringSubmatch(htmlContent)

	if len(matches) < 3 {
		re = regexp.MustCompile(`(?i)<link[^>]+href\s*=\s*["']([^"']+)["'][^>]+rel\s*=\s*["'](match|mismatch)["']`)
		matches = re.FindStringSubmatch(htmlContent)
		if len(matches) < 3 {
			return "", "", fmt.Errorf("no reference link found")
		}
		matches = []string{matches[0], matches[2], matches[1]}
	}

	relType := strings.ToLower(matches[1])
	refHref := matches[2]

	testDir := filepath.Dir(testPath)
	refPath := filepath.Join(testDir, refHref)

	return refPath, relType, nil
}

// hasReferenceLink reports whether htmlContent contains a reference link.
func hasReferenceLink(htmlContent string) bool {
	re := regexp.MustCompile(`(?i)<link[^>]+rel\s*=\s*["'](match|mismatch)["']`)
	return re.MatchString(htmlContent)
}

// compareLayoutTrees compares the <body> boxes of two layout trees,
// ignoring head and other metadata content entirely — it never produces
// boxes, since the user-agent stylesheet sets display:none on it.
func compareLayoutTrees(a *layout.Tree, aDoc *dom.Document, b *layout.Tree, bDoc *dom.Document) bool {
	bodyA := findBodyBox(a, aDoc)
	bodyB := findBodyBox(b, bDoc)

	if bodyA == nil && bodyB == nil {
		return compareRoots(a, b)
	}
	if bodyA == nil || bodyB == nil {
		return false
	}

	return compareBoxes(bodyA, bodyB)
}

// compareRoots compares two whole trees box-for-box, for the case where
// neither document has a body element.
func compareRoots(a, b *layout.Tree) bool {
	if len(a.Roots) != len(b.Roots) {
		return false
	}
	for i := range a.Roots {
		if !compareBoxes(a.Roots[i], b.Roots[i]) {
			return false
		}
	}
	return true
}

// findBodyBox walks tree looking for the box laid out for the <body>
// element.
func findBodyBox(tree *layout.Tree, doc *dom.Document) *layout.Node {
	for _, root := range tree.Roots {
		if found := findBodyBoxIn(root, doc); found != nil {
			return found
		}
	}
	return nil
}

func findBodyBoxIn(box *layout.Node, doc *dom.Document) *layout.Node {
	if box.Element != 0 {
		if n := doc.Node(box.Element); n.Kind == dom.KindElement && n.TagName() == "body" {
			return box
		}
	}
	for _, child := range box.Children {
		if found := findBodyBoxIn(child, doc); found != nil {
			return found
		}
	}
	return nil
}

// compareBoxes compares two boxes for structural equality: same box
// type, same dimensions (within tolerance), same children recursively.
func compareBoxes(a, b *layout.Node) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Box != b.Box {
		return false
	}
	if !compareDimensions(a.Dimensions, b.Dimensions) {
		return false
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !compareBoxes(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// compareDimensions compares two box dimensions with tolerance for
// floating-point layout arithmetic.
func compareDimensions(a, b layout.Dimensions) bool {
	const tolerance = 0.1

	if !floatEqual(a.Content.X, b.Content.X, tolerance) ||
		!floatEqual(a.Content.Y, b.Content.Y, tolerance) ||
		!floatEqual(a.Content.Width, b.Content.Width, tolerance) ||
		!floatEqual(a.Content.Height, b.Content.Height, tolerance) {
		return false
	}

	if !compareEdges(a.Padding, b.Padding, tolerance) ||
		!compareEdges(a.Border, b.Border, tolerance) ||
		!compareEdges(a.Margin, b.Margin, tolerance) {
		return false
	}

	return true
}

// compareEdges compares two SideOffsets with tolerance.
func compareEdges(a, b geom.SideOffset, tolerance float64) bool {
	return floatEqual(a.Top, b.Top, tolerance) &&
		floatEqual(a.Right, b.Right, tolerance) &&
		floatEqual(a.Bottom, b.Bottom, tolerance) &&
		floatEqual(a.Left, b.Left, tolerance)
}

// floatEqual compares two floats with tolerance.
func floatEqual(a, b, tolerance float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

// PrintSummary prints a human-readable summary of test results.
func PrintSummary(summary Summary) {
	fmt.Println("\n========================================")
	fmt.Println("Reftest Summary")
	fmt.Println("========================================")
	fmt.Printf("Total:   %d\n", summary.Total)
	fmt.Printf("Passed:  %d (%.1f%%)\n", summary.Passed, summary.PassRate())
	fmt.Printf("Failed:  %d\n", summary.Failed)
	fmt.Printf("Errors:  %d\n", summary.Errors)
	fmt.Printf("Skipped: %d\n", summary.Skipped)
	fmt.Println("========================================")

	if summary.Failed > 0 {
		fmt.Println("\nFailed Tests:")
		for _, r := range summary.Results {
			if r.Status == Fail {
				fmt.Printf("  - %s: %s\n", r.TestFile, r.Message)
			}
		}
	}

	if summary.Errors > 0 {
		fmt.Println("\nTests with Errors:")
		for _, r := range summary.Results {
			if r.Status == Error {
				fmt.Printf("  - %s: %s\n", r.TestFile, r.Message)
			}
		}
	}
}
