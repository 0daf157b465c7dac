package render

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/joeychilson/paperoutline/outline"
)

// DefaultMaxStyleDepth is the deepest heading level with its own style class.
// Deeper headings reuse the style of this level.
const DefaultMaxStyleDepth = 6

// Node is one display entry: heading lines carry a style class ("h1".."h6"),
// passthrough lines carry none.
type Node struct {
	StyleClass string `json:"style_class,omitempty"`
	Text       string `json:"text"`
}

// policy strips all markup from heading text; PDF-extracted content is not
// trusted to land in HTML unescaped.
var policy = bluemonday.StrictPolicy()

// Tree converts an outline document into display nodes, clamping heading
// depth to the default style range.
func Tree(doc outline.Document) []Node {
	return TreeMaxDepth(doc, DefaultMaxStyleDepth)
}

// TreeMaxDepth converts an outline document into display nodes, mapping each
// heading depth to a style class and clamping depths beyond maxDepth to the
// deepest available style. It is a pure, total transform: every input line
// yields exactly one node.
func TreeMaxDepth(doc outline.Document, maxDepth int) []Node {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxStyleDepth
	}

	nodes := make([]Node, 0, len(doc))
	for _, line := range doc {
		if !line.IsHeading() {
			nodes = append(nodes, Node{Text: line.Text})
			continue
		}
		depth := min(line.Depth, maxDepth)
		nodes = append(nodes, Node{
			StyleClass: fmt.Sprintf("h%d", depth),
			Text:       line.Text,
		})
	}
	return nodes
}

// HTML renders the document as a styled, indented HTML block: one <p> per
// heading with a level class, font size shrinking and indent growing with
// depth, wrapped in a bordered scroll box. Heading text is sanitized before
// embedding.
func HTML(doc outline.Document) string {
	return HTMLMaxDepth(doc, DefaultMaxStyleDepth)
}

// HTMLMaxDepth renders styled HTML with heading depth clamped to maxDepth.
func HTMLMaxDepth(doc outline.Document, maxDepth int) string {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxStyleDepth
	}

	var sb strings.Builder
	sb.WriteString("<style>\n")
	for d := 1; d <= maxDepth; d++ {
		size := 24 - 4*(d-1)
		if size < 12 {
			size = 12
		}
		fmt.Fprintf(&sb, ".h%d { font-size: %dpx; margin-left: %dpx; }\n", d, size, 20*(d-1))
	}
	sb.WriteString("</style>\n")

	sb.WriteString(`<div style="border:1px solid #ddd; padding:10px; border-radius:5px; overflow:auto;">` + "\n")
	for _, node := range TreeMaxDepth(doc, maxDepth) {
		text := policy.Sanitize(node.Text)
		if node.StyleClass == "" {
			sb.WriteString(text)
			sb.WriteString("\n")
			continue
		}
		fmt.Fprintf(&sb, "<p class=%q>%s</p>\n", node.StyleClass, text)
	}
	sb.WriteString("</div>")

	return sb.String()
}
