package output

import (
	"strings"

	"github.com/marcus/lightbox/pkg/dom"
)

// TreeNode represents a node in a tree structure for rendering
type TreeNode struct {
	ID       string
	Tag      string
	Text     string
	Focused  bool
	Hidden   bool
	Children []TreeNode
}

// TreeRenderOptions configures tree rendering behavior
type TreeRenderOptions struct {
	MaxDepth   int  // 0 = unlimited
	ShowText   bool // Whether to show element text
	ShowHidden bool // Whether to descend into hidden subtrees
}

// FromElement converts an element subtree into tree nodes, marking the
// element that equals active as focused.
func FromElement(el *dom.Element, active *dom.Element) TreeNode {
	node := TreeNode{
		ID:      el.ID,
		Tag:     el.Tag,
		Text:    el.Text,
		Focused: el == active,
		Hidden:  el.Hidden(),
	}
	for _, child := range el.Children() {
		node.Children = append(node.Children, FromElement(child, active))
	}
	return node
}

// stateMark returns a focus/visibility indicator
func stateMark(n TreeNode) string {
	switch {
	case n.Focused:
		return " *"
	case n.Hidden:
		return " (hidden)"
	default:
		return ""
	}
}

// RenderTree renders a tree starting from a single root node
// Returns the complete tree as a string (without the root - just children)
func RenderTree(root TreeNode, opts TreeRenderOptions) string {
	lines := renderTreeNodes(root.Children, opts, 0, "")
	return strings.Join(lines, "\n")
}

// RenderTreeLines renders multiple root nodes and returns individual lines
func RenderTreeLines(roots []TreeNode, opts TreeRenderOptions) []string {
	return renderTreeNodes(roots, opts, 0, "")
}

// renderTreeNodes recursively renders tree nodes
func renderTreeNodes(nodes []TreeNode, opts TreeRenderOptions, depth int, prefix string) []string {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return nil
	}

	var lines []string

	for i, node := range nodes {
		isLast := i == len(nodes)-1

		connector := "\u251c\u2500\u2500 " // ├──
		if isLast {
			connector = "\u2514\u2500\u2500 " // └──
		}

		label := node.Tag
		if node.ID != "" {
			label += "#" + node.ID
		}
		if opts.ShowText && node.Text != "" {
			label += " " + quote(node.Text)
		}

		lines = append(lines, prefix+connector+label+stateMark(node))

		if node.Hidden && !opts.ShowHidden {
			continue
		}

		childPrefix := prefix
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "\u2502   " // │
		}

		childLines := renderTreeNodes(node.Children, opts, depth+1, childPrefix)
		lines = append(lines, childLines...)
	}

	return lines
}

// quote wraps text in quotes, keeping only its first line
func quote(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + "..."
	}
	return "\"" + s + "\""
}
