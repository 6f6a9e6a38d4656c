package analyzer

import (
	"strings"
)

// TreeNode is a node of the generic labeled tree compared by tree edit distance
type TreeNode struct {
	Label    string
	Children []*TreeNode

	// Scalar marks leaves converted from field values rather than syntax nodes
	Scalar bool
}

// NewTreeNode creates a new tree node with the given label
func NewTreeNode(label string) *TreeNode {
	return &TreeNode{Label: label}
}

// AddChild appends a child node
func (t *TreeNode) AddChild(child *TreeNode) *TreeNode {
	t.Children = append(t.Children, child)
	return t
}

// IsLeaf returns true if the node has no children
func (t *TreeNode) IsLeaf() bool {
	return len(t.Children) == 0
}

// Size returns the number of nodes in the subtree rooted at this node
func (t *TreeNode) Size() int {
	if t == nil {
		return 0
	}
	size := 1
	for _, child := range t.Children {
		size += child.Size()
	}
	return size
}

// TreeSize returns the total node count of a tree; a nil tree has size 0
func TreeSize(tree *TreeNode) int {
	return tree.Size()
}

// Height returns the height of the subtree (a single leaf has height 0)
func (t *TreeNode) Height() int {
	if t == nil || len(t.Children) == 0 {
		return 0
	}
	maxChild := 0
	for _, child := range t.Children {
		if h := child.Height(); h > maxChild {
			maxChild = h
		}
	}
	return maxChild + 1
}

// Equal reports whether two trees have the same shape and labels
func (t *TreeNode) Equal(other *TreeNode) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Label != other.Label || len(t.Children) != len(other.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// String returns the node label
func (t *TreeNode) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Label
}

// Format renders the tree one node per line, indented by depth
func (t *TreeNode) Format() string {
	var sb strings.Builder
	t.format(&sb, 0)
	return sb.String()
}

func (t *TreeNode) format(sb *strings.Builder, depth int) {
	if t == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	if t.Scalar {
		sb.WriteString(quoteLabel(t.Label))
	} else {
		sb.WriteString(t.Label)
	}
	sb.WriteByte('\n')
	for _, child := range t.Children {
		child.format(sb, depth+1)
	}
}

// quoteLabel keeps multi-line or blank scalar labels on one output line
func quoteLabel(label string) string {
	if label == "" || strings.ContainsAny(label, "\n\r\t") || strings.TrimSpace(label) != label {
		return "'" + strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(label) + "'"
	}
	return label
}

// PostOrder returns the nodes of the tree in post-order
func (t *TreeNode) PostOrder() []*TreeNode {
	var nodes []*TreeNode
	var visit func(*TreeNode)
	visit = func(n *TreeNode) {
		if n == nil {
			return
		}
		for _, child := range n.Children {
			visit(child)
		}
		nodes = append(nodes, n)
	}
	visit(t)
	return nodes
}
