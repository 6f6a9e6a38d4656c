package parser

import "sort"

// Statistics summarizes a syntax tree
type Statistics struct {
	NodeCounts map[NodeType]int
	TotalNodes int
	MaxDepth   int
}

// CollectStatistics counts the nodes of a syntax tree by type.
// The root has depth 1; scalar field values are not counted.
func CollectStatistics(root *Node) *Statistics {
	stats := &Statistics{NodeCounts: make(map[NodeType]int)}
	stats.visit(root, 1)
	return stats
}

func (s *Statistics) visit(node *Node, depth int) {
	if node == nil {
		return
	}
	s.TotalNodes++
	s.NodeCounts[node.Type]++
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	for _, child := range node.GetChildren() {
		s.visit(child, depth+1)
	}
}

// TopTypes returns up to n node types, most frequent first, ties by name
func (s *Statistics) TopTypes(n int) []NodeType {
	types := make([]NodeType, 0, len(s.NodeCounts))
	for nodeType := range s.NodeCounts {
		types = append(types, nodeType)
	}
	sort.Slice(types, func(i, j int) bool {
		ci, cj := s.NodeCounts[types[i]], s.NodeCounts[types[j]]
		if ci != cj {
			return ci > cj
		}
		return types[i] < types[j]
	})
	if n >= 0 && len(types) > n {
		types = types[:n]
	}
	return types
}
