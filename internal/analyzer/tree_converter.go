package analyzer

import (
	"github.com/ludo-technologies/pyted/internal/parser"
)

// TreeConverter converts syntax trees into generic labeled trees
type TreeConverter struct {
	skipDocstrings bool
}

// NewTreeConverter creates a converter that keeps every node
func NewTreeConverter() *TreeConverter {
	return &TreeConverter{}
}

// NewTreeConverterWithConfig creates a converter with docstring handling configured
func NewTreeConverterWithConfig(skipDocstrings bool) *TreeConverter {
	return &TreeConverter{skipDocstrings: skipDocstrings}
}

// Convert turns a syntax node or a field value into a generic tree.
// Values that are not syntax nodes become leaves labeled with their text;
// a node becomes its type name with one child per list item, sub-node and
// scalar field, in field order.
func (tc *TreeConverter) Convert(value interface{}) *TreeNode {
	node, ok := value.(*parser.Node)
	if !ok || node == nil {
		leaf := NewTreeNode(parser.FormatScalar(value))
		leaf.Scalar = true
		return leaf
	}

	tree := NewTreeNode(string(node.Type))
	for _, field := range node.Fields {
		items, isList := field.Value.([]interface{})
		if !isList {
			tree.AddChild(tc.Convert(field.Value))
			continue
		}
		for i, item := range items {
			if i == 0 && field.Name == "body" && tc.skipDocstrings && tc.isDocstring(node) {
				continue
			}
			tree.AddChild(tc.Convert(item))
		}
	}
	return tree
}

// ConvertModule converts a parsed module; a nil module yields a nil tree
func (tc *TreeConverter) ConvertModule(module *parser.Node) *TreeNode {
	if module == nil {
		return nil
	}
	return tc.Convert(module)
}

func (tc *TreeConverter) isDocstring(node *parser.Node) bool {
	_, ok := node.Docstring()
	return ok
}
