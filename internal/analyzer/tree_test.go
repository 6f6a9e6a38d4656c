package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pyted/internal/parser"
)

func TestTreeNode_Size(t *testing.T) {
	assert.Equal(t, 0, TreeSize(nil))
	assert.Equal(t, 1, TreeSize(tree("a")))
	assert.Equal(t, 4, TreeSize(tree("a", tree("b", tree("c")), tree("d"))))
}

func TestTreeNode_Height(t *testing.T) {
	assert.Equal(t, 0, tree("a").Height())
	assert.Equal(t, 2, tree("a", tree("b", tree("c")), tree("d")).Height())
}

func TestTreeNode_Equal(t *testing.T) {
	assert.True(t, tree("a", tree("b")).Equal(tree("a", tree("b"))))
	assert.False(t, tree("a", tree("b")).Equal(tree("a", tree("c"))))
	assert.False(t, tree("a").Equal(nil))
	assert.True(t, (*TreeNode)(nil).Equal(nil))
}

func TestTreeNode_Format(t *testing.T) {
	root := tree("Module", tree("Expr"))
	leaf := NewTreeNode("a b\n")
	leaf.Scalar = true
	root.Children[0].AddChild(leaf)

	assert.Equal(t, "Module\n  Expr\n    'a b\\n'\n", root.Format())
}

func convertSource(t *testing.T, tc *TreeConverter, source string) *TreeNode {
	t.Helper()
	module, err := parser.ParseModule(context.Background(), []byte(source))
	require.NoError(t, err)
	return tc.ConvertModule(module)
}

func TestTreeConverter_Convert(t *testing.T) {
	tc := NewTreeConverter()
	got := convertSource(t, tc, "x = 1")

	want := tree("Module",
		tree("Assign",
			tree("Name", tree("x"), tree("Store")),
			tree("Constant", tree("1"), tree("None")),
			tree("None"),
		),
	)
	assert.True(t, want.Equal(got), "got:\n%s", got.Format())
	assert.Equal(t, 9, got.Size())
}

func TestTreeConverter_ScalarLeaves(t *testing.T) {
	tc := NewTreeConverter()

	tests := []struct {
		value    interface{}
		expected string
	}{
		{nil, "None"},
		{(*parser.Node)(nil), "None"},
		{true, "True"},
		{"name", "name"},
		{1.5, "1.5"},
		{parser.Ellipsis{}, "Ellipsis"},
	}

	for _, tt := range tests {
		leaf := tc.Convert(tt.value)
		assert.Equal(t, tt.expected, leaf.Label)
		assert.True(t, leaf.Scalar)
		assert.True(t, leaf.IsLeaf())
	}
}

func TestTreeConverter_ListItems(t *testing.T) {
	// kw_defaults holds None for keyword-only arguments without a default
	got := convertSource(t, NewTreeConverter(), "def f(*, a, b=2): pass")

	assert.Equal(t, 2, countLabel(got, "arg"))
	assert.Equal(t, 10, countLabel(got, "None"), "tree:\n%s", got.Format())
}

func countLabel(root *TreeNode, label string) int {
	count := 0
	for _, n := range root.PostOrder() {
		if n.Label == label {
			count++
		}
	}
	return count
}

func TestTreeConverter_EmptyModule(t *testing.T) {
	got := convertSource(t, NewTreeConverter(), "")
	assert.Equal(t, "Module", got.Label)
	assert.Equal(t, 1, got.Size())
}

func TestTreeConverter_SkipDocstrings(t *testing.T) {
	source := "def f():\n    \"\"\"Docs.\"\"\"\n    return 1\n"
	plain := "def f():\n    return 1\n"

	withDocs := convertSource(t, NewTreeConverter(), source)
	without := convertSource(t, NewTreeConverterWithConfig(true), source)
	reference := convertSource(t, NewTreeConverter(), plain)

	assert.Equal(t, reference.Size()+4, withDocs.Size())
	assert.True(t, reference.Equal(without))
}
