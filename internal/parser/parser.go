package parser

import (
	"context"
	"fmt"
	"io"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parser provides Python code parsing capabilities using tree-sitter
type Parser struct {
	parser *sitter.Parser
}

// New creates a new Parser instance with Python grammar
func New() *Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Parser{
		parser: parser,
	}
}

// ParseResult represents the result of parsing Python code
type ParseResult struct {
	Tree       *sitter.Tree
	RootNode   *sitter.Node
	SourceCode []byte
}

// Parse parses Python source code into a tree-sitter tree. Any ERROR or
// MISSING node in the tree is reported as a *SyntaxError.
func (p *Parser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	rootNode := tree.RootNode()
	if rootNode.HasError() {
		return nil, p.syntaxError(rootNode, source)
	}

	return &ParseResult{
		Tree:       tree,
		RootNode:   rootNode,
		SourceCode: source,
	}, nil
}

// ParseModule parses source code and builds its Python syntax tree
func ParseModule(ctx context.Context, source []byte) (*Node, error) {
	result, err := New().Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return NewASTBuilder(result.SourceCode).Build(result.Tree)
}

// WalkTree traverses the tree-sitter tree and calls the visitor function for each node
func (p *Parser) WalkTree(node *sitter.Node, visitor func(*sitter.Node) error) error {
	if err := visitor(node); err != nil {
		return err
	}

	childCount := int(node.ChildCount())
	for i := 0; i < childCount; i++ {
		child := node.Child(i)
		if err := p.WalkTree(child, visitor); err != nil {
			return err
		}
	}

	return nil
}

// firstError returns the first ERROR or MISSING node in document order
func (p *Parser) firstError(node *sitter.Node) *sitter.Node {
	var found *sitter.Node
	_ = p.WalkTree(node, func(n *sitter.Node) error {
		if n.IsError() || n.IsMissing() {
			found = n
			return io.EOF
		}
		return nil
	})
	return found
}

func (p *Parser) syntaxError(root *sitter.Node, source []byte) *SyntaxError {
	bad := p.firstError(root)
	if bad == nil {
		return &SyntaxError{Msg: "invalid syntax"}
	}

	point := bad.StartPoint()
	msg := "invalid syntax"
	if bad.IsMissing() {
		msg = fmt.Sprintf("expected '%s'", bad.Type())
	}
	return &SyntaxError{
		Msg:    msg,
		Line:   int(point.Row) + 1,
		Column: int(point.Column) + 1,
		Text:   sourceLine(source, int(point.Row)),
	}
}

func sourceLine(source []byte, row int) string {
	lines := strings.Split(string(source), "\n")
	if row < 0 || row >= len(lines) {
		return ""
	}
	return strings.TrimRight(lines[row], "\r")
}
