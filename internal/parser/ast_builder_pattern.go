package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/text/unicode/norm"
)

// patternItem is a pattern operand; negative marks a preceding unary minus,
// which the grammar keeps as a sibling token of the number.
type patternItem struct {
	node     *sitter.Node
	negative bool
}

func (b *ASTBuilder) patternItems(tsNode *sitter.Node) []patternItem {
	var items []patternItem
	negative := false
	for _, child := range b.children(tsNode) {
		if !child.IsNamed() {
			switch child.Type() {
			case "-":
				negative = true
			case "_":
				items = append(items, patternItem{node: child})
			}
			continue
		}
		items = append(items, patternItem{node: child, negative: negative})
		negative = false
	}
	return items
}

// buildPattern builds a match pattern from a case_pattern or any simple pattern node
func (b *ASTBuilder) buildPattern(tsNode *sitter.Node) *Node {
	if tsNode.Type() != "case_pattern" {
		return b.buildSimplePattern(patternItem{node: tsNode})
	}
	items := b.patternItems(tsNode)
	if len(items) == 0 {
		if strings.TrimSpace(b.getNodeText(tsNode)) == "_" {
			return b.newNode(NodeMatchAs, tsNode)
		}
		return b.fail(tsNode, "invalid pattern")
	}
	if len(items) > 1 {
		return b.fail(tsNode, "invalid pattern")
	}
	return b.buildSimplePattern(items[0])
}

func (b *ASTBuilder) buildSimplePattern(item patternItem) *Node {
	tsNode := item.node
	switch tsNode.Type() {
	case "_":
		return b.newNode(NodeMatchAs, tsNode)
	case "case_pattern":
		return b.buildPattern(tsNode)
	case "as_pattern":
		parts := b.namedChildren(tsNode)
		if len(parts) < 2 {
			return b.fail(tsNode, "invalid pattern")
		}
		node := b.newNode(NodeMatchAs, tsNode)
		node.Set("pattern", b.buildPattern(parts[0]))
		node.Set("name", b.identifier(parts[len(parts)-1]))
		return node
	case "union_pattern":
		node := b.newNode(NodeMatchOr, tsNode)
		for _, alt := range b.patternItems(tsNode) {
			p := b.buildSimplePattern(alt)
			if p != nil && p.Type == NodeMatchOr {
				for _, nested := range p.List("patterns") {
					node.Append("patterns", nested)
				}
				continue
			}
			node.Append("patterns", p)
		}
		return node
	case "list_pattern", "tuple_pattern":
		elements := b.namedChildren(tsNode)
		// a parenthesized single pattern is a group, not a sequence
		if tsNode.Type() == "tuple_pattern" && len(elements) == 1 && !b.hasChildOfType(tsNode, ",") {
			return b.buildPattern(elements[0])
		}
		node := b.newNode(NodeMatchSequence, tsNode)
		for _, element := range elements {
			node.Append("patterns", b.buildPattern(element))
		}
		return node
	case "dict_pattern":
		return b.buildMappingPattern(tsNode)
	case "class_pattern":
		return b.buildClassPattern(tsNode)
	case "splat_pattern":
		node := b.newNode(NodeMatchStar, tsNode)
		if name := norm.NFKC.String(strings.TrimLeft(b.getNodeText(tsNode), "* ")); name != "_" {
			node.Set("name", name)
		}
		return node
	case "true":
		return b.singletonPattern(tsNode, true)
	case "false":
		return b.singletonPattern(tsNode, false)
	case "none":
		return b.singletonPattern(tsNode, nil)
	case "dotted_name", "identifier":
		if len(b.namedChildren(tsNode)) > 1 {
			node := b.newNode(NodeMatchValue, tsNode)
			node.Set("value", b.dottedExpr(tsNode))
			return node
		}
		node := b.newNode(NodeMatchAs, tsNode)
		if name := b.dottedName(tsNode); name != "_" {
			node.Set("name", name)
		}
		return node
	case "string", "concatenated_string", "integer", "float", "complex_pattern":
		node := b.newNode(NodeMatchValue, tsNode)
		node.Set("value", b.buildPatternValue(item))
		return node
	case "keyword_pattern":
		return b.fail(tsNode, "keyword patterns are only allowed in class patterns")
	default:
		return b.fail(tsNode, "unsupported pattern %q", tsNode.Type())
	}
}

func (b *ASTBuilder) singletonPattern(tsNode *sitter.Node, value interface{}) *Node {
	node := b.newNode(NodeMatchSingleton, tsNode)
	node.Set("value", value)
	return node
}

func (b *ASTBuilder) buildMappingPattern(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeMatchMapping, tsNode)
	for _, item := range b.patternItems(tsNode) {
		switch item.node.Type() {
		case "splat_pattern":
			name := norm.NFKC.String(strings.TrimLeft(b.getNodeText(item.node), "* "))
			if name == "_" {
				return b.fail(item.node, "invalid syntax")
			}
			node.Set("rest", name)
		case "case_pattern":
			node.Append("patterns", b.buildPattern(item.node))
		default:
			node.Append("keys", b.buildPatternValue(item))
		}
	}
	if len(node.List("keys")) != len(node.List("patterns")) {
		return b.fail(tsNode, "invalid mapping pattern")
	}
	return node
}

func (b *ASTBuilder) buildClassPattern(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeMatchClass, tsNode)
	for _, item := range b.patternItems(tsNode) {
		switch item.node.Type() {
		case "dotted_name", "identifier":
			node.Set("cls", b.dottedExpr(item.node))
		case "keyword_pattern":
			if !b.appendKeywordPattern(node, item.node) {
				return nil
			}
		case "case_pattern":
			inner := b.namedChildren(item.node)
			if len(inner) == 1 && inner[0].Type() == "keyword_pattern" {
				if !b.appendKeywordPattern(node, inner[0]) {
					return nil
				}
				continue
			}
			if len(node.List("kwd_attrs")) > 0 {
				return b.fail(item.node, "positional patterns follow keyword patterns")
			}
			node.Append("patterns", b.buildPattern(item.node))
		}
	}
	return node
}

func (b *ASTBuilder) appendKeywordPattern(node *Node, tsNode *sitter.Node) bool {
	items := b.patternItems(tsNode)
	if len(items) != 2 {
		b.fail(tsNode, "invalid keyword pattern")
		return false
	}
	node.Append("kwd_attrs", b.identifier(items[0].node))
	node.Append("kwd_patterns", b.buildSimplePattern(items[1]))
	return true
}

// buildPatternValue builds the expression compared by value patterns and mapping keys
func (b *ASTBuilder) buildPatternValue(item patternItem) *Node {
	tsNode := item.node
	switch tsNode.Type() {
	case "integer", "float":
		number := b.buildNumber(tsNode)
		if !item.negative {
			return number
		}
		neg := b.newNode(NodeUnaryOp, tsNode)
		neg.Set("op", NewNode(NodeUSub))
		neg.Set("operand", number)
		return neg
	case "complex_pattern":
		var operands []patternItem
		op := NodeAdd
		negative := false
		for _, child := range b.children(tsNode) {
			if child.IsNamed() {
				operands = append(operands, patternItem{node: child, negative: negative})
				negative = false
				continue
			}
			if len(operands) == 0 {
				negative = child.Type() == "-"
				continue
			}
			if child.Type() == "-" {
				op = NodeSub
			}
		}
		if len(operands) != 2 {
			return b.fail(tsNode, "invalid complex literal pattern")
		}
		node := b.newNode(NodeBinOp, tsNode)
		node.Set("left", b.buildPatternValue(operands[0]))
		node.Set("op", NewNode(op))
		node.Set("right", b.buildPatternValue(operands[1]))
		return node
	case "dotted_name", "identifier":
		return b.dottedExpr(tsNode)
	case "true":
		return b.buildConstant(tsNode, true)
	case "false":
		return b.buildConstant(tsNode, false)
	case "none":
		return b.buildConstant(tsNode, nil)
	default:
		return b.buildExpr(tsNode)
	}
}

// dottedExpr turns a.b.c into nested Attribute loads
func (b *ASTBuilder) dottedExpr(tsNode *sitter.Node) *Node {
	parts := b.namedChildren(tsNode)
	if len(parts) == 0 {
		return b.buildName(tsNode, NodeLoad)
	}
	expr := b.buildName(parts[0], NodeLoad)
	for _, part := range parts[1:] {
		attr := b.newNode(NodeAttribute, part)
		attr.Set("value", expr)
		attr.Set("attr", b.identifier(part))
		attr.Set("ctx", NewNode(NodeLoad))
		expr = attr
	}
	return expr
}
