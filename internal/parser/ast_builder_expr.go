package parser

import (
	"errors"
	"math/big"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

var binaryOperators = map[string]NodeType{
	"+":  NodeAdd,
	"-":  NodeSub,
	"*":  NodeMult,
	"@":  NodeMatMult,
	"/":  NodeDiv,
	"%":  NodeMod,
	"**": NodePow,
	"<<": NodeLShift,
	">>": NodeRShift,
	"|":  NodeBitOr,
	"^":  NodeBitXor,
	"&":  NodeBitAnd,
	"//": NodeFloorDiv,
}

var unaryOperators = map[string]NodeType{
	"+":   NodeUAdd,
	"-":   NodeUSub,
	"~":   NodeInvert,
	"not": NodeNot,
}

var compareOperators = map[string]NodeType{
	"<":      NodeLt,
	"<=":     NodeLtE,
	"==":     NodeEq,
	"!=":     NodeNotEq,
	">=":     NodeGtE,
	">":      NodeGt,
	"in":     NodeIn,
	"not in": NodeNotIn,
	"is":     NodeIs,
	"is not": NodeIsNot,
}

// buildExpr builds an expression in Load context
func (b *ASTBuilder) buildExpr(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return b.fail(nil, "missing expression")
	}

	switch tsNode.Type() {
	case "identifier", "keyword_identifier":
		return b.buildName(tsNode, NodeLoad)
	case "true":
		return b.buildConstant(tsNode, true)
	case "false":
		return b.buildConstant(tsNode, false)
	case "none":
		return b.buildConstant(tsNode, nil)
	case "ellipsis":
		return b.buildConstant(tsNode, Ellipsis{})
	case "integer", "float":
		return b.buildNumber(tsNode)
	case "string", "concatenated_string":
		return b.buildString(tsNode)
	case "parenthesized_expression", "parenthesized_list_splat":
		children := b.namedChildren(tsNode)
		if len(children) == 0 {
			return b.fail(tsNode, "invalid syntax")
		}
		return b.buildExpr(children[0])
	case "tuple", "expression_list", "pattern_list", "tuple_pattern":
		return b.buildTupleOf(tsNode, b.namedChildren(tsNode))
	case "list", "list_pattern":
		return b.buildSequence(NodeList, tsNode)
	case "set":
		return b.buildSequence(NodeSet, tsNode)
	case "dictionary":
		return b.buildDict(tsNode)
	case "list_comprehension":
		return b.buildComprehension(NodeListComp, tsNode)
	case "set_comprehension":
		return b.buildComprehension(NodeSetComp, tsNode)
	case "dictionary_comprehension":
		return b.buildComprehension(NodeDictComp, tsNode)
	case "generator_expression":
		return b.buildComprehension(NodeGeneratorExp, tsNode)
	case "binary_operator":
		return b.buildBinaryOp(tsNode)
	case "unary_operator", "not_operator":
		return b.buildUnaryOp(tsNode)
	case "boolean_operator":
		return b.buildBoolOp(tsNode)
	case "comparison_operator":
		return b.buildCompare(tsNode)
	case "lambda":
		return b.buildLambda(tsNode)
	case "conditional_expression":
		return b.buildIfExp(tsNode)
	case "named_expression":
		return b.buildNamedExpr(tsNode)
	case "call":
		return b.buildCall(tsNode)
	case "attribute":
		return b.buildAttribute(tsNode)
	case "subscript":
		return b.buildSubscript(tsNode)
	case "slice":
		return b.buildSlice(tsNode)
	case "await":
		return b.buildWrapped(NodeAwait, tsNode)
	case "yield":
		return b.buildYield(tsNode)
	case "list_splat", "list_splat_pattern":
		if inner := b.namedChildren(tsNode); len(inner) > 0 && inner[0].Type() == "named_expression" {
			return b.fail(inner[0], "invalid syntax")
		}
		starred := b.buildWrapped(NodeStarred, tsNode)
		if starred != nil {
			starred.Set("ctx", NewNode(NodeLoad))
		}
		return starred
	case "as_pattern_target":
		if children := b.namedChildren(tsNode); len(children) == 1 {
			return b.buildExpr(children[0])
		}
		return b.buildName(tsNode, NodeLoad)
	case "type", "generic_type", "union_type", "member_type", "splat_type":
		return b.buildType(tsNode)
	default:
		return b.fail(tsNode, "unsupported expression %q", tsNode.Type())
	}
}

// buildTarget builds an assignment or deletion target
func (b *ASTBuilder) buildTarget(tsNode *sitter.Node, ctx NodeType) *Node {
	node := b.buildExpr(tsNode)
	setContext(node, ctx)
	return node
}

// checkTarget fails when node cannot be bound to, or deleted for NodeDel.
// Tuples and lists are accepted only when unpack is set.
func (b *ASTBuilder) checkTarget(tsNode *sitter.Node, node *Node, ctx NodeType, unpack bool) *Node {
	if msg := targetError(node, ctx, unpack, false); msg != "" {
		return b.fail(tsNode, "%s", msg)
	}
	return node
}

func targetError(node *Node, ctx NodeType, unpack, nested bool) string {
	if node == nil {
		return ""
	}
	switch node.Type {
	case NodeName, NodeAttribute, NodeSubscript:
		return ""
	case NodeTuple, NodeList:
		if !unpack {
			return "illegal expression for augmented assignment"
		}
		for _, elt := range node.Nodes("elts") {
			if msg := targetError(elt, ctx, unpack, true); msg != "" {
				return msg
			}
		}
		return ""
	case NodeStarred:
		if ctx == NodeDel {
			return "cannot delete starred"
		}
		if !nested {
			return "starred assignment target must be in a list or tuple"
		}
		return targetError(node.Child("value"), ctx, unpack, true)
	}
	if ctx == NodeDel {
		return "cannot delete expression"
	}
	return "cannot assign to expression"
}

// setContext marks a target expression and its nested targets with ctx
func setContext(node *Node, ctx NodeType) {
	if node == nil {
		return
	}
	switch node.Type {
	case NodeName, NodeAttribute, NodeSubscript:
		node.Set("ctx", NewNode(ctx))
	case NodeStarred:
		node.Set("ctx", NewNode(ctx))
		setContext(node.Child("value"), ctx)
	case NodeList, NodeTuple:
		node.Set("ctx", NewNode(ctx))
		for _, elt := range node.Nodes("elts") {
			setContext(elt, ctx)
		}
	}
}

func (b *ASTBuilder) buildName(tsNode *sitter.Node, ctx NodeType) *Node {
	node := b.newNode(NodeName, tsNode)
	node.Set("id", b.identifier(tsNode))
	node.Set("ctx", NewNode(ctx))
	return node
}

func (b *ASTBuilder) buildConstant(tsNode *sitter.Node, value interface{}) *Node {
	node := b.newNode(NodeConstant, tsNode)
	node.Set("value", value)
	return node
}

// buildWrapped builds node types holding a single "value" sub-expression
func (b *ASTBuilder) buildWrapped(nodeType NodeType, tsNode *sitter.Node) *Node {
	children := b.namedChildren(tsNode)
	if len(children) == 0 {
		return b.fail(tsNode, "invalid syntax")
	}
	node := b.newNode(nodeType, tsNode)
	node.Set("value", b.buildExpr(children[0]))
	return node
}

func (b *ASTBuilder) buildNumber(tsNode *sitter.Node) *Node {
	text := strings.ToLower(strings.ReplaceAll(b.getNodeText(tsNode), "_", ""))

	if strings.HasSuffix(text, "j") {
		f, err := parsePythonFloat(text[:len(text)-1])
		if err != nil {
			return b.fail(tsNode, "invalid imaginary literal")
		}
		return b.buildConstant(tsNode, complex(0, f))
	}

	isFloat := tsNode.Type() == "float" ||
		(!strings.HasPrefix(text, "0x") && strings.ContainsAny(text, ".e"))
	if isFloat {
		f, err := parsePythonFloat(text)
		if err != nil {
			return b.fail(tsNode, "invalid float literal")
		}
		return b.buildConstant(tsNode, f)
	}

	if strings.HasSuffix(text, "l") {
		return b.fail(tsNode, "invalid decimal literal")
	}
	// Python rejects leading zeros on non-zero decimal integers
	if len(text) > 1 && text[0] == '0' && text[1] >= '0' && text[1] <= '9' {
		if strings.Trim(text, "0") != "" {
			return b.fail(tsNode, "leading zeros in decimal integer literals are not permitted")
		}
		return b.buildConstant(tsNode, new(big.Int))
	}
	value, ok := new(big.Int).SetString(text, 0)
	if !ok {
		return b.fail(tsNode, "invalid integer literal")
	}
	return b.buildConstant(tsNode, value)
}

// parsePythonFloat parses a float literal; overflow yields inf as in Python
func parsePythonFloat(text string) (float64, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return f, nil
}

func (b *ASTBuilder) buildTupleOf(tsNode *sitter.Node, elements []*sitter.Node) *Node {
	tuple := b.newNode(NodeTuple, tsNode)
	elts := []interface{}{}
	for _, element := range elements {
		elts = append(elts, b.buildExpr(element))
	}
	tuple.Set("elts", elts)
	tuple.Set("ctx", NewNode(NodeLoad))
	return tuple
}

func (b *ASTBuilder) buildSequence(nodeType NodeType, tsNode *sitter.Node) *Node {
	node := b.newNode(nodeType, tsNode)
	elts := []interface{}{}
	for _, element := range b.namedChildren(tsNode) {
		elts = append(elts, b.buildExpr(element))
	}
	node.Set("elts", elts)
	if nodeType == NodeList {
		node.Set("ctx", NewNode(NodeLoad))
	}
	return node
}

func (b *ASTBuilder) buildDict(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeDict, tsNode)
	for _, child := range b.namedChildren(tsNode) {
		switch child.Type() {
		case "pair":
			node.Append("keys", b.buildExpr(child.ChildByFieldName("key")))
			node.Append("values", b.buildExpr(child.ChildByFieldName("value")))
		case "dictionary_splat":
			// **mapping has no key
			node.Append("keys", nil)
			inner := b.namedChildren(child)
			if len(inner) == 0 {
				return b.fail(child, "invalid syntax")
			}
			node.Append("values", b.buildExpr(inner[0]))
		default:
			return b.fail(child, "invalid dictionary entry")
		}
	}
	return node
}

func (b *ASTBuilder) buildComprehension(nodeType NodeType, tsNode *sitter.Node) *Node {
	node := b.newNode(nodeType, tsNode)
	body := tsNode.ChildByFieldName("body")
	if body == nil {
		return b.fail(tsNode, "invalid comprehension")
	}
	if nodeType == NodeDictComp {
		node.Set("key", b.buildExpr(body.ChildByFieldName("key")))
		node.Set("value", b.buildExpr(body.ChildByFieldName("value")))
	} else {
		node.Set("elt", b.buildExpr(body))
	}

	var current *Node
	for _, child := range b.namedChildren(tsNode) {
		switch child.Type() {
		case "for_in_clause":
			current = b.buildForInClause(child)
			node.Append("generators", current)
		case "if_clause":
			if current == nil {
				return b.fail(child, "invalid comprehension")
			}
			if cond := b.namedChildren(child); len(cond) > 0 {
				current.Append("ifs", b.buildExpr(cond[0]))
			}
		}
	}
	return node
}

func (b *ASTBuilder) buildForInClause(tsNode *sitter.Node) *Node {
	comp := NewNode(NodeComprehension)
	if b.hasChildOfType(tsNode, "async") {
		comp.Set("is_async", 1)
	}
	comp.Set("target", b.buildTarget(tsNode.ChildByFieldName("left"), NodeStore))

	var iters []*sitter.Node
	seenIn := false
	for _, child := range b.children(tsNode) {
		if child.Type() == "in" {
			seenIn = true
			continue
		}
		if seenIn && child.IsNamed() {
			iters = append(iters, child)
		}
	}
	// an unparenthesized tuple after "in" is not a comprehension iterable
	if len(iters) != 1 || b.hasChildOfType(tsNode, ",") {
		return b.fail(tsNode, "invalid syntax")
	}
	comp.Set("iter", b.buildExpr(iters[0]))
	return comp
}

func (b *ASTBuilder) buildBinaryOp(tsNode *sitter.Node) *Node {
	operator := tsNode.ChildByFieldName("operator")
	if operator == nil {
		return b.fail(tsNode, "invalid syntax")
	}
	op, ok := binaryOperators[operator.Type()]
	if !ok {
		return b.fail(operator, "unknown operator %q", operator.Type())
	}

	node := b.newNode(NodeBinOp, tsNode)
	node.Set("left", b.buildExpr(tsNode.ChildByFieldName("left")))
	node.Set("op", NewNode(op))
	node.Set("right", b.buildExpr(tsNode.ChildByFieldName("right")))
	return node
}

func (b *ASTBuilder) buildUnaryOp(tsNode *sitter.Node) *Node {
	opText := "not"
	if operator := tsNode.ChildByFieldName("operator"); operator != nil {
		opText = operator.Type()
	}
	op, ok := unaryOperators[opText]
	if !ok {
		return b.fail(tsNode, "unknown operator %q", opText)
	}

	node := b.newNode(NodeUnaryOp, tsNode)
	node.Set("op", NewNode(op))
	node.Set("operand", b.buildExpr(tsNode.ChildByFieldName("argument")))
	return node
}

func (b *ASTBuilder) buildBoolOp(tsNode *sitter.Node) *Node {
	operator := tsNode.ChildByFieldName("operator")
	if operator == nil {
		return b.fail(tsNode, "invalid syntax")
	}
	op := NodeAnd
	if operator.Type() == "or" {
		op = NodeOr
	}

	node := b.newNode(NodeBoolOp, tsNode)
	node.Set("op", NewNode(op))
	node.Set("values", b.boolOperands(tsNode, operator.Type()))
	return node
}

// boolOperands flattens chains of the same boolean operator into one list
func (b *ASTBuilder) boolOperands(tsNode *sitter.Node, opText string) []interface{} {
	var values []interface{}
	for _, side := range []string{"left", "right"} {
		operand := tsNode.ChildByFieldName(side)
		if operand != nil && operand.Type() == "boolean_operator" {
			if inner := operand.ChildByFieldName("operator"); inner != nil && inner.Type() == opText {
				values = append(values, b.boolOperands(operand, opText)...)
				continue
			}
		}
		values = append(values, b.buildExpr(operand))
	}
	return values
}

func (b *ASTBuilder) buildCompare(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeCompare, tsNode)
	children := b.children(tsNode)

	seenLeft := false
	for i := 0; i < len(children); i++ {
		child := children[i]
		if child.IsNamed() {
			if !seenLeft {
				node.Set("left", b.buildExpr(child))
				seenLeft = true
			} else {
				node.Append("comparators", b.buildExpr(child))
			}
			continue
		}

		opText := child.Type()
		// tolerate grammars that expose "not in" / "is not" as two tokens
		if (opText == "not" || opText == "is") && i+1 < len(children) && !children[i+1].IsNamed() {
			if joined := opText + " " + children[i+1].Type(); joined == "not in" || joined == "is not" {
				opText = joined
				i++
			}
		}
		op, ok := compareOperators[opText]
		if !ok {
			return b.fail(child, "invalid comparison operator %q", opText)
		}
		node.Append("ops", NewNode(op))
	}
	return node
}

func (b *ASTBuilder) buildLambda(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeLambda, tsNode)
	node.Set("args", b.buildArguments(tsNode.ChildByFieldName("parameters")))
	node.Set("body", b.buildExpr(tsNode.ChildByFieldName("body")))
	return node
}

func (b *ASTBuilder) buildIfExp(tsNode *sitter.Node) *Node {
	parts := b.namedChildren(tsNode)
	if len(parts) != 3 {
		return b.fail(tsNode, "invalid conditional expression")
	}
	node := b.newNode(NodeIfExp, tsNode)
	node.Set("test", b.buildExpr(parts[1]))
	node.Set("body", b.buildExpr(parts[0]))
	node.Set("orelse", b.buildExpr(parts[2]))
	return node
}

func (b *ASTBuilder) buildNamedExpr(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeNamedExpr, tsNode)
	node.Set("target", b.buildTarget(tsNode.ChildByFieldName("name"), NodeStore))
	node.Set("value", b.buildExpr(tsNode.ChildByFieldName("value")))
	return node
}

func (b *ASTBuilder) buildCall(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeCall, tsNode)
	node.Set("func", b.buildExpr(tsNode.ChildByFieldName("function")))

	arguments := tsNode.ChildByFieldName("arguments")
	if arguments == nil {
		return node
	}
	if arguments.Type() == "generator_expression" {
		node.Set("args", []interface{}{b.buildExpr(arguments)})
		return node
	}
	args, keywords := b.buildCallArguments(arguments)
	if args == nil {
		return nil
	}
	node.Set("args", args)
	node.Set("keywords", keywords)
	return node
}

// buildCallArguments splits an argument_list into positional and keyword
// arguments. Both are nil when the arguments are out of order.
func (b *ASTBuilder) buildCallArguments(tsNode *sitter.Node) ([]interface{}, []interface{}) {
	args := []interface{}{}
	keywords := []interface{}{}
	names := map[string]bool{}
	seenKeyword, seenKwargs := false, false
	for _, child := range b.namedChildren(tsNode) {
		switch child.Type() {
		case "keyword_argument":
			name := b.identifier(child.ChildByFieldName("name"))
			if names[name] {
				b.fail(child, "keyword argument repeated: %s", name)
				return nil, nil
			}
			names[name] = true
			seenKeyword = true
			keyword := b.newNode(NodeKeyword, child)
			keyword.Set("arg", name)
			keyword.Set("value", b.buildExpr(child.ChildByFieldName("value")))
			keywords = append(keywords, keyword)
		case "dictionary_splat":
			seenKwargs = true
			keyword := b.newNode(NodeKeyword, child)
			if inner := b.namedChildren(child); len(inner) > 0 {
				keyword.Set("value", b.buildExpr(inner[0]))
			}
			keywords = append(keywords, keyword)
		case "list_splat", "parenthesized_list_splat":
			if seenKwargs {
				b.fail(child, "iterable argument unpacking follows keyword argument unpacking")
				return nil, nil
			}
			args = append(args, b.buildExpr(child))
		default:
			switch {
			case seenKwargs:
				b.fail(child, "positional argument follows keyword argument unpacking")
				return nil, nil
			case seenKeyword:
				b.fail(child, "positional argument follows keyword argument")
				return nil, nil
			}
			args = append(args, b.buildExpr(child))
		}
	}
	return args, keywords
}

func (b *ASTBuilder) buildAttribute(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeAttribute, tsNode)
	node.Set("value", b.buildExpr(tsNode.ChildByFieldName("object")))
	node.Set("attr", b.identifier(tsNode.ChildByFieldName("attribute")))
	node.Set("ctx", NewNode(NodeLoad))
	return node
}

func (b *ASTBuilder) buildSubscript(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSubscript, tsNode)
	node.Set("value", b.buildExpr(tsNode.ChildByFieldName("value")))

	var subscripts []*sitter.Node
	inBrackets := false
	for _, child := range b.children(tsNode) {
		if child.Type() == "[" {
			inBrackets = true
			continue
		}
		if inBrackets && child.IsNamed() {
			subscripts = append(subscripts, child)
		}
	}

	switch {
	case len(subscripts) == 0:
		return b.fail(tsNode, "invalid subscript")
	case len(subscripts) == 1 && !b.hasChildOfType(tsNode, ",") && subscripts[0].Type() != "list_splat":
		node.Set("slice", b.buildExpr(subscripts[0]))
	default:
		node.Set("slice", b.buildTupleOf(tsNode, subscripts))
	}
	node.Set("ctx", NewNode(NodeLoad))
	return node
}

func (b *ASTBuilder) buildSlice(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeSlice, tsNode)
	colons := 0
	for _, child := range b.children(tsNode) {
		if child.Type() == ":" {
			colons++
			continue
		}
		if !child.IsNamed() {
			continue
		}
		switch colons {
		case 0:
			node.Set("lower", b.buildExpr(child))
		case 1:
			node.Set("upper", b.buildExpr(child))
		default:
			node.Set("step", b.buildExpr(child))
		}
	}
	return node
}

func (b *ASTBuilder) buildYield(tsNode *sitter.Node) *Node {
	if b.hasChildOfType(tsNode, "from") {
		return b.buildWrapped(NodeYieldFrom, tsNode)
	}
	node := b.newNode(NodeYield, tsNode)
	if children := b.namedChildren(tsNode); len(children) > 0 {
		node.Set("value", b.buildExpr(children[0]))
	}
	return node
}

// buildType builds an annotation, including the grammar's type-only forms
func (b *ASTBuilder) buildType(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return b.fail(nil, "missing annotation")
	}
	switch tsNode.Type() {
	case "type":
		children := b.namedChildren(tsNode)
		if len(children) == 0 {
			return b.fail(tsNode, "invalid annotation")
		}
		return b.buildType(children[0])
	case "generic_type":
		parts := b.namedChildren(tsNode)
		if len(parts) < 2 {
			return b.fail(tsNode, "invalid generic type")
		}
		node := b.newNode(NodeSubscript, tsNode)
		node.Set("value", b.buildType(parts[0]))
		params := b.namedChildren(parts[1])
		if len(params) == 1 && !b.hasChildOfType(parts[1], ",") {
			node.Set("slice", b.buildType(params[0]))
		} else {
			tuple := b.newNode(NodeTuple, parts[1])
			for _, p := range params {
				tuple.Append("elts", b.buildType(p))
			}
			tuple.Set("ctx", NewNode(NodeLoad))
			node.Set("slice", tuple)
		}
		node.Set("ctx", NewNode(NodeLoad))
		return node
	case "union_type":
		parts := b.namedChildren(tsNode)
		if len(parts) != 2 {
			return b.fail(tsNode, "invalid union type")
		}
		node := b.newNode(NodeBinOp, tsNode)
		node.Set("left", b.buildType(parts[0]))
		node.Set("op", NewNode(NodeBitOr))
		node.Set("right", b.buildType(parts[1]))
		return node
	case "member_type":
		parts := b.namedChildren(tsNode)
		if len(parts) != 2 {
			return b.fail(tsNode, "invalid member type")
		}
		node := b.newNode(NodeAttribute, tsNode)
		node.Set("value", b.buildType(parts[0]))
		node.Set("attr", b.identifier(parts[1]))
		node.Set("ctx", NewNode(NodeLoad))
		return node
	case "splat_type":
		if strings.HasPrefix(b.getNodeText(tsNode), "**") {
			return b.fail(tsNode, "invalid syntax")
		}
		parts := b.namedChildren(tsNode)
		if len(parts) == 0 {
			return b.fail(tsNode, "invalid syntax")
		}
		node := b.newNode(NodeStarred, tsNode)
		node.Set("value", b.buildExpr(parts[0]))
		node.Set("ctx", NewNode(NodeLoad))
		return node
	case "constrained_type":
		return b.fail(tsNode, "invalid syntax")
	default:
		return b.buildExpr(tsNode)
	}
}

// unwrapType strips `type` wrapper nodes
func (b *ASTBuilder) unwrapType(tsNode *sitter.Node) *sitter.Node {
	for tsNode != nil && tsNode.Type() == "type" {
		children := b.namedChildren(tsNode)
		if len(children) != 1 {
			break
		}
		tsNode = children[0]
	}
	return tsNode
}
