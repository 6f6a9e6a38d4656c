package parser

import (
	"bytes"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/text/unicode/norm"
)

// pythonKeywords are the reserved words that can never name a variable,
// attribute or argument
var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// ASTBuilder converts tree-sitter parse trees to Python ast-shaped nodes
type ASTBuilder struct {
	source []byte
	err    *SyntaxError
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(source []byte) *ASTBuilder {
	return &ASTBuilder{
		source: source,
	}
}

// Build converts a tree-sitter tree to a Module node
func (b *ASTBuilder) Build(tree *sitter.Tree) (*Node, error) {
	if tree == nil {
		return nil, fmt.Errorf("tree is nil")
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("root node is nil")
	}

	b.err = nil
	module := b.buildModule(rootNode)
	if b.err != nil {
		return nil, b.err
	}
	return module, nil
}

func (b *ASTBuilder) buildModule(tsNode *sitter.Node) *Node {
	module := b.newNode(NodeModule, tsNode)
	module.Set("body", b.buildStatements(b.namedChildren(tsNode), 0))
	return module
}

// buildStatements builds a statement sequence. Statements opening a line
// must start at column indent; a negative indent allows none.
func (b *ASTBuilder) buildStatements(stmts []*sitter.Node, indent int) []interface{} {
	body := []interface{}{}
	for _, child := range stmts {
		if column, ok := b.indentation(child); ok && column != indent {
			if column > indent {
				b.fail(child, "unexpected indent")
			} else {
				b.fail(child, "unindent does not match any outer indentation level")
			}
			return body
		}
		if stmt := b.buildStatement(child); stmt != nil {
			body = append(body, stmt)
		}
	}
	return body
}

// buildSuite builds the block stored under fieldName, or the first block
// child. A block either follows the colon on the header line or starts on a
// new line indented deeper than the header.
func (b *ASTBuilder) buildSuite(tsNode *sitter.Node, fieldName string) []interface{} {
	if tsNode == nil {
		return []interface{}{}
	}
	var block *sitter.Node
	if fieldName != "" {
		block = tsNode.ChildByFieldName(fieldName)
	}
	if block == nil {
		block = b.childOfType(tsNode, "block")
	}
	var stmts []*sitter.Node
	if block != nil {
		stmts = b.namedChildren(block)
	}
	if len(stmts) == 0 {
		b.fail(tsNode, "expected an indented block")
		return []interface{}{}
	}

	indent := -1
	if column, ok := b.indentation(stmts[0]); ok {
		if header, _ := b.indentation(tsNode); column <= header {
			b.fail(stmts[0], "expected an indented block")
			return []interface{}{}
		}
		indent = column
	}
	return b.buildStatements(stmts, indent)
}

func (b *ASTBuilder) buildStatement(tsNode *sitter.Node) *Node {
	switch tsNode.Type() {
	case "expression_statement":
		return b.buildExpressionStatement(tsNode)
	case "function_definition":
		return b.buildFunctionDef(tsNode, nil)
	case "class_definition":
		return b.buildClassDef(tsNode, nil)
	case "decorated_definition":
		return b.buildDecoratedDefinition(tsNode)
	case "if_statement":
		return b.buildIfStatement(tsNode)
	case "for_statement":
		return b.buildForStatement(tsNode)
	case "while_statement":
		return b.buildWhileStatement(tsNode)
	case "try_statement":
		return b.buildTryStatement(tsNode)
	case "with_statement":
		return b.buildWithStatement(tsNode)
	case "match_statement":
		return b.buildMatchStatement(tsNode)
	case "return_statement":
		return b.buildReturnStatement(tsNode)
	case "delete_statement":
		return b.buildDeleteStatement(tsNode)
	case "raise_statement":
		return b.buildRaiseStatement(tsNode)
	case "assert_statement":
		return b.buildAssertStatement(tsNode)
	case "import_statement":
		return b.buildImportStatement(tsNode)
	case "import_from_statement", "future_import_statement":
		return b.buildImportFromStatement(tsNode)
	case "global_statement":
		return b.buildNameListStatement(NodeGlobal, tsNode)
	case "nonlocal_statement":
		return b.buildNameListStatement(NodeNonlocal, tsNode)
	case "type_alias_statement":
		return b.buildTypeAlias(tsNode)
	case "pass_statement":
		return b.newNode(NodePass, tsNode)
	case "break_statement":
		return b.newNode(NodeBreak, tsNode)
	case "continue_statement":
		return b.newNode(NodeContinue, tsNode)
	case "print_statement", "exec_statement":
		return b.fail(tsNode, "Missing parentheses in call to '%s'", strings.TrimSuffix(tsNode.Type(), "_statement"))
	default:
		return b.fail(tsNode, "unsupported statement %q", tsNode.Type())
	}
}

func (b *ASTBuilder) buildExpressionStatement(tsNode *sitter.Node) *Node {
	children := b.namedChildren(tsNode)
	if len(children) == 0 {
		return b.fail(tsNode, "empty expression statement")
	}
	if len(children) == 1 {
		switch children[0].Type() {
		case "assignment":
			return b.buildAssignment(children[0])
		case "augmented_assignment":
			return b.buildAugmentedAssignment(children[0])
		}
	}

	for _, child := range children {
		if child.Type() == "named_expression" {
			return b.fail(child, "invalid syntax")
		}
	}

	expr := b.newNode(NodeExpr, tsNode)
	if len(children) == 1 && !b.hasChildOfType(tsNode, ",") {
		expr.Set("value", b.buildExpr(children[0]))
	} else {
		expr.Set("value", b.buildTupleOf(tsNode, children))
	}
	return expr
}

func (b *ASTBuilder) buildAssignment(tsNode *sitter.Node) *Node {
	left := tsNode.ChildByFieldName("left")
	right := tsNode.ChildByFieldName("right")
	if left == nil {
		return b.fail(tsNode, "invalid syntax")
	}

	if annotation := tsNode.ChildByFieldName("type"); annotation != nil {
		// (x): int parses as a one-element tuple pattern without a comma
		target := left
		for target.Type() == "tuple_pattern" || target.Type() == "parenthesized_expression" {
			inner := b.namedChildren(target)
			if len(inner) != 1 || b.hasChildOfType(target, ",") {
				return b.fail(left, "only single target (not tuple) can be annotated")
			}
			target = inner[0]
		}
		if target.Type() == "pattern_list" || target.Type() == "list_pattern" || target.Type() == "list_splat_pattern" {
			return b.fail(left, "only single target (not tuple) can be annotated")
		}
		node := b.newNode(NodeAnnAssign, tsNode)
		node.Set("target", b.buildTarget(target, NodeStore))
		node.Set("annotation", b.buildType(annotation))
		if right != nil {
			node.Set("value", b.buildExpr(right))
		}
		simple := 0
		if left.Type() == "identifier" || left.Type() == "keyword_identifier" {
			simple = 1
		}
		node.Set("simple", simple)
		return node
	}

	node := b.newNode(NodeAssign, tsNode)
	targets := []interface{}{b.buildTarget(left, NodeStore)}
	// a = b = c nests to the right
	for right != nil && right.Type() == "assignment" {
		if right.ChildByFieldName("type") != nil {
			return b.fail(right, "invalid syntax")
		}
		targets = append(targets, b.buildTarget(right.ChildByFieldName("left"), NodeStore))
		right = right.ChildByFieldName("right")
	}
	if right == nil || right.Type() == "augmented_assignment" {
		return b.fail(tsNode, "invalid syntax")
	}
	node.Set("targets", targets)
	node.Set("value", b.buildExpr(right))
	return node
}

func (b *ASTBuilder) buildAugmentedAssignment(tsNode *sitter.Node) *Node {
	operator := tsNode.ChildByFieldName("operator")
	if operator == nil {
		return b.fail(tsNode, "invalid syntax")
	}
	op, ok := binaryOperators[strings.TrimSuffix(operator.Type(), "=")]
	if !ok {
		return b.fail(operator, "unknown operator %q", operator.Type())
	}
	right := tsNode.ChildByFieldName("right")
	if right == nil || right.Type() == "assignment" || right.Type() == "augmented_assignment" {
		return b.fail(tsNode, "invalid syntax")
	}

	left := tsNode.ChildByFieldName("left")
	node := b.newNode(NodeAugAssign, tsNode)
	node.Set("target", b.checkTarget(left, b.buildTarget(left, NodeStore), NodeStore, false))
	node.Set("op", NewNode(op))
	node.Set("value", b.buildExpr(right))
	return node
}

func (b *ASTBuilder) buildFunctionDef(tsNode *sitter.Node, decorators []interface{}) *Node {
	nodeType := NodeFunctionDef
	if b.hasChildOfType(tsNode, "async") {
		nodeType = NodeAsyncFunctionDef
	}
	node := b.newNode(nodeType, tsNode)

	if name := tsNode.ChildByFieldName("name"); name != nil {
		node.Set("name", b.identifier(name))
	}
	node.Set("args", b.buildArguments(tsNode.ChildByFieldName("parameters")))
	node.Set("body", b.buildSuite(tsNode, "body"))
	if decorators != nil {
		node.Set("decorator_list", decorators)
	}
	if returns := tsNode.ChildByFieldName("return_type"); returns != nil {
		node.Set("returns", b.buildType(returns))
	}
	if params := tsNode.ChildByFieldName("type_parameters"); params != nil {
		node.Set("type_params", b.buildTypeParams(params))
	}
	return node
}

func (b *ASTBuilder) buildClassDef(tsNode *sitter.Node, decorators []interface{}) *Node {
	node := b.newNode(NodeClassDef, tsNode)

	if name := tsNode.ChildByFieldName("name"); name != nil {
		node.Set("name", b.identifier(name))
	}
	if superclasses := tsNode.ChildByFieldName("superclasses"); superclasses != nil {
		bases, keywords := b.buildCallArguments(superclasses)
		node.Set("bases", bases)
		node.Set("keywords", keywords)
	}
	node.Set("body", b.buildSuite(tsNode, "body"))
	if decorators != nil {
		node.Set("decorator_list", decorators)
	}
	if params := tsNode.ChildByFieldName("type_parameters"); params != nil {
		node.Set("type_params", b.buildTypeParams(params))
	}
	return node
}

func (b *ASTBuilder) buildDecoratedDefinition(tsNode *sitter.Node) *Node {
	decorators := []interface{}{}
	for _, child := range b.namedChildren(tsNode) {
		if child.Type() != "decorator" {
			continue
		}
		if exprs := b.namedChildren(child); len(exprs) > 0 {
			decorators = append(decorators, b.buildExpr(exprs[0]))
		}
	}

	definition := tsNode.ChildByFieldName("definition")
	if definition == nil {
		return b.fail(tsNode, "decorator without definition")
	}
	switch definition.Type() {
	case "function_definition":
		return b.buildFunctionDef(definition, decorators)
	case "class_definition":
		return b.buildClassDef(definition, decorators)
	default:
		return b.fail(definition, "invalid decorated definition")
	}
}

func (b *ASTBuilder) buildIfStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeIf, tsNode)
	node.Set("test", b.buildExpr(tsNode.ChildByFieldName("condition")))
	node.Set("body", b.buildSuite(tsNode, "consequence"))

	var elifs []*sitter.Node
	orelse := []interface{}{}
	for _, child := range b.namedChildren(tsNode) {
		switch child.Type() {
		case "elif_clause":
			elifs = append(elifs, child)
		case "else_clause":
			orelse = b.buildSuite(child, "body")
		}
	}

	// elif chains become nested If nodes in orelse
	for i := len(elifs) - 1; i >= 0; i-- {
		elif := b.newNode(NodeIf, elifs[i])
		elif.Set("test", b.buildExpr(elifs[i].ChildByFieldName("condition")))
		elif.Set("body", b.buildSuite(elifs[i], "consequence"))
		elif.Set("orelse", orelse)
		orelse = []interface{}{elif}
	}
	node.Set("orelse", orelse)
	return node
}

func (b *ASTBuilder) buildForStatement(tsNode *sitter.Node) *Node {
	nodeType := NodeFor
	if b.hasChildOfType(tsNode, "async") {
		nodeType = NodeAsyncFor
	}
	node := b.newNode(nodeType, tsNode)
	node.Set("target", b.buildTarget(tsNode.ChildByFieldName("left"), NodeStore))
	node.Set("iter", b.buildExpr(tsNode.ChildByFieldName("right")))
	node.Set("body", b.buildSuite(tsNode, "body"))
	node.Set("orelse", b.buildElse(tsNode))
	return node
}

func (b *ASTBuilder) buildWhileStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeWhile, tsNode)
	node.Set("test", b.buildExpr(tsNode.ChildByFieldName("condition")))
	node.Set("body", b.buildSuite(tsNode, "body"))
	node.Set("orelse", b.buildElse(tsNode))
	return node
}

func (b *ASTBuilder) buildElse(tsNode *sitter.Node) []interface{} {
	if clause := b.childOfType(tsNode, "else_clause"); clause != nil {
		return b.buildSuite(clause, "body")
	}
	return []interface{}{}
}

func (b *ASTBuilder) buildTryStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeTry, tsNode)
	node.Set("body", b.buildSuite(tsNode, "body"))

	for _, child := range b.namedChildren(tsNode) {
		switch child.Type() {
		case "except_clause":
			node.Append("handlers", b.buildExceptHandler(child))
		case "except_group_clause":
			node.Type = NodeTryStar
			node.Append("handlers", b.buildExceptHandler(child))
		case "else_clause":
			node.Set("orelse", b.buildSuite(child, "body"))
		case "finally_clause":
			node.Set("finalbody", b.buildSuite(child, ""))
		}
	}
	return node
}

func (b *ASTBuilder) buildExceptHandler(tsNode *sitter.Node) *Node {
	handler := b.newNode(NodeExceptHandler, tsNode)

	var exprs []*sitter.Node
	for _, child := range b.namedChildren(tsNode) {
		if child.Type() != "block" {
			exprs = append(exprs, child)
		}
	}
	if len(exprs) > 0 {
		first := exprs[0]
		if first.Type() == "as_pattern" {
			parts := b.namedChildren(first)
			handler.Set("type", b.buildExpr(parts[0]))
			if len(parts) > 1 {
				handler.Set("name", b.identifier(parts[len(parts)-1]))
			}
		} else {
			handler.Set("type", b.buildExpr(first))
			if len(exprs) > 1 {
				handler.Set("name", b.identifier(exprs[1]))
			}
		}
	}
	handler.Set("body", b.buildSuite(tsNode, ""))
	return handler
}

func (b *ASTBuilder) buildWithStatement(tsNode *sitter.Node) *Node {
	nodeType := NodeWith
	if b.hasChildOfType(tsNode, "async") {
		nodeType = NodeAsyncWith
	}
	node := b.newNode(nodeType, tsNode)

	for _, clause := range b.namedChildren(tsNode) {
		if clause.Type() != "with_clause" {
			continue
		}
		for _, item := range b.namedChildren(clause) {
			if item.Type() == "with_item" {
				node.Append("items", b.buildWithItem(item))
			}
		}
	}
	node.Set("body", b.buildSuite(tsNode, "body"))
	return node
}

func (b *ASTBuilder) buildWithItem(tsNode *sitter.Node) *Node {
	item := b.newNode(NodeWithItem, tsNode)
	value := tsNode.ChildByFieldName("value")
	if value == nil {
		children := b.namedChildren(tsNode)
		if len(children) == 0 {
			return b.fail(tsNode, "empty with item")
		}
		value = children[0]
	}

	if value.Type() == "as_pattern" {
		parts := b.namedChildren(value)
		item.Set("context_expr", b.buildExpr(parts[0]))
		if len(parts) > 1 {
			target := parts[len(parts)-1]
			item.Set("optional_vars", b.checkTarget(target, b.buildTarget(target, NodeStore), NodeStore, true))
		}
		return item
	}
	item.Set("context_expr", b.buildExpr(value))
	return item
}

func (b *ASTBuilder) buildMatchStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeMatch, tsNode)

	var subjects []*sitter.Node
	var body *sitter.Node
	for _, child := range b.namedChildren(tsNode) {
		if child.Type() == "block" {
			body = child
			continue
		}
		subjects = append(subjects, child)
	}
	if len(subjects) == 0 {
		return b.fail(tsNode, "match statement without subject")
	}
	if len(subjects) == 1 && !b.hasChildOfType(tsNode, ",") {
		node.Set("subject", b.buildExpr(subjects[0]))
	} else {
		node.Set("subject", b.buildTupleOf(tsNode, subjects))
	}

	if body != nil {
		for _, clause := range b.namedChildren(body) {
			if clause.Type() == "case_clause" {
				node.Append("cases", b.buildMatchCase(clause))
			}
		}
	}
	return node
}

func (b *ASTBuilder) buildMatchCase(tsNode *sitter.Node) *Node {
	matchCase := b.newNode(NodeMatchCase, tsNode)

	var patterns []*sitter.Node
	for _, child := range b.namedChildren(tsNode) {
		switch child.Type() {
		case "case_pattern":
			patterns = append(patterns, child)
		case "if_clause":
			if guard := b.namedChildren(child); len(guard) > 0 {
				matchCase.Set("guard", b.buildExpr(guard[0]))
			}
		}
	}

	switch {
	case len(patterns) == 0:
		return b.fail(tsNode, "case without pattern")
	case len(patterns) == 1 && !b.hasChildOfType(tsNode, ","):
		matchCase.Set("pattern", b.buildPattern(patterns[0]))
	default:
		sequence := b.newNode(NodeMatchSequence, tsNode)
		for _, p := range patterns {
			sequence.Append("patterns", b.buildPattern(p))
		}
		matchCase.Set("pattern", sequence)
	}
	matchCase.Set("body", b.buildSuite(tsNode, "consequence"))
	return matchCase
}

func (b *ASTBuilder) buildReturnStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeReturn, tsNode)
	if children := b.namedChildren(tsNode); len(children) > 0 {
		node.Set("value", b.buildExpr(children[0]))
	}
	return node
}

func (b *ASTBuilder) buildDeleteStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeDelete, tsNode)
	for _, child := range b.namedChildren(tsNode) {
		if child.Type() == "expression_list" {
			for _, target := range b.namedChildren(child) {
				node.Append("targets", b.checkTarget(target, b.buildTarget(target, NodeDel), NodeDel, true))
			}
			continue
		}
		node.Append("targets", b.checkTarget(child, b.buildTarget(child, NodeDel), NodeDel, true))
	}
	return node
}

func (b *ASTBuilder) buildRaiseStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeRaise, tsNode)
	afterFrom := false
	for _, child := range b.children(tsNode) {
		if child.Type() == "from" {
			afterFrom = true
			continue
		}
		if !child.IsNamed() {
			continue
		}
		if afterFrom {
			node.Set("cause", b.buildExpr(child))
		} else {
			node.Set("exc", b.buildExpr(child))
		}
	}
	return node
}

func (b *ASTBuilder) buildAssertStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeAssert, tsNode)
	children := b.namedChildren(tsNode)
	if len(children) == 0 {
		return b.fail(tsNode, "invalid syntax")
	}
	node.Set("test", b.buildExpr(children[0]))
	if len(children) > 1 {
		node.Set("msg", b.buildExpr(children[1]))
	}
	return node
}

func (b *ASTBuilder) buildImportStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeImport, tsNode)
	for _, child := range b.namedChildren(tsNode) {
		node.Append("names", b.buildAlias(child))
	}
	return node
}

func (b *ASTBuilder) buildImportFromStatement(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeImportFrom, tsNode)
	if tsNode.Type() == "future_import_statement" {
		node.Set("module", "__future__")
	}

	seenImport := false
	for _, child := range b.children(tsNode) {
		switch {
		case child.Type() == "import":
			seenImport = true
		case !child.IsNamed():
			continue
		case !seenImport:
			if child.Type() != "relative_import" {
				node.Set("module", b.dottedName(child))
				continue
			}
			for _, part := range b.namedChildren(child) {
				switch part.Type() {
				case "import_prefix":
					node.Set("level", strings.Count(b.getNodeText(part), "."))
				case "dotted_name":
					node.Set("module", b.dottedName(part))
				}
			}
		default:
			node.Append("names", b.buildAlias(child))
		}
	}
	return node
}

func (b *ASTBuilder) buildAlias(tsNode *sitter.Node) *Node {
	alias := b.newNode(NodeAlias, tsNode)
	switch tsNode.Type() {
	case "aliased_import":
		alias.Set("name", b.dottedName(tsNode.ChildByFieldName("name")))
		if asname := tsNode.ChildByFieldName("alias"); asname != nil {
			alias.Set("asname", b.identifier(asname))
		}
	case "wildcard_import":
		alias.Set("name", "*")
	default:
		alias.Set("name", b.dottedName(tsNode))
	}
	return alias
}

func (b *ASTBuilder) buildNameListStatement(nodeType NodeType, tsNode *sitter.Node) *Node {
	node := b.newNode(nodeType, tsNode)
	for _, child := range b.namedChildren(tsNode) {
		node.Append("names", b.identifier(child))
	}
	return node
}

func (b *ASTBuilder) buildTypeAlias(tsNode *sitter.Node) *Node {
	parts := b.namedChildren(tsNode)
	if len(parts) < 2 {
		return b.fail(tsNode, "invalid type alias")
	}
	node := b.newNode(NodeTypeAlias, tsNode)

	left := b.unwrapType(parts[0])
	if left.Type() == "generic_type" {
		pieces := b.namedChildren(left)
		node.Set("name", b.buildName(pieces[0], NodeStore))
		if len(pieces) > 1 {
			node.Set("type_params", b.buildTypeParams(pieces[1]))
		}
	} else {
		node.Set("name", b.buildName(left, NodeStore))
	}
	node.Set("value", b.buildType(parts[len(parts)-1]))
	return node
}

func (b *ASTBuilder) buildTypeParams(tsNode *sitter.Node) []interface{} {
	params := []interface{}{}
	for _, child := range b.namedChildren(tsNode) {
		inner := b.unwrapType(child)
		switch inner.Type() {
		case "identifier":
			param := b.newNode(NodeTypeVar, child)
			param.Set("name", b.identifier(inner))
			params = append(params, param)
		case "constrained_type":
			pieces := b.namedChildren(inner)
			param := b.newNode(NodeTypeVar, child)
			param.Set("name", b.identifier(b.unwrapType(pieces[0])))
			if len(pieces) > 1 {
				param.Set("bound", b.buildType(pieces[1]))
			}
			params = append(params, param)
		case "splat_type", "list_splat_pattern", "dictionary_splat_pattern":
			nodeType := NodeTypeVarTuple
			if strings.HasPrefix(b.getNodeText(inner), "**") {
				nodeType = NodeParamSpec
			}
			param := b.newNode(nodeType, child)
			param.Set("name", norm.NFKC.String(strings.TrimLeft(b.getNodeText(inner), "* ")))
			params = append(params, param)
		default:
			params = append(params, b.fail(child, "invalid type parameter"))
		}
	}
	return params
}

// Utility methods...

func (b *ASTBuilder) newNode(nodeType NodeType, tsNode *sitter.Node) *Node {
	node := NewNode(nodeType)
	if tsNode != nil {
		node.Location = b.getLocation(tsNode)
	}
	return node
}

// fail records the first syntax error and returns a nil node
func (b *ASTBuilder) fail(tsNode *sitter.Node, format string, args ...interface{}) *Node {
	if b.err != nil {
		return nil
	}
	b.err = &SyntaxError{Msg: fmt.Sprintf(format, args...)}
	if tsNode != nil {
		point := tsNode.StartPoint()
		b.err.Line = int(point.Row) + 1
		b.err.Column = int(point.Column) + 1
		b.err.Text = sourceLine(b.source, int(point.Row))
	}
	return nil
}

// getLocation extracts location information from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	startPoint := tsNode.StartPoint()
	endPoint := tsNode.EndPoint()

	return Location{
		StartLine: int(startPoint.Row) + 1,
		StartCol:  int(startPoint.Column),
		EndLine:   int(endPoint.Row) + 1,
		EndCol:    int(endPoint.Column),
	}
}

// getNodeText gets the text content of a node
func (b *ASTBuilder) getNodeText(tsNode *sitter.Node) string {
	if tsNode == nil {
		return ""
	}
	return tsNode.Content(b.source)
}

// indentation returns the column of a node that opens its source line. It
// reports false when other text precedes the node on that line.
func (b *ASTBuilder) indentation(tsNode *sitter.Node) (int, bool) {
	start := int(tsNode.StartByte())
	lineStart := bytes.LastIndexByte(b.source[:start], '\n') + 1
	for _, c := range b.source[lineStart:start] {
		if c != ' ' && c != '\t' && c != '\f' {
			return 0, false
		}
	}
	return start - lineStart, true
}

// identifier returns the NFKC normal form of a name, which is how Python
// compares identifiers
func (b *ASTBuilder) identifier(tsNode *sitter.Node) string {
	name := norm.NFKC.String(strings.TrimSpace(b.getNodeText(tsNode)))
	if pythonKeywords[name] {
		b.fail(tsNode, "invalid syntax")
	}
	return name
}

// dottedName joins the identifiers of a dotted_name, dropping whitespace
func (b *ASTBuilder) dottedName(tsNode *sitter.Node) string {
	if tsNode == nil {
		return ""
	}
	parts := b.namedChildren(tsNode)
	if len(parts) == 0 {
		return b.identifier(tsNode)
	}
	names := make([]string, len(parts))
	for i, part := range parts {
		names[i] = b.identifier(part)
	}
	return strings.Join(names, ".")
}

// children returns all children except comments and line continuations
func (b *ASTBuilder) children(tsNode *sitter.Node) []*sitter.Node {
	count := int(tsNode.ChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := tsNode.Child(i)
		if child != nil && !b.isTrivia(child) {
			children = append(children, child)
		}
	}
	return children
}

// namedChildren returns the named children except comments and line continuations
func (b *ASTBuilder) namedChildren(tsNode *sitter.Node) []*sitter.Node {
	count := int(tsNode.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := tsNode.NamedChild(i)
		if child != nil && !b.isTrivia(child) {
			children = append(children, child)
		}
	}
	return children
}

func (b *ASTBuilder) childOfType(tsNode *sitter.Node, childType string) *sitter.Node {
	for _, child := range b.children(tsNode) {
		if child.Type() == childType {
			return child
		}
	}
	return nil
}

// hasChildOfType checks if a node has a child of a specific type
func (b *ASTBuilder) hasChildOfType(tsNode *sitter.Node, childType string) bool {
	return b.childOfType(tsNode, childType) != nil
}

// isTrivia checks if a node is trivia (comments, line continuations)
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	nodeType := tsNode.Type()
	return nodeType == "comment" || nodeType == "line_continuation"
}
