package parser

import "fmt"

// NodeType is the Python ast class name of a node
type NodeType string

// Module and statement node types
const (
	NodeModule           NodeType = "Module"
	NodeFunctionDef      NodeType = "FunctionDef"
	NodeAsyncFunctionDef NodeType = "AsyncFunctionDef"
	NodeClassDef         NodeType = "ClassDef"
	NodeReturn           NodeType = "Return"
	NodeDelete           NodeType = "Delete"
	NodeAssign           NodeType = "Assign"
	NodeTypeAlias        NodeType = "TypeAlias"
	NodeAugAssign        NodeType = "AugAssign"
	NodeAnnAssign        NodeType = "AnnAssign"
	NodeFor              NodeType = "For"
	NodeAsyncFor         NodeType = "AsyncFor"
	NodeWhile            NodeType = "While"
	NodeIf               NodeType = "If"
	NodeWith             NodeType = "With"
	NodeAsyncWith        NodeType = "AsyncWith"
	NodeMatch            NodeType = "Match"
	NodeRaise            NodeType = "Raise"
	NodeTry              NodeType = "Try"
	NodeTryStar          NodeType = "TryStar"
	NodeAssert           NodeType = "Assert"
	NodeImport           NodeType = "Import"
	NodeImportFrom       NodeType = "ImportFrom"
	NodeGlobal           NodeType = "Global"
	NodeNonlocal         NodeType = "Nonlocal"
	NodeExpr             NodeType = "Expr"
	NodePass             NodeType = "Pass"
	NodeBreak            NodeType = "Break"
	NodeContinue         NodeType = "Continue"
)

// Expression node types
const (
	NodeBoolOp         NodeType = "BoolOp"
	NodeNamedExpr      NodeType = "NamedExpr"
	NodeBinOp          NodeType = "BinOp"
	NodeUnaryOp        NodeType = "UnaryOp"
	NodeLambda         NodeType = "Lambda"
	NodeIfExp          NodeType = "IfExp"
	NodeDict           NodeType = "Dict"
	NodeSet            NodeType = "Set"
	NodeListComp       NodeType = "ListComp"
	NodeSetComp        NodeType = "SetComp"
	NodeDictComp       NodeType = "DictComp"
	NodeGeneratorExp   NodeType = "GeneratorExp"
	NodeAwait          NodeType = "Await"
	NodeYield          NodeType = "Yield"
	NodeYieldFrom      NodeType = "YieldFrom"
	NodeCompare        NodeType = "Compare"
	NodeCall           NodeType = "Call"
	NodeFormattedValue NodeType = "FormattedValue"
	NodeJoinedStr      NodeType = "JoinedStr"
	NodeConstant       NodeType = "Constant"
	NodeAttribute      NodeType = "Attribute"
	NodeSubscript      NodeType = "Subscript"
	NodeStarred        NodeType = "Starred"
	NodeName           NodeType = "Name"
	NodeList           NodeType = "List"
	NodeTuple          NodeType = "Tuple"
	NodeSlice          NodeType = "Slice"
)

// Expression contexts
const (
	NodeLoad  NodeType = "Load"
	NodeStore NodeType = "Store"
	NodeDel   NodeType = "Del"
)

// Operators
const (
	NodeAnd      NodeType = "And"
	NodeOr       NodeType = "Or"
	NodeAdd      NodeType = "Add"
	NodeSub      NodeType = "Sub"
	NodeMult     NodeType = "Mult"
	NodeMatMult  NodeType = "MatMult"
	NodeDiv      NodeType = "Div"
	NodeMod      NodeType = "Mod"
	NodePow      NodeType = "Pow"
	NodeLShift   NodeType = "LShift"
	NodeRShift   NodeType = "RShift"
	NodeBitOr    NodeType = "BitOr"
	NodeBitXor   NodeType = "BitXor"
	NodeBitAnd   NodeType = "BitAnd"
	NodeFloorDiv NodeType = "FloorDiv"
	NodeInvert   NodeType = "Invert"
	NodeNot      NodeType = "Not"
	NodeUAdd     NodeType = "UAdd"
	NodeUSub     NodeType = "USub"
	NodeEq       NodeType = "Eq"
	NodeNotEq    NodeType = "NotEq"
	NodeLt       NodeType = "Lt"
	NodeLtE      NodeType = "LtE"
	NodeGt       NodeType = "Gt"
	NodeGtE      NodeType = "GtE"
	NodeIs       NodeType = "Is"
	NodeIsNot    NodeType = "IsNot"
	NodeIn       NodeType = "In"
	NodeNotIn    NodeType = "NotIn"
)

// Auxiliary node types
const (
	NodeComprehension NodeType = "comprehension"
	NodeExceptHandler NodeType = "ExceptHandler"
	NodeArguments     NodeType = "arguments"
	NodeArg           NodeType = "arg"
	NodeKeyword       NodeType = "keyword"
	NodeAlias         NodeType = "alias"
	NodeWithItem      NodeType = "withitem"
	NodeMatchCase     NodeType = "match_case"
	NodeTypeIgnore    NodeType = "TypeIgnore"
)

// Patterns (for match statements)
const (
	NodeMatchValue     NodeType = "MatchValue"
	NodeMatchSingleton NodeType = "MatchSingleton"
	NodeMatchSequence  NodeType = "MatchSequence"
	NodeMatchMapping   NodeType = "MatchMapping"
	NodeMatchClass     NodeType = "MatchClass"
	NodeMatchStar      NodeType = "MatchStar"
	NodeMatchAs        NodeType = "MatchAs"
	NodeMatchOr        NodeType = "MatchOr"
)

// Type parameters
const (
	NodeTypeVar      NodeType = "TypeVar"
	NodeParamSpec    NodeType = "ParamSpec"
	NodeTypeVarTuple NodeType = "TypeVarTuple"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Field is one named attribute of a node.
//
// Value holds a *Node, a []interface{} for list fields, or a scalar
// (nil, bool, int, string, *big.Int, float64, complex128, Bytes, Ellipsis).
type Field struct {
	Name  string
	Value interface{}
}

// Node is a Python syntax tree node. Fields keep the declaration order of
// the node class so that traversals visit attributes the way ast.iter_fields does.
type Node struct {
	Type     NodeType
	Fields   []Field
	Location Location
}

// NewNode creates a node with every declared field set to its default
func NewNode(nodeType NodeType) *Node {
	specs := nodeSchema[nodeType]
	n := &Node{
		Type:   nodeType,
		Fields: make([]Field, 0, len(specs)),
	}
	for _, spec := range specs {
		n.Fields = append(n.Fields, Field{Name: spec.name, Value: spec.defaultValue()})
	}
	return n
}

// Set assigns a field value, appending the field if it is not declared
func (n *Node) Set(name string, value interface{}) *Node {
	value = normalizeValue(value)
	for i := range n.Fields {
		if n.Fields[i].Name == name {
			n.Fields[i].Value = value
			return n
		}
	}
	n.Fields = append(n.Fields, Field{Name: name, Value: value})
	return n
}

// Get returns a field value and whether the field exists
func (n *Node) Get(name string) (interface{}, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Child returns the field value as a node, or nil
func (n *Node) Child(name string) *Node {
	v, _ := n.Get(name)
	child, _ := v.(*Node)
	return child
}

// List returns the items of a list field
func (n *Node) List(name string) []interface{} {
	v, _ := n.Get(name)
	items, _ := v.([]interface{})
	return items
}

// Append adds an item to a list field
func (n *Node) Append(name string, item interface{}) {
	n.Set(name, append(n.List(name), normalizeValue(item)))
}

// normalizeValue turns a typed nil node into an untyped nil
func normalizeValue(v interface{}) interface{} {
	if child, ok := v.(*Node); ok && child == nil {
		return nil
	}
	return v
}

// Nodes returns the sub-nodes of a list field, skipping scalar items
func (n *Node) Nodes(name string) []*Node {
	var nodes []*Node
	for _, item := range n.List(name) {
		if child, ok := item.(*Node); ok && child != nil {
			nodes = append(nodes, child)
		}
	}
	return nodes
}

// GetChildren returns every sub-node in field order
func (n *Node) GetChildren() []*Node {
	var children []*Node
	for _, f := range n.Fields {
		switch v := f.Value.(type) {
		case *Node:
			if v != nil {
				children = append(children, v)
			}
		case []interface{}:
			for _, item := range v {
				if child, ok := item.(*Node); ok && child != nil {
					children = append(children, child)
				}
			}
		}
	}
	return children
}

// IsStatement returns true if the node is a statement
func (n *Node) IsStatement() bool {
	switch n.Type {
	case NodeFunctionDef, NodeAsyncFunctionDef, NodeClassDef,
		NodeReturn, NodeDelete, NodeAssign, NodeTypeAlias, NodeAugAssign, NodeAnnAssign,
		NodeFor, NodeAsyncFor, NodeWhile, NodeIf, NodeWith, NodeAsyncWith,
		NodeMatch, NodeRaise, NodeTry, NodeTryStar, NodeAssert, NodeImport, NodeImportFrom,
		NodeGlobal, NodeNonlocal, NodeExpr, NodePass, NodeBreak, NodeContinue:
		return true
	default:
		return false
	}
}

// Docstring returns the leading string literal of a module, class or function body
func (n *Node) Docstring() (string, bool) {
	switch n.Type {
	case NodeModule, NodeClassDef, NodeFunctionDef, NodeAsyncFunctionDef:
	default:
		return "", false
	}
	body := n.Nodes("body")
	if len(body) == 0 || body[0].Type != NodeExpr {
		return "", false
	}
	value := body[0].Child("value")
	if value == nil || value.Type != NodeConstant {
		return "", false
	}
	v, _ := value.Get("value")
	s, ok := v.(string)
	return s, ok
}

// String returns a short description of the node
func (n *Node) String() string {
	for _, key := range []string{"id", "name", "attr", "arg"} {
		if v, ok := n.Get(key); ok {
			if s, ok := v.(string); ok {
				return fmt.Sprintf("%s(%s)", n.Type, s)
			}
		}
	}
	if n.Type == NodeConstant {
		v, _ := n.Get("value")
		return fmt.Sprintf("%s(%s)", n.Type, FormatScalar(v))
	}
	return string(n.Type)
}

// Walk traverses the tree depth-first in field order
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil || !visitor(n) {
		return
	}
	for _, child := range n.GetChildren() {
		child.Walk(visitor)
	}
}

// Find finds all nodes matching a predicate
func (n *Node) Find(predicate func(*Node) bool) []*Node {
	var results []*Node
	n.Walk(func(node *Node) bool {
		if predicate(node) {
			results = append(results, node)
		}
		return true
	})
	return results
}

// FindByType finds all nodes of a specific type
func (n *Node) FindByType(nodeType NodeType) []*Node {
	return n.Find(func(node *Node) bool {
		return node.Type == nodeType
	})
}
