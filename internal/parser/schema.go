package parser

type fieldKind int

const (
	fieldRequired fieldKind = iota
	fieldOptional
	fieldList
	fieldInt
)

type fieldSpec struct {
	name string
	kind fieldKind
	def  int
}

func (s fieldSpec) defaultValue() interface{} {
	switch s.kind {
	case fieldList:
		return []interface{}{}
	case fieldInt:
		return s.def
	default:
		return nil
	}
}

func req(name string) fieldSpec              { return fieldSpec{name: name, kind: fieldRequired} }
func opt(name string) fieldSpec              { return fieldSpec{name: name, kind: fieldOptional} }
func list(name string) fieldSpec             { return fieldSpec{name: name, kind: fieldList} }
func integer(name string, def int) fieldSpec { return fieldSpec{name: name, kind: fieldInt, def: def} }

// nodeSchema lists the fields of every node class in declaration order
// (Python 3.12 grammar). Nodes missing here carry no fields.
var nodeSchema = map[NodeType][]fieldSpec{
	NodeModule: {list("body"), list("type_ignores")},

	NodeFunctionDef:      {req("name"), req("args"), list("body"), list("decorator_list"), opt("returns"), opt("type_comment"), list("type_params")},
	NodeAsyncFunctionDef: {req("name"), req("args"), list("body"), list("decorator_list"), opt("returns"), opt("type_comment"), list("type_params")},
	NodeClassDef:         {req("name"), list("bases"), list("keywords"), list("body"), list("decorator_list"), list("type_params")},
	NodeReturn:           {opt("value")},
	NodeDelete:           {list("targets")},
	NodeAssign:           {list("targets"), req("value"), opt("type_comment")},
	NodeTypeAlias:        {req("name"), list("type_params"), req("value")},
	NodeAugAssign:        {req("target"), req("op"), req("value")},
	NodeAnnAssign:        {req("target"), req("annotation"), opt("value"), integer("simple", 0)},
	NodeFor:              {req("target"), req("iter"), list("body"), list("orelse"), opt("type_comment")},
	NodeAsyncFor:         {req("target"), req("iter"), list("body"), list("orelse"), opt("type_comment")},
	NodeWhile:            {req("test"), list("body"), list("orelse")},
	NodeIf:               {req("test"), list("body"), list("orelse")},
	NodeWith:             {list("items"), list("body"), opt("type_comment")},
	NodeAsyncWith:        {list("items"), list("body"), opt("type_comment")},
	NodeMatch:            {req("subject"), list("cases")},
	NodeRaise:            {opt("exc"), opt("cause")},
	NodeTry:              {list("body"), list("handlers"), list("orelse"), list("finalbody")},
	NodeTryStar:          {list("body"), list("handlers"), list("orelse"), list("finalbody")},
	NodeAssert:           {req("test"), opt("msg")},
	NodeImport:           {list("names")},
	NodeImportFrom:       {opt("module"), list("names"), integer("level", 0)},
	NodeGlobal:           {list("names")},
	NodeNonlocal:         {list("names")},
	NodeExpr:             {req("value")},

	NodeBoolOp:         {req("op"), list("values")},
	NodeNamedExpr:      {req("target"), req("value")},
	NodeBinOp:          {req("left"), req("op"), req("right")},
	NodeUnaryOp:        {req("op"), req("operand")},
	NodeLambda:         {req("args"), req("body")},
	NodeIfExp:          {req("test"), req("body"), req("orelse")},
	NodeDict:           {list("keys"), list("values")},
	NodeSet:            {list("elts")},
	NodeListComp:       {req("elt"), list("generators")},
	NodeSetComp:        {req("elt"), list("generators")},
	NodeDictComp:       {req("key"), req("value"), list("generators")},
	NodeGeneratorExp:   {req("elt"), list("generators")},
	NodeAwait:          {req("value")},
	NodeYield:          {opt("value")},
	NodeYieldFrom:      {req("value")},
	NodeCompare:        {req("left"), list("ops"), list("comparators")},
	NodeCall:           {req("func"), list("args"), list("keywords")},
	NodeFormattedValue: {req("value"), integer("conversion", -1), opt("format_spec")},
	NodeJoinedStr:      {list("values")},
	NodeConstant:       {req("value"), opt("kind")},
	NodeAttribute:      {req("value"), req("attr"), req("ctx")},
	NodeSubscript:      {req("value"), req("slice"), req("ctx")},
	NodeStarred:        {req("value"), req("ctx")},
	NodeName:           {req("id"), req("ctx")},
	NodeList:           {list("elts"), req("ctx")},
	NodeTuple:          {list("elts"), req("ctx")},
	NodeSlice:          {opt("lower"), opt("upper"), opt("step")},

	NodeComprehension: {req("target"), req("iter"), list("ifs"), integer("is_async", 0)},
	NodeExceptHandler: {opt("type"), opt("name"), list("body")},
	NodeArguments:     {list("posonlyargs"), list("args"), opt("vararg"), list("kwonlyargs"), list("kw_defaults"), opt("kwarg"), list("defaults")},
	NodeArg:           {req("arg"), opt("annotation"), opt("type_comment")},
	NodeKeyword:       {opt("arg"), req("value")},
	NodeAlias:         {req("name"), opt("asname")},
	NodeWithItem:      {req("context_expr"), opt("optional_vars")},
	NodeMatchCase:     {req("pattern"), opt("guard"), list("body")},
	NodeTypeIgnore:    {integer("lineno", 0), req("tag")},

	NodeMatchValue:     {req("value")},
	NodeMatchSingleton: {req("value")},
	NodeMatchSequence:  {list("patterns")},
	NodeMatchMapping:   {list("keys"), list("patterns"), opt("rest")},
	NodeMatchClass:     {req("cls"), list("patterns"), list("kwd_attrs"), list("kwd_patterns")},
	NodeMatchStar:      {opt("name")},
	NodeMatchAs:        {opt("pattern"), opt("name")},
	NodeMatchOr:        {list("patterns")},

	NodeTypeVar:      {req("name"), opt("bound")},
	NodeParamSpec:    {req("name")},
	NodeTypeVarTuple: {req("name")},
}

// FieldNames returns the declared field names of a node type
func FieldNames(nodeType NodeType) []string {
	specs := nodeSchema[nodeType]
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.name
	}
	return names
}
