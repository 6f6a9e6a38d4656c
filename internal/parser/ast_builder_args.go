package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// buildArguments converts a parameters or lambda_parameters node into an
// arguments node. A nil node yields an empty signature.
func (b *ASTBuilder) buildArguments(tsNode *sitter.Node) *Node {
	args := NewNode(NodeArguments)
	if tsNode == nil {
		return args
	}

	positional := []interface{}{}
	defaults := []interface{}{}
	keywordOnly := false
	bareStar := false

	for _, param := range b.namedChildren(tsNode) {
		if args.Child("kwarg") != nil {
			return b.fail(param, "arguments cannot follow var-keyword argument")
		}
		if isVarParameter(param, "list_splat_pattern") || param.Type() == "keyword_separator" {
			if keywordOnly {
				return b.fail(param, "* argument may appear only once")
			}
		}
		if isVarParameter(param, "dictionary_splat_pattern") && bareStar && len(args.List("kwonlyargs")) == 0 {
			return b.fail(param, "named arguments must follow bare *")
		}

		switch param.Type() {
		case "positional_separator":
			if len(args.List("posonlyargs")) > 0 || keywordOnly {
				return b.fail(param, "/ may appear only once")
			}
			if len(positional) == 0 {
				return b.fail(param, "at least one argument must precede /")
			}
			args.Set("posonlyargs", positional)
			positional = []interface{}{}
			continue
		case "keyword_separator":
			keywordOnly = true
			bareStar = true
			continue
		case "list_splat_pattern":
			args.Set("vararg", b.buildArg(param, b.splatName(param), nil))
			keywordOnly = true
			continue
		case "dictionary_splat_pattern":
			args.Set("kwarg", b.buildArg(param, b.splatName(param), nil))
			continue
		case "typed_parameter":
			inner := b.namedChildren(param)
			if len(inner) > 0 && inner[0].Type() == "list_splat_pattern" {
				args.Set("vararg", b.buildArg(param, b.splatName(inner[0]), param.ChildByFieldName("type")))
				keywordOnly = true
				continue
			}
			if len(inner) > 0 && inner[0].Type() == "dictionary_splat_pattern" {
				args.Set("kwarg", b.buildArg(param, b.splatName(inner[0]), param.ChildByFieldName("type")))
				continue
			}
		}

		arg, def := b.buildParameter(param)
		if arg == nil {
			return nil
		}
		if keywordOnly {
			args.Append("kwonlyargs", arg)
			args.Append("kw_defaults", def)
			continue
		}
		positional = append(positional, arg)
		if def != nil {
			defaults = append(defaults, def)
		} else if len(defaults) > 0 {
			return b.fail(param, "non-default argument follows default argument")
		}
	}

	if bareStar && len(args.List("kwonlyargs")) == 0 {
		return b.fail(tsNode, "named arguments must follow bare *")
	}

	args.Set("args", positional)
	args.Set("defaults", defaults)
	return args
}

// isVarParameter reports whether param is *args or **kwargs, annotated or not
func isVarParameter(param *sitter.Node, splatType string) bool {
	if param.Type() == splatType {
		return true
	}
	if param.Type() != "typed_parameter" || param.NamedChildCount() == 0 {
		return false
	}
	return param.NamedChild(0).Type() == splatType
}

// buildParameter returns the arg node of a plain parameter and its default value
func (b *ASTBuilder) buildParameter(param *sitter.Node) (*Node, *Node) {
	switch param.Type() {
	case "identifier", "keyword_identifier":
		return b.buildArg(param, b.identifier(param), nil), nil
	case "typed_parameter":
		inner := b.namedChildren(param)
		if len(inner) == 0 {
			return b.fail(param, "invalid parameter"), nil
		}
		return b.buildArg(param, b.identifier(inner[0]), param.ChildByFieldName("type")), nil
	case "default_parameter":
		name := param.ChildByFieldName("name")
		if name == nil || name.Type() == "tuple_pattern" {
			return b.fail(param, "invalid parameter"), nil
		}
		return b.buildArg(param, b.identifier(name), nil), b.buildExpr(param.ChildByFieldName("value"))
	case "typed_default_parameter":
		name := param.ChildByFieldName("name")
		if name == nil {
			return b.fail(param, "invalid parameter"), nil
		}
		return b.buildArg(param, b.identifier(name), param.ChildByFieldName("type")),
			b.buildExpr(param.ChildByFieldName("value"))
	default:
		return b.fail(param, "invalid parameter %q", param.Type()), nil
	}
}

func (b *ASTBuilder) buildArg(tsNode *sitter.Node, name string, annotation *sitter.Node) *Node {
	arg := b.newNode(NodeArg, tsNode)
	arg.Set("arg", name)
	if annotation != nil {
		arg.Set("annotation", b.buildType(annotation))
	}
	return arg
}

// splatName returns the identifier of *args or **kwargs
func (b *ASTBuilder) splatName(tsNode *sitter.Node) string {
	if inner := b.namedChildren(tsNode); len(inner) > 0 {
		return b.identifier(inner[0])
	}
	return ""
}
