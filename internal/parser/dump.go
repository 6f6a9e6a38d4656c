package parser

import "strings"

// Dump renders a node in the style of Python's ast.dump. Optional fields
// holding None are omitted.
func Dump(node *Node) string {
	var sb strings.Builder
	dumpValue(&sb, node)
	return sb.String()
}

func dumpValue(sb *strings.Builder, value interface{}) {
	switch v := value.(type) {
	case *Node:
		if v == nil {
			sb.WriteString("None")
			return
		}
		sb.WriteString(string(v.Type))
		sb.WriteByte('(')
		first := true
		for _, f := range v.Fields {
			if f.Value == nil && isOptionalField(v.Type, f.Name) {
				continue
			}
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(f.Name)
			sb.WriteByte('=')
			dumpValue(sb, f.Value)
		}
		sb.WriteByte(')')
	case []interface{}:
		sb.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				sb.WriteString(", ")
			}
			dumpValue(sb, item)
		}
		sb.WriteByte(']')
	default:
		sb.WriteString(Repr(v))
	}
}

func isOptionalField(nodeType NodeType, name string) bool {
	for _, spec := range nodeSchema[nodeType] {
		if spec.name == name {
			return spec.kind == fieldOptional
		}
	}
	return false
}
