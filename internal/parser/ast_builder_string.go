package parser

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"golang.org/x/text/unicode/runenames"
)

// stringLiteral describes one quoted literal of a (possibly concatenated) string
type stringLiteral struct {
	node      *sitter.Node
	prefix    string
	bodyStart uint32
	bodyEnd   uint32
}

func (s stringLiteral) is(flag byte) bool {
	return strings.IndexByte(s.prefix, flag) >= 0
}

func (b *ASTBuilder) parseStringLiteral(tsNode *sitter.Node) (stringLiteral, bool) {
	start, end := tsNode.StartByte(), tsNode.EndByte()
	text := string(b.source[start:end])

	i := 0
	for i < len(text) && strings.IndexByte("rRbBuUfF", text[i]) >= 0 {
		i++
	}
	rest := text[i:]
	quoteLen := 1
	if strings.HasPrefix(rest, `"""`) || strings.HasPrefix(rest, `'''`) {
		quoteLen = 3
	}
	if len(rest) < 2*quoteLen {
		return stringLiteral{}, false
	}
	return stringLiteral{
		node:      tsNode,
		prefix:    strings.ToLower(text[:i]),
		bodyStart: start + uint32(i+quoteLen),
		bodyEnd:   end - uint32(quoteLen),
	}, true
}

// buildString builds a Constant for plain and bytes literals and a JoinedStr
// when any part of an implicit concatenation is an f-string
func (b *ASTBuilder) buildString(tsNode *sitter.Node) *Node {
	parts := []*sitter.Node{tsNode}
	if tsNode.Type() == "concatenated_string" {
		parts = nil
		for _, child := range b.namedChildren(tsNode) {
			if child.Type() == "string" {
				parts = append(parts, child)
			}
		}
	}

	literals := make([]stringLiteral, 0, len(parts))
	bytesCount, formatted := 0, false
	for _, part := range parts {
		lit, ok := b.parseStringLiteral(part)
		if !ok {
			return b.fail(part, "unterminated string literal")
		}
		if lit.is('b') {
			bytesCount++
		}
		if lit.is('f') {
			formatted = true
		}
		literals = append(literals, lit)
	}
	if len(literals) == 0 {
		return b.fail(tsNode, "invalid string literal")
	}
	if bytesCount != 0 && bytesCount != len(literals) {
		return b.fail(tsNode, "cannot mix bytes and nonbytes literals")
	}

	if bytesCount > 0 {
		var buf []byte
		for _, lit := range literals {
			body := string(b.source[lit.bodyStart:lit.bodyEnd])
			for i := 0; i < len(body); i++ {
				if body[i] >= utf8.RuneSelf {
					return b.fail(lit.node, "bytes can only contain ASCII literal characters")
				}
			}
			decoded, err := decodeEscapes(body, lit.is('r'), true, false)
			if err != nil {
				return b.fail(lit.node, "%v", err)
			}
			buf = append(buf, decoded...)
		}
		return b.buildConstant(tsNode, Bytes(buf))
	}

	if !formatted {
		var sb strings.Builder
		for _, lit := range literals {
			decoded, err := decodeEscapes(string(b.source[lit.bodyStart:lit.bodyEnd]), lit.is('r'), false, false)
			if err != nil {
				return b.fail(lit.node, "%v", err)
			}
			sb.WriteString(decoded)
		}
		node := b.buildConstant(tsNode, sb.String())
		if literals[0].is('u') {
			node.Set("kind", "u")
		}
		return node
	}

	joined := &joinedStr{}
	for _, lit := range literals {
		if !lit.is('f') {
			decoded, err := decodeEscapes(string(b.source[lit.bodyStart:lit.bodyEnd]), lit.is('r'), false, false)
			if err != nil {
				return b.fail(lit.node, "%v", err)
			}
			joined.addLiteral(decoded)
			continue
		}
		if !b.appendFString(lit, joined) {
			return nil
		}
	}
	node := b.newNode(NodeJoinedStr, tsNode)
	node.Set("values", joined.finish())
	return node
}

// appendFString adds the literal text and replacement fields of one f-string
func (b *ASTBuilder) appendFString(lit stringLiteral, joined *joinedStr) bool {
	raw := lit.is('r')
	pos := lit.bodyStart
	for _, child := range b.children(lit.node) {
		if child.Type() != "interpolation" {
			continue
		}
		if !b.appendLiteralRange(joined, pos, child.StartByte(), raw, lit.node) {
			return false
		}
		if !b.appendInterpolation(child, joined, raw) {
			return false
		}
		pos = child.EndByte()
	}
	return b.appendLiteralRange(joined, pos, lit.bodyEnd, raw, lit.node)
}

func (b *ASTBuilder) appendLiteralRange(joined *joinedStr, start, end uint32, raw bool, at *sitter.Node) bool {
	if end <= start {
		return true
	}
	decoded, err := decodeEscapes(string(b.source[start:end]), raw, false, true)
	if err != nil {
		b.fail(at, "%v", err)
		return false
	}
	joined.addLiteral(decoded)
	return true
}

// appendInterpolation builds the FormattedValue of a replacement field
func (b *ASTBuilder) appendInterpolation(tsNode *sitter.Node, joined *joinedStr, raw bool) bool {
	var expr, conversion, spec *sitter.Node
	debug := false
	for _, child := range b.children(tsNode) {
		switch child.Type() {
		case "{", "}":
		case "=":
			debug = true
		case "type_conversion":
			conversion = child
		case "format_specifier":
			spec = child
		default:
			if child.IsNamed() && expr == nil {
				expr = child
			}
		}
	}
	if expr == nil {
		b.fail(tsNode, "f-string: empty expression not allowed")
		return false
	}

	if debug {
		// self-documenting fields keep their source text, whitespace included
		end := tsNode.EndByte() - 1
		if conversion != nil {
			end = conversion.StartByte()
		} else if spec != nil {
			end = spec.StartByte()
		}
		joined.addLiteral(string(b.source[tsNode.StartByte()+1 : end]))
	}

	value := b.newNode(NodeFormattedValue, tsNode)
	value.Set("value", b.buildExpr(expr))
	switch {
	case conversion != nil:
		text := strings.TrimPrefix(b.getNodeText(conversion), "!")
		if text != "s" && text != "r" && text != "a" {
			b.fail(conversion, "f-string: invalid conversion character %q: expected 's', 'r', or 'a'", text)
			return false
		}
		value.Set("conversion", int(text[0]))
	case debug && spec == nil:
		value.Set("conversion", int('r'))
	}
	if spec != nil {
		formatSpec := b.buildFormatSpec(spec, raw)
		if formatSpec == nil {
			return false
		}
		value.Set("format_spec", formatSpec)
	}
	joined.addValue(value)
	return true
}

func (b *ASTBuilder) buildFormatSpec(tsNode *sitter.Node, raw bool) *Node {
	joined := &joinedStr{}
	pos := tsNode.StartByte() + 1 // skip ':'
	for _, child := range b.children(tsNode) {
		if child.Type() != "format_expression" && child.Type() != "interpolation" {
			continue
		}
		if !b.appendLiteralRange(joined, pos, child.StartByte(), raw, tsNode) {
			return nil
		}
		if !b.appendInterpolation(child, joined, raw) {
			return nil
		}
		pos = child.EndByte()
	}
	if !b.appendLiteralRange(joined, pos, tsNode.EndByte(), raw, tsNode) {
		return nil
	}
	node := b.newNode(NodeJoinedStr, tsNode)
	node.Set("values", joined.finish())
	return node
}

// joinedStr accumulates JoinedStr values, merging adjacent literal text
type joinedStr struct {
	values  []interface{}
	literal strings.Builder
}

func (j *joinedStr) addLiteral(s string) {
	j.literal.WriteString(s)
}

func (j *joinedStr) addValue(n *Node) {
	j.flush()
	j.values = append(j.values, n)
}

func (j *joinedStr) flush() {
	if j.literal.Len() == 0 {
		return
	}
	constant := NewNode(NodeConstant)
	constant.Set("value", j.literal.String())
	j.values = append(j.values, constant)
	j.literal.Reset()
}

func (j *joinedStr) finish() []interface{} {
	j.flush()
	if j.values == nil {
		return []interface{}{}
	}
	return j.values
}

// decodeEscapes interprets the body of a string literal. Newlines are
// normalized to \n. In f-string mode doubled braces collapse to one.
func decodeEscapes(s string, raw, bytesMode, fstring bool) (string, error) {
	var sb strings.Builder
	writeCode := func(code rune) {
		if bytesMode {
			sb.WriteByte(byte(code))
		} else {
			sb.WriteRune(code)
		}
	}

	for i := 0; i < len(s); {
		c := s[i]
		if fstring && (c == '{' || c == '}') && i+1 < len(s) && s[i+1] == c {
			sb.WriteByte(c)
			i += 2
			continue
		}
		if c == '\r' {
			sb.WriteByte('\n')
			i++
			if i < len(s) && s[i] == '\n' {
				i++
			}
			continue
		}
		if c != '\\' || raw || i+1 >= len(s) {
			sb.WriteByte(c)
			i++
			continue
		}

		next := s[i+1]
		i += 2
		switch next {
		case '\n':
		case '\r':
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case '\\', '\'', '"':
			sb.WriteByte(next)
		case 'a':
			sb.WriteByte('\a')
		case 'b':
			sb.WriteByte('\b')
		case 'f':
			sb.WriteByte('\f')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case '0', '1', '2', '3', '4', '5', '6', '7':
			code := rune(next - '0')
			for n := 0; n < 2 && i < len(s) && s[i] >= '0' && s[i] <= '7'; n++ {
				code = code*8 + rune(s[i]-'0')
				i++
			}
			if bytesMode && code > 0xff {
				return "", fmt.Errorf("invalid octal escape sequence '\\%o'", code)
			}
			writeCode(code)
		case 'x':
			code, err := parseHexEscape(s, i, 2)
			if err != nil {
				return "", err
			}
			i += 2
			writeCode(code)
		case 'u', 'U':
			if bytesMode {
				sb.WriteByte('\\')
				sb.WriteByte(next)
				continue
			}
			width := 4
			if next == 'U' {
				width = 8
			}
			code, err := parseHexEscape(s, i, width)
			if err != nil {
				return "", err
			}
			if code > unicode.MaxRune {
				return "", fmt.Errorf("illegal Unicode character")
			}
			i += width
			sb.WriteRune(code)
		case 'N':
			if bytesMode {
				sb.WriteString(`\N`)
				continue
			}
			if i >= len(s) || s[i] != '{' {
				return "", fmt.Errorf("malformed \\N character escape")
			}
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("malformed \\N character escape")
			}
			r, ok := lookupRuneName(s[i+1 : i+end])
			if !ok {
				return "", fmt.Errorf("unknown Unicode character name")
			}
			i += end + 1
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteByte(next)
		}
	}
	return sb.String(), nil
}

func parseHexEscape(s string, at, width int) (rune, error) {
	if at+width > len(s) {
		return 0, fmt.Errorf("truncated \\xXX escape")
	}
	code, err := strconv.ParseUint(s[at:at+width], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("truncated \\xXX escape")
	}
	return rune(code), nil
}

var runeNameCache sync.Map

// lookupRuneName resolves a \N{...} escape by scanning the Unicode name table
func lookupRuneName(name string) (rune, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if cached, ok := runeNameCache.Load(name); ok {
		r := cached.(rune)
		return r, r >= 0
	}

	const ideograph = "CJK UNIFIED IDEOGRAPH-"
	if strings.HasPrefix(name, ideograph) {
		code, err := strconv.ParseUint(name[len(ideograph):], 16, 32)
		if err == nil {
			runeNameCache.Store(name, rune(code))
			return rune(code), true
		}
	}

	found := rune(-1)
	for r := rune(0); r <= unicode.MaxRune; r++ {
		if runenames.Name(r) == name {
			found = r
			break
		}
	}
	runeNameCache.Store(name, found)
	return found, found >= 0
}
