// Package parser turns Python source code into a syntax tree shaped like
// the one Python's own ast module produces.
//
// Source text is parsed with tree-sitter's Python grammar. ASTBuilder then
// maps every grammar construct to the matching ast node class, with fields
// in declaration order and ast defaults for absent fields. Comments and
// formatting never reach the resulting tree.
//
// Basic usage:
//
//	module, err := parser.ParseModule(ctx, []byte("x = 1"))
//	if err != nil {
//	    var syntaxErr *parser.SyntaxError
//	    // errors.As(err, &syntaxErr) reports the offending line
//	}
//	fmt.Println(parser.Dump(module))
package parser
