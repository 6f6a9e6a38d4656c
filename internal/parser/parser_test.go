package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

func TestNew(t *testing.T) {
	parser := New()
	if parser == nil || parser.parser == nil {
		t.Fatal("New() returned a parser without a tree-sitter parser")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{
			name: "buggy function",
			source: `def absolute(x):
    if x > 0:
        return -x
    return x`,
		},
		{
			name: "patched function with comment",
			source: `def absolute(x):
    # flip the sign of negatives only
    if x < 0:
        return -x
    return x`,
		},
		{
			name: "class with decorators and f-strings",
			source: `import functools

class Greeter:
    @functools.cache
    def greet(self, name: str) -> str:
        return f"Hello, {name!r:>10}"`,
		},
		{
			name:   "empty source",
			source: "",
		},
		{
			name:   "only comments",
			source: "# nothing here\n",
		},
		{
			name: "unbalanced parameters",
			source: `def broken(:
    pass`,
			wantErr: true,
		},
		{
			name:    "unterminated call",
			source:  "print('x'\n",
			wantErr: true,
		},
	}

	parser := New()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.Parse(ctx, []byte(tt.source))

			if tt.wantErr {
				var syntaxErr *SyntaxError
				if !errors.As(err, &syntaxErr) {
					t.Fatalf("Parse() error = %v (%T), want *SyntaxError", err, err)
				}
				if syntaxErr.Line == 0 || syntaxErr.Column == 0 {
					t.Errorf("Parse() error has no position: %+v", syntaxErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}
			if result.Tree == nil || result.RootNode == nil {
				t.Fatal("Parse() returned an incomplete result")
			}
			if string(result.SourceCode) != tt.source {
				t.Errorf("ParseResult.SourceCode = %q, want %q", result.SourceCode, tt.source)
			}
		})
	}
}

func TestParseCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Parse(ctx, []byte("x = 1"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Parse() error = %v, want context.Canceled", err)
	}
}

func TestWalkTree(t *testing.T) {
	parser := New()
	result, err := parser.Parse(context.Background(), []byte("def f():\n    pass\n\ndef g():\n    pass\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	definitions := 0
	err = parser.WalkTree(result.RootNode, func(node *sitter.Node) error {
		if node.Type() == "function_definition" {
			definitions++
		}
		return nil
	})
	if err != nil {
		t.Errorf("WalkTree() error: %v", err)
	}
	if definitions != 2 {
		t.Errorf("WalkTree() saw %d function definitions, want 2", definitions)
	}

	stop := errors.New("stop")
	visited := 0
	err = parser.WalkTree(result.RootNode, func(node *sitter.Node) error {
		visited++
		return stop
	})
	if !errors.Is(err, stop) || visited != 1 {
		t.Errorf("WalkTree() should stop at the first error, visited %d, err %v", visited, err)
	}
}

func TestSyntaxErrorLocation(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		minLine  int
		wantText string
	}{
		{"open paren on second line", "x = 1\ny = (2\n", 2, ""},
		{"python 2 print", "x = 1\nprint 'hello'\n", 2, "print"},
		{"python 2 exec", "exec 'x = 1'\n", 1, "exec"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModule(context.Background(), []byte(tt.source))

			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("ParseModule() error = %v (%T), want *SyntaxError", err, err)
			}
			if syntaxErr.Line < tt.minLine {
				t.Errorf("SyntaxError.Line = %d, want >= %d", syntaxErr.Line, tt.minLine)
			}
			if !strings.HasPrefix(syntaxErr.Error(), "syntax error at line") {
				t.Errorf("SyntaxError.Error() = %q", syntaxErr.Error())
			}
			if tt.wantText != "" && !strings.Contains(syntaxErr.Error(), tt.wantText) {
				t.Errorf("SyntaxError.Error() = %q, want mention of %q", syntaxErr.Error(), tt.wantText)
			}
		})
	}
}

func BenchmarkParseModule(b *testing.B) {
	ctx := context.Background()
	source := []byte(`import sys

def fibonacci(n):
    if n <= 1:
        return n
    return fibonacci(n - 1) + fibonacci(n - 2)

if __name__ == "__main__":
    print(fibonacci(int(sys.argv[1])))`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ParseModule(ctx, source)
	}
}
