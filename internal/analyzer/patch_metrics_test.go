package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/pyted/internal/parser"
)

func TestComputeTED(t *testing.T) {
	tests := []struct {
		name     string
		code1    string
		code2    string
		expected float64
	}{
		{name: "identical", code1: "x = 1", code2: "x = 1", expected: 0},
		{name: "changed literal", code1: "x = 1", code2: "x = 2", expected: 1},
		{name: "changed name and literal", code1: "x = 1", code2: "y = 2", expected: 2},
		{name: "pass to return", code1: "def f(): pass", code2: "def f():\n    return 1", expected: 4},
		{name: "added statement", code1: "x = 1", code2: "x = 1\ny = 2", expected: 8},
		{name: "empty sources", code1: "", code2: "", expected: 0},
		{name: "comments ignored", code1: "x = 1  # one", code2: "# header\nx   =   1\n", expected: 0},
		{name: "augmented vs plain", code1: "x += 1", code2: "x = x + 1", expected: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTED(tt.code1, tt.code2)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)

			reverse, err := ComputeTED(tt.code2, tt.code1)
			require.NoError(t, err)
			assert.Equal(t, got, reverse, "distance should be symmetric")
		})
	}
}

func TestComputeSim(t *testing.T) {
	sim, err := ComputeSim("x = 1", "x = 2")
	require.NoError(t, err)
	assert.InDelta(t, 1.0-1.0/18.0, sim, 1e-12)

	sim, err = ComputeSim("", "")
	require.NoError(t, err)
	assert.Equal(t, 1.0, sim)

	sim, err = ComputeSim("def f(a, b):\n    return a + b\n", "def f(a, b):\n    return a + b\n")
	require.NoError(t, err)
	assert.Equal(t, 1.0, sim)
}

func TestRelativePatchSize(t *testing.T) {
	rps, err := RelativePatchSize("x = 1", "x = 2")
	require.NoError(t, err)
	assert.Equal(t, 0.11, rps)

	rps, err = RelativePatchSize("def f(): pass", "def f():\n    return 1")
	require.NoError(t, err)
	assert.Equal(t, 0.44, rps)

	rps, err = RelativePatchSize("x = 1", "x = 1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, rps)
}

func TestPatchMetrics_Precision(t *testing.T) {
	m := NewPatchMetrics(WithPrecision(4))
	rps, err := m.RelativePatchSize(context.Background(), "x = 1", "x = 2")
	require.NoError(t, err)
	assert.Equal(t, 0.1111, rps)
}

func TestPatchMetrics_CostModels(t *testing.T) {
	ctx := context.Background()

	structural := NewPatchMetrics(WithCostModel(NewStructuralCostModel()))
	ted, err := structural.ComputeTED(ctx, "x = 1", "y = 2")
	require.NoError(t, err)
	assert.Equal(t, 0.0, ted)

	weighted := NewPatchMetrics(WithCostModel(NewWeightedCostModel(2, 1, 1)))
	ted, err = weighted.ComputeTED(ctx, "x = 1", "x = 1\ny = 2")
	require.NoError(t, err)
	assert.Equal(t, 16.0, ted)
}

func TestPatchMetrics_SkipDocstrings(t *testing.T) {
	m := NewPatchMetrics(WithSkipDocstrings(true))
	ted, err := m.ComputeTED(context.Background(),
		"def f():\n    \"\"\"Old docs.\"\"\"\n    return 1\n",
		"def f():\n    return 1\n")
	require.NoError(t, err)
	assert.Equal(t, 0.0, ted)
}

func TestPatchMetrics_Compare(t *testing.T) {
	result, err := NewPatchMetrics().Compare(context.Background(), "x = 1", "x = 2")
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.Distance)
	assert.Equal(t, 9, result.BuggySize)
	assert.Equal(t, 9, result.PatchSize)
	assert.InDelta(t, 1.0-1.0/18.0, result.Similarity, 1e-12)
	assert.Equal(t, 0.11, result.RelativePatchSize)
}

func TestPatchMetrics_CompareTreesEmptyBuggy(t *testing.T) {
	result := NewPatchMetrics().CompareTrees(nil, tree("Module"))
	assert.Equal(t, 0, result.BuggySize)
	assert.Equal(t, 0.0, result.RelativePatchSize)
	assert.Equal(t, 1.0, result.Distance)
}

func TestPatchMetrics_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		code1 string
		code2 string
		side  string
	}{
		{name: "python 2 print", code1: "print \"x\"", code2: "x = 1", side: "code1"},
		{name: "unclosed parameter list", code1: "x = 1", code2: "def f(:", side: "code2"},
		{name: "indented module", code1: "  x = 1", code2: "x = 1", side: "code1"},
		{name: "unindented block", code1: "if x:\npass", code2: "x = 1", side: "code1"},
		{name: "inconsistent block indent", code1: "def f():\n  x\n    y", code2: "x = 1", side: "code1"},
		{name: "stray else", code1: "else: pass", code2: "x = 1", side: "code1"},
		{name: "delete call", code1: "del f()", code2: "x = 1", side: "code1"},
		{name: "delete literal", code1: "x = 1", code2: "del 1", side: "code2"},
		{name: "with call target", code1: "with a as f(): pass", code2: "x = 1", side: "code1"},
		{name: "augmented tuple target", code1: "(a, b) += 1", code2: "x = 1", side: "code1"},
		{name: "keyword attribute", code1: "x = 1", code2: "x.None = 1", side: "code2"},
		{name: "positional after keyword", code1: "f(a=1, b)", code2: "x = 1", side: "code1"},
		{name: "unpacking after kwargs", code1: "f(**a, *b)", code2: "x = 1", side: "code1"},
		{name: "generator with more args", code1: "f(x for x in y, 1)", code2: "x = 1", side: "code1"},
		{name: "parameter after kwargs", code1: "def f(**k, a): pass", code2: "x = 1", side: "code1"},
		{name: "lone bare star", code1: "def f(*): pass", code2: "x = 1", side: "code1"},
		{name: "bare star before kwargs", code1: "x = 1", code2: "def f(*, **k): pass", side: "code2"},
		{name: "statement walrus", code1: "a := 1", code2: "x = 1", side: "code1"},
		{name: "starred walrus", code1: "print(*a := b)", code2: "x = 1", side: "code1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeTED(tt.code1, tt.code2)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.side)

			var syntaxErr *parser.SyntaxError
			assert.True(t, errors.As(err, &syntaxErr))

			_, err = ComputeSim(tt.code1, tt.code2)
			assert.True(t, errors.As(err, &syntaxErr))

			_, err = RelativePatchSize(tt.code1, tt.code2)
			assert.True(t, errors.As(err, &syntaxErr))
		})
	}
}

func TestRoundHalfEven(t *testing.T) {
	tests := []struct {
		x        float64
		digits   int
		expected float64
	}{
		{0.125, 2, 0.12},
		{0.375, 2, 0.38},
		{2.675, 2, 2.67},
		{0.5, 0, 0},
		{1.5, 0, 2},
		{1.0 / 9.0, 2, 0.11},
		{4.0 / 9.0, 2, 0.44},
		{-0.125, 2, -0.12},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RoundHalfEven(tt.x, tt.digits), "round(%v, %d)", tt.x, tt.digits)
	}
}
