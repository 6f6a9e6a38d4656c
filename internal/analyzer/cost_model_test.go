package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scalar(label string) *TreeNode {
	n := NewTreeNode(label)
	n.Scalar = true
	return n
}

func TestDefaultCostModel(t *testing.T) {
	cm := NewDefaultCostModel()

	assert.Equal(t, 1.0, cm.Insert(tree("a")))
	assert.Equal(t, 1.0, cm.Delete(tree("a")))
	assert.Equal(t, 0.0, cm.Rename(tree("a"), tree("a")))
	assert.Equal(t, 1.0, cm.Rename(tree("a"), tree("b")))
	assert.Equal(t, 1.0, cm.Rename(nil, tree("b")))
}

func TestWeightedCostModel(t *testing.T) {
	cm := NewWeightedCostModel(2, 3, 0.5)

	assert.Equal(t, 2.0, cm.Insert(tree("a")))
	assert.Equal(t, 3.0, cm.Delete(tree("a")))
	assert.Equal(t, 0.5, cm.Rename(tree("a"), tree("b")))
	assert.Equal(t, 0.0, cm.Rename(tree("a"), tree("a")))

	analyzer := NewTEDAnalyzer(cm)
	assert.Equal(t, 4.0, analyzer.ComputeDistance(nil, tree("a", tree("b"))))
	assert.Equal(t, 0.5, analyzer.ComputeDistance(tree("r", tree("a")), tree("r", tree("b"))))
}

func TestStructuralCostModel(t *testing.T) {
	cm := NewStructuralCostModel()

	assert.Equal(t, 0.0, cm.Rename(scalar("x"), scalar("y")))
	assert.Equal(t, 1.0, cm.Rename(tree("Load"), tree("Store")))
	assert.Equal(t, 1.0, cm.Rename(scalar("x"), tree("Store")))
	assert.Equal(t, 1.0, cm.Insert(scalar("x")))
}

func TestNewCostModel(t *testing.T) {
	tests := []struct {
		name    string
		want    CostModel
		wantErr bool
	}{
		{name: "", want: &DefaultCostModel{}},
		{name: "unit", want: &DefaultCostModel{}},
		{name: "Weighted", want: &WeightedCostModel{InsertCost: 1, DeleteCost: 2, RenameCost: 3}},
		{name: "structural", want: &StructuralCostModel{}},
		{name: "apted", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, err := NewCostModel(tt.name, 1, 2, 3)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cm)
		})
	}

	_, err := NewCostModel("weighted", -1, 1, 1)
	assert.Error(t, err)
}
