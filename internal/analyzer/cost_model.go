package analyzer

import (
	"fmt"
	"strings"
)

// Cost model names accepted by NewCostModel
const (
	CostModelUnit       = "unit"
	CostModelWeighted   = "weighted"
	CostModelStructural = "structural"
)

// CostModel defines the interface for calculating edit operation costs
type CostModel interface {
	// Insert returns the cost of inserting a node
	Insert(node *TreeNode) float64

	// Delete returns the cost of deleting a node
	Delete(node *TreeNode) float64

	// Rename returns the cost of renaming node1 to node2
	Rename(node1, node2 *TreeNode) float64
}

// DefaultCostModel implements a uniform cost model where all operations cost 1.0
type DefaultCostModel struct{}

// NewDefaultCostModel creates a new default cost model
func NewDefaultCostModel() *DefaultCostModel {
	return &DefaultCostModel{}
}

// Insert returns the cost of inserting a node (always 1.0)
func (c *DefaultCostModel) Insert(node *TreeNode) float64 {
	return 1.0
}

// Delete returns the cost of deleting a node (always 1.0)
func (c *DefaultCostModel) Delete(node *TreeNode) float64 {
	return 1.0
}

// Rename returns 0 for equal labels and 1 otherwise
func (c *DefaultCostModel) Rename(node1, node2 *TreeNode) float64 {
	if node1 == nil || node2 == nil {
		return 1.0
	}
	if node1.Label == node2.Label {
		return 0.0
	}
	return 1.0
}

// WeightedCostModel scales each edit operation by its own weight
type WeightedCostModel struct {
	InsertCost float64
	DeleteCost float64
	RenameCost float64
}

// NewWeightedCostModel creates a weighted cost model
func NewWeightedCostModel(insertCost, deleteCost, renameCost float64) *WeightedCostModel {
	return &WeightedCostModel{
		InsertCost: insertCost,
		DeleteCost: deleteCost,
		RenameCost: renameCost,
	}
}

// Insert returns the insert weight
func (c *WeightedCostModel) Insert(node *TreeNode) float64 {
	return c.InsertCost
}

// Delete returns the delete weight
func (c *WeightedCostModel) Delete(node *TreeNode) float64 {
	return c.DeleteCost
}

// Rename returns the rename weight for differing labels
func (c *WeightedCostModel) Rename(node1, node2 *TreeNode) float64 {
	if node1 != nil && node2 != nil && node1.Label == node2.Label {
		return 0.0
	}
	return c.RenameCost
}

// StructuralCostModel is the unit model with free renames between scalar
// leaves, so identifier and literal changes do not count.
type StructuralCostModel struct {
	DefaultCostModel
}

// NewStructuralCostModel creates a structural cost model
func NewStructuralCostModel() *StructuralCostModel {
	return &StructuralCostModel{}
}

// Rename returns 0 when both nodes are scalar leaves
func (c *StructuralCostModel) Rename(node1, node2 *TreeNode) float64 {
	if node1 != nil && node2 != nil && node1.Scalar && node2.Scalar {
		return 0.0
	}
	return c.DefaultCostModel.Rename(node1, node2)
}

// NewCostModel builds a cost model by name. The weights are only used by
// the weighted model.
func NewCostModel(name string, insertCost, deleteCost, renameCost float64) (CostModel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CostModelUnit:
		return NewDefaultCostModel(), nil
	case CostModelWeighted:
		if insertCost < 0 || deleteCost < 0 || renameCost < 0 {
			return nil, fmt.Errorf("cost model weights must be non-negative")
		}
		return NewWeightedCostModel(insertCost, deleteCost, renameCost), nil
	case CostModelStructural:
		return NewStructuralCostModel(), nil
	default:
		return nil, fmt.Errorf("unknown cost model %q (valid: %s, %s, %s)",
			name, CostModelUnit, CostModelWeighted, CostModelStructural)
	}
}
