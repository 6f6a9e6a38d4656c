package analyzer

import (
	"math"
)

// TEDAnalyzer computes the Zhang-Shasha ordered tree edit distance
type TEDAnalyzer struct {
	costModel CostModel
}

// NewTEDAnalyzer creates a new analyzer; a nil cost model means unit costs
func NewTEDAnalyzer(costModel CostModel) *TEDAnalyzer {
	if costModel == nil {
		costModel = NewDefaultCostModel()
	}
	return &TEDAnalyzer{costModel: costModel}
}

// CostModel returns the cost model used by the analyzer
func (a *TEDAnalyzer) CostModel() CostModel {
	return a.costModel
}

// indexedTree holds a tree in post-order together with the left-most leaf
// index of every node and the key roots in ascending order
type indexedTree struct {
	nodes    []*TreeNode
	lml      []int
	keyRoots []int
}

func indexTree(root *TreeNode) *indexedTree {
	it := &indexedTree{}
	var visit func(n *TreeNode) int
	visit = func(n *TreeNode) int {
		leftmost := -1
		for i, child := range n.Children {
			l := visit(child)
			if i == 0 {
				leftmost = l
			}
		}
		idx := len(it.nodes)
		it.nodes = append(it.nodes, n)
		if leftmost < 0 {
			leftmost = idx
		}
		it.lml = append(it.lml, leftmost)
		return leftmost
	}
	visit(root)

	// a key root is the highest node among those sharing a left-most leaf
	seen := make(map[int]bool, len(it.nodes))
	for i := len(it.nodes) - 1; i >= 0; i-- {
		if !seen[it.lml[i]] {
			seen[it.lml[i]] = true
			it.keyRoots = append(it.keyRoots, i)
		}
	}
	for i, j := 0, len(it.keyRoots)-1; i < j; i, j = i+1, j-1 {
		it.keyRoots[i], it.keyRoots[j] = it.keyRoots[j], it.keyRoots[i]
	}
	return it
}

// ComputeDistance computes the tree edit distance between two trees
func (a *TEDAnalyzer) ComputeDistance(tree1, tree2 *TreeNode) float64 {
	if tree1 == nil && tree2 == nil {
		return 0.0
	}
	if tree1 == nil {
		return a.computeInsertCost(tree2)
	}
	if tree2 == nil {
		return a.computeDeleteCost(tree1)
	}

	t1, t2 := indexTree(tree1), indexTree(tree2)
	n1, n2 := len(t1.nodes), len(t2.nodes)

	treeDist := make([][]float64, n1)
	for i := range treeDist {
		treeDist[i] = make([]float64, n2)
	}
	forestDist := make([][]float64, n1+1)
	for i := range forestDist {
		forestDist[i] = make([]float64, n2+1)
	}

	for _, i := range t1.keyRoots {
		for _, j := range t2.keyRoots {
			a.computeForestDistance(t1, t2, i, j, treeDist, forestDist)
		}
	}
	return treeDist[n1-1][n2-1]
}

// computeForestDistance fills the tree distances for the subtrees rooted at
// key roots i and j. Row x of forestDist is the forest of the first x nodes
// of subtree i in post-order; row 0 is the empty forest.
func (a *TEDAnalyzer) computeForestDistance(t1, t2 *indexedTree, i, j int, treeDist, forestDist [][]float64) {
	li, lj := t1.lml[i], t2.lml[j]
	rows, cols := i-li+2, j-lj+2

	forestDist[0][0] = 0
	for x := 1; x < rows; x++ {
		forestDist[x][0] = forestDist[x-1][0] + a.costModel.Delete(t1.nodes[li+x-1])
	}
	for y := 1; y < cols; y++ {
		forestDist[0][y] = forestDist[0][y-1] + a.costModel.Insert(t2.nodes[lj+y-1])
	}

	for x := 1; x < rows; x++ {
		xi := li + x - 1
		node1 := t1.nodes[xi]
		del := a.costModel.Delete(node1)
		for y := 1; y < cols; y++ {
			yj := lj + y - 1
			node2 := t2.nodes[yj]
			ins := a.costModel.Insert(node2)

			if t1.lml[xi] == li && t2.lml[yj] == lj {
				// both forests are whole trees
				d := min3(
					forestDist[x-1][y]+del,
					forestDist[x][y-1]+ins,
					forestDist[x-1][y-1]+a.costModel.Rename(node1, node2),
				)
				forestDist[x][y] = d
				treeDist[xi][yj] = d
				continue
			}

			p, q := t1.lml[xi]-li, t2.lml[yj]-lj
			forestDist[x][y] = min3(
				forestDist[x-1][y]+del,
				forestDist[x][y-1]+ins,
				forestDist[p][q]+treeDist[xi][yj],
			)
		}
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

// computeInsertCost computes the cost of inserting an entire subtree
func (a *TEDAnalyzer) computeInsertCost(root *TreeNode) float64 {
	cost := 0.0
	for _, n := range root.PostOrder() {
		cost += a.costModel.Insert(n)
	}
	return cost
}

// computeDeleteCost computes the cost of deleting an entire subtree
func (a *TEDAnalyzer) computeDeleteCost(root *TreeNode) float64 {
	cost := 0.0
	for _, n := range root.PostOrder() {
		cost += a.costModel.Delete(n)
	}
	return cost
}

// ComputeSimilarity returns 1 - distance/(size1+size2), clamped to [0, 1].
// Two empty trees are identical.
func (a *TEDAnalyzer) ComputeSimilarity(tree1, tree2 *TreeNode) float64 {
	return similarity(a.ComputeDistance(tree1, tree2), tree1.Size(), tree2.Size())
}

func similarity(distance float64, size1, size2 int) float64 {
	total := size1 + size2
	if total == 0 {
		return 1.0
	}
	sim := 1.0 - distance/float64(total)
	return math.Max(0.0, math.Min(1.0, sim))
}

// TreeEditResult holds the result of a tree edit distance computation
type TreeEditResult struct {
	Distance   float64
	Similarity float64
	Tree1Size  int
	Tree2Size  int
}

// ComputeDetailedDistance computes distance, sizes and similarity at once
func (a *TEDAnalyzer) ComputeDetailedDistance(tree1, tree2 *TreeNode) *TreeEditResult {
	distance := a.ComputeDistance(tree1, tree2)
	size1, size2 := tree1.Size(), tree2.Size()
	return &TreeEditResult{
		Distance:   distance,
		Similarity: similarity(distance, size1, size2),
		Tree1Size:  size1,
		Tree2Size:  size2,
	}
}
