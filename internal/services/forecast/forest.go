package forecast

import (
	"math/rand"
	"sort"

	"PricePulse/internal/domain/models"
	"PricePulse/internal/services/features"
)

// forestParams bounds tree growth.
type forestParams struct {
	estimators int
	maxDepth   int
	minLeaf    int
	mtry       int // features sampled per split
}

// treeNode is one node of a regression tree. feature == -1 marks a leaf.
type treeNode struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
}

type tree struct {
	nodes []treeNode
}

func (t *tree) predict(row []float64) float64 {
	i := 0
	for {
		n := t.nodes[i]
		if n.feature < 0 {
			return n.value
		}
		if row[n.feature] <= n.threshold {
			i = n.left
		} else {
			i = n.right
		}
	}
}

// forest is a bootstrap-aggregated set of regression trees. Predictions are
// the mean over trees. Growth is driven by a single seeded source, so the
// same data and seed always grow the same forest.
type forest struct {
	trees []tree
}

func (f *forest) predict(row []float64) float64 {
	sum := 0.0
	for i := range f.trees {
		sum += f.trees[i].predict(row)
	}
	return sum / float64(len(f.trees))
}

func growForest(x [][]float64, y []float64, p forestParams, seed int64) *forest {
	rng := rand.New(rand.NewSource(seed))
	n := len(x)
	out := &forest{trees: make([]tree, p.estimators)}
	for t := 0; t < p.estimators; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		out.trees[t] = growTree(x, y, idx, p, rng)
	}
	return out
}

func growTree(x [][]float64, y []float64, idx []int, p forestParams, rng *rand.Rand) tree {
	t := tree{}
	t.grow(x, y, idx, 0, p, rng)
	return t
}

// grow appends the subtree for idx and returns its node position.
func (t *tree) grow(x [][]float64, y []float64, idx []int, depth int, p forestParams, rng *rand.Rand) int {
	pos := len(t.nodes)
	t.nodes = append(t.nodes, treeNode{feature: -1, value: meanAt(y, idx)})

	if depth >= p.maxDepth || len(idx) < 2*p.minLeaf {
		return pos
	}
	feat, thr, ok := bestSplit(x, y, idx, p, rng)
	if !ok {
		return pos
	}

	var left, right []int
	for _, i := range idx {
		if x[i][feat] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < p.minLeaf || len(right) < p.minLeaf {
		return pos
	}

	t.nodes[pos].feature = feat
	t.nodes[pos].threshold = thr
	t.nodes[pos].left = t.grow(x, y, left, depth+1, p, rng)
	t.nodes[pos].right = t.grow(x, y, right, depth+1, p, rng)
	return pos
}

// bestSplit scans a random feature subset for the split minimizing the summed
// squared error of the two children, using prefix sums over the sorted column.
func bestSplit(x [][]float64, y []float64, idx []int, p forestParams, rng *rand.Rand) (int, float64, bool) {
	nf := len(x[0])
	feats := rng.Perm(nf)[:p.mtry]

	bestFeat, bestThr := -1, 0.0
	bestScore := sseAt(y, idx)
	found := false

	order := make([]int, len(idx))
	for _, f := range feats {
		copy(order, idx)
		sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

		var sumL, sqL float64
		sumR, sqR := sums(y, order)
		for k := 0; k < len(order)-1; k++ {
			v := y[order[k]]
			sumL += v
			sqL += v * v
			sumR -= v
			sqR -= v * v

			if x[order[k]][f] == x[order[k+1]][f] {
				continue
			}
			nl, nr := float64(k+1), float64(len(order)-k-1)
			if int(nl) < p.minLeaf || int(nr) < p.minLeaf {
				continue
			}
			score := (sqL - sumL*sumL/nl) + (sqR - sumR*sumR/nr)
			if score < bestScore {
				bestScore = score
				bestFeat = f
				bestThr = (x[order[k]][f] + x[order[k+1]][f]) / 2
				found = true
			}
		}
	}
	return bestFeat, bestThr, found
}

func sums(y []float64, idx []int) (sum, sq float64) {
	for _, i := range idx {
		sum += y[i]
		sq += y[i] * y[i]
	}
	return sum, sq
}

func meanAt(y []float64, idx []int) float64 {
	sum, _ := sums(y, idx)
	return sum / float64(len(idx))
}

func sseAt(y []float64, idx []int) float64 {
	sum, sq := sums(y, idx)
	return sq - sum*sum/float64(len(idx))
}

// scaler standardizes feature columns to zero mean and unit variance.
// Constant columns keep scale 1 so transform stays defined.
type scaler struct {
	mean  []float64
	scale []float64
}

func fitScaler(x [][]float64) (*scaler, error) {
	p := len(x[0])
	s := &scaler{mean: make([]float64, p), scale: make([]float64, p)}

	col := make([]float64, len(x))
	varying := false
	for j := 0; j < p; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		s.mean[j] = features.Mean(col)
		sd := features.StdDev(col)
		if sd > 0 {
			varying = true
			s.scale[j] = sd
		} else {
			s.scale[j] = 1
		}
	}
	if !varying {
		return nil, &models.ModelTrainingError{Reason: "all feature columns are constant"}
	}
	return s, nil
}

func (s *scaler) transform(row []float64) []float64 {
	out := make([]float64, len(row))
	for j := range row {
		out[j] = (row[j] - s.mean[j]) / s.scale[j]
	}
	return out
}
