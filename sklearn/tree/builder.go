package tree

import (
	"math"
	"math/rand/v2"
	"slices"
)

// featureThreshold is the smallest gap between two sorted feature values
// that is considered a valid split point.
const featureThreshold = 1e-7

// impurityEpsilon marks a node as pure.
const impurityEpsilon = 1e-12

// node is one entry of the flat node array. Leaves have left == -1.
type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	impurity  float64
	nSamples  int
	depth     int
	value     []float64 // class distribution, sums to 1
}

func (n *node) isLeaf() bool { return n.left < 0 }

type impurityFunc func(counts []float64, total float64) float64

func gini(counts []float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	sq := 0.0
	for _, c := range counts {
		p := c / total
		sq += p * p
	}
	return 1 - sq
}

func entropy(counts []float64, total float64) float64 {
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c > 0 {
			p := c / total
			h -= p * math.Log2(p)
		}
	}
	return h
}

// rowData is a row-major view of the training matrix.
type rowData struct {
	data   []float64
	stride int
}

func (r rowData) at(i, j int) float64 { return r.data[i*r.stride+j] }

// builder grows a tree depth-first.
type builder struct {
	x         rowData
	y         []int // class index per row
	nClasses  int
	nFeatures int

	impurity        impurityFunc
	maxDepth        int // <0 unlimited
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int
	rng             *rand.Rand

	nodes       []node
	importances []float64

	// scratch
	features []int
	pairs    []valueClass
}

type valueClass struct {
	value float64
	class int
}

type split struct {
	feature   int
	threshold float64
	pos       int // samples[:pos] go left after partitioning
	proxy     float64
	impLeft   float64
	impRight  float64
}

func (b *builder) build(samples []int) {
	b.features = make([]int, b.nFeatures)
	for i := range b.features {
		b.features[i] = i
	}
	b.pairs = make([]valueClass, len(samples))
	b.importances = make([]float64, b.nFeatures)
	b.grow(samples, 0)
}

func (b *builder) classCounts(samples []int) []float64 {
	counts := make([]float64, b.nClasses)
	for _, s := range samples {
		counts[b.y[s]]++
	}
	return counts
}

// grow appends the subtree rooted at samples and returns its node id.
func (b *builder) grow(samples []int, depth int) int {
	n := len(samples)
	counts := b.classCounts(samples)
	imp := b.impurity(counts, float64(n))

	value := make([]float64, b.nClasses)
	for k, c := range counts {
		value[k] = c / float64(n)
	}
	id := len(b.nodes)
	b.nodes = append(b.nodes, node{
		feature:  -1,
		left:     -1,
		right:    -1,
		impurity: imp,
		nSamples: n,
		depth:    depth,
		value:    value,
	})

	isLeaf := (b.maxDepth >= 0 && depth >= b.maxDepth) ||
		n < b.minSamplesSplit ||
		n < 2*b.minSamplesLeaf ||
		imp <= impurityEpsilon
	if isLeaf {
		return id
	}

	best, ok := b.bestSplit(samples)
	if !ok {
		return id
	}

	left := make([]int, 0, best.pos)
	right := make([]int, 0, n-best.pos)
	for _, s := range samples {
		if b.x.at(s, best.feature) <= best.threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	total := float64(b.nodes[0].nSamples)
	nl, nr := float64(len(left)), float64(len(right))
	b.importances[best.feature] += (float64(n)*imp - nl*best.impLeft - nr*best.impRight) / total

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	b.nodes[id].feature = best.feature
	b.nodes[id].threshold = best.threshold
	b.nodes[id].left = l
	b.nodes[id].right = r
	return id
}

// bestSplit scans up to maxFeatures non-constant features in random order and
// returns the split with the lowest weighted child impurity.
func (b *builder) bestSplit(samples []int) (split, bool) {
	n := len(samples)
	best := split{proxy: math.Inf(-1)}
	found := false

	// Fisher-Yates over the remaining features, like sklearn's splitter.
	features := b.features
	visited := 0
	for f := 0; f < len(features) && visited < b.maxFeatures; f++ {
		j := f + b.rng.IntN(len(features)-f)
		features[f], features[j] = features[j], features[f]
		feat := features[f]

		pairs := b.pairs[:n]
		for i, s := range samples {
			pairs[i] = valueClass{value: b.x.at(s, feat), class: b.y[s]}
		}
		slices.SortFunc(pairs, func(a, c valueClass) int {
			switch {
			case a.value < c.value:
				return -1
			case a.value > c.value:
				return 1
			default:
				return 0
			}
		})
		if pairs[n-1].value <= pairs[0].value+featureThreshold {
			// constant in this node; does not count towards maxFeatures
			continue
		}
		visited++

		left := make([]float64, b.nClasses)
		right := make([]float64, b.nClasses)
		for _, p := range pairs {
			right[p.class]++
		}
		for i := 0; i < n-1; i++ {
			left[pairs[i].class]++
			right[pairs[i].class]--
			if pairs[i+1].value <= pairs[i].value+featureThreshold {
				continue
			}
			nl, nr := i+1, n-i-1
			if nl < b.minSamplesLeaf || nr < b.minSamplesLeaf {
				continue
			}
			il := b.impurity(left, float64(nl))
			ir := b.impurity(right, float64(nr))
			proxy := -(float64(nl)*il + float64(nr)*ir)
			if proxy > best.proxy {
				thr := pairs[i].value/2 + pairs[i+1].value/2
				if thr == pairs[i+1].value || math.IsInf(thr, 0) || math.IsNaN(thr) {
					thr = pairs[i].value
				}
				best = split{feature: feat, threshold: thr, pos: nl, proxy: proxy, impLeft: il, impRight: ir}
				found = true
			}
		}
	}
	return best, found
}
