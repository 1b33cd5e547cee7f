package segment

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"
)

// Clusterer groups feature vectors into k clusters and returns one integer
// label per input point.
type Clusterer interface {
	Cluster(points [][]float64, k int) ([]int, error)
}

// KMeans is the default Clusterer: Lloyd's algorithm with k-means++ seeding
// from a fixed seed, re-run over several initializations keeping the lowest
// inertia. A fixed seed makes runs byte-reproducible.
type KMeans struct {
	Seed    int64
	MaxIter int
	NumInit int // <= 0 selects the initialization count automatically
}

// NewKMeans returns the standard deterministic configuration.
func NewKMeans() *KMeans {
	return &KMeans{Seed: 42, MaxIter: 300}
}

// Cluster implements Clusterer.
func (km *KMeans) Cluster(points [][]float64, k int) ([]int, error) {
	if k < 1 {
		return nil, eris.Errorf("kmeans: cluster count %d out of range", k)
	}
	if len(points) < k {
		return nil, eris.Errorf("kmeans: %d points cannot form %d clusters", len(points), k)
	}
	for _, p := range points {
		for _, x := range p {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, eris.New("kmeans: non-finite feature value")
			}
		}
	}

	maxIter := km.MaxIter
	if maxIter <= 0 {
		maxIter = 300
	}
	numInit := km.NumInit
	if numInit <= 0 {
		// k-means++ seeding converges reliably; a small number of restarts
		// is enough to shake off a bad draw.
		numInit = 10
	}

	rng := rand.New(rand.NewSource(km.Seed))

	bestInertia := math.Inf(1)
	var bestLabels []int
	for run := 0; run < numInit; run++ {
		labels, inertia := km.fitOnce(points, k, maxIter, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
		}
	}
	return bestLabels, nil
}

func (km *KMeans) fitOnce(points [][]float64, k, maxIter int, rng *rand.Rand) ([]int, float64) {
	centroids := seedPlusPlus(points, k, rng)
	labels := make([]int, len(points))

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			best := nearest(p, centroids)
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}

		// Recompute centroids; an emptied cluster grabs the point farthest
		// from its current centroid.
		counts := make([]int, k)
		next := make([][]float64, k)
		for c := range next {
			next[c] = make([]float64, len(points[0]))
		}
		for i, p := range points {
			counts[labels[i]]++
			for d, x := range p {
				next[labels[i]][d] += x
			}
		}
		for c := range next {
			if counts[c] == 0 {
				next[c] = append([]float64(nil), points[farthestPoint(points, labels, centroids)]...)
				continue
			}
			for d := range next[c] {
				next[c][d] /= float64(counts[c])
			}
		}
		centroids = next

		if !changed && iter > 0 {
			break
		}
	}

	var inertia float64
	for i, p := range points {
		inertia += sqDist(p, centroids[labels[i]])
	}
	return labels, inertia
}

// seedPlusPlus picks initial centroids with k-means++ weighting.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), points[rng.Intn(len(points))]...))

	for len(centroids) < k {
		weights := make([]float64, len(points))
		var total float64
		for i, p := range points {
			d := math.Inf(1)
			for _, c := range centroids {
				if sq := sqDist(p, c); sq < d {
					d = sq
				}
			}
			weights[i] = d
			total += d
		}
		if total == 0 {
			// All remaining points coincide with a centroid; any pick works.
			centroids = append(centroids, append([]float64(nil), points[rng.Intn(len(points))]...))
			continue
		}
		target := rng.Float64() * total
		var cum float64
		pick := len(points) - 1
		for i, w := range weights {
			cum += w
			if cum >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), points[pick]...))
	}
	return centroids
}

func nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func farthestPoint(points [][]float64, labels []int, centroids [][]float64) int {
	best, bestDist := 0, -1.0
	for i, p := range points {
		if d := sqDist(p, centroids[labels[i]]); d > bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// Standardize z-scores each feature column to zero mean and unit variance.
// Columns with (near-)zero variance are left centered at zero instead of
// dividing by zero.
func Standardize(points [][]float64) [][]float64 {
	if len(points) == 0 {
		return nil
	}
	const eps = 1e-12
	dims := len(points[0])

	out := make([][]float64, len(points))
	for i := range out {
		out[i] = make([]float64, dims)
	}

	col := make([]float64, len(points))
	for d := 0; d < dims; d++ {
		for i := range points {
			col[i] = points[i][d]
		}
		mean := stat.Mean(col, nil)
		std := stat.PopStdDev(col, nil)
		for i := range points {
			if std < eps {
				out[i][d] = 0
				continue
			}
			out[i][d] = (points[i][d] - mean) / std
		}
	}
	return out
}
