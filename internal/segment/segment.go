// Package segment assigns each customer a coarse behavioral segment by
// clustering standardized spend/order/engagement features. Degenerate input
// never errors: it falls back to a literal segment label, so the caller
// always receives a fully labeled table.
package segment

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/sells-group/customer360-cli/internal/integrate"
	"github.com/sells-group/customer360-cli/internal/table"
)

// ColSegment is the label column appended to the output.
const ColSegment = "segment"

// Fallback labels for input that cannot be clustered.
const (
	DefaultLabel      = "default"
	ErrorDefaultLabel = "error_default"
)

// featureColumns are used when present, in this order.
var featureColumns = []string{
	integrate.ColTotalSpend,
	integrate.ColNumOrders,
	integrate.ColTotalTimeSpent,
}

// Segmenter clusters customers into behavioral segments.
type Segmenter struct {
	RequestedClusters int
	Clusterer         Clusterer
}

// New returns a Segmenter using the deterministic k-means clusterer.
func New(clusters int) *Segmenter {
	return &Segmenter{RequestedClusters: clusters, Clusterer: NewKMeans()}
}

// Segment returns a copy of the table with the segment column appended.
// It never returns a clustering error; unclusterable input degrades to a
// fallback label.
func (s *Segmenter) Segment(t *table.Table) (*table.Table, error) {
	if t.Empty() {
		zap.L().Warn("segment: table empty, skipping segmentation")
		return t.Clone(), nil
	}

	var features []string
	for _, col := range featureColumns {
		if t.HasColumn(col) {
			features = append(features, col)
		}
	}
	if len(features) == 0 {
		zap.L().Warn("segment: no usable features, assigning default segment")
		return t.WithConstColumn(ColSegment, table.String(DefaultLabel))
	}

	points := featureMatrix(t, features)
	if len(points) < s.RequestedClusters || allZero(points) {
		zap.L().Warn("segment: insufficient or non-variable data, assigning default segment",
			zap.Int("rows", len(points)),
			zap.Int("requested_clusters", s.RequestedClusters),
		)
		return t.WithConstColumn(ColSegment, table.String(DefaultLabel))
	}

	standardized := Standardize(points)
	k := s.RequestedClusters
	if distinct := distinctVectors(standardized); distinct < k {
		k = distinct
	}
	if k < 1 {
		zap.L().Warn("segment: no distinct data points, assigning default segment")
		return t.WithConstColumn(ColSegment, table.String(DefaultLabel))
	}
	if k == 1 {
		// A single group trivially exists; no clustering call needed.
		zap.L().Info("segment: one distinct group, assigning all rows to segment 0")
		return t.WithConstColumn(ColSegment, table.String("0"))
	}

	labels, err := s.cluster(standardized, k)
	if err != nil {
		zap.L().Warn("segment: clustering failed, assigning error default segment", zap.Error(err))
		return t.WithConstColumn(ColSegment, table.String(ErrorDefaultLabel))
	}

	vals := make([]table.Value, len(labels))
	for i, label := range labels {
		vals[i] = table.String(strconv.Itoa(label))
	}
	zap.L().Info("segment: complete",
		zap.Int("clusters", k),
		zap.Strings("features", features),
	)
	return t.WithColumn(ColSegment, vals)
}

// cluster invokes the Clusterer, converting a panic in a pluggable
// implementation into an error so the fallback policy applies.
func (s *Segmenter) cluster(points [][]float64, k int) (labels []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			labels, err = nil, fmt.Errorf("clusterer panic: %v", r)
		}
	}()
	labels, err = s.Clusterer.Cluster(points, k)
	if err == nil && len(labels) != len(points) {
		return nil, fmt.Errorf("clusterer returned %d labels for %d points", len(labels), len(points))
	}
	return labels, err
}

// featureMatrix coerces the selected columns to numbers, invalid cells to 0.
func featureMatrix(t *table.Table, features []string) [][]float64 {
	points := make([][]float64, t.NumRows())
	for i := range points {
		points[i] = make([]float64, len(features))
	}
	for d, col := range features {
		for i, v := range t.Column(col) {
			if f, ok := v.Float(); ok {
				points[i][d] = f
			}
		}
	}
	return points
}

func allZero(points [][]float64) bool {
	for _, p := range points {
		for _, x := range p {
			if x != 0 {
				return false
			}
		}
	}
	return true
}

func distinctVectors(points [][]float64) int {
	seen := make(map[string]struct{}, len(points))
	for _, p := range points {
		key := ""
		for _, x := range p {
			key += strconv.FormatFloat(x, 'g', -1, 64) + "|"
		}
		seen[key] = struct{}{}
	}
	return len(seen)
}
