// Package validation compares a candidate convolution result against the
// gold reference.
package validation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"sepconv3d/internal/models"
)

// Metrics summarizes the difference between a gold and a candidate volume.
type Metrics struct {
	// MaxAbsError is the largest absolute voxel difference
	MaxAbsError float64

	// MaxErrorIndex is the flat index where MaxAbsError occurs, -1 if identical
	MaxErrorIndex int

	// MeanAbsError is the mean absolute voxel difference
	MeanAbsError float64

	// RMSE is the root mean square voxel difference
	RMSE float64

	// Correlation is the Pearson correlation between the two volumes.
	// It is NaN when either volume is constant.
	Correlation float64

	// Identical is true when every voxel matches bit-for-bit
	Identical bool
}

// Compare computes difference metrics between gold and candidate.
func Compare(gold, candidate *models.Volume) (Metrics, error) {
	if !gold.SameShape(candidate) {
		return Metrics{}, fmt.Errorf("%w: gold %dx%dx%d, candidate %dx%dx%d", models.ErrDimensionMismatch,
			gold.Width, gold.Height, gold.Depth, candidate.Width, candidate.Height, candidate.Depth)
	}

	n := gold.Len()
	m := Metrics{MaxErrorIndex: -1, Identical: true}
	if n == 0 {
		return m, nil
	}

	g := make([]float64, n)
	c := make([]float64, n)
	absDiff := make([]float64, n)
	for i := range gold.Data {
		if math.Float32bits(gold.Data[i]) != math.Float32bits(candidate.Data[i]) {
			m.Identical = false
		}
		g[i] = float64(gold.Data[i])
		c[i] = float64(candidate.Data[i])
		absDiff[i] = math.Abs(g[i] - c[i])
	}

	if !m.Identical {
		m.MaxErrorIndex = floats.MaxIdx(absDiff)
		m.MaxAbsError = absDiff[m.MaxErrorIndex]
	}
	m.MeanAbsError = stat.Mean(absDiff, nil)
	m.RMSE = floats.Distance(g, c, 2) / math.Sqrt(float64(n))
	m.Correlation = stat.Correlation(g, c, nil)

	return m, nil
}

// Within reports whether the maximum absolute error is at most tol.
func (m Metrics) Within(tol float64) bool {
	return m.MaxAbsError <= tol
}

// String formats the metrics for reports.
func (m Metrics) String() string {
	if m.Identical {
		return "identical (bit-for-bit)"
	}
	return fmt.Sprintf("max |err| %.3g at %d, mean |err| %.3g, RMSE %.3g, correlation %.6f",
		m.MaxAbsError, m.MaxErrorIndex, m.MeanAbsError, m.RMSE, m.Correlation)
}
