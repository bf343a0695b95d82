package convolution

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Kernel is an immutable 1D convolution kernel of length 2*Radius+1.
// Weights are stored in index order; the weight applied to the sample at
// offset k from the center is weights[Radius-k].
type Kernel struct {
	weights []float32
	radius  int
}

// NewKernel returns a kernel with the given weights and radius.
// The weights are copied. len(weights) must equal 2*radius+1.
func NewKernel(weights []float32, radius int) (Kernel, error) {
	if radius < 0 {
		return Kernel{}, fmt.Errorf("%w: %d", ErrNegativeRadius, radius)
	}
	if len(weights) != 2*radius+1 {
		return Kernel{}, fmt.Errorf("%w: radius %d needs %d weights, got %d",
			ErrKernelLength, radius, 2*radius+1, len(weights))
	}

	w := make([]float32, len(weights))
	copy(w, weights)
	return Kernel{weights: w, radius: radius}, nil
}

// KernelFromWeights derives the radius from an odd-length weight slice.
func KernelFromWeights(weights []float32) (Kernel, error) {
	if len(weights) == 0 {
		return Kernel{}, ErrEmptyKernel
	}
	if len(weights)%2 == 0 {
		return Kernel{}, fmt.Errorf("%w: length %d", ErrEvenKernel, len(weights))
	}
	return NewKernel(weights, len(weights)/2)
}

// KernelFromFloat64 converts float64 weights, as produced by the kernels
// package, into a Kernel.
func KernelFromFloat64(weights []float64) (Kernel, error) {
	w := make([]float32, len(weights))
	for i, v := range weights {
		w[i] = float32(v)
	}
	return KernelFromWeights(w)
}

// IdentityKernel returns the radius-0 kernel [1].
func IdentityKernel() Kernel {
	return Kernel{weights: []float32{1}, radius: 0}
}

// Radius returns R.
func (k Kernel) Radius() int {
	return k.radius
}

// Len returns 2R+1.
func (k Kernel) Len() int {
	return len(k.weights)
}

// Weight returns the weight applied to the sample at the given offset
// from the center, i.e. weights[R-offset].
func (k Kernel) Weight(offset int) float32 {
	return k.weights[k.radius-offset]
}

// Weights returns a copy of the weights in index order.
func (k Kernel) Weights() []float32 {
	w := make([]float32, len(k.weights))
	copy(w, k.weights)
	return w
}

// Sum returns the sum of all weights.
func (k Kernel) Sum() float64 {
	w := make([]float64, len(k.weights))
	for i, v := range k.weights {
		w[i] = float64(v)
	}
	return floats.Sum(w)
}

// IsZero reports whether k is the zero Kernel (no weights).
func (k Kernel) IsZero() bool {
	return len(k.weights) == 0
}
