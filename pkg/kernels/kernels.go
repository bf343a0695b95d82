// Package kernels builds the 1D kernels fed to the separable convolution.
package kernels

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"sepconv3d/pkg/config"
	"sepconv3d/pkg/convolution"
)

// Gaussian returns a normalized Gaussian kernel for the given sigma.
//
// The radius is ceil(3*sigma), which covers 99.7% of the distribution.
// For sigma <= 0 it returns the identity kernel.
func Gaussian(sigma float64) convolution.Kernel {
	if sigma <= 0 {
		return convolution.IdentityKernel()
	}
	return GaussianWithRadius(sigma, int(math.Ceil(sigma*3)))
}

// GaussianWithRadius returns a normalized Gaussian kernel truncated at the
// given radius.
func GaussianWithRadius(sigma float64, radius int) convolution.Kernel {
	if sigma <= 0 || radius <= 0 {
		return convolution.IdentityKernel()
	}

	size := 2*radius + 1
	weights := make([]float64, size)
	twoSigmaSq := 2 * sigma * sigma
	for i := range weights {
		x := float64(i - radius)
		weights[i] = math.Exp(-(x * x) / twoSigmaSq)
	}

	return mustFloat64(Normalize(weights))
}

// Box returns a uniform kernel with all weights 1/(2*radius+1).
func Box(radius int) convolution.Kernel {
	if radius <= 0 {
		return convolution.IdentityKernel()
	}

	weights := make([]float64, 2*radius+1)
	for i := range weights {
		weights[i] = 1
	}
	return mustFloat64(Normalize(weights))
}

// Normalize scales weights in place so they sum to one and returns them.
// A zero-sum slice is returned unchanged.
func Normalize(weights []float64) []float64 {
	sum := floats.Sum(weights)
	if sum == 0 {
		return weights
	}
	floats.Scale(1/sum, weights)
	return weights
}

// FromSpec builds a kernel from its configuration.
func FromSpec(spec config.KernelSpec) (convolution.Kernel, error) {
	switch strings.ToLower(spec.Type) {
	case "", "identity":
		return convolution.IdentityKernel(), nil
	case "gaussian":
		if spec.Radius > 0 {
			return GaussianWithRadius(spec.Sigma, spec.Radius), nil
		}
		return Gaussian(spec.Sigma), nil
	case "box":
		return Box(spec.Radius), nil
	case "explicit":
		k, err := convolution.KernelFromFloat64(spec.Weights)
		if err != nil {
			return convolution.Kernel{}, fmt.Errorf("explicit kernel: %w", err)
		}
		if spec.Radius > 0 && k.Radius() != spec.Radius {
			return convolution.Kernel{}, fmt.Errorf("explicit kernel: %w: radius %d needs %d weights, got %d",
				convolution.ErrKernelLength, spec.Radius, 2*spec.Radius+1, len(spec.Weights))
		}
		return k, nil
	default:
		return convolution.Kernel{}, fmt.Errorf("unknown kernel type %q", spec.Type)
	}
}

// FromConfig builds the X, Y and Z kernels.
func FromConfig(cfg *config.Config) (kx, ky, kz convolution.Kernel, err error) {
	if kx, err = FromSpec(cfg.Kernels.X); err != nil {
		return kx, ky, kz, fmt.Errorf("x kernel: %w", err)
	}
	if ky, err = FromSpec(cfg.Kernels.Y); err != nil {
		return kx, ky, kz, fmt.Errorf("y kernel: %w", err)
	}
	if kz, err = FromSpec(cfg.Kernels.Z); err != nil {
		return kx, ky, kz, fmt.Errorf("z kernel: %w", err)
	}
	return kx, ky, kz, nil
}

// mustFloat64 converts weights that are odd-length by construction.
func mustFloat64(weights []float64) convolution.Kernel {
	k, err := convolution.KernelFromFloat64(weights)
	if err != nil {
		panic(err)
	}
	return k
}
