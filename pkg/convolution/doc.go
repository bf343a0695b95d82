// Package convolution implements the reference separable 3D convolution.
//
// A volume is filtered by three 1D kernels applied in a fixed order: X, then
// Y, then Z. Every pass replaces each voxel with the weighted sum of its
// neighbors along one axis:
//
//	out(c) = sum_{k=-R..R} w[R-k] * sample(c+k)
//
// Samples that fall outside the volume are synthesized according to a
// [BoundaryPolicy]: a constant fill value, replication of the nearest edge
// voxel, or (for any other policy value) omission of the term.
//
// # Usage
//
// The gold path is single-threaded and deterministic:
//
//	kx, _ := convolution.NewKernel([]float32{0.25, 0.5, 0.25}, 1)
//	err := convolution.Separable(vol, kx, kx, kx, convolution.BoundaryClamp, 0)
//
// [Pipeline] runs the same passes split across goroutines and yields results
// identical to [Separable]. It serves as the candidate side when validating
// accelerated implementations against the gold output.
//
// [Legacy] keeps the flat twelve-argument entry point used by existing
// drivers, including its implicit radius = length/2 derivation.
package convolution
