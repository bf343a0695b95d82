package main

import (
	"fmt"
	"math"

	"sepconv3d/internal/platform"
	"sepconv3d/pkg/convolution"
)

// sumTolerance bounds how far a kernel's weights may sum from 1 before
// constant fill visibly shifts the edges.
const sumTolerance = 1e-6

// kernelWarnings lists kernels whose weights do not sum to 1 when the
// policy fills out-of-range samples with a constant. Such kernels scale the
// fill value along with the data, so edges drift from the interior.
func kernelWarnings(kx, ky, kz convolution.Kernel, policy convolution.BoundaryPolicy) []string {
	if policy != convolution.BoundaryConstant {
		return nil
	}
	var warnings []string
	for i, k := range []convolution.Kernel{kx, ky, kz} {
		if sum := k.Sum(); math.Abs(sum-1) > sumTolerance {
			warnings = append(warnings, fmt.Sprintf("%s kernel weights sum to %.6g, not 1", convolution.Axis(i), sum))
		}
	}
	return warnings
}

// hostSummary describes the host for the report header.
func hostSummary(info platform.Info) string {
	s := fmt.Sprintf("Host: %s, %d CPUs", info.Arch, info.NumCPU)
	if info.FMA {
		s += ", fused multiply-add available (products rounded to float32 before accumulation)"
	}
	return s
}
