package convolution

import (
	"fmt"

	"sepconv3d/internal/models"
)

// passFunc runs one axis pass from src into dst.
type passFunc func(dst, src *models.Volume, k Kernel, axis Axis) error

// Separable filters vol in place with kx along X, ky along Y and kz along Z.
//
// The passes ping-pong between vol and a single scratch volume:
//
//	X: vol     -> scratch
//	Y: scratch -> vol
//	Z: vol     -> scratch
//
// and the scratch contents are finally copied back into vol, so vol keeps
// its backing array. The scratch volume lives only for the duration of the
// call.
func Separable(vol *models.Volume, kx, ky, kz Kernel, policy BoundaryPolicy, value float32) error {
	return runPasses(vol, [3]Kernel{kx, ky, kz}, func(dst, src *models.Volume, k Kernel, axis Axis) error {
		return ConvolveAxis(dst, src, k, axis, policy, value)
	})
}

func runPasses(vol *models.Volume, kernels [3]Kernel, pass passFunc) error {
	if vol.Len() != vol.Width*vol.Height*vol.Depth {
		return fmt.Errorf("%w: %d values for %dx%dx%d volume",
			ErrDimensionMismatch, vol.Len(), vol.Width, vol.Height, vol.Depth)
	}
	for i, k := range kernels {
		if k.IsZero() {
			return fmt.Errorf("%w: %s axis", ErrEmptyKernel, Axis(i))
		}
	}

	scratch := vol.NewScratch()

	if err := pass(scratch, vol, kernels[0], AxisX); err != nil {
		return err
	}
	if err := pass(vol, scratch, kernels[1], AxisY); err != nil {
		return err
	}
	if err := pass(scratch, vol, kernels[2], AxisZ); err != nil {
		return err
	}

	vol.CopyFrom(scratch)
	return nil
}

// Legacy is the flat twelve-argument entry point used by existing drivers.
// data holds width*height*depth voxels and is filtered in place.
//
// The lenX, lenY and lenZ arguments are kernel lengths: each pass uses
// radius = len/2 (truncating). Kernel slices are not validated against that
// radius; a slice shorter than 2*radius+1 panics with an index out of
// range, and mismatched lengths silently apply the wrong weights. Use
// [Separable] with kernels from [NewKernel] to get these mistakes reported
// as errors instead.
//
// A volume with a zero dimension and no data is a no-op. Otherwise Legacy
// panics if len(data) does not match the dimensions.
func Legacy(data []float32, kernelX, kernelY, kernelZ []float32, lenX, lenY, lenZ int,
	width, height, depth int, policy BoundaryPolicy, value float32) {
	if len(data) == 0 && width >= 0 && height >= 0 && depth >= 0 &&
		(width == 0 || height == 0 || depth == 0) {
		return
	}

	vol, err := models.WrapVolume(data, width, height, depth)
	if err != nil {
		panic(err)
	}

	kernels := [3]Kernel{
		{weights: kernelX, radius: lenX / 2},
		{weights: kernelY, radius: lenY / 2},
		{weights: kernelZ, radius: lenZ / 2},
	}

	scratch := vol.NewScratch()
	passes := [3]struct {
		dst, src *models.Volume
	}{
		{scratch, vol},
		{vol, scratch},
		{scratch, vol},
	}
	for i, p := range passes {
		geo, _ := geometryFor(vol, Axis(i))
		convolveRange(p.dst.Data, p.src.Data, kernels[i], geo, policy, value, 0, vol.Len())
	}
	vol.CopyFrom(scratch)
}
