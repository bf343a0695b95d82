package convolution

import (
	"fmt"
	"unsafe"

	"sepconv3d/internal/models"
)

// Axis selects the direction of a 1D convolution pass.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns "x", "y" or "z".
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// axisGeometry describes how to walk a voxel line along one axis in the
// flat row-major buffer.
type axisGeometry struct {
	stride int // distance between neighbors along the axis
	length int // number of voxels along the axis
}

func geometryFor(vol *models.Volume, axis Axis) (axisGeometry, error) {
	switch axis {
	case AxisX:
		return axisGeometry{stride: 1, length: vol.Width}, nil
	case AxisY:
		return axisGeometry{stride: vol.Width, length: vol.Height}, nil
	case AxisZ:
		return axisGeometry{stride: vol.Width * vol.Height, length: vol.Depth}, nil
	default:
		return axisGeometry{}, fmt.Errorf("%w: %d", ErrInvalidAxis, int(axis))
	}
}

// ConvolveAxis convolves every voxel line of src along axis with k and
// writes the result into dst. src is not modified.
//
// dst and src must have identical dimensions and must not share storage.
// Unrecognized boundary policies are not an error: their out-of-range
// terms are omitted.
func ConvolveAxis(dst, src *models.Volume, k Kernel, axis Axis, policy BoundaryPolicy, value float32) error {
	geo, err := checkPass(dst, src, axis)
	if err != nil {
		return err
	}

	Logger().Debug("convolution pass",
		"axis", axis.String(),
		"radius", k.radius,
		"policy", policy.String(),
		"voxels", src.Len())

	convolveRange(dst.Data, src.Data, k, geo, policy, value, 0, src.Len())
	return nil
}

func checkPass(dst, src *models.Volume, axis Axis) (axisGeometry, error) {
	if !dst.SameShape(src) {
		return axisGeometry{}, fmt.Errorf("%w: dst %dx%dx%d, src %dx%dx%d", ErrDimensionMismatch,
			dst.Width, dst.Height, dst.Depth, src.Width, src.Height, src.Depth)
	}
	if overlaps(dst.Data, src.Data) {
		return axisGeometry{}, ErrAliasedBuffers
	}
	return geometryFor(src, axis)
}

// overlaps reports whether a and b address any common element.
func overlaps(a, b []float32) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	const size = unsafe.Sizeof(float32(0))
	a0 := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	b0 := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return a0 < b0+uintptr(len(b))*size && b0 < a0+uintptr(len(a))*size
}

// convolveRange computes output voxels with flat indices in [lo, hi).
// Each output depends only on src, so disjoint ranges may run concurrently.
func convolveRange(dst, src []float32, k Kernel, geo axisGeometry, policy BoundaryPolicy, value float32, lo, hi int) {
	r := k.radius
	w := k.weights
	stride, n := geo.stride, geo.length

	for i := lo; i < hi; i++ {
		c := (i / stride) % n
		base := i - c*stride // voxel at coordinate 0 on this line
		last := base + (n-1)*stride

		var sum float32
		for off := -r; off <= r; off++ {
			d := c + off

			var s float32
			switch {
			case d >= 0 && d < n:
				s = src[base+d*stride]
			case policy == BoundaryConstant:
				s = value
			case policy == BoundaryClamp:
				if d < 0 {
					s = src[base]
				} else {
					s = src[last]
				}
			default:
				continue
			}

			// The explicit conversion keeps the product rounded to float32
			// before accumulation, preventing fused multiply-add.
			sum += float32(w[r-off] * s)
		}

		dst[i] = sum
	}
}
