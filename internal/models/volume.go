package models

import (
	"errors"
	"fmt"
)

// Errors returned when constructing or pairing volumes.
var (
	ErrInvalidDimensions = errors.New("models: volume dimensions must be positive")
	ErrDimensionMismatch = errors.New("models: volume dimension mismatch")
)

// Volume represents a dense 3D scalar field
type Volume struct {
	// Data is the 3D volume data as a 1D array in row-major order:
	// index = z*Width*Height + y*Width + x
	Data []float32

	// Width is the width of the volume in voxels (X axis)
	Width int

	// Height is the height of the volume in voxels (Y axis)
	Height int

	// Depth is the depth of the volume in voxels (Z axis)
	Depth int

	// VoxelSize is the physical size of each voxel in mm
	VoxelSize struct {
		X, Y, Z float64
	}
}

// NewVolume allocates a zero-filled volume of the given dimensions.
func NewVolume(width, height, depth int) (*Volume, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: got %dx%dx%d", ErrInvalidDimensions, width, height, depth)
	}

	v := &Volume{
		Data:   make([]float32, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
	}
	v.VoxelSize.X, v.VoxelSize.Y, v.VoxelSize.Z = 1, 1, 1
	return v, nil
}

// WrapVolume wraps an existing slice without copying.
// Mutations through the Volume are visible in data and vice versa.
func WrapVolume(data []float32, width, height, depth int) (*Volume, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("%w: got %dx%dx%d", ErrInvalidDimensions, width, height, depth)
	}
	if len(data) != width*height*depth {
		return nil, fmt.Errorf("%w: %d values for %dx%dx%d volume",
			ErrDimensionMismatch, len(data), width, height, depth)
	}

	v := &Volume{
		Data:   data,
		Width:  width,
		Height: height,
		Depth:  depth,
	}
	v.VoxelSize.X, v.VoxelSize.Y, v.VoxelSize.Z = 1, 1, 1
	return v, nil
}

// NewScratch returns a zero-filled volume with exactly the same dimensions
// and voxel size as v.
func (v *Volume) NewScratch() *Volume {
	s := &Volume{
		Data:   make([]float32, len(v.Data)),
		Width:  v.Width,
		Height: v.Height,
		Depth:  v.Depth,
	}
	s.VoxelSize = v.VoxelSize
	return s
}

// Clone returns a deep copy of v.
func (v *Volume) Clone() *Volume {
	c := v.NewScratch()
	copy(c.Data, v.Data)
	return c
}

// Len returns the number of voxels.
func (v *Volume) Len() int {
	return len(v.Data)
}

// Index returns the flat buffer index of voxel (x, y, z).
func (v *Volume) Index(x, y, z int) int {
	return z*v.Width*v.Height + y*v.Width + x
}

// At returns the value of voxel (x, y, z).
func (v *Volume) At(x, y, z int) float32 {
	return v.Data[v.Index(x, y, z)]
}

// Set assigns the value of voxel (x, y, z).
func (v *Volume) Set(x, y, z int, value float32) {
	v.Data[v.Index(x, y, z)] = value
}

// SameShape reports whether v and o have identical dimensions and
// correctly sized buffers.
func (v *Volume) SameShape(o *Volume) bool {
	return v.Width == o.Width && v.Height == o.Height && v.Depth == o.Depth &&
		len(v.Data) == len(o.Data) && len(v.Data) == v.Width*v.Height*v.Depth
}

// CopyFrom copies src into v bit-for-bit. It panics if the shapes differ.
func (v *Volume) CopyFrom(src *Volume) {
	if !v.SameShape(src) {
		panic(fmt.Sprintf("models: CopyFrom shape mismatch %dx%dx%d <- %dx%dx%d",
			v.Width, v.Height, v.Depth, src.Width, src.Height, src.Depth))
	}
	copy(v.Data, src.Data)
}
