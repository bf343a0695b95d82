package convolution

import (
	"errors"

	"sepconv3d/internal/models"
)

// Errors returned by kernel construction and convolution passes.
var (
	ErrEmptyKernel    = errors.New("convolution: empty kernel")
	ErrEvenKernel     = errors.New("convolution: kernel length must be odd")
	ErrKernelLength   = errors.New("convolution: kernel length does not match 2*radius+1")
	ErrNegativeRadius = errors.New("convolution: negative kernel radius")
	ErrAliasedBuffers = errors.New("convolution: source and destination share storage")
	ErrInvalidAxis    = errors.New("convolution: invalid axis")

	// ErrDimensionMismatch is shared with the models package so callers
	// can match it with errors.Is regardless of which layer reported it.
	ErrDimensionMismatch = models.ErrDimensionMismatch
)
