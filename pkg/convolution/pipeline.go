package convolution

import (
	"context"
	"runtime"
	"sync"

	"sepconv3d/internal/models"
)

// Pipeline runs the separable convolution with each axis pass split across
// worker goroutines. All workers finish a pass before the next pass starts.
//
// Output is bit-identical to Separable: every voxel is computed by the same
// code with the same summation order, only on a different goroutine.
type Pipeline struct {
	// Workers is the number of goroutines per pass. Values <= 1 run serially.
	Workers int
}

// NewPipeline returns a Pipeline using numCores workers.
// numCores <= 0 selects runtime.NumCPU().
func NewPipeline(numCores int) *Pipeline {
	if numCores <= 0 {
		numCores = runtime.NumCPU()
	}
	return &Pipeline{Workers: numCores}
}

// Run filters vol in place. The buffer usage and pass order are the same as
// Separable. ctx is checked between passes; a cancelled run returns
// ctx.Err() and leaves vol partially filtered.
func (p *Pipeline) Run(ctx context.Context, vol *models.Volume, kx, ky, kz Kernel, policy BoundaryPolicy, value float32) error {
	return runPasses(vol, [3]Kernel{kx, ky, kz}, func(dst, src *models.Volume, k Kernel, axis Axis) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return p.pass(dst, src, k, axis, policy, value)
	})
}

func (p *Pipeline) pass(dst, src *models.Volume, k Kernel, axis Axis, policy BoundaryPolicy, value float32) error {
	geo, err := checkPass(dst, src, axis)
	if err != nil {
		return err
	}

	total := src.Len()
	workers := p.Workers
	if workers > total {
		workers = total
	}
	if workers <= 1 {
		convolveRange(dst.Data, src.Data, k, geo, policy, value, 0, total)
		return nil
	}

	Logger().Debug("parallel convolution pass",
		"axis", axis.String(),
		"radius", k.radius,
		"policy", policy.String(),
		"workers", workers)

	chunk := (total + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < total; lo += chunk {
		hi := lo + chunk
		if hi > total {
			hi = total
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			convolveRange(dst.Data, src.Data, k, geo, policy, value, lo, hi)
		}(lo, hi)
	}
	wg.Wait()
	return nil
}
