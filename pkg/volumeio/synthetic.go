package volumeio

import (
	"fmt"
	"math"
	"math/rand/v2"

	"sepconv3d/internal/models"
)

// Sphere returns a binary sphere phantom: 1 inside a sphere of radius
// radiusFraction*min(width, height, depth)/2 centered in the volume, 0 outside.
func Sphere(width, height, depth int, radiusFraction float64) (*models.Volume, error) {
	vol, err := models.NewVolume(width, height, depth)
	if err != nil {
		return nil, err
	}

	radius := radiusFraction * float64(min(width, height, depth)) / 2
	cx, cy, cz := float64(width)/2, float64(height)/2, float64(depth)/2

	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				dx := float64(x) + 0.5 - cx
				dy := float64(y) + 0.5 - cy
				dz := float64(z) + 0.5 - cz
				if math.Sqrt(dx*dx+dy*dy+dz*dz) < radius {
					vol.Set(x, y, z, 1)
				}
			}
		}
	}
	return vol, nil
}

// Ramp returns a volume whose value rises linearly along each axis,
// normalized to [0, 1].
func Ramp(width, height, depth int) (*models.Volume, error) {
	vol, err := models.NewVolume(width, height, depth)
	if err != nil {
		return nil, err
	}

	scale := float32(width + height + depth - 3)
	if scale == 0 {
		return vol, nil
	}
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				vol.Set(x, y, z, float32(x+y+z)/scale)
			}
		}
	}
	return vol, nil
}

// Random returns a reproducible volume of uniform values in [0, 1).
func Random(width, height, depth int, seed uint64) (*models.Volume, error) {
	vol, err := models.NewVolume(width, height, depth)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	for i := range vol.Data {
		vol.Data[i] = rng.Float32()
	}
	return vol, nil
}

// Phantom generates the named synthetic volume: sphere, ramp or random.
func Phantom(name string, width, height, depth int) (*models.Volume, error) {
	switch name {
	case "sphere", "":
		return Sphere(width, height, depth, 0.5)
	case "ramp":
		return Ramp(width, height, depth)
	case "random":
		return Random(width, height, depth, 1)
	default:
		return nil, fmt.Errorf("unknown phantom %q (must be sphere, ramp or random)", name)
	}
}
