package convolution

import (
	"math"
	"math/rand/v2"
	"testing"

	"sepconv3d/internal/models"
)

// newTestVolume creates a volume filled by fn(x, y, z)
func newTestVolume(t testing.TB, width, height, depth int, fn func(x, y, z int) float32) *models.Volume {
	t.Helper()
	vol, err := models.NewVolume(width, height, depth)
	if err != nil {
		t.Fatalf("Failed to create volume: %v", err)
	}
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				vol.Set(x, y, z, fn(x, y, z))
			}
		}
	}
	return vol
}

// newRandomVolume creates a reproducible pseudo-random volume
func newRandomVolume(t testing.TB, width, height, depth int, seed uint64) *models.Volume {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return newTestVolume(t, width, height, depth, func(x, y, z int) float32 {
		return rng.Float32()*2 - 1
	})
}

func mustKernel(t *testing.T, weights ...float32) Kernel {
	t.Helper()
	k, err := KernelFromWeights(weights)
	if err != nil {
		t.Fatalf("Failed to create kernel %v: %v", weights, err)
	}
	return k
}

// requireNearlyEqual fails if any element pair differs by more than eps
func requireNearlyEqual(t *testing.T, got, want []float32, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if diff := math.Abs(float64(got[i]) - float64(want[i])); diff > eps {
			t.Fatalf("Index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// requireBitEqual fails if any element pair differs in its bit pattern
func requireBitEqual(t *testing.T, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if math.Float32bits(got[i]) != math.Float32bits(want[i]) {
			t.Fatalf("Index %d: got %v (%#08x), want %v (%#08x)",
				i, got[i], math.Float32bits(got[i]), want[i], math.Float32bits(want[i]))
		}
	}
}
