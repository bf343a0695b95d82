package convolution

import (
	"errors"
	"testing"

	"sepconv3d/internal/models"
)

// bruteForce3D computes the full 3D convolution with the outer-product
// kernel kx*ky*kz in float64. Valid for ignore and clamp policies, which
// are separable per axis.
func bruteForce3D(vol *models.Volume, kx, ky, kz Kernel, policy BoundaryPolicy) []float32 {
	out := make([]float32, vol.Len())

	resolve := func(c, n int) (int, bool) {
		if c >= 0 && c < n {
			return c, true
		}
		if policy == BoundaryClamp {
			if c < 0 {
				return 0, true
			}
			return n - 1, true
		}
		return 0, false
	}

	for z := 0; z < vol.Depth; z++ {
		for y := 0; y < vol.Height; y++ {
			for x := 0; x < vol.Width; x++ {
				var sum float64
				for oz := -kz.Radius(); oz <= kz.Radius(); oz++ {
					sz, okz := resolve(z+oz, vol.Depth)
					for oy := -ky.Radius(); oy <= ky.Radius(); oy++ {
						sy, oky := resolve(y+oy, vol.Height)
						for ox := -kx.Radius(); ox <= kx.Radius(); ox++ {
							sx, okx := resolve(x+ox, vol.Width)
							if !okx || !oky || !okz {
								continue
							}
							w := float64(kx.Weight(ox)) * float64(ky.Weight(oy)) * float64(kz.Weight(oz))
							sum += w * float64(vol.At(sx, sy, sz))
						}
					}
				}
				out[vol.Index(x, y, z)] = float32(sum)
			}
		}
	}
	return out
}

// TestSeparableIdentity verifies that three identity passes reproduce the
// input bit-for-bit
func TestSeparableIdentity(t *testing.T) {
	vol := newRandomVolume(t, 7, 5, 3, 11)
	orig := vol.Clone()

	for _, policy := range allPolicies {
		id := IdentityKernel()
		if err := Separable(vol, id, id, id, policy, 5); err != nil {
			t.Fatalf("Separable failed: %v", err)
		}
		requireBitEqual(t, vol.Data, orig.Data)
	}
}

// TestSeparableClampCorners verifies the full pipeline on a 2x2x2 volume
// with value x + 2y + 4z against hand-computed sums
func TestSeparableClampCorners(t *testing.T) {
	vol := newTestVolume(t, 2, 2, 2, func(x, y, z int) float32 { return float32(x + 2*y + 4*z) })
	k := mustKernel(t, 0.25, 0.5, 0.25)

	if err := Separable(vol, k, k, k, BoundaryClamp, 0); err != nil {
		t.Fatalf("Separable failed: %v", err)
	}

	// Each pass maps the step g along its axis to g/4 at coordinate 0 and
	// 3g/4 at coordinate 1, giving 1.75 + 0.5x + y + 2z.
	for z := 0; z < 2; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				want := float32(1.75 + 0.5*float64(x) + float64(y) + 2*float64(z))
				if got := vol.At(x, y, z); got != want {
					t.Errorf("Voxel (%d,%d,%d): expected %v, got %v", x, y, z, want, got)
				}
			}
		}
	}
}

// TestSeparableMatchesBruteForce compares against a direct 3D convolution
// with the outer-product kernel
func TestSeparableMatchesBruteForce(t *testing.T) {
	kx := mustKernel(t, 0.1, 0.6, 0.3)
	ky := mustKernel(t, 0.05, 0.2, 0.5, 0.2, 0.05)
	kz := mustKernel(t, 0.25, 0.5, 0.25)

	for _, policy := range []BoundaryPolicy{BoundaryIgnore, BoundaryClamp, BoundaryPolicy(-3)} {
		t.Run(policy.String(), func(t *testing.T) {
			vol := newRandomVolume(t, 6, 5, 4, 21)
			want := bruteForce3D(vol, kx, ky, kz, policy)

			if err := Separable(vol, kx, ky, kz, policy, 9); err != nil {
				t.Fatalf("Separable failed: %v", err)
			}
			requireNearlyEqual(t, vol.Data, want, 1e-5)
		})
	}
}

// TestSeparableUniformConstantFill verifies that a uniform field survives
// all three passes when filled with its own value
func TestSeparableUniformConstantFill(t *testing.T) {
	const c = float32(-2.5)
	vol := newTestVolume(t, 4, 3, 5, func(x, y, z int) float32 { return c })
	k := mustKernel(t, 0.1, 0.2, 0.4, 0.2, 0.1)

	if err := Separable(vol, k, IdentityKernel(), k, BoundaryConstant, c); err != nil {
		t.Fatalf("Separable failed: %v", err)
	}
	for i, v := range vol.Data {
		if diff := v - c; diff > 1e-5 || diff < -1e-5 {
			t.Fatalf("Expected %v at %d, got %v", c, i, v)
		}
	}
}

// TestSeparableScratchIsolation verifies the caller's buffer holds the
// result and no internal buffer is aliased afterwards
func TestSeparableScratchIsolation(t *testing.T) {
	data := make([]float32, 4*4*4)
	for i := range data {
		data[i] = float32(i % 7)
	}
	vol, err := models.WrapVolume(data, 4, 4, 4)
	if err != nil {
		t.Fatalf("WrapVolume failed: %v", err)
	}
	before := &vol.Data[0]

	k := mustKernel(t, 0.25, 0.5, 0.25)
	if err := Separable(vol, k, k, k, BoundaryClamp, 0); err != nil {
		t.Fatalf("Separable failed: %v", err)
	}

	if &vol.Data[0] != before || &data[0] != before {
		t.Fatalf("Expected result in the caller's backing array")
	}
	if len(vol.Data) != 64 {
		t.Fatalf("Expected 64 voxels, got %d", len(vol.Data))
	}

	// A second run on a mutated buffer must see only the mutation.
	snapshot := vol.Clone()
	vol.Data[0] = 1000
	snapshot.Data[0] = 1000
	if err := Separable(vol, k, k, k, BoundaryClamp, 0); err != nil {
		t.Fatalf("Separable failed: %v", err)
	}
	if err := Separable(snapshot, k, k, k, BoundaryClamp, 0); err != nil {
		t.Fatalf("Separable failed: %v", err)
	}
	requireBitEqual(t, vol.Data, snapshot.Data)
}

// TestSeparableErrors verifies that malformed inputs are rejected
func TestSeparableErrors(t *testing.T) {
	k := IdentityKernel()

	bad := &models.Volume{Data: make([]float32, 10), Width: 2, Height: 2, Depth: 2}
	if err := Separable(bad, k, k, k, BoundaryClamp, 0); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch, got %v", err)
	}

	vol := newRandomVolume(t, 2, 2, 2, 4)
	if err := Separable(vol, k, Kernel{}, k, BoundaryClamp, 0); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("Expected ErrEmptyKernel, got %v", err)
	}
}

// TestLegacyMatchesSeparable verifies the flat entry point, including the
// length/2 radius derivation
func TestLegacyMatchesSeparable(t *testing.T) {
	kxw := []float32{0.1, 0.6, 0.3}
	kyw := []float32{0.05, 0.2, 0.5, 0.2, 0.05}
	kzw := []float32{1}

	for _, policy := range allPolicies {
		vol := newRandomVolume(t, 5, 6, 3, 8)
		data := vol.Clone().Data

		if err := Separable(vol, mustKernel(t, kxw...), mustKernel(t, kyw...), mustKernel(t, kzw...), policy, 0.5); err != nil {
			t.Fatalf("Separable failed: %v", err)
		}
		Legacy(data, kxw, kyw, kzw, len(kxw), len(kyw), len(kzw), 5, 6, 3, policy, 0.5)

		requireBitEqual(t, data, vol.Data)
	}
}

// TestLegacyRadiusTruncation verifies that an even length is halved with
// truncation rather than rejected
func TestLegacyRadiusTruncation(t *testing.T) {
	w := []float32{0.25, 0.5, 0.25}

	vol := newRandomVolume(t, 4, 4, 4, 12)
	data := vol.Clone().Data

	k := mustKernel(t, w...)
	if err := Separable(vol, k, k, IdentityKernel(), BoundaryClamp, 0); err != nil {
		t.Fatalf("Separable failed: %v", err)
	}

	// Length 2 -> radius 1, length 1 -> radius 0 (only w[0] is used on Z).
	Legacy(data, w, w, []float32{1, 99}, 2, 3, 1, 4, 4, 4, BoundaryClamp, 0)
	requireBitEqual(t, data, vol.Data)
}

// TestLegacyPanics verifies that shape errors surface as panics
func TestLegacyPanics(t *testing.T) {
	tests := []struct {
		name string
		run  func()
	}{
		{"short buffer", func() {
			Legacy(make([]float32, 7), []float32{1}, []float32{1}, []float32{1}, 1, 1, 1, 2, 2, 2, BoundaryClamp, 0)
		}},
		{"zero dimension with data", func() {
			Legacy(make([]float32, 4), []float32{1}, []float32{1}, []float32{1}, 1, 1, 1, 2, 2, 0, BoundaryClamp, 0)
		}},
		{"short kernel", func() {
			Legacy(make([]float32, 8), []float32{1}, []float32{1}, []float32{1}, 5, 1, 1, 2, 2, 2, BoundaryClamp, 0)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected panic")
				}
			}()
			tt.run()
		})
	}
}

// TestLegacyEmptyVolume verifies that zero dimensions run without work
func TestLegacyEmptyVolume(t *testing.T) {
	tests := []struct {
		name                 string
		width, height, depth int
		data                 []float32
	}{
		{"zero volume", 0, 0, 0, nil},
		{"zero depth", 4, 3, 0, nil},
		{"empty slice", 0, 2, 2, []float32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Expected no panic, got %v", r)
				}
			}()
			Legacy(tt.data, []float32{1}, []float32{1}, []float32{1}, 1, 1, 1,
				tt.width, tt.height, tt.depth, BoundaryClamp, 0)
		})
	}
}

func BenchmarkSeparable(b *testing.B) {
	vol, _ := models.NewVolume(64, 64, 64)
	for i := range vol.Data {
		vol.Data[i] = float32(i%13) / 13
	}
	k, _ := KernelFromWeights([]float32{0.05, 0.1, 0.2, 0.3, 0.2, 0.1, 0.05})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Separable(vol, k, k, k, BoundaryClamp, 0); err != nil {
			b.Fatal(err)
		}
	}
}
