package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"

	"sepconv3d/internal/models"
)

// Viewer extracts 2D slices from a filtered volume for visual inspection
type Viewer struct {
	// volume holds the 3D volume data
	volume *models.Volume

	// sliceGap is the physical distance between consecutive Z slices in mm
	sliceGap float64

	// lo and hi are the value range mapped onto the 16-bit gray scale
	lo, hi float32
}

// NewViewer creates a viewer over vol. Slice intensities are normalized to
// the volume's value range.
func NewViewer(vol *models.Volume, sliceGap float64) *Viewer {
	v := &Viewer{volume: vol, sliceGap: sliceGap}
	if len(vol.Data) > 0 {
		v.lo, v.hi = vol.Data[0], vol.Data[0]
		for _, value := range vol.Data {
			if value < v.lo {
				v.lo = value
			}
			if value > v.hi {
				v.hi = value
			}
		}
	}
	return v
}

// gray maps a voxel value onto the 16-bit range
func (v *Viewer) gray(value float32) color.Gray16 {
	if v.hi <= v.lo {
		return color.Gray16{}
	}
	n := float64(value-v.lo) / float64(v.hi-v.lo)
	return color.Gray16{Y: uint16(math.Max(0, math.Min(65535, math.Round(n*65535))))}
}

// ExtractSlice extracts a 2D slice from the volume along the specified axis
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	vol := v.volume
	var img *image.Gray16

	switch axis {
	case "x", "X":
		// YZ plane
		if position >= vol.Width {
			return nil, fmt.Errorf("position %d exceeds width %d", position, vol.Width)
		}
		img = image.NewGray16(image.Rect(0, 0, vol.Depth, vol.Height))
		for y := 0; y < vol.Height; y++ {
			for z := 0; z < vol.Depth; z++ {
				img.SetGray16(z, y, v.gray(vol.At(position, y, z)))
			}
		}

	case "y", "Y":
		// XZ plane
		if position >= vol.Height {
			return nil, fmt.Errorf("position %d exceeds height %d", position, vol.Height)
		}
		img = image.NewGray16(image.Rect(0, 0, vol.Width, vol.Depth))
		for z := 0; z < vol.Depth; z++ {
			for x := 0; x < vol.Width; x++ {
				img.SetGray16(x, z, v.gray(vol.At(x, position, z)))
			}
		}

	case "z", "Z":
		// XY plane
		if position >= vol.Depth {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, vol.Depth)
		}
		img = image.NewGray16(image.Rect(0, 0, vol.Width, vol.Height))
		for y := 0; y < vol.Height; y++ {
			for x := 0; x < vol.Width; x++ {
				img.SetGray16(x, y, v.gray(vol.At(x, y, position)))
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

// SaveSlice saves an extracted slice. A .tif or .tiff extension writes a
// lossless 16-bit TIFF; anything else is written as JPEG.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff":
		return tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	}
}

// SaveSliceSequence extracts and saves every slice along the specified axis.
// ext selects the image format ("jpg" or "tiff").
func (v *Viewer) SaveSliceSequence(axis string, outputDir string, ext string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = v.volume.Width
	case "y", "Y":
		maxPos = v.volume.Height
	case "z", "Z":
		maxPos = v.volume.Depth
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "jpg"
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.%s", axis, pos, ext))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}

// SliceGap returns the physical distance between Z slices in mm
func (v *Viewer) SliceGap() float64 {
	return v.sliceGap
}
