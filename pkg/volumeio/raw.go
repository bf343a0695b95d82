// Package volumeio reads and writes raw volumes and generates synthetic
// test volumes.
//
// The raw format is a headerless sequence of little-endian float32 values
// in row-major order (x fastest, then y, then z).
package volumeio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"sepconv3d/internal/models"
)

// ReadRaw reads width*height*depth float32 values from r.
func ReadRaw(r io.Reader, width, height, depth int) (*models.Volume, error) {
	vol, err := models.NewVolume(width, height, depth)
	if err != nil {
		return nil, err
	}

	if err := binary.Read(bufio.NewReader(r), binary.LittleEndian, vol.Data); err != nil {
		return nil, fmt.Errorf("failed to read %dx%dx%d raw volume: %w", width, height, depth, err)
	}
	return vol, nil
}

// WriteRaw writes the voxels of vol to w.
func WriteRaw(w io.Writer, vol *models.Volume) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, vol.Data); err != nil {
		return fmt.Errorf("failed to write raw volume: %w", err)
	}
	return bw.Flush()
}

// LoadRaw reads a raw volume file.
func LoadRaw(path string, width, height, depth int) (*models.Volume, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	if want := int64(width) * int64(height) * int64(depth) * 4; info.Size() != want {
		return nil, fmt.Errorf("%w: %s has %d bytes, %dx%dx%d float32 volume needs %d",
			models.ErrDimensionMismatch, path, info.Size(), width, height, depth, want)
	}

	return ReadRaw(file, width, height, depth)
}

// SaveRaw writes vol to a raw volume file.
func SaveRaw(path string, vol *models.Volume) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := WriteRaw(file, vol); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
