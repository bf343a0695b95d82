// Package config provides configuration loading and management for sepconv3d.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"sepconv3d/pkg/convolution"
)

// KernelSpec describes how to build one 1D kernel
type KernelSpec struct {
	// Type is one of identity, gaussian, box or explicit
	Type string `yaml:"type"`

	// Sigma is the standard deviation of a gaussian kernel
	Sigma float64 `yaml:"sigma,omitempty"`

	// Radius is the half-width R of the kernel (length 2R+1). Optional for
	// gaussian (derived from sigma) and explicit (derived from weights)
	Radius int `yaml:"radius,omitempty"`

	// Weights are the coefficients of an explicit kernel, in index order
	Weights []float64 `yaml:"weights,omitempty"`
}

// Config represents the application configuration loaded from YAML
type Config struct {
	// Volume parameters
	Volume struct {
		// Width, Height and Depth are the volume dimensions in voxels
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
		Depth  int `yaml:"depth"`

		// Input is a raw little-endian float32 file. Empty selects a phantom
		Input string `yaml:"input"`

		// Output is where the filtered raw volume is written
		Output string `yaml:"output"`

		// Phantom selects the synthetic volume used when Input is empty
		Phantom string `yaml:"phantom"`
	} `yaml:"volume"`

	// Kernels holds one kernel per axis
	Kernels struct {
		X KernelSpec `yaml:"x"`
		Y KernelSpec `yaml:"y"`
		Z KernelSpec `yaml:"z"`
	} `yaml:"kernels"`

	// Boundary parameters
	Boundary struct {
		// Policy selects how out-of-range samples are synthesized
		Policy convolution.BoundaryPolicy `yaml:"policy"`

		// Value is the fill value for the constant policy
		Value float32 `yaml:"value"`
	} `yaml:"boundary"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores the parallel pipeline uses
		NumCores int `yaml:"numCores"`

		// Validate runs the parallel pipeline and compares it to the gold result
		Validate bool `yaml:"validate"`

		// Tolerance is the maximum absolute error accepted by validation
		Tolerance float64 `yaml:"tolerance"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`

		// ExtractSlices saves slices of the filtered volume along all axes
		ExtractSlices bool `yaml:"extractSlices"`

		// SlicesDir is the directory for extracted slices
		SlicesDir string `yaml:"slicesDir"`

		// SliceFormat is the image extension: jpg or tiff
		SliceFormat string `yaml:"sliceFormat"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Volume.Width = 64
	cfg.Volume.Height = 64
	cfg.Volume.Depth = 64
	cfg.Volume.Output = "filtered.raw"
	cfg.Volume.Phantom = "sphere"

	gaussian := KernelSpec{Type: "gaussian", Sigma: 1.0}
	cfg.Kernels.X = gaussian
	cfg.Kernels.Y = gaussian
	cfg.Kernels.Z = gaussian

	cfg.Boundary.Policy = convolution.BoundaryClamp
	cfg.Boundary.Value = 0

	cfg.Processing.NumCores = runtime.NumCPU() // Use all available cores by default
	cfg.Processing.Validate = false
	cfg.Processing.Tolerance = 1e-6

	cfg.Output.Verbose = false
	cfg.Output.ExtractSlices = false
	cfg.Output.SlicesDir = "slices"
	cfg.Output.SliceFormat = "jpg"

	return cfg
}

// Validate checks the configuration for values the pipeline cannot use
func (c *Config) Validate() error {
	var errs []error

	if c.Volume.Width <= 0 || c.Volume.Height <= 0 || c.Volume.Depth <= 0 {
		errs = append(errs, fmt.Errorf("volume dimensions must be positive, got %dx%dx%d",
			c.Volume.Width, c.Volume.Height, c.Volume.Depth))
	}

	for name, spec := range map[string]KernelSpec{"x": c.Kernels.X, "y": c.Kernels.Y, "z": c.Kernels.Z} {
		switch strings.ToLower(spec.Type) {
		case "", "identity", "gaussian", "box", "explicit":
		default:
			errs = append(errs, fmt.Errorf("kernel %s: unknown type %q", name, spec.Type))
		}
		if spec.Radius < 0 {
			errs = append(errs, fmt.Errorf("kernel %s: negative radius %d", name, spec.Radius))
		}
	}

	if c.Processing.Tolerance < 0 {
		errs = append(errs, fmt.Errorf("tolerance must be non-negative, got %g", c.Processing.Tolerance))
	}

	switch strings.ToLower(c.Output.SliceFormat) {
	case "", "jpg", "jpeg", "tif", "tiff":
	default:
		errs = append(errs, fmt.Errorf("unknown slice format %q", c.Output.SliceFormat))
	}

	return errors.Join(errs...)
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
