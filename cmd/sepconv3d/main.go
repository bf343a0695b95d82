package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"sepconv3d/internal/models"
	"sepconv3d/internal/platform"
	"sepconv3d/pkg/config"
	"sepconv3d/pkg/convolution"
	"sepconv3d/pkg/kernels"
	"sepconv3d/pkg/validation"
	"sepconv3d/pkg/visualization"
	"sepconv3d/pkg/volumeio"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "sepconv3d.yaml", "YAML configuration file (defaults are used if missing)")
	writeConfig := flag.String("write-config", "", "Write the effective configuration to this path and exit")
	input := flag.String("input", "", "Raw little-endian float32 input volume (empty: generate a phantom)")
	output := flag.String("output", "", "Raw output volume path")
	width := flag.Int("width", 0, "Volume width in voxels")
	height := flag.Int("height", 0, "Volume height in voxels")
	depth := flag.Int("depth", 0, "Volume depth in voxels")
	phantom := flag.String("phantom", "", "Synthetic input: sphere, ramp or random")
	boundary := flag.String("boundary", "", "Boundary policy: constant, clamp, ignore or a raw integer code")
	boundaryValue := flag.Float64("boundary-value", 0, "Fill value for the constant boundary policy")
	numCores := flag.Int("cores", 0, "Workers for the parallel pipeline (default: all available)")
	validate := flag.Bool("validate", false, "Run the parallel pipeline and compare it against the gold result")
	tolerance := flag.Float64("tolerance", 0, "Maximum absolute error accepted by -validate")
	extractSlices := flag.Bool("extract-slices", false, "Save slices of the filtered volume along all axes")
	slicesDir := flag.String("slices-dir", "", "Directory to save extracted slices")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Explicitly set flags override the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Volume.Input = *input
		case "output":
			cfg.Volume.Output = *output
		case "width":
			cfg.Volume.Width = *width
		case "height":
			cfg.Volume.Height = *height
		case "depth":
			cfg.Volume.Depth = *depth
		case "phantom":
			cfg.Volume.Phantom = *phantom
		case "boundary":
			policy, perr := convolution.ParseBoundaryPolicy(*boundary)
			if perr != nil {
				log.Fatalf("Invalid -boundary: %v", perr)
			}
			cfg.Boundary.Policy = policy
		case "boundary-value":
			cfg.Boundary.Value = float32(*boundaryValue)
		case "cores":
			cfg.Processing.NumCores = *numCores
		case "validate":
			cfg.Processing.Validate = *validate
		case "tolerance":
			cfg.Processing.Tolerance = *tolerance
		case "extract-slices":
			cfg.Output.ExtractSlices = *extractSlices
		case "slices-dir":
			cfg.Output.SlicesDir = *slicesDir
		case "verbose":
			cfg.Output.Verbose = *verbose
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if *writeConfig != "" {
		if err := config.SaveConfig(cfg, *writeConfig); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Configuration written to: %s\n", *writeConfig)
		return
	}

	level := slog.LevelInfo
	if cfg.Output.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	convolution.SetLogger(logger)

	if cfg.Processing.NumCores <= 0 {
		cfg.Processing.NumCores = platform.DefaultWorkers()
	}
	logger.Debug("host", "platform", platform.Detect().String())

	fmt.Println("================================")
	fmt.Println("SEPARABLE 3D CONVOLUTION (GOLD REFERENCE)")
	fmt.Println("================================")
	fmt.Println(hostSummary(platform.Detect()))

	kx, ky, kz, err := kernels.FromConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to build kernels: %v", err)
	}
	fmt.Printf("Kernel radii: x=%d y=%d z=%d\n", kx.Radius(), ky.Radius(), kz.Radius())
	if policy := cfg.Boundary.Policy; !policy.IsKnown() {
		logger.Warn("unrecognized boundary policy; out-of-range terms are omitted", "policy", int(policy))
	}
	for _, w := range kernelWarnings(kx, ky, kz, cfg.Boundary.Policy) {
		logger.Warn(w, "policy", cfg.Boundary.Policy.String(), "value", cfg.Boundary.Value)
	}

	vol, err := loadVolume(cfg)
	if err != nil {
		log.Fatalf("Failed to load volume: %v", err)
	}
	fmt.Printf("Volume: %dx%dx%d (%d voxels)\n", vol.Width, vol.Height, vol.Depth, vol.Len())

	var candidate *models.Volume
	if cfg.Processing.Validate {
		candidate = vol.Clone()
	}

	// Gold pipeline
	startTime := time.Now()
	if err := convolution.Separable(vol, kx, ky, kz, cfg.Boundary.Policy, cfg.Boundary.Value); err != nil {
		log.Fatalf("Convolution failed: %v", err)
	}
	fmt.Printf("Gold convolution completed in %.3f seconds\n", time.Since(startTime).Seconds())

	failed := false
	if candidate != nil {
		pipeline := convolution.NewPipeline(cfg.Processing.NumCores)
		startTime = time.Now()
		if err := pipeline.Run(context.Background(), candidate, kx, ky, kz, cfg.Boundary.Policy, cfg.Boundary.Value); err != nil {
			log.Fatalf("Parallel convolution failed: %v", err)
		}
		fmt.Printf("Parallel convolution (%d workers) completed in %.3f seconds\n",
			pipeline.Workers, time.Since(startTime).Seconds())

		metrics, err := validation.Compare(vol, candidate)
		if err != nil {
			log.Fatalf("Validation failed: %v", err)
		}
		fmt.Printf("\nValidation against gold: %s\n", metrics)
		if !metrics.Within(cfg.Processing.Tolerance) {
			fmt.Printf("FAILED: max error %.3g exceeds tolerance %.3g\n", metrics.MaxAbsError, cfg.Processing.Tolerance)
			failed = true
		} else {
			fmt.Println("PASSED")
		}
	}

	if cfg.Volume.Output != "" {
		if err := volumeio.SaveRaw(cfg.Volume.Output, vol); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Output volume saved to: %s\n", cfg.Volume.Output)
	}

	if cfg.Output.ExtractSlices {
		fmt.Println("\nExtracting filtered slices along all axes...")
		viewer := visualization.NewViewer(vol, vol.VoxelSize.Z)
		for _, axis := range []string{"x", "y", "z"} {
			axisDir := filepath.Join(cfg.Output.SlicesDir, axis)
			fmt.Printf("Saving %s-axis slices to: %s\n", axis, axisDir)
			if err := viewer.SaveSliceSequence(axis, axisDir, cfg.Output.SliceFormat); err != nil {
				log.Printf("Warning: Failed to save %s-axis slices: %v", axis, err)
			}
		}
		fmt.Println("Slice extraction completed!")
	}

	if failed {
		os.Exit(1)
	}
}

// loadVolume reads the configured input or generates a phantom
func loadVolume(cfg *config.Config) (*models.Volume, error) {
	if cfg.Volume.Input != "" {
		return volumeio.LoadRaw(cfg.Volume.Input, cfg.Volume.Width, cfg.Volume.Height, cfg.Volume.Depth)
	}
	return volumeio.Phantom(cfg.Volume.Phantom, cfg.Volume.Width, cfg.Volume.Height, cfg.Volume.Depth)
}
