// Package platform reports the host CPU used to size the parallel pipeline.
//
// Detection runs once and is cached.
package platform

import (
	"runtime"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sys/cpu"
)

// Info describes the host processor.
type Info struct {
	// Arch is runtime.GOARCH
	Arch string

	// NumCPU is the number of logical CPUs usable by the process
	NumCPU int

	// Features lists the detected SIMD extensions, e.g. "avx2" or "asimd"
	Features []string

	// FMA is set when the processor has fused multiply-add instructions.
	// The compiler may contract w*s+sum into one of them, so convolution
	// loops round each product to float32 explicitly.
	FMA bool
}

// String formats the info for log output.
func (i Info) String() string {
	features := "none"
	if len(i.Features) > 0 {
		features = strings.Join(i.Features, ",")
	}
	return i.Arch + " cpus=" + strconv.Itoa(i.NumCPU) + " simd=" + features + " fma=" + strconv.FormatBool(i.FMA)
}

var (
	detectOnce sync.Once
	detected   Info
)

// Detect returns the cached host description.
func Detect() Info {
	detectOnce.Do(func() {
		detected = Info{
			Arch:     runtime.GOARCH,
			NumCPU:   runtime.NumCPU(),
			Features: features(),
			FMA:      hasFMA(),
		}
	})
	return detected
}

// DefaultWorkers returns the worker count used when none is configured.
func DefaultWorkers() int {
	return Detect().NumCPU
}

func features() []string {
	var fs []string
	add := func(ok bool, name string) {
		if ok {
			fs = append(fs, name)
		}
	}

	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE2, "sse2")
		add(cpu.X86.HasSSE41, "sse4.1")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasFPHP, "fphp")
		add(cpu.ARM64.HasSVE, "sve")
	}
	return fs
}

func hasFMA() bool {
	switch runtime.GOARCH {
	case "amd64", "386":
		return cpu.X86.HasFMA
	case "arm64":
		// FMADD is part of the base A64 instruction set
		return true
	case "ppc64", "ppc64le", "s390x", "riscv64":
		return true
	}
	return false
}
