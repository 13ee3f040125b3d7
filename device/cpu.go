// Package device provides the compute devices blocks are moved to before
// the model consumes them. The device is bound once at startup and shared
// for the whole run.
package device

import (
	"log"

	"github.com/klauspost/cpuid/v2"

	"github.com/kiyomaro927/segnmt/batch"
)

type cpuDevice struct{}

// CPU returns the host device. Moving a block to it is a no-op; the block is
// already resident. The detected SIMD level is logged once, since the model
// backend can size its vector paths off the same capability set.
func CPU() batch.Device {
	level := "scalar"
	if cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ) {
		level = "avx512"
	} else if cpuid.CPU.Supports(cpuid.AVX2) {
		level = "avx2"
	}
	log.Printf("device: cpu %q (%s)", cpuid.CPU.BrandName, level)
	return cpuDevice{}
}

func (cpuDevice) Name() string { return "cpu" }

func (cpuDevice) Move(b *batch.Block) (*batch.Block, error) {
	return b, nil
}
