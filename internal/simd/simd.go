// Package simd provides dot-product and cosine-similarity kernels for
// float32 embedding vectors. Hardware capabilities are detected at package
// init so callers (and diagnostics) can report what the running machine
// could accelerate, but every kernel currently executes through the
// portable Go implementation; no architecture-specific kernels are linked
// in this build.
package simd

import (
	"math"
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

var (
	avx2 = cpuid.CPU.Supports(cpuid.AVX2) && cpuid.CPU.Supports(cpuid.FMA3)
	neon = runtime.GOARCH == "arm64" && cpuid.CPU.Supports(cpuid.SVE)
	apple = runtime.GOARCH == "arm64" && runtime.GOOS == "darwin"
)

// HardwareAccelerated reports whether the running CPU has a feature set
// (AVX2+FMA3, Apple Silicon, or NEON+SVE) that an assembly kernel could
// target. The generic kernels below are used regardless.
func HardwareAccelerated() bool {
	return avx2 || neon || apple
}

// DotProduct computes the dot product of two equal-length vectors.
func DotProduct(dst *float64, a, b []float32) {
	if len(a) != len(b) {
		panic("simd: vectors must be of same length")
	}
	if len(a) == 0 {
		*dst = 0
		return
	}
	*dst = genericDotProduct(a, b)
}

// Cosine computes the cosine similarity of two equal-length vectors.
func Cosine(dst *float64, a, b []float32) {
	if len(a) != len(b) {
		panic("simd: vectors must be of same length")
	}
	if len(a) == 0 {
		*dst = 0
		return
	}
	*dst = genericCosine(a, b)
}

func genericDotProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func genericCosine(a, b []float32) float64 {
	var sumXY, sumXX, sumYY float64
	for i := range a {
		sumXY += float64(a[i]) * float64(b[i])
		sumXX += float64(a[i]) * float64(a[i])
		sumYY += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(sumXX) * math.Sqrt(sumYY)
	if denom == 0 {
		return 0
	}
	return sumXY / denom
}
