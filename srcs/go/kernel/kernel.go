// Package kernel is the per-rank computation of simple-mpi.
package kernel

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

const (
	DefaultBlockSize = 256
	DefaultGridSize  = 10000
)

// InitData fills xs with uniform values in [0, 1).
func InitData(xs []float32, rng *rand.Rand) {
	for i := range xs {
		xs[i] = rng.Float32()
	}
}

// Distance replaces a[i] with the Euclidean distance of (a[i], b[i]) from the origin.
// The work is split into gridSize blocks of blockSize elements, processed by at most NumCPU goroutines.
func Distance(ctx context.Context, a, b []float32, blockSize, gridSize int) error {
	if blockSize <= 0 || gridSize <= 0 {
		return fmt.Errorf("invalid launch configuration: %d blocks of %d", gridSize, blockSize)
	}
	if n := blockSize * gridSize; len(a) != n || len(b) != n {
		return fmt.Errorf("data size mismatch: %d blocks of %d for %d and %d elements", gridSize, blockSize, len(a), len(b))
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := 0; i < gridSize; i++ {
		begin := i * blockSize
		end := begin + blockSize
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			distance(a[begin:end], b[begin:end])
			return nil
		})
	}
	return g.Wait()
}

func distance(a, b []float32) {
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		a[i] = float32(math.Sqrt(x*x + y*y))
	}
}

// Sum adds up xs in float64.
func Sum(xs []float32) float64 {
	return floats.Sum(widen(xs))
}

// Max returns the maximum of xs, it panics if xs is empty.
func Max(xs []float32) float64 {
	return floats.Max(widen(xs))
}

func widen(xs []float32) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = float64(x)
	}
	return ys
}
