// Package palette generates random color lists from an explicit source of
// randomness, so the same seed always yields the same colors.
package palette

import (
	"image/color"
	"math/rand/v2"
)

// Shade channel range, inclusive of Lo and exclusive of Hi.
const (
	Lo = 100
	Hi = 255
)

// Shades returns n opaque purple/magenta colors: red and blue are drawn
// independently from [Lo, Hi) and green is always zero.
func Shades(rng *rand.Rand, n int) []color.RGBA {
	shades := make([]color.RGBA, max(n, 0))
	for i := range shades {
		shades[i] = color.RGBA{
			R: uint8(Lo + rng.IntN(Hi-Lo)),
			G: 0,
			B: uint8(Lo + rng.IntN(Hi-Lo)),
			A: 255,
		}
	}
	return shades
}

// NewRand returns a deterministic generator for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
