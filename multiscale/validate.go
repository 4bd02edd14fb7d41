package multiscale

import (
	"math/bits"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrInvalidShape = errors.New("image size is not a power of 2")
	ErrInvalidRange = errors.New("invalid k-range")
)

// Validate checks that img is a square power-of-two array and that
// [kLargerThan, kMax) is a usable scale range for it.
func Validate(img mat.Matrix, kLargerThan, kMax int) error {
	r, c := img.Dims()
	if r != c {
		return errors.Wrapf(ErrInvalidShape, "image is %dx%d, not square", r, c)
	}
	if !IsPowerOfTwo(r) {
		return errors.Wrapf(ErrInvalidShape, "side %d", r)
	}
	return ValidateRange(r, kLargerThan, kMax)
}

// ValidateRange checks a scale range against an image side length n, which
// must already be a power of two.
func ValidateRange(n, kLargerThan, kMax int) error {
	if kLargerThan < 0 {
		return errors.Wrapf(ErrInvalidRange, "kLargerThan %d is too small", kLargerThan)
	}

	// scale k+1 is evaluated for every k < kMax
	if limit := MaxScale(n); kMax > limit {
		return errors.Wrapf(ErrInvalidRange, "kMax %d is too large for size %d (max %d)", kMax, n, limit)
	}

	if kMax <= kLargerThan {
		return errors.Wrapf(ErrInvalidRange, "kMax %d must be larger than kLargerThan %d", kMax, kLargerThan)
	}

	return nil
}

// MaxScale is the largest kMax allowed for an image of side n: log2(n) - 2.
func MaxScale(n int) int {
	return Log2(n) - 2
}

func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Log2 returns floor(log2(n)) for n > 0.
func Log2(n int) int {
	return bits.Len(uint(n)) - 1
}
