package multiscale

import (
	"fmt"
	"math/bits"

	"gonum.org/v1/gonum/mat"
)

// CoarseGrain averages img over disjoint 2^k x 2^k blocks and expands the
// block means back to the full size, so every pixel of a block holds that
// block's mean. The input is not modified.
func CoarseGrain(img mat.Matrix, k int) *mat.Dense {
	r, c := img.Dims()
	if k < 0 || k >= bits.UintSize-1 {
		panic(fmt.Errorf("scale %d out of range", k))
	}

	n := 1 << k
	if r%n != 0 || c%n != 0 {
		panic(fmt.Errorf("block size %d does not divide %dx%d", n, r, c))
	}

	if n == 1 {
		return mat.DenseCopyOf(img)
	}

	means := blockMeans(img, n)

	out := &mat.Dense{}
	out.Kronecker(means, ones(n))
	return out
}

func blockMeans(img mat.Matrix, n int) *mat.Dense {
	r, c := img.Dims()
	src := asSlicer(img)

	area := float64(n * n)
	means := mat.NewDense(r/n, c/n, nil)
	for i := 0; i < r/n; i++ {
		for j := 0; j < c/n; j++ {
			block := src.Slice(i*n, (i+1)*n, j*n, (j+1)*n)
			means.Set(i, j, mat.Sum(block)/area)
		}
	}
	return means
}

type slicer interface {
	mat.Matrix
	Slice(i, k, j, l int) mat.Matrix
}

func asSlicer(m mat.Matrix) slicer {
	if s, ok := m.(slicer); ok {
		return s
	}
	return mat.DenseCopyOf(m)
}

func ones(n int) *mat.Dense {
	data := make([]float64, n*n)
	for i := range data {
		data[i] = 1
	}
	return mat.NewDense(n, n, data)
}
