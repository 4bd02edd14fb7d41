package imgutils

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"go.viam.com/rdk/rimage"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Normalize converts img to a single channel array with values in [-1, 1]
// using v/128 - 1. Rows follow y and columns follow x.
func Normalize(img image.Image, ch Channel) *mat.Dense {
	bounds := img.Bounds()

	out := mat.NewDense(bounds.Dy(), bounds.Dx(), nil)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := ch.Value(img.At(x, y))
			out.Set(y-bounds.Min.Y, x-bounds.Min.X, v/128-1)
		}
	}

	return out
}

func LoadNormalized(fn string, ch Channel) (*mat.Dense, error) {
	img, err := rimage.ReadImageFromFile(fn)
	if err != nil {
		return nil, fmt.Errorf("cannot read (%s): %w", fn, err)
	}
	return Normalize(img, ch), nil
}

// ChannelAverage is the mean raw channel value of img, in [0, 255].
// An empty image averages to 0.
func ChannelAverage(img image.Image, ch Channel) float64 {
	bounds := img.Bounds()

	totalValue := 0.0
	numPixels := 0.0

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			totalValue += ch.Value(img.At(x, y))
			numPixels++
		}
	}

	if numPixels == 0 {
		return 0
	}

	return totalValue / numPixels
}

// Stats summarizes a normalized array.
func Stats(m mat.Matrix) (lo, hi, mean float64) {
	data := mat.DenseCopyOf(m).RawMatrix().Data
	if len(data) == 0 {
		return 0, 0, 0
	}
	return floats.Min(data), floats.Max(data), stat.Mean(data, nil)
}
