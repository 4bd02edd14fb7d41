package imgutils

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/nfnt/resize"
)

var ErrInvalidSize = errors.New("size must be a power of 2")

// FitSquare center-crops img to a square and resizes it to size x size.
// A size of 0 picks the largest power of two that fits in the square.
func FitSquare(img image.Image, size int) (image.Image, error) {
	bounds := img.Bounds()

	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	if side <= 0 {
		return nil, fmt.Errorf("empty image %v", bounds)
	}

	if size == 0 {
		size = 1
		for size*2 <= side {
			size *= 2
		}
	}
	if size < 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	x0 := bounds.Min.X + (bounds.Dx()-side)/2
	y0 := bounds.Min.Y + (bounds.Dy()-side)/2
	square := crop(img, image.Rect(x0, y0, x0+side, y0+side))

	if side == size {
		return square, nil
	}

	return resize.Resize(uint(size), uint(size), square, resize.Bilinear), nil
}

type subImager interface {
	SubImage(r image.Rectangle) image.Image
}

func crop(img image.Image, r image.Rectangle) image.Image {
	if r == img.Bounds() {
		return img
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(r)
	}

	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}
