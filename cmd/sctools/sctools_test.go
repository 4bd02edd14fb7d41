package main

import (
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/rimage"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/erh/complexity/multiscale"
)

func TestCompute(t *testing.T) {
	logger := logging.NewTestLogger(t)

	arr := mat.NewDense(16, 16, nil)
	test.That(t, compute(logger, arr, 0, -1, true), test.ShouldBeNil)
	test.That(t, compute(logger, arr, 0, 1, false), test.ShouldBeNil)

	err := compute(logger, arr, 0, 3, false)
	test.That(t, errors.Is(err, multiscale.ErrInvalidRange), test.ShouldBeTrue)

	err = compute(logger, mat.NewDense(12, 12, nil), 0, 1, false)
	test.That(t, errors.Is(err, multiscale.ErrInvalidShape), test.ShouldBeTrue)
}

func TestWriteImageToFile(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 2, color.NRGBA{R: 255, A: 255})

	fn := filepath.Join(t.TempDir(), "frame.png")
	test.That(t, writeImageToFile(fn, img), test.ShouldBeNil)

	back, err := rimage.ReadImageFromFile(fn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back.Bounds().Dx(), test.ShouldEqual, 4)
}
