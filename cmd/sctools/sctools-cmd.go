package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/rimage"
	"gonum.org/v1/gonum/mat"

	"github.com/erh/complexity"
	"github.com/erh/complexity/imgutils"
	"github.com/erh/complexity/multiscale"
	"github.com/erh/complexity/sensing"
)

func main() {
	err := realMain()
	if err != nil {
		panic(err)
	}
}

func realMain() error {
	logger := logging.NewLogger("sctools")
	ctx := context.Background()

	host := flag.String("host", "", "hostname")
	apiKeyID := flag.String("api-key-id", "", "api key id, uses the viam cli token if empty")
	apiKey := flag.String("api-key", "", "api key")
	cmd := flag.String("cmd", "", "command: compute, profile, stats, download, camera")
	cameraName := flag.String("camera", "", "camera to use")
	sourceName := flag.String("source", "", "image source name on the camera")
	out := flag.String("out", "", "output file")
	in := flag.String("in", "", "input file")
	channelName := flag.String("channel", "intensity", "red, green, blue or intensity")
	kMin := flag.Int("k-min", 0, "smallest scale index")
	kMax := flag.Int("k-max", -1, "scale index upper bound, negative means log2(size)-2")
	fit := flag.Bool("fit", false, "center crop and resize to a power of 2 square")
	size := flag.Int("size", 0, "side length used with -fit, 0 picks the largest power of 2")

	flag.Parse()

	if *cmd == "" {
		return fmt.Errorf("need a cmd")
	}

	channel, err := imgutils.ParseChannel(*channelName)
	if err != nil {
		return err
	}

	prep := func(img image.Image, fitSquare bool) (*mat.Dense, error) {
		if fitSquare {
			square, err := imgutils.FitSquare(img, *size)
			if err != nil {
				return nil, err
			}
			img = square
		}
		return imgutils.Normalize(img, channel), nil
	}

	if *cmd == "compute" || *cmd == "profile" || *cmd == "stats" {
		if *in == "" {
			return fmt.Errorf("need an 'in'")
		}

		img, err := rimage.ReadImageFromFile(*in)
		if err != nil {
			return err
		}

		if *cmd == "stats" {
			lo, hi, mean := imgutils.Stats(imgutils.Normalize(img, channel))
			logger.Infof("size: %v %s mean: %0.3f", img.Bounds().Size(), channel, imgutils.ChannelAverage(img, channel))
			logger.Infof("normalized min: %0.4f max: %0.4f mean: %0.4f", lo, hi, mean)
			return nil
		}

		arr, err := prep(img, *fit)
		if err != nil {
			return err
		}

		return compute(logger, arr, *kMin, *kMax, *cmd == "profile")
	}

	if *cmd == "download" || *cmd == "camera" {
		machine, err := complexity.ConnectFromFlags(ctx, logger, *host, *apiKeyID, *apiKey)
		if err != nil {
			return err
		}
		defer machine.Close(ctx)

		myCamera, err := camera.FromRobot(machine, *cameraName)
		if err != nil {
			return err
		}

		img, err := sensing.GrabImage(ctx, myCamera, *sourceName)
		if err != nil {
			return err
		}

		if *cmd == "download" {
			if *out == "" {
				return fmt.Errorf("need an 'out'")
			}
			return writeImageToFile(*out, img)
		}

		// camera frames are rarely square
		arr, err := prep(img, true)
		if err != nil {
			return err
		}

		return compute(logger, arr, *kMin, *kMax, true)
	}

	return fmt.Errorf("invalid command [%s]", *cmd)

}

func compute(logger logging.Logger, arr *mat.Dense, kMin, kMax int, verbose bool) error {
	n, _ := arr.Dims()
	if kMax < 0 {
		kMax = multiscale.MaxScale(n)
	}

	terms, err := multiscale.Profile(arr, kMin, kMax)
	if err != nil {
		return err
	}

	total := 0.0
	for idx, t := range terms {
		total += t
		if verbose {
			logger.Infof("k: %d C_lambda: %0.6f", kMin+idx, t)
		}
	}

	logger.Infof("size: %d k: [%d,%d) complexity: %0.6f", n, kMin, kMax, total)
	return nil
}

func writeImageToFile(fn string, img image.Image) error {
	f, err := os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	err = png.Encode(f, img)
	if err != nil {
		return fmt.Errorf("cannot write (%s): %w", fn, err)
	}
	return nil
}
