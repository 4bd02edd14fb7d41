package sensing

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/components/sensor"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"

	"github.com/erh/complexity"
	"github.com/erh/complexity/imgutils"
	"github.com/erh/complexity/multiscale"
)

var ComplexitySensorModel = complexity.NamespaceFamily.WithModel("structural-complexity")

func init() {
	resource.RegisterComponent(
		sensor.API,
		ComplexitySensorModel,
		resource.Registration[sensor.Sensor, *ComplexitySensorConfig]{
			Constructor: newComplexitySensor,
		})
}

type ComplexitySensorConfig struct {
	Camera  string `json:"camera"`
	Source  string `json:"source,omitempty"`
	Channel string `json:"channel,omitempty"`
	Size    int    `json:"size,omitempty"`
	KMin    int    `json:"k_min,omitempty"`
	KMax    int    `json:"k_max"`
}

func (c *ComplexitySensorConfig) Validate(path string) ([]string, []string, error) {
	if c.Camera == "" {
		return nil, nil, fmt.Errorf("need a camera")
	}

	if c.Channel != "" {
		_, err := imgutils.ParseChannel(c.Channel)
		if err != nil {
			return nil, nil, err
		}
	}

	if c.Size < 0 || (c.Size > 0 && !multiscale.IsPowerOfTwo(c.Size)) {
		return nil, nil, fmt.Errorf("%w: %d", imgutils.ErrInvalidSize, c.Size)
	}

	if c.Size > 0 {
		err := multiscale.ValidateRange(c.Size, c.KMin, c.KMax)
		if err != nil {
			return nil, nil, err
		}
	} else if c.KMax <= c.KMin || c.KMin < 0 {
		return nil, nil, fmt.Errorf("%w: k_min %d k_max %d", multiscale.ErrInvalidRange, c.KMin, c.KMax)
	}

	return []string{c.Camera}, nil, nil
}

func (c *ComplexitySensorConfig) channel() imgutils.Channel {
	ch, err := imgutils.ParseChannel(c.Channel)
	if err != nil {
		return imgutils.Intensity
	}
	return ch
}

func newComplexitySensor(ctx context.Context, deps resource.Dependencies, config resource.Config, logger logging.Logger) (sensor.Sensor, error) {
	newConf, err := resource.NativeConfig[*ComplexitySensorConfig](config)
	if err != nil {
		return nil, err
	}

	cam, err := camera.FromProvider(deps, newConf.Camera)
	if err != nil {
		return nil, err
	}

	return newComplexitySensorFromSource(config.ResourceName(), newConf, logger, cameraFrames(cam, newConf.Source)), nil
}

func newComplexitySensorFromSource(name resource.Name, cfg *ComplexitySensorConfig, logger logging.Logger, frames frameSource) *ComplexitySensor {
	return &ComplexitySensor{
		name:    name,
		cfg:     cfg,
		logger:  logger,
		channel: cfg.channel(),
		frames:  frames,
	}
}

type ComplexitySensor struct {
	resource.AlwaysRebuild
	resource.TriviallyCloseable

	name   resource.Name
	cfg    *ComplexitySensorConfig
	logger logging.Logger

	channel imgutils.Channel
	frames  frameSource
}

func (cs *ComplexitySensor) Name() resource.Name {
	return cs.name
}

func (cs *ComplexitySensor) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	if cmd["cfg"] == true {
		return map[string]interface{}{
			"camera":  cs.cfg.Camera,
			"source":  cs.cfg.Source,
			"channel": cs.channel.String(),
			"size":    cs.cfg.Size,
			"k_min":   cs.cfg.KMin,
			"k_max":   cs.cfg.KMax,
		}, nil
	}
	return nil, fmt.Errorf("unknown command %v", cmd)
}

func (cs *ComplexitySensor) Readings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error) {
	kMin, err := intFromExtra(extra, "k_min", cs.cfg.KMin)
	if err != nil {
		return nil, err
	}
	kMax, err := intFromExtra(extra, "k_max", cs.cfg.KMax)
	if err != nil {
		return nil, err
	}

	img, err := cs.frames(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	square, err := imgutils.FitSquare(img, cs.cfg.Size)
	if err != nil {
		return nil, err
	}

	arr := imgutils.Normalize(square, cs.channel)
	terms, err := multiscale.Profile(arr, kMin, kMax)
	if err != nil {
		return nil, err
	}

	elapsed := time.Since(start)
	if elapsed > (time.Millisecond * 100) {
		cs.logger.Infof("structural complexity took %v", elapsed)
	}

	total := 0.0
	perScale := make([]interface{}, len(terms))
	for i, t := range terms {
		total += t
		perScale[i] = t
	}

	n, _ := arr.Dims()
	cs.logger.Debugf("complexity %0.6f size %d k [%d,%d)", total, n, kMin, kMax)

	return map[string]interface{}{
		"complexity": total,
		"per_scale":  perScale,
		"size":       n,
		"k_min":      kMin,
		"k_max":      kMax,
	}, nil
}

func intFromExtra(extra map[string]interface{}, key string, def int) (int, error) {
	v, ok := extra[key]
	if !ok {
		return def, nil
	}
	switch x := v.(type) {
	case int:
		return x, nil
	case float64:
		if x != float64(int(x)) {
			return 0, fmt.Errorf("%s must be an integer, got %v", key, x)
		}
		return int(x), nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, v)
	}
}

type frameSource func(ctx context.Context) (image.Image, error)

func cameraFrames(cam camera.Camera, source string) frameSource {
	return func(ctx context.Context) (image.Image, error) {
		return GrabImage(ctx, cam, source)
	}
}

// GrabImage returns the image named source from cam, or the first image when source is empty.
func GrabImage(ctx context.Context, cam camera.Camera, source string) (image.Image, error) {
	var filter []string
	if source != "" {
		filter = []string{source}
	}

	imgs, _, err := cam.Images(ctx, filter, nil)
	if err != nil {
		return nil, err
	}

	for _, i := range imgs {
		if source != "" && i.SourceName != source {
			continue
		}
		return i.Image(ctx)
	}

	if source != "" {
		return nil, fmt.Errorf("camera %s returned no image for source %q", cam.Name().ShortName(), source)
	}
	return nil, fmt.Errorf("camera %s returned no images", cam.Name().ShortName())
}
