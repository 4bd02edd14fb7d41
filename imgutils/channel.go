package imgutils

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

var ErrUnknownChannel = errors.New("unknown channel")

// Channel selects which part of a color pixel becomes the single-channel value.
type Channel int

const (
	Intensity Channel = iota
	Red
	Green
	Blue
)

func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Intensity:
		return "intensity"
	default:
		return fmt.Sprintf("Channel(%d)", int(c))
	}
}

func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "red":
		return Red, nil
	case "green":
		return Green, nil
	case "blue":
		return Blue, nil
	case "intensity":
		return Intensity, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChannel, s)
}

// Value returns the raw 8-bit value of the channel for c, in [0, 255].
// Intensity is the mean of red, green and blue; alpha is not part of it.
func (c Channel) Value(col color.Color) float64 {
	n := color.NRGBAModel.Convert(col).(color.NRGBA)
	switch c {
	case Red:
		return float64(n.R)
	case Green:
		return float64(n.G)
	case Blue:
		return float64(n.B)
	default:
		return (float64(n.R) + float64(n.G) + float64(n.B)) / 3
	}
}
