package segment

import "fmt"

// Config holds the tunable parameters of every pipeline stage.
//
// A Config is passed by value into each stage call; nothing in this package
// keeps parameters in package-level state.
type Config struct {
	// BlurKernel is the side of the box-average filter applied before
	// thresholding.
	BlurKernel int `yaml:"blur_kernel" json:"blur_kernel"`

	// Cutoff is the threshold on the 0-255 gray scale. Pixels at or below
	// it become ink.
	Cutoff uint8 `yaml:"cutoff" json:"cutoff"`

	// ErodeRadius is the radius of the erosion structuring element.
	ErodeRadius int `yaml:"erode_radius" json:"erode_radius"`

	// DilateRadius is the radius of the dilation structuring element.
	DilateRadius int `yaml:"dilate_radius" json:"dilate_radius"`

	// Dilate is the default for the shouldDilate argument of Segment
	// callers that take their settings from a config file.
	Dilate bool `yaml:"dilate" json:"dilate"`

	// Epsilon is the polygon approximation tolerance in pixels.
	Epsilon float64 `yaml:"epsilon" json:"epsilon"`

	// Pad is the uniform padding added around a box before cropping.
	Pad int `yaml:"pad" json:"pad"`

	// TileSize is the side of every output tile.
	TileSize int `yaml:"tile_size" json:"tile_size"`

	// Workers bounds per-box tile extraction in Segment. Zero means
	// GOMAXPROCS.
	Workers int `yaml:"workers" json:"workers"`
}

// Default parameter values.
const (
	DefaultBlurKernel   = 4
	DefaultCutoff       = 200
	DefaultErodeRadius  = 2
	DefaultDilateRadius = 2
	DefaultEpsilon      = 3.0
	DefaultPad          = 4
	DefaultTileSize     = 32
)

// DefaultConfig returns the parameters tuned for dark text on a light page.
func DefaultConfig() Config {
	return Config{
		BlurKernel:   DefaultBlurKernel,
		Cutoff:       DefaultCutoff,
		ErodeRadius:  DefaultErodeRadius,
		DilateRadius: DefaultDilateRadius,
		Epsilon:      DefaultEpsilon,
		Pad:          DefaultPad,
		TileSize:     DefaultTileSize,
	}
}

// Validate reports the first parameter that no stage can work with.
func (c Config) Validate() error {
	switch {
	case c.BlurKernel < 1:
		return fmt.Errorf("blur kernel must be at least 1, got %d", c.BlurKernel)
	case c.ErodeRadius < 0:
		return fmt.Errorf("erode radius must not be negative, got %d", c.ErodeRadius)
	case c.DilateRadius < 0:
		return fmt.Errorf("dilate radius must not be negative, got %d", c.DilateRadius)
	case c.Epsilon < 0:
		return fmt.Errorf("epsilon must not be negative, got %g", c.Epsilon)
	case c.Pad < 0:
		return fmt.Errorf("pad must not be negative, got %d", c.Pad)
	case c.TileSize < 1:
		return fmt.Errorf("tile size must be at least 1, got %d", c.TileSize)
	case c.Workers < 0:
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}
