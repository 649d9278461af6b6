package models

import "fmt"

const (
	MinQuality = 0.1
	MaxQuality = 1.0
)

// TransformConfig is applied uniformly to every item of a batch.
type TransformConfig struct {
	MaxWidth  int     `yaml:"max_width"`
	MaxHeight int     `yaml:"max_height"`
	Quality   float64 `yaml:"quality"`
	Format    Format  `yaml:"format"`
}

func (c TransformConfig) Validate() error {
	if c.MaxWidth <= 0 {
		return fmt.Errorf("%w: max width must be positive, got %d", ErrInvalidConfig, c.MaxWidth)
	}
	if c.MaxHeight <= 0 {
		return fmt.Errorf("%w: max height must be positive, got %d", ErrInvalidConfig, c.MaxHeight)
	}
	if c.Quality < MinQuality || c.Quality > MaxQuality {
		return fmt.Errorf("%w: quality must be within [%.1f, %.1f], got %g", ErrInvalidConfig, MinQuality, MaxQuality, c.Quality)
	}
	if !c.Format.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidConfig, ErrUnknownFormat, c.Format)
	}
	return nil
}
