package converter

import (
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"

	"imageCompressor/compressor/models"
	"imageCompressor/compressor/preview"
)

type Converter struct {
	logger    *zap.Logger
	previews  preview.Store
	decoder   Decoder
	resampler Resampler
	primary   Encoder
	fallback  Encoder
}

type Option func(*Converter)

func WithDecoder(d Decoder) Option {
	return func(c *Converter) { c.decoder = d }
}

func WithResampler(r Resampler) Option {
	return func(c *Converter) { c.resampler = r }
}

// WithEncoders replaces the primary and fallback encode paths. A nil
// fallback disables the second attempt.
func WithEncoders(primary, fallback Encoder) Option {
	return func(c *Converter) {
		c.primary = primary
		c.fallback = fallback
	}
}

func NewConverter(logger *zap.Logger, previews preview.Store, opts ...Option) *Converter {
	codec := NewImagingCodec()
	c := &Converter{
		logger:    logger,
		previews:  previews,
		decoder:   codec,
		resampler: codec,
		primary:   codec,
		fallback:  DataURLEncoder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transform decodes src, fits it into the configured bounds, re-encodes it
// and allocates a preview handle for the artifact.
func (c *Converter) Transform(ctx context.Context, src models.SourceImage, cfg models.TransformConfig) (*models.TransformResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c.logger.Debug("Starting conversion",
		zap.String("name", src.Name),
		zap.Int64("size", src.Size),
		zap.String("format", cfg.Format.String()),
	)

	img, err := c.decoder.Decode(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrDecode, src.Name, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("%w %q: empty bounds %v", ErrDecode, src.Name, bounds)
	}

	width, height := Fit(bounds.Dx(), bounds.Dy(), cfg.MaxWidth, cfg.MaxHeight)

	c.logger.Debug("Resizing image",
		zap.String("name", src.Name),
		zap.Int("source_width", bounds.Dx()),
		zap.Int("source_height", bounds.Dy()),
		zap.Int("width", width),
		zap.Int("height", height),
	)

	resized := c.resampler.Resample(img, width, height)

	data, err := c.encode(ctx, src.Name, resized, cfg)
	if err != nil {
		return nil, err
	}

	name := DeriveName(src.Name, width, height, cfg.Format)
	handle, err := c.previews.Create(ctx, preview.Artifact{
		Name:      name,
		MediaType: cfg.Format.MIMEType(),
		Data:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("%w for %q: %w", ErrPreview, name, err)
	}

	c.logger.Info("Conversion completed",
		zap.String("name", name),
		zap.Int64("original_size", src.Size),
		zap.Int("new_size", len(data)),
	)

	return &models.TransformResult{
		Name:         name,
		Data:         data,
		Preview:      handle,
		OriginalSize: src.Size,
		NewSize:      int64(len(data)),
		Width:        width,
		Height:       height,
		Format:       cfg.Format,
	}, nil
}

func (c *Converter) encode(ctx context.Context, name string, img image.Image, cfg models.TransformConfig) ([]byte, error) {
	data, err := c.primary.Encode(ctx, img, cfg.Format, cfg.Quality)
	if err == nil && len(data) > 0 {
		return data, nil
	}

	c.logger.Warn("Primary encode produced no output, trying fallback",
		zap.String("name", name),
		zap.String("format", cfg.Format.String()),
		zap.Error(err),
	)

	if c.fallback == nil {
		return nil, fmt.Errorf("%w %q: no output", ErrEncode, name)
	}

	data, fallbackErr := c.fallback.Encode(ctx, img, cfg.Format, cfg.Quality)
	if fallbackErr != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrEncode, name, fallbackErr)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w %q: no output", ErrEncode, name)
	}
	return data, nil
}
