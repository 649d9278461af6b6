package converter

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"imageCompressor/compressor/models"
)

// webpMethod trades encode speed for size, 0 (fast) to 6 (small).
const webpMethod = 4

type Decoder interface {
	Decode(ctx context.Context, src models.SourceImage) (image.Image, error)
}

type Resampler interface {
	Resample(img image.Image, width, height int) image.Image
}

type Encoder interface {
	Encode(ctx context.Context, img image.Image, format models.Format, quality float64) ([]byte, error)
}

// ImagingCodec is the default decode/resample/encode path built on imaging.
type ImagingCodec struct {
	Filter imaging.ResampleFilter
}

func NewImagingCodec() *ImagingCodec {
	return &ImagingCodec{Filter: imaging.Lanczos}
}

// Decode applies the EXIF orientation so callers only see corrected pixels.
func (c *ImagingCodec) Decode(_ context.Context, src models.SourceImage) (image.Image, error) {
	if len(src.Data) == 0 {
		return nil, fmt.Errorf("empty source")
	}
	return imaging.Decode(bytes.NewReader(src.Data), imaging.AutoOrientation(true))
}

func (c *ImagingCodec) Resample(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, width, height, c.Filter)
}

func (c *ImagingCodec) Encode(_ context.Context, img image.Image, format models.Format, quality float64) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case models.FormatJPEG:
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(percent(quality))); err != nil {
			return nil, err
		}
	case models.FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, err
		}
	case models.FormatWEBP:
		if err := encodeWebP(&buf, img, quality); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	return buf.Bytes(), nil
}

func encodeWebP(buf *bytes.Buffer, img image.Image, quality float64) error {
	return webp.Encode(buf, img, webp.Options{
		Quality: percent(quality),
		Method:  webpMethod,
	})
}

// percent maps a [0.1, 1.0] quality onto the 1-100 scale encoders expect.
func percent(quality float64) int {
	q := int(math.Round(quality * 100))
	return clamp(q, 1, 100)
}
