package converter

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"imageCompressor/compressor/models"
)

var (
	errMalformedDataURL = errors.New("malformed data url")
	// ErrNoSecondaryWebP is returned by the fallback path for WEBP, which
	// has a single encoder.
	ErrNoSecondaryWebP = errors.New("no secondary webp encoder")
)

// DataURLEncoder is the secondary encode path. It writes the image as a
// base64 data URL with the stdlib encoders and parses the URL back into
// bytes, which also verifies the payload round-trips.
type DataURLEncoder struct{}

func (DataURLEncoder) Encode(_ context.Context, img image.Image, format models.Format, quality float64) ([]byte, error) {
	url, err := EncodeDataURL(img, format, quality)
	if err != nil {
		return nil, err
	}

	data, _, err := ParseDataURL(url)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func EncodeDataURL(img image.Image, format models.Format, quality float64) (string, error) {
	var sb strings.Builder
	sb.WriteString("data:")
	sb.WriteString(format.MIMEType())
	sb.WriteString(";base64,")

	enc := base64.NewEncoder(base64.StdEncoding, &sb)
	if err := encodeStd(enc, img, format, quality); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("finalise base64 encoding: %w", err)
	}

	return sb.String(), nil
}

// ParseDataURL decodes a base64 data URL into its payload and media type.
func ParseDataURL(url string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(url, ",")
	if !ok || !strings.HasPrefix(header, "data:") {
		return nil, "", errMalformedDataURL
	}

	mediaType, encoding, _ := strings.Cut(strings.TrimPrefix(header, "data:"), ";")
	if encoding != "base64" {
		return nil, "", fmt.Errorf("%w: unsupported encoding %q", errMalformedDataURL, encoding)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}
	return data, mediaType, nil
}

func encodeStd(w io.Writer, img image.Image, format models.Format, quality float64) error {
	switch format {
	case models.FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: percent(quality)})
	case models.FormatPNG:
		return png.Encode(w, img)
	case models.FormatWEBP:
		return ErrNoSecondaryWebP
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
