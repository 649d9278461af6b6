package models

import (
	"fmt"
	"strings"
)

type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatWEBP Format = "webp"
	FormatPNG  Format = "png"
)

// Formats lists the supported output formats in display order.
var Formats = []Format{FormatWEBP, FormatJPEG, FormatPNG}

// ParseFormat accepts a short name or a MIME type, case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpg", "jpeg", "image/jpeg":
		return FormatJPEG, nil
	case "webp", "image/webp":
		return FormatWEBP, nil
	case "png", "image/png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

func (f Format) Valid() bool {
	switch f {
	case FormatJPEG, FormatWEBP, FormatPNG:
		return true
	default:
		return false
	}
}

// Extension returns the canonical file extension without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatWEBP:
		return "webp"
	default:
		return "jpg"
	}
}

func (f Format) MIMEType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatWEBP:
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func (f Format) String() string {
	return string(f)
}
