package validation

import "errors"

var (
	ErrNotImage          = errors.New("not an image")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
