package converter

import "errors"

var (
	ErrDecode  = errors.New("failed to decode image")
	ErrEncode  = errors.New("failed to encode image")
	ErrPreview = errors.New("failed to allocate preview")
)
