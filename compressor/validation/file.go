package validation

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"imageCompressor/compressor/models"
)

type FileType string

const (
	FileTypePNG  FileType = "png"
	FileTypeJPEG FileType = "jpeg"
	FileTypeGIF  FileType = "gif"
	FileTypeWEBP FileType = "webp"
	FileTypeBMP  FileType = "bmp"
	FileTypeTIFF FileType = "tiff"
)

var magicBytes = []struct {
	fileType  FileType
	signature []byte
}{
	{FileTypePNG, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	{FileTypeJPEG, []byte{0xFF, 0xD8, 0xFF}},
	{FileTypeGIF, []byte{0x47, 0x49, 0x46, 0x38}},
	{FileTypeBMP, []byte{0x42, 0x4D}},
	{FileTypeTIFF, []byte{0x49, 0x49, 0x2A, 0x00}},
	{FileTypeTIFF, []byte{0x4D, 0x4D, 0x00, 0x2A}},
}

// DetectFileType identifies a decodable image format from its leading bytes.
func DetectFileType(data []byte) (FileType, error) {
	if len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")) {
		return FileTypeWEBP, nil
	}

	for _, m := range magicBytes {
		if bytes.HasPrefix(data, m.signature) {
			return m.fileType, nil
		}
	}

	return "", ErrUnsupportedFormat
}

// SniffMediaType reports the media type of data from its content.
func SniffMediaType(data []byte) string {
	return mimetype.Detect(data).String()
}

func IsImageMediaType(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(mediaType), "image/")
}

// CheckSource admits a source only if it carries an image media type,
// declared or sniffed, and a format the decoder understands.
func CheckSource(src models.SourceImage) error {
	mediaType := src.MediaType
	if mediaType == "" {
		mediaType = SniffMediaType(src.Data)
	}
	if !IsImageMediaType(mediaType) {
		return fmt.Errorf("%w: %s has media type %q", ErrNotImage, src.Name, mediaType)
	}

	if _, err := DetectFileType(src.Data); err != nil {
		return fmt.Errorf("%w: %s", err, src.Name)
	}
	return nil
}

type Rejection struct {
	Name string
	Err  error
}

// FilterImages keeps the admissible sources in their original order.
func FilterImages(logger *zap.Logger, sources []models.SourceImage) ([]models.SourceImage, []Rejection) {
	kept := make([]models.SourceImage, 0, len(sources))
	var rejected []Rejection

	for _, src := range sources {
		if err := CheckSource(src); err != nil {
			logger.Info("Skipping non-image input", zap.String("name", src.Name), zap.Error(err))
			rejected = append(rejected, Rejection{Name: src.Name, Err: err})
			continue
		}
		kept = append(kept, src)
	}

	return kept, rejected
}
