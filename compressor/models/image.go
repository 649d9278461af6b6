package models

import "math"

// PreviewHandle is a revocable reference to an encoded artifact.
type PreviewHandle string

// SourceImage is owned by the caller and never mutated by the pipeline.
type SourceImage struct {
	Name      string
	MediaType string
	Size      int64
	Data      []byte
}

func NewSourceImage(name, mediaType string, data []byte) SourceImage {
	return SourceImage{
		Name:      name,
		MediaType: mediaType,
		Size:      int64(len(data)),
		Data:      data,
	}
}

type TransformResult struct {
	Name         string        `yaml:"name"`
	Data         []byte        `yaml:"-"`
	Preview      PreviewHandle `yaml:"-"`
	OriginalSize int64         `yaml:"original_size"`
	NewSize      int64         `yaml:"new_size"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	Format       Format        `yaml:"format"`
}

// SavedPercent is the size reduction in whole percent, never negative.
func (r TransformResult) SavedPercent() int {
	if r.OriginalSize <= 0 {
		return 0
	}
	p := math.Round((1 - float64(r.NewSize)/float64(r.OriginalSize)) * 100)
	if p < 0 {
		return 0
	}
	return int(p)
}
