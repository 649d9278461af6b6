package config

import (
	"errors"
	"fmt"
	"strings"

	"imageCompressor/compressor/models"
)

const (
	PresetCustom  = "custom"
	PresetDefault = "website"
)

var ErrUnknownPreset = errors.New("unknown preset")

type Preset struct {
	Key    string
	Label  string
	Config models.TransformConfig
}

// Presets sets all four transform fields at once.
var Presets = []Preset{
	{Key: "instagram", Label: "Instagram", Config: models.TransformConfig{MaxWidth: 1080, MaxHeight: 1350, Quality: 0.82, Format: models.FormatJPEG}},
	{Key: "whatsapp", Label: "WhatsApp", Config: models.TransformConfig{MaxWidth: 1280, MaxHeight: 1280, Quality: 0.80, Format: models.FormatWEBP}},
	{Key: "shopify", Label: "Shopify", Config: models.TransformConfig{MaxWidth: 2048, MaxHeight: 2048, Quality: 0.85, Format: models.FormatWEBP}},
	{Key: "website", Label: "Website", Config: models.TransformConfig{MaxWidth: 1600, MaxHeight: 900, Quality: 0.78, Format: models.FormatWEBP}},
}

func LookupPreset(key string) (Preset, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, p := range Presets {
		if p.Key == key {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, key)
}
