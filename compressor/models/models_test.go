package models

import (
	"errors"
	"testing"
	"time"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"jpg":        FormatJPEG,
		"JPEG":       FormatJPEG,
		"image/jpeg": FormatJPEG,
		"webp":       FormatWEBP,
		"image/webp": FormatWEBP,
		" png ":      FormatPNG,
		"image/png":  FormatPNG,
	}

	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil {
			t.Fatalf("ParseFormat(%q) failed: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseFormat(%q) = %q, expected %q", in, got, want)
		}
	}

	if _, err := ParseFormat("avif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Expected ErrUnknownFormat, got %v", err)
	}
}

func TestFormat_Extension(t *testing.T) {
	if FormatJPEG.Extension() != "jpg" {
		t.Errorf("Expected jpg, got %s", FormatJPEG.Extension())
	}
	if FormatWEBP.Extension() != "webp" {
		t.Errorf("Expected webp, got %s", FormatWEBP.Extension())
	}
	if FormatPNG.Extension() != "png" {
		t.Errorf("Expected png, got %s", FormatPNG.Extension())
	}
}

func TestTransformConfig_Validate(t *testing.T) {
	valid := TransformConfig{MaxWidth: 1600, MaxHeight: 900, Quality: 0.78, Format: FormatWEBP}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}

	invalid := []TransformConfig{
		{MaxWidth: 0, MaxHeight: 900, Quality: 0.78, Format: FormatWEBP},
		{MaxWidth: 1600, MaxHeight: -1, Quality: 0.78, Format: FormatWEBP},
		{MaxWidth: 1600, MaxHeight: 900, Quality: 0.05, Format: FormatWEBP},
		{MaxWidth: 1600, MaxHeight: 900, Quality: 1.2, Format: FormatWEBP},
		{MaxWidth: 1600, MaxHeight: 900, Quality: 0.78, Format: "gif"},
	}
	for _, cfg := range invalid {
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig for %+v, got %v", cfg, err)
		}
	}
}

func TestTransformResult_SavedPercent(t *testing.T) {
	r := TransformResult{OriginalSize: 1000, NewSize: 250}
	if r.SavedPercent() != 75 {
		t.Errorf("Expected 75, got %d", r.SavedPercent())
	}

	grown := TransformResult{OriginalSize: 100, NewSize: 150}
	if grown.SavedPercent() != 0 {
		t.Errorf("Expected 0 for grown output, got %d", grown.SavedPercent())
	}
}

func TestBatchProgress_ETA(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	p := BatchProgress{Completed: 0, Total: 10, StartedAt: start}
	if _, ok := p.ETA(start.Add(5 * time.Second)); ok {
		t.Error("Expected no ETA before the first item completes")
	}

	p.Completed = 2
	eta, ok := p.ETA(start.Add(4 * time.Second))
	if !ok {
		t.Fatal("Expected ETA after two items")
	}
	if eta != 16*time.Second {
		t.Errorf("Expected 16s, got %v", eta)
	}

	// elapsed is floored to one second
	p = BatchProgress{Completed: 1, Total: 3, StartedAt: start}
	eta, _ = p.ETA(start.Add(100 * time.Millisecond))
	if eta != 2*time.Second {
		t.Errorf("Expected 2s with elapsed floor, got %v", eta)
	}

	p = BatchProgress{Completed: 3, Total: 3, StartedAt: start}
	eta, _ = p.ETA(start.Add(3 * time.Second))
	if eta != time.Second {
		t.Errorf("Expected 1s minimum, got %v", eta)
	}
}

func TestBatchProgress_Percent(t *testing.T) {
	if (BatchProgress{}).Percent() != 0 {
		t.Error("Expected 0 for empty progress")
	}
	if (BatchProgress{Completed: 1, Total: 3}).Percent() != 33 {
		t.Error("Expected 33")
	}
}
