// Package archive saves result sets as individual files or as a single
// zip with a manifest.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"imageCompressor/compressor/models"
	"imageCompressor/compressor/results"
)

const (
	imagesFolder = "images"
	manifestName = "manifest.yaml"
)

var ErrNoResults = errors.New("no results to save")

type Archive struct {
	CreatedAt time.Time
	Config    models.TransformConfig
	Results   []models.TransformResult
}

type manifest struct {
	CreatedAt time.Time              `yaml:"created_at"`
	Config    models.TransformConfig `yaml:"config"`
	Totals    results.Totals         `yaml:"totals"`
	Images    []manifestEntry        `yaml:"images"`
}

type manifestEntry struct {
	Path         string        `yaml:"path"`
	Width        int           `yaml:"width"`
	Height       int           `yaml:"height"`
	Format       models.Format `yaml:"format"`
	OriginalSize int64         `yaml:"original_size"`
	NewSize      int64         `yaml:"new_size"`
}

// FileName returns the archive name for a batch saved at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("compressed-%d.zip", t.UnixMilli())
}

// Write streams a zip holding every artifact under images/ plus a
// manifest describing the batch.
func Write(w io.Writer, a Archive) error {
	if len(a.Results) == 0 {
		return ErrNoResults
	}

	zw := zip.NewWriter(w)
	names := UniqueNames(a.Results)
	m := manifest{
		CreatedAt: a.CreatedAt.UTC(),
		Config:    a.Config,
		Totals:    results.Aggregate(a.Results),
		Images:    make([]manifestEntry, 0, len(a.Results)),
	}

	for i, r := range a.Results {
		path := imagesFolder + "/" + names[i]
		if err := writeEntry(zw, path, a.CreatedAt, r.Data); err != nil {
			return err
		}
		m.Images = append(m.Images, manifestEntry{
			Path:         path,
			Width:        r.Width,
			Height:       r.Height,
			Format:       r.Format,
			OriginalSize: r.OriginalSize,
			NewSize:      r.NewSize,
		})
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := writeEntry(zw, manifestName, a.CreatedAt, data); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

// SaveFiles writes each artifact into dir and returns the written paths.
func SaveFiles(dir string, rs []models.TransformResult) ([]string, error) {
	if len(rs) == 0 {
		return nil, ErrNoResults
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	names := UniqueNames(rs)
	paths := make([]string, 0, len(rs))
	for i, r := range rs {
		path := filepath.Join(dir, names[i])
		if err := os.WriteFile(path, r.Data, 0644); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", names[i], err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// UniqueNames keeps the first occurrence of each derived name and
// suffixes later duplicates with -2, -3, ... before the extension.
func UniqueNames(rs []models.TransformResult) []string {
	seen := make(map[string]int, len(rs))
	names := make([]string, len(rs))

	for i, r := range rs {
		name := r.Name
		for seen[name] > 0 {
			seen[r.Name]++
			ext := filepath.Ext(r.Name)
			name = fmt.Sprintf("%s-%d%s", strings.TrimSuffix(r.Name, ext), seen[r.Name], ext)
		}
		seen[name]++
		names[i] = name
	}
	return names
}

func writeEntry(zw *zip.Writer, name string, modified time.Time, data []byte) error {
	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
