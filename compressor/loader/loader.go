// Package loader turns command line inputs into source images.
package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"imageCompressor/compressor/models"
)

// StdinPath reads a single image from standard input.
const StdinPath = "-"

type Loader struct {
	logger  *zap.Logger
	workers int
	stdin   io.Reader
}

func NewLoader(logger *zap.Logger, workers int, stdin io.Reader) *Loader {
	return &Loader{logger: logger, workers: workers, stdin: stdin}
}

// Load expands directories (one level deep), reads every file and returns
// the sources in argument order. A path that cannot be found fails the
// whole load; a file that cannot be read is logged and skipped.
func (l *Loader) Load(ctx context.Context, paths []string) ([]models.SourceImage, error) {
	files, err := l.expand(paths)
	if err != nil {
		return nil, err
	}

	sources := make([]*models.SourceImage, len(files))
	pool := NewWorkerPool(l.workers)

	for i, path := range files {
		pool.Submit(ctx, func(ctx context.Context) {
			src, err := l.read(path)
			if err != nil {
				l.logger.Warn("Failed to read input", zap.String("path", path), zap.Error(err))
				return
			}
			sources[i] = src
		})
	}
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]models.SourceImage, 0, len(files))
	for _, src := range sources {
		if src != nil {
			out = append(out, *src)
		}
	}
	return out, nil
}

func (l *Loader) expand(paths []string) ([]string, error) {
	var files []string
	stdin := false

	for _, path := range paths {
		if path == StdinPath {
			// stdin can only be read once
			if !stdin {
				files = append(files, path)
				stdin = true
			}
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat input: %w", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to list directory: %w", err)
		}
		for _, e := range entries {
			if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
				files = append(files, filepath.Join(path, e.Name()))
			}
		}
	}

	return files, nil
}

func (l *Loader) read(path string) (*models.SourceImage, error) {
	if path == StdinPath {
		if l.stdin == nil {
			return nil, fmt.Errorf("stdin is not available")
		}
		data, err := io.ReadAll(l.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		mtype := mimetype.Detect(data)
		src := models.NewSourceImage("pasted"+mtype.Extension(), mtype.String(), data)
		return &src, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	src := models.NewSourceImage(filepath.Base(path), mimetype.Detect(data).String(), data)
	return &src, nil
}
