package loader

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func writePNG(t *testing.T, path string) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return buf.Bytes()
}

func TestLoader_Load_FilesAndDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	dir := filepath.Join(tmpDir, "album")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}

	single := filepath.Join(tmpDir, "z-single.png")
	writePNG(t, single)
	writePNG(t, filepath.Join(dir, "b.png"))
	writePNG(t, filepath.Join(dir, "a.png"))
	writePNG(t, filepath.Join(dir, ".hidden.png"))
	writePNG(t, filepath.Join(dir, "nested", "deep.png"))
	if err := os.WriteFile(filepath.Join(dir, "c.txt"), []byte("notes"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	l := NewLoader(zaptest.NewLogger(t), 2, nil)
	sources, err := l.Load(context.Background(), []string{single, dir})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var names []string
	for _, s := range sources {
		names = append(names, s.Name)
	}
	want := []string{"z-single.png", "a.png", "b.png", "c.txt"}
	if len(names) != len(want) {
		t.Fatalf("Expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, names)
			break
		}
	}

	if sources[0].MediaType != "image/png" {
		t.Errorf("Expected image/png, got %s", sources[0].MediaType)
	}
	if sources[3].MediaType == "image/png" {
		t.Error("Expected text file not to sniff as png")
	}
	if sources[0].Size != int64(len(sources[0].Data)) {
		t.Error("Expected size to match data length")
	}
}

func TestLoader_Load_Stdin(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}

	l := NewLoader(zaptest.NewLogger(t), 1, &buf)
	sources, err := l.Load(context.Background(), []string{StdinPath})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("Expected 1 source, got %d", len(sources))
	}
	if sources[0].Name != "pasted.png" || sources[0].MediaType != "image/png" {
		t.Errorf("Unexpected stdin source: %s %s", sources[0].Name, sources[0].MediaType)
	}
}

func TestLoader_Load_StdinOnlyOnce(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}

	l := NewLoader(zaptest.NewLogger(t), 4, &buf)
	sources, err := l.Load(context.Background(), []string{StdinPath, StdinPath})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("Expected 1 source, got %d", len(sources))
	}
	if sources[0].MediaType != "image/png" {
		t.Errorf("Expected image/png, got %s", sources[0].MediaType)
	}
}

func TestLoader_Load_MissingPath(t *testing.T) {
	l := NewLoader(zaptest.NewLogger(t), 1, nil)
	if _, err := l.Load(context.Background(), []string{"/nonexistent/path.jpg"}); err == nil {
		t.Fatal("Expected error for non-existent input, got nil")
	}
}

func TestWorkerPool_BoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2)
	var active, peak atomic.Int32

	for i := 0; i < 8; i++ {
		pool.Submit(context.Background(), func(context.Context) {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
		})
	}
	pool.Wait()

	if peak.Load() > 2 {
		t.Errorf("Expected at most 2 concurrent workers, got %d", peak.Load())
	}
}
