package converter

import (
	"fmt"
	"math"
	"strings"

	"imageCompressor/compressor/models"
)

// Fit scales (srcW, srcH) uniformly into the (maxW, maxH) box. It never
// upscales and never returns a dimension below 1.
func Fit(srcW, srcH, maxW, maxH int) (int, int) {
	scale := math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	scale = math.Min(scale, 1)

	w := max(1, int(math.Round(float64(srcW)*scale)))
	h := max(1, int(math.Round(float64(srcH)*scale)))
	return min(w, max(1, maxW)), min(h, max(1, maxH))
}

// DeriveName replaces the extension of name with "-{w}x{h}.{ext}".
func DeriveName(name string, width, height int, format models.Format) string {
	base := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 && i < len(name)-1 {
		base = name[:i]
	}
	return fmt.Sprintf("%s-%dx%d.%s", base, width, height, format.Extension())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
