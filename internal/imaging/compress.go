package imaging

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"log/slog"
	"sync"

	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"loom/internal/archive"
	"loom/internal/config"
	"loom/internal/logging"
)

const maxAttempts = 8

// Constraints bound the output of a compression pass.
type Constraints struct {
	MaxWidth  int
	MaxHeight int
	MaxKB     int
	Quality   int
}

// FromConfig builds compression constraints from application config.
func FromConfig(cfg *config.Config) Constraints {
	return Constraints{
		MaxWidth:  cfg.Import.MaxImageWidth,
		MaxHeight: cfg.Import.MaxImageHeight,
		MaxKB:     cfg.Import.MaxImageKB,
		Quality:   cfg.Import.JPEGQuality,
	}
}

// Compress re-encodes one asset to fit within the constraints. Attempts step
// down quality first, then scale. If the ceiling is still unmet after the
// attempt budget the smallest attempt wins; if the asset cannot be decoded at
// all the original bytes are returned unchanged.
func Compress(asset archive.Asset, constraints Constraints, logger *slog.Logger) archive.Asset {
	if logger == nil {
		logger = logging.NewNop()
	}

	decoded, _, err := image.Decode(bytes.NewReader(asset.Bytes))
	if err != nil {
		logger.Warn("asset decode failed, storing original bytes",
			logging.String(logging.FieldAsset, asset.Key),
			logging.Error(err),
		)
		return asset
	}

	maxBytes := constraints.MaxKB * 1024
	quality := constraints.Quality
	if quality < 1 || quality > 100 {
		quality = 85
	}
	scale := 1.0

	var best []byte
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resized := fit(decoded, int(float64(constraints.MaxWidth)*scale), int(float64(constraints.MaxHeight)*scale))

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: quality}); err != nil {
			logger.Warn("asset re-encode failed, storing original bytes",
				logging.String(logging.FieldAsset, asset.Key),
				logging.Error(err),
			)
			return asset
		}

		encoded := buf.Bytes()
		if best == nil || len(encoded) < len(best) {
			best = append([]byte(nil), encoded...)
		}
		if len(encoded) <= maxBytes {
			break
		}

		// Quality steps down first; once it bottoms out the raster shrinks.
		if quality > 30 {
			quality -= 10
		} else {
			scale *= 0.8
		}
	}

	if len(best) > maxBytes {
		logger.Debug("asset still over size ceiling after all attempts",
			logging.String(logging.FieldAsset, asset.Key),
			logging.Int("bytes", len(best)),
			logging.Int("ceiling", maxBytes),
		)
	}

	return archive.Asset{Key: asset.Key, MimeType: "image/jpeg", Bytes: best}
}

// CompressAll compresses every asset concurrently, one unit of work per asset,
// and joins before returning. Asset order is irrelevant; each unit touches
// only its own entry in the result map.
func CompressAll(ctx context.Context, assets map[string]archive.Asset, constraints Constraints, logger *slog.Logger) map[string]archive.Asset {
	result := make(map[string]archive.Asset, len(assets))
	if len(assets) == 0 {
		return result
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for key, asset := range assets {
		wg.Add(1)
		go func(key string, asset archive.Asset) {
			defer wg.Done()
			compressed := Compress(asset, constraints, logging.WithContext(ctx, logger))
			mu.Lock()
			result[key] = compressed
			mu.Unlock()
		}(key, asset)
	}
	wg.Wait()

	return result
}

func fit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if maxWidth < 1 {
		maxWidth = 1
	}
	if maxHeight < 1 {
		maxHeight = 1
	}
	if width <= maxWidth && height <= maxHeight {
		return src
	}

	ratio := float64(maxWidth) / float64(width)
	if r := float64(maxHeight) / float64(height); r < ratio {
		ratio = r
	}
	targetWidth := int(float64(width) * ratio)
	targetHeight := int(float64(height) * ratio)
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}
