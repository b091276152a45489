package processor

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ds124wfegd/mmk_universe/internal/entity"

	_ "golang.org/x/image/webp"
)

// Screenshot is a validated payment proof ready to be stored.
type Screenshot struct {
	Data      []byte
	Extension string
	Width     int
	Height    int
	Resized   bool
}

type ScreenshotProcessor interface {
	Process(data []byte) (*Screenshot, error)
}

// DefaultMaxPixels bounds the decoded size of an upload when no limit is
// configured. A 5000x5000 RGBA image already takes 100 MB once decoded.
const DefaultMaxPixels = 25_000_000

type screenshotProcessor struct {
	maxSide   int
	quality   int
	maxPixels int64
}

func NewScreenshotProcessor(maxSide, quality int, maxPixels int64) ScreenshotProcessor {
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &screenshotProcessor{maxSide: maxSide, quality: quality, maxPixels: maxPixels}
}

var extensions = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
}

// Process checks that data really is an image and downsizes it when its
// longest side exceeds maxSide. Formats browsers may not render (webp,
// bmp, tiff) are re-encoded as JPEG.
func (p *screenshotProcessor) Process(data []byte) (*Screenshot, error) {
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		return nil, entity.ErrInvalidImage
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, entity.ErrInvalidImage
	}
	// Dimensions come from the header alone; refuse before anything is decoded.
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > p.maxPixels {
		return nil, entity.ErrInvalidImage
	}

	ext, keep := extensions[format]
	tooLarge := p.maxSide > 0 && (cfg.Width > p.maxSide || cfg.Height > p.maxSide)

	if keep && !tooLarge {
		return &Screenshot{Data: data, Extension: ext, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, entity.ErrInvalidImage
	}

	if tooLarge {
		img = imaging.Fit(img, p.maxSide, p.maxSide, imaging.Lanczos)
	}

	outFormat := imaging.JPEG
	ext = ".jpg"
	if format == "png" || format == "gif" {
		outFormat = imaging.PNG
		ext = ".png"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, outFormat, imaging.JPEGQuality(p.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode screenshot: %w", err)
	}

	bounds := img.Bounds()
	return &Screenshot{
		Data:      buf.Bytes(),
		Extension: ext,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Resized:   tooLarge,
	}, nil
}
