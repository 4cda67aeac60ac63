// Package imageproc normalizes raw product images into the fixed square
// canvas the catalogue grid expects. The whole pass is deterministic: the
// same input bytes always produce the same output bytes, which keeps the
// on-disk cache stable across runs.
package imageproc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	// Registered decoders for the formats product feeds actually contain.
	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Sentinel errors for normalization.
var (
	ErrEmptyInput = errors.New("empty image data")
	ErrDecode     = errors.New("cannot decode image bytes")
)

// Normalizer holds the cleanup parameters. The zero value is not usable;
// start from Default().
type Normalizer struct {
	// CanvasSize is the output square edge in pixels.
	CanvasSize int

	// Background fills the canvas and defines what counts as "border".
	Background color.NRGBA

	// BorderTolerance is the per-channel distance from Background below
	// which a pixel is treated as background when trimming margins.
	BorderTolerance int

	// Padding is kept around the detected content box, in pixels.
	Padding int

	// Caption stripping: rows scanned up from the bottom edge are removed
	// when they are near-background or near-uniform, up to
	// CaptionMaxFraction of the height, and only when at least
	// CaptionMinRows match (so JPEG noise does not shave real content).
	CaptionMaxFraction float64
	CaptionMinRows     int
	CaptionDensity     float64
	CaptionUniformStd  float64

	// JPEGQuality for the encoded output.
	JPEGQuality int
}

// Default returns the normalizer tuned for white-background product shots.
func Default() Normalizer {
	return Normalizer{
		CanvasSize:         600,
		Background:         color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		BorderTolerance:    20,
		Padding:            12,
		CaptionMaxFraction: 0.30,
		CaptionMinRows:     16,
		CaptionDensity:     0.10,
		CaptionUniformStd:  5.0,
		JPEGQuality:        80,
	}
}

// Normalize decodes raw image bytes, strips a bottom caption band when one
// is detected, trims background margins, and fits the result centered onto
// the square canvas. Undecodable bytes yield ErrDecode; the caller treats
// that exactly like a fetch failure.
func (n Normalizer) Normalize(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	img := imaging.Clone(src)
	img = n.stripCaption(img)
	img = n.trimBorders(img)

	fitted := img
	if img.Bounds().Dx() > n.CanvasSize || img.Bounds().Dy() > n.CanvasSize {
		fitted = imaging.Fit(img, n.CanvasSize, n.CanvasSize, imaging.Lanczos)
	}
	canvas := imaging.New(n.CanvasSize, n.CanvasSize, n.Background)
	out := imaging.PasteCenter(canvas, fitted)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: n.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding normalized image: %w", err)
	}
	return buf.Bytes(), nil
}

// threshold is the L1 color distance above which a pixel counts as content.
func (n Normalizer) threshold() int {
	return 3 * n.BorderTolerance
}

// colorDistance is the L1 distance between a pixel and the background.
func (n Normalizer) colorDistance(c color.NRGBA) int {
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	return d(c.R, n.Background.R) + d(c.G, n.Background.G) + d(c.B, n.Background.B)
}

// rowStats returns the fraction of content pixels in row y and the average
// per-pixel channel spread, the two signals the caption heuristic uses.
func (n Normalizer) rowStats(img *image.NRGBA, y int) (density, spread float64) {
	b := img.Bounds()
	w := b.Dx()
	if w == 0 {
		return 0, 0
	}

	content := 0
	spreadSum := 0.0
	for x := b.Min.X; x < b.Max.X; x++ {
		c := img.NRGBAAt(x, y)
		if n.colorDistance(c) > n.threshold() {
			content++
		}
		spreadSum += channelStd(c)
	}
	return float64(content) / float64(w), spreadSum / float64(w)
}

// channelStd is the population standard deviation across the R, G, B values
// of one pixel. Near zero means gray-scale or solid fill.
func channelStd(c color.NRGBA) float64 {
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	mean := (r + g + b) / 3
	variance := ((r-mean)*(r-mean) + (g-mean)*(g-mean) + (b-mean)*(b-mean)) / 3
	return math.Sqrt(variance)
}

// stripCaption removes a subtitle band from the bottom edge when the
// trailing rows look like text-on-background rather than product imagery.
func (n Normalizer) stripCaption(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	h := b.Dy()
	maxCut := int(float64(h) * n.CaptionMaxFraction)

	cut := 0
	for y := b.Max.Y - 1; y >= b.Min.Y && cut < maxCut; y-- {
		density, spread := n.rowStats(img, y)
		if density < n.CaptionDensity || spread < n.CaptionUniformStd {
			cut++
			continue
		}
		break
	}

	if cut <= n.CaptionMinRows {
		return img
	}
	return imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Max.Y-cut))
}

// trimBorders crops to the bounding box of content pixels plus padding.
// An image with no content pixels (a blank frame) is returned unchanged.
func (n Normalizer) trimBorders(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if n.colorDistance(img.NRGBAAt(x, y)) > n.threshold() {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if maxX < minX || maxY < minY {
		return img
	}

	rect := image.Rect(
		max(b.Min.X, minX-n.Padding),
		max(b.Min.Y, minY-n.Padding),
		min(b.Max.X, maxX+1+n.Padding),
		min(b.Max.Y, maxY+1+n.Padding),
	)
	return imaging.Crop(img, rect)
}
