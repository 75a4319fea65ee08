package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ThumbnailSize bounds the longer edge of a generated thumbnail in pixels.
const ThumbnailSize = 200

// Thumbnail decodes a JPEG, PNG or GIF image and returns a JPEG data URL of
// it scaled to fit ThumbnailSize. Images that already fit are re-encoded
// unscaled.
func Thumbnail(data []byte) (string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: unsupported image: %v", domain.ErrValidation, err)
	}
	dst := scaleToFit(src, ThumbnailSize)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 75}); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// scaleToFit downsamples src with nearest-neighbour sampling.
func scaleToFit(src image.Image, limit int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= limit && h <= limit {
		return src
	}
	tw, th := limit, limit
	if w >= h {
		th = max(1, h*limit/w)
	} else {
		tw = max(1, w*limit/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	for y := 0; y < th; y++ {
		sy := b.Min.Y + y*h/th
		for x := 0; x < tw; x++ {
			dst.Set(x, y, src.At(b.Min.X+x*w/tw, sy))
		}
	}
	return dst
}
