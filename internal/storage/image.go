package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

const (
	MaxDimension = 1280
	JPEGQuality  = 85
	// MaxUploadBytes caps a single decoded upload before it is resized.
	MaxUploadBytes = 10 << 20
)

var ErrUnsupportedImage = errors.New("unsupported image format")

var acceptedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Normalize sniffs the upload, shrinks it to fit MaxDimension and re-encodes it as JPEG.
func Normalize(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrUnsupportedImage, MaxUploadBytes)
	}

	if detected := http.DetectContentType(data); !acceptedTypes[detected] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, fit(img, MaxDimension), &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func fit(img image.Image, limit int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= limit && h <= limit {
		return img
	}

	newW, newH := limit, limit
	if w > h {
		newH = max(1, h*limit/w)
	} else {
		newW = max(1, w*limit/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
