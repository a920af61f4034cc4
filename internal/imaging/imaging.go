// Package imaging validates uploaded listing photos and shrinks large ones.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 1024

// JPEGQuality is the compression quality for re-encoded JPEGs.
const JPEGQuality = 85

var (
	// ErrUnsupportedFormat is returned for anything that is not a JPEG or PNG.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrInvalidImage is returned when the bytes look like an image but do not decode.
	ErrInvalidImage = errors.New("invalid image")
)

// formats maps accepted sniffed MIME types to their canonical extension.
var formats = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Result is a processed image ready to be stored.
type Result struct {
	Data []byte
	MIME string
	Ext  string
}

// Process sniffs the real format, downscales to MaxDimension and re-encodes
// in the same format. Images already within bounds are stored untouched.
func Process(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	mime := http.DetectContentType(data)
	ext, ok := formats[mime]
	if !ok {
		return nil, fmt.Errorf("%w: %s (only JPEG and PNG accepted)", ErrUnsupportedFormat, mime)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	scaled := downscale(img, MaxDimension)
	if scaled == img {
		return &Result{Data: data, MIME: mime, Ext: ext}, nil
	}

	var buf bytes.Buffer
	switch mime {
	case "image/png":
		err = png.Encode(&buf, scaled)
	default:
		err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", mime, err)
	}
	return &Result{Data: buf.Bytes(), MIME: mime, Ext: ext}, nil
}

// downscale resizes the image so neither dimension exceeds maxDim, keeping
// the aspect ratio. Returns img itself when already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
