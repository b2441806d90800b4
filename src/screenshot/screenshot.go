package screenshot

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/kbinani/screenshot"
)

// ErrNoMonitors is returned when the capture backend cannot enumerate any display.
var ErrNoMonitors = errors.New("no monitors available")

// backend is the platform capture API; tests replace it.
type backend struct {
	numDisplays func() int
	capture     func(display int) (*image.RGBA, error)
}

var platform = backend{
	numDisplays: screenshot.NumActiveDisplays,
	capture:     screenshot.CaptureDisplay,
}

// Init verifies that the capture backend can see at least one display.
func Init() error {
	if platform.numDisplays() == 0 {
		return fmt.Errorf("capture backend: %w", ErrNoMonitors)
	}
	return nil
}

// CaptureScreen captures the first active display.
func CaptureScreen() (*image.RGBA, error) {
	if platform.numDisplays() == 0 {
		return nil, ErrNoMonitors
	}
	img, err := platform.capture(0)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display 0: %w", err)
	}
	return img, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image as PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeDataURL encodes img as a base64 PNG data URL, the form vision
// models accept in an image_url content part.
func EncodeDataURL(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return PNGDataURL(data), nil
}

// PNGDataURL wraps already-encoded PNG bytes in a data URL.
func PNGDataURL(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}
