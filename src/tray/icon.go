package tray

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"

	"screen-answer-overlay/src/overlay"
)

const iconSize = 16

var (
	iconOnce sync.Once
	iconData []byte
)

// IconPNG returns the tray icon: the idle indicator tag with a dark border.
func IconPNG() []byte {
	iconOnce.Do(func() {
		img := image.NewNRGBA(image.Rect(0, 0, iconSize, iconSize))
		draw.Draw(img, img.Bounds(), &image.Uniform{C: color.NRGBA{A: 0xff, R: 0x5a, G: 0x4a, B: 0x1e}}, image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(1, 1, iconSize-1, iconSize-1), &image.Uniform{C: overlay.IdleColor}, image.Point{}, draw.Src)

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err == nil {
			iconData = buf.Bytes()
		}
	})
	return iconData
}
