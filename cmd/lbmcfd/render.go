package main

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"path/filepath"
)

// frameRecorder accumulates one paletted frame per output interval from
// rank 0's gathered speed field, the same frame/delay accumulation pattern
// the teacher uses, repurposed to read from a gathered W*H buffer instead
// of a single-process array.
type frameRecorder struct {
	width, height int
	dimX, dimY    int
	palette       color.Palette
	frames        []*image.Paletted
	delays        []int
	delay         int
}

func newFrameRecorder(width, height, dimX, dimY, delay int) *frameRecorder {
	palette := make(color.Palette, 256)
	for i := 0; i < 256; i++ {
		intensity := float64(i) / 255.0
		palette[i] = color.RGBA{
			R: 0,
			G: uint8(intensity * 170),
			B: uint8(64 + intensity*191),
			A: 255,
		}
	}
	palette[255] = color.RGBA{0, 0, 0, 255}

	return &frameRecorder{
		width: width, height: height,
		dimX: dimX, dimY: dimY,
		palette: palette,
		delay:   delay,
	}
}

// AddFrame renders a W*H row-major speed field and barrier mask into one
// paletted image, upscaled from the simulation grid to the output canvas.
func (r *frameRecorder) AddFrame(speed []float64, barrier []bool) {
	img := image.NewPaletted(image.Rect(0, 0, r.width, r.height), r.palette)
	scaleX := float64(r.width) / float64(r.dimX)
	scaleY := float64(r.height) / float64(r.dimY)

	for y := 0; y < r.dimY; y++ {
		for x := 0; x < r.dimX; x++ {
			idx := y*r.dimX + x
			var colorIdx uint8
			if barrier[idx] {
				colorIdx = 255
			} else {
				intensity := math.Min(speed[idx]*3.0, 1.0)
				colorIdx = uint8(intensity * 254)
			}

			x1, y1 := int(float64(x)*scaleX), int(float64(y)*scaleY)
			x2, y2 := int(float64(x+1)*scaleX), int(float64(y+1)*scaleY)
			for py := y1; py < y2 && py < r.height; py++ {
				for px := x1; px < x2 && px < r.width; px++ {
					img.SetColorIndex(px, py, colorIdx)
				}
			}
		}
	}

	r.frames = append(r.frames, img)
	r.delays = append(r.delays, r.delay)
}

// Save writes the accumulated frames as a GIF, creating the output
// directory if needed.
func (r *frameRecorder) Save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("render: failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: failed to create %s: %w", path, err)
	}
	defer f.Close()

	return gif.EncodeAll(f, &gif.GIF{Image: r.frames, Delay: r.delays})
}
