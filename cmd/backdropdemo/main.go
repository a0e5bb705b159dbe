// Command backdropdemo renders backdrop-blended regions over a gradient
// scene with the software device and saves the result as PNG.
package main

import (
	"flag"
	"image/png"
	"log"
	"os"

	"github.com/gogpu/backdrop"
	"github.com/gogpu/backdrop/backend"
	"github.com/gogpu/backdrop/filters"
)

type box struct {
	bounds backdrop.Rect
}

func (b *box) Bounds() backdrop.Rect { return b.bounds }

func (b *box) FilterArea() (backdrop.Rect, bool) { return backdrop.Rect{}, false }

func main() {
	var (
		width  = flag.Int("width", 512, "image width")
		height = flag.Int("height", 512, "image height")
		output = flag.String("output", "backdrop.png", "output file")
	)
	flag.Parse()

	dev := backend.NewSoftwareDevice()
	if err := dev.Init(); err != nil {
		log.Fatalf("init device: %v", err)
	}
	defer dev.Close()

	r := backdrop.NewRenderer(dev, backdrop.Options{
		Width:  *width,
		Height: *height,
	})
	pm := backdrop.NewPassManager(r, backdrop.Config{})

	drawGradientBackground(dev, *width, *height)

	// One region per blend mode, marching down the diagonal.
	modes := []backend.BlendMode{
		backend.BlendMultiply,
		backend.BlendScreen,
		backend.BlendOverlay,
		backend.BlendDifference,
	}
	size := float64(*width) / 8
	for i, mode := range modes {
		off := size * float64(i+1) * 1.5
		region := &box{bounds: backdrop.NewRect(off, off, size, size)}
		f := filters.NewBlend(mode, 0)

		pushed, err := pm.PushWithCheck(region, []backdrop.Filter{f})
		if err != nil {
			log.Fatalf("push %v region: %v", mode, err)
		}
		if !pushed {
			continue
		}
		// Give the region content to blend: a flat half-alpha fill.
		dev.Clear(0.3, 0.3, 0.5, 0.5)
		if err := pm.Pop(); err != nil {
			log.Fatalf("pop %v region: %v", mode, err)
		}
	}

	if n := r.Pool().Outstanding(); n != 0 {
		log.Fatalf("texture pool leak: %d outstanding", n)
	}

	out, err := os.Create(*output)
	if err != nil {
		log.Fatalf("create %s: %v", *output, err)
	}
	defer out.Close()
	if err := png.Encode(out, dev.Backbuffer()); err != nil {
		log.Fatalf("encode png: %v", err)
	}

	log.Printf("Demo saved to %s (%dx%d)\n", *output, *width, *height)
}

// drawGradientBackground fills the backbuffer row by row through the
// bound viewport.
func drawGradientBackground(dev *backend.SoftwareDevice, w, h int) {
	img := dev.Backbuffer()
	for y := 0; y < h; y++ {
		t := float64(y) / float64(h)
		for x := 0; x < w; x++ {
			s := float64(x) / float64(w)
			px := img.RGBAAt(x, y)
			px.R = uint8(40 + 180*s)
			px.G = uint8(30 + 120*t)
			px.B = uint8(90 + 120*(1-t))
			px.A = 255
			img.SetRGBA(x, y, px)
		}
	}
}
