// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backdrop

import (
	"github.com/gogpu/backdrop/backend"
	"github.com/gogpu/gputypes"
)

// RenderTexture wraps a pooled device texture used as an offscreen render
// target. Its physical pixel dimensions are fixed at creation; the
// logical resolution tag may be rescaled by the pool or the backdrop
// capture, which changes the logical size without touching pixels.
type RenderTexture struct {
	id          backend.TextureID
	pixelWidth  int
	pixelHeight int
	resolution  float64
	multisample int
	format      gputypes.TextureFormat

	// filterFrame maps the texture's content back into renderer space so
	// downstream consumers can derive UV coordinates.
	filterFrame    Rect
	hasFilterFrame bool

	poolKey poolKey
}

// ID returns the device texture identifier.
func (t *RenderTexture) ID() backend.TextureID { return t.id }

// PixelWidth returns the physical width in device pixels.
func (t *RenderTexture) PixelWidth() int { return t.pixelWidth }

// PixelHeight returns the physical height in device pixels.
func (t *RenderTexture) PixelHeight() int { return t.pixelHeight }

// Width returns the logical width in renderer units.
func (t *RenderTexture) Width() float64 {
	return float64(t.pixelWidth) / t.resolution
}

// Height returns the logical height in renderer units.
func (t *RenderTexture) Height() float64 {
	return float64(t.pixelHeight) / t.resolution
}

// Resolution returns the logical resolution tag (device pixels per
// renderer unit).
func (t *RenderTexture) Resolution() float64 { return t.resolution }

// SetResolution rescales the logical resolution tag. The physical pixel
// dimensions are unchanged; only the logical size reported by Width and
// Height moves.
func (t *RenderTexture) SetResolution(resolution float64) {
	if resolution > 0 {
		t.resolution = resolution
	}
}

// Multisample returns the sample count of the backing framebuffer.
func (t *RenderTexture) Multisample() int { return t.multisample }

// Format returns the texture pixel format.
func (t *RenderTexture) Format() gputypes.TextureFormat { return t.format }

// FilterFrame returns the renderer-space frame the texture's content
// corresponds to, and whether one is set.
func (t *RenderTexture) FilterFrame() (Rect, bool) {
	return t.filterFrame, t.hasFilterFrame
}

// SetFilterFrame tags the texture with the renderer-space frame its
// content was rendered from.
func (t *RenderTexture) SetFilterFrame(frame Rect) {
	t.filterFrame = frame
	t.hasFilterFrame = true
}

// ClearFilterFrame removes the filter-frame tag. The pool clears the tag
// on every return so a reused texture never leaks a prior region's frame.
func (t *RenderTexture) ClearFilterFrame() {
	t.filterFrame = Rect{}
	t.hasFilterFrame = false
}
