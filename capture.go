// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backdrop

import (
	"image"
	"math"
)

// backdropUnit is the texture unit the framebuffer copy runs against.
const backdropUnit = 0

// prepareBackdrop copies the sub-rectangle of the currently bound
// framebuffer covering bounds into a pooled texture and fills flip with
// the sampling descriptor. It returns ok=false when the current target is
// the unreadable main backbuffer (degraded rendering, never fatal); a
// non-nil error only reports pool exhaustion.
//
// The captured texture is shared by every filter in the region's chain
// that requests a backdrop; capture happens at most once per region.
func (pm *PassManager) prepareBackdrop(bounds Rect, flip *BackdropFlip) (*RenderTexture, bool, error) {
	r := pm.renderer
	frame := r.Targets.SourceFrame

	var resolution float64
	sign := float32(1)
	if cur := r.Targets.Current; cur != nil {
		// Texture-space matches renderer-space; no flip needed.
		resolution = cur.Resolution()
	} else {
		// The main backbuffer is only readable while it preserves
		// existing content.
		if r.backgroundAlpha >= 1 {
			if !pm.warnedOpaqueBackbuffer {
				pm.warnedOpaqueBackbuffer = true
				Logger().Warn("backdrop: cannot capture the main backbuffer while the background is opaque; filters will see no backdrop")
			}
			return nil, false, nil
		}
		resolution = r.resolution
		sign = -1
	}

	var tx, ty float64
	if tr := r.Projection.Transform; tr != nil {
		tx, ty = tr.C, tr.F
	}

	x := int(math.Round((bounds.X - frame.X + tx) * resolution))
	dy := bounds.Y - frame.Y + ty
	oy := dy
	if sign < 0 {
		oy = frame.H - (dy + bounds.H)
	}
	y := int(math.Round(oy * resolution))
	w := int(math.Round(bounds.W * resolution))
	h := int(math.Round(bounds.H * resolution))

	// Acquire at resolution 1 so the physical pixel size matches the
	// copy rectangle exactly, then retag with the capture resolution.
	tex, err := r.pool.GetOptimal(float64(w), float64(h), 1, 1)
	if err != nil {
		return nil, false, err
	}
	tex.SetResolution(resolution)

	flip.Sign = sign
	if sign < 0 {
		// The pool may return a texture taller than the copy.
		flip.Offset = float32(h) / float32(tex.PixelHeight())
	} else {
		flip.Offset = 0
	}

	// The copy must run against the unit the device copy call expects,
	// regardless of what the cache believes is bound there.
	r.Textures.ForceBind(tex.ID(), backdropUnit)
	if err := r.device.CopyTargetPixels(tex.ID(), image.Rect(x, y, x+w, y+h)); err != nil {
		r.pool.Return(tex)
		Logger().Warn("backdrop: framebuffer copy failed", "err", err)
		return nil, false, nil
	}

	tex.SetFilterFrame(frame)
	return tex, true, nil
}
