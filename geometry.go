// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backdrop

// PaddingPolicy selects how per-filter padding values combine across a
// chain.
type PaddingPolicy uint8

const (
	// PaddingMax uses the largest padding declared by any filter.
	PaddingMax PaddingPolicy = iota

	// PaddingSum adds all declared paddings together.
	PaddingSum
)

// String returns a human-readable name for the padding policy.
func (p PaddingPolicy) String() string {
	switch p {
	case PaddingMax:
		return "Max"
	case PaddingSum:
		return "Sum"
	default:
		return "Unknown"
	}
}

// resolveFrame computes the aggregate settings and the pixel-rounded
// source frame for a region being opened for target with the given
// non-empty chain, filling state in place. It reads the renderer's
// current viewport and projection but performs no allocation, so a
// rejected open costs nothing.
func (pm *PassManager) resolveFrame(state *FrameState, target Target, filters []Filter) {
	r := pm.renderer

	first := filters[0].Settings()
	resolution := first.Resolution
	if resolution <= 0 {
		resolution = pm.inheritResolution()
	}
	multisample := first.Multisample
	if multisample < 1 {
		multisample = pm.inheritMultisample()
	}
	padding := first.Padding
	autoFit := first.AutoFit
	legacy := !first.Normalized

	for _, f := range filters[1:] {
		s := f.Settings()

		fres := s.Resolution
		if fres <= 0 {
			fres = pm.inheritResolution()
		}
		if fres < resolution {
			resolution = fres
		}

		fms := s.Multisample
		if fms < 1 {
			fms = pm.inheritMultisample()
		}
		if fms < multisample {
			multisample = fms
		}

		switch pm.cfg.PaddingPolicy {
		case PaddingSum:
			padding += s.Padding
		default:
			if s.Padding > padding {
				padding = s.Padding
			}
		}

		autoFit = autoFit && s.AutoFit
		legacy = legacy || !s.Normalized
	}

	bounds, ok := target.FilterArea()
	if !ok {
		bounds = target.Bounds()
	}
	bounds = bounds.Pad(padding)

	// Project the renderer's visible source frame into the target's
	// coordinate space when a non-identity projection is in effect.
	visible := r.Targets.SourceFrame
	if tr := r.Projection.Transform; tr != nil {
		if inv, invOK := tr.Invert(); invOK {
			visible = inv.TransformRect(visible)
		}
	}

	canUseBackdrop := false
	if autoFit {
		bounds = bounds.Fit(visible)
	} else {
		// A frame extending beyond the visible viewport cannot be
		// snapshotted from the framebuffer.
		canUseBackdrop = r.Targets.SourceFrame.Contains(bounds)
		if !bounds.Intersects(visible) {
			bounds.W, bounds.H = 0, 0
		}
	}

	bounds = bounds.Ceil(resolution)

	state.SourceFrame = bounds
	state.Resolution = resolution
	state.Multisample = multisample
	state.Legacy = legacy
	state.canUseBackdrop = canUseBackdrop

	last := filters[len(filters)-1].Settings()
	state.clearColor = last.ClearColor
	state.clearColorSet = last.ClearColorSet
}

// inheritResolution is the fallback resolution for filters that leave
// theirs unset: the enclosing render target's, else the renderer's.
func (pm *PassManager) inheritResolution() float64 {
	if cur := pm.renderer.Targets.Current; cur != nil {
		return cur.Resolution()
	}
	return pm.renderer.resolution
}

// inheritMultisample is the fallback sample count for filters that leave
// theirs unset.
func (pm *PassManager) inheritMultisample() int {
	if cur := pm.renderer.Targets.Current; cur != nil {
		return cur.Multisample()
	}
	return pm.renderer.multisample
}

// rejected reports whether a resolved frame fails the empty-bounds check:
// the rounded frame is at most one renderer unit in both axes, or a fit
// or intersection test zeroed it.
func rejected(frame Rect) bool {
	return frame.W <= 1 && frame.H <= 1
}
