// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backdrop

// BackdropFlip describes how a filter must sample a captured backdrop
// texture. Offset is the vertical offset as a fraction of the texture's
// physical height (nonzero when the capture was flipped and the pool
// returned a taller texture than requested); Sign is +1 for
// texture-space captures and -1 for backbuffer captures, whose Y axis is
// inverted relative to render-texture space.
type BackdropFlip struct {
	Offset float32
	Sign   float32
}

// FrameState holds everything the pass manager tracks for one open
// filtered region. Instances come from a free-list pool and are cleared
// before reuse so a recycled state never leaks a prior region's textures.
type FrameState struct {
	// SourceFrame is the renderer-space frame of the filtered region,
	// pixel-rounded.
	SourceFrame Rect

	// DestinationFrame is the frame of the backing texture actually
	// allocated; it may exceed SourceFrame due to pooling granularity.
	DestinationFrame Rect

	// BindingSourceFrame and BindingDestinationFrame snapshot the
	// enclosing render target's frames at open, restored when the final
	// pass binds back into the enclosing target.
	BindingSourceFrame      Rect
	BindingDestinationFrame Rect

	// Resolution is the minimum resolution across the chain, or the
	// backdrop's resolution when one was captured.
	Resolution float64

	// Multisample is the minimum sample count across the chain.
	Multisample int

	// Legacy is true if any filter in the chain uses the legacy
	// coordinate-uniform convention.
	Legacy bool

	// Filters is the ordered chain to execute on close.
	Filters []Filter

	// RenderTexture is the pooled texture bound as the region's target.
	RenderTexture *RenderTexture

	// Transform is the projection transform suspended for the region's
	// duration and restored on close.
	Transform *Matrix

	// Backdrop is the captured framebuffer snapshot, nil when no filter
	// requested one or the capture failed.
	Backdrop *RenderTexture

	// BackdropFlip describes how to sample Backdrop.
	BackdropFlip BackdropFlip

	canUseBackdrop bool
	clearColor     RGBA
	clearColorSet  bool
}

// reset clears all references so the state can return to the free list.
// Textures are released to the pool by the pass manager, never here.
func (s *FrameState) reset() {
	*s = FrameState{}
}

// frameStatePool is a free list of FrameState instances. Region open and
// close are strictly nested and single-threaded, so a plain slice
// suffices.
type frameStatePool struct {
	free []*FrameState
}

func (p *frameStatePool) get() *FrameState {
	if n := len(p.free); n > 0 {
		s := p.free[n-1]
		p.free = p.free[:n-1]
		return s
	}
	return &FrameState{}
}

func (p *frameStatePool) put(s *FrameState) {
	s.reset()
	p.free = append(p.free, s)
}
