// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backdrop

// ClearMode controls what happens to a filter's output target before the
// filter draws into it.
type ClearMode uint8

const (
	// ClearBlend leaves the output content in place; the filter's result
	// is composited over it. Used for the final pass of a chain.
	ClearBlend ClearMode = iota

	// ClearClear wipes the output to transparent black before drawing.
	// Used for intermediate ping-pong passes.
	ClearClear
)

// String returns a human-readable name for the clear mode.
func (m ClearMode) String() string {
	switch m {
	case ClearBlend:
		return "Blend"
	case ClearClear:
		return "Clear"
	default:
		return "Unknown"
	}
}

// RGBA is a color with float components in [0, 1].
type RGBA struct {
	R, G, B, A float32
}

// Uniforms is the mutable uniform mapping of a filter. The pass manager
// writes the backdrop texture and its flip descriptor into this map
// immediately before a filter's Apply call and removes them right after,
// so a filter never observes a stale backdrop reference.
type Uniforms map[string]any

// Shader identifies a filter's GPU program. Name is the compilation cache
// key; Source is the WGSL program text handed to the device.
type Shader struct {
	Name   string
	Source string
}

// DrawState is the renderer-visible pipeline state attached to a filter
// (compositing behavior of its draw call). The pass manager swaps state
// objects between filters when eliding a trivial final pass, so identity
// of the pointer is significant to downstream code.
type DrawState struct {
	// Blend enables compositing the draw over existing target content.
	Blend bool
}

// Settings are the declared capabilities of a filter. The pass manager
// never branches on a filter's identity, only on these values.
type Settings struct {
	// Resolution is the filter's preferred resolution in device pixels
	// per renderer unit. Zero means "inherit" from the enclosing render
	// target or the renderer.
	Resolution float64

	// Padding expands the region's source frame symmetrically, in
	// renderer units, to avoid clipping effects at the edges.
	Padding float64

	// AutoFit allows the source frame to shrink to the visible viewport.
	// Filters that sample the backdrop must leave this false: a frame
	// that extends beyond the visible viewport cannot be snapshotted,
	// and eligibility is only computed on the non-fitting path.
	AutoFit bool

	// Normalized marks a filter written against the normalized
	// coordinate-uniform convention. The zero value means the filter
	// uses the legacy filterArea/filterClamp layout; filters that do not
	// declare themselves are conservatively treated as legacy.
	Normalized bool

	// Multisample is the filter's preferred sample count. Zero means
	// "inherit" from the enclosing render target or the renderer.
	Multisample int

	// BackdropUniformName names the uniform that receives the captured
	// backdrop texture. Empty means the filter needs no backdrop.
	BackdropUniformName string

	// Trivial marks a pass-through filter with no visual effect of its
	// own, used to force an extra resolve. A trivial filter at the end
	// of a chain is elided by the pass manager.
	Trivial bool

	// ClearColor is the color a freshly opened region is cleared to when
	// this filter is last in the chain and ClearColorSet is true.
	// Otherwise regions are cleared to transparent black.
	ClearColor    RGBA
	ClearColorSet bool
}

// Filter is one entry of a filter chain. Implementations are external to
// the pass manager; the manager consumes the declared Settings, injects
// backdrop uniforms, and invokes Apply once per pass.
type Filter interface {
	// Settings returns the filter's declared capabilities.
	Settings() Settings

	// Uniforms returns the filter's mutable uniform mapping.
	Uniforms() Uniforms

	// State returns the renderer-visible draw state attached to the
	// filter.
	State() *DrawState

	// SetState replaces the attached draw state.
	SetState(*DrawState)

	// Shader returns the filter's program.
	Shader() Shader

	// Apply renders input into output. Most implementations delegate to
	// PassManager.ApplyFilter; custom filters may issue their own device
	// work as long as they respect the clear mode.
	Apply(pm *PassManager, input, output *RenderTexture, clear ClearMode, state *FrameState) error
}

// BaseFilter supplies the storage-only parts of the Filter interface.
// Concrete filters embed it and implement Apply.
type BaseFilter struct {
	settings Settings
	uniforms Uniforms
	state    *DrawState
	shader   Shader
}

// NewBaseFilter creates the embeddable filter core with the given
// settings and shader. The uniform map starts empty and the draw state
// defaults to blended compositing.
func NewBaseFilter(s Settings, sh Shader) BaseFilter {
	return BaseFilter{
		settings: s,
		uniforms: make(Uniforms),
		state:    &DrawState{Blend: true},
		shader:   sh,
	}
}

// Settings returns the filter's declared capabilities.
func (f *BaseFilter) Settings() Settings { return f.settings }

// Uniforms returns the filter's mutable uniform mapping.
func (f *BaseFilter) Uniforms() Uniforms { return f.uniforms }

// State returns the attached draw state.
func (f *BaseFilter) State() *DrawState { return f.state }

// SetState replaces the attached draw state.
func (f *BaseFilter) SetState(s *DrawState) { f.state = s }

// Shader returns the filter's program.
func (f *BaseFilter) Shader() Shader { return f.shader }
