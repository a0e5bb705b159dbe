// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backdrop

import (
	"image"
	"math"

	"github.com/gogpu/backdrop/backend"
	"github.com/gogpu/gpucontext"
)

// DeviceHandle provides GPU device access from a host application.
//
// Hosts built on the gpucontext ecosystem (gogpu.App and friends)
// implement DeviceProvider; the alias gives the interface a local name
// while staying fully compatible. The wgpu backend accepts it directly.
//
// Key principle: this library RECEIVES the device from the host, it does
// NOT create one.
type DeviceHandle = gpucontext.DeviceProvider

// Target is the object a filtered region is opened for. It exposes either
// an explicit filter-area rectangle or axis-aligned world bounds; bounds
// computation itself belongs to the scene graph.
type Target interface {
	// Bounds returns the target's world bounds in renderer space.
	Bounds() Rect

	// FilterArea returns an explicit filter-area rectangle, if set.
	// When present it takes precedence over Bounds.
	FilterArea() (Rect, bool)
}

// Options configure a Renderer. Zero values fall back to documented
// defaults.
type Options struct {
	// Width and Height are the screen size in renderer units.
	Width, Height int

	// Resolution is the backbuffer resolution in device pixels per
	// renderer unit. Zero means 1.
	Resolution float64

	// Multisample is the backbuffer sample count. Zero means 1.
	Multisample int

	// BackgroundAlpha is the configured background alpha of the
	// backbuffer. A value >= 1 makes the backbuffer effectively
	// write-only for backdrop capture.
	BackgroundAlpha float32
}

// Renderer is the facade over the shared renderer state the pass manager
// operates on: the device, the texture pool, render-target tracking, the
// projection transform and the texture-unit cache. Each Renderer owns one
// instance of each; there is no process-wide state.
type Renderer struct {
	device backend.Device
	pool   *TexturePool

	// Targets tracks the currently bound render target and its frames.
	Targets *TargetTracker

	// Projection holds the projection transform in effect, suspended by
	// the pass manager for a region's duration.
	Projection *Projection

	// Textures is the texture-unit bind cache.
	Textures *TextureUnitCache

	screen          Rect
	resolution      float64
	multisample     int
	backgroundAlpha float32

	programs map[string]backend.ProgramID
}

// NewRenderer creates a renderer facade over the device.
func NewRenderer(device backend.Device, opts Options) *Renderer {
	if opts.Resolution <= 0 {
		opts.Resolution = 1
	}
	if opts.Multisample < 1 {
		opts.Multisample = 1
	}
	r := &Renderer{
		device:          device,
		screen:          Rect{W: float64(opts.Width), H: float64(opts.Height)},
		resolution:      opts.Resolution,
		multisample:     opts.Multisample,
		backgroundAlpha: opts.BackgroundAlpha,
		programs:        make(map[string]backend.ProgramID),
	}
	r.pool = NewTexturePool(device)
	r.Targets = &TargetTracker{renderer: r}
	r.Projection = &Projection{}
	r.Textures = &TextureUnitCache{device: device}
	r.Targets.BindDefault()
	return r
}

// Device returns the rendering device.
func (r *Renderer) Device() backend.Device { return r.device }

// Pool returns the render-texture pool.
func (r *Renderer) Pool() *TexturePool { return r.pool }

// Screen returns the screen rectangle in renderer units.
func (r *Renderer) Screen() Rect { return r.screen }

// Resolution returns the backbuffer resolution.
func (r *Renderer) Resolution() float64 { return r.resolution }

// Multisample returns the backbuffer sample count.
func (r *Renderer) Multisample() int { return r.multisample }

// BackgroundAlpha returns the configured background alpha.
func (r *Renderer) BackgroundAlpha() float32 { return r.backgroundAlpha }

// program returns the cached device program for the shader, compiling it
// on first use. Programs are keyed by shader name.
func (r *Renderer) program(sh Shader) (backend.ProgramID, error) {
	if id, ok := r.programs[sh.Name]; ok {
		return id, nil
	}
	id, err := r.device.CompileProgram(sh.Name, sh.Source)
	if err != nil {
		return 0, err
	}
	r.programs[sh.Name] = id
	return id, nil
}

// Projection exposes the projection transform in effect. A nil Transform
// is the identity projection.
type Projection struct {
	Transform *Matrix
}

// TargetTracker tracks the currently bound render target and its source
// and destination frames, mirroring the renderer's own frame bookkeeping.
type TargetTracker struct {
	renderer *Renderer

	// Current is the bound render texture; nil means the main backbuffer.
	Current *RenderTexture

	// SourceFrame is the renderer-space frame of the bound target.
	SourceFrame Rect

	// DestinationFrame is the frame content is written into, in the
	// bound target's local units.
	DestinationFrame Rect
}

// Bind makes tex the active render target with the given frames and
// issues the device viewport bind. A nil tex binds the main backbuffer;
// zero frames default to the texture's own frame or the screen.
func (tt *TargetTracker) Bind(tex *RenderTexture, source, dest Rect) {
	r := tt.renderer

	var resolution float64
	var id backend.TextureID
	if tex != nil {
		resolution = tex.Resolution()
		id = tex.ID()
		if source.IsEmpty() {
			if ff, ok := tex.FilterFrame(); ok {
				source = ff
			} else {
				source = Rect{W: tex.Width(), H: tex.Height()}
			}
		}
		if dest.IsEmpty() {
			dest = Rect{W: tex.Width(), H: tex.Height()}
		}
	} else {
		resolution = r.resolution
		if source.IsEmpty() {
			source = r.screen
		}
		if dest.IsEmpty() {
			dest = r.screen
		}
	}

	tt.Current = tex
	tt.SourceFrame = source
	tt.DestinationFrame = dest

	viewport := image.Rect(
		int(math.Round(dest.X*resolution)),
		int(math.Round(dest.Y*resolution)),
		int(math.Round(dest.MaxX()*resolution)),
		int(math.Round(dest.MaxY()*resolution)),
	)
	r.device.BindTarget(id, viewport)
}

// BindDefault binds the main backbuffer with the screen frames.
func (tt *TargetTracker) BindDefault() {
	tt.Bind(nil, Rect{}, Rect{})
}

// TextureUnitCache tracks which texture is bound to each texture unit so
// redundant binds are skipped.
type TextureUnitCache struct {
	device backend.Device
	units  map[int]backend.TextureID

	// CurrentLocation is the unit of the most recent bind.
	CurrentLocation int
}

// Bind binds the texture to the unit unless the cache believes it is
// already bound there.
func (c *TextureUnitCache) Bind(id backend.TextureID, unit int) {
	if c.units == nil {
		c.units = make(map[int]backend.TextureID)
	}
	if cur, ok := c.units[unit]; ok && cur == id {
		return
	}
	c.units[unit] = id
	c.CurrentLocation = unit
	c.device.BindTexture(id, unit)
}

// ForceBind binds unconditionally, bypassing the cache. GPU-side copies
// must run against the unit the copy call expects regardless of what the
// cache believes is bound there.
func (c *TextureUnitCache) ForceBind(id backend.TextureID, unit int) {
	if c.units == nil {
		c.units = make(map[int]backend.TextureID)
	}
	c.units[unit] = id
	c.CurrentLocation = unit
	c.device.BindTexture(id, unit)
}
