// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backdrop

import (
	"errors"
	"image"
	"math"

	"github.com/gogpu/backdrop/backend"
)

// Pass manager errors.
var (
	// ErrEmptyChain is returned when a region is opened with no filters.
	ErrEmptyChain = errors.New("backdrop: filter chain is empty")

	// ErrNoActiveRegion is returned by Pop when no region is open.
	ErrNoActiveRegion = errors.New("backdrop: no active filtered region")
)

// Config configures a PassManager.
type Config struct {
	// PaddingPolicy selects how per-filter paddings combine (PaddingMax
	// by default). The policy is fixed per manager, not per call.
	PaddingPolicy PaddingPolicy
}

// PassManager opens and closes filtered render regions.
//
// Opening a region resolves its frame geometry, optionally captures a
// backdrop snapshot, binds a pooled working texture as the render target
// and clears it. Closing a region executes the filter chain through
// ping-pong intermediates into the enclosing target and returns every
// pooled resource.
//
// Regions nest strictly (LIFO): a region's close must follow the close of
// every region opened after it. The manager is single-threaded and issues
// its device commands synchronously.
type PassManager struct {
	renderer *Renderer
	cfg      Config

	// stack holds one state per open region plus a sentinel bottom entry
	// standing for the screen (its RenderTexture is nil).
	stack  []*FrameState
	states frameStatePool

	// active is the state uniforms are computed against while a region
	// closes.
	active *FrameState

	globals GlobalUniforms

	warnedOpaqueBackbuffer bool
}

// NewPassManager creates a pass manager operating on the renderer's
// device, pool, target tracker, projection and texture-unit cache.
func NewPassManager(r *Renderer, cfg Config) *PassManager {
	return &PassManager{
		renderer: r,
		cfg:      cfg,
		stack:    []*FrameState{{}},
	}
}

// Depth returns the number of currently open regions.
func (pm *PassManager) Depth() int { return len(pm.stack) - 1 }

// Globals returns the uniform block computed for the region currently
// closing. Filters read it through ApplyFilter; it is exposed for custom
// Apply implementations.
func (pm *PassManager) Globals() *GlobalUniforms { return &pm.globals }

// Renderer returns the renderer facade the manager operates on.
func (pm *PassManager) Renderer() *Renderer { return pm.renderer }

// Push opens a filtered region for target unconditionally. The chain must
// not be empty.
func (pm *PassManager) Push(target Target, filters []Filter) error {
	_, err := pm.push(target, filters, false)
	return err
}

// PushWithCheck opens a filtered region for target unless its rounded
// source frame is empty (at most 1x1), in which case no state is pushed,
// no resource is acquired and false is returned; the caller must skip
// rendering the target's filters entirely.
func (pm *PassManager) PushWithCheck(target Target, filters []Filter) (bool, error) {
	return pm.push(target, filters, true)
}

func (pm *PassManager) push(target Target, filters []Filter, checkEmptyBounds bool) (bool, error) {
	if len(filters) == 0 {
		return false, ErrEmptyChain
	}
	r := pm.renderer

	state := pm.states.get()
	state.Filters = filters

	pm.resolveFrame(state, target, filters)

	if checkEmptyBounds && rejected(state.SourceFrame) {
		pm.states.put(state)
		return false, nil
	}

	if state.canUseBackdrop && chainWantsBackdrop(filters) {
		tex, ok, err := pm.prepareBackdrop(state.SourceFrame, &state.BackdropFlip)
		if err != nil {
			pm.states.put(state)
			return false, err
		}
		if ok {
			state.Backdrop = tex
			// The snapshot defines the ground truth of available
			// detail; its resolution overrides the chain's.
			state.Resolution = tex.Resolution()
		}
	}

	tex, err := r.pool.GetOptimal(state.SourceFrame.W, state.SourceFrame.H, state.Resolution, state.Multisample)
	if err != nil {
		if state.Backdrop != nil {
			r.pool.Return(state.Backdrop)
		}
		pm.states.put(state)
		return false, err
	}
	state.RenderTexture = tex
	state.DestinationFrame = Rect{W: tex.Width(), H: tex.Height()}
	tex.SetFilterFrame(state.SourceFrame)

	state.BindingSourceFrame = r.Targets.SourceFrame
	state.BindingDestinationFrame = r.Targets.DestinationFrame
	state.Transform = r.Projection.Transform
	r.Projection.Transform = nil

	pm.stack = append(pm.stack, state)

	r.Targets.Bind(tex, state.SourceFrame, state.DestinationFrame)
	if state.clearColorSet {
		c := state.clearColor
		r.device.Clear(c.R, c.G, c.B, c.A)
	} else {
		r.device.Clear(0, 0, 0, 0)
	}
	return true, nil
}

// Pop closes the most recently opened region: it computes the shared
// uniform block, executes the filter chain into the enclosing target and
// returns every pooled resource. Returns ErrNoActiveRegion when no region
// is open.
func (pm *PassManager) Pop() error {
	if len(pm.stack) <= 1 {
		return ErrNoActiveRegion
	}
	r := pm.renderer

	state := pm.stack[len(pm.stack)-1]
	pm.stack = pm.stack[:len(pm.stack)-1]
	pm.active = state

	pm.globals.update(state)

	// The enclosing projection governs the composite back into the
	// parent target.
	r.Projection.Transform = state.Transform

	enclosing := pm.stack[len(pm.stack)-1]
	output := enclosing.RenderTexture // nil means the backbuffer

	var err error
	if state.RenderTexture.Multisample() > 1 {
		// Resolve before the chain reads the working texture as input.
		err = r.device.Blit()
	}

	filters := state.Filters
	if n := len(filters); n > 1 && filters[n-1].Settings().Trivial {
		// A trivial final filter would waste a full pass on a no-op.
		// Swap its renderer-visible state onto the filter that will
		// actually render last and drop it from the chain.
		prev, last := filters[n-2], filters[n-1]
		ps, ls := prev.State(), last.State()
		prev.SetState(ls)
		last.SetState(ps)
		filters = filters[:n-1]
	}

	if cerr := pm.runChain(state, filters, output); err == nil {
		err = cerr
	}

	if state.Backdrop != nil {
		r.pool.Return(state.Backdrop)
	}
	pm.active = nil
	pm.states.put(state)
	return err
}

// runChain executes the region's filters. A single filter applies
// directly from the working texture into the enclosing target; longer
// chains ping-pong between two pooled intermediates. All working textures
// are returned to the pool on every path.
func (pm *PassManager) runChain(state *FrameState, filters []Filter, output *RenderTexture) error {
	r := pm.renderer

	if len(filters) == 1 {
		err := pm.applyWithBackdrop(filters[0], state.RenderTexture, output, ClearBlend, state)
		r.pool.Return(state.RenderTexture)
		return err
	}

	flip := state.RenderTexture
	flop, err := r.pool.GetOptimal(flip.Width(), flip.Height(), state.Resolution, 1)
	if err != nil {
		r.pool.Return(flip)
		return err
	}
	if ff, ok := flip.FilterFrame(); ok {
		flop.SetFilterFrame(ff)
	}

	var firstErr error
	i := 0
	for i = 0; i < len(filters)-1; i++ {
		if i == 1 && state.Multisample > 1 {
			// The multisampled working texture is at this point the
			// ping-pong partner; it cannot serve as a plain sampling
			// source for later passes, so bring in a fresh
			// single-sample texture instead. The working texture is
			// returned after the chain.
			repl, rerr := r.pool.GetOptimal(flip.Width(), flip.Height(), state.Resolution, 1)
			if rerr != nil {
				firstErr = rerr
				break
			}
			if ff, ok := flip.FilterFrame(); ok {
				repl.SetFilterFrame(ff)
			}
			flop = repl
		}
		if aerr := pm.applyWithBackdrop(filters[i], flip, flop, ClearClear, state); aerr != nil && firstErr == nil {
			firstErr = aerr
		}
		flip, flop = flop, flip
	}

	if firstErr == nil {
		if aerr := pm.applyWithBackdrop(filters[i], flip, output, ClearBlend, state); aerr != nil {
			firstErr = aerr
		}
	}

	if i > 1 && state.Multisample > 1 {
		r.pool.Return(state.RenderTexture)
	}
	r.pool.Return(flip)
	r.pool.Return(flop)
	return firstErr
}

// applyWithBackdrop invokes one filter, exposing the region's captured
// backdrop through the filter's declared uniform for exactly the duration
// of the call.
func (pm *PassManager) applyWithBackdrop(f Filter, input, output *RenderTexture, clear ClearMode, state *FrameState) error {
	name := f.Settings().BackdropUniformName
	inject := name != "" && state.Backdrop != nil
	if inject {
		u := f.Uniforms()
		u[name] = state.Backdrop
		u[name+"_flipY"] = state.BackdropFlip
	}
	err := f.Apply(pm, input, output, clear, state)
	if inject {
		u := f.Uniforms()
		delete(u, name)
		delete(u, name+"_flipY")
	}
	return err
}

// ApplyFilter performs one standard filter pass: it binds output
// (clearing it per clear mode), merges the filter's uniforms with the
// shared uniform block, resolves texture-valued uniforms to device
// handles and submits a single draw. Filters call this from Apply.
func (pm *PassManager) ApplyFilter(f Filter, input, output *RenderTexture, clear ClearMode) error {
	r := pm.renderer

	pm.bindAndClear(output, clear)

	prog, err := r.program(f.Shader())
	if err != nil {
		return err
	}

	fu := f.Uniforms()
	u := make(backend.Uniforms, len(fu)+8)
	for k, v := range fu {
		switch t := v.(type) {
		case *RenderTexture:
			u[k] = t.ID()
		case BackdropFlip:
			u[k] = [2]float32{t.Offset, t.Sign}
		default:
			u[k] = v
		}
	}
	pm.globals.writeTo(u)

	var inputID backend.TextureID
	var srcRect image.Rectangle
	if input != nil {
		inputID = input.ID()
		srcRect = image.Rect(0, 0,
			int(math.Round(pm.globals.OutputFrame.W*input.Resolution())),
			int(math.Round(pm.globals.OutputFrame.H*input.Resolution())),
		)
	}

	// Map the region's output frame into the bound target's pixel grid,
	// mirroring the renderer's own frame bookkeeping.
	outRes := r.resolution
	if output != nil {
		outRes = output.Resolution()
	}
	of := pm.globals.OutputFrame
	sf := r.Targets.SourceFrame
	df := r.Targets.DestinationFrame
	dx := int(math.Round((of.X - sf.X + df.X) * outRes))
	dy := int(math.Round((of.Y - sf.Y + df.Y) * outRes))
	dstRect := image.Rect(dx, dy,
		dx+int(math.Round(of.W*outRes)),
		dy+int(math.Round(of.H*outRes)),
	)

	return r.device.Draw(backend.DrawCall{
		Program:   prog,
		Input:     inputID,
		SrcRect:   srcRect,
		DstRect:   dstRect,
		Uniforms:  u,
		Composite: clear == ClearBlend && f.State().Blend,
	})
}

// bindAndClear binds a pass's output target, restoring the enclosing
// binding frames when the output is the screen, and clears it when the
// mode demands it.
func (pm *PassManager) bindAndClear(output *RenderTexture, clear ClearMode) {
	r := pm.renderer

	switch {
	case output == nil:
		r.Targets.Bind(nil, pm.active.BindingSourceFrame, pm.active.BindingDestinationFrame)
	default:
		if ff, ok := output.FilterFrame(); ok {
			r.Targets.Bind(output, ff, Rect{})
		} else {
			r.Targets.Bind(output, pm.active.BindingSourceFrame, pm.active.BindingDestinationFrame)
		}
	}

	if clear == ClearClear {
		r.device.Clear(0, 0, 0, 0)
	}
}

// ForceBind binds a texture to a unit bypassing the unit cache. Exposed
// for callers that issue raw device copies.
func (pm *PassManager) ForceBind(tex *RenderTexture, unit int) {
	pm.renderer.Textures.ForceBind(tex.ID(), unit)
}

// chainWantsBackdrop reports whether any filter declares a backdrop
// uniform.
func chainWantsBackdrop(filters []Filter) bool {
	for _, f := range filters {
		if f.Settings().BackdropUniformName != "" {
			return true
		}
	}
	return false
}
