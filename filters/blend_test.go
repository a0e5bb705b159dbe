// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package filters

import (
	"image/color"
	"testing"

	"github.com/gogpu/backdrop"
	"github.com/gogpu/backdrop/backend"
)

// region is a minimal filterable target for the integration tests.
type region struct {
	bounds backdrop.Rect
}

func (r *region) Bounds() backdrop.Rect { return r.bounds }

func (r *region) FilterArea() (backdrop.Rect, bool) { return backdrop.Rect{}, false }

func TestNewBlendSettings(t *testing.T) {
	f := NewBlend(backend.BlendMultiply, 4)
	s := f.Settings()

	if s.AutoFit {
		t.Error("backdrop filters must not autofit")
	}
	if !s.Normalized {
		t.Error("blend filter should use the normalized uniform convention")
	}
	if s.BackdropUniformName != BackdropUniform {
		t.Errorf("backdrop uniform = %q, want %q", s.BackdropUniformName, BackdropUniform)
	}
	if s.Padding != 4 {
		t.Errorf("padding = %v, want 4", s.Padding)
	}
	sh := f.Shader()
	if sh.Name != backend.ProgramBackdropBlend {
		t.Errorf("shader name = %q, want %q", sh.Name, backend.ProgramBackdropBlend)
	}
	if sh.Source == "" {
		t.Error("shader source is empty")
	}
}

func TestBlendModeAccessors(t *testing.T) {
	f := NewBlend(backend.BlendScreen, 0)
	if got := f.Mode(); got != backend.BlendScreen {
		t.Errorf("Mode() = %v, want Screen", got)
	}
	f.SetMode(backend.BlendDarken)
	if got := f.Mode(); got != backend.BlendDarken {
		t.Errorf("Mode() = %v, want Darken", got)
	}
}

func TestNewPassthroughSettings(t *testing.T) {
	f := NewPassthrough()
	s := f.Settings()
	if !s.Trivial {
		t.Error("passthrough must declare itself trivial")
	}
	if !s.AutoFit || !s.Normalized {
		t.Error("passthrough should autofit and use normalized uniforms")
	}
	if s.BackdropUniformName != "" {
		t.Error("passthrough must not request a backdrop")
	}
	if f.Shader().Name != ProgramPassthrough {
		t.Errorf("shader name = %q, want %q", f.Shader().Name, ProgramPassthrough)
	}
}

// TestBlendOverBackbuffer runs a full open/close cycle against the
// software device and checks that the blended region composites back
// into the backbuffer without leaking pooled textures.
func TestBlendOverBackbuffer(t *testing.T) {
	dev := backend.NewSoftwareDevice()
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	r := backdrop.NewRenderer(dev, backdrop.Options{Width: 64, Height: 64})
	pm := backdrop.NewPassManager(r, backdrop.Config{})

	// Paint the scene behind the filtered region.
	dev.Clear(0.5, 0, 0, 1)
	before := dev.Backbuffer().RGBAAt(20, 20)
	if before.A != 255 {
		t.Fatalf("backbuffer not painted: %v", before)
	}

	target := &region{bounds: backdrop.NewRect(16, 16, 16, 16)}
	f := NewBlend(backend.BlendMultiply, 0)

	if err := pm.Push(target, []backdrop.Filter{f}); err != nil {
		t.Fatalf("Push: %v", err)
	}
	// The region's content stays empty: a transparent source leaves the
	// blend result equal to the captured backdrop.
	if err := pm.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}

	if got := r.Pool().Outstanding(); got != 0 {
		t.Errorf("outstanding = %d, want 0", got)
	}
	if len(f.Uniforms()) != 1 {
		t.Errorf("uniforms after pop = %v, want only uBlendMode", f.Uniforms())
	}

	after := dev.Backbuffer().RGBAAt(20, 20)
	if after != before {
		t.Errorf("blending transparency over the backdrop changed pixel: %v -> %v", before, after)
	}
	outside := dev.Backbuffer().RGBAAt(2, 2)
	if outside != (color.RGBA{R: 128, A: 255}) {
		t.Errorf("pixel outside the region = %v, want untouched red", outside)
	}
}

// TestBlendOverTwoToneBackbuffer checks the captured backdrop is the
// content actually behind the region, not its vertical mirror.
func TestBlendOverTwoToneBackbuffer(t *testing.T) {
	dev := backend.NewSoftwareDevice()
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	r := backdrop.NewRenderer(dev, backdrop.Options{Width: 64, Height: 64})
	pm := backdrop.NewPassManager(r, backdrop.Config{})

	// Red top half, green bottom half.
	img := dev.Backbuffer()
	for y := 0; y < 64; y++ {
		c := color.RGBA{R: 255, A: 255}
		if y >= 32 {
			c = color.RGBA{G: 255, A: 255}
		}
		for x := 0; x < 64; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	target := &region{bounds: backdrop.NewRect(16, 16, 16, 16)}
	f := NewBlend(backend.BlendMultiply, 0)
	if err := pm.Push(target, []backdrop.Filter{f}); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := pm.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}

	// A transparent source blends to the backdrop itself. The region
	// sits entirely in the red half, so its pixels must stay red; green
	// showing up means the capture sampled the mirrored rows.
	if got := dev.Backbuffer().RGBAAt(20, 20); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel inside the region = %v, want the red behind it", got)
	}
	if got := dev.Backbuffer().RGBAAt(20, 40); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel below the region = %v, want untouched green", got)
	}
	if got := r.Pool().Outstanding(); got != 0 {
		t.Errorf("outstanding = %d, want 0", got)
	}
}

// TestPassthroughElided verifies a trailing passthrough costs no extra
// pass but still contributes its draw state.
func TestPassthroughElided(t *testing.T) {
	dev := backend.NewSoftwareDevice()
	if err := dev.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	r := backdrop.NewRenderer(dev, backdrop.Options{Width: 64, Height: 64})
	pm := backdrop.NewPassManager(r, backdrop.Config{})

	blend := NewBlend(backend.BlendNormal, 0)
	pass := NewPassthrough()
	passState := pass.State()

	target := &region{bounds: backdrop.NewRect(8, 8, 16, 16)}
	if err := pm.Push(target, []backdrop.Filter{blend, pass}); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if err := pm.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}

	if blend.State() != passState {
		t.Error("elided passthrough's state not attached to the previous filter")
	}
	if got := r.Pool().Outstanding(); got != 0 {
		t.Errorf("outstanding = %d, want 0", got)
	}
}
