// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package filters

import (
	_ "embed"

	"github.com/gogpu/backdrop"
	"github.com/gogpu/backdrop/backend"
)

//go:embed shaders/blend.wgsl
var blendShaderWGSL string

// BackdropUniform is the uniform name the Blend filter declares for its
// backdrop snapshot. The pass manager also writes the flip descriptor
// under BackdropUniform + "_flipY".
const BackdropUniform = "uBackdrop"

// Blend composites the filtered region over the pixels rendered behind
// it using a separable blend mode. The region's source frame must stay
// inside the render target for the snapshot to succeed; Blend therefore
// declares AutoFit false and accepts the clipped-frame tradeoff.
type Blend struct {
	backdrop.BaseFilter
}

// NewBlend creates a blend filter with the given mode and padding. The
// padding expands the region so the blend covers anti-aliased fringes at
// the region's edge.
func NewBlend(mode backend.BlendMode, padding float64) *Blend {
	f := &Blend{
		BaseFilter: backdrop.NewBaseFilter(
			backdrop.Settings{
				Padding:             padding,
				Normalized:          true,
				BackdropUniformName: BackdropUniform,
			},
			backdrop.Shader{
				Name:   backend.ProgramBackdropBlend,
				Source: blendShaderWGSL,
			},
		),
	}
	f.Uniforms()["uBlendMode"] = mode
	return f
}

// SetMode changes the blend mode for subsequent passes.
func (f *Blend) SetMode(mode backend.BlendMode) {
	f.Uniforms()["uBlendMode"] = mode
}

// Mode returns the current blend mode.
func (f *Blend) Mode() backend.BlendMode {
	mode, _ := f.Uniforms()["uBlendMode"].(backend.BlendMode)
	return mode
}

// Apply renders input into output through the pass manager.
func (f *Blend) Apply(pm *backdrop.PassManager, input, output *backdrop.RenderTexture, clear backdrop.ClearMode, _ *backdrop.FrameState) error {
	return pm.ApplyFilter(f, input, output, clear)
}

var _ backdrop.Filter = (*Blend)(nil)
