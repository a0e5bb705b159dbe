// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package filters

import (
	_ "embed"

	"github.com/gogpu/backdrop"
)

//go:embed shaders/passthrough.wgsl
var passthroughShaderWGSL string

// ProgramPassthrough is the program name of the passthrough shader.
const ProgramPassthrough = "passthrough"

// Passthrough copies its input unchanged. Appending one to a chain
// forces an extra resolve; when it ends a chain the pass manager elides
// it and hands its draw state to the previous filter.
type Passthrough struct {
	backdrop.BaseFilter
}

// NewPassthrough creates a passthrough filter.
func NewPassthrough() *Passthrough {
	return &Passthrough{
		BaseFilter: backdrop.NewBaseFilter(
			backdrop.Settings{
				AutoFit:    true,
				Normalized: true,
				Trivial:    true,
			},
			backdrop.Shader{
				Name:   ProgramPassthrough,
				Source: passthroughShaderWGSL,
			},
		),
	}
}

// Apply renders input into output through the pass manager.
func (f *Passthrough) Apply(pm *backdrop.PassManager, input, output *backdrop.RenderTexture, clear backdrop.ClearMode, _ *backdrop.FrameState) error {
	return pm.ApplyFilter(f, input, output, clear)
}

var _ backdrop.Filter = (*Passthrough)(nil)
