// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backdrop

import (
	"math"

	"github.com/gogpu/backdrop/backend"
)

// GlobalUniforms is the uniform block shared by every filter in a chain.
// The pass manager recomputes it when a region closes; ApplyFilter merges
// it into each draw call's uniforms.
type GlobalUniforms struct {
	// OutputFrame is the region's source frame in renderer space.
	OutputFrame Rect

	// InputSize holds the destination frame dimensions and their
	// reciprocals: [w, h, 1/w, 1/h].
	InputSize [4]float32

	// InputPixel holds InputSize scaled to whole device pixels and the
	// reciprocals: [pw, ph, 1/pw, 1/ph].
	InputPixel [4]float32

	// InputClamp holds half-texel insets on all four edges, used by
	// filters to avoid sampling outside the valid region:
	// [minU, minV, maxU, maxV].
	InputClamp [4]float32

	// Resolution is the region's resolved resolution.
	Resolution float32

	// Legacy marks the presence of the legacy uniform pair below.
	Legacy bool

	// FilterArea and FilterClamp serve filters written against the older
	// coordinate convention: [w, h, x, y] and the input clamp.
	FilterArea  [4]float32
	FilterClamp [4]float32
}

// update recomputes the block for a region about to close.
func (g *GlobalUniforms) update(state *FrameState) {
	g.OutputFrame = state.SourceFrame
	g.Resolution = float32(state.Resolution)

	dw := float32(state.DestinationFrame.W)
	dh := float32(state.DestinationFrame.H)
	g.InputSize = [4]float32{dw, dh, 1 / dw, 1 / dh}

	pw := float32(math.Round(state.DestinationFrame.W * state.Resolution))
	ph := float32(math.Round(state.DestinationFrame.H * state.Resolution))
	g.InputPixel = [4]float32{pw, ph, 1 / pw, 1 / ph}

	g.InputClamp = [4]float32{
		0.5 * g.InputPixel[2],
		0.5 * g.InputPixel[3],
		float32(state.SourceFrame.W)*g.InputSize[2] - 0.5*g.InputPixel[2],
		float32(state.SourceFrame.H)*g.InputSize[3] - 0.5*g.InputPixel[3],
	}

	g.Legacy = state.Legacy
	if state.Legacy {
		g.FilterArea = [4]float32{
			dw, dh,
			float32(state.SourceFrame.X), float32(state.SourceFrame.Y),
		}
		g.FilterClamp = g.InputClamp
	}
}

// writeTo merges the block into a draw call's uniform map. The legacy
// pair is written only when at least one filter in the chain declared the
// legacy convention.
func (g *GlobalUniforms) writeTo(u backend.Uniforms) {
	u["outputFrame"] = [4]float32{
		float32(g.OutputFrame.X), float32(g.OutputFrame.Y),
		float32(g.OutputFrame.W), float32(g.OutputFrame.H),
	}
	u["inputSize"] = g.InputSize
	u["inputPixel"] = g.InputPixel
	u["inputClamp"] = g.InputClamp
	u["resolution"] = g.Resolution
	if g.Legacy {
		u["filterArea"] = g.FilterArea
		u["filterClamp"] = g.FilterClamp
	}
}
