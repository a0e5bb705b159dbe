// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backdrop

import (
	"math"
	"testing"

	"github.com/gogpu/backdrop/backend"
)

func floatEq(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}

func TestGlobalUniformsUpdate(t *testing.T) {
	state := &FrameState{
		SourceFrame:      NewRect(10, 20, 100, 50),
		DestinationFrame: NewRect(0, 0, 128, 64),
		Resolution:       2,
	}

	var g GlobalUniforms
	g.update(state)

	if g.OutputFrame != state.SourceFrame {
		t.Errorf("OutputFrame = %+v", g.OutputFrame)
	}
	if g.Resolution != 2 {
		t.Errorf("Resolution = %v", g.Resolution)
	}
	if want := [4]float32{128, 64, 1.0 / 128, 1.0 / 64}; g.InputSize != want {
		t.Errorf("InputSize = %v, want %v", g.InputSize, want)
	}
	if want := [4]float32{256, 128, 1.0 / 256, 1.0 / 128}; g.InputPixel != want {
		t.Errorf("InputPixel = %v, want %v", g.InputPixel, want)
	}

	// Half-texel insets around the valid content region.
	if !floatEq(g.InputClamp[0], 0.5/256) || !floatEq(g.InputClamp[1], 0.5/128) {
		t.Errorf("InputClamp min = %v", g.InputClamp)
	}
	if !floatEq(g.InputClamp[2], 100.0/128-0.5/256) || !floatEq(g.InputClamp[3], 50.0/64-0.5/128) {
		t.Errorf("InputClamp max = %v", g.InputClamp)
	}
	if g.Legacy {
		t.Error("Legacy set without a legacy chain")
	}
}

func TestGlobalUniformsLegacyPair(t *testing.T) {
	state := &FrameState{
		SourceFrame:      NewRect(10, 20, 100, 50),
		DestinationFrame: NewRect(0, 0, 128, 64),
		Resolution:       1,
		Legacy:           true,
	}

	var g GlobalUniforms
	g.update(state)

	if !g.Legacy {
		t.Fatal("Legacy not carried over")
	}
	if want := [4]float32{128, 64, 10, 20}; g.FilterArea != want {
		t.Errorf("FilterArea = %v, want %v", g.FilterArea, want)
	}
	if g.FilterClamp != g.InputClamp {
		t.Errorf("FilterClamp = %v, want InputClamp %v", g.FilterClamp, g.InputClamp)
	}
}

func TestGlobalUniformsWriteTo(t *testing.T) {
	state := &FrameState{
		SourceFrame:      NewRect(10, 20, 100, 50),
		DestinationFrame: NewRect(0, 0, 128, 64),
		Resolution:       1,
	}

	var g GlobalUniforms
	g.update(state)

	u := make(backend.Uniforms)
	g.writeTo(u)

	for _, key := range []string{"outputFrame", "inputSize", "inputPixel", "inputClamp", "resolution"} {
		if _, ok := u[key]; !ok {
			t.Errorf("missing uniform %q", key)
		}
	}
	if of := u["outputFrame"].([4]float32); of != [4]float32{10, 20, 100, 50} {
		t.Errorf("outputFrame = %v", of)
	}
	if _, ok := u["filterArea"]; ok {
		t.Error("filterArea written for a non-legacy chain")
	}

	g.Legacy = true
	g.FilterArea = [4]float32{128, 64, 10, 20}
	g.writeTo(u)
	if _, ok := u["filterArea"]; !ok {
		t.Error("filterArea missing for a legacy chain")
	}
	if _, ok := u["filterClamp"]; !ok {
		t.Error("filterClamp missing for a legacy chain")
	}
}
