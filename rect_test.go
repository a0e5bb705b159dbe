// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backdrop

import (
	"math"
	"testing"
)

func TestRectPad(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		p    float64
		want Rect
	}{
		{"expand", NewRect(10, 10, 20, 20), 5, NewRect(5, 5, 30, 30)},
		{"zero", NewRect(10, 10, 20, 20), 0, NewRect(10, 10, 20, 20)},
		{"shrink", NewRect(10, 10, 20, 20), -2, NewRect(12, 12, 16, 16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Pad(tt.p); got != tt.want {
				t.Errorf("Pad(%v) = %+v, want %+v", tt.p, got, tt.want)
			}
		})
	}
}

func TestRectFit(t *testing.T) {
	bounds := NewRect(0, 0, 100, 100)
	tests := []struct {
		name string
		r    Rect
		want Rect
	}{
		{"contained", NewRect(10, 10, 20, 20), NewRect(10, 10, 20, 20)},
		{"overhanging", NewRect(90, 90, 30, 30), NewRect(90, 90, 10, 10)},
		{"disjoint keeps origin with zero size", NewRect(200, 200, 10, 10), NewRect(200, 200, 0, 0)},
		{"touching edge is empty", NewRect(100, 50, 10, 10), NewRect(100, 50, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Fit(bounds); got != tt.want {
				t.Errorf("Fit = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRectCeil(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		res  float64
		want Rect
	}{
		{"on grid unchanged", NewRect(10, 10, 20, 20), 1, NewRect(10, 10, 20, 20)},
		{"fractional grows", NewRect(10.3, 10.7, 20.2, 19.5), 1, NewRect(10, 10, 21, 21)},
		{"subpixel becomes one pixel", NewRect(0, 0, 0.4, 0.4), 1, NewRect(0, 0, 1, 1)},
		{"half resolution", NewRect(10.5, 10.5, 20, 20), 2, NewRect(10.5, 10.5, 20, 20)},
		{"half resolution grows", NewRect(10.3, 10.3, 20, 20), 2, NewRect(10, 10, 20.5, 20.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.r.Ceil(tt.res)
			if got != tt.want {
				t.Errorf("Ceil(%v) = %+v, want %+v", tt.res, got, tt.want)
			}
			if again := got.Ceil(tt.res); again != got {
				t.Errorf("Ceil is not idempotent: %+v -> %+v", got, again)
			}
			// The result must cover the original and grow less than one
			// pixel per edge.
			if got.X > tt.r.X+ceilEps || got.MaxX() < tt.r.MaxX()-ceilEps {
				t.Errorf("Ceil does not cover the original on X: %+v vs %+v", got, tt.r)
			}
			if got.W-tt.r.W >= 2/tt.res {
				t.Errorf("Ceil grew width by %v, limit %v", got.W-tt.r.W, 2/tt.res)
			}
		})
	}
}

func TestRectCeilFloatNoise(t *testing.T) {
	// Frames arriving with float noise just below a grid line must not
	// grow a pixel.
	r := NewRect(10-1e-9, 10, 20+2e-9, 20)
	got := r.Ceil(1)
	if got != NewRect(10, 10, 20, 20) {
		t.Errorf("Ceil with float noise = %+v", got)
	}
}

func TestRectContains(t *testing.T) {
	outer := NewRect(0, 0, 100, 100)
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"inside", NewRect(10, 10, 20, 20), true},
		{"equal", NewRect(0, 0, 100, 100), true},
		{"overhangs right", NewRect(90, 10, 20, 20), false},
		{"outside", NewRect(200, 200, 10, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.Contains(tt.r); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	r := NewRect(0, 0, 100, 100)
	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping", NewRect(50, 50, 100, 100), true},
		{"contained", NewRect(10, 10, 20, 20), true},
		{"touching edge", NewRect(100, 0, 10, 10), false},
		{"disjoint", NewRect(200, 200, 10, 10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
		})
	}
}

func TestRectIsEmpty(t *testing.T) {
	if !(Rect{}).IsEmpty() {
		t.Error("zero rect should be empty")
	}
	if !(Rect{X: 5, Y: 5, W: 10}).IsEmpty() {
		t.Error("zero-height rect should be empty")
	}
	if NewRect(0, 0, 1, 1).IsEmpty() {
		t.Error("1x1 rect should not be empty")
	}
}

func TestMatrixApplyAndMul(t *testing.T) {
	m := Translate(10, 20).Mul(Scale(2, 3))
	x, y := m.Apply(1, 1)
	if x != 12 || y != 23 {
		t.Errorf("Apply = (%v, %v), want (12, 23)", x, y)
	}
}

func TestMatrixInvert(t *testing.T) {
	m := Translate(10, 20).Mul(Scale(2, 3))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("invertible matrix reported singular")
	}
	x, y := inv.Apply(m.Apply(7, -4))
	if math.Abs(x-7) > 1e-12 || math.Abs(y-(-4)) > 1e-12 {
		t.Errorf("round trip = (%v, %v), want (7, -4)", x, y)
	}

	if _, ok := (Matrix{}).Invert(); ok {
		t.Error("singular matrix reported invertible")
	}
}

func TestMatrixTransformRect(t *testing.T) {
	m := Scale(2, 2)
	got := m.TransformRect(NewRect(1, 1, 2, 3))
	if got != NewRect(2, 2, 4, 6) {
		t.Errorf("TransformRect = %+v", got)
	}

	// A flip must still yield a well-formed AABB.
	flip := Scale(-1, 1)
	got = flip.TransformRect(NewRect(1, 0, 2, 2))
	if got != NewRect(-3, 0, 2, 2) {
		t.Errorf("flipped TransformRect = %+v", got)
	}
}
