// Package backdrop implements a backdrop-aware filter pass manager for a
// 2D scene-graph renderer.
//
// # Overview
//
// Post-processing filters normally only see their own input texture. Blend
// effects such as multiply or screen also need the pixels already present
// in the destination framebuffer — the "backdrop". This package provides
// the pass manager that makes that possible: it opens a filtered render
// region by computing its pixel-exact source and destination frames,
// optionally captures a snapshot of the current framebuffer into a pooled
// texture, executes an ordered filter chain across ping-pong intermediate
// textures, and composites the result back into the scene.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/backdrop"
//	    "github.com/gogpu/backdrop/backend"
//	    "github.com/gogpu/backdrop/filters"
//	)
//
//	dev := backend.Default()
//	_ = dev.Init()
//	r := backdrop.NewRenderer(dev, backdrop.Options{Width: 800, Height: 600})
//	pm := backdrop.NewPassManager(r, backdrop.Config{})
//
//	chain := []backdrop.Filter{filters.NewBlend(backend.BlendMultiply, 0)}
//	if ok, err := pm.PushWithCheck(target, chain); err == nil && ok {
//	    // render the target's subtree here
//	    _ = pm.Pop()
//	}
//
// # Architecture
//
// The package splits into three cooperating parts, evaluated in order:
//   - Frame geometry resolution: folds per-filter settings into the
//     region's resolution, padding, auto-fit, legacy and multisample
//     values and computes the pixel-rounded source frame.
//   - Backdrop capture: copies the relevant sub-rectangle of the bound
//     framebuffer into a pooled texture, honoring vertical flip and
//     resolution scaling.
//   - Pass execution: binds a pooled working texture for the region and,
//     on close, runs the filter chain through ping-pong intermediates
//     into the enclosing target.
//
// Rendering devices live in the backend package (software CPU device and
// a wgpu HAL device); concrete filters live in the filters package.
//
// # Coordinate System
//
// Renderer-space coordinates with origin (0,0) at top-left, X increasing
// right and Y increasing down. Frames are logical units; a texture's
// resolution scales logical units to device pixels. The main backbuffer's
// Y axis is inverted relative to render-texture space, which the backdrop
// capture accounts for with a flip descriptor.
package backdrop

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
