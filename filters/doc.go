// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package filters provides ready-made filters for the backdrop pass
// manager.
//
// Blend composites a region over the pixels already rendered behind it
// using a separable blend mode (multiply, screen, overlay, ...). It is
// the canonical consumer of the backdrop capture path: it declares a
// backdrop uniform and receives the snapshot and its flip descriptor on
// every Apply.
//
// Passthrough renders its input unchanged. It is useful to force an
// extra resolve step in a chain; when it appears last in a chain the
// pass manager elides it and attaches its draw state to the previous
// filter instead.
package filters
