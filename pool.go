// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backdrop

import (
	"math"

	"github.com/gogpu/backdrop/backend"
	"github.com/gogpu/gputypes"
)

// poolKey identifies a bucket of identical texture specifications.
type poolKey struct {
	width       int
	height      int
	multisample int
}

// TexturePool manages reusable render textures for filtered regions.
//
// Requested logical sizes are scaled to device pixels and rounded up to
// the next power of two, so textures of similar size share buckets and a
// region's destination frame may exceed its source frame. Returned
// textures keep their physical pixels and are retagged with the next
// request's resolution.
//
// The pool tracks acquire-minus-return in Outstanding, which must come
// back to zero after every open/close cycle of the pass manager.
type TexturePool struct {
	device      backend.Device
	buckets     map[poolKey][]*RenderTexture
	format      gputypes.TextureFormat
	outstanding int
}

// NewTexturePool creates a texture pool allocating through the device.
func NewTexturePool(device backend.Device) *TexturePool {
	return &TexturePool{
		device:  device,
		buckets: make(map[poolKey][]*RenderTexture),
		format:  gputypes.TextureFormatRGBA8Unorm,
	}
}

// GetOptimal returns the smallest pooled texture satisfying the request,
// or allocates a new one. minWidth and minHeight are logical renderer
// units; the physical size is their pixel size rounded up to powers of
// two. The returned texture's resolution tag matches the request.
func (p *TexturePool) GetOptimal(minWidth, minHeight, resolution float64, multisample int) (*RenderTexture, error) {
	if resolution <= 0 {
		resolution = 1
	}
	if multisample < 1 {
		multisample = 1
	}

	pw := nextPow2(int(math.Ceil(minWidth*resolution - ceilEps)))
	ph := nextPow2(int(math.Ceil(minHeight*resolution - ceilEps)))
	key := poolKey{width: pw, height: ph, multisample: multisample}

	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		tex := bucket[n-1]
		p.buckets[key] = bucket[:n-1]
		tex.resolution = 1
		tex.SetResolution(resolution)
		p.outstanding++
		return tex, nil
	}

	id, err := p.device.CreateTexture(pw, ph, multisample, p.format)
	if err != nil {
		return nil, err
	}
	tex := &RenderTexture{
		id:          id,
		pixelWidth:  pw,
		pixelHeight: ph,
		resolution:  1,
		multisample: multisample,
		format:      p.format,
		poolKey:     key,
	}
	tex.SetResolution(resolution)
	p.outstanding++
	return tex, nil
}

// Return makes a texture reusable. The filter-frame tag is cleared so a
// reused texture never leaks a prior region's frame.
func (p *TexturePool) Return(tex *RenderTexture) {
	if tex == nil {
		return
	}
	tex.ClearFilterFrame()
	p.outstanding--
	p.buckets[tex.poolKey] = append(p.buckets[tex.poolKey], tex)
}

// Outstanding returns the number of textures currently acquired and not
// yet returned.
func (p *TexturePool) Outstanding() int { return p.outstanding }

// Close destroys all pooled textures on the device. Outstanding textures
// are not tracked individually and must be returned first.
func (p *TexturePool) Close() {
	for key, bucket := range p.buckets {
		for _, tex := range bucket {
			p.device.DestroyTexture(tex.id)
		}
		delete(p.buckets, key)
	}
}

// nextPow2 returns the next power of two >= v (minimum 1).
func nextPow2(v int) int {
	if v <= 1 {
		return 1
	}
	n := 1
	for n < v {
		n <<= 1
	}
	return n
}
