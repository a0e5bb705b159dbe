// Package wgpu provides a GPU device for the backdrop pass manager using
// WebGPU via the gogpu/wgpu HAL.
//
// The device compiles the blend shader from WGSL to SPIR-V with
// gogpu/naga and builds its compute pipeline and bind group layouts up
// front. Pixel traffic (texture storage, framebuffer copies, pass
// results) is mirrored on a CPU device until the HAL exposes the
// texture-binding extensions required for full GPU dispatch, so results
// stay correct while the dispatch path lands.
package wgpu
