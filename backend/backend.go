// Package backend provides rendering device abstractions for the
// backdrop pass manager, allowing the library to support multiple
// implementations (software, GPU via wgpu).
//
// Devices must be registered via Register() and are selected via Get()
// or Default().
package backend

import (
	"errors"
	"image"

	"github.com/gogpu/gputypes"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not
	// available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrUnknownTexture is returned when an operation references a
	// texture the device did not create.
	ErrUnknownTexture = errors.New("backend: unknown texture")

	// ErrUnknownProgram is returned when a draw references a program the
	// device did not compile.
	ErrUnknownProgram = errors.New("backend: unknown program")
)

// TextureID identifies a device texture. The zero value stands for the
// main backbuffer in target binds and for "no texture" elsewhere.
type TextureID uint32

// ProgramID identifies a compiled device program.
type ProgramID uint32

// Uniforms is the flattened uniform set of one draw call. Texture-valued
// uniforms arrive as TextureID.
type Uniforms map[string]any

// DrawCall is a single filter pass.
type DrawCall struct {
	// Program is the compiled program to run.
	Program ProgramID

	// Input is the texture sampled as the pass's primary input.
	Input TextureID

	// SrcRect is the content region of Input, in input pixels.
	SrcRect image.Rectangle

	// DstRect is the region written in the bound target, in target
	// pixels.
	DstRect image.Rectangle

	// Uniforms carries the filter's uniforms merged with the pass
	// manager's shared block.
	Uniforms Uniforms

	// Composite blends the result over the existing target content
	// instead of replacing it.
	Composite bool
}

// Device is the interface rendering devices implement. Every operation
// executes synchronously against the device's command stream; the device
// never retains slices passed to it.
type Device interface {
	// Name returns the device identifier (e.g. "software", "wgpu").
	Name() string

	// Init initializes the device. It must be called before any other
	// operation.
	Init() error

	// Close releases all device resources. The device must not be used
	// after Close.
	Close()

	// CreateTexture allocates a texture of the given pixel size, sample
	// count and format, usable both as a render target and a sampling
	// source.
	CreateTexture(width, height, samples int, format gputypes.TextureFormat) (TextureID, error)

	// DestroyTexture releases a texture.
	DestroyTexture(id TextureID)

	// BindTarget makes the texture the active render target with the
	// given pixel viewport. The zero id binds the main backbuffer.
	BindTarget(id TextureID, viewport image.Rectangle)

	// Clear fills the bound target's viewport with the color
	// (premultiplied, components in [0, 1]).
	Clear(r, g, b, a float32)

	// Blit resolves the bound target's multisampled framebuffer into its
	// single-sample surface. Devices without multisampled targets may
	// treat it as a no-op.
	Blit() error

	// CopyTargetPixels copies rect (in device pixels) from the currently
	// bound target into the destination texture at origin.
	CopyTargetPixels(dst TextureID, rect image.Rectangle) error

	// BindTexture binds a texture to a sampling unit.
	BindTexture(id TextureID, unit int)

	// CompileProgram compiles a program from WGSL source. name is the
	// caching key and identifies the program's semantics to devices that
	// execute on the CPU.
	CompileProgram(name, source string) (ProgramID, error)

	// Draw executes one full-viewport filter pass against the bound
	// target.
	Draw(call DrawCall) error
}
