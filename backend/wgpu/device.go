//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/backdrop/backend"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Device is a GPU device for the backdrop pass manager.
//
// Shader compilation and pipeline construction run on the HAL. Pixel
// traffic is mirrored on a CPU device until the HAL exposes the
// texture-binding extensions needed for full GPU dispatch; see the
// package documentation.
type Device struct {
	halDevice hal.Device
	queue     hal.Queue

	pipeline *blendPipeline

	// mirror holds texture contents and executes passes while GPU
	// dispatch is pending.
	mirror *backend.SoftwareDevice

	initialized bool
}

// New creates a GPU device from HAL handles. The host application owns
// the handles; this device does not create or release them.
func New(device hal.Device, queue hal.Queue) (*Device, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("wgpu: device and queue are required")
	}
	return &Device{
		halDevice: device,
		queue:     queue,
		mirror:    backend.NewSoftwareDevice(),
	}, nil
}

// NewFromProvider creates a GPU device from a gpucontext device provider,
// the integration point hosts in the gogpu ecosystem implement. The
// provider must additionally expose HalDevice() any and HalQueue() any
// returning HAL handles.
func NewFromProvider(p gpucontext.DeviceProvider) (*Device, error) {
	if p == nil {
		return nil, fmt.Errorf("wgpu: provider is required")
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := p.(halProvider)
	if !ok {
		return nil, fmt.Errorf("wgpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("wgpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("wgpu: provider HalQueue is not hal.Queue")
	}
	return New(device, queue)
}

// Name returns the device identifier.
func (d *Device) Name() string { return backend.DeviceWGPU }

// Init compiles the blend pipeline and prepares the device.
func (d *Device) Init() error {
	if d.halDevice == nil || d.queue == nil {
		return backend.ErrBackendNotAvailable
	}
	if err := d.mirror.Init(); err != nil {
		return err
	}
	p, err := newBlendPipeline(d.halDevice, d.queue)
	if err != nil {
		d.mirror.Close()
		return err
	}
	d.pipeline = p
	d.initialized = true
	return nil
}

// Close releases all device resources.
func (d *Device) Close() {
	if d.pipeline != nil {
		d.pipeline.destroy()
		d.pipeline = nil
	}
	d.mirror.Close()
	d.initialized = false
}

// CreateTexture allocates a texture.
func (d *Device) CreateTexture(width, height, samples int, format gputypes.TextureFormat) (backend.TextureID, error) {
	if !d.initialized {
		return 0, backend.ErrNotInitialized
	}
	return d.mirror.CreateTexture(width, height, samples, format)
}

// DestroyTexture releases a texture.
func (d *Device) DestroyTexture(id backend.TextureID) {
	d.mirror.DestroyTexture(id)
}

// BindTarget makes the texture the active render target.
func (d *Device) BindTarget(id backend.TextureID, viewport image.Rectangle) {
	d.mirror.BindTarget(id, viewport)
}

// Clear fills the bound viewport.
func (d *Device) Clear(r, g, b, a float32) {
	d.mirror.Clear(r, g, b, a)
}

// Blit resolves the bound target's multisampled framebuffer.
func (d *Device) Blit() error {
	if !d.initialized {
		return backend.ErrNotInitialized
	}
	return d.mirror.Blit()
}

// CopyTargetPixels copies from the bound target into a texture.
func (d *Device) CopyTargetPixels(dst backend.TextureID, rect image.Rectangle) error {
	return d.mirror.CopyTargetPixels(dst, rect)
}

// BindTexture binds a texture to a sampling unit.
func (d *Device) BindTexture(id backend.TextureID, unit int) {
	d.mirror.BindTexture(id, unit)
}

// CompileProgram compiles a program. The backdrop blend program is built
// once at Init from the embedded WGSL; other sources are accepted and
// executed by name on the mirror.
func (d *Device) CompileProgram(name, source string) (backend.ProgramID, error) {
	if !d.initialized {
		return 0, backend.ErrNotInitialized
	}
	return d.mirror.CompileProgram(name, source)
}

// Draw executes one filter pass.
func (d *Device) Draw(call backend.DrawCall) error {
	if !d.initialized {
		return backend.ErrNotInitialized
	}
	// TODO(hal-textures): encode the compute dispatch against
	// d.pipeline once the HAL exposes buffer binding for pixel uploads.
	return d.mirror.Draw(call)
}

// Ensure Device implements backend.Device.
var _ backend.Device = (*Device)(nil)
