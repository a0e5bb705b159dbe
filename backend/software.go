package backend

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/gogpu/gputypes"
	xdraw "golang.org/x/image/draw"
)

// Device name constants.
const (
	// DeviceSoftware is the name of the CPU-based device.
	DeviceSoftware = "software"
	// DeviceWGPU is the name of the GPU device (gogpu/wgpu HAL).
	DeviceWGPU = "wgpu"
)

// ProgramBackdropBlend is the program name the software device executes
// as a backdrop blend pass. Programs with any other name run as a plain
// copy of their input.
const ProgramBackdropBlend = "backdrop-blend"

// softTexture is one CPU-backed texture.
type softTexture struct {
	img     *image.RGBA
	samples int
	format  gputypes.TextureFormat
}

// SoftwareDevice is a CPU-based device. Textures are *image.RGBA buffers
// with premultiplied channels; filter passes execute the blend kernels in
// this package, which makes the whole push/capture/pop pipeline testable
// pixel for pixel without a GPU.
type SoftwareDevice struct {
	initialized bool

	textures    map[TextureID]*softTexture
	nextTexture TextureID

	programs    map[ProgramID]string
	nextProgram ProgramID

	backbuffer *image.RGBA
	bound      TextureID // zero = backbuffer
	viewport   image.Rectangle

	units map[int]TextureID
}

// init registers the software device on package import.
func init() {
	Register(DeviceSoftware, func() Device {
		return NewSoftwareDevice()
	})
}

// NewSoftwareDevice creates a new CPU device. The backbuffer grows on
// demand to cover whatever viewport is bound against it.
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{}
}

// Name returns the device identifier.
func (d *SoftwareDevice) Name() string { return DeviceSoftware }

// Init initializes the device.
func (d *SoftwareDevice) Init() error {
	d.textures = make(map[TextureID]*softTexture)
	d.programs = make(map[ProgramID]string)
	d.units = make(map[int]TextureID)
	d.backbuffer = image.NewRGBA(image.Rect(0, 0, 1, 1))
	d.initialized = true
	return nil
}

// Close releases all device resources.
func (d *SoftwareDevice) Close() {
	d.textures = nil
	d.programs = nil
	d.units = nil
	d.backbuffer = nil
	d.initialized = false
}

// CreateTexture allocates a CPU texture.
func (d *SoftwareDevice) CreateTexture(width, height, samples int, format gputypes.TextureFormat) (TextureID, error) {
	if !d.initialized {
		return 0, ErrNotInitialized
	}
	if width < 1 || height < 1 {
		return 0, fmt.Errorf("software: invalid texture size %dx%d", width, height)
	}
	if samples < 1 {
		samples = 1
	}
	d.nextTexture++
	id := d.nextTexture
	d.textures[id] = &softTexture{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		samples: samples,
		format:  format,
	}
	return id, nil
}

// DestroyTexture releases a texture.
func (d *SoftwareDevice) DestroyTexture(id TextureID) {
	delete(d.textures, id)
}

// BindTarget makes the texture the active render target. The zero id
// binds the backbuffer, growing it to cover the viewport.
func (d *SoftwareDevice) BindTarget(id TextureID, viewport image.Rectangle) {
	d.bound = id
	d.viewport = viewport
	if id == 0 && d.backbuffer != nil &&
		(viewport.Max.X > d.backbuffer.Bounds().Max.X || viewport.Max.Y > d.backbuffer.Bounds().Max.Y) {
		grown := image.NewRGBA(image.Rect(0, 0,
			maxInt(viewport.Max.X, d.backbuffer.Bounds().Max.X),
			maxInt(viewport.Max.Y, d.backbuffer.Bounds().Max.Y)))
		draw.Draw(grown, d.backbuffer.Bounds(), d.backbuffer, image.Point{}, draw.Src)
		d.backbuffer = grown
	}
}

// target returns the image backing the bound render target.
func (d *SoftwareDevice) target() *image.RGBA {
	if d.bound == 0 {
		return d.backbuffer
	}
	if tex, ok := d.textures[d.bound]; ok {
		return tex.img
	}
	return nil
}

// Clear fills the bound viewport with the premultiplied color.
func (d *SoftwareDevice) Clear(r, g, b, a float32) {
	dst := d.target()
	if dst == nil {
		return
	}
	c := color.RGBA{
		R: floatByte(r),
		G: floatByte(g),
		B: floatByte(b),
		A: floatByte(a),
	}
	draw.Draw(dst, d.viewport.Intersect(dst.Bounds()), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// Blit resolves multisampling. CPU framebuffers are single-sampled, so
// the sample-count tag is bookkeeping only and nothing needs resolving.
func (d *SoftwareDevice) Blit() error {
	if !d.initialized {
		return ErrNotInitialized
	}
	return nil
}

// CopyTargetPixels copies rect from the bound target into the destination
// texture at origin. The rectangle is clamped to the readable target
// area, matching GPU sub-image copy semantics.
//
// The backbuffer's Y axis is inverted relative to texture space: rect.Y
// counts up from the bottom row, and the copied rows land in the
// destination bottom-up, exactly as a framebuffer read-back would.
func (d *SoftwareDevice) CopyTargetPixels(dst TextureID, rect image.Rectangle) error {
	src := d.target()
	if src == nil {
		return ErrUnknownTexture
	}
	tex, ok := d.textures[dst]
	if !ok {
		return ErrUnknownTexture
	}
	rect = rect.Intersect(src.Bounds())
	if d.bound == 0 {
		h := src.Bounds().Dy()
		for ty := 0; ty < rect.Dy(); ty++ {
			sy := h - 1 - (rect.Min.Y + ty)
			draw.Draw(tex.img, image.Rect(0, ty, rect.Dx(), ty+1), src, image.Pt(rect.Min.X, sy), draw.Src)
		}
		return nil
	}
	draw.Draw(tex.img, image.Rect(0, 0, rect.Dx(), rect.Dy()), src, rect.Min, draw.Src)
	return nil
}

// BindTexture binds a texture to a sampling unit.
func (d *SoftwareDevice) BindTexture(id TextureID, unit int) {
	if d.units != nil {
		d.units[unit] = id
	}
}

// BoundTexture returns the texture bound to a unit. Used by tests.
func (d *SoftwareDevice) BoundTexture(unit int) TextureID {
	return d.units[unit]
}

// Backbuffer returns the CPU backbuffer image. Used by tests and by
// hosts that present the result themselves.
func (d *SoftwareDevice) Backbuffer() *image.RGBA { return d.backbuffer }

// Texture returns the image backing a texture, or nil.
func (d *SoftwareDevice) Texture(id TextureID) *image.RGBA {
	if tex, ok := d.textures[id]; ok {
		return tex.img
	}
	return nil
}

// CompileProgram records a program. The CPU device executes programs by
// name; the WGSL source is accepted for interface compatibility and
// ignored.
func (d *SoftwareDevice) CompileProgram(name, source string) (ProgramID, error) {
	if !d.initialized {
		return 0, ErrNotInitialized
	}
	d.nextProgram++
	id := d.nextProgram
	d.programs[id] = name
	return id, nil
}

// Draw executes one filter pass on the CPU.
//
// The backdrop-blend program expects at most one texture-valued uniform
// (the captured backdrop), its paired "<name>_flipY" [2]float32
// descriptor, and a "uBlendMode" BlendMode. Backdrop content is sampled
// 1:1 with the destination region: when a backdrop is captured its
// resolution overrides the region's, so the pixel grids coincide.
func (d *SoftwareDevice) Draw(call DrawCall) error {
	if !d.initialized {
		return ErrNotInitialized
	}
	name, ok := d.programs[call.Program]
	if !ok {
		return ErrUnknownProgram
	}
	input, ok := d.textures[call.Input]
	if !ok {
		return ErrUnknownTexture
	}
	dst := d.target()
	if dst == nil {
		return ErrUnknownTexture
	}

	dstRect := call.DstRect.Intersect(d.viewport).Intersect(dst.Bounds())
	if dstRect.Empty() {
		return nil
	}
	src := alignSource(input.img, call.SrcRect, dstRect.Dx(), dstRect.Dy())

	var backdropImg *image.RGBA
	var flip [2]float32
	mode := BlendNormal
	if name == ProgramBackdropBlend {
		if m, ok := call.Uniforms["uBlendMode"].(BlendMode); ok {
			mode = m
		}
		for k, v := range call.Uniforms {
			id, isTex := v.(TextureID)
			if !isTex || id == call.Input {
				continue
			}
			if tex, exists := d.textures[id]; exists {
				backdropImg = tex.img
				if f, hasFlip := call.Uniforms[k+"_flipY"].([2]float32); hasFlip {
					flip = f
				}
				break
			}
		}
	}

	for py := 0; py < dstRect.Dy(); py++ {
		for px := 0; px < dstRect.Dx(); px++ {
			s := src.RGBAAt(px, py)
			out := s
			if backdropImg != nil {
				bx, by := px, py
				if flip[1] < 0 {
					copyH := int(math.Round(float64(flip[0]) * float64(backdropImg.Bounds().Dy())))
					by = copyH - 1 - py
				}
				b := sampleClamped(backdropImg, bx, by)
				out.R, out.G, out.B, out.A = BlendPixel(mode, s.R, s.G, s.B, s.A, b.R, b.G, b.B, b.A)
			}
			x, y := dstRect.Min.X+px, dstRect.Min.Y+py
			if call.Composite {
				cur := dst.RGBAAt(x, y)
				out.R, out.G, out.B, out.A = CompositePixel(out.R, out.G, out.B, out.A, cur.R, cur.G, cur.B, cur.A)
			}
			dst.SetRGBA(x, y, out)
		}
	}
	return nil
}

// alignSource returns the input's content region resampled to the
// destination size. Same-size regions copy; mismatched sizes scale with
// golang.org/x/image bilinear interpolation.
func alignSource(src *image.RGBA, srcRect image.Rectangle, w, h int) *image.RGBA {
	srcRect = srcRect.Intersect(src.Bounds())
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	if srcRect.Dx() == w && srcRect.Dy() == h {
		draw.Draw(out, out.Bounds(), src, srcRect.Min, draw.Src)
		return out
	}
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), src, srcRect, xdraw.Src, nil)
	return out
}

// sampleClamped reads a pixel clamped to the image bounds.
func sampleClamped(img *image.RGBA, x, y int) color.RGBA {
	b := img.Bounds()
	if x < b.Min.X {
		x = b.Min.X
	}
	if x >= b.Max.X {
		x = b.Max.X - 1
	}
	if y < b.Min.Y {
		y = b.Min.Y
	}
	if y >= b.Max.Y {
		y = b.Max.Y - 1
	}
	return img.RGBAAt(x, y)
}

// floatByte converts a [0, 1] float component to a byte.
func floatByte(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Ensure SoftwareDevice implements Device.
var _ Device = (*SoftwareDevice)(nil)
