//go:build !nogpu

package wgpu

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
	types "github.com/gogpu/gputypes"
)

//go:embed shaders/blend.wgsl
var blendShaderWGSL string

// blendConfigSize is the byte size of the Config uniform in blend.wgsl.
const blendConfigSize = 32

// blendPipeline holds the GPU resources for the blend pass.
type blendPipeline struct {
	mu sync.Mutex

	device hal.Device
	queue  hal.Queue

	shaderModule hal.ShaderModule
	pipeline     hal.ComputePipeline

	pipelineLayout   hal.PipelineLayout
	inputBindLayout  hal.BindGroupLayout
	outputBindLayout hal.BindGroupLayout

	// Compiled SPIR-V (cached for verification).
	spirvCode []uint32

	initialized bool
}

// newBlendPipeline compiles the blend shader and creates the pipeline.
func newBlendPipeline(device hal.Device, queue hal.Queue) (*blendPipeline, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("wgpu: device and queue are required")
	}
	p := &blendPipeline{device: device, queue: queue}
	if err := p.init(); err != nil {
		p.destroy()
		return nil, err
	}
	return p, nil
}

// init compiles WGSL and creates shader module, layouts and pipeline.
func (p *blendPipeline) init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	spirvBytes, err := naga.Compile(blendShaderWGSL)
	if err != nil {
		return fmt.Errorf("wgpu: failed to compile blend shader: %w", err)
	}

	p.spirvCode = make([]uint32, len(spirvBytes)/4)
	for i := range p.spirvCode {
		p.spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	shaderModule, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "backdrop_blend_shader",
		Source: hal.ShaderSource{
			SPIRV: p.spirvCode,
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: failed to create shader module: %w", err)
	}
	p.shaderModule = shaderModule

	if err := p.createBindGroupLayouts(); err != nil {
		return err
	}

	layout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "backdrop_blend_pipeline_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.inputBindLayout, p.outputBindLayout},
	})
	if err != nil {
		return fmt.Errorf("wgpu: failed to create pipeline layout: %w", err)
	}
	p.pipelineLayout = layout

	pipeline, err := p.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "backdrop_blend_pipeline",
		Layout: p.pipelineLayout,
		Compute: hal.ComputeState{
			Module:     p.shaderModule,
			EntryPoint: "cs_blend",
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: failed to create blend pipeline: %w", err)
	}
	p.pipeline = pipeline

	p.initialized = true
	return nil
}

// createBindGroupLayouts creates the bind group layouts matching
// blend.wgsl.
func (p *blendPipeline) createBindGroupLayouts() error {
	inputLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "backdrop_blend_input_layout",
		Entries: []types.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type:           types.BufferBindingTypeUniform,
					MinBindingSize: blendConfigSize,
				},
			},
			{
				Binding:    1,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type: types.BufferBindingTypeReadOnlyStorage,
				},
			},
			{
				Binding:    2,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type: types.BufferBindingTypeReadOnlyStorage,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: failed to create input bind group layout: %w", err)
	}
	p.inputBindLayout = inputLayout

	outputLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "backdrop_blend_output_layout",
		Entries: []types.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: types.ShaderStageCompute,
				Buffer: &types.BufferBindingLayout{
					Type: types.BufferBindingTypeStorage,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("wgpu: failed to create output bind group layout: %w", err)
	}
	p.outputBindLayout = outputLayout

	return nil
}

// destroy releases the pipeline's GPU resources.
func (p *blendPipeline) destroy() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shaderModule = nil
	p.pipeline = nil
	p.pipelineLayout = nil
	p.inputBindLayout = nil
	p.outputBindLayout = nil
	p.initialized = false
}
