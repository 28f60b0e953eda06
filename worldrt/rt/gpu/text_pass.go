package gpu

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"

	"github.com/gekko3d/worldmesh/worldrt/rt/core"
	"github.com/gekko3d/worldmesh/worldrt/rt/shaders"
)

// TextPass draws the debug overlay on top of the world pass.
type TextPass struct {
	Device   *wgpu.Device
	Renderer *core.TextRenderer

	pipeline    *wgpu.RenderPipeline
	bindGroup   *wgpu.BindGroup
	atlasView   *wgpu.TextureView
	sampler     *wgpu.Sampler
	vertices    *wgpu.Buffer
	vertexCount uint32
}

func NewTextPass(device *wgpu.Device, format wgpu.TextureFormat, tr *core.TextRenderer) (*TextPass, error) {
	w, h := tr.Atlas.Bounds().Dx(), tr.Atlas.Bounds().Dy()
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Text Atlas",
		Size:          wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatR8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, errors.Wrap(err, "text atlas")
	}
	device.GetQueue().WriteTexture(tex.AsImageCopy(), tr.Atlas.Pix, &wgpu.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(tr.Atlas.Stride),
		RowsPerImage: uint32(h),
	}, &wgpu.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1})

	p := &TextPass{Device: device, Renderer: tr}
	if p.atlasView, err = tex.CreateView(nil); err != nil {
		return nil, err
	}
	p.sampler, err = device.CreateSampler(&wgpu.SamplerDescriptor{
		MinFilter:     wgpu.FilterModeNearest,
		MagFilter:     wgpu.FilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}

	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Text Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.TextWGSL},
	})
	if err != nil {
		return nil, errors.Wrap(err, "text shader")
	}
	p.pipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Text Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: uint64(unsafe.Sizeof(core.TextVertex{})),
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: format,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		// shares the world pass depth attachment but ignores it
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: false,
			DepthCompare:      wgpu.CompareFunctionAlways,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "text pipeline")
	}
	p.bindGroup, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: p.pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: p.atlasView},
			{Binding: 1, Sampler: p.sampler},
		},
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update rebuilds the overlay vertices for this frame.
func (p *TextPass) Update(items []core.TextItem, width, height int) error {
	vertices := p.Renderer.BuildVertices(items, width, height)
	p.vertexCount = uint32(len(vertices))
	if len(vertices) == 0 {
		return nil
	}
	size := uint64(len(vertices)) * uint64(unsafe.Sizeof(core.TextVertex{}))
	if p.vertices == nil || p.vertices.GetSize() < size {
		if p.vertices != nil {
			p.vertices.Release()
		}
		var err error
		p.vertices, err = p.Device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Text VB",
			Size:  size,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			p.vertexCount = 0
			return errors.Wrap(err, "text vertex buffer")
		}
	}
	p.Device.GetQueue().WriteBuffer(p.vertices, 0, unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), size))
	return nil
}

// Draw records the overlay into an open pass.
func (p *TextPass) Draw(t *PassTarget) {
	if p.vertexCount == 0 {
		return
	}
	t.Pass.SetPipeline(p.pipeline)
	t.Pass.SetBindGroup(0, p.bindGroup, nil)
	t.Pass.SetVertexBuffer(0, p.vertices, 0, p.vertices.GetSize())
	t.Pass.Draw(p.vertexCount, 1, 0, 0)
}

func (p *TextPass) Release() {
	if p.vertices != nil {
		p.vertices.Release()
	}
	p.bindGroup.Release()
	p.sampler.Release()
	p.atlasView.Release()
	p.pipeline.Release()
}
