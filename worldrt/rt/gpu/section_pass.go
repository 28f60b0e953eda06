package gpu

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/gekko3d/worldmesh/worldrt/rt/mesh"
	"github.com/gekko3d/worldmesh/worldrt/rt/shaders"
)

const (
	depthFormat = wgpu.TextureFormatDepth24Plus
	// view_proj mat4 + camera position and fog distance
	cameraUniformSize = 80
)

// SectionRenderPass draws world meshes, one pipeline per layer.
type SectionRenderPass struct {
	Device *wgpu.Device

	opaque      *wgpu.RenderPipeline
	blended     *wgpu.RenderPipeline
	cameraBuf   *wgpu.Buffer
	cameraBG    *wgpu.BindGroup
	depth       *wgpu.Texture
	depthView   *wgpu.TextureView
	uniformData [cameraUniformSize]byte
}

func NewSectionRenderPass(device *wgpu.Device, format wgpu.TextureFormat, width, height uint32) (*SectionRenderPass, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Section Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.SectionWGSL},
	})
	if err != nil {
		return nil, errors.Wrap(err, "section shader")
	}

	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "SectionCameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: cameraUniformSize,
			},
		}},
	})
	if err != nil {
		return nil, err
	}
	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}

	p := &SectionRenderPass{Device: device}
	p.opaque, err = createSectionPipeline(device, module, layout, format, nil, true)
	if err != nil {
		return nil, errors.Wrap(err, "opaque pipeline")
	}
	p.blended, err = createSectionPipeline(device, module, layout, format, &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}, false)
	if err != nil {
		return nil, errors.Wrap(err, "blended pipeline")
	}

	p.cameraBuf, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Section Camera UB",
		Size:  cameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, err
	}
	p.cameraBG, err = device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "SectionCameraBG",
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.cameraBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, err
	}
	if err := p.Resize(width, height); err != nil {
		return nil, err
	}
	return p, nil
}

func createSectionPipeline(device *wgpu.Device, module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, format wgpu.TextureFormat, blend *wgpu.BlendState, depthWrite bool) (*wgpu.RenderPipeline, error) {
	return device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Section Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: mesh.FloatsPerVertex * 4,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
					{Format: wgpu.VertexFormatFloat32x4, Offset: 20, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				Blend:     blend,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: depthWrite,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
}

// Resize recreates the depth attachment.
func (p *SectionRenderPass) Resize(width, height uint32) error {
	if p.depthView != nil {
		p.depthView.Release()
		p.depth.Release()
	}
	var err error
	p.depth, err = p.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Section Depth",
		Size:          wgpu.Extent3D{Width: max(width, 1), Height: max(height, 1), DepthOrArrayLayers: 1},
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
		Dimension:     wgpu.TextureDimension2D,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return errors.Wrap(err, "depth texture")
	}
	p.depthView, err = p.depth.CreateView(nil)
	return err
}

// UpdateCamera uploads the camera uniforms for the next frame.
func (p *SectionRenderPass) UpdateCamera(viewProj mgl32.Mat4, position mgl32.Vec3, fogDistance float32) {
	putMat4(p.uniformData[:], 0, viewProj)
	for i, v := range [4]float32{position.X(), position.Y(), position.Z(), fogDistance} {
		binary.LittleEndian.PutUint32(p.uniformData[64+i*4:], math.Float32bits(v))
	}
	p.Device.GetQueue().WriteBuffer(p.cameraBuf, 0, p.uniformData[:])
}

// Begin starts the world pass on view. The caller ends the returned pass.
func (p *SectionRenderPass) Begin(encoder *wgpu.CommandEncoder, view *wgpu.TextureView, clear wgpu.Color) *PassTarget {
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clear,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            p.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	pass.SetBindGroup(0, p.cameraBG, nil)
	return &PassTarget{Pass: pass, owner: p}
}

func (p *SectionRenderPass) Release() {
	if p.depthView != nil {
		p.depthView.Release()
		p.depth.Release()
	}
	p.cameraBG.Release()
	p.cameraBuf.Release()
	p.opaque.Release()
	p.blended.Release()
}

// PassTarget records mesh draws into an open render pass.
type PassTarget struct {
	Pass  *wgpu.RenderPassEncoder
	owner *SectionRenderPass
	Draws int
}

// UseOpaque switches to the depth writing pipeline.
func (t *PassTarget) UseOpaque() {
	t.Pass.SetPipeline(t.owner.opaque)
}

// UseBlended switches to the alpha blended pipeline.
func (t *PassTarget) UseBlended() {
	t.Pass.SetPipeline(t.owner.blended)
}

func (t *PassTarget) DrawBuffer(buf mesh.Buffer, vertexCount uint32) {
	vb, ok := buf.(*VertexBuffer)
	if !ok || vb.Buffer == nil {
		return
	}
	t.Pass.SetVertexBuffer(0, vb.Buffer, 0, vb.size)
	t.Pass.Draw(vertexCount, 1, 0, 0)
	t.Draws++
}

func (t *PassTarget) End() error {
	return t.Pass.End()
}
