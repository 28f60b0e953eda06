package app

import (
	"context"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/gekko3d/worldmesh"
	"github.com/gekko3d/worldmesh/worldrt/rt/block"
	"github.com/gekko3d/worldmesh/worldrt/rt/core"
	"github.com/gekko3d/worldmesh/worldrt/rt/gpu"
)

const reach = 8

var skyColor = wgpu.Color{R: 0.55, G: 0.72, B: 0.95, A: 1}

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Buffers  *gpu.MeshBuffers
	Sections *gpu.SectionRenderPass
	Text     *gpu.TextPass

	Settings  worldmesh.Config
	Logger    worldmesh.Logger
	Telemetry *worldmesh.Telemetry
	Client    *worldmesh.Client
	Player    *Player
	Profiler  *Profiler

	TextItems []core.TextItem

	DebugMode     bool
	MouseCaptured bool
	LastTime      float64
	cursorX       float64
	cursorY       float64
	f3Held        bool

	FrameCount int
	FPS        float64
	FPSTime    float64
}

func NewApp(window *glfw.Window, cfg worldmesh.Config, logger worldmesh.Logger, telemetry *worldmesh.Telemetry) *App {
	return &App{
		Window:    window,
		Settings:  cfg,
		Logger:    logger,
		Telemetry: telemetry,
		Player:    NewPlayer(),
		Profiler:  NewProfiler(),
		DebugMode: cfg.Debug,
	}
}

func (a *App) Init(ctx context.Context) error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return errors.Wrap(err, "request adapter")
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return errors.Wrap(err, "request device")
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	a.Buffers = gpu.NewMeshBuffers(a.Device)
	a.Sections, err = gpu.NewSectionRenderPass(a.Device, a.Config.Format, a.Config.Width, a.Config.Height)
	if err != nil {
		return err
	}
	a.Text, err = gpu.NewTextPass(a.Device, a.Config.Format, core.NewDefaultTextRenderer())
	if err != nil {
		return err
	}

	a.Client, err = worldmesh.NewClient(a.Settings, a.Buffers, a.Player, a.Logger)
	if err != nil {
		return err
	}
	if a.Telemetry != nil {
		if err := a.Client.Renderer.RegisterMetrics(a.Telemetry.Registry); err != nil {
			return err
		}
	}
	a.Client.Start(ctx)
	a.Client.UpdateCamera(a.Player.Camera(), a.aspect())

	a.cursorX, a.cursorY = a.Window.GetCursorPos()
	a.LastTime = glfw.GetTime()
	return nil
}

func (a *App) aspect() float32 {
	if a.Config.Height == 0 {
		return 1
	}
	return float32(a.Config.Width) / float32(a.Config.Height)
}

func (a *App) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	a.Config.Width = uint32(w)
	a.Config.Height = uint32(h)
	a.Surface.Configure(a.Adapter, a.Device, a.Config)
	if err := a.Sections.Resize(uint32(w), uint32(h)); err != nil {
		a.Logger.Errorf("Resize depth: %v", err)
	}
	a.Client.UpdateCamera(a.Player.Camera(), a.aspect())
}

func (a *App) sampleInput() Input {
	key := func(k glfw.Key) bool { return a.Window.GetKey(k) == glfw.Press }
	in := Input{
		Forward: key(glfw.KeyW),
		Back:    key(glfw.KeyS),
		Left:    key(glfw.KeyA) && !a.f3Held,
		Right:   key(glfw.KeyD),
		Up:      key(glfw.KeySpace),
		Down:    key(glfw.KeyLeftShift),
	}
	x, y := a.Window.GetCursorPos()
	if a.MouseCaptured {
		in.LookX = float32(x - a.cursorX)
		in.LookY = float32(y - a.cursorY)
	}
	a.cursorX, a.cursorY = x, y
	return in
}

func (a *App) Update() {
	defer a.Profiler.Scope("update")()

	now := glfw.GetTime()
	dt := float32(now - a.LastTime)
	a.LastTime = now
	a.FrameCount++
	a.FPSTime += float64(dt)
	if a.FPSTime >= 1.0 {
		a.FPS = float64(a.FrameCount) / a.FPSTime
		a.FrameCount = 0
		a.FPSTime = 0
	}

	if a.Player.Update(a.sampleInput(), dt) {
		a.Client.UpdateCamera(a.Player.Camera(), a.aspect())
	}
	cam := a.Player.Camera()
	fog := float32(a.Client.Renderer.ViewDistance()*16) - 8
	a.Sections.UpdateCamera(cam.ViewProjection(a.aspect()), cam.Position, fog)

	a.TextItems = a.TextItems[:0]
	if a.DebugMode {
		a.debugOverlay()
	}
	if err := a.Text.Update(a.TextItems, int(a.Config.Width), int(a.Config.Height)); err != nil {
		a.Logger.Warnf("Text overlay: %v", err)
	}
}

func (a *App) debugOverlay() {
	lines := []string{
		fmt.Sprintf("%.1f fps", a.FPS),
		a.Client.Renderer.DebugLine(),
	}
	live, bytes := a.Buffers.Live()
	a.Profiler.SetCount("buffers", int(live))
	a.Profiler.SetCount("kib", int(bytes/1024))
	a.Profiler.SetCount("workers", int(a.Client.Renderer.RunningWorkers()))
	lines = append(lines, a.Profiler.Lines()...)

	y := float32(8)
	step := a.Text.Renderer.LineHeight(1)
	for _, line := range lines {
		a.TextItems = append(a.TextItems, core.TextItem{
			Text:     line,
			Position: [2]float32{8, y},
			Scale:    1,
			Color:    [4]float32{1, 1, 1, 1},
		})
		y += step
	}
}

func (a *App) Render() {
	a.Profiler.BeginScope("prepare")
	a.Client.Renderer.PrepareDraw()
	a.Profiler.EndScope("prepare")

	defer a.Profiler.Scope("draw")()

	next, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Logger.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer next.Release()

	view, err := next.CreateView(nil)
	if err != nil {
		a.Logger.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	encoder, err := a.Device.CreateCommandEncoder(nil)
	if err != nil {
		a.Logger.Errorf("CreateCommandEncoder failed: %v", err)
		return
	}

	target := a.Sections.Begin(encoder, view, skyColor)
	target.UseOpaque()
	a.Client.Renderer.DrawOpaque(target)
	target.UseBlended()
	a.Client.Renderer.DrawTranslucent(target)
	a.Client.Renderer.DrawTransparent(target)
	a.Text.Draw(target)
	a.Profiler.SetCount("draws", target.Draws)
	if err := target.End(); err != nil {
		a.Logger.Errorf("World pass End failed: %v", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		a.Logger.Errorf("Encoder Finish failed: %v", err)
		return
	}
	a.Queue.Submit(cmd)
	a.Surface.Present()
}

// HandleKey reacts to single key presses. Movement keys are polled in Update.
func (a *App) HandleKey(key glfw.Key, action glfw.Action) {
	if key == glfw.KeyF3 {
		a.f3Held = action != glfw.Release
	}
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		a.Window.SetShouldClose(true)
	case glfw.KeyTab:
		a.MouseCaptured = !a.MouseCaptured
		if a.MouseCaptured {
			a.Window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else {
			a.Window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
	case glfw.KeyA:
		if a.f3Held {
			a.Logger.Infof("Reloading chunks")
			a.Client.Renderer.ClearChunkCache()
		}
	case glfw.KeyB:
		if a.f3Held {
			a.DebugMode = !a.DebugMode
		}
	case glfw.KeyEqual, glfw.KeyKPAdd:
		a.changeViewDistance(1)
	case glfw.KeyMinus, glfw.KeyKPSubtract:
		a.changeViewDistance(-1)
	}
}

func (a *App) changeViewDistance(delta int) {
	d := a.Client.Renderer.ViewDistance() + delta
	if d < 1 {
		return
	}
	if err := a.Client.SetViewDistance(context.Background(), d); err != nil {
		a.Logger.Warnf("View distance %d: %v", d, err)
		return
	}
	a.Client.UpdateCamera(a.Player.Camera(), a.aspect())
}

// HandleClick breaks the targeted block with the left button and places glass against
// the hit face with the right.
func (a *App) HandleClick(button glfw.MouseButton, action glfw.Action) {
	if !a.MouseCaptured || action != glfw.Press {
		return
	}
	cam := a.Player.Camera()
	hit, ok := a.Client.World.Raycast(cam.Position, cam.GetForward(), reach)
	if !ok {
		return
	}
	pos, st := hit.Position, (*block.State)(nil)
	if button == glfw.MouseButtonRight {
		pos = pos.Add(hit.Face.Vector())
		st = a.Client.Blocks.Get(block.Glass)
	}
	if err := a.Client.SetBlock(context.Background(), pos, st); err != nil {
		a.Logger.Warnf("Set block %v: %v", pos, err)
	}
}

func (a *App) Close() {
	if a.Client != nil {
		a.Client.Close()
	}
	if a.Text != nil {
		a.Text.Release()
	}
	if a.Sections != nil {
		a.Sections.Release()
	}
	if a.Surface != nil {
		a.Surface.Release()
	}
}
