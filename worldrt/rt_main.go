package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/worldmesh"
	"github.com/gekko3d/worldmesh/worldrt/rt/app"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "YAML config file, defaults to $"+worldmesh.ConfigEnv)
	debug := flag.Bool("debug", false, "Enable debug overlay and lock checks")
	flag.Parse()

	cfg, err := worldmesh.LoadConfig(*configPath)
	if err != nil {
		worldmesh.NewDefaultLogger("main", false).Errorf("%v", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Debug = true
		cfg.Renderer.LockChecks = true
	}
	logger := worldmesh.NewDefaultLogger("worldrt", cfg.Debug)
	worldmesh.ConfigureLockDetection(cfg.Debug, logger)

	telemetry, err := worldmesh.StartTelemetry(cfg.Telemetry, logger)
	if err != nil {
		logger.Errorf("Telemetry: %v", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = telemetry.Close(ctx)
	}()

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(1280, 720, "WorldRT Go", nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application := app.NewApp(window, cfg, logger, telemetry)
	if err := application.Init(ctx); err != nil {
		panic(err)
	}
	defer application.Close()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		application.HandleKey(key, action)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		application.HandleClick(button, action)
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		application.Update()
		application.Render()
	}
}
