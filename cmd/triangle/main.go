// Command triangle opens a window and draws an orange triangle.
//
// Usage:
//
//	triangle [-c config.yaml] [--width 800] [--height 600] [--gl 4.1] [--vertex a.vert] [--fragment a.frag] [--watch] [-d]
//
// Press Escape to close the window. With --watch the shader program is
// rebuilt whenever the shader files change.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/go-theft-auto/triangle"
	"github.com/go-theft-auto/triangle/backend/opengl"
	"github.com/go-theft-auto/triangle/internal/config"
	"github.com/go-theft-auto/triangle/internal/logger"
	"github.com/go-theft-auto/triangle/internal/thread"
	"github.com/go-theft-auto/triangle/internal/watch"
)

func main() {
	code := 0
	thread.Run(func() { code = run(os.Args[1:]) })
	os.Exit(code)
}

func run(args []string) int {
	conf, err := config.Load(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}

	log := logger.New(conf.Log.Debug)
	if conf.Log.Console {
		log = logger.NewConsole(conf.Log.Debug, "triangle", false)
	}
	log.Debug().Interface("config", conf).Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []triangle.Option{
		triangle.WithLogger(log),
		triangle.WithWindow(conf.WindowConfig()),
		triangle.WithClearColor(conf.ClearColor()),
		triangle.WithSources(triangle.FileSources(conf.Shaders.Vertex, conf.Shaders.Fragment)),
	}
	if conf.Shaders.Watch {
		w, err := watch.New(log, conf.Shaders.Vertex, conf.Shaders.Fragment)
		if err != nil {
			log.Error().Err(err).Msg("Shader watch")
			return 1
		}
		defer func() { _ = w.Close() }()
		go w.Run(ctx)
		opts = append(opts, triangle.WithReload(w.Changes()))
	}

	app := triangle.New(opengl.NewGLFWPlatform(log), opengl.NewDevice(log), opts...)
	err = thread.CallErr(func() error { return app.Run(ctx) })
	if err != nil {
		log.Error().Err(err).Msg("Failed")
	}
	return triangle.ExitCode(err)
}
