package triangle

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-theft-auto/triangle/internal/logger"
)

// ErrWindowCreate is wrapped by the error returned when no window could be opened.
var ErrWindowCreate = errors.New("failed to create window")

// WindowConfig describes the window and its GL context.
type WindowConfig struct {
	Width   int
	Height  int
	Title   string
	GLMajor int
	GLMinor int
	VSync   bool
}

// DefaultWindowConfig matches an 800x600 window with a 4.1 core context.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{
		Width:   800,
		Height:  600,
		Title:   "Learning OpenGL",
		GLMajor: 4,
		GLMinor: 1,
		VSync:   true,
	}
}

// Platform creates windows with a current GL context.
type Platform interface {
	Init() error
	OpenWindow(cfg WindowConfig) (Window, error)
	Terminate()
}

// Window is an open window whose GL context is current on the calling thread.
type Window interface {
	ShouldClose() bool
	ProcessInput()
	FramebufferSize() (width, height int)
	SwapBuffers()
	PollEvents()
	Destroy()
}

// Device is the GL context seen by the app.
type Device interface {
	Driver

	// Init loads the GL entry points. The context must be current.
	Init() error
	UploadMesh(m Mesh) (MeshHandle, error)
	DeleteMesh(h MeshHandle)
	Viewport(width, height int)
	Clear(c Color)
	Draw(p *Program, m MeshHandle)
}

// InitError reports a failure to bring up the window or the GL driver.
type InitError struct {
	Op  string
	Err error
}

func (e *InitError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *InitError) Unwrap() error { return e.Err }

// ExitCode maps a Run error to a process exit status.
// Initialization failures exit with -1, everything else with 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ie *InitError
	if errors.As(err, &ie) {
		return -1
	}
	return 1
}

// App owns the window, the shader program and the mesh for one run.
type App struct {
	platform Platform
	device   Device
	window   WindowConfig
	clear    Color
	sources  SourceLoader
	reload   <-chan struct{}
	log      *logger.Logger

	frames uint64
}

// Option configures an App.
type Option func(*App)

// WithWindow sets the window configuration.
func WithWindow(cfg WindowConfig) Option {
	return func(a *App) { a.window = cfg }
}

// WithClearColor sets the background color.
func WithClearColor(c Color) Option {
	return func(a *App) { a.clear = c }
}

// WithSources sets where shader sources are loaded from.
func WithSources(load SourceLoader) Option {
	return func(a *App) { a.sources = load }
}

// WithReload rebuilds the shader program whenever a value arrives on ch.
func WithReload(ch <-chan struct{}) Option {
	return func(a *App) { a.reload = ch }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(a *App) { a.log = log }
}

// New creates an app drawing with device into windows made by platform.
func New(platform Platform, device Device, opts ...Option) *App {
	a := &App{
		platform: platform,
		device:   device,
		window:   DefaultWindowConfig(),
		clear:    DefaultClearColor,
		sources:  EmbeddedSources,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Frames returns the number of frames drawn by the last Run.
func (a *App) Frames() uint64 { return a.frames }

// Run opens the window and draws until it is closed or ctx is done.
// It must be called on the thread that owns the GL context.
func (a *App) Run(ctx context.Context) error {
	if err := a.platform.Init(); err != nil {
		return &InitError{Op: "init platform", Err: err}
	}
	defer a.platform.Terminate()

	win, err := a.platform.OpenWindow(a.window)
	if err != nil {
		return &InitError{Op: "create window", Err: fmt.Errorf("%w: %w", ErrWindowCreate, err)}
	}
	defer win.Destroy()

	if err := a.device.Init(); err != nil {
		return &InitError{Op: "load gl", Err: err}
	}

	builder := NewBuilder(a.device, a.log)
	program, err := a.build(builder)
	if err != nil {
		return err
	}
	// program is swapped on reload, release whichever is current
	defer func() { program.Delete() }()

	mesh, err := a.device.UploadMesh(TriangleMesh())
	if err != nil {
		return fmt.Errorf("upload mesh: %w", err)
	}
	defer a.device.DeleteMesh(mesh)

	a.log.Info().
		Int("width", a.window.Width).
		Int("height", a.window.Height).
		Str("title", a.window.Title).
		Msg("Window opened")

	a.frames = 0
	lastW, lastH := -1, -1
	for !win.ShouldClose() {
		if ctx.Err() != nil {
			break
		}
		win.ProcessInput()

		if w, h := win.FramebufferSize(); w != lastW || h != lastH {
			a.device.Viewport(w, h)
			lastW, lastH = w, h
		}

		select {
		case <-a.reload:
			if next, err := a.build(builder); err != nil {
				a.log.Error().Err(err).Msg("Shader reload failed, keeping previous program")
			} else {
				program.Delete()
				program = next
				a.log.Info().Uint32("program", program.Handle).Msg("Shaders reloaded")
			}
		default:
		}

		a.render(program, mesh)

		win.SwapBuffers()
		win.PollEvents()
		a.frames++
	}

	a.log.Debug().Uint64("frames", a.frames).Msg("Render loop finished")
	return nil
}

func (a *App) build(b *Builder) (*Program, error) {
	vs, fs, err := a.sources()
	if err != nil {
		return nil, fmt.Errorf("load shaders: %w", err)
	}
	return b.Build(vs, fs)
}

func (a *App) render(p *Program, m MeshHandle) {
	a.device.Clear(a.clear)
	a.device.Draw(p, m)
}
