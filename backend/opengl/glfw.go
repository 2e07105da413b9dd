package opengl

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/triangle"
	"github.com/go-theft-auto/triangle/internal/logger"
)

var _ triangle.Platform = (*GLFWPlatform)(nil)

// GLFWPlatform opens GLFW windows with an OpenGL core profile context.
type GLFWPlatform struct {
	log *logger.Logger
	// Hidden creates invisible windows, for off-screen use and tests.
	Hidden bool
}

// NewGLFWPlatform creates a GLFW platform.
func NewGLFWPlatform(log *logger.Logger) *GLFWPlatform {
	if log == nil {
		log = logger.Nop()
	}
	return &GLFWPlatform{log: log}
}

// Init initializes GLFW. It must be called on the main thread.
func (p *GLFWPlatform) Init() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	return nil
}

// Terminate releases every GLFW resource.
func (p *GLFWPlatform) Terminate() { glfw.Terminate() }

// OpenWindow creates a window and makes its context current.
func (p *GLFWPlatform) OpenWindow(cfg triangle.WindowConfig) (triangle.Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, cfg.GLMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, cfg.GLMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if p.Hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("glfw window: %w", err)
	}
	window.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &glfwWindow{window: window, log: p.log}
	w.width, w.height = window.GetFramebufferSize()
	window.SetFramebufferSizeCallback(w.framebufferSizeCallback)
	return w, nil
}

// glfwWindow adapts *glfw.Window to triangle.Window.
type glfwWindow struct {
	window        *glfw.Window
	log           *logger.Logger
	width, height int
}

func (w *glfwWindow) ShouldClose() bool { return w.window.ShouldClose() }

// ProcessInput closes the window when Escape is held.
func (w *glfwWindow) ProcessInput() {
	if w.window.GetKey(glfw.KeyEscape) == glfw.Press {
		w.window.SetShouldClose(true)
	}
}

// FramebufferSize returns the size reported by the last resize callback.
func (w *glfwWindow) FramebufferSize() (int, int) { return w.width, w.height }

func (w *glfwWindow) SwapBuffers() { w.window.SwapBuffers() }

func (w *glfwWindow) PollEvents() { glfw.PollEvents() }

func (w *glfwWindow) Destroy() { w.window.Destroy() }

func (w *glfwWindow) framebufferSizeCallback(_ *glfw.Window, width, height int) {
	w.log.Debug().Int("width", width).Int("height", height).Msg("Framebuffer resized")
	w.width, w.height = width, height
}
