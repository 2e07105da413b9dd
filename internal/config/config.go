// Package config loads the program configuration from a file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kkyr/fig"
	flag "github.com/spf13/pflag"

	"github.com/go-theft-auto/triangle"
)

const EnvPrefix = "TRIANGLE"

// FileName is the config file looked up in the search directories.
const FileName = "config.yaml"

type Config struct {
	Window  Window
	Render  Render
	Shaders Shaders
	Log     Log
}

type Window struct {
	Width  int
	Height int
	Title  string `validate:"required"`
	// GL is the requested context version as "major.minor".
	GL    string `validate:"required"`
	VSync bool
}

type Render struct {
	Clear Color
}

type Color struct {
	R, G, B, A float32
}

// Shaders selects shader files. Empty paths use the embedded shaders.
type Shaders struct {
	Vertex   string
	Fragment string
	Watch    bool
}

type Log struct {
	Debug   bool
	Console bool
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	w := triangle.DefaultWindowConfig()
	c := triangle.DefaultClearColor
	return Config{
		Window: Window{
			Width:  w.Width,
			Height: w.Height,
			Title:  w.Title,
			GL:     fmt.Sprintf("%d.%d", w.GLMajor, w.GLMinor),
			VSync:  w.VSync,
		},
		Render: Render{Clear: Color{R: c.R, G: c.G, B: c.B, A: c.A}},
	}
}

// LoadFile loads a configuration file into conf.
// The path param names a config file or a directory holding config.yaml.
// When empty the working directory, ./configs and ~/.triangle are searched.
// Only a searched file may be missing: conf then keeps its values plus the
// environment.
// Environment variables use the TRIANGLE_ prefix, e.g. TRIANGLE_WINDOW_WIDTH.
func LoadFile(conf *Config, path string) error {
	file := FileName
	var dirs []string
	if path == "" {
		dirs = append(dirs, ".", "configs")
		if home, err := os.UserHomeDir(); err == nil {
			dirs = append(dirs, filepath.Join(home, ".triangle"))
		}
	} else {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
		if info.IsDir() {
			dirs = []string{path}
		} else {
			dirs = []string{filepath.Dir(path)}
			file = filepath.Base(path)
		}
	}

	err := fig.Load(conf, fig.File(file), fig.Dirs(dirs...), fig.UseEnv(EnvPrefix))
	if errors.Is(err, fig.ErrFileNotFound) {
		if path != "" {
			return fmt.Errorf("config %s: %w", path, err)
		}
		err = fig.Load(conf, fig.IgnoreFile(), fig.UseEnv(EnvPrefix))
	}
	return err
}

// Load parses args, loads the config file and environment, then applies the
// flags that were set explicitly. It returns flag.ErrHelp for -h.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("triangle", flag.ContinueOnError)
	var (
		path  = fs.StringP("conf", "c", "", "Set custom configuration file path")
		flags Config
	)
	fs.IntVar(&flags.Window.Width, "width", 0, "Window width")
	fs.IntVar(&flags.Window.Height, "height", 0, "Window height")
	fs.StringVar(&flags.Window.Title, "title", "", "Window title")
	fs.StringVar(&flags.Window.GL, "gl", "", "OpenGL context version (major.minor)")
	fs.BoolVar(&flags.Window.VSync, "vsync", true, "Wait for vertical sync on buffer swap")
	fs.StringVar(&flags.Shaders.Vertex, "vertex", "", "Vertex shader file")
	fs.StringVar(&flags.Shaders.Fragment, "fragment", "", "Fragment shader file")
	fs.BoolVar(&flags.Shaders.Watch, "watch", false, "Rebuild the shader program when shader files change")
	fs.BoolVarP(&flags.Log.Debug, "debug", "d", false, "Debug logging")
	fs.BoolVar(&flags.Log.Console, "console", false, "Human-readable log output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	conf := Default()
	if err := LoadFile(&conf, *path); err != nil {
		return nil, err
	}

	set := map[string]func(){
		"width":    func() { conf.Window.Width = flags.Window.Width },
		"height":   func() { conf.Window.Height = flags.Window.Height },
		"title":    func() { conf.Window.Title = flags.Window.Title },
		"gl":       func() { conf.Window.GL = flags.Window.GL },
		"vsync":    func() { conf.Window.VSync = flags.Window.VSync },
		"vertex":   func() { conf.Shaders.Vertex = flags.Shaders.Vertex },
		"fragment": func() { conf.Shaders.Fragment = flags.Shaders.Fragment },
		"watch":    func() { conf.Shaders.Watch = flags.Shaders.Watch },
		"debug":    func() { conf.Log.Debug = flags.Log.Debug },
		"console":  func() { conf.Log.Console = flags.Log.Console },
	}
	for name, apply := range set {
		if fs.Changed(name) {
			apply()
		}
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

// Validate checks values fig cannot check on its own.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if major, minor, err := ParseVersion(c.Window.GL); err != nil {
		errs = append(errs, err)
	} else if major < 3 || (major == 3 && minor < 3) {
		errs = append(errs, fmt.Errorf("OpenGL %d.%d is below the 3.3 core profile", major, minor))
	}
	for name, v := range map[string]float32{
		"r": c.Render.Clear.R, "g": c.Render.Clear.G, "b": c.Render.Clear.B, "a": c.Render.Clear.A,
	} {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("clear color %s=%v out of [0, 1]", name, v))
		}
	}
	if c.Shaders.Watch && c.Shaders.Vertex == "" && c.Shaders.Fragment == "" {
		errs = append(errs, errors.New("shader watch needs a vertex or fragment shader file"))
	}
	return errors.Join(errs...)
}

// ParseVersion splits a "major.minor" version string.
func ParseVersion(v string) (major, minor int, err error) {
	majStr, minStr, ok := strings.Cut(strings.TrimSpace(v), ".")
	if !ok {
		return 0, 0, fmt.Errorf("OpenGL version %q: want major.minor", v)
	}
	if major, err = strconv.Atoi(majStr); err != nil {
		return 0, 0, fmt.Errorf("OpenGL version %q: %w", v, err)
	}
	if minor, err = strconv.Atoi(minStr); err != nil {
		return 0, 0, fmt.Errorf("OpenGL version %q: %w", v, err)
	}
	return major, minor, nil
}

// WindowConfig converts the window section for the app.
// The GL version must have passed Validate.
func (c *Config) WindowConfig() triangle.WindowConfig {
	major, minor, _ := ParseVersion(c.Window.GL)
	return triangle.WindowConfig{
		Width:   c.Window.Width,
		Height:  c.Window.Height,
		Title:   c.Window.Title,
		GLMajor: major,
		GLMinor: minor,
		VSync:   c.Window.VSync,
	}
}

// ClearColor converts the clear color for the app.
func (c *Config) ClearColor() triangle.Color {
	cc := c.Render.Clear
	return triangle.Color{R: cc.R, G: cc.G, B: cc.B, A: cc.A}
}
