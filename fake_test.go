package triangle_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-theft-auto/triangle"
)

// fakeDriver is an in-memory driver. Its compiler only checks that every
// statement inside a function body ends with a semicolon, which is enough to
// tell valid and broken test shaders apart.
type fakeDriver struct {
	next     uint32
	shaders  map[uint32]*fakeShader
	programs map[uint32]*fakeProgram

	deletedShaders  []uint32
	deletedPrograms []uint32
	// silentLink drops the driver link log, as some drivers do.
	silentLink bool
}

type fakeShader struct {
	stage    triangle.Stage
	compiled bool
	log      string
}

type fakeProgram struct {
	attached []uint32
	linked   bool
	log      string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		shaders:  make(map[uint32]*fakeShader),
		programs: make(map[uint32]*fakeProgram),
	}
}

func (d *fakeDriver) CreateShader(stage triangle.Stage) uint32 {
	d.next++
	d.shaders[d.next] = &fakeShader{stage: stage}
	return d.next
}

func (d *fakeDriver) CompileShader(shader uint32, source string) {
	sh := d.shaders[shader]
	sh.log = checkSemicolons(source)
	sh.compiled = sh.log == ""
	if sh.compiled && strings.Contains(source, "unused") {
		sh.log = "0:1(1): warning: unused variable"
	}
}

func (d *fakeDriver) ShaderStatus(shader uint32) (bool, string) {
	sh := d.shaders[shader]
	// drivers return the log NUL terminated
	if sh.log != "" {
		return sh.compiled, sh.log + "\n\x00"
	}
	return sh.compiled, ""
}

func (d *fakeDriver) DeleteShader(shader uint32) {
	delete(d.shaders, shader)
	d.deletedShaders = append(d.deletedShaders, shader)
}

func (d *fakeDriver) CreateProgram() uint32 {
	d.next++
	d.programs[d.next] = &fakeProgram{}
	return d.next
}

func (d *fakeDriver) AttachShader(program, shader uint32) {
	p := d.programs[program]
	p.attached = append(p.attached, shader)
}

func (d *fakeDriver) DetachShader(program, shader uint32) {
	p := d.programs[program]
	for i, s := range p.attached {
		if s == shader {
			p.attached = append(p.attached[:i], p.attached[i+1:]...)
			return
		}
	}
}

func (d *fakeDriver) LinkProgram(program uint32) {
	p := d.programs[program]
	p.linked = true
	for _, s := range p.attached {
		sh, ok := d.shaders[s]
		if !ok || !sh.compiled {
			p.linked = false
			if !d.silentLink {
				p.log = fmt.Sprintf("error: shader %d is not compiled", s)
			}
		}
	}
}

func (d *fakeDriver) ProgramStatus(program uint32) (bool, string) {
	p := d.programs[program]
	return p.linked, p.log
}

func (d *fakeDriver) DeleteProgram(program uint32) {
	delete(d.programs, program)
	d.deletedPrograms = append(d.deletedPrograms, program)
}

func checkSemicolons(src string) string {
	depth := 0
	for i, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//"):
		case strings.HasSuffix(line, "{"):
			depth++
		case line == "}":
			depth--
		case depth > 0 && !strings.HasSuffix(line, ";"):
			return fmt.Sprintf("0:%d(1): error: syntax error, unexpected '}', expecting ';'", i+2)
		}
	}
	return ""
}

// fakeDevice adds the drawing calls to fakeDriver.
type fakeDevice struct {
	*fakeDriver

	initErr   error
	uploadErr error

	meshes    map[uint32]triangle.Mesh
	viewports [][2]int
	clears    int
	draws     []uint32
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{fakeDriver: newFakeDriver(), meshes: make(map[uint32]triangle.Mesh)}
}

func (d *fakeDevice) Init() error { return d.initErr }

func (d *fakeDevice) UploadMesh(m triangle.Mesh) (triangle.MeshHandle, error) {
	if d.uploadErr != nil {
		return triangle.MeshHandle{}, d.uploadErr
	}
	d.next++
	d.meshes[d.next] = m
	return triangle.MeshHandle{VAO: d.next, VBO: d.next, Count: m.VertexCount()}, nil
}

func (d *fakeDevice) DeleteMesh(h triangle.MeshHandle) { delete(d.meshes, h.VAO) }

func (d *fakeDevice) Viewport(width, height int) {
	d.viewports = append(d.viewports, [2]int{width, height})
}

func (d *fakeDevice) Clear(triangle.Color) { d.clears++ }

func (d *fakeDevice) Draw(p *triangle.Program, m triangle.MeshHandle) {
	d.draws = append(d.draws, p.Handle)
}

// fakePlatform opens fakeWindows that close after a fixed number of frames.
type fakePlatform struct {
	initErr    error
	openErr    error
	frames     int
	onFrame    func(frame int)
	sizes      [][2]int
	initCalls  int
	terminated bool
	window     *fakeWindow
}

func (p *fakePlatform) Init() error {
	p.initCalls++
	return p.initErr
}

func (p *fakePlatform) Terminate() { p.terminated = true }

func (p *fakePlatform) OpenWindow(cfg triangle.WindowConfig) (triangle.Window, error) {
	if p.openErr != nil {
		return nil, p.openErr
	}
	p.window = &fakeWindow{platform: p, width: cfg.Width, height: cfg.Height}
	return p.window, nil
}

type fakeWindow struct {
	platform      *fakePlatform
	frame         int
	width, height int
	inputs        int
	swaps         int
	destroyed     bool
}

func (w *fakeWindow) ShouldClose() bool { return w.frame >= w.platform.frames }

func (w *fakeWindow) ProcessInput() { w.inputs++ }

func (w *fakeWindow) FramebufferSize() (int, int) {
	if w.frame < len(w.platform.sizes) {
		s := w.platform.sizes[w.frame]
		return s[0], s[1]
	}
	return w.width, w.height
}

func (w *fakeWindow) SwapBuffers() { w.swaps++ }

func (w *fakeWindow) PollEvents() {
	if w.platform.onFrame != nil {
		w.platform.onFrame(w.frame)
	}
	w.frame++
}

func (w *fakeWindow) Destroy() { w.destroyed = true }

var errNoDisplay = errors.New("no display")
