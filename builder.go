package triangle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-theft-auto/triangle/internal/logger"
)

// Driver is the subset of the graphics API needed to build shader programs.
// Handles are driver object names; zero is never a valid handle.
type Driver interface {
	CreateShader(stage Stage) uint32
	CompileShader(shader uint32, source string)
	ShaderStatus(shader uint32) (compiled bool, log string)
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramStatus(program uint32) (linked bool, log string)
	DeleteProgram(program uint32)
}

// Builder compiles shader stages and links them into programs.
type Builder struct {
	driver Driver
	log    *logger.Logger
}

// NewBuilder creates a builder on top of the given driver.
// A nil logger discards diagnostics.
func NewBuilder(driver Driver, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{driver: driver, log: log}
}

// CompileStage compiles a single shader stage.
//
// On a compile failure the returned shader is still valid (Compiled is false
// and Log holds the diagnostic) together with a *CompileError. The caller
// owns the shader either way and must pass it to Link or Release.
func (b *Builder) CompileStage(src Source) (*Shader, error) {
	if strings.TrimSpace(src.Text) == "" {
		return nil, fmt.Errorf("%s shader %q: %w", src.Stage, src.Name, ErrEmptySource)
	}

	handle := b.driver.CreateShader(src.Stage)
	if handle == 0 {
		return nil, fmt.Errorf("%s shader %q: driver returned no shader object", src.Stage, src.Name)
	}
	b.driver.CompileShader(handle, src.Text)

	ok, log := b.driver.ShaderStatus(handle)
	sh := &Shader{
		Handle:   handle,
		Stage:    src.Stage,
		Name:     src.Name,
		Compiled: ok,
		Log:      cleanLog(log),
	}
	if !ok {
		b.log.Error().
			Str("stage", src.Stage.String()).
			Str("name", src.Name).
			Str("diagnostic", sh.Log).
			Msg("Shader compilation failed")
		return sh, &CompileError{Stage: src.Stage, Name: src.Name, Log: sh.Log}
	}
	if sh.Log != "" {
		b.log.Warn().
			Str("stage", src.Stage.String()).
			Str("name", src.Name).
			Str("diagnostic", sh.Log).
			Msg("Shader compiled with warnings")
		return sh, nil
	}
	b.log.Debug().Str("stage", src.Stage.String()).Str("name", src.Name).Uint32("handle", handle).Msg("Shader compiled")
	return sh, nil
}

// Release deletes a shader that will not be linked.
func (b *Builder) Release(sh *Shader) {
	if sh == nil || sh.Handle == 0 {
		return
	}
	b.driver.DeleteShader(sh.Handle)
	sh.Handle = 0
}

// Link attaches both shaders to a new program and links it.
// Both shaders are released afterwards whatever the outcome.
// The compile status of the inputs is not checked up front: the driver
// decides, and a failed stage surfaces as a *LinkError.
func (b *Builder) Link(vertex, fragment *Shader) (*Program, error) {
	defer b.Release(vertex)
	defer b.Release(fragment)

	if vertex == nil || fragment == nil {
		return nil, fmt.Errorf("link: missing shader: %w", ErrStageMismatch)
	}
	if vertex.Stage != Vertex || fragment.Stage != Fragment {
		return nil, fmt.Errorf("link: got %s and %s shaders: %w", vertex.Stage, fragment.Stage, ErrStageMismatch)
	}

	handle := b.driver.CreateProgram()
	if handle == 0 {
		return nil, errors.New("link: driver returned no program object")
	}
	b.driver.AttachShader(handle, vertex.Handle)
	b.driver.AttachShader(handle, fragment.Handle)
	b.driver.LinkProgram(handle)
	ok, log := b.driver.ProgramStatus(handle)
	b.driver.DetachShader(handle, vertex.Handle)
	b.driver.DetachShader(handle, fragment.Handle)

	p := &Program{Handle: handle, Linked: ok, Log: cleanLog(log), driver: b.driver}
	if !ok {
		diag := p.Log
		if diag == "" {
			diag = uncompiledStages(vertex, fragment)
		}
		b.log.Error().Str("diagnostic", diag).Msg("Shader program linking failed")
		p.Delete()
		return p, &LinkError{Log: diag}
	}
	if p.Log != "" {
		b.log.Warn().Uint32("handle", handle).Str("diagnostic", p.Log).Msg("Shader program linked with warnings")
		return p, nil
	}
	b.log.Debug().Uint32("handle", handle).Msg("Shader program linked")
	return p, nil
}

// Build compiles both stages and links them.
// When both stages fail, both compile errors are returned.
func (b *Builder) Build(vertex, fragment Source) (*Program, error) {
	vs, verr := b.CompileStage(vertex)
	fs, ferr := b.CompileStage(fragment)
	if err := errors.Join(verr, ferr); err != nil {
		b.Release(vs)
		b.Release(fs)
		return nil, err
	}
	return b.Link(vs, fs)
}

func uncompiledStages(shaders ...*Shader) string {
	var failed []string
	for _, sh := range shaders {
		if !sh.Compiled {
			failed = append(failed, sh.Stage.String())
		}
	}
	if len(failed) == 0 {
		return "no diagnostic from driver"
	}
	return "linked uncompiled " + strings.Join(failed, " and ") + " shader"
}
