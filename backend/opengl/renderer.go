// Package opengl provides the OpenGL 4.1 and GLFW backend for triangle.
package opengl

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/triangle"
	"github.com/go-theft-auto/triangle/internal/logger"
)

const sizeofFloat32 = int32(unsafe.Sizeof(float32(0)))

var _ triangle.Device = (*Device)(nil)

// Device implements triangle.Device on the current OpenGL context.
// All methods must be called on the thread that owns the context.
type Device struct {
	log *logger.Logger
}

// NewDevice creates a device. Call Init once the context is current.
func NewDevice(log *logger.Logger) *Device {
	if log == nil {
		log = logger.Nop()
	}
	return &Device{log: log}
}

// Init loads the OpenGL entry points for the current context.
func (d *Device) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	d.log.Info().
		Str("version", gl.GoStr(gl.GetString(gl.VERSION))).
		Str("renderer", gl.GoStr(gl.GetString(gl.RENDERER))).
		Msg("OpenGL initialized")
	return nil
}

func shaderType(stage triangle.Stage) uint32 {
	switch stage {
	case triangle.Vertex:
		return gl.VERTEX_SHADER
	case triangle.Fragment:
		return gl.FRAGMENT_SHADER
	}
	return 0
}

// CreateShader creates an empty shader object for the stage.
func (d *Device) CreateShader(stage triangle.Stage) uint32 {
	typ := shaderType(stage)
	if typ == 0 {
		return 0
	}
	return gl.CreateShader(typ)
}

// CompileShader sets the shader source and compiles it.
func (d *Device) CompileShader(shader uint32, source string) {
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)
}

// ShaderStatus returns COMPILE_STATUS and the info log.
func (d *Device) ShaderStatus(shader uint32) (bool, string) {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)

	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return status != gl.FALSE, ""
	}
	log := make([]byte, logLength+1)
	gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
	return status != gl.FALSE, string(log)
}

func (d *Device) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (d *Device) CreateProgram() uint32 { return gl.CreateProgram() }

func (d *Device) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (d *Device) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }

func (d *Device) LinkProgram(program uint32) { gl.LinkProgram(program) }

// ProgramStatus returns LINK_STATUS and the info log.
func (d *Device) ProgramStatus(program uint32) (bool, string) {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)

	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return status != gl.FALSE, ""
	}
	log := make([]byte, logLength+1)
	gl.GetProgramInfoLog(program, logLength, nil, &log[0])
	return status != gl.FALSE, string(log)
}

func (d *Device) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

// UploadMesh copies the vertices into a static buffer and records the
// attribute layout in a vertex array object.
func (d *Device) UploadMesh(m triangle.Mesh) (triangle.MeshHandle, error) {
	if len(m.Vertices) == 0 || len(m.Attribs) == 0 {
		return triangle.MeshHandle{}, errors.New("mesh has no vertices or attributes")
	}

	var h triangle.MeshHandle
	h.Count = m.VertexCount()

	gl.GenVertexArrays(1, &h.VAO)
	gl.BindVertexArray(h.VAO)

	gl.GenBuffers(1, &h.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*int(sizeofFloat32), gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	for _, a := range m.Attribs {
		gl.VertexAttribPointerWithOffset(a.Index, a.Size, gl.FLOAT, false,
			a.Stride*sizeofFloat32, uintptr(a.Offset*sizeofFloat32))
		gl.EnableVertexAttribArray(a.Index)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	d.log.Debug().Uint32("vao", h.VAO).Uint32("vbo", h.VBO).Int32("vertices", h.Count).Msg("Mesh uploaded")
	return h, nil
}

// DeleteMesh releases the buffer and vertex array of an uploaded mesh.
func (d *Device) DeleteMesh(h triangle.MeshHandle) {
	if h.VBO != 0 {
		gl.DeleteBuffers(1, &h.VBO)
	}
	if h.VAO != 0 {
		gl.DeleteVertexArrays(1, &h.VAO)
	}
}

func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) Clear(c triangle.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// Draw draws the mesh as triangles with the program.
func (d *Device) Draw(p *triangle.Program, m triangle.MeshHandle) {
	if p == nil || !p.Linked || m.Count == 0 {
		return
	}
	gl.UseProgram(p.Handle)
	gl.BindVertexArray(m.VAO)
	gl.DrawArrays(gl.TRIANGLES, 0, m.Count)
	gl.BindVertexArray(0)
}
