package triangle

import (
	"errors"
	"fmt"
	"strings"
)

// Stage is a programmable step of the graphics pipeline.
type Stage uint8

const (
	Vertex Stage = iota
	Fragment
)

func (s Stage) String() string {
	switch s {
	case Vertex:
		return "vertex"
	case Fragment:
		return "fragment"
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

var (
	// ErrEmptySource is returned when a shader source has no text.
	ErrEmptySource = errors.New("empty shader source")
	// ErrStageMismatch is returned when a shader is linked in the wrong slot.
	ErrStageMismatch = errors.New("shader stage mismatch")
)

// Source is the GLSL text of one shader stage.
// Name is only used in diagnostics (a file path or an embedded name).
type Source struct {
	Stage Stage
	Name  string
	Text  string
}

// Shader is a driver-owned shader object created from a Source.
type Shader struct {
	Handle   uint32
	Stage    Stage
	Name     string
	Compiled bool
	// Log is the driver info log, empty when compilation succeeded cleanly.
	Log string
}

// Program is a linked shader program.
// The program handle is owned by the driver and released with Delete.
type Program struct {
	Handle uint32
	Linked bool
	Log    string

	driver Driver
}

// Delete releases the program object. It is safe to call more than once.
func (p *Program) Delete() {
	if p == nil || p.Handle == 0 || p.driver == nil {
		return
	}
	p.driver.DeleteProgram(p.Handle)
	p.Handle = 0
	p.Linked = false
}

// CompileError reports a shader stage that failed to compile.
type CompileError struct {
	Stage Stage
	Name  string
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader %q compilation failed: %s", e.Stage, e.Name, e.Log)
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "shader program linking failed: " + e.Log
}

// cleanLog strips the NUL terminator and trailing whitespace that drivers
// leave in info logs.
func cleanLog(log string) string {
	if i := strings.IndexByte(log, 0); i >= 0 {
		log = log[:i]
	}
	return strings.TrimRight(log, " \t\r\n")
}
