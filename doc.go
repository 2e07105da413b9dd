/*
Package triangle draws a single triangle with OpenGL.

# Overview

The package owns the parts of the program that do not need a GPU: shader
program construction, the vertex layout of the triangle, and the render loop.
The graphics API is reached through the Driver and Device interfaces and the
window system through Platform and Window; backend/opengl implements them with
go-gl and GLFW.

# Quick Start

	platform := opengl.NewGLFWPlatform(log)
	device := opengl.NewDevice(log)

	app := triangle.New(platform, device, triangle.WithLogger(log))
	if err := app.Run(ctx); err != nil {
	    os.Exit(triangle.ExitCode(err))
	}

# Building shader programs

A Builder compiles each stage and links the result:

	b := triangle.NewBuilder(device, log)
	vs, fs, _ := triangle.EmbeddedSources()
	program, err := b.Build(vs, fs)
	if err != nil {
	    // *CompileError or *LinkError carrying the driver info log
	}
	defer program.Delete()

CompileStage and Link can also be called separately. A shader that fails to
compile is still returned, with Compiled set to false and the diagnostic in
Log, so it can be linked or released. Link always releases both shaders.

# Errors

	ErrEmptySource    shader text is empty
	ErrStageMismatch  vertex and fragment shaders swapped or missing
	ErrWindowCreate   no window could be opened
	*CompileError     a stage failed to compile
	*LinkError        the program failed to link
	*InitError        window system or GL loader failed (exit status -1)

# Threading

Every Driver, Device, Platform and Window method must be called on the thread
that created the GL context. App.Run does all of its work on the calling
thread; only the reload channel may be fed from another goroutine.
*/
package triangle
