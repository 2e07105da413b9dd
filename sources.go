package triangle

import (
	"embed"
	"fmt"
	"os"
)

//go:embed shaders/triangle.vert shaders/triangle.frag
var shaderFS embed.FS

// SourceLoader returns the vertex and fragment sources to build.
type SourceLoader func() (vertex, fragment Source, err error)

// EmbeddedSources returns the default shaders compiled into the binary.
func EmbeddedSources() (vertex, fragment Source, err error) {
	if vertex, err = embedded(Vertex, "shaders/triangle.vert"); err != nil {
		return
	}
	fragment, err = embedded(Fragment, "shaders/triangle.frag")
	return
}

func embedded(stage Stage, name string) (Source, error) {
	b, err := shaderFS.ReadFile(name)
	if err != nil {
		return Source{}, fmt.Errorf("embedded %s shader: %w", stage, err)
	}
	return Source{Stage: stage, Name: "embedded:" + name, Text: string(b)}, nil
}

// FileSources returns a loader that reads shaders from disk on every call.
// An empty path selects the embedded shader for that stage.
func FileSources(vertexPath, fragmentPath string) SourceLoader {
	return func() (vertex, fragment Source, err error) {
		ev, ef, err := EmbeddedSources()
		if err != nil {
			return
		}
		if vertex, err = fileOr(Vertex, vertexPath, ev); err != nil {
			return
		}
		fragment, err = fileOr(Fragment, fragmentPath, ef)
		return
	}
}

func fileOr(stage Stage, path string, fallback Source) (Source, error) {
	if path == "" {
		return fallback, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("read %s shader: %w", stage, err)
	}
	return Source{Stage: stage, Name: path, Text: string(b)}, nil
}
