package triangle

// VertexAttrib describes how one vertex attribute is read from the buffer.
// Stride and Offset are counted in float32 components.
type VertexAttrib struct {
	Index  uint32
	Size   int32
	Stride int32
	Offset int32
}

// Mesh is vertex data plus its attribute layout.
type Mesh struct {
	Vertices []float32
	Attribs  []VertexAttrib
}

// VertexCount returns the number of vertices described by the first attribute.
func (m Mesh) VertexCount() int32 {
	if len(m.Attribs) == 0 {
		return 0
	}
	stride := m.Attribs[0].Stride
	if stride <= 0 {
		stride = m.Attribs[0].Size
	}
	if stride <= 0 {
		return 0
	}
	return int32(len(m.Vertices)) / stride
}

// MeshHandle identifies a mesh uploaded to the device.
type MeshHandle struct {
	VAO   uint32
	VBO   uint32
	Count int32
}

// TriangleMesh returns a single triangle in normalized device coordinates
// with a vec3 position at attribute location 0.
func TriangleMesh() Mesh {
	return Mesh{
		Vertices: []float32{
			-0.5, -0.5, 0.0,
			0.5, -0.5, 0.0,
			0.0, 0.5, 0.0,
		},
		Attribs: []VertexAttrib{
			{Index: 0, Size: 3, Stride: 3, Offset: 0},
		},
	}
}

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// DefaultClearColor is the dark teal the window is cleared to.
var DefaultClearColor = Color{R: 0.2, G: 0.3, B: 0.3, A: 1.0}
