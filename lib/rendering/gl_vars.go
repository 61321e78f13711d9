package rendering

import (
	"github.com/fosdem/eglrender/lib/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

const f32 = 4

// GLVars holds the GL objects one draw of a scene needs.
type GLVars struct {
	Program uint32

	// GL IDs
	VAO uint32
	VBO uint32

	NumVertices int32
}

func NewGLVars(scene *gpu.Scene) (*GLVars, error) {
	g := &GLVars{}
	g.allocate(scene)

	program, err := newProgram(scene.VertexShader, scene.FragmentShader)
	if err != nil {
		g.Delete()
		return nil, err
	}
	g.Program = program

	return g, nil
}

func (g *GLVars) allocate(scene *gpu.Scene) {
	points := make([]float32, 0, len(scene.Triangle)*3)
	for _, v := range scene.Triangle {
		points = append(points, v[:]...)
	}
	g.NumVertices = int32(len(scene.Triangle))

	gl.GenBuffers(1, &g.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(points)*f32, gl.Ptr(points), gl.STATIC_DRAW)

	// Configure the vertex data: one tightly packed vec3 per vertex
	gl.GenVertexArrays(1, &g.VAO)
	gl.BindVertexArray(g.VAO)
	gl.EnableVertexAttribArray(positionAttrib)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.VBO)
	gl.VertexAttribPointerWithOffset(positionAttrib, 3, gl.FLOAT, false, 0, 0)
}

func (g *GLVars) Draw() {
	gl.UseProgram(g.Program)
	gl.BindVertexArray(g.VAO)
	gl.DrawArrays(gl.TRIANGLES, 0, g.NumVertices)
}

func (g *GLVars) Delete() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	if g.Program != 0 {
		gl.DeleteProgram(g.Program)
		g.Program = 0
	}
	if g.VAO != 0 {
		gl.DeleteVertexArrays(1, &g.VAO)
		g.VAO = 0
	}
	if g.VBO != 0 {
		gl.DeleteBuffers(1, &g.VBO)
		g.VBO = 0
	}
}
