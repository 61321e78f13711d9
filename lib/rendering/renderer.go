package rendering

import (
	"fmt"

	"github.com/fosdem/eglrender/lib/gpu"
	"github.com/fosdem/eglrender/lib/utils"
	"github.com/go-gl/gl/v4.1-core/gl"
)

// GLRenderer draws scenes with the GL context current on this thread.
type GLRenderer struct {
	Width  int
	Height int

	// FramebufferID is the draw and read target, 0 for the surface itself
	FramebufferID uint32

	retained      *GLVars
	retainedScene *gpu.Scene
}

func NewGLRenderer(width int, height int, framebufferID uint32) *GLRenderer {
	return &GLRenderer{Width: width, Height: height, FramebufferID: framebufferID}
}

func (r *GLRenderer) Render(scene *gpu.Scene) error {
	clearOpenGLError()

	gl.BindFramebuffer(gl.FRAMEBUFFER, r.FramebufferID)
	gl.Viewport(0, 0, int32(r.Width), int32(r.Height))

	vars, err := r.varsFor(scene)
	if err != nil {
		return err
	}
	if !scene.Retain {
		defer vars.Delete()
	}

	cr, cg, cb, ca := utils.ColourFloats(scene.ClearColour)
	gl.ClearColor(cr, cg, cb, ca)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	vars.Draw()
	gl.Flush()

	return CheckError(gpu.RenderError, "glDrawArrays")
}

func (r *GLRenderer) varsFor(scene *gpu.Scene) (*GLVars, error) {
	if r.retained != nil && r.retainedScene == scene {
		return r.retained, nil
	}
	r.dropRetained()

	vars, err := NewGLVars(scene)
	if err != nil {
		return nil, err
	}
	if scene.Retain {
		r.retained = vars
		r.retainedScene = scene
	}
	return vars, nil
}

func (r *GLRenderer) dropRetained() {
	if r.retained != nil {
		r.retained.Delete()
		r.retained = nil
		r.retainedScene = nil
	}
}

func (r *GLRenderer) Finish() error {
	gl.Finish()
	return CheckError(gpu.ReadbackError, "glFinish")
}

func (r *GLRenderer) ReadPixels(width int, height int, dst []byte) error {
	if len(dst) < width*height*3 {
		return gpu.NewError(gpu.ReadbackError, "GL", "glReadPixels", 0,
			fmt.Sprintf("destination holds %d bytes, need %d", len(dst), width*height*3))
	}
	clearOpenGLError()

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.FramebufferID)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(&dst[0]))

	return CheckError(gpu.ReadbackError, "glReadPixels")
}

func (r *GLRenderer) Release() {
	r.dropRetained()
}
