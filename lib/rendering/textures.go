package rendering

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Framebuffer is an offscreen render target for contexts whose default
// framebuffer is not a pixel buffer, such as a hidden window.
type Framebuffer struct {
	ID                uint32
	ColourTexture     uint32
	DepthRenderbuffer uint32
}

func NewFramebuffer(width int, height int, depthBits int) (*Framebuffer, error) {
	f := &Framebuffer{}
	f.ColourTexture = SetupRGBTexture(width, height)

	var err error
	f.ID, err = UseTextureAsFramebuffer(f.ColourTexture)
	if err != nil {
		f.Delete()
		return nil, err
	}

	if depthBits > 0 {
		f.DepthRenderbuffer = SetupDepthRenderbuffer(width, height, depthBits)
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, f.DepthRenderbuffer)
		if err := checkFramebufferStatus(); err != nil {
			f.Delete()
			return nil, err
		}
	}

	return f, nil
}

func (f *Framebuffer) Delete() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if f.ID != 0 {
		gl.DeleteFramebuffers(1, &f.ID)
		f.ID = 0
	}
	if f.DepthRenderbuffer != 0 {
		gl.DeleteRenderbuffers(1, &f.DepthRenderbuffer)
		f.DepthRenderbuffer = 0
	}
	if f.ColourTexture != 0 {
		gl.DeleteTextures(1, &f.ColourTexture)
		f.ColourTexture = 0
	}
}

func SetupRGBTexture(width int, height int) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGB8,
		int32(width),
		int32(height),
		0,
		gl.RGB,
		gl.UNSIGNED_BYTE,
		gl.Ptr(nil),
	)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	return id
}

func SetupDepthRenderbuffer(width int, height int, depthBits int) uint32 {
	format := uint32(gl.DEPTH_COMPONENT16)
	if depthBits > 16 {
		format = gl.DEPTH_COMPONENT24
	}

	var id uint32
	gl.GenRenderbuffers(1, &id)
	gl.BindRenderbuffer(gl.RENDERBUFFER, id)
	gl.RenderbufferStorage(gl.RENDERBUFFER, format, int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	return id
}

func UseTextureAsFramebuffer(textureID uint32) (uint32, error) {
	framebufferID := uint32(0)
	gl.GenFramebuffers(1, &framebufferID)
	gl.BindFramebuffer(gl.FRAMEBUFFER, framebufferID)

	gl.BindTexture(gl.TEXTURE_2D, textureID)
	gl.FramebufferTexture(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, textureID, 0)

	if err := checkFramebufferStatus(); err != nil {
		gl.DeleteFramebuffers(1, &framebufferID)
		return 0, err
	}
	return framebufferID, nil
}

func checkFramebufferStatus() error {
	switch status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status {
	case gl.FRAMEBUFFER_COMPLETE:
		return nil
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return fmt.Errorf("framebuffer incomplete attachment")
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return fmt.Errorf("framebuffer incomplete, missing attachment")
	case gl.FRAMEBUFFER_UNSUPPORTED:
		return fmt.Errorf("framebuffer unsupported")
	case gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:
		return fmt.Errorf("framebuffer incomplete multisample")
	default:
		return fmt.Errorf("unknown framebuffer issue 0x%04x", status)
	}
}
