package rendering

import (
	"fmt"

	"github.com/fosdem/eglrender/lib/gpu"
	"github.com/go-gl/gl/v4.1-core/gl"
)

func errorString(code uint32) string {
	switch code {
	case gl.NO_ERROR:
		return "No error"
	case gl.INVALID_ENUM:
		return "Invalid enum"
	case gl.INVALID_VALUE:
		return "Invalid value"
	case gl.INVALID_OPERATION:
		return "Invalid operation"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "Invalid framebuffer operation"
	case gl.OUT_OF_MEMORY:
		return "Out of memory"
	case gl.STACK_UNDERFLOW:
		return "Stack underflow"
	case gl.STACK_OVERFLOW:
		return "Stack overflow"
	}
	return fmt.Sprintf("Unknown error 0x%04x", code)
}

func clearOpenGLError() {
	for gl.GetError() != gl.NO_ERROR {
	}
}

// CheckError turns a pending GL error into a *gpu.Error of the given kind.
func CheckError(kind gpu.Kind, op string) error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	clearOpenGLError()
	return gpu.NewError(kind, "GL", op, int(code), errorString(code))
}
