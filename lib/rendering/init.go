package rendering

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

type Info struct {
	Vendor   string
	Renderer string
	Version  string
}

// Init loads the GL function table through getProcAddr. A context must be
// current on the calling thread.
func Init(getProcAddr func(name string) unsafe.Pointer) (*Info, error) {
	err := gl.InitWithProcAddrFunc(getProcAddr)
	if err != nil {
		return nil, fmt.Errorf("could not initialise OpenGL context: %w", err)
	}

	info := &Info{
		Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
	}
	slog.Info(fmt.Sprintf("OpenGL version %s / %s / %s", info.Vendor, info.Renderer, info.Version), "module", "gl")

	return info, nil
}
