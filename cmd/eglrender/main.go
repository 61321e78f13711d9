package main

import (
	"os"
	"runtime"

	"github.com/fosdem/eglrender/lib/cli"
	_ "github.com/fosdem/eglrender/lib/gpu/egldriver"
	_ "github.com/fosdem/eglrender/lib/gpu/glfwdriver"
	_ "github.com/fosdem/eglrender/lib/gpu/softdriver"
)

func init() {
	// The EGL and OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout, os.Stderr))
}
