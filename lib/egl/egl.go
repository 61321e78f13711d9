// Package egl is a thin binding to the parts of libEGL needed for headless
// pixel-buffer rendering.
package egl

/*
#cgo pkg-config: egl
#include <EGL/egl.h>
#include <stdlib.h>

static EGLDisplay default_display(void) { return eglGetDisplay(EGL_DEFAULT_DISPLAY); }
static EGLDisplay no_display(void) { return EGL_NO_DISPLAY; }
static EGLSurface no_surface(void) { return EGL_NO_SURFACE; }
static EGLContext no_context(void) { return EGL_NO_CONTEXT; }
static void *get_proc_address(const char *name) { return (void *)eglGetProcAddress(name); }
*/
import "C"
import (
	"unsafe"
)

type Display struct {
	d C.EGLDisplay
}

type Config struct {
	c C.EGLConfig
}

type Surface struct {
	s C.EGLSurface
}

type Context struct {
	c C.EGLContext
}

const (
	Success = C.EGL_SUCCESS
	None    = C.EGL_NONE

	Vendor     = C.EGL_VENDOR
	Version    = C.EGL_VERSION
	ClientAPIs = C.EGL_CLIENT_APIS
	Extensions = C.EGL_EXTENSIONS

	SurfaceType    = C.EGL_SURFACE_TYPE
	PbufferBit     = C.EGL_PBUFFER_BIT
	RedSize        = C.EGL_RED_SIZE
	GreenSize      = C.EGL_GREEN_SIZE
	BlueSize       = C.EGL_BLUE_SIZE
	DepthSize      = C.EGL_DEPTH_SIZE
	RenderableType = C.EGL_RENDERABLE_TYPE
	OpenGLBit      = C.EGL_OPENGL_BIT
	Width          = C.EGL_WIDTH
	Height         = C.EGL_HEIGHT

	OpenGLAPI = C.EGL_OPENGL_API

	NotInitialized    = C.EGL_NOT_INITIALIZED
	BadAccess         = C.EGL_BAD_ACCESS
	BadAlloc          = C.EGL_BAD_ALLOC
	BadAttribute      = C.EGL_BAD_ATTRIBUTE
	BadConfig         = C.EGL_BAD_CONFIG
	BadContext        = C.EGL_BAD_CONTEXT
	BadCurrentSurface = C.EGL_BAD_CURRENT_SURFACE
	BadDisplay        = C.EGL_BAD_DISPLAY
	BadMatch          = C.EGL_BAD_MATCH
	BadNativePixmap   = C.EGL_BAD_NATIVE_PIXMAP
	BadNativeWindow   = C.EGL_BAD_NATIVE_WINDOW
	BadParameter      = C.EGL_BAD_PARAMETER
	BadSurface        = C.EGL_BAD_SURFACE
	ContextLost       = C.EGL_CONTEXT_LOST
)

var (
	NoDisplay = Display{C.no_display()}
	NoSurface = Surface{C.no_surface()}
	NoContext = Context{C.no_context()}
)

// GetError returns and clears the error of the last EGL call on this thread.
func GetError() int {
	return int(C.eglGetError())
}

func GetDisplay() Display {
	return Display{C.default_display()}
}

func (d Display) IsNone() bool {
	return d == NoDisplay
}

func (d Display) Initialize() (major int, minor int, ok bool) {
	var cmajor, cminor C.EGLint
	ok = C.eglInitialize(d.d, &cmajor, &cminor) == C.EGL_TRUE
	return int(cmajor), int(cminor), ok
}

func (d Display) Terminate() bool {
	return C.eglTerminate(d.d) == C.EGL_TRUE
}

func (d Display) QueryString(name int) string {
	s := C.eglQueryString(d.d, C.EGLint(name))
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

// ChooseConfig returns at most one configuration matching attribs, a
// list of key/value pairs without the EGL_NONE terminator.
func (d Display) ChooseConfig(attribs []int) (Config, bool, bool) {
	list := attribList(attribs)
	var cfg C.EGLConfig
	var num C.EGLint
	ok := C.eglChooseConfig(d.d, &list[0], &cfg, 1, &num) == C.EGL_TRUE
	return Config{cfg}, num > 0, ok
}

func (d Display) GetConfigAttrib(cfg Config, attrib int) (int, bool) {
	var value C.EGLint
	ok := C.eglGetConfigAttrib(d.d, cfg.c, C.EGLint(attrib), &value) == C.EGL_TRUE
	return int(value), ok
}

func (d Display) CreatePbufferSurface(cfg Config, attribs []int) Surface {
	list := attribList(attribs)
	return Surface{C.eglCreatePbufferSurface(d.d, cfg.c, &list[0])}
}

func (d Display) DestroySurface(s Surface) bool {
	return C.eglDestroySurface(d.d, s.s) == C.EGL_TRUE
}

func BindAPI(api int) bool {
	return C.eglBindAPI(C.EGLenum(api)) == C.EGL_TRUE
}

func (d Display) CreateContext(cfg Config, share Context) Context {
	list := attribList(nil)
	return Context{C.eglCreateContext(d.d, cfg.c, share.c, &list[0])}
}

func (d Display) DestroyContext(c Context) bool {
	return C.eglDestroyContext(d.d, c.c) == C.EGL_TRUE
}

func (d Display) MakeCurrent(draw Surface, read Surface, c Context) bool {
	return C.eglMakeCurrent(d.d, draw.s, read.s, c.c) == C.EGL_TRUE
}

// WaitGL blocks until all GL rendering submitted on the current context
// has completed.
func WaitGL() bool {
	return C.eglWaitGL() == C.EGL_TRUE
}

func GetProcAddress(name string) unsafe.Pointer {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return C.get_proc_address(cname)
}

func attribList(attribs []int) []C.EGLint {
	list := make([]C.EGLint, 0, len(attribs)+1)
	for _, a := range attribs {
		list = append(list, C.EGLint(a))
	}
	return append(list, C.EGL_NONE)
}

// ErrorString describes an EGL error code.
func ErrorString(code int) string {
	switch code {
	case Success:
		return "No error"
	case NotInitialized:
		return "EGL not initialized or failed to initialize"
	case BadAccess:
		return "Resource inaccessible"
	case BadAlloc:
		return "Cannot allocate resources"
	case BadAttribute:
		return "Unrecognized attribute or attribute value"
	case BadContext:
		return "Invalid EGL context"
	case BadConfig:
		return "Invalid EGL frame buffer configuration"
	case BadCurrentSurface:
		return "Current surface is no longer valid"
	case BadDisplay:
		return "Invalid EGL display"
	case BadSurface:
		return "Invalid surface"
	case BadMatch:
		return "Inconsistent arguments"
	case BadParameter:
		return "Invalid argument"
	case BadNativePixmap:
		return "Invalid native pixmap"
	case BadNativeWindow:
		return "Invalid native window"
	case ContextLost:
		return "Context lost"
	}
	return "Unknown error"
}

func (s Surface) IsNone() bool {
	return s == NoSurface
}

func (c Context) IsNone() bool {
	return c == NoContext
}
