package gpu

import (
	"fmt"
)

// Kind classifies a failure by the step of the offscreen render sequence
// that produced it. A Kind is itself an error, so errors.Is(err,
// gpu.ConfigurationError) works on any wrapped *Error.
type Kind int

const (
	InitializationError Kind = iota + 1
	ConfigurationError
	SurfaceCreationError
	ContextCreationError
	ActivationError
	RenderError
	ShaderCompileError
	ProgramLinkError
	ReadbackError
	OutputError
	ReleaseError
)

var kindNames = map[Kind]string{
	InitializationError:  "initialization error",
	ConfigurationError:   "configuration error",
	SurfaceCreationError: "surface creation error",
	ContextCreationError: "context creation error",
	ActivationError:      "activation error",
	RenderError:          "render error",
	ShaderCompileError:   "shader compile error",
	ProgramLinkError:     "program link error",
	ReadbackError:        "readback error",
	OutputError:          "output error",
	ReleaseError:         "release error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Error() string {
	return k.String()
}

// Error is a failed call into a graphics or output API.
type Error struct {
	Kind Kind
	// API is the interface that reported the failure, e.g. "EGL" or "GL"
	API string
	// Op is the failing call
	Op   string
	Code int
	Desc string
	Err  error
}

func NewError(kind Kind, api string, op string, code int, desc string) *Error {
	return &Error{Kind: kind, API: api, Op: op, Code: code, Desc: desc}
}

func WrapError(kind Kind, api string, op string, err error) *Error {
	return &Error{Kind: kind, API: api, Op: op, Desc: err.Error(), Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s error (%s): %s", e.Kind, e.API, e.Op, e.Desc)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}
