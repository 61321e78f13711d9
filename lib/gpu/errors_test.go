package gpu

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	err := NewError(InitializationError, "EGL", "eglInitialize", 0x3001, "EGL not initialized or failed to initialize")
	want := "initialization error: EGL error (eglInitialize): EGL not initialized or failed to initialize"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestErrorIsKind(t *testing.T) {
	var err error = NewError(ConfigurationError, "EGL", "eglChooseConfig", 0, "no matching configuration")
	err = fmt.Errorf("could not select configuration: %w", err)

	if !errors.Is(err, ConfigurationError) {
		t.Errorf("expected %v to be a configuration error", err)
	}
	if errors.Is(err, SurfaceCreationError) {
		t.Errorf("did not expect %v to be a surface creation error", err)
	}

	var gpuErr *Error
	if !errors.As(err, &gpuErr) {
		t.Fatalf("expected *Error in chain")
	}
	if gpuErr.Op != "eglChooseConfig" {
		t.Errorf("got op %q", gpuErr.Op)
	}
}

func TestWrapErrorKeepsCause(t *testing.T) {
	err := WrapError(OutputError, "os", "open", fs.ErrPermission)
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("cause lost: %v", err)
	}
	if !errors.Is(err, OutputError) {
		t.Errorf("kind lost: %v", err)
	}
}

func TestKindString(t *testing.T) {
	if ReadbackError.String() != "readback error" {
		t.Errorf("got %q", ReadbackError.String())
	}
	if Kind(99).String() != "Kind(99)" {
		t.Errorf("got %q", Kind(99).String())
	}
}

func TestDisplayInfoAtLeast(t *testing.T) {
	tests := []struct {
		major, minor int
		want         bool
	}{
		{1, 4, true},
		{1, 5, false},
		{1, 3, true},
		{2, 0, false},
		{0, 9, true},
	}
	info := DisplayInfo{Major: 1, Minor: 4}
	for _, tt := range tests {
		if got := info.AtLeast(tt.major, tt.minor); got != tt.want {
			t.Errorf("AtLeast(%d, %d) = %v, want %v", tt.major, tt.minor, got, tt.want)
		}
	}
}
