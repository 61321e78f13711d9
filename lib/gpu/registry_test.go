package gpu

import (
	"slices"
	"testing"
)

type nullDriver struct{}

func (nullDriver) Name() string { return "null" }

func (nullDriver) Open() (Display, error) {
	return nil, NewError(InitializationError, "null", "open", 0, "no device")
}

func TestRegistry(t *testing.T) {
	Register("null-test", func() Driver { return nullDriver{} })
	defer Unregister("null-test")

	if !slices.Contains(Available(), "null-test") {
		t.Fatalf("null-test not in %v", Available())
	}

	drv, err := Get("null-test")
	if err != nil {
		t.Fatal(err)
	}
	if drv.Name() != "null" {
		t.Errorf("got driver %q", drv.Name())
	}

	Unregister("null-test")
	if _, err := Get("null-test"); err == nil {
		t.Errorf("expected error for unregistered backend")
	}
}
