package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sys/unix"
)

// RenderNode is a DRM render node, the device file headless EGL
// implementations open to reach the GPU.
type RenderNode struct {
	Path string
	// Driver is the kernel driver bound to the node, if known
	Driver string
	// Accessible is true when the current user may open the node read-write
	Accessible bool
}

func LocateRenderNodes() ([]*RenderNode, error) {
	return locateRenderNodes("/dev/dri", "/sys/class/drm")
}

func locateRenderNodes(devDir string, sysDir string) ([]*RenderNode, error) {
	items, err := os.ReadDir(devDir)
	if err != nil {
		return nil, err
	}

	var nodes []*RenderNode
	for _, item := range items {
		if !strings.HasPrefix(item.Name(), "renderD") {
			continue
		}
		path := filepath.Join(devDir, item.Name())
		node := &RenderNode{
			Path:       path,
			Accessible: unix.Access(path, unix.R_OK|unix.W_OK) == nil,
		}

		driver, err := os.Readlink(filepath.Join(sysDir, item.Name(), "device", "driver"))
		if err == nil {
			node.Driver = filepath.Base(driver)
		}
		nodes = append(nodes, node)
	}

	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Path < nodes[j].Path
	})
	return nodes, nil
}
