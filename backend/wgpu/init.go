//go:build !nogpu

package wgpu

import (
	"github.com/gogpu/backdrop/backend"
)

// init registers the wgpu device on package import.
// This enables automatic device selection via backend.Default().
//
// To use the wgpu device, import this package:
//
//	import _ "github.com/gogpu/backdrop/backend/wgpu"
//
// A device created through the registry has no HAL handles and its Init
// fails with backend.ErrBackendNotAvailable; hosts that own a GPU device
// construct one with New or NewFromProvider instead.
func init() {
	backend.Register(backend.DeviceWGPU, func() backend.Device {
		return &Device{mirror: backend.NewSoftwareDevice()}
	})
}
