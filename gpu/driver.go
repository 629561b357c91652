// Copyright 2026 The psxgpu Authors. All rights reserved.

package gpu

import (
	"errors"
	"log"
	"sync"
)

// Driver is the interface that provides methods for loading and
// unloading an underlying implementation (e.g. gpu/gl).
type Driver interface {
	// Open initializes the driver. If it succeeds, further calls with
	// the same receiver have no effect and must return the same GPU
	// instance. Open is not safe for parallel execution.
	Open() (GPU, error)

	// Name returns the name of the driver. It must not cause the
	// driver to be opened.
	Name() string

	// Close deinitializes the driver. Closing a driver that is not
	// open has no effect. Close is not safe for parallel execution.
	Close()
}

// ErrNotInstalled means that a platform-specific library required
// for the driver to work is not present on the system.
var ErrNotInstalled = errors.New("gpu: missing required library")

// ErrNoDevice means that no suitable device could be found.
var ErrNoDevice = errors.New("gpu: no suitable device found")

// ErrNoHostMemory means that host memory could not be allocated.
var ErrNoHostMemory = errors.New("gpu: out of host memory")

// ErrNoDeviceMemory means that device memory could not be allocated.
var ErrNoDeviceMemory = errors.New("gpu: out of device memory")

// ErrFatal means the driver is in an unrecoverable state. This is
// the signal core.Core turns into a DeviceLost error (spec.md §7):
// upon receiving it, every GPU resource must be destroyed and the
// driver reopened before further use.
var ErrFatal = errors.New("gpu: fatal error")

// Drivers returns the registered Drivers. Backend packages (e.g.
// gpu/gl) register themselves from an init function; only backends
// actually imported by the caller are considered for selection.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	drv := make([]Driver, len(drivers))
	copy(drv, drivers)
	return drv
}

// Register registers a Driver. A backend implementation is expected
// to call Register exactly once, from an init function. If a driver
// with the same name has already been registered, it is replaced.
func Register(drv Driver) {
	mu.Lock()
	defer mu.Unlock()
	for i := range drivers {
		if drivers[i].Name() == drv.Name() {
			drivers[i] = drv
			log.Printf("[!] gpu: driver %q replaced", drv.Name())
			return
		}
	}
	drivers = append(drivers, drv)
	log.Printf("gpu: driver %q registered", drv.Name())
}

var (
	mu      sync.Mutex
	drivers = make([]Driver, 0, 1)
)
