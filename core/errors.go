// Copyright 2026 The psxgpu Authors. All rights reserved.

package core

import "fmt"

// The three error kinds from spec.md §7. No other operation in this
// package returns an error for out-of-bounds coordinates, overlapping
// copies, mask-bit policy "violations" or degenerate primitives —
// those are defined behaviors, not failures.

// ConfigurationError is raised before any draw if the resolution
// scale is outside [1,16] or a required device feature (storage-image
// read/write, dual-source blending, a per-draw constant block of at
// least 64 bytes) is unavailable.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("psxgpu: configuration error: %s", e.Reason)
}

// ResourceExhaustion is returned when a VRAM upload would exceed the
// staging budget. The caller must retry after flushing (core.Core
// does this automatically for CpuToVram/VramToCpu, but a caller using
// the staging pool directly may see this error).
type ResourceExhaustion struct {
	Requested, Budget int64
}

func (e *ResourceExhaustion) Error() string {
	return fmt.Sprintf("psxgpu: resource exhaustion: requested %d bytes, budget %d", e.Requested, e.Budget)
}

// DeviceLost means the backend reported a lost device. It is fatal:
// the driver must tear down and recreate all GPU resources (a new
// core.Core, and a new vram.Store) before rendering can continue.
type DeviceLost struct {
	// Cause is the error the backend's GPU.Commit reported.
	Cause error
}

func (e *DeviceLost) Error() string {
	return fmt.Sprintf("psxgpu: device lost: %v", e.Cause)
}

func (e *DeviceLost) Unwrap() error { return e.Cause }
