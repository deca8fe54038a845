// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package halgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wsi"
)

var (
	// ErrNoBackend is returned by Open when no hal backend is registered.
	ErrNoBackend = errors.New("halgpu: no hal backend available")

	// ErrNoAdapter is returned by Open when the backend reports no adapter.
	ErrNoAdapter = errors.New("halgpu: no GPU adapter found")

	// ErrForeignResource is returned when a resource created by another
	// wsi.Device is passed in.
	ErrForeignResource = errors.New("halgpu: resource not created by this device")

	// ErrNotAcquired is returned when a command buffer is submitted for an
	// image that has no acquired texture.
	ErrNotAcquired = errors.New("halgpu: image not acquired")

	// ErrFenceNotSubmitted is returned when waiting on a fence that no
	// submission will signal.
	ErrFenceNotSubmitted = errors.New("halgpu: wait on unsubmitted fence")
)

// presentationError wraps a hal acquire or present error. Outdated
// surfaces and zero-area surfaces become wsi.ErrSurfaceOutOfDate so the
// renderer rebuilds its targets.
func presentationError(op string, err error) error {
	if errors.Is(err, hal.ErrSurfaceOutdated) || errors.Is(err, hal.ErrZeroArea) {
		return fmt.Errorf("halgpu: %s: %w: %w", op, wsi.ErrSurfaceOutOfDate, err)
	}
	return fmt.Errorf("halgpu: %s: %w", op, err)
}
