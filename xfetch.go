// xfetch.go: package-wide constants
//
// Copyright (c) 2025 Halcyon Cache Contributors
// SPDX-License-Identifier: MPL-2.0
package xfetch

const (
	// Version of the xfetch library.
	Version = "v0.1.0-dev"

	// DefaultMaxItems is the default MemoryStore capacity (0 = unbounded).
	DefaultMaxItems = 0

	// DefaultRefreshWorkers is the default size of the eager-refresh worker pool.
	DefaultRefreshWorkers = 16

	// xfetchBeta is the fixed beta parameter of the XFetch probabilistic
	// early-expiration algorithm (see readthrough.go). The spec hard-codes
	// beta=1 and does not require it to be exposed.
	xfetchBeta = 1.0
)
