// timesource.go: default wall-clock TimeSource
//
// Copyright (c) 2025 Halcyon Cache Contributors
// SPDX-License-Identifier: MPL-2.0

package xfetch

import "github.com/agilira/go-timecache"

// systemTimeSource is the default TimeSource, backed by go-timecache's
// cached clock instead of a fresh time.Now() on every call.
type systemTimeSource struct{}

func (systemTimeSource) NowMs() int64 {
	return timecache.CachedTimeNano() / int64(1e6)
}
