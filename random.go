// random.go: default RandomSource for XFetch jitter
//
// No example in the retrieval pack reaches for a third-party PRNG/jitter
// library for this kind of thing (cpdupuis-Quixote's from-scratch
// soft/hard-limit cache uses stdlib math/rand too), so the default here
// stays on the standard library; RandomSource exists precisely so callers
// and tests can swap it out.
//
// Copyright (c) 2025 Halcyon Cache Contributors
// SPDX-License-Identifier: MPL-2.0

package xfetch

import (
	"math/rand"
	"sync"
	"time"
)

// systemRandomSource is the default RandomSource: a mutex-guarded
// math/rand.Rand seeded once at construction. math/rand's package-level
// functions are already safe for concurrent use, but wrapping a private
// *rand.Rand keeps xfetch's default off the global seed so tests that
// also use math/rand globally aren't perturbed by it.
type systemRandomSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newSystemRandomSource() *systemRandomSource {
	return &systemRandomSource{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *systemRandomSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}
