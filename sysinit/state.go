// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"log"
	"slices"
)

// CleanupFunc releases a resource acquired by a [Func].
type CleanupFunc func() error

// State carries the cleanup functions registered during a [Run] pipeline.
type State struct {
	cleanupFns []CleanupFunc
}

// Cleanup registers a function that is run once the pipeline has finished.
//
// Cleanup functions run in reverse registration order, also if a later [Func]
// failed or panicked.
func (s *State) Cleanup(fn CleanupFunc) {
	s.cleanupFns = append(s.cleanupFns, fn)
}

func (s *State) doCleanup() {
	slices.Reverse(s.cleanupFns)

	for _, fn := range s.cleanupFns {
		if err := fn(); err != nil {
			log.Print("ERROR close: ", err.Error())
		}
	}
}
