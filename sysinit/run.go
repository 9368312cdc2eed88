// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"fmt"
	"log"
)

// Func is a single setup step run by [Run].
type Func func(*State) error

// Run is the entry point for an actual init program.
//
// It must be run as PID 1, otherwise it panics immediately. The given [Func]s
// are run in the order given. The first error stops the pipeline. Panics are
// recovered and reported as [ErrPanic].
//
// Cleanup functions registered on the [State] run in reverse order once the
// pipeline has finished, regardless of its outcome. Run never returns: after
// cleanup the system is powered off. A pipeline that hands control to a
// payload binary must do so with [Handoff] as its last [Func].
func Run(funcs ...Func) {
	if !IsPidOne() {
		panic(ErrNotPidOne)
	}

	state := new(State)

	if err := runFuncs(state, funcs); err != nil {
		logError(err)
	}

	state.doCleanup()

	if err := Poweroff(); err != nil {
		logError(fmt.Errorf("poweroff: %w", err))
	}
}

func runFuncs(state *State, funcs []Func) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}

		if recoveredErr, ok := rec.(error); ok {
			err = fmt.Errorf("%w: %w", ErrPanic, recoveredErr)
		} else {
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()

	for _, fn := range funcs {
		if err = fn(state); err != nil {
			return err
		}
	}

	return nil
}

func logError(err error) {
	if err != nil {
		log.Print("ERROR ", err.Error())
	}
}
