// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import "errors"

var (
	// ErrNotPidOne is returned if the process is expected to be run as PID 1
	// but is not.
	ErrNotPidOne = errors.New("process does not have ID 1")

	// ErrPanic is returned if a [Func] panicked.
	ErrPanic = errors.New("function panicked")

	// ErrNoRootDevice is returned if the kernel command line does not name a
	// root device.
	ErrNoRootDevice = errors.New("no root device on kernel command line")

	// ErrHandoffReturned is returned if the payload handoff came back. An
	// init that regains control after the handoff cannot continue.
	ErrHandoffReturned = errors.New("payload handoff returned")
)
