// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Overridable for tests.
var (
	sysMount  = unix.Mount
	sysReboot = unix.Reboot
	sysExec   = unix.Exec
	getpid    = os.Getpid
)

func reboot(cmd int) error {
	if err := sysReboot(cmd); err != nil {
		return fmt.Errorf("reboot: %w", err)
	}

	return nil
}

func execve(path string, args []string, env []string) error {
	if err := sysExec(path, args, env); err != nil {
		return fmt.Errorf("execve %s: %w", path, err)
	}

	return nil
}
