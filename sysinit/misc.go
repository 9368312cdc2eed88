// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import "golang.org/x/sys/unix"

// Poweroff shuts down the system.
//
// It does not return, unless in case of error.
func Poweroff() error {
	return reboot(unix.LINUX_REBOOT_CMD_POWER_OFF)
}

// IsPidOne returns true if the running process has PID 1.
func IsPidOne() bool {
	return getpid() == 1
}
