// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"fmt"
	"os"
	"strings"
)

// Overridable for tests.
var cmdlinePath = "/proc/cmdline"

// Cmdline is the boot configuration read from the kernel command line.
type Cmdline struct {
	// Quiet suppresses non-error output of the init.
	Quiet bool

	// RootDevice is the device the root file system is remounted from.
	RootDevice string

	// Interface overrides the name of the interface configured via DHCP.
	// Empty means the default.
	Interface string
}

// ParseCmdline reads the kernel command line from /proc/cmdline.
//
// /proc must be mounted, see [MountProc]. A command line without a root
// device returns [ErrNoRootDevice].
func ParseCmdline() (*Cmdline, error) {
	raw, err := os.ReadFile(cmdlinePath)
	if err != nil {
		return nil, fmt.Errorf("read kernel command line: %w", err)
	}

	cmdline := &Cmdline{}

	for _, field := range strings.Fields(string(raw)) {
		switch {
		case field == "quiet":
			cmdline.Quiet = true
		case strings.HasPrefix(field, "root="):
			cmdline.RootDevice = strings.TrimPrefix(field, "root=")
		case strings.HasPrefix(field, "uinit.iface="):
			cmdline.Interface = strings.TrimPrefix(field, "uinit.iface=")
		}
	}

	if cmdline.RootDevice == "" {
		return nil, ErrNoRootDevice
	}

	return cmdline, nil
}
