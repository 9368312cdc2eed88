// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"errors"
	"io/fs"
	"net"
	"os"
	"path/filepath"

	"github.com/uinit/uinit/internal/network"
	"github.com/uinit/uinit/sysinit"
)

const (
	defaultInterface = "eth0"
	payloadPath      = "/sbin/boot"
	scriptsDir       = "/etc/boot.d"
)

// networkConfigs is the interface bring-up order: loopback first, then the
// DHCP managed interface.
func networkConfigs(iface string) []network.Config {
	return []network.Config{
		network.Static{
			Name:    "lo",
			IP:      net.IPv4(127, 0, 0, 1),
			Netmask: net.IPv4(255, 0, 0, 0),
			Gateway: net.IPv4(127, 0, 0, 1),
		},
		network.Dynamic{Name: iface},
	}
}

func setup(_ *sysinit.State) error {
	cmdline, err := sysinit.ParseCmdline()
	if err != nil {
		return err
	}

	if cmdline.Quiet {
		sysinit.Quiet()
	}

	err = sysinit.MountAll(sysinit.BootMounts(cmdline.RootDevice))
	if err != nil {
		return err
	}

	iface := cmdline.Interface
	if iface == "" {
		iface = defaultInterface
	}

	orchestrator := &network.Orchestrator{}

	return orchestrator.Configure(networkConfigs(iface))
}

// payload runs the boot scripts if any exist, otherwise it hands the system
// over to the payload binary.
func payload(state *sysinit.State) error {
	scripts, err := scriptPaths(scriptsDir)
	if err != nil {
		return err
	}

	if len(scripts) > 0 {
		return sysinit.RunScripts(scripts, nil, os.Stdout, os.Stderr)
	}

	return sysinit.Handoff(payloadPath)(state)
}

func scriptPaths(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	var paths []string

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	return paths, nil
}

func main() {
	sysinit.Run(
		func(_ *sysinit.State) error { return sysinit.MountProc() },
		setup,
		payload,
	)
}
