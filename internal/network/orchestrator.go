// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package network

import (
	"fmt"
	"log"
	"os"

	"github.com/vishvananda/netlink"
)

const defaultHostsPath = "/etc/hosts"

// hostsContent is the fixed localhost mapping written before any interface is
// configured.
const hostsContent = "127.0.0.1\tlocalhost\n::1\tlocalhost\n"

// Overridable for tests.
var (
	listLinks = netlink.LinkList
	listAddrs = func(link netlink.Link) ([]netlink.Addr, error) {
		return netlink.AddrList(link, netlink.FAMILY_V4)
	}
)

// Orchestrator applies an ordered set of interface configurations for one
// boot.
//
// The configuration list is supplied by the caller; the orchestrator itself
// carries no interface policy.
type Orchestrator struct {
	// HostsPath is the hosts file written before any interface is touched.
	// Empty means /etc/hosts.
	HostsPath string
}

// Configure writes the static host resolution files and applies each
// configuration in order.
//
// A failure writing the hosts file aborts the whole bring-up before any
// interface is touched. A failure applying one configuration is logged and
// does not stop the remaining entries, so the return value reports overall
// success independent of individual interface outcomes.
func (o *Orchestrator) Configure(configs []Config) error {
	if err := o.writeHosts(); err != nil {
		return err
	}

	for _, cfg := range configs {
		log.Printf("configuring %+v", cfg)

		if err := cfg.Apply(); err != nil {
			log.Print("ERROR configure interface: ", err.Error())
		}
	}

	o.logInterfaces()

	return nil
}

func (o *Orchestrator) writeHosts() error {
	path := o.HostsPath
	if path == "" {
		path = defaultHostsPath
	}

	err := os.WriteFile(path, []byte(hostsContent), 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}

	return nil
}

// logInterfaces lists the resulting interfaces and their IPv4 addresses for
// boot diagnostics.
func (o *Orchestrator) logInterfaces() {
	links, err := listLinks()
	if err != nil {
		log.Print("ERROR list interfaces: ", err.Error())
		return
	}

	for _, link := range links {
		name := link.Attrs().Name

		addrs, err := listAddrs(link)
		if err != nil {
			log.Print("ERROR list addresses: ", err.Error())
			continue
		}

		if len(addrs) == 0 {
			log.Printf("interface %s has no address", name)
			continue
		}

		for _, addr := range addrs {
			log.Printf("interface %s address %s", name, addr.IPNet)
		}
	}
}
