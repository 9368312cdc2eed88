// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package network

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"

	"github.com/vishvananda/netlink"

	"github.com/uinit/uinit/internal/dhcp"
	"github.com/uinit/uinit/internal/ifctl"
)

// ErrConfigWrite is returned if writing a network configuration file (hosts,
// resolv.conf) fails.
var ErrConfigWrite = errors.New("write network configuration file")

// Config is one interface configuration entry. Exactly two variants exist,
// [Static] and [Dynamic].
type Config interface {
	// Apply programs the OS interface this entry names.
	Apply() error
}

// Resolver acquires a lease for a named interface. It is implemented by
// [dhcp.Client].
type Resolver interface {
	Resolve(name string) (*dhcp.Lease, error)
}

// control is the capability surface used to program one interface. It has
// exactly one platform implementation, [ifctl.Socket].
type control interface {
	Enable(up bool) error
	SetAddr(ip net.IP) error
	SetNetmask(ip net.IP) error
	SetGateway(ip net.IP) error
	Close() error
}

// Overridable for tests.
var (
	openControl = func(name string) (control, error) {
		return ifctl.Open(name)
	}
	lookupLink = netlink.LinkByName
)

var resolvConfPath = "/etc/resolv.conf"

func closeControl(sock control) {
	if err := sock.Close(); err != nil {
		log.Print("ERROR close control socket: ", err.Error())
	}
}

// Static assigns a fixed IPv4 address configuration to a named interface.
type Static struct {
	Name    string
	IP      net.IP
	Netmask net.IP
	Gateway net.IP

	// DNS optionally names a resolver to write to resolv.conf.
	DNS net.IP
}

// Apply brings the interface up and programs address, netmask and default
// route.
//
// Loopback interfaces never get a route, even if Gateway is set. If DNS is
// set, resolv.conf is overwritten with a single nameserver line.
func (c Static) Apply() error {
	link, err := lookupLink(c.Name)
	if err != nil {
		return fmt.Errorf("interface %s: %w: %w",
			c.Name, dhcp.ErrInterfaceNotFound, err)
	}

	sock, err := openControl(c.Name)
	if err != nil {
		return err
	}
	defer closeControl(sock)

	if err := sock.Enable(true); err != nil {
		return fmt.Errorf("enable %s: %w", c.Name, err)
	}

	if err := sock.SetAddr(c.IP); err != nil {
		return fmt.Errorf("configure %s: %w", c.Name, err)
	}

	if err := sock.SetNetmask(c.Netmask); err != nil {
		return fmt.Errorf("configure %s: %w", c.Name, err)
	}

	loopback := link.Attrs().Flags&net.FlagLoopback != 0
	if c.Gateway != nil && !loopback {
		if err := sock.SetGateway(c.Gateway); err != nil {
			return fmt.Errorf("configure %s: %w", c.Name, err)
		}
	}

	if c.DNS != nil {
		if err := writeResolvConf(c.DNS); err != nil {
			return err
		}
	}

	return nil
}

// Dynamic acquires the interface configuration via DHCP and applies the
// resulting lease.
type Dynamic struct {
	Name string

	// Client overrides the DHCP client, mainly for injecting timeouts. Nil
	// means a default [dhcp.Client].
	Client Resolver
}

// Apply brings the interface up, runs a DHCP resolution and re-applies the
// lease through the full [Static] logic.
//
// A failed resolution is surfaced, not retried.
func (c Dynamic) Apply() error {
	sock, err := openControl(c.Name)
	if err != nil {
		return err
	}
	defer closeControl(sock)

	// The interface must be up before the DHCP exchange can see any frames.
	if err := sock.Enable(true); err != nil {
		return fmt.Errorf("enable %s: %w", c.Name, err)
	}

	client := c.Client
	if client == nil {
		client = &dhcp.Client{}
	}

	lease, err := client.Resolve(c.Name)
	if err != nil {
		return fmt.Errorf("dhcp on %s: %w", c.Name, err)
	}

	static := Static{
		Name:    lease.Name,
		IP:      lease.IP,
		Netmask: lease.Netmask,
		Gateway: lease.Gateway,
	}

	return static.Apply()
}

func writeResolvConf(dns net.IP) error {
	content := fmt.Sprintf("nameserver %s\n", dns)

	err := os.WriteFile(resolvConfPath, []byte(content), 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}

	return nil
}
