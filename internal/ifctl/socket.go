// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ifctl programs kernel network interface state through the classic
// ioctl control interface.
//
// A [Socket] is a short-lived AF_INET datagram descriptor scoped to one
// interface name. It is opened at the start of a configuration operation and
// must be closed when the operation is done, regardless of outcome. Only IPv4
// is supported; IPv6 input is rejected, not represented.
package ifctl

import (
	"errors"
	"fmt"
	"net"
	"runtime"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ErrNameTooLong is returned by [Open] if the interface name does not fit the
// kernel's IFNAMSIZ limit.
var ErrNameTooLong = errors.New("interface name too long")

// Socket is a kernel control handle bound to one interface name.
type Socket struct {
	fd   int
	name string
}

// Open creates a control socket for the named interface.
//
// The name must be shorter than IFNAMSIZ (16). The descriptor is exclusively
// owned by the caller and must be released with [Socket.Close].
func Open(name string) (*Socket, error) {
	if len(name) >= unix.IFNAMSIZ {
		return nil, fmt.Errorf("interface %q: %w", name, ErrNameTooLong)
	}

	// Any AF_INET datagram socket can carry interface ioctls.
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("create control socket: %w", err)
	}

	return &Socket{fd: fd, name: name}, nil
}

// Close releases the control descriptor. Further calls are no-ops.
func (s *Socket) Close() error {
	if s.fd < 0 {
		return nil
	}

	fd := s.fd
	s.fd = -1

	if err := unix.Close(fd); err != nil {
		return fmt.Errorf("close control socket: %w", err)
	}

	return nil
}

// Enable sets or clears the administratively-up flag of the interface.
//
// The current flags are read back first so no other flag is touched. Both
// directions can fail independently.
func (s *Socket) Enable(up bool) error {
	ifReq, err := unix.NewIfreq(s.name)
	if err != nil {
		return fmt.Errorf("interface request: %w", err)
	}

	if err := unix.IoctlIfreq(s.fd, unix.SIOCGIFFLAGS, ifReq); err != nil {
		return fmt.Errorf("get interface flags: %w", err)
	}

	flags := ifReq.Uint16()
	if up {
		flags |= unix.IFF_UP
	} else {
		flags &^= unix.IFF_UP
	}

	ifReq.SetUint16(flags)

	if err := unix.IoctlIfreq(s.fd, unix.SIOCSIFFLAGS, ifReq); err != nil {
		return fmt.Errorf("set interface flags: %w", err)
	}

	return nil
}

// SetAddr assigns the IPv4 address to the interface.
func (s *Socket) SetAddr(ip net.IP) error {
	return s.setAddrReq(unix.SIOCSIFADDR, "address", ip)
}

// SetNetmask assigns the IPv4 netmask to the interface.
func (s *Socket) SetNetmask(ip net.IP) error {
	return s.setAddrReq(unix.SIOCSIFNETMASK, "netmask", ip)
}

func (s *Socket) setAddrReq(req uint, what string, ip net.IP) error {
	ip4 := ip.To4()
	if ip4 == nil {
		return fmt.Errorf("set %s %s: %w", what, ip, errors.ErrUnsupported)
	}

	ifReq, err := unix.NewIfreq(s.name)
	if err != nil {
		return fmt.Errorf("interface request: %w", err)
	}

	if err := ifReq.SetInet4Addr(ip4); err != nil {
		return fmt.Errorf("set %s: %w", what, err)
	}

	if err := unix.IoctlIfreq(s.fd, req, ifReq); err != nil {
		return fmt.Errorf("set interface %s: %w", what, err)
	}

	return nil
}

// SetGateway installs a default route through the given IPv4 gateway, bound
// to this interface.
//
// Destination and generation mask are the zero address, which makes the entry
// the default route.
func (s *Socket) SetGateway(ip net.IP) error {
	ip4 := ip.To4()
	if ip4 == nil {
		return fmt.Errorf("set gateway %s: %w", ip, errors.ErrUnsupported)
	}

	dev := make([]byte, len(s.name)+1)
	copy(dev, s.name)

	route := unix.RtEntry{
		Flags:   unix.RTF_UP | unix.RTF_GATEWAY,
		Gateway: inet4Sockaddr(ip4),
		Dst:     inet4Sockaddr(nil),
		Genmask: inet4Sockaddr(nil),
		Dev:     &dev[0],
	}

	_, _, errno := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(s.fd),
		unix.SIOCADDRT,
		uintptr(unsafe.Pointer(&route)),
	)

	runtime.KeepAlive(dev)

	if errno != 0 {
		return fmt.Errorf("add default route: %w", errno)
	}

	return nil
}

// inet4Sockaddr builds the raw sockaddr layout the route ioctl expects: the
// address family tag followed by the four address octets. A nil IP yields the
// zero address.
func inet4Sockaddr(ip4 net.IP) unix.RawSockaddr {
	sa := unix.RawSockaddr{Family: unix.AF_INET}

	for i := 0; i < len(ip4) && i < 4; i++ {
		// sa_data starts with the two port bytes; the address follows.
		sa.Data[2+i] = int8(ip4[i])
	}

	return sa
}
