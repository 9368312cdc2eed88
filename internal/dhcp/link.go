// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dhcp

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/mdlayher/packet"
)

const (
	// etherTypeIPv4 filters the AF_PACKET socket to IPv4 frames.
	etherTypeIPv4 = 0x0800

	// maxFrameSize is the receive buffer size: the Ethernet header plus one
	// standard MTU, so a full-size frame is never truncated.
	maxFrameSize = 14 + 1500

	// pollInterval bounds a single blocking read so the overall deadline is
	// re-checked regularly.
	pollInterval = 500 * time.Millisecond
)

// acceptFunc decides whether a decoded inbound message ends the receive loop.
type acceptFunc func(*dhcpv4.DHCPv4) bool

// link is a raw transmit/receive handle bound to one interface.
type link interface {
	send(frame []byte) error
	receiveUntil(deadline time.Time, accept acceptFunc) (*dhcpv4.DHCPv4, error)
	close() error
}

// rawConn is the part of [packet.Conn] the link uses.
type rawConn interface {
	SetReadDeadline(t time.Time) error
	ReadFrom(b []byte) (int, net.Addr, error)
	WriteTo(b []byte, addr net.Addr) (int, error)
	Close() error
}

// openLink opens a raw link-layer channel on the given interface. Overridable
// for tests.
var openLink = func(ifi *net.Interface) (link, error) {
	conn, err := packet.Listen(ifi, packet.Raw, etherTypeIPv4, nil)
	if err != nil {
		return nil, fmt.Errorf("open link channel on %s: %w", ifi.Name, err)
	}

	return &packetLink{conn: conn}, nil
}

type packetLink struct {
	conn rawConn
}

// send transmits the frame to the link broadcast address. No acknowledgement
// is expected at this layer.
func (l *packetLink) send(frame []byte) error {
	addr := &packet.Addr{HardwareAddr: broadcastHWAddr}

	if _, err := l.conn.WriteTo(frame, addr); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}

	return nil
}

// receiveUntil reads raw frames until one decodes into a DHCPv4 message the
// accept function takes, or the deadline elapses.
//
// The deadline is wall-clock based and re-checked before every read; each
// kernel read blocks for at most pollInterval. Frames that do not decode or
// are not accepted are discarded silently, so unrelated traffic only causes
// spurious early wakeups.
func (l *packetLink) receiveUntil(
	deadline time.Time,
	accept acceptFunc,
) (*dhcpv4.DHCPv4, error) {
	buf := make([]byte, maxFrameSize)

	for {
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("receive: %w", ErrTimeout)
		}

		readDeadline := time.Now().Add(pollInterval)
		if readDeadline.After(deadline) {
			readDeadline = deadline
		}

		if err := l.conn.SetReadDeadline(readDeadline); err != nil {
			return nil, fmt.Errorf("set read deadline: %w", err)
		}

		n, _, err := l.conn.ReadFrom(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}

			return nil, fmt.Errorf("read frame: %w", err)
		}

		msg, ok := decapsulate(buf[:n])
		if !ok || !accept(msg) {
			continue
		}

		return msg, nil
	}
}

func (l *packetLink) close() error {
	return l.conn.Close()
}
