// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dhcp

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/insomniacslk/dhcp/dhcpv4"
)

// DefaultTimeout is the receive window for each of the two exchanges of a
// resolution. A full resolution blocks for at most twice this duration.
const DefaultTimeout = 10 * time.Second

// Lease is the usable result of a completed DHCP transaction. It is meant to
// be applied to the interface immediately and not kept around.
type Lease struct {
	Name    string
	IP      net.IP
	Netmask net.IP
	Gateway net.IP
}

// Client performs single-shot DHCPv4 resolutions.
//
// The zero value is ready to use and waits [DefaultTimeout] per exchange.
type Client struct {
	// Timeout is the receive window for each exchange. Zero means
	// [DefaultTimeout].
	Timeout time.Duration
}

// interfaceByName looks up the OS interface. Overridable for tests.
var interfaceByName = net.InterfaceByName

// Resolve runs a DISCOVER/OFFER/REQUEST/ACK exchange on the named interface
// and returns the resulting lease.
//
// The interface must exist, be administratively up and have a hardware
// address; those conditions are checked before any socket is opened. The ACK
// must carry a subnet mask and at least one router, otherwise the lease is
// unusable and [ErrMissingOption] is returned.
func (c *Client) Resolve(name string) (*Lease, error) {
	ifi, err := interfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("interface %s: %w", name, ErrInterfaceNotFound)
	}

	if ifi.Flags&net.FlagUp == 0 {
		return nil, fmt.Errorf("interface %s: %w", name, ErrInterfaceDown)
	}

	if len(ifi.HardwareAddr) == 0 {
		return nil, fmt.Errorf("interface %s: %w", name, ErrNoLinkAddress)
	}

	channel, err := openLink(ifi)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := channel.close(); err != nil {
			log.Print("ERROR close link channel: ", err.Error())
		}
	}()

	discover, err := newDiscover(ifi.HardwareAddr)
	if err != nil {
		return nil, err
	}

	offer, err := c.exchange(channel, discover)
	if err != nil {
		return nil, fmt.Errorf("discover on %s: %w", name, err)
	}

	request, err := newRequest(ifi.HardwareAddr, offer)
	if err != nil {
		return nil, err
	}

	ack, err := c.exchange(channel, request)
	if err != nil {
		return nil, fmt.Errorf("request on %s: %w", name, err)
	}

	mask := ack.SubnetMask()
	if mask == nil {
		return nil, fmt.Errorf("lease on %s: subnet mask: %w",
			name, ErrMissingOption)
	}

	routers := ack.Router()
	if len(routers) == 0 {
		return nil, fmt.Errorf("lease on %s: router: %w",
			name, ErrMissingOption)
	}

	return &Lease{
		Name:    name,
		IP:      ack.YourIPAddr,
		Netmask: net.IP(mask),
		Gateway: routers[0],
	}, nil
}

// exchange sends the message as a broadcast frame and waits for the matching
// reply.
//
// Replies are correlated by transaction ID, so concurrent DHCP traffic on the
// same segment cannot bind this exchange to an unrelated transaction.
func (c *Client) exchange(
	channel link,
	msg *dhcpv4.DHCPv4,
) (*dhcpv4.DHCPv4, error) {
	frame, err := encapsulate(msg)
	if err != nil {
		return nil, err
	}

	if err := channel.send(frame); err != nil {
		return nil, err
	}

	log.Printf("%s sent from %s", msg.MessageType(), msg.ClientHWAddr)

	deadline := time.Now().Add(c.timeout())

	return channel.receiveUntil(deadline, matchReply(msg.TransactionID))
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}

	return DefaultTimeout
}

// matchReply accepts BootReply messages belonging to the transaction with the
// given ID.
func matchReply(xid dhcpv4.TransactionID) acceptFunc {
	return func(msg *dhcpv4.DHCPv4) bool {
		return msg.OpCode == dhcpv4.OpcodeBootReply && msg.TransactionID == xid
	}
}
