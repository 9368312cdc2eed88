// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dhcp

import (
	"net"
	"testing"
	"time"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubInterface(t *testing.T, ifi *net.Interface, err error) {
	t.Helper()

	orig := interfaceByName
	interfaceByName = func(_ string) (*net.Interface, error) {
		return ifi, err
	}

	t.Cleanup(func() { interfaceByName = orig })
}

func stubLink(t *testing.T, channel link, err error) *bool {
	t.Helper()

	opened := false

	orig := openLink
	openLink = func(_ *net.Interface) (link, error) {
		opened = true
		return channel, err
	}

	t.Cleanup(func() { openLink = orig })

	return &opened
}

func upInterface(t *testing.T) *net.Interface {
	t.Helper()

	return &net.Interface{
		Index:        2,
		Name:         "eth0",
		Flags:        net.FlagUp,
		HardwareAddr: testMAC(t),
	}
}

// replyOptions configures the fake server's replies.
type replyOptions struct {
	noMask   bool
	noRouter bool
}

// fakeServerLink answers each sent message with a matching reply, preceded by
// a reply belonging to a foreign transaction that the client must discard.
type fakeServerLink struct {
	t      *testing.T
	opts   replyOptions
	closed bool
	sent   []*dhcpv4.DHCPv4
}

func (f *fakeServerLink) send(frame []byte) error {
	msg, ok := decapsulate(frame)
	require.True(f.t, ok, "client must send decodable frames")

	f.sent = append(f.sent, msg)

	return nil
}

func (f *fakeServerLink) receiveUntil(
	_ time.Time,
	accept acceptFunc,
) (*dhcpv4.DHCPv4, error) {
	require.NotEmpty(f.t, f.sent, "receive before send")

	request := f.sent[len(f.sent)-1]

	reply := f.replyTo(request)

	// A reply carrying a foreign transaction ID must not be accepted.
	foreign := f.replyTo(request)
	foreign.TransactionID[0] ^= 0xff
	assert.False(f.t, accept(foreign),
		"reply with foreign transaction ID must be discarded")

	// A request echoed back on the wire must not be accepted either.
	assert.False(f.t, accept(request),
		"boot request must be discarded")

	if !accept(reply) {
		return nil, ErrTimeout
	}

	return reply, nil
}

func (f *fakeServerLink) replyTo(request *dhcpv4.DHCPv4) *dhcpv4.DHCPv4 {
	typ := dhcpv4.MessageTypeOffer
	if request.MessageType() == dhcpv4.MessageTypeRequest {
		typ = dhcpv4.MessageTypeAck
	}

	reply, err := dhcpv4.New(
		dhcpv4.WithTransactionID(request.TransactionID),
		dhcpv4.WithMessageType(typ),
	)
	require.NoError(f.t, err)

	reply.OpCode = dhcpv4.OpcodeBootReply
	reply.YourIPAddr = net.IPv4(192, 168, 1, 50)
	reply.ServerIPAddr = net.IPv4(192, 168, 1, 1)

	if !f.opts.noMask {
		reply.UpdateOption(dhcpv4.OptSubnetMask(net.IPv4Mask(255, 255, 255, 0)))
	}

	if !f.opts.noRouter {
		reply.UpdateOption(dhcpv4.OptRouter(net.IPv4(192, 168, 1, 1)))
	}

	return reply
}

func (f *fakeServerLink) close() error {
	f.closed = true
	return nil
}

func TestClientResolve(t *testing.T) {
	stubInterface(t, upInterface(t), nil)

	server := &fakeServerLink{t: t}
	stubLink(t, server, nil)

	client := &Client{Timeout: time.Second}

	lease, err := client.Resolve("eth0")
	require.NoError(t, err)

	assert.Equal(t, "eth0", lease.Name)
	assert.Equal(t, net.IPv4(192, 168, 1, 50).To4(), lease.IP.To4())
	assert.Equal(t, net.IPv4(255, 255, 255, 0).To4(), lease.Netmask.To4())
	assert.Equal(t, net.IPv4(192, 168, 1, 1).To4(), lease.Gateway.To4())

	assert.True(t, server.closed, "link channel must be closed")

	// DISCOVER then REQUEST, with the REQUEST naming the offered address and
	// the offering server.
	require.Len(t, server.sent, 2)
	assert.Equal(t, dhcpv4.MessageTypeDiscover, server.sent[0].MessageType())

	request := server.sent[1]
	assert.Equal(t, dhcpv4.MessageTypeRequest, request.MessageType())
	assert.Equal(t, net.IPv4(192, 168, 1, 50).To4(),
		request.RequestedIPAddress().To4())
	assert.Equal(t, net.IPv4(192, 168, 1, 1).To4(),
		request.ServerIdentifier().To4())
}

func TestClientResolveGuards(t *testing.T) {
	tests := []struct {
		name        string
		ifi         *net.Interface
		lookupErr   error
		expectedErr error
	}{
		{
			name:        "interface not found",
			lookupErr:   assert.AnError,
			expectedErr: ErrInterfaceNotFound,
		},
		{
			name: "interface down",
			ifi: &net.Interface{
				Name:         "eth0",
				HardwareAddr: net.HardwareAddr{1, 2, 3, 4, 5, 6},
			},
			expectedErr: ErrInterfaceDown,
		},
		{
			name: "no link address",
			ifi: &net.Interface{
				Name:  "eth0",
				Flags: net.FlagUp,
			},
			expectedErr: ErrNoLinkAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubInterface(t, tt.ifi, tt.lookupErr)
			opened := stubLink(t, nil, assert.AnError)

			client := &Client{}

			_, err := client.Resolve("eth0")
			require.ErrorIs(t, err, tt.expectedErr)

			assert.False(t, *opened,
				"guard failures must not open any socket")
		})
	}
}

func TestClientResolveMissingOptions(t *testing.T) {
	tests := []struct {
		name string
		opts replyOptions
	}{
		{
			name: "no subnet mask",
			opts: replyOptions{noMask: true},
		},
		{
			name: "no router",
			opts: replyOptions{noRouter: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubInterface(t, upInterface(t), nil)
			stubLink(t, &fakeServerLink{t: t, opts: tt.opts}, nil)

			client := &Client{Timeout: time.Second}

			_, err := client.Resolve("eth0")
			require.ErrorIs(t, err, ErrMissingOption)
		})
	}
}

type silentLink struct{}

func (silentLink) send(_ []byte) error { return nil }

func (silentLink) receiveUntil(
	_ time.Time,
	_ acceptFunc,
) (*dhcpv4.DHCPv4, error) {
	return nil, ErrTimeout
}

func (silentLink) close() error { return nil }

func TestClientResolveTimeout(t *testing.T) {
	stubInterface(t, upInterface(t), nil)
	stubLink(t, silentLink{}, nil)

	client := &Client{Timeout: 10 * time.Millisecond}

	_, err := client.Resolve("eth0")
	require.ErrorIs(t, err, ErrTimeout)
}
