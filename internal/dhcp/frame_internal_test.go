// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dhcp

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	ethernetHeaderLen = 14
	ipv4HeaderLen     = 20
	udpHeaderLen      = 8
)

func testMAC(t *testing.T) net.HardwareAddr {
	t.Helper()

	mac, err := net.ParseMAC("aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)

	return mac
}

func TestEncapsulateRoundTrip(t *testing.T) {
	mac := testMAC(t)

	discover, err := newDiscover(mac)
	require.NoError(t, err)

	frame, err := encapsulate(discover)
	require.NoError(t, err)

	msg, ok := decapsulate(frame)
	require.True(t, ok, "frame must decode")

	assert.Equal(t, dhcpv4.MessageTypeDiscover, msg.MessageType())
	assert.Equal(t, []byte(mac), msg.Options.Get(dhcpv4.OptionClientIdentifier))
	assert.Equal(t, mac, msg.ClientHWAddr)
	assert.True(t, msg.IsBroadcast(), "broadcast flag must be set")

	requested := msg.ParameterRequestList()

	codes := make([]uint8, len(requested))
	for i, code := range requested {
		codes[i] = code.Code()
	}

	assert.Equal(t, []uint8{1, 3, 6, 15}, codes)
}

func TestEncapsulateFrameSize(t *testing.T) {
	tests := []struct {
		name  string
		build func(mac net.HardwareAddr) (*dhcpv4.DHCPv4, error)
	}{
		{
			name:  "discover",
			build: newDiscover,
		},
		{
			name: "request",
			build: func(mac net.HardwareAddr) (*dhcpv4.DHCPv4, error) {
				offer, err := dhcpv4.New()
				if err != nil {
					return nil, err
				}

				offer.YourIPAddr = net.IPv4(192, 168, 0, 50)
				offer.ServerIPAddr = net.IPv4(192, 168, 0, 1)

				return newRequest(mac, offer)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := tt.build(testMAC(t))
			require.NoError(t, err)

			frame, err := encapsulate(msg)
			require.NoError(t, err)

			expected := ethernetHeaderLen + ipv4HeaderLen + udpHeaderLen +
				len(msg.ToBytes())
			assert.Len(t, frame, expected)
		})
	}
}

// rfc791Checksum computes the ones'-complement sum over the given header
// bytes.
func rfc791Checksum(header []byte) uint16 {
	var sum uint32

	for i := 0; i+1 < len(header); i += 2 {
		sum += uint32(binary.BigEndian.Uint16(header[i : i+2]))
	}

	for sum > 0xffff {
		sum = (sum & 0xffff) + (sum >> 16)
	}

	return ^uint16(sum)
}

func TestEncapsulateIPv4Checksum(t *testing.T) {
	discover, err := newDiscover(testMAC(t))
	require.NoError(t, err)

	frame, err := encapsulate(discover)
	require.NoError(t, err)

	header := make([]byte, ipv4HeaderLen)
	copy(header, frame[ethernetHeaderLen:ethernetHeaderLen+ipv4HeaderLen])

	embedded := binary.BigEndian.Uint16(header[10:12])
	header[10], header[11] = 0, 0

	assert.Equal(t, embedded, rfc791Checksum(header))
}

func TestEncapsulateHeaderFields(t *testing.T) {
	mac := testMAC(t)

	discover, err := newDiscover(mac)
	require.NoError(t, err)

	frame, err := encapsulate(discover)
	require.NoError(t, err)

	// Ethernet: broadcast destination, interface MAC source, IPv4 ethertype.
	assert.Equal(t, []byte(broadcastHWAddr), frame[0:6])
	assert.Equal(t, []byte(mac), frame[6:12])
	assert.Equal(t, uint16(0x0800), binary.BigEndian.Uint16(frame[12:14]))

	ip := frame[ethernetHeaderLen:]
	assert.Equal(t, byte(0x45), ip[0], "version 4, 20 byte header")
	assert.Equal(t, byte(64), ip[8], "ttl")
	assert.Equal(t, byte(17), ip[9], "protocol udp")
	assert.Equal(t, []byte{0, 0, 0, 0}, ip[12:16], "source 0.0.0.0")
	assert.Equal(t, []byte{255, 255, 255, 255}, ip[16:20], "broadcast dest")

	udp := ip[ipv4HeaderLen:]
	assert.EqualValues(t, clientPort, binary.BigEndian.Uint16(udp[0:2]))
	assert.EqualValues(t, serverPort, binary.BigEndian.Uint16(udp[2:4]))
	assert.EqualValues(t, udpHeaderLen+len(discover.ToBytes()),
		binary.BigEndian.Uint16(udp[4:6]))
}

func TestDecapsulateRejects(t *testing.T) {
	discover, err := newDiscover(testMAC(t))
	require.NoError(t, err)

	valid, err := encapsulate(discover)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(frame []byte) []byte
	}{
		{
			name: "empty frame",
			mutate: func(_ []byte) []byte {
				return nil
			},
		},
		{
			name: "truncated frame",
			mutate: func(frame []byte) []byte {
				return frame[:ethernetHeaderLen+4]
			},
		},
		{
			name: "wrong ethertype",
			mutate: func(frame []byte) []byte {
				// ARP instead of IPv4.
				binary.BigEndian.PutUint16(frame[12:14], 0x0806)
				return frame
			},
		},
		{
			name: "wrong protocol",
			mutate: func(frame []byte) []byte {
				// TCP instead of UDP.
				frame[ethernetHeaderLen+9] = 6
				return frame
			},
		},
		{
			name: "wrong destination port",
			mutate: func(frame []byte) []byte {
				offset := ethernetHeaderLen + ipv4HeaderLen + 2
				binary.BigEndian.PutUint16(frame[offset:offset+2], serverPort)
				return frame
			},
		},
		{
			name: "garbage payload",
			mutate: func(frame []byte) []byte {
				payload := ethernetHeaderLen + ipv4HeaderLen + udpHeaderLen
				return frame[:payload+4]
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame := make([]byte, len(valid))
			copy(frame, valid)

			msg, ok := decapsulate(tt.mutate(frame))
			assert.False(t, ok)
			assert.Nil(t, msg)
		})
	}
}
