// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dhcp

import (
	"fmt"
	"math/rand/v2"
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/insomniacslk/dhcp/dhcpv4"
)

const (
	clientPort = 68
	serverPort = 67
)

var broadcastHWAddr = net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// newMessage creates a DHCPv4 message with the defaults all outbound messages
// of this client share: broadcast flag set, client hardware address and client
// identifier set to the interface MAC and a fixed parameter request list.
func newMessage(
	mac net.HardwareAddr,
	typ dhcpv4.MessageType,
	extra ...dhcpv4.Modifier,
) (*dhcpv4.DHCPv4, error) {
	modifiers := []dhcpv4.Modifier{
		dhcpv4.WithHwAddr(mac),
		dhcpv4.WithBroadcast(true),
		dhcpv4.WithMessageType(typ),
		dhcpv4.WithOption(dhcpv4.OptParameterRequestList(
			dhcpv4.OptionSubnetMask,
			dhcpv4.OptionRouter,
			dhcpv4.OptionDomainNameServer,
			dhcpv4.OptionDomainName,
		)),
		dhcpv4.WithOption(dhcpv4.OptClientIdentifier(mac)),
	}

	msg, err := dhcpv4.New(append(modifiers, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("new %s message: %w", typ, err)
	}

	return msg, nil
}

func newDiscover(mac net.HardwareAddr) (*dhcpv4.DHCPv4, error) {
	return newMessage(mac, dhcpv4.MessageTypeDiscover)
}

// newRequest creates a REQUEST for the address the given OFFER assigned,
// directed at the server that made the offer.
func newRequest(
	mac net.HardwareAddr,
	offer *dhcpv4.DHCPv4,
) (*dhcpv4.DHCPv4, error) {
	return newMessage(mac, dhcpv4.MessageTypeRequest,
		dhcpv4.WithOption(dhcpv4.OptRequestedIPAddress(offer.YourIPAddr)),
		dhcpv4.WithOption(dhcpv4.OptServerIdentifier(offer.ServerIPAddr)),
	)
}

// encapsulate serializes the message into a broadcast Ethernet/IPv4/UDP
// frame.
//
// The client has no address yet, so the IPv4 source is 0.0.0.0 and the
// destination is the limited broadcast address. UDP and IPv4 checksums are
// computed over the final layout.
func encapsulate(msg *dhcpv4.DHCPv4) ([]byte, error) {
	eth := &layers.Ethernet{
		SrcMAC:       msg.ClientHWAddr,
		DstMAC:       broadcastHWAddr,
		EthernetType: layers.EthernetTypeIPv4,
	}

	ip := &layers.IPv4{
		Version:  4,
		Id:       uint16(rand.Uint32()),
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IPv4zero,
		DstIP:    net.IPv4bcast,
	}

	udp := &layers.UDP{
		SrcPort: clientPort,
		DstPort: serverPort,
	}

	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, fmt.Errorf("udp checksum setup: %w", err)
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		FixLengths:       true,
		ComputeChecksums: true,
	}

	err := gopacket.SerializeLayers(buf, opts,
		eth, ip, udp, gopacket.Payload(msg.ToBytes()),
	)
	if err != nil {
		return nil, fmt.Errorf("serialize frame: %w", err)
	}

	return buf.Bytes(), nil
}

// decapsulate parses a raw frame back into a DHCPv4 message.
//
// Frames that are not IPv4, not UDP, not addressed to the DHCP client port or
// not decodable as DHCPv4 yield false. The receive loop treats that as "keep
// waiting", so no error is reported.
func decapsulate(raw []byte) (*dhcpv4.DHCPv4, bool) {
	pkt := gopacket.NewPacket(raw, layers.LayerTypeEthernet, gopacket.Default)

	eth, ok := pkt.Layer(layers.LayerTypeEthernet).(*layers.Ethernet)
	if !ok || eth.EthernetType != layers.EthernetTypeIPv4 {
		return nil, false
	}

	ip, ok := pkt.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
	if !ok || ip.Protocol != layers.IPProtocolUDP {
		return nil, false
	}

	udp, ok := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP)
	if !ok || udp.DstPort != clientPort {
		return nil, false
	}

	msg, err := dhcpv4.FromBytes(udp.Payload)
	if err != nil {
		return nil, false
	}

	return msg, true
}
