// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package dhcp implements a minimal DHCPv4 client that speaks directly over
// raw Ethernet frames.
//
// The client is built for early boot, before any address is configured: all
// messages are broadcast from 0.0.0.0 and received by filtering raw frames on
// the link. It performs a single DISCOVER/OFFER/REQUEST/ACK exchange and
// returns the resulting lease. Renewal and rebinding are out of scope; the
// lease is meant to be applied once and forgotten.
package dhcp
