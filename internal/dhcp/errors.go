// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package dhcp

import "errors"

var (
	// ErrInterfaceNotFound is returned if the named network interface does
	// not exist.
	ErrInterfaceNotFound = errors.New("interface not found")

	// ErrInterfaceDown is returned if the interface is not administratively
	// up.
	ErrInterfaceDown = errors.New("interface is down")

	// ErrNoLinkAddress is returned if the interface has no hardware address.
	ErrNoLinkAddress = errors.New("interface has no link address")

	// ErrTimeout is returned if no matching reply arrived within the
	// deadline.
	ErrTimeout = errors.New("timed out waiting for reply")

	// ErrMissingOption is returned if a reply lacks an option that is
	// required to make the lease usable.
	ErrMissingOption = errors.New("required option missing from reply")
)
