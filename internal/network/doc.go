// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package network brings network interfaces into a usable state during early
// boot.
//
// Each interface is described by a [Config], either [Static] or [Dynamic].
// The [Orchestrator] applies a fixed, ordered list of such configurations,
// tolerating per-interface failure: a broken interface reduces connectivity
// but never stops the boot.
//
// All configuration is strictly sequential and synchronous. Every apply
// operation owns its own control socket for the duration of the call and
// releases it on every exit path.
package network
