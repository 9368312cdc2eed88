// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sysinit provides the building blocks for a minimal PID 1 init
// program: an ordered setup function pipeline with scoped cleanup, the boot
// mount sequence, kernel command line parsing and the final handoff to the
// payload.
package sysinit
