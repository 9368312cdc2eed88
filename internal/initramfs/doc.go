// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package initramfs builds newc cpio archives bootable as kernel initramfs,
// with the init binary at /init.
package initramfs
