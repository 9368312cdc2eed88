// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import "errors"

// ErrNotRegularFile is returned if a file added to the archive is not a
// regular file.
var ErrNotRegularFile = errors.New("not a regular file")
