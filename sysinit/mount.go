// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// FSType is a file system type.
type FSType string

// Special file system types used during boot.
const (
	FSTypeDevTmp FSType = "devtmpfs"
	FSTypeProc   FSType = "proc"
	FSTypeSys    FSType = "sysfs"
	FSTypeTmp    FSType = "tmpfs"

	defaultDirMode = 0o755
)

// MountPoint is one entry of an ordered boot mount sequence.
type MountPoint struct {
	// Path is the target directory. It is created if it does not exist.
	Path string

	// FSType is the file system type. Can be left empty for remounts.
	FSType FSType

	// Source is the source device to mount. Can be empty for all the special
	// file system types [FSType]. If empty it is set to the string of the
	// type.
	Source string

	// Flags are optional mount flags as defined by mount(2).
	Flags uintptr

	// Data are optional additional parameters that depend on the FSType used.
	Data string

	// TolerateBusy treats EBUSY as success, for file systems that may
	// already be mounted at this path.
	TolerateBusy bool
}

// BootMounts returns the boot mount sequence in its required order.
//
// /proc and /dev may already be mounted at this point, by [MountProc] and by
// the kernel respectively, so both tolerate EBUSY. The root file system is
// remounted from the given device.
func BootMounts(rootDevice string) []MountPoint {
	nosuid := uintptr(unix.MS_NOSUID | unix.MS_NODEV | unix.MS_RELATIME)

	return []MountPoint{
		{Path: "/tmp", FSType: FSTypeTmp, Flags: nosuid},
		{Path: "/proc", FSType: FSTypeProc, TolerateBusy: true},
		{Path: "/dev", FSType: FSTypeDevTmp, TolerateBusy: true},
		{Path: "/", Source: rootDevice, Flags: unix.MS_REMOUNT},
		{Path: "/sys", FSType: FSTypeSys, Flags: unix.MS_RDONLY},
	}
}

// Mount mounts the file system described by the given [MountPoint].
//
// If the target path does not exist, it is created. An error is returned if
// this or the mount syscall fails.
func Mount(mountPoint MountPoint) error {
	err := os.MkdirAll(mountPoint.Path, defaultDirMode)
	if err != nil {
		return fmt.Errorf("mkdir %s: %w", mountPoint.Path, err)
	}

	source := mountPoint.Source
	if source == "" {
		source = string(mountPoint.FSType)
	}

	err = sysMount(
		source,
		mountPoint.Path,
		string(mountPoint.FSType),
		mountPoint.Flags,
		mountPoint.Data,
	)
	if err != nil {
		if mountPoint.TolerateBusy && errors.Is(err, unix.EBUSY) {
			return nil
		}

		return fmt.Errorf("mount %s: %w", mountPoint.Path, err)
	}

	return nil
}

// MountProc mounts /proc read-only so the kernel command line can be read
// before the full mount sequence runs.
func MountProc() error {
	return Mount(MountPoint{
		Path:         "/proc",
		FSType:       FSTypeProc,
		Flags:        unix.MS_RDONLY,
		TolerateBusy: true,
	})
}

// MountAll mounts the given file systems in the order given.
//
// The first failure stops the sequence and is returned, naming the mount
// point it belongs to.
func MountAll(mountPoints []MountPoint) error {
	for _, mountPoint := range mountPoints {
		if err := Mount(mountPoint); err != nil {
			return err
		}
	}

	return nil
}

// WithMountPoints returns a setup [Func] that wraps [MountAll] and can be
// used with [Run].
func WithMountPoints(mountPoints []MountPoint) Func {
	return func(*State) error {
		return MountAll(mountPoints)
	}
}
