// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build integration

package sysinit_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/uinit/uinit/sysinit"
)

func TestMountTmpfs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mnt")

	err := sysinit.Mount(sysinit.MountPoint{
		Path:   path,
		FSType: sysinit.FSTypeTmp,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, unix.Unmount(path, 0))
	})

	var stat unix.Statfs_t

	require.NoError(t, unix.Statfs(path, &stat))
	assert.EqualValues(t, unix.TMPFS_MAGIC, stat.Type)
}

func TestMountCreatesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deeply", "nested", "mnt")

	err := sysinit.Mount(sysinit.MountPoint{
		Path:   path,
		FSType: sysinit.FSTypeTmp,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, unix.Unmount(path, 0))
	})

	assert.DirExists(t, path)
}
