// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package initramfs

import (
	"fmt"
	"io/fs"
	"os"
)

// OpenFunc opens the source of a file entry when the archive is written.
type OpenFunc func() (fs.File, error)

// OSFile returns an [OpenFunc] that opens the file at the given path on the
// host file system.
func OSFile(path string) OpenFunc {
	return func() (fs.File, error) {
		return os.Open(path)
	}
}

// initFileMode is used for the init binary and other executables.
const initFileMode = 0o755

type entry interface {
	writeTo(w *CPIOWriter) error
}

type directory string

func (d directory) writeTo(w *CPIOWriter) error {
	return w.WriteDirectory(string(d))
}

type file struct {
	path string
	open OpenFunc
	mode fs.FileMode
}

func (f file) writeTo(w *CPIOWriter) error {
	source, err := f.open()
	if err != nil {
		return fmt.Errorf("open source for %s: %w", f.path, err)
	}
	defer source.Close()

	return w.WriteRegular(f.path, source, f.mode)
}

type symlink struct {
	path   string
	target string
}

func (s symlink) writeTo(w *CPIOWriter) error {
	return w.WriteLink(s.path, s.target)
}

// Initramfs assembles a cpio archive usable as kernel initramfs.
//
// Entries are written in the order they were added, so directories must be
// added before files placed in them.
type Initramfs struct {
	entries []entry
}

// New creates an archive with the given file as the init program at /init.
func New(initOpen OpenFunc) *Initramfs {
	archive := &Initramfs{}
	archive.entries = append(archive.entries, file{
		path: "init",
		open: initOpen,
		mode: initFileMode,
	})

	return archive
}

// AddDirectory adds a directory entry.
func (i *Initramfs) AddDirectory(path string) {
	i.entries = append(i.entries, directory(path))
}

// AddFile adds a regular file entry with the source opened by the given
// [OpenFunc]. Mode 0 keeps the source file's mode.
func (i *Initramfs) AddFile(path string, open OpenFunc, mode fs.FileMode) {
	i.entries = append(i.entries, file{path: path, open: open, mode: mode})
}

// AddExecutable adds a regular file entry with executable permissions.
func (i *Initramfs) AddExecutable(path string, open OpenFunc) {
	i.AddFile(path, open, initFileMode)
}

// AddLink adds a symbolic link entry pointing to target.
func (i *Initramfs) AddLink(path, target string) {
	i.entries = append(i.entries, symlink{path: path, target: target})
}

// WriteTo writes all entries into the given [CPIOWriter]. The writer is not
// closed.
func (i *Initramfs) WriteTo(writer *CPIOWriter) error {
	for _, entry := range i.entries {
		if err := entry.writeTo(writer); err != nil {
			return err
		}
	}

	return nil
}
