// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// mkinitramfs packs an init binary, an optional payload and additional files
// into a gzip compressed newc cpio archive bootable as kernel initramfs.
package main

import (
	"compress/gzip"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/uinit/uinit/internal/initramfs"
)

var errNoInitFile = errors.New("no init binary given")

func buildArchive(initFile, payloadFile string, dataFiles []string) *initramfs.Initramfs {
	archive := initramfs.New(initramfs.OSFile(initFile))

	if payloadFile != "" {
		archive.AddDirectory("sbin")
		archive.AddExecutable("sbin/boot", initramfs.OSFile(payloadFile))
	}

	if len(dataFiles) > 0 {
		archive.AddDirectory("data")

		for _, file := range dataFiles {
			name := filepath.Join("data", filepath.Base(file))
			archive.AddFile(name, initramfs.OSFile(file), 0)
		}
	}

	return archive
}

func writeArchive(archive *initramfs.Initramfs, out io.Writer) error {
	gzWriter := gzip.NewWriter(out)
	cpioWriter := initramfs.NewCPIOWriter(gzWriter)

	if err := archive.WriteTo(cpioWriter); err != nil {
		return err
	}

	if err := cpioWriter.Close(); err != nil {
		return err
	}

	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}

	return nil
}

func run(args []string, errOut io.Writer) error {
	flags := flag.NewFlagSet("mkinitramfs", flag.ContinueOnError)
	flags.SetOutput(errOut)

	outFile := flags.String(
		"out",
		"initramfs.cpio.gz",
		"path of the archive to write",
	)
	payloadFile := flags.String(
		"payload",
		"",
		"binary added as /sbin/boot, executed by the init after bring-up",
	)

	if err := flags.Parse(args); err != nil {
		return err
	}

	if flags.NArg() < 1 {
		flags.Usage()
		return errNoInitFile
	}

	archive := buildArchive(flags.Arg(0), *payloadFile, flags.Args()[1:])

	out, err := os.Create(*outFile)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}

	if err := writeArchive(archive, out); err != nil {
		_ = out.Close()
		_ = os.Remove(*outFile)

		return err
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close archive file: %w", err)
	}

	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
