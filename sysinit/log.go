// SPDX-FileCopyrightText: 2026 The uinit authors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"bytes"
	"io"
	"log"
	"os"
)

var errorMarker = []byte("ERROR ")

// errorOnlyWriter drops log lines that do not carry the error marker.
type errorOnlyWriter struct {
	out io.Writer
}

func (w errorOnlyWriter) Write(p []byte) (int, error) {
	if !bytes.Contains(p, errorMarker) {
		return len(p), nil
	}

	return w.out.Write(p)
}

// Quiet reduces log output to error lines. Progress output is discarded,
// errors stay visible on the console.
func Quiet() {
	log.SetOutput(errorOnlyWriter{out: os.Stderr})
}
