// Copyright 2024 The Performance Portability Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package diff compares command output against golden files.
package diff

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Diff returns a unified diff from want to got, or "" if they are
// equal. If the diff command is unavailable, it returns both inputs
// quoted.
func Diff(want, got []byte) string {
	if string(want) == string(got) {
		return ""
	}
	if _, err := exec.LookPath("diff"); err != nil {
		return fmt.Sprintf("diff command unavailable\nwant: %q\ngot:  %q", want, got)
	}
	dir, err := os.MkdirTemp("", "ppdiff")
	if err != nil {
		return err.Error()
	}
	defer os.RemoveAll(dir)
	if err := os.WriteFile(filepath.Join(dir, "want"), want, 0666); err != nil {
		return err.Error()
	}
	if err := os.WriteFile(filepath.Join(dir, "got"), got, 0666); err != nil {
		return err.Error()
	}

	cmd := exec.Command("diff", "-Nu", "want", "got")
	cmd.Dir = dir
	data, err := cmd.CombinedOutput()
	if len(data) > 0 {
		// diff exits non-zero when the files differ.
		err = nil
	}
	if err != nil {
		data = append(data, err.Error()...)
	}
	return string(data)
}

// Golden compares got with the contents of the file at path, treating
// a missing file as empty. It returns "" if they match. Otherwise it
// writes got next to the golden file with a ".got" suffix, for
// reference, and returns the diff.
func Golden(path string, got []byte) string {
	want, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err.Error()
	}
	d := Diff(want, got)
	if d == "" {
		return ""
	}
	if err := os.WriteFile(path+".got", got, 0666); err != nil {
		d += fmt.Sprintf("\nerror writing %s.got: %s", path, err)
	}
	return d
}
