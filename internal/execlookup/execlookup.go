// Package execlookup locates the sass compiler executable (spec.md §6
// "Child executable lookup"), grounded on the godartsass reference file's
// use of github.com/cli/safeexec.LookPath to work around
// https://github.com/golang/go/issues/38736 (PATH-relative lookups
// misbehaving on some platforms when the current directory is on PATH).
package execlookup

import (
	"errors"
	"path/filepath"
	"runtime"

	"github.com/cli/safeexec"
)

// ErrNotFound is the error Find returns when neither vendor path holds an
// executable (spec.md §7 kind 1, ExecutableNotFound).
var ErrNotFound = errors.New("executable not found")

const execName = "sass"

// vendorDirs are searched in order, relative to the directory holding the
// installed library (spec.md §6: "two vendor paths relative to the
// installed library").
var vendorDirs = []string{
	filepath.Join("vendor", "sass"),
	filepath.Join("vendor", "dart-sass"),
}

// Find returns the path to the compiler executable reachable from
// libraryDir, the directory this library is installed into. libraryDir is
// normally the directory containing the running binary or package; callers
// that embed this library pass their own notion of it.
func Find(libraryDir string) (string, error) {
	name := execName
	if runtime.GOOS == "windows" {
		name += ".bat"
	}
	for _, dir := range vendorDirs {
		candidate := filepath.Join(libraryDir, dir, name)
		if bin, err := safeexec.LookPath(candidate); err == nil {
			return bin, nil
		}
	}
	return "", ErrNotFound
}
