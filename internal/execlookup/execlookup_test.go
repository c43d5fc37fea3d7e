package execlookup

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFindReturnsNotFoundWhenVendorDirsAreEmpty(t *testing.T) {
	dir := t.TempDir()
	if _, err := Find(dir); err == nil {
		t.Fatal("expected ErrNotFound when no vendor executable exists")
	}
}

func TestFindLocatesFirstVendorPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exec bit semantics differ on windows")
	}
	dir := t.TempDir()
	binDir := filepath.Join(dir, "vendor", "sass")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatal(err)
	}
	bin := filepath.Join(binDir, "sass")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	got, err := Find(dir)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != bin {
		t.Fatalf("got %q, want %q", got, bin)
	}
}
