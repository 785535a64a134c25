// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

// Package main provides build targets for the todos project using Mage.
//
// Usage:
//
//	mage build       Compile the todos binary to bin/
//	mage test:all    Run all tests
//	mage test:unit   Run tests without the race detector or cgo backends
//	mage test:cover  Run all tests with a coverage profile
//	mage lint        Run golangci-lint
//	mage clean       Remove build artifacts
//	mage install     Install todos to GOPATH/bin
package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo       = "go"
	binaryName  = "todos"
	binaryDir   = "bin"
	cmdDir      = "./cmd/todos"
	versionVar  = "github.com/mesh-intelligence/todos/internal/cli.Version"
	versionFile = "VERSION"
)

// version returns $TODOS_VERSION, the VERSION file, or git describe, in
// that order, falling back to "dev".
func version() string {
	if v := os.Getenv("TODOS_VERSION"); v != "" {
		return v
	}
	if data, err := os.ReadFile(versionFile); err == nil {
		if v := strings.TrimSpace(string(data)); v != "" {
			return v
		}
	}
	if v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty"); err == nil && v != "" {
		return v
	}
	return "dev"
}

func ldflags() string {
	return "-X " + versionVar + "=" + version()
}

// Build compiles the todos binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	for _, f := range []string{coverProfile, coverHTML} {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
