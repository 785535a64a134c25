// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	coverProfile = "coverage.out"
	coverHTML    = "coverage.html"
)

// Test groups test targets (all, unit, cover).
type Test mg.Namespace

// All runs every test with the race detector.
func (Test) All() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// Unit runs the tests with cgo disabled, skipping the gorm backend which
// needs it.
func (Test) Unit() error {
	env := map[string]string{"CGO_ENABLED": "0"}
	pkgs := []string{
		"./pkg/...",
		"./internal/sqlite/...",
		"./internal/memstore/...",
		"./internal/service/...",
		"./internal/endpoint/...",
		"./internal/httpapi/...",
		"./internal/tui/...",
		"./internal/logging/...",
		"./internal/paths/...",
	}
	return sh.RunWithV(env, binGo, append([]string{"test"}, pkgs...)...)
}

// Cover runs all tests and writes coverage.out and coverage.html.
func (Test) Cover() error {
	if err := sh.RunV(binGo, "test", "-coverprofile="+coverProfile, "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-html="+coverProfile, "-o", coverHTML)
}
