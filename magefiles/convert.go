//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts every HEIC file in dir in place.
func Convert(dir string) error {
	mg.Deps(Build)
	fmt.Printf("[convert] %s\n", dir)
	return sh.RunV(binPath, dir)
}
