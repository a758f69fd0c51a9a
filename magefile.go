//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binary = "turktranslate"

// Default target when mage runs without arguments
var Default = Build

// Build compiles the turktranslate binary
func Build() error {
	mg.Deps(Vet)
	return sh.RunV("go", "build", "-o", binary, "./cmd/turktranslate")
}

// Test runs the unit tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs the binary into $GOPATH/bin
func Install() error {
	mg.Deps(Test)
	return sh.RunV("go", "install", "./cmd/turktranslate")
}

// Clean removes build artifacts
func Clean() error {
	fmt.Println("Removing", binary)
	if err := os.Remove(filepath.Join(".", binary)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
