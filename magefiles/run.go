//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds and runs the testbed. ANIMA_CONFIG points to a TOML config file.
func (Run) Engine() error {
	mg.Deps(Build.Engine)

	args := []string{"-frames", "600"}
	if path := os.Getenv("ANIMA_CONFIG"); path != "" {
		args = append(args, "-config", path)
	}
	fmt.Println("Run engine...")
	if _, err := executeCmd("bin/anima-state", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}
