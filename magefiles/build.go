//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Runs go mod download and then builds the testbed binary into bin/.
func (Build) Engine() error {
	if _, err := executeCmd("go", withArgs("mod", "download")); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/anima-state", "."), withStream()); err != nil {
		return err
	}
	return nil
}
