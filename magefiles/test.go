//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs every unit test.
func (Test) All() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs every unit test with the race detector, the config watcher and the
// vulkan lock pool are the concurrent parts.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream())
	return err
}
