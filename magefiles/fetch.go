//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Fetch downloads audio for every title in songs.txt.
func Fetch() error {
	mg.Deps(Build)
	return sh.RunV(binPath(), "fetch", songsFile)
}
