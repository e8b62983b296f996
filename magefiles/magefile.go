//go:build mage

// Package main contains Mage build targets for songgrab developer tooling.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir    = "bin"
	binName   = "songgrab"
	cmdPkg    = "./cmd/songgrab"
	songsFile = "songs.txt"
)

// sampleSongs seeds a new song list: one title per line.
const sampleSongs = `晴天 周杰伦
Bohemian Rhapsody Queen
`

func binPath() string {
	return filepath.Join(binDir, binName)
}

// Init creates a sample songs.txt and the default songgrab.yaml.
func Init() error {
	mg.Deps(Build)
	if _, err := os.Stat(songsFile); os.IsNotExist(err) {
		if err := os.WriteFile(songsFile, []byte(sampleSongs), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", songsFile, err)
		}
		fmt.Println("  ", songsFile)
	}
	if _, err := os.Stat("songgrab.yaml"); os.IsNotExist(err) {
		if err := sh.RunV(binPath(), "config", "init"); err != nil {
			return err
		}
	}
	fmt.Println("Project initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := binPath()
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Stats prints project metrics: Go production and test LOC.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines walks the tree under root and counts non-blank lines in Go
// files, either tests only or production files only. Directories starting
// with "_" or "." are skipped, as the go tool does.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.ContainsAny(d.Name()[:1], "_.") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if strings.TrimSpace(line) != "" {
				total++
			}
		}
		return nil
	})
	return total, err
}
