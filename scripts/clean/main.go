// Package main removes build output, logs and coverage files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	remove("bin", os.RemoveAll)
	remove(".srcfmt.log", os.Remove)

	for _, pattern := range []string{"coverage*", "*.out", "*.test", ".srcfmt.log.*"} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			fmt.Printf("❌ Failed to glob pattern %s: %v\n", pattern, err)
			continue
		}
		for _, match := range matches {
			remove(match, os.Remove)
		}
	}
}

func remove(path string, rm func(string) error) {
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return
	}
	if err := rm(path); err != nil {
		fmt.Printf("❌ Failed to remove %s: %v\n", path, err)
		return
	}
	fmt.Printf("✅ Removed %s\n", path)
}
