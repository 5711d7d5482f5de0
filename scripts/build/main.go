// Package main builds the srcfmt binary into bin/, stamping the version from git.
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const versionVar = "github.com/andyballingall/srcfmt/internal/app.Version"

func main() {
	binaryName := "srcfmt"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}

	version := describe()

	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building srcfmt %s...\n", version)

	cmd := exec.Command("go", "build", "-ldflags", "-X "+versionVar+"="+version, "-o", outputPath, "./cmd/srcfmt")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Build complete: %s\n", outputPath)
}

// describe returns the git description of HEAD, or "dev" outside a repository.
func describe() string {
	var out bytes.Buffer
	cmd := exec.Command("git", "describe", "--tags", "--always", "--dirty")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "dev"
	}
	return strings.TrimSpace(out.String())
}
