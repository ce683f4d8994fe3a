package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// buildConfig holds the parsed arguments for the build subcommand.
type buildConfig struct {
	outputFile string
	targetDir  string
}

func buildCommand(args []string) error {
	cfg, err := parseBuildArgs(args)
	if err != nil {
		return err
	}

	info, err := readBuildInfo(cfg.targetDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "no go.mod found in %s, building without build-info stamping: %v\n", cfg.targetDir, err)
	}

	ldflags := fmt.Sprintf("-X 'main.buildInfo=%s'", info)
	cmd := exec.Command("go", "build", "-buildmode=c-shared", "-ldflags", ldflags, "-o", cfg.outputFile, "github.com/kutelev/overthrower/cmd/overthrower")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to build shared library: %w", err)
	}

	fmt.Fprintf(os.Stdout, "built %s\n", cfg.outputFile)
	return nil
}

func parseBuildArgs(args []string) (buildConfig, error) {
	cfg := buildConfig{outputFile: "overthrower.so", targetDir: "."}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o":
			if i+1 >= len(args) {
				return cfg, fmt.Errorf("-o requires a value")
			}
			i++
			cfg.outputFile = args[i]
		default:
			cfg.targetDir = args[i]
		}
	}

	return cfg, nil
}

// readBuildInfo locates target-dir/go.mod and extracts its module path and
// Go version using golang.org/x/mod/modfile rather than hand-rolled parsing.
func readBuildInfo(targetDir string) (string, error) {
	modPath := filepath.Join(targetDir, "go.mod")

	data, err := os.ReadFile(modPath)
	if err != nil {
		return "", err
	}

	mf, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", modPath, err)
	}

	modulePath := ""
	if mf.Module != nil {
		modulePath = mf.Module.Mod.Path
	}
	goVersion := ""
	if mf.Go != nil {
		goVersion = mf.Go.Version
	}

	return fmt.Sprintf("module=%s go=%s", modulePath, goVersion), nil
}
