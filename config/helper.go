package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// EnvVarConfigDir overrides the directory holding the config files.
const EnvVarConfigDir = "CP_CONFIG_DIR"

// mustGetConfigHomeDir returns $CP_CONFIG_DIR, else ~/.costpipe, caching the result in costPipeHomeDir.
func mustGetConfigHomeDir() string {
	if costPipeHomeDir != "" {
		return costPipeHomeDir
	}
	if d := os.Getenv(EnvVarConfigDir); d != "" {
		costPipeHomeDir = d
		return d
	}
	home, err := homedir.Dir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to find the home directory for config files:", err)
		os.Exit(1)
	}
	costPipeHomeDir = filepath.Join(home, MainDir)
	return costPipeHomeDir
}

// makeDir creates dir, readable by the owner only, unless it exists.
func makeDir(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("error creating config directory %v: %w", dir, err)
	}
	return nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}
