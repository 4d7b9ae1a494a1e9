package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvDir overrides the runtime directory entirely. Tests and side-by-side
// daemons point it at a private directory.
const EnvDir = "PROGMAN_RUNTIME_DIR"

// Dir returns the directory holding the daemon socket and lock file.
// Priority:
// 1) PROGMAN_RUNTIME_DIR (if set)
// 2) XDG_RUNTIME_DIR (if set)
// 3) /run/user/<uid> (if present)
// 4) /tmp/progman-runtime-<uid> (created)
func Dir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return "", fmt.Errorf("failed to create runtime dir: %w", err)
		}
		return dir, nil
	}
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/progman-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	return join("progman.sock")
}

// LockPath returns the file the daemon holds an exclusive lock on while it
// runs.
func LockPath() (string, error) {
	return join("progman.lock")
}

func join(name string) (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, name), nil
}
