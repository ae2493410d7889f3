// Package script resolves the bundled analysis script and the Python
// interpreter that runs it.
package script

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// BundledPath is the script location relative to the install directory.
const BundledPath = "python/main.py"

// InstallDir returns the directory the relay binary was installed to.
// The bundled script ships alongside the binary.
func InstallDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving executable path: %w", err)
	}
	return filepath.Dir(resolved), nil
}

// Locate returns the absolute path of the script to run. A non-empty
// override (from .relay) wins over the bundled location; relative
// overrides are resolved against the workspace.
func Locate(installDir, workspace, override string) (string, error) {
	path := override
	switch {
	case path == "":
		path = filepath.Join(installDir, BundledPath)
	case !filepath.IsAbs(path):
		path = filepath.Join(workspace, path)
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("script %s: %w", path, err)
	}
	return path, nil
}

// ResolveInterpreter returns the argv prefix for the Python interpreter.
// A configured override is used verbatim; otherwise python3 and python
// are tried on the system PATH, in that order. Returns nil if no
// interpreter is available.
func ResolveInterpreter(override []string) []string {
	if len(override) > 0 {
		return override
	}
	for _, name := range []string{"python3", "python"} {
		if path, err := exec.LookPath(name); err == nil {
			return []string{path}
		}
	}
	return nil
}
