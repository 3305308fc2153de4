package utils

import (
	"fmt"
	"os"
	"os/exec"
)

// CheckPredictor verifies the external scorer can be invoked at all: the
// interpreter resolves on PATH and the script file exists. It says nothing
// about whether the model itself loads; that surfaces per-invocation.
func CheckPredictor(python, script string) error {
	if script == "" {
		return fmt.Errorf("no predictor script configured")
	}
	if _, err := exec.LookPath(python); err != nil {
		return fmt.Errorf("predictor interpreter %q not found: %w", python, err)
	}
	info, err := os.Stat(script)
	if err != nil {
		return fmt.Errorf("predictor script %q not accessible: %w", script, err)
	}
	if info.IsDir() {
		return fmt.Errorf("predictor script %q is a directory", script)
	}
	return nil
}
