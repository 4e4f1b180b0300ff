//go:build pprof

package profile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestModes(t *testing.T) {
	for _, m := range []string{"cpu", "heap", "trace"} {
		if !slices.Contains(Modes(), m) {
			t.Errorf("missing mode %q in %v", m, Modes())
		}
	}
}

func TestStart_CPU(t *testing.T) {
	dir := t.TempDir()

	Start(WithMode("cpu"), WithDir(dir), WithQuiet(true)).Stop()

	if _, err := os.Stat(filepath.Join(dir, "cpu.pprof")); err != nil {
		t.Errorf("expected profile output: %v", err)
	}
}
