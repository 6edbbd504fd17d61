package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/collider/prefabs"
	"github.com/milk9111/collider/replay"
)

func TestSimRunsArena(t *testing.T) {
	old := prefabs.Dir
	prefabs.Dir = t.TempDir()
	t.Cleanup(func() { prefabs.Dir = old })

	sim, err := NewSim("scenarios/arena.yaml")
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	if err := sim.Run(30); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sim.frames != 30 || sim.World().Tick() != 30 {
		t.Fatalf("ran %d frames, world at tick %d", sim.frames, sim.World().Tick())
	}
	if sim.Totals().Candidates == 0 {
		t.Fatalf("arena should produce candidate pairs")
	}
}

func TestNewSimMissingScenario(t *testing.T) {
	old := prefabs.Dir
	prefabs.Dir = t.TempDir()
	t.Cleanup(func() { prefabs.Dir = old })

	if _, err := NewSim("scenarios/nowhere.yaml"); err == nil {
		t.Fatalf("expected an error for a missing scenario")
	}
}

func TestRun(t *testing.T) {
	old := prefabs.Dir
	prefabs.Dir = t.TempDir()
	t.Cleanup(func() { prefabs.Dir = old })

	out := filepath.Join(t.TempDir(), "arena.replay")
	cases := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"records a replay", []string{"-ticks", "3", "-record", out}, false},
		{"missing scenario", []string{"-scenario", "scenarios/nowhere.yaml"}, true},
		{"unknown flag", []string{"-bogus"}, true},
		{"unwritable replay", []string{"-ticks", "1", "-record", filepath.Join(out, "nested")}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := run(c.args)
			if (err != nil) != c.wantErr {
				t.Fatalf("run(%v) err = %v, wantErr %v", c.args, err, c.wantErr)
			}
		})
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	frames, err := replay.ReadFrames(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadFrames: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("replay has %d frames, want 3", len(frames))
	}
}
