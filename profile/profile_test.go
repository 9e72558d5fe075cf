package profile

import (
	"slices"
	"testing"
)

func TestProfiler_Disabled(t *testing.T) {
	for _, p := range []Profiler{{}, {Mode: "bogus", Dir: t.TempDir()}} {
		s := p.Start()
		if _, ok := s.(ignore); !ok {
			t.Errorf("Start(%+v) = %T, want no-op", p, s)
		}

		s.Stop()
	}
}

func TestModes(t *testing.T) {
	modes := Modes()

	if !Enabled() {
		if len(modes) != 0 {
			t.Errorf("Modes() = %v without %s tag", modes, Tag)
		}

		return
	}

	if !slices.IsSorted(modes) || !slices.Contains(modes, "cpu") {
		t.Errorf("Modes() = %v", modes)
	}
}
