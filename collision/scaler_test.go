package collision

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/milk9111/collider/prefabs"
)

func TestLinearScaler(t *testing.T) {
	s := DefaultScaler()
	cases := []struct {
		value, want float32
	}{
		{14, 1},
		{24, 1.2},
		{4, 0.8},
		{-100, 0},
	}
	for _, c := range cases {
		if got := s.Scale(StatIntelligence, c.value); math32.Abs(got-c.want) > 1e-5 {
			t.Fatalf("Scale(%v) = %v, want %v", c.value, got, c.want)
		}
	}
}

func TestScriptScaler(t *testing.T) {
	src := []byte(`multiplier := stat == "wisdom" ? 2.0 : 1.0 + value / 100.0`)
	s, err := NewScriptScaler("inline", src, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if got := s.Scale(StatWisdom, 0); got != 2 {
		t.Fatalf("wisdom: got %v", got)
	}
	if got := s.Scale(StatIntelligence, 50); math32.Abs(got-1.5) > 1e-5 {
		t.Fatalf("intelligence: got %v", got)
	}
}

func TestNewScriptScaler(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		wantErr bool
	}{
		{"constant", `multiplier := 1.0`, false},
		{"reads globals", `multiplier := value > 0.0 ? 2.0 : 1.0`, false},
		{"no multiplier", `x := 1`, true},
		{"syntax", `multiplier := (`, true},
		{"undefined name", `multiplier := undefined_fn()`, true},
		{"fails on first run", "zero := 0\nmultiplier := 1 / zero", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewScriptScaler(c.name, []byte(c.src), nil)
			if (err != nil) != c.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestScalerFromLoadedTuning(t *testing.T) {
	old := prefabs.Dir
	prefabs.Dir = t.TempDir()
	t.Cleanup(func() { prefabs.Dir = old })

	spec, err := prefabs.LoadTuning()
	if err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}
	s, err := ScalerFromSpec(spec)
	if err != nil {
		t.Fatalf("ScalerFromSpec: %v", err)
	}
	cases := []struct {
		stat  Stat
		value float32
		want  float32
	}{
		{StatIntelligence, 14, 1},
		{StatIntelligence, 24, 1.2},
		{StatWisdom, 24, 1.15},
		{StatIntelligence, -100, 0},
	}
	for _, c := range cases {
		if got := s.Scale(c.stat, c.value); math32.Abs(got-c.want) > 1e-4 {
			t.Fatalf("Scale(%v, %v) = %v, want %v", c.stat, c.value, got, c.want)
		}
	}
}

func TestScalerFromSpecUsesEmbeddedScript(t *testing.T) {
	s, err := ScalerFromSpec(prefabs.TuningSpec{DamageScript: "damage_bonus.tengo"})
	if err != nil {
		t.Fatalf("scaler: %v", err)
	}
	if _, ok := s.(*ScriptScaler); !ok {
		t.Fatalf("expected script scaler, got %T", s)
	}
	if got := s.Scale(StatIntelligence, 14); math32.Abs(got-1) > 1e-5 {
		t.Fatalf("pivot stat should not scale, got %v", got)
	}
}
