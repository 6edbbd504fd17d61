package collision

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/collider/prefabs"
)

// Stat is an attacker attribute that can boost particle damage.
type Stat uint8

const (
	StatIntelligence Stat = iota
	StatWisdom
)

func (s Stat) String() string {
	switch s {
	case StatIntelligence:
		return "intelligence"
	case StatWisdom:
		return "wisdom"
	}
	return "unknown"
}

// DamageScaler turns an attacker stat into a damage multiplier.
type DamageScaler interface {
	Scale(stat Stat, value float32) float32
}

// LinearScaler adds PerPoint for every point of the stat above Pivot.
type LinearScaler struct {
	Pivot    float32
	PerPoint float32
}

func DefaultScaler() LinearScaler {
	return LinearScaler{Pivot: 14, PerPoint: 0.02}
}

func (l LinearScaler) Scale(_ Stat, value float32) float32 {
	return max(0, 1+(value-l.Pivot)*l.PerPoint)
}

// ScriptScaler runs a tengo script per lookup. The script reads the globals
// stat and value and must assign multiplier.
type ScriptScaler struct {
	name     string
	compiled *tengo.Compiled
	fallback DamageScaler
}

func NewScriptScaler(name string, src []byte, fallback DamageScaler) (*ScriptScaler, error) {
	script := tengo.NewScript(src)
	if err := script.Add("stat", ""); err != nil {
		return nil, err
	}
	if err := script.Add("value", 0.0); err != nil {
		return nil, err
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("collision: compile %s: %w", name, err)
	}
	// globals stay undefined until the script has run once
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("collision: run %s: %w", name, err)
	}
	if !compiled.IsDefined("multiplier") {
		return nil, fmt.Errorf("collision: %s does not define multiplier", name)
	}
	return &ScriptScaler{name: name, compiled: compiled, fallback: fallback}, nil
}

func (s *ScriptScaler) Scale(stat Stat, value float32) float32 {
	if s == nil || s.compiled == nil {
		return 1
	}
	if err := s.compiled.Set("stat", stat.String()); err != nil {
		return s.fail(stat, value, err)
	}
	if err := s.compiled.Set("value", float64(value)); err != nil {
		return s.fail(stat, value, err)
	}
	if err := s.compiled.Run(); err != nil {
		return s.fail(stat, value, err)
	}
	m := float32(s.compiled.Get("multiplier").Float())
	if m < 0 {
		return 0
	}
	return m
}

func (s *ScriptScaler) fail(stat Stat, value float32, err error) float32 {
	log.Printf("collision: %s: %v", s.name, err)
	if s.fallback != nil {
		return s.fallback.Scale(stat, value)
	}
	return 1
}

// ScalerFromSpec builds the scaler a tuning file asks for.
func ScalerFromSpec(spec prefabs.TuningSpec) (DamageScaler, error) {
	linear := DefaultScaler()
	if spec.StatPivot != 0 {
		linear.Pivot = spec.StatPivot
	}
	if spec.StatPerPoint != 0 {
		linear.PerPoint = spec.StatPerPoint
	}
	if spec.DamageScript == "" {
		return linear, nil
	}
	src, err := prefabs.LoadScript(spec.DamageScript)
	if err != nil {
		return nil, fmt.Errorf("collision: load %s: %w", spec.DamageScript, err)
	}
	return NewScriptScaler(spec.DamageScript, src, linear)
}
