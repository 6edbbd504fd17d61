package system

import (
	"fmt"
	"log"
	"time"

	"github.com/milk9111/collider/collision"
	"github.com/milk9111/collider/ecs"
	"github.com/milk9111/collider/metrics"
	"github.com/milk9111/collider/prefabs"
	"github.com/milk9111/collider/replay"
)

// Settings is everything collision.yaml and its damage script configure.
type Settings struct {
	Tuning      collision.Tuning
	Scaler      collision.DamageScaler
	InvulnTicks int
}

// LoadSettings reads collision.yaml and compiles its damage script.
func LoadSettings() (Settings, error) {
	spec, err := prefabs.LoadTuning()
	if err != nil {
		return Settings{}, err
	}
	scaler, err := collision.ScalerFromSpec(spec)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return Settings{
		Tuning:      collision.TuningFromSpec(spec),
		Scaler:      scaler,
		InvulnTicks: spec.DamageInvulnTicks,
	}, nil
}

// CollisionSystem runs one collision pass per world update, then removes the
// particles the pass terminated. New settings are queued from any goroutine
// and applied before the next pass starts.
type CollisionSystem struct {
	ctx      *collision.Context
	metrics  *metrics.Recorder
	recorder *replay.Recorder
	pending  chan Settings

	last collision.Stats
	err  error
}

func NewCollisionSystem(ctx *collision.Context) *CollisionSystem {
	return &CollisionSystem{
		ctx:     ctx,
		pending: make(chan Settings, 1),
	}
}

func (s *CollisionSystem) SetMetrics(r *metrics.Recorder) {
	s.metrics = r
}

func (s *CollisionSystem) SetRecorder(r *replay.Recorder) {
	s.recorder = r
}

// Queue hands new settings to the simulation. Only the most recent queued
// settings are applied.
func (s *CollisionSystem) Queue(settings Settings) {
	for {
		select {
		case s.pending <- settings:
			return
		default:
		}
		select {
		case <-s.pending:
		default:
		}
	}
}

// Reload reacts to a prefab change by reloading and queueing settings.
// Changes to other prefabs are ignored.
func (s *CollisionSystem) Reload(change prefabs.Change) error {
	if change.Kind == prefabs.ChangeSpec && !prefabs.IsTuning(change.Path) {
		return nil
	}
	settings, err := LoadSettings()
	if err != nil {
		return fmt.Errorf("reload %s: %w", change.Path, err)
	}
	s.Queue(settings)
	log.Printf("collision: queued settings from %s", change.Path)
	return nil
}

func (s *CollisionSystem) Update(w *ecs.World) {
	if w == nil || s.ctx == nil {
		return
	}
	s.applyPending(w)

	start := time.Now()
	stats, err := s.ctx.Run(w)
	took := time.Since(start)
	s.last, s.err = stats, err
	if err != nil {
		log.Printf("collision: tick %d: %v", w.Tick(), err)
		return
	}

	s.metrics.ObservePass(stats, took)
	reaped := w.ReapParticles()
	s.metrics.ObserveWorld(len(w.Characters()), len(w.Particles()), reaped)

	if err := s.recorder.Record(w, stats); err != nil {
		log.Printf("collision: tick %d: %v", w.Tick(), err)
		s.err = err
	}
}

func (s *CollisionSystem) applyPending(w *ecs.World) {
	select {
	case settings := <-s.pending:
		if err := s.ctx.SetTuning(settings.Tuning); err != nil {
			log.Printf("collision: rejected tuning: %v", err)
			return
		}
		if settings.Scaler != nil {
			s.ctx.SetScaler(settings.Scaler)
		}
		w.DismountTicks = settings.Tuning.DismountTicks
		if settings.InvulnTicks > 0 {
			w.DamageInvulnTicks = settings.InvulnTicks
		}
	default:
	}
}

// Apply installs settings immediately. Use it before the first update only.
func (s *CollisionSystem) Apply(w *ecs.World, settings Settings) {
	s.Queue(settings)
	s.applyPending(w)
}

// Stats is what the most recent pass did.
func (s *CollisionSystem) Stats() collision.Stats {
	return s.last
}

// Err is the error of the most recent update, if any.
func (s *CollisionSystem) Err() error {
	return s.err
}
