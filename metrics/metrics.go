// Package metrics exports per-pass collision counters to prometheus.
package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/milk9111/collider/collision"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the collectors of one registry. Labels are bounded: the
// platform counter only ever sees "attach" and "detach".
type Recorder struct {
	passDuration prometheus.Histogram
	candidates   prometheus.Gauge
	entities     *prometheus.GaugeVec

	pairs        prometheus.Counter
	dropped      prometheus.Counter
	mounts       prometheus.Counter
	platform     *prometheus.CounterVec
	bumps        prometheus.Counter
	pressures    prometheus.Counter
	hits         prometheus.Counter
	damage       prometheus.Counter
	deflections  prometheus.Counter
	terminations prometheus.Counter
	reaped       prometheus.Counter
}

// New registers the collision collectors on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		passDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "collision_pass_duration_seconds",
			Help:    "Time spent in one collision pass",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025},
		}),
		candidates: f.NewGauge(prometheus.GaugeOpts{
			Name: "collision_pass_candidates",
			Help: "Candidate pairs in the most recent pass",
		}),
		entities: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "collision_entities",
			Help: "Entities alive after the most recent pass",
		}, []string{"kind"}),
		pairs: f.NewCounter(prometheus.CounterOpts{
			Name: "collision_pairs_total",
			Help: "Candidate pairs found by the broad phase",
		}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "collision_pairs_dropped_total",
			Help: "Candidate pairs dropped because the pair arena was full",
		}),
		mounts: f.NewCounter(prometheus.CounterOpts{
			Name: "collision_mounts_total",
			Help: "Riders seated on a mount",
		}),
		platform: f.NewCounterVec(prometheus.CounterOpts{
			Name: "collision_platform_events_total",
			Help: "Platform attachments and detachments",
		}, []string{"event"}),
		bumps: f.NewCounter(prometheus.CounterOpts{
			Name: "collision_bumps_total",
			Help: "Character pairs that exchanged an impulse",
		}),
		pressures: f.NewCounter(prometheus.CounterOpts{
			Name: "collision_pressures_total",
			Help: "Overlapping pairs pushed apart",
		}),
		hits: f.NewCounter(prometheus.CounterOpts{
			Name: "collision_hits_total",
			Help: "Particles that touched a character",
		}),
		damage: f.NewCounter(prometheus.CounterOpts{
			Name: "collision_damage_total",
			Help: "Damage dealt by particles",
		}),
		deflections: f.NewCounter(prometheus.CounterOpts{
			Name: "collision_deflections_total",
			Help: "Particles blocked or turned away",
		}),
		terminations: f.NewCounter(prometheus.CounterOpts{
			Name: "collision_terminations_total",
			Help: "Particles ended by a collision",
		}),
		reaped: f.NewCounter(prometheus.CounterOpts{
			Name: "collision_reaped_particles_total",
			Help: "Terminated particles removed from the world",
		}),
	}
}

// ObservePass records the outcome of one pass.
func (r *Recorder) ObservePass(s collision.Stats, took time.Duration) {
	if r == nil {
		return
	}
	r.passDuration.Observe(took.Seconds())
	r.candidates.Set(float64(s.Candidates))
	r.pairs.Add(float64(s.Candidates))
	r.dropped.Add(float64(s.Dropped))
	r.mounts.Add(float64(s.Mounts))
	r.platform.WithLabelValues("attach").Add(float64(s.PlatformAttach))
	r.platform.WithLabelValues("detach").Add(float64(s.PlatformDetach))
	r.bumps.Add(float64(s.Bumps))
	r.pressures.Add(float64(s.Pressures))
	r.hits.Add(float64(s.Hits))
	if s.Damage > 0 {
		r.damage.Add(float64(s.Damage))
	}
	r.deflections.Add(float64(s.Deflections))
	r.terminations.Add(float64(s.Terminations))
}

// ObserveWorld records population after a tick.
func (r *Recorder) ObserveWorld(characters, particles, reaped int) {
	if r == nil {
		return
	}
	r.entities.WithLabelValues("character").Set(float64(characters))
	r.entities.WithLabelValues("particle").Set(float64(particles))
	r.reaped.Add(float64(reaped))
}

// Handler serves the collectors of g in the text exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// NewRouter mounts the exposition handler of g at /metrics next to a
// /healthz check. Dashboards on localhost may read it cross-origin.
func NewRouter(g prometheus.Gatherer) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	}))
	r.Method(http.MethodGet, "/metrics", Handler(g))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// Serve exposes g on addr until the listener fails.
func Serve(addr string, g prometheus.Gatherer) {
	r := NewRouter(g)
	go func() {
		log.Printf("metrics: serving on http://%s/metrics", addr)
		if err := http.ListenAndServe(addr, r); err != nil {
			log.Printf("metrics: server error: %v", err)
		}
	}()
}
