package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/milk9111/collider/metrics"
	"github.com/milk9111/collider/prefabs"
	"github.com/milk9111/collider/replay"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("simulation stopped: %v", err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("collider", flag.ContinueOnError)
	scenario := fs.String("scenario", "scenarios/arena.yaml", "scenario prefab to run")
	ticks := fs.Int("ticks", 0, "number of ticks to run (0 uses the scenario's own count)")
	record := fs.String("record", "", "write a msgpack replay to this file")
	metricsAddr := fs.String("metrics", "", "serve prometheus metrics on this address, e.g. 127.0.0.1:9100")
	watch := fs.Bool("watch", false, "reload collision.yaml and damage scripts from prefabs/ while running")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sim, err := NewSim(*scenario)
	if err != nil {
		return fmt.Errorf("failed to load scenario %s: %w", *scenario, err)
	}

	if *metricsAddr != "" {
		reg := prometheus.NewRegistry()
		sim.Collision().SetMetrics(metrics.New(reg))
		metrics.Serve(*metricsAddr, reg)
	}

	if *record != "" {
		f, err := os.Create(*record)
		if err != nil {
			return fmt.Errorf("failed to create replay %s: %w", *record, err)
		}
		defer f.Close()
		rec := replay.NewRecorder(f)
		sim.Collision().SetRecorder(rec)
		defer func() {
			log.Printf("replay: wrote %d frames to %s", rec.Frames(), *record)
		}()
	}

	if *watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
		if err != nil {
			return fmt.Errorf("failed to watch %s: %w", prefabs.Dir, err)
		}
		defer w.Close()
		go func() {
			for {
				select {
				case change, ok := <-w.Events:
					if !ok {
						return
					}
					if err := sim.Collision().Reload(change); err != nil {
						log.Printf("prefabs: %v", err)
					}
				case err, ok := <-w.Errors:
					if !ok {
						return
					}
					log.Printf("prefabs: watch: %v", err)
				}
			}
		}()
	}

	if err := sim.Run(*ticks); err != nil {
		return err
	}

	t := sim.Totals()
	log.Printf("done: %d ticks, %d pairs (%d dropped), %d bumps, %d hits, %.1f damage, %d deflections, %d terminations",
		sim.frames, t.Candidates, t.Dropped, t.Bumps, t.Hits, t.Damage, t.Deflections, t.Terminations)
	return nil
}
