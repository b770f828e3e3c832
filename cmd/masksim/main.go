// Command masksim runs the MASQUERADE detection pipeline as a standalone
// host: generated city, seeded factions, scripted street activity, HTTP
// API, and periodic SQLite checkpoints.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talgya/masquerade/internal/api"
	"github.com/talgya/masquerade/internal/city"
	"github.com/talgya/masquerade/internal/engine"
	"github.com/talgya/masquerade/internal/evidence"
	"github.com/talgya/masquerade/internal/faction"
	"github.com/talgya/masquerade/internal/heat"
	"github.com/talgya/masquerade/internal/persistence"
	"github.com/talgya/masquerade/internal/persona"
	"github.com/talgya/masquerade/internal/trace"
)

func main() {
	var (
		dbPath      = flag.String("db", "data/masquerade.db", "SQLite database path")
		catalogPath = flag.String("factions", "", "faction catalog YAML (empty = built-in)")
		seed        = flag.Int64("seed", 42, "city generation seed")
		port        = flag.Int("port", 8080, "HTTP API port")
		speed       = flag.Float64("speed", 1.0, "tick speed multiplier")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("MASQUERADE — detection/investigation/response host")

	// ── Database ──────────────────────────────────────────────────────
	os.MkdirAll("data", 0755)
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	// ── Faction catalog ───────────────────────────────────────────────
	// A bad content file disables detection, it does not kill the host.
	catalog := faction.SeedCatalog()
	if *catalogPath != "" {
		loaded, err := faction.LoadCatalog(*catalogPath)
		if err != nil {
			slog.Error("faction catalog rejected, detection disabled", "error", err)
			catalog = faction.EmptyCatalog()
		} else {
			catalog = loaded
			slog.Info("faction catalog loaded",
				"path", *catalogPath, "types", len(catalog.Types), "instances", len(catalog.Instances))
		}
	}

	// ── City ──────────────────────────────────────────────────────────
	cfg := city.DefaultGenConfig()
	cfg.Seed = *seed
	cityMap := city.Generate(cfg)
	slog.Info("city generated", "districts", len(cityMap.Districts), "seed", *seed)

	// ── Personas ──────────────────────────────────────────────────────
	personas := []*persona.Persona{
		{
			ID: "nightjar", Name: "Nightjar", Kind: persona.KindMasked,
			DistrictID: cityMap.Districts[0].ID,
			Risk:       persona.NeutralRisk(),
			Alignment:  persona.Alignment{Name: "vigilante", SuspicionMultiplier: 1.2},
		},
		{
			ID: "m-voss", Name: "Marion Voss", Kind: persona.KindCivilian,
			DistrictID: cityMap.Districts[0].ID,
			Risk:       persona.NeutralRisk(),
			Alignment:  persona.Alignment{Name: "civilian", SuspicionMultiplier: 1.0},
		},
	}

	sim := engine.NewSimulation(cityMap, catalog, personas)

	// ── Restore previous run ──────────────────────────────────────────
	if tick, err := db.LoadTick(); err == nil && tick > 0 {
		states, _ := db.LoadHeat()
		cases, _ := db.LoadCases()
		items, _ := db.LoadEvidence()
		feed, _ := db.LoadFeed()
		sim.Restore(states, cases, items, feed, tick)
		slog.Info("state restored", "tick", tick, "cases", len(cases), "districts", len(states))
	}

	// ── API ───────────────────────────────────────────────────────────
	server := &api.Server{Port: *port}
	server.Start()

	// ── Engine ────────────────────────────────────────────────────────
	eng := engine.NewEngine()
	eng.Tick = sim.CurrentTick()
	eng.Speed = *speed
	eng.Interval = time.Second

	savedFeed := len(sim.Feed)

	eng.OnTick = func(tick uint64) {
		for _, in := range server.DrainIntents() {
			sim.SubmitIntent(in)
		}
		scriptedActivity(sim, cityMap, tick)
		sim.RunTick(tick)
	}
	eng.OnAfterTick = func(tick uint64) {
		server.Publish(sim.Snapshot())
	}
	eng.OnCheckpoint = func(tick uint64) {
		if err := checkpoint(db, sim, &savedFeed); err != nil {
			slog.Error("checkpoint failed", "tick", tick, "error", err)
		} else {
			slog.Info("checkpoint", "tick", tick)
		}
	}

	// ── Shutdown ──────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down")
		eng.Stop()
	}()

	eng.Run()

	if err := checkpoint(db, sim, &savedFeed); err != nil {
		slog.Error("final checkpoint failed", "error", err)
	}
}

// checkpoint writes the durable state between ticks. savedFeed tracks how
// much of the append-only feed is already on disk.
func checkpoint(db *persistence.DB, sim *engine.Simulation, savedFeed *int) error {
	states := make([]*heat.DistrictHeat, 0, len(sim.Heat.All()))
	for _, dh := range sim.Heat.All() {
		states = append(states, dh)
	}
	if err := db.SaveHeat(states); err != nil {
		return err
	}
	if err := db.SaveCases(sim.Cases.All()); err != nil {
		return err
	}
	if err := db.SaveEvidence(sim.Evidence.All()); err != nil {
		return err
	}
	if err := db.AppendFeed(sim.Feed[*savedFeed:]); err != nil {
		return err
	}
	*savedFeed = len(sim.Feed)
	return db.SaveTick(sim.CurrentTick())
}

// scriptedActivity injects deterministic street-level action reports so a
// fresh run has something to detect. A real host feeds these from its
// action-resolution layer.
func scriptedActivity(sim *engine.Simulation, cityMap *city.Map, tick uint64) {
	districts := cityMap.Districts
	if len(districts) == 0 {
		return
	}
	// A masked intervention every 7 ticks, rotating through districts.
	if tick%7 == 0 {
		d := districts[int(tick/7)%len(districts)]
		sim.ReportAction(engine.Report{
			DistrictID: d.ID,
			Signatures: []trace.Signature{
				{Type: trace.SigPropertyDamage, Strength: 20 + int(tick%30)},
				{Type: trace.SigVisualAnomaly, Strength: 15},
			},
			Witnesses:   int(tick % 6),
			InPublic:    d.HasTag(city.TagPublic),
			PersonaHint: evidence.HintMasked,
			SuspectFeatures: []string{
				"dark coat", "moves like a trained fighter",
			},
		})
	}
	// Heavier energy discharge every 31 ticks downtown.
	if tick%31 == 0 {
		for _, d := range districts {
			if d.HasTag(city.TagDowntown) {
				sim.ReportAction(engine.Report{
					DistrictID: d.ID,
					Signatures: []trace.Signature{
						{Type: trace.SigEnergyResidue, Strength: 45, Persistence: 8},
					},
					Witnesses:   8,
					InPublic:    true,
					PersonaHint: evidence.HintMasked,
				})
				break
			}
		}
	}
}
