// Tick driver for the detection pipeline. Ticks are strictly sequential:
// tick N+1 never starts before tick N's full pipeline has completed, and
// outside readers only sample between ticks.
package engine

import (
	"log/slog"
	"time"
)

// DefaultCheckpointTicks is how often the checkpoint callback fires.
const DefaultCheckpointTicks = 60

// Engine drives the simulation forward.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval (default 1 second)
	Running  bool

	CheckpointTicks uint64

	// Callbacks — populated during setup.
	OnTick       func(tick uint64) // Every tick: the full pipeline
	OnAfterTick  func(tick uint64) // Between ticks: snapshot publication, intent drain
	OnCheckpoint func(tick uint64) // Every CheckpointTicks: persistence
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:           1.0,
		Interval:        time.Second,
		CheckpointTicks: DefaultCheckpointTicks,
	}
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Step()

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Stop halts the simulation loop.
func (e *Engine) Stop() {
	e.Running = false
}

// Step advances the simulation by exactly one tick. Exposed for hosts that
// own their own scheduling.
func (e *Engine) Step() {
	e.Tick++

	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}
	if e.OnAfterTick != nil {
		e.OnAfterTick(e.Tick)
	}
	if e.CheckpointTicks > 0 && e.Tick%e.CheckpointTicks == 0 && e.OnCheckpoint != nil {
		e.OnCheckpoint(e.Tick)
	}
}
