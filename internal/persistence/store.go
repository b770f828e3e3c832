// Package persistence stores the detection core's durable state: district
// heat, cases, identity evidence, and the external faction-event feed.
// The engine depends only on the Store interface; SQLite is the one
// concrete implementation, with an in-memory fake for tests.
package persistence

import (
	"github.com/talgya/masquerade/internal/casework"
	"github.com/talgya/masquerade/internal/engine"
	"github.com/talgya/masquerade/internal/evidence"
	"github.com/talgya/masquerade/internal/heat"
)

// Store is the persistence contract the host wires into the tick loop.
// Saves run between ticks; loads run before the first tick.
type Store interface {
	SaveHeat(states []*heat.DistrictHeat) error
	LoadHeat() ([]*heat.DistrictHeat, error)

	SaveCases(cases []*casework.Case) error
	LoadCases() ([]*casework.Case, error)

	SaveEvidence(items []*evidence.Item) error
	LoadEvidence() ([]*evidence.Item, error)

	AppendFeed(events []engine.ResolvedEvent) error
	LoadFeed() ([]engine.ResolvedEvent, error)

	SaveTick(tick uint64) error
	LoadTick() (uint64, error)
}

// Memory is an in-memory Store for tests and throwaway runs.
type Memory struct {
	heat     []*heat.DistrictHeat
	cases    []*casework.Case
	evidence []*evidence.Item
	feed     []engine.ResolvedEvent
	tick     uint64
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SaveHeat(states []*heat.DistrictHeat) error {
	m.heat = append([]*heat.DistrictHeat(nil), states...)
	return nil
}

func (m *Memory) LoadHeat() ([]*heat.DistrictHeat, error) {
	return append([]*heat.DistrictHeat(nil), m.heat...), nil
}

func (m *Memory) SaveCases(cases []*casework.Case) error {
	m.cases = append([]*casework.Case(nil), cases...)
	return nil
}

func (m *Memory) LoadCases() ([]*casework.Case, error) {
	return append([]*casework.Case(nil), m.cases...), nil
}

func (m *Memory) SaveEvidence(items []*evidence.Item) error {
	m.evidence = append([]*evidence.Item(nil), items...)
	return nil
}

func (m *Memory) LoadEvidence() ([]*evidence.Item, error) {
	return append([]*evidence.Item(nil), m.evidence...), nil
}

func (m *Memory) AppendFeed(events []engine.ResolvedEvent) error {
	m.feed = append(m.feed, events...)
	return nil
}

func (m *Memory) LoadFeed() ([]engine.ResolvedEvent, error) {
	return append([]engine.ResolvedEvent(nil), m.feed...), nil
}

func (m *Memory) SaveTick(tick uint64) error {
	m.tick = tick
	return nil
}

func (m *Memory) LoadTick() (uint64, error) {
	return m.tick, nil
}
