// SQLite-backed Store. State snapshots are full-replace writes inside a
// transaction; the faction feed and evidence log are append-only. Nested
// maps and slices ride in JSON columns.
package persistence

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/masquerade/internal/casework"
	"github.com/talgya/masquerade/internal/engine"
	"github.com/talgya/masquerade/internal/evidence"
	"github.com/talgya/masquerade/internal/faction"
	"github.com/talgya/masquerade/internal/heat"
)

// DB wraps a SQLite connection implementing Store.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS heat_states (
		district_id TEXT PRIMARY KEY,
		heat INTEGER NOT NULL,
		crime_pressure INTEGER NOT NULL,
		police_presence INTEGER NOT NULL,
		surveillance_level INTEGER NOT NULL,
		lockdown_level INTEGER NOT NULL,
		patrol_units INTEGER NOT NULL,
		tactical_units INTEGER NOT NULL,
		investigators INTEGER NOT NULL,
		gang_units INTEGER NOT NULL,
		influence_json TEXT NOT NULL,
		response TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cases (
		id INTEGER PRIMARY KEY,
		faction_id TEXT NOT NULL,
		district_id TEXT NOT NULL,
		target_type TEXT NOT NULL,
		pattern_json TEXT NOT NULL,
		progress INTEGER NOT NULL,
		heat_lock INTEGER NOT NULL,
		status TEXT NOT NULL,
		milestone INTEGER NOT NULL,
		actions_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS identity_evidence (
		id INTEGER PRIMARY KEY,
		district_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		sig_types_json TEXT NOT NULL,
		witness_count INTEGER NOT NULL,
		visual_quality INTEGER NOT NULL,
		persona_hint TEXT NOT NULL,
		features_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS faction_feed (
		id TEXT PRIMARY KEY,
		tick INTEGER NOT NULL,
		faction_id TEXT NOT NULL,
		type_id TEXT NOT NULL,
		district_id TEXT NOT NULL,
		level TEXT NOT NULL,
		actions_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sim_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cases_district ON cases(district_id);
	CREATE INDEX IF NOT EXISTS idx_evidence_district ON identity_evidence(district_id);
	CREATE INDEX IF NOT EXISTS idx_feed_tick ON faction_feed(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveHeat writes all district heat states (full replace).
func (db *DB) SaveHeat(states []*heat.DistrictHeat) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM heat_states"); err != nil {
		return err
	}
	for _, dh := range states {
		influence, err := json.Marshal(dh.FactionInfluence)
		if err != nil {
			return fmt.Errorf("marshal influence for %s: %w", dh.DistrictID, err)
		}
		_, err = tx.Exec(`INSERT INTO heat_states
			(district_id, heat, crime_pressure, police_presence, surveillance_level,
			 lockdown_level, patrol_units, tactical_units, investigators, gang_units,
			 influence_json, response)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			dh.DistrictID, dh.Heat, dh.CrimePressure, dh.PolicePresence,
			dh.SurveillanceLevel, dh.LockdownLevel, dh.PatrolUnits,
			dh.TacticalUnits, dh.Investigators, dh.GangUnits,
			string(influence), string(dh.Response))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadHeat reads all district heat states.
func (db *DB) LoadHeat() ([]*heat.DistrictHeat, error) {
	rows, err := db.conn.Queryx("SELECT * FROM heat_states")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []*heat.DistrictHeat
	for rows.Next() {
		var r struct {
			DistrictID        string `db:"district_id"`
			Heat              int    `db:"heat"`
			CrimePressure     int    `db:"crime_pressure"`
			PolicePresence    int    `db:"police_presence"`
			SurveillanceLevel int    `db:"surveillance_level"`
			LockdownLevel     int    `db:"lockdown_level"`
			PatrolUnits       int    `db:"patrol_units"`
			TacticalUnits     int    `db:"tactical_units"`
			Investigators     int    `db:"investigators"`
			GangUnits         int    `db:"gang_units"`
			InfluenceJSON     string `db:"influence_json"`
			Response          string `db:"response"`
		}
		if err := rows.StructScan(&r); err != nil {
			return nil, err
		}
		dh := &heat.DistrictHeat{
			DistrictID:        r.DistrictID,
			Heat:              r.Heat,
			CrimePressure:     r.CrimePressure,
			PolicePresence:    r.PolicePresence,
			SurveillanceLevel: r.SurveillanceLevel,
			LockdownLevel:     r.LockdownLevel,
			PatrolUnits:       r.PatrolUnits,
			TacticalUnits:     r.TacticalUnits,
			Investigators:     r.Investigators,
			GangUnits:         r.GangUnits,
			Response:          heat.Response(r.Response),
		}
		if err := json.Unmarshal([]byte(r.InfluenceJSON), &dh.FactionInfluence); err != nil {
			return nil, fmt.Errorf("unmarshal influence for %s: %w", r.DistrictID, err)
		}
		states = append(states, dh)
	}
	return states, rows.Err()
}

// SaveCases writes all cases (full replace).
func (db *DB) SaveCases(cases []*casework.Case) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM cases"); err != nil {
		return err
	}
	for _, c := range cases {
		pattern, err := json.Marshal(c.SignaturePattern)
		if err != nil {
			return err
		}
		actions, err := json.Marshal(c.PressureActions)
		if err != nil {
			return err
		}
		heatLock := 0
		if c.HeatLock {
			heatLock = 1
		}
		_, err = tx.Exec(`INSERT INTO cases
			(id, faction_id, district_id, target_type, pattern_json, progress,
			 heat_lock, status, milestone, actions_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.FactionID, c.DistrictID, string(c.TargetType), string(pattern),
			c.Progress, heatLock, string(c.Status), c.Milestone, string(actions))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadCases reads all cases, ordered by id so the registry counter syncs
// to the maximum existing id.
func (db *DB) LoadCases() ([]*casework.Case, error) {
	rows, err := db.conn.Queryx("SELECT * FROM cases ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []*casework.Case
	for rows.Next() {
		var r struct {
			ID          uint64 `db:"id"`
			FactionID   string `db:"faction_id"`
			DistrictID  string `db:"district_id"`
			TargetType  string `db:"target_type"`
			PatternJSON string `db:"pattern_json"`
			Progress    int    `db:"progress"`
			HeatLock    int    `db:"heat_lock"`
			Status      string `db:"status"`
			Milestone   int    `db:"milestone"`
			ActionsJSON string `db:"actions_json"`
		}
		if err := rows.StructScan(&r); err != nil {
			return nil, err
		}
		c := &casework.Case{
			ID:         r.ID,
			FactionID:  r.FactionID,
			DistrictID: r.DistrictID,
			TargetType: casework.TargetType(r.TargetType),
			Progress:   r.Progress,
			HeatLock:   r.HeatLock != 0,
			Status:     casework.Status(r.Status),
			Milestone:  r.Milestone,
		}
		if err := json.Unmarshal([]byte(r.PatternJSON), &c.SignaturePattern); err != nil {
			return nil, fmt.Errorf("unmarshal pattern for case %d: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(r.ActionsJSON), &c.PressureActions); err != nil {
			return nil, fmt.Errorf("unmarshal actions for case %d: %w", r.ID, err)
		}
		cases = append(cases, c)
	}
	return cases, rows.Err()
}

// SaveEvidence writes all identity evidence items (full replace; the log
// is append-only in memory, so this only ever grows).
func (db *DB) SaveEvidence(items []*evidence.Item) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM identity_evidence"); err != nil {
		return err
	}
	for _, it := range items {
		sigTypes, err := json.Marshal(it.SignatureTypes)
		if err != nil {
			return err
		}
		features, err := json.Marshal(it.SuspectFeatures)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`INSERT INTO identity_evidence
			(id, district_id, tick, sig_types_json, witness_count, visual_quality,
			 persona_hint, features_json)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			it.ID, it.DistrictID, it.Tick, string(sigTypes), it.WitnessCount,
			it.VisualQuality, string(it.PersonaHint), string(features))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadEvidence reads all identity evidence items in id order.
func (db *DB) LoadEvidence() ([]*evidence.Item, error) {
	rows, err := db.conn.Queryx("SELECT * FROM identity_evidence ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*evidence.Item
	for rows.Next() {
		var r struct {
			ID            uint64 `db:"id"`
			DistrictID    string `db:"district_id"`
			Tick          uint64 `db:"tick"`
			SigTypesJSON  string `db:"sig_types_json"`
			WitnessCount  int    `db:"witness_count"`
			VisualQuality int    `db:"visual_quality"`
			PersonaHint   string `db:"persona_hint"`
			FeaturesJSON  string `db:"features_json"`
		}
		if err := rows.StructScan(&r); err != nil {
			return nil, err
		}
		it := &evidence.Item{
			ID:            r.ID,
			DistrictID:    r.DistrictID,
			Tick:          r.Tick,
			WitnessCount:  r.WitnessCount,
			VisualQuality: r.VisualQuality,
			PersonaHint:   evidence.PersonaHint(r.PersonaHint),
		}
		if err := json.Unmarshal([]byte(r.SigTypesJSON), &it.SignatureTypes); err != nil {
			return nil, fmt.Errorf("unmarshal signature types for item %d: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(r.FeaturesJSON), &it.SuspectFeatures); err != nil {
			return nil, fmt.Errorf("unmarshal features for item %d: %w", r.ID, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AppendFeed appends resolved faction events to the durable feed.
func (db *DB) AppendFeed(events []engine.ResolvedEvent) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, ev := range events {
		actions, err := json.Marshal(ev.Actions)
		if err != nil {
			return err
		}
		_, err = tx.Exec(`INSERT OR IGNORE INTO faction_feed
			(id, tick, faction_id, type_id, district_id, level, actions_json)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ev.ID, ev.Tick, ev.FactionID, ev.TypeID, ev.DistrictID, ev.Level, string(actions))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadFeed reads the full resolved-event feed in tick order.
func (db *DB) LoadFeed() ([]engine.ResolvedEvent, error) {
	rows, err := db.conn.Queryx("SELECT * FROM faction_feed ORDER BY tick, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []engine.ResolvedEvent
	for rows.Next() {
		var r struct {
			ID          string `db:"id"`
			Tick        uint64 `db:"tick"`
			FactionID   string `db:"faction_id"`
			TypeID      string `db:"type_id"`
			DistrictID  string `db:"district_id"`
			Level       string `db:"level"`
			ActionsJSON string `db:"actions_json"`
		}
		if err := rows.StructScan(&r); err != nil {
			return nil, err
		}
		ev := engine.ResolvedEvent{
			ID:   r.ID,
			Tick: r.Tick,
			FactionEvent: engine.FactionEvent{
				FactionID:  r.FactionID,
				TypeID:     r.TypeID,
				DistrictID: r.DistrictID,
				Level:      r.Level,
			},
		}
		var actions []faction.ActionKind
		if err := json.Unmarshal([]byte(r.ActionsJSON), &actions); err != nil {
			return nil, fmt.Errorf("unmarshal actions for event %s: %w", r.ID, err)
		}
		ev.Actions = actions
		events = append(events, ev)
	}
	return events, rows.Err()
}

// SaveTick records the last completed tick.
func (db *DB) SaveTick(tick uint64) error {
	_, err := db.conn.Exec(
		`INSERT INTO sim_meta (key, value) VALUES ('last_tick', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		strconv.FormatUint(tick, 10))
	return err
}

// LoadTick returns the last completed tick, or 0 for a fresh database.
func (db *DB) LoadTick() (uint64, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM sim_meta WHERE key = 'last_tick'")
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(value, 10, 64)
}
