// Command heatreport prints a digest of a saved masquerade database:
// district heat, open cases, and recent faction activity.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/talgya/masquerade/internal/casework"
	"github.com/talgya/masquerade/internal/heat"
	"github.com/talgya/masquerade/internal/persistence"
)

func main() {
	dbPath := flag.String("db", "data/masquerade.db", "SQLite database path")
	feedTail := flag.Int("feed", 10, "number of recent faction events to show")
	flag.Parse()

	db, err := persistence.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	tick, err := db.LoadTick()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load tick: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("masquerade report — tick %s\n\n", humanize.Comma(int64(tick)))

	states, err := db.LoadHeat()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load heat: %v\n", err)
		os.Exit(1)
	}
	sort.Slice(states, func(i, j int) bool { return states[i].Heat > states[j].Heat })

	fmt.Println("DISTRICTS (hottest first)")
	for _, dh := range states {
		fmt.Printf("  %-8s heat=%3d  %-18s presence=%d surveillance=%d lockdown=%d units=%d/%d/%d\n",
			dh.DistrictID, dh.Heat, dh.Response,
			dh.PolicePresence, dh.SurveillanceLevel, dh.LockdownLevel,
			dh.PatrolUnits, dh.TacticalUnits, dh.Investigators)
	}

	cases, err := db.LoadCases()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load cases: %v\n", err)
		os.Exit(1)
	}
	active, resolved := 0, 0
	fmt.Println("\nCASES")
	for _, c := range cases {
		if c.Status == casework.StatusActive {
			active++
		} else {
			resolved++
		}
		fmt.Printf("  #%d %s @ %s  %s progress=%d milestone=%d target=%s\n",
			c.ID, c.FactionID, c.DistrictID, c.Status, c.Progress, c.Milestone, c.TargetType)
		for _, tag := range c.PressureActions {
			fmt.Printf("      · %s\n", tag)
		}
	}
	fmt.Printf("  %s active, %s resolved\n",
		humanize.Comma(int64(active)), humanize.Comma(int64(resolved)))

	feed, err := db.LoadFeed()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load feed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nFACTION FEED (last %d of %s)\n", *feedTail, humanize.Comma(int64(len(feed))))
	start := len(feed) - *feedTail
	if start < 0 {
		start = 0
	}
	for _, ev := range feed[start:] {
		fmt.Printf("  t=%-6d %-16s %-8s level=%s actions=%v\n",
			ev.Tick, ev.FactionID, ev.DistrictID, ev.Level, ev.Actions)
	}

	// Flag any district pinned at the response ceiling.
	for _, dh := range states {
		if dh.Response == heat.ResponseFactionAttention {
			fmt.Printf("\nWARNING: %s is under faction attention (heat %d)\n", dh.DistrictID, dh.Heat)
		}
	}
}
