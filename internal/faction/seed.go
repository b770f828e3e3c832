package faction

import "github.com/talgya/masquerade/internal/trace"

// SeedCatalog returns the built-in faction catalog used when no content
// file is supplied: city police, a federal taskforce, and a crime
// syndicate that answers pressure with pressure.
func SeedCatalog() *Catalog {
	c, err := NewCatalog(
		[]*Type{
			{
				ID:   "police",
				Name: "Metro Police Department",
				Detection: DetectionProfile{
					HeatMin: 25,
				},
				Response: ResponseProfile{Thresholds: []Threshold{
					{Heat: 30, Level: "alert", Actions: []ActionKind{ActionSpawnPatrol}},
					{Heat: 55, Level: "elevated", Actions: []ActionKind{ActionSpawnPatrol, ActionStartInvestigation}},
					{Heat: 80, Level: "critical", Actions: []ActionKind{ActionSpawnTactical, ActionEscalateSecurity}},
				}},
			},
			{
				ID:   "taskforce",
				Name: "Federal Anomaly Taskforce",
				Detection: DetectionProfile{
					HeatMin: 45,
					SignatureTypes: []trace.SignatureType{
						trace.SigEnergyResidue, trace.SigVisualAnomaly, trace.SigTechInterference,
					},
				},
				Response: ResponseProfile{Thresholds: []Threshold{
					{Heat: 50, Level: "watch", Actions: []ActionKind{ActionStartInvestigation}},
					{Heat: 75, Level: "critical", Actions: []ActionKind{ActionStartInvestigation, ActionSpawnTactical}},
					{Heat: 90, Level: "max", Actions: []ActionKind{ActionSpawnTactical, ActionEscalateSecurity}},
				}},
			},
			{
				ID:   "syndicate",
				Name: "Harbor Syndicate",
				Detection: DetectionProfile{
					HeatMin: 35,
					SignatureTypes: []trace.SignatureType{
						trace.SigPropertyDamage, trace.SigSonicEcho,
					},
				},
				Response: ResponseProfile{Thresholds: []Threshold{
					{Heat: 40, Level: "interested", Actions: []ActionKind{ActionProxyCrime}},
					{Heat: 70, Level: "territorial", Actions: []ActionKind{ActionProxyCrime, ActionProxyCrime}},
				}},
			},
		},
		[]*Instance{
			{ID: "mpd-central", TypeID: "police", Name: "MPD Central Division"},
			{
				ID: "fat-field", TypeID: "taskforce", Name: "Taskforce Field Office",
				Scope: Scope{Tags: []string{"PUBLIC", "DOWNTOWN"}},
			},
			{
				ID: "syndicate-harbor", TypeID: "syndicate", Name: "Syndicate Harbor Crew",
				Scope: Scope{Tags: []string{"INDUSTRIAL"}},
			},
		},
	)
	if err != nil {
		panic("seed catalog invalid: " + err.Error())
	}
	return c
}
