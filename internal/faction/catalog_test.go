package faction

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/talgya/masquerade/internal/trace"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "factions.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

const validCatalog = `
types:
  - id: police
    name: Metro Police
    detection:
      heat_min: 25
    response:
      thresholds:
        - heat: 30
          level: alert
          actions: [SPAWN_PATROL]
instances:
  - id: mpd-1
    type_id: police
    name: Central Division
    scope:
      tags: [PUBLIC]
`

func TestLoadCatalogValid(t *testing.T) {
	path := writeCatalog(t, validCatalog)
	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Types) != 1 || len(c.Instances) != 1 {
		t.Fatalf("unexpected catalog shape: %d types, %d instances", len(c.Types), len(c.Instances))
	}
	if got := c.DetectionFor(c.Instances[0]).HeatMin; got != 25 {
		t.Errorf("expected instance to inherit type detection, heat_min=%d", got)
	}
}

func TestLoadCatalogRejectsDuplicateTypeID(t *testing.T) {
	path := writeCatalog(t, `
types:
  - id: police
    name: A
  - id: police
    name: B
`)
	if _, err := LoadCatalog(path); err == nil || !strings.Contains(err.Error(), "duplicate type id") {
		t.Errorf("expected duplicate type id error, got %v", err)
	}
}

func TestLoadCatalogRejectsUnknownTypeRef(t *testing.T) {
	path := writeCatalog(t, `
types:
  - id: police
    name: A
instances:
  - id: ghost-1
    type_id: ghost
`)
	if _, err := LoadCatalog(path); err == nil || !strings.Contains(err.Error(), "unknown type id") {
		t.Errorf("expected unknown type id error, got %v", err)
	}
}

func TestLoadCatalogRejectsEmptyRequiredFields(t *testing.T) {
	path := writeCatalog(t, `
types:
  - id: ""
    name: A
`)
	if _, err := LoadCatalog(path); err == nil || !strings.Contains(err.Error(), "empty id") {
		t.Errorf("expected empty id error, got %v", err)
	}
}

func TestInstanceOverridesReplaceProfile(t *testing.T) {
	c, err := NewCatalog(
		[]*Type{{
			ID: "tf", Name: "Taskforce",
			Detection: DetectionProfile{HeatMin: 45, SignatureTypes: []trace.SignatureType{trace.SigEnergyResidue}},
		}},
		[]*Instance{{
			ID: "tf-1", TypeID: "tf",
			Detection: &DetectionProfile{HeatMin: 10},
		}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	det := c.DetectionFor(c.Instances[0])
	if det.HeatMin != 10 {
		t.Errorf("override heat_min not applied: %d", det.HeatMin)
	}
	if len(det.SignatureTypes) != 0 {
		t.Errorf("override replaces the profile wholesale, got types %v", det.SignatureTypes)
	}
}

func TestScopeMatching(t *testing.T) {
	empty := Scope{}
	if !empty.Matches("d-01", nil) {
		t.Errorf("empty scope must match every district")
	}

	byID := Scope{DistrictIDs: []string{"d-02"}}
	if byID.Matches("d-01", []string{"PUBLIC"}) {
		t.Errorf("id scope must not match other districts")
	}
	if !byID.Matches("d-02", nil) {
		t.Errorf("id scope must match its district")
	}

	byTag := Scope{Tags: []string{"INDUSTRIAL"}}
	if !byTag.Matches("d-01", []string{"PUBLIC", "INDUSTRIAL"}) {
		t.Errorf("tag scope must match on overlap")
	}
	if byTag.Matches("d-01", []string{"PUBLIC"}) {
		t.Errorf("tag scope must not match without overlap")
	}
}

func TestSeedCatalogIsValid(t *testing.T) {
	c := SeedCatalog()
	if len(c.Types) == 0 || len(c.Instances) == 0 {
		t.Fatalf("seed catalog is empty")
	}
	for _, inst := range c.Instances {
		if c.TypeOf(inst) == nil {
			t.Errorf("instance %s has no backing type", inst.ID)
		}
	}
}
