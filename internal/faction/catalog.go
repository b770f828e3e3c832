package faction

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadCatalog reads and validates a faction catalog from a YAML file. A
// load failure is fatal to the detection feature, not the process: callers
// log it and fall back to EmptyCatalog.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return &c, nil
}

// NewCatalog builds and validates a catalog from in-memory content.
func NewCatalog(types []*Type, instances []*Instance) (*Catalog, error) {
	c := &Catalog{Types: types, Instances: instances}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate performs the upstream schema checks the core relies on:
// duplicate ids, required fields, and instance → type cross-references.
// It also builds the type index used by profile resolution.
func (c *Catalog) validate() error {
	c.typeIndex = make(map[string]*Type, len(c.Types))

	for i, t := range c.Types {
		if t.ID == "" {
			return fmt.Errorf("type %d: empty id", i)
		}
		if t.Name == "" {
			return fmt.Errorf("type %q: empty name", t.ID)
		}
		if _, dup := c.typeIndex[t.ID]; dup {
			return fmt.Errorf("duplicate type id %q", t.ID)
		}
		if err := validateResponse(&t.Response); err != nil {
			return fmt.Errorf("type %q: %w", t.ID, err)
		}
		c.typeIndex[t.ID] = t
	}

	seen := make(map[string]bool, len(c.Instances))
	for i, inst := range c.Instances {
		if inst.ID == "" {
			return fmt.Errorf("instance %d: empty id", i)
		}
		if seen[inst.ID] {
			return fmt.Errorf("duplicate instance id %q", inst.ID)
		}
		seen[inst.ID] = true
		if _, ok := c.typeIndex[inst.TypeID]; !ok {
			return fmt.Errorf("instance %q: unknown type id %q", inst.ID, inst.TypeID)
		}
		if inst.Response != nil {
			if err := validateResponse(inst.Response); err != nil {
				return fmt.Errorf("instance %q: %w", inst.ID, err)
			}
		}
	}
	return nil
}

func validateResponse(r *ResponseProfile) error {
	for i, th := range r.Thresholds {
		if th.Level == "" {
			return fmt.Errorf("threshold %d: empty level", i)
		}
		if th.Heat < 0 || th.Heat > 100 {
			return fmt.Errorf("threshold %d (%s): heat %d out of range", i, th.Level, th.Heat)
		}
	}
	return nil
}
