// District generation using layered simplex noise. Density and disorder
// fields drive tags and baseline security levels per district.
package city

import (
	"fmt"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds city generation parameters.
type GenConfig struct {
	Districts int   // Number of districts to generate
	Seed      int64 // Random seed (0 = random)
}

// DefaultGenConfig returns a small city suitable for a demo run.
func DefaultGenConfig() GenConfig {
	return GenConfig{Districts: 12, Seed: 0}
}

var districtNames = []string{
	"Old Harbor", "Ironside", "The Meridian", "Crown Heights", "Lowtown",
	"Veld Market", "Cinder Row", "North Terrace", "Gallows Reach",
	"Paper District", "The Stacks", "Eastlight", "Wren Hollow",
	"Saint Aldric", "Greyfen", "Marrow Yards",
}

// Generate creates a deterministic set of districts from the seed. Two
// noise layers shape each district: density (how busy and watched it is)
// and disorder (ambient criminal activity).
func Generate(cfg GenConfig) *Map {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	densityNoise := opensimplex.NewNormalized(seed)
	disorderNoise := opensimplex.NewNormalized(seed + 1)

	districts := make([]*District, 0, cfg.Districts)
	for i := 0; i < cfg.Districts; i++ {
		// Sample each district at a distinct point on the noise fields.
		x := float64(i) * 0.37
		y := float64(i) * 0.61
		density := octaveNoise(densityNoise, x, y, 3, 0.8, 0.5)
		disorder := octaveNoise(disorderNoise, x, y, 3, 0.7, 0.5)

		d := &District{
			ID:   fmt.Sprintf("d-%02d", i+1),
			Name: districtNames[i%len(districtNames)],
		}

		// Dense districts are public-facing and heavily watched.
		switch {
		case density > 0.66:
			d.Tags = append(d.Tags, TagPublic, TagDowntown)
			d.BaseSurveillance = 30 + int(density*40)
		case density > 0.4:
			d.Tags = append(d.Tags, TagPublic)
			d.BaseSurveillance = 10 + int(density*30)
		default:
			d.Tags = append(d.Tags, TagResidential)
			d.BaseSurveillance = int(density * 20)
		}
		if disorder > 0.6 {
			d.Tags = append(d.Tags, TagIndustrial)
			d.BaseCrimePressure = int(disorder * 25)
		} else {
			d.BaseCrimePressure = int(disorder * 10)
		}

		districts = append(districts, d)
	}

	return NewMap(districts)
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
