package config

import "sort"

var Presets = map[string]map[string]*Config{
	"yukawa": {
		"ocp": {
			Potential: "yukawa", Method: "auto", Workers: 1, Box: [3]float64{10, 10, 10},
			Cutoff: 3, Kappa: 1, Init: "uniform", Temperature: 0.1, KB: 1,
			Dt: 0.005, Steps: 2000, DumpEvery: 20, Seed: 1,
			Species: []SpeciesConfig{{Name: "ion", Mass: 1, Count: 1000, Charge: 1}},
		},
		"binary": {
			Potential: "yukawa", Method: "auto", Workers: 0, Box: [3]float64{12, 12, 12},
			Cutoff: 3.5, Kappa: 0.8, Init: "uniform", Temperature: 0.05, KB: 1,
			Dt: 0.002, Steps: 2000, DumpEvery: 20, Seed: 7,
			Species: []SpeciesConfig{
				{Name: "light", Mass: 1, Count: 800, Charge: 1},
				{Name: "heavy", Mass: 4, Count: 200, Charge: 2},
			},
		},
		"crystal": {
			Potential: "yukawa", Method: "cell-list", Workers: 1, Box: [3]float64{12, 12, 12},
			Cutoff: 3, Kappa: 1, Shift: true, Init: "lattice", Temperature: 0.001, KB: 1,
			Dt: 0.01, Steps: 1000, DumpEvery: 10, Seed: 3,
			Species: []SpeciesConfig{{Name: "dust", Mass: 1, Count: 512, Charge: 1}},
		},
	},
	"lj": {
		"liquid": {
			Potential: "lj", Method: "auto", Workers: 1, Box: [3]float64{8.62, 8.62, 8.62},
			Cutoff: 2.5, Shift: true, Init: "lattice", Temperature: 1.0, KB: 1,
			Dt: 0.002, Steps: 2000, DumpEvery: 20, Seed: 1,
			Species: []SpeciesConfig{{Name: "ar", Mass: 1, Count: 512, Epsilon: 1, Sigma: 1}},
		},
		"gas": {
			Potential: "lj", Method: "auto", Workers: 1, Box: [3]float64{20, 20, 20},
			Cutoff: 2.5, Shift: true, Init: "lattice", Temperature: 2.0, KB: 1,
			Dt: 0.002, Steps: 1000, DumpEvery: 10, Seed: 1,
			Species: []SpeciesConfig{{Name: "ar", Mass: 1, Count: 343, Epsilon: 1, Sigma: 1}},
		},
	},
	"coulomb": {
		"halfbox": {
			Potential: "coulomb", Method: "auto", Workers: 1, Box: [3]float64{10, 10, 10},
			Cutoff: 5, Shift: true, Init: "uniform", Temperature: 0.5, KB: 1,
			Dt: 0.001, Steps: 500, DumpEvery: 10, Seed: 2,
			Species: []SpeciesConfig{
				{Name: "cation", Mass: 1, Count: 100, Charge: 1},
				{Name: "anion", Mass: 1, Count: 100, Charge: -1},
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(pot, preset string) *Config {
	potPresets, ok := Presets[pot]
	if !ok {
		return nil
	}
	cfg, ok := potPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(pot string) []string {
	potPresets, ok := Presets[pot]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(potPresets))
	for name := range potPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
