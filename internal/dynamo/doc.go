// Package dynamo provides the shared primitives of the short-range force
// engine.
//
// The package defines the data handed between components:
//
//   - [Particles]: flat parallel slices of positions, velocities,
//     accelerations, masses and species ids
//   - [Box]: periodic simulation volume
//   - [ParamTable]: symmetric per species-pair potential coefficients
//   - [Potential]: pluggable pair interaction (distance, params) -> (u, f)
//   - [Config]: immutable box, cutoff and table for one run
//
// # Example
//
//	cfg := dynamo.Config{Box: dynamo.Cube(10), Cutoff: 3, Params: table}
//	eng, _ := force.New(cfg, potential.Yukawa{})
//	res, err := eng.Compute(p)
//
// # Thread Safety
//
// Config and ParamTable are read-only after construction and may be shared.
// Particles must not be mutated while a force evaluation is running.
package dynamo
