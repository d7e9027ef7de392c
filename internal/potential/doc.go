// Package potential provides pair potentials for the force engine.
//
// Each potential implements [dynamo.Potential] and reads its coefficients
// from the species-pair slice of a [dynamo.ParamTable]:
//
//   - [Yukawa]: screened Coulomb, params [q_i q_j, kappa]
//   - [Coulomb]: bare Coulomb, params [q_i q_j]
//   - [LennardJones]: 12-6 Lennard-Jones, params [epsilon, sigma]
//
// Table builders ([YukawaTable], [CoulombTable], [LennardJonesTable])
// produce symmetric tables from per-species values. [Shifted] wraps any
// potential so the pair energy vanishes at the cutoff.
//
//	pot := potential.Yukawa{}
//	table := potential.YukawaTable([]float64{1, 2}, 0.5)
//	u, f := pot.Eval(1.2, table.Pair(0, 1))
package potential
