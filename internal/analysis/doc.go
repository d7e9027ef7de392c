// Package analysis post-processes runs: energy fluctuation statistics,
// the power spectrum of an energy series and the radial distribution
// function of a particle store.
//
// A conserving run shows small total-energy fluctuations and a flat
// spectrum; a visible peak usually means the timestep resolves a fast
// oscillation badly:
//
//	spectrum, err := analysis.EnergySpectrum(series.Total, dt*float64(dumpEvery))
//	if err == nil && spectrum.Peak().Power > threshold {
//	    // reduce dt
//	}
package analysis
