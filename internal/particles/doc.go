// Package particles builds and maintains particle stores: initial
// placement, thermal velocities, periodic folding and domain filtering.
package particles
