// Package flow implements the flow-field particle animation.
//
// A fixed population of [Particle] values drifts across a precomputed
// [field.Field]. Each particle keeps a bounded trail of recent positions and
// a life counter of twice its trail capacity; when life runs out the trail
// shrinks point by point before the particle respawns somewhere random.
//
// Particles never interact, so the population can be partitioned freely.
// A [Simulation] draws every particle before advancing it, so each frame
// shows the state left by the previous tick.
package flow
