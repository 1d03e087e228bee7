// Package engine turns configuration into running animations.
//
// The [Registry] maps simulation names to builders:
//
//   - "flow": particles following a flow field
//   - "ant": Langton's Ant on a toroidal grid
//
// A builder validates the simulation-specific part of a [config.Config] once
// and returns a [scheduler.Factory] that can be called again on every resize.
//
// # Example
//
//	reg := engine.NewRegistry()
//	s, err := reg.NewScheduler(cfg, scheduler.Options{})
//	if err != nil {
//		return err
//	}
//	s.Start(cfg.Surface.Width, cfg.Surface.Height)
//
// [Ensemble] runs many seeds of the same configuration in parallel.
package engine
