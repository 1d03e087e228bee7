// Package scheduler drives animations from a display-refresh signal.
//
// A [Scheduler] owns one animation and the surface it paints. Each call to
// [Scheduler.Frame] checks an injected [Clock] against the tick interval and,
// when enough time has passed, advances the animation by exactly one tick
// together with its render. Display refreshes that arrive in between are
// dropped, so the simulation rate is independent of the refresh rate.
//
// The scheduler reacts to two outside signals only:
//
//   - [Scheduler.Resize] tears the animation down and builds a fresh one
//   - [Scheduler.SetVisible] pauses and resumes ticking without touching state
//
// # Thread Safety
//
// A Scheduler is NOT thread-safe. Frame, Resize and SetVisible must be called
// from the same goroutine, which is what [Scheduler.Run] and the frontends do.
package scheduler
