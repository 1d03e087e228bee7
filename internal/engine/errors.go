package engine

import "errors"

var (
	// ErrUnknownSimulation is returned for names missing from the registry.
	ErrUnknownSimulation = errors.New("engine: unknown simulation")

	// ErrInvalidConfig wraps colour or heading values that do not parse.
	ErrInvalidConfig = errors.New("engine: invalid config")
)
