package ecs

import "github.com/pkg/errors"

var (
	// ErrCapacityExceeded is returned when a new component type would be assigned an
	// identifier at or beyond the registry capacity.
	ErrCapacityExceeded = errors.New("component type capacity exceeded")

	// ErrComponentNotFound is returned by checked lookups for a type the entity does not hold.
	ErrComponentNotFound = errors.New("component not found")

	// ErrDuplicateComponent is returned when an entity already holds a component of the type being added.
	ErrDuplicateComponent = errors.New("duplicate component")

	// ErrEntityRemoved is returned when mutating an entity that a refresh already evicted,
	// or one that was not created by a Manager.
	ErrEntityRemoved = errors.New("entity removed")

	// ErrStopLoop can be returned from a before-frame hook to end Loop.Run without an error.
	ErrStopLoop = errors.New("stop loop")
)
