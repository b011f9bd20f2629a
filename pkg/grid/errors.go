package grid

import "errors"

var (
	// ErrNoNavigableNodes the navigable set is empty so nothing can be snapped to it.
	ErrNoNavigableNodes = errors.New("grid: no navigable nodes available")
)
