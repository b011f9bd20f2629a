package routingalgorithm

import "errors"

var (
	// ErrExpansionLimitExceeded the search finalized as many nodes as allowed without
	// reaching the goal. Usually a disconnected or pathological region.
	ErrExpansionLimitExceeded = errors.New("routingalgorithm: A* expansion limit exceeded")
	// ErrNoPathFound the frontier ran out before reaching the goal.
	ErrNoPathFound = errors.New("routingalgorithm: no route found, search space exhausted")
)
