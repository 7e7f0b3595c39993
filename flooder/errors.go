package flooder

import "errors"

var (
	// ErrUnknownSource indicates CreateRegion was asked to root a region at
	// a node key the underlying graph has never seen.
	ErrUnknownSource = errors.New("flooder: unknown source node")

	// ErrEmptyBlossomCycle indicates CreateBlossom was given a RegionPath
	// with fewer than three regions, which cannot form a valid odd cycle.
	ErrEmptyBlossomCycle = errors.New("flooder: blossom cycle has fewer than three regions")

	// ErrNoEventsQueued indicates NextEvent was called with no valid
	// tentative events remaining; callers should check HasValidEventsQueued
	// first.
	ErrNoEventsQueued = errors.New("flooder: no valid events queued")
)
