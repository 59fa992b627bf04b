package shared

import "time"

// Clock is the wall-clock seam the pipeline stamps through instead of
// calling time.Now directly, so tests can pin a cycle's timeline.
type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock in UTC. Upstream ERS and AIS feeds
// report UTC; mixing zones here would corrupt every downstream interval
// comparison, so nothing in the pipeline ever sees local time.
type RealClock struct{}

func (*RealClock) Now() time.Time { return time.Now().UTC() }
