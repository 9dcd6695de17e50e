package plan

import (
	"fmt"
)

// Cluster is the set of runners (one per host) and the workers they launch.
type Cluster struct {
	Runners PeerList
	Workers PeerList
}

func (c Cluster) Eq(d Cluster) bool {
	return c.Runners.Eq(d.Runners) && c.Workers.Eq(d.Workers)
}

func (c Cluster) DebugString() string {
	return fmt.Sprintf("[%d/%d]{%s}{%s}", len(c.Workers), len(c.Runners), c.Workers, c.Runners)
}
