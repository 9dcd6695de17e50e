package session

import (
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/base"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/pkg/errors"
)

// AllReduce combines SendBuf of all peers into RecvBuf of every peer.
func (sess *Session) AllReduce(w base.Workspace) error {
	if err := sess.checkSameShape(w); err != nil {
		return err
	}
	return errors.Wrapf(sess.runStrategies(w, plan.EvenPartition, sess.strategies), "allreduce %s", w.Name)
}
