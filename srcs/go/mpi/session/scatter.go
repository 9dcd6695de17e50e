package session

import (
	"sync"

	"github.com/lsds/kungfu-mpi/srcs/go/mpi/base"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/connection"
	"github.com/lsds/kungfu-mpi/srcs/go/utils"
	"github.com/pkg/errors"
)

// Scatter sends the rank-th slice of SendBuf at DefaultRoot to RecvBuf of rank.
// SendBuf is only read at DefaultRoot, where its Count must be RecvBuf.Count * Size().
func (sess *Session) Scatter(w base.Workspace) error {
	if sess.rank != DefaultRoot {
		return errors.Wrapf(sess.collectiveHandler.RecvInto(sess.peers[DefaultRoot].WithName(w.Name), asMessage(w.RecvBuf)), "scatter %s", w.Name)
	}
	if w.SendBuf == nil || w.SendBuf.Type != w.RecvBuf.Type || w.SendBuf.Count != w.RecvBuf.Count*len(sess.peers) {
		return errors.Wrapf(errInconsistentShape, "%s: scatter %s to %d peers", w.Name, describe(w.SendBuf), len(sess.peers))
	}
	count := w.RecvBuf.Count
	errs := make([]error, len(sess.peers))
	var wg sync.WaitGroup
	for rank, peer := range sess.peers {
		part := w.SendBuf.Slice(count*rank, count*(rank+1))
		if rank == sess.rank {
			w.RecvBuf.CopyFrom(part)
			continue
		}
		wg.Add(1)
		go func(rank int, peer plan.PeerID) {
			errs[rank] = sess.client.Send(peer.WithName(w.Name), part.Data, connection.ConnCollective, connection.WaitRecvBuf)
			wg.Done()
		}(rank, peer)
	}
	wg.Wait()
	return errors.Wrapf(utils.MergeErrors(errs, "scatter"), "scatter %s", w.Name)
}

// Gather concatenates SendBuf of all peers in rank order into RecvBuf of DefaultRoot.
// RecvBuf is only written at DefaultRoot, where its Count must be SendBuf.Count * Size().
func (sess *Session) Gather(w base.Workspace) error {
	if sess.rank != DefaultRoot {
		peer := sess.peers[DefaultRoot]
		return errors.Wrapf(sess.client.Send(peer.WithName(w.Name), w.SendBuf.Data, connection.ConnCollective, connection.WaitRecvBuf), "gather %s", w.Name)
	}
	if w.RecvBuf == nil {
		return errors.Wrapf(errInconsistentShape, "%s: gather into nil buffer", w.Name)
	}
	if err := sess.checkGatherShape(w); err != nil {
		return err
	}
	return errors.Wrapf(sess.runGather(w), "gather %s", w.Name)
}

func (sess *Session) runGather(w base.Workspace) error {
	count := w.SendBuf.Count
	errs := make([]error, len(sess.peers))
	var wg sync.WaitGroup
	for rank, peer := range sess.peers {
		recvBuf := w.RecvBuf.Slice(count*rank, count*(rank+1))
		if rank == sess.rank {
			recvBuf.CopyFrom(w.SendBuf)
			continue
		}
		wg.Add(1)
		go func(rank int, peer plan.PeerID) {
			errs[rank] = sess.collectiveHandler.RecvInto(peer.WithName(w.Name), asMessage(recvBuf))
			wg.Done()
		}(rank, peer)
	}
	wg.Wait()
	return utils.MergeErrors(errs, "gather")
}

func describe(v *base.Vector) string {
	if v == nil {
		return "nil"
	}
	return utils.Pluralize(v.Count, v.Type.String(), v.Type.String())
}
