package session

import (
	"sync"

	"github.com/lsds/kungfu-mpi/srcs/go/mpi/base"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/execution"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/connection"
	"github.com/lsds/kungfu-mpi/srcs/go/utils"
	"github.com/pkg/errors"
)

// AllGather concatenates SendBuf of all peers in rank order into RecvBuf of every peer.
func (sess *Session) AllGather(w base.Workspace) error {
	if err := sess.checkGatherShape(w); err != nil {
		return err
	}
	return errors.Wrapf(sess.runAllGather(w), "allgather %s", w.Name)
}

func (sess *Session) runAllGather(w base.Workspace) error {
	count := w.SendBuf.Count
	var sendInto execution.PeerFunc = func(peer plan.PeerID) error {
		return sess.client.Send(peer.WithName(w.Name), w.SendBuf.Data, connection.ConnCollective, connection.WaitRecvBuf)
	}
	var recvInto execution.PeerFunc = func(peer plan.PeerID) error {
		rank, ok := sess.peers.Rank(peer)
		if !ok {
			utils.Immpossible()
		}
		offset := rank * count
		return sess.collectiveHandler.RecvInto(peer.WithName(w.Name), asMessage(w.RecvBuf.Slice(offset, offset+count)))
	}
	others := sess.peers.Others(sess.self)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		errs[0] = sendInto.Par(others)
		wg.Done()
	}()
	go func() {
		errs[1] = recvInto.Par(others)
		wg.Done()
	}()
	w.RecvBuf.Slice(sess.rank*count, (sess.rank+1)*count).CopyFrom(w.SendBuf)
	wg.Wait()
	return utils.MergeErrors(errs, "allgather")
}

func (sess *Session) checkGatherShape(w base.Workspace) error {
	if w.RecvBuf.Type != w.SendBuf.Type || w.RecvBuf.Count != w.SendBuf.Count*len(sess.peers) {
		return errors.Wrapf(errInconsistentShape, "%s: gather %d%s from %d peers into %d%s",
			w.Name, w.SendBuf.Count, w.SendBuf.Type, len(sess.peers), w.RecvBuf.Count, w.RecvBuf.Type)
	}
	return nil
}
