package session

import (
	"fmt"
	"sync"

	"github.com/lsds/kungfu-mpi/srcs/go/log"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/base"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/execution"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/lsds/kungfu-mpi/srcs/go/plan/graph"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/client"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/connection"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/handler"
	"github.com/lsds/kungfu-mpi/srcs/go/utils"
	"github.com/pkg/errors"
)

// DefaultRoot is the rank that Reduce, Broadcast, Scatter and Gather are rooted at.
const DefaultRoot = 0

// Session contains the immutable peer list for a given period of logical duration
type Session struct {
	sync.Mutex

	strategies        strategyList
	self              plan.PeerID
	peers             plan.PeerList
	rank              int
	localRank         int
	localSize         int
	hostCount         int
	client            *client.Client
	collectiveHandler *handler.CollectiveEndpoint
	queueHandler      *handler.QueueHandler
	barriers          int
}

func New(strategy base.Strategy, self plan.PeerID, pl plan.PeerList, client *client.Client, collectiveHandler *handler.CollectiveEndpoint, queueHandler *handler.QueueHandler) (*Session, bool) {
	rank, ok := pl.Rank(self)
	if !ok {
		return nil, false
	}
	localRank, ok := pl.LocalRank(self)
	if !ok {
		return nil, false
	}
	if strategy == base.Auto {
		strategy = autoSelect(pl)
	}
	sess := &Session{
		strategies:        partitionStrategies[strategy](pl),
		self:              self,
		peers:             pl,
		rank:              rank,
		localRank:         localRank,
		localSize:         pl.LocalSize(self),
		hostCount:         pl.HostCount(),
		client:            client,
		collectiveHandler: collectiveHandler,
		queueHandler:      queueHandler,
	}
	return sess, true
}

func (sess *Session) Size() int {
	return len(sess.peers)
}

func (sess *Session) Rank() int {
	return sess.rank
}

func (sess *Session) LocalRank() int {
	return sess.localRank
}

func (sess *Session) LocalSize() int {
	return sess.localSize
}

func (sess *Session) HostCount() int {
	return sess.hostCount
}

func (sess *Session) Peer(rank int) plan.PeerID {
	return sess.peers[rank]
}

func (sess *Session) Peers() plan.PeerList {
	return sess.peers
}

func (sess *Session) Barrier() error {
	sess.Lock()
	defer sess.Unlock()
	return sess.barrier()
}

func (sess *Session) barrier() error {
	k := len(sess.peers)
	count := k * 1
	dtype := base.U8
	w := base.Workspace{
		SendBuf: base.NewVector(count, dtype),
		RecvBuf: base.NewVector(count, dtype),
		OP:      base.SUM,
		Name:    fmt.Sprintf("kungfu::barrier:%d", sess.barriers),
	}
	sess.barriers++
	return sess.runStrategies(w, plan.EvenPartition, sess.strategies)
}

// BytesConsensus checks if all peers have the same bs.
func (sess *Session) BytesConsensus(bs []byte, name string) (bool, error) {
	n := len(bs)
	{
		x := base.NewVector(1, base.I32)
		y := base.NewVector(1, base.I32)
		z := base.NewVector(1, base.I32)
		x.AsI32()[0] = int32(n)
		w1 := base.Workspace{SendBuf: x, RecvBuf: y, OP: base.MIN, Name: ":consensus:len:min:" + name}
		w2 := base.Workspace{SendBuf: x, RecvBuf: z, OP: base.MAX, Name: ":consensus:len:max:" + name}
		if err := sess.AllReduce(w1); err != nil {
			return false, err
		}
		if err := sess.AllReduce(w2); err != nil {
			return false, err
		}
		if !utils.BytesEq(y.Data, z.Data) {
			return false, nil
		}
	}
	if n == 0 {
		return true, nil
	}
	{
		x := &base.Vector{Data: bs, Count: n, Type: base.U8}
		y := base.NewVector(n, base.U8)
		z := base.NewVector(n, base.U8)
		w1 := base.Workspace{SendBuf: x, RecvBuf: y, OP: base.MIN, Name: ":consensus:min:" + name}
		w2 := base.Workspace{SendBuf: x, RecvBuf: z, OP: base.MAX, Name: ":consensus:max:" + name}
		if err := sess.AllReduce(w1); err != nil {
			return false, err
		}
		if err := sess.AllReduce(w2); err != nil {
			return false, err
		}
		if !utils.BytesEq(y.Data, z.Data) {
			return false, nil
		}
	}
	return true, nil
}

// Reduce combines SendBuf of all peers into RecvBuf of DefaultRoot.
// RecvBuf of other peers is used as scratch space.
func (sess *Session) Reduce(w base.Workspace) error {
	if err := sess.checkSameShape(w); err != nil {
		return err
	}
	strategy := sess.strategies[0]
	return errors.Wrapf(sess.runGraphs(w, strategy.reduceGraph), "reduce %s", w.Name)
}

// Broadcast copies SendBuf of DefaultRoot into RecvBuf of all peers.
func (sess *Session) Broadcast(w base.Workspace) error {
	if err := sess.checkSameShape(w); err != nil {
		return err
	}
	strategy := sess.strategies[0]
	return errors.Wrapf(sess.runGraphs(w, strategy.bcastGraph), "broadcast %s", w.Name)
}

var errInconsistentShape = errors.New("inconsistent send and recv buffers")

func (sess *Session) checkSameShape(w base.Workspace) error {
	if w.SendBuf.Count != w.RecvBuf.Count || w.SendBuf.Type != w.RecvBuf.Type {
		return errors.Wrapf(errInconsistentShape, "%s: %d%s vs %d%s", w.Name, w.SendBuf.Count, w.SendBuf.Type, w.RecvBuf.Count, w.RecvBuf.Type)
	}
	return nil
}

func asMessage(b *base.Vector) connection.Message {
	return connection.Message{
		Length: uint32(len(b.Data)),
		Data:   b.Data,
	}
}

func isIsolated(rank int, graphs ...*graph.Graph) bool {
	for _, g := range graphs {
		if !g.IsIsolated(rank) {
			return false
		}
	}
	return true
}

func (sess *Session) runGraphs(w base.Workspace, graphs ...*graph.Graph) error {
	if w.IsEmpty() {
		return nil
	}
	if isIsolated(sess.rank, graphs...) {
		w.Forward()
		return nil
	}

	var recvCount int
	effectiveBuffer := func() *base.Vector {
		if recvCount > 0 || w.IsInplace() {
			return w.RecvBuf
		}
		return w.SendBuf
	}
	var sendOnto execution.PeerFunc = func(peer plan.PeerID) error {
		return sess.client.Send(peer.WithName(w.Name), effectiveBuffer().Data, connection.ConnCollective, connection.NoFlag)
	}
	var sendInto execution.PeerFunc = func(peer plan.PeerID) error {
		return sess.client.Send(peer.WithName(w.Name), effectiveBuffer().Data, connection.ConnCollective, connection.WaitRecvBuf)
	}

	var lock sync.Mutex
	var recvOnto execution.PeerFunc = func(peer plan.PeerID) error {
		m := sess.collectiveHandler.Recv(peer.WithName(w.Name))
		if int(m.Length) != len(w.RecvBuf.Data) {
			return errors.Errorf("%s: received %d bytes from %s, want %d", w.Name, m.Length, peer, len(w.RecvBuf.Data))
		}
		b := &base.Vector{Data: m.Data, Count: w.SendBuf.Count, Type: w.SendBuf.Type}
		lock.Lock()
		defer lock.Unlock()
		base.Transform2(w.RecvBuf, effectiveBuffer(), b, w.OP)
		recvCount++
		connection.PutBuf(m.Data) // Recycle buffer on the RecvOnto path
		return nil
	}

	var recvInto execution.PeerFunc = func(peer plan.PeerID) error {
		if err := sess.collectiveHandler.RecvInto(peer.WithName(w.Name), asMessage(w.RecvBuf)); err != nil {
			return err
		}
		recvCount++
		return nil
	}

	for _, g := range graphs {
		prevs := sess.peers.Select(g.Prevs(sess.rank))
		nexts := sess.peers.Select(g.Nexts(sess.rank))
		if g.IsSelfLoop(sess.rank) {
			if err := recvOnto.Par(prevs); err != nil {
				return err
			}
			if err := sendOnto.Par(nexts); err != nil {
				return err
			}
		} else {
			if len(prevs) > 1 {
				log.Errorf("more than once recvInto detected at node %d", sess.rank)
			}
			if len(prevs) == 0 && recvCount == 0 {
				w.Forward()
			} else {
				if err := recvInto.Seq(prevs); err != nil { // len(prevs) == 1 is expected
					return err
				}
			}
			if err := sendInto.Par(nexts); err != nil {
				return err
			}
		}
	}
	return nil
}

const (
	Mi        = 1 << 20
	chunkSize = 1 * Mi
)

func ceilDiv(a, b int) int {
	if a%b == 0 {
		return a / b
	}
	return a/b + 1
}

// runStrategies splits w into chunks of at most chunkSize bytes and
// all-reduces them in parallel, spreading chunks over the strategies.
func (sess *Session) runStrategies(w base.Workspace, p base.PartitionFunc, strategies strategyList) error {
	if w.IsEmpty() {
		return nil
	}
	k := ceilDiv(w.RecvBuf.Count*w.RecvBuf.Type.Size(), chunkSize)
	errs := make([]error, k)
	var wg sync.WaitGroup
	for i, w := range w.Split(p, k) {
		wg.Add(1)
		go func(i int, w base.Workspace, s strategy) {
			errs[i] = sess.runGraphs(w, s.reduceGraph, s.bcastGraph)
			wg.Done()
		}(i, w, strategies.choose(i))
	}
	wg.Wait()
	return utils.MergeErrors(errs, "runStrategies")
}
