package handler

import (
	"errors"

	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/connection"
)

// CollectiveEndpoint delivers collective messages by (source peer, name).
type CollectiveEndpoint struct {
	self  plan.PeerID
	waitQ *BufferPool
	recvQ *BufferPool
}

func NewCollectiveEndpoint(self plan.PeerID) *CollectiveEndpoint {
	return &CollectiveEndpoint{
		self:  self,
		waitQ: newBufferPool(1),
		recvQ: newBufferPool(1),
	}
}

// Handle implements connection.Handler
func (e *CollectiveEndpoint) Handle(conn connection.Connection) (int, error) {
	return connection.Stream(conn, e.accept, e.handle)
}

func (e *CollectiveEndpoint) Recv(a plan.Addr) connection.Message {
	m := <-e.recvQ.require(a)
	return *m
}

var errRegisteredBufferNotUsed = errors.New("registered buffer not used")

// RecvInto registers m as the destination of the next message from a,
// the sender must set connection.WaitRecvBuf.
func (e *CollectiveEndpoint) RecvInto(a plan.Addr, m connection.Message) error {
	e.waitQ.require(a) <- &m
	pm := <-e.recvQ.require(a)
	if pm != &m {
		return errRegisteredBufferNotUsed
	}
	return nil
}

func (e *CollectiveEndpoint) accept(conn connection.Connection) (string, *connection.Message, error) {
	var mh connection.MessageHeader
	if err := mh.ReadFrom(conn.Conn()); err != nil {
		return "", nil, err
	}
	name := string(mh.Name)
	if mh.HasFlag(connection.WaitRecvBuf) {
		a := conn.Src().WithName(name)
		m := <-e.waitQ.require(a)
		if err := m.ReadInto(conn.Conn()); err != nil {
			// wake up RecvInto, it will see a message other than the one it registered
			e.recvQ.require(a) <- &connection.Message{}
			return "", nil, err
		}
		return name, m, nil
	}
	var m connection.Message
	if err := m.ReadFrom(conn.Conn()); err != nil {
		return "", nil, err
	}
	return name, &m, nil
}

func (e *CollectiveEndpoint) handle(name string, msg *connection.Message, conn connection.Connection) {
	e.recvQ.require(conn.Src().WithName(name)) <- msg
}
