package handler

import (
	"github.com/lsds/kungfu-mpi/srcs/go/log"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/connection"
)

// DefaultQueueSize is the number of unreceived point to point messages
// buffered per (peer, tag) before the sender's connection stalls.
const DefaultQueueSize = 64

// QueueHandler handles point to point connections
type QueueHandler struct {
	qs *BufferPool
}

func NewQueueHandler(qSize int) *QueueHandler {
	return &QueueHandler{
		qs: newBufferPool(qSize),
	}
}

// Get blocks until a message named name arrives from peer.
func (h *QueueHandler) Get(peer plan.PeerID, name string) *connection.Message {
	m := <-h.qs.require(peer.WithName(name))
	return m
}

func (h *QueueHandler) accept(conn connection.Connection) (string, *connection.Message, error) {
	var mh connection.MessageHeader
	if err := mh.ReadFrom(conn.Conn()); err != nil {
		return "", nil, err
	}
	name := string(mh.Name)
	var m connection.Message
	m.Flags = mh.Flags
	if err := m.ReadFrom(conn.Conn()); err != nil {
		return "", nil, err
	}
	return name, &m, nil
}

func (h *QueueHandler) handle(name string, msg *connection.Message, conn connection.Connection) {
	log.Debugf(`got %d bytes on queue[%s] from %s`, msg.Length, name, conn.Src())
	h.qs.require(conn.Src().WithName(name)) <- msg
}

func (h *QueueHandler) Handle(conn connection.Connection) (int, error) {
	return connection.Stream(conn, h.accept, h.handle)
}
