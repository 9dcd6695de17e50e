package session

import (
	"fmt"

	"github.com/lsds/kungfu-mpi/srcs/go/mpi/base"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/connection"
	"github.com/pkg/errors"
)

func p2pName(tag int) string {
	return fmt.Sprintf("kungfu::p2p:%d", tag)
}

var errInvalidRank = errors.New("invalid rank")

// Send delivers buf to rank, messages with the same tag arrive in order.
// It returns once buf has been written to the connection.
func (sess *Session) Send(rank int, buf *base.Vector, tag int) error {
	if rank < 0 || rank >= len(sess.peers) {
		return errors.Wrapf(errInvalidRank, "send to %d", rank)
	}
	peer := sess.peers[rank]
	return errors.Wrapf(sess.client.Send(peer.WithName(p2pName(tag)), buf.Data, connection.ConnPeerToPeer, connection.NoFlag), "send to %d", rank)
}

// Recv blocks until a message with tag arrives from rank and copies it into buf.
func (sess *Session) Recv(rank int, buf *base.Vector, tag int) error {
	if rank < 0 || rank >= len(sess.peers) {
		return errors.Wrapf(errInvalidRank, "recv from %d", rank)
	}
	m := sess.queueHandler.Get(sess.peers[rank], p2pName(tag))
	defer connection.PutBuf(m.Data)
	if int(m.Length) != len(buf.Data) {
		return errors.Errorf("recv from %d: got %d bytes, want %d", rank, m.Length, len(buf.Data))
	}
	copy(buf.Data, m.Data)
	return nil
}
