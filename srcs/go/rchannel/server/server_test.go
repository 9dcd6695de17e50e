package server

import (
	"context"
	"testing"
	"time"

	"github.com/lsds/kungfu-mpi/srcs/go/plan/plantest"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/client"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/connection"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRouter struct {
	collective *handler.CollectiveEndpoint
	queue      *handler.QueueHandler
	ping       *handler.PingHandler
}

func (r *testRouter) Handle(conn connection.Connection) (int, error) {
	switch conn.Type() {
	case connection.ConnCollective:
		return r.collective.Handle(conn)
	case connection.ConnPeerToPeer:
		return r.queue.Handle(conn)
	case connection.ConnPing:
		return r.ping.Handle(conn)
	}
	return 0, connection.ErrInvalidConnectionType
}

func Test_SendRecv(t *testing.T) {
	for _, unix := range []bool{false, true} {
		peers := plantest.LocalPeers(t, 2)
		a, b := peers[0], peers[1]
		r := &testRouter{
			collective: handler.NewCollectiveEndpoint(b),
			queue:      handler.NewQueueHandler(handler.DefaultQueueSize),
			ping:       &handler.PingHandler{},
		}
		srv := New(b, r, unix)
		require.NoError(t, srv.Start())

		c := client.New(a, unix)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, ok := c.Wait(ctx, b)
		cancel()
		require.True(t, ok)

		require.NoError(t, c.Send(b.WithName("x"), []byte("hello"), connection.ConnCollective, connection.NoFlag))
		m := r.collective.Recv(a.WithName("x"))
		assert.Equal(t, "hello", string(m.Data))

		buf := make([]byte, 3)
		done := make(chan error, 1)
		go func() {
			done <- r.collective.RecvInto(a.WithName("y"), connection.Message{Length: 3, Data: buf})
		}()
		require.NoError(t, c.Send(b.WithName("y"), []byte("abc"), connection.ConnCollective, connection.WaitRecvBuf))
		require.NoError(t, <-done)
		assert.Equal(t, "abc", string(buf))

		for _, s := range []string{"1", "2", "3"} {
			require.NoError(t, c.Send(b.WithName("q"), []byte(s), connection.ConnPeerToPeer, connection.NoFlag))
		}
		for _, s := range []string{"1", "2", "3"} {
			assert.Equal(t, s, string(r.queue.Get(a, "q").Data))
		}

		c.Close()
		srv.Close()
	}
}

type controlRouter struct {
	ctrl *handler.ControlHandler
}

func (r *controlRouter) Handle(conn connection.Connection) (int, error) {
	return r.ctrl.Handle(conn)
}

func Test_Abort(t *testing.T) {
	peers := plantest.LocalPeers(t, 2)
	codes := make(chan int, 1)
	r := &controlRouter{ctrl: &handler.ControlHandler{OnAbort: func(code int) { codes <- code }}}
	srv := New(peers[1], r, false)
	require.NoError(t, srv.Start())
	defer srv.Close()

	c := client.New(peers[0], false)
	defer c.Close()
	require.NoError(t, c.Send(peers[1].WithName(handler.AbortMessage), handler.EncodeAbortCode(3), connection.ConnControl, connection.NoFlag))
	assert.Equal(t, 3, <-codes)
}

func Test_TokenMismatch(t *testing.T) {
	peers := plantest.LocalPeers(t, 2)
	r := &testRouter{collective: handler.NewCollectiveEndpoint(peers[1])}
	srv := New(peers[1], r, false)
	srv.SetToken(7)
	require.NoError(t, srv.Start())
	defer srv.Close()

	_, err := connection.Open(peers[1], peers[0], connection.ConnCollective, 8, false)
	assert.Error(t, err)
	conn, err := connection.Open(peers[1], peers[0], connection.ConnCollective, 7, false)
	require.NoError(t, err)
	conn.Close()
}
