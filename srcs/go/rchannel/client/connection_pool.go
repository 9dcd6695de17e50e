package client

import (
	"sync"

	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/connection"
	"github.com/lsds/kungfu-mpi/srcs/go/utils"
)

type connKey struct {
	a plan.PeerID
	t connection.ConnType
}

type connectionPool struct {
	sync.Mutex
	useUnixSock bool
	conns       map[connKey]connection.Connection
	token       uint32
}

func newConnectionPool(useUnixSock bool) *connectionPool {
	return &connectionPool{
		useUnixSock: useUnixSock,
		conns:       make(map[connKey]connection.Connection),
	}
}

func (p *connectionPool) get(remote, local plan.PeerID, t connection.ConnType) connection.Connection {
	p.Lock()
	defer p.Unlock()
	key := connKey{remote, t}
	if conn, ok := p.conns[key]; ok {
		return conn
	}
	conn := connection.New(remote, local, t, p.token, p.useUnixSock)
	p.conns[key] = conn
	return conn
}

func (p *connectionPool) reset(keeps plan.PeerList, token uint32) {
	m := keeps.Set()
	p.Lock()
	defer p.Unlock()
	p.token = token
	for k, conn := range p.conns {
		if _, ok := m[k.a]; !ok {
			conn.Close()
			delete(p.conns, k)
		}
	}
}

func (p *connectionPool) closeAll() error {
	p.Lock()
	defer p.Unlock()
	var errs []error
	for k, conn := range p.conns {
		errs = append(errs, conn.Close())
		delete(p.conns, k)
	}
	return utils.MergeErrors(errs, "close connections")
}
