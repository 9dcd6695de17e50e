package peer

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lsds/kungfu-mpi/srcs/go/log"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/config"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/env"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/execution"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/session"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/connection"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/handler"
	"github.com/lsds/kungfu-mpi/srcs/go/rchannel/server"
	"github.com/lsds/kungfu-mpi/srcs/go/utils"
	"github.com/pkg/errors"
)

type Peer struct {
	sync.Mutex

	// immutable
	config *env.Config
	self   plan.PeerID
	single bool
	router *router
	server server.Server
	exit   func(int)

	currentSession *session.Session
	closed         bool
}

func New() (*Peer, error) {
	config, err := env.ParseConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return NewFromConfig(config)
}

func NewFromConfig(cfg *env.Config) (*Peer, error) {
	if _, ok := cfg.InitPeers.Rank(cfg.Self); !ok {
		return nil, errSelfNotInCluster
	}
	p := &Peer{
		config: cfg,
		self:   cfg.Self,
		single: cfg.Single,
		exit:   os.Exit,
	}
	p.router = NewRouter(cfg.Self, p.onAbort)
	p.server = server.New(cfg.Self, p.router, config.UseUnixSock)
	return p, nil
}

var errSelfNotInCluster = errors.New("self not in cluster")

// Start listens for other peers and waits for all of them in a barrier.
func (p *Peer) Start() error {
	if config.EnableStallDetection {
		name := fmt.Sprintf("Start(%s)", p.self)
		defer utils.InstallStallDetector(name, config.StallPeriod).Stop()
	}
	token := p.config.Token()
	if !p.single {
		p.server.SetToken(token)
		if err := p.server.Start(); err != nil {
			return errors.Wrapf(err, "start server on %s", p.self)
		}
	}
	pl := p.config.InitPeers
	p.router.ResetConnections(pl, token)
	sess, ok := session.New(p.config.Strategy, p.self, pl, p.router.client, p.router.Collective, p.router.Queue)
	if !ok {
		return errSelfNotInCluster
	}
	if err := sess.Barrier(); err != nil {
		return errors.Wrap(err, "barrier failed after newSession")
	}
	log.Debugf("peer %s started as rank %d of %d", p.self, sess.Rank(), sess.Size())
	p.Lock()
	p.currentSession = sess
	p.Unlock()
	return nil
}

func (p *Peer) Close() error {
	p.Lock()
	defer p.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	if !p.single {
		p.server.Close()
	}
	return p.router.client.Close()
}

func (p *Peer) Self() plan.PeerID {
	return p.self
}

func (p *Peer) Config() env.Config {
	return *p.config
}

// CurrentSession returns nil before Start.
func (p *Peer) CurrentSession() *session.Session {
	p.Lock()
	defer p.Unlock()
	return p.currentSession
}

// Ping measures the round trip to a peer of the cluster.
func (p *Peer) Ping(target plan.PeerID) (time.Duration, error) {
	return p.router.client.Ping(target)
}

// Wait blocks until target accepts connections or ctx is done.
func (p *Peer) Wait(ctx context.Context, target plan.PeerID) (int, error) {
	return p.router.Wait(ctx, target)
}

// Abort asks every other peer to exit with code, then exits the process.
// Peers that can't be reached within config.AbortTimeout are ignored.
func (p *Peer) Abort(code int) {
	p.BroadcastAbort(code, config.AbortTimeout)
	p.exit(code)
}

func (p *Peer) BroadcastAbort(code int, timeout time.Duration) {
	if p.single {
		return
	}
	others := p.config.InitPeers.Others(p.self)
	var notify execution.PeerFunc = func(q plan.PeerID) error {
		return p.router.Send(q.WithName(handler.AbortMessage), handler.EncodeAbortCode(code), connection.ConnControl, connection.NoFlag)
	}
	done := make(chan error, 1)
	go func() { done <- notify.Par(others) }()
	select {
	case err := <-done:
		if err != nil {
			log.Warnf("abort not delivered to all peers: %v", err)
		}
	case <-time.After(timeout):
		log.Warnf("abort not delivered to all peers within %s", timeout)
	}
}

func (p *Peer) onAbort(code int) {
	p.exit(code)
}
