// Package mpi exposes a peer group through an MPI-shaped API.
// Every collective must be called by all ranks in the same order.
package mpi

import (
	"fmt"
	"os"
	"sync"

	"github.com/lsds/kungfu-mpi/srcs/go/log"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/base"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/config"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/env"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/peer"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/session"
	"github.com/lsds/kungfu-mpi/srcs/go/utils"
	"github.com/pkg/errors"
)

// Root is the rank that rooted collectives are rooted at.
const Root = session.DefaultRoot

// FailureCode is the exit code used by Check.
const FailureCode = 1

type Comm struct {
	sync.Mutex

	peer *peer.Peer
	sess *session.Session

	seq       int
	finalized bool
}

// Init joins the group described by the launcher's environment,
// a process started without a launcher forms a group of its own.
func Init() (*Comm, error) {
	cfg, err := env.ParseConfigFromEnv()
	if err != nil {
		return nil, errors.Wrap(err, "parse config from env")
	}
	return InitWithConfig(cfg)
}

func InitWithConfig(cfg *env.Config) (*Comm, error) {
	p, err := peer.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := p.Start(); err != nil {
		p.Close()
		return nil, err
	}
	return &Comm{
		peer: p,
		sess: p.CurrentSession(),
	}, nil
}

func (c *Comm) Rank() int { return c.sess.Rank() }

func (c *Comm) Size() int { return c.sess.Size() }

func (c *Comm) LocalRank() int { return c.sess.LocalRank() }

func (c *Comm) LocalSize() int { return c.sess.LocalSize() }

func (c *Comm) HostCount() int { return c.sess.HostCount() }

var errFinalized = errors.New("communicator finalized")

// nextName names the next collective, matching calls on different ranks get the same name.
func (c *Comm) nextName(op string) (string, error) {
	c.Lock()
	defer c.Unlock()
	if c.finalized {
		return "", errFinalized
	}
	name := fmt.Sprintf("mpi::%s#%d", op, c.seq)
	c.seq++
	return name, nil
}

func (c *Comm) call(op string, f func(name string) error) error {
	name, err := c.nextName(op)
	if err != nil {
		return errors.Wrap(err, op)
	}
	if config.EnableStallDetection {
		defer utils.InstallStallDetector(name, config.StallPeriod).Stop()
	}
	if err := f(name); err != nil {
		log.Errorf("mpi operation %s failed: %v", name, err)
		return err
	}
	return nil
}

func (c *Comm) Barrier() error {
	return c.call("Barrier", func(string) error { return c.sess.Barrier() })
}

// Bcast overwrites buf on every rank with buf of Root.
func (c *Comm) Bcast(buf *base.Vector) error {
	return c.call("Bcast", func(name string) error {
		return c.sess.Broadcast(base.Workspace{SendBuf: buf, RecvBuf: buf, Name: name})
	})
}

// Scatter splits send of Root into Size() parts of recv.Count elements, rank i receives part i.
// send is ignored on other ranks and may be nil.
func (c *Comm) Scatter(send, recv *base.Vector) error {
	return c.call("Scatter", func(name string) error {
		return c.sess.Scatter(base.Workspace{SendBuf: send, RecvBuf: recv, Name: name})
	})
}

// Gather concatenates send of all ranks into recv of Root.
// recv is ignored on other ranks and may be nil.
func (c *Comm) Gather(send, recv *base.Vector) error {
	return c.call("Gather", func(name string) error {
		return c.sess.Gather(base.Workspace{SendBuf: send, RecvBuf: recv, Name: name})
	})
}

func (c *Comm) AllGather(send, recv *base.Vector) error {
	return c.call("AllGather", func(name string) error {
		return c.sess.AllGather(base.Workspace{SendBuf: send, RecvBuf: recv, Name: name})
	})
}

// Reduce combines send of all ranks with op into recv of Root.
// recv is ignored on other ranks and may be nil.
func (c *Comm) Reduce(send, recv *base.Vector, op base.OP) error {
	return c.call("Reduce", func(name string) error {
		if recv == nil || c.Rank() != Root {
			recv = base.NewVector(send.Count, send.Type)
		}
		return c.sess.Reduce(base.Workspace{SendBuf: send, RecvBuf: recv, OP: op, Name: name})
	})
}

func (c *Comm) AllReduce(send, recv *base.Vector, op base.OP) error {
	return c.call("AllReduce", func(name string) error {
		return c.sess.AllReduce(base.Workspace{SendBuf: send, RecvBuf: recv, OP: op, Name: name})
	})
}

// Send does not consume a collective name, so it may be interleaved freely with collectives.
func (c *Comm) Send(buf *base.Vector, dest, tag int) error {
	return c.sess.Send(dest, buf, tag)
}

func (c *Comm) Recv(buf *base.Vector, src, tag int) error {
	return c.sess.Recv(src, buf, tag)
}

// Abort terminates all ranks with code, it never returns.
func (c *Comm) Abort(code int) {
	c.peer.Abort(code)
}

// Finalize waits for all ranks and releases the communicator.
func (c *Comm) Finalize() error {
	if err := c.Barrier(); err != nil {
		return err
	}
	c.Lock()
	c.finalized = true
	c.Unlock()
	return c.peer.Close()
}

// Check reports a failed call and aborts the group.
func Check(c *Comm, err error, call string) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "MPI error calling \"%s\"\n", call)
	log.Debugf("%s: %v", call, err)
	fmt.Println("Test FAILED")
	if c == nil {
		os.Exit(FailureCode)
	}
	c.Abort(FailureCode)
}
