package execution

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/stretchr/testify/assert"
)

func Test_ParSeq(t *testing.T) {
	pl, err := plan.ParsePeerList("127.0.0.1:1,127.0.0.1:2,127.0.0.1:3")
	assert.NoError(t, err)

	var n int32
	var count PeerFunc = func(plan.PeerID) error {
		atomic.AddInt32(&n, 1)
		return nil
	}
	assert.NoError(t, count.Par(pl))
	assert.NoError(t, count.Seq(pl))
	assert.Equal(t, int32(6), n)

	var seen []uint16
	var failAt2 PeerFunc = func(p plan.PeerID) error {
		seen = append(seen, p.Port)
		if p.Port == 2 {
			return errors.New("boom")
		}
		return nil
	}
	assert.Error(t, failAt2.Seq(pl))
	assert.Equal(t, []uint16{1, 2}, seen)

	err = Par(pl, func(p plan.PeerID) error {
		if p.Port > 1 {
			return errors.New("boom")
		}
		return nil
	})
	assert.EqualError(t, err, "par failed with 2 errors: boom, boom")
}
