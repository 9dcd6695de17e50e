package job

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/config"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/env"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CreateProcs(t *testing.T) {
	hl, err := plan.ParseHostList("192.168.1.11:2,192.168.1.12:2:node-b")
	require.NoError(t, err)
	j := New("./simple-mpi", []string{"-grid-size", "10"})
	j.HostList = hl
	j.Parent = plan.PeerID{IPv4: hl[0].IPv4, Port: plan.DefaultRunnerPort}
	workers, err := hl.GenPeerList(4, j.PortRange)
	require.NoError(t, err)
	cluster := plan.Cluster{Runners: hl.GenRunnerList(plan.DefaultRunnerPort), Workers: workers}

	t.Setenv(config.LogLevelEnvKey, "DEBUG")
	ps := j.CreateProcs(cluster, hl[1].IPv4)
	require.Len(t, ps, 2)
	p := ps[1]
	assert.Equal(t, "192.168.1.12.10001", p.Name)
	assert.Equal(t, "node-b", p.Hostname)
	assert.Equal(t, "192.168.1.12:10001", p.Envs[env.SelfSpecEnvKey])
	assert.Equal(t, workers.String(), p.Envs[env.PeerListEnvKey])
	assert.Equal(t, "192.168.1.11:38080", p.Envs[env.ParentIDEnvKey])
	assert.Equal(t, "BINARY_TREE_STAR", p.Envs[env.AllReduceStrategyEnvKey])
	assert.Equal(t, "DEBUG", p.Envs[config.LogLevelEnvKey])
	_, err = uuid.Parse(p.Envs[env.JobIDEnvKey])
	assert.NoError(t, err)

	assert.Len(t, j.CreateAllProcs(cluster), 4)
	assert.Equal(t, []string{"./simple-mpi", "-grid-size", "10"}, j.ProgAndArgs())
	assert.NotEqual(t, j.ID, New("./simple-mpi", nil).ID)
}
