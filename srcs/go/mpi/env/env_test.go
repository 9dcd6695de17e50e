package env

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/base"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{SelfSpecEnvKey, PeerListEnvKey, ParentIDEnvKey, HostListEnvKey, AllReduceStrategyEnvKey, JobIDEnvKey, OpenMPISizeEnvKey, OpenMPIRankEnvKey} {
		t.Setenv(k, "")
	}
}

func Test_SingleProcess(t *testing.T) {
	clearEnv(t)
	cfg, err := ParseConfigFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Single)
	assert.Len(t, cfg.InitPeers, 1)
	assert.Equal(t, cfg.Self, cfg.InitPeers[0])
	assert.Equal(t, uint32(0), cfg.Token())
}

func Test_ParseConfigFromEnv(t *testing.T) {
	clearEnv(t)
	jobID := uuid.New().String()
	t.Setenv(SelfSpecEnvKey, "127.0.0.1:10001")
	t.Setenv(PeerListEnvKey, "127.0.0.1:10000,127.0.0.1:10001")
	t.Setenv(ParentIDEnvKey, "127.0.0.1:38080")
	t.Setenv(HostListEnvKey, "127.0.0.1:2")
	t.Setenv(AllReduceStrategyEnvKey, "RING")
	t.Setenv(JobIDEnvKey, jobID)

	cfg, err := ParseConfigFromEnv()
	require.NoError(t, err)
	assert.False(t, cfg.Single)
	assert.Equal(t, "127.0.0.1:10001", cfg.Self.String())
	assert.Equal(t, uint16(38080), cfg.Parent.Port)
	assert.Len(t, cfg.InitPeers, 2)
	assert.Equal(t, base.Ring, cfg.Strategy)
	assert.Equal(t, 2, cfg.HostList.Cap())
	assert.NotEqual(t, uint32(0), cfg.Token())

	t.Setenv(AllReduceStrategyEnvKey, "")
	cfg, err = ParseConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, base.DefaultStrategy, cfg.Strategy)

	t.Setenv(JobIDEnvKey, "not-a-uuid")
	_, err = ParseConfigFromEnv()
	assert.Error(t, err)
	t.Setenv(JobIDEnvKey, jobID)

	t.Setenv(SelfSpecEnvKey, "127.0.0.1:10002")
	_, err = ParseConfigFromEnv()
	assert.Error(t, err)

	t.Setenv(SelfSpecEnvKey, "127.0.0.1:10001")
	t.Setenv(PeerListEnvKey, "127.0.0.1:10001,127.0.0.1:10001")
	_, err = ParseConfigFromEnv()
	assert.Error(t, err)
}

func Test_OpenMPIEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(OpenMPISizeEnvKey, "6")
	t.Setenv(OpenMPIRankEnvKey, "5")
	cfg, err := ParseConfigFromOpenMPIEnv()
	require.NoError(t, err)
	assert.Len(t, cfg.InitPeers, 6)
	assert.Equal(t, cfg.InitPeers[5], cfg.Self)

	t.Setenv(OpenMPIRankEnvKey, "6")
	_, err = ParseConfigFromOpenMPIEnv()
	assert.Error(t, err)
}
