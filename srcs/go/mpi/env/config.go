package env

import (
	"fmt"
	"hash/crc32"
	"os"

	"github.com/google/uuid"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/base"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
)

type Config struct {
	Parent    plan.PeerID
	HostList  plan.HostList
	Self      plan.PeerID
	Strategy  base.Strategy
	InitPeers plan.PeerList
	JobID     string

	Single bool
}

// Token identifies the job, connections from peers of other jobs are rejected.
func (c Config) Token() uint32 {
	if len(c.JobID) == 0 {
		return 0
	}
	return crc32.ChecksumIEEE([]byte(c.JobID))
}

func ParseConfigFromEnv() (*Config, error) {
	if len(os.Getenv(SelfSpecEnvKey)) == 0 {
		if len(os.Getenv(OpenMPISizeEnvKey)) > 0 {
			return ParseConfigFromOpenMPIEnv()
		}
		return singleProcessEnv(), nil
	}
	self, err := getSelfFromEnv()
	if err != nil {
		return nil, err
	}
	parent, err := getParentFromEnv()
	if err != nil {
		return nil, err
	}
	hostList, err := getHostListFromEnv()
	if err != nil {
		return nil, err
	}
	initPeers, err := getInitPeersFromEnv()
	if err != nil {
		return nil, err
	}
	if _, ok := initPeers.Rank(*self); !ok {
		return nil, fmt.Errorf("%s=%s not in %s", SelfSpecEnvKey, self, PeerListEnvKey)
	}
	strategy, err := getStrategyFromEnv()
	if err != nil {
		return nil, err
	}
	jobID, err := getJobIDFromEnv()
	if err != nil {
		return nil, err
	}
	return &Config{
		Self:      *self,
		Parent:    *parent,
		HostList:  hostList,
		InitPeers: initPeers,
		Strategy:  strategy,
		JobID:     jobID,
	}, nil
}

// SingleMachineEnv creates the config of rank in a local group of size peers.
func SingleMachineEnv(rank, size int) (*Config, error) {
	hl := plan.HostList{{
		IPv4:  plan.MustParseIPv4(`127.0.0.1`),
		Slots: size,
	}}
	pl, err := hl.GenPeerList(size, plan.DefaultPortRange)
	if err != nil {
		return nil, err
	}
	if rank < 0 || rank >= size {
		return nil, fmt.Errorf("invalid rank %d of %d", rank, size)
	}
	return &Config{
		Self:      pl[rank],
		HostList:  hl,
		InitPeers: pl,
		Strategy:  base.DefaultStrategy,
	}, nil
}

func singleProcessEnv() *Config {
	pl, _ := plan.DefaultHostList.GenPeerList(1, plan.DefaultPortRange)
	self := pl[0]
	return &Config{
		Self:      self,
		HostList:  plan.DefaultHostList,
		InitPeers: plan.PeerList{self},
		Strategy:  base.DefaultStrategy,
		Single:    true,
	}
}

func getSelfFromEnv() (*plan.PeerID, error) {
	config, ok := os.LookupEnv(SelfSpecEnvKey)
	if !ok {
		return nil, fmt.Errorf("%s not set", SelfSpecEnvKey)
	}
	return plan.ParsePeerID(config)
}

func getParentFromEnv() (*plan.PeerID, error) {
	val, ok := os.LookupEnv(ParentIDEnvKey)
	if !ok {
		return nil, fmt.Errorf("%s not set", ParentIDEnvKey)
	}
	return plan.ParsePeerID(val)
}

func getHostListFromEnv() (plan.HostList, error) {
	val, ok := os.LookupEnv(HostListEnvKey)
	if !ok {
		return plan.DefaultHostList, nil
	}
	return plan.ParseHostList(val)
}

func getInitPeersFromEnv() (plan.PeerList, error) {
	val, ok := os.LookupEnv(PeerListEnvKey)
	if !ok {
		return nil, fmt.Errorf("%s not set", PeerListEnvKey)
	}
	pl, err := plan.ParsePeerList(val)
	if err != nil {
		return nil, err
	}
	if !pl.IsUnique() {
		return nil, fmt.Errorf("%s has duplicated peers: %s", PeerListEnvKey, val)
	}
	return pl, nil
}

func getStrategyFromEnv() (base.Strategy, error) {
	val, ok := os.LookupEnv(AllReduceStrategyEnvKey)
	if !ok || len(val) == 0 {
		return base.DefaultStrategy, nil
	}
	s, err := base.ParseStrategy(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", AllReduceStrategyEnvKey, val)
	}
	return *s, nil
}

func getJobIDFromEnv() (string, error) {
	val := os.Getenv(JobIDEnvKey)
	if len(val) == 0 {
		return "", nil
	}
	if _, err := uuid.Parse(val); err != nil {
		return "", fmt.Errorf("invalid %s: %v", JobIDEnvKey, err)
	}
	return val, nil
}
