package job

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/base"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/config"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/env"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/lsds/kungfu-mpi/srcs/go/proc"
)

type Job struct {
	ID        string
	StartTime time.Time
	Strategy  base.Strategy
	Parent    plan.PeerID
	HostList  plan.HostList
	PortRange plan.PortRange
	Prog      string
	Args      []string
	LogDir    string
}

// New creates a Job with a fresh ID, peers of different jobs never connect to each other.
func New(prog string, args []string) Job {
	return Job{
		ID:        uuid.NewString(),
		StartTime: time.Now(),
		Strategy:  base.DefaultStrategy,
		HostList:  plan.DefaultHostList,
		PortRange: plan.DefaultPortRange,
		Prog:      prog,
		Args:      args,
	}
}

func (j Job) NewProc(peer plan.PeerID, cluster plan.Cluster) proc.Proc {
	envs := proc.Envs{
		env.SelfSpecEnvKey:          peer.String(),
		env.ParentIDEnvKey:          j.Parent.String(),
		env.PeerListEnvKey:          cluster.Workers.String(),
		env.HostListEnvKey:          j.HostList.String(),
		env.AllReduceStrategyEnvKey: j.Strategy.String(),
		env.JobIDEnvKey:             j.ID,
	}
	allEnvs := proc.Merge(getConfigEnvs(), envs)
	pubAddr, _ := j.HostList.LookupPublicAddr(peer.IPv4)
	return proc.Proc{
		Name:     fmt.Sprintf("%s.%d", plan.FormatIPv4(peer.IPv4), peer.Port),
		Prog:     j.Prog,
		Args:     j.Args,
		Envs:     allEnvs,
		Hostname: pubAddr,
		LogDir:   j.LogDir,
	}
}

// CreateProcs creates the processes of cluster that run on host.
func (j Job) CreateProcs(cluster plan.Cluster, host uint32) []proc.Proc {
	var ps []proc.Proc
	for _, self := range cluster.Workers.On(host) {
		ps = append(ps, j.NewProc(self, cluster))
	}
	return ps
}

// CreateAllProcs creates the processes of cluster on every host.
func (j Job) CreateAllProcs(cluster plan.Cluster) []proc.Proc {
	var ps []proc.Proc
	for _, self := range cluster.Workers {
		ps = append(ps, j.NewProc(self, cluster))
	}
	return ps
}

func (j Job) ProgAndArgs() []string {
	a := []string{j.Prog}
	a = append(a, j.Args...)
	return a
}

func getConfigEnvs() proc.Envs {
	envs := make(proc.Envs)
	for _, k := range config.ConfigEnvKeys {
		if val := os.Getenv(k); len(val) > 0 {
			envs[k] = val
		}
	}
	return envs
}

func (j Job) DebugString() string {
	return fmt.Sprintf("job{id=%s, prog=%s, args=%q}", j.ID, j.Prog, j.Args)
}
