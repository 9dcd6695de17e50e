package runner

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lsds/kungfu-mpi/srcs/go/log"
	"github.com/lsds/kungfu-mpi/srcs/go/mpi/base"
	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/lsds/kungfu-mpi/srcs/go/plan/hostfile"
	"github.com/lsds/kungfu-mpi/srcs/go/utils"
	"github.com/pkg/errors"
)

func Init(f *FlagSet, args []string) {
	if err := f.Parse(args); err != nil {
		utils.ExitErr(err)
	}
	if len(f.Logfile) > 0 {
		lf, err := os.Create(f.Logfile)
		if err != nil {
			utils.ExitErr(err)
		}
		log.SetOutput(lf)
	}
	if !f.Quiet {
		utils.LogArgs()
		utils.LogKungfuEnv()
		utils.LogNICInfo()
	}
}

type FlagSet struct {
	ClusterSize int
	hostList    string
	hostFile    string
	HostList    plan.HostList

	User   string
	Remote bool

	PortRange plan.PortRange

	Self       string
	Timeout    time.Duration
	VerboseLog bool
	NIC        string

	Strategy base.Strategy

	Logfile string
	LogDir  string
	Quiet   bool

	Prog string
	Args []string
}

func (f *FlagSet) Register(flag *flag.FlagSet) {
	flag.IntVar(&f.ClusterSize, "np", 1, "number of peers")
	flag.StringVar(&f.hostList, "H", plan.DefaultHostList.String(), "comma separated list of <internal IP>:<nslots>[:<public addr>]")
	flag.StringVar(&f.hostFile, "hostfile", "", "path to hostfile, will override -H if specified")

	flag.StringVar(&f.User, "u", "", "user name for ssh")
	flag.BoolVar(&f.Remote, "remote", false, "launch the peers of all hosts over ssh from this host")

	f.PortRange = plan.DefaultPortRange
	flag.Var(&f.PortRange, "port-range", "port range for the peers")

	flag.StringVar(&f.Self, "self", "", "internal IPv4")
	flag.DurationVar(&f.Timeout, "timeout", 0, "timeout")
	flag.BoolVar(&f.VerboseLog, "v", true, "show task log")
	flag.StringVar(&f.NIC, "nic", "", "network interface name, for infer self IP")

	f.Strategy = base.DefaultStrategy
	flag.Var(&f.Strategy, "strategy", fmt.Sprintf("all reduce strategy, options are: %s", strings.Join(base.StrategyNames(), " | ")))

	flag.StringVar(&f.Logfile, "logfile", "", "path to log file")
	flag.StringVar(&f.LogDir, "logdir", "", "path to log dir")
	flag.BoolVar(&f.Quiet, "q", false, "don't log debug info")
}

var (
	errMissingProgramName = errors.New("missing program name")
	errInvalidClusterSize = errors.New("invalid cluster size")
)

func (f *FlagSet) Parse(args []string) error {
	commandLine := flag.NewFlagSet(args[0], flag.ExitOnError)
	f.Register(commandLine)
	commandLine.Parse(args[1:])
	return f.complete(commandLine.Args())
}

func (f *FlagSet) complete(args []string) error {
	if f.ClusterSize < 1 {
		return errors.Wrapf(errInvalidClusterSize, "-np %d", f.ClusterSize)
	}
	if err := f.resolveHostList(); err != nil {
		return err
	}
	if len(args) < 1 {
		return errMissingProgramName
	}
	f.Prog = args[0]
	f.Args = args[1:]
	return nil
}

func (f *FlagSet) resolveHostList() error {
	if len(f.hostFile) > 0 {
		hl, err := hostfile.ParseFile(f.hostFile)
		if err != nil {
			return err
		}
		f.HostList = hl
	} else {
		hl, err := plan.ParseHostList(f.hostList)
		if err != nil {
			return err
		}
		f.HostList = hl
	}
	return nil
}
