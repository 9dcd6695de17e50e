package env

// Internal environment variables set by kungfu-mpirun, users should not set them.
const (
	ParentIDEnvKey = `KUNGFU_PARENT_ID`
	HostListEnvKey = `KUNGFU_HOST_LIST`
	JobIDEnvKey    = `KUNGFU_JOB_ID`

	PeerListEnvKey          = `KUNGFU_INIT_PEERS`
	SelfSpecEnvKey          = `KUNGFU_SELF_SPEC` // self spec should never change during the life of a process
	AllReduceStrategyEnvKey = `KUNGFU_ALLREDUCE_STRATEGY`
)

// Set by Open MPI's mpirun.
const (
	OpenMPISizeEnvKey = `OMPI_COMM_WORLD_SIZE`
	OpenMPIRankEnvKey = `OMPI_COMM_WORLD_RANK`
)
