package env

import (
	"fmt"
	"os"
	"strconv"
)

// ParseConfigFromOpenMPIEnv derives a localhost peer list from the rank and size
// that Open MPI's mpirun exports, so that programs can also be started by it.
func ParseConfigFromOpenMPIEnv() (*Config, error) {
	mpiSize, err := strconv.Atoi(os.Getenv(OpenMPISizeEnvKey))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %v", OpenMPISizeEnvKey, err)
	}
	mpiRank, err := strconv.Atoi(os.Getenv(OpenMPIRankEnvKey))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %v", OpenMPIRankEnvKey, err)
	}
	return SingleMachineEnv(mpiRank, mpiSize)
}
