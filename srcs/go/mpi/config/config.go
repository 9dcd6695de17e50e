package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lsds/kungfu-mpi/srcs/go/utils"
)

const (
	EnableStallDetectionEnvKey = `KUNGFU_CONFIG_ENABLE_STALL_DETECTION`
	LogLevelEnvKey             = `KUNGFU_CONFIG_LOG_LEVEL`
	ConnRetryCountEnvKey       = `KUNGFU_CONFIG_CONN_RETRY_COUNT`
	ConnRetryPeriodEnvKey      = `KUNGFU_CONFIG_CONN_RETRY_PERIOD`
	UseUnixSockEnvKey          = `KUNGFU_CONFIG_USE_UNIX_SOCK`
	AbortTimeoutEnvKey         = `KUNGFU_CONFIG_ABORT_TIMEOUT`
)

// ConfigEnvKeys are forwarded by the launcher to every worker.
var ConfigEnvKeys = []string{
	EnableStallDetectionEnvKey,
	LogLevelEnvKey,
	ConnRetryCountEnvKey,
	ConnRetryPeriodEnvKey,
	UseUnixSockEnvKey,
	AbortTimeoutEnvKey,
}

var (
	EnableStallDetection = false
	LogLevel             = `INFO`
	UseUnixSock          = true
	ConnRetryCount       = 500
	ConnRetryPeriod      = 200 * time.Millisecond
	StallPeriod          = 3 * time.Second
	AbortTimeout         = 2 * time.Second
)

func init() {
	if val := os.Getenv(EnableStallDetectionEnvKey); len(val) > 0 {
		EnableStallDetection = isTrue(val)
	}
	if val := os.Getenv(LogLevelEnvKey); len(val) > 0 {
		LogLevel = strings.ToUpper(val)
	}
	if val := os.Getenv(UseUnixSockEnvKey); len(val) > 0 {
		UseUnixSock = isTrue(val)
	}
	if val := os.Getenv(ConnRetryCountEnvKey); len(val) > 0 {
		ConnRetryCount = parseInt(val)
	}
	if val := os.Getenv(ConnRetryPeriodEnvKey); len(val) > 0 {
		ConnRetryPeriod = parseDuration(val)
	}
	if val := os.Getenv(AbortTimeoutEnvKey); len(val) > 0 {
		AbortTimeout = parseDuration(val)
	}
}

func isTrue(val string) bool {
	return val == "true" || val == "1"
}

func parseInt(val string) int {
	n, err := strconv.Atoi(val)
	if err != nil {
		utils.ExitErr(err)
	}
	return n
}

func parseDuration(val string) time.Duration {
	d, err := time.ParseDuration(val)
	if err != nil {
		utils.ExitErr(err)
	}
	return d
}
