// Package plantest provides peer lists for in-process tests.
package plantest

import (
	"net"
	"testing"

	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/stretchr/testify/require"
)

// LocalPeers returns n peers on 127.0.0.1 with ports that were free when probed.
func LocalPeers(t testing.TB, n int) plan.PeerList {
	ip := plan.MustParseIPv4("127.0.0.1")
	var ls []net.Listener
	defer func() {
		for _, l := range ls {
			l.Close()
		}
	}()
	var pl plan.PeerList
	for i := 0; i < n; i++ {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		ls = append(ls, l)
		port := l.Addr().(*net.TCPAddr).Port
		pl = append(pl, plan.PeerID{IPv4: ip, Port: uint16(port)})
	}
	return pl
}
