package connection

import (
	"bytes"
	"net"
	"testing"

	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ExpectName(t *testing.T) {
	b := &bytes.Buffer{}
	h := MessageHeader{NameLength: 3, Name: []byte("abc"), Flags: WaitRecvBuf}
	require.NoError(t, h.WriteTo(b))

	var got MessageHeader
	require.NoError(t, got.Expect(bytes.NewReader(b.Bytes()), "abc"))
	assert.True(t, got.HasFlag(WaitRecvBuf))
	assert.Error(t, got.Expect(bytes.NewReader(b.Bytes()), "abd"))
	assert.Error(t, got.Expect(bytes.NewReader(b.Bytes()), "ab"))
}

func Test_ReadIntoLengthMismatch(t *testing.T) {
	b := &bytes.Buffer{}
	require.NoError(t, Message{Length: 4, Data: []byte("1234")}.WriteTo(b))
	m := Message{Length: 3, Data: make([]byte, 3)}
	assert.Equal(t, errUnexpectedMessageLength, m.ReadInto(b))
}

func Test_SameEmpty(t *testing.T) {
	var a, b Message
	assert.True(t, a.Same(&b))
	c := Message{Length: 1, Data: []byte{1}}
	assert.False(t, a.Same(&c))
	assert.True(t, c.Same(&c))
}

func Test_Upgrade(t *testing.T) {
	const token = 42
	self := plan.PeerID{IPv4: plan.MustParseIPv4("127.0.0.1"), Port: 10001}
	src := plan.PeerID{IPv4: plan.MustParseIPv4("127.0.0.1"), Port: 10002}

	client, server := net.Pipe()
	defer client.Close()
	done := make(chan Connection, 1)
	go func() {
		conn, err := UpgradeFrom(server, self, token)
		assert.NoError(t, err)
		done <- conn
	}()
	h := connectionHeader{Type: uint16(ConnCollective), SrcIPv4: src.IPv4, SrcPort: src.Port}
	require.NoError(t, h.WriteTo(client))
	var ack connectionACK
	require.NoError(t, ack.ReadFrom(client))
	assert.Equal(t, uint32(token), ack.Token)

	conn := <-done
	require.NotNil(t, conn)
	assert.Equal(t, src, conn.Src())
	assert.Equal(t, self, conn.Dest())
	assert.Equal(t, ConnCollective, conn.Type())
}

func Test_ConnTypeRules(t *testing.T) {
	assert.True(t, ConnCollective.checksToken())
	assert.False(t, ConnControl.checksToken())
	assert.False(t, ConnPing.retries())
	assert.False(t, ConnType(9).valid())
	assert.Equal(t, "Control", ConnControl.String())
}
