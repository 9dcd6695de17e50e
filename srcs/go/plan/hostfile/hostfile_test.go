package hostfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse(t *testing.T) {
	text := `
	# ...
	127.0.0.1 slots=4 # ...
	# ...
   	127.0.0.1   slots=8  max_slots=8 # ...
	10.0.0.2 public_addr=node2
	`
	hl, err := Parse(text)
	require.NoError(t, err)
	require.Len(t, hl, 3)
	assert.Equal(t, 4, hl[0].Slots)
	assert.Equal(t, 8, hl[1].Slots)
	assert.Equal(t, 1, hl[2].Slots)
	assert.Equal(t, "node2", hl[2].PublicAddr)
	assert.Equal(t, 13, hl.Cap())
}

func Test_Parse_invalid(t *testing.T) {
	for _, text := range []string{
		"node1 slots=2",
		"127.0.0.1 slots=x",
		"127.0.0.1 cpus=2",
		"127.0.0.1 slots",
	} {
		_, err := Parse(text)
		assert.Error(t, err, "%q", text)
	}
}
