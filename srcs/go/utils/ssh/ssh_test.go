package ssh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_completeConfig(t *testing.T) {
	c := completeConfig(Config{User: "alice", Host: "10.0.0.2"})
	assert.Equal(t, "alice", c.User)
	assert.Equal(t, "10.0.0.2:22", c.Host)

	c = completeConfig(Config{User: "bob", Host: "10.0.0.2:2222"})
	assert.Equal(t, "10.0.0.2:2222", c.Host)
}
