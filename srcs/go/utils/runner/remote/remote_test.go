package remote

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_ExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(context.Canceled))
	assert.Equal(t, 1, ExitCode(errors.Wrap(context.Canceled, "remote")))
}
