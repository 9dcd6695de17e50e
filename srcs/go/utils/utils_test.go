package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Poll_OK(t *testing.T) {
	var n int
	f := func() bool {
		n++
		return n > 3
	}
	failed, ok := Poll(context.TODO(), f)
	assert.True(t, ok)
	assert.Equal(t, 3, failed)
}

func Test_Poll_Fail(t *testing.T) {
	ctx, cancel := context.WithCancel(context.TODO())
	var n int
	f := func() bool {
		n++
		if n == 2 {
			cancel()
		}
		return n > 3
	}
	failed, ok := Poll(ctx, f)
	assert.False(t, ok)
	assert.Equal(t, 2, failed)
}

func Test_MergeErrors(t *testing.T) {
	assert.NoError(t, MergeErrors([]error{nil, nil}, "par"))
	err := MergeErrors([]error{nil, errors.New("a"), errors.New("b")}, "par")
	if assert.Error(t, err) {
		assert.Equal(t, "par failed with 2 errors: a, b", err.Error())
	}
}

func Test_BytesEq(t *testing.T) {
	assert.True(t, BytesEq([]byte("abc"), []byte("abc")))
	assert.False(t, BytesEq([]byte("abc"), []byte("abd")))
	assert.False(t, BytesEq([]byte("ab"), []byte("abc")))
}
