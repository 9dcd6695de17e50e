package base

import (
	"testing"

	"github.com/lsds/kungfu-mpi/srcs/go/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Transform2(t *testing.T) {
	x := F32Vector([]float32{1, 5, 3})
	y := F32Vector([]float32{4, 2, 3})
	z := NewVector(3, F32)

	Transform2(z, x, y, SUM)
	assert.Equal(t, []float32{5, 7, 6}, z.AsF32())
	Transform2(z, x, y, MAX)
	assert.Equal(t, []float32{4, 5, 3}, z.AsF32())
	Transform2(z, x, y, MIN)
	assert.Equal(t, []float32{1, 2, 3}, z.AsF32())
	Transform2(z, x, y, PROD)
	assert.Equal(t, []float32{4, 10, 9}, z.AsF32())
}

func Test_TransformInts(t *testing.T) {
	x := I32Vector([]int32{-1, 7})
	y := I32Vector([]int32{3, -2})
	Transform(x, y, SUM)
	assert.Equal(t, []int32{2, 5}, x.AsI32())

	u := NewVector(2, U8)
	copy(u.AsU8(), []uint8{200, 3})
	v := NewVector(2, U8)
	copy(v.AsU8(), []uint8{100, 9})
	Transform(u, v, MAX)
	assert.Equal(t, []uint8{200, 9}, u.AsU8())
}

func Test_TransformF16(t *testing.T) {
	x := F16Vector([]float32{1.5, -2, 0.25})
	y := F16Vector([]float32{2.5, 3, 0.5})
	Transform(x, y, SUM)
	assert.Equal(t, []float32{4, 1, 0.75}, x.F16Values())
}

func Test_F32VectorShares(t *testing.T) {
	xs := []float32{1, 2, 3, 4}
	v := F32Vector(xs)
	assert.Equal(t, 16, len(v.Data))
	v.Slice(2, 4).AsF32()[0] = 9
	assert.Equal(t, float32(9), xs[2])

	empty := F32Vector(nil)
	assert.Equal(t, 0, empty.Count)
	assert.Nil(t, empty.AsF32())
}

func Test_CopyFrom(t *testing.T) {
	a := NewVector(2, F64)
	b := F64Vector([]float64{1, 2})
	require.NoError(t, a.copyFrom(b))
	assert.Equal(t, []float64{1, 2}, a.AsF64())
	assert.Error(t, a.copyFrom(NewVector(3, F64)))
	assert.Error(t, a.copyFrom(NewVector(2, I64)))
}

func Test_WorkspaceSplit(t *testing.T) {
	send := F32Vector(make([]float32, 10))
	w := Workspace{SendBuf: send, RecvBuf: send, OP: SUM, Name: "x"}
	assert.True(t, w.IsInplace())
	ws := w.Split(plan.EvenPartition, 3)
	require.Len(t, ws, 3)
	total := 0
	for _, p := range ws {
		total += p.SendBuf.Count
		assert.True(t, p.IsInplace())
	}
	assert.Equal(t, 10, total)
	assert.Equal(t, "part::x[0:4]", ws[0].Name)

	recv := NewVector(10, F32)
	w2 := Workspace{SendBuf: F32Vector([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}), RecvBuf: recv}
	assert.False(t, w2.IsInplace())
	w2.Forward()
	assert.Equal(t, float32(10), recv.AsF32()[9])
}

func Test_ParseStrategy(t *testing.T) {
	var s Strategy
	require.NoError(t, s.Set("RING"))
	assert.Equal(t, Ring, s)
	assert.Equal(t, "RING", s.String())
	assert.Error(t, s.Set("PIPELINE"))
	assert.Contains(t, StrategyNames(), "BINARY_TREE_STAR")
}
