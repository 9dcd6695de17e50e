package base

import (
	"fmt"
	"unsafe"

	"github.com/lsds/kungfu-mpi/srcs/go/utils/assert"
)

type Vector struct {
	Data  []byte
	Count int
	Type  DataType
}

func NewVector(count int, dtype DataType) *Vector {
	return &Vector{
		Data:  make([]byte, count*dtype.Size()),
		Count: count,
		Type:  dtype,
	}
}

// F32Vector wraps xs without copying, writes to the Vector are visible in xs.
func F32Vector(xs []float32) *Vector {
	return &Vector{
		Data:  bytesOf(xs),
		Count: len(xs),
		Type:  F32,
	}
}

func F64Vector(xs []float64) *Vector {
	return &Vector{
		Data:  bytesOf(xs),
		Count: len(xs),
		Type:  F64,
	}
}

func I32Vector(xs []int32) *Vector {
	return &Vector{
		Data:  bytesOf(xs),
		Count: len(xs),
		Type:  I32,
	}
}

func bytesOf[T any](xs []T) []byte {
	if len(xs) == 0 {
		return nil
	}
	var x T
	return unsafe.Slice((*byte)(unsafe.Pointer(&xs[0])), len(xs)*int(unsafe.Sizeof(x)))
}

// Slice returns a new Vector that points to a subset of the original Vector.
// 0 <= begin <= end <= count
func (b *Vector) Slice(begin, end int) *Vector {
	return &Vector{
		Data:  b.Data[begin*b.Type.Size() : end*b.Type.Size()],
		Count: end - begin,
		Type:  b.Type,
	}
}

func (b *Vector) CopyFrom(c *Vector) {
	assert.OK(b.copyFrom(c))
}

func (b *Vector) copyFrom(c *Vector) error {
	if b.Count != c.Count {
		return fmt.Errorf("Vector::Copy error: inconsistent count: %d vs %d", b.Count, c.Count)
	}
	if b.Type != c.Type {
		return fmt.Errorf("Vector::Copy error: inconsistent type: %s vs %s", b.Type, c.Type)
	}
	copy(b.Data, c.Data)
	return nil
}

func view[T any](b *Vector, dtype DataType) []T {
	assert.Truef(b.Type == dtype, "vector is %s, not %s", b.Type, dtype)
	if b.Count == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b.Data[0])), b.Count)
}

func (b *Vector) AsU8() []uint8   { return view[uint8](b, U8) }
func (b *Vector) AsI8() []int8    { return view[int8](b, I8) }
func (b *Vector) AsI16() []int16  { return view[int16](b, I16) }
func (b *Vector) AsI32() []int32  { return view[int32](b, I32) }
func (b *Vector) AsI64() []int64  { return view[int64](b, I64) }
func (b *Vector) AsU32() []uint32 { return view[uint32](b, U32) }
func (b *Vector) AsU64() []uint64 { return view[uint64](b, U64) }

func (b *Vector) AsF32() []float32 { return view[float32](b, F32) }
func (b *Vector) AsF64() []float64 { return view[float64](b, F64) }

// AsU16 also exposes the raw bits of an F16 vector.
func (b *Vector) AsU16() []uint16 {
	assert.Truef(b.Type == U16 || b.Type == F16, "vector is %s, not u16", b.Type)
	if b.Count == 0 {
		return nil
	}
	return unsafe.Slice((*uint16)(unsafe.Pointer(&b.Data[0])), b.Count)
}
