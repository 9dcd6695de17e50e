package base

import (
	"github.com/x448/float16"
)

// transformF16 widens to float32, applies op and rounds back to the nearest half.
func transformF16(z, x, y *Vector, op OP) {
	zs, xs, ys := z.AsU16(), x.AsU16(), y.AsU16()
	a := make([]float32, len(zs))
	b := make([]float32, len(zs))
	for i := range zs {
		a[i] = float16.Frombits(xs[i]).Float32()
		b[i] = float16.Frombits(ys[i]).Float32()
	}
	transform(a, a, b, op)
	for i := range zs {
		zs[i] = float16.Fromfloat32(a[i]).Bits()
	}
}

// F16Vector encodes xs as a new F16 vector.
func F16Vector(xs []float32) *Vector {
	v := NewVector(len(xs), F16)
	bs := v.AsU16()
	for i, x := range xs {
		bs[i] = float16.Fromfloat32(x).Bits()
	}
	return v
}

// F16Values decodes an F16 vector to float32.
func (b *Vector) F16Values() []float32 {
	bs := b.AsU16()
	xs := make([]float32, len(bs))
	for i, h := range bs {
		xs[i] = float16.Frombits(h).Float32()
	}
	return xs
}
