package base

type OP int32

const (
	SUM OP = iota
	MIN
	MAX
	PROD
)

var opNames = map[OP]string{
	SUM:  "SUM",
	MIN:  "MIN",
	MAX:  "MAX",
	PROD: "PROD",
}

func (op OP) String() string {
	return opNames[op]
}

// Transform performs y[i] = y[i] op x[i] for vectors y and x
func Transform(y, x *Vector, op OP) {
	Transform2(y, y, x, op)
}

// Transform2 performs z[i] = x[i] op y[i] for vectors z and x, y.
// The three vectors are assumed to have the same Count and Type.
func Transform2(z, x, y *Vector, op OP) {
	if z.Count == 0 {
		return
	}
	switch z.Type {
	case U8:
		transform(z.AsU8(), x.AsU8(), y.AsU8(), op)
	case U16:
		transform(z.AsU16(), x.AsU16(), y.AsU16(), op)
	case U32:
		transform(z.AsU32(), x.AsU32(), y.AsU32(), op)
	case U64:
		transform(z.AsU64(), x.AsU64(), y.AsU64(), op)
	case I8:
		transform(z.AsI8(), x.AsI8(), y.AsI8(), op)
	case I16:
		transform(z.AsI16(), x.AsI16(), y.AsI16(), op)
	case I32:
		transform(z.AsI32(), x.AsI32(), y.AsI32(), op)
	case I64:
		transform(z.AsI64(), x.AsI64(), y.AsI64(), op)
	case F16:
		transformF16(z, x, y, op)
	case F32:
		transform(z.AsF32(), x.AsF32(), y.AsF32(), op)
	case F64:
		transform(z.AsF64(), x.AsF64(), y.AsF64(), op)
	}
}

type number interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~int8 | ~int16 | ~int32 | ~int64 |
		~float32 | ~float64
}

func transform[T number](z, x, y []T, op OP) {
	switch op {
	case SUM:
		for i := range z {
			z[i] = x[i] + y[i]
		}
	case MIN:
		for i := range z {
			z[i] = min(x[i], y[i])
		}
	case MAX:
		for i := range z {
			z[i] = max(x[i], y[i])
		}
	case PROD:
		for i := range z {
			z[i] = x[i] * y[i]
		}
	}
}
