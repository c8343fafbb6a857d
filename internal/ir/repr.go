package ir

import "fmt"

// Repr is the declared memory representation of a struct, union or enum.
type Repr uint8

const (
	ReprNone Repr = iota
	ReprC
	ReprU8
	ReprU16
	ReprU32
	ReprU64
	ReprUSize
	ReprI8
	ReprI16
	ReprI32
	ReprI64
	ReprISize
)

var reprNames = map[string]Repr{
	"":      ReprNone,
	"C":     ReprC,
	"u8":    ReprU8,
	"u16":   ReprU16,
	"u32":   ReprU32,
	"u64":   ReprU64,
	"usize": ReprUSize,
	"i8":    ReprI8,
	"i16":   ReprI16,
	"i32":   ReprI32,
	"i64":   ReprI64,
	"isize": ReprISize,
}

func ParseRepr(s string) (Repr, error) {
	r, ok := reprNames[s]
	if !ok {
		return ReprNone, fmt.Errorf("unknown repr %q", s)
	}
	return r, nil
}

// Primitive returns the integer type backing an enum of this repr.
func (r Repr) Primitive() (PrimitiveType, bool) {
	switch r {
	case ReprU8:
		return PrimU8, true
	case ReprU16:
		return PrimU16, true
	case ReprU32:
		return PrimU32, true
	case ReprU64:
		return PrimU64, true
	case ReprUSize:
		return PrimUSize, true
	case ReprI8:
		return PrimI8, true
	case ReprI16:
		return PrimI16, true
	case ReprI32:
		return PrimI32, true
	case ReprI64:
		return PrimI64, true
	case ReprISize:
		return PrimISize, true
	}
	return PrimInvalid, false
}

func (r Repr) String() string {
	for name, v := range reprNames {
		if v == r {
			return name
		}
	}
	return fmt.Sprintf("Repr(%d)", r)
}
