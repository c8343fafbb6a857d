package ir

// PrimitiveType enumerates the scalar types a header can name directly.
type PrimitiveType uint8

const (
	PrimInvalid PrimitiveType = iota
	PrimVoid
	PrimBool
	PrimChar
	PrimCChar
	PrimCSChar
	PrimCUChar
	PrimCShort
	PrimCUShort
	PrimCInt
	PrimCUInt
	PrimCLong
	PrimCULong
	PrimCLongLong
	PrimCULongLong
	PrimCFloat
	PrimCDouble
	PrimCVoid
	PrimI8
	PrimI16
	PrimI32
	PrimI64
	PrimU8
	PrimU16
	PrimU32
	PrimU64
	PrimISize
	PrimUSize
	PrimF32
	PrimF64
)

type primitiveInfo struct {
	name  string
	cname string
}

var primitives = [...]primitiveInfo{
	PrimInvalid:    {"<invalid>", "<invalid>"},
	PrimVoid:       {"()", "void"},
	PrimBool:       {"bool", "bool"},
	PrimChar:       {"char", "uint32_t"},
	PrimCChar:      {"c_char", "char"},
	PrimCSChar:     {"c_schar", "signed char"},
	PrimCUChar:     {"c_uchar", "unsigned char"},
	PrimCShort:     {"c_short", "short"},
	PrimCUShort:    {"c_ushort", "unsigned short"},
	PrimCInt:       {"c_int", "int"},
	PrimCUInt:      {"c_uint", "unsigned int"},
	PrimCLong:      {"c_long", "long"},
	PrimCULong:     {"c_ulong", "unsigned long"},
	PrimCLongLong:  {"c_longlong", "long long"},
	PrimCULongLong: {"c_ulonglong", "unsigned long long"},
	PrimCFloat:     {"c_float", "float"},
	PrimCDouble:    {"c_double", "double"},
	PrimCVoid:      {"c_void", "void"},
	PrimI8:         {"i8", "int8_t"},
	PrimI16:        {"i16", "int16_t"},
	PrimI32:        {"i32", "int32_t"},
	PrimI64:        {"i64", "int64_t"},
	PrimU8:         {"u8", "uint8_t"},
	PrimU16:        {"u16", "uint16_t"},
	PrimU32:        {"u32", "uint32_t"},
	PrimU64:        {"u64", "uint64_t"},
	PrimISize:      {"isize", "intptr_t"},
	PrimUSize:      {"usize", "uintptr_t"},
	PrimF32:        {"f32", "float"},
	PrimF64:        {"f64", "double"},
}

var primitiveByName = func() map[string]PrimitiveType {
	m := make(map[string]PrimitiveType, len(primitives))
	for i := PrimVoid; int(i) < len(primitives); i++ {
		m[primitives[i].name] = i
	}
	return m
}()

// ParsePrimitive maps a source spelling ("i32", "c_char", "()") to a primitive.
func ParsePrimitive(name string) (PrimitiveType, bool) {
	p, ok := primitiveByName[name]
	return p, ok
}

// String returns the source spelling.
func (p PrimitiveType) String() string {
	if int(p) >= len(primitives) {
		return primitives[PrimInvalid].name
	}
	return primitives[p].name
}

// CName returns the C spelling.
func (p PrimitiveType) CName() string {
	if int(p) >= len(primitives) {
		return primitives[PrimInvalid].cname
	}
	return primitives[p].cname
}

// IsVoid reports whether p denotes the zero sized unit type.
func (p PrimitiveType) IsVoid() bool {
	return p == PrimVoid
}
