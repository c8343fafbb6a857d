package declset

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"bindgen/internal/ir"
)

// literal converts a decoded constant value for a constant of type ty. TOML
// decodes integers as int64; msgpack picks the narrowest integer type, so
// every integer kind is accepted.
func literal(ty ir.Type, value any) (ir.LiteralExpr, error) {
	switch v := value.(type) {
	case nil:
		return ir.LiteralExpr{}, fmt.Errorf("missing value")
	case bool:
		return ir.LiteralBool(v), nil
	case string:
		return stringLiteral(ty, v)
	case float32:
		return ir.LiteralFloat(float64(v)), nil
	case float64:
		return ir.LiteralFloat(v), nil
	case int:
		return intLiteral(ty, int64(v))
	case int8:
		return intLiteral(ty, int64(v))
	case int16:
		return intLiteral(ty, int64(v))
	case int32:
		return intLiteral(ty, int64(v))
	case int64:
		return intLiteral(ty, v)
	case uint:
		return uintLiteral(ty, uint64(v))
	case uint8:
		return uintLiteral(ty, uint64(v))
	case uint16:
		return uintLiteral(ty, uint64(v))
	case uint32:
		return uintLiteral(ty, uint64(v))
	case uint64:
		return uintLiteral(ty, v)
	}
	return ir.LiteralExpr{}, fmt.Errorf("unsupported literal expression of type %T", value)
}

func stringLiteral(ty ir.Type, s string) (ir.LiteralExpr, error) {
	switch {
	case ty.Kind == ir.TypePrimitive && ty.Prim == ir.PrimChar:
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError || size != len(s) {
			return ir.LiteralExpr{}, fmt.Errorf("char constant needs exactly one character, got %q", s)
		}
		return ir.LiteralChar(r), nil
	case ty.Kind == ir.TypePrimitive && ty.Prim == ir.PrimU8:
		if len(s) != 1 {
			return ir.LiteralExpr{}, fmt.Errorf("byte constant needs exactly one byte, got %q", s)
		}
		return ir.LiteralByte(s[0]), nil
	case ty.IsPointerLike() && ty.Elem != nil && ty.Elem.Kind == ir.TypePrimitive &&
		(ty.Elem.Prim == ir.PrimCChar || ty.Elem.Prim == ir.PrimU8):
		return ir.LiteralString(s), nil
	}
	return ir.LiteralExpr{}, fmt.Errorf("string literal does not fit type %s", ty)
}

func intLiteral(ty ir.Type, v int64) (ir.LiteralExpr, error) {
	if v >= 0 {
		return uintLiteral(ty, uint64(v))
	}
	if ty.Kind != ir.TypePrimitive {
		return ir.LiteralExpr{}, fmt.Errorf("integer literal does not fit type %s", ty)
	}
	var err error
	switch ty.Prim {
	case ir.PrimI8, ir.PrimCSChar, ir.PrimCChar:
		_, err = safecast.Conv[int8](v)
	case ir.PrimI16, ir.PrimCShort:
		_, err = safecast.Conv[int16](v)
	case ir.PrimI32, ir.PrimCInt:
		_, err = safecast.Conv[int32](v)
	case ir.PrimI64, ir.PrimISize, ir.PrimCLong, ir.PrimCLongLong:
	case ir.PrimF32, ir.PrimF64, ir.PrimCFloat, ir.PrimCDouble:
		return ir.LiteralFloat(float64(v)), nil
	default:
		return ir.LiteralExpr{}, fmt.Errorf("negative value %d for unsigned type %s", v, ty)
	}
	if err != nil {
		return ir.LiteralExpr{}, fmt.Errorf("value %d does not fit %s: %w", v, ty, err)
	}
	return ir.LiteralInt(v), nil
}

func uintLiteral(ty ir.Type, v uint64) (ir.LiteralExpr, error) {
	if ty.Kind != ir.TypePrimitive {
		return ir.LiteralExpr{}, fmt.Errorf("integer literal does not fit type %s", ty)
	}
	var err error
	switch ty.Prim {
	case ir.PrimU8, ir.PrimCUChar:
		_, err = safecast.Conv[uint8](v)
	case ir.PrimU16, ir.PrimCUShort:
		_, err = safecast.Conv[uint16](v)
	case ir.PrimU32, ir.PrimCUInt, ir.PrimChar:
		_, err = safecast.Conv[uint32](v)
	case ir.PrimU64, ir.PrimUSize, ir.PrimCULong, ir.PrimCULongLong:
	case ir.PrimI8, ir.PrimCSChar, ir.PrimCChar:
		_, err = safecast.Conv[int8](v)
	case ir.PrimI16, ir.PrimCShort:
		_, err = safecast.Conv[int16](v)
	case ir.PrimI32, ir.PrimCInt:
		_, err = safecast.Conv[int32](v)
	case ir.PrimI64, ir.PrimISize, ir.PrimCLong, ir.PrimCLongLong:
		_, err = safecast.Conv[int64](v)
	case ir.PrimF32, ir.PrimF64, ir.PrimCFloat, ir.PrimCDouble:
		if v > 1<<53 {
			return ir.LiteralExpr{}, fmt.Errorf("value %d loses precision as %s", v, ty)
		}
		return ir.LiteralFloat(float64(v)), nil
	case ir.PrimBool:
		if v > 1 {
			return ir.LiteralExpr{}, fmt.Errorf("value %d is not a bool", v)
		}
		return ir.LiteralBool(v == 1), nil
	default:
		return ir.LiteralExpr{}, fmt.Errorf("integer literal does not fit type %s", ty)
	}
	if err != nil {
		return ir.LiteralExpr{}, fmt.Errorf("value %d does not fit %s: %w", v, ty, err)
	}
	if isUnsigned(ty.Prim) {
		return ir.LiteralUint(v), nil
	}
	n, err := safecast.Conv[int64](v)
	if err != nil {
		return ir.LiteralExpr{}, fmt.Errorf("value %d does not fit %s: %w", v, ty, err)
	}
	return ir.LiteralInt(n), nil
}

func isUnsigned(p ir.PrimitiveType) bool {
	switch p {
	case ir.PrimU8, ir.PrimU16, ir.PrimU32, ir.PrimU64, ir.PrimUSize,
		ir.PrimCUChar, ir.PrimCUShort, ir.PrimCUInt, ir.PrimCULong, ir.PrimCULongLong, ir.PrimChar:
		return true
	}
	return false
}
