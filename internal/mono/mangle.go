package mono

import (
	"fmt"
	"strings"

	"bindgen/internal/ir"
)

// Separators are runs of underscores whose length encodes the structure of
// the argument list. Closing runs at the very end of a name are omitted, so
// Pair<i32> mangles to Pair_i32.
//
// Underscores inside names are written as "_0" and other bytes outside
// [A-Za-z0-9] as "_9" plus two hex digits, so an underscore followed by 0 or 9
// never separates. Type constructors start with 1, which no name can.
const (
	sepOpen  = "_"
	sepComma = "__"
	sepClose = "___"

	escUnderscore = "_0"
	escByte       = "_9"

	tokPtr      = "1Ptr"
	tokConstPtr = "1ConstPtr"
	tokArray    = "1Array"
	tokFn       = "1Fn"
	tokRet      = "1Ret"
	tokLen      = "N"
)

// Mangle encodes a generic path into a flat identifier. The result depends on
// the path alone, and distinct paths never share a result.
func Mangle(p ir.GenericPath) string {
	var b strings.Builder
	writePath(&b, p, true)
	return b.String()
}

func writePath(b *strings.Builder, p ir.GenericPath, last bool) {
	writeName(b, p.Name)
	if len(p.Args) == 0 {
		return
	}
	b.WriteString(sepOpen)
	for i := range p.Args {
		if i > 0 {
			b.WriteString(sepComma)
		}
		writeType(b, p.Args[i], last && i == len(p.Args)-1)
	}
	if !last {
		b.WriteString(sepClose)
	}
}

func writeType(b *strings.Builder, t ir.Type, last bool) {
	switch t.Kind {
	case ir.TypePrimitive:
		if t.Prim.IsVoid() {
			b.WriteString("void")
			return
		}
		writeName(b, t.Prim.String())
	case ir.TypePath:
		writePath(b, t.Path, last)
	case ir.TypePtr:
		b.WriteString(tokPtr + sepOpen)
		writeType(b, *t.Elem, last)
	case ir.TypeConstPtr:
		b.WriteString(tokConstPtr + sepOpen)
		writeType(b, *t.Elem, last)
	case ir.TypeArray:
		b.WriteString(tokArray + sepOpen)
		writeType(b, *t.Elem, false)
		b.WriteString(sepComma + tokLen)
		writeName(b, strings.ReplaceAll(t.Len, " ", ""))
	case ir.TypeFuncPtr:
		b.WriteString(tokFn + sepOpen)
		for i := range t.Params {
			writeType(b, t.Params[i], false)
			b.WriteString(sepComma)
		}
		b.WriteString(tokRet + sepOpen)
		writeType(b, *t.Ret, last)
	default:
		b.WriteString("invalid")
	}
}

// writeName writes s with every byte outside [A-Za-z0-9] escaped.
func writeName(b *strings.Builder, s string) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case c == '_':
			b.WriteString(escUnderscore)
		default:
			fmt.Fprintf(b, "%s%02x", escByte, c)
		}
	}
}
