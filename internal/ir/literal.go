package ir

import (
	"strconv"
	"strings"
)

// LiteralExpr is the already-rendered value of a constant.
type LiteralExpr struct {
	Text string
}

func LiteralString(s string) LiteralExpr {
	q := strconv.Quote(s)
	return LiteralExpr{Text: "u8" + q}
}

func LiteralByte(v uint8) LiteralExpr {
	return LiteralExpr{Text: strconv.FormatUint(uint64(v), 10)}
}

// LiteralChar renders printable ASCII as a C character literal and anything
// else as its code point.
func LiteralChar(r rune) LiteralExpr {
	if r >= 0x20 && r < 0x7f && r != '\'' && r != '\\' {
		return LiteralExpr{Text: "'" + string(r) + "'"}
	}
	return LiteralExpr{Text: strconv.FormatInt(int64(r), 10)}
}

func LiteralInt(v int64) LiteralExpr {
	return LiteralExpr{Text: strconv.FormatInt(v, 10)}
}

func LiteralUint(v uint64) LiteralExpr {
	return LiteralExpr{Text: strconv.FormatUint(v, 10)}
}

func LiteralFloat(v float64) LiteralExpr {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return LiteralExpr{Text: s}
}

func LiteralBool(v bool) LiteralExpr {
	return LiteralExpr{Text: strconv.FormatBool(v)}
}

func (l LiteralExpr) String() string { return l.Text }
