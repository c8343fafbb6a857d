package declset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"bindgen/internal/ir"
)

// ErrSyntax marks a malformed type or cfg expression.
var ErrSyntax = errors.New("syntax error")

type tokKind uint8

const (
	tokEOF tokKind = iota
	tokIdent
	tokNumber
	tokString
	tokPunct
)

type tok struct {
	kind tokKind
	text string
	pos  int
}

func (t tok) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return strconv.Quote(t.text)
}

var puncts = []string{"->", "::", ":", "(", ")", "<", ">", "[", "]", ",", ";", "*", "&", "="}

// tokenize splits src into identifiers, numbers, quoted strings and
// punctuation. Whitespace only separates tokens.
func tokenize(src string) ([]tok, error) {
	var out []tok
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '_' || unicode.IsLetter(r):
			start := i
			for i < len(src) {
				r, size = utf8.DecodeRuneInString(src[i:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				i += size
			}
			out = append(out, tok{kind: tokIdent, text: src[start:i], pos: start})
		case unicode.IsDigit(r):
			start := i
			for i < len(src) && (isDigitByte(src[i]) || src[i] == '_' || src[i] == 'x' || isHexByte(src[i])) {
				i++
			}
			out = append(out, tok{kind: tokNumber, text: src[start:i], pos: start})
		case r == '"':
			start := i
			i++
			for i < len(src) && src[i] != '"' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(src) {
				return nil, fmt.Errorf("%w: unterminated string at offset %d", ErrSyntax, start)
			}
			i++
			text, err := strconv.Unquote(src[start:i])
			if err != nil {
				return nil, fmt.Errorf("%w: bad string at offset %d: %v", ErrSyntax, start, err)
			}
			out = append(out, tok{kind: tokString, text: text, pos: start})
		default:
			matched := false
			for _, p := range puncts {
				if strings.HasPrefix(src[i:], p) {
					out = append(out, tok{kind: tokPunct, text: p, pos: i})
					i += len(p)
					matched = true
					break
				}
			}
			if !matched {
				return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, r, i)
			}
		}
	}
	return append(out, tok{kind: tokEOF, pos: len(src)}), nil
}

func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

func isHexByte(b byte) bool {
	return (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

type parser struct {
	src  string
	toks []tok
	i    int
}

func newParser(src string) (*parser, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	return &parser{src: src, toks: toks}, nil
}

func (p *parser) peek() tok { return p.toks[p.i] }

func (p *parser) next() tok {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

// accept consumes the next token when it is the punctuation or keyword text.
func (p *parser) accept(text string) bool {
	t := p.peek()
	if (t.kind == tokPunct || t.kind == tokIdent) && t.text == text {
		p.i++
		return true
	}
	return false
}

func (p *parser) expect(text string) error {
	if p.accept(text) {
		return nil
	}
	return p.errorf("expected %q, found %s", text, p.peek())
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w in %q at offset %d: %s", ErrSyntax, p.src, p.peek().pos, fmt.Sprintf(format, args...))
}

func (p *parser) end() error {
	if t := p.peek(); t.kind != tokEOF {
		return p.errorf("unexpected %s", t)
	}
	return nil
}

// ParseType reads a type written in the declaration-set syntax:
//
//	i32  ()  Foo  Foo<i32, *const Bar>  *const T  *mut T  &T  &mut T
//	[u8; 16]  fn(i32, *mut c_void) -> bool  std::os::raw::c_int
func ParseType(src string) (ir.Type, error) {
	p, err := newParser(src)
	if err != nil {
		return ir.Type{}, err
	}
	t, err := p.parseType()
	if err != nil {
		return ir.Type{}, err
	}
	if err := p.end(); err != nil {
		return ir.Type{}, err
	}
	return t, nil
}

func (p *parser) parseType() (ir.Type, error) {
	switch {
	case p.accept("("):
		if err := p.expect(")"); err != nil {
			return ir.Type{}, err
		}
		return ir.Void(), nil
	case p.accept("*"):
		mutable := false
		switch {
		case p.accept("mut"):
			mutable = true
		case p.accept("const"):
		default:
			return ir.Type{}, p.errorf("raw pointer needs const or mut")
		}
		elem, err := p.parseType()
		if err != nil {
			return ir.Type{}, err
		}
		if mutable {
			return ir.Ptr(elem), nil
		}
		return ir.ConstPtr(elem), nil
	case p.accept("&"):
		mutable := p.accept("mut")
		elem, err := p.parseType()
		if err != nil {
			return ir.Type{}, err
		}
		if mutable {
			return ir.Ptr(elem), nil
		}
		return ir.ConstPtr(elem), nil
	case p.accept("["):
		return p.parseArray()
	case p.peek().kind == tokIdent && p.peek().text == "fn":
		p.next()
		return p.parseFn()
	case p.peek().kind == tokIdent && p.peek().text == "extern":
		// extern "C" fn(..)
		p.next()
		if t := p.peek(); t.kind == tokString {
			p.next()
		}
		if err := p.expect("fn"); err != nil {
			return ir.Type{}, err
		}
		return p.parseFn()
	case p.peek().kind == tokIdent:
		return p.parsePath()
	}
	return ir.Type{}, p.errorf("expected a type, found %s", p.peek())
}

func (p *parser) parseArray() (ir.Type, error) {
	elem, err := p.parseType()
	if err != nil {
		return ir.Type{}, err
	}
	if err := p.expect(";"); err != nil {
		return ir.Type{}, err
	}
	n := p.next()
	if n.kind != tokNumber && n.kind != tokIdent {
		return ir.Type{}, p.errorf("array length must be a number or a constant name, found %s", n)
	}
	length := strings.ReplaceAll(n.text, "_", "")
	if n.kind == tokIdent {
		length = n.text
	}
	if err := p.expect("]"); err != nil {
		return ir.Type{}, err
	}
	return ir.Array(elem, length), nil
}

func (p *parser) parseFn() (ir.Type, error) {
	if err := p.expect("("); err != nil {
		return ir.Type{}, err
	}
	var params []ir.Type
	for !p.accept(")") {
		if len(params) > 0 {
			if err := p.expect(","); err != nil {
				return ir.Type{}, err
			}
			if p.accept(")") {
				break
			}
		}
		// named parameters are allowed and ignored: fn(len: usize)
		if p.peek().kind == tokIdent && p.toks[p.i+1].text == ":" {
			p.i += 2
		}
		t, err := p.parseType()
		if err != nil {
			return ir.Type{}, err
		}
		params = append(params, t)
	}
	ret := ir.Void()
	if p.accept("->") {
		t, err := p.parseType()
		if err != nil {
			return ir.Type{}, err
		}
		ret = t
	}
	return ir.FuncPtr(ret, params...), nil
}

func (p *parser) parsePath() (ir.Type, error) {
	name := p.next().text
	for p.accept("::") {
		seg := p.next()
		if seg.kind != tokIdent {
			return ir.Type{}, p.errorf("expected a path segment, found %s", seg)
		}
		name = seg.text
	}

	var args []ir.Type
	if p.accept("<") {
		for {
			t, err := p.parseType()
			if err != nil {
				return ir.Type{}, err
			}
			args = append(args, t)
			if p.accept(">") {
				break
			}
			if err := p.expect(","); err != nil {
				return ir.Type{}, err
			}
		}
	}

	if len(args) == 0 {
		if prim, ok := ir.ParsePrimitive(name); ok {
			return ir.Prim(prim), nil
		}
	}
	return ir.Named(name, args...), nil
}

// ParseCfg reads a predicate such as `unix`, `feature = "x"` or
// `all(unix, not(target_os = "macos"))`.
func ParseCfg(src string) (*ir.Cfg, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	c, err := p.parseCfg()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (p *parser) parseCfg() (ir.Cfg, error) {
	t := p.next()
	if t.kind != tokIdent {
		return ir.Cfg{}, p.errorf("expected a cfg predicate, found %s", t)
	}

	kinds := map[string]ir.CfgKind{"all": ir.CfgAll, "any": ir.CfgAny, "not": ir.CfgNot}
	if kind, ok := kinds[t.text]; ok && p.accept("(") {
		c := ir.Cfg{Kind: kind}
		for !p.accept(")") {
			if len(c.Children) > 0 {
				if err := p.expect(","); err != nil {
					return ir.Cfg{}, err
				}
				if p.accept(")") {
					break
				}
			}
			child, err := p.parseCfg()
			if err != nil {
				return ir.Cfg{}, err
			}
			c.Children = append(c.Children, child)
		}
		if kind == ir.CfgNot && len(c.Children) != 1 {
			return ir.Cfg{}, p.errorf("not() takes exactly one predicate")
		}
		return c, nil
	}

	if p.accept("=") {
		v := p.next()
		if v.kind != tokString {
			return ir.Cfg{}, p.errorf("expected a quoted value, found %s", v)
		}
		return *ir.CfgKeyValue(t.text, v.text), nil
	}
	return *ir.CfgFlag(t.text), nil
}
