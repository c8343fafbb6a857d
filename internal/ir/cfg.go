package ir

import (
	"fmt"
	"strings"
)

// CfgKind enumerates the node kinds of a configuration predicate.
type CfgKind uint8

const (
	// CfgBoolean is a bare flag such as `unix`.
	CfgBoolean CfgKind = iota + 1
	// CfgNamed is a key/value test such as `feature = "x"`.
	CfgNamed
	CfgAny
	CfgAll
	CfgNot
)

// Cfg is a conditional-compilation predicate attached to a declaration.
type Cfg struct {
	Kind     CfgKind
	Key      string
	Value    string
	Children []Cfg
}

func CfgFlag(name string) *Cfg {
	return &Cfg{Kind: CfgBoolean, Key: name}
}

func CfgKeyValue(key, value string) *Cfg {
	return &Cfg{Kind: CfgNamed, Key: key, Value: value}
}

// CfgJoin combines an outer (module level) predicate with an item predicate.
func CfgJoin(outer, inner *Cfg) *Cfg {
	switch {
	case outer == nil && inner == nil:
		return nil
	case outer == nil:
		c := inner.Clone()
		return &c
	case inner == nil:
		c := outer.Clone()
		return &c
	}
	return &Cfg{Kind: CfgAll, Children: []Cfg{outer.Clone(), inner.Clone()}}
}

func (c Cfg) Clone() Cfg {
	out := c
	if len(c.Children) > 0 {
		out.Children = make([]Cfg, len(c.Children))
		for i := range c.Children {
			out.Children[i] = c.Children[i].Clone()
		}
	}
	return out
}

func (c Cfg) String() string {
	switch c.Kind {
	case CfgBoolean:
		return c.Key
	case CfgNamed:
		return fmt.Sprintf("%s = %q", c.Key, c.Value)
	case CfgAny, CfgAll, CfgNot:
		parts := make([]string, len(c.Children))
		for i := range c.Children {
			parts[i] = c.Children[i].String()
		}
		op := map[CfgKind]string{CfgAny: "any", CfgAll: "all", CfgNot: "not"}[c.Kind]
		return op + "(" + strings.Join(parts, ", ") + ")"
	}
	return "<invalid cfg>"
}

// Condition renders c as a C preprocessor condition. defines maps predicate
// spellings (`unix`, `feature = cool`) to the macro that stands for them.
func (c Cfg) Condition(defines map[string]string) (string, error) {
	switch c.Kind {
	case CfgBoolean:
		if def, ok := defines[c.Key]; ok {
			return "defined(" + def + ")", nil
		}
		return "", fmt.Errorf("no define for cfg %q", c.Key)
	case CfgNamed:
		key := c.Key + " = " + c.Value
		if def, ok := defines[key]; ok {
			return "defined(" + def + ")", nil
		}
		return "", fmt.Errorf("no define for cfg %q", key)
	case CfgNot:
		if len(c.Children) != 1 {
			return "", fmt.Errorf("not() takes one predicate, got %d", len(c.Children))
		}
		inner, err := c.Children[0].Condition(defines)
		if err != nil {
			return "", err
		}
		return "!" + inner, nil
	case CfgAny, CfgAll:
		sep := " || "
		if c.Kind == CfgAll {
			sep = " && "
		}
		parts := make([]string, 0, len(c.Children))
		for i := range c.Children {
			p, err := c.Children[i].Condition(defines)
			if err != nil {
				return "", err
			}
			parts = append(parts, p)
		}
		if len(parts) == 1 {
			return parts[0], nil
		}
		return "(" + strings.Join(parts, sep) + ")", nil
	}
	return "", fmt.Errorf("invalid cfg kind %d", c.Kind)
}
