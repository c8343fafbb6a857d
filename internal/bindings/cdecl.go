package bindings

import (
	"strings"

	"bindgen/internal/config"
	"bindgen/internal/ir"
)

// declarator renders t declaring name, which may be empty for an abstract
// declarator (function pointer parameters, template arguments).
func declarator(lang config.Language, t ir.Type, name string) string {
	return declare(lang, t, name, false)
}

// declare builds the declaration inside out: pointers prepend to inner,
// arrays and function pointers append, and the base type is written last.
func declare(lang config.Language, t ir.Type, inner string, isConst bool) string {
	constSpace := ""
	if isConst {
		constSpace = "const "
	}
	switch t.Kind {
	case ir.TypePtr:
		return declare(lang, *t.Elem, "*"+constSpace+inner, false)
	case ir.TypeConstPtr:
		return declare(lang, *t.Elem, "*"+constSpace+inner, true)
	case ir.TypeArray:
		if strings.HasPrefix(inner, "*") {
			inner = "(" + inner + ")"
		}
		return declare(lang, *t.Elem, inner+"["+t.Len+"]", isConst)
	case ir.TypeFuncPtr:
		params := make([]string, len(t.Params))
		for i := range t.Params {
			params[i] = declarator(lang, t.Params[i], "")
		}
		list := strings.Join(params, ", ")
		if list == "" {
			list = "void"
		}
		return declare(lang, *t.Ret, "(*"+constSpace+inner+")("+list+")", false)
	}
	base := constSpace + baseName(lang, t)
	if inner == "" {
		return base
	}
	return base + " " + inner
}

func baseName(lang config.Language, t ir.Type) string {
	switch t.Kind {
	case ir.TypePrimitive:
		return t.Prim.CName()
	case ir.TypePath:
		if len(t.Path.Args) == 0 || lang != config.LangCxx {
			return t.Path.Name
		}
		args := make([]string, len(t.Path.Args))
		for i := range t.Path.Args {
			args[i] = declarator(lang, t.Path.Args[i], "")
		}
		return t.Path.Name + "<" + strings.Join(args, ", ") + ">"
	}
	return "<invalid>"
}
