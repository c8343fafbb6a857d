package ir

// FuncArg is one parameter of an exported function.
type FuncArg struct {
	Name string
	Ty   Type
}

// Function is an exported function signature. Functions live in an ordered
// list beside the registry, never inside it.
type Function struct {
	Name string
	Ret  Type
	Args []FuncArg
	Meta Metadata
}

func (f *Function) Cfg() *Cfg {
	return f.Meta.Cfg
}

// ForEachType calls fn for every argument type, then the return type.
func (f *Function) ForEachType(fn func(*Type)) {
	for i := range f.Args {
		fn(&f.Args[i].Ty)
	}
	fn(&f.Ret)
}

// VisitEdges reports every declaration mentioned by the signature.
func (f *Function) VisitEdges(fn func(name string, byValue bool)) {
	f.ForEachType(func(t *Type) { t.VisitEdges(nil, fn) })
}

func (f *Function) Clone() *Function {
	out := &Function{Name: f.Name, Ret: f.Ret.Clone(), Meta: f.Meta.Clone()}
	if len(f.Args) > 0 {
		out.Args = make([]FuncArg, len(f.Args))
		for i, a := range f.Args {
			out.Args[i] = FuncArg{Name: a.Name, Ty: a.Ty.Clone()}
		}
	}
	return out
}
