package ir

import "sort"

// AnnotationKind distinguishes the value shapes an annotation can carry.
type AnnotationKind uint8

const (
	AnnotationAtom AnnotationKind = iota + 1
	AnnotationList
	AnnotationBool
)

type AnnotationValue struct {
	Kind AnnotationKind
	Atom string
	List []string
	Bool bool
}

func AtomValue(s string) AnnotationValue { return AnnotationValue{Kind: AnnotationAtom, Atom: s} }

func ListValue(items ...string) AnnotationValue {
	return AnnotationValue{Kind: AnnotationList, List: items}
}

func BoolValue(v bool) AnnotationValue { return AnnotationValue{Kind: AnnotationBool, Bool: v} }

// AnnotationSet holds per-declaration directives (rename-all, field-names, ...).
// The zero value is an empty set.
type AnnotationSet struct {
	entries map[string]AnnotationValue
}

func (a AnnotationSet) IsEmpty() bool {
	return len(a.entries) == 0
}

func (a AnnotationSet) Len() int {
	return len(a.entries)
}

func (a *AnnotationSet) Set(key string, v AnnotationValue) {
	if a.entries == nil {
		a.entries = make(map[string]AnnotationValue)
	}
	a.entries[key] = v
}

func (a AnnotationSet) Get(key string) (AnnotationValue, bool) {
	v, ok := a.entries[key]
	return v, ok
}

func (a AnnotationSet) Atom(key string) (string, bool) {
	v, ok := a.entries[key]
	if !ok || v.Kind != AnnotationAtom {
		return "", false
	}
	return v.Atom, true
}

func (a AnnotationSet) List(key string) ([]string, bool) {
	v, ok := a.entries[key]
	if !ok || v.Kind != AnnotationList {
		return nil, false
	}
	return v.List, true
}

func (a AnnotationSet) Bool(key string) (bool, bool) {
	v, ok := a.entries[key]
	if !ok || v.Kind != AnnotationBool {
		return false, false
	}
	return v.Bool, true
}

// Keys returns the annotation keys in sorted order.
func (a AnnotationSet) Keys() []string {
	keys := make([]string, 0, len(a.entries))
	for k := range a.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (a AnnotationSet) Clone() AnnotationSet {
	if len(a.entries) == 0 {
		return AnnotationSet{}
	}
	out := AnnotationSet{entries: make(map[string]AnnotationValue, len(a.entries))}
	for k, v := range a.entries {
		if v.List != nil {
			v.List = append([]string(nil), v.List...)
		}
		out.entries[k] = v
	}
	return out
}
