package ir

// Documentation is the doc comment of a declaration, one entry per line.
type Documentation []string

func (d Documentation) Clone() Documentation {
	if len(d) == 0 {
		return nil
	}
	return append(Documentation(nil), d...)
}

// Metadata is shared by every declaration kind.
type Metadata struct {
	Cfg           *Cfg
	Annotations   AnnotationSet
	Documentation Documentation
}

func (m Metadata) Clone() Metadata {
	out := Metadata{
		Annotations:   m.Annotations.Clone(),
		Documentation: m.Documentation.Clone(),
	}
	if m.Cfg != nil {
		c := m.Cfg.Clone()
		out.Cfg = &c
	}
	return out
}
