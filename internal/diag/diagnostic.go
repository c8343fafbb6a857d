package diag

import "fmt"

// Subject locates a diagnostic: the declaration-set file it came from and the
// declaration it concerns. Either part may be empty.
type Subject struct {
	File string
	Item string
}

func (s Subject) String() string {
	switch {
	case s.File == "" && s.Item == "":
		return "<unknown>"
	case s.File == "":
		return s.Item
	case s.Item == "":
		return s.File
	}
	return fmt.Sprintf("%s:%s", s.File, s.Item)
}

// IsZero reports whether the subject carries no location at all.
func (s Subject) IsZero() bool {
	return s == Subject{}
}

type Note struct {
	Subject Subject
	Msg     string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Subject
	Notes    []Note
}
