package rename

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RenameRule is a casing convention applied to member and argument names.
type RenameRule uint8

const (
	RuleNone RenameRule = iota
	// RuleGeckoCase prefixes PascalCase with a role letter: m for members,
	// a for arguments, e for enum variants.
	RuleGeckoCase
	RuleLowerCase
	RuleUpperCase
	RulePascalCase
	RuleCamelCase
	RuleSnakeCase
	RuleScreamingSnakeCase
	// RuleQualifiedScreamingSnakeCase is ScreamingSnakeCase prefixed with the
	// enum name for variants.
	RuleQualifiedScreamingSnakeCase
)

var ruleNames = [...]string{
	RuleNone:                        "None",
	RuleGeckoCase:                   "GeckoCase",
	RuleLowerCase:                   "LowerCase",
	RuleUpperCase:                   "UpperCase",
	RulePascalCase:                  "PascalCase",
	RuleCamelCase:                   "CamelCase",
	RuleSnakeCase:                   "SnakeCase",
	RuleScreamingSnakeCase:          "ScreamingSnakeCase",
	RuleQualifiedScreamingSnakeCase: "QualifiedScreamingSnakeCase",
}

// ParseRule accepts the canonical spelling and a few aliases.
func ParseRule(s string) (RenameRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return RuleNone, nil
	case "geckocase", "mgeckocase":
		return RuleGeckoCase, nil
	case "lowercase", "lower_case":
		return RuleLowerCase, nil
	case "uppercase", "upper_case":
		return RuleUpperCase, nil
	case "pascalcase", "pascal_case":
		return RulePascalCase, nil
	case "camelcase", "camel_case":
		return RuleCamelCase, nil
	case "snakecase", "snake_case":
		return RuleSnakeCase, nil
	case "screamingsnakecase", "screaming_snake_case":
		return RuleScreamingSnakeCase, nil
	case "qualifiedscreamingsnakecase", "qualified_screaming_snake_case":
		return RuleQualifiedScreamingSnakeCase, nil
	}
	return RuleNone, fmt.Errorf("unknown rename rule %q", s)
}

func (r RenameRule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return fmt.Sprintf("RenameRule(%d)", r)
}

// IdentKind says what role the renamed identifier plays.
type IdentKind uint8

const (
	IdentStructMember IdentKind = iota
	IdentEnumVariant
	IdentFunctionArg
)

// IdentifierType is the context a rule is applied in. Enum carries the owning
// enum name for variants.
type IdentifierType struct {
	Kind IdentKind
	Enum string
}

func StructMember() IdentifierType { return IdentifierType{Kind: IdentStructMember} }
func FunctionArg() IdentifierType  { return IdentifierType{Kind: IdentFunctionArg} }
func EnumVariant(enum string) IdentifierType {
	return IdentifierType{Kind: IdentEnumVariant, Enum: enum}
}

// Apply renames name according to r. Input may be snake_case or PascalCase.
func (r RenameRule) Apply(name string, ctx IdentifierType) string {
	if r == RuleNone || name == "" {
		return name
	}
	words := splitWords(name)
	if len(words) == 0 {
		return name
	}
	// Casers keep state, so every call gets its own.
	lower := cases.Lower(language.Und)
	upper := cases.Upper(language.Und)
	switch r {
	case RuleGeckoCase:
		prefix := "m"
		switch ctx.Kind {
		case IdentFunctionArg:
			prefix = "a"
		case IdentEnumVariant:
			prefix = "e"
		}
		return prefix + pascal(words)
	case RuleLowerCase:
		return lower.String(strings.Join(words, ""))
	case RuleUpperCase:
		return upper.String(strings.Join(words, ""))
	case RulePascalCase:
		return pascal(words)
	case RuleCamelCase:
		return lower.String(words[0]) + pascal(words[1:])
	case RuleSnakeCase:
		return lower.String(strings.Join(words, "_"))
	case RuleScreamingSnakeCase:
		return upper.String(strings.Join(words, "_"))
	case RuleQualifiedScreamingSnakeCase:
		out := upper.String(strings.Join(words, "_"))
		if ctx.Kind == IdentEnumVariant && ctx.Enum != "" {
			return ctx.Enum + "_" + out
		}
		return out
	}
	return name
}

func pascal(words []string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range words {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// splitWords breaks an identifier on underscores and on lower-to-upper case
// transitions. Digits stay attached to the preceding word.
func splitWords(name string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, c := range runes {
		switch {
		case c == '_':
			flush()
		case unicode.IsUpper(c) && len(cur) > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
			cur = append(cur, c)
		default:
			cur = append(cur, c)
		}
	}
	flush()
	return words
}

// UnmarshalText lets configuration files spell rules by name.
func (r *RenameRule) UnmarshalText(text []byte) error {
	parsed, err := ParseRule(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r RenameRule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
