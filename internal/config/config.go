package config

import (
	"errors"
	"fmt"
	"strings"

	"bindgen/internal/mono"
	"bindgen/internal/rename"
)

// Language selects the header dialect.
type Language uint8

const (
	LangC Language = iota
	LangCxx
)

func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c":
		return LangC, nil
	case "c++", "cxx", "cpp":
		return LangCxx, nil
	}
	return LangC, fmt.Errorf("unknown language %q (expected: C|C++)", s)
}

func (l Language) String() string {
	if l == LangCxx {
		return "C++"
	}
	return "C"
}

// HasGenerics reports whether the dialect can express generic declarations
// directly. Without generics the pipeline monomorphizes.
func (l Language) HasGenerics() bool {
	return l == LangCxx
}

func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := ParseLanguage(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

type ExportConfig struct {
	Include []string          `toml:"include"`
	Exclude []string          `toml:"exclude"`
	Prefix  string            `toml:"prefix"`
	Rename  map[string]string `toml:"rename"`
}

// Excluded reports whether name is listed in export.exclude.
func (e ExportConfig) Excluded(name string) bool {
	for _, ex := range e.Exclude {
		if ex == name {
			return true
		}
	}
	return false
}

type FunctionConfig struct {
	RenameArgs rename.RenameRule `toml:"rename_args"`
}

type StructConfig struct {
	RenameFields rename.RenameRule `toml:"rename_fields"`
}

type UnionConfig struct {
	RenameFields rename.RenameRule `toml:"rename_fields"`
}

type EnumConfig struct {
	RenameVariants rename.RenameRule `toml:"rename_variants"`
	PrefixWithName bool              `toml:"prefix_with_name"`
}

type ConstantConfig struct {
	// AllowStaticConst emits `static const` in C++ instead of #define.
	AllowStaticConst bool `toml:"allow_static_const"`
}

type MonoConfig struct {
	MaxDepth int `toml:"max_depth"`
}

// Config is everything a run reads from bindgen.toml.
type Config struct {
	Language       Language `toml:"language"`
	Header         string   `toml:"header"`
	Trailer        string   `toml:"trailer"`
	IncludeGuard   string   `toml:"include_guard"`
	AutogenWarning string   `toml:"autogen_warning"`
	IncludeVersion bool     `toml:"include_version"`
	NoIncludes     bool     `toml:"no_includes"`
	SysIncludes    []string `toml:"sys_includes"`
	Includes       []string `toml:"includes"`
	Documentation  bool     `toml:"documentation"`
	TabWidth       int      `toml:"tab_width"`

	Export      ExportConfig      `toml:"export"`
	Function    FunctionConfig    `toml:"fn"`
	Structure   StructConfig      `toml:"struct"`
	Union       UnionConfig       `toml:"union"`
	Enumeration EnumConfig        `toml:"enum"`
	Constant    ConstantConfig    `toml:"const"`
	Defines     map[string]string `toml:"defines"`
	Mono        MonoConfig        `toml:"mono"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Language:      LangC,
		Documentation: true,
		TabWidth:      2,
		Constant:      ConstantConfig{AllowStaticConst: true},
		Mono:          MonoConfig{MaxDepth: mono.DefaultMaxDepth},
	}
}

var ErrInvalid = errors.New("invalid configuration")

// Validate checks values the decoder cannot check on its own.
func (c *Config) Validate() error {
	var problems []string
	if c.Language != LangC && c.Language != LangCxx {
		problems = append(problems, fmt.Sprintf("language: unknown value %d", c.Language))
	}
	if c.TabWidth < 0 || c.TabWidth > 16 {
		problems = append(problems, fmt.Sprintf("tab_width: %d out of range 0..16", c.TabWidth))
	}
	if c.Mono.MaxDepth < 0 {
		problems = append(problems, fmt.Sprintf("mono.max_depth: %d must not be negative", c.Mono.MaxDepth))
	}
	for from, to := range c.Export.Rename {
		if strings.TrimSpace(to) == "" {
			problems = append(problems, fmt.Sprintf("export.rename: %q maps to an empty name", from))
		}
	}
	for key, def := range c.Defines {
		if strings.TrimSpace(def) == "" {
			problems = append(problems, fmt.Sprintf("defines: %q maps to an empty macro", key))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}

// RenameOptions extracts what the rename pass needs.
func (c *Config) RenameOptions() rename.Options {
	return rename.Options{
		Prefix:                 c.Export.Prefix,
		Renames:                c.Export.Rename,
		StructFields:           c.Structure.RenameFields,
		UnionFields:            c.Union.RenameFields,
		EnumVariants:           c.Enumeration.RenameVariants,
		FnArgs:                 c.Function.RenameArgs,
		PrefixVariantsWithName: c.Enumeration.PrefixWithName,
	}
}

// MonoOptions extracts what the monomorphizer needs.
func (c *Config) MonoOptions() mono.Options {
	return mono.Options{MaxDepth: c.Mono.MaxDepth}
}
