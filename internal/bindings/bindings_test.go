package bindings

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"bindgen/internal/config"
	"bindgen/internal/ir"
)

func TestDeclarators(t *testing.T) {
	cases := []struct {
		ty   ir.Type
		name string
		want string
	}{
		{ir.Prim(ir.PrimI32), "x", "int32_t x"},
		{ir.Array(ir.Ptr(ir.Prim(ir.PrimI32)), "4"), "xs", "int32_t *xs[4]"},
		{ir.Ptr(ir.Array(ir.Prim(ir.PrimI32), "4")), "p", "int32_t (*p)[4]"},
		{ir.ConstPtr(ir.Ptr(ir.Prim(ir.PrimCChar))), "argv", "char *const *argv"},
		{ir.FuncPtr(ir.Prim(ir.PrimBool), ir.Prim(ir.PrimI32), ir.Prim(ir.PrimI32)), "", "bool (*)(int32_t, int32_t)"},
		{ir.FuncPtr(ir.Void()), "cb", "void (*cb)(void)"},
	}
	for _, tc := range cases {
		if got := declarator(config.LangC, tc.ty, tc.name); got != tc.want {
			t.Fatalf("declarator(%s, %q) = %q, want %q", tc.ty, tc.name, got, tc.want)
		}
	}
	if got := declarator(config.LangCxx, ir.Named("Pair", ir.Prim(ir.PrimI32)), "p"); got != "Pair<int32_t> p" {
		t.Fatalf("C++ generic declarator = %q", got)
	}
}

func TestWriteC(t *testing.T) {
	cfg := config.Default()
	cfg.IncludeGuard = "TEST_H"
	cfg.NoIncludes = true

	green := int64(4)
	b := New(cfg,
		[]*ir.Item{ir.NewConstant("MAX", ir.Prim(ir.PrimI32), ir.LiteralInt(8), ir.Metadata{})},
		[]*ir.Item{
			ir.NewStatic("COUNTER", ir.Prim(ir.PrimU32), true, ir.Metadata{}),
			ir.NewStatic("NAME", ir.ConstPtr(ir.Prim(ir.PrimCChar)), false, ir.Metadata{}),
		},
		[]*ir.Item{
			ir.NewOpaque("Handle", nil, ir.Metadata{}),
			ir.NewStruct("Pair_i32", nil, []ir.Field{
				{Name: "a", Ty: ir.Prim(ir.PrimI32)},
				{Name: "b", Ty: ir.Prim(ir.PrimI32)},
			}, false, ir.Metadata{Documentation: ir.Documentation{"A pair."}}),
			ir.NewEnum("Color", nil, ir.ReprU8, []ir.EnumVariant{
				{Name: "Red"},
				{Name: "Green", Discriminant: &green},
			}, ir.Metadata{}),
			ir.NewTypedef("Callback", nil, ir.FuncPtr(ir.Void(), ir.Ptr(ir.Named("Handle"))), ir.Metadata{}),
		},
		[]*ir.Function{
			{Name: "sum", Ret: ir.Prim(ir.PrimI32), Args: []ir.FuncArg{{Name: "p", Ty: ir.ConstPtr(ir.Named("Pair_i32"))}}},
			{Name: "reset", Ret: ir.Void()},
		},
	)

	want := `#ifndef TEST_H
#define TEST_H

#define MAX 8

typedef struct Handle Handle;

/// A pair.
typedef struct {
  int32_t a;
  int32_t b;
} Pair_i32;

enum Color {
  Red,
  Green = 4,
};
typedef uint8_t Color;

typedef void (*Callback)(Handle *);

extern uint32_t COUNTER;

extern const char *const NAME;

int32_t sum(const Pair_i32 *p);

void reset(void);

#endif  /* TEST_H */
`
	var out bytes.Buffer
	if err := b.Write(&out); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if out.String() != want {
		t.Fatalf("header mismatch:\n--- got ---\n%s\n--- want ---\n%s", out.String(), want)
	}
}

func TestWriteCxx(t *testing.T) {
	cfg := config.Default()
	cfg.Language = config.LangCxx
	cfg.NoIncludes = true

	b := New(cfg,
		[]*ir.Item{ir.NewConstant("LIMIT", ir.Prim(ir.PrimU16), ir.LiteralUint(3), ir.Metadata{})},
		nil,
		[]*ir.Item{
			ir.NewStruct("Pair", ir.GenericParams{"T"}, []ir.Field{
				{Name: "first", Ty: ir.Named("T")},
				{Name: "second", Ty: ir.Named("T")},
			}, false, ir.Metadata{}),
			ir.NewEnum("Shape", nil, ir.ReprU8, []ir.EnumVariant{
				{Name: "Point"},
				{Name: "Circle", Body: []ir.Field{{Name: "radius", Ty: ir.Prim(ir.PrimF32)}}},
			}, ir.Metadata{}),
			ir.NewTypedef("IntPair", nil, ir.Named("Pair", ir.Prim(ir.PrimI32)), ir.Metadata{}),
		},
		[]*ir.Function{
			{Name: "area", Ret: ir.Prim(ir.PrimF32), Args: []ir.FuncArg{{Name: "s", Ty: ir.ConstPtr(ir.Named("Shape"))}}},
		},
	)

	want := `static const uint16_t LIMIT = 3;

template<typename T>
struct Pair {
  T first;
  T second;
};

enum class Shape_Tag : uint8_t {
  Point,
  Circle,
};

struct Shape_Circle_Body {
  float radius;
};

struct Shape {
  Shape_Tag tag;
  union {
    Shape_Circle_Body circle;
  };
};

using IntPair = Pair<int32_t>;

extern "C" {

float area(const Shape *s);

}  // extern "C"
`
	if got := string(b.Render()); got != want {
		t.Fatalf("header mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestCfgGuards(t *testing.T) {
	cfg := config.Default()
	cfg.NoIncludes = true
	cfg.Documentation = false
	cfg.Defines = map[string]string{"unix": "PLATFORM_UNIX"}

	b := New(cfg, nil, nil, []*ir.Item{
		ir.NewOpaque("Fd", nil, ir.Metadata{Cfg: ir.CfgFlag("unix"), Documentation: ir.Documentation{"hidden"}}),
		ir.NewOpaque("Handle", nil, ir.Metadata{Cfg: ir.CfgFlag("windows")}),
	}, nil)

	want := `#if defined(PLATFORM_UNIX)
typedef struct Fd Fd;
#endif

typedef struct Handle Handle;
`
	if got := string(b.Render()); got != want {
		t.Fatalf("header mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestWriteFileSkipsUnchanged(t *testing.T) {
	cfg := config.Default()
	b := New(cfg, nil, nil, []*ir.Item{ir.NewOpaque("Handle", nil, ir.Metadata{})}, nil)
	path := filepath.Join(t.TempDir(), "out.h")

	wrote, err := b.WriteFile(path)
	if err != nil || !wrote {
		t.Fatalf("first WriteFile = %v, %v", wrote, err)
	}
	wrote, err = b.WriteFile(path)
	if err != nil || wrote {
		t.Fatalf("second WriteFile = %v, %v", wrote, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Contains(data, []byte("#include <stdint.h>")) {
		t.Fatalf("default includes missing:\n%s", data)
	}
}
