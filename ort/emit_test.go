package ort

import (
	"errors"
	"math"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		input    *Value
		expected string
	}{
		{"sections", Object(Field("name", Str("Ada")), Field("age", Number(36))), "name:\nAda\n\nage:\n36\n"},
		{"tabular", Object(Field("rows", Array(
			Object(Field("id", Number(1)), Field("tag", Str("x"))),
			Object(Field("id", Number(2)), Field("tag", Str("y"))),
		))), "rows:id,tag:\n1,x\n2,y\n"},
		{"nested tabular", Object(Field("people", Array(
			Object(Field("name", Str("Ada")), Field("addr", Object(Field("city", Str("London")), Field("zip", Str("N1"))))),
			Object(Field("name", Str("Bob")), Field("addr", Object(Field("city", Str("Paris")), Field("zip", Number(75001))))),
			Object(Field("name", Str("Eve")), Field("addr", Null())),
		))), "people:name,addr(city,zip):\nAda,(London,N1)\nBob,(Paris,75001)\nEve,\n"},
		{"simple array", Object(Field("tags", Array(Str("a"), Number(1), Null()))), "tags:\n[a,1,]\n"},
		{"inline object", Object(Field("meta", Object(Field("k", Str("v")), Field("n", Array())))), "meta:\n(k:v,n:[])\n"},
		{"null section", Object(Field("n", Null())), "n:\n\n"},
		{"empty object", Object(), ""},
		{"top-level scalar", Number(42), ":\n42\n"},
		{"top-level null", Null(), ":\n\n"},
		{"top-level string", Str("hi"), ":\nhi\n"},
		{"top-level array", Array(Number(1), Str("a")), ":[1,a]\n"},
		{"top-level empty array", Array(), ":[]\n"},
		{"top-level tabular", Array(
			Object(Field("id", Number(1))),
			Object(Field("id", Number(2))),
		), ":id:\n1\n2\n"},
		{"top-level single row", Array(Object(Field("id", Number(1)))), ":[(id:1)]\n"},
		{"escaped string", Object(Field("note", Str("a,b (c)"))), "note:\na\\,b \\(c\\)\n"},
		{"escaped key", Object(Field("a:b", Number(1))), "a\\:b:\n1\n"},
		{"comment-like value", Object(Field("v", Str("#x"))), "v:\n\\#x\n"},
		{"header-like value", Object(Field("v", Str("x:"))), "v:\nx\\:\n"},
		{"header-like value with trailing space", Object(Field("v", Str("x: "))), "v:\nx\\: \n"},
		{"empty key", Object(Field("", Number(1)), Field("b", Number(2))), ":(:1,b:2)\n"},
		{"numbers", Object(Field("v", Array(Number(1e21), Number(-0.5), Number(math.Inf(1))))), "v:\n[1e+21,-0.5,Infinity]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.input)
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Generate() =\n%q\nwant\n%q", got, tt.expected)
			}
		})
	}
}

func TestGenerate_TabularFallback(t *testing.T) {
	tests := []struct {
		name     string
		input    *Value
		expected string
	}{
		{"nested key mismatch", Object(Field("p", Array(
			Object(Field("a", Object(Field("x", Number(1)), Field("y", Number(2))))),
			Object(Field("a", Object(Field("x", Number(1))))),
		))), "p:\n[(a:(x:1,y:2)),(a:(x:1))]\n"},
		{"nested column holds scalar", Object(Field("p", Array(
			Object(Field("a", Object(Field("x", Number(1))))),
			Object(Field("a", Number(5))),
		))), "p:\n[(a:(x:1)),(a:5)]\n"},
		{"blank row", Object(Field("p", Array(
			Object(Field("a", Null())),
			Object(Field("a", Null())),
		))), "p:\n[(a:),(a:)]\n"},
		{"single slot null tuple", Object(Field("p", Array(
			Object(Field("a", Object(Field("x", Null())))),
			Object(Field("a", Object(Field("x", Number(1))))),
		))), "p:\n[(a:(x:)),(a:(x:1))]\n"},
		{"empty field name", Object(Field("p", Array(
			Object(Field("", Number(1))),
			Object(Field("", Number(2))),
		))), "p:\n[(:1),(:2)]\n"},
		{"zero fields", Object(Field("p", Array(Object(), Object()))), "p:\n[(),()]\n"},
		{"mixed elements", Object(Field("p", Array(
			Object(Field("a", Number(1))),
			Number(2),
		))), "p:\n[(a:1),2]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.input)
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Generate() =\n%q\nwant\n%q", got, tt.expected)
			}
		})
	}
}

func TestGenerate_TabularDisabled(t *testing.T) {
	v := Object(Field("rows", Array(
		Object(Field("id", Number(1)), Field("tag", Str("x"))),
		Object(Field("id", Number(2)), Field("tag", Str("y"))),
	)))

	opts := DefaultGenerateOptions()
	opts.Tabular = false
	got, err := GenerateWithOptions(v, opts)
	if err != nil {
		t.Fatalf("GenerateWithOptions failed: %v", err)
	}
	want := "rows:\n[(id:1,tag:x),(id:2,tag:y)]\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerate_TooDeep(t *testing.T) {
	v := Number(1)
	for i := 0; i < DefaultMaxDepth+5; i++ {
		v = Array(v)
	}

	_, err := Generate(v)
	var gerr *GenerateError
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *GenerateError, got %v", err)
	}
	if !errors.Is(err, ErrTooDeep) {
		t.Errorf("expected ErrTooDeep, got %v", err)
	}
}

// The generator counts depth the way the parser does, so anything Parse
// accepts under a limit can be written back under the same limit.
func TestGenerate_DepthMatchesParse(t *testing.T) {
	text := "v:\n[[1]]\n"
	v, err := ParseWithOptions(text, ParseOptions{MaxDepth: 2})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	got, err := GenerateWithOptions(v, GenerateOptions{MaxDepth: 2, Tabular: true})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got != text {
		t.Errorf("Generate() = %q, want %q", got, text)
	}

	if _, err := GenerateWithOptions(v, GenerateOptions{MaxDepth: 1, Tabular: true}); !errors.Is(err, ErrTooDeep) {
		t.Errorf("expected ErrTooDeep at depth 1, got %v", err)
	}
}

func TestGenerateNative(t *testing.T) {
	got, err := GenerateNative(map[string]any{"b": 1, "a": true})
	if err != nil {
		t.Fatalf("GenerateNative failed: %v", err)
	}
	if want := "a:\ntrue\n\nb:\n1\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	_, err = GenerateNative(map[string]any{"bad": struct{}{}})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestIsUniformObjectArray(t *testing.T) {
	a := Object(Field("x", Number(1)), Field("y", Number(2)))
	b := Object(Field("y", Number(3)), Field("x", Number(4)))
	c := Object(Field("x", Number(1)))

	tests := []struct {
		name     string
		items    []*Value
		expected bool
	}{
		{"empty", nil, false},
		{"same keys", []*Value{a, a}, true},
		{"same keys other order", []*Value{a, b}, true},
		{"different keys", []*Value{a, c}, false},
		{"non-object", []*Value{a, Number(1)}, false},
		{"first not object", []*Value{Str("x")}, false},
		{"single", []*Value{c}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniformObjectArray(tt.items); got != tt.expected {
				t.Errorf("IsUniformObjectArray() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHeaderFields(t *testing.T) {
	obj := Object(
		Field("id", Number(1)),
		Field("addr", Object(Field("city", Str("x")), Field("geo", Object(Field("lat", Number(0)))))),
		Field("meta", Object()),
	)
	fields := HeaderFields(obj)

	var got string
	for i, f := range fields {
		if i > 0 {
			got += ","
		}
		got += f.String()
	}
	if want := "id,addr(city,geo(lat)),meta"; got != want {
		t.Errorf("HeaderFields() = %s, want %s", got, want)
	}
}
