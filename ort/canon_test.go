package ort

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{-1.5, "-1.5"},
		{0.1, "0.1"},
		{123.456, "123.456"},
		{36, "36"},
		{123456789012, "123456789012"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{2.5e25, "2.5e+25"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{1.5e-10, "1.5e-10"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := formatNumber(tt.input); got != tt.expected {
				t.Errorf("formatNumber(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
		ok       bool
	}{
		{"42", 42, true},
		{"-3.5", -3.5, true},
		{"+7", 7, true},
		{"1e3", 1000, true},
		{"2.5E-1", 0.25, true},
		{".5", 0.5, true},
		{"5.", 5, true},
		{"007", 7, true},
		{"0x1F", 31, true},
		{"0o17", 15, true},
		{"0b101", 5, true},
		{"Infinity", math.Inf(1), true},
		{"-Infinity", math.Inf(-1), true},
		{"", 0, false},
		{"abc", 0, false},
		{"1e", 0, false},
		{".", 0, false},
		{"-", 0, false},
		{"1.2.3", 0, false},
		{"0xZZ", 0, false},
		{"NaN", 0, false},
		{"1_000", 0, false},
		{"12px", 0, false},
		{"true", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseNumber(tt.input)
			if ok != tt.ok {
				t.Fatalf("parseNumber(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.expected {
				t.Errorf("parseNumber(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFormatNumber_ParsesBack(t *testing.T) {
	inputs := []float64{0, 1, -1, 0.1, 1.0 / 3, 1e21, 1e-7, 123456.789, -9007199254740993, math.MaxFloat64, math.SmallestNonzeroFloat64}
	for _, f := range inputs {
		s := formatNumber(f)
		got, ok := parseNumber(s)
		if !ok || got != f {
			t.Errorf("parseNumber(formatNumber(%v)) = %v, %v (text %q)", f, got, ok, s)
		}
	}
}

// ============================================================
// Equality and Fingerprint Tests
// ============================================================

func TestEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  *Value
		equal bool
	}{
		{"null nil", Null(), nil, true},
		{"numbers", Number(1), Number(1), true},
		{"number vs string", Number(1), Str("1"), false},
		{"object key order", Object(Field("a", Number(1)), Field("b", Number(2))),
			Object(Field("b", Number(2)), Field("a", Number(1))), true},
		{"object missing key", Object(Field("a", Null())), Object(Field("b", Null())), false},
		{"array order", Array(Number(1), Number(2)), Array(Number(2), Number(1)), false},
		{"array length", Array(Number(1)), Array(Number(1), Null()), false},
		{"nested", Array(Object(Field("x", Array(Str("y"))))), Array(Object(Field("x", Array(Str("y"))))), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.equal {
				t.Errorf("Equal(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.equal)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	v := Object(
		Field("b", Number(1)),
		Field("a", Array(Str("x\ny"), Null(), Bool(false))),
	)
	want := `{"a":["x\ny",null,false],"b":1}`
	if got := Canonical(v); got != want {
		t.Errorf("Canonical() = %s, want %s", got, want)
	}
}

func TestFingerprint(t *testing.T) {
	a := Object(Field("x", Number(1)), Field("y", Str("z")))
	b := Object(Field("y", Str("z")), Field("x", Number(1)))
	c := Object(Field("x", Number(2)), Field("y", Str("z")))

	fa := Fingerprint(a)
	if len(fa) != 64 {
		t.Fatalf("fingerprint length = %d, want 64", len(fa))
	}
	if fa != Fingerprint(b) {
		t.Error("fingerprint should not depend on key order")
	}
	if fa == Fingerprint(c) {
		t.Error("different values should have different fingerprints")
	}
}
