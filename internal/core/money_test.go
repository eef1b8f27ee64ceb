package core

import (
	"math"
	"strings"
	"testing"
)

func TestParseAno(t *testing.T) {
	cases := []struct {
		in  string
		out int
	}{
		{"2020", 2020},
		{" 2021 ", 2021},
		{"2020.0", 2020},
		{"12abc", 12},
		{"-5", -5},
		{"+7", 7},
		{"abc", 0},
		{"", 0},
		{"-", 0},
		{"0x7E4", 2020},
		{"-0x10", -16},
		{"0x", 0},
		{"0xzz", 0},
		{"99999999999999999999999", 0},
	}
	for _, tc := range cases {
		if got := ParseAno(tc.in); got != tc.out {
			t.Fatalf("%q expected %d, got %d", tc.in, tc.out, got)
		}
	}
}

func TestParseTotal(t *testing.T) {
	cases := []struct {
		in  string
		out float64
	}{
		{"1234.56", 1234.56},
		{" 100 ", 100},
		{"1.5e3x", 1500},
		{"2E-2", 0.02},
		{"3e", 3},
		{".5", 0.5},
		{"5.", 5},
		{"-10.25", -10.25},
		{"12,50", 12},
		{"R$ 10", 0},
		{".", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := ParseTotal(tc.in); got != tc.out {
			t.Fatalf("%q expected %v, got %v", tc.in, tc.out, got)
		}
	}
}

func TestFormatCount(t *testing.T) {
	cases := map[int]string{
		0:       "0",
		2:       "2",
		1000:    "1.000",
		1234567: "1.234.567",
	}
	for n, want := range cases {
		if got := FormatCount(n); got != want {
			t.Fatalf("%d expected %q, got %q", n, want, got)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	got := FormatBRL(10.5)
	if !strings.HasPrefix(got, "R$ ") || !strings.HasSuffix(got, ",50") {
		t.Fatalf("unexpected BRL rendering: %q", got)
	}
}

func TestTotal(t *testing.T) {
	if Total(nil) != 0 {
		t.Fatalf("empty total should be 0")
	}
	if got := Total([]Record{{Total: 100}, {Total: -30}}); got != 70 {
		t.Fatalf("expected raw sum 70, got %v", got)
	}
	if got := Total([]Record{{Total: 0.1}, {Total: 0.2}}); got != 0.3 {
		t.Fatalf("expected exact sum 0.3, got %v", got)
	}
}

func TestTotalSkipsNonFinite(t *testing.T) {
	records := []Record{{Total: 10}, {Total: math.Inf(1)}, {Total: math.Inf(-1)}, {Total: math.NaN()}}
	if got := Total(records); got != 10 {
		t.Fatalf("expected non-finite amounts to count as 0, got %v", got)
	}
}
