package checked

import (
	"math"
	"testing"
)

func TestAddInt64(t *testing.T) {
	cases := []struct {
		a, b, want int64
		ok         bool
	}{
		{2, 3, 5, true},
		{-2, -3, -5, true},
		{math.MaxInt64, 1, 0, false},
		{math.MinInt64, -1, 0, false},
		{math.MaxInt64, 0, math.MaxInt64, true},
	}
	for _, c := range cases {
		got, ok := AddInt64(c.a, c.b)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("AddInt64(%d, %d) = %d, %v want %d, %v", c.a, c.b, got, ok, c.want, c.ok)
		}
	}
}

func TestSubInt64(t *testing.T) {
	cases := []struct {
		a, b, want int64
		ok         bool
	}{
		{5, 3, 2, true},
		{0, math.MinInt64, 0, false},
		{math.MinInt64, 1, 0, false},
		{math.MinInt64, 0, math.MinInt64, true},
	}
	for _, c := range cases {
		got, ok := SubInt64(c.a, c.b)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("SubInt64(%d, %d) = %d, %v want %d, %v", c.a, c.b, got, ok, c.want, c.ok)
		}
	}
}

func TestMulInt64(t *testing.T) {
	cases := []struct {
		a, b, want int64
		ok         bool
	}{
		{6, 7, 42, true},
		{-6, 7, -42, true},
		{math.MaxInt64, 2, 0, false},
		{math.MinInt64, -1, 0, false},
		{0, math.MaxInt64, 0, true},
	}
	for _, c := range cases {
		got, ok := MulInt64(c.a, c.b)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("MulInt64(%d, %d) = %d, %v want %d, %v", c.a, c.b, got, ok, c.want, c.ok)
		}
	}
}
