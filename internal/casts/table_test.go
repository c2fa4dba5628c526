package casts

import (
	"testing"

	"javelin/internal/types"
)

var numericKinds = []types.PrimKind{
	types.PrimByte, types.PrimChar, types.PrimShort, types.PrimInt,
	types.PrimLong, types.PrimFloat, types.PrimDouble,
}

func TestCanElideTable(t *testing.T) {
	// Rows are from, columns are to, in numericKinds order.
	elidable := map[types.PrimKind]map[types.PrimKind]bool{
		types.PrimByte:   {types.PrimByte: true, types.PrimShort: true, types.PrimInt: true, types.PrimFloat: true, types.PrimDouble: true},
		types.PrimChar:   {types.PrimChar: true, types.PrimInt: true, types.PrimFloat: true, types.PrimDouble: true},
		types.PrimShort:  {types.PrimShort: true, types.PrimInt: true, types.PrimFloat: true, types.PrimDouble: true},
		types.PrimInt:    {types.PrimInt: true, types.PrimFloat: true, types.PrimDouble: true},
		types.PrimLong:   {types.PrimLong: true},
		types.PrimFloat:  {types.PrimFloat: true, types.PrimDouble: true},
		types.PrimDouble: {types.PrimDouble: true},
	}

	for _, from := range numericKinds {
		for _, to := range numericKinds {
			want := elidable[from][to]
			if got := canElide(from, to); got != want {
				t.Errorf("canElide(%s, %s) = %v, want %v", from.SimpleName(), to.SimpleName(), got, want)
			}
		}
	}
}

func TestCanElideSameKind(t *testing.T) {
	all := append([]types.PrimKind{types.PrimBoolean}, numericKinds...)
	for _, k := range all {
		if !canElide(k, k) {
			t.Errorf("canElide(%s, %s) = false, want true", k.SimpleName(), k.SimpleName())
		}
	}
}

func TestCanElideLongNeverMixes(t *testing.T) {
	for _, other := range numericKinds {
		if other == types.PrimLong {
			continue
		}
		if canElide(types.PrimLong, other) {
			t.Errorf("canElide(long, %s) = true, want false", other.SimpleName())
		}
		if canElide(other, types.PrimLong) {
			t.Errorf("canElide(%s, long) = true, want false", other.SimpleName())
		}
	}
}

func TestCastMethodName(t *testing.T) {
	cases := []struct {
		from, to types.PrimKind
		want     string
	}{
		{types.PrimLong, types.PrimInt, "$castLongToInt"},
		{types.PrimDouble, types.PrimFloat, "$castDoubleToFloat"},
		{types.PrimInt, types.PrimByte, "$castIntToByte"},
		{types.PrimChar, types.PrimShort, "$castCharToShort"},
		{types.PrimFloat, types.PrimLong, "$castFloatToLong"},
	}
	for _, tc := range cases {
		if got := castMethodName(tc.from, tc.to); got != tc.want {
			t.Errorf("castMethodName(%s, %s) = %q, want %q", tc.from.SimpleName(), tc.to.SimpleName(), got, tc.want)
		}
	}
}

func TestProperCase(t *testing.T) {
	cases := []struct{ in, want string }{
		{"", ""},
		{"a", "A"},
		{"int", "Int"},
		{"double", "Double"},
		{"Long", "Long"},
	}
	for _, tc := range cases {
		if got := properCase(tc.in); got != tc.want {
			t.Errorf("properCase(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
