package unitfile

import (
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"javelin/internal/diag"
)

func marshalUnit(t *testing.T, u *wireUnit) []byte {
	t.Helper()
	data, err := msgpack.Marshal(u)
	if err != nil {
		t.Fatalf("marshal wire unit: %v", err)
	}
	return data
}

// minimalTypes is a descriptor table holding just the invalid sentinel and
// one int descriptor at index 1.
func minimalTypes() []wireType {
	return []wireType{
		{},
		{Kind: 1 /* primitive */, Prim: 5 /* int */},
	}
}

func TestDecodeSchemaMismatch(t *testing.T) {
	data := marshalUnit(t, &wireUnit{Schema: SchemaVersion + 1, Name: "m"})
	_, err := Decode(data, "m.jvu", diag.NopReporter{})
	if err == nil {
		t.Fatal("Decode accepted a newer schema")
	}
	if !strings.Contains(err.Error(), diag.UnitSchemaMismatch.String()) {
		t.Errorf("error %v does not carry %s", err, diag.UnitSchemaMismatch)
	}
}

func TestDecodeUnknownFuncFlags(t *testing.T) {
	data := marshalUnit(t, &wireUnit{
		Schema: SchemaVersion,
		Name:   "m",
		Types:  minimalTypes(),
		Funcs:  []wireFunc{{Name: "f", Flags: knownFuncFlags | 1<<17}},
	})

	bag := diag.NewBag(16)
	m, err := Decode(data, "m.jvu", diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bag.HasWarnings() {
		t.Fatal("unknown flag bits produced no warning")
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.UnitUnknownFuncFlags {
			found = true
		}
	}
	if !found {
		t.Errorf("no %s diagnostic in %+v", diag.UnitUnknownFuncFlags, bag.Items())
	}
	if got := uint32(m.Funcs[0].Flags); got&^knownFuncFlags != 0 {
		t.Errorf("unknown flag bits survived: %#x", got)
	}
}

func TestDecodeEmptyModuleWarning(t *testing.T) {
	data := marshalUnit(t, &wireUnit{Schema: SchemaVersion, Name: "empty"})
	bag := diag.NewBag(16)
	if _, err := Decode(data, "empty.jvu", diag.BagReporter{Bag: bag}); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	found := false
	for _, d := range bag.Items() {
		if d.Code == diag.UnitEmptyModule {
			found = true
		}
	}
	if !found {
		t.Errorf("no %s warning for a unit without functions", diag.UnitEmptyModule)
	}
}

func TestDecodeBadTypeRefs(t *testing.T) {
	cases := []struct {
		name string
		unit wireUnit
	}{
		{
			name: "index out of range",
			unit: wireUnit{
				Schema: SchemaVersion,
				Types:  minimalTypes(),
				Funcs:  []wireFunc{{Name: "f", Result: 42}},
			},
		},
		{
			name: "unknown kind",
			unit: wireUnit{
				Schema: SchemaVersion,
				Types:  []wireType{{}, {Kind: 99}},
				Funcs:  []wireFunc{{Name: "f", Result: 1}},
			},
		},
		{
			name: "unknown primitive",
			unit: wireUnit{
				Schema: SchemaVersion,
				Types:  []wireType{{}, {Kind: 1, Prim: 200}},
				Funcs:  []wireFunc{{Name: "f", Result: 1}},
			},
		},
		{
			name: "name index out of range",
			unit: wireUnit{
				Schema: SchemaVersion,
				Types:  []wireType{{}, {Kind: 3, Name: 7}},
				Funcs:  []wireFunc{{Name: "f", Result: 1}},
			},
		},
		{
			name: "zero-dim array",
			unit: wireUnit{
				Schema: SchemaVersion,
				Types:  []wireType{{}, {Kind: 2, Elem: 0, Dims: 0}},
				Funcs:  []wireFunc{{Name: "f", Result: 1}},
			},
		},
		{
			name: "self-referential array",
			unit: wireUnit{
				Schema: SchemaVersion,
				Types:  []wireType{{}, {Kind: 2, Elem: 1, Dims: 1}},
				Funcs:  []wireFunc{{Name: "f", Result: 1}},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := marshalUnit(t, &tc.unit)
			_, err := Decode(data, "m.jvu", diag.NopReporter{})
			if err == nil {
				t.Fatal("Decode accepted a malformed descriptor table")
			}
			if !strings.Contains(err.Error(), diag.UnitBadTypeRef.String()) {
				t.Errorf("error %v does not carry %s", err, diag.UnitBadTypeRef)
			}
		})
	}
}

func TestDecodeUnknownStmtKind(t *testing.T) {
	data := marshalUnit(t, &wireUnit{
		Schema: SchemaVersion,
		Types:  minimalTypes(),
		Funcs: []wireFunc{{
			Name:    "f",
			HasBody: true,
			Body:    []wireStmt{{Kind: 200}},
		}},
	})
	_, err := Decode(data, "m.jvu", diag.NopReporter{})
	if err == nil {
		t.Fatal("Decode accepted an unknown statement kind")
	}
	if !strings.Contains(err.Error(), diag.UnitMalformed.String()) {
		t.Errorf("error %v does not carry %s", err, diag.UnitMalformed)
	}
}

func TestDecodeRedundantDescriptorsCollapse(t *testing.T) {
	// Two structurally identical reference descriptors must intern to one
	// TypeID on the way in.
	data := marshalUnit(t, &wireUnit{
		Schema: SchemaVersion,
		Names:  []string{"java.lang.String"},
		Types: []wireType{
			{},
			{Kind: 3, Name: 0},
			{Kind: 3, Name: 0},
		},
		Funcs: []wireFunc{{
			Name:   "f",
			Result: 1,
			Params: []wireParam{{Name: "s", Type: 2}},
		}},
	})
	m, err := Decode(data, "m.jvu", diag.NopReporter{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	fn := m.Funcs[0]
	if fn.Result != fn.Params[0].Type {
		t.Errorf("duplicate descriptors decoded to different TypeIDs: %d vs %d", fn.Result, fn.Params[0].Type)
	}
}
