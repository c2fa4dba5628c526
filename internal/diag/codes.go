package diag

import (
	"fmt"
)

// Code is a compact, stable identifier for a diagnostic kind.
type Code uint16

const (
	UnknownCode Code = 0

	// Unit-file loading (1xxx)
	UnitInfo             Code = 1000
	UnitUnreadable       Code = 1001
	UnitMalformed        Code = 1002
	UnitSchemaMismatch   Code = 1003
	UnitUnknownFuncFlags Code = 1004
	UnitBadTypeRef       Code = 1005
	UnitEmptyModule      Code = 1006

	// Normalization pipeline (3xxx)
	NormInfo      Code = 3000
	NormInvariant Code = 3001
	NormWriteFail Code = 3002
)

// String renders the code in its stable JVL#### form.
func (c Code) String() string {
	return fmt.Sprintf("JVL%04d", uint16(c))
}
