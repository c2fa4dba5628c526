package casts

import "javelin/internal/types"

// canElide reports whether a primitive cast is a no-op under the target
// runtime's numeric representation. "X" marks elidable cells:
//
//	from\to  byte | char | short | int | long | float | double
//	byte      X   |      |   X   |  X  |      |   X   |   X
//	char          |  X   |       |  X  |      |   X   |   X
//	short         |      |   X   |  X  |      |   X   |   X
//	int           |      |       |  X  |      |   X   |   X
//	long          |      |       |     |  X   |       |
//	float         |      |       |     |      |   X   |   X
//	double        |      |       |     |      |       |   X
//
// Every other cell requires an rt.Primitives conversion call. long is special:
// the runtime has no native 64-bit integers, so any cast into or out of long
// (other than long to long) always converts.
func canElide(from, to types.PrimKind) bool {
	if from == to {
		return true
	}
	if from == types.PrimLong || to == types.PrimLong {
		return false
	}
	switch to {
	case types.PrimDouble:
		return from == types.PrimByte || from == types.PrimChar ||
			from == types.PrimShort || from == types.PrimInt ||
			from == types.PrimFloat
	case types.PrimFloat:
		return from == types.PrimByte || from == types.PrimChar ||
			from == types.PrimShort || from == types.PrimInt
	case types.PrimInt:
		return from == types.PrimByte || from == types.PrimChar ||
			from == types.PrimShort
	case types.PrimShort:
		return from == types.PrimByte
	default:
		return false
	}
}
