package source

import (
	"fmt"
)

// FileID uniquely identifies a source file within a FileTable.
type FileID uint32

// NoFileID marks a span that carries no file association.
const NoFileID FileID = ^FileID(0)

// Span is a half-open byte range [Start, End) inside a source file.
// The middle end never inspects source text; spans are carried through from
// the front end so diagnostics and dumps can point back at user code.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover extends s to include other. Spans from different files do not mix;
// the receiver wins.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}
