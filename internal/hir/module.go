package hir

import (
	"javelin/internal/source"
	"javelin/internal/types"
)

// Module represents one compilation unit as produced by the front end: every
// expression carries a resolved type and cast nodes are still present.
// Middle-end passes transform it in place by replacing nodes.
type Module struct {
	Name  string // Unit name (usually the main class)
	Path  string // Path of the unit file this module was decoded from
	Funcs []*Func

	// TypeInterner owns every descriptor referenced by the module. It is
	// seeded by the front end and only read by middle-end passes.
	TypeInterner *types.Interner

	// Files maps span FileIDs back to front-end source paths.
	Files *source.FileTable
}

// FindFunc finds a method by name, returns nil if not found.
func (m *Module) FindFunc(name string) *Func {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f
		}
	}
	return nil
}
