// Package parser extracts import statements from Python source files
// using tree-sitter. Files are never executed; everything is read from
// the syntax tree.
package parser

import (
	"errors"
	"fmt"
)

// ErrSyntax is reported when a file cannot be parsed into a well-formed
// syntax tree. Extraction is all-or-nothing: a file with syntax errors
// yields no imports at all.
var ErrSyntax = errors.New("syntax error")

// Kind classifies how a module reference was written in the source.
type Kind string

const (
	KindImport   Kind = "import"          // import a.b
	KindImportAs Kind = "import_as"       // import a.b as c
	KindFrom     Kind = "from_import"     // from a.b import x
	KindFromAs   Kind = "from_import_as"  // from a.b import x as y
	KindWildcard Kind = "wildcard_import" // from a.b import *
)

// Import is a single module reference found in a source file.
//
// For relative imports Level holds the number of leading dots and
// Module the trailing dotted path, which may be empty ("from . import x").
type Import struct {
	Module  string
	Level   int
	Alias   string
	Symbols []string
	Kind    Kind
}

// Qualified reports whether the import names its module absolutely.
func (i Import) Qualified() bool { return i.Level == 0 }

func (i Import) String() string {
	if i.Level == 0 {
		return i.Module
	}
	return fmt.Sprintf("<level %d>.%s", i.Level, i.Module)
}
