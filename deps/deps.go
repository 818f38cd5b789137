// Package deps resolves the dependencies of Python files on the modules
// of a package. Imports are discovered statically from the syntax tree,
// so probed files are never executed; a module counts as a dependency
// when its qualified name is the package itself or one of its
// sub-modules, and it can be located on disk under the search roots.
//
// The seed file of a resolution is probed in a child process (see
// Runner) so that a malformed entry file cannot take the caller down
// with it. Expansion of the discovered set runs in-process across a
// small worker pool.
package deps

import (
	"context"
	"fmt"
)

// DefaultPoolSize is the number of workers used to expand the
// dependency set when no other size is configured.
const DefaultPoolSize = 4

// ResolutionError reports that the dependencies of a seed file could
// not be obtained. It is the only error kind produced by the isolated
// probe phase; expansion-phase errors propagate as they are.
type ResolutionError struct {
	File string
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("problems found obtaining the dependencies for file %q", e.File)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Dependencies returns the transitive dependencies of a Python file on
// a package, using a resolver with default settings. Paths are absolute
// unless relative is set, in which case they are rewritten against the
// file's directory.
//
// See Resolver.Dependencies.
func Dependencies(ctx context.Context, file, pkg string, relative bool) ([]string, error) {
	return NewResolver(pkg).Dependencies(ctx, file, relative)
}

// DirectDependencies returns only the direct dependencies of a Python
// file on a package, extracted in-process.
//
// See Extractor.Direct.
func DirectDependencies(file, pkg string, relative bool) ([]string, error) {
	return NewExtractor(pkg).Direct(file, relative)
}
