package deps

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mramospe/pyscripts/parser"
)

// Extractor finds the direct dependencies of a single Python file on a
// package. It is safe for concurrent use: every extraction builds its
// own parser.
type Extractor struct {
	pkg    string
	search []string
}

// NewExtractor builds an extractor for the given package name. Search
// roots are the directories where the package is looked up; when none
// are given, the directory of the probed file is used.
func NewExtractor(pkg string, searchPaths ...string) *Extractor {
	return &Extractor{pkg: pkg, search: absolutePaths(searchPaths)}
}

// Direct returns the files of the package that the given file imports
// directly. Paths are absolute unless relative is set, in which case
// they are rewritten against the file's directory. Extraction is
// all-or-nothing: an unreadable or syntactically broken file yields an
// error and no paths.
func (e *Extractor) Direct(file string, relative bool) ([]string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", file, err)
	}

	imports, err := parser.NewPython().Imports(abs)
	if err != nil {
		return nil, err
	}

	roots := e.search
	if len(roots) == 0 {
		roots = []string{filepath.Dir(abs)}
	}

	found := make(map[string]struct{})
	for _, imp := range imports {
		for _, path := range e.resolve(abs, roots, imp) {
			found[path] = struct{}{}
		}
	}

	paths := make([]string, 0, len(found))
	for p := range found {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	if relative {
		return relativeTo(filepath.Dir(abs), paths)
	}

	return paths, nil
}

// resolve maps one import statement to the package files it refers to.
// A from-import records the file of every imported name that is itself
// a module, falling back on the module the names come from.
func (e *Extractor) resolve(file string, roots []string, imp parser.Import) []string {
	module, ok := qualify(file, roots, imp)
	if !ok {
		return nil
	}

	if imp.Kind == parser.KindImport || imp.Kind == parser.KindImportAs {
		if path, ok := e.locate(roots, module); ok {
			return []string{path}
		}

		return nil
	}

	var paths []string
	for _, symbol := range imp.Symbols {
		if symbol != "*" && module != "" {
			if path, ok := e.locate(roots, module+"."+symbol); ok {
				paths = append(paths, path)
				continue
			}
		}

		if path, ok := e.locate(roots, module); ok {
			paths = append(paths, path)
		}
	}

	return paths
}

// locate resolves a qualified module name to its defining file under
// the search roots. Names outside the target package are discarded
// before touching the filesystem.
func (e *Extractor) locate(roots []string, module string) (string, bool) {
	if !e.matches(module) {
		return "", false
	}

	parts := strings.Split(module, ".")
	for _, root := range roots {
		base := filepath.Join(append([]string{root}, parts...)...)

		if path := base + ".py"; isFile(path) {
			return path, true
		}
		if path := filepath.Join(base, "__init__.py"); isFile(path) {
			return path, true
		}
	}

	return "", false
}

// matches applies the case-sensitive prefix rule: the module is the
// package itself or one of its sub-modules.
func (e *Extractor) matches(module string) bool {
	return module == e.pkg || strings.HasPrefix(module, e.pkg+".")
}

// qualify turns a relative import into a fully-qualified module name by
// locating the importing file inside one of the search roots. Absolute
// imports pass through untouched.
func qualify(file string, roots []string, imp parser.Import) (string, bool) {
	if imp.Qualified() {
		return imp.Module, imp.Module != ""
	}

	// One leading dot targets the file's own package, each further dot
	// one package up.
	dir := filepath.Dir(file)
	for i := 1; i < imp.Level; i++ {
		dir = filepath.Dir(dir)
	}

	root, ok := rootContaining(roots, dir)
	if !ok {
		return "", false
	}

	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return "", false
	}

	base := strings.ReplaceAll(rel, string(filepath.Separator), ".")
	if base == "." {
		base = ""
	}

	switch {
	case base == "":
		return imp.Module, imp.Module != ""
	case imp.Module == "":
		return base, true
	default:
		return base + "." + imp.Module, true
	}
}
