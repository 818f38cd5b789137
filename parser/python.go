package parser

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Python parses Python source files. It is not safe for concurrent use;
// create one instance per goroutine.
type Python struct {
	parser *sitter.Parser
}

// NewPython returns a parser configured with the Python grammar.
func NewPython() *Python {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	return &Python{parser: parser}
}

// ParseResult holds the parsed tree and the source it was built from.
// Close must be called to release the tree.
type ParseResult struct {
	Tree   *sitter.Tree
	Source []byte
	Path   string
}

func (r *ParseResult) Close() {
	r.Tree.Close()
}

// ParseFile reads and parses a single file. A file whose tree contains
// ERROR nodes fails with ErrSyntax.
func (p *Python) ParseFile(path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", path, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s", path)
	}

	if tree.RootNode().HasError() {
		tree.Close()
		return nil, fmt.Errorf("%w in file %s", ErrSyntax, path)
	}

	return &ParseResult{Tree: tree, Source: source, Path: path}, nil
}

// Imports parses a file and returns every import statement found in it.
func (p *Python) Imports(path string) ([]Import, error) {
	result, err := p.ParseFile(path)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	return p.ExtractImports(result.Tree.RootNode(), result.Source)
}

// ExtractImports walks an already-parsed tree collecting import statements.
func (p *Python) ExtractImports(node *sitter.Node, source []byte) ([]Import, error) {
	var imports []Import

	WalkAST(node, func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			imports = append(imports, p.importStatement(n, source)...)
		case "import_from_statement":
			imports = append(imports, p.fromStatement(n, source)...)
		}
	})

	return DeduplicateImports(imports), nil
}

// importStatement handles "import a.b" and "import a.b as c" forms,
// including comma-separated lists.
func (p *Python) importStatement(node *sitter.Node, source []byte) []Import {
	var imports []Import

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "dotted_name":
			if module := nodeText(child, source); module != "" {
				imports = append(imports, Import{
					Module: module,
					Alias:  module,
					Kind:   KindImport,
				})
			}
		case "aliased_import":
			if imp := p.aliasedImport(child, source); imp != nil {
				imports = append(imports, *imp)
			}
		}
	}

	return imports
}

// fromStatement handles "from a.b import x, y as z", wildcard imports and
// relative imports ("from ..sub import x"). Children before the "import"
// keyword describe the module, children after it the imported names.
func (p *Python) fromStatement(node *sitter.Node, source []byte) []Import {
	var (
		module     string
		level      int
		afterKw    bool
		imports    []Import
		nameImport = func(symbol, alias string, kind Kind) {
			imports = append(imports, Import{
				Module:  module,
				Level:   level,
				Alias:   alias,
				Symbols: []string{symbol},
				Kind:    kind,
			})
		}
	)

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		if !afterKw {
			switch child.Type() {
			case "import":
				afterKw = true
			case "dotted_name":
				module = nodeText(child, source)
			case "relative_import":
				level, module = p.relativeImport(child, source)
			}

			continue
		}

		switch child.Type() {
		case "dotted_name":
			symbol := nodeText(child, source)
			nameImport(symbol, symbol, KindFrom)
		case "identifier":
			symbol := nodeText(child, source)
			nameImport(symbol, symbol, KindFrom)
		case "aliased_import":
			symbol, alias := p.aliasedParts(child, source)
			if symbol != "" && alias != "" {
				nameImport(symbol, alias, KindFromAs)
			}
		case "wildcard_import":
			nameImport("*", "*", KindWildcard)
		}
	}

	return imports
}

// relativeImport splits "..sub.mod" into its dot level and trailing path.
func (p *Python) relativeImport(node *sitter.Node, source []byte) (int, string) {
	var (
		level  int
		module string
	)

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "import_prefix":
			level = len(nodeText(child, source))
		case "dotted_name":
			module = nodeText(child, source)
		}
	}

	return level, module
}

// aliasedImport handles "import a.b as c".
func (p *Python) aliasedImport(node *sitter.Node, source []byte) *Import {
	module, alias := p.aliasedParts(node, source)
	if module == "" || alias == "" {
		return nil
	}

	return &Import{Module: module, Alias: alias, Kind: KindImportAs}
}

// aliasedParts returns the (name, alias) pair of an aliased_import node.
func (p *Python) aliasedParts(node *sitter.Node, source []byte) (string, string) {
	var name, alias string

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "dotted_name":
			name = nodeText(child, source)
		case "identifier":
			alias = nodeText(child, source)
		}
	}

	return name, alias
}
