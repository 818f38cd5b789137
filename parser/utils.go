package parser

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// WalkAST recursively traverses a syntax tree applying the visitor to
// every node.
func WalkAST(node *sitter.Node, visitor func(*sitter.Node)) {
	visitor(node)

	for i := 0; i < int(node.ChildCount()); i++ {
		WalkAST(node.Child(i), visitor)
	}
}

// DeduplicateImports removes duplicate imports, keeping first occurrences.
func DeduplicateImports(imports []Import) []Import {
	seen := make(map[string]bool)
	var result []Import

	for _, imp := range imports {
		key := fmt.Sprintf("%d|%s|%s|%s|%s",
			imp.Level, imp.Module, imp.Alias, imp.Kind, strings.Join(imp.Symbols, ","))
		if !seen[key] {
			seen[key] = true
			result = append(result, imp)
		}
	}

	return result
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
