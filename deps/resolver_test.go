package deps

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependencies_TransitiveChain(t *testing.T) {
	root := chainTree(t)
	resolver := NewResolver("package", WithRunner(testRunner(t)))

	paths, err := resolver.Dependencies(context.Background(), filepath.Join(root, "main.py"), false)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "package", "mod1.py"),
		filepath.Join(root, "package", "mod2.py"),
		filepath.Join(root, "package", "mod3.py"),
	}, paths)
}

func TestDependencies_RelativeMatchesAbsolute(t *testing.T) {
	root := chainTree(t)
	seed := filepath.Join(root, "main.py")
	resolver := NewResolver("package", WithRunner(testRunner(t)))

	absolute, err := resolver.Dependencies(context.Background(), seed, false)
	require.NoError(t, err)

	relative, err := resolver.Dependencies(context.Background(), seed, true)
	require.NoError(t, err)

	require.Len(t, relative, len(absolute))
	joined := make([]string, 0, len(relative))
	for _, p := range relative {
		joined = append(joined, filepath.Join(filepath.Dir(seed), p))
	}
	assert.ElementsMatch(t, absolute, joined)
}

func TestDependencies_EmptyWithoutPackageUse(t *testing.T) {
	root := writeTree(t, map[string]string{
		"standalone.py":       "import os\n",
		"package/__init__.py": "",
	})
	resolver := NewResolver("package", WithRunner(testRunner(t)))

	paths, err := resolver.Dependencies(context.Background(), filepath.Join(root, "standalone.py"), false)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestDependencies_IdempotentMembership(t *testing.T) {
	root := chainTree(t)
	seed := filepath.Join(root, "main.py")
	resolver := NewResolver("package", WithRunner(testRunner(t)))

	first, err := resolver.Dependencies(context.Background(), seed, false)
	require.NoError(t, err)

	second, err := resolver.Dependencies(context.Background(), seed, false)
	require.NoError(t, err)

	assert.ElementsMatch(t, first, second)
}

func TestDependencies_SeedFailure(t *testing.T) {
	root := writeTree(t, map[string]string{
		"raises.py":           "def broken(:\n",
		"package/__init__.py": "",
	})
	resolver := NewResolver("package", WithRunner(testRunner(t)))

	file := filepath.Join(root, "raises.py")
	paths, err := resolver.Dependencies(context.Background(), file, false)

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, file, resErr.File)
	assert.Contains(t, err.Error(), file)
	assert.Nil(t, paths)
}

func TestDependencies_ExpansionFailurePropagates(t *testing.T) {
	// The seed parses, but a package file discovered during expansion
	// does not: the error must come through as-is, not renamed to a
	// resolution error for the seed.
	root := writeTree(t, map[string]string{
		"main.py":             "import package.mod1\n",
		"package/__init__.py": "",
		"package/mod1.py":     "def broken(:\n",
	})
	resolver := NewResolver("package", WithRunner(testRunner(t)))

	_, err := resolver.Dependencies(context.Background(), filepath.Join(root, "main.py"), false)
	require.Error(t, err)

	var resErr *ResolutionError
	assert.False(t, errors.As(err, &resErr))
}

func TestDependencies_DiamondConverges(t *testing.T) {
	// mod1 and mod2 both import mod3; the fixed point must be reached
	// without duplicates.
	root := writeTree(t, map[string]string{
		"main.py":             "import package.mod1\nimport package.mod2\n",
		"package/__init__.py": "",
		"package/mod1.py":     "from package import mod3\n",
		"package/mod2.py":     "from package import mod3\n",
		"package/mod3.py":     "",
	})
	resolver := NewResolver("package", WithRunner(testRunner(t)), WithPoolSize(2))

	paths, err := resolver.Dependencies(context.Background(), filepath.Join(root, "main.py"), false)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "package", "mod1.py"),
		filepath.Join(root, "package", "mod2.py"),
		filepath.Join(root, "package", "mod3.py"),
	}, paths)
}

func TestDependencies_CycleTerminates(t *testing.T) {
	root := writeTree(t, map[string]string{
		"main.py":             "import package.mod1\n",
		"package/__init__.py": "",
		"package/mod1.py":     "from package import mod2\n",
		"package/mod2.py":     "from package import mod1\n",
	})
	resolver := NewResolver("package", WithRunner(testRunner(t)))

	paths, err := resolver.Dependencies(context.Background(), filepath.Join(root, "main.py"), false)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "package", "mod1.py"),
		filepath.Join(root, "package", "mod2.py"),
	}, paths)
}
