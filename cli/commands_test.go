package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mramospe/pyscripts/redirect"
)

func fixtureTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	files := map[string]string{
		"main.py":             "import package.mod1\n",
		"package/__init__.py": "",
		"package/mod1.py":     "",
	}
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	return root
}

func TestNewRootCommand_Commands(t *testing.T) {
	root := NewRootCommand()

	names := make(map[string]bool)
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}

	assert.True(t, names["deps"])
	assert.True(t, names["direct"])
	assert.True(t, names["probe"])

	probe, _, err := root.Find([]string{"probe"})
	require.NoError(t, err)
	assert.True(t, probe.Hidden)
}

func TestDirectCommand(t *testing.T) {
	tree := fixtureTree(t)
	root := NewRootCommand()
	root.SetArgs([]string{"direct", filepath.Join(tree, "main.py"), "package", "--relative"})

	out, err := redirect.Capture(redirect.Stdout, root.Execute)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("package", "mod1.py"), strings.TrimSpace(out))
}

func TestDirectCommand_ArgCount(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"direct", "only-one-arg"})

	assert.Error(t, root.Execute())
}

func TestProbeCommand(t *testing.T) {
	tree := fixtureTree(t)
	root := NewRootCommand()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{
		"probe", "--package", "package", "--search", tree,
		filepath.Join(tree, "main.py"),
	})

	require.NoError(t, root.Execute())

	var msg struct {
		Files  []string `json:"files"`
		Failed bool     `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &msg))
	assert.False(t, msg.Failed)
	assert.Equal(t, []string{filepath.Join(tree, "package", "mod1.py")}, msg.Files)
}

func TestProbeCommand_FailedFlag(t *testing.T) {
	tree := t.TempDir()
	file := filepath.Join(tree, "raises.py")
	require.NoError(t, os.WriteFile(file, []byte("def broken(:\n"), 0o644))

	root := NewRootCommand()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"probe", "--package", "package", file})

	require.NoError(t, root.Execute())

	var msg struct {
		Failed bool   `json:"failed"`
		Error  string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &msg))
	assert.True(t, msg.Failed)
	assert.NotEmpty(t, msg.Error)
}
