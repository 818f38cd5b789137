package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mramospe/pyscripts/deps"
	"github.com/mramospe/pyscripts/mode"
)

// NewRootCommand builds the pyscripts command tree: the dependency
// resolution modes plus the hidden probe command the isolation runner
// re-executes this binary with.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pyscripts",
		Short:         "Developer utilities for Python scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmds := DefineModes(root, []*mode.Mode{depsMode(), directMode()}, func(cmd *cobra.Command) {
		cmd.Use = fmt.Sprintf("%s <file> <package>", cmd.Use)
		cmd.Args = cobra.ExactArgs(2)
		cmd.Flags().Bool("relative", false, "return paths relative to the file's directory")
		cmd.Flags().StringSlice("search", nil, "directories the package is looked up under (default: the file's directory)")
	})

	cmds["deps"].Flags().Int("pool", deps.DefaultPoolSize, "number of expansion workers")
	cmds["deps"].Flags().Duration("timeout", 0, "abort the resolution after this duration")

	root.AddCommand(newProbeCommand())

	return root
}

func depsMode() *mode.Mode {
	return mode.New("deps",
		"Resolve the transitive dependencies of a Python file on a package",
		runDeps, nil)
}

func directMode() *mode.Mode {
	return mode.New("direct",
		"List only the direct dependencies of a Python file on a package",
		runDirect, nil)
}

func runDeps(opts mode.Options) error {
	args := Args(opts)
	file, pkg := args[0], args[1]

	var resolverOpts []deps.Option
	if pool, ok := opts["pool"].(int); ok {
		resolverOpts = append(resolverOpts, deps.WithPoolSize(pool))
	}
	if search, ok := opts["search"].([]string); ok {
		resolverOpts = append(resolverOpts, deps.WithSearchPaths(search...))
	}

	ctx := context.Background()
	if timeout, ok := opts["timeout"].(time.Duration); ok && timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	relative, _ := opts["relative"].(bool)

	paths, err := deps.NewResolver(pkg, resolverOpts...).Dependencies(ctx, file, relative)
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Println(p)
	}

	return nil
}

func runDirect(opts mode.Options) error {
	args := Args(opts)
	file, pkg := args[0], args[1]

	var search []string
	if s, ok := opts["search"].([]string); ok {
		search = s
	}

	relative, _ := opts["relative"].(bool)

	paths, err := deps.NewExtractor(pkg, search...).Direct(file, relative)
	if err != nil {
		return err
	}

	for _, p := range paths {
		fmt.Println(p)
	}

	return nil
}

// newProbeCommand wires the child side of the runner protocol. The
// command is hidden: it exists for the parent process, not for users.
func newProbeCommand() *cobra.Command {
	var (
		pkg    string
		search string
	)

	cmd := &cobra.Command{
		Use:    "probe <file>",
		Short:  "Extract direct dependencies and report them on stdout",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deps.RunProbe(cmd.OutOrStdout(), args[0], pkg, filepath.SplitList(search))
		},
	}

	cmd.Flags().StringVar(&pkg, "package", "", "package name to resolve against")
	cmd.Flags().StringVar(&search, "search", "", "search roots, separated like PATH")
	cmd.MarkFlagRequired("package")

	return cmd
}
