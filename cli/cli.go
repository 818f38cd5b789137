// Package cli turns modes into cobra subcommands: one command per
// mode, and the options parsed on the command line become the mode's
// invocation arguments.
package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mramospe/pyscripts/mode"
)

// ArgsOption is the option key the positional arguments are passed
// under when a mode is invoked from the command line.
const ArgsOption = "args"

// DefineModes registers one subcommand per mode on the root command.
// The mode's name and doc string become the command's use line and
// help. When apply is non-nil it is called on every created command,
// which is the place to declare flags shared by all modes.
//
// On execution, flags explicitly set on the command line are handed to
// the mode as options (flags left at their defaults are omitted, so
// they cannot collide with the mode's own bound defaults), and the
// positional arguments travel under ArgsOption.
func DefineModes(root *cobra.Command, modes []*mode.Mode, apply func(*cobra.Command)) map[string]*cobra.Command {
	cmds := make(map[string]*cobra.Command, len(modes))

	for _, m := range modes {
		cmd := &cobra.Command{
			Use:   m.Name(),
			Short: m.Doc(),
			RunE: func(cmd *cobra.Command, args []string) error {
				opts := OptionsFromFlags(cmd.Flags())
				opts[ArgsOption] = args

				return m.Call(opts)
			},
		}

		if apply != nil {
			apply(cmd)
		}

		root.AddCommand(cmd)
		cmds[m.Name()] = cmd
	}

	return cmds
}

// OptionsFromFlags converts the flags explicitly set on the command
// line into mode options, preserving native types where pflag exposes
// them.
func OptionsFromFlags(fs *pflag.FlagSet) mode.Options {
	opts := mode.Options{}

	fs.Visit(func(f *pflag.Flag) {
		switch f.Value.Type() {
		case "bool":
			v, _ := fs.GetBool(f.Name)
			opts[f.Name] = v
		case "int":
			v, _ := fs.GetInt(f.Name)
			opts[f.Name] = v
		case "duration":
			v, _ := fs.GetDuration(f.Name)
			opts[f.Name] = v
		case "stringSlice":
			v, _ := fs.GetStringSlice(f.Name)
			opts[f.Name] = v
		default:
			opts[f.Name] = f.Value.String()
		}
	})

	return opts
}

// Args extracts the positional arguments from a mode's options.
func Args(opts mode.Options) []string {
	args, _ := opts[ArgsOption].([]string)
	return args
}
