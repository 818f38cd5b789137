package persist

import (
	"fmt"

	"github.com/mramospe/pyscripts/mode"
)

// DirArg couples an option key with the root path whose Dir gets
// injected under that key when a mode runs.
type DirArg struct {
	// Key is the option name the Dir is injected under.
	Key string
	// Path is the persistence root.
	Path string
	// UseModeName appends the mode's name to Path, giving every mode
	// sharing the same root its own subdirectory.
	UseModeName bool
}

// WithDir wraps a mode so it receives a Dir in its options. The wrapped
// mode fails when the option key is already supplied, so persistence
// directories cannot be silently overridden from the command line.
func WithDir(m *mode.Mode, arg DirArg) *mode.Mode {
	return WithDirs(m, arg)
}

// WithDirs is WithDir for several directories at once.
func WithDirs(m *mode.Mode, args ...DirArg) *mode.Mode {
	name := m.Name()

	return m.Wrap(func(fn mode.Func) mode.Func {
		return func(opts mode.Options) error {
			for _, arg := range args {
				if _, ok := opts[arg.Key]; ok {
					return fmt.Errorf("option %q is reserved for a persistence directory but was given as an input", arg.Key)
				}

				path := arg.Path
				if arg.UseModeName {
					path = fmt.Sprintf("%s/%s", path, name)
				}

				dir, err := New(path)
				if err != nil {
					return err
				}
				opts[arg.Key] = dir
			}

			return fn(opts)
		}
	})
}
