package deps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// probeMessage is the single message a probe child sends back to its
// parent before exiting. The Failed flag plays the role of the failure
// signal: a child that could not extract still reports an empty file
// list with Failed set, instead of dying without an answer.
type probeMessage struct {
	Files  []string `json:"files"`
	Failed bool     `json:"failed"`
	Error  string   `json:"error,omitempty"`
}

// Runner executes a direct-dependency extraction in a child OS process,
// so that probing a malformed or hostile entry file cannot corrupt the
// calling process. Results come back over a one-shot pipe carrying
// exactly one probeMessage.
type Runner struct {
	argv []string
}

// NewRunner returns a runner that re-executes the current binary in
// probe mode (the hidden "probe" command wired by the cli package).
func NewRunner() (*Runner, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate own executable: %w", err)
	}

	return &Runner{argv: []string{self, "probe"}}, nil
}

// NewRunnerCommand returns a runner spawning the given command instead
// of re-executing the current binary. The command must behave like the
// probe command: read the trailing arguments, write one probeMessage to
// stdout and exit.
func NewRunnerCommand(argv ...string) *Runner {
	return &Runner{argv: argv}
}

// Probe extracts the direct dependencies of a file in a child process
// and returns them as absolute paths. Any failure inside the child, a
// broken message channel, or expiry of the context is normalized into a
// ResolutionError naming the file.
func (r *Runner) Probe(ctx context.Context, file, pkg string, searchPaths []string) ([]string, error) {
	args := append([]string(nil), r.argv[1:]...)
	args = append(args, "--package", pkg)
	if len(searchPaths) > 0 {
		args = append(args, "--search", strings.Join(searchPaths, string(os.PathListSeparator)))
	}
	args = append(args, file)

	cmd := exec.CommandContext(ctx, r.argv[0], args...)
	cmd.Stderr = io.Discard

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &ResolutionError{File: file, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &ResolutionError{File: file, Err: err}
	}

	// Exactly one message, then join the child. Wait must run also
	// when decoding fails, or the child would be left behind.
	var msg probeMessage
	decodeErr := json.NewDecoder(stdout).Decode(&msg)
	waitErr := cmd.Wait()

	if err := ctx.Err(); err != nil {
		return nil, &ResolutionError{File: file, Err: err}
	}
	if decodeErr != nil {
		return nil, &ResolutionError{File: file, Err: fmt.Errorf("failed to read probe result: %w", decodeErr)}
	}
	if waitErr != nil {
		return nil, &ResolutionError{File: file, Err: fmt.Errorf("probe process failed: %w", waitErr)}
	}
	if msg.Failed {
		err := fmt.Errorf("probe failed")
		if msg.Error != "" {
			err = fmt.Errorf("probe failed: %s", msg.Error)
		}

		return nil, &ResolutionError{File: file, Err: err}
	}

	return msg.Files, nil
}
