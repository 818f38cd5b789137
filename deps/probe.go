package deps

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mramospe/pyscripts/redirect"
)

// RunProbe is the child side of the Runner protocol: extract the direct
// dependencies of file as absolute paths and write exactly one
// probeMessage to w. Extraction failures are folded into the message
// rather than returned, so the parent always receives an answer; the
// returned error only covers failures to deliver the message itself.
//
// Standard output is silenced while the extraction runs, keeping any
// incidental output off the channel the message travels on.
func RunProbe(w io.Writer, file, pkg string, searchPaths []string) error {
	var files []string

	_, err := redirect.Capture(redirect.Stdout, func() error {
		var err error
		files, err = NewExtractor(pkg, searchPaths...).Direct(file, false)

		return err
	})

	msg := probeMessage{Files: files}
	if err != nil {
		msg = probeMessage{Failed: true, Error: err.Error()}
	}

	if err := json.NewEncoder(w).Encode(msg); err != nil {
		return fmt.Errorf("failed to send probe result: %w", err)
	}

	return nil
}
