package deps

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
)

// Resolver computes the transitive closure of a file's dependencies on
// a package. The seed file is probed through an isolated Runner; every
// round after that expands the frontier in-process, in parallel across
// a bounded worker pool.
type Resolver struct {
	pkg      string
	search   []string
	poolSize int
	runner   *Runner
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPoolSize sets the number of expansion workers.
func WithPoolSize(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.poolSize = n
		}
	}
}

// WithSearchPaths sets the roots the package is looked up under. The
// default is the directory of the seed file.
func WithSearchPaths(paths ...string) Option {
	return func(r *Resolver) { r.search = absolutePaths(paths) }
}

// WithRunner replaces the runner used for the seed probe.
func WithRunner(runner *Runner) Option {
	return func(r *Resolver) { r.runner = runner }
}

// NewResolver builds a resolver for the given package name.
func NewResolver(pkg string, opts ...Option) *Resolver {
	r := &Resolver{pkg: pkg, poolSize: DefaultPoolSize}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Dependencies returns every file of the package that the given file
// depends on, directly or indirectly. The result is a set: membership
// is deterministic, enumeration order is not part of the contract
// (paths come back sorted purely for convenience).
//
// A seed file that cannot be probed yields a ResolutionError naming it
// and no partial results. Errors discovered while expanding already
// known package files propagate as they are and abort the resolution.
func (r *Resolver) Dependencies(ctx context.Context, file string, relative bool) ([]string, error) {
	seed, err := filepath.Abs(file)
	if err != nil {
		return nil, &ResolutionError{File: file, Err: err}
	}

	roots := r.search
	if len(roots) == 0 {
		roots = []string{filepath.Dir(seed)}
	}

	runner := r.runner
	if runner == nil {
		runner, err = NewRunner()
		if err != nil {
			return nil, &ResolutionError{File: file, Err: err}
		}
	}

	seedDeps, err := runner.Probe(ctx, seed, r.pkg, roots)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(seedDeps))
	frontier := make([]string, 0, len(seedDeps))
	for _, d := range seedDeps {
		if _, ok := known[d]; !ok {
			known[d] = struct{}{}
			frontier = append(frontier, d)
		}
	}

	extractor := NewExtractor(r.pkg, roots...)

	// Fixed point: stop once an expansion round discovers nothing new.
	for len(frontier) > 0 {
		candidate, err := r.expand(extractor, frontier)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for d := range candidate {
			if _, ok := known[d]; !ok {
				known[d] = struct{}{}
				frontier = append(frontier, d)
			}
		}
	}

	paths := make([]string, 0, len(known))
	for p := range known {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	if relative {
		return relativeTo(filepath.Dir(seed), paths)
	}

	return paths, nil
}

// expand computes the union of the direct dependencies of every file in
// the frontier. The first worker error aborts the round.
func (r *Resolver) expand(extractor *Extractor, frontier []string) (map[string]struct{}, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	candidate := make(map[string]struct{})
	jobs := make(chan string)

	workers := r.poolSize
	if workers > len(frontier) {
		workers = len(frontier)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for file := range jobs {
				found, err := extractor.Direct(file, false)

				mu.Lock()
				if err != nil {
					if firstErr == nil {
						firstErr = err
					}
				} else {
					for _, d := range found {
						candidate[d] = struct{}{}
					}
				}
				mu.Unlock()
			}
		}()
	}

	for _, file := range frontier {
		jobs <- file
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	return candidate, nil
}
