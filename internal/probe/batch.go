package probe

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Func probes one file. [Probe] is the production implementation.
type Func func(ctx context.Context, path string) (*Metadata, error)

// Result is the outcome of probing one path.
type Result struct {
	Path string
	Meta *Metadata
	Err  error
}

// ProbeAll probes paths with at most limit concurrent ffprobe processes.
// Results are in input order; a failure for one file does not stop the
// others. Paths not yet started when ctx is canceled get ctx's error.
func ProbeAll(ctx context.Context, paths []string, limit int) []Result {
	return ProbeAllWith(ctx, paths, limit, Probe)
}

// ProbeAllWith is ProbeAll with a custom probe function.
func ProbeAllWith(ctx context.Context, paths []string, limit int, fn Func) []Result {
	results := make([]Result, len(paths))
	if limit < 1 {
		limit = 1
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, p := range paths {
		results[i].Path = p
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Meta, results[i].Err = fn(ctx, p)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
