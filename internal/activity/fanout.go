package activity

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

type namedRecorder struct {
	name string
	r    Recorder
}

// Fanout writes every entry to all of its recorders concurrently.
type Fanout struct {
	sinks []namedRecorder
}

func NewFanout() *Fanout {
	return &Fanout{}
}

// Add registers a recorder under a name used in error messages.
func (f *Fanout) Add(name string, r Recorder) {
	f.sinks = append(f.sinks, namedRecorder{name: name, r: r})
}

// Sinks returns the registered recorder names.
func (f *Fanout) Sinks() []string {
	names := make([]string, len(f.sinks))
	for i, s := range f.sinks {
		names[i] = s.name
	}
	return names
}

// Record waits for every recorder. A failing recorder does not stop the
// others; all failures are reported together.
func (f *Fanout) Record(ctx context.Context, e Entry) error {
	errs := make([]error, len(f.sinks))
	var g errgroup.Group
	for i, s := range f.sinks {
		i, s := i, s
		g.Go(func() error {
			if err := s.r.Record(ctx, e); err != nil {
				errs[i] = fmt.Errorf("%s: %w", s.name, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// Close closes every recorder that holds a connection.
func (f *Fanout) Close() error {
	var errs []error
	for _, s := range f.sinks {
		if c, ok := s.r.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", s.name, err))
			}
		}
	}
	return errors.Join(errs...)
}
