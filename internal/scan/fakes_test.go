package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
	"github.com/lakshaymaurya-felt/diskaudit/internal/core"
)

// fakeSizer returns canned sizes; unknown paths measure 0.
type fakeSizer struct {
	mu      sync.Mutex
	sizes   map[string]int64
	panicOn string
	calls   []string
}

func (f *fakeSizer) Size(_ context.Context, path string) int64 {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()
	if path == f.panicOn {
		panic("boom: " + path)
	}
	return f.sizes[path]
}

func (f *fakeSizer) probed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// fakeFinder returns canned matches per rule kind and canned children.
type fakeFinder struct {
	matches  map[config.RuleKind][]Match
	children map[string][]string
}

func (f *fakeFinder) Find(_ context.Context, _ string, rule config.Rule) []Match {
	return append([]Match{}, f.matches[rule.Kind]...)
}

func (f *fakeFinder) Children(_ context.Context, dir string) []string {
	return append([]string{}, f.children[dir]...)
}

type fakeContainers struct{ report ContainerReport }

func (f fakeContainers) Usage(context.Context) ContainerReport { return f.report }

type fakeDisk struct{ overview DiskOverview }

func (f fakeDisk) Usage(context.Context, string) DiskOverview { return f.overview }

// fakeRunner answers commands by program name.
type fakeRunner struct {
	mu      sync.Mutex
	results map[string]*core.Result
	errs    map[string]error
	calls   [][]string
}

func (f *fakeRunner) Run(_ context.Context, _ time.Duration, program string, args ...string) (*core.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{program}, args...))
	f.mu.Unlock()

	res := f.results[program]
	if err := f.errs[program]; err != nil {
		return res, err
	}
	if res == nil {
		return nil, fmt.Errorf("%s: unexpected call", program)
	}
	return res, nil
}
