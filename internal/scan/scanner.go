package scan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lakshaymaurya-felt/diskaudit/internal/config"
	"github.com/lakshaymaurya-felt/diskaudit/internal/core"
)

var (
	// ErrInvalidRoot is returned when the scan root is missing or is not a
	// directory. No work is started.
	ErrInvalidRoot = errors.New("invalid scan root")

	// ErrCanceled is returned when the caller's context ends before every
	// task has been dispatched. In-flight probes are allowed to finish.
	ErrCanceled = errors.New("scan canceled")
)

// State is the lifecycle of the most recent scan.
type State int32

const (
	StateIdle State = iota
	StateScanning
	StateComplete
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateComplete:
		return "complete"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EventKind says what a progress Event reports.
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventTaskStarted
	EventTaskFinished
)

// Event is a progress notification.
type Event struct {
	Kind  EventKind
	State State

	// Task names the probe or category; empty for state changes.
	Task string

	// Done and Total count finished tasks out of all tasks.
	Done  int
	Total int

	// Bytes is the measured total once a category task finishes.
	Bytes int64
}

// ProgressFunc receives progress events. Calls are serialized.
type ProgressFunc func(Event)

// Scanner runs scans. It holds only configuration and collaborators, so one
// Scanner may run any number of scans; each returns its own Snapshot.
type Scanner struct {
	cfg        config.ScanConfig
	categories []config.Category

	sizer      DirectorySizeSource
	finder     DirectoryFinder
	containers SubsystemUsageSource
	disk       DiskUsageSource
	runner     core.Runner

	log      *zap.Logger
	progress ProgressFunc
	emitMu   sync.Mutex
	state    atomic.Int32
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSizer replaces the size probe.
func WithSizer(s DirectorySizeSource) Option { return func(sc *Scanner) { sc.sizer = s } }

// WithFinder replaces path discovery.
func WithFinder(f DirectoryFinder) Option { return func(sc *Scanner) { sc.finder = f } }

// WithContainers replaces the container engine probe.
func WithContainers(c SubsystemUsageSource) Option { return func(sc *Scanner) { sc.containers = c } }

// WithDisk replaces the disk overview source.
func WithDisk(d DiskUsageSource) Option { return func(sc *Scanner) { sc.disk = d } }

// WithRunner sets the command runner used by the exec-based collaborators.
func WithRunner(r core.Runner) Option { return func(sc *Scanner) { sc.runner = r } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(sc *Scanner) {
		if l != nil {
			sc.log = l
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option { return func(sc *Scanner) { sc.progress = fn } }

// WithCategories overrides the category table.
func WithCategories(cats []config.Category) Option {
	return func(sc *Scanner) { sc.categories = cats }
}

// New creates a Scanner. Collaborators not supplied through options are
// chosen by cfg.Engine: in-process walkers for EngineNative, du and find
// for EngineExec. Docker is always queried through its CLI.
func New(cfg config.ScanConfig, paths config.Paths, opts ...Option) *Scanner {
	s := &Scanner{cfg: cfg, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	if s.categories == nil {
		s.categories = config.Categories(paths, cfg)
	}
	if s.runner == nil {
		s.runner = core.NewExecRunner()
	}

	switch cfg.Engine {
	case config.EngineExec:
		if s.sizer == nil {
			s.sizer = NewDuSizer(s.runner, cfg.SizeTimeout, s.log.Named("du"))
		}
		if s.finder == nil {
			s.finder = NewFindFinder(s.runner, cfg.FindTimeout, s.log.Named("find"))
		}
	default:
		if s.sizer == nil {
			s.sizer = NewWalkSizer(cfg.SizeTimeout, s.log.Named("walk"))
		}
		if s.finder == nil {
			s.finder = NewTreeFinder(nil, cfg.FindTimeout, s.log.Named("tree"))
		}
	}

	if s.containers == nil {
		s.containers = NewDockerProbe(s.runner, cfg.DockerTimeout, s.log.Named("docker"))
	}
	if s.disk == nil {
		s.disk = NewVolumeSource(cfg.DiskTimeout, s.log.Named("disk"))
	}
	return s
}

// State returns the state of the most recent scan.
func (s *Scanner) State() State {
	return State(s.state.Load())
}

func (s *Scanner) setState(st State) {
	s.state.Store(int32(st))
	s.emit(Event{Kind: EventStateChanged, State: st})
}

func (s *Scanner) emit(ev Event) {
	if s.progress == nil {
		return
	}
	s.emitMu.Lock()
	defer s.emitMu.Unlock()
	s.progress(ev)
}

// task is one independent unit of a scan. Each task writes only its own
// result slot.
type task struct {
	name string
	run  func(ctx context.Context) int64
}

// Scan measures every category under root and returns a complete snapshot.
//
// Only ErrInvalidRoot and ErrCanceled are returned. Every other failure is
// absorbed into the affected category as a zero result and logged.
func (s *Scanner) Scan(ctx context.Context, root string) (Snapshot, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		s.setState(StateFailed)
		return Snapshot{}, fmt.Errorf("%w: %s: %w", ErrInvalidRoot, root, err)
	}
	if !info.IsDir() {
		s.setState(StateFailed)
		return Snapshot{}, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}
	if err := ctx.Err(); err != nil {
		s.setState(StateFailed)
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCanceled, err)
	}

	started := time.Now()
	s.setState(StateScanning)
	s.log.Debug("scan started", zap.String("root", root), zap.Int("workers", s.cfg.Workers),
		zap.String("engine", string(s.cfg.Engine)))

	var (
		disk      DiskOverview
		container ContainerReport
		results   = make([]CategoryResult, len(s.categories))
	)

	tasks := []task{
		{name: "disk", run: func(ctx context.Context) int64 {
			disk = s.disk.Usage(ctx, root)
			return int64(disk.UsedBytes)
		}},
	}
	for i, cat := range s.categories {
		i, cat := i, cat
		kind := KindPaths
		if cat.Source == config.SourceSubsystem {
			kind = KindSubsystem
		}
		results[i] = CategoryResult{ID: cat.ID, Kind: kind, Items: []CategoryItem{}}

		tasks = append(tasks, task{name: string(cat.ID), run: func(ctx context.Context) int64 {
			if cat.Source == config.SourceSubsystem {
				container = s.containers.Usage(ctx)
				results[i] = subsystemResult(cat.ID, container)
			} else {
				results[i] = s.aggregate(ctx, root, cat)
			}
			return results[i].TotalBytes
		}})
	}

	// Probes keep their own timeouts but ignore the caller's cancellation;
	// cancellation is honored between tasks.
	probeCtx := context.WithoutCancel(ctx)

	var done atomic.Int64
	total := len(tasks)
	runOne := func(t task) {
		s.emit(Event{Kind: EventTaskStarted, State: StateScanning, Task: t.name, Done: int(done.Load()), Total: total})
		bytes := s.guard(probeCtx, t)
		s.log.Debug("task finished", zap.String("task", t.name), zap.String("size", core.FormatSize(bytes)))
		s.emit(Event{Kind: EventTaskFinished, State: StateScanning, Task: t.name,
			Done: int(done.Add(1)), Total: total, Bytes: bytes})
	}

	canceled := false
	if s.cfg.Workers <= 1 {
		for _, t := range tasks {
			if ctx.Err() != nil {
				canceled = true
				break
			}
			runOne(t)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.cfg.Workers)
		for _, t := range tasks {
			if ctx.Err() != nil {
				canceled = true
				break
			}
			t := t
			g.Go(func() error {
				runOne(t)
				return nil
			})
		}
		_ = g.Wait()
	}

	if canceled {
		s.log.Debug("scan canceled", zap.Int64("finished_tasks", done.Load()), zap.Int("tasks", total))
		s.setState(StateFailed)
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
	}

	elapsed := time.Since(started)
	snap := NewSnapshot(root, disk, container, results, started, elapsed)
	s.log.Debug("scan finished", zap.String("root", root), zap.Duration("elapsed", elapsed))
	s.setState(StateComplete)
	return snap, nil
}

// guard runs t and turns a panic into a zero result for that task only.
func (s *Scanner) guard(ctx context.Context, t task) (bytes int64) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("scan task panicked, reporting 0", zap.String("task", t.name), zap.Any("panic", r))
			bytes = 0
		}
	}()
	return t.run(ctx)
}

// aggregate dispatches cat to the aggregation matching its source.
func (s *Scanner) aggregate(ctx context.Context, root string, cat config.Category) CategoryResult {
	switch cat.Source {
	case config.SourceFixedPaths:
		return aggregateFixed(ctx, s.sizer, cat)
	case config.SourceDiscovery:
		return aggregateDiscovered(ctx, s.finder, s.sizer, root, cat)
	case config.SourceTopChildren:
		return aggregateTopChildren(ctx, s.finder, s.sizer, cat, s.cfg.TopProjects)
	default:
		s.log.Warn("unknown category source", zap.String("category", string(cat.ID)))
		return CategoryResult{ID: cat.ID, Items: []CategoryItem{}}
	}
}
