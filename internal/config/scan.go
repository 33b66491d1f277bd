package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/docker/go-units"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid configuration")

// Engine selects how sizes are measured and paths discovered.
type Engine string

const (
	// EngineNative walks the filesystem in-process.
	EngineNative Engine = "native"

	// EngineExec shells out to du and find.
	EngineExec Engine = "exec"
)

// ScanConfig holds the tunables of one scan.
type ScanConfig struct {
	// Per-operation ceilings. A probe that exceeds its ceiling reports zero.
	SizeTimeout   time.Duration
	FindTimeout   time.Duration
	DockerTimeout time.Duration
	DiskTimeout   time.Duration

	// Maximum discovery depth per rule (root = depth 0).
	NodeModulesDepth int
	VenvDepth        int
	ModelDepth       int

	// ModelMinSize is the strict lower bound for a model file, in bytes.
	ModelMinSize    int64
	ModelExtensions []string

	// TopProjects caps the project ranking.
	TopProjects int

	// Workers bounds how many categories are scanned at once; 1 is sequential.
	Workers int

	Engine Engine
}

// DefaultScanConfig returns the baseline settings.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		SizeTimeout:      60 * time.Second,
		FindTimeout:      60 * time.Second,
		DockerTimeout:    15 * time.Second,
		DiskTimeout:      5 * time.Second,
		NodeModulesDepth: 6,
		VenvDepth:        8,
		ModelDepth:       10,
		ModelMinSize:     100 * 1024 * 1024,
		ModelExtensions:  []string{".pt", ".pkl", ".h5", ".ckpt", ".safetensors", ".bin"},
		TopProjects:      10,
		Workers:          1,
		Engine:           EngineNative,
	}
}

// Environment variables read by FromEnv.
const (
	EnvSizeTimeout   = "DISKAUDIT_SIZE_TIMEOUT"
	EnvFindTimeout   = "DISKAUDIT_FIND_TIMEOUT"
	EnvDockerTimeout = "DISKAUDIT_DOCKER_TIMEOUT"
	EnvWorkers       = "DISKAUDIT_WORKERS"
	EnvModelMinSize  = "DISKAUDIT_MODEL_MIN_SIZE"
	EnvTopProjects   = "DISKAUDIT_TOP_PROJECTS"
	EnvEngine        = "DISKAUDIT_ENGINE"
)

// FromEnv overlays environment overrides on cfg. Durations use Go syntax
// ("30s", "2m"); the model size accepts a byte count or a suffixed value
// such as "250MB".
func FromEnv(cfg ScanConfig) (ScanConfig, error) {
	var errs []error

	durations := []struct {
		env string
		dst *time.Duration
	}{
		{EnvSizeTimeout, &cfg.SizeTimeout},
		{EnvFindTimeout, &cfg.FindTimeout},
		{EnvDockerTimeout, &cfg.DockerTimeout},
	}
	for _, d := range durations {
		v := strings.TrimSpace(os.Getenv(d.env))
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.env, err))
			continue
		}
		*d.dst = parsed
	}

	ints := []struct {
		env string
		dst *int
	}{
		{EnvWorkers, &cfg.Workers},
		{EnvTopProjects, &cfg.TopProjects},
	}
	for _, i := range ints {
		v := strings.TrimSpace(os.Getenv(i.env))
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", i.env, err))
			continue
		}
		*i.dst = parsed
	}

	if v := strings.TrimSpace(os.Getenv(EnvModelMinSize)); v != "" {
		parsed, err := ParseByteSize(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvModelMinSize, err))
		} else {
			cfg.ModelMinSize = parsed
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvEngine)); v != "" {
		cfg.Engine = Engine(strings.ToLower(v))
	}

	if len(errs) > 0 {
		return cfg, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return cfg, nil
}

// Validate rejects settings that would make a scan meaningless.
func (c ScanConfig) Validate() error {
	switch {
	case c.SizeTimeout <= 0 || c.FindTimeout <= 0 || c.DockerTimeout <= 0 || c.DiskTimeout <= 0:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	case c.NodeModulesDepth < 1 || c.VenvDepth < 1 || c.ModelDepth < 1:
		return fmt.Errorf("%w: discovery depths must be at least 1", ErrInvalidConfig)
	case c.ModelMinSize < 0:
		return fmt.Errorf("%w: model size threshold must not be negative", ErrInvalidConfig)
	case c.TopProjects < 1:
		return fmt.Errorf("%w: top projects must be at least 1", ErrInvalidConfig)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	case c.Engine != EngineNative && c.Engine != EngineExec:
		return fmt.Errorf("%w: unknown engine %q", ErrInvalidConfig, c.Engine)
	}
	return nil
}

// ParseByteSize parses a user-supplied size such as "100MB", "2G", or "4096"
// with binary multipliers. Malformed input is reported, not read as zero.
func ParseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	v, err := units.RAMInBytes(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return v, nil
}
