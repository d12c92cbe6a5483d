package telemetry

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// ProfilerConfig holds Pyroscope continuous profiling configuration
type ProfilerConfig struct {
	Enabled           bool
	ServerAddress     string
	ApplicationName   string
	BasicAuthUser     string
	BasicAuthPassword string
	// MutexProfileFraction and BlockProfileRate turn on the mutex and block
	// profiles when positive
	MutexProfileFraction int
	BlockProfileRate     int
}

// Profiler owns the Pyroscope session. A disabled profiler is a no-op.
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
	config   ProfilerConfig
	mu       sync.Mutex
	stopped  bool
}

// NewProfiler starts continuous profiling when cfg.Enabled
func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger, config: cfg}
	if !cfg.Enabled {
		logger.Info("continuous profiling disabled")
		return p, nil
	}
	if cfg.ServerAddress == "" {
		return nil, fmt.Errorf("profiler server address is required when profiling is enabled")
	}
	if cfg.ApplicationName == "" {
		return nil, fmt.Errorf("profiler application name is required when profiling is enabled")
	}

	if cfg.MutexProfileFraction > 0 {
		runtime.SetMutexProfileFraction(cfg.MutexProfileFraction)
	}
	if cfg.BlockProfileRate > 0 {
		runtime.SetBlockProfileRate(cfg.BlockProfileRate)
	}

	tags := map[string]string{}
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		tags["hostname"] = hostname
	}

	pcfg := pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          pyroscopeLogger{logger: logger.Named("pyroscope")},
		Tags:            tags,
		ProfileTypes:    profileTypes(cfg),
	}
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPassword != "" {
		pcfg.BasicAuthUser = cfg.BasicAuthUser
		pcfg.BasicAuthPassword = cfg.BasicAuthPassword
	}

	profiler, err := pyroscope.Start(pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}
	p.profiler = profiler

	logger.Info("continuous profiling enabled",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application_name", cfg.ApplicationName))
	return p, nil
}

// profileTypes always collects CPU, heap and goroutine profiles; mutex and
// block profiles follow their runtime rates.
func profileTypes(cfg ProfilerConfig) []pyroscope.ProfileType {
	types := []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocObjects,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileInuseObjects,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileGoroutines,
	}
	if cfg.MutexProfileFraction > 0 {
		types = append(types, pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration)
	}
	if cfg.BlockProfileRate > 0 {
		types = append(types, pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration)
	}
	return types
}

// Stop flushes pending profiles. Safe to call more than once.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.profiler == nil {
		p.stopped = true
		return nil
	}
	p.stopped = true
	if err := p.profiler.Stop(); err != nil {
		return fmt.Errorf("failed to stop profiler: %w", err)
	}
	return nil
}

// IsEnabled reports whether profiles are being sent
func (p *Profiler) IsEnabled() bool {
	return p.profiler != nil
}

type pyroscopeLogger struct {
	logger *zap.Logger
}

func (l pyroscopeLogger) Infof(format string, args ...any) {
	l.logger.Sugar().Infof(format, args...)
}

func (l pyroscopeLogger) Debugf(format string, args ...any) {
	l.logger.Sugar().Debugf(format, args...)
}

func (l pyroscopeLogger) Errorf(format string, args ...any) {
	l.logger.Sugar().Errorf(format, args...)
}
