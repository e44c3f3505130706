// Package observability starts the tracing and profiling side channels of a
// process and stops them in reverse order.
package observability

import (
	"context"
	"errors"

	"github.com/riskibarqy/football-history/internal/config"
	"github.com/riskibarqy/football-history/internal/platform/logging"
)

// Stack is the set of running telemetry components.
type Stack struct {
	logger *logging.Logger
	stops  []component
}

type component struct {
	name string
	stop func(context.Context) error
}

// Start brings up tracing, continuous profiling and the pprof listener,
// each only when enabled in cfg.
func Start(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	s := newStack(logger)
	for _, start := range []func(config.Config) error{s.startTracing, s.startPyroscope, s.startPprof} {
		if err := start(cfg); err != nil {
			_ = s.Shutdown(context.Background())
			return nil, err
		}
	}
	return s, nil
}

// StartTracing brings up tracing only, for short-lived commands.
func StartTracing(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	s := newStack(logger)
	if err := s.startTracing(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func newStack(logger *logging.Logger) *Stack {
	if logger == nil {
		logger = logging.Default()
	}
	return &Stack{logger: logger}
}

func (s *Stack) add(name string, stop func(context.Context) error) {
	s.stops = append(s.stops, component{name: name, stop: stop})
}

// Shutdown stops every started component, last started first.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.stops) - 1; i >= 0; i-- {
		c := s.stops[i]
		if err := c.stop(ctx); err != nil {
			s.logger.Warn("stop "+c.name+" failed", "error", err)
			errs = append(errs, err)
			continue
		}
		s.logger.Debug(c.name + " stopped")
	}
	s.stops = nil
	return errors.Join(errs...)
}
