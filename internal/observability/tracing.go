package observability

import (
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/riskibarqy/football-history/internal/config"
)

func (s *Stack) startTracing(cfg config.Config) error {
	switch {
	case !cfg.UptraceEnabled:
		s.logger.Info("tracing disabled", "reason", "UPTRACE_ENABLED=false")
		return nil
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		s.logger.Info("tracing disabled", "reason", "UPTRACE_DSN empty")
		return nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)
	s.add("uptrace", uptrace.Shutdown)

	s.logger.Info("tracing enabled", "exporter", "uptrace", "service_name", cfg.ServiceName, "environment", cfg.AppEnv)
	return nil
}
