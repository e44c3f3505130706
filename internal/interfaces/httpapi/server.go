package httpapi

import (
	"net/http"

	"github.com/riskibarqy/football-history/internal/platform/logging"
)

// RouterConfig carries the non-handler knobs of the router.
type RouterConfig struct {
	ServiceName        string
	CORSAllowedOrigins []string
}

func NewRouter(handler *Handler, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "football-history-http"
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	registerCompetitionRoutes(mux, handler)
	registerHistoryRoutes(mux, handler)

	return chain(mux,
		Tracing(cfg.ServiceName),
		RequestID(),
		AccessLog(logger),
		CORS(cfg.CORSAllowedOrigins),
		Recover(logger),
	)
}
