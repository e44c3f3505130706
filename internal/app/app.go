package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/football-history/external/footballdata"
	"github.com/riskibarqy/football-history/internal/config"
	"github.com/riskibarqy/football-history/internal/domain/competition"
	"github.com/riskibarqy/football-history/internal/interfaces/httpapi"
	"github.com/riskibarqy/football-history/internal/platform/cache"
	idgen "github.com/riskibarqy/football-history/internal/platform/id"
	"github.com/riskibarqy/football-history/internal/platform/logging"
	"github.com/riskibarqy/football-history/internal/usecase"
)

// Services is the wired object graph shared by the HTTP server and the CLI.
type Services struct {
	Config       config.Config
	Client       *footballdata.Client
	Competitions *usecase.CompetitionService
	History      *usecase.HistoryService
	Datasets     *usecase.DatasetService

	closeStore func() error
}

func NewServices(ctx context.Context, cfg config.Config, secrets config.SecretProvider, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	client := footballdata.NewClient(footballdata.ClientConfig{
		BaseURL:        cfg.FootballDataBaseURL,
		Secrets:        secrets,
		Timeout:        cfg.FootballDataTimeout,
		Logger:         logger,
		CircuitBreaker: cfg.FootballDataCircuit,
	})

	repo, closeStore, err := OpenHistoryStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	history := usecase.NewHistoryService(client, idgen.NewRandomGenerator(), logger)
	competitions := usecase.NewCompetitionService(
		client,
		cache.NewStore[[]competition.Summary](cfg.CompetitionsCacheTTL),
		cfg.FootballDataDefaultCodes,
		logger,
	)

	return &Services{
		Config:       cfg,
		Client:       client,
		Competitions: competitions,
		History:      history,
		Datasets:     usecase.NewDatasetService(repo, history, logger),
		closeStore:   closeStore,
	}, nil
}

func (s *Services) Close() error {
	if s == nil || s.closeStore == nil {
		return nil
	}
	return s.closeStore()
}

// NewHTTPServer builds the control surface server. The returned cleanup
// releases the history store.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	services, err := NewServices(ctx, cfg, config.EnvSecrets{}, logger)
	if err != nil {
		return nil, nil, err
	}

	handler := httpapi.NewHandler(
		services.Competitions,
		usecase.NewHistorySession(services.Datasets),
		httpapi.Defaults{
			Codes:        cfg.FootballDataDefaultCodes,
			RequestDelay: cfg.FootballDataRequestDelay,
		},
		logger,
	)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		ServiceName:        cfg.ServiceName + "-http",
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	return server, services.Close, nil
}
