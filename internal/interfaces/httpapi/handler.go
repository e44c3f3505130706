package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/football-history/internal/domain/competition"
	"github.com/riskibarqy/football-history/internal/platform/logging"
	"github.com/riskibarqy/football-history/internal/usecase"
)

var strictJSON = sonic.Config{DisallowUnknownFields: true}.Froze()

const (
	maxRequestBodyBytes = 64 << 10
	maxPreviewRows      = 1000
)

// Defaults fills the parts of an ingest request a caller leaves out.
type Defaults struct {
	Codes        []string
	RequestDelay time.Duration
}

type Handler struct {
	competitions *usecase.CompetitionService
	session      *usecase.HistorySession
	defaults     Defaults
	logger       *logging.Logger
	validator    *validator.Validate
	now          func() time.Time
}

func NewHandler(
	competitions *usecase.CompetitionService,
	session *usecase.HistorySession,
	defaults Defaults,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if len(defaults.Codes) == 0 {
		defaults.Codes = competition.DefaultCodes
	}

	return &Handler{
		competitions: competitions,
		session:      session,
		defaults:     defaults,
		logger:       logger,
		validator:    validator.New(),
		now:          time.Now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListCompetitions")
	defer span.End()

	catalog, err := h.competitions.Catalog(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list competitions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	now := h.now()
	writeSuccess(ctx, w, http.StatusOK, catalogToDTO(catalog, usecase.DefaultSeasons(now), usecase.SeasonOptions(now), h.defaults.RequestDelay))
}

func (h *Handler) LoadHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "LoadHistory")
	defer span.End()

	summary, err := h.session.Load(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "load history failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summaryToDTO(summary))
}

func (h *Handler) IngestHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "IngestHistory")
	defer span.End()

	var req ingestRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.IngestInput{
		Codes:   req.Codes,
		Seasons: req.Seasons,
		Delay:   h.defaults.RequestDelay,
	}
	if len(input.Codes) == 0 {
		input.Codes = h.defaults.Codes
	}
	if len(input.Seasons) == 0 {
		input.Seasons = usecase.DefaultSeasons(h.now())
	}
	if req.DelaySeconds != nil {
		input.Delay = time.Duration(*req.DelaySeconds * float64(time.Second))
	}

	report, summary, err := h.session.Ingest(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "ingest history failed", "codes", input.Codes, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, ingestResultDTO{
		Report:  ingestReportToDTO(report),
		Summary: summaryToDTO(summary),
	})
}

func (h *Handler) RefreshHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "RefreshHistory")
	defer span.End()

	var req refreshRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, summary, err := h.session.Refresh(ctx, usecase.RefreshInput{Codes: req.Codes})
	if err != nil {
		h.logger.WarnContext(ctx, "refresh history failed", "codes", req.Codes, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, refreshResultDTO{
		Report:  refreshReportToDTO(report),
		Summary: summaryToDTO(summary),
	})
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetHistory")
	defer span.End()

	limit, err := parseLimit(r.URL.Query().Get("limit"), usecase.DefaultPreviewRows)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summaryToDTO(h.session.Summary(limit)))
}

func (h *Handler) GetTrainingRows(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetTrainingRows")
	defer span.End()

	rows, ok := h.session.TrainingRows()
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: no dataset loaded; load, ingest or refresh first", usecase.ErrInvalidInput))
		return
	}

	items := make([]trainingRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, trainingRowToDTO(row))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// decodeJSONBody accepts an empty body as an empty request.
func decodeJSONBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(raw) > maxRequestBodyBytes {
		return fmt.Errorf("%w: request body too large", usecase.ErrInvalidInput)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil
	}

	if err := strictJSON.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func parseLimit(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", usecase.ErrInvalidInput)
	}
	return min(limit, maxPreviewRows), nil
}

