package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerCompetitionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/competitions", handler.ListCompetitions)
}

func registerHistoryRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/history", handler.GetHistory)
	mux.HandleFunc("GET /v1/history/training", handler.GetTrainingRows)
	mux.HandleFunc("POST /v1/history/load", handler.LoadHistory)
	// Ingest can run for minutes: every fetched season is followed by the
	// configured request delay.
	mux.HandleFunc("POST /v1/history/ingest", handler.IngestHistory)
	mux.HandleFunc("POST /v1/history/refresh", handler.RefreshHistory)
}
