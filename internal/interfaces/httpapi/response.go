package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/football-history/internal/platform/logging"
	"github.com/riskibarqy/football-history/internal/usecase"
)

const (
	apiVersion  = "2.0"
	errorDomain = "football-history"

	// nginx's convention for a request the client abandoned.
	statusClientClosedRequest = 499
)

// envelope follows the Google JSON style guide: data on success, error
// otherwise, never both.
type envelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Errors  []errorItem `json:"errors,omitempty"`
}

type errorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type errorClass struct {
	httpStatus int
	reason     string
	status     string
}

var internalClass = errorClass{http.StatusInternalServerError, "internalError", "INTERNAL"}

// errorClasses is checked in order; the first sentinel the error wraps wins.
// ErrTimeout precedes ErrRemote because timeouts match both.
var errorClasses = []struct {
	target error
	class  errorClass
}{
	{context.Canceled, errorClass{statusClientClosedRequest, "cancelled", "CANCELLED"}},
	{usecase.ErrInvalidInput, errorClass{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrConfiguration, errorClass{http.StatusInternalServerError, "configuration", "FAILED_PRECONDITION"}},
	{usecase.ErrTimeout, errorClass{http.StatusGatewayTimeout, "upstreamTimeout", "DEADLINE_EXCEEDED"}},
	{usecase.ErrRemote, errorClass{http.StatusBadGateway, "upstreamError", "UNAVAILABLE"}},
}

func classifyError(err error) errorClass {
	for _, candidate := range errorClasses {
		if errors.Is(err, candidate.target) {
			return candidate.class
		}
	}
	return internalClass
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeEnvelope(ctx, w, status, envelope{APIVersion: apiVersion, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	class := classifyError(err)
	message := err.Error()
	if class == internalClass {
		logging.Default().ErrorContext(ctx, "request failed", "error", err)
	}
	writeEnvelope(ctx, w, class.httpStatus, errorEnvelope(class, message))
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeEnvelope(ctx, w, http.StatusInternalServerError, errorEnvelope(internalClass, "internal server error"))
}

func errorEnvelope(class errorClass, message string) envelope {
	return envelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    class.httpStatus,
			Message: message,
			Status:  class.status,
			Errors:  []errorItem{{Domain: errorDomain, Reason: class.reason, Message: message}},
		},
	}
}

// writeEnvelope encodes into a pooled buffer first so an encoding failure
// can still produce a clean 500 instead of a half-written body.
func writeEnvelope(ctx context.Context, w http.ResponseWriter, status int, body envelope) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(body); err != nil {
		logging.Default().ErrorContext(ctx, "encode response", "error", err)
		http.Error(w, `{"apiVersion":"`+apiVersion+`","error":{"code":500,"message":"internal server error","status":"INTERNAL"}}`, http.StatusInternalServerError)
		return
	}

	header := w.Header()
	header.Set("Content-Type", "application/json")
	header.Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, _ = w.Write(buf.B)
}
