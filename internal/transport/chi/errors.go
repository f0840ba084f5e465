package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/bibdex/bibdex/internal/domain"
	"github.com/bibdex/bibdex/internal/logger"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeUnknownEntity    ErrorCode = "unknown_entity"
	CodeIndexNotFound    ErrorCode = "index_not_found"
	CodeEngineDown       ErrorCode = "search_engine_unavailable"
	CodeSearchFailed     ErrorCode = "search_failed"
	CodeInternalError    ErrorCode = "internal_error"
)

// GenericMessage is returned for every search engine failure.
const GenericMessage = "something went wrong processing your request"

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		detailHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrUnknownEntity, http.StatusNotFound, CodeUnknownEntity, domain.ErrUnknownEntity.Error()),
		sentinelHandler(domain.ErrIndexNotFound, http.StatusServiceUnavailable, CodeIndexNotFound, GenericMessage),
		sentinelHandler(domain.ErrSearchEngineUnavailable, http.StatusBadGateway, CodeEngineDown, GenericMessage),
		sentinelHandler(domain.ErrSearchEngineQuery, http.StatusInternalServerError, CodeSearchFailed, GenericMessage),
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error
// and answers with a fixed message.
func sentinelHandler(sentinel error, status int, code ErrorCode, msg string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// detailHandler is like sentinelHandler but exposes the error text, for client mistakes.
func detailHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Warn("domain error", zap.Error(err))
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, GenericMessage)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
