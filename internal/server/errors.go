package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexanderramin/dretree/internal/contract"
	"github.com/alexanderramin/dretree/internal/repository"
	"github.com/alexanderramin/dretree/internal/service"
)

var (
	errBadRequest    = errors.New("bad request")
	errRouteNotFound = errors.New("route not found")
)

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidBatch):
		return http.StatusUnprocessableEntity, contract.CodeInvalidBatch
	case errors.Is(err, service.ErrInvalidContext):
		return http.StatusBadRequest, contract.CodeInvalidContext
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, contract.CodeBadRequest
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, errRouteNotFound):
		return http.StatusNotFound, contract.CodeNotFound
	default:
		return http.StatusInternalServerError, contract.CodeInternal
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "http_internal_error",
			"request_id", RequestID(r.Context()),
			"path", r.URL.Path,
			"error", err.Error(),
		)
		msg = "internal error"
	}
	writeJSON(w, status, contract.ErrorResponse{Code: code, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
