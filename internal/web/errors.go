package web

// errors.go turns handler errors into responses. The technical error is
// logged with the request ID; the client gets the mapped user message as
// JSON on /api routes and as an HTML page elsewhere.

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/JonMunkholm/entities/internal/core"
	"github.com/JonMunkholm/entities/internal/entity"
	"github.com/JonMunkholm/entities/internal/logging"
	"github.com/JonMunkholm/entities/internal/web/templates"
)

// errBadRequest marks failures in the request itself rather than in storage.
var errBadRequest = errors.New("bad request")

// ErrorResponse is the JSON body of API error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnknownFormat), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, core.ErrBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, entity.ErrParse):
		// Stored data that no longer decodes.
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the mapped user message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := core.MapError(err)
	if errors.Is(err, errBadRequest) {
		msg = core.UserMessage{
			Message: strings.TrimSuffix(err.Error(), ": "+errBadRequest.Error()),
			Action:  "Fix the request body and try again",
			Code:    "REQ000",
		}
	}

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	if strings.HasPrefix(r.URL.Path, "/api/") {
		s.writeJSON(w, r, status, ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ErrorPage(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render error page", "error", err)
	}
}

// badRequest wraps err so statusFor reports 400.
func badRequest(err error) error {
	return fmt.Errorf("%w: %w", err, errBadRequest)
}
