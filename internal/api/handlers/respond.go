package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/dom/lightprompt/internal/api/middleware"
	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/logger"
	"github.com/dom/lightprompt/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
)

var validate = newValidator()

// newValidator reports fields by their JSON name
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func respondMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	respondJSON(w, r, status, ErrorResponse{Error: msg})
}

// respondError maps service and storage errors to a status code. Anything it
// does not recognise is logged and reported as a 500.
func respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"op", op,
			"requestId", chiMiddleware.GetReqID(r.Context()),
			logger.Err(err))
	} else {
		slog.Debug("request rejected", "op", op, "status", status, logger.Err(err))
	}
	respondMessage(w, r, status, msg)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrEmailExists),
		errors.Is(err, domain.ErrAccessCodeRedeemed):
		return http.StatusConflict, err.Error()
	case service.IsUniqueViolation(err):
		return http.StatusConflict, "already exists"
	case errors.Is(err, domain.ErrAccessCodeExpired):
		return http.StatusGone, err.Error()
	case errors.Is(err, service.ErrTokenLimitReached):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrNotImplemented):
		return http.StatusNotImplemented, err.Error()
	case errors.Is(err, service.ErrInvalidTier),
		errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrEmptyMessage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}

// decode reads a JSON body into dst and validates it. An empty body decodes
// as {}. On failure the 400 has already been written.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil && !errors.Is(err, io.EOF) {
		respondMessage(w, r, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			respondMessage(w, r, http.StatusBadRequest, err.Error())
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
		respondJSON(w, r, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: fields})
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "is invalid"
}

// caller returns the authenticated user id. Routes behind middleware.Auth
// always have one.
func caller(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondMessage(w, r, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return id.UserID, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondMessage(w, r, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads a non-negative integer query parameter, using def when it is absent
func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		respondMessage(w, r, http.StatusBadRequest, fmt.Sprintf("%s must be a non-negative integer", name))
		return 0, false
	}
	return n, true
}
