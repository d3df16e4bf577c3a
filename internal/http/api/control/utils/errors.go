package utils

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/boreas/internal/db"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api"
	"github.com/Nixie-Tech-LLC/boreas/internal/schedule"
)

// ErrorFor maps domain and store errors onto an APIError.
func ErrorFor(err error) *api.APIError {
	switch {
	case errors.Is(err, schedule.ErrInvalidDay),
		errors.Is(err, schedule.ErrMissingField),
		errors.Is(err, schedule.ErrInvalidRange),
		errors.Is(err, schedule.ErrInvalidTime),
		errors.Is(err, schedule.ErrInvalidMode):
		return &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, db.ErrNotFound):
		return &api.APIError{Code: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, db.ErrConflict):
		return &api.APIError{Code: http.StatusConflict, Message: err.Error()}
	}
	log.Error().Err(err).Msg("request failed")
	return &api.APIError{Code: http.StatusInternalServerError, Message: "internal server error"}
}

// BindingError turns a request binding failure into a 400 naming the failed fields.
func BindingError(err error) *api.APIError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	fields := make([]string, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	sort.Strings(fields)
	return &api.APIError{Code: http.StatusBadRequest, Message: "invalid request: " + strings.Join(fields, ", ")}
}
