package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/tournament-admin/apiclient"
	"github.com/Dosada05/tournament-admin/services"
)

type jsonResponse map[string]any

func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // Паника, т.к. это ошибка программиста (передан не указатель)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	if err != nil {
		return err
	}

	return nil
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.Default().Error("failed to write error response", slog.String("path", r.URL.Path), slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.Default().Error("internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	errorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "the requested resource could not be found"
	}
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

// upstreamErrorResponse covers failures of the competition API itself.
func upstreamErrorResponse(w http.ResponseWriter, r *http.Request, status int, err error) {
	slog.Default().Warn("competition api failure",
		slog.String("path", r.URL.Path),
		slog.Int("upstream_status", apiclient.StatusCode(err)),
		slog.Any("error", err),
	)
	errorResponse(w, r, status, services.UserMessage(err))
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *services.ValidationError

	switch {
	case errors.As(err, &validationErr):
		failedValidationResponse(w, r, validationErr.Fields)
	case errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, apiclient.ErrBadRequest):
		errorResponse(w, r, http.StatusUnprocessableEntity, services.UserMessage(err))

	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrConfirmationNotFound):
		notFoundResponse(w, r, err.Error())
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrSetNotFound),
		errors.Is(err, services.ErrActionNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, apiclient.ErrNotFound):
		notFoundResponse(w, r, services.UserMessage(err))

	// Конфликты состояния
	case errors.Is(err, services.ErrSetConflict),
		errors.Is(err, services.ErrMatchNotPending),
		errors.Is(err, services.ErrSessionClosed),
		errors.Is(err, services.ErrSessionNotActive),
		errors.Is(err, services.ErrNoOpenSet),
		errors.Is(err, apiclient.ErrConflict):
		conflictResponse(w, r, services.UserMessage(err))
	case errors.Is(err, services.ErrConfirmationExpired):
		errorResponse(w, r, http.StatusGone, err.Error())

	case errors.Is(err, apiclient.ErrUnauthorized):
		unauthorizedResponse(w, r, services.UserMessage(err))
	case errors.Is(err, services.ErrArchiveDisabled):
		errorResponse(w, r, http.StatusNotImplemented, err.Error())

	case errors.Is(err, apiclient.ErrTransient):
		upstreamErrorResponse(w, r, http.StatusServiceUnavailable, err)
	case errors.Is(err, apiclient.ErrServer),
		errors.Is(err, services.ErrPointsNotSaved):
		upstreamErrorResponse(w, r, http.StatusBadGateway, err)

	default:
		serverErrorResponse(w, r, err)
	}
}

// Общая вспомогательная функция для извлечения ID из URL
func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, id)
	}
	return id, nil
}

// optionalQueryID parses a positive integer query parameter; absent means nil.
func optionalQueryID(r *http.Request, name string) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid %s query parameter", name)
	}
	return &id, nil
}
