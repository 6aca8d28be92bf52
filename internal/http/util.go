package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/DidierBrusa/tap-talk-api/internal/apperr"
	"github.com/DidierBrusa/tap-talk-api/internal/validation"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers {"error": msg} with the status of err's kind. Only
// server-side failures are logged at error level.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, op string, err error) {
	status := apperr.HTTPStatus(apperr.KindOf(err))
	fields := []zap.Field{zap.String("op", op), zap.String("request_id", requestIDFrom(r.Context())), zap.Error(err)}
	if status >= http.StatusInternalServerError {
		logger.Error(op+" failed", fields...)
	} else {
		logger.Debug(op+" rejected", fields...)
	}
	writeJSON(w, status, map[string]string{"error": apperr.PublicMessage(err)})
}

// decodeBody validates the request body against schemaID and unmarshals it into out.
func decodeBody(r *http.Request, v *validation.Validator, schemaID string, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apperr.Validation("No se pudo leer el cuerpo de la solicitud").Wrap(err)
	}
	if err := v.ValidateBytes(body, schemaID); err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Validation("El cuerpo de la solicitud no es JSON válido").Wrap(err)
	}
	return nil
}

// pathID parses a positive integer path variable.
func pathID(r *http.Request, name string) (int64, error) {
	return parsePositiveID(mux.Vars(r)[name], name)
}

func parsePositiveID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidIdentifier("%s inválido: %q", name, raw)
	}
	return id, nil
}

// queryID parses an optional positive integer query parameter.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := parsePositiveID(raw, name)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// optional distinguishes an absent JSON field from an explicit null.
type optional[T any] struct {
	Set   bool
	Value *T
}

func (o *optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// identificadorFrom accepts an auxiliar reference sent either as the external
// id string or as the internal numeric id.
func identificadorFrom(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String(), nil
	}
	return "", apperr.InvalidIdentifier("auxiliar_id inválido")
}

func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errMissingToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	if token == "" {
		return "", errMissingToken
	}
	return token, nil
}

var errMissingToken = errors.New("missing bearer token")

// listOrEmpty keeps empty listings encoded as [] rather than null.
func listOrEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
