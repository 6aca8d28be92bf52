package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DidierBrusa/tap-talk-api/internal/identity"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"go.uber.org/zap"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	identityKey
)

const requestIDHeader = "X-Request-ID"

// withRequestID propagates the caller's X-Request-ID or issues a new one.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// IdentityFrom returns the verified caller, if the request went through auth.
func IdentityFrom(ctx context.Context) (*identity.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*identity.Identity)
	return id, ok
}

// accessLog writes one zap entry per request through gorilla's logging handler.
func accessLog(logger *zap.Logger, next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p handlers.LogFormatterParams) {
		logger.Info("http request",
			zap.String("method", p.Request.Method),
			zap.String("path", p.URL.Path),
			zap.Int("status", p.StatusCode),
			zap.Int("size", p.Size),
			zap.Duration("duration", time.Since(p.TimeStamp)),
			zap.String("request_id", requestIDFrom(p.Request.Context())),
		)
	})
}

type recoveryLogger struct{ logger *zap.Logger }

func (l recoveryLogger) Println(v ...any) {
	l.logger.Error("panic recovered", zap.String("panic", fmt.Sprint(v...)))
}

// requireAuth rejects requests without a valid bearer token and stores the
// verified identity in the request context.
func requireAuth(verifier identity.Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := authenticate(w, r, verifier, logger)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
		})
	}
}

func authenticate(w http.ResponseWriter, r *http.Request, verifier identity.Verifier, logger *zap.Logger) (*identity.Identity, bool) {
	token, err := bearerToken(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token no proporcionado"})
		return nil, false
	}
	id, err := verifier.VerifyIdentity(r.Context(), token)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidToken) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token inválido o expirado"})
			return nil, false
		}
		logger.Error("token verification failed", zap.String("request_id", requestIDFrom(r.Context())), zap.Error(err))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Error de autenticación"})
		return nil, false
	}
	return id, true
}
